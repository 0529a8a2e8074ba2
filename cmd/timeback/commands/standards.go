package commands

import (
	"context"
	"io"
	"strconv"

	"github.com/fivetwenty-io/timeback/pkg/timeback"
	"github.com/spf13/cobra"
)

// NewCASECommand creates the CASE command group.
func NewCASECommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "case",
		Aliases: []string{"standards"},
		Short:   "Browse CASE competency frameworks",
		Long:    "Read competency framework documents, items, associations and packages",
	}

	documents := &cobra.Command{
		Use:     "documents",
		Aliases: []string{"document", "docs"},
		Short:   "Framework documents",
	}
	documents.AddCommand(newCASEDocumentsListCommand())
	documents.AddCommand(newCASEDocumentsSearchCommand())
	documents.AddCommand(newCASEDocumentsGetCommand())
	documents.AddCommand(newCASEDocumentItemsCommand())
	documents.AddCommand(newCASEDocumentAssociationsCommand())

	items := &cobra.Command{
		Use:     "items",
		Aliases: []string{"item"},
		Short:   "Framework items",
	}
	items.AddCommand(newCASEItemsGetCommand())

	cmd.AddCommand(documents, items, newCASEPackageCommand())

	return cmd
}

func newCASEDocumentsListCommand() *cobra.Command {
	var flags listFlags

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List framework documents",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, func(ctx context.Context, client timeback.Client) error {
				err := runList(ctx, cmd.OutOrStdout(), client.CASE().ListDocuments, &flags, flags.params(), renderCFDocumentsTable)

				return wrapErr("list CASE documents", err)
			})
		},
	}

	flags.register(cmd)

	return cmd
}

func newCASEDocumentsSearchCommand() *cobra.Command {
	var search timeback.CFDocumentSearch

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search framework documents",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, func(ctx context.Context, client timeback.Client) error {
				page, err := client.CASE().SearchDocuments(ctx, &search)
				if err != nil {
					return wrapErr("search CASE documents", err)
				}

				return renderOutput(cmd.OutOrStdout(), page, func(w io.Writer) error {
					err := renderCFDocumentsTable(w, page.Items)
					if err != nil {
						return err
					}

					renderPageFooter(w, search.Offset+len(page.Items), page.TotalCount)

					return nil
				})
			})
		},
	}

	cmd.Flags().StringVarP(&search.Query, "query", "q", "", "free-text search")
	cmd.Flags().StringVar(&search.Title, "title", "", "document title")
	cmd.Flags().StringVar(&search.Subject, "subject", "", "subject")
	cmd.Flags().StringVar(&search.Creator, "creator", "", "creator")
	cmd.Flags().StringVar(&search.Publisher, "publisher", "", "publisher")
	cmd.Flags().StringVar(&search.EducationLevel, "education-level", "", "education level, e.g. 05")
	cmd.Flags().IntVar(&search.Limit, "limit", 0, "results per page")
	cmd.Flags().IntVar(&search.Offset, "offset", 0, "records to skip")

	return cmd
}

func newCASEDocumentsGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get DOCUMENT_ID",
		Short: "Show a framework document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, func(ctx context.Context, client timeback.Client) error {
				doc, err := client.CASE().GetDocument(ctx, args[0])
				if err != nil {
					return wrapErr("get CASE document", err)
				}

				return renderOutput(cmd.OutOrStdout(), doc, func(w io.Writer) error {
					return renderDetails(w, [][2]string{
						{"Sourced ID", doc.SourcedID},
						{"Title", doc.Title},
						{"Creator", doc.Creator},
						{"Publisher", doc.Publisher},
						{"Subjects", joinNonEmpty(doc.Subject)},
						{"Version", doc.Version},
						{"Adoption Status", doc.AdoptionStatus},
						{"Last Changed", doc.LastChangeDateTime},
					})
				})
			})
		},
	}
}

func newCASEDocumentItemsCommand() *cobra.Command {
	var flags listFlags

	cmd := &cobra.Command{
		Use:   "items DOCUMENT_ID",
		Short: "List the items of a framework document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, func(ctx context.Context, client timeback.Client) error {
				list := func(ctx context.Context, params *timeback.QueryParams) (*timeback.ListResponse[timeback.CFItem], error) {
					return client.CASE().ListDocumentItems(ctx, args[0], params)
				}

				return wrapErr("list CASE items", runList(ctx, cmd.OutOrStdout(), list, &flags, flags.params(), renderCFItemsTable))
			})
		},
	}

	flags.register(cmd)

	return cmd
}

func newCASEDocumentAssociationsCommand() *cobra.Command {
	var flags listFlags

	cmd := &cobra.Command{
		Use:   "associations DOCUMENT_ID",
		Short: "List the associations of a framework document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, func(ctx context.Context, client timeback.Client) error {
				list := func(ctx context.Context, params *timeback.QueryParams) (*timeback.ListResponse[timeback.CFAssociation], error) {
					return client.CASE().ListDocumentAssociations(ctx, args[0], params)
				}

				err := runList(ctx, cmd.OutOrStdout(), list, &flags, flags.params(), renderCFAssociationsTable)

				return wrapErr("list CASE associations", err)
			})
		},
	}

	flags.register(cmd)

	return cmd
}

func newCASEItemsGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get ITEM_ID",
		Short: "Show a framework item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, func(ctx context.Context, client timeback.Client) error {
				item, err := client.CASE().GetItem(ctx, args[0])
				if err != nil {
					return wrapErr("get CASE item", err)
				}

				return renderOutput(cmd.OutOrStdout(), item, func(w io.Writer) error {
					return renderDetails(w, [][2]string{
						{"Sourced ID", item.SourcedID},
						{"Coding Scheme", item.HumanCodingScheme},
						{"Statement", item.FullStatement},
						{"Type", item.CFItemType},
						{"Education Level", joinNonEmpty(item.EducationLevel)},
					})
				})
			})
		},
	}
}

func newCASEPackageCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "package DOCUMENT_ID",
		Short: "Summarize a framework package",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, func(ctx context.Context, client timeback.Client) error {
				pkg, err := client.CASE().GetPackage(ctx, args[0])
				if err != nil {
					return wrapErr("get CASE package", err)
				}

				return renderOutput(cmd.OutOrStdout(), pkg, func(w io.Writer) error {
					return renderDetails(w, [][2]string{
						{"Document", pkg.CFDocument.Title},
						{"Items", strconv.Itoa(len(pkg.CFItems))},
						{"Associations", strconv.Itoa(len(pkg.CFAssociations))},
					})
				})
			})
		},
	}
}

func renderCFDocumentsTable(w io.Writer, docs []timeback.CFDocument) error {
	rows := make([][]string, 0, len(docs))
	for _, doc := range docs {
		rows = append(rows, []string{doc.SourcedID, truncate(doc.Title, 50), formatValue(doc.Publisher), formatValue(joinNonEmpty(doc.Subject))})
	}

	return renderTable(w, "documents", []string{"Sourced ID", "Title", "Publisher", "Subjects"}, rows)
}

func renderCFItemsTable(w io.Writer, items []timeback.CFItem) error {
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		rows = append(rows, []string{item.SourcedID, formatValue(item.HumanCodingScheme), truncate(item.FullStatement, 60)})
	}

	return renderTable(w, "items", []string{"Sourced ID", "Code", "Statement"}, rows)
}

func renderCFAssociationsTable(w io.Writer, associations []timeback.CFAssociation) error {
	rows := make([][]string, 0, len(associations))
	for _, association := range associations {
		rows = append(rows, []string{
			association.SourcedID,
			association.AssociationType,
			formatValue(association.OriginNodeURI.Identifier),
			formatValue(association.DestinationNodeURI.Identifier),
		})
	}

	return renderTable(w, "associations", []string{"Sourced ID", "Type", "Origin", "Destination"}, rows)
}

// NewEduBridgeCommand creates the EduBridge command group.
func NewEduBridgeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edubridge",
		Short: "EduBridge subject tracks and applications",
		Long:  "List EduBridge subject tracks and applications. Records have no fixed shape, so tables fall back to JSON.",
	}

	cmd.AddCommand(newEduBridgeListCommand("subject-tracks", "List subject tracks", "list subject tracks",
		func(client timeback.Client) timeback.ListFunc[timeback.Document] { return client.EduBridge().ListSubjectTracks }))
	cmd.AddCommand(newEduBridgeListCommand("applications", "List applications", "list applications",
		func(client timeback.Client) timeback.ListFunc[timeback.Document] { return client.EduBridge().ListApplications }))

	return cmd
}

func newEduBridgeListCommand(use, short, action string, lister func(timeback.Client) timeback.ListFunc[timeback.Document]) *cobra.Command {
	var flags listFlags

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, func(ctx context.Context, client timeback.Client) error {
				err := runList(ctx, cmd.OutOrStdout(), lister(client), &flags, flags.params(), func(w io.Writer, records []timeback.Document) error {
					return renderJSON(w, records)
				})

				return wrapErr(action, err)
			})
		},
	}

	flags.register(cmd)

	return cmd
}
