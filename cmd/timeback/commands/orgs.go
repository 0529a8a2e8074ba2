package commands

import (
	"context"
	"io"

	"github.com/fivetwenty-io/timeback/pkg/timeback"
	"github.com/spf13/cobra"
)

// NewOrgsCommand creates the organizations command group.
func NewOrgsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "orgs",
		Aliases: []string{"organizations", "org"},
		Short:   "Manage organizations",
		Long:    "List and inspect OneRoster organizations and schools",
	}

	cmd.AddCommand(newOrgsListCommand())
	cmd.AddCommand(newOrgsGetCommand())
	cmd.AddCommand(newOrgsSchoolsCommand())

	return cmd
}

func newOrgsListCommand() *cobra.Command {
	var (
		flags   listFlags
		orgType string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List organizations",
		RunE: func(cmd *cobra.Command, args []string) error {
			var extra []string
			if orgType != "" {
				extra = append(extra, timeback.Eq("type", orgType))
			}

			return withClient(cmd, func(ctx context.Context, client timeback.Client) error {
				err := runList(ctx, cmd.OutOrStdout(), client.Rostering().Orgs().List, &flags, flags.params(extra...), renderOrgsTable)

				return wrapErr("list organizations", err)
			})
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&orgType, "type", "", "only organizations of this type (school, district, ...)")

	return cmd
}

func newOrgsSchoolsCommand() *cobra.Command {
	var flags listFlags

	cmd := &cobra.Command{
		Use:   "schools",
		Short: "List schools",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, func(ctx context.Context, client timeback.Client) error {
				err := runList(ctx, cmd.OutOrStdout(), client.Rostering().Schools().List, &flags, flags.params(), renderOrgsTable)

				return wrapErr("list schools", err)
			})
		},
	}

	flags.register(cmd)

	return cmd
}

func newOrgsGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get ORG_ID",
		Short: "Get organization details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, func(ctx context.Context, client timeback.Client) error {
				org, err := client.Rostering().Orgs().Get(ctx, args[0])
				if err != nil {
					return wrapErr("get organization", err)
				}

				return renderOutput(cmd.OutOrStdout(), org, func(w io.Writer) error {
					return renderDetails(w, [][2]string{
						{"ID", org.SourcedID},
						{"Name", org.Name},
						{"Type", titleCase(string(org.Type))},
						{"Identifier", org.Identifier},
						{"Parent", formatRef(org.Parent)},
						{"Children", refIDs(org.Children)},
						{"Status", titleCase(string(org.Status))},
					})
				})
			})
		},
	}
}

func renderOrgsTable(w io.Writer, orgs []timeback.Org) error {
	rows := make([][]string, 0, len(orgs))
	for _, org := range orgs {
		rows = append(rows, []string{
			org.SourcedID,
			org.Name,
			titleCase(string(org.Type)),
			formatRef(org.Parent),
			titleCase(string(org.Status)),
		})
	}

	return renderTable(w, "organizations", []string{"ID", "Name", "Type", "Parent", "Status"}, rows)
}

func refIDs(refs []timeback.Ref) string {
	ids := make([]string, 0, len(refs))
	for _, ref := range refs {
		ids = append(ids, ref.SourcedID)
	}

	return joinNonEmpty(ids)
}
