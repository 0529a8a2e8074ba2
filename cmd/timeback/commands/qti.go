package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/fivetwenty-io/timeback/pkg/timeback"
	"github.com/spf13/cobra"
)

// NewQTICommand creates the QTI command group.
func NewQTICommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "qti",
		Short: "Manage QTI assessment content",
		Long:  "Browse assessment items, tests and stimuli and score responses",
	}

	items := &cobra.Command{
		Use:     "items",
		Aliases: []string{"item"},
		Short:   "Assessment items",
	}
	items.AddCommand(newQTIItemsListCommand())
	items.AddCommand(newQTIItemsGetCommand())
	items.AddCommand(newQTIItemsProcessCommand())

	tests := &cobra.Command{
		Use:     "tests",
		Aliases: []string{"test"},
		Short:   "Assessment tests",
	}
	tests.AddCommand(newQTITestsListCommand())
	tests.AddCommand(newQTITestsGetCommand())

	stimuli := &cobra.Command{
		Use:     "stimuli",
		Aliases: []string{"stimulus"},
		Short:   "Shared stimuli",
	}
	stimuli.AddCommand(newQTIStimuliGetCommand())

	cmd.AddCommand(items, tests, stimuli)

	return cmd
}

func newQTIItemsListCommand() *cobra.Command {
	var (
		flags  listFlags
		search string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List assessment items",
		RunE: func(cmd *cobra.Command, args []string) error {
			params := flags.params()
			if search != "" {
				params.WithExtra("search", search)
			}

			return withClient(cmd, func(ctx context.Context, client timeback.Client) error {
				err := runList(ctx, cmd.OutOrStdout(), client.QTI().AssessmentItems().List, &flags, params, renderItemsTable)

				return wrapErr("list assessment items", err)
			})
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&search, "search", "", "free-text search over titles and identifiers")

	return cmd
}

func newQTIItemsGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get IDENTIFIER",
		Short: "Get an assessment item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, func(ctx context.Context, client timeback.Client) error {
				item, err := client.QTI().AssessmentItems().Get(ctx, args[0])
				if err != nil {
					return wrapErr("get assessment item", err)
				}

				return renderOutput(cmd.OutOrStdout(), item, func(w io.Writer) error {
					declarations := make([]string, 0, len(item.ResponseDeclarations))
					for _, declaration := range item.ResponseDeclarations {
						declarations = append(declarations, declaration.Identifier+" ("+declaration.Cardinality+" "+declaration.BaseType+")")
					}

					return renderDetails(w, [][2]string{
						{"Identifier", item.Identifier},
						{"Title", item.Title},
						{"Type", item.Type},
						{"Adaptive", strconv.FormatBool(item.Adaptive)},
						{"Time Dependent", strconv.FormatBool(item.TimeDependent)},
						{"Responses", joinNonEmpty(declarations)},
						{"Updated", formatTime(item.UpdatedAt)},
					})
				})
			})
		},
	}
}

func newQTIItemsProcessCommand() *cobra.Command {
	var (
		responseID string
		value      string
	)

	cmd := &cobra.Command{
		Use:   "process IDENTIFIER",
		Short: "Score a response",
		Long:  "Score a response against an item. --value is parsed as JSON when possible, e.g. '[\"A\",\"C\"]'.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, func(ctx context.Context, client timeback.Client) error {
				result, err := client.QTI().AssessmentItems().ProcessResponse(ctx, args[0], responseID, parseResponseValue(value))
				if err != nil {
					return wrapErr("process response", err)
				}

				return renderOutput(cmd.OutOrStdout(), result, func(w io.Writer) error {
					pairs := [][2]string{{"Score", strconv.FormatFloat(result.Score, 'f', -1, 64)}}
					if result.Feedback != nil {
						pairs = append(pairs, [2]string{"Feedback", result.Feedback.Identifier + ": " + result.Feedback.Value})
					}

					return renderDetails(w, pairs)
				})
			})
		},
	}

	cmd.Flags().StringVar(&responseID, "response-id", "", "response declaration (default RESPONSE)")
	cmd.Flags().StringVar(&value, "value", "", "candidate response")
	_ = cmd.MarkFlagRequired("value")

	return cmd
}

func newQTITestsListCommand() *cobra.Command {
	var flags listFlags

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List assessment tests",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, func(ctx context.Context, client timeback.Client) error {
				err := runList(ctx, cmd.OutOrStdout(), client.QTI().AssessmentTests().List, &flags, flags.params(), renderTestsTable)

				return wrapErr("list assessment tests", err)
			})
		},
	}

	flags.register(cmd)

	return cmd
}

func newQTITestsGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get IDENTIFIER",
		Short: "Get an assessment test with its parts and sections",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, func(ctx context.Context, client timeback.Client) error {
				test, err := client.QTI().AssessmentTests().Get(ctx, args[0])
				if err != nil {
					return wrapErr("get assessment test", err)
				}

				return renderOutput(cmd.OutOrStdout(), test, func(w io.Writer) error {
					rows := make([][]string, 0)
					for _, part := range test.TestParts {
						for _, section := range part.Sections {
							rows = append(rows, []string{
								part.Identifier,
								titleCase(part.NavigationMode),
								section.Identifier,
								truncate(section.Title, descriptionWidth),
								strconv.Itoa(len(section.ItemRefs)),
							})
						}
					}

					_, _ = fmt.Fprintf(w, "%s: %s\n\n", test.Identifier, test.Title)

					return renderTable(w, "sections", []string{"Part", "Navigation", "Section", "Title", "Items"}, rows)
				})
			})
		},
	}
}

func newQTIStimuliGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get IDENTIFIER",
		Short: "Get a stimulus",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, func(ctx context.Context, client timeback.Client) error {
				stimulus, err := client.QTI().Stimuli().Get(ctx, args[0])
				if err != nil {
					return wrapErr("get stimulus", err)
				}

				return renderOutput(cmd.OutOrStdout(), stimulus, func(w io.Writer) error {
					return renderDetails(w, [][2]string{
						{"Identifier", stimulus.Identifier},
						{"Title", stimulus.Title},
						{"Label", stimulus.Label},
						{"Language", stimulus.Language},
						{"Content", truncate(stimulus.Content, descriptionWidth)},
					})
				})
			})
		},
	}
}

// parseResponseValue decodes JSON values and falls back to the raw string.
func parseResponseValue(value string) interface{} {
	var decoded interface{}

	err := json.Unmarshal([]byte(value), &decoded)
	if err != nil {
		return value
	}

	return decoded
}

func renderItemsTable(w io.Writer, items []timeback.AssessmentItem) error {
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		rows = append(rows, []string{
			item.Identifier,
			truncate(item.Title, descriptionWidth),
			formatValue(item.Type),
			formatTime(item.UpdatedAt),
		})
	}

	return renderTable(w, "assessment items", []string{"Identifier", "Title", "Type", "Updated"}, rows)
}

func renderTestsTable(w io.Writer, tests []timeback.AssessmentTest) error {
	rows := make([][]string, 0, len(tests))
	for _, test := range tests {
		rows = append(rows, []string{
			test.Identifier,
			truncate(test.Title, descriptionWidth),
			strconv.Itoa(len(test.TestParts)),
			formatTime(test.UpdatedAt),
		})
	}

	return renderTable(w, "assessment tests", []string{"Identifier", "Title", "Parts", "Updated"}, rows)
}
