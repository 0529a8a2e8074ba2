package commands

import (
	"context"
	"io"

	"github.com/fivetwenty-io/timeback/pkg/timeback"
	"github.com/spf13/cobra"
)

// NewClassesCommand creates the classes command group.
func NewClassesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "classes",
		Aliases: []string{"class"},
		Short:   "Manage classes",
		Long:    "List and inspect OneRoster classes and their rosters",
	}

	cmd.AddCommand(newClassesListCommand())
	cmd.AddCommand(newClassesGetCommand())
	cmd.AddCommand(newClassesRosterCommand("students", "List the students of a class", func(c timeback.ClassesClient) rosterFunc {
		return c.ListStudents
	}))
	cmd.AddCommand(newClassesRosterCommand("teachers", "List the teachers of a class", func(c timeback.ClassesClient) rosterFunc {
		return c.ListTeachers
	}))

	return cmd
}

type rosterFunc func(ctx context.Context, classID string, params *timeback.QueryParams) (*timeback.ListResponse[timeback.User], error)

func newClassesListCommand() *cobra.Command {
	var flags listFlags

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List classes",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, func(ctx context.Context, client timeback.Client) error {
				err := runList(ctx, cmd.OutOrStdout(), client.Rostering().Classes().List, &flags, flags.params(), renderClassesTable)

				return wrapErr("list classes", err)
			})
		},
	}

	flags.register(cmd)

	return cmd
}

func newClassesGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get CLASS_ID",
		Short: "Get class details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, func(ctx context.Context, client timeback.Client) error {
				class, err := client.Rostering().Classes().Get(ctx, args[0])
				if err != nil {
					return wrapErr("get class", err)
				}

				return renderOutput(cmd.OutOrStdout(), class, func(w io.Writer) error {
					return renderDetails(w, [][2]string{
						{"ID", class.SourcedID},
						{"Title", class.Title},
						{"Code", class.ClassCode},
						{"Type", titleCase(string(class.ClassType))},
						{"Course", class.Course.SourcedID},
						{"School", class.School.SourcedID},
						{"Terms", refIDs(class.Terms)},
						{"Periods", joinNonEmpty(class.Periods)},
						{"Status", titleCase(string(class.Status))},
					})
				})
			})
		},
	}
}

func newClassesRosterCommand(use, short string, pick func(timeback.ClassesClient) rosterFunc) *cobra.Command {
	var flags listFlags

	cmd := &cobra.Command{
		Use:   use + " CLASS_ID",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, func(ctx context.Context, client timeback.Client) error {
				roster := pick(client.Rostering().Classes())
				list := func(ctx context.Context, params *timeback.QueryParams) (*timeback.ListResponse[timeback.User], error) {
					return roster(ctx, args[0], params)
				}

				return wrapErr("list "+use+" for class", runList(ctx, cmd.OutOrStdout(), list, &flags, flags.params(), renderUsersTable))
			})
		},
	}

	flags.register(cmd)

	return cmd
}

func renderClassesTable(w io.Writer, classes []timeback.Class) error {
	rows := make([][]string, 0, len(classes))
	for _, class := range classes {
		rows = append(rows, []string{
			class.SourcedID,
			truncate(class.Title, descriptionWidth),
			formatValue(class.ClassCode),
			formatValue(class.Course.SourcedID),
			titleCase(string(class.Status)),
		})
	}

	return renderTable(w, "classes", []string{"ID", "Title", "Code", "Course", "Status"}, rows)
}
