package commands

import (
	"context"
	"io"

	"github.com/fivetwenty-io/timeback/internal/constants"
	"github.com/fivetwenty-io/timeback/pkg/timeback"
	"github.com/spf13/cobra"
)

// NewEnrollmentsCommand creates the enrollments command group.
func NewEnrollmentsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "enrollments",
		Aliases: []string{"enrollment"},
		Short:   "Manage enrollments",
		Long:    "List enrollments by student or class",
	}

	cmd.AddCommand(newEnrollmentsListCommand())
	cmd.AddCommand(newEnrollmentsGetCommand())

	return cmd
}

func newEnrollmentsListCommand() *cobra.Command {
	var (
		flags     listFlags
		studentID string
		classID   string
		role      string
		status    string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List enrollments",
		Long:  "List enrollments. --student and --class select the student or class views of the API.",
		RunE: func(cmd *cobra.Command, args []string) error {
			err := checkChoice("role", role, enrollmentRoles, constants.ErrInvalidRole)
			if err != nil {
				return err
			}

			err = checkChoice("status", status, recordStatuses, constants.ErrInvalidStatus)
			if err != nil {
				return err
			}

			return withClient(cmd, func(ctx context.Context, client timeback.Client) error {
				enrollments := client.Rostering().Enrollments()
				list := enrollments.List

				switch {
				case studentID != "":
					list = func(ctx context.Context, params *timeback.QueryParams) (*timeback.ListResponse[timeback.Enrollment], error) {
						return enrollments.ForStudent(ctx, studentID, timeback.Status(status), params)
					}
				case classID != "":
					list = func(ctx context.Context, params *timeback.QueryParams) (*timeback.ListResponse[timeback.Enrollment], error) {
						return enrollments.ForClass(ctx, classID, role, timeback.Status(status), params)
					}
				}

				return wrapErr("list enrollments", runList(ctx, cmd.OutOrStdout(), list, &flags, flags.params(), renderEnrollmentsTable))
			})
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&studentID, "student", "", "enrollments of this student")
	cmd.Flags().StringVar(&classID, "class", "", "enrollments in this class")
	cmd.Flags().StringVar(&role, "role", "", "with --class, only this role")
	cmd.Flags().StringVar(&status, "status", "", "with --student or --class, only this status")
	cmd.MarkFlagsMutuallyExclusive("student", "class")

	return cmd
}

func newEnrollmentsGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get ENROLLMENT_ID",
		Short: "Get enrollment details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, func(ctx context.Context, client timeback.Client) error {
				enrollment, err := client.Rostering().Enrollments().Get(ctx, args[0])
				if err != nil {
					return wrapErr("get enrollment", err)
				}

				return renderOutput(cmd.OutOrStdout(), enrollment, func(w io.Writer) error {
					return renderEnrollmentsTable(w, []timeback.Enrollment{*enrollment})
				})
			})
		},
	}
}

func renderEnrollmentsTable(w io.Writer, enrollments []timeback.Enrollment) error {
	rows := make([][]string, 0, len(enrollments))
	for _, enrollment := range enrollments {
		rows = append(rows, []string{
			enrollment.SourcedID,
			enrollment.User.SourcedID,
			enrollment.Class.SourcedID,
			titleCase(enrollment.Role),
			formatValue(enrollment.BeginDate),
			titleCase(string(enrollment.Status)),
		})
	}

	return renderTable(w, "enrollments", []string{"ID", "User", "Class", "Role", "Begins", "Status"}, rows)
}
