package commands

import (
	"context"
	"io"

	"github.com/fivetwenty-io/timeback/pkg/timeback"
	"github.com/spf13/cobra"
)

// NewCoursesCommand creates the courses command group.
func NewCoursesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "courses",
		Aliases: []string{"course"},
		Short:   "Manage courses",
		Long:    "List and inspect OneRoster courses, their classes and resources",
	}

	cmd.AddCommand(newCoursesListCommand())
	cmd.AddCommand(newCoursesGetCommand())
	cmd.AddCommand(newCoursesClassesCommand())
	cmd.AddCommand(newCoursesResourcesCommand())

	return cmd
}

func newCoursesListCommand() *cobra.Command {
	var flags listFlags

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List courses",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, func(ctx context.Context, client timeback.Client) error {
				err := runList(ctx, cmd.OutOrStdout(), client.Rostering().Courses().List, &flags, flags.params(), renderCoursesTable)

				return wrapErr("list courses", err)
			})
		},
	}

	flags.register(cmd)

	return cmd
}

func newCoursesGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get COURSE_ID",
		Short: "Get course details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, func(ctx context.Context, client timeback.Client) error {
				course, err := client.Rostering().Courses().Get(ctx, args[0])
				if err != nil {
					return wrapErr("get course", err)
				}

				return renderOutput(cmd.OutOrStdout(), course, func(w io.Writer) error {
					return renderDetails(w, [][2]string{
						{"ID", course.SourcedID},
						{"Title", course.Title},
						{"Code", course.CourseCode},
						{"Org", course.Org.SourcedID},
						{"School Year", formatRef(course.SchoolYear)},
						{"Grades", joinNonEmpty(course.Grades)},
						{"Subjects", joinNonEmpty(course.Subjects)},
						{"Status", titleCase(string(course.Status))},
					})
				})
			})
		},
	}
}

func newCoursesClassesCommand() *cobra.Command {
	var flags listFlags

	cmd := &cobra.Command{
		Use:   "classes COURSE_ID",
		Short: "List the classes of a course",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, func(ctx context.Context, client timeback.Client) error {
				list := func(ctx context.Context, params *timeback.QueryParams) (*timeback.ListResponse[timeback.Class], error) {
					return client.Rostering().Courses().ListClasses(ctx, args[0], params)
				}

				return wrapErr("list classes for course", runList(ctx, cmd.OutOrStdout(), list, &flags, flags.params(), renderClassesTable))
			})
		},
	}

	flags.register(cmd)

	return cmd
}

func newCoursesResourcesCommand() *cobra.Command {
	var flags listFlags

	cmd := &cobra.Command{
		Use:   "resources COURSE_ID",
		Short: "List the resources of a course",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, func(ctx context.Context, client timeback.Client) error {
				list := func(ctx context.Context, params *timeback.QueryParams) (*timeback.ListResponse[timeback.Resource], error) {
					return client.Resources().Resources().ListForCourse(ctx, args[0], params)
				}

				return wrapErr("list resources for course", runList(ctx, cmd.OutOrStdout(), list, &flags, flags.params(), renderResourcesTable))
			})
		},
	}

	flags.register(cmd)

	return cmd
}

func renderCoursesTable(w io.Writer, courses []timeback.Course) error {
	rows := make([][]string, 0, len(courses))
	for _, course := range courses {
		rows = append(rows, []string{
			course.SourcedID,
			truncate(course.Title, descriptionWidth),
			formatValue(course.CourseCode),
			formatValue(course.Org.SourcedID),
			titleCase(string(course.Status)),
		})
	}

	return renderTable(w, "courses", []string{"ID", "Title", "Code", "Org", "Status"}, rows)
}

func renderResourcesTable(w io.Writer, resources []timeback.Resource) error {
	rows := make([][]string, 0, len(resources))
	for _, resource := range resources {
		rows = append(rows, []string{
			resource.SourcedID,
			truncate(resource.Title, descriptionWidth),
			formatValue(resource.VendorResourceID),
			formatValue(resource.Importance),
		})
	}

	return renderTable(w, "resources", []string{"ID", "Title", "Vendor Resource", "Importance"}, rows)
}
