package commands

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strconv"

	"github.com/fivetwenty-io/timeback/pkg/timeback"
	"github.com/spf13/cobra"
)

// NewPowerPathCommand creates the PowerPath command group.
func NewPowerPathCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "powerpath",
		Aliases: []string{"pp"},
		Short:   "PowerPath lessons and test assignments",
		Long:    "Inspect course syllabi, lesson progress and test assignments",
	}

	cmd.AddCommand(newPowerPathSyllabusCommand())
	cmd.AddCommand(newPowerPathProgressCommand())
	cmd.AddCommand(newPowerPathNextQuestionCommand())
	cmd.AddCommand(newPowerPathResetCommand())
	cmd.AddCommand(newPowerPathAssignmentsCommand())

	return cmd
}

func newPowerPathSyllabusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "syllabus COURSE_ID",
		Short: "Show a course syllabus",
		Long:  "Show a course syllabus. The table format falls back to JSON since syllabi have no fixed shape.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, func(ctx context.Context, client timeback.Client) error {
				syllabus, err := client.PowerPath().GetCourseSyllabus(ctx, args[0])
				if err != nil {
					return wrapErr("get course syllabus", err)
				}

				return renderOutput(cmd.OutOrStdout(), syllabus, func(w io.Writer) error {
					return renderJSON(w, syllabus)
				})
			})
		},
	}
}

func newPowerPathProgressCommand() *cobra.Command {
	var attempt int

	cmd := &cobra.Command{
		Use:   "progress STUDENT_ID LESSON_ID",
		Short: "Show a student's progress in a lesson",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, func(ctx context.Context, client timeback.Client) error {
				progress, err := client.PowerPath().GetAssessmentProgress(ctx, args[0], args[1], attempt)
				if err != nil {
					return wrapErr("get assessment progress", err)
				}

				return renderOutput(cmd.OutOrStdout(), progress, func(w io.Writer) error {
					pairs := [][2]string{
						{"Score", formatScore(progress.Score)},
						{"Seen Questions", strconv.Itoa(len(progress.SeenQuestions))},
					}

					difficulties := make([]string, 0, len(progress.RemainingQuestionsPerDifficulty))
					for difficulty := range progress.RemainingQuestionsPerDifficulty {
						difficulties = append(difficulties, difficulty)
					}

					slices.Sort(difficulties)

					for _, difficulty := range difficulties {
						pairs = append(pairs, [2]string{
							"Remaining " + titleCase(difficulty),
							strconv.Itoa(progress.RemainingQuestionsPerDifficulty[difficulty]),
						})
					}

					return renderDetails(w, pairs)
				})
			})
		},
	}

	cmd.Flags().IntVar(&attempt, "attempt", 0, "attempt number (default latest)")

	return cmd
}

func newPowerPathNextQuestionCommand() *cobra.Command {
	var opts timeback.NextQuestionOptions

	cmd := &cobra.Command{
		Use:   "next-question STUDENT_ID LESSON_ID",
		Short: "Show the next question for a student",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, func(ctx context.Context, client timeback.Client) error {
				next, err := client.PowerPath().GetNextQuestion(ctx, args[0], args[1], &opts)
				if err != nil {
					return wrapErr("get next question", err)
				}

				return renderOutput(cmd.OutOrStdout(), next, func(w io.Writer) error {
					_, _ = fmt.Fprintf(w, "Score: %s\n", formatScore(next.Score))

					if len(next.Question) == 0 {
						_, _ = fmt.Fprintln(w, "No question remaining")

						return nil
					}

					return renderJSON(w, next.Question)
				})
			})
		},
	}

	cmd.Flags().BoolVar(&opts.IgnoreAnsweredQuestions, "ignore-answered", false, "include questions already answered")
	cmd.Flags().BoolVar(&opts.IgnoreDifficultyCheck, "ignore-difficulty", false, "skip the difficulty progression check")

	return cmd
}

func newPowerPathResetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "reset-attempt STUDENT_ID LESSON_ID",
		Short: "Start a new attempt for a student",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, func(ctx context.Context, client timeback.Client) error {
				result, err := client.PowerPath().ResetAttempt(ctx, args[0], args[1])
				if err != nil {
					return wrapErr("reset attempt", err)
				}

				return renderOutput(cmd.OutOrStdout(), result, func(w io.Writer) error {
					_, _ = fmt.Fprintf(w, "Reset: %t, score: %s\n", result.Success, formatScore(result.Score))

					return nil
				})
			})
		},
	}
}

func newPowerPathAssignmentsCommand() *cobra.Command {
	var (
		filter timeback.TestAssignmentFilter
		admin  bool
	)

	cmd := &cobra.Command{
		Use:   "assignments",
		Short: "List test assignments",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, func(ctx context.Context, client timeback.Client) error {
				assignments := client.PowerPath().TestAssignments()
				list := assignments.List
				if admin {
					list = assignments.ListAdmin
				}

				page, err := list(ctx, &filter)
				if err != nil {
					return wrapErr("list test assignments", err)
				}

				return renderOutput(cmd.OutOrStdout(), page, func(w io.Writer) error {
					return renderAssignmentsTable(w, page.Items)
				})
			})
		},
	}

	cmd.Flags().StringVar(&filter.Student, "student", "", "only this student's assignments")
	cmd.Flags().StringVar(&filter.Status, "status", "", "only assignments with this status")
	cmd.Flags().StringVar(&filter.Subject, "subject", "", "only this subject")
	cmd.Flags().StringVar(&filter.Grade, "grade", "", "only this grade")
	cmd.Flags().IntVar(&filter.Page, "page", 0, "page number")
	cmd.Flags().IntVar(&filter.Limit, "limit", 0, "results per page")
	cmd.Flags().BoolVar(&admin, "admin", false, "use the administrative listing")

	return cmd
}

func renderAssignmentsTable(w io.Writer, assignments []timeback.TestAssignment) error {
	rows := make([][]string, 0, len(assignments))
	for _, assignment := range assignments {
		rows = append(rows, []string{
			documentString(assignment, "sourcedId"),
			documentString(assignment, "student"),
			documentString(assignment, "subject"),
			documentString(assignment, "grade"),
			titleCase(documentString(assignment, "status")),
		})
	}

	return renderTable(w, "test assignments", []string{"ID", "Student", "Subject", "Grade", "Status"}, rows)
}

func documentString(doc timeback.Document, key string) string {
	value, ok := doc[key]
	if !ok || value == nil {
		return ""
	}

	if s, ok := value.(string); ok {
		return s
	}

	return fmt.Sprint(value)
}

func formatScore(score float64) string {
	return strconv.FormatFloat(score, 'f', -1, 64)
}
