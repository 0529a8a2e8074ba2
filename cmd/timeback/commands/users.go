package commands

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/fivetwenty-io/timeback/internal/constants"
	"github.com/fivetwenty-io/timeback/pkg/timeback"
	"github.com/spf13/cobra"
)

// NewUsersCommand creates the users command group.
func NewUsersCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "users",
		Aliases: []string{"user", "u"},
		Short:   "Manage users",
		Long:    "List, inspect, create and delete OneRoster users",
	}

	cmd.AddCommand(newUsersListCommand())
	cmd.AddCommand(newUsersGetCommand())
	cmd.AddCommand(newUsersCreateCommand())
	cmd.AddCommand(newUsersDeleteCommand())
	cmd.AddCommand(newUsersClassesCommand())

	return cmd
}

func newUsersListCommand() *cobra.Command {
	var (
		flags  listFlags
		role   string
		status string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List users",
		Long:  "List users, optionally narrowed by role, status or a filter expression",
		RunE: func(cmd *cobra.Command, args []string) error {
			err := checkChoice("role", role, userRoles, constants.ErrInvalidRole)
			if err != nil {
				return err
			}

			err = checkChoice("status", status, recordStatuses, constants.ErrInvalidStatus)
			if err != nil {
				return err
			}

			var extra []string

			if role != "" {
				extra = append(extra, timeback.Eq("role", role))
			}

			if status != "" {
				extra = append(extra, timeback.Eq("status", status))
			}

			return withClient(cmd, func(ctx context.Context, client timeback.Client) error {
				err := runList(ctx, cmd.OutOrStdout(), client.Rostering().Users().List, &flags, flags.params(extra...), renderUsersTable)

				return wrapErr("list users", err)
			})
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&role, "role", "", "only users with this role (student, teacher, ...)")
	cmd.Flags().StringVar(&status, "status", "", "only users with this status (active, tobedeleted)")

	return cmd
}

func newUsersGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get USER_ID",
		Short: "Get user details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, func(ctx context.Context, client timeback.Client) error {
				user, err := client.Rostering().Users().Get(ctx, args[0])
				if err != nil {
					return wrapErr("get user", err)
				}

				return renderOutput(cmd.OutOrStdout(), user, func(w io.Writer) error {
					return renderUserDetails(w, user)
				})
			})
		},
	}
}

func newUsersCreateCommand() *cobra.Command {
	var (
		givenName  string
		familyName string
		email      string
		username   string
		role       string
		orgID      string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a user",
		Long:  "Create an active user with a single primary role at an organization",
		RunE: func(cmd *cobra.Command, args []string) error {
			user := &timeback.User{
				Status:      timeback.StatusActive,
				EnabledUser: true,
				GivenName:   givenName,
				FamilyName:  familyName,
				Email:       email,
				Username:    username,
				Roles: []timeback.UserRole{{
					RoleType: timeback.RoleTypePrimary,
					Role:     role,
					Org:      timeback.Ref{SourcedID: orgID, Type: "org"},
				}},
			}

			return withClient(cmd, func(ctx context.Context, client timeback.Client) error {
				created, err := client.Rostering().Users().Create(ctx, user)
				if err != nil {
					return wrapErr("create user", err)
				}

				return renderOutput(cmd.OutOrStdout(), created, func(w io.Writer) error {
					_, _ = fmt.Fprintf(w, "Created user %s\n", created.SourcedID)

					return nil
				})
			})
		},
	}

	cmd.Flags().StringVar(&givenName, "given-name", "", "given name")
	cmd.Flags().StringVar(&familyName, "family-name", "", "family name")
	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.Flags().StringVar(&username, "username", "", "login name")
	cmd.Flags().StringVar(&role, "role", string(timeback.RoleStudent), "role at the organization")
	cmd.Flags().StringVar(&orgID, "org", "", "organization sourcedId")
	_ = cmd.MarkFlagRequired("given-name")
	_ = cmd.MarkFlagRequired("family-name")
	_ = cmd.MarkFlagRequired("org")

	return cmd
}

func newUsersDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete USER_ID",
		Short: "Delete a user",
		Long:  "Mark a user tobedeleted. Deleting a user that does not exist succeeds.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, func(ctx context.Context, client timeback.Client) error {
				err := client.Rostering().Users().Delete(ctx, args[0])
				if err != nil {
					return wrapErr("delete user", err)
				}

				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted user %s\n", args[0])

				return nil
			})
		},
	}
}

func newUsersClassesCommand() *cobra.Command {
	var flags listFlags

	cmd := &cobra.Command{
		Use:   "classes USER_ID",
		Short: "List a user's classes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, func(ctx context.Context, client timeback.Client) error {
				list := func(ctx context.Context, params *timeback.QueryParams) (*timeback.ListResponse[timeback.Class], error) {
					return client.Rostering().Users().ListClasses(ctx, args[0], params)
				}

				return wrapErr("list classes for user", runList(ctx, cmd.OutOrStdout(), list, &flags, flags.params(), renderClassesTable))
			})
		},
	}

	flags.register(cmd)

	return cmd
}

func renderUsersTable(w io.Writer, users []timeback.User) error {
	rows := make([][]string, 0, len(users))

	for _, user := range users {
		role := ""
		if primary := user.PrimaryRole(); primary != nil {
			role = primary.Role
		}

		rows = append(rows, []string{
			user.SourcedID,
			strings.TrimSpace(user.GivenName + " " + user.FamilyName),
			formatValue(user.Email),
			titleCase(role),
			titleCase(string(user.Status)),
		})
	}

	return renderTable(w, "users", []string{"ID", "Name", "Email", "Role", "Status"}, rows)
}

func renderUserDetails(w io.Writer, user *timeback.User) error {
	roles := make([]string, 0, len(user.Roles))
	for _, role := range user.Roles {
		roles = append(roles, fmt.Sprintf("%s at %s (%s)", role.Role, role.Org.SourcedID, role.RoleType))
	}

	primaryOrg := formatRef(user.PrimaryOrg)

	return renderDetails(w, [][2]string{
		{"ID", user.SourcedID},
		{"Given Name", user.GivenName},
		{"Family Name", user.FamilyName},
		{"Username", user.Username},
		{"Email", user.Email},
		{"Status", titleCase(string(user.Status))},
		{"Enabled", fmt.Sprintf("%t", user.EnabledUser)},
		{"Roles", strings.Join(roles, ", ")},
		{"Primary Org", primaryOrg},
		{"Grades", strings.Join(user.Grades, ", ")},
		{"Last Modified", formatTime(user.DateLastModified)},
	})
}
