package commands_test

import (
	"testing"

	"github.com/fivetwenty-io/timeback/cmd/timeback/commands"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// findSubcommand finds a subcommand by name within a cobra command.
func findSubcommand(cmd *cobra.Command, name string) *cobra.Command {
	for _, c := range cmd.Commands() {
		if c.Name() == name {
			return c
		}
	}

	return nil
}

func TestCommandGroups(t *testing.T) {
	t.Parallel()

	tests := []struct {
		cmd         *cobra.Command
		use         string
		aliases     []string
		subcommands []string
	}{
		{commands.NewUsersCommand(), "users", []string{"user", "u"}, []string{"list", "get", "create", "delete", "classes"}},
		{commands.NewOrgsCommand(), "orgs", []string{"organizations", "org"}, []string{"list", "get", "schools"}},
		{commands.NewCoursesCommand(), "courses", []string{"course"}, []string{"list", "get", "classes", "resources"}},
		{commands.NewClassesCommand(), "classes", []string{"class"}, []string{"list", "get", "students", "teachers"}},
		{commands.NewEnrollmentsCommand(), "enrollments", []string{"enrollment"}, []string{"list", "get"}},
		{commands.NewQTICommand(), "qti", nil, []string{"items", "tests", "stimuli"}},
		{commands.NewPowerPathCommand(), "powerpath", []string{"pp"}, []string{"syllabus", "progress", "next-question", "reset-attempt", "assignments"}},
		{commands.NewCASECommand(), "case", []string{"standards"}, []string{"documents", "items", "package"}},
		{commands.NewEduBridgeCommand(), "edubridge", nil, []string{"subject-tracks", "applications"}},
		{commands.NewCaliperCommand(), "caliper", nil, []string{"send", "validate"}},
	}

	for _, tt := range tests {
		t.Run(tt.use, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.use, tt.cmd.Use)
			assert.Equal(t, tt.aliases, tt.cmd.Aliases)
			assert.NotEmpty(t, tt.cmd.Short)

			for _, name := range tt.subcommands {
				sub := findSubcommand(tt.cmd, name)
				require.NotNil(t, sub, "subcommand %s should exist", name)
				assert.NotEmpty(t, sub.Short)
			}

			assert.Len(t, tt.cmd.Commands(), len(tt.subcommands))
		})
	}
}

func TestListSubcommandsSharePaginationFlags(t *testing.T) {
	t.Parallel()

	groups := []*cobra.Command{
		commands.NewUsersCommand(),
		commands.NewOrgsCommand(),
		commands.NewCoursesCommand(),
		commands.NewClassesCommand(),
		commands.NewEnrollmentsCommand(),
	}

	for _, group := range groups {
		list := findSubcommand(group, "list")
		require.NotNil(t, list, "%s list", group.Name())

		for _, flag := range []string{"limit", "offset", "filter", "sort", "all"} {
			assert.NotNil(t, list.Flags().Lookup(flag), "%s list --%s", group.Name(), flag)
		}
	}
}

func TestQTIItemCommands(t *testing.T) {
	t.Parallel()

	items := findSubcommand(commands.NewQTICommand(), "items")
	require.NotNil(t, items)

	process := findSubcommand(items, "process")
	require.NotNil(t, process)
	assert.Equal(t, "process IDENTIFIER", process.Use)
	assert.NotNil(t, process.Flags().Lookup("response-id"))
	assert.NotNil(t, process.Flags().Lookup("value"))

	list := findSubcommand(items, "list")
	require.NotNil(t, list)
	assert.NotNil(t, list.Flags().Lookup("search"))
}

func TestUsersCreateRequiredFlags(t *testing.T) {
	t.Parallel()

	create := findSubcommand(commands.NewUsersCommand(), "create")
	require.NotNil(t, create)

	for _, name := range []string{"given-name", "family-name", "org"} {
		flag := create.Flags().Lookup(name)
		require.NotNil(t, flag, name)
		assert.Equal(t, []string{"true"}, flag.Annotations[cobra.BashCompOneRequiredFlag], name)
	}

	assert.Equal(t, "student", create.Flags().Lookup("role").DefValue)
}
