//go:build integration

package integration

import (
	"context"
	"testing"
	"time"

	"github.com/fivetwenty-io/timeback/pkg/timeback"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestRosteringWorkflow_SchoolToStudents walks from a school down to its class rosters
func TestRosteringWorkflow_SchoolToStudents(t *testing.T) {
	config := LoadTestConfig()
	config.SkipIfMissingConfig(t)

	client := config.NewClient(t)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	schools, err := client.Rostering().Schools().List(ctx, timeback.NewQueryParams().WithLimit(1))
	require.NoError(t, err)

	if len(schools.Items) == 0 {
		t.Skip("no schools to walk")
	}

	school := schools.Items[0]
	assert.NotEmpty(t, school.SourcedID)

	fetched, err := client.Rostering().Orgs().Get(ctx, school.SourcedID)
	require.NoError(t, err)
	assert.Equal(t, school.SourcedID, fetched.SourcedID)

	classes, err := client.Rostering().Classes().List(ctx,
		timeback.NewQueryParams().WithLimit(5).WithFilter(timeback.Eq("school.sourcedId", school.SourcedID)))
	require.NoError(t, err)

	for _, class := range classes.Items {
		students, err := client.Rostering().Classes().ListStudents(ctx, class.SourcedID, timeback.NewQueryParams().WithLimit(5))
		require.NoError(t, err, "students of %s", class.SourcedID)

		for _, student := range students.Items {
			assert.NotEmpty(t, student.SourcedID)
		}
	}
}

// TestPagination_IteratorMatchesTotal checks that paging yields what the first page promised
func TestPagination_IteratorMatchesTotal(t *testing.T) {
	config := LoadTestConfig()
	config.SkipIfMissingConfig(t)

	client := config.NewClient(t)
	ctx := context.Background()

	params := timeback.NewQueryParams().WithLimit(20).WithFilter(timeback.Eq("status", string(timeback.StatusActive)))

	first, err := client.Rostering().Orgs().List(ctx, params.Clone())
	require.NoError(t, err)

	if first.TotalCount > 200 {
		t.Skipf("%d orgs is too many to page through", first.TotalCount)
	}

	all, err := timeback.FetchAll(ctx, client.Rostering().Orgs().List, params)
	require.NoError(t, err)
	assert.Len(t, all, first.TotalCount)

	seen := make(map[string]bool, len(all))
	for _, org := range all {
		assert.False(t, seen[org.SourcedID], "duplicate org %s", org.SourcedID)
		seen[org.SourcedID] = true
	}
}

// TestErrors_NotFound checks error classification against the live API
func TestErrors_NotFound(t *testing.T) {
	config := LoadTestConfig()
	config.SkipIfMissingConfig(t)

	client := config.NewClient(t)

	_, err := client.Rostering().Users().Get(context.Background(), GenerateTestName("missing-user"))
	require.Error(t, err)
	assert.True(t, timeback.IsNotFound(err), "expected not found, got %v", err)
}

// TestQTI_ItemsAndTests reads QTI content
func TestQTI_ItemsAndTests(t *testing.T) {
	config := LoadTestConfig()
	config.SkipIfMissingConfig(t)

	client := config.NewClient(t)
	ctx := context.Background()

	items, err := client.QTI().AssessmentItems().List(ctx, timeback.NewQueryParams().WithLimit(3))
	require.NoError(t, err)

	for _, item := range items.Items {
		fetched, err := client.QTI().AssessmentItems().Get(ctx, item.Identifier)
		require.NoError(t, err)
		assert.Equal(t, item.Identifier, fetched.Identifier)
	}

	tests, err := client.QTI().AssessmentTests().List(ctx, timeback.NewQueryParams().WithLimit(1))
	require.NoError(t, err)

	for _, test := range tests.Items {
		parts, err := client.QTI().AssessmentTests().ListTestParts(ctx, test.Identifier, nil)
		require.NoError(t, err)
		assert.Len(t, parts.Items, len(test.TestParts))
	}
}

// TestUserLifecycle creates, updates and deletes a user
func TestUserLifecycle(t *testing.T) {
	config := LoadTestConfig()
	config.SkipIfMissingConfig(t)
	config.SkipIfReadOnly(t)

	client := config.NewClient(t)
	ctx := context.Background()

	schools, err := client.Rostering().Schools().List(ctx, timeback.NewQueryParams().WithLimit(1))
	require.NoError(t, err)

	if len(schools.Items) == 0 {
		t.Skip("no school to attach the user to")
	}

	name := GenerateTestName("integration")
	users := client.Rostering().Users()

	created, err := users.Create(ctx, &timeback.User{
		Status:      timeback.StatusActive,
		EnabledUser: true,
		GivenName:   "Integration",
		FamilyName:  name,
		Roles: []timeback.UserRole{{
			RoleType: timeback.RoleTypePrimary,
			Role:     timeback.RoleStudent,
			Org:      timeback.Ref{SourcedID: schools.Items[0].SourcedID, Type: "org"},
		}},
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.SourcedID)

	defer func() {
		_ = users.Delete(context.Background(), created.SourcedID)
	}()

	created.Email = name + "@example.com"

	updated, err := users.Update(ctx, created.SourcedID, created)
	require.NoError(t, err)
	assert.Equal(t, created.Email, updated.Email)

	require.NoError(t, users.Delete(ctx, created.SourcedID))

	// OneRoster deletes are soft: the record remains with status tobedeleted.
	deleted, err := users.Get(ctx, created.SourcedID)
	if err == nil {
		assert.Equal(t, timeback.StatusToBeDeleted, deleted.Status)
	} else {
		assert.True(t, timeback.IsNotFound(err))
	}
}
