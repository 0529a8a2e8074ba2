package client

import (
	"context"
	"net/http"
	"net/url"
	"testing"

	internalhttp "github.com/fivetwenty-io/timeback/internal/http"
	"github.com/fivetwenty-io/timeback/pkg/timeback"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUsersClient_CreateParent(t *testing.T) {
	t.Parallel()

	stub, server := newStubServer(t, http.StatusCreated, "")
	users := NewUsersClient(newTestHTTPClient(server.URL))

	parent, err := users.CreateParent(context.Background(), &timeback.ParentRequest{
		GivenName:  "Mary",
		FamilyName: "Somerville",
		Email:      "mary@example.com",
		Org:        timeback.Ref{SourcedID: "school-1", Type: "org"},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, parent.SourcedID)
	assert.Equal(t, timeback.RoleParent, parent.PrimaryRole().Role)

	sent := stub.last(t).JSON(t)["user"].(map[string]interface{})
	assert.Equal(t, "Mary", sent["givenName"])
	assert.Equal(t, "active", sent["status"])

	roles := sent["roles"].([]interface{})
	require.Len(t, roles, 1)

	role := roles[0].(map[string]interface{})
	assert.Equal(t, "parent", role["role"])
	assert.Equal(t, "primary", role["roleType"])
	assert.Equal(t, "school-1", role["org"].(map[string]interface{})["sourcedId"])
}

func TestUsersClient_CreateParent_Validation(t *testing.T) {
	t.Parallel()

	stub, server := newStubServer(t, http.StatusCreated, "")
	users := NewUsersClient(newTestHTTPClient(server.URL))

	_, err := users.CreateParent(context.Background(), nil)
	assert.True(t, timeback.IsValidation(err))

	_, err = users.CreateParent(context.Background(), &timeback.ParentRequest{GivenName: "Mary", Email: "not-an-email"})
	assert.True(t, timeback.IsValidation(err))
	assert.Zero(t, stub.count())
}

func TestRosteringClient_SubCollections(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		response     string
		expectedPath string
		call         func(ctx context.Context, r *RosteringClient) (int, error)
	}{
		{
			name:         "user classes",
			response:     `{"classes":[{"sourcedId":"c1"}]}`,
			expectedPath: "/users/u1/classes",
			call: func(ctx context.Context, r *RosteringClient) (int, error) {
				list, err := r.Users().ListClasses(ctx, "u1", nil)
				if err != nil {
					return 0, err
				}

				return len(list.Items), nil
			},
		},
		{
			name:         "student classes",
			response:     `{"classes":[{"sourcedId":"c1"},{"sourcedId":"c2"}]}`,
			expectedPath: "/students/s1/classes",
			call: func(ctx context.Context, r *RosteringClient) (int, error) {
				list, err := r.Students().ListClasses(ctx, "s1", nil)
				if err != nil {
					return 0, err
				}

				return len(list.Items), nil
			},
		},
		{
			name:         "course classes",
			response:     `{"classes":[{"sourcedId":"c1"}]}`,
			expectedPath: "/courses/course-1/classes",
			call: func(ctx context.Context, r *RosteringClient) (int, error) {
				list, err := r.Courses().ListClasses(ctx, "course-1", nil)
				if err != nil {
					return 0, err
				}

				return len(list.Items), nil
			},
		},
		{
			name:         "course resources",
			response:     `{"resources":[{"sourcedId":"r1"}]}`,
			expectedPath: "/courses/course-1/resources",
			call: func(ctx context.Context, r *RosteringClient) (int, error) {
				list, err := r.Courses().ListResources(ctx, "course-1", nil)
				if err != nil {
					return 0, err
				}

				return len(list.Items), nil
			},
		},
		{
			name:         "course school",
			response:     `{"org":{"sourcedId":"school-1","name":"Alpha","type":"school"}}`,
			expectedPath: "/courses/course-1/school",
			call: func(ctx context.Context, r *RosteringClient) (int, error) {
				school, err := r.Courses().GetSchool(ctx, "course-1")
				if err != nil {
					return 0, err
				}

				if school.Name != "Alpha" {
					return 0, nil
				}

				return 1, nil
			},
		},
		{
			name:         "component resources",
			response:     `{"componentResources":[{"sourcedId":"cr1"},{"sourcedId":"cr2"}]}`,
			expectedPath: "/courses/components/comp-1/resources",
			call: func(ctx context.Context, r *RosteringClient) (int, error) {
				list, err := r.CourseComponents().ListResources(ctx, "comp-1", nil)
				if err != nil {
					return 0, err
				}

				return len(list.Items), nil
			},
		},
		{
			name:         "class students",
			response:     `{"users":[{"sourcedId":"s1"},{"sourcedId":"s2"},{"sourcedId":"s3"}]}`,
			expectedPath: "/classes/class-1/students",
			call: func(ctx context.Context, r *RosteringClient) (int, error) {
				list, err := r.Classes().ListStudents(ctx, "class-1", nil)
				if err != nil {
					return 0, err
				}

				return len(list.Items), nil
			},
		},
		{
			name:         "class teachers",
			response:     `{"users":[{"sourcedId":"t1"}]}`,
			expectedPath: "/classes/class-1/teachers",
			call: func(ctx context.Context, r *RosteringClient) (int, error) {
				list, err := r.Classes().ListTeachers(ctx, "class-1", nil)
				if err != nil {
					return 0, err
				}

				return len(list.Items), nil
			},
		},
		{
			name:         "schools",
			response:     `{"orgs":[{"sourcedId":"school-1"}]}`,
			expectedPath: "/schools",
			call: func(ctx context.Context, r *RosteringClient) (int, error) {
				list, err := r.Schools().List(ctx, nil)
				if err != nil {
					return 0, err
				}

				return len(list.Items), nil
			},
		},
		{
			name:         "terms",
			response:     `{"academicSessions":[{"sourcedId":"term-1"},{"sourcedId":"term-2"}]}`,
			expectedPath: "/terms",
			call: func(ctx context.Context, r *RosteringClient) (int, error) {
				list, err := r.Terms().List(ctx, nil)
				if err != nil {
					return 0, err
				}

				return len(list.Items), nil
			},
		},
		{
			name:         "teacher",
			response:     `{"user":{"sourcedId":"t1"}}`,
			expectedPath: "/teachers/t1",
			call: func(ctx context.Context, r *RosteringClient) (int, error) {
				teacher, err := r.Teachers().Get(ctx, "t1")
				if err != nil {
					return 0, err
				}

				if teacher.SourcedID != "t1" {
					return 0, nil
				}

				return 1, nil
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			stub, server := newStubServer(t, http.StatusOK, tt.response)
			rostering := NewRosteringClient(newTestHTTPClient(server.URL))

			count, err := tt.call(context.Background(), rostering)
			require.NoError(t, err)
			assert.Positive(t, count)

			req := stub.last(t)
			assert.Equal(t, http.MethodGet, req.Method)
			assert.Equal(t, tt.expectedPath, req.Path)
		})
	}
}

func TestRosteringClient_RequiresIDs(t *testing.T) {
	t.Parallel()

	stub, server := newStubServer(t, http.StatusOK, "{}")
	rostering := NewRosteringClient(newTestHTTPClient(server.URL))
	ctx := context.Background()

	_, err := rostering.Users().ListClasses(ctx, "", nil)
	assert.True(t, timeback.IsValidation(err))

	_, err = rostering.Courses().GetSchool(ctx, "")
	assert.True(t, timeback.IsValidation(err))

	_, err = rostering.Classes().ListStudents(ctx, "", nil)
	assert.True(t, timeback.IsValidation(err))

	_, err = rostering.Enrollments().ForClass(ctx, "", "", "", nil)
	assert.True(t, timeback.IsValidation(err))

	_, err = rostering.Teachers().ListClasses(ctx, "", nil)
	assert.True(t, timeback.IsValidation(err))

	assert.Zero(t, stub.count())
}

func TestEnrollmentsClient_Filters(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		call       func(ctx context.Context, c *EnrollmentsClient) error
		wantFilter string
	}{
		{
			name: "student with status",
			call: func(ctx context.Context, c *EnrollmentsClient) error {
				_, err := c.ForStudent(ctx, "s1", timeback.StatusActive, nil)

				return err
			},
			wantFilter: "user.sourcedId='s1' AND role='student' AND status='active'",
		},
		{
			name: "student any status",
			call: func(ctx context.Context, c *EnrollmentsClient) error {
				_, err := c.ForStudent(ctx, "s1", "", nil)

				return err
			},
			wantFilter: "user.sourcedId='s1' AND role='student'",
		},
		{
			name: "class only",
			call: func(ctx context.Context, c *EnrollmentsClient) error {
				_, err := c.ForClass(ctx, "c1", "", "", nil)

				return err
			},
			wantFilter: "class.sourcedId='c1'",
		},
		{
			name: "class with role and caller filter",
			call: func(ctx context.Context, c *EnrollmentsClient) error {
				params := timeback.NewQueryParams().WithLimit(5).WithFilter("primary='true' OR beginDate>'2024-01-01'")
				_, err := c.ForClass(ctx, "c1", timeback.RoleTeacher, timeback.StatusActive, params)

				return err
			},
			wantFilter: "class.sourcedId='c1' AND role='teacher' AND status='active' AND (primary='true' OR beginDate>'2024-01-01')",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			stub, server := newStubServer(t, http.StatusOK, `{"enrollments":[]}`)
			enrollments := NewEnrollmentsClient(newTestHTTPClient(server.URL))

			require.NoError(t, tt.call(context.Background(), enrollments))

			req := stub.last(t)
			assert.Equal(t, "/enrollments", req.Path)

			query, err := url.ParseQuery(req.RawQuery)
			require.NoError(t, err)
			assert.Equal(t, tt.wantFilter, query.Get("filter"))
		})
	}
}

func TestEnrollmentsClient_DoesNotMutateCallerParams(t *testing.T) {
	t.Parallel()

	_, server := newStubServer(t, http.StatusOK, `{"enrollments":[]}`)
	enrollments := NewEnrollmentsClient(newTestHTTPClient(server.URL))

	params := timeback.NewQueryParams().WithFilter("status='active'")

	_, err := enrollments.ForStudent(context.Background(), "s1", "", params)
	require.NoError(t, err)
	assert.Equal(t, "status='active'", params.Filter)
}

func TestTeachersClient_ListClasses(t *testing.T) {
	t.Parallel()

	t.Run("resolves classes through enrollments", func(t *testing.T) {
		t.Parallel()

		stub, server := newRoutedServer(t, route{Status: http.StatusNotFound}, map[string]route{
			"/enrollments": {Status: http.StatusOK, Body: `{"enrollments":[
				{"sourcedId":"e1","role":"teacher","class":{"sourcedId":"c1"},"user":{"sourcedId":"t1"}},
				{"sourcedId":"e2","role":"teacher","class":{"sourcedId":"c2"},"user":{"sourcedId":"t1"}},
				{"sourcedId":"e3","role":"teacher","class":{"sourcedId":"c1"},"user":{"sourcedId":"t1"}}
			],"totalCount":3}`},
			"/classes": {Status: http.StatusOK, Body: `{"classes":[{"sourcedId":"c1","title":"Algebra"},{"sourcedId":"c2","title":"Geometry"}],"totalCount":2}`},
		})
		rostering := NewRosteringClient(newTestHTTPClient(server.URL))

		params := timeback.NewQueryParams().WithLimit(20).WithFilter("status='active'")

		list, err := rostering.Teachers().ListClasses(context.Background(), "t1", params)
		require.NoError(t, err)
		require.Len(t, list.Items, 2)
		assert.Equal(t, "Algebra", list.Items[0].Title)

		requests := stub.all()
		require.Len(t, requests, 2)

		enrollmentQuery, err := url.ParseQuery(requests[0].RawQuery)
		require.NoError(t, err)
		assert.Equal(t, "user.sourcedId='t1' AND role='teacher'", enrollmentQuery.Get("filter"))

		classQuery, err := url.ParseQuery(requests[1].RawQuery)
		require.NoError(t, err)
		assert.Equal(t, "(sourcedId='c1' OR sourcedId='c2') AND status='active'", classQuery.Get("filter"))
		assert.Equal(t, "20", classQuery.Get("limit"))
	})

	t.Run("no enrollments means no classes", func(t *testing.T) {
		t.Parallel()

		stub, server := newRoutedServer(t, route{Status: http.StatusNotFound}, map[string]route{
			"/enrollments": {Status: http.StatusOK, Body: `{"enrollments":[],"totalCount":0}`},
		})
		rostering := NewRosteringClient(newTestHTTPClient(server.URL))

		list, err := rostering.Teachers().ListClasses(context.Background(), "t1", nil)
		require.NoError(t, err)
		assert.Empty(t, list.Items)
		assert.Equal(t, 1, stub.count())
	})
}

func TestRosteringClient_CRUDPaths(t *testing.T) {
	t.Parallel()

	RunReadTests(t, []TestReadOperation[timeback.AcademicSession]{
		{
			Name:         "academic session",
			ID:           "term-1",
			ExpectedPath: "/academicSessions/term-1",
			StatusCode:   http.StatusOK,
			Response:     `{"academicSession":{"sourcedId":"term-1","title":"Fall"}}`,
			Check: func(t *testing.T, got *timeback.AcademicSession) {
				t.Helper()
				assert.Equal(t, "Fall", got.Title)
			},
		},
	}, func(c *internalhttp.Client) func(context.Context, string) (*timeback.AcademicSession, error) {
		return NewAcademicSessionsClient(c).Get
	})

	RunReadTests(t, []TestReadOperation[timeback.ComponentResource]{
		{
			Name:         "component resource",
			ID:           "cr-1",
			ExpectedPath: "/courses/component-resources/cr-1",
			StatusCode:   http.StatusOK,
			Response:     `{"componentResource":{"sourcedId":"cr-1","title":"Video"}}`,
		},
	}, func(c *internalhttp.Client) func(context.Context, string) (*timeback.ComponentResource, error) {
		return NewComponentResourcesClient(c).Get
	})
}
