package client

import (
	"context"
	"net/http"
	"testing"

	"github.com/fivetwenty-io/timeback/pkg/timeback"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEduBridgeClient_Lists(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		body     string
		call     func(*EduBridgeClient) (*timeback.ListResponse[timeback.Document], error)
		wantPath string
		wantIDs  []string
	}{
		{
			name: "subject tracks as bare array",
			body: `[{"id":"t1","subject":"Math"},{"id":"t2","subject":"Science"}]`,
			call: func(c *EduBridgeClient) (*timeback.ListResponse[timeback.Document], error) {
				return c.ListSubjectTracks(context.Background(), nil)
			},
			wantPath: "/subject-track/",
			wantIDs:  []string{"t1", "t2"},
		},
		{
			name: "subject tracks under data",
			body: `{"data":[{"id":"t3"}]}`,
			call: func(c *EduBridgeClient) (*timeback.ListResponse[timeback.Document], error) {
				return c.ListSubjectTracks(context.Background(), nil)
			},
			wantPath: "/subject-track/",
			wantIDs:  []string{"t3"},
		},
		{
			name: "applications under own key",
			body: `{"applications":[{"id":"app-1"}],"data":[{"id":"ignored"}]}`,
			call: func(c *EduBridgeClient) (*timeback.ListResponse[timeback.Document], error) {
				return c.ListApplications(context.Background(), nil)
			},
			wantPath: "/applications/",
			wantIDs:  []string{"app-1"},
		},
		{
			name: "applications empty object",
			body: `{}`,
			call: func(c *EduBridgeClient) (*timeback.ListResponse[timeback.Document], error) {
				return c.ListApplications(context.Background(), nil)
			},
			wantPath: "/applications/",
			wantIDs:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			stub, server := newStubServer(t, http.StatusOK, tt.body)
			eduBridge := NewEduBridgeClient(newTestHTTPClient(server.URL + "/edubridge"))

			list, err := tt.call(eduBridge)
			require.NoError(t, err)

			ids := make([]string, 0, len(list.Items))
			for _, item := range list.Items {
				ids = append(ids, item["id"].(string))
			}

			assert.Equal(t, tt.wantIDs, ids)
			assert.Equal(t, "/edubridge"+tt.wantPath, stub.last(t).Path)
		})
	}
}

func TestEduBridgeClient_InvalidQuery(t *testing.T) {
	t.Parallel()

	stub, server := newStubServer(t, http.StatusOK, `[]`)
	eduBridge := NewEduBridgeClient(newTestHTTPClient(server.URL))

	_, err := eduBridge.ListApplications(context.Background(), timeback.NewQueryParams().WithLimit(-1))
	require.Error(t, err)
	assert.True(t, timeback.IsValidation(err))
	assert.Zero(t, stub.count())
}
