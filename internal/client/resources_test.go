package client

import (
	"context"
	"net/http"
	"testing"

	"github.com/fivetwenty-io/timeback/pkg/timeback"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResourcesClient_ListForCourse(t *testing.T) {
	t.Parallel()

	stub, server := newStubServer(t, http.StatusOK,
		`{"resources":[{"sourcedId":"r-1","title":"Fractions video","vendorResourceId":"v-1"}],"totalCount":1}`)
	resources := NewResourcesClient(newTestHTTPClient(server.URL))

	page, err := resources.ListForCourse(context.Background(), "course-1", timeback.NewQueryParams().WithLimit(5))
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Fractions video", page.Items[0].Title)
	assert.Equal(t, 1, page.TotalCount)

	sent := stub.last(t)
	assert.Equal(t, http.MethodGet, sent.Method)
	assert.Equal(t, "/resources/courses/course-1/resources", sent.Path)
	assert.Equal(t, "limit=5", sent.RawQuery)

	_, err = resources.ListForCourse(context.Background(), "", nil)
	assert.ErrorIs(t, err, timeback.ErrIDRequired)
}

func TestResourcesClient_AssignToCourse(t *testing.T) {
	t.Parallel()

	stub, server := newStubServer(t, http.StatusCreated, "")
	resources := NewResourcesClient(newTestHTTPClient(server.URL))

	require.NoError(t, resources.AssignToCourse(context.Background(), "course-1", "r-1"))

	sent := stub.last(t)
	assert.Equal(t, http.MethodPost, sent.Method)
	assert.Equal(t, "/resources/courses/course-1/resources", sent.Path)

	ref := sent.JSON(t)["resource"].(map[string]interface{})
	assert.Equal(t, "r-1", ref["sourcedId"])
	assert.Equal(t, "resource", ref["type"])

	err := resources.AssignToCourse(context.Background(), "course-1", "")
	require.ErrorIs(t, err, timeback.ErrIDRequired)
	assert.Equal(t, 1, stub.count())
}

func TestResourcesClient_CreateValidates(t *testing.T) {
	t.Parallel()

	stub, server := newStubServer(t, http.StatusCreated, "")
	resources := NewResourcesClient(newTestHTTPClient(server.URL))

	_, err := resources.Create(context.Background(), &timeback.Resource{Title: "No vendor id"})
	assert.True(t, timeback.IsValidation(err))
	assert.Zero(t, stub.count())

	created, err := resources.Create(context.Background(), &timeback.Resource{Title: "Video", VendorResourceID: "v-1"})
	require.NoError(t, err)
	assert.NotEmpty(t, created.SourcedID)
	assert.Equal(t, "/resources", stub.last(t).Path)
}

func TestGradebookClient_Paths(t *testing.T) {
	t.Parallel()

	stub, server := newStubServer(t, http.StatusOK,
		`{"assessmentResult":{"sourcedId":"ar-1","scoreDate":"2026-01-05","scoreStatus":"fully graded"}}`)
	gradebook := NewGradebookClient(newTestHTTPClient(server.URL))

	result, err := gradebook.AssessmentResults().Get(context.Background(), "ar-1")
	require.NoError(t, err)
	assert.Equal(t, "ar-1", result.SourcedID)
	assert.Equal(t, "/assessmentResults/ar-1", stub.last(t).Path)

	_, err = gradebook.AssessmentLineItems().List(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "/assessmentLineItems", stub.last(t).Path)

	require.NoError(t, gradebook.AssessmentLineItems().Delete(context.Background(), "li-1"))
	assert.Equal(t, http.MethodDelete, stub.last(t).Method)
	assert.Equal(t, "/assessmentLineItems/li-1", stub.last(t).Path)
}
