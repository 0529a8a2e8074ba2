package client

import (
	"context"
	"fmt"

	"github.com/fivetwenty-io/timeback/internal/http"
	"github.com/fivetwenty-io/timeback/pkg/timeback"
)

// ResourcesServiceClient implements timeback.ResourcesService.
type ResourcesServiceClient struct {
	resources *ResourcesClient
}

// NewResourcesServiceClient creates the resources service on a client rooted at /ims/oneroster/resources/v1p2.
func NewResourcesServiceClient(httpClient *http.Client) *ResourcesServiceClient {
	return &ResourcesServiceClient{
		resources: NewResourcesClient(httpClient),
	}
}

// Resources implements timeback.ResourcesService.Resources.
func (s *ResourcesServiceClient) Resources() timeback.ResourcesClient {
	return s.resources
}

// ResourcesClient implements timeback.ResourcesClient.
type ResourcesClient struct {
	*ResourceClient[timeback.Resource]
}

// NewResourcesClient creates a new resources client.
func NewResourcesClient(httpClient *http.Client) *ResourcesClient {
	return &ResourcesClient{
		ResourceClient: newResourceClient(httpClient, oneRosterSpec(
			"resource", "/resources", "resource", "resources",
			func(r *timeback.Resource) *string { return &r.SourcedID },
		)),
	}
}

// ListForCourse implements timeback.ResourcesClient.ListForCourse.
func (c *ResourcesClient) ListForCourse(ctx context.Context, courseID string, params *timeback.QueryParams) (*timeback.ListResponse[timeback.Resource], error) {
	err := timeback.RequireID("course id", courseID)
	if err != nil {
		return nil, err
	}

	return listAt[timeback.Resource](ctx, c.httpClient, courseResourcesPath(courseID), "resources", params, "listing resources for course")
}

// AssignToCourse implements timeback.ResourcesClient.AssignToCourse.
func (c *ResourcesClient) AssignToCourse(ctx context.Context, courseID, resourceID string) error {
	err := timeback.RequireID("course id", courseID)
	if err != nil {
		return err
	}

	err = timeback.RequireID("resource id", resourceID)
	if err != nil {
		return err
	}

	body := timeback.Envelope("resource", timeback.Ref{SourcedID: resourceID, Type: "resource"})

	_, err = c.httpClient.Post(ctx, courseResourcesPath(courseID), body)
	if err != nil {
		return fmt.Errorf("assigning resource to course: %w", err)
	}

	return nil
}

func courseResourcesPath(courseID string) string {
	return joinPath("/resources/courses", courseID) + "/resources"
}
