package client

import (
	"context"
	"fmt"

	"github.com/fivetwenty-io/timeback/internal/http"
	"github.com/fivetwenty-io/timeback/pkg/timeback"
	"github.com/tidwall/gjson"
)

// EduBridgeClient implements timeback.EduBridgeService.
type EduBridgeClient struct {
	httpClient *http.Client
}

// NewEduBridgeClient creates the EduBridge service on a client rooted at /edubridge.
func NewEduBridgeClient(httpClient *http.Client) *EduBridgeClient {
	return &EduBridgeClient{httpClient: httpClient}
}

// ListSubjectTracks implements timeback.EduBridgeService.ListSubjectTracks.
func (c *EduBridgeClient) ListSubjectTracks(ctx context.Context, params *timeback.QueryParams) (*timeback.ListResponse[timeback.Document], error) {
	return c.list(ctx, "/subject-track/", params, "listing subject tracks", "subjectTracks", "data")
}

// ListApplications implements timeback.EduBridgeService.ListApplications.
func (c *EduBridgeClient) ListApplications(ctx context.Context, params *timeback.QueryParams) (*timeback.ListResponse[timeback.Document], error) {
	return c.list(ctx, "/applications/", params, "listing applications", "applications", "data")
}

// list accepts a bare array or the first of keys holding one. The trailing slash of path is kept.
func (c *EduBridgeClient) list(ctx context.Context, path string, params *timeback.QueryParams, action string, keys ...string) (*timeback.ListResponse[timeback.Document], error) {
	query, err := params.ToValues()
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Get(ctx, path, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", action, err)
	}

	key := keys[0]

	for _, candidate := range keys {
		if gjson.GetBytes(resp.Body, candidate).IsArray() {
			key = candidate

			break
		}
	}

	list, err := timeback.DecodeList[timeback.Document](resp.Body, key)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", key, err)
	}

	return list, nil
}
