package client

import (
	"context"
	"fmt"

	"github.com/fivetwenty-io/timeback/internal/http"
	"github.com/fivetwenty-io/timeback/pkg/timeback"
)

// qtiListKey is the array key of every QTI collection response.
const qtiListKey = "items"

// qtiSpec describes a QTI collection. Records travel bare and are keyed by their identifier.
func qtiSpec[T entity](name, path string, id func(*T) *string) resourceSpec[T] {
	return resourceSpec[T]{
		name:   name,
		path:   path,
		plural: qtiListKey,
		id:     id,
	}
}

// QTIClient implements timeback.QTIService.
type QTIClient struct {
	items   *AssessmentItemsClient
	tests   *AssessmentTestsClient
	stimuli *StimuliClient
}

// NewQTIClient creates the QTI service on a client rooted at the QTI base URL.
func NewQTIClient(httpClient *http.Client) *QTIClient {
	return &QTIClient{
		items:   NewAssessmentItemsClient(httpClient),
		tests:   NewAssessmentTestsClient(httpClient),
		stimuli: NewStimuliClient(httpClient),
	}
}

// AssessmentItems implements timeback.QTIService.AssessmentItems.
func (q *QTIClient) AssessmentItems() timeback.AssessmentItemsClient {
	return q.items
}

// AssessmentTests implements timeback.QTIService.AssessmentTests.
func (q *QTIClient) AssessmentTests() timeback.AssessmentTestsClient {
	return q.tests
}

// Stimuli implements timeback.QTIService.Stimuli.
func (q *QTIClient) Stimuli() timeback.StimuliClient {
	return q.stimuli
}

// AssessmentItemsClient implements timeback.AssessmentItemsClient.
type AssessmentItemsClient struct {
	*ResourceClient[timeback.AssessmentItem]
}

// NewAssessmentItemsClient creates a new assessment items client.
func NewAssessmentItemsClient(httpClient *http.Client) *AssessmentItemsClient {
	return &AssessmentItemsClient{
		ResourceClient: newResourceClient(httpClient, qtiSpec("assessment item", "/assessment-items",
			func(a *timeback.AssessmentItem) *string { return &a.Identifier },
		)),
	}
}

// ProcessResponse implements timeback.AssessmentItemsClient.ProcessResponse.
func (c *AssessmentItemsClient) ProcessResponse(ctx context.Context, itemID, responseID string, response interface{}) (*timeback.ResponseResult, error) {
	err := timeback.RequireID("assessment item id", itemID)
	if err != nil {
		return nil, err
	}

	if response == nil {
		return nil, &timeback.ValidationError{Field: "response", Message: "is required"}
	}

	if responseID == "" {
		responseID = timeback.DefaultResponseIdentifier
	}

	request := &timeback.ProcessResponseRequest{Identifier: responseID, Response: response}

	return c.process(ctx, c.itemPath(itemID)+"/process-response", request)
}

// ProcessResponses implements timeback.AssessmentItemsClient.ProcessResponses.
func (c *AssessmentItemsClient) ProcessResponses(ctx context.Context, itemID string, responses map[string]interface{}) (*timeback.ResponseResult, error) {
	err := timeback.RequireID("assessment item id", itemID)
	if err != nil {
		return nil, err
	}

	if len(responses) == 0 {
		return nil, &timeback.ValidationError{Field: "responses", Message: "is required"}
	}

	request := &timeback.ProcessResponsesRequest{Responses: responses}

	return c.process(ctx, c.itemPath(itemID)+"/process-response?v2", request)
}

func (c *AssessmentItemsClient) process(ctx context.Context, path string, request interface{}) (*timeback.ResponseResult, error) {
	resp, err := c.httpClient.Post(ctx, path, request)
	if err != nil {
		return nil, fmt.Errorf("processing response: %w", err)
	}

	result, err := timeback.DecodeEntity[timeback.ResponseResult](resp.Body, "")
	if err != nil {
		return nil, fmt.Errorf("parsing response result: %w", err)
	}

	return result, nil
}

// AssessmentTestsClient implements timeback.AssessmentTestsClient.
type AssessmentTestsClient struct {
	*ResourceClient[timeback.AssessmentTest]
}

// NewAssessmentTestsClient creates a new assessment tests client.
func NewAssessmentTestsClient(httpClient *http.Client) *AssessmentTestsClient {
	return &AssessmentTestsClient{
		ResourceClient: newResourceClient(httpClient, qtiSpec("assessment test", "/assessment-tests",
			func(a *timeback.AssessmentTest) *string { return &a.Identifier },
		)),
	}
}

// testParts scopes a resource client to one test's parts.
func (c *AssessmentTestsClient) testParts(testID string) *ResourceClient[timeback.TestPart] {
	return newResourceClient(c.httpClient, qtiSpec("test part", joinPath(c.spec.path, testID)+"/test-parts",
		func(p *timeback.TestPart) *string { return &p.Identifier },
	))
}

// sections scopes a resource client to one test part's sections.
func (c *AssessmentTestsClient) sections(testID, partID string) *ResourceClient[timeback.Section] {
	return newResourceClient(c.httpClient, qtiSpec("section", joinPath(c.spec.path, testID, "test-parts", partID)+"/sections",
		func(s *timeback.Section) *string { return &s.Identifier },
	))
}

// ListTestParts implements timeback.AssessmentTestsClient.ListTestParts.
func (c *AssessmentTestsClient) ListTestParts(ctx context.Context, testID string, params *timeback.QueryParams) (*timeback.ListResponse[timeback.TestPart], error) {
	err := timeback.RequireID("assessment test id", testID)
	if err != nil {
		return nil, err
	}

	return c.testParts(testID).List(ctx, params)
}

// GetTestPart implements timeback.AssessmentTestsClient.GetTestPart.
func (c *AssessmentTestsClient) GetTestPart(ctx context.Context, testID, partID string) (*timeback.TestPart, error) {
	err := timeback.RequireID("assessment test id", testID)
	if err != nil {
		return nil, err
	}

	return c.testParts(testID).Get(ctx, partID)
}

// CreateTestPart implements timeback.AssessmentTestsClient.CreateTestPart.
func (c *AssessmentTestsClient) CreateTestPart(ctx context.Context, testID string, part *timeback.TestPart) (*timeback.TestPart, error) {
	err := timeback.RequireID("assessment test id", testID)
	if err != nil {
		return nil, err
	}

	return c.testParts(testID).Create(ctx, part)
}

// UpdateTestPart implements timeback.AssessmentTestsClient.UpdateTestPart.
func (c *AssessmentTestsClient) UpdateTestPart(ctx context.Context, testID, partID string, part *timeback.TestPart) (*timeback.TestPart, error) {
	err := timeback.RequireID("assessment test id", testID)
	if err != nil {
		return nil, err
	}

	return c.testParts(testID).Update(ctx, partID, part)
}

// DeleteTestPart implements timeback.AssessmentTestsClient.DeleteTestPart.
func (c *AssessmentTestsClient) DeleteTestPart(ctx context.Context, testID, partID string) error {
	err := timeback.RequireID("assessment test id", testID)
	if err != nil {
		return err
	}

	return c.testParts(testID).Delete(ctx, partID)
}

// ListSections implements timeback.AssessmentTestsClient.ListSections.
func (c *AssessmentTestsClient) ListSections(ctx context.Context, testID, partID string, params *timeback.QueryParams) (*timeback.ListResponse[timeback.Section], error) {
	err := requireTestPart(testID, partID)
	if err != nil {
		return nil, err
	}

	return c.sections(testID, partID).List(ctx, params)
}

// GetSection implements timeback.AssessmentTestsClient.GetSection.
func (c *AssessmentTestsClient) GetSection(ctx context.Context, testID, partID, sectionID string) (*timeback.Section, error) {
	err := requireTestPart(testID, partID)
	if err != nil {
		return nil, err
	}

	return c.sections(testID, partID).Get(ctx, sectionID)
}

// CreateSection implements timeback.AssessmentTestsClient.CreateSection.
func (c *AssessmentTestsClient) CreateSection(ctx context.Context, testID, partID string, section *timeback.Section) (*timeback.Section, error) {
	err := requireTestPart(testID, partID)
	if err != nil {
		return nil, err
	}

	return c.sections(testID, partID).Create(ctx, section)
}

// UpdateSection implements timeback.AssessmentTestsClient.UpdateSection.
func (c *AssessmentTestsClient) UpdateSection(ctx context.Context, testID, partID, sectionID string, section *timeback.Section) (*timeback.Section, error) {
	err := requireTestPart(testID, partID)
	if err != nil {
		return nil, err
	}

	return c.sections(testID, partID).Update(ctx, sectionID, section)
}

// DeleteSection implements timeback.AssessmentTestsClient.DeleteSection.
func (c *AssessmentTestsClient) DeleteSection(ctx context.Context, testID, partID, sectionID string) error {
	err := requireTestPart(testID, partID)
	if err != nil {
		return err
	}

	return c.sections(testID, partID).Delete(ctx, sectionID)
}

// addItemRequest names the item to place; the remaining reference fields ride along.
type addItemRequest struct {
	ItemIdentifier string `json:"itemIdentifier"`
	*timeback.ItemRef
}

// AddItem implements timeback.AssessmentTestsClient.AddItem.
func (c *AssessmentTestsClient) AddItem(ctx context.Context, testID, partID, sectionID string, item *timeback.ItemRef) (*timeback.Section, error) {
	err := requireTestPart(testID, partID)
	if err != nil {
		return nil, err
	}

	err = timeback.RequireID("section id", sectionID)
	if err != nil {
		return nil, err
	}

	if item == nil {
		return nil, &timeback.ValidationError{Field: "item ref", Message: "is required"}
	}

	err = timeback.ValidateEntity("item ref", item)
	if err != nil {
		return nil, err
	}

	path := joinPath(c.spec.path, testID, "test-parts", partID, "sections", sectionID) + "/items"

	resp, err := c.httpClient.Post(ctx, path, &addItemRequest{ItemIdentifier: item.Identifier, ItemRef: item})
	if err != nil {
		return nil, fmt.Errorf("adding item to section: %w", err)
	}

	if len(resp.Body) == 0 {
		return c.GetSection(ctx, testID, partID, sectionID)
	}

	section, err := timeback.DecodeEntity[timeback.Section](resp.Body, "")
	if err != nil {
		return nil, fmt.Errorf("parsing section: %w", err)
	}

	return section, nil
}

// RemoveItem implements timeback.AssessmentTestsClient.RemoveItem.
func (c *AssessmentTestsClient) RemoveItem(ctx context.Context, testID, partID, sectionID, itemID string) error {
	err := requireTestPart(testID, partID)
	if err != nil {
		return err
	}

	err = timeback.RequireID("section id", sectionID)
	if err != nil {
		return err
	}

	err = timeback.RequireID("item id", itemID)
	if err != nil {
		return err
	}

	_, err = c.httpClient.Delete(ctx, joinPath(c.spec.path, testID, "test-parts", partID, "sections", sectionID, "items", itemID))
	if err != nil {
		return fmt.Errorf("removing item from section: %w", err)
	}

	return nil
}

func requireTestPart(testID, partID string) error {
	err := timeback.RequireID("assessment test id", testID)
	if err != nil {
		return err
	}

	return timeback.RequireID("test part id", partID)
}

// StimuliClient implements timeback.StimuliClient.
type StimuliClient struct {
	*ResourceClient[timeback.Stimulus]
}

// NewStimuliClient creates a new stimuli client.
func NewStimuliClient(httpClient *http.Client) *StimuliClient {
	return &StimuliClient{
		ResourceClient: newResourceClient(httpClient, qtiSpec("stimulus", "/stimuli",
			func(s *timeback.Stimulus) *string { return &s.Identifier },
		)),
	}
}
