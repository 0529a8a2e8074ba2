package client

import (
	"github.com/fivetwenty-io/timeback/internal/http"
	"github.com/fivetwenty-io/timeback/pkg/timeback"
)

// GradebookClient implements timeback.GradebookService.
type GradebookClient struct {
	lineItems *AssessmentLineItemsClient
	results   *AssessmentResultsClient
}

// NewGradebookClient creates the gradebook service on a client rooted at /ims/oneroster/gradebook/v1p2.
func NewGradebookClient(httpClient *http.Client) *GradebookClient {
	return &GradebookClient{
		lineItems: NewAssessmentLineItemsClient(httpClient),
		results:   NewAssessmentResultsClient(httpClient),
	}
}

// AssessmentLineItems implements timeback.GradebookService.AssessmentLineItems.
func (g *GradebookClient) AssessmentLineItems() timeback.AssessmentLineItemsClient {
	return g.lineItems
}

// AssessmentResults implements timeback.GradebookService.AssessmentResults.
func (g *GradebookClient) AssessmentResults() timeback.AssessmentResultsClient {
	return g.results
}

// AssessmentLineItemsClient implements timeback.AssessmentLineItemsClient.
type AssessmentLineItemsClient struct {
	*ResourceClient[timeback.AssessmentLineItem]
}

// NewAssessmentLineItemsClient creates a new assessment line items client.
func NewAssessmentLineItemsClient(httpClient *http.Client) *AssessmentLineItemsClient {
	return &AssessmentLineItemsClient{
		ResourceClient: newResourceClient(httpClient, oneRosterSpec(
			"assessment line item", "/assessmentLineItems", "assessmentLineItem", "assessmentLineItems",
			func(a *timeback.AssessmentLineItem) *string { return &a.SourcedID },
		)),
	}
}

// AssessmentResultsClient implements timeback.AssessmentResultsClient.
type AssessmentResultsClient struct {
	*ResourceClient[timeback.AssessmentResult]
}

// NewAssessmentResultsClient creates a new assessment results client.
func NewAssessmentResultsClient(httpClient *http.Client) *AssessmentResultsClient {
	return &AssessmentResultsClient{
		ResourceClient: newResourceClient(httpClient, oneRosterSpec(
			"assessment result", "/assessmentResults", "assessmentResult", "assessmentResults",
			func(a *timeback.AssessmentResult) *string { return &a.SourcedID },
		)),
	}
}
