package client

import (
	"context"

	"github.com/fivetwenty-io/timeback/internal/http"
	"github.com/fivetwenty-io/timeback/pkg/timeback"
)

// CASEClient implements timeback.CASEService.
type CASEClient struct {
	httpClient *http.Client
}

// NewCASEClient creates the CASE service on a client rooted at /ims/case/v1p1.
func NewCASEClient(httpClient *http.Client) *CASEClient {
	return &CASEClient{httpClient: httpClient}
}

// ListDocuments implements timeback.CASEService.ListDocuments.
func (c *CASEClient) ListDocuments(ctx context.Context, params *timeback.QueryParams) (*timeback.ListResponse[timeback.CFDocument], error) {
	return listAt[timeback.CFDocument](ctx, c.httpClient, "/CFDocuments", "CFDocuments", params, "listing CASE documents")
}

// SearchDocuments implements timeback.CASEService.SearchDocuments.
// A search without criteria lists every document.
func (c *CASEClient) SearchDocuments(ctx context.Context, search *timeback.CFDocumentSearch) (*timeback.ListResponse[timeback.CFDocument], error) {
	if search.Empty() {
		return c.ListDocuments(ctx, nil)
	}

	return listAt[timeback.CFDocument](ctx, c.httpClient, "/CFDocuments", "CFDocuments", search.QueryParams(), "searching CASE documents")
}

// GetDocument implements timeback.CASEService.GetDocument.
func (c *CASEClient) GetDocument(ctx context.Context, sourcedID string) (*timeback.CFDocument, error) {
	err := timeback.RequireID("CASE document id", sourcedID)
	if err != nil {
		return nil, err
	}

	return getAt[timeback.CFDocument](ctx, c.httpClient, joinPath("/CFDocuments", sourcedID), "CFDocument", nil, "getting CASE document")
}

// ListDocumentItems implements timeback.CASEService.ListDocumentItems.
func (c *CASEClient) ListDocumentItems(ctx context.Context, documentID string, params *timeback.QueryParams) (*timeback.ListResponse[timeback.CFItem], error) {
	err := timeback.RequireID("CASE document id", documentID)
	if err != nil {
		return nil, err
	}

	return listAt[timeback.CFItem](ctx, c.httpClient, joinPath("/CFDocuments", documentID)+"/CFItems", "CFItems", params, "listing CASE items")
}

// ListDocumentAssociations implements timeback.CASEService.ListDocumentAssociations.
func (c *CASEClient) ListDocumentAssociations(ctx context.Context, documentID string, params *timeback.QueryParams) (*timeback.ListResponse[timeback.CFAssociation], error) {
	err := timeback.RequireID("CASE document id", documentID)
	if err != nil {
		return nil, err
	}

	path := joinPath("/CFDocuments", documentID) + "/CFAssociations"

	return listAt[timeback.CFAssociation](ctx, c.httpClient, path, "CFAssociations", params, "listing CASE associations")
}

// GetPackage implements timeback.CASEService.GetPackage.
func (c *CASEClient) GetPackage(ctx context.Context, documentID string) (*timeback.CFPackage, error) {
	err := timeback.RequireID("CASE document id", documentID)
	if err != nil {
		return nil, err
	}

	return getAt[timeback.CFPackage](ctx, c.httpClient, joinPath("/CFPackages", documentID), "CFPackage", nil, "getting CASE package")
}

// GetPackageGroups implements timeback.CASEService.GetPackageGroups.
func (c *CASEClient) GetPackageGroups(ctx context.Context, documentID string) (timeback.Document, error) {
	err := timeback.RequireID("CASE document id", documentID)
	if err != nil {
		return nil, err
	}

	groups, err := getAt[timeback.Document](ctx, c.httpClient, joinPath("/CFPackages", documentID)+"/groups", "CFPackageWithGroups", nil, "getting CASE package groups")
	if err != nil {
		return nil, err
	}

	return *groups, nil
}

// GetItem implements timeback.CASEService.GetItem.
func (c *CASEClient) GetItem(ctx context.Context, sourcedID string) (*timeback.CFItem, error) {
	err := timeback.RequireID("CASE item id", sourcedID)
	if err != nil {
		return nil, err
	}

	return getAt[timeback.CFItem](ctx, c.httpClient, joinPath("/CFItems", sourcedID), "CFItem", nil, "getting CASE item")
}

// GetAssociation implements timeback.CASEService.GetAssociation.
func (c *CASEClient) GetAssociation(ctx context.Context, sourcedID string) (*timeback.CFAssociation, error) {
	err := timeback.RequireID("CASE association id", sourcedID)
	if err != nil {
		return nil, err
	}

	return getAt[timeback.CFAssociation](ctx, c.httpClient, joinPath("/CFAssociations", sourcedID), "CFAssociation", nil, "getting CASE association")
}
