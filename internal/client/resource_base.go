package client

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/fivetwenty-io/timeback/internal/http"
	"github.com/fivetwenty-io/timeback/pkg/timeback"
	"github.com/google/uuid"
	"github.com/tidwall/gjson"
)

// entity is a record that checks its own required fields.
type entity interface {
	Validate() error
}

// resourceSpec maps a collection onto its endpoint and envelopes.
type resourceSpec[T entity] struct {
	// name is used in error messages.
	name string
	// path is the collection path relative to the service base URL.
	path string
	// singular and plural are the envelope keys. An empty singular sends and reads bare records.
	singular string
	plural   string
	// id returns the record's identifier field so Create can fill it.
	id func(*T) *string
	// generateID assigns a UUID to records created without an identifier.
	generateID bool
}

// ResourceClient implements timeback.ResourceClient for one collection.
type ResourceClient[T entity] struct {
	httpClient *http.Client
	spec       resourceSpec[T]
}

// newResourceClient creates a generic CRUD client.
func newResourceClient[T entity](httpClient *http.Client, spec resourceSpec[T]) *ResourceClient[T] {
	return &ResourceClient[T]{
		httpClient: httpClient,
		spec:       spec,
	}
}

// Create validates the record, assigns an identifier when missing and POSTs it.
func (c *ResourceClient[T]) Create(ctx context.Context, record *T) (*T, error) {
	if record == nil {
		return nil, &timeback.ValidationError{Field: c.spec.name, Message: "is required"}
	}

	if c.spec.generateID && c.spec.id != nil {
		if id := c.spec.id(record); *id == "" {
			*id = uuid.NewString()
		}
	}

	err := timeback.ValidateEntity(c.spec.name, *record)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Post(ctx, c.spec.path, c.payload(record))
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", c.spec.name, err)
	}

	return c.decodeWrite(resp.Body, record, "parsing created "+c.spec.name)
}

// Get fetches one record.
func (c *ResourceClient[T]) Get(ctx context.Context, id string) (*T, error) {
	err := timeback.RequireID(c.spec.name+" id", id)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Get(ctx, c.itemPath(id), nil)
	if err != nil {
		return nil, fmt.Errorf("getting %s: %w", c.spec.name, err)
	}

	record, err := timeback.DecodeEntity[T](resp.Body, c.spec.singular)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", c.spec.name, err)
	}

	return record, nil
}

// GetWithFields fetches one record restricted to fields.
func (c *ResourceClient[T]) GetWithFields(ctx context.Context, id string, fields ...string) (*T, error) {
	if len(fields) == 0 {
		return c.Get(ctx, id)
	}

	err := timeback.RequireID(c.spec.name+" id", id)
	if err != nil {
		return nil, err
	}

	query, err := timeback.NewQueryParams().WithFields(fields...).ToValues()
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Get(ctx, c.itemPath(id), query)
	if err != nil {
		return nil, fmt.Errorf("getting %s: %w", c.spec.name, err)
	}

	record, err := timeback.DecodeEntity[T](resp.Body, c.spec.singular)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", c.spec.name, err)
	}

	return record, nil
}

// List fetches one page of the collection.
func (c *ResourceClient[T]) List(ctx context.Context, params *timeback.QueryParams) (*timeback.ListResponse[T], error) {
	return listAt[T](ctx, c.httpClient, c.spec.path, c.spec.plural, params, "listing "+c.spec.plural)
}

// Update validates the record and PUTs it.
func (c *ResourceClient[T]) Update(ctx context.Context, id string, record *T) (*T, error) {
	err := timeback.RequireID(c.spec.name+" id", id)
	if err != nil {
		return nil, err
	}

	if record == nil {
		return nil, &timeback.ValidationError{Field: c.spec.name, Message: "is required"}
	}

	if c.spec.id != nil {
		if recordID := c.spec.id(record); *recordID == "" {
			*recordID = id
		}
	}

	err = timeback.ValidateEntity(c.spec.name, *record)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Put(ctx, c.itemPath(id), c.payload(record))
	if err != nil {
		return nil, fmt.Errorf("updating %s: %w", c.spec.name, err)
	}

	return c.decodeWrite(resp.Body, record, "parsing updated "+c.spec.name)
}

// Delete removes a record. Deleting an absent record succeeds.
func (c *ResourceClient[T]) Delete(ctx context.Context, id string) error {
	err := timeback.RequireID(c.spec.name+" id", id)
	if err != nil {
		return err
	}

	_, err = c.httpClient.Delete(ctx, c.itemPath(id))
	if err != nil {
		return fmt.Errorf("deleting %s: %w", c.spec.name, err)
	}

	return nil
}

func (c *ResourceClient[T]) itemPath(id string) string {
	return joinPath(c.spec.path, id)
}

func (c *ResourceClient[T]) payload(record *T) interface{} {
	if c.spec.singular == "" {
		return record
	}

	return timeback.Envelope(c.spec.singular, record)
}

// decodeWrite reads a create or update response. OneRoster answers writes with either the stored
// record, a sourcedIdPairs mapping or nothing at all; the latter two return the submitted record.
func (c *ResourceClient[T]) decodeWrite(body []byte, submitted *T, action string) (*T, error) {
	if len(strings.TrimSpace(string(body))) == 0 {
		return submitted, nil
	}

	if pairs := gjson.GetBytes(body, "sourcedIdPairs"); pairs.Exists() {
		allocated := pairs.Get("allocatedSourcedId").String()
		if allocated != "" && c.spec.id != nil {
			*c.spec.id(submitted) = allocated
		}

		return submitted, nil
	}

	record, err := timeback.DecodeEntity[T](body, c.spec.singular)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", action, err)
	}

	return record, nil
}

// listAt fetches one page of any collection endpoint.
func listAt[T any](ctx context.Context, httpClient *http.Client, path, key string, params *timeback.QueryParams, action string) (*timeback.ListResponse[T], error) {
	var query url.Values

	if params != nil {
		var err error

		query, err = params.ToValues()
		if err != nil {
			return nil, err
		}
	}

	resp, err := httpClient.Get(ctx, path, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", action, err)
	}

	list, err := timeback.DecodeList[T](resp.Body, key)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", key, err)
	}

	if params != nil {
		if list.Offset == 0 {
			list.Offset = params.Offset
		}

		if list.Limit == 0 {
			list.Limit = params.Limit
		}
	}

	return list, nil
}

// getAt fetches one record from any endpoint.
func getAt[T any](ctx context.Context, httpClient *http.Client, path, key string, query url.Values, action string) (*T, error) {
	resp, err := httpClient.Get(ctx, path, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", action, err)
	}

	record, err := timeback.DecodeEntity[T](resp.Body, key)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", key, err)
	}

	return record, nil
}

// joinPath appends escaped identifiers to a collection path.
func joinPath(base string, ids ...string) string {
	var builder strings.Builder

	builder.WriteString(strings.TrimRight(base, "/"))

	for _, id := range ids {
		builder.WriteString("/")
		builder.WriteString(url.PathEscape(id))
	}

	return builder.String()
}
