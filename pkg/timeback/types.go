package timeback

import (
	"encoding/json"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/tidwall/gjson"
)

// Status is the OneRoster record status.
type Status string

const (
	StatusActive      Status = "active"
	StatusToBeDeleted Status = "tobedeleted"
)

// Metadata holds vendor extensions attached to a record.
type Metadata map[string]interface{}

// Document is a free-form JSON object used where the API does not publish a fixed schema.
type Document map[string]interface{}

// Ref is a OneRoster GUID reference to another record.
type Ref struct {
	SourcedID string `json:"sourcedId"      yaml:"sourced_id"`
	Type      string `json:"type,omitempty" yaml:"type,omitempty"`
	Href      string `json:"href,omitempty" yaml:"href,omitempty"`
}

// Validate implements validation.Validatable.
func (r Ref) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.SourcedID, validation.Required),
	)
}

// NewRef creates a typed reference.
func NewRef(refType, sourcedID string) *Ref {
	return &Ref{SourcedID: sourcedID, Type: refType}
}

// ListResponse is a single page of a collection.
type ListResponse[T any] struct {
	Items      []T `json:"items"      yaml:"items"`
	TotalCount int `json:"totalCount" yaml:"total_count"`
	PageCount  int `json:"pageCount"  yaml:"page_count"`
	PageNumber int `json:"pageNumber" yaml:"page_number"`
	Offset     int `json:"offset"     yaml:"offset"`
	Limit      int `json:"limit"      yaml:"limit"`
}

// HasMore reports whether records exist beyond this page.
func (l *ListResponse[T]) HasMore() bool {
	if l.TotalCount > 0 {
		return l.Offset+len(l.Items) < l.TotalCount
	}

	return l.Limit > 0 && len(l.Items) == l.Limit
}

// DecodeList extracts a page from a plural envelope such as {"users": [...], "totalCount": N}.
func DecodeList[T any](body []byte, key string) (*ListResponse[T], error) {
	if !gjson.ValidBytes(body) {
		return nil, &DecodeError{Target: key, Body: body, Err: ErrInvalidJSON}
	}

	root := gjson.ParseBytes(body)

	items := root.Get(gjson.Escape(key))
	if !items.Exists() && root.IsArray() {
		items = root
	}

	list := &ListResponse[T]{
		TotalCount: firstInt(root, "totalCount", "total"),
		PageCount:  firstInt(root, "pageCount", "pages"),
		PageNumber: firstInt(root, "pageNumber", "page"),
		Offset:     firstInt(root, "offset"),
		Limit:      firstInt(root, "limit"),
	}

	if !items.Exists() || items.Type == gjson.Null {
		list.Items = []T{}

		return list, nil
	}

	err := json.Unmarshal([]byte(items.Raw), &list.Items)
	if err != nil {
		return nil, &DecodeError{Target: key, Body: body, Err: err}
	}

	return list, nil
}

// firstInt returns the first present numeric key; QTI uses total/page/pages.
func firstInt(root gjson.Result, keys ...string) int {
	for _, key := range keys {
		if value := root.Get(key); value.Exists() {
			return int(value.Int())
		}
	}

	return 0
}

// DecodeEntity extracts a record from a singular envelope such as {"user": {...}}.
// Bodies that are not enveloped are decoded as the record itself.
func DecodeEntity[T any](body []byte, key string) (*T, error) {
	if len(body) == 0 {
		return nil, &DecodeError{Target: key, Err: ErrEmptyResponse}
	}

	if !gjson.ValidBytes(body) {
		return nil, &DecodeError{Target: key, Body: body, Err: ErrInvalidJSON}
	}

	raw := body

	if key != "" {
		if wrapped := gjson.GetBytes(body, gjson.Escape(key)); wrapped.Exists() && wrapped.IsObject() {
			raw = []byte(wrapped.Raw)
		}
	}

	var entity T

	err := json.Unmarshal(raw, &entity)
	if err != nil {
		return nil, &DecodeError{Target: key, Body: body, Err: err}
	}

	return &entity, nil
}

// Envelope wraps a record under its singular key for create and update payloads.
func Envelope(key string, entity interface{}) map[string]interface{} {
	return map[string]interface{}{key: entity}
}

// ValidateEntity runs the record's own rules and reports failures as a ValidationError.
func ValidateEntity(name string, entity validation.Validatable) error {
	err := entity.Validate()
	if err == nil {
		return nil
	}

	return &ValidationError{Field: name, Message: err.Error(), Err: err}
}

// RequireID rejects empty identifiers before any request is built.
func RequireID(name, id string) error {
	if id == "" {
		return &ValidationError{Field: name, Message: "is required", Err: ErrIDRequired}
	}

	return nil
}
