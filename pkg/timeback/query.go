package timeback

import (
	"fmt"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/fivetwenty-io/timeback/internal/constants"
)

// SortDirection is the value of the orderBy query key.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// Query keys understood by OneRoster list endpoints.
const (
	QueryKeyLimit   = "limit"
	QueryKeyOffset  = "offset"
	QueryKeySort    = "sort"
	QueryKeyOrderBy = "orderBy"
	QueryKeyFilter  = "filter"
	QueryKeyFields  = "fields"
)

var reservedQueryKeys = []string{
	QueryKeyLimit, QueryKeyOffset, QueryKeySort, QueryKeyOrderBy, QueryKeyFilter, QueryKeyFields,
}

// QueryParams holds the pagination, sorting, filtering and field selection options of a list call.
//
// Fields is rendered as one comma-joined value. Extra carries endpoint specific keys
// (QTI search, PowerPath student/status/page); multi-valued Extra keys are repeated.
type QueryParams struct {
	Limit   int
	Offset  int
	Sort    string
	OrderBy SortDirection
	Filter  string
	Fields  []string
	Extra   url.Values
}

// NewQueryParams creates empty query parameters.
func NewQueryParams() *QueryParams {
	return &QueryParams{}
}

// WithLimit sets the page size.
func (q *QueryParams) WithLimit(limit int) *QueryParams {
	q.Limit = limit

	return q
}

// WithOffset sets the number of records to skip.
func (q *QueryParams) WithOffset(offset int) *QueryParams {
	q.Offset = offset

	return q
}

// WithSort sets the sort field and direction.
func (q *QueryParams) WithSort(field string, direction SortDirection) *QueryParams {
	q.Sort = field
	q.OrderBy = direction

	return q
}

// WithFilter sets the filter expression.
func (q *QueryParams) WithFilter(expr string) *QueryParams {
	q.Filter = expr

	return q
}

// WithFields restricts the returned properties.
func (q *QueryParams) WithFields(fields ...string) *QueryParams {
	q.Fields = append(q.Fields, fields...)

	return q
}

// WithExtra adds an endpoint specific query key.
func (q *QueryParams) WithExtra(key string, values ...string) *QueryParams {
	if q.Extra == nil {
		q.Extra = url.Values{}
	}

	for _, value := range values {
		q.Extra.Add(key, value)
	}

	return q
}

// Clone returns a deep copy.
func (q *QueryParams) Clone() *QueryParams {
	if q == nil {
		return NewQueryParams()
	}

	clone := *q
	clone.Fields = slices.Clone(q.Fields)

	if q.Extra != nil {
		clone.Extra = make(url.Values, len(q.Extra))
		for key, values := range q.Extra {
			clone.Extra[key] = slices.Clone(values)
		}
	}

	return &clone
}

// Validate checks every option without building the query string.
func (q *QueryParams) Validate() error {
	if q.Limit < 0 {
		return &ValidationError{Field: QueryKeyLimit, Message: fmt.Sprintf("must be non-negative, got %d", q.Limit)}
	}

	if q.Limit > constants.MaxPageSize {
		return &ValidationError{Field: QueryKeyLimit, Message: fmt.Sprintf("must be at most %d, got %d", constants.MaxPageSize, q.Limit)}
	}

	if q.Offset < 0 {
		return &ValidationError{Field: QueryKeyOffset, Message: fmt.Sprintf("must be non-negative, got %d", q.Offset)}
	}

	if q.OrderBy != "" && q.OrderBy != SortAsc && q.OrderBy != SortDesc {
		return &ValidationError{Field: QueryKeyOrderBy, Message: fmt.Sprintf("must be asc or desc, got %q", q.OrderBy)}
	}

	if strings.ContainsAny(q.Sort, ", ") {
		return &ValidationError{Field: QueryKeySort, Message: fmt.Sprintf("invalid sort field %q", q.Sort)}
	}

	if q.Filter != "" {
		err := ValidateFilter(q.Filter)
		if err != nil {
			return err
		}
	}

	for _, field := range q.Fields {
		if strings.TrimSpace(field) == "" || strings.Contains(field, ",") {
			return &ValidationError{Field: QueryKeyFields, Message: fmt.Sprintf("invalid field name %q", field)}
		}
	}

	for key := range q.Extra {
		if slices.Contains(reservedQueryKeys, key) {
			return &ValidationError{Field: key, Message: "reserved key cannot be set as extra parameter"}
		}
	}

	return nil
}

// ToValues converts the params to url.Values.
func (q *QueryParams) ToValues() (url.Values, error) {
	values := url.Values{}
	if q == nil {
		return values, nil
	}

	err := q.Validate()
	if err != nil {
		return nil, err
	}

	if q.Limit > 0 {
		values.Set(QueryKeyLimit, strconv.Itoa(q.Limit))
	}

	if q.Offset > 0 {
		values.Set(QueryKeyOffset, strconv.Itoa(q.Offset))
	}

	if q.Sort != "" {
		values.Set(QueryKeySort, q.Sort)

		if q.OrderBy == "" {
			values.Set(QueryKeyOrderBy, string(SortAsc))
		}
	}

	if q.OrderBy != "" {
		values.Set(QueryKeyOrderBy, string(q.OrderBy))
	}

	if q.Filter != "" {
		values.Set(QueryKeyFilter, q.Filter)
	}

	if len(q.Fields) > 0 {
		values.Set(QueryKeyFields, strings.Join(q.Fields, ","))
	}

	for key, extra := range q.Extra {
		for _, value := range extra {
			values.Add(key, value)
		}
	}

	return values, nil
}

// Build renders the encoded query string without a leading '?'.
func (q *QueryParams) Build() (string, error) {
	values, err := q.ToValues()
	if err != nil {
		return "", err
	}

	return values.Encode(), nil
}

// ParseQueryParams reverses ToValues.
func ParseQueryParams(values url.Values) (*QueryParams, error) {
	params := NewQueryParams()

	var err error

	if raw := values.Get(QueryKeyLimit); raw != "" {
		params.Limit, err = strconv.Atoi(raw)
		if err != nil {
			return nil, &ValidationError{Field: QueryKeyLimit, Message: "not an integer", Err: err}
		}
	}

	if raw := values.Get(QueryKeyOffset); raw != "" {
		params.Offset, err = strconv.Atoi(raw)
		if err != nil {
			return nil, &ValidationError{Field: QueryKeyOffset, Message: "not an integer", Err: err}
		}
	}

	params.Sort = values.Get(QueryKeySort)
	params.OrderBy = SortDirection(values.Get(QueryKeyOrderBy))
	params.Filter = values.Get(QueryKeyFilter)

	if raw := values.Get(QueryKeyFields); raw != "" {
		params.Fields = strings.Split(raw, ",")
	}

	for key, extra := range values {
		if slices.Contains(reservedQueryKeys, key) {
			continue
		}

		params.WithExtra(key, extra...)
	}

	err = params.Validate()
	if err != nil {
		return nil, err
	}

	return params, nil
}
