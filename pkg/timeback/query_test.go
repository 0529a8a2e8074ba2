package timeback_test

import (
	"net/url"
	"testing"

	"github.com/fivetwenty-io/timeback/pkg/timeback"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

//nolint:funlen // Test functions can be longer for detailed testing
func TestQueryParams_ToValues(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		params   *timeback.QueryParams
		expected url.Values
	}{
		{
			name:     "empty params",
			params:   timeback.NewQueryParams(),
			expected: url.Values{},
		},
		{
			name:     "nil params",
			params:   nil,
			expected: url.Values{},
		},
		{
			name:   "with pagination",
			params: timeback.NewQueryParams().WithLimit(50).WithOffset(100),
			expected: url.Values{
				"limit":  []string{"50"},
				"offset": []string{"100"},
			},
		},
		{
			name:   "sort defaults to ascending",
			params: &timeback.QueryParams{Sort: "familyName"},
			expected: url.Values{
				"sort":    []string{"familyName"},
				"orderBy": []string{"asc"},
			},
		},
		{
			name:   "sort descending",
			params: timeback.NewQueryParams().WithSort("dateLastModified", timeback.SortDesc),
			expected: url.Values{
				"sort":    []string{"dateLastModified"},
				"orderBy": []string{"desc"},
			},
		},
		{
			name:   "fields are comma joined",
			params: timeback.NewQueryParams().WithFields("sourcedId", "givenName", "familyName"),
			expected: url.Values{
				"fields": []string{"sourcedId,givenName,familyName"},
			},
		},
		{
			name:   "filter is sent verbatim",
			params: timeback.NewQueryParams().WithFilter("status='active' AND role='student'"),
			expected: url.Values{
				"filter": []string{"status='active' AND role='student'"},
			},
		},
		{
			name:   "extra keys repeat",
			params: timeback.NewQueryParams().WithExtra("grade", "5", "6").WithExtra("search", "fractions"),
			expected: url.Values{
				"grade":  []string{"5", "6"},
				"search": []string{"fractions"},
			},
		},
		{
			name:     "zero limit and offset are omitted",
			params:   &timeback.QueryParams{Limit: 0, Offset: 0},
			expected: url.Values{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			values, err := tt.params.ToValues()
			require.NoError(t, err)
			assert.Equal(t, tt.expected, values)
		})
	}
}

func TestQueryParams_Build(t *testing.T) {
	t.Parallel()

	query, err := timeback.NewQueryParams().
		WithLimit(10).
		WithOffset(20).
		WithFilter("givenName~'an'").
		Build()
	require.NoError(t, err)
	assert.Equal(t, "filter=givenName~%27an%27&limit=10&offset=20", query)
}

func TestQueryParams_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		params *timeback.QueryParams
		field  string
	}{
		{name: "negative limit", params: &timeback.QueryParams{Limit: -1}, field: "limit"},
		{name: "limit above maximum", params: &timeback.QueryParams{Limit: 3001}, field: "limit"},
		{name: "negative offset", params: &timeback.QueryParams{Offset: -5}, field: "offset"},
		{name: "bad direction", params: &timeback.QueryParams{OrderBy: "up"}, field: "orderBy"},
		{name: "multiple sort fields", params: &timeback.QueryParams{Sort: "a,b"}, field: "sort"},
		{name: "malformed filter", params: &timeback.QueryParams{Filter: "status="}, field: "filter"},
		{name: "blank field", params: &timeback.QueryParams{Fields: []string{" "}}, field: "fields"},
		{name: "comma in field", params: &timeback.QueryParams{Fields: []string{"a,b"}}, field: "fields"},
		{name: "reserved extra key", params: timeback.NewQueryParams().WithExtra("limit", "5"), field: "limit"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.params.Validate()
			require.Error(t, err)

			var validationErr *timeback.ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.Equal(t, tt.field, validationErr.Field)

			_, err = tt.params.ToValues()
			require.Error(t, err)
		})
	}
}

func TestQueryParams_Clone(t *testing.T) {
	t.Parallel()

	original := timeback.NewQueryParams().WithFields("sourcedId").WithExtra("grade", "5")

	clone := original.Clone()
	clone.Fields[0] = "givenName"
	clone.Extra.Add("grade", "6")
	clone.Limit = 99

	assert.Equal(t, []string{"sourcedId"}, original.Fields)
	assert.Equal(t, []string{"5"}, original.Extra["grade"])
	assert.Zero(t, original.Limit)

	var nilParams *timeback.QueryParams
	assert.NotNil(t, nilParams.Clone())
}

func TestParseQueryParams_RoundTrip(t *testing.T) {
	t.Parallel()

	original := timeback.NewQueryParams().
		WithLimit(25).
		WithOffset(50).
		WithSort("familyName", timeback.SortDesc).
		WithFilter("role='teacher' OR role='aide'").
		WithFields("sourcedId", "familyName").
		WithExtra("search", "smith")

	values, err := original.ToValues()
	require.NoError(t, err)

	parsed, err := timeback.ParseQueryParams(values)
	require.NoError(t, err)
	assert.Equal(t, original, parsed)
}

func TestParseQueryParams_Invalid(t *testing.T) {
	t.Parallel()

	_, err := timeback.ParseQueryParams(url.Values{"limit": {"ten"}})
	assert.True(t, timeback.IsValidation(err))

	_, err = timeback.ParseQueryParams(url.Values{"filter": {"(status='active'"}})
	assert.True(t, timeback.IsValidation(err))
}
