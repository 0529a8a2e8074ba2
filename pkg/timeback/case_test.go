package timeback_test

import (
	"net/url"
	"testing"

	"github.com/fivetwenty-io/timeback/pkg/timeback"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCFDocumentSearch(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		search    *timeback.CFDocumentSearch
		wantEmpty bool
		want      url.Values
	}{
		{name: "nil", search: nil, wantEmpty: true, want: url.Values{}},
		{name: "zero", search: &timeback.CFDocumentSearch{}, wantEmpty: true, want: url.Values{}},
		{
			name:   "text fields",
			search: &timeback.CFDocumentSearch{Title: "Common Core", Creator: "NGA", Publisher: "CCSSO"},
			want:   url.Values{"title": {"Common Core"}, "creator": {"NGA"}, "publisher": {"CCSSO"}},
		},
		{
			name:   "paging only",
			search: &timeback.CFDocumentSearch{Limit: 25, Offset: 50},
			want:   url.Values{"limit": {"25"}, "offset": {"50"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.wantEmpty, tt.search.Empty())

			values, err := tt.search.QueryParams().ToValues()
			require.NoError(t, err)
			assert.Equal(t, tt.want, values)
		})
	}
}
