package timeback_test

import (
	"errors"
	"testing"

	"github.com/fivetwenty-io/timeback/pkg/timeback"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeEntity(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		body    string
		key     string
		want    string
		wantErr error
	}{
		{name: "singular envelope", body: `{"org":{"sourcedId":"o1","name":"Alpha"}}`, key: "org", want: "Alpha"},
		{name: "bare record", body: `{"sourcedId":"o1","name":"Beta"}`, key: "org", want: "Beta"},
		{name: "no key", body: `{"name":"Gamma"}`, want: "Gamma"},
		{name: "scalar under key is ignored", body: `{"org":"o1","name":"Delta"}`, key: "org", want: "Delta"},
		{name: "empty body", body: "", key: "org", wantErr: timeback.ErrEmptyResponse},
		{name: "invalid json", body: `{"org":`, key: "org", wantErr: timeback.ErrInvalidJSON},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			org, err := timeback.DecodeEntity[timeback.Org]([]byte(tt.body), tt.key)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)

				var decodeErr *timeback.DecodeError
				assert.ErrorAs(t, err, &decodeErr)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, org.Name)
		})
	}
}

func TestDecodeEntity_TypeMismatch(t *testing.T) {
	t.Parallel()

	_, err := timeback.DecodeEntity[timeback.Org]([]byte(`{"org":{"name":42}}`), "org")
	require.Error(t, err)

	var decodeErr *timeback.DecodeError
	require.ErrorAs(t, err, &decodeErr)
	assert.Equal(t, "org", decodeErr.Target)
	assert.Contains(t, err.Error(), "decoding org")
}

func TestDecodeList(t *testing.T) {
	t.Parallel()

	t.Run("oneroster envelope", func(t *testing.T) {
		t.Parallel()

		list, err := timeback.DecodeList[timeback.Class](
			[]byte(`{"classes":[{"sourcedId":"c1"},{"sourcedId":"c2"}],"totalCount":12,"offset":10,"limit":2}`), "classes")
		require.NoError(t, err)
		require.Len(t, list.Items, 2)
		assert.Equal(t, "c2", list.Items[1].SourcedID)
		assert.Equal(t, 12, list.TotalCount)
		assert.Equal(t, 10, list.Offset)
		assert.Equal(t, 2, list.Limit)
	})

	t.Run("qti page counters", func(t *testing.T) {
		t.Parallel()

		list, err := timeback.DecodeList[timeback.Stimulus](
			[]byte(`{"items":[{"identifier":"s1"}],"total":7,"page":3,"pages":7}`), "items")
		require.NoError(t, err)
		assert.Equal(t, 7, list.TotalCount)
		assert.Equal(t, 3, list.PageNumber)
		assert.Equal(t, 7, list.PageCount)
	})

	t.Run("bare array", func(t *testing.T) {
		t.Parallel()

		list, err := timeback.DecodeList[timeback.Document]([]byte(`[{"id":"a"},{"id":"b"}]`), "testAssignments")
		require.NoError(t, err)
		assert.Len(t, list.Items, 2)
	})

	t.Run("missing or null key gives empty page", func(t *testing.T) {
		t.Parallel()

		for _, body := range []string{`{}`, `{"users":null}`} {
			list, err := timeback.DecodeList[timeback.User]([]byte(body), "users")
			require.NoError(t, err)
			assert.NotNil(t, list.Items)
			assert.Empty(t, list.Items)
		}
	})

	t.Run("invalid json", func(t *testing.T) {
		t.Parallel()

		_, err := timeback.DecodeList[timeback.User]([]byte(`{"users":[`), "users")
		require.ErrorIs(t, err, timeback.ErrInvalidJSON)
	})

	t.Run("wrong item shape", func(t *testing.T) {
		t.Parallel()

		_, err := timeback.DecodeList[timeback.User]([]byte(`{"users":{"sourcedId":"u1"}}`), "users")

		var decodeErr *timeback.DecodeError
		require.ErrorAs(t, err, &decodeErr)
	})
}

func TestListResponse_HasMore(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		list timeback.ListResponse[int]
		want bool
	}{
		{name: "more by total", list: timeback.ListResponse[int]{Items: []int{1, 2}, TotalCount: 5, Offset: 2}, want: true},
		{name: "last page by total", list: timeback.ListResponse[int]{Items: []int{1}, TotalCount: 5, Offset: 4}},
		{name: "full page without total", list: timeback.ListResponse[int]{Items: []int{1, 2}, Limit: 2}, want: true},
		{name: "short page without total", list: timeback.ListResponse[int]{Items: []int{1}, Limit: 2}},
		{name: "no limit no total", list: timeback.ListResponse[int]{Items: []int{1}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, tt.list.HasMore())
		})
	}
}

func TestEnvelopeAndRefs(t *testing.T) {
	t.Parallel()

	org := &timeback.Org{Name: "Alpha"}
	assert.Equal(t, map[string]interface{}{"org": org}, timeback.Envelope("org", org))

	ref := timeback.NewRef("class", "c1")
	assert.Equal(t, "c1", ref.SourcedID)
	assert.Equal(t, "class", ref.Type)
	require.NoError(t, ref.Validate())
	assert.Error(t, timeback.Ref{}.Validate())
}

func TestRequireID(t *testing.T) {
	t.Parallel()

	require.NoError(t, timeback.RequireID("user id", "u1"))

	err := timeback.RequireID("user id", "")
	require.Error(t, err)
	assert.True(t, timeback.IsValidation(err))
	assert.True(t, errors.Is(err, timeback.ErrIDRequired))
	assert.Equal(t, "validation failed: user id: is required", err.Error())
}
