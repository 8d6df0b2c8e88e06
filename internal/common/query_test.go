package common

import (
	"errors"
	"net/url"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"taskboard/internal/apperrors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListParamsDefaults(t *testing.T) {
	r := NewQueryReader(url.Values{})
	params := r.ListParams()

	require.NoError(t, r.Err())
	assert.Equal(t, DefaultPerPage, params.PerPage)
	assert.Equal(t, 1, params.Page)
	assert.Equal(t, "ASC", params.OrderBy)
	assert.Equal(t, 0, params.Offset())
}

func TestListParamsParsing(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		want      ListParams
		wantField string
	}{
		{
			name:  "explicit values",
			query: "perPage=25&page=3&search=fire%25drill&orderBy=DESC&orderByField=dueAt",
			want:  ListParams{PerPage: 25, Page: 3, Search: "firedrill", OrderBy: "DESC", OrderByField: "dueAt"},
		},
		{
			name:  "perPage clamped",
			query: "perPage=500",
			want:  ListParams{PerPage: MaxPerPage, Page: 1, OrderBy: "ASC"},
		},
		{
			name:      "non numeric perPage",
			query:     "perPage=abc",
			wantField: "perPage",
		},
		{
			name:      "zero page",
			query:     "page=0",
			wantField: "page",
		},
		{
			name:      "page past the last allowed",
			query:     "page=92233720368547760&perPage=100",
			wantField: "page",
		},
		{
			name:  "last allowed page",
			query: "page=100000&perPage=100",
			want:  ListParams{PerPage: 100, Page: MaxPage, OrderBy: "ASC"},
		},
		{
			name:      "bad direction",
			query:     "orderBy=sideways",
			wantField: "orderBy",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values, err := url.ParseQuery(tt.query)
			require.NoError(t, err)

			r := NewQueryReader(values)
			params := r.ListParams()

			if tt.wantField != "" {
				var ve *apperrors.ValidationError
				require.True(t, errors.As(r.Err(), &ve))
				assert.Contains(t, ve.Fields, tt.wantField)
				return
			}
			require.NoError(t, r.Err())
			assert.Equal(t, tt.want, params)
		})
	}
}

func TestListParamsOffset(t *testing.T) {
	assert.Equal(t, 30, ListParams{PerPage: 15, Page: 3}.Offset())
	assert.Equal(t, (MaxPage-1)*MaxPerPage, ListParams{PerPage: MaxPerPage, Page: MaxPage}.Offset())
}

func TestSanitizeSearchQuery(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "wildcards removed", input: "  50%_off\\ ", want: "50off"},
		{name: "multibyte rune at the cut", input: strings.Repeat("a", 99) + "é", want: strings.Repeat("a", 99) + "é"},
		{name: "cut by characters", input: strings.Repeat("é", 150), want: strings.Repeat("é", 100)},
		{name: "invalid utf8 dropped", input: "caf\xe9 cr\xc3\xa8me", want: "caf crème"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SanitizeSearchQuery(tt.input)
			assert.Equal(t, tt.want, got)
			assert.True(t, utf8.ValidString(got))
		})
	}
}

func TestQueryReaderTypedFilters(t *testing.T) {
	id := uuid.New()
	values := url.Values{}
	values.Set("locationID", id.String())
	values.Set("isTaskSet", "true")
	values.Set("type", "event")

	r := NewQueryReader(values)
	loc := r.UUID("locationID")
	isSet := r.Bool("isTaskSet")
	typ := r.OneOf("type", "recurring", "event", "assessment")
	missing := r.UUID("topicID")

	require.NoError(t, r.Err())
	require.NotNil(t, loc)
	assert.Equal(t, id, *loc)
	require.NotNil(t, isSet)
	assert.True(t, *isSet)
	require.NotNil(t, typ)
	assert.Equal(t, "event", *typ)
	assert.Nil(t, missing)
}

func TestQueryReaderInvalidValues(t *testing.T) {
	values := url.Values{}
	values.Set("locationID", "not-a-uuid")
	values.Set("completed", "maybe")
	values.Set("type", "chore")

	r := NewQueryReader(values)
	r.UUID("locationID")
	r.Bool("completed")
	r.OneOf("type", "recurring", "event", "assessment")

	var ve *apperrors.ValidationError
	require.True(t, errors.As(r.Err(), &ve))
	assert.Len(t, ve.Fields, 3)
}

func TestQueryReaderRange(t *testing.T) {
	t.Run("both dates", func(t *testing.T) {
		values := url.Values{"dueFrom": {"2024-01-01"}, "dueTo": {"2024-01-31"}}
		r := NewQueryReader(values)
		from, to := r.Range("dueFrom", "dueTo")

		require.NoError(t, r.Err())
		assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), *from)
		assert.Equal(t, time.Date(2024, 1, 31, 23, 59, 59, 999999999, time.UTC), *to)
	})

	t.Run("only one bound", func(t *testing.T) {
		values := url.Values{"dueFrom": {"2024-01-01"}}
		r := NewQueryReader(values)
		from, to := r.Range("dueFrom", "dueTo")

		assert.Nil(t, from)
		assert.Nil(t, to)
		assert.ErrorIs(t, r.Err(), apperrors.ErrValidation)
	})

	t.Run("reversed", func(t *testing.T) {
		values := url.Values{"dueFrom": {"2024-02-01T00:00:00Z"}, "dueTo": {"2024-01-01T00:00:00Z"}}
		r := NewQueryReader(values)
		r.Range("dueFrom", "dueTo")

		assert.ErrorIs(t, r.Err(), apperrors.ErrValidation)
	})

	t.Run("neither", func(t *testing.T) {
		r := NewQueryReader(url.Values{})
		from, to := r.Range("dueFrom", "dueTo")

		require.NoError(t, r.Err())
		assert.Nil(t, from)
		assert.Nil(t, to)
	})
}

func TestNewPage(t *testing.T) {
	page := NewPage[string](nil, 31, ListParams{PerPage: 15, Page: 2})

	assert.NotNil(t, page.Data)
	assert.Empty(t, page.Data)
	assert.Equal(t, 31, page.Total)
	assert.Equal(t, 3, page.LastPage)
	assert.Equal(t, 2, page.CurrentPage)
}

func TestPrincipalIsAdmin(t *testing.T) {
	assert.True(t, (&Principal{UserType: UserTypeSuperAdmin}).IsAdmin())
	assert.True(t, (&Principal{UserType: UserTypeAdmin}).IsAdmin())
	assert.False(t, (&Principal{UserType: UserTypeUser}).IsAdmin())
	assert.False(t, (&Principal{UserType: UserTypeAdmin}).IsSuperAdmin())
}
