package request

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var userSortFields = []string{"username", "isSuperuser", "isStaff"}

func TestParseSearchQuery(t *testing.T) {
	tests := []struct {
		name string
		raw  RawSearch
		want SearchQuery
	}{
		{
			name: "Valid input",
			raw:  RawSearch{Limit: "25", Offset: "50", Q: "ann", SortBy: "isStaff", SortDesc: "true"},
			want: SearchQuery{Limit: 25, Offset: 50, Q: "ann", SortBy: "isStaff", SortDesc: true},
		},
		{
			name: "Empty input uses defaults",
			raw:  RawSearch{},
			want: SearchQuery{Limit: 10, Offset: 0, SortBy: "username"},
		},
		{
			name: "Non-numeric limit and offset",
			raw:  RawSearch{Limit: "ten", Offset: "-5"},
			want: SearchQuery{Limit: 10, Offset: 0, SortBy: "username"},
		},
		{
			name: "Decimal and padded numbers are rejected",
			raw:  RawSearch{Limit: "2.5", Offset: " 3"},
			want: SearchQuery{Limit: 10, Offset: 0, SortBy: "username"},
		},
		{
			name: "Overflowing number falls back",
			raw:  RawSearch{Limit: "999999999999999999999999"},
			want: SearchQuery{Limit: 10, Offset: 0, SortBy: "username"},
		},
		{
			name: "Unknown sort field",
			raw:  RawSearch{SortBy: "password"},
			want: SearchQuery{Limit: 10, SortBy: "username"},
		},
		{
			name: "SortDesc only for literal true",
			raw:  RawSearch{SortDesc: "TRUE"},
			want: SearchQuery{Limit: 10, SortBy: "username"},
		},
		{
			name: "SortDesc 1 is false",
			raw:  RawSearch{SortDesc: "1"},
			want: SearchQuery{Limit: 10, SortBy: "username"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseSearchQuery(tt.raw, userSortFields, "username")
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseSearchQuery_EmptyAllowList(t *testing.T) {
	got := ParseSearchQuery(RawSearch{SortBy: "created_at"}, nil, "")
	assert.Equal(t, "created_at", got.SortBy)

	got = ParseSearchQuery(RawSearch{}, nil, "")
	assert.Equal(t, "", got.SortBy)
}

func TestSearchQuery_Ordering(t *testing.T) {
	assert.Equal(t, "-username", SearchQuery{SortBy: "username", SortDesc: true}.Ordering())
	assert.Equal(t, "username", SearchQuery{SortBy: "username"}.Ordering())
}

func TestSearchQuery_Params(t *testing.T) {
	q := SearchQuery{Limit: 5, Offset: 10, Q: "x", SortBy: "text", SortDesc: true}
	assert.Equal(t, map[string]any{
		"q":        "x",
		"limit":    5,
		"offset":   10,
		"ordering": "-text",
	}, q.Params())
}
