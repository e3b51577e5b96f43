package request

import (
	"regexp"
	"slices"
	"strconv"
)

const (
	DefaultLimit  = 10
	DefaultOffset = 0
)

var digitsOnly = regexp.MustCompile(`^\d+$`)

// RawSearch holds search options exactly as they arrive from a URL query string.
type RawSearch struct {
	Limit    string
	Offset   string
	Q        string
	SortBy   string
	SortDesc string
}

// SearchQuery is the validated form of RawSearch.
type SearchQuery struct {
	Limit    int
	Offset   int
	Q        string
	SortBy   string
	SortDesc bool
}

// ParseSearchQuery never fails: malformed limit/offset fall back to the defaults,
// a sort field outside allowList falls back to defaultSort, and SortDesc is set
// only for the literal "true". An empty allowList accepts any sort field.
func ParseSearchQuery(raw RawSearch, allowList []string, defaultSort string) SearchQuery {
	q := SearchQuery{
		Limit:  parseNonNegative(raw.Limit, DefaultLimit),
		Offset: parseNonNegative(raw.Offset, DefaultOffset),
		Q:      raw.Q,
		SortBy: defaultSort,
	}

	if raw.SortBy != "" && (len(allowList) == 0 || slices.Contains(allowList, raw.SortBy)) {
		q.SortBy = raw.SortBy
	}

	q.SortDesc = raw.SortDesc == "true"

	return q
}

// Ordering encodes sort field and direction as a single value: "-field" for descending.
func (q SearchQuery) Ordering() string {
	if q.SortDesc {
		return "-" + q.SortBy
	}
	return q.SortBy
}

// Params returns the list query parameters: q, limit, offset and ordering.
func (q SearchQuery) Params() map[string]any {
	return map[string]any{
		"q":        q.Q,
		"limit":    q.Limit,
		"offset":   q.Offset,
		"ordering": q.Ordering(),
	}
}

func parseNonNegative(s string, fallback int) int {
	if !digitsOnly.MatchString(s) {
		return fallback
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		// overflow
		return fallback
	}
	return n
}
