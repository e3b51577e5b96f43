package response

import (
	"bytes"
	"encoding/json"
)

// Page is one page of a server-side paginated collection.
// Next and Prev are opaque continuation URLs and must be followed verbatim.
type Page[T any] struct {
	Count int
	Next  *string
	Prev  *string
	Items []T
}

// ItemList is a full collection returned without pagination metadata.
type ItemList[T any] struct {
	Items []T
}

// Envelope is the wire shape of a paginated list endpoint.
type Envelope[R any] struct {
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []R     `json:"results"`
}

// MapPage converts a wire envelope into a Page, passing every result through toModel.
func MapPage[R, T any](env Envelope[R], toModel func(R) T) Page[T] {
	return Page[T]{
		Count: env.Count,
		Next:  env.Next,
		Prev:  env.Previous,
		Items: MapItems(env.Results, toModel),
	}
}

// NewItemList wraps already mapped items.
func NewItemList[T any](items []T) ItemList[T] {
	// Handle empty slice so callers never range over nil
	if items == nil {
		items = make([]T, 0)
	}
	return ItemList[T]{Items: items}
}

// MapItems maps every wire record through toModel. The result is never nil.
func MapItems[R, T any](records []R, toModel func(R) T) []T {
	items := make([]T, len(records))
	for i, r := range records {
		items[i] = toModel(r)
	}
	return items
}

// NewEnvelope builds a wire envelope; used by servers emitting paginated lists.
func NewEnvelope[R any](results []R, count int, next, previous *string) Envelope[R] {
	if results == nil {
		results = make([]R, 0)
	}

	return Envelope[R]{
		Count:    count,
		Next:     next,
		Previous: previous,
		Results:  results,
	}
}

// UnmarshalList decodes a list endpoint that may answer either with a bare
// JSON array or with a paginated envelope.
func UnmarshalList[R any](data []byte) ([]R, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var records []R
		if err := json.Unmarshal(trimmed, &records); err != nil {
			return nil, err
		}
		return records, nil
	}

	var env Envelope[R]
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return nil, err
	}
	return env.Results, nil
}
