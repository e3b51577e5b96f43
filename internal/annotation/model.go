package annotation

import "errors"

var ErrInvalidFallback = errors.New("fallback needs exactly two user ids")

// Item is a single span annotation made by one user on a document.
type Item struct {
	ID          int
	StartOffset *int
	EndOffset   *int
	Label       *int
	Text        *string
	User        *int
}

// Comparison holds the annotations of two users on the same document.
type Comparison struct {
	User1 []Item
	User2 []Item
}

// Config controls how comparisons behave when data is missing or the backend fails.
type Config struct {
	// FallbackUserIDs is the pair queried when both requested users have no
	// annotations. Empty disables the fallback.
	FallbackUserIDs []int
	// DegradeOnError turns per-user failures into empty lists.
	DegradeOnError bool
}

// Validate checks the fallback pair.
func (c Config) Validate() error {
	if len(c.FallbackUserIDs) != 0 && len(c.FallbackUserIDs) != 2 {
		return ErrInvalidFallback
	}
	return nil
}
