package comment

import (
	"errors"
	"time"
)

var (
	ErrTextRequired = errors.New("comment text is required")
	ErrNoComments   = errors.New("no comments to delete")
)

// ListLimit caps the example-scoped comment list.
const ListLimit = 100

// Item is a comment left on an example, optionally tied to a label.
type Item struct {
	ID        int
	User      int
	Username  string
	Example   int
	Text      string
	CreatedAt time.Time
	Label     *int
}

// By reports whether the comment was written by userID.
func (c Item) By(userID int) bool {
	return c.User == userID
}

// WithText returns a copy of the comment carrying text.
func (c Item) WithText(text string) Item {
	c.Text = text
	return c
}
