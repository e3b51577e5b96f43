package user

import (
	"errors"

	"github.com/nekogravitycat/annotation-client/internal/pkg/request"
)

var (
	ErrUsernameRequired = errors.New("username is required")
	ErrInvalidID        = errors.New("user id must be positive")
)

// DefaultSortField is used when the requested sort field is not allowed.
const DefaultSortField = "username"

// SortableFields lists the fields a user list may be sorted by.
var SortableFields = []string{"username", "isSuperuser", "isStaff"}

// Item represents a user account as seen by the client.
type Item struct {
	ID          int
	Username    string
	IsSuperuser bool
	IsStaff     bool
	Email       string
	LastLogin   string
}

// CreateRequest holds the fields accepted when creating a user.
type CreateRequest struct {
	Username    string
	IsSuperuser bool
	IsStaff     bool
}

// EditRequest is a partial update. Nil fields are left untouched.
type EditRequest struct {
	Username    *string
	Email       *string
	IsSuperuser *bool
	IsStaff     *bool
}

// NewSearchQuery builds a user SearchQuery from raw, untrusted values.
func NewSearchQuery(raw request.RawSearch) request.SearchQuery {
	return request.ParseSearchQuery(raw, SortableFields, DefaultSortField)
}
