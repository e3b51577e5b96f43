package auth

import "errors"

var ErrInvalidCredential = errors.New("the credential is invalid")

// Session is the client-side view of who is logged in.
type Session struct {
	Authenticated bool
	Username      string
	ID            int
	IsStaff       bool
}

// CurrentUser is the minimal identity other features need (comment ownership, votes).
type CurrentUser struct {
	ID       int
	Username string
}

// Current returns the identity carried by the session.
func (s Session) Current() CurrentUser {
	return CurrentUser{ID: s.ID, Username: s.Username}
}
