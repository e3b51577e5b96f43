package voting

import (
	"errors"
	"time"
)

var (
	ErrNoQuestions = errors.New("a voting session needs at least one question")
	ErrNoAnswers   = errors.New("at least one answer is required")
)

// Session is a voting round over a set of rule questions.
type Session struct {
	ID          int
	Questions   []string
	CreatedAt   time.Time
	VoteEndDate *string
	Finish      bool
}

// Answer is one user's set of responses to a session's questions.
type Answer struct {
	ID        int
	Session   int
	User      int
	Username  string
	Answer    []string
	CreatedAt time.Time
}
