package rule

import (
	"errors"
	"time"
)

var (
	ErrQuestionRequired = errors.New("rule question is required")
	ErrMessageRequired  = errors.New("message is required")
)

// Rule is an annotation-guideline question proposed for voting.
type Rule struct {
	ID       int
	Question string
}

// Message is one entry of the discussion about a question of a voting session.
type Message struct {
	ID            int
	SessionID     int
	QuestionIndex int
	Text          string
	CreatedBy     *int
	Username      string
	CreatedAt     time.Time
}
