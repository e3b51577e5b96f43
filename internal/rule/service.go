package rule

import (
	"context"
	"strings"

	"github.com/nekogravitycat/annotation-client/internal/pkg/apperror"
)

// Service manages rule proposals and their discussion.
type Service interface {
	ListToSubmit(ctx context.Context, projectID int) ([]Rule, error)
	ListSubmitted(ctx context.Context, projectID int) ([]Rule, error)
	Create(ctx context.Context, projectID int, question string) (*Rule, error)
	Update(ctx context.Context, projectID, ruleID int, question string) (*Rule, error)
	Delete(ctx context.Context, projectID, ruleID int) error

	ListMessages(ctx context.Context, projectID, sessionID, questionIndex int) ([]Message, error)
	PostMessage(ctx context.Context, projectID, sessionID, questionIndex int, text string) (*Message, error)
}

type service struct {
	repo       Repository
	discussion DiscussionRepository
}

// NewService creates a new rule Service.
func NewService(repo Repository, discussion DiscussionRepository) Service {
	return &service{
		repo:       repo,
		discussion: discussion,
	}
}

func (s *service) ListToSubmit(ctx context.Context, projectID int) ([]Rule, error) {
	return s.repo.ListToSubmit(ctx, projectID)
}

func (s *service) ListSubmitted(ctx context.Context, projectID int) ([]Rule, error) {
	return s.repo.ListSubmitted(ctx, projectID)
}

func (s *service) Create(ctx context.Context, projectID int, question string) (*Rule, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, ErrQuestionRequired
	}

	created, err := s.repo.Submit(ctx, projectID, question)
	if err != nil {
		return nil, apperror.FromDetail(err)
	}
	return created, nil
}

func (s *service) Update(ctx context.Context, projectID, ruleID int, question string) (*Rule, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, ErrQuestionRequired
	}

	updated, err := s.repo.Update(ctx, projectID, Rule{ID: ruleID, Question: question})
	if err != nil {
		return nil, apperror.FromDetail(err)
	}
	return updated, nil
}

func (s *service) Delete(ctx context.Context, projectID, ruleID int) error {
	if err := s.repo.Delete(ctx, projectID, ruleID); err != nil {
		return apperror.FromDetail(err)
	}
	return nil
}

func (s *service) ListMessages(ctx context.Context, projectID, sessionID, questionIndex int) ([]Message, error) {
	return s.discussion.ListMessages(ctx, projectID, sessionID, questionIndex)
}

func (s *service) PostMessage(ctx context.Context, projectID, sessionID, questionIndex int, text string) (*Message, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrMessageRequired
	}

	msg, err := s.discussion.CreateMessage(ctx, projectID, sessionID, questionIndex, text)
	if err != nil {
		return nil, apperror.FromDetail(err)
	}
	return msg, nil
}
