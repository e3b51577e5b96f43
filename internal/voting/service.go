package voting

import (
	"context"
	"strings"

	"github.com/nekogravitycat/annotation-client/internal/pkg/apperror"
	"github.com/nekogravitycat/annotation-client/internal/pkg/logctx"
)

// Service runs voting sessions over rule questions.
type Service interface {
	List(ctx context.Context, projectID int) ([]Session, error)
	CreateSession(ctx context.Context, projectID int, voteEndDate string, questions []string) (*Session, error)
	FinishSession(ctx context.Context, projectID, sessionID int) error
	ListAnswers(ctx context.Context, projectID, sessionID int) ([]Answer, error)
	SubmitAnswers(ctx context.Context, projectID, sessionID int, answers []string) (*Answer, error)
}

type service struct {
	repo Repository
}

// NewService creates a new voting Service.
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) List(ctx context.Context, projectID int) ([]Session, error) {
	return s.repo.List(ctx, projectID)
}

func (s *service) CreateSession(ctx context.Context, projectID int, voteEndDate string, questions []string) (*Session, error) {
	cleaned := make([]string, 0, len(questions))
	for _, q := range questions {
		if q = strings.TrimSpace(q); q != "" {
			cleaned = append(cleaned, q)
		}
	}
	if len(cleaned) == 0 {
		return nil, ErrNoQuestions
	}

	session, err := s.repo.Create(ctx, projectID, voteEndDate, cleaned)
	if err != nil {
		return nil, apperror.FromDetail(err)
	}

	logctx.From(ctx).Info("voting session created", "project_id", projectID, "session_id", session.ID, "questions", len(cleaned))
	return session, nil
}

func (s *service) FinishSession(ctx context.Context, projectID, sessionID int) error {
	if err := s.repo.Finish(ctx, projectID, sessionID); err != nil {
		return apperror.FromDetail(err)
	}
	return nil
}

func (s *service) ListAnswers(ctx context.Context, projectID, sessionID int) ([]Answer, error) {
	return s.repo.ListAnswers(ctx, projectID, sessionID)
}

func (s *service) SubmitAnswers(ctx context.Context, projectID, sessionID int, answers []string) (*Answer, error) {
	if len(answers) == 0 {
		return nil, ErrNoAnswers
	}

	answer, err := s.repo.CreateAnswers(ctx, projectID, sessionID, answers)
	if err != nil {
		return nil, apperror.FromDetail(err)
	}
	return answer, nil
}
