package perspective

import (
	"context"
	"strings"

	"github.com/nekogravitycat/annotation-client/internal/pkg/apperror"
)

// Service manages perspective questions, groups and answers.
type Service interface {
	Create(ctx context.Context, projectID int, req CreateRequest) (*Perspective, error)
	List(ctx context.Context, projectID int) ([]Perspective, error)
	Update(ctx context.Context, projectID, perspectiveID int, req CreateRequest) (*Perspective, error)
	Delete(ctx context.Context, projectID, perspectiveID int) error

	CreateGroup(ctx context.Context, projectID int, req GroupRequest) (*Group, error)
	ListGroups(ctx context.Context, projectID int) ([]Group, error)
	DeleteGroup(ctx context.Context, projectID, groupID int) error

	Answer(ctx context.Context, projectID int, req AnswerRequest) (*Answer, error)
	ListAnswers(ctx context.Context, projectID int) ([]Answer, error)
	ListAnswersByQuestion(ctx context.Context, projectID, perspectiveID int) ([]Answer, error)
}

type service struct {
	repo Repository
}

// NewService creates a new perspective Service.
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, projectID int, req CreateRequest) (*Perspective, error) {
	req = normalize(req)
	if err := req.Validate(); err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, projectID, req)
	if err != nil {
		return nil, apperror.FromDetail(err)
	}
	return created, nil
}

func (s *service) List(ctx context.Context, projectID int) ([]Perspective, error) {
	return s.repo.List(ctx, projectID)
}

func (s *service) Update(ctx context.Context, projectID, perspectiveID int, req CreateRequest) (*Perspective, error) {
	req = normalize(req)
	if err := req.Validate(); err != nil {
		return nil, err
	}

	updated, err := s.repo.Update(ctx, projectID, perspectiveID, req)
	if err != nil {
		return nil, apperror.FromDetail(err)
	}
	return updated, nil
}

func (s *service) Delete(ctx context.Context, projectID, perspectiveID int) error {
	if err := s.repo.Delete(ctx, projectID, perspectiveID); err != nil {
		return apperror.FromDetail(err)
	}
	return nil
}

func (s *service) CreateGroup(ctx context.Context, projectID int, req GroupRequest) (*Group, error) {
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return nil, ErrNameRequired
	}
	return s.repo.CreateGroup(ctx, projectID, req)
}

func (s *service) ListGroups(ctx context.Context, projectID int) ([]Group, error) {
	return s.repo.ListGroups(ctx, projectID)
}

func (s *service) DeleteGroup(ctx context.Context, projectID, groupID int) error {
	return s.repo.DeleteGroup(ctx, projectID, groupID)
}

func (s *service) Answer(ctx context.Context, projectID int, req AnswerRequest) (*Answer, error) {
	if strings.TrimSpace(req.Answer) == "" {
		return nil, ErrAnswerRequired
	}
	return s.repo.CreateAnswer(ctx, projectID, req)
}

func (s *service) ListAnswers(ctx context.Context, projectID int) ([]Answer, error) {
	return s.repo.ListAnswers(ctx, projectID)
}

func (s *service) ListAnswersByQuestion(ctx context.Context, projectID, perspectiveID int) ([]Answer, error) {
	return s.repo.ListAnswersByQuestion(ctx, projectID, perspectiveID)
}

func normalize(req CreateRequest) CreateRequest {
	req.Name = strings.TrimSpace(req.Name)
	req.Question = strings.TrimSpace(req.Question)

	options := make([]string, 0, len(req.Options))
	for _, o := range req.Options {
		if o = strings.TrimSpace(o); o != "" {
			options = append(options, o)
		}
	}
	req.Options = options
	return req
}
