package comment

import (
	"context"
	"strings"

	"github.com/nekogravitycat/annotation-client/internal/pkg/apperror"
	"github.com/nekogravitycat/annotation-client/internal/pkg/request"
	"github.com/nekogravitycat/annotation-client/internal/pkg/response"
)

// Service defines the comment operations exposed to callers.
type Service interface {
	ListProjectComments(ctx context.Context, projectID int, q request.SearchQuery) (response.Page[Item], error)
	ListExampleComments(ctx context.Context, projectID, exampleID int, labelID *int) ([]Item, error)
	Create(ctx context.Context, projectID, exampleID int, text string, labelID *int) (*Item, error)
	Update(ctx context.Context, projectID int, item Item) (*Item, error)
	Delete(ctx context.Context, projectID int, item Item) error
	DeleteBulk(ctx context.Context, projectID int, items []Item) error
}

type service struct {
	repo Repository
}

// NewService creates a new comment Service.
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) ListProjectComments(ctx context.Context, projectID int, q request.SearchQuery) (response.Page[Item], error) {
	return s.repo.ListAll(ctx, projectID, q)
}

func (s *service) ListExampleComments(ctx context.Context, projectID, exampleID int, labelID *int) ([]Item, error) {
	return s.repo.List(ctx, projectID, exampleID, labelID)
}

func (s *service) Create(ctx context.Context, projectID, exampleID int, text string, labelID *int) (*Item, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrTextRequired
	}

	created, err := s.repo.Create(ctx, projectID, exampleID, text, labelID)
	if err != nil {
		return nil, apperror.FromDetail(err)
	}
	return created, nil
}

func (s *service) Update(ctx context.Context, projectID int, item Item) (*Item, error) {
	if strings.TrimSpace(item.Text) == "" {
		return nil, ErrTextRequired
	}

	updated, err := s.repo.Update(ctx, projectID, item)
	if err != nil {
		return nil, apperror.FromDetail(err)
	}
	return updated, nil
}

func (s *service) Delete(ctx context.Context, projectID int, item Item) error {
	if err := s.repo.Delete(ctx, projectID, item); err != nil {
		return apperror.FromDetail(err)
	}
	return nil
}

func (s *service) DeleteBulk(ctx context.Context, projectID int, items []Item) error {
	if len(items) == 0 {
		return ErrNoComments
	}
	if err := s.repo.DeleteBulk(ctx, projectID, items); err != nil {
		return apperror.FromDetail(err)
	}
	return nil
}
