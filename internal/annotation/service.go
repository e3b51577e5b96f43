package annotation

import "context"

// Service exposes annotation reads to callers.
type Service interface {
	UserAnnotations(ctx context.Context, projectID, documentID, userID int) ([]Item, error)
	Comparison(ctx context.Context, projectID, documentID, user1ID, user2ID int) (Comparison, error)
}

type service struct {
	repo Repository
}

// NewService creates a new annotation Service.
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) UserAnnotations(ctx context.Context, projectID, documentID, userID int) ([]Item, error) {
	return s.repo.UserAnnotations(ctx, projectID, documentID, userID)
}

func (s *service) Comparison(ctx context.Context, projectID, documentID, user1ID, user2ID int) (Comparison, error) {
	return s.repo.Comparison(ctx, projectID, documentID, user1ID, user2ID)
}
