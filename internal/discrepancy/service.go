package discrepancy

import "context"

// Service exposes the discrepancy analysis.
type Service interface {
	List(ctx context.Context, projectID int, opts Options) ([]Item, error)
	ListDiscrepant(ctx context.Context, projectID int, opts Options) ([]Item, error)
}

type service struct {
	repo Repository
}

// NewService creates a new discrepancy Service.
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) List(ctx context.Context, projectID int, opts Options) ([]Item, error) {
	return s.repo.List(ctx, projectID, opts)
}

// ListDiscrepant keeps only the examples flagged as discrepancies.
func (s *service) ListDiscrepant(ctx context.Context, projectID int, opts Options) ([]Item, error) {
	items, err := s.repo.List(ctx, projectID, opts)
	if err != nil {
		return nil, err
	}

	out := make([]Item, 0, len(items))
	for _, item := range items {
		if item.IsDiscrepancy {
			out = append(out, item)
		}
	}
	return out, nil
}
