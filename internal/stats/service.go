package stats

import (
	"context"
	"slices"

	"github.com/nekogravitycat/annotation-client/internal/pkg/apperror"
)

type Service interface {
	LabelVotes(ctx context.Context, projectID int, params LabelVoteParams) ([]LabelStat, error)
	Datasets(ctx context.Context, projectID int) ([]Dataset, error)
	Report(ctx context.Context, projectID int, filters ReportFilters) (*Report, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) LabelVotes(ctx context.Context, projectID int, params LabelVoteParams) ([]LabelStat, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	votes, err := s.repo.LabelVotes(ctx, projectID, params)
	if err != nil {
		return nil, apperror.FromDetail(err)
	}
	return votes, nil
}

func (s *service) Datasets(ctx context.Context, projectID int) ([]Dataset, error) {
	return s.repo.Datasets(ctx, projectID)
}

// Report fetches the annotation report. Selecting "all" among the datasets
// drops the dataset filter.
func (s *service) Report(ctx context.Context, projectID int, filters ReportFilters) (*Report, error) {
	if filters.Agreement == "" {
		filters.Agreement = AgreementAll
	}
	if !filters.Agreement.Valid() {
		return nil, ErrInvalidAgreement
	}
	if slices.Contains(filters.Datasets, AllDatasets) {
		filters.Datasets = nil
	}

	return s.repo.Report(ctx, projectID, filters)
}
