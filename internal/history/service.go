package history

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/nekogravitycat/annotation-client/internal/pkg/logctx"
)

// DefaultPollInterval is the delay between readiness checks in Wait.
const DefaultPollInterval = 2 * time.Second

// Service exports the annotation history of a project.
type Service interface {
	Prepare(ctx context.Context, projectID int, datasetName *string, status string) (TaskID, error)
	Fetch(ctx context.Context, projectID int, task TaskID) ([]Record, error)
	Wait(ctx context.Context, projectID int, task TaskID) ([]Record, error)
	Download(ctx context.Context, projectID int, task TaskID, w io.Writer) (int64, error)
}

type service struct {
	repo         Repository
	pollInterval time.Duration
}

// NewService creates a new history Service. A non-positive pollInterval uses DefaultPollInterval.
func NewService(repo Repository, pollInterval time.Duration) Service {
	if pollInterval <= 0 {
		pollInterval = DefaultPollInterval
	}
	return &service{
		repo:         repo,
		pollInterval: pollInterval,
	}
}

func (s *service) Prepare(ctx context.Context, projectID int, datasetName *string, status string) (TaskID, error) {
	task, err := s.repo.Prepare(ctx, projectID, datasetName, status)
	if err != nil {
		return TaskID{}, err
	}
	logctx.From(ctx).Info("annotation history requested", "project_id", projectID, "task_id", task)
	return task, nil
}

func (s *service) Fetch(ctx context.Context, projectID int, task TaskID) ([]Record, error) {
	return s.repo.Fetch(ctx, projectID, task)
}

// Wait polls Fetch until the rows are ready, the job fails or ctx is done.
func (s *service) Wait(ctx context.Context, projectID int, task TaskID) ([]Record, error) {
	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	for {
		records, err := s.repo.Fetch(ctx, projectID, task)
		if !errors.Is(err, ErrNotReady) {
			return records, err
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

func (s *service) Download(ctx context.Context, projectID int, task TaskID, w io.Writer) (int64, error) {
	return s.repo.Download(ctx, projectID, task, w)
}
