package annotation

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/nekogravitycat/annotation-client/internal/pkg/httpclient"
	"github.com/nekogravitycat/annotation-client/internal/pkg/logctx"
	"github.com/nekogravitycat/annotation-client/internal/pkg/response"
)

// Repository reads per-user annotations of a document.
type Repository interface {
	UserAnnotations(ctx context.Context, projectID, documentID, userID int) ([]Item, error)
	Comparison(ctx context.Context, projectID, documentID, user1ID, user2ID int) (Comparison, error)
}

type apiRepository struct {
	client httpclient.API
	cfg    Config
}

// NewAPIRepository creates a Repository backed by the HTTP API.
func NewAPIRepository(client httpclient.API, cfg Config) (Repository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &apiRepository{client: client, cfg: cfg}, nil
}

type record struct {
	ID          int     `json:"id"`
	StartOffset *int    `json:"start_offset"`
	EndOffset   *int    `json:"end_offset"`
	Label       *int    `json:"label"`
	Text        *string `json:"text"`
	User        *int    `json:"user"`
}

type listResponse struct {
	Annotations []record `json:"annotations"`
}

func (r *apiRepository) UserAnnotations(ctx context.Context, projectID, documentID, userID int) ([]Item, error) {
	items, err := r.fetch(ctx, projectID, documentID, userID)
	if err != nil {
		if r.cfg.DegradeOnError {
			logctx.From(ctx).Warn("failed to fetch annotations, returning empty list",
				"project_id", projectID, "document_id", documentID, "user_id", userID, "error", err)
			return []Item{}, nil
		}
		return nil, err
	}
	return items, nil
}

// Comparison fetches both users concurrently. When both come back empty and a
// fallback pair is configured, the fallback users are fetched instead.
func (r *apiRepository) Comparison(ctx context.Context, projectID, documentID, user1ID, user2ID int) (Comparison, error) {
	cmp, err := r.pair(ctx, projectID, documentID, user1ID, user2ID)
	if err != nil {
		return Comparison{}, err
	}

	if len(cmp.User1) > 0 || len(cmp.User2) > 0 || len(r.cfg.FallbackUserIDs) != 2 {
		return cmp, nil
	}

	logctx.From(ctx).Info("no annotations for requested users, using fallback pair",
		"project_id", projectID, "document_id", documentID,
		"fallback_user_ids", r.cfg.FallbackUserIDs)

	return r.pair(ctx, projectID, documentID, r.cfg.FallbackUserIDs[0], r.cfg.FallbackUserIDs[1])
}

func (r *apiRepository) pair(ctx context.Context, projectID, documentID, user1ID, user2ID int) (Comparison, error) {
	var cmp Comparison

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		items, err := r.UserAnnotations(gctx, projectID, documentID, user1ID)
		cmp.User1 = items
		return err
	})
	g.Go(func() error {
		items, err := r.UserAnnotations(gctx, projectID, documentID, user2ID)
		cmp.User2 = items
		return err
	})

	if err := g.Wait(); err != nil {
		return Comparison{}, err
	}
	return cmp, nil
}

func (r *apiRepository) fetch(ctx context.Context, projectID, documentID, userID int) ([]Item, error) {
	resp, err := r.client.Get(ctx, fmt.Sprintf("/projects/%d/annotations", projectID),
		httpclient.WithQuery(httpclient.Params{
			"doc_id":  documentID,
			"user_id": userID,
		}))
	if err != nil {
		return nil, err
	}

	var body listResponse
	if err := resp.Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode annotations: %w", err)
	}

	return response.MapItems(body.Annotations, toModel), nil
}

func toModel(r record) Item {
	return Item{
		ID:          r.ID,
		StartOffset: r.StartOffset,
		EndOffset:   r.EndOffset,
		Label:       r.Label,
		Text:        r.Text,
		User:        r.User,
	}
}
