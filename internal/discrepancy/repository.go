package discrepancy

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/nekogravitycat/annotation-client/internal/pkg/apperror"
	"github.com/nekogravitycat/annotation-client/internal/pkg/httpclient"
	"github.com/nekogravitycat/annotation-client/internal/pkg/response"
)

// Repository reads the discrepancy analysis of a project.
type Repository interface {
	List(ctx context.Context, projectID int, opts Options) ([]Item, error)
}

type apiRepository struct {
	client httpclient.API
}

// NewAPIRepository creates a Repository backed by the HTTP API.
func NewAPIRepository(client httpclient.API) Repository {
	return &apiRepository{client: client}
}

type record struct {
	ID            int                `json:"id"`
	Text          string             `json:"text"`
	Percentages   map[string]float64 `json:"percentages"`
	IsDiscrepancy bool               `json:"is_discrepancy"`
	MaxPercentage float64            `json:"max_percentage"`
	DiffCount     *int               `json:"diff_count"`
}

type listResponse struct {
	Discrepancies []record `json:"discrepancies"`
}

// List returns the analysis; a project without examples yields an empty list.
func (r *apiRepository) List(ctx context.Context, projectID int, opts Options) ([]Item, error) {
	resp, err := r.client.Get(ctx, fmt.Sprintf("/projects/%d/discrepancies", projectID),
		httpclient.WithQuery(opts.params()))
	if err != nil {
		var httpErr *apperror.HTTPError
		if errors.As(err, &httpErr) && httpErr.Status == http.StatusNotFound {
			return []Item{}, nil
		}
		return nil, err
	}

	var body listResponse
	if err := resp.Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode discrepancies: %w", err)
	}
	return response.MapItems(body.Discrepancies, toModel), nil
}

func toModel(r record) Item {
	item := Item{
		ID:            r.ID,
		Text:          r.Text,
		Percentages:   r.Percentages,
		IsDiscrepancy: r.IsDiscrepancy,
		MaxPercentage: r.MaxPercentage,
	}
	if item.Percentages == nil {
		item.Percentages = map[string]float64{}
	}
	// Older servers omit diff_count.
	if r.DiffCount != nil {
		item.DiffCount = *r.DiffCount
	} else {
		item.DiffCount = len(item.Percentages)
	}
	return item
}
