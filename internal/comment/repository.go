package comment

import (
	"context"
	"fmt"
	"time"

	"github.com/nekogravitycat/annotation-client/internal/pkg/httpclient"
	"github.com/nekogravitycat/annotation-client/internal/pkg/request"
	"github.com/nekogravitycat/annotation-client/internal/pkg/response"
)

// Repository defines methods for accessing project comments through the API.
type Repository interface {
	ListAll(ctx context.Context, projectID int, q request.SearchQuery) (response.Page[Item], error)
	List(ctx context.Context, projectID, exampleID int, labelID *int) ([]Item, error)
	Create(ctx context.Context, projectID, exampleID int, text string, labelID *int) (*Item, error)
	Update(ctx context.Context, projectID int, item Item) (*Item, error)
	Delete(ctx context.Context, projectID int, item Item) error
	DeleteBulk(ctx context.Context, projectID int, items []Item) error
}

type apiRepository struct {
	client httpclient.API
}

// NewAPIRepository creates a Repository backed by the HTTP API.
func NewAPIRepository(client httpclient.API) Repository {
	return &apiRepository{client: client}
}

type record struct {
	ID        int       `json:"id"`
	User      int       `json:"user"`
	Username  string    `json:"username"`
	Example   int       `json:"example"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
	Label     *int      `json:"label"`
}

type payload struct {
	ID    int    `json:"id"`
	User  int    `json:"user"`
	Text  string `json:"text"`
	Label *int   `json:"label"`
}

type createPayload struct {
	Text  string `json:"text"`
	Label *int   `json:"label,omitempty"`
}

type bulkDeletePayload struct {
	IDs []int `json:"ids"`
}

func (r *apiRepository) ListAll(ctx context.Context, projectID int, q request.SearchQuery) (response.Page[Item], error) {
	resp, err := r.client.Get(ctx, commentsPath(projectID), httpclient.WithQuery(q.Params()))
	if err != nil {
		return response.Page[Item]{}, err
	}

	var env response.Envelope[record]
	if err := resp.Decode(&env); err != nil {
		return response.Page[Item]{}, fmt.Errorf("failed to decode comments: %w", err)
	}

	return response.MapPage(env, toModel), nil
}

func (r *apiRepository) List(ctx context.Context, projectID, exampleID int, labelID *int) ([]Item, error) {
	params := httpclient.Params{
		"example": exampleID,
		"limit":   ListLimit,
	}
	if labelID != nil && *labelID != 0 {
		params["label"] = *labelID
	}

	resp, err := r.client.Get(ctx, commentsPath(projectID), httpclient.WithQuery(params))
	if err != nil {
		return nil, err
	}

	var env response.Envelope[record]
	if err := resp.Decode(&env); err != nil {
		return nil, fmt.Errorf("failed to decode comments: %w", err)
	}

	return response.MapItems(env.Results, toModel), nil
}

func (r *apiRepository) Create(ctx context.Context, projectID, exampleID int, text string, labelID *int) (*Item, error) {
	body := createPayload{Text: text}
	if labelID != nil && *labelID != 0 {
		body.Label = labelID
	}

	resp, err := r.client.Post(ctx, commentsPath(projectID), body,
		httpclient.WithQuery(httpclient.Params{"example": exampleID}))
	if err != nil {
		return nil, err
	}
	return decodeItem(resp)
}

func (r *apiRepository) Update(ctx context.Context, projectID int, item Item) (*Item, error) {
	resp, err := r.client.Put(ctx, commentPath(projectID, item.ID), toPayload(item))
	if err != nil {
		return nil, err
	}
	return decodeItem(resp)
}

func (r *apiRepository) Delete(ctx context.Context, projectID int, item Item) error {
	_, err := r.client.Delete(ctx, commentPath(projectID, item.ID))
	return err
}

func (r *apiRepository) DeleteBulk(ctx context.Context, projectID int, items []Item) error {
	ids := make([]int, len(items))
	for i, c := range items {
		ids[i] = c.ID
	}

	_, err := r.client.Delete(ctx, commentsPath(projectID), httpclient.WithBody(bulkDeletePayload{IDs: ids}))
	return err
}

func commentsPath(projectID int) string {
	return fmt.Sprintf("/projects/%d/comments", projectID)
}

func commentPath(projectID, id int) string {
	return fmt.Sprintf("/projects/%d/comments/%d", projectID, id)
}

func decodeItem(resp *httpclient.Response) (*Item, error) {
	var rec record
	if err := resp.Decode(&rec); err != nil {
		return nil, fmt.Errorf("failed to decode comment: %w", err)
	}
	item := toModel(rec)
	return &item, nil
}

func toModel(r record) Item {
	item := Item{
		ID:        r.ID,
		User:      r.User,
		Username:  r.Username,
		Example:   r.Example,
		Text:      r.Text,
		CreatedAt: r.CreatedAt,
	}
	// A zero label means "no label".
	if r.Label != nil && *r.Label != 0 {
		label := *r.Label
		item.Label = &label
	}
	return item
}

func toPayload(item Item) payload {
	return payload{
		ID:    item.ID,
		User:  item.User,
		Text:  item.Text,
		Label: item.Label,
	}
}
