package label

import (
	"context"
	"fmt"

	"github.com/nekogravitycat/annotation-client/internal/pkg/httpclient"
	"github.com/nekogravitycat/annotation-client/internal/pkg/response"
)

// Repository manages one kind of label type of a project.
type Repository interface {
	List(ctx context.Context, projectID int) ([]Item, error)
	FindByID(ctx context.Context, projectID, labelID int) (*Item, error)
	Create(ctx context.Context, projectID int, item Item) (*Item, error)
	Update(ctx context.Context, projectID int, item Item) (*Item, error)
	BulkDelete(ctx context.Context, projectID int, ids []int) error
	UploadFile(ctx context.Context, projectID int, body httpclient.RawBody) error
}

// ExtendedLister is implemented by repositories that can also return the raw
// project label list.
type ExtendedLister interface {
	ListLabels(ctx context.Context, projectID int) ([]ProjectLabel, error)
}

type apiRepository struct {
	client httpclient.API
	kind   Kind
}

// NewAPIRepository creates a Repository for kind backed by the HTTP API.
// The returned value also implements ExtendedLister.
func NewAPIRepository(client httpclient.API, kind Kind) Repository {
	return &apiRepository{client: client, kind: kind}
}

type record struct {
	ID              int     `json:"id"`
	Text            string  `json:"text"`
	PrefixKey       *string `json:"prefix_key"`
	SuffixKey       *string `json:"suffix_key"`
	BackgroundColor string  `json:"background_color"`
	TextColor       string  `json:"text_color"`
}

type bulkDeletePayload struct {
	IDs []int `json:"ids"`
}

func (r *apiRepository) List(ctx context.Context, projectID int) ([]Item, error) {
	resp, err := r.client.Get(ctx, r.basePath(projectID))
	if err != nil {
		return nil, err
	}

	var records []record
	if err := resp.Decode(&records); err != nil {
		return nil, fmt.Errorf("failed to decode labels: %w", err)
	}
	return response.MapItems(records, toModel), nil
}

func (r *apiRepository) FindByID(ctx context.Context, projectID, labelID int) (*Item, error) {
	resp, err := r.client.Get(ctx, r.itemPath(projectID, labelID))
	if err != nil {
		return nil, err
	}
	return decodeItem(resp)
}

func (r *apiRepository) Create(ctx context.Context, projectID int, item Item) (*Item, error) {
	resp, err := r.client.Post(ctx, r.basePath(projectID), toPayload(item))
	if err != nil {
		return nil, err
	}
	return decodeItem(resp)
}

func (r *apiRepository) Update(ctx context.Context, projectID int, item Item) (*Item, error) {
	resp, err := r.client.Patch(ctx, r.itemPath(projectID, item.ID), toPayload(item))
	if err != nil {
		return nil, err
	}
	return decodeItem(resp)
}

func (r *apiRepository) BulkDelete(ctx context.Context, projectID int, ids []int) error {
	_, err := r.client.Delete(ctx, r.basePath(projectID), httpclient.WithBody(bulkDeletePayload{IDs: ids}))
	return err
}

func (r *apiRepository) UploadFile(ctx context.Context, projectID int, body httpclient.RawBody) error {
	_, err := r.client.Post(ctx, r.basePath(projectID)+"/upload", body)
	return err
}

func (r *apiRepository) ListLabels(ctx context.Context, projectID int) ([]ProjectLabel, error) {
	resp, err := r.client.Get(ctx, fmt.Sprintf("/projects/%d/labels", projectID))
	if err != nil {
		return nil, err
	}

	var labels []ProjectLabel
	if err := resp.Decode(&labels); err != nil {
		return nil, fmt.Errorf("failed to decode project labels: %w", err)
	}
	if labels == nil {
		labels = []ProjectLabel{}
	}
	return labels, nil
}

func (r *apiRepository) basePath(projectID int) string {
	return fmt.Sprintf("/projects/%d/%s", projectID, r.kind)
}

func (r *apiRepository) itemPath(projectID, labelID int) string {
	return fmt.Sprintf("/projects/%d/%s/%d", projectID, r.kind, labelID)
}

func decodeItem(resp *httpclient.Response) (*Item, error) {
	var rec record
	if err := resp.Decode(&rec); err != nil {
		return nil, fmt.Errorf("failed to decode label: %w", err)
	}
	item := toModel(rec)
	return &item, nil
}

func toModel(r record) Item {
	return Item{
		ID:              r.ID,
		Text:            r.Text,
		PrefixKey:       r.PrefixKey,
		SuffixKey:       r.SuffixKey,
		BackgroundColor: r.BackgroundColor,
		TextColor:       r.TextColor,
	}
}

func toPayload(item Item) record {
	return record{
		ID:              item.ID,
		Text:            item.Text,
		PrefixKey:       item.PrefixKey,
		SuffixKey:       item.SuffixKey,
		BackgroundColor: item.BackgroundColor,
		TextColor:       item.TextColor,
	}
}
