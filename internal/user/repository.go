package user

import (
	"context"
	"fmt"

	"github.com/nekogravitycat/annotation-client/internal/pkg/httpclient"
	"github.com/nekogravitycat/annotation-client/internal/pkg/response"
)

// Repository defines methods for accessing users through the API.
type Repository interface {
	List(ctx context.Context) (response.ItemList[Item], error)
	FindByID(ctx context.Context, id int) (*Item, error)
	GetProfile(ctx context.Context) (*Item, error)
	Create(ctx context.Context, item Item) (*Item, error)
	Edit(ctx context.Context, id int, req EditRequest) (*Item, error)
	Delete(ctx context.Context, id int) error
}

type apiRepository struct {
	client httpclient.API
}

// NewAPIRepository creates a Repository backed by the HTTP API.
func NewAPIRepository(client httpclient.API) Repository {
	return &apiRepository{client: client}
}

// record is the user representation returned by the API.
type record struct {
	ID          int     `json:"id"`
	Username    string  `json:"username"`
	IsSuperuser bool    `json:"is_superuser"`
	IsStaff     bool    `json:"is_staff"`
	Email       string  `json:"email"`
	LastLogin   *string `json:"last_login"`
}

// payload is the writable subset sent on create.
type payload struct {
	ID          int    `json:"id"`
	Username    string `json:"username"`
	IsSuperuser bool   `json:"is_superuser"`
	IsStaff     bool   `json:"is_staff"`
}

type editPayload struct {
	Username    *string `json:"username,omitempty"`
	Email       *string `json:"email,omitempty"`
	IsSuperuser *bool   `json:"is_superuser,omitempty"`
	IsStaff     *bool   `json:"is_staff,omitempty"`
}

func (r *apiRepository) List(ctx context.Context) (response.ItemList[Item], error) {
	resp, err := r.client.Get(ctx, "/users")
	if err != nil {
		return response.ItemList[Item]{}, err
	}

	var records []record
	if err := resp.Decode(&records); err != nil {
		return response.ItemList[Item]{}, fmt.Errorf("failed to decode users: %w", err)
	}

	return response.NewItemList(response.MapItems(records, toModel)), nil
}

func (r *apiRepository) FindByID(ctx context.Context, id int) (*Item, error) {
	return r.getOne(ctx, fmt.Sprintf("/users/%d", id))
}

func (r *apiRepository) GetProfile(ctx context.Context) (*Item, error) {
	return r.getOne(ctx, "/me")
}

func (r *apiRepository) Create(ctx context.Context, item Item) (*Item, error) {
	resp, err := r.client.Post(ctx, "/users", toPayload(item))
	if err != nil {
		return nil, err
	}
	return decodeItem(resp)
}

func (r *apiRepository) Edit(ctx context.Context, id int, req EditRequest) (*Item, error) {
	body := editPayload{
		Username:    req.Username,
		Email:       req.Email,
		IsSuperuser: req.IsSuperuser,
		IsStaff:     req.IsStaff,
	}
	resp, err := r.client.Patch(ctx, fmt.Sprintf("/users/%d", id), body)
	if err != nil {
		return nil, err
	}
	return decodeItem(resp)
}

func (r *apiRepository) Delete(ctx context.Context, id int) error {
	_, err := r.client.Delete(ctx, fmt.Sprintf("/users/%d", id))
	return err
}

func (r *apiRepository) getOne(ctx context.Context, path string) (*Item, error) {
	resp, err := r.client.Get(ctx, path)
	if err != nil {
		return nil, err
	}
	return decodeItem(resp)
}

func decodeItem(resp *httpclient.Response) (*Item, error) {
	var rec record
	if err := resp.Decode(&rec); err != nil {
		return nil, fmt.Errorf("failed to decode user: %w", err)
	}
	item := toModel(rec)
	return &item, nil
}

func toModel(r record) Item {
	item := Item{
		ID:          r.ID,
		Username:    r.Username,
		IsSuperuser: r.IsSuperuser,
		IsStaff:     r.IsStaff,
		Email:       r.Email,
	}
	if r.LastLogin != nil {
		item.LastLogin = *r.LastLogin
	}
	return item
}

func toPayload(item Item) payload {
	return payload{
		ID:          item.ID,
		Username:    item.Username,
		IsSuperuser: item.IsSuperuser,
		IsStaff:     item.IsStaff,
	}
}
