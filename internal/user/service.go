package user

import (
	"context"
	"fmt"
	"strings"

	"github.com/nekogravitycat/annotation-client/internal/pkg/apperror"
	"github.com/nekogravitycat/annotation-client/internal/pkg/httpclient"
	"github.com/nekogravitycat/annotation-client/internal/pkg/logctx"
	"github.com/nekogravitycat/annotation-client/internal/pkg/response"
)

// Service defines the user operations exposed to callers.
type Service interface {
	List(ctx context.Context) (response.ItemList[Item], error)
	FindByID(ctx context.Context, id int) (*Item, error)
	GetProfile(ctx context.Context) (*Item, error)
	Create(ctx context.Context, req CreateRequest) (*Item, error)
	Edit(ctx context.Context, id int, req EditRequest) (*Item, error)
	Delete(ctx context.Context, id int) error
	UpdateRaw(ctx context.Context, id int, fields map[string]any) (map[string]any, error)
}

type service struct {
	repo   Repository
	client httpclient.API
}

// NewService creates a new user Service. client is used for raw updates that
// bypass the repository mapping.
func NewService(repo Repository, client httpclient.API) Service {
	return &service{
		repo:   repo,
		client: client,
	}
}

func (s *service) List(ctx context.Context) (response.ItemList[Item], error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return response.ItemList[Item]{}, apperror.FromDetail(err)
	}
	return list, nil
}

func (s *service) FindByID(ctx context.Context, id int) (*Item, error) {
	if id <= 0 {
		return nil, ErrInvalidID
	}
	return s.repo.FindByID(ctx, id)
}

func (s *service) GetProfile(ctx context.Context) (*Item, error) {
	return s.repo.GetProfile(ctx)
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Item, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" {
		return nil, ErrUsernameRequired
	}

	created, err := s.repo.Create(ctx, Item{
		Username:    username,
		IsSuperuser: req.IsSuperuser,
		IsStaff:     req.IsStaff,
	})
	if err != nil {
		return nil, apperror.FromDetail(err)
	}

	logctx.From(ctx).Info("user created", "user_id", created.ID, "username", created.Username)
	return created, nil
}

func (s *service) Edit(ctx context.Context, id int, req EditRequest) (*Item, error) {
	if id <= 0 {
		return nil, ErrInvalidID
	}
	if req.Username != nil && strings.TrimSpace(*req.Username) == "" {
		return nil, ErrUsernameRequired
	}

	updated, err := s.repo.Edit(ctx, id, req)
	if err != nil {
		return nil, apperror.FromDetail(err)
	}
	return updated, nil
}

func (s *service) Delete(ctx context.Context, id int) error {
	if id <= 0 {
		return ErrInvalidID
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return apperror.FromDetail(err)
	}
	return nil
}

// UpdateRaw sends fields as-is in a PATCH and returns the decoded response body.
func (s *service) UpdateRaw(ctx context.Context, id int, fields map[string]any) (map[string]any, error) {
	if id <= 0 {
		return nil, ErrInvalidID
	}

	resp, err := s.client.Patch(ctx, fmt.Sprintf("/users/%d/", id), fields)
	if err != nil {
		return nil, apperror.FromDetail(err)
	}

	var out map[string]any
	if err := resp.Decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}
