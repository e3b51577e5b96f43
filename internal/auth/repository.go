package auth

import (
	"context"

	"github.com/nekogravitycat/annotation-client/internal/pkg/httpclient"
)

// Repository performs the session login and logout calls.
type Repository interface {
	Login(ctx context.Context, username, password string) error
	Logout(ctx context.Context) error
}

type apiRepository struct {
	client httpclient.API
}

// NewAPIRepository creates a Repository backed by the HTTP API.
func NewAPIRepository(client httpclient.API) Repository {
	return &apiRepository{client: client}
}

type loginPayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (r *apiRepository) Login(ctx context.Context, username, password string) error {
	_, err := r.client.Post(ctx, "/auth/login/", loginPayload{Username: username, Password: password})
	return err
}

func (r *apiRepository) Logout(ctx context.Context) error {
	_, err := r.client.Post(ctx, "/auth/logout/", nil)
	return err
}
