package auth

import (
	"context"

	"github.com/nekogravitycat/annotation-client/internal/pkg/logctx"
	"github.com/nekogravitycat/annotation-client/internal/user"
)

// ProfileGetter fetches the profile of the logged-in user.
type ProfileGetter interface {
	GetProfile(ctx context.Context) (*user.Item, error)
}

// Service drives the login state of the client.
type Service interface {
	Authenticate(ctx context.Context, username, password string) error
	InitAuth(ctx context.Context) Session
	Logout(ctx context.Context) Session
}

type service struct {
	repo     Repository
	profiles ProfileGetter
}

// NewService creates a new auth Service.
func NewService(repo Repository, profiles ProfileGetter) Service {
	return &service{
		repo:     repo,
		profiles: profiles,
	}
}

// Authenticate logs in; any failure is reported as ErrInvalidCredential.
func (s *service) Authenticate(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		return ErrInvalidCredential
	}

	if err := s.repo.Login(ctx, username, password); err != nil {
		logctx.From(ctx).Debug("login failed", "username", username, "error", err)
		return ErrInvalidCredential
	}
	return nil
}

// InitAuth loads the current profile. Any error yields an unauthenticated session.
func (s *service) InitAuth(ctx context.Context) Session {
	u, err := s.profiles.GetProfile(ctx)
	if err != nil {
		return Session{}
	}

	return Session{
		Authenticated: true,
		Username:      u.Username,
		ID:            u.ID,
		IsStaff:       u.IsStaff,
	}
}

// Logout ends the server session. Backend errors are logged and ignored.
func (s *service) Logout(ctx context.Context) Session {
	if err := s.repo.Logout(ctx); err != nil {
		logctx.From(ctx).Warn("failed to log out on the backend", "error", err)
	}
	return Session{}
}
