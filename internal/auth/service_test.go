package auth

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/annotation-client/internal/pkg/apitest"
	"github.com/nekogravitycat/annotation-client/internal/user"
)

func newAuthServer(t *testing.T) *apitest.Server {
	t.Helper()
	srv := apitest.NewServer(t)
	srv.Handle(http.MethodPost, "/auth/login/", func(c *gin.Context) {
		var body loginPayload
		if err := c.ShouldBindJSON(&body); err != nil || body.Password != "secret" {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "Unable to log in with provided credentials."})
			return
		}
		c.SetCookie("sessionid", "s-1", 3600, "/", "", false, true)
		c.SetCookie("csrftoken", "tok-1", 3600, "/", "", false, false)
		c.Status(http.StatusOK)
	})
	srv.Handle(http.MethodGet, "/me", func(c *gin.Context) {
		if _, err := c.Cookie("sessionid"); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"detail": "Authentication credentials were not provided."})
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": 4, "username": "ana", "is_staff": true})
	})
	return srv
}

func TestService_AuthenticateAndInit(t *testing.T) {
	ctx := context.Background()
	srv := newAuthServer(t)
	svc := NewService(NewAPIRepository(srv.Client), user.NewAPIRepository(srv.Client))

	session := svc.InitAuth(ctx)
	assert.False(t, session.Authenticated)
	assert.Zero(t, session.ID)

	err := svc.Authenticate(ctx, "ana", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredential)

	require.NoError(t, svc.Authenticate(ctx, "ana", "secret"))

	session = svc.InitAuth(ctx)
	assert.Equal(t, Session{Authenticated: true, Username: "ana", ID: 4, IsStaff: true}, session)
	assert.Equal(t, CurrentUser{ID: 4, Username: "ana"}, session.Current())
}

func TestService_AuthenticateRejectsBlank(t *testing.T) {
	srv := newAuthServer(t)
	svc := NewService(NewAPIRepository(srv.Client), user.NewAPIRepository(srv.Client))

	assert.ErrorIs(t, svc.Authenticate(context.Background(), "", "secret"), ErrInvalidCredential)
	assert.Empty(t, srv.Calls())
}

func TestService_LogoutIsBestEffort(t *testing.T) {
	srv := newAuthServer(t)
	srv.Reply(http.MethodPost, "/auth/logout/", http.StatusInternalServerError, gin.H{"detail": "boom"})
	svc := NewService(NewAPIRepository(srv.Client), user.NewAPIRepository(srv.Client))

	session := svc.Logout(context.Background())
	assert.Equal(t, Session{}, session)

	call := srv.LastCall(t)
	assert.Equal(t, "/v1/auth/logout/", call.Path)
	assert.Equal(t, http.MethodPost, call.Method)
}
