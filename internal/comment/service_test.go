package comment

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/annotation-client/internal/pkg/apitest"
)

func TestService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("Empty text is rejected before any request", func(t *testing.T) {
		srv := apitest.NewServer(t)
		_, err := NewService(NewAPIRepository(srv.Client)).Create(ctx, 7, 3, "   ", nil)
		assert.ErrorIs(t, err, ErrTextRequired)
		assert.Empty(t, srv.Calls())
	})

	t.Run("Detail becomes the error message", func(t *testing.T) {
		srv := apitest.NewServer(t)
		srv.ReplyRaw(http.MethodPost, "/projects/7/comments", http.StatusBadRequest, `{"detail":"Example does not exist."}`)

		_, err := NewService(NewAPIRepository(srv.Client)).Create(ctx, 7, 3, "ok", nil)
		assert.EqualError(t, err, "Example does not exist.")
	})
}

func TestService_DeleteBulk(t *testing.T) {
	ctx := context.Background()
	srv := apitest.NewServer(t)
	srv.Reply(http.MethodDelete, "/projects/7/comments", http.StatusNoContent, nil)
	svc := NewService(NewAPIRepository(srv.Client))

	assert.ErrorIs(t, svc.DeleteBulk(ctx, 7, nil), ErrNoComments)
	assert.Empty(t, srv.Calls())

	require.NoError(t, svc.DeleteBulk(ctx, 7, []Item{{ID: 1}}))
	assert.Len(t, srv.Calls(), 1)
}
