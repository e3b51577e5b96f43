package storage

import (
	"context"
	"io"
	"io/fs"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorage(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocalStorage(filepath.Join(t.TempDir(), "exports"))
	require.NoError(t, err)

	t.Run("save and get", func(t *testing.T) {
		n, err := s.Save(ctx, "labels/category_types_1.json", strings.NewReader(`[{"id":1}]`))
		require.NoError(t, err)
		assert.Equal(t, int64(10), n)

		r, err := s.Get(ctx, "labels/category_types_1.json")
		require.NoError(t, err)
		defer r.Close()

		data, err := io.ReadAll(r)
		require.NoError(t, err)
		assert.Equal(t, `[{"id":1}]`, string(data))
	})

	t.Run("create streams", func(t *testing.T) {
		w, err := s.Create(ctx, "history.zip")
		require.NoError(t, err)
		_, err = io.WriteString(w, "PK")
		require.NoError(t, err)
		require.NoError(t, w.Close())
		assert.FileExists(t, s.Path("history.zip"))
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		require.NoError(t, s.Delete(ctx, "history.zip"))
		require.NoError(t, s.Delete(ctx, "history.zip"))

		_, err := s.Get(ctx, "history.zip")
		assert.ErrorIs(t, err, fs.ErrNotExist)
	})

	t.Run("rejects paths outside the root", func(t *testing.T) {
		_, err := s.Create(ctx, "../escape.txt")
		assert.ErrorIs(t, err, ErrInvalidPath)
	})

	t.Run("canceled context", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := s.Create(cctx, "late.txt")
		assert.ErrorIs(t, err, context.Canceled)
	})
}
