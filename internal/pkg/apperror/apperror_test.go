package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromDetail(t *testing.T) {
	t.Run("Structured detail becomes the message", func(t *testing.T) {
		err := FromDetail(New(http.StatusBadRequest, []byte(`{"detail":"username already taken"}`)))
		require.Error(t, err)
		assert.Equal(t, "username already taken", err.Error())

		var httpErr *HTTPError
		assert.False(t, errors.As(err, &httpErr), "status must be discarded")
	})

	t.Run("Wrapped HTTPError is still unwrapped", func(t *testing.T) {
		wrapped := fmt.Errorf("create user: %w", New(http.StatusForbidden, []byte(`{"detail":"not allowed"}`)))
		assert.EqualError(t, FromDetail(wrapped), "not allowed")
	})

	t.Run("List detail is joined", func(t *testing.T) {
		err := FromDetail(New(http.StatusBadRequest, []byte(`{"detail":["a","b"]}`)))
		assert.EqualError(t, err, "a; b")
	})

	t.Run("Unstructured body propagates unchanged", func(t *testing.T) {
		orig := New(http.StatusInternalServerError, []byte("<html>boom</html>"))
		assert.Same(t, orig, FromDetail(orig))
	})

	t.Run("Non-HTTP error propagates unchanged", func(t *testing.T) {
		orig := errors.New("connection refused")
		assert.Same(t, orig, FromDetail(orig))
	})

	t.Run("Nil stays nil", func(t *testing.T) {
		assert.NoError(t, FromDetail(nil))
	})
}

func TestHTTPError_Unauthorized(t *testing.T) {
	assert.True(t, errors.Is(New(http.StatusUnauthorized, nil), ErrUnauthorized))
	assert.False(t, errors.Is(New(http.StatusForbidden, nil), ErrUnauthorized))
}

func TestHTTPError_Error(t *testing.T) {
	assert.Equal(t, "request failed with status 404: Not found.", New(404, []byte(`{"detail":"Not found."}`)).Error())
	assert.Equal(t, "request failed with status 500", New(500, nil).Error())
}
