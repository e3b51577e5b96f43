package label

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/annotation-client/internal/pkg/apitest"
)

func ptr[T any](v T) *T { return &v }

// plainRepository implements Repository without ExtendedLister.
type plainRepository struct {
	Repository
}

func TestService_List(t *testing.T) {
	ctx := context.Background()

	t.Run("Maps labels", func(t *testing.T) {
		srv := apitest.NewServer(t)
		srv.Reply(http.MethodGet, "/projects/1/span-types", http.StatusOK, []gin.H{
			{"id": 1, "text": "PER", "prefix_key": nil, "suffix_key": "p", "background_color": "#ffffff", "text_color": "#000000"},
		})

		items, err := NewService(NewAPIRepository(srv.Client, SpanType)).List(ctx, 1)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "PER", items[0].Text)
		assert.Nil(t, items[0].PrefixKey)
		require.NotNil(t, items[0].SuffixKey)
		assert.Equal(t, "p", *items[0].SuffixKey)
	})

	t.Run("Failure wraps ErrFetchLabels", func(t *testing.T) {
		srv := apitest.NewServer(t)
		srv.Reply(http.MethodGet, "/projects/1/span-types", http.StatusInternalServerError, gin.H{"detail": "boom"})

		_, err := NewService(NewAPIRepository(srv.Client, SpanType)).List(ctx, 1)
		assert.ErrorIs(t, err, ErrFetchLabels)
	})
}

func TestService_ListLabels(t *testing.T) {
	ctx := context.Background()
	srv := apitest.NewServer(t)
	srv.Reply(http.MethodGet, "/projects/1/labels", http.StatusOK, []gin.H{{"text": "yes"}, {"text": "no"}})
	repo := NewAPIRepository(srv.Client, CategoryType)

	labels, err := NewService(repo).ListLabels(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []ProjectLabel{{Text: "yes"}, {Text: "no"}}, labels)

	_, err = NewService(plainRepository{repo}).ListLabels(ctx, 1)
	assert.ErrorIs(t, err, ErrListLabelsUnsupported)
	assert.ErrorIs(t, err, ErrFetchLabels)
}

func TestService_Create(t *testing.T) {
	srv := apitest.NewServer(t)
	srv.Handle(http.MethodPost, "/projects/1/category-types", func(c *gin.Context) {
		var body map[string]any
		_ = c.ShouldBindJSON(&body)
		body["id"] = 7
		c.JSON(http.StatusCreated, body)
	})
	svc := NewService(NewAPIRepository(srv.Client, CategoryType))

	created, err := svc.Create(context.Background(), 1, CreateRequest{Text: "POS", PrefixKey: ptr("ctrl"), BackgroundColor: "#000080"})
	require.NoError(t, err)
	assert.Equal(t, 7, created.ID)
	assert.Equal(t, "#ffffff", created.TextColor)

	body := srv.LastCall(t).JSON(t)
	assert.Equal(t, "POS", body["text"])
	assert.Equal(t, "ctrl", body["prefix_key"])
	assert.Nil(t, body["suffix_key"])
	assert.Equal(t, "#000080", body["background_color"])

	_, err = svc.Create(context.Background(), 1, CreateRequest{Text: " "})
	assert.ErrorIs(t, err, ErrTextRequired)
}

func TestService_BulkDelete(t *testing.T) {
	srv := apitest.NewServer(t)
	srv.Reply(http.MethodDelete, "/projects/1/relation-types", http.StatusNoContent, nil)

	err := NewService(NewAPIRepository(srv.Client, RelationType)).BulkDelete(context.Background(), 1, []Item{{ID: 2}, {ID: 3}})
	require.NoError(t, err)
	assert.Len(t, srv.Calls(), 1)
	assert.JSONEq(t, `{"ids":[2,3]}`, string(srv.LastCall(t).Body))
}

func TestService_Export(t *testing.T) {
	srv := apitest.NewServer(t)
	srv.Reply(http.MethodGet, "/projects/1/span-types", http.StatusOK, []gin.H{
		{"id": 1, "text": "PER", "background_color": "#ffffff", "text_color": "#000000"},
	})

	var buf bytes.Buffer
	require.NoError(t, NewService(NewAPIRepository(srv.Client, SpanType)).Export(context.Background(), 1, &buf))

	assert.Contains(t, buf.String(), "\n  {")
	var out []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	require.Len(t, out, 1)
	assert.Equal(t, "PER", out[0]["text"])
	assert.Equal(t, "#ffffff", out[0]["backgroundColor"])
}

func TestService_Upload(t *testing.T) {
	srv := apitest.NewServer(t)
	var got string
	srv.Handle(http.MethodPost, "/projects/1/span-types/upload", func(c *gin.Context) {
		fh, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
			return
		}
		f, _ := fh.Open()
		defer f.Close()
		data, _ := io.ReadAll(f)
		got = fh.Filename + ":" + string(data)
		c.Status(http.StatusCreated)
	})

	err := NewService(NewAPIRepository(srv.Client, SpanType)).Upload(context.Background(), 1, "labels.json", strings.NewReader(`[{"text":"PER"}]`))
	require.NoError(t, err)
	assert.Equal(t, `labels.json:[{"text":"PER"}]`, got)
	assert.True(t, strings.HasPrefix(srv.LastCall(t).Header.Get("Content-Type"), "multipart/form-data"))
}

func TestContrastColor(t *testing.T) {
	tests := []struct {
		in   string
		want string
		err  error
	}{
		{"#ffffff", "#000000", nil},
		{"#000000", "#ffffff", nil},
		{"#209cee", "#ffffff", nil},
		{"#ffff00", "#000000", nil},
		{"red", "", ErrInvalidColor},
		{"#zzzzzz", "", ErrInvalidColor},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ContrastColor(tt.in)
			if tt.err != nil {
				assert.True(t, errors.Is(err, tt.err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

var _ ExtendedLister = (*apiRepository)(nil)
