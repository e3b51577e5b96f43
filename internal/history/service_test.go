package history

import (
	"bytes"
	"context"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/annotation-client/internal/pkg/apitest"
)

const taskStr = "0b6c5d1e-3f5a-4c1e-9a57-6f0d3c2b8e11"

func TestService_Prepare(t *testing.T) {
	ctx := context.Background()

	t.Run("Sends dataset and default status", func(t *testing.T) {
		srv := apitest.NewServer(t)
		srv.Reply(http.MethodPost, "/projects/3/annotation-history", http.StatusOK, gin.H{"task_id": taskStr})

		dataset := "train"
		task, err := NewService(NewAPIRepository(srv.Client), 0).Prepare(ctx, 3, &dataset, "")
		require.NoError(t, err)
		assert.Equal(t, uuid.MustParse(taskStr), task)
		assert.JSONEq(t, `{"datasetName":"train","annotation_status":"All"}`, string(srv.LastCall(t).Body))
	})

	t.Run("Null dataset", func(t *testing.T) {
		srv := apitest.NewServer(t)
		srv.Reply(http.MethodPost, "/projects/3/annotation-history", http.StatusOK, gin.H{"task_id": taskStr})

		_, err := NewService(NewAPIRepository(srv.Client), 0).Prepare(ctx, 3, nil, "Finished")
		require.NoError(t, err)
		assert.JSONEq(t, `{"datasetName":null,"annotation_status":"Finished"}`, string(srv.LastCall(t).Body))
	})

	t.Run("Malformed task id", func(t *testing.T) {
		srv := apitest.NewServer(t)
		srv.Reply(http.MethodPost, "/projects/3/annotation-history", http.StatusOK, gin.H{"task_id": "nope"})

		_, err := NewService(NewAPIRepository(srv.Client), 0).Prepare(ctx, 3, nil, "")
		assert.Error(t, err)
	})
}

func TestService_Fetch(t *testing.T) {
	ctx := context.Background()
	task := uuid.MustParse(taskStr)

	t.Run("Ready", func(t *testing.T) {
		srv := apitest.NewServer(t)
		srv.ReplyRaw(http.MethodGet, "/projects/3/annotation-history-data", http.StatusOK,
			`[{"example_id":1,"label":"POS","annotator":"ana"}]`)

		records, err := NewService(NewAPIRepository(srv.Client), 0).Fetch(ctx, 3, task)
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, "POS", records[0]["label"])
		assert.Equal(t, []string{taskStr}, srv.LastCall(t).Query["taskId"])
	})

	t.Run("Not ready", func(t *testing.T) {
		srv := apitest.NewServer(t)
		srv.Reply(http.MethodGet, "/projects/3/annotation-history-data", http.StatusOK, gin.H{"status": "Not ready"})

		_, err := NewService(NewAPIRepository(srv.Client), 0).Fetch(ctx, 3, task)
		assert.ErrorIs(t, err, ErrNotReady)
	})

	t.Run("Task failed", func(t *testing.T) {
		srv := apitest.NewServer(t)
		srv.Reply(http.MethodGet, "/projects/3/annotation-history-data", http.StatusInternalServerError,
			gin.H{"status": "Error", "message": "worker crashed"})

		_, err := NewService(NewAPIRepository(srv.Client), 0).Fetch(ctx, 3, task)
		assert.ErrorIs(t, err, ErrTaskFailed)
		assert.Contains(t, err.Error(), "worker crashed")
	})

	t.Run("Plain server error is not a task failure", func(t *testing.T) {
		srv := apitest.NewServer(t)
		srv.Reply(http.MethodGet, "/projects/3/annotation-history-data", http.StatusInternalServerError, nil)

		_, err := NewService(NewAPIRepository(srv.Client), 0).Fetch(ctx, 3, task)
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrTaskFailed)
	})
}

func TestService_Wait(t *testing.T) {
	task := uuid.MustParse(taskStr)

	t.Run("Polls until ready", func(t *testing.T) {
		srv := apitest.NewServer(t)
		var hits atomic.Int32
		srv.Handle(http.MethodGet, "/projects/3/annotation-history-data", func(c *gin.Context) {
			if hits.Add(1) < 3 {
				c.JSON(http.StatusOK, gin.H{"status": "Not ready"})
				return
			}
			c.JSON(http.StatusOK, []gin.H{{"example_id": 1}})
		})

		records, err := NewService(NewAPIRepository(srv.Client), time.Millisecond).Wait(context.Background(), 3, task)
		require.NoError(t, err)
		assert.Len(t, records, 1)
		assert.Equal(t, int32(3), hits.Load())
	})

	t.Run("Context cancelled", func(t *testing.T) {
		srv := apitest.NewServer(t)
		srv.Reply(http.MethodGet, "/projects/3/annotation-history-data", http.StatusOK, gin.H{"status": "Not ready"})

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()

		_, err := NewService(NewAPIRepository(srv.Client), 5*time.Millisecond).Wait(ctx, 3, task)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})
}

func TestService_Download(t *testing.T) {
	ctx := context.Background()
	task := uuid.MustParse(taskStr)

	t.Run("Copies the archive", func(t *testing.T) {
		srv := apitest.NewServer(t)
		srv.Handle(http.MethodGet, "/projects/3/annotation-history", func(c *gin.Context) {
			c.Data(http.StatusOK, "application/zip", []byte("PK\x03\x04data"))
		})

		var buf bytes.Buffer
		n, err := NewService(NewAPIRepository(srv.Client), 0).Download(ctx, 3, task, &buf)
		require.NoError(t, err)
		assert.Equal(t, int64(8), n)
		assert.Equal(t, "PK\x03\x04data", buf.String())
		assert.Equal(t, []string{taskStr}, srv.LastCall(t).Query["taskId"])
	})

	t.Run("Streams large archives as they arrive", func(t *testing.T) {
		archive := append([]byte("PK\x03\x04"), bytes.Repeat([]byte{0xAB}, 1<<20)...)
		srv := apitest.NewServer(t)
		srv.Handle(http.MethodGet, "/projects/3/annotation-history", func(c *gin.Context) {
			c.Data(http.StatusOK, "application/zip", archive)
		})

		w := &countingWriter{}
		n, err := NewService(NewAPIRepository(srv.Client), 0).Download(ctx, 3, task, w)
		require.NoError(t, err)
		assert.Equal(t, int64(len(archive)), n)
		assert.Equal(t, len(archive), w.total)
		assert.Greater(t, w.writes, 1, "archive should arrive in several writes, not one buffered copy")
	})

	t.Run("Not ready writes nothing", func(t *testing.T) {
		srv := apitest.NewServer(t)
		srv.Reply(http.MethodGet, "/projects/3/annotation-history", http.StatusOK, gin.H{"status": "Not ready"})

		var buf bytes.Buffer
		_, err := NewService(NewAPIRepository(srv.Client), 0).Download(ctx, 3, task, &buf)
		assert.ErrorIs(t, err, ErrNotReady)
		assert.Zero(t, buf.Len())
	})
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "annotation_history_3_"+taskStr+".zip", FileName(3, uuid.MustParse(taskStr)))
}

type countingWriter struct {
	writes int
	total  int
}

func (w *countingWriter) Write(p []byte) (int, error) {
	w.writes++
	w.total += len(p)
	return len(p), nil
}
