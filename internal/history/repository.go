package history

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/nekogravitycat/annotation-client/internal/pkg/apperror"
	"github.com/nekogravitycat/annotation-client/internal/pkg/httpclient"
)

// Repository drives the annotation history export job.
type Repository interface {
	Prepare(ctx context.Context, projectID int, datasetName *string, status string) (TaskID, error)
	Fetch(ctx context.Context, projectID int, task TaskID) ([]Record, error)
	Download(ctx context.Context, projectID int, task TaskID, w io.Writer) (int64, error)
}

type apiRepository struct {
	client httpclient.API
}

// NewAPIRepository creates a Repository backed by the HTTP API.
func NewAPIRepository(client httpclient.API) Repository {
	return &apiRepository{client: client}
}

type preparePayload struct {
	DatasetName      *string `json:"datasetName"`
	AnnotationStatus string  `json:"annotation_status"`
}

type prepareResponse struct {
	TaskID string `json:"task_id"`
}

type statusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

const statusNotReady = "Not ready"

func (r *apiRepository) Prepare(ctx context.Context, projectID int, datasetName *string, status string) (TaskID, error) {
	if status == "" {
		status = StatusAll
	}

	resp, err := r.client.Post(ctx, fmt.Sprintf("/projects/%d/annotation-history", projectID), preparePayload{
		DatasetName:      datasetName,
		AnnotationStatus: status,
	})
	if err != nil {
		return TaskID{}, err
	}

	var body prepareResponse
	if err := resp.Decode(&body); err != nil {
		return TaskID{}, err
	}
	return ParseTaskID(body.TaskID)
}

// Fetch returns the history rows, or ErrNotReady while the job is running.
func (r *apiRepository) Fetch(ctx context.Context, projectID int, task TaskID) ([]Record, error) {
	resp, err := r.client.Get(ctx, fmt.Sprintf("/projects/%d/annotation-history-data", projectID),
		httpclient.WithQuery(httpclient.Params{"taskId": task.String()}))
	if err != nil {
		return nil, taskError(err)
	}

	if err := notReady(resp.Data); err != nil {
		return nil, err
	}

	var records []Record
	if err := resp.Decode(&records); err != nil {
		return nil, err
	}
	if records == nil {
		records = []Record{}
	}
	return records, nil
}

// Download streams the zip archive to w, or returns ErrNotReady while the job is running.
func (r *apiRepository) Download(ctx context.Context, projectID int, task TaskID, w io.Writer) (int64, error) {
	sw := &sniffWriter{w: w}
	_, err := r.client.Download(ctx, fmt.Sprintf("/projects/%d/annotation-history", projectID), sw,
		httpclient.WithQuery(httpclient.Params{"taskId": task.String()}))
	if err != nil {
		return sw.n, taskError(err)
	}
	if !sw.held {
		return sw.n, nil
	}

	if err := notReady(sw.buf.Bytes()); err != nil {
		return 0, err
	}
	return sw.buf.WriteTo(w)
}

// sniffWriter passes an archive straight through to w. A body starting like
// JSON is held back so the caller can inspect it first.
type sniffWriter struct {
	w       io.Writer
	decided bool
	held    bool
	buf     bytes.Buffer
	n       int64
}

func (s *sniffWriter) Write(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if !s.decided {
		s.decided = true
		first := bytes.TrimLeft(p, " \t\r\n")
		s.held = len(first) == 0 || first[0] == '{'
	}
	if s.held {
		return s.buf.Write(p)
	}

	n, err := s.w.Write(p)
	s.n += int64(n)
	return n, err
}

// notReady detects the {"status": "Not ready"} placeholder body.
func notReady(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil
	}

	var body statusResponse
	if err := json.Unmarshal(trimmed, &body); err != nil {
		return nil
	}
	if body.Status == statusNotReady {
		return ErrNotReady
	}
	return nil
}

// taskError maps the backend's failed-task payload onto ErrTaskFailed.
func taskError(err error) error {
	var httpErr *apperror.HTTPError
	if !errors.As(err, &httpErr) || httpErr.Status != http.StatusInternalServerError {
		return err
	}

	var body statusResponse
	if json.Unmarshal(httpErr.Data, &body) != nil || body.Status != "Error" {
		return err
	}
	return fmt.Errorf("%w: %s", ErrTaskFailed, body.Message)
}
