package history

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	ErrNotReady   = errors.New("annotation history is not ready yet")
	ErrTaskFailed = errors.New("annotation history task failed")
)

// StatusAll exports annotations regardless of their review status.
const StatusAll = "All"

// TaskID identifies a background export job.
type TaskID = uuid.UUID

// ParseTaskID validates a task id returned by the backend.
func ParseTaskID(s string) (TaskID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid task id %q: %w", s, err)
	}
	return id, nil
}

// Record is one row of the annotation history table. Columns depend on the
// project type, so rows are kept as generic maps.
type Record map[string]any

// FileName is the suggested name of the downloaded archive.
func FileName(projectID int, task TaskID) string {
	return fmt.Sprintf("annotation_history_%d_%s.zip", projectID, task)
}
