package devbackend

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/nekogravitycat/annotation-client/internal/pkg/request"
	"github.com/nekogravitycat/annotation-client/internal/pkg/response"
)

const statusNotReady = "Not ready"

// POST /v1/projects/:project_id/annotation-history
func (h *Handler) PrepareHistory(c *gin.Context) {
	var uri request.ProjectRequest
	var body PrepareHistoryBody
	if err := c.ShouldBindUri(&uri); err != nil {
		response.Error(c, http.StatusNotFound, "Not found.")
		return
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, http.StatusBadRequest, invalidRequest)
		return
	}

	status := body.AnnotationStatus
	if status == "" {
		status = "All"
	}

	task := h.store.CreateTask(uri.ProjectID, body.DatasetName, status, h.historyDelay)
	c.JSON(http.StatusOK, PrepareHistoryResponse{TaskID: task.ID})
}

// GET /v1/projects/:project_id/annotation-history-data?taskId=
func (h *Handler) HistoryData(c *gin.Context) {
	task, ok := h.bindTask(c)
	if !ok {
		return
	}
	if !task.Ready(h.store.Now()) {
		c.JSON(http.StatusOK, TaskStatusResponse{Status: statusNotReady})
		return
	}
	c.JSON(http.StatusOK, task.Records)
}

// GET /v1/projects/:project_id/annotation-history?taskId=
func (h *Handler) DownloadHistory(c *gin.Context) {
	task, ok := h.bindTask(c)
	if !ok {
		return
	}
	if !task.Ready(h.store.Now()) {
		c.JSON(http.StatusOK, TaskStatusResponse{Status: statusNotReady})
		return
	}

	archive, err := zipRecords(task.Records)
	if err != nil {
		c.JSON(http.StatusInternalServerError, TaskStatusResponse{Status: "Error", Message: err.Error()})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="annotation_history_%d_%s.zip"`, task.Project, task.ID))
	c.Data(http.StatusOK, "application/zip", archive)
}

func (h *Handler) bindTask(c *gin.Context) (HistoryTask, bool) {
	var uri request.ProjectRequest
	var query HistoryQuery
	if err := c.ShouldBindUri(&uri); err != nil {
		response.Error(c, http.StatusNotFound, "Not found.")
		return HistoryTask{}, false
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, http.StatusBadRequest, "taskId is required.")
		return HistoryTask{}, false
	}

	id, err := uuid.Parse(query.TaskID)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid taskId.")
		return HistoryTask{}, false
	}

	task, err := h.store.Task(uri.ProjectID, id)
	if err != nil {
		response.Error(c, http.StatusNotFound, "Task not found.")
		return HistoryTask{}, false
	}
	return task, true
}

func zipRecords(records []map[string]any) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	f, err := zw.Create("annotation_history.json")
	if err != nil {
		return nil, err
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return nil, err
	}

	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
