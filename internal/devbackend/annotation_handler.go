package devbackend

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/annotation-client/internal/pkg/request"
	"github.com/nekogravitycat/annotation-client/internal/pkg/response"
)

// GET /v1/projects/:project_id/annotations?doc_id=&user_id=
func (h *Handler) ListAnnotations(c *gin.Context) {
	var uri request.ProjectRequest
	var query AnnotationQuery
	if err := c.ShouldBindUri(&uri); err != nil {
		response.Error(c, http.StatusNotFound, "Not found.")
		return
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, http.StatusBadRequest, "doc_id and user_id are required.")
		return
	}

	annotations := h.store.Annotations(uri.ProjectID, query.DocID, query.UserID)
	items := make([]AnnotationResponse, len(annotations))
	for i, a := range annotations {
		items[i] = NewAnnotationResponse(a)
	}
	c.JSON(http.StatusOK, AnnotationListResponse{Annotations: items})
}
