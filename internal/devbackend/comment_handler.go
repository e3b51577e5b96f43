package devbackend

import (
	"net/http"
	"slices"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/annotation-client/internal/pkg/request"
	"github.com/nekogravitycat/annotation-client/internal/pkg/response"
)

// GET /v1/projects/:project_id/comments
func (h *Handler) ListComments(c *gin.Context) {
	var uri request.ProjectRequest
	var page request.ListQuery
	var filter CommentQuery
	if err := c.ShouldBindUri(&uri); err != nil {
		response.Error(c, http.StatusNotFound, "Not found.")
		return
	}
	if err := c.ShouldBindQuery(&page); err != nil {
		response.Error(c, http.StatusBadRequest, invalidRequest)
		return
	}
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.Error(c, http.StatusBadRequest, invalidRequest)
		return
	}

	comments := h.store.ListComments(uri.ProjectID, CommentFilter{
		Example: filter.Example,
		Label:   filter.Label,
		Q:       page.Q,
	})
	if page.Ordering == "-created_at" || page.Ordering == "-createdAt" {
		slices.Reverse(comments)
	}

	start, end := page.Window(len(comments))
	items := make([]CommentResponse, 0, end-start)
	for _, cm := range comments[start:end] {
		items = append(items, NewCommentResponse(cm))
	}

	limit := end - start
	if page.Limit > 0 {
		limit = page.Limit
	} else if limit == 0 {
		limit = request.DefaultLimit
	}

	var next, prev *string
	if end < len(comments) {
		next = pageLink(c, end, limit)
	}
	if start > 0 {
		prev = pageLink(c, max(start-limit, 0), limit)
	}

	c.JSON(http.StatusOK, response.NewEnvelope(items, len(comments), next, prev))
}

// POST /v1/projects/:project_id/comments?example=:id
func (h *Handler) CreateComment(c *gin.Context) {
	var uri request.ProjectRequest
	var query CreateCommentQuery
	var body CommentBody
	if err := c.ShouldBindUri(&uri); err != nil {
		response.Error(c, http.StatusNotFound, "Not found.")
		return
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, http.StatusBadRequest, "The example query parameter is required.")
		return
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, http.StatusBadRequest, "This field may not be blank.")
		return
	}

	created := h.store.AddComment(Comment{
		Project:  uri.ProjectID,
		Example:  query.Example,
		User:     GetUserID(c),
		Username: GetUsername(c),
		Text:     body.Text,
		Label:    body.Label,
	})
	c.JSON(http.StatusCreated, NewCommentResponse(created))
}

// GET /v1/projects/:project_id/comments/:id
func (h *Handler) GetComment(c *gin.Context) {
	cm, ok := h.bindComment(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, NewCommentResponse(cm))
}

// PUT /v1/projects/:project_id/comments/:id
func (h *Handler) UpdateComment(c *gin.Context) {
	cm, ok := h.bindOwnComment(c)
	if !ok {
		return
	}

	var body CommentBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, http.StatusBadRequest, "This field may not be blank.")
		return
	}
	cm.Text = body.Text
	cm.Label = body.Label

	updated, err := h.store.UpdateComment(cm)
	if err != nil {
		response.Error(c, http.StatusNotFound, "Not found.")
		return
	}
	c.JSON(http.StatusOK, NewCommentResponse(updated))
}

// DELETE /v1/projects/:project_id/comments/:id
func (h *Handler) DeleteComment(c *gin.Context) {
	cm, ok := h.bindOwnComment(c)
	if !ok {
		return
	}

	h.store.DeleteComments(cm.Project, cm.ID)
	c.Status(http.StatusNoContent)
}

// DELETE /v1/projects/:project_id/comments with {"ids": [...]}
// Only the caller's own comments are removed.
func (h *Handler) BulkDeleteComments(c *gin.Context) {
	var uri request.ProjectRequest
	var body request.BulkDeleteRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.Error(c, http.StatusNotFound, "Not found.")
		return
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, http.StatusBadRequest, invalidRequest)
		return
	}

	userID := GetUserID(c)
	own := []int{}
	for _, id := range body.IDs {
		if cm, err := h.store.Comment(uri.ProjectID, id); err == nil && cm.User == userID {
			own = append(own, id)
		}
	}

	h.store.DeleteComments(uri.ProjectID, own...)
	c.Status(http.StatusNoContent)
}

func (h *Handler) bindComment(c *gin.Context) (Comment, bool) {
	var uri request.ProjectItemRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.Error(c, http.StatusNotFound, "Not found.")
		return Comment{}, false
	}

	cm, err := h.store.Comment(uri.ProjectID, uri.ID)
	if err != nil {
		response.Error(c, http.StatusNotFound, "Not found.")
		return Comment{}, false
	}
	return cm, true
}

func (h *Handler) bindOwnComment(c *gin.Context) (Comment, bool) {
	cm, ok := h.bindComment(c)
	if !ok {
		return Comment{}, false
	}
	if cm.User != GetUserID(c) {
		response.Error(c, http.StatusForbidden, "You do not have permission to perform this action.")
		return Comment{}, false
	}
	return cm, true
}

// pageLink rebuilds the request URL as an absolute link to another page.
func pageLink(c *gin.Context, offset, limit int) *string {
	u := *c.Request.URL
	u.Scheme = "http"
	if c.Request.TLS != nil {
		u.Scheme = "https"
	}
	u.Host = c.Request.Host

	q := u.Query()
	q.Set("limit", strconv.Itoa(limit))
	if offset > 0 {
		q.Set("offset", strconv.Itoa(offset))
	} else {
		q.Del("offset")
	}
	u.RawQuery = q.Encode()

	s := u.String()
	return &s
}
