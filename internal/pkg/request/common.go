package request

// ByIDRequest is a common struct for endpoints that require an ID path parameter.
type ByIDRequest struct {
	ID int `uri:"id" binding:"required,min=1"`
}

// ProjectRequest binds the project path parameter shared by every project-scoped endpoint.
type ProjectRequest struct {
	ProjectID int `uri:"project_id" binding:"required,min=1"`
}

// ProjectItemRequest binds a project-scoped resource path, e.g. /projects/:project_id/comments/:id.
type ProjectItemRequest struct {
	ProjectID int `uri:"project_id" binding:"required,min=1"`
	ID        int `uri:"id" binding:"required,min=1"`
}

// BulkDeleteRequest is the body of a bulk DELETE call.
type BulkDeleteRequest struct {
	IDs []int `json:"ids"`
}

// ListQuery binds the limit/offset pagination parameters of a list endpoint.
type ListQuery struct {
	Limit    int    `form:"limit" binding:"omitempty,min=1"`
	Offset   int    `form:"offset" binding:"omitempty,min=0"`
	Ordering string `form:"ordering"`
	Q        string `form:"q"`
}

// Window returns the [start, end) slice bounds of the page within total items.
// A zero Limit uses DefaultLimit.
func (q ListQuery) Window(total int) (int, int) {
	limit := q.Limit
	if limit == 0 {
		limit = DefaultLimit
	}
	start := min(q.Offset, total)
	end := min(start+limit, total)
	return start, end
}
