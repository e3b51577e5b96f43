package response

import (
	"github.com/gin-gonic/gin"
)

// ErrorResponse defines the JSON structure for error responses: {"detail": "..."}.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// Error aborts the request with a {"detail"} body and the given status.
func Error(c *gin.Context, status int, detail string) {
	c.AbortWithStatusJSON(status, ErrorResponse{Detail: detail})
}
