package devbackend

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/annotation-client/internal/pkg/response"
)

// SessionRequired validates the session cookie and stores the user in the context.
func SessionRequired(sessions *SessionManager, store *Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		cookie, err := c.Cookie(SessionCookieName)
		if err != nil || cookie == "" {
			response.Error(c, http.StatusUnauthorized, "Authentication credentials were not provided.")
			return
		}

		claims, err := sessions.Parse(cookie)
		if err != nil {
			response.Error(c, http.StatusUnauthorized, "Invalid session.")
			return
		}

		// Users deleted after login lose their session.
		if _, err := store.UserByID(claims.UserID); err != nil {
			response.Error(c, http.StatusUnauthorized, "User not found.")
			return
		}

		c.Set(ctxUserID, claims.UserID)
		c.Set(ctxUsername, claims.Username)

		c.Next()
	}
}

// CSRFRequired rejects mutating requests whose CSRF header does not echo the CSRF cookie.
func CSRFRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}

		cookie, err := c.Cookie(CSRFCookieName)
		header := c.GetHeader(CSRFHeaderName)
		if err != nil || cookie == "" || subtle.ConstantTimeCompare([]byte(cookie), []byte(header)) != 1 {
			response.Error(c, http.StatusForbidden, "CSRF Failed: CSRF token missing or incorrect.")
			return
		}

		c.Next()
	}
}

// RequireStaff ensures the authenticated user is staff or superuser.
// It MUST be used after SessionRequired.
func RequireStaff(store *Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		u, err := store.UserByID(GetUserID(c))
		if err != nil {
			response.Error(c, http.StatusUnauthorized, "User not found.")
			return
		}

		if !u.IsStaff && !u.IsSuperuser {
			response.Error(c, http.StatusForbidden, "You do not have permission to perform this action.")
			return
		}

		c.Next()
	}
}
