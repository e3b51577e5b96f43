package devbackend

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/nekogravitycat/annotation-client/internal/pkg/request"
	"github.com/nekogravitycat/annotation-client/internal/pkg/response"
)

const invalidRequest = "Invalid request."

type Handler struct {
	store         *Store
	sessions      *SessionManager
	hasher        PasswordHasher
	historyDelay  time.Duration
	secureCookies bool
}

func NewHandler(store *Store, sessions *SessionManager, hasher PasswordHasher, historyDelay time.Duration, secureCookies bool) *Handler {
	return &Handler{
		store:         store,
		sessions:      sessions,
		hasher:        hasher,
		historyDelay:  historyDelay,
		secureCookies: secureCookies,
	}
}

//
// POST /v1/auth/login/
//

func (h *Handler) Login(c *gin.Context) {
	var body LoginBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, http.StatusBadRequest, invalidRequest)
		return
	}

	u, err := h.store.UserByUsername(body.Username)
	if err != nil || u.PasswordHash == "" || h.hasher.Compare(u.PasswordHash, body.Password) != nil {
		response.Error(c, http.StatusBadRequest, "Unable to log in with provided credentials.")
		return
	}

	token, err := h.sessions.Issue(u.ID, u.Username)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to create session.")
		return
	}

	u, _ = h.store.UpdateUser(u.ID, func(x *User) {
		now := h.store.Now().UTC()
		x.LastLogin = &now
	})

	maxAge := int(h.sessions.TTL().Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookieName, token, maxAge, "/", "", h.secureCookies, true)
	c.SetCookie(CSRFCookieName, uuid.NewString(), maxAge, "/", "", h.secureCookies, false)

	c.JSON(http.StatusOK, NewUserResponse(u))
}

//
// POST /v1/auth/logout/
//

func (h *Handler) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookieName, "", -1, "/", "", h.secureCookies, true)
	c.SetCookie(CSRFCookieName, "", -1, "/", "", h.secureCookies, false)
	c.JSON(http.StatusOK, response.ErrorResponse{Detail: "Successfully logged out."})
}

//
// GET /v1/me
//

func (h *Handler) Me(c *gin.Context) {
	u, err := h.store.UserByID(GetUserID(c))
	if err != nil {
		response.Error(c, http.StatusUnauthorized, "User not found.")
		return
	}
	c.JSON(http.StatusOK, NewUserResponse(u))
}

//
// /v1/users
//

func (h *Handler) ListUsers(c *gin.Context) {
	users := h.store.ListUsers()
	items := make([]UserResponse, len(users))
	for i, u := range users {
		items[i] = NewUserResponse(u)
	}
	c.JSON(http.StatusOK, items)
}

func (h *Handler) GetUser(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.Error(c, http.StatusNotFound, "Not found.")
		return
	}

	u, err := h.store.UserByID(uri.ID)
	if err != nil {
		response.Error(c, http.StatusNotFound, "Not found.")
		return
	}
	c.JSON(http.StatusOK, NewUserResponse(u))
}

func (h *Handler) CreateUser(c *gin.Context) {
	var body CreateUserBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, http.StatusBadRequest, "This field is required.")
		return
	}

	u := User{
		Username:    strings.TrimSpace(body.Username),
		Email:       body.Email,
		IsSuperuser: body.IsSuperuser,
		IsStaff:     body.IsStaff,
	}
	if body.Password != "" {
		hash, err := h.hasher.Hash(body.Password)
		if err != nil {
			response.Error(c, http.StatusInternalServerError, "Failed to hash password.")
			return
		}
		u.PasswordHash = hash
	}

	created, err := h.store.CreateUser(u)
	if err != nil {
		h.userError(c, err)
		return
	}
	c.JSON(http.StatusCreated, NewUserResponse(created))
}

func (h *Handler) UpdateUser(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.Error(c, http.StatusNotFound, "Not found.")
		return
	}

	var body UpdateUserBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, http.StatusBadRequest, invalidRequest)
		return
	}

	var hash string
	if body.Password != nil {
		var err error
		if hash, err = h.hasher.Hash(*body.Password); err != nil {
			response.Error(c, http.StatusInternalServerError, "Failed to hash password.")
			return
		}
	}

	updated, err := h.store.UpdateUser(uri.ID, func(u *User) {
		if body.Username != nil {
			u.Username = strings.TrimSpace(*body.Username)
		}
		if body.Email != nil {
			u.Email = *body.Email
		}
		if body.IsSuperuser != nil {
			u.IsSuperuser = *body.IsSuperuser
		}
		if body.IsStaff != nil {
			u.IsStaff = *body.IsStaff
		}
		if hash != "" {
			u.PasswordHash = hash
		}
	})
	if err != nil {
		h.userError(c, err)
		return
	}
	c.JSON(http.StatusOK, NewUserResponse(updated))
}

func (h *Handler) DeleteUser(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.Error(c, http.StatusNotFound, "Not found.")
		return
	}

	if err := h.store.DeleteUser(uri.ID); err != nil {
		h.userError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) userError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "Not found.")
	case errors.Is(err, ErrUsernameTaken):
		response.Error(c, http.StatusBadRequest, "A user with that username already exists.")
	default:
		response.Error(c, http.StatusInternalServerError, "Failed to save user.")
	}
}
