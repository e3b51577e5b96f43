package devbackend

import (
	"time"

	"github.com/google/uuid"
)

type SessionRequest struct {
	ProjectID int `uri:"project_id" binding:"required,min=1"`
	SessionID int `uri:"session_id" binding:"required,min=1"`
}

type LoginBody struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type UserResponse struct {
	ID          int     `json:"id"`
	Username    string  `json:"username"`
	IsSuperuser bool    `json:"is_superuser"`
	IsStaff     bool    `json:"is_staff"`
	Email       string  `json:"email"`
	LastLogin   *string `json:"last_login"`
}

type CreateUserBody struct {
	Username    string `json:"username" binding:"required"`
	Password    string `json:"password"`
	Email       string `json:"email"`
	IsSuperuser bool   `json:"is_superuser"`
	IsStaff     bool   `json:"is_staff"`
}

// UpdateUserBody uses pointers to tell "not sent" from "sent as false/empty".
type UpdateUserBody struct {
	Username    *string `json:"username"`
	Email       *string `json:"email"`
	Password    *string `json:"password"`
	IsSuperuser *bool   `json:"is_superuser"`
	IsStaff     *bool   `json:"is_staff"`
}

func NewUserResponse(u User) UserResponse {
	var lastLogin *string
	if u.LastLogin != nil {
		s := u.LastLogin.UTC().Format(time.RFC3339)
		lastLogin = &s
	}

	return UserResponse{
		ID:          u.ID,
		Username:    u.Username,
		IsSuperuser: u.IsSuperuser,
		IsStaff:     u.IsStaff,
		Email:       u.Email,
		LastLogin:   lastLogin,
	}
}

type CommentQuery struct {
	Example *int `form:"example" binding:"omitempty,min=1"`
	Label   *int `form:"label" binding:"omitempty,min=1"`
}

type CreateCommentQuery struct {
	Example int `form:"example" binding:"required,min=1"`
}

type CommentBody struct {
	Text  string `json:"text" binding:"required"`
	Label *int   `json:"label"`
}

type CommentResponse struct {
	ID        int       `json:"id"`
	User      int       `json:"user"`
	Username  string    `json:"username"`
	Example   int       `json:"example"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
	Label     *int      `json:"label"`
}

func NewCommentResponse(c Comment) CommentResponse {
	return CommentResponse{
		ID:        c.ID,
		User:      c.User,
		Username:  c.Username,
		Example:   c.Example,
		Text:      c.Text,
		CreatedAt: c.CreatedAt,
		Label:     c.Label,
	}
}

type AnnotationQuery struct {
	DocID  int `form:"doc_id" binding:"required,min=1"`
	UserID int `form:"user_id" binding:"required,min=1"`
}

type AnnotationResponse struct {
	ID          int    `json:"id"`
	StartOffset int    `json:"start_offset"`
	EndOffset   int    `json:"end_offset"`
	Label       int    `json:"label"`
	Text        string `json:"text"`
	User        int    `json:"user"`
}

type AnnotationListResponse struct {
	Annotations []AnnotationResponse `json:"annotations"`
}

func NewAnnotationResponse(a Annotation) AnnotationResponse {
	return AnnotationResponse{
		ID:          a.ID,
		StartOffset: a.StartOffset,
		EndOffset:   a.EndOffset,
		Label:       a.Label,
		Text:        a.Text,
		User:        a.User,
	}
}

type CreateSessionBody struct {
	VoteEndDate *string  `json:"vote_end_date"`
	Questions   []string `json:"questions"`
	Finish      bool     `json:"finish"`
}

type FinishSessionBody struct {
	Finish bool `json:"finish"`
}

type SessionResponse struct {
	ID          int       `json:"id"`
	Questions   []string  `json:"questions"`
	CreatedAt   time.Time `json:"created_at"`
	VoteEndDate *string   `json:"vote_end_date"`
	Finish      bool      `json:"finish"`
}

type SessionListResponse struct {
	VotingSessions []SessionResponse `json:"voting_sessions"`
}

func NewSessionResponse(v VotingSession) SessionResponse {
	return SessionResponse{
		ID:          v.ID,
		Questions:   v.Questions,
		CreatedAt:   v.CreatedAt,
		VoteEndDate: v.VoteEndDate,
		Finish:      v.Finish,
	}
}

type VoteAnswerBody struct {
	Answer []string `json:"answer" binding:"required,min=1"`
}

type VoteAnswerResponse struct {
	ID        int       `json:"id"`
	Session   int       `json:"voting_session"`
	User      int       `json:"user"`
	Username  string    `json:"username"`
	Answer    []string  `json:"answer"`
	CreatedAt time.Time `json:"created_at"`
}

func NewVoteAnswerResponse(a VoteAnswer) VoteAnswerResponse {
	return VoteAnswerResponse{
		ID:        a.ID,
		Session:   a.Session,
		User:      a.User,
		Username:  a.Username,
		Answer:    a.Answer,
		CreatedAt: a.CreatedAt,
	}
}

type PrepareHistoryBody struct {
	DatasetName      *string `json:"datasetName"`
	AnnotationStatus string  `json:"annotation_status"`
}

type PrepareHistoryResponse struct {
	TaskID uuid.UUID `json:"task_id"`
}

type HistoryQuery struct {
	TaskID string `form:"taskId" binding:"required"`
}

type TaskStatusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}
