package devbackend

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/annotation-client/internal/pkg/request"
	"github.com/nekogravitycat/annotation-client/internal/pkg/response"
)

// GET /v1/projects/:project_id/votingsessions
func (h *Handler) ListSessions(c *gin.Context) {
	var uri request.ProjectRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.Error(c, http.StatusNotFound, "Not found.")
		return
	}

	sessions := h.store.ListSessions(uri.ProjectID)
	if len(sessions) == 0 {
		response.Error(c, http.StatusNotFound, "No voting sessions found for this project.")
		return
	}

	items := make([]SessionResponse, len(sessions))
	for i, v := range sessions {
		items[i] = NewSessionResponse(v)
	}
	c.JSON(http.StatusOK, SessionListResponse{VotingSessions: items})
}

// POST /v1/projects/:project_id/votingsessions
func (h *Handler) CreateSession(c *gin.Context) {
	var uri request.ProjectRequest
	var body CreateSessionBody
	if err := c.ShouldBindUri(&uri); err != nil {
		response.Error(c, http.StatusNotFound, "Not found.")
		return
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, http.StatusBadRequest, invalidRequest)
		return
	}

	questions := []string{}
	for _, q := range body.Questions {
		if q = strings.TrimSpace(q); q != "" {
			questions = append(questions, q)
		}
	}
	if len(questions) == 0 {
		response.Error(c, http.StatusBadRequest, "At least one question is required.")
		return
	}

	created := h.store.CreateSession(VotingSession{
		Project:     uri.ProjectID,
		Questions:   questions,
		VoteEndDate: body.VoteEndDate,
		Finish:      body.Finish,
	})
	c.JSON(http.StatusCreated, NewSessionResponse(created))
}

// PUT /v1/projects/:project_id/votingsessions/:session_id/
func (h *Handler) UpdateSession(c *gin.Context) {
	var uri SessionRequest
	var body FinishSessionBody
	if err := c.ShouldBindUri(&uri); err != nil {
		response.Error(c, http.StatusNotFound, "Not found.")
		return
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, http.StatusBadRequest, invalidRequest)
		return
	}

	updated, err := h.store.SetSessionFinished(uri.ProjectID, uri.SessionID, body.Finish)
	if err != nil {
		response.Error(c, http.StatusNotFound, "Voting session not found.")
		return
	}
	c.JSON(http.StatusOK, NewSessionResponse(updated))
}

// GET /v1/projects/:project_id/votingsessions/:session_id/answers
func (h *Handler) ListVoteAnswers(c *gin.Context) {
	v, ok := h.bindSession(c)
	if !ok {
		return
	}

	answers := h.store.ListVoteAnswers(v.ID)
	items := make([]VoteAnswerResponse, len(answers))
	for i, a := range answers {
		items[i] = NewVoteAnswerResponse(a)
	}
	c.JSON(http.StatusOK, items)
}

// POST /v1/projects/:project_id/votingsessions/:session_id/answers
func (h *Handler) CreateVoteAnswer(c *gin.Context) {
	v, ok := h.bindSession(c)
	if !ok {
		return
	}

	var body VoteAnswerBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, http.StatusBadRequest, "At least one answer is required.")
		return
	}
	if len(body.Answer) > len(v.Questions) {
		response.Error(c, http.StatusBadRequest, "More answers than questions.")
		return
	}

	created := h.store.AddVoteAnswer(VoteAnswer{
		Session:  v.ID,
		User:     GetUserID(c),
		Username: GetUsername(c),
		Answer:   body.Answer,
	})
	c.JSON(http.StatusCreated, NewVoteAnswerResponse(created))
}

func (h *Handler) bindSession(c *gin.Context) (VotingSession, bool) {
	var uri SessionRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.Error(c, http.StatusNotFound, "Not found.")
		return VotingSession{}, false
	}

	v, err := h.store.Session(uri.ProjectID, uri.SessionID)
	if err != nil {
		response.Error(c, http.StatusNotFound, "Voting session not found.")
		return VotingSession{}, false
	}
	return v, true
}
