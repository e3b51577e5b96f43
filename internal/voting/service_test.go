package voting

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/annotation-client/internal/pkg/apitest"
)

func TestService_List(t *testing.T) {
	ctx := context.Background()

	t.Run("Decodes voting_sessions", func(t *testing.T) {
		srv := apitest.NewServer(t)
		srv.ReplyRaw(http.MethodGet, "/projects/2/votingsessions", http.StatusOK,
			`{"voting_sessions":[{"id":1,"questions":["Is A a rule?"],"created_at":"2024-05-01T10:00:00Z","vote_end_date":"2024-06-01","finish":false}]}`)

		sessions, err := NewService(NewAPIRepository(srv.Client)).List(ctx, 2)
		require.NoError(t, err)
		require.Len(t, sessions, 1)
		assert.Equal(t, []string{"Is A a rule?"}, sessions[0].Questions)
		require.NotNil(t, sessions[0].VoteEndDate)
		assert.Equal(t, "2024-06-01", *sessions[0].VoteEndDate)
		assert.False(t, sessions[0].Finish)
	})

	t.Run("Not found means no sessions", func(t *testing.T) {
		srv := apitest.NewServer(t)
		srv.Reply(http.MethodGet, "/projects/2/votingsessions", http.StatusNotFound,
			gin.H{"detail": "No voting sessions found for this project."})

		sessions, err := NewService(NewAPIRepository(srv.Client)).List(ctx, 2)
		require.NoError(t, err)
		assert.NotNil(t, sessions)
		assert.Empty(t, sessions)
	})

	t.Run("Other failures propagate", func(t *testing.T) {
		srv := apitest.NewServer(t)
		srv.Reply(http.MethodGet, "/projects/2/votingsessions", http.StatusInternalServerError, nil)

		_, err := NewService(NewAPIRepository(srv.Client)).List(ctx, 2)
		assert.Error(t, err)
	})
}

func TestService_CreateSession(t *testing.T) {
	ctx := context.Background()
	srv := apitest.NewServer(t)
	srv.Reply(http.MethodPost, "/projects/2/votingsessions", http.StatusCreated,
		gin.H{"id": 5, "questions": []string{"Q1"}, "created_at": "2024-05-01T10:00:00Z", "vote_end_date": "2024-06-01", "finish": true})
	svc := NewService(NewAPIRepository(srv.Client))

	session, err := svc.CreateSession(ctx, 2, "2024-06-01", []string{" Q1 ", ""})
	require.NoError(t, err)
	assert.Equal(t, 5, session.ID)
	assert.JSONEq(t, `{"vote_end_date":"2024-06-01","questions":["Q1"],"finish":true}`, string(srv.LastCall(t).Body))

	_, err = svc.CreateSession(ctx, 2, "2024-06-01", []string{"  "})
	assert.ErrorIs(t, err, ErrNoQuestions)
}

func TestService_FinishSession(t *testing.T) {
	srv := apitest.NewServer(t)
	srv.Reply(http.MethodPut, "/projects/2/votingsessions/5/", http.StatusOK, gin.H{"finish": true})

	require.NoError(t, NewService(NewAPIRepository(srv.Client)).FinishSession(context.Background(), 2, 5))

	call := srv.LastCall(t)
	assert.Equal(t, "/v1/projects/2/votingsessions/5/", call.Path)
	assert.JSONEq(t, `{"finish":true}`, string(call.Body))
}

func TestService_Answers(t *testing.T) {
	ctx := context.Background()
	srv := apitest.NewServer(t)
	srv.Reply(http.MethodGet, "/projects/2/votingsessions/5/answers", http.StatusOK, []gin.H{
		{"id": 1, "voting_session": 5, "user": 3, "username": "ana", "answer": []string{"yes", "no"}, "created_at": "2024-05-02T10:00:00Z"},
	})
	srv.Reply(http.MethodPost, "/projects/2/votingsessions/5/answers", http.StatusBadRequest,
		gin.H{"detail": "You already voted in this session."})
	svc := NewService(NewAPIRepository(srv.Client))

	answers, err := svc.ListAnswers(ctx, 2, 5)
	require.NoError(t, err)
	require.Len(t, answers, 1)
	assert.Equal(t, []string{"yes", "no"}, answers[0].Answer)
	assert.Equal(t, 5, answers[0].Session)

	_, err = svc.SubmitAnswers(ctx, 2, 5, []string{"yes"})
	assert.EqualError(t, err, "You already voted in this session.")
	assert.JSONEq(t, `{"answer":["yes"]}`, string(srv.LastCall(t).Body))

	_, err = svc.SubmitAnswers(ctx, 2, 5, nil)
	assert.ErrorIs(t, err, ErrNoAnswers)
}
