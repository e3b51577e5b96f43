package voting

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/nekogravitycat/annotation-client/internal/pkg/apperror"
	"github.com/nekogravitycat/annotation-client/internal/pkg/httpclient"
	"github.com/nekogravitycat/annotation-client/internal/pkg/response"
)

// Repository manages voting sessions and their answers.
type Repository interface {
	List(ctx context.Context, projectID int) ([]Session, error)
	Create(ctx context.Context, projectID int, voteEndDate string, questions []string) (*Session, error)
	Finish(ctx context.Context, projectID, sessionID int) error
	ListAnswers(ctx context.Context, projectID, sessionID int) ([]Answer, error)
	CreateAnswers(ctx context.Context, projectID, sessionID int, answers []string) (*Answer, error)
}

type apiRepository struct {
	client httpclient.API
}

// NewAPIRepository creates a Repository backed by the HTTP API.
func NewAPIRepository(client httpclient.API) Repository {
	return &apiRepository{client: client}
}

type sessionRecord struct {
	ID          int       `json:"id"`
	Questions   []string  `json:"questions"`
	CreatedAt   time.Time `json:"created_at"`
	VoteEndDate *string   `json:"vote_end_date"`
	Finish      bool      `json:"finish"`
}

type sessionList struct {
	VotingSessions []sessionRecord `json:"voting_sessions"`
}

type createPayload struct {
	VoteEndDate string   `json:"vote_end_date"`
	Questions   []string `json:"questions"`
	Finish      bool     `json:"finish"`
}

type finishPayload struct {
	Finish bool `json:"finish"`
}

type answerRecord struct {
	ID        int       `json:"id"`
	Session   int       `json:"voting_session"`
	User      int       `json:"user"`
	Username  string    `json:"username"`
	Answer    []string  `json:"answer"`
	CreatedAt time.Time `json:"created_at"`
}

type answerPayload struct {
	Answer []string `json:"answer"`
}

// List returns the sessions of a project. The backend answers 404 when the
// project has none, which is reported as an empty list.
func (r *apiRepository) List(ctx context.Context, projectID int) ([]Session, error) {
	resp, err := r.client.Get(ctx, sessionsPath(projectID))
	if err != nil {
		if isNotFound(err) {
			return []Session{}, nil
		}
		return nil, err
	}

	var body sessionList
	if err := resp.Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode voting sessions: %w", err)
	}
	return response.MapItems(body.VotingSessions, sessionToModel), nil
}

func (r *apiRepository) Create(ctx context.Context, projectID int, voteEndDate string, questions []string) (*Session, error) {
	resp, err := r.client.Post(ctx, sessionsPath(projectID), createPayload{
		VoteEndDate: voteEndDate,
		Questions:   questions,
		Finish:      true,
	})
	if err != nil {
		return nil, err
	}

	var rec sessionRecord
	if err := resp.Decode(&rec); err != nil {
		return nil, fmt.Errorf("failed to decode voting session: %w", err)
	}
	s := sessionToModel(rec)
	return &s, nil
}

func (r *apiRepository) Finish(ctx context.Context, projectID, sessionID int) error {
	_, err := r.client.Put(ctx, sessionPath(projectID, sessionID)+"/", finishPayload{Finish: true})
	return err
}

func (r *apiRepository) ListAnswers(ctx context.Context, projectID, sessionID int) ([]Answer, error) {
	resp, err := r.client.Get(ctx, answersPath(projectID, sessionID))
	if err != nil {
		if isNotFound(err) {
			return []Answer{}, nil
		}
		return nil, err
	}

	var records []answerRecord
	if err := resp.Decode(&records); err != nil {
		return nil, fmt.Errorf("failed to decode answers: %w", err)
	}
	return response.MapItems(records, answerToModel), nil
}

func (r *apiRepository) CreateAnswers(ctx context.Context, projectID, sessionID int, answers []string) (*Answer, error) {
	resp, err := r.client.Post(ctx, answersPath(projectID, sessionID), answerPayload{Answer: answers})
	if err != nil {
		return nil, err
	}

	var rec answerRecord
	if err := resp.Decode(&rec); err != nil {
		return nil, fmt.Errorf("failed to decode answer: %w", err)
	}
	a := answerToModel(rec)
	return &a, nil
}

func sessionsPath(projectID int) string {
	return fmt.Sprintf("/projects/%d/votingsessions", projectID)
}

func sessionPath(projectID, sessionID int) string {
	return fmt.Sprintf("/projects/%d/votingsessions/%d", projectID, sessionID)
}

func answersPath(projectID, sessionID int) string {
	return sessionPath(projectID, sessionID) + "/answers"
}

func isNotFound(err error) bool {
	var httpErr *apperror.HTTPError
	return errors.As(err, &httpErr) && httpErr.Status == http.StatusNotFound
}

func sessionToModel(r sessionRecord) Session {
	questions := r.Questions
	if questions == nil {
		questions = []string{}
	}
	return Session{
		ID:          r.ID,
		Questions:   questions,
		CreatedAt:   r.CreatedAt,
		VoteEndDate: r.VoteEndDate,
		Finish:      r.Finish,
	}
}

func answerToModel(r answerRecord) Answer {
	return Answer{
		ID:        r.ID,
		Session:   r.Session,
		User:      r.User,
		Username:  r.Username,
		Answer:    r.Answer,
		CreatedAt: r.CreatedAt,
	}
}
