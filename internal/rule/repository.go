package rule

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

// Repository manages the rules of a project.
type Repository interface {
	ListToSubmit(ctx context.Context, projectID int) ([]Rule, error)
	ListSubmitted(ctx context.Context, projectID int) ([]Rule, error)
	Submit(ctx context.Context, projectID int, question string) (*Rule, error)
	Update(ctx context.Context, projectID int, r Rule) (*Rule, error)
	Delete(ctx context.Context, projectID, ruleID int) error
}

// DiscussionRepository manages the discussion messages of voted rules.
type DiscussionRepository interface {
	ListMessages(ctx context.Context, projectID, sessionID, questionIndex int) ([]Message, error)
	CreateMessage(ctx context.Context, projectID, sessionID, questionIndex int, text string) (*Message, error)
}

type apiRepository struct {
	client httpclient.API
}

// NewAPIRepository creates a Repository backed by the HTTP API.
func NewAPIRepository(client httpclient.API) Repository {
	return &apiRepository{client: client}
}

// The backend names the question "regra" on reads and "question" on writes.
type ruleRecord struct {
	ID    int    `json:"id"`
	Regra string `json:"regra"`
}

type ruleList struct {
	Rules []ruleRecord `json:"rules"`
}

type questionPayload struct {
	Question string `json:"question"`
}

type deletePayload struct {
	ID int `json:"id"`
}

func (r *apiRepository) ListToSubmit(ctx context.Context, projectID int) ([]Rule, error) {
	return r.list(ctx, fmt.Sprintf("/projects/%d/rules/tosubmit", projectID))
}

func (r *apiRepository) ListSubmitted(ctx context.Context, projectID int) ([]Rule, error) {
	return r.list(ctx, fmt.Sprintf("/projects/%d/rules/submited", projectID))
}

func (r *apiRepository) Submit(ctx context.Context, projectID int, question string) (*Rule, error) {
	resp, err := r.client.Post(ctx, fmt.Sprintf("/projects/%d/rules/tosubmit", projectID), questionPayload{Question: question})
	if err != nil {
		return nil, err
	}
	return decodeRule(resp)
}

func (r *apiRepository) Update(ctx context.Context, projectID int, rule Rule) (*Rule, error) {
	resp, err := r.client.Put(ctx, rulePath(projectID, rule.ID), questionPayload{Question: rule.Question})
	if err != nil {
		return nil, err
	}
	return decodeRule(resp)
}

func (r *apiRepository) Delete(ctx context.Context, projectID, ruleID int) error {
	_, err := r.client.Delete(ctx, rulePath(projectID, ruleID), httpclient.WithBody(deletePayload{ID: ruleID}))
	return err
}

// list treats the backend's 404 for "no rules" as an empty list.
func (r *apiRepository) list(ctx context.Context, path string) ([]Rule, error) {
	resp, err := r.client.Get(ctx, path)
	if err != nil {
		var httpErr *apperror.HTTPError
		if errors.As(err, &httpErr) && httpErr.Status == http.StatusNotFound {
			return []Rule{}, nil
		}
		return nil, err
	}

	var body ruleList
	if err := resp.Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode rules: %w", err)
	}
	return response.MapItems(body.Rules, ruleToModel), nil
}

func rulePath(projectID, ruleID int) string {
	return fmt.Sprintf("/projects/%d/rules/tosubmit/%d/", projectID, ruleID)
}

func decodeRule(resp *httpclient.Response) (*Rule, error) {
	var rec ruleRecord
	if err := resp.Decode(&rec); err != nil {
		return nil, fmt.Errorf("failed to decode rule: %w", err)
	}
	rule := ruleToModel(rec)
	return &rule, nil
}

func ruleToModel(r ruleRecord) Rule {
	return Rule{ID: r.ID, Question: r.Regra}
}

type apiDiscussionRepository struct {
	client httpclient.API
}

// NewAPIDiscussionRepository creates a DiscussionRepository backed by the HTTP API.
func NewAPIDiscussionRepository(client httpclient.API) DiscussionRepository {
	return &apiDiscussionRepository{client: client}
}

type messageRecord struct {
	ID            int       `json:"id"`
	SessionID     int       `json:"voting_session"`
	QuestionIndex int       `json:"question_index"`
	Message       string    `json:"message"`
	CreatedBy     *int      `json:"created_by"`
	Username      string    `json:"created_by_username"`
	CreatedAt     time.Time `json:"created_at"`
}

type messageList struct {
	Messages []messageRecord `json:"messages"`
}

type messagePayload struct {
	SessionID     int    `json:"session_id"`
	QuestionIndex int    `json:"question_index"`
	Message       string `json:"message"`
}

func (r *apiDiscussionRepository) ListMessages(ctx context.Context, projectID, sessionID, questionIndex int) ([]Message, error) {
	resp, err := r.client.Get(ctx, messagesPath(projectID), httpclient.WithQuery(httpclient.Params{
		"session_id":     sessionID,
		"question_index": questionIndex,
	}))
	if err != nil {
		return nil, err
	}

	var body messageList
	if err := resp.Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode messages: %w", err)
	}
	return response.MapItems(body.Messages, messageToModel), nil
}

func (r *apiDiscussionRepository) CreateMessage(ctx context.Context, projectID, sessionID, questionIndex int, text string) (*Message, error) {
	resp, err := r.client.Post(ctx, messagesPath(projectID), messagePayload{
		SessionID:     sessionID,
		QuestionIndex: questionIndex,
		Message:       text,
	})
	if err != nil {
		return nil, err
	}

	var rec messageRecord
	if err := resp.Decode(&rec); err != nil {
		return nil, fmt.Errorf("failed to decode message: %w", err)
	}
	m := messageToModel(rec)
	return &m, nil
}

func messagesPath(projectID int) string {
	return fmt.Sprintf("/projects/%d/rules/messages", projectID)
}

func messageToModel(r messageRecord) Message {
	return Message{
		ID:            r.ID,
		SessionID:     r.SessionID,
		QuestionIndex: r.QuestionIndex,
		Text:          r.Message,
		CreatedBy:     r.CreatedBy,
		Username:      r.Username,
		CreatedAt:     r.CreatedAt,
	}
}
