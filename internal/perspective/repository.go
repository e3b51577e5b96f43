package perspective

import (
	"context"
	"fmt"
	"time"

	"github.com/nekogravitycat/annotation-client/internal/pkg/httpclient"
	"github.com/nekogravitycat/annotation-client/internal/pkg/response"
)

// Repository manages perspectives, their groups and answers.
type Repository interface {
	Create(ctx context.Context, projectID int, req CreateRequest) (*Perspective, error)
	List(ctx context.Context, projectID int) ([]Perspective, error)
	Update(ctx context.Context, projectID, perspectiveID int, req CreateRequest) (*Perspective, error)
	Delete(ctx context.Context, projectID, perspectiveID int) error

	CreateGroup(ctx context.Context, projectID int, req GroupRequest) (*Group, error)
	ListGroups(ctx context.Context, projectID int) ([]Group, error)
	DeleteGroup(ctx context.Context, projectID, groupID int) error

	CreateAnswer(ctx context.Context, projectID int, req AnswerRequest) (*Answer, error)
	ListAnswers(ctx context.Context, projectID int) ([]Answer, error)
	ListAnswersByQuestion(ctx context.Context, projectID, perspectiveID int) ([]Answer, error)
}

type apiRepository struct {
	client httpclient.API
}

// NewAPIRepository creates a Repository backed by the HTTP API.
func NewAPIRepository(client httpclient.API) Repository {
	return &apiRepository{client: client}
}

type perspectiveRecord struct {
	ID       int      `json:"id"`
	Name     string   `json:"name"`
	Question string   `json:"question"`
	DataType string   `json:"data_type"`
	Options  []string `json:"options"`
	Group    *int     `json:"group"`
	Project  int      `json:"project"`
}

type perspectivePayload struct {
	Name     string   `json:"name"`
	Question string   `json:"question"`
	DataType string   `json:"data_type"`
	Options  []string `json:"options"`
	Group    *int     `json:"group"`
}

type groupRecord struct {
	ID          int                 `json:"id"`
	Name        string              `json:"name"`
	Description string              `json:"description"`
	Questions   []perspectiveRecord `json:"questions"`
	CreatedAt   time.Time           `json:"created_at"`
}

type groupPayload struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type answerRecord struct {
	ID                int       `json:"id"`
	Perspective       int       `json:"perspective"`
	Project           int       `json:"project"`
	Example           *int      `json:"example"`
	Answer            string    `json:"answer"`
	CreatedBy         *int      `json:"created_by"`
	CreatedByUsername *string   `json:"created_by_username"`
	CreatedAt         time.Time `json:"created_at"`
}

type answerPayload struct {
	Perspective int    `json:"perspective"`
	Example     *int   `json:"example,omitempty"`
	Answer      string `json:"answer"`
}

func (r *apiRepository) Create(ctx context.Context, projectID int, req CreateRequest) (*Perspective, error) {
	resp, err := r.client.Post(ctx, perspectivesPath(projectID), toPayload(req))
	if err != nil {
		return nil, err
	}
	return decodeOne(resp, perspectiveToModel)
}

func (r *apiRepository) List(ctx context.Context, projectID int) ([]Perspective, error) {
	return fetchList(ctx, r.client, perspectivesPath(projectID), perspectiveToModel)
}

func (r *apiRepository) Update(ctx context.Context, projectID, perspectiveID int, req CreateRequest) (*Perspective, error) {
	resp, err := r.client.Put(ctx, fmt.Sprintf("%s%d/", perspectivesPath(projectID), perspectiveID), toPayload(req))
	if err != nil {
		return nil, err
	}
	return decodeOne(resp, perspectiveToModel)
}

func (r *apiRepository) Delete(ctx context.Context, projectID, perspectiveID int) error {
	_, err := r.client.Delete(ctx, fmt.Sprintf("%s%d/", perspectivesPath(projectID), perspectiveID))
	return err
}

func (r *apiRepository) CreateGroup(ctx context.Context, projectID int, req GroupRequest) (*Group, error) {
	resp, err := r.client.Post(ctx, groupsPath(projectID), groupPayload{Name: req.Name, Description: req.Description})
	if err != nil {
		return nil, err
	}
	return decodeOne(resp, groupToModel)
}

func (r *apiRepository) ListGroups(ctx context.Context, projectID int) ([]Group, error) {
	return fetchList(ctx, r.client, groupsPath(projectID), groupToModel)
}

func (r *apiRepository) DeleteGroup(ctx context.Context, projectID, groupID int) error {
	_, err := r.client.Delete(ctx, fmt.Sprintf("%s%d/", groupsPath(projectID), groupID))
	return err
}

func (r *apiRepository) CreateAnswer(ctx context.Context, projectID int, req AnswerRequest) (*Answer, error) {
	resp, err := r.client.Post(ctx, answersPath(projectID), answerPayload{
		Perspective: req.Perspective,
		Example:     req.Example,
		Answer:      req.Answer,
	})
	if err != nil {
		return nil, err
	}
	return decodeOne(resp, answerToModel)
}

func (r *apiRepository) ListAnswers(ctx context.Context, projectID int) ([]Answer, error) {
	return fetchList(ctx, r.client, answersPath(projectID), answerToModel)
}

func (r *apiRepository) ListAnswersByQuestion(ctx context.Context, projectID, perspectiveID int) ([]Answer, error) {
	return fetchList(ctx, r.client, answersPath(projectID), answerToModel,
		httpclient.WithQuery(httpclient.Params{"perspective": perspectiveID}))
}

func fetchList[R, T any](ctx context.Context, client httpclient.API, path string, toModel func(R) T, opts ...httpclient.Option) ([]T, error) {
	resp, err := client.Get(ctx, path, opts...)
	if err != nil {
		return nil, err
	}

	records, err := response.UnmarshalList[R](resp.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return response.MapItems(records, toModel), nil
}

func decodeOne[R, T any](resp *httpclient.Response, toModel func(R) T) (*T, error) {
	var rec R
	if err := resp.Decode(&rec); err != nil {
		return nil, err
	}
	item := toModel(rec)
	return &item, nil
}

func perspectivesPath(projectID int) string {
	return fmt.Sprintf("/projects/%d/perspectives/", projectID)
}

func groupsPath(projectID int) string {
	return fmt.Sprintf("/projects/%d/perspective-groups/", projectID)
}

func answersPath(projectID int) string {
	return fmt.Sprintf("/projects/%d/perspective-answers/", projectID)
}

func toPayload(req CreateRequest) perspectivePayload {
	options := req.Options
	if options == nil {
		options = []string{}
	}
	return perspectivePayload{
		Name:     req.Name,
		Question: req.Question,
		DataType: string(req.DataType),
		Options:  options,
		Group:    req.Group,
	}
}

func perspectiveToModel(r perspectiveRecord) Perspective {
	options := r.Options
	if options == nil {
		options = []string{}
	}
	return Perspective{
		ID:       r.ID,
		Name:     r.Name,
		Question: r.Question,
		DataType: DataType(r.DataType),
		Options:  options,
		Group:    r.Group,
		Project:  r.Project,
	}
}

func groupToModel(r groupRecord) Group {
	return Group{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Questions:   response.MapItems(r.Questions, perspectiveToModel),
		CreatedAt:   r.CreatedAt,
	}
}

func answerToModel(r answerRecord) Answer {
	return Answer{
		ID:                r.ID,
		Perspective:       r.Perspective,
		Project:           r.Project,
		Example:           r.Example,
		Answer:            r.Answer,
		CreatedBy:         r.CreatedBy,
		CreatedByUsername: r.CreatedByUsername,
		CreatedAt:         r.CreatedAt,
	}
}
