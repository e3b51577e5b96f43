package sequencelabeling

import (
	"context"
	"fmt"

	"github.com/nekogravitycat/annotation-client/internal/pkg/httpclient"
	"github.com/nekogravitycat/annotation-client/internal/pkg/response"
)

// SpanRepository manages the spans of an example.
type SpanRepository interface {
	List(ctx context.Context, projectID, exampleID int) ([]Span, error)
	Find(ctx context.Context, projectID, exampleID, spanID int) (*Span, error)
	Create(ctx context.Context, projectID, exampleID int, span Span) (*Span, error)
	Update(ctx context.Context, projectID, exampleID, spanID int, span Span) (*Span, error)
	Delete(ctx context.Context, projectID, exampleID, spanID int) error
}

// RelationRepository manages the relations between spans of an example.
type RelationRepository interface {
	List(ctx context.Context, projectID, exampleID int) ([]Relation, error)
	Find(ctx context.Context, projectID, exampleID, relationID int) (*Relation, error)
	Create(ctx context.Context, projectID, exampleID int, relation Relation) (*Relation, error)
	Update(ctx context.Context, projectID, exampleID, relationID int, relation Relation) (*Relation, error)
	Delete(ctx context.Context, projectID, exampleID, relationID int) error
}

type spanRecord struct {
	ID          int `json:"id"`
	Label       int `json:"label"`
	User        int `json:"user"`
	StartOffset int `json:"start_offset"`
	EndOffset   int `json:"end_offset"`
}

type relationRecord struct {
	ID     int `json:"id"`
	FromID int `json:"from_id"`
	ToID   int `json:"to_id"`
	Type   int `json:"type"`
}

type apiSpanRepository struct {
	client httpclient.API
}

// NewAPISpanRepository creates a SpanRepository backed by the HTTP API.
func NewAPISpanRepository(client httpclient.API) SpanRepository {
	return &apiSpanRepository{client: client}
}

func (r *apiSpanRepository) List(ctx context.Context, projectID, exampleID int) ([]Span, error) {
	return list(ctx, r.client, spansPath(projectID, exampleID), spanToModel)
}

func (r *apiSpanRepository) Find(ctx context.Context, projectID, exampleID, spanID int) (*Span, error) {
	resp, err := r.client.Get(ctx, spanPath(projectID, exampleID, spanID))
	if err != nil {
		return nil, err
	}
	return decodeOne(resp, spanToModel)
}

func (r *apiSpanRepository) Create(ctx context.Context, projectID, exampleID int, span Span) (*Span, error) {
	resp, err := r.client.Post(ctx, spansPath(projectID, exampleID), spanToRecord(span))
	if err != nil {
		return nil, err
	}
	return decodeOne(resp, spanToModel)
}

func (r *apiSpanRepository) Update(ctx context.Context, projectID, exampleID, spanID int, span Span) (*Span, error) {
	resp, err := r.client.Patch(ctx, spanPath(projectID, exampleID, spanID), spanToRecord(span))
	if err != nil {
		return nil, err
	}
	return decodeOne(resp, spanToModel)
}

func (r *apiSpanRepository) Delete(ctx context.Context, projectID, exampleID, spanID int) error {
	_, err := r.client.Delete(ctx, spanPath(projectID, exampleID, spanID))
	return err
}

type apiRelationRepository struct {
	client httpclient.API
}

// NewAPIRelationRepository creates a RelationRepository backed by the HTTP API.
func NewAPIRelationRepository(client httpclient.API) RelationRepository {
	return &apiRelationRepository{client: client}
}

func (r *apiRelationRepository) List(ctx context.Context, projectID, exampleID int) ([]Relation, error) {
	return list(ctx, r.client, relationsPath(projectID, exampleID), relationToModel)
}

func (r *apiRelationRepository) Find(ctx context.Context, projectID, exampleID, relationID int) (*Relation, error) {
	resp, err := r.client.Get(ctx, relationPath(projectID, exampleID, relationID))
	if err != nil {
		return nil, err
	}
	return decodeOne(resp, relationToModel)
}

func (r *apiRelationRepository) Create(ctx context.Context, projectID, exampleID int, relation Relation) (*Relation, error) {
	resp, err := r.client.Post(ctx, relationsPath(projectID, exampleID), relationToRecord(relation))
	if err != nil {
		return nil, err
	}
	return decodeOne(resp, relationToModel)
}

func (r *apiRelationRepository) Update(ctx context.Context, projectID, exampleID, relationID int, relation Relation) (*Relation, error) {
	resp, err := r.client.Patch(ctx, relationPath(projectID, exampleID, relationID), relationToRecord(relation))
	if err != nil {
		return nil, err
	}
	return decodeOne(resp, relationToModel)
}

func (r *apiRelationRepository) Delete(ctx context.Context, projectID, exampleID, relationID int) error {
	_, err := r.client.Delete(ctx, relationPath(projectID, exampleID, relationID))
	return err
}

func list[R, T any](ctx context.Context, client httpclient.API, path string, toModel func(R) T) ([]T, error) {
	resp, err := client.Get(ctx, path)
	if err != nil {
		return nil, err
	}

	var records []R
	if err := resp.Decode(&records); err != nil {
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

func spansPath(projectID, exampleID int) string {
	return fmt.Sprintf("/projects/%d/examples/%d/spans", projectID, exampleID)
}

func spanPath(projectID, exampleID, spanID int) string {
	return fmt.Sprintf("/projects/%d/examples/%d/spans/%d", projectID, exampleID, spanID)
}

func relationsPath(projectID, exampleID int) string {
	return fmt.Sprintf("/projects/%d/examples/%d/relations", projectID, exampleID)
}

func relationPath(projectID, exampleID, relationID int) string {
	return fmt.Sprintf("/projects/%d/examples/%d/relations/%d", projectID, exampleID, relationID)
}

func spanToModel(r spanRecord) Span {
	return Span{ID: r.ID, Label: r.Label, User: r.User, StartOffset: r.StartOffset, EndOffset: r.EndOffset}
}

func spanToRecord(s Span) spanRecord {
	return spanRecord{ID: s.ID, Label: s.Label, User: s.User, StartOffset: s.StartOffset, EndOffset: s.EndOffset}
}

func relationToModel(r relationRecord) Relation {
	return Relation{ID: r.ID, FromID: r.FromID, ToID: r.ToID, Type: r.Type}
}

func relationToRecord(r Relation) relationRecord {
	return relationRecord{ID: r.ID, FromID: r.FromID, ToID: r.ToID, Type: r.Type}
}
