package sequencelabeling

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/nekogravitycat/annotation-client/internal/pkg/apperror"
	"github.com/nekogravitycat/annotation-client/internal/pkg/httpclient"
	"github.com/nekogravitycat/annotation-client/internal/pkg/response"
)

// Service is the sequence-labeling task API used by annotation screens.
type Service interface {
	List(ctx context.Context, projectID, exampleID int) ([]Span, error)
	Create(ctx context.Context, projectID, exampleID, labelID, startOffset, endOffset int) (*Span, error)
	ChangeLabel(ctx context.Context, projectID, exampleID, spanID, labelID int) (*Span, error)
	Delete(ctx context.Context, projectID, exampleID, spanID int) error

	ListRelations(ctx context.Context, projectID, exampleID int) ([]Relation, error)
	CreateRelation(ctx context.Context, projectID, exampleID, fromID, toID, typeID int) (*Relation, error)
	UpdateRelation(ctx context.Context, projectID, exampleID, relationID, typeID int) (*Relation, error)
	DeleteRelation(ctx context.Context, projectID, exampleID, relationID int) error

	AnnotationsByUser(ctx context.Context, projectID, documentID, userID int) ([]Span, error)
	CompareAnnotations(ctx context.Context, projectID, documentID, user1ID, user2ID int) (Comparison, error)
}

type service struct {
	spans     SpanRepository
	relations RelationRepository
	client    httpclient.API
}

// NewService creates a new sequence-labeling Service. client serves the
// per-user annotation reads, which have no repository of their own.
func NewService(spans SpanRepository, relations RelationRepository, client httpclient.API) Service {
	return &service{
		spans:     spans,
		relations: relations,
		client:    client,
	}
}

func (s *service) List(ctx context.Context, projectID, exampleID int) ([]Span, error) {
	return s.spans.List(ctx, projectID, exampleID)
}

func (s *service) Create(ctx context.Context, projectID, exampleID, labelID, startOffset, endOffset int) (*Span, error) {
	if startOffset < 0 || startOffset >= endOffset {
		return nil, ErrInvalidOffsets
	}

	span := Span{Label: labelID, StartOffset: startOffset, EndOffset: endOffset}
	created, err := s.spans.Create(ctx, projectID, exampleID, span)
	if err != nil {
		return nil, apperror.FromDetail(err)
	}
	return created, nil
}

func (s *service) ChangeLabel(ctx context.Context, projectID, exampleID, spanID, labelID int) (*Span, error) {
	span, err := s.spans.Find(ctx, projectID, exampleID, spanID)
	if err != nil {
		return nil, apperror.FromDetail(err)
	}

	updated, err := s.spans.Update(ctx, projectID, exampleID, spanID, span.ChangeLabel(labelID))
	if err != nil {
		return nil, apperror.FromDetail(err)
	}
	return updated, nil
}

func (s *service) Delete(ctx context.Context, projectID, exampleID, spanID int) error {
	return s.spans.Delete(ctx, projectID, exampleID, spanID)
}

func (s *service) ListRelations(ctx context.Context, projectID, exampleID int) ([]Relation, error) {
	return s.relations.List(ctx, projectID, exampleID)
}

func (s *service) CreateRelation(ctx context.Context, projectID, exampleID, fromID, toID, typeID int) (*Relation, error) {
	if fromID == toID {
		return nil, ErrSelfRelation
	}
	return s.relations.Create(ctx, projectID, exampleID, Relation{FromID: fromID, ToID: toID, Type: typeID})
}

func (s *service) UpdateRelation(ctx context.Context, projectID, exampleID, relationID, typeID int) (*Relation, error) {
	relation, err := s.relations.Find(ctx, projectID, exampleID, relationID)
	if err != nil {
		return nil, err
	}
	return s.relations.Update(ctx, projectID, exampleID, relationID, relation.ChangeType(typeID))
}

func (s *service) DeleteRelation(ctx context.Context, projectID, exampleID, relationID int) error {
	return s.relations.Delete(ctx, projectID, exampleID, relationID)
}

// AnnotationsByUser accepts both {"annotations": [...]} and a bare array.
// Any other body shape yields an empty list.
func (s *service) AnnotationsByUser(ctx context.Context, projectID, documentID, userID int) ([]Span, error) {
	resp, err := s.client.Get(ctx, fmt.Sprintf("/projects/%d/annotations", projectID),
		httpclient.WithQuery(httpclient.Params{
			"doc_id":  documentID,
			"user_id": userID,
		}))
	if err != nil {
		return nil, err
	}

	records, err := decodeAnnotations(resp.Data)
	if err != nil {
		return nil, err
	}
	return response.MapItems(records, spanToModel), nil
}

func (s *service) CompareAnnotations(ctx context.Context, projectID, documentID, user1ID, user2ID int) (Comparison, error) {
	var cmp Comparison

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		spans, err := s.AnnotationsByUser(gctx, projectID, documentID, user1ID)
		cmp.User1 = spans
		return err
	})
	g.Go(func() error {
		spans, err := s.AnnotationsByUser(gctx, projectID, documentID, user2ID)
		cmp.User2 = spans
		return err
	})

	if err := g.Wait(); err != nil {
		return Comparison{}, err
	}
	return cmp, nil
}

func decodeAnnotations(data []byte) ([]spanRecord, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, nil
	}

	if trimmed[0] == '[' {
		var records []spanRecord
		if err := json.Unmarshal(trimmed, &records); err != nil {
			return nil, fmt.Errorf("failed to decode annotations: %w", err)
		}
		return records, nil
	}

	var wrapped struct {
		Annotations []spanRecord `json:"annotations"`
	}
	if err := json.Unmarshal(trimmed, &wrapped); err != nil {
		return nil, fmt.Errorf("failed to decode annotations: %w", err)
	}
	return wrapped.Annotations, nil
}
