package label

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"

	"github.com/nekogravitycat/annotation-client/internal/pkg/httpclient"
	"github.com/nekogravitycat/annotation-client/internal/pkg/logctx"
)

// ExportFileName is the suggested name for exported label configurations.
const ExportFileName = "label_config.json"

// Service manages the label types of a project.
type Service interface {
	List(ctx context.Context, projectID int) ([]Item, error)
	ListLabels(ctx context.Context, projectID int) ([]ProjectLabel, error)
	FindByID(ctx context.Context, projectID, labelID int) (*Item, error)
	Create(ctx context.Context, projectID int, req CreateRequest) (*Item, error)
	Update(ctx context.Context, projectID int, item Item) (*Item, error)
	BulkDelete(ctx context.Context, projectID int, items []Item) error
	Export(ctx context.Context, projectID int, w io.Writer) error
	Upload(ctx context.Context, projectID int, filename string, content io.Reader) error
}

// exported is the JSON layout of an exported label.
type exported struct {
	ID              int     `json:"id"`
	Text            string  `json:"text"`
	PrefixKey       *string `json:"prefixKey"`
	SuffixKey       *string `json:"suffixKey"`
	BackgroundColor string  `json:"backgroundColor"`
	TextColor       string  `json:"textColor"`
}

type service struct {
	repo   Repository
	lister ExtendedLister
}

// NewService creates a new label Service. ListLabels is available only when
// repo also implements ExtendedLister.
func NewService(repo Repository) Service {
	s := &service{repo: repo}
	if lister, ok := repo.(ExtendedLister); ok {
		s.lister = lister
	}
	return s
}

func (s *service) List(ctx context.Context, projectID int) ([]Item, error) {
	items, err := s.repo.List(ctx, projectID)
	if err != nil {
		logctx.From(ctx).Error("failed to list labels", "project_id", projectID, "error", err)
		return nil, fmt.Errorf("%w: %w", ErrFetchLabels, err)
	}
	return items, nil
}

func (s *service) ListLabels(ctx context.Context, projectID int) ([]ProjectLabel, error) {
	if s.lister == nil {
		return nil, fmt.Errorf("%w: %w", ErrFetchLabels, ErrListLabelsUnsupported)
	}

	labels, err := s.lister.ListLabels(ctx, projectID)
	if err != nil {
		logctx.From(ctx).Error("failed to list project labels", "project_id", projectID, "error", err)
		return nil, fmt.Errorf("%w: %w", ErrFetchLabels, err)
	}
	return labels, nil
}

func (s *service) FindByID(ctx context.Context, projectID, labelID int) (*Item, error) {
	return s.repo.FindByID(ctx, projectID, labelID)
}

func (s *service) Create(ctx context.Context, projectID int, req CreateRequest) (*Item, error) {
	item, err := NewItem(req.Text, req.PrefixKey, req.SuffixKey, req.BackgroundColor)
	if err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, projectID, item)
}

func (s *service) Update(ctx context.Context, projectID int, item Item) (*Item, error) {
	if item.BackgroundColor != "" {
		textColor, err := ContrastColor(item.BackgroundColor)
		if err != nil {
			return nil, err
		}
		item.TextColor = textColor
	}
	return s.repo.Update(ctx, projectID, item)
}

func (s *service) BulkDelete(ctx context.Context, projectID int, items []Item) error {
	ids := make([]int, len(items))
	for i, item := range items {
		ids[i] = item.ID
	}
	return s.repo.BulkDelete(ctx, projectID, ids)
}

// Export writes every label of the project as indented JSON.
func (s *service) Export(ctx context.Context, projectID int, w io.Writer) error {
	items, err := s.List(ctx, projectID)
	if err != nil {
		return err
	}

	out := make([]exported, len(items))
	for i, item := range items {
		out[i] = exported(item)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("failed to write label export: %w", err)
	}
	return nil
}

// Upload sends content as the "file" field of a multipart form.
func (s *service) Upload(ctx context.Context, projectID int, filename string, content io.Reader) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return fmt.Errorf("failed to read upload content: %w", err)
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("failed to finish multipart body: %w", err)
	}

	return s.repo.UploadFile(ctx, projectID, httpclient.RawBody{
		Reader:      &buf,
		ContentType: mw.FormDataContentType(),
	})
}
