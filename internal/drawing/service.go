package drawing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/drawkit/drawkit/internal/document"
	"github.com/drawkit/drawkit/internal/typeid"
)

var ErrInvalidName = errors.New("name is required")

// SourceVar names the variable in exported Go source.
const SourceVar = "Drawing"

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// Create stores a new drawing holding an empty root shape, or the sample
// model when sample is set.
func (s *Service) Create(ctx context.Context, name string, sample bool) (*Record, error) {
	if name == "" {
		return nil, ErrInvalidName
	}
	doc := document.NewEmptyDocument(name)
	if sample {
		doc = document.NewSampleDocument()
		doc.Name = name
	}
	data, err := document.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal new drawing: %w", err)
	}

	r := &Record{ID: typeid.NewDrawingID(), Name: name, Document: data}
	if err := s.store.Create(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Record, error) {
	if err := typeid.Validate(id, typeid.PrefixDrawing); err != nil {
		return nil, ErrNotFound
	}
	return s.store.Get(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]Record, error) {
	records, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	if records == nil {
		records = []Record{}
	}
	return records, nil
}

// Update replaces a drawing's document. The data must decode as a drawing;
// otherwise the error wraps document.ErrMalformedImport and nothing is stored.
func (s *Service) Update(ctx context.Context, id string, data []byte) (*Record, error) {
	doc, err := document.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return s.Save(ctx, id, doc)
}

// Load decodes a stored drawing.
func (s *Service) Load(ctx context.Context, id string) (*document.Shape, error) {
	r, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	doc, err := document.Unmarshal(r.Document)
	if err != nil {
		return nil, fmt.Errorf("stored drawing %s: %w", id, err)
	}
	return doc, nil
}

// Save stores doc as the drawing's document.
func (s *Service) Save(ctx context.Context, id string, doc *document.Shape) (*Record, error) {
	if err := typeid.Validate(id, typeid.PrefixDrawing); err != nil {
		return nil, ErrNotFound
	}
	if err := doc.Validate(); err != nil {
		return nil, fmt.Errorf("save drawing %s: %w", id, err)
	}
	data, err := document.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal drawing: %w", err)
	}
	return s.store.Update(ctx, id, json.RawMessage(data))
}

// Source returns Go source that rebuilds the drawing.
func (s *Service) Source(ctx context.Context, id string) (string, error) {
	doc, err := s.Load(ctx, id)
	if err != nil {
		return "", err
	}
	return document.GoSource(SourceVar, doc)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if err := typeid.Validate(id, typeid.PrefixDrawing); err != nil {
		return ErrNotFound
	}
	return s.store.Delete(ctx, id)
}
