package editor

import (
	"fmt"

	"github.com/drawkit/drawkit/internal/document"
	"github.com/drawkit/drawkit/internal/engine"
)

// SourceVar is the variable name ExportSource declares.
const SourceVar = "Drawing"

// Rename sets the name of the selected shape.
func (s *Session) Rename(name string) error {
	return s.note("rename", s.editShape(func(sh *document.Shape) { sh.Name = name }))
}

// SetRotation sets the rotation of the selected shape relative to its parent.
func (s *Session) SetRotation(radians float64) error {
	return s.note("set rotation", s.editShape(func(sh *document.Shape) { sh.Rotation = radians }))
}

// SetColor sets the color of the selected polygon.
func (s *Session) SetColor(color string) error {
	return s.note("set color", s.editPolygon(func(p *document.Polygon) { p.Color = color }))
}

// SetLayer sets the draw layer of the selected polygon.
func (s *Session) SetLayer(layer int) error {
	return s.note("set layer", s.editPolygon(func(p *document.Polygon) { p.Layer = layer }))
}

// SetLineOnly switches the selected polygon between filled and stroked.
func (s *Session) SetLineOnly(lineOnly bool) error {
	return s.note("set line only", s.editPolygon(func(p *document.Polygon) { p.LineOnly = lineOnly }))
}

func (s *Session) editShape(fn func(*document.Shape)) error {
	if s.tool != Select {
		return fmt.Errorf("edit while %s is active: %w", s.tool, ErrToolActive)
	}
	es, ok := s.Selected().(*engine.EvaluatedShape)
	if !ok {
		return fmt.Errorf("edit shape: %w", ErrInvalidSelectionKind)
	}
	shape := s.doc.FindShape(es.Original)
	if shape == nil {
		return fmt.Errorf("edit shape: %w", engine.ErrUnevaluatedNode)
	}
	fn(shape)
	s.refresh()
	return nil
}

func (s *Session) editPolygon(fn func(*document.Polygon)) error {
	if s.tool != Select {
		return fmt.Errorf("edit while %s is active: %w", s.tool, ErrToolActive)
	}
	ep, ok := s.Selected().(*engine.EvaluatedPolygon)
	if !ok {
		return fmt.Errorf("edit polygon: %w", ErrInvalidSelectionKind)
	}
	poly, _ := s.doc.FindPolygon(ep.Original)
	if poly == nil {
		return fmt.Errorf("edit polygon: %w", engine.ErrUnevaluatedNode)
	}
	fn(poly)
	s.refresh()
	return nil
}

// Import replaces the drawing with a persisted one and resets the session.
// On error the current drawing is kept.
func (s *Session) Import(data []byte) error {
	doc, err := document.Unmarshal(data)
	if err != nil {
		return s.note("import", fmt.Errorf("import: %w", err))
	}
	s.Load(doc)
	return nil
}

// Load replaces the drawing with doc and resets the session.
func (s *Session) Load(doc *document.Shape) {
	s.doc = doc
	s.Reset()
	s.log.Info("drawing loaded", "name", doc.Name)
}

// Export returns the drawing in its persisted JSON layout.
func (s *Session) Export() ([]byte, error) {
	data, err := document.MarshalIndent(s.doc)
	if err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}
	return data, nil
}

// ExportSource returns Go source that rebuilds the drawing.
func (s *Session) ExportSource() (string, error) {
	src, err := document.GoSource(SourceVar, s.doc)
	if err != nil {
		return "", fmt.Errorf("export source: %w", err)
	}
	return src, nil
}
