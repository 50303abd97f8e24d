package editor

import (
	"errors"
	"io"
	"log/slog"
	"math"
	"strings"
	"testing"

	"github.com/drawkit/drawkit/internal/document"
	"github.com/drawkit/drawkit/internal/engine"
	"github.com/drawkit/drawkit/internal/geom"
)

const epsilon = 1e-9

func newTestSession(t *testing.T, doc *document.Shape, confirm func(string) bool) *Session {
	t.Helper()
	return New(doc, Options{
		Confirm: confirm,
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
}

func clickAt(s *Session, x, y float64) error {
	s.MoveCursorTo(geom.XY(x, y))
	return s.Primary()
}

func triangle(xy ...float64) *document.Polygon {
	var pts []geom.Cartesian
	for i := 0; i+1 < len(xy); i += 2 {
		pts = append(pts, geom.XY(xy[i], xy[i+1]))
	}
	return document.NewPolygon(pts, "Red", 1, false)
}

func snapshot(t *testing.T, doc *document.Shape) string {
	t.Helper()
	data, err := document.Marshal(doc)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func TestNewSelectsRoot(t *testing.T) {
	doc := document.NewSampleDocument()
	s := newTestSession(t, doc, nil)
	if s.Tool() != Select {
		t.Errorf("Tool = %v, want select", s.Tool())
	}
	if n := s.Selected(); n == nil || n.OriginalID() != doc.ID {
		t.Errorf("Selected = %v, want root", n)
	}
	if p := s.ParentShape(); p == nil || p.Original != doc.ID {
		t.Errorf("ParentShape = %v, want root", p)
	}
	if !strings.HasPrefix(s.ID, "sess_") {
		t.Errorf("ID = %q", s.ID)
	}
}

func TestNilDocumentStartsEmpty(t *testing.T) {
	s := newTestSession(t, nil, nil)
	doc := s.Document()
	if doc == nil || len(doc.Shapes) != 0 || len(doc.Polygons) != 0 {
		t.Errorf("Document = %+v, want empty root", doc)
	}
}

func TestCursorSnapsToGrid(t *testing.T) {
	s := newTestSession(t, nil, nil)
	s.MoveCursorTo(geom.XY(19.7, 20.2))
	if got := s.Cursor(); got != geom.XY(20, 20) {
		t.Errorf("Cursor = %v, want (20,20)", got)
	}
}

func TestCreateShapeScenario(t *testing.T) {
	s := newTestSession(t, nil, nil)
	root := s.Document()

	s.MoveCursorTo(geom.XY(20, 20))
	if err := s.Trigger(CreateShape); err != nil {
		t.Fatal(err)
	}
	if s.Tool() != CreateShape {
		t.Fatalf("Tool = %v, want createShape", s.Tool())
	}
	if err := s.Trigger(CreateShape); err != nil {
		t.Fatal(err)
	}

	if len(root.Shapes) != 1 {
		t.Fatalf("root has %d shapes, want 1", len(root.Shapes))
	}
	child := root.Shapes[0]
	if child.Origin != geom.XY(20, 20) || child.Rotation != 0 || child.Name != "new shape" {
		t.Errorf("child = %q at %v rot %g", child.Name, child.Origin, child.Rotation)
	}
	if s.Tool() != Select {
		t.Errorf("Tool = %v, want select", s.Tool())
	}
	if n := s.Selected(); n == nil || n.OriginalID() != child.ID {
		t.Errorf("Selected = %v, want new child", n)
	}
	if err := root.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestCreateShapeInRotatedParent(t *testing.T) {
	parent := document.NewShape("parent", geom.XY(10, 0), nil, nil)
	parent.Rotation = math.Pi / 2
	root := document.NewShape("root", geom.XY(0, 0), nil, []*document.Shape{parent})
	s := newTestSession(t, root, nil)

	if err := clickAt(s, 10, 0); err != nil {
		t.Fatal(err)
	}
	if s.ParentShape().Original != parent.ID {
		t.Fatalf("parent not selected")
	}
	s.MoveCursorTo(geom.XY(10, 5))
	_ = s.Trigger(CreateShape)
	if err := s.Trigger(CreateShape); err != nil {
		t.Fatal(err)
	}
	if len(parent.Shapes) != 1 {
		t.Fatalf("parent has %d shapes, want 1", len(parent.Shapes))
	}
	if got := parent.Shapes[0].Origin; !got.ApproxEqual(geom.XY(5, 0), epsilon) {
		t.Errorf("local origin = %v, want (5,0)", got)
	}
	es := s.Scene().Shape(parent.Shapes[0].ID)
	if !es.Origin.ApproxEqual(geom.XY(10, 5), epsilon) {
		t.Errorf("world origin = %v, want (10,5)", es.Origin)
	}
}

func TestDeleteRootRejected(t *testing.T) {
	doc := document.NewSampleDocument()
	s := newTestSession(t, doc, func(string) bool { return true })
	before := snapshot(t, doc)

	err := s.Delete(true)
	if !errors.Is(err, ErrNoParent) {
		t.Fatalf("Delete(root) = %v, want ErrNoParent", err)
	}
	if snapshot(t, doc) != before {
		t.Error("tree changed after rejected delete")
	}
	if s.Tool() != Select || !errors.Is(s.Err(), ErrNoParent) {
		t.Errorf("Tool = %v, Err = %v", s.Tool(), s.Err())
	}
	if st := s.State(); st.Error == "" {
		t.Error("State.Error empty after rejected delete")
	}
}

func TestDrawPolygonCommit(t *testing.T) {
	s := newTestSession(t, nil, nil)
	root := s.Document()

	if err := s.Trigger(DrawPolygon); err != nil {
		t.Fatal(err)
	}
	for _, p := range [][2]float64{{0, 0}, {10, 0}, {10, 10}} {
		if err := clickAt(s, p[0], p[1]); err != nil {
			t.Fatal(err)
		}
	}
	if len(root.Polygons) != 0 {
		t.Fatal("polygon added before commit")
	}
	if err := s.Trigger(DrawPolygon); err != nil {
		t.Fatal(err)
	}

	if len(root.Polygons) != 1 {
		t.Fatalf("root has %d polygons, want 1", len(root.Polygons))
	}
	p := root.Polygons[0]
	want := []geom.Cartesian{geom.XY(0, 0), geom.XY(10, 0), geom.XY(10, 10)}
	if len(p.Points) != len(want) {
		t.Fatalf("points = %v, want %v", p.Points, want)
	}
	for i := range want {
		if p.Points[i] != want[i] {
			t.Errorf("point[%d] = %v, want %v", i, p.Points[i], want[i])
		}
	}
	if p.LineOnly || p.Layer != 0 || p.Color != "Grey" {
		t.Errorf("polygon = lineOnly %v layer %d color %q", p.LineOnly, p.Layer, p.Color)
	}
	if n := s.Selected(); n == nil || n.OriginalID() != p.ID {
		t.Errorf("Selected = %v, want new polygon", n)
	}
}

func TestRejectedHelpersKeepGesture(t *testing.T) {
	s := newTestSession(t, nil, nil)
	root := s.Document()

	if err := s.Trigger(DrawPolygon); err != nil {
		t.Fatal(err)
	}
	for _, p := range [][2]float64{{0, 0}, {10, 0}, {10, 10}} {
		if err := clickAt(s, p[0], p[1]); err != nil {
			t.Fatal(err)
		}
	}

	s.KeyChange("]", true)
	s.KeyChange("]", false)
	if !errors.Is(s.Err(), ErrInvalidSelectionKind) {
		t.Errorf("Err after ] = %v, want ErrInvalidSelectionKind", s.Err())
	}
	if err := s.Rename("x"); !errors.Is(err, ErrToolActive) {
		t.Errorf("Rename during gesture = %v, want ErrToolActive", err)
	}
	_ = s.CycleSelection(1)
	_ = s.FocusSelection()
	if s.Tool() != DrawPolygon {
		t.Fatalf("Tool = %v, want drawPolygon", s.Tool())
	}

	if err := s.Trigger(DrawPolygon); err != nil {
		t.Fatal(err)
	}
	if len(root.Polygons) != 1 {
		t.Fatalf("root has %d polygons, want 1", len(root.Polygons))
	}
	if got := len(root.Polygons[0].Points); got != 3 {
		t.Errorf("polygon has %d points, want 3", got)
	}
	if root.Name != "root" {
		t.Errorf("root renamed to %q during gesture", root.Name)
	}
}

func TestDrawPolygonInTranslatedParent(t *testing.T) {
	child := document.NewShape("child", geom.XY(100, 50), nil, nil)
	root := document.NewShape("root", geom.XY(0, 0), nil, []*document.Shape{child})
	s := newTestSession(t, root, nil)
	_ = clickAt(s, 100, 50)

	_ = s.Trigger(DrawLine)
	_ = clickAt(s, 100, 50)
	_ = clickAt(s, 110, 60)
	if err := s.Trigger(DrawLine); err != nil {
		t.Fatal(err)
	}
	if len(child.Polygons) != 1 {
		t.Fatalf("child has %d polygons, want 1", len(child.Polygons))
	}
	p := child.Polygons[0]
	if !p.LineOnly || p.Points[0] != geom.XY(0, 0) || p.Points[1] != geom.XY(10, 10) {
		t.Errorf("line = %+v", p)
	}
}

func TestDrawCancelledWithTooFewPoints(t *testing.T) {
	tests := []struct {
		tool   Tool
		clicks int
	}{
		{DrawPolygon, 0},
		{DrawPolygon, 2},
		{DrawLine, 1},
	}
	for _, tt := range tests {
		t.Run(tt.tool.String(), func(t *testing.T) {
			s := newTestSession(t, nil, nil)
			_ = s.Trigger(tt.tool)
			for i := 0; i < tt.clicks; i++ {
				_ = clickAt(s, float64(i*10+5), 3)
			}
			if err := s.Trigger(tt.tool); err != nil {
				t.Fatalf("cancel = %v, want nil", err)
			}
			if len(s.Document().Polygons) != 0 || s.Tool() != Select {
				t.Errorf("polygons = %d, tool = %v", len(s.Document().Polygons), s.Tool())
			}
		})
	}
}

func TestOtherToolWhileActive(t *testing.T) {
	s := newTestSession(t, nil, nil)
	_ = s.Trigger(DrawPolygon)
	_ = clickAt(s, 1, 1)

	if err := s.Trigger(CreateShape); !errors.Is(err, ErrToolActive) {
		t.Fatalf("Trigger = %v, want ErrToolActive", err)
	}
	if s.Tool() != Select {
		t.Errorf("Tool = %v, want select", s.Tool())
	}
	if err := s.Delete(true); err != nil && !errors.Is(err, ErrNoParent) {
		t.Errorf("Delete after failed trigger = %v", err)
	}
	if len(s.Document().Shapes) != 0 || len(s.Document().Polygons) != 0 {
		t.Error("tree changed")
	}
}

func TestResetDiscardsGesture(t *testing.T) {
	poly := triangle(5, 5, 15, 5, 15, 15)
	root := document.NewShape("root", geom.XY(0, 0), []*document.Polygon{poly}, nil)
	s := newTestSession(t, root, nil)
	_ = clickAt(s, 15, 5)
	if s.Selected().OriginalID() != poly.ID {
		t.Fatal("polygon not picked")
	}

	_ = s.Trigger(DrawPolygon)
	_ = clickAt(s, 1, 1)
	s.Reset()
	if s.Tool() != Select || s.Selected().OriginalID() != root.ID {
		t.Errorf("after Reset tool = %v selected = %v", s.Tool(), s.Selected())
	}
	_ = s.Trigger(DrawPolygon)
	_ = s.Trigger(DrawPolygon)
	if len(root.Polygons) != 1 {
		t.Error("reset gesture points leaked into a new polygon")
	}
}

func TestPickVertexOfSelectedPolygon(t *testing.T) {
	poly := triangle(5, 5, 15, 5, 15, 15)
	root := document.NewShape("root", geom.XY(0, 0), []*document.Polygon{poly}, nil)
	s := newTestSession(t, root, nil)

	_ = clickAt(s, 15, 5)
	if s.Selected().OriginalID() != poly.ID || s.SelectedPoint() != 0 {
		t.Fatalf("first pick = %v point %d", s.Selected(), s.SelectedPoint())
	}
	_ = clickAt(s, 15, 5)
	if s.SelectedPoint() != 2 {
		t.Errorf("SelectedPoint = %d, want 2", s.SelectedPoint())
	}
	// Clicking nothing keeps the selection.
	_ = clickAt(s, 40, 40)
	if s.Selected().OriginalID() != poly.ID || s.SelectedPoint() != 2 {
		t.Error("empty pick changed the selection")
	}
}

func TestCycleSelection(t *testing.T) {
	a := triangle(10, 10, 20, 10, 20, 20)
	b := triangle(10, 10, 0, 10, 0, 0)
	child := document.NewShape("child", geom.XY(10, 10), nil, nil)
	root := document.NewShape("root", geom.XY(0, 0), []*document.Polygon{a, b}, []*document.Shape{child})
	s := newTestSession(t, root, nil)

	_ = clickAt(s, 10, 10)
	want := []string{a.ID, b.ID, child.ID, a.ID}
	for i, id := range want {
		if got := s.Selected().OriginalID(); got != id {
			t.Errorf("step %d selected %s, want %s", i, got, id)
		}
		if err := s.CycleSelection(1); err != nil {
			t.Fatal(err)
		}
	}
	_ = s.CycleSelection(-2)
	if s.Selected().OriginalID() != child.ID {
		t.Errorf("backwards cycle selected %s", s.Selected().OriginalID())
	}
	if s.ParentShape().Original != child.ID {
		t.Errorf("ParentShape = %s, want the selected shape", s.ParentShape().Original)
	}
	_ = s.CycleSelection(-1)
	if s.ParentShape().Original != root.ID {
		t.Errorf("ParentShape of polygon = %s, want owner", s.ParentShape().Original)
	}
}

func TestSelectPoint(t *testing.T) {
	poly := triangle(5, 5, 15, 5, 15, 15)
	root := document.NewShape("root", geom.XY(0, 0), []*document.Polygon{poly}, nil)
	s := newTestSession(t, root, nil)

	if err := s.SelectPoint(1); !errors.Is(err, ErrInvalidSelectionKind) {
		t.Errorf("SelectPoint on shape = %v", err)
	}
	_ = clickAt(s, 5, 5)
	for _, want := range []int{1, 2, 3, 0, 1} {
		_ = s.SelectPoint(1)
		if s.SelectedPoint() != want {
			t.Errorf("SelectedPoint = %d, want %d", s.SelectedPoint(), want)
		}
	}
	_ = s.SelectPoint(-2)
	if s.SelectedPoint() != 3 {
		t.Errorf("SelectedPoint after -2 = %d, want 3", s.SelectedPoint())
	}
}

func TestCreatePoint(t *testing.T) {
	poly := triangle(5, 5, 15, 5, 15, 15)
	root := document.NewShape("root", geom.XY(0, 0), []*document.Polygon{poly}, nil)
	s := newTestSession(t, root, nil)

	if err := s.Trigger(CreatePoint); !errors.Is(err, ErrInvalidSelectionKind) {
		t.Fatalf("CreatePoint on shape = %v, want ErrInvalidSelectionKind", err)
	}

	_ = clickAt(s, 15, 15)
	s.MoveCursorTo(geom.XY(5, 15))
	_ = s.Trigger(CreatePoint)
	if err := s.Trigger(CreatePoint); err != nil {
		t.Fatal(err)
	}
	if len(poly.Points) != 4 || poly.Points[3] != geom.XY(5, 15) {
		t.Fatalf("append: points = %v", poly.Points)
	}

	// Select vertex 2 (15,5) and insert before it.
	_ = clickAt(s, 15, 5)
	s.MoveCursorTo(geom.XY(10, 0))
	_ = s.Trigger(CreatePoint)
	if err := s.Trigger(CreatePoint); err != nil {
		t.Fatal(err)
	}
	want := []geom.Cartesian{geom.XY(5, 5), geom.XY(10, 0), geom.XY(15, 5), geom.XY(15, 15), geom.XY(5, 15)}
	for i := range want {
		if poly.Points[i] != want[i] {
			t.Errorf("point[%d] = %v, want %v", i, poly.Points[i], want[i])
		}
	}
	if s.SelectedPoint() != 3 {
		t.Errorf("SelectedPoint = %d, want 3 (still (15,5))", s.SelectedPoint())
	}
}

func TestMoveShapeInRotatedParent(t *testing.T) {
	child := document.NewShape("child", geom.XY(10, 0), nil, nil)
	mid := document.NewShape("mid", geom.XY(0, 0), nil, []*document.Shape{child})
	mid.Rotation = math.Pi / 2
	root := document.NewShape("root", geom.XY(0, 0), nil, []*document.Shape{mid})
	s := newTestSession(t, root, nil)

	_ = clickAt(s, 0, 10)
	if s.Selected().OriginalID() != child.ID {
		t.Fatalf("Selected = %v, want child", s.Selected())
	}
	_ = s.Trigger(Move)
	s.MoveCursorTo(geom.XY(0, 20))
	if err := s.Trigger(Move); err != nil {
		t.Fatal(err)
	}
	if !child.Origin.ApproxEqual(geom.XY(20, 0), 1e-9) {
		t.Errorf("local origin = %v, want (20,0)", child.Origin)
	}
	if got := s.Scene().Shape(child.ID).Origin; !got.ApproxEqual(geom.XY(0, 20), 1e-9) {
		t.Errorf("world origin = %v, want (0,20)", got)
	}
}

func TestMovePolygonAndPoint(t *testing.T) {
	poly := triangle(5, 5, 15, 5, 15, 15)
	root := document.NewShape("root", geom.XY(0, 0), []*document.Polygon{poly}, nil)
	s := newTestSession(t, root, nil)

	_ = clickAt(s, 15, 15)
	_ = s.Trigger(Move)
	s.MoveCursorTo(geom.XY(17, 12))
	if err := s.Trigger(Move); err != nil {
		t.Fatal(err)
	}
	want := []geom.Cartesian{geom.XY(7, 2), geom.XY(17, 2), geom.XY(17, 12)}
	for i := range want {
		if poly.Points[i] != want[i] {
			t.Errorf("point[%d] = %v, want %v", i, poly.Points[i], want[i])
		}
	}

	_ = clickAt(s, 7, 2)
	_ = s.Trigger(Move)
	s.MoveCursorTo(geom.XY(0, 0))
	_ = s.Trigger(Move)
	if poly.Points[0] != geom.XY(0, 0) || poly.Points[1] != geom.XY(17, 2) {
		t.Errorf("point move = %v", poly.Points)
	}
}

func TestMoveRoot(t *testing.T) {
	s := newTestSession(t, nil, nil)
	s.MoveCursorTo(geom.XY(1, 1))
	_ = s.Trigger(Move)
	s.MoveCursorTo(geom.XY(4, -3))
	_ = s.Trigger(Move)
	if s.Document().Origin != geom.XY(3, -4) {
		t.Errorf("root origin = %v, want (3,-4)", s.Document().Origin)
	}
}

func TestDeleteNeedsConfirmation(t *testing.T) {
	poly := triangle(5, 5, 15, 5, 15, 15)
	root := document.NewShape("root", geom.XY(0, 0), []*document.Polygon{poly}, nil)

	var prompts []string
	answer := false
	s := newTestSession(t, root, func(p string) bool {
		prompts = append(prompts, p)
		return answer
	})
	_ = clickAt(s, 15, 15)

	if err := s.Delete(false); !errors.Is(err, ErrNotConfirmed) {
		t.Fatalf("declined Delete = %v", err)
	}
	if len(root.Polygons) != 1 || len(prompts) != 1 {
		t.Fatalf("polygons = %d, prompts = %v", len(root.Polygons), prompts)
	}
	answer = true
	if err := s.Delete(false); err != nil {
		t.Fatal(err)
	}
	if len(root.Polygons) != 0 {
		t.Error("polygon not deleted")
	}
	if s.Selected().OriginalID() != root.ID {
		t.Errorf("Selected = %v, want owner", s.Selected())
	}
}

func TestDeleteWithoutConfirmFunc(t *testing.T) {
	child := document.NewShape("child", geom.XY(5, 5), nil, nil)
	root := document.NewShape("root", geom.XY(0, 0), nil, []*document.Shape{child})
	s := newTestSession(t, root, nil)
	_ = clickAt(s, 5, 5)

	if err := s.Delete(false); !errors.Is(err, ErrNotConfirmed) {
		t.Errorf("Delete without Confirm = %v", err)
	}
	if err := s.Delete(true); err != nil {
		t.Fatal(err)
	}
	if len(root.Shapes) != 0 || !child.IsRoot() {
		t.Error("child not detached")
	}
	if err := root.Validate(); err != nil {
		t.Error(err)
	}
}

func TestDeletePoint(t *testing.T) {
	poly := document.NewPolygon([]geom.Cartesian{geom.XY(5, 5), geom.XY(9, 9)}, "Red", 0, true)
	root := document.NewShape("root", geom.XY(0, 0), []*document.Polygon{poly}, nil)
	s := newTestSession(t, root, nil)

	_ = clickAt(s, 9, 9)
	_ = clickAt(s, 9, 9)
	if err := s.Delete(true); err != nil {
		t.Fatal(err)
	}
	if len(poly.Points) != 1 || poly.Points[0] != geom.XY(5, 5) {
		t.Fatalf("points = %v", poly.Points)
	}
	if s.Selected().OriginalID() != poly.ID || s.SelectedPoint() != 0 {
		t.Errorf("after point delete selected %v point %d", s.Selected(), s.SelectedPoint())
	}

	_ = s.SelectPoint(1)
	if err := s.Delete(true); !errors.Is(err, ErrDegeneratePolygon) {
		t.Errorf("deleting last point = %v, want ErrDegeneratePolygon", err)
	}
	if len(poly.Points) != 1 {
		t.Error("last point removed")
	}
}

func TestDeleteViaKeys(t *testing.T) {
	child := document.NewShape("child", geom.XY(5, 5), nil, nil)
	root := document.NewShape("root", geom.XY(0, 0), nil, []*document.Shape{child})
	s := newTestSession(t, root, nil)
	_ = clickAt(s, 5, 5)

	s.KeyChange("Delete", true)
	s.KeyChange("Delete", false)
	if len(root.Shapes) != 1 {
		t.Fatal("unconfirmed key delete removed the shape")
	}
	s.KeyChange("Shift", true)
	s.KeyChange("Backspace", true)
	s.KeyChange("Backspace", false)
	s.KeyChange("Shift", false)
	if len(root.Shapes) != 0 {
		t.Error("shift+backspace did not delete")
	}
}

func TestOutline(t *testing.T) {
	poly := triangle(5, 5, 15, 5, 15, 15)
	child := document.NewShape("child", geom.XY(100, 0), []*document.Polygon{poly}, nil)
	root := document.NewShape("root", geom.XY(0, 0), nil, []*document.Shape{child})
	s := newTestSession(t, root, nil)

	if err := s.Outline(); !errors.Is(err, ErrInvalidSelectionKind) {
		t.Errorf("Outline on shape = %v", err)
	}
	_ = clickAt(s, 115, 15)
	if err := s.Trigger(Outline); err != nil {
		t.Fatal(err)
	}
	if s.Tool() != Select {
		t.Errorf("Tool = %v, Outline must be momentary", s.Tool())
	}
	if len(child.Polygons) != 2 {
		t.Fatalf("child has %d polygons, want 2", len(child.Polygons))
	}
	dup := child.Polygons[1]
	if !dup.LineOnly || dup.Layer != poly.Layer+1 || dup.Color != poly.Color {
		t.Errorf("outline = %+v", dup)
	}
	if len(dup.Points) != 4 || dup.Points[3] != dup.Points[0] {
		t.Errorf("outline points = %v, want closed copy", dup.Points)
	}
	if s.Selected().OriginalID() != dup.ID {
		t.Error("outline not selected")
	}
	if err := s.Outline(); !errors.Is(err, ErrInvalidSelectionKind) {
		t.Errorf("Outline on line = %v", err)
	}
}

func TestOutlineAtTopLayer(t *testing.T) {
	poly := triangle(5, 5, 15, 5, 15, 15)
	poly.Layer = math.MaxInt
	root := document.NewShape("root", geom.XY(0, 0), []*document.Polygon{poly}, nil)
	s := newTestSession(t, root, nil)

	_ = clickAt(s, 15, 15)
	if err := s.Trigger(Outline); err != nil {
		t.Fatal(err)
	}
	if dup := root.Polygons[1]; dup.Layer != math.MaxInt {
		t.Errorf("outline layer = %d, want %d", dup.Layer, math.MaxInt)
	}
	order := engine.DrawOrder(s.Scene().Root)
	if order[len(order)-1].Original != root.Polygons[1].ID {
		t.Error("outline does not draw on top")
	}
}

func TestInspectorEdits(t *testing.T) {
	poly := triangle(5, 5, 15, 5, 15, 15)
	root := document.NewShape("root", geom.XY(0, 0), []*document.Polygon{poly}, nil)
	s := newTestSession(t, root, nil)

	if err := s.Rename("hull"); err != nil || root.Name != "hull" {
		t.Errorf("Rename = %v, name %q", err, root.Name)
	}
	if err := s.SetColor("Blue"); !errors.Is(err, ErrInvalidSelectionKind) {
		t.Errorf("SetColor on shape = %v", err)
	}
	if err := s.SetRotation(math.Pi); err != nil {
		t.Fatal(err)
	}
	if got := s.Scene().Polygon(poly.ID).Points[0]; !got.ApproxEqual(geom.XY(-5, -5), epsilon) {
		t.Errorf("rotated point = %v, want (-5,-5)", got)
	}
	_ = s.SetRotation(0)

	_ = clickAt(s, 15, 15)
	if err := s.Rename("x"); !errors.Is(err, ErrInvalidSelectionKind) {
		t.Errorf("Rename on polygon = %v", err)
	}
	_ = s.SetColor("Blue")
	_ = s.SetLayer(-3)
	_ = s.SetLineOnly(true)
	if poly.Color != "Blue" || poly.Layer != -3 || !poly.LineOnly {
		t.Errorf("polygon = %+v", poly)
	}
	if s.Scene().Polygon(poly.ID).Layer != -3 {
		t.Error("scene not refreshed after edit")
	}
}

func TestImportExport(t *testing.T) {
	s := newTestSession(t, document.NewSampleDocument(), nil)
	_ = clickAt(s, 30, 5)

	data, err := s.Export()
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Import(data); err != nil {
		t.Fatal(err)
	}
	if s.Selected().OriginalID() != s.Document().ID {
		t.Error("import did not reset the selection to the new root")
	}
	again, _ := s.Export()
	if string(again) != string(data) {
		t.Error("export after import differs")
	}

	before := s.Document()
	if err := s.Import([]byte(`{"name": "x", "origin": {"x": 1}}`)); !errors.Is(err, document.ErrMalformedImport) {
		t.Errorf("malformed Import = %v", err)
	}
	if s.Document() != before {
		t.Error("failed import replaced the drawing")
	}

	src, err := s.ExportSource()
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(src, "var Drawing = document.NewShape(\"hull\"") {
		t.Errorf("source starts %q", src[:min(len(src), 60)])
	}
}

func TestStaleSelectionFallsBackToRoot(t *testing.T) {
	child := document.NewShape("child", geom.XY(5, 5), []*document.Polygon{triangle(6, 6, 7, 7, 8, 6)}, nil)
	root := document.NewShape("root", geom.XY(0, 0), nil, []*document.Shape{child})
	s := newTestSession(t, root, nil)
	_ = clickAt(s, 12, 12)
	if _, ok := s.Selected().(*engine.EvaluatedPolygon); !ok {
		t.Fatal("polygon not picked")
	}

	// The polygon disappears when its shape is removed behind the session.
	root.RemoveShape(child.ID)
	s.refresh()
	if s.Selected().OriginalID() != root.ID || s.ParentShape().Original != root.ID {
		t.Errorf("stale selection resolved to %v", s.Selected())
	}
}

func TestTreeStaysValidAcrossEdits(t *testing.T) {
	s := newTestSession(t, nil, nil)
	root := s.Document()

	for _, p := range []geom.Cartesian{geom.XY(10, 10), geom.XY(20, 20), geom.XY(30, 30)} {
		s.Reset()
		s.MoveCursorTo(p)
		_ = s.Trigger(CreateShape)
		_ = s.Trigger(CreateShape)
		// Nest the next shape inside the one just created.
		s.MoveCursorTo(p.Transform(geom.XY(1, 1)))
		_ = s.Trigger(CreateShape)
		_ = s.Trigger(CreateShape)
	}
	_ = clickAt(s, 20, 20)
	if err := s.Delete(true); err != nil {
		t.Fatal(err)
	}
	if err := root.Validate(); err != nil {
		t.Fatal(err)
	}
	if len(root.Shapes) != 2 {
		t.Errorf("root has %d shapes, want 2", len(root.Shapes))
	}
	count := 0
	root.Walk(func(n document.Node, parent *document.Shape) bool {
		if sh, ok := n.(*document.Shape); ok && sh != root {
			count++
			if parent == nil || sh.IsRoot() {
				t.Errorf("shape %s orphaned", sh.ID)
			}
		}
		return true
	})
	if count != 4 {
		t.Errorf("reachable shapes = %d, want 4", count)
	}
}

func TestKeyBindingsDriveTools(t *testing.T) {
	s := newTestSession(t, nil, nil)
	press := func(key string) {
		s.KeyChange(key, true)
		s.KeyChange(key, false)
	}

	press("f")
	for _, p := range []geom.Cartesian{geom.XY(0, 0), geom.XY(10, 0), geom.XY(10, 10)} {
		s.MoveCursorTo(p)
		s.MouseButton(true)
		s.MouseButton(false)
	}
	press("f")
	if len(s.Document().Polygons) != 1 {
		t.Fatalf("polygons = %d, want 1", len(s.Document().Polygons))
	}

	press("o")
	if len(s.Document().Polygons) != 2 {
		t.Errorf("outline via key failed")
	}
	press("r")
	if s.Selected().OriginalID() != s.Document().ID {
		t.Error("reset via key failed")
	}

	h := s.Camera().Height
	press("=")
	press("-")
	press("-")
	if !approx(s.Camera().Height, h*1.25) {
		t.Errorf("zoom keys: height = %g, want %g", s.Camera().Height, h*1.25)
	}
}

func TestTickPansWhilePlaying(t *testing.T) {
	s := newTestSession(t, nil, nil)
	s.KeyChange("ArrowRight", true)
	s.Tick(1)
	if s.Camera().Position != geom.XY(0, 0) {
		t.Error("camera moved while stopped")
	}
	s.KeyChange("Escape", true)
	s.KeyChange("Escape", false)
	if !s.Playing() {
		t.Fatal("escape did not start frames")
	}
	s.Tick(0.5)
	want := 0.7 * s.Camera().Radius()[0] * 0.5
	if !approx(s.Camera().Position.X, want) || s.Camera().Position.Y != 0 {
		t.Errorf("Position = %v, want x %g", s.Camera().Position, want)
	}
}

func TestFocusSelection(t *testing.T) {
	child := document.NewShape("child", geom.XY(40, -30), nil, nil)
	root := document.NewShape("root", geom.XY(0, 0), nil, []*document.Shape{child})
	s := newTestSession(t, root, nil)
	_ = clickAt(s, 40, -30)
	if err := s.FocusSelection(); err != nil {
		t.Fatal(err)
	}
	s.SetPlaying(true)
	for i := 0; i < 10; i++ {
		s.Tick(0.1)
	}
	if !s.Camera().Position.ApproxEqual(geom.XY(40, -30), 1e-3) {
		t.Errorf("camera at %v, want (40,-30)", s.Camera().Position)
	}
}

func TestFitDrawing(t *testing.T) {
	s := newTestSession(t, document.NewSampleDocument(), nil)
	s.KeyChange("home", true)

	bounds := s.Scene().Bounds()
	if got := s.Camera().Position; !got.ApproxEqual(bounds.Center(), epsilon) {
		t.Errorf("camera at %v, want %v", got, bounds.Center())
	}
	w, h := s.Camera().Canvas()
	for _, p := range s.Scene().DrawOrder() {
		for _, pt := range p.Points {
			c := s.Camera().RealToCanvas(pt, 0)
			if c.X < 0 || c.Y < 0 || c.X > w || c.Y > h {
				t.Fatalf("point %v projects to %v outside the %gx%g canvas", pt, c, w, h)
			}
		}
	}
}

func TestFrame(t *testing.T) {
	s := newTestSession(t, document.NewSampleDocument(), nil)
	s.MouseMove(100, 120)
	cmds := s.Frame()

	if cmds[0].Op != engine.OpClear {
		t.Errorf("first op = %s, want clear", cmds[0].Op)
	}
	for i := 1; i <= 4; i++ {
		if cmds[i].Op != engine.OpLine || cmds[i].StrokeWidth != 2 {
			t.Errorf("border[%d] = %+v", i, cmds[i])
		}
	}
	polygons := 0
	for _, c := range cmds {
		if c.Op == engine.OpPolygon {
			polygons++
		}
	}
	if polygons != 12 {
		t.Errorf("filled polygons = %d, want 12", polygons)
	}
	last := cmds[len(cmds)-1]
	if last.Op != engine.OpArc || last.Radius != 4 || last.Stroke != "white" || last.Points[0] != [2]float64{100, 120} {
		t.Errorf("cursor = %+v", last)
	}
}

func TestFramePreview(t *testing.T) {
	s := newTestSession(t, nil, nil)
	_ = s.Trigger(DrawPolygon)
	_ = clickAt(s, 0, 0)
	_ = clickAt(s, 10, 0)
	s.MoveCursorTo(geom.XY(10, 10))

	cmds := s.Frame()
	var preview *engine.DrawCommand
	for i := range cmds {
		if cmds[i].Op == engine.OpPolyline && cmds[i].Stroke == previewColor {
			preview = &cmds[i]
		}
	}
	if preview == nil || len(preview.Points) != 3 {
		t.Fatalf("preview = %+v", preview)
	}
}

func TestToolString(t *testing.T) {
	if DrawPolygon.String() != "drawPolygon" || Tool(99).String() != "unknown" {
		t.Error("Tool.String mismatch")
	}
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}
