package surface

import (
	"image"
	"image/color"
	"math"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/drawkit/drawkit/internal/geom"
)

// arcSegments is the number of segments a full circle is split into when
// stroking partial arcs.
const arcSegments = 48

var (
	whiteOnce     sync.Once
	whiteSubImage *ebiten.Image
)

// white returns the one-pixel white source image for DrawTriangles.
func white() *ebiten.Image {
	whiteOnce.Do(func() {
		img := ebiten.NewImage(3, 3)
		img.Fill(color.White)
		whiteSubImage = img.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
	})
	return whiteSubImage
}

// Ebiten is an engine.Surface drawing onto an Ebitengine image.
type Ebiten struct {
	dst        *ebiten.Image
	background color.RGBA
	colors     map[string]color.RGBA

	vertices []ebiten.Vertex
	indices  []uint16
}

// NewEbiten creates a surface that clears to the given background color.
func NewEbiten(background string) *Ebiten {
	bg, _ := ParseColor(background)
	return &Ebiten{background: bg, colors: make(map[string]color.RGBA)}
}

// Target sets the image subsequent calls draw on.
func (e *Ebiten) Target(dst *ebiten.Image) {
	e.dst = dst
}

func (e *Ebiten) Clear() {
	e.dst.Fill(e.background)
}

func (e *Ebiten) Line(a, b geom.Cartesian, stroke string, width float64) {
	vector.StrokeLine(e.dst, float32(a.X), float32(a.Y), float32(b.X), float32(b.Y), float32(width), e.color(stroke), true)
}

func (e *Ebiten) Polyline(points []geom.Cartesian, stroke string, width float64) {
	c := e.color(stroke)
	for i := 1; i < len(points); i++ {
		a, b := points[i-1], points[i]
		vector.StrokeLine(e.dst, float32(a.X), float32(a.Y), float32(b.X), float32(b.Y), float32(width), c, true)
	}
}

func (e *Ebiten) Polygon(points []geom.Cartesian, fill string) {
	if len(points) < 3 {
		e.Polyline(points, fill, 1)
		return
	}
	var path vector.Path
	path.MoveTo(float32(points[0].X), float32(points[0].Y))
	for _, p := range points[1:] {
		path.LineTo(float32(p.X), float32(p.Y))
	}
	path.Close()

	e.vertices, e.indices = path.AppendVerticesAndIndicesForFilling(e.vertices[:0], e.indices[:0])
	c := e.color(fill)
	r, g, b, a := float32(c.R)/0xff, float32(c.G)/0xff, float32(c.B)/0xff, float32(c.A)/0xff
	for i := range e.vertices {
		e.vertices[i].SrcX = 1
		e.vertices[i].SrcY = 1
		e.vertices[i].ColorR = r
		e.vertices[i].ColorG = g
		e.vertices[i].ColorB = b
		e.vertices[i].ColorA = a
	}
	op := &ebiten.DrawTrianglesOptions{AntiAlias: true, FillRule: ebiten.FillRuleNonZero}
	e.dst.DrawTriangles(e.vertices, e.indices, white(), op)
}

func (e *Ebiten) Arc(center geom.Cartesian, radius, startAngle, endAngle float64, stroke string, width float64) {
	c := e.color(stroke)
	sweep := endAngle - startAngle
	if math.Abs(sweep) >= 2*math.Pi {
		vector.StrokeCircle(e.dst, float32(center.X), float32(center.Y), float32(radius), float32(width), c, true)
		return
	}
	n := max(1, int(math.Ceil(math.Abs(sweep)/(2*math.Pi)*arcSegments)))
	points := make([]geom.Cartesian, n+1)
	for i := range points {
		angle := startAngle + sweep*float64(i)/float64(n)
		points[i] = center.Transform(geom.FromPolar(geom.AngleRadius(angle, radius)))
	}
	e.Polyline(points, stroke, width)
}

func (e *Ebiten) color(name string) color.RGBA {
	if c, ok := e.colors[name]; ok {
		return c
	}
	c, _ := ParseColor(name)
	e.colors[name] = c
	return c
}
