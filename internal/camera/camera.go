package camera

import (
	"math"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"

	"github.com/drawkit/drawkit/internal/engine"
	"github.com/drawkit/drawkit/internal/geom"
)

const (
	// DefaultHeight is the distance from the drawing plane used when none is given.
	DefaultHeight = 500

	zoomInFactor  = 0.8
	zoomOutFactor = 1.25

	// panRate is the share of the visible radius covered per second of panning.
	panRate = 0.7
)

// scrollAnim holds active scroll-to tweens for the camera position.
type scrollAnim struct {
	tweenX *gween.Tween
	tweenY *gween.Tween
	doneX  bool
	doneY  bool
}

// Camera looks down on the drawing plane from Height above Position. The
// visible world span grows linearly with Height; the canvas always shows it
// stretched over its full pixel area.
type Camera struct {
	Position geom.Cartesian
	Height   float64

	width, height float64
	aperture      [2]float64
	// baseHeight is the height at which one world unit spans one pixel.
	baseHeight float64

	scroll *scrollAnim
}

// New creates a camera for a canvas of the given pixel size. The aperture
// angles are fixed here so that at the initial height one world unit maps to
// one pixel.
func New(width, height float64, position geom.Cartesian, cameraHeight float64) *Camera {
	if cameraHeight <= 0 {
		cameraHeight = DefaultHeight
	}
	c := &Camera{Position: position, Height: cameraHeight, baseHeight: cameraHeight}
	c.Resize(width, height)
	return c
}

// Resize changes the canvas size. Unlike zooming, which keeps the aperture
// fixed, a resize re-derives the aperture angles from the new size and the
// initial height, so the zoom level is kept.
func (c *Camera) Resize(width, height float64) {
	c.width, c.height = math.Max(width, 1), math.Max(height, 1)
	c.aperture = [2]float64{
		math.Atan(c.width / 2 / c.baseHeight),
		math.Atan(c.height / 2 / c.baseHeight),
	}
}

// Canvas returns the canvas size in pixels.
func (c *Camera) Canvas() (width, height float64) {
	return c.width, c.height
}

// Radius returns the visible half extents on the drawing plane.
func (c *Camera) Radius() [2]float64 {
	return c.AdjustedRadius(0)
}

// AdjustedRadius returns the visible half extents for a plane depth units
// further away than the drawing plane.
func (c *Camera) AdjustedRadius(depth float64) [2]float64 {
	return [2]float64{
		(c.Height + depth) * math.Tan(c.aperture[0]),
		(c.Height + depth) * math.Tan(c.aperture[1]),
	}
}

// View returns the world-to-canvas transform at the given depth.
func (c *Camera) View(depth float64) Matrix {
	r := c.AdjustedRadius(depth)
	return Translate(c.width/2, c.height/2).
		Multiply(Scale(c.width/(2*r[0]), c.height/(2*r[1]))).
		Multiply(Translate(-c.Position.X, -c.Position.Y))
}

// RealToCanvas maps a world point to canvas pixels.
func (c *Camera) RealToCanvas(p geom.Cartesian, depth float64) geom.Cartesian {
	return geom.XY(c.View(depth).TransformPoint(p.X, p.Y))
}

// CanvasToReal maps canvas pixels to a point on the drawing plane.
func (c *Camera) CanvasToReal(p geom.Cartesian) geom.Cartesian {
	return geom.XY(c.View(0).Invert().TransformPoint(p.X, p.Y))
}

// ZoomIn moves the camera closer to the plane.
func (c *Camera) ZoomIn() {
	c.Height *= zoomInFactor
}

// ZoomOut moves the camera further from the plane.
func (c *Camera) ZoomOut() {
	c.Height *= zoomOutFactor
}

// Pan moves the camera along the axes (each -1, 0 or 1) for dt seconds.
// Panning cancels a running scroll.
func (c *Camera) Pan(axisX, axisY, dt float64) {
	if axisX == 0 && axisY == 0 {
		return
	}
	c.scroll = nil
	r := c.Radius()
	c.Position = c.Position.Transform(geom.XY(
		panRate*r[0]*dt*axisX,
		panRate*r[1]*dt*axisY,
	))
}

// ScrollTo animates the camera to target over duration seconds.
func (c *Camera) ScrollTo(target geom.Cartesian, duration float32) {
	if duration <= 0 {
		c.scroll = nil
		c.Position = target
		return
	}
	c.scroll = &scrollAnim{
		tweenX: gween.New(float32(c.Position.X), float32(target.X), duration, ease.OutQuad),
		tweenY: gween.New(float32(c.Position.Y), float32(target.Y), duration, ease.OutQuad),
	}
}

// Scrolling reports whether a ScrollTo animation is running.
func (c *Camera) Scrolling() bool {
	return c.scroll != nil
}

// Update advances the scroll animation by dt seconds.
func (c *Camera) Update(dt float32) {
	if c.scroll == nil {
		return
	}
	if !c.scroll.doneX {
		val, done := c.scroll.tweenX.Update(dt)
		c.Position.X = float64(val)
		c.scroll.doneX = done
	}
	if !c.scroll.doneY {
		val, done := c.scroll.tweenY.Update(dt)
		c.Position.Y = float64(val)
		c.scroll.doneY = done
	}
	if c.scroll.doneX && c.scroll.doneY {
		c.scroll = nil
	}
}

// Fit centers the camera on r and sets the height so r fills the canvas with
// the given relative margin around it. An empty rect only recenters.
func (c *Camera) Fit(r engine.Rect, margin float64) {
	c.scroll = nil
	c.Position = r.Center()
	if r.Width <= 0 && r.Height <= 0 {
		return
	}
	h := math.Max(
		r.Width/2/math.Tan(c.aperture[0]),
		r.Height/2/math.Tan(c.aperture[1]),
	)
	c.Height = h * (1 + margin)
}
