package main

import (
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

const (
	dialogW = 400
	dialogH = 160
)

var (
	dialogShade = color.RGBA{0, 0, 0, 120}
	dialogFill  = color.RGBA{30, 30, 30, 255}
	yesFill     = color.RGBA{70, 120, 70, 255}
	noFill      = color.RGBA{120, 70, 70, 255}
)

// confirmDialog is a modal yes/no prompt. Enter or Y confirms, Escape or N
// cancels.
type confirmDialog struct {
	message   string
	visible   bool
	onConfirm func()
	onCancel  func()
}

func dialogRects(viewW, viewH int) (box, yes, no image.Rectangle) {
	x := (viewW - dialogW) / 2
	y := (viewH - dialogH) / 2
	box = image.Rect(x, y, x+dialogW, y+dialogH)
	yes = image.Rect(x+40, y+90, x+140, y+130)
	no = image.Rect(x+dialogW-140, y+90, x+dialogW-40, y+130)
	return box, yes, no
}

func (c *confirmDialog) draw(dst *ebiten.Image) {
	if !c.visible {
		return
	}
	b := dst.Bounds()
	vector.DrawFilledRect(dst, 0, 0, float32(b.Dx()), float32(b.Dy()), dialogShade, false)
	box, yes, no := dialogRects(b.Dx(), b.Dy())
	fillRect(dst, box, dialogFill)
	fillRect(dst, yes, yesFill)
	fillRect(dst, no, noFill)
	ebitenutil.DebugPrintAt(dst, c.message, box.Min.X+20, box.Min.Y+30)
	ebitenutil.DebugPrintAt(dst, "Yes", yes.Min.X+38, yes.Min.Y+12)
	ebitenutil.DebugPrintAt(dst, "No", no.Min.X+42, no.Min.Y+12)
}

func (c *confirmDialog) handleInput(mx, my, viewW, viewH int) {
	if !c.visible {
		return
	}
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyEnter), inpututil.IsKeyJustPressed(ebiten.KeyY):
		c.close(c.onConfirm)
		return
	case inpututil.IsKeyJustPressed(ebiten.KeyEscape), inpututil.IsKeyJustPressed(ebiten.KeyN):
		c.close(c.onCancel)
		return
	}
	if !inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		return
	}
	_, yes, no := dialogRects(viewW, viewH)
	p := image.Pt(mx, my)
	switch {
	case p.In(yes):
		c.close(c.onConfirm)
	case p.In(no):
		c.close(c.onCancel)
	}
}

func (c *confirmDialog) close(then func()) {
	c.visible = false
	if then != nil {
		then()
	}
}

func fillRect(dst *ebiten.Image, r image.Rectangle, clr color.Color) {
	vector.DrawFilledRect(dst, float32(r.Min.X), float32(r.Min.Y), float32(r.Dx()), float32(r.Dy()), clr, false)
}
