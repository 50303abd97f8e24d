// Command desktop runs the editor in an Ebitengine window.
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/drawkit/drawkit/internal/config"
	"github.com/drawkit/drawkit/internal/document"
	"github.com/drawkit/drawkit/internal/editor"
	"github.com/drawkit/drawkit/internal/engine"
	"github.com/drawkit/drawkit/internal/surface"
)

// keyNames maps physical keys to the editor's key names.
var keyNames = map[ebiten.Key]string{
	ebiten.KeyArrowLeft:    "arrowleft",
	ebiten.KeyArrowRight:   "arrowright",
	ebiten.KeyArrowUp:      "arrowup",
	ebiten.KeyArrowDown:    "arrowdown",
	ebiten.KeyMinus:        "-",
	ebiten.KeyEqual:        "=",
	ebiten.KeyEscape:       "escape",
	ebiten.KeyR:            "r",
	ebiten.KeyS:            "s",
	ebiten.KeyP:            "p",
	ebiten.KeyF:            "f",
	ebiten.KeyL:            "l",
	ebiten.KeyM:            "m",
	ebiten.KeyO:            "o",
	ebiten.KeyC:            "c",
	ebiten.KeyHome:         "home",
	ebiten.KeyDelete:       "delete",
	ebiten.KeyBackspace:    "backspace",
	ebiten.KeySpace:        " ",
	ebiten.KeyTab:          "tab",
	ebiten.KeyBracketLeft:  "[",
	ebiten.KeyBracketRight: "]",
}

type Game struct {
	cfg      *config.Config
	session  *editor.Session
	surface  *surface.Ebiten
	commands []engine.DrawCommand

	confirm confirmDialog
	prompt  string
	shift   bool
	width   int
	height  int
	status  string
}

func NewGame(cfg *config.Config, doc *document.Shape) *Game {
	g := &Game{
		cfg:     cfg,
		surface: surface.NewEbiten("black"),
		width:   cfg.CanvasWidth,
		height:  cfg.CanvasHeight,
	}
	opts := cfg.EditorOptions(slog.Default())
	opts.Confirm = func(prompt string) bool {
		// Deletes are re-issued from the dialog once the user answers.
		g.prompt = prompt
		return false
	}
	g.session = editor.New(doc, opts)
	g.session.SetPlaying(true)
	return g
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != g.width || outsideHeight != g.height {
		g.width, g.height = outsideWidth, outsideHeight
		g.session.Resize(float64(outsideWidth), float64(outsideHeight))
	}
	return outsideWidth, outsideHeight
}

func (g *Game) Update() error {
	mx, my := ebiten.CursorPosition()

	// Releases always reach the session so no control stays held while the
	// dialog or a shortcut swallows the matching press.
	capture := g.confirm.visible || ebiten.IsKeyPressed(ebiten.KeyControl)
	g.feedKeys(!capture)

	switch {
	case g.confirm.visible:
		g.confirm.handleInput(mx, my, g.width, g.height)
		return nil
	case capture:
		if inpututil.IsKeyJustPressed(ebiten.KeyS) {
			g.save()
		}
		return nil
	}

	g.session.MouseMove(float64(mx), float64(my))
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		g.session.MouseButton(true)
	}

	if g.prompt != "" {
		g.askDelete(g.prompt)
		g.prompt = ""
	}

	g.session.Tick(1 / float64(ebiten.TPS()))
	return nil
}

func (g *Game) feedKeys(presses bool) {
	if shift := ebiten.IsKeyPressed(ebiten.KeyShift); shift != g.shift && (presses || !shift) {
		g.shift = shift
		g.session.KeyChange("shift", shift)
	}
	for key, name := range keyNames {
		switch {
		case presses && inpututil.IsKeyJustPressed(key):
			g.session.KeyChange(name, true)
		case inpututil.IsKeyJustReleased(key):
			g.session.KeyChange(name, false)
		}
	}
	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
		g.session.MouseButton(false)
	}
}

func (g *Game) askDelete(prompt string) {
	g.confirm = confirmDialog{
		message: prompt,
		visible: true,
		onConfirm: func() {
			_ = g.session.Delete(true)
		},
	}
}

func (g *Game) save() {
	data, err := g.session.Export()
	if err == nil {
		err = os.WriteFile(g.cfg.DrawingFile, data, 0o644)
	}
	if err != nil {
		slog.Error("save drawing", "file", g.cfg.DrawingFile, "error", err)
		g.status = "save failed: " + err.Error()
		return
	}
	slog.Info("drawing saved", "file", g.cfg.DrawingFile)
	g.status = "saved " + g.cfg.DrawingFile
}

// Draw replays the last frame. While the frame loop is stopped the picture
// stays frozen on the last frame drawn.
func (g *Game) Draw(screen *ebiten.Image) {
	if g.session.Playing() || g.commands == nil {
		g.commands = g.session.Frame()
	}
	g.surface.Target(screen)
	engine.Replay(g.commands, g.surface)

	st := g.session.State()
	line := fmt.Sprintf("tool: %s  cursor: %.0f,%.0f", st.Tool, st.Cursor[0], st.Cursor[1])
	if !st.Playing {
		line += "  [stopped]"
	}
	if st.Error != "" {
		line += "  error: " + st.Error
	} else if g.status != "" {
		line += "  " + g.status
	}
	ebitenutil.DebugPrintAt(screen, line, 8, g.height-20)

	g.confirm.draw(screen)
}

func loadDrawing(path string) (*document.Shape, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		slog.Info("no saved drawing, starting from the sample", "file", path)
		return document.NewSampleDocument(), nil
	}
	if err != nil {
		return nil, err
	}
	return document.Unmarshal(data)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.Level()})))

	doc, err := loadDrawing(cfg.DrawingFile)
	if err != nil {
		slog.Error("load drawing", "file", cfg.DrawingFile, "error", err)
		os.Exit(1)
	}

	game := NewGame(cfg, doc)
	ebiten.SetTPS(cfg.FrameRate)
	ebiten.SetWindowSize(cfg.CanvasWidth, cfg.CanvasHeight)
	ebiten.SetWindowTitle("drawkit")
	ebiten.SetWindowResizable(true)
	if err := ebiten.RunGame(game); err != nil {
		slog.Error("run", "error", err)
		os.Exit(1)
	}
}
