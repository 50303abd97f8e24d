//go:build js && wasm

package main

import (
	"encoding/json"
	"log/slog"
	"os"
	"syscall/js"

	"github.com/drawkit/drawkit/internal/document"
	"github.com/drawkit/drawkit/internal/editor"
	"github.com/drawkit/drawkit/internal/engine"
)

var session *editor.Session

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})))

	opts := editor.DefaultOptions()
	opts.Confirm = func(prompt string) bool {
		return js.Global().Call("confirm", prompt).Bool()
	}
	session = editor.New(document.NewSampleDocument(), opts)
	session.SetPlaying(true)

	drawkitEditor := js.Global().Get("Object").New()

	// --- Commands (frontend → editor) ---
	drawkitEditor.Set("keyChange", js.FuncOf(keyChange))
	drawkitEditor.Set("mouseMove", js.FuncOf(mouseMove))
	drawkitEditor.Set("mouseButton", js.FuncOf(mouseButton))
	drawkitEditor.Set("resize", js.FuncOf(resize))
	drawkitEditor.Set("toggleFrames", js.FuncOf(toggleFrames))
	drawkitEditor.Set("importDocument", js.FuncOf(importDocument))
	drawkitEditor.Set("loadSampleDocument", js.FuncOf(loadSampleDocument))
	drawkitEditor.Set("tick", js.FuncOf(tick))

	// --- Queries (frontend ← editor) ---
	drawkitEditor.Set("exportDocument", js.FuncOf(exportDocument))
	drawkitEditor.Set("exportSource", js.FuncOf(exportSource))
	drawkitEditor.Set("state", js.FuncOf(state))

	js.Global().Set("drawkitEditor", drawkitEditor)
	js.Global().Set("drawkitWasmReady", js.ValueOf(true))

	select {}
}

func errorResult(err error) js.Value {
	return js.ValueOf(map[string]interface{}{"error": err.Error()})
}

func okResult() js.Value {
	return js.ValueOf(map[string]interface{}{"ok": true})
}

// --- Command Handlers ---

func keyChange(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return nil
	}
	session.KeyChange(args[0].String(), args[1].Bool())
	return nil
}

func mouseMove(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return nil
	}
	session.MouseMove(args[0].Float(), args[1].Float())
	return nil
}

func mouseButton(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return nil
	}
	session.MouseButton(args[0].Bool())
	return nil
}

func resize(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return nil
	}
	session.Resize(args[0].Float(), args[1].Float())
	return nil
}

func toggleFrames(this js.Value, args []js.Value) interface{} {
	session.ToggleFrames()
	return nil
}

func importDocument(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return js.ValueOf(map[string]interface{}{"error": "missing document JSON"})
	}
	if err := session.Import([]byte(args[0].String())); err != nil {
		return errorResult(err)
	}
	return okResult()
}

func loadSampleDocument(this js.Value, args []js.Value) interface{} {
	session.Load(document.NewSampleDocument())
	return okResult()
}

// tick advances the frame loop by the elapsed seconds and returns the frame's
// draw commands as JSON, or "" while the loop is stopped.
func tick(this js.Value, args []js.Value) interface{} {
	dt := 0.0
	if len(args) > 0 && args[0].Type() == js.TypeNumber {
		dt = args[0].Float()
	}
	if !session.Playing() {
		return js.ValueOf("")
	}
	session.Tick(dt)
	out, err := engine.DrawCommandsToJSON(session.Frame())
	if err != nil {
		slog.Error("encode frame", "error", err)
		return js.ValueOf("")
	}
	return js.ValueOf(out)
}

// --- Query Handlers ---

func exportDocument(this js.Value, args []js.Value) interface{} {
	data, err := session.Export()
	if err != nil {
		return errorResult(err)
	}
	return js.ValueOf(string(data))
}

func exportSource(this js.Value, args []js.Value) interface{} {
	src, err := session.ExportSource()
	if err != nil {
		return errorResult(err)
	}
	return js.ValueOf(src)
}

func state(this js.Value, args []js.Value) interface{} {
	data, err := json.Marshal(session.State())
	if err != nil {
		return js.ValueOf("{}")
	}
	return js.ValueOf(string(data))
}
