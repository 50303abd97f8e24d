// Package input turns raw key and mouse edges into logical controls.
package input

import (
	"slices"
	"strings"

	"github.com/drawkit/drawkit/internal/geom"
)

// MouseButton is the key name KeyChange receives for the primary mouse button.
const MouseButton = "mouse"

// Handler is a logical control bound to one or more lower-case key names.
type Handler interface {
	Keys() []string
	change(key string, down bool)
}

// Button is a logical on/off control. It is down while any of its keys is
// held, and its callback fires only when that changes, so auto-repeated key
// downs are ignored.
type Button struct {
	keys     []string
	held     map[string]bool
	onChange func(down bool)
}

// NewButton creates a button over the given keys. onChange may be nil.
func NewButton(onChange func(down bool), keys ...string) *Button {
	return &Button{keys: lower(keys), held: make(map[string]bool), onChange: onChange}
}

func (b *Button) Keys() []string { return b.keys }

// Down reports whether any of the button's keys is held.
func (b *Button) Down() bool { return len(b.held) > 0 }

func (b *Button) change(key string, down bool) {
	was := b.Down()
	if down {
		b.held[key] = true
	} else {
		delete(b.held, key)
	}
	if now := b.Down(); now != was && b.onChange != nil {
		b.onChange(now)
	}
}

// Axis combines a negative and a positive key into -1, 0 or +1.
type Axis struct {
	keys     []string
	states   [2]float64
	onChange func(value float64)
}

// NewAxis creates an axis. onChange may be nil.
func NewAxis(negative, positive string, onChange func(value float64)) *Axis {
	return &Axis{keys: lower([]string{negative, positive}), onChange: onChange}
}

func (a *Axis) Keys() []string { return a.keys }

// Value returns the current axis position.
func (a *Axis) Value() float64 { return a.states[0] + a.states[1] }

func (a *Axis) change(key string, down bool) {
	idx := slices.Index(a.keys, key)
	if idx < 0 {
		return
	}
	was := a.Value()
	a.states[idx] = 0
	if down {
		a.states[idx] = [2]float64{-1, 1}[idx]
	}
	if now := a.Value(); now != was && a.onChange != nil {
		a.onChange(now)
	}
}

// Input dispatches key edges to named handlers and tracks the mouse in
// canvas pixels.
type Input struct {
	handlers map[string]Handler
	order    []string
	mouse    geom.Cartesian
}

func New() *Input {
	return &Input{handlers: make(map[string]Handler)}
}

// Bind registers h under name, replacing any handler already bound to it.
func (in *Input) Bind(name string, h Handler) {
	if _, ok := in.handlers[name]; !ok {
		in.order = append(in.order, name)
	}
	in.handlers[name] = h
}

// KeyChange delivers a key edge to every handler bound to the key, in bind
// order. Key names are matched case-insensitively.
func (in *Input) KeyChange(key string, down bool) {
	key = strings.ToLower(key)
	for _, name := range in.order {
		h := in.handlers[name]
		if slices.Contains(h.Keys(), key) {
			h.change(key, down)
		}
	}
}

// MouseMove records the cursor position in canvas pixels.
func (in *Input) MouseMove(x, y float64) {
	in.mouse = geom.XY(x, y)
}

// Mouse returns the last cursor position in canvas pixels.
func (in *Input) Mouse() geom.Cartesian {
	return in.mouse
}

// Axis returns the value of the named axis, or 0 if none is bound.
func (in *Input) Axis(name string) float64 {
	if a, ok := in.handlers[name].(*Axis); ok {
		return a.Value()
	}
	return 0
}

// Down reports whether the named button is held.
func (in *Input) Down(name string) bool {
	if b, ok := in.handlers[name].(*Button); ok {
		return b.Down()
	}
	return false
}

func lower(keys []string) []string {
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = strings.ToLower(k)
	}
	return out
}
