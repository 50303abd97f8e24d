package editor

import "errors"

// Edit errors. All of them leave the drawing unchanged and the session back
// in the Select tool.
var (
	ErrInvalidSelectionKind = errors.New("action does not apply to the selected node")
	ErrNoParent             = errors.New("selected node has no parent")
	ErrEmptySelection       = errors.New("nothing selected")
	ErrToolActive           = errors.New("another tool is active")
	ErrDegeneratePolygon    = errors.New("polygon must keep at least one point")
	ErrNotConfirmed         = errors.New("delete not confirmed")
)
