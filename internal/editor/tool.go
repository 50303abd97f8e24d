package editor

// Tool is the editor's interaction mode. Select is the idle state; Delete and
// Outline are momentary and never stay active.
type Tool int

const (
	Select Tool = iota
	Move
	Delete
	CreateShape
	CreatePoint
	DrawPolygon
	DrawLine
	Outline
)

var toolNames = [...]string{
	Select:      "select",
	Move:        "move",
	Delete:      "delete",
	CreateShape: "createShape",
	CreatePoint: "createPoint",
	DrawPolygon: "drawPolygon",
	DrawLine:    "drawLine",
	Outline:     "outline",
}

func (t Tool) String() string {
	if t < 0 || int(t) >= len(toolNames) {
		return "unknown"
	}
	return toolNames[t]
}
