package document

type Tool string

const (
	ToolNone      Tool = "none"
	ToolSelect    Tool = "select"
	ToolRectangle Tool = "rectangle"
	ToolEllipse   Tool = "ellipse"
	ToolLine      Tool = "line"
	ToolPen       Tool = "pen"
	ToolText      Tool = "text"
)

// Valid reports whether t is a known tool.
func (t Tool) Valid() bool {
	switch t {
	case ToolNone, ToolSelect, ToolRectangle, ToolEllipse, ToolLine, ToolPen, ToolText:
		return true
	default:
		return false
	}
}

// Selects reports whether the tool picks objects rather than creating them.
func (t Tool) Selects() bool {
	return t == ToolSelect || t == ToolNone
}

// ShapeKind returns the kind a drag-to-draw tool creates.
func (t Tool) ShapeKind() (Kind, bool) {
	switch t {
	case ToolRectangle:
		return KindRectangle, true
	case ToolEllipse:
		return KindEllipse, true
	case ToolLine:
		return KindLine, true
	default:
		return "", false
	}
}

// PaintDefaults are the colours new objects are created with.
type PaintDefaults struct {
	Fill        string  `json:"fill"`
	Stroke      string  `json:"stroke"`
	StrokeWidth float64 `json:"strokeWidth"`
}
