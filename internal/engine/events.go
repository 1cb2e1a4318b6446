package engine

type Button int

const (
	ButtonPrimary Button = iota
	ButtonMiddle
	ButtonSecondary
)

type Modifiers uint8

const (
	ModShift Modifiers = 1 << iota
	ModCtrl
	ModAlt
	ModMeta
)

// Has reports whether every modifier in m2 is held.
func (m Modifiers) Has(m2 Modifiers) bool {
	return m&m2 == m2
}

// PointerEvent is a pointer action in screen coordinates. Clicks is the
// click count of a press (2 for the second press of a double-click).
type PointerEvent struct {
	X      float64   `json:"x"`
	Y      float64   `json:"y"`
	Button Button    `json:"button"`
	Mods   Modifiers `json:"mods"`
	Clicks int       `json:"clicks"`
}

// KeyEvent carries a DOM-style key name ("Escape", "Enter", " ").
type KeyEvent struct {
	Key  string    `json:"key"`
	Mods Modifiers `json:"mods"`
}

// WheelEvent is a scroll at a screen position.
type WheelEvent struct {
	X      float64   `json:"x"`
	Y      float64   `json:"y"`
	DeltaX float64   `json:"deltaX"`
	DeltaY float64   `json:"deltaY"`
	Mods   Modifiers `json:"mods"`
}

const (
	KeyEscape    = "Escape"
	KeyEnter     = "Enter"
	KeySpace     = " "
	KeyDelete    = "Delete"
	KeyBackspace = "Backspace"
)

// Mode is the controller state.
type Mode int

const (
	ModeIdle Mode = iota
	ModeDrawing
	ModePenAuthoring
	ModeDragging
	ModeScaling
	ModeRotating
	ModePanning
	ModeTextEditing
)

func (m Mode) String() string {
	switch m {
	case ModeIdle:
		return "idle"
	case ModeDrawing:
		return "drawing"
	case ModePenAuthoring:
		return "pen-authoring"
	case ModeDragging:
		return "dragging"
	case ModeScaling:
		return "scaling"
	case ModeRotating:
		return "rotating"
	case ModePanning:
		return "panning"
	case ModeTextEditing:
		return "text-editing"
	default:
		return "unknown"
	}
}
