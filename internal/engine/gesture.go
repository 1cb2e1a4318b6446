package engine

import (
	"github.com/inamate/canvas/internal/document"
	"github.com/inamate/canvas/internal/geom"
)

// GestureState is the transient record of one pointer interaction. It is
// replaced wholesale when a gesture ends and never outlives it.
type GestureState struct {
	Mode Mode

	// TargetID is the object being dragged, scaled or rotated.
	TargetID string
	// Snapshot is a deep copy of the target taken at pointer-down.
	Snapshot *document.Object

	Handle    HandlePosition
	HasHandle bool
	// Pivot is the world position of the opposite handle at pointer-down.
	Pivot    geom.Point
	HasPivot bool
	// GrabOffset is handle position minus pointer at pointer-down.
	GrabOffset geom.Point

	StartAngle    float64
	StartRotation float64

	// DragStart is the world pointer position at pointer-down.
	DragStart geom.Point

	// Kind is the shape being drawn.
	Kind document.Kind
	// Start and Current bound a shape being drawn, in world space.
	Start   geom.Point
	Current geom.Point

	// Anchors are the placed pen anchors, or the freehand stroke points.
	Anchors  []geom.Point
	Freehand bool
	// Pressed is true between a pen press and its release.
	Pressed bool
	// PressScreen is where the first pen press went down, in screen space.
	PressScreen geom.Point

	// PanLast is the previous screen position of a pan.
	PanLast geom.Point

	// TextScreen and TextWorld locate an active text entry.
	TextScreen geom.Point
	TextWorld  geom.Point
	// TextToken identifies the text entry so stale callbacks are ignored.
	TextToken int
}

func (g GestureState) active() bool {
	return g.Mode != ModeIdle
}

// transforming reports whether the gesture mutates an existing object.
func (g GestureState) transforming() bool {
	switch g.Mode {
	case ModeDragging, ModeScaling, ModeRotating:
		return true
	default:
		return false
	}
}
