package engine

import (
	"github.com/inamate/canvas/internal/document"
	"github.com/inamate/canvas/internal/geom"
)

// Store holds the ordered object list and the canvas-wide state the
// controller reads. document.MemoryStore implements it.
type Store interface {
	Objects() []document.Object
	Len() int
	Object(index int) (document.Object, bool)
	IndexOf(id string) int
	AddObject(obj document.Object) string
	UpdateObject(index int, p document.Patch) error
	RemoveObject(index int) error

	Tool() document.Tool
	SetTool(t document.Tool)
	View() document.ViewTransform
	SetView(v document.ViewTransform)
	Paint() document.PaintDefaults
	Background() string
	AspectRatioLocked() bool
}

// LayerList keeps one entry per object, joined by object id.
type LayerList interface {
	ObjectCreated(obj document.Object) (string, error)
	ObjectSelected(id string)
	ObjectRemoved(id string) error
}

// TextInput captures a string at a canvas position. Exactly one of submit
// or cancel is called, at most once.
type TextInput interface {
	ActivateTextTool(screen, world geom.Point, submit func(text string), cancel func())
}
