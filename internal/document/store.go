package document

import (
	"errors"
	"fmt"
)

var ErrIndexOutOfRange = errors.New("object index out of range")

// MemoryStore is an in-process scene store: the ordered object list plus
// the view, tool and paint state the canvas reads. It is not safe for
// concurrent use; callers serialise access.
type MemoryStore struct {
	objects      []Object
	tool         Tool
	view         ViewTransform
	paint        PaintDefaults
	background   string
	aspectLocked bool
}

// NewMemoryStore creates an empty store with the select tool active.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		tool: ToolSelect,
		view: DefaultView(),
		paint: PaintDefaults{
			Fill:        DefaultFill,
			Stroke:      "#000000",
			StrokeWidth: 2,
		},
		background: "#1e1e1e",
	}
}

// Objects returns a deep copy of the object list in painter's order.
func (s *MemoryStore) Objects() []Object {
	out := make([]Object, len(s.objects))
	for i, o := range s.objects {
		out[i] = o.Clone()
	}
	return out
}

// Len returns the number of objects.
func (s *MemoryStore) Len() int {
	return len(s.objects)
}

// Object returns a copy of the object at index.
func (s *MemoryStore) Object(index int) (Object, bool) {
	if index < 0 || index >= len(s.objects) {
		return Object{}, false
	}
	return s.objects[index].Clone(), true
}

// IndexOf returns the index of the object with id, or -1.
func (s *MemoryStore) IndexOf(id string) int {
	for i, o := range s.objects {
		if o.ID == id {
			return i
		}
	}
	return -1
}

// AddObject appends obj, filling unset paint and scale. An object whose id
// is already present replaces the existing entry in place.
func (s *MemoryStore) AddObject(obj Object) string {
	obj = obj.Clone()
	if obj.Fill == "" {
		obj.Fill = DefaultFill
	}
	if obj.Stroke == "" {
		obj.Stroke = Transparent
	}
	obj.ScaleX, obj.ScaleY = obj.Scale()

	if i := s.IndexOf(obj.ID); i >= 0 && obj.ID != "" {
		s.objects[i] = obj
		return obj.ID
	}
	s.objects = append(s.objects, obj)
	return obj.ID
}

// UpdateObject applies a partial update to the object at index.
func (s *MemoryStore) UpdateObject(index int, p Patch) error {
	if index < 0 || index >= len(s.objects) {
		return fmt.Errorf("update %d: %w", index, ErrIndexOutOfRange)
	}
	p.Apply(&s.objects[index])
	return nil
}

// RemoveObject deletes the object at index.
func (s *MemoryStore) RemoveObject(index int) error {
	if index < 0 || index >= len(s.objects) {
		return fmt.Errorf("remove %d: %w", index, ErrIndexOutOfRange)
	}
	s.objects = append(s.objects[:index], s.objects[index+1:]...)
	return nil
}

func (s *MemoryStore) Tool() Tool {
	return s.tool
}

func (s *MemoryStore) SetTool(t Tool) {
	s.tool = t
}

func (s *MemoryStore) View() ViewTransform {
	return s.view
}

func (s *MemoryStore) SetView(v ViewTransform) {
	s.view = v
}

func (s *MemoryStore) Paint() PaintDefaults {
	return s.paint
}

func (s *MemoryStore) SetPaint(p PaintDefaults) {
	s.paint = p
}

func (s *MemoryStore) Background() string {
	return s.background
}

func (s *MemoryStore) SetBackground(c string) {
	s.background = c
}

func (s *MemoryStore) AspectRatioLocked() bool {
	return s.aspectLocked
}

func (s *MemoryStore) SetAspectRatioLocked(locked bool) {
	s.aspectLocked = locked
}
