// Package layers keeps the layer panel's entries. Entries reference scene
// objects by id only; the list never holds object indices.
package layers

import (
	"errors"
	"fmt"
	"sync"

	"github.com/inamate/canvas/internal/document"
	"github.com/inamate/canvas/internal/typeid"
)

var (
	ErrUnknownLayer = errors.New("unknown layer")
	ErrNoObjectID   = errors.New("object has no id")
)

// Entry is one row of the layer panel.
type Entry struct {
	ID       string        `json:"id"`
	ObjectID string        `json:"objectId"`
	Name     string        `json:"name"`
	Kind     document.Kind `json:"kind"`
	Visible  bool          `json:"visible"`
	Locked   bool          `json:"locked"`
}

// List is an in-process layer list. It is safe for concurrent use.
type List struct {
	mu       sync.RWMutex
	entries  []Entry // back to front, parallel to the scene order
	counters map[document.Kind]int
	selected string
	newID    func() string
}

// NewList creates an empty list with typeid layer ids.
func NewList() *List {
	return &List{
		counters: make(map[document.Kind]int),
		newID:    typeid.NewLayerID,
	}
}

var kindNames = map[document.Kind]string{
	document.KindRectangle: "Rectangle",
	document.KindEllipse:   "Ellipse",
	document.KindLine:      "Line",
	document.KindPen:       "Path",
	document.KindText:      "Text",
}

func (l *List) nameFor(kind document.Kind) string {
	base, ok := kindNames[kind]
	if !ok {
		base = "Layer"
	}
	l.counters[kind]++
	return fmt.Sprintf("%s %d", base, l.counters[kind])
}

// ObjectCreated adds an entry for obj and returns its layer id. An object
// that already has an entry keeps it; its flags are refreshed.
func (l *List) ObjectCreated(obj document.Object) (string, error) {
	if obj.ID == "" {
		return "", ErrNoObjectID
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if i := l.indexOfObject(obj.ID); i >= 0 {
		l.entries[i].Visible = obj.Visible
		l.entries[i].Locked = obj.Locked
		return l.entries[i].ID, nil
	}

	e := Entry{
		ID:       l.newID(),
		ObjectID: obj.ID,
		Name:     l.nameFor(obj.Kind),
		Kind:     obj.Kind,
		Visible:  obj.Visible,
		Locked:   obj.Locked,
	}
	l.entries = append(l.entries, e)
	return e.ID, nil
}

// ObjectSelected records the selected object id; empty clears it.
func (l *List) ObjectSelected(id string) {
	l.mu.Lock()
	l.selected = id
	l.mu.Unlock()
}

// ObjectRemoved drops the entry for the object id.
func (l *List) ObjectRemoved(id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	i := l.indexOfObject(id)
	if i < 0 {
		return fmt.Errorf("object %q: %w", id, ErrUnknownLayer)
	}
	l.entries = append(l.entries[:i], l.entries[i+1:]...)
	if l.selected == id {
		l.selected = ""
	}
	return nil
}

// Entries returns the entries front to back, the way a layer panel lists
// them.
func (l *List) Entries() []Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]Entry, len(l.entries))
	for i, e := range l.entries {
		out[len(l.entries)-1-i] = e
	}
	return out
}

// Len returns the number of entries.
func (l *List) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

// Selected returns the selected object id and its entry, if any.
func (l *List) Selected() (string, Entry, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if l.selected == "" {
		return "", Entry{}, false
	}
	i := l.indexOfObject(l.selected)
	if i < 0 {
		return l.selected, Entry{}, false
	}
	return l.selected, l.entries[i], true
}

// Get returns the entry with the layer id.
func (l *List) Get(layerID string) (Entry, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	i := l.indexOfLayer(layerID)
	if i < 0 {
		return Entry{}, fmt.Errorf("layer %q: %w", layerID, ErrUnknownLayer)
	}
	return l.entries[i], nil
}

// LayerFor returns the entry for the object id.
func (l *List) LayerFor(objectID string) (Entry, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	i := l.indexOfObject(objectID)
	if i < 0 {
		return Entry{}, false
	}
	return l.entries[i], true
}

func (l *List) Rename(layerID, name string) error {
	return l.update(layerID, func(e *Entry) { e.Name = name })
}

func (l *List) SetVisible(layerID string, visible bool) error {
	return l.update(layerID, func(e *Entry) { e.Visible = visible })
}

func (l *List) SetLocked(layerID string, locked bool) error {
	return l.update(layerID, func(e *Entry) { e.Locked = locked })
}

func (l *List) update(layerID string, fn func(*Entry)) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	i := l.indexOfLayer(layerID)
	if i < 0 {
		return fmt.Errorf("layer %q: %w", layerID, ErrUnknownLayer)
	}
	fn(&l.entries[i])
	return nil
}

func (l *List) indexOfObject(objectID string) int {
	for i, e := range l.entries {
		if e.ObjectID == objectID {
			return i
		}
	}
	return -1
}

func (l *List) indexOfLayer(layerID string) int {
	for i, e := range l.entries {
		if e.ID == layerID {
			return i
		}
	}
	return -1
}
