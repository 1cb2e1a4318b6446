package layers

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inamate/canvas/internal/document"
	"github.com/inamate/canvas/internal/engine"
	"github.com/inamate/canvas/internal/typeid"
)

var _ engine.LayerList = (*List)(nil)

func obj(id string, kind document.Kind) document.Object {
	return document.Object{ID: id, Kind: kind, Visible: true}
}

func TestObjectCreatedNamesByKind(t *testing.T) {
	l := NewList()

	ids := []string{}
	for _, o := range []document.Object{
		obj("a", document.KindRectangle),
		obj("b", document.KindRectangle),
		obj("c", document.KindPen),
		obj("d", document.KindText),
	} {
		id, err := l.ObjectCreated(o)
		require.NoError(t, err)
		require.NoError(t, typeid.Validate(id, typeid.PrefixLayer))
		ids = append(ids, id)
	}

	entries := l.Entries()
	require.Len(t, entries, 4)
	names := []string{}
	for _, e := range entries {
		names = append(names, e.Name)
	}
	assert.Equal(t, []string{"Text 1", "Path 1", "Rectangle 2", "Rectangle 1"}, names)
	assert.Equal(t, "d", entries[0].ObjectID)
	assert.Equal(t, ids[3], entries[0].ID)
}

func TestObjectCreatedTwiceKeepsLayer(t *testing.T) {
	l := NewList()
	o := obj("a", document.KindEllipse)
	first, err := l.ObjectCreated(o)
	require.NoError(t, err)

	o.Locked = true
	second, err := l.ObjectCreated(o)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, l.Len())

	e, ok := l.LayerFor("a")
	require.True(t, ok)
	assert.True(t, e.Locked)
	assert.Equal(t, "Ellipse 1", e.Name)
}

func TestObjectCreatedRequiresID(t *testing.T) {
	_, err := NewList().ObjectCreated(document.Object{Kind: document.KindLine})
	assert.ErrorIs(t, err, ErrNoObjectID)
}

func TestObjectRemoved(t *testing.T) {
	l := NewList()
	_, err := l.ObjectCreated(obj("a", document.KindLine))
	require.NoError(t, err)
	l.ObjectSelected("a")

	require.NoError(t, l.ObjectRemoved("a"))
	assert.Equal(t, 0, l.Len())
	id, _, ok := l.Selected()
	assert.Empty(t, id)
	assert.False(t, ok)

	assert.ErrorIs(t, l.ObjectRemoved("a"), ErrUnknownLayer)
}

func TestSelectionFollowsObjectID(t *testing.T) {
	l := NewList()
	layerID, err := l.ObjectCreated(obj("a", document.KindRectangle))
	require.NoError(t, err)

	l.ObjectSelected("a")
	id, e, ok := l.Selected()
	assert.Equal(t, "a", id)
	assert.True(t, ok)
	assert.Equal(t, layerID, e.ID)

	l.ObjectSelected("")
	_, _, ok = l.Selected()
	assert.False(t, ok)
}

func TestEntryEdits(t *testing.T) {
	l := NewList()
	layerID, err := l.ObjectCreated(obj("a", document.KindRectangle))
	require.NoError(t, err)

	require.NoError(t, l.Rename(layerID, "Background"))
	require.NoError(t, l.SetVisible(layerID, false))
	require.NoError(t, l.SetLocked(layerID, true))

	e, err := l.Get(layerID)
	require.NoError(t, err)
	assert.Equal(t, "Background", e.Name)
	assert.False(t, e.Visible)
	assert.True(t, e.Locked)

	err = l.Rename("layer_missing", "x")
	assert.ErrorIs(t, err, ErrUnknownLayer)
	assert.True(t, strings.Contains(err.Error(), "layer_missing"))
	_, err = l.Get("layer_missing")
	assert.ErrorIs(t, err, ErrUnknownLayer)
}

func TestEngineCommitReachesList(t *testing.T) {
	l := NewList()
	e := engine.New(document.NewMemoryStore(), engine.WithLayers(l), engine.WithRenderer(engine.NewRecorder(nil)))
	require.NoError(t, e.SetTool(document.ToolRectangle))

	e.PointerDown(engine.PointerEvent{X: 10, Y: 10, Button: engine.ButtonPrimary})
	e.PointerMove(engine.PointerEvent{X: 60, Y: 40, Button: engine.ButtonPrimary})
	e.PointerUp(engine.PointerEvent{X: 60, Y: 40, Button: engine.ButtonPrimary})

	require.Equal(t, 1, l.Len())
	_, objID := e.Selected()
	selected, entry, ok := l.Selected()
	require.True(t, ok)
	assert.Equal(t, objID, selected)
	assert.Equal(t, "Rectangle 1", entry.Name)

	require.NoError(t, e.RemoveObject(objID))
	assert.Equal(t, 0, l.Len())
}
