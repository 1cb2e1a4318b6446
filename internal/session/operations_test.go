package session

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inamate/canvas/internal/document"
	"github.com/inamate/canvas/internal/engine"
)

func objectByID(t *testing.T, s *Session, id string) document.Object {
	t.Helper()
	for _, o := range s.Objects() {
		if o.ID == id {
			return o
		}
	}
	require.Failf(t, "missing object", "no object %s", id)
	return document.Object{}
}

func TestApplyOperations(t *testing.T) {
	s := newTestSession(t, true)
	id := s.Objects()[0].ID

	ack, err := s.ApplyOperation(Operation{
		Type:     OpObjectStyle,
		ObjectID: id,
		Style:    json.RawMessage(`{"fill":"#00FF00","strokeWidth":3}`),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), ack.ServerSeq)
	assert.Equal(t, s.OpLog()[0].ID, ack.OperationID)
	assert.True(t, strings.HasPrefix(ack.OperationID, "op_"), ack.OperationID)

	_, err = s.ApplyOperation(Operation{
		Type:      OpObjectTransform,
		ObjectID:  id,
		Transform: json.RawMessage(`{"rotation":45,"scaleX":2}`),
	})
	require.NoError(t, err)

	_, err = s.ApplyOperation(Operation{
		Type:         OpObjectCornerRadius,
		ObjectID:     id,
		CornerRadius: &document.CornerRadius{TopLeft: 6},
	})
	require.NoError(t, err)

	o := objectByID(t, s, id)
	assert.Equal(t, "#00FF00", o.Fill)
	assert.Equal(t, 3.0, o.StrokeWidth)
	assert.Equal(t, 45.0, o.Rotation)
	assert.Equal(t, 2.0, o.ScaleX)
	assert.Equal(t, 6.0, o.CornerRadius.TopLeft)
	assert.Len(t, s.OpLog(), 3)
}

func TestVisibilityAndLockSyncLayers(t *testing.T) {
	s := newTestSession(t, true)
	id := s.Objects()[1].ID

	_, err := s.ApplyOperation(Operation{Type: OpObjectVisibility, ObjectID: id, Visible: ref(false)})
	require.NoError(t, err)
	_, err = s.ApplyOperation(Operation{Type: OpObjectLocked, ObjectID: id, Locked: ref(true)})
	require.NoError(t, err)

	o := objectByID(t, s, id)
	assert.False(t, o.Visible)
	assert.True(t, o.Locked)

	e, ok := s.layers.LayerFor(id)
	require.True(t, ok)
	assert.False(t, e.Visible)
	assert.True(t, e.Locked)

	_, err = s.ApplyOperation(Operation{Type: OpLayerRename, LayerID: e.ID, Name: "Badge"})
	require.NoError(t, err)
	e, _ = s.layers.LayerFor(id)
	assert.Equal(t, "Badge", e.Name)
}

func TestCreateAndDeleteOperations(t *testing.T) {
	s := newTestSession(t, false)

	_, err := s.ApplyOperation(Operation{
		Type: OpObjectCreate,
		Object: &document.Object{
			Kind: document.KindEllipse, EndX: 40, EndY: 20, ScaleX: 1, ScaleY: 1, Visible: true,
		},
	})
	require.NoError(t, err)
	objs := s.Objects()
	require.Len(t, objs, 1)
	id := objs[0].ID
	assert.NotEmpty(t, id)
	assert.Len(t, s.Layers(), 1)

	_, err = s.ApplyOperation(Operation{Type: OpObjectCreate, Object: &objs[0]})
	assert.ErrorIs(t, err, ErrInvalidOperation)

	_, err = s.ApplyOperation(Operation{Type: OpObjectDelete, ObjectID: id})
	require.NoError(t, err)
	assert.Empty(t, s.Objects())
	assert.Empty(t, s.Layers())
}

func TestRejectedOperations(t *testing.T) {
	s := newTestSession(t, true)
	id := s.Objects()[0].ID

	tests := []struct {
		name string
		op   Operation
		want error
	}{
		{"unknown type", Operation{Type: "object.explode", ObjectID: id}, ErrUnknownOperation},
		{"unknown object", Operation{Type: OpObjectVisibility, ObjectID: "obj_missing", Visible: ref(true)}, engine.ErrUnknownObject},
		{"delete unknown", Operation{Type: OpObjectDelete, ObjectID: "obj_missing"}, engine.ErrUnknownObject},
		{"missing flag", Operation{Type: OpObjectLocked, ObjectID: id}, ErrInvalidOperation},
		{"missing changes", Operation{Type: OpObjectStyle, ObjectID: id}, ErrInvalidOperation},
		{"malformed changes", Operation{Type: OpObjectTransform, ObjectID: id, Transform: json.RawMessage(`{"rotation":"x"}`)}, ErrInvalidOperation},
		{"negative stroke", Operation{Type: OpObjectStyle, ObjectID: id, Style: json.RawMessage(`{"strokeWidth":-1}`)}, ErrInvalidOperation},
		{"bad font size", Operation{Type: OpObjectText, ObjectID: id, Text: json.RawMessage(`{"fontSize":0}`)}, ErrInvalidOperation},
		{"bad kind", Operation{Type: OpObjectCreate, Object: &document.Object{Kind: "star"}}, ErrInvalidOperation},
		{"empty name", Operation{Type: OpLayerRename, LayerID: "layer_x"}, ErrInvalidOperation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.ApplyOperation(tt.op)
			assert.ErrorIs(t, err, tt.want)
		})
	}
	assert.Empty(t, s.OpLog())
}

func TestOpSubmitAcksAndBroadcasts(t *testing.T) {
	s := newTestSession(t, true)
	id := s.Objects()[0].ID

	envs := s.Handle("c1", msg(t, TypeOpSubmit, OperationSubmitPayload{Operation: Operation{
		ID:       "op_1",
		Type:     OpObjectText,
		ObjectID: id,
		Text:     json.RawMessage(`{"text":"changed"}`),
	}}))
	assert.Equal(t, []string{TypeOpAck, TypeOpBroadcast, TypeFrame}, types(envs))
	assert.Equal(t, "c1", envs[0].To)
	assert.Equal(t, "c1", envs[1].Exclude)
	ack := payload[OperationAckPayload](t, envs[0])
	assert.Equal(t, "op_1", ack.OperationID)
	assert.Equal(t, int64(1), ack.ServerSeq)

	envs = s.Handle("c1", msg(t, TypeOpSubmit, OperationSubmitPayload{Operation: Operation{
		ID:   "op_2",
		Type: "object.explode",
	}}))
	assert.Equal(t, []string{TypeOpNack}, types(envs))
	nack := payload[OperationNackPayload](t, envs[0])
	assert.Equal(t, "op_2", nack.OperationID)
	assert.Contains(t, nack.Reason, "unknown operation")
}

func TestAssignedOperationIDReachesClients(t *testing.T) {
	s := newTestSession(t, true)
	id := s.Objects()[0].ID

	envs := s.Handle("c1", msg(t, TypeOpSubmit, OperationSubmitPayload{Operation: Operation{
		Type:     OpObjectVisibility,
		ObjectID: id,
		Visible:  ref(false),
	}}))
	require.Equal(t, []string{TypeOpAck, TypeOpBroadcast, TypeFrame}, types(envs))
	logged := s.OpLog()[0].ID
	require.NotEmpty(t, logged)
	assert.Equal(t, logged, payload[OperationAckPayload](t, envs[0]).OperationID)
	assert.Equal(t, logged, payload[OperationBroadcastPayload](t, envs[1]).Operation.ID)

	ack, envs, err := s.Submit(Operation{Type: OpObjectVisibility, ObjectID: id, Visible: ref(true)})
	require.NoError(t, err)
	logged = s.OpLog()[1].ID
	require.NotEmpty(t, logged)
	assert.Equal(t, logged, ack.OperationID)
	assert.Equal(t, int64(2), ack.ServerSeq)
	assert.Equal(t, TypeOpBroadcast, envs[0].Message.Type)
	assert.Equal(t, logged, payload[OperationBroadcastPayload](t, envs[0]).Operation.ID)
}
