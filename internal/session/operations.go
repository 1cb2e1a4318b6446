package session

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/inamate/canvas/internal/document"
	"github.com/inamate/canvas/internal/typeid"
)

var (
	ErrUnknownOperation = errors.New("unknown operation type")
	ErrInvalidOperation = errors.New("invalid operation")
)

const (
	OpObjectTransform    = "object.transform"
	OpObjectStyle        = "object.style"
	OpObjectText         = "object.text"
	OpObjectVisibility   = "object.visibility"
	OpObjectLocked       = "object.locked"
	OpObjectShadow       = "object.shadow"
	OpObjectCornerRadius = "object.cornerRadius"
	OpObjectCreate       = "object.create"
	OpObjectDelete       = "object.delete"
	OpLayerRename        = "layer.rename"
)

type transformChanges struct {
	StartX   *float64 `json:"startX"`
	StartY   *float64 `json:"startY"`
	EndX     *float64 `json:"endX"`
	EndY     *float64 `json:"endY"`
	Rotation *float64 `json:"rotation"`
	ScaleX   *float64 `json:"scaleX"`
	ScaleY   *float64 `json:"scaleY"`
}

type styleChanges struct {
	Fill        *string  `json:"fill"`
	Stroke      *string  `json:"stroke"`
	StrokeWidth *float64 `json:"strokeWidth"`
}

type textChanges struct {
	Text     *string  `json:"text"`
	FontSize *float64 `json:"fontSize"`
}

// ApplyOperation applies an operation. The ack carries the operation id,
// assigned here when the caller left it empty, and the server sequence.
func (s *Session) ApplyOperation(op Operation) (OperationAckPayload, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	op, seq, err := s.applyOperationLocked(op)
	if err != nil {
		return OperationAckPayload{}, err
	}
	return OperationAckPayload{OperationID: op.ID, ServerSeq: seq}, nil
}

// applyOperationLocked applies the operation without locking (caller must
// hold lock). The returned operation carries its resolved id, also on error.
func (s *Session) applyOperationLocked(op Operation) (Operation, int64, error) {
	if op.ID == "" {
		op.ID = typeid.NewOpID()
	}
	seq, err := s.applyResolved(op)
	return op, seq, err
}

func (s *Session) applyResolved(op Operation) (int64, error) {
	var err error
	switch op.Type {
	case OpObjectTransform:
		err = s.applyTransform(op)
	case OpObjectStyle:
		err = s.applyStyle(op)
	case OpObjectText:
		err = s.applyText(op)
	case OpObjectVisibility:
		err = s.applyVisibility(op)
	case OpObjectLocked:
		err = s.applyLocked(op)
	case OpObjectShadow:
		if op.Shadow == nil {
			return 0, fmt.Errorf("%s: missing shadow: %w", op.Type, ErrInvalidOperation)
		}
		err = s.engine.UpdateObject(op.ObjectID, document.Patch{Shadow: op.Shadow})
	case OpObjectCornerRadius:
		if op.CornerRadius == nil {
			return 0, fmt.Errorf("%s: missing cornerRadius: %w", op.Type, ErrInvalidOperation)
		}
		err = s.engine.UpdateObject(op.ObjectID, document.Patch{CornerRadius: op.CornerRadius})
	case OpObjectCreate:
		err = s.applyCreate(op)
	case OpObjectDelete:
		err = s.engine.RemoveObject(op.ObjectID)
	case OpLayerRename:
		if op.Name == "" {
			return 0, fmt.Errorf("%s: empty name: %w", op.Type, ErrInvalidOperation)
		}
		err = s.layers.Rename(op.LayerID, op.Name)
	default:
		return 0, fmt.Errorf("%q: %w", op.Type, ErrUnknownOperation)
	}
	if err != nil {
		return 0, err
	}

	s.serverSeq++
	s.opLog = append(s.opLog, op)
	return s.serverSeq, nil
}

// OpLog returns the applied operations in order.
func (s *Session) OpLog() []Operation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Operation(nil), s.opLog...)
}

func (s *Session) applyTransform(op Operation) error {
	var c transformChanges
	if err := unmarshalChanges(op, op.Transform, &c); err != nil {
		return err
	}
	return s.engine.UpdateObject(op.ObjectID, document.Patch{
		StartX:   c.StartX,
		StartY:   c.StartY,
		EndX:     c.EndX,
		EndY:     c.EndY,
		Rotation: c.Rotation,
		ScaleX:   c.ScaleX,
		ScaleY:   c.ScaleY,
	})
}

func (s *Session) applyStyle(op Operation) error {
	var c styleChanges
	if err := unmarshalChanges(op, op.Style, &c); err != nil {
		return err
	}
	if c.StrokeWidth != nil && *c.StrokeWidth < 0 {
		return fmt.Errorf("%s: negative strokeWidth: %w", op.Type, ErrInvalidOperation)
	}
	return s.engine.UpdateObject(op.ObjectID, document.Patch{
		Fill:        c.Fill,
		Stroke:      c.Stroke,
		StrokeWidth: c.StrokeWidth,
	})
}

func (s *Session) applyText(op Operation) error {
	var c textChanges
	if err := unmarshalChanges(op, op.Text, &c); err != nil {
		return err
	}
	if c.FontSize != nil && *c.FontSize <= 0 {
		return fmt.Errorf("%s: fontSize must be positive: %w", op.Type, ErrInvalidOperation)
	}
	return s.engine.UpdateObject(op.ObjectID, document.Patch{Text: c.Text, FontSize: c.FontSize})
}

func (s *Session) applyVisibility(op Operation) error {
	if op.Visible == nil {
		return fmt.Errorf("%s: missing visible: %w", op.Type, ErrInvalidOperation)
	}
	if err := s.engine.UpdateObject(op.ObjectID, document.VisibilityPatch(*op.Visible)); err != nil {
		return err
	}
	if e, ok := s.layers.LayerFor(op.ObjectID); ok {
		return s.layers.SetVisible(e.ID, *op.Visible)
	}
	return nil
}

func (s *Session) applyLocked(op Operation) error {
	if op.Locked == nil {
		return fmt.Errorf("%s: missing locked: %w", op.Type, ErrInvalidOperation)
	}
	if err := s.engine.UpdateObject(op.ObjectID, document.LockPatch(*op.Locked)); err != nil {
		return err
	}
	if e, ok := s.layers.LayerFor(op.ObjectID); ok {
		return s.layers.SetLocked(e.ID, *op.Locked)
	}
	return nil
}

func (s *Session) applyCreate(op Operation) error {
	if op.Object == nil {
		return fmt.Errorf("%s: missing object: %w", op.Type, ErrInvalidOperation)
	}
	obj := op.Object.Clone()
	if !obj.Kind.Valid() {
		return fmt.Errorf("%s: kind %q: %w", op.Type, obj.Kind, ErrInvalidOperation)
	}
	if obj.ID == "" {
		obj.ID = typeid.NewObjectID()
	} else if s.store.IndexOf(obj.ID) >= 0 {
		return fmt.Errorf("%s: object %q exists: %w", op.Type, obj.ID, ErrInvalidOperation)
	}
	s.engine.AddObjects(obj)
	return nil
}

func unmarshalChanges(op Operation, raw json.RawMessage, v any) error {
	if len(raw) == 0 {
		return fmt.Errorf("%s: missing changes: %w", op.Type, ErrInvalidOperation)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("%s: %w", op.Type, errors.Join(ErrInvalidOperation, err))
	}
	return nil
}

// Submit applies op for a caller that is not connected to the session and
// returns the messages its connected clients should receive.
func (s *Session) Submit(op Operation) (OperationAckPayload, []Envelope, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.actor = ""
	before := s.recorder.frames
	op, seq, err := s.applyOperationLocked(op)
	if err != nil {
		return OperationAckPayload{}, nil, err
	}
	s.queue(TypeOpBroadcast, OperationBroadcastPayload{Operation: op, ServerSeq: seq}, "", "")
	if s.recorder.frames != before {
		s.queueFrame("")
	}
	return OperationAckPayload{OperationID: op.ID, ServerSeq: seq}, s.drain(), nil
}
