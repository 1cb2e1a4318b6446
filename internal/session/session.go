package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/inamate/canvas/internal/document"
	"github.com/inamate/canvas/internal/engine"
	"github.com/inamate/canvas/internal/geom"
	"github.com/inamate/canvas/internal/layers"
	"github.com/inamate/canvas/internal/raster"
)

var ErrUnknownSession = errors.New("unknown session")

// Options configures a new session.
type Options struct {
	Settings   engine.Settings
	Background string
	Paint      document.PaintDefaults
	// Seed adds the sample scene.
	Seed   bool
	Logger *slog.Logger
}

// Envelope is an outbound message with its audience.
type Envelope struct {
	Message *Message
	// To addresses one client; empty broadcasts to the session.
	To string
	// Exclude skips one client of a broadcast.
	Exclude string
}

// frameRecorder counts render passes so a frame is only sent when the
// engine actually redrew.
type frameRecorder struct {
	*engine.Recorder
	frames int
}

func (r *frameRecorder) Clear(color string) {
	r.frames++
	r.Recorder.Clear(color)
}

type pendingText struct {
	token  int
	client string
	submit func(string)
	cancel func()
}

// Session is one editing surface: a scene, its engine and its layer list.
// Every engine call happens under mu, so the scene has one mutator at a
// time however many clients are connected.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu       sync.Mutex
	store    *document.MemoryStore
	engine   *engine.Engine
	recorder *frameRecorder
	measurer *raster.Canvas
	layers   *layers.List
	presence *PresenceManager
	logger   *slog.Logger

	actor     string
	outbox    []Envelope
	text      *pendingText
	textSeq   int
	serverSeq int64
	opLog     []Operation
}

// New creates a session. Text is measured with the raster font when it
// loads, and estimated otherwise.
func New(id string, opts Options) *Session {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("session", id)

	s := &Session{
		ID:        id,
		CreatedAt: time.Now(),
		store:     document.NewMemoryStore(),
		layers:    layers.NewList(),
		presence:  NewPresenceManager(),
		logger:    logger,
	}
	if opts.Background != "" {
		s.store.SetBackground(opts.Background)
	}
	if opts.Paint != (document.PaintDefaults{}) {
		s.store.SetPaint(opts.Paint)
	}

	var m engine.TextMeasurer
	if canvas, err := raster.New(1, 1, raster.WithLogger(logger)); err != nil {
		logger.Warn("text metrics unavailable, estimating", "error", err)
	} else {
		s.measurer = canvas
		m = canvas
	}
	s.recorder = &frameRecorder{Recorder: engine.NewRecorder(m)}

	s.engine = engine.New(s.store,
		engine.WithSettings(opts.Settings),
		engine.WithLogger(logger),
		engine.WithRenderer(s.recorder),
		engine.WithLayers(s.layers),
		engine.WithTextInput(s),
		engine.OnObjectCreated(s.objectCreated),
		engine.OnSelectionChanged(s.selectionChanged),
	)
	if opts.Seed {
		s.engine.AddObjects(document.NewSampleScene()...)
	}
	return s
}

// Close releases the text measurer.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.measurer == nil {
		return nil
	}
	err := s.measurer.Close()
	s.measurer = nil
	return err
}

// Objects returns a snapshot of the scene.
func (s *Session) Objects() []document.Object {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.Objects()
}

// Layers returns the layer entries front to back.
func (s *Session) Layers() []layers.Entry {
	return s.layers.Entries()
}

// ExportFrame returns the scene as a frame without selection chrome,
// hover outline or preview, at the default view.
func (s *Session) ExportFrame() engine.Frame {
	s.mu.Lock()
	defer s.mu.Unlock()
	return engine.Frame{
		Objects:    s.engine.Objects(),
		View:       document.DefaultView(),
		Background: s.store.Background(),
		Selected:   -1,
		Hovered:    -1,
		Settings:   s.engine.Settings(),
	}
}

// Welcome returns the messages a newly joined client receives.
func (s *Session) Welcome(clientID string) []Envelope {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.actor = clientID
	s.queue(TypeWelcome, WelcomePayload{
		SessionID: s.ID,
		ClientID:  clientID,
		Objects:   s.engine.Objects(),
		Layers:    s.layers.Entries(),
		Tool:      s.store.Tool(),
	}, clientID, "")
	s.queue(TypePresenceState, PresenceStatePayload{Presences: s.presence.GetAll()}, clientID, "")
	s.engine.Redraw()
	s.queueFrame(clientID)
	return s.drain()
}

// Leave drops a client's presence and any text entry it had open.
func (s *Session) Leave(clientID string) []Envelope {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.actor = clientID
	s.presence.Remove(clientID)
	s.queue(TypePresenceLeave, PresenceLeavePayload{ClientID: clientID}, "", clientID)
	if t := s.text; t != nil && t.client == clientID {
		before := s.recorder.frames
		s.text = nil
		t.cancel()
		if s.recorder.frames != before {
			s.queueFrame("")
		}
	}
	return s.drain()
}

// Handle processes one inbound message from clientID and returns the
// messages to deliver.
func (s *Session) Handle(clientID string, msg *Message) []Envelope {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.actor = clientID
	before := s.recorder.frames

	if err := s.dispatch(clientID, msg); err != nil {
		s.logger.Warn("message rejected", "type", msg.Type, "client", clientID, "error", err)
		s.queue(TypeError, ErrorPayload{Error: err.Error()}, clientID, "")
	}

	if s.recorder.frames != before {
		s.queueFrame("")
	}
	return s.drain()
}

func (s *Session) dispatch(clientID string, msg *Message) error {
	switch msg.Type {
	case TypePointerDown, TypePointerMove, TypePointerUp:
		var ev engine.PointerEvent
		if err := decode(msg, &ev); err != nil {
			return err
		}
		switch msg.Type {
		case TypePointerDown:
			s.engine.PointerDown(ev)
		case TypePointerMove:
			s.engine.PointerMove(ev)
			s.updatePresence(clientID, s.store.View().ToWorld(ev.X, ev.Y))
		case TypePointerUp:
			s.engine.PointerUp(ev)
		}
	case TypePointerLeave:
		s.engine.PointerLeave()
	case TypeKeyDown, TypeKeyUp:
		var ev engine.KeyEvent
		if err := decode(msg, &ev); err != nil {
			return err
		}
		if msg.Type == TypeKeyDown {
			s.engine.KeyDown(ev)
		} else {
			s.engine.KeyUp(ev)
		}
	case TypeWheel:
		var ev engine.WheelEvent
		if err := decode(msg, &ev); err != nil {
			return err
		}
		s.engine.Wheel(ev)
	case TypeToolSet:
		var p ToolPayload
		if err := decode(msg, &p); err != nil {
			return err
		}
		return s.engine.SetTool(p.Tool)
	case TypeTextSubmit:
		var p TextSubmitPayload
		if err := decode(msg, &p); err != nil {
			return err
		}
		if t := s.takeText(p.Token); t != nil {
			t.submit(p.Text)
		}
	case TypeTextCancel:
		var p TextCancelPayload
		if err := decode(msg, &p); err != nil {
			return err
		}
		if t := s.takeText(p.Token); t != nil {
			t.cancel()
		}
	case TypeFrameRequest:
		s.engine.Redraw()
	case TypeOpSubmit:
		var p OperationSubmitPayload
		if err := decode(msg, &p); err != nil {
			return err
		}
		s.submitOperation(clientID, p.Operation)
	default:
		return fmt.Errorf("unknown message type %q", msg.Type)
	}
	return nil
}

func (s *Session) submitOperation(clientID string, op Operation) {
	op, seq, err := s.applyOperationLocked(op)
	if err != nil {
		s.logger.Info("operation rejected", "op", op.ID, "type", op.Type, "error", err)
		s.queue(TypeOpNack, OperationNackPayload{OperationID: op.ID, Reason: err.Error()}, clientID, "")
		return
	}
	s.queue(TypeOpAck, OperationAckPayload{OperationID: op.ID, ServerSeq: seq}, clientID, "")
	s.queue(TypeOpBroadcast, OperationBroadcastPayload{Operation: op, ClientID: clientID, ServerSeq: seq}, "", clientID)
}

func (s *Session) updatePresence(clientID string, world geom.Point) {
	_, selected := s.engine.Selected()
	p := &PresencePayload{Cursor: &CursorPos{X: world.X, Y: world.Y}, Selected: selected}
	s.presence.Update(clientID, p)
	s.queue(TypePresenceUpdate, p, "", clientID)
}

// ActivateTextTool opens a text entry on the client that started it. A
// newer entry replaces an unanswered one.
func (s *Session) ActivateTextTool(screen, world geom.Point, submit func(string), cancel func()) {
	s.textSeq++
	s.text = &pendingText{token: s.textSeq, client: s.actor, submit: submit, cancel: cancel}
	s.queue(TypeTextActivate, TextActivatePayload{
		Token:   s.textSeq,
		ScreenX: screen.X,
		ScreenY: screen.Y,
		WorldX:  world.X,
		WorldY:  world.Y,
	}, s.actor, "")
}

// takeText returns and clears the pending entry when token matches it.
func (s *Session) takeText(token int) *pendingText {
	if s.text == nil || s.text.token != token {
		s.logger.Debug("stale text token", "token", token)
		return nil
	}
	t := s.text
	s.text = nil
	return t
}

func (s *Session) objectCreated(obj document.Object, layerID string) {
	s.queue(TypeObjectCreated, ObjectCreatedPayload{Object: obj, LayerID: layerID}, "", "")
}

func (s *Session) selectionChanged(index int, id string) {
	p := SelectionPayload{Index: index, ObjectID: id}
	if e, ok := s.layers.LayerFor(id); ok {
		p.LayerID = e.ID
	}
	s.queue(TypeSelection, p, "", "")
}

func (s *Session) queueFrame(to string) {
	s.queue(TypeFrame, FramePayload{
		Commands: s.recorder.Commands(),
		Mode:     s.engine.Mode().String(),
		Tool:     s.store.Tool(),
	}, to, "")
}

func (s *Session) queue(typ string, payload any, to, exclude string) {
	msg, err := newMessage(typ, payload)
	if err != nil {
		s.logger.Error("marshal message", "type", typ, "error", err)
		return
	}
	msg.SessionID = s.ID
	s.outbox = append(s.outbox, Envelope{Message: msg, To: to, Exclude: exclude})
}

func (s *Session) drain() []Envelope {
	out := s.outbox
	s.outbox = nil
	return out
}

func decode(msg *Message, v any) error {
	if len(msg.Payload) == 0 {
		return fmt.Errorf("%s: missing payload", msg.Type)
	}
	if err := json.Unmarshal(msg.Payload, v); err != nil {
		return fmt.Errorf("%s: %w", msg.Type, err)
	}
	return nil
}
