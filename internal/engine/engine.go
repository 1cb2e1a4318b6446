package engine

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/inamate/canvas/internal/document"
	"github.com/inamate/canvas/internal/typeid"
)

var (
	ErrUnknownObject = errors.New("unknown object")
	ErrInvalidTool   = errors.New("invalid tool")
)

// Engine owns the gesture controller and drives the render pass. It
// processes input events from the host and reports changes through the
// layer list and callbacks. It is not safe for concurrent use.
type Engine struct {
	store    Store
	ctrl     *Controller
	pass     RenderPass
	renderer Renderer
	layers   LayerList
	text     TextInput
	logger   *slog.Logger
	settings Settings
	newID    func() string

	onSelection func(index int, id string)
	onCreated   func(obj document.Object, layerID string)
}

type Option func(*Engine)

func WithSettings(s Settings) Option {
	return func(e *Engine) { e.settings = s }
}

func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithRenderer sets the surface Redraw paints on. It also answers text
// measurement for hit testing.
func WithRenderer(r Renderer) Option {
	return func(e *Engine) { e.renderer = r }
}

func WithLayers(l LayerList) Option {
	return func(e *Engine) { e.layers = l }
}

func WithTextInput(t TextInput) Option {
	return func(e *Engine) { e.text = t }
}

// WithIDSource replaces the object id generator.
func WithIDSource(f func() string) Option {
	return func(e *Engine) { e.newID = f }
}

// OnSelectionChanged registers a callback for selection changes; index
// is -1 and id empty when the selection is cleared.
func OnSelectionChanged(f func(index int, id string)) Option {
	return func(e *Engine) { e.onSelection = f }
}

// OnObjectCreated registers a callback for committed objects.
func OnObjectCreated(f func(obj document.Object, layerID string)) Option {
	return func(e *Engine) { e.onCreated = f }
}

// New creates an engine over store.
func New(store Store, opts ...Option) *Engine {
	e := &Engine{
		store:    store,
		settings: DefaultSettings(),
		logger:   slog.Default(),
		newID:    typeid.NewObjectID,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.settings = e.settings.withDefaults()
	e.pass = RenderPass{Logger: e.logger}

	var m TextMeasurer
	if e.renderer != nil {
		m = e.renderer
	}
	e.ctrl = NewController(store, e.settings, HitTester{Measurer: m}, e.newID, e.logger)
	return e
}

// --- Commands (host → engine) ---

func (e *Engine) PointerDown(ev PointerEvent) {
	e.apply(e.ctrl.PointerDown(ev))
}

func (e *Engine) PointerMove(ev PointerEvent) {
	e.apply(e.ctrl.PointerMove(ev))
}

func (e *Engine) PointerUp(ev PointerEvent) {
	e.apply(e.ctrl.PointerUp(ev))
}

func (e *Engine) PointerLeave() {
	e.apply(e.ctrl.PointerLeave())
}

func (e *Engine) KeyDown(ev KeyEvent) {
	e.apply(e.ctrl.KeyDown(ev))
}

func (e *Engine) KeyUp(ev KeyEvent) {
	e.apply(e.ctrl.KeyUp(ev))
}

func (e *Engine) Wheel(ev WheelEvent) {
	e.apply(e.ctrl.Wheel(ev))
}

// SetTool switches the active tool.
func (e *Engine) SetTool(t document.Tool) error {
	if !t.Valid() {
		return fmt.Errorf("set tool %q: %w", t, ErrInvalidTool)
	}
	e.apply(e.ctrl.SetTool(t))
	return nil
}

// CancelActiveGesture abandons any drag, scale, rotate, draw, pan, pen or
// text gesture in progress.
func (e *Engine) CancelActiveGesture() {
	e.apply(e.ctrl.CancelActiveGesture())
}

// SelectByID selects the object with id. The id must exist.
func (e *Engine) SelectByID(id string) error {
	if e.store.IndexOf(id) < 0 {
		return fmt.Errorf("select %q: %w", id, ErrUnknownObject)
	}
	e.apply(e.ctrl.Select(id))
	return nil
}

// ClearSelection deselects.
func (e *Engine) ClearSelection() {
	e.apply(e.ctrl.Select(""))
}

// AddObjects appends existing objects, registering each with the layer
// list. Selection and tool are left alone.
func (e *Engine) AddObjects(objs ...document.Object) {
	for _, o := range objs {
		if o.ID == "" {
			o.ID = e.newID()
		}
		id := e.store.AddObject(o)
		if e.layers == nil {
			continue
		}
		stored, _ := e.store.Object(e.store.IndexOf(id))
		if _, err := e.layers.ObjectCreated(stored); err != nil {
			e.logger.Warn("layer list rejected object", "object", id, "error", err)
		}
	}
	e.Redraw()
}

// UpdateObject applies a partial update to the object with id. Text and
// font size edits re-measure a text object's box from its start point.
func (e *Engine) UpdateObject(id string, p document.Patch) error {
	i := e.store.IndexOf(id)
	if i < 0 {
		return fmt.Errorf("update %q: %w", id, ErrUnknownObject)
	}
	if p.Text != nil || p.FontSize != nil {
		p = e.fitText(i, p)
	}
	if err := e.store.UpdateObject(i, p); err != nil {
		return fmt.Errorf("update %q: %w", id, err)
	}
	e.Redraw()
	return nil
}

// fitText extends p so that a text object's rest rect matches the edited
// text at the edited size.
func (e *Engine) fitText(i int, p document.Patch) document.Patch {
	cur, ok := e.store.Object(i)
	if !ok || cur.Kind != document.KindText {
		return p
	}
	next := cur.Clone()
	p.Apply(&next)
	size := fontSize(next)
	endX := next.StartX + e.ctrl.hits.measure(next.Text, size)
	endY := next.StartY + size
	p.EndX, p.EndY = &endX, &endY
	return p
}

// RemoveObject deletes the object with id together with its layer.
func (e *Engine) RemoveObject(id string) error {
	i := e.store.IndexOf(id)
	if i < 0 {
		return fmt.Errorf("remove %q: %w", id, ErrUnknownObject)
	}

	var out Outcome
	if g := e.ctrl.Gesture(); g.TargetID == id {
		out = e.ctrl.CancelActiveGesture()
	}
	if err := e.store.RemoveObject(i); err != nil {
		return fmt.Errorf("remove %q: %w", id, err)
	}
	if e.ctrl.selectedID == id {
		out = out.merge(e.ctrl.Select(""))
	}
	if e.ctrl.hoveredID == id {
		e.ctrl.hoveredID = ""
	}
	out.Removed = id
	out.Redraw = true
	e.apply(out)
	return nil
}

// SubmitText and CancelText end the text entry opened for token. Most
// hosts use the closures handed to TextInput instead.
func (e *Engine) SubmitText(token int, text string) {
	e.apply(e.ctrl.SubmitText(token, text))
}

func (e *Engine) CancelText(token int) {
	e.apply(e.ctrl.CancelText(token))
}

// Redraw runs a render pass on the configured renderer.
func (e *Engine) Redraw() {
	if e.renderer == nil {
		return
	}
	e.pass.Render(e.renderer, e.Frame())
}

// Render runs a render pass on r.
func (e *Engine) Render(r Renderer) {
	e.pass.Render(r, e.Frame())
}

// --- Queries (host ← engine) ---

// Objects returns a snapshot of the object list.
func (e *Engine) Objects() []document.Object {
	return e.store.Objects()
}

// Selected returns the selected index and id, or -1 and "".
func (e *Engine) Selected() (int, string) {
	return e.ctrl.Selected()
}

func (e *Engine) Hovered() int {
	return e.ctrl.Hovered()
}

func (e *Engine) Mode() Mode {
	return e.ctrl.Mode()
}

func (e *Engine) Gesture() GestureState {
	return e.ctrl.Gesture()
}

func (e *Engine) Store() Store {
	return e.store
}

func (e *Engine) Settings() Settings {
	return e.settings
}

// Frame assembles the render pass input from the current state.
func (e *Engine) Frame() Frame {
	sel, _ := e.ctrl.Selected()
	return Frame{
		Objects:     e.store.Objects(),
		View:        e.store.View(),
		Background:  e.store.Background(),
		Selected:    sel,
		Hovered:     e.ctrl.Hovered(),
		ShowHandles: e.store.Tool().Selects(),
		Preview:     e.ctrl.Preview(),
		Paint:       e.store.Paint(),
		Settings:    e.settings,
	}
}

// apply carries out the side effects of a controller transition: layer
// list and callback notifications first, then the redraw.
func (e *Engine) apply(out Outcome) {
	if out.Created != nil {
		e.created(*out.Created)
	}
	if out.Removed != "" {
		e.logger.Info("object removed", "object", out.Removed)
		if e.layers != nil {
			if err := e.layers.ObjectRemoved(out.Removed); err != nil {
				e.logger.Warn("layer list remove", "object", out.Removed, "error", err)
			}
		}
	}
	if out.SelectionChanged {
		i, id := e.ctrl.Selected()
		if e.layers != nil {
			e.layers.ObjectSelected(id)
		}
		if e.onSelection != nil {
			e.onSelection(i, id)
		}
	}
	if out.ToolChanged {
		e.logger.Debug("tool changed", "tool", e.store.Tool())
	}
	if out.ActivateText {
		e.activateText()
	}
	if out.Redraw {
		e.Redraw()
	}
}

func (e *Engine) created(obj document.Object) {
	layerID := ""
	if e.layers != nil {
		id, err := e.layers.ObjectCreated(obj)
		if err != nil {
			e.logger.Warn("layer list rejected object", "object", obj.ID, "error", err)
		}
		layerID = id
	}
	e.logger.Info("object created", "object", obj.ID, "kind", obj.Kind, "layer", layerID)
	if e.onCreated != nil {
		e.onCreated(obj, layerID)
	}
}

func (e *Engine) activateText() {
	g := e.ctrl.Gesture()
	token := g.TextToken
	if e.text == nil {
		e.logger.Warn("text tool used without a text input")
		e.ctrl.CancelText(token)
		return
	}
	e.text.ActivateTextTool(g.TextScreen, g.TextWorld,
		func(text string) { e.SubmitText(token, text) },
		func() { e.CancelText(token) },
	)
}
