package engine

import (
	"log/slog"
	"strings"

	"github.com/inamate/canvas/internal/document"
	"github.com/inamate/canvas/internal/geom"
)

// Outcome lists the side effects of one controller transition. The store
// has already been mutated when it is returned; the caller notifies
// collaborators and redraws.
type Outcome struct {
	Redraw           bool
	SelectionChanged bool
	ToolChanged      bool
	// Created is the object committed by this transition.
	Created *document.Object
	// Removed is the id of an object deleted by this transition.
	Removed string
	// ActivateText asks the caller to open the text input.
	ActivateText bool
}

func (o Outcome) merge(other Outcome) Outcome {
	o.Redraw = o.Redraw || other.Redraw
	o.SelectionChanged = o.SelectionChanged || other.SelectionChanged
	o.ToolChanged = o.ToolChanged || other.ToolChanged
	o.ActivateText = o.ActivateText || other.ActivateText
	if other.Created != nil {
		o.Created = other.Created
	}
	if other.Removed != "" {
		o.Removed = other.Removed
	}
	return o
}

var redraw = Outcome{Redraw: true}

// Controller is the gesture state machine. It reads and mutates the store
// and keeps selection, hover and the current gesture.
type Controller struct {
	store    Store
	settings Settings
	hits     HitTester
	logger   *slog.Logger
	newID    func() string

	gesture GestureState
	// suspended holds pen authoring while a pan runs.
	suspended *GestureState

	selectedID string
	hoveredID  string
	spaceHeld  bool
	textSeq    int
}

// NewController wires a controller to a store.
func NewController(store Store, settings Settings, hits HitTester, newID func() string, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	hits.Logger = logger
	if hits.LineSlop <= 0 {
		hits.LineSlop = settings.LineHitSlop
	}
	return &Controller{
		store:    store,
		settings: settings.withDefaults(),
		hits:     hits,
		logger:   logger,
		newID:    newID,
	}
}

// Gesture returns a copy of the current gesture state.
func (c *Controller) Gesture() GestureState {
	return c.gesture
}

// Mode returns the current state.
func (c *Controller) Mode() Mode {
	return c.gesture.Mode
}

// Selected returns the selected index and id, or -1 and "".
func (c *Controller) Selected() (int, string) {
	if c.selectedID == "" {
		return -1, ""
	}
	i := c.store.IndexOf(c.selectedID)
	if i < 0 {
		return -1, ""
	}
	return i, c.selectedID
}

// Hovered returns the hovered index, or -1.
func (c *Controller) Hovered() int {
	if c.hoveredID == "" {
		return -1
	}
	return c.store.IndexOf(c.hoveredID)
}

// Select selects the object with id; "" clears the selection.
func (c *Controller) Select(id string) Outcome {
	if id == c.selectedID {
		return Outcome{}
	}
	c.selectedID = id
	return Outcome{Redraw: true, SelectionChanged: true}
}

func (c *Controller) zoom() float64 {
	return c.store.View().Zoom()
}

func (c *Controller) world(x, y float64) geom.Point {
	return c.store.View().ToWorld(x, y)
}

func (c *Controller) selection() (document.Object, bool) {
	i, _ := c.Selected()
	if i < 0 {
		return document.Object{}, false
	}
	return c.store.Object(i)
}

func (c *Controller) wantsPan(ev PointerEvent) bool {
	return ev.Button == ButtonMiddle || ev.Mods.Has(ModMeta) || c.spaceHeld
}

// PointerDown routes a press by tool: pan first, then selection handles,
// then objects, then the creation tools.
func (c *Controller) PointerDown(ev PointerEvent) Outcome {
	var out Outcome
	if c.gesture.Mode == ModeTextEditing {
		out = c.cancelText()
	}

	screen := geom.Pt(ev.X, ev.Y)
	if c.wantsPan(ev) {
		return out.merge(c.beginPan(screen))
	}
	if ev.Button != ButtonPrimary {
		return out
	}
	if c.gesture.active() && c.gesture.Mode != ModePenAuthoring {
		c.logger.Warn("pointer down during active gesture, ignoring", "mode", c.gesture.Mode)
		return out
	}

	world := c.world(ev.X, ev.Y)
	tool := c.store.Tool()
	switch {
	case tool.Selects():
		return out.merge(c.selectDown(world))
	case tool == document.ToolPen:
		return out.merge(c.penDown(world, screen, ev.Clicks))
	case tool == document.ToolText:
		return out.merge(c.textDown(world, screen))
	}

	kind, ok := tool.ShapeKind()
	if !ok {
		return out
	}
	c.gesture = GestureState{Mode: ModeDrawing, Kind: kind, Start: world, Current: world}
	return out.merge(redraw)
}

func (c *Controller) beginPan(screen geom.Point) Outcome {
	switch {
	case c.gesture.Mode == ModePenAuthoring:
		g := c.gesture
		g.Pressed = false
		c.suspended = &g
	case c.gesture.active():
		return Outcome{}
	}
	c.gesture = GestureState{Mode: ModePanning, PanLast: screen}
	return Outcome{}
}

func (c *Controller) selectDown(world geom.Point) Outcome {
	zoom := c.zoom()
	if sel, ok := c.selection(); ok && sel.Visible && !sel.Locked {
		handles := GenerateHandles(sel, c.settings.RotateOffset/zoom)
		h, hit := HitTestHandles(world, handles, HandleRadii{
			Rotate: c.settings.RotateHitRadius / zoom,
			Scale:  c.settings.ScaleHitRadius / zoom,
			Grip:   c.settings.HandleRadius / zoom,
		})
		if hit {
			c.beginHandle(sel, h, world)
			return redraw
		}
	}

	objs := c.store.Objects()
	i := c.hits.HitTest(world, objs, zoom)
	if i < 0 {
		return c.Select("").merge(redraw)
	}

	o := objs[i]
	out := c.Select(o.ID)
	snap := o.Clone()
	c.gesture = GestureState{
		Mode:      ModeDragging,
		TargetID:  o.ID,
		Snapshot:  &snap,
		DragStart: world,
	}
	return out.merge(redraw)
}

func (c *Controller) beginHandle(sel document.Object, h Handle, world geom.Point) {
	snap := sel.Clone()
	g := GestureState{
		TargetID:  sel.ID,
		Snapshot:  &snap,
		Handle:    h.Position,
		HasHandle: true,
		DragStart: world,
	}
	if h.Action == ActionRotate {
		center := snap.Center()
		g.Mode = ModeRotating
		g.StartAngle = geom.Angle(center.X, center.Y, world.X, world.Y)
		g.StartRotation = snap.Rotation
	} else {
		g.Mode = ModeScaling
		g.Pivot = HandleWorld(snap, h.Position.Opposite())
		g.HasPivot = true
		g.GrabOffset = h.Point().Sub(world)
	}
	c.gesture = g
}

func (c *Controller) textDown(world, screen geom.Point) Outcome {
	c.textSeq++
	c.gesture = GestureState{
		Mode:       ModeTextEditing,
		TextScreen: screen,
		TextWorld:  world,
		TextToken:  c.textSeq,
	}
	return Outcome{ActivateText: true}
}

// PointerMove advances the current gesture, or updates hover when idle.
func (c *Controller) PointerMove(ev PointerEvent) Outcome {
	world := c.world(ev.X, ev.Y)
	g := &c.gesture

	switch g.Mode {
	case ModeDrawing:
		if g.Freehand {
			return c.extendFreehand(world)
		}
		g.Current = world
		return redraw
	case ModePenAuthoring:
		return c.penMove(world, geom.Pt(ev.X, ev.Y))
	case ModeDragging:
		return c.dragTo(world)
	case ModeScaling:
		return c.scaleTo(world, ev.Mods)
	case ModeRotating:
		return c.rotateTo(world)
	case ModePanning:
		screen := geom.Pt(ev.X, ev.Y)
		d := screen.Sub(g.PanLast)
		g.PanLast = screen
		c.store.SetView(c.store.View().Panned(d.X, d.Y))
		return redraw
	case ModeIdle:
		if !c.store.Tool().Selects() {
			return Outcome{}
		}
		return c.hover(world)
	}
	return Outcome{}
}

func (c *Controller) hover(world geom.Point) Outcome {
	objs := c.store.Objects()
	id := ""
	if i := c.hits.HitTest(world, objs, c.zoom()); i >= 0 {
		id = objs[i].ID
	}
	if id == c.hoveredID {
		return Outcome{}
	}
	c.hoveredID = id
	return redraw
}

// target resolves the object a transform gesture acts on.
func (c *Controller) target() (int, *document.Object, bool) {
	g := c.gesture
	if g.Snapshot == nil {
		c.logger.Warn("transform gesture without snapshot", "mode", g.Mode)
		return -1, nil, false
	}
	i := c.store.IndexOf(g.TargetID)
	if i < 0 {
		c.logger.Warn("transform target missing", "mode", g.Mode, "object", g.TargetID)
		return -1, nil, false
	}
	return i, g.Snapshot, true
}

func (c *Controller) dragTo(world geom.Point) Outcome {
	i, snap, ok := c.target()
	if !ok {
		return Outcome{}
	}
	d := world.Sub(c.gesture.DragStart)
	moved := snap.Translated(d.X, d.Y)
	return c.update(i, document.RectPatch(moved.StartX, moved.StartY, moved.EndX, moved.EndY))
}

func (c *Controller) scaleTo(world geom.Point, mods Modifiers) Outcome {
	i, snap, ok := c.target()
	if !ok {
		return Outcome{}
	}
	if !c.gesture.HasPivot || !c.gesture.HasHandle {
		c.logger.Warn("scale gesture without pivot", "object", c.gesture.TargetID)
		return Outcome{}
	}
	keep := c.store.AspectRatioLocked() || (mods.Has(ModShift) && c.gesture.Handle.IsCorner())
	p := ScaleAboutPivot(ScaleRequest{
		Snapshot:      *snap,
		Handle:        c.gesture.Handle,
		Pivot:         c.gesture.Pivot,
		Pointer:       world.Add(c.gesture.GrabOffset),
		KeepAspect:    keep,
		MinScreenSize: c.settings.MinScreenSize,
		Zoom:          c.zoom(),
	})
	return c.update(i, p)
}

func (c *Controller) rotateTo(world geom.Point) Outcome {
	i, snap, ok := c.target()
	if !ok {
		return Outcome{}
	}
	rot := RotateFromPointer(c.gesture.StartRotation, c.gesture.StartAngle, snap.Center(), world)
	return c.update(i, document.RotationPatch(rot))
}

func (c *Controller) update(i int, p document.Patch) Outcome {
	if err := c.store.UpdateObject(i, p); err != nil {
		c.logger.Warn("update object", "index", i, "error", err)
		return Outcome{}
	}
	return redraw
}

// PointerUp ends the current gesture, committing drawn shapes.
func (c *Controller) PointerUp(ev PointerEvent) Outcome {
	g := &c.gesture
	switch g.Mode {
	case ModeDrawing:
		if g.Freehand {
			return c.commitPen(g.Anchors, false)
		}
		g.Current = c.world(ev.X, ev.Y)
		return c.commitShape()
	case ModePenAuthoring:
		g.Pressed = false
		return Outcome{}
	case ModeDragging, ModeScaling, ModeRotating:
		c.gesture = GestureState{}
		return redraw
	case ModePanning:
		c.endPan()
		return redraw
	}
	return Outcome{}
}

func (c *Controller) endPan() {
	if c.suspended != nil {
		c.gesture = *c.suspended
		c.suspended = nil
		return
	}
	c.gesture = GestureState{}
}

// PointerLeave abandons press-and-drag gestures. Pen authoring ends the
// way a tool switch ends it: two or more anchors become an open path, a
// lone anchor is dropped.
func (c *Controller) PointerLeave() Outcome {
	out := Outcome{}
	if c.hoveredID != "" {
		c.hoveredID = ""
		out = redraw
	}
	if c.gesture.Mode == ModePanning {
		c.endPan()
		out = out.merge(redraw)
	}
	switch c.gesture.Mode {
	case ModeDrawing, ModeDragging, ModeScaling, ModeRotating:
		return out.merge(c.CancelActiveGesture())
	case ModePenAuthoring:
		return out.merge(c.finishPen())
	}
	return out
}

// CancelActiveGesture drops the gesture. An object part way through a
// drag, scale or rotate is put back as it was at pointer-down.
func (c *Controller) CancelActiveGesture() Outcome {
	g := c.gesture
	c.gesture = GestureState{}
	c.suspended = nil
	if !g.active() {
		return Outcome{}
	}
	if g.transforming() && g.Snapshot != nil {
		if i := c.store.IndexOf(g.TargetID); i >= 0 {
			c.update(i, restorePatch(*g.Snapshot))
		}
	}
	return redraw
}

func restorePatch(o document.Object) document.Patch {
	p := document.RectPatch(o.StartX, o.StartY, o.EndX, o.EndY)
	sx, sy := o.Scale()
	p = p.WithScale(sx, sy)
	p.Rotation = &o.Rotation
	return p
}

// KeyDown handles Escape, Enter, Delete and the space-bar pan modifier.
func (c *Controller) KeyDown(ev KeyEvent) Outcome {
	switch ev.Key {
	case KeySpace:
		c.spaceHeld = true
		return Outcome{}
	case KeyEscape:
		return c.escape()
	case KeyEnter:
		if c.gesture.Mode == ModePenAuthoring && len(c.gesture.Anchors) >= 2 {
			return c.commitPen(c.gesture.Anchors, false)
		}
	case KeyDelete, KeyBackspace:
		return c.deleteSelection()
	}
	return Outcome{}
}

// KeyUp releases the space-bar pan modifier.
func (c *Controller) KeyUp(ev KeyEvent) Outcome {
	if ev.Key == KeySpace {
		c.spaceHeld = false
	}
	return Outcome{}
}

func (c *Controller) escape() Outcome {
	switch c.gesture.Mode {
	case ModePenAuthoring:
		return c.finishPen()
	case ModeTextEditing:
		return c.cancelText()
	case ModeIdle:
		return c.Select("")
	default:
		return c.CancelActiveGesture()
	}
}

func (c *Controller) deleteSelection() Outcome {
	if c.gesture.active() {
		return Outcome{}
	}
	i, id := c.Selected()
	if i < 0 {
		return Outcome{}
	}
	if err := c.store.RemoveObject(i); err != nil {
		c.logger.Warn("remove object", "object", id, "error", err)
		return Outcome{}
	}
	c.selectedID = ""
	if c.hoveredID == id {
		c.hoveredID = ""
	}
	return Outcome{Redraw: true, SelectionChanged: true, Removed: id}
}

// Wheel zooms about the cursor with ctrl or meta held, and pans otherwise.
func (c *Controller) Wheel(ev WheelEvent) Outcome {
	view := c.store.View()
	if ev.Mods.Has(ModCtrl) || ev.Mods.Has(ModMeta) {
		if ev.DeltaY == 0 {
			return Outcome{}
		}
		factor := c.settings.ZoomInFactor
		if ev.DeltaY > 0 {
			factor = c.settings.ZoomOutFactor
		}
		c.store.SetView(view.ZoomedAt(ev.X, ev.Y, factor, c.settings.MinZoom, c.settings.MaxZoom))
		return redraw
	}
	if ev.DeltaX == 0 && ev.DeltaY == 0 {
		return Outcome{}
	}
	c.store.SetView(view.Panned(-ev.DeltaX, -ev.DeltaY))
	return redraw
}

// SetTool switches tools. A pen path with at least two anchors is
// committed; any other gesture is cancelled.
func (c *Controller) SetTool(t document.Tool) Outcome {
	if t == c.store.Tool() {
		return Outcome{}
	}
	var out Outcome
	if c.gesture.Mode == ModePenAuthoring && len(c.gesture.Anchors) >= 2 {
		out = c.commitPen(c.gesture.Anchors, false)
	} else {
		out = c.CancelActiveGesture()
	}
	c.store.SetTool(t)
	if !t.Selects() {
		c.hoveredID = ""
	}
	out.ToolChanged = true
	out.Redraw = true
	return out
}

func (c *Controller) commitShape() Outcome {
	g := c.gesture
	start, end := g.Start, g.Current
	if start == end {
		if g.Kind != document.KindRectangle {
			c.logger.Debug("discarding zero-size shape", "kind", g.Kind)
			c.gesture = GestureState{}
			return redraw
		}
		end = start.Add(geom.Pt(c.settings.DefaultSize, c.settings.DefaultSize))
	}

	paint := c.store.Paint()
	obj := document.Object{
		Kind:        g.Kind,
		StartX:      start.X,
		StartY:      start.Y,
		EndX:        end.X,
		EndY:        end.Y,
		ScaleX:      1,
		ScaleY:      1,
		Fill:        paint.Fill,
		Stroke:      paint.Stroke,
		StrokeWidth: paint.StrokeWidth,
		Visible:     true,
	}
	if g.Kind == document.KindLine {
		obj.Fill = document.Transparent
	}
	return c.commit(obj)
}

// SubmitText commits the text entry identified by token. Stale tokens and
// blank text are ignored.
func (c *Controller) SubmitText(token int, text string) Outcome {
	g := c.gesture
	if g.Mode != ModeTextEditing || g.TextToken != token {
		c.logger.Debug("stale text submit", "token", token)
		return Outcome{}
	}
	if strings.TrimSpace(text) == "" {
		c.gesture = GestureState{}
		return redraw
	}

	size := c.settings.FontSize
	width := c.hits.measure(text, size)
	obj := document.Object{
		Kind:     document.KindText,
		StartX:   g.TextWorld.X,
		StartY:   g.TextWorld.Y,
		EndX:     g.TextWorld.X + width,
		EndY:     g.TextWorld.Y + size,
		ScaleX:   1,
		ScaleY:   1,
		Fill:     c.store.Paint().Fill,
		Stroke:   document.Transparent,
		Visible:  true,
		Text:     text,
		FontSize: size,
	}
	return c.commit(obj)
}

// CancelText abandons the text entry identified by token.
func (c *Controller) CancelText(token int) Outcome {
	if c.gesture.Mode != ModeTextEditing || c.gesture.TextToken != token {
		return Outcome{}
	}
	return c.cancelText()
}

func (c *Controller) cancelText() Outcome {
	c.gesture = GestureState{}
	return redraw
}

// commit adds obj, selects it and returns to the select tool.
func (c *Controller) commit(obj document.Object) Outcome {
	c.gesture = GestureState{}
	if c.newID != nil {
		obj.ID = c.newID()
	}
	id := c.store.AddObject(obj)
	committed, ok := c.store.Object(c.store.IndexOf(id))
	if !ok {
		c.logger.Warn("committed object not found in store", "object", id)
		return redraw
	}

	out := Outcome{Redraw: true, Created: &committed, SelectionChanged: c.selectedID != id}
	c.selectedID = id
	if c.store.Tool() != document.ToolSelect {
		c.store.SetTool(document.ToolSelect)
		out.ToolChanged = true
	}
	return out
}

// Preview is the in-progress shape drawn on top of the scene.
type Preview struct {
	Kind   document.Kind
	Start  geom.Point
	End    geom.Point
	Points []geom.Point
	// Cursor trails the last pen anchor while authoring.
	Cursor    geom.Point
	HasCursor bool
	Closed    bool
}

// Preview returns the live shape, or nil when nothing is being drawn.
func (c *Controller) Preview() *Preview {
	g := c.gesture
	if g.Mode == ModePanning && c.suspended != nil {
		g = *c.suspended
	}
	switch g.Mode {
	case ModeDrawing:
		if g.Freehand {
			return &Preview{Kind: document.KindPen, Points: clonePoints(g.Anchors)}
		}
		return &Preview{Kind: g.Kind, Start: g.Start, End: g.Current}
	case ModePenAuthoring:
		return &Preview{
			Kind:      document.KindPen,
			Points:    clonePoints(g.Anchors),
			Cursor:    g.Current,
			HasCursor: true,
		}
	}
	return nil
}

func clonePoints(pts []geom.Point) []geom.Point {
	out := make([]geom.Point, len(pts))
	copy(out, pts)
	return out
}
