package engine

import (
	"github.com/inamate/canvas/internal/document"
	"github.com/inamate/canvas/internal/geom"
)

// penDown places anchors. The first press starts authoring; a press near
// the first anchor closes the path once three anchors exist, and the
// second press of a double-click finishes an open path.
func (c *Controller) penDown(world, screen geom.Point, clicks int) Outcome {
	g := &c.gesture
	if g.Mode != ModePenAuthoring {
		c.gesture = GestureState{
			Mode:        ModePenAuthoring,
			Anchors:     []geom.Point{world},
			Pressed:     true,
			PressScreen: screen,
			Current:     world,
		}
		return redraw
	}

	g.Pressed = true
	first := g.Anchors[0]
	if len(g.Anchors) >= 3 && geom.Distance(world.X, world.Y, first.X, first.Y) < c.settings.PenCloseRadius {
		closed := append(clonePoints(g.Anchors), first)
		return c.commitPen(closed, true)
	}
	if clicks >= 2 && len(g.Anchors) >= 2 {
		return c.commitPen(g.Anchors, false)
	}

	g.Anchors = append(g.Anchors, world)
	g.Current = world
	return redraw
}

// penMove tracks the rubber band to the cursor. Dragging during the first
// press turns the gesture into a freehand stroke; drags on later presses
// are ignored.
func (c *Controller) penMove(world, screen geom.Point) Outcome {
	g := &c.gesture
	g.Current = world
	if g.Pressed && len(g.Anchors) == 1 {
		moved := screen.Sub(g.PressScreen).Len()
		if moved > c.settings.DragThreshold {
			g.Mode = ModeDrawing
			g.Kind = document.KindPen
			g.Freehand = true
			g.Anchors = append(g.Anchors, world)
		}
	}
	return redraw
}

func (c *Controller) extendFreehand(world geom.Point) Outcome {
	g := &c.gesture
	last := g.Anchors[len(g.Anchors)-1]
	if world.Sub(last).Len() < 0.5/c.zoom() {
		return Outcome{}
	}
	g.Anchors = append(g.Anchors, world)
	return redraw
}

// finishPen ends authoring: a lone anchor is dropped, two or more become
// an open path.
func (c *Controller) finishPen() Outcome {
	if len(c.gesture.Anchors) < 2 {
		c.gesture = GestureState{}
		return redraw
	}
	return c.commitPen(c.gesture.Anchors, false)
}

// commitPen turns anchors into a pen object. Closed paths take the fill
// colour; open paths are stroke only.
func (c *Controller) commitPen(anchors []geom.Point, closed bool) Outcome {
	if len(anchors) < 2 {
		c.gesture = GestureState{}
		return redraw
	}
	paint := c.store.Paint()
	obj := document.NewPenPath("", clonePoints(anchors), closed)
	obj.Stroke = paint.Stroke
	obj.StrokeWidth = paint.StrokeWidth
	obj.Fill = document.Transparent
	if closed {
		obj.Fill = paint.Fill
	}
	return c.commit(obj)
}
