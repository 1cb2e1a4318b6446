package document

import (
	"github.com/inamate/canvas/internal/geom"
	"github.com/inamate/canvas/internal/typeid"
)

// NewSampleScene returns one object of every kind, laid out so nothing
// overlaps at the default view.
func NewSampleScene() []Object {
	rect := Object{
		ID:           typeid.NewObjectID(),
		Kind:         KindRectangle,
		StartX:       80,
		StartY:       80,
		EndX:         280,
		EndY:         180,
		ScaleX:       1,
		ScaleY:       1,
		Fill:         "#4F46E5",
		Stroke:       Transparent,
		Visible:      true,
		CornerRadius: UniformRadius(12),
	}
	shadow := DefaultShadow()
	shadow.Enabled = true
	rect.Shadow = &shadow

	ellipse := Object{
		ID:          typeid.NewObjectID(),
		Kind:        KindEllipse,
		StartX:      340,
		StartY:      60,
		EndX:        500,
		EndY:        200,
		Rotation:    15,
		ScaleX:      1,
		ScaleY:      1,
		Fill:        "#F59E0B",
		Stroke:      "#FFFFFF",
		StrokeWidth: 2,
		Visible:     true,
	}

	line := Object{
		ID:          typeid.NewObjectID(),
		Kind:        KindLine,
		StartX:      80,
		StartY:      260,
		EndX:        280,
		EndY:        320,
		ScaleX:      1,
		ScaleY:      1,
		Fill:        Transparent,
		Stroke:      "#10B981",
		StrokeWidth: 4,
		Visible:     true,
	}

	pen := NewPenPath(typeid.NewObjectID(), []geom.Point{
		{X: 340, Y: 260}, {X: 420, Y: 240}, {X: 500, Y: 300}, {X: 400, Y: 340},
	}, true)
	pen.Fill = "#EC4899"
	pen.Stroke = "#FFFFFF"
	pen.StrokeWidth = 2

	text := Object{
		ID:       typeid.NewObjectID(),
		Kind:     KindText,
		StartX:   80,
		StartY:   380,
		EndX:     80 + 11*DefaultFontSize*0.6,
		EndY:     380 + DefaultFontSize,
		ScaleX:   1,
		ScaleY:   1,
		Fill:     "#FFFFFF",
		Stroke:   Transparent,
		Visible:  true,
		Text:     "Hello, Go!",
		FontSize: DefaultFontSize,
	}

	return []Object{rect, ellipse, line, pen, text}
}
