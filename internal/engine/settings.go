package engine

// Settings are the tunable sizes and limits of the canvas. Lengths named
// "screen" are in screen pixels and are divided by the zoom before use.
type Settings struct {
	HandleRadius    float64 // screen px
	ScaleHitRadius  float64 // screen px
	RotateHitRadius float64 // screen px
	RotateOffset    float64 // screen px, diagonal distance of rotation zones
	PenCloseRadius  float64 // world units
	MinScreenSize   float64 // screen px
	LineHitSlop     float64 // screen px
	DragThreshold   float64 // screen px before a pen press becomes a freehand stroke
	MinZoom         float64
	MaxZoom         float64
	ZoomInFactor    float64
	ZoomOutFactor   float64
	FontSize        float64
	DefaultSize     float64 // side of the square a rectangle click creates
}

// DefaultSettings returns the stock canvas settings.
func DefaultSettings() Settings {
	return Settings{
		HandleRadius:    7,
		ScaleHitRadius:  14,
		RotateHitRadius: 28,
		RotateOffset:    24,
		PenCloseRadius:  10,
		MinScreenSize:   10,
		LineHitSlop:     4,
		DragThreshold:   4,
		MinZoom:         0.1,
		MaxZoom:         20,
		ZoomInFactor:    1.1,
		ZoomOutFactor:   0.9,
		FontSize:        20,
		DefaultSize:     100,
	}
}

// withDefaults fills zero fields from DefaultSettings.
func (s Settings) withDefaults() Settings {
	d := DefaultSettings()
	fill := func(v *float64, def float64) {
		if *v <= 0 {
			*v = def
		}
	}
	fill(&s.HandleRadius, d.HandleRadius)
	fill(&s.ScaleHitRadius, d.ScaleHitRadius)
	fill(&s.RotateHitRadius, d.RotateHitRadius)
	fill(&s.RotateOffset, d.RotateOffset)
	fill(&s.PenCloseRadius, d.PenCloseRadius)
	fill(&s.MinScreenSize, d.MinScreenSize)
	fill(&s.LineHitSlop, d.LineHitSlop)
	fill(&s.DragThreshold, d.DragThreshold)
	fill(&s.MinZoom, d.MinZoom)
	fill(&s.MaxZoom, d.MaxZoom)
	fill(&s.ZoomInFactor, d.ZoomInFactor)
	fill(&s.ZoomOutFactor, d.ZoomOutFactor)
	fill(&s.FontSize, d.FontSize)
	fill(&s.DefaultSize, d.DefaultSize)
	return s
}
