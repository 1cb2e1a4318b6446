package document

// Patch is a partial update; nil fields are left untouched.
type Patch struct {
	StartX *float64 `json:"startX,omitempty"`
	StartY *float64 `json:"startY,omitempty"`
	EndX   *float64 `json:"endX,omitempty"`
	EndY   *float64 `json:"endY,omitempty"`

	Rotation *float64 `json:"rotation,omitempty"`
	ScaleX   *float64 `json:"scaleX,omitempty"`
	ScaleY   *float64 `json:"scaleY,omitempty"`

	Fill        *string  `json:"fill,omitempty"`
	Stroke      *string  `json:"stroke,omitempty"`
	StrokeWidth *float64 `json:"strokeWidth,omitempty"`

	Visible *bool `json:"visible,omitempty"`
	Locked  *bool `json:"locked,omitempty"`

	Shadow       *Shadow       `json:"shadow,omitempty"`
	CornerRadius *CornerRadius `json:"cornerRadius,omitempty"`

	Text     *string  `json:"text,omitempty"`
	FontSize *float64 `json:"fontSize,omitempty"`
}

func ref[T any](v T) *T { return &v }

// RectPatch sets the rest rectangle.
func RectPatch(startX, startY, endX, endY float64) Patch {
	return Patch{StartX: ref(startX), StartY: ref(startY), EndX: ref(endX), EndY: ref(endY)}
}

// WithScale adds scale factors to p.
func (p Patch) WithScale(sx, sy float64) Patch {
	p.ScaleX = ref(sx)
	p.ScaleY = ref(sy)
	return p
}

// RotationPatch sets the rotation.
func RotationPatch(degrees float64) Patch {
	return Patch{Rotation: ref(degrees)}
}

// VisibilityPatch sets the visible flag.
func VisibilityPatch(visible bool) Patch {
	return Patch{Visible: ref(visible)}
}

// LockPatch sets the locked flag.
func LockPatch(locked bool) Patch {
	return Patch{Locked: ref(locked)}
}

// Apply writes the set fields of p into o.
func (p Patch) Apply(o *Object) {
	setIf(&o.StartX, p.StartX)
	setIf(&o.StartY, p.StartY)
	setIf(&o.EndX, p.EndX)
	setIf(&o.EndY, p.EndY)
	setIf(&o.Rotation, p.Rotation)
	if p.ScaleX != nil {
		o.ScaleX = ClampScale(*p.ScaleX)
	}
	if p.ScaleY != nil {
		o.ScaleY = ClampScale(*p.ScaleY)
	}
	setIf(&o.Fill, p.Fill)
	setIf(&o.Stroke, p.Stroke)
	setIf(&o.StrokeWidth, p.StrokeWidth)
	setIf(&o.Visible, p.Visible)
	setIf(&o.Locked, p.Locked)
	if p.Shadow != nil {
		s := *p.Shadow
		o.Shadow = &s
	}
	setIf(&o.CornerRadius, p.CornerRadius)
	setIf(&o.Text, p.Text)
	setIf(&o.FontSize, p.FontSize)
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
