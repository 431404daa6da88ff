package director

import "github.com/hajimehoshi/ebiten/v2"

// TextSpan is one run of a flat, ordered rich-text span list (spec §9:
// "rich formatting composes by per-span attributes, not by nested markup").
type TextSpan struct {
	Text            string
	FontFamily      string
	Weight          int // 100-900, CSS-style
	Italic          bool
	SizePx          float64
	Color           Color
	BackgroundColor *Color
	BackgroundPad   float64
	StrokeWidth     float64
	StrokeColor     Color
	FillGradient    *GradientConfig
}

// GlyphSelector chooses a character range for a TextAnimator: a glyph is
// selected when index/(n-1) lies in [StartPct+OffsetPct, EndPct+OffsetPct]
// (fractions in 0..1). Selection is all-or-nothing; glyphs at the edges
// get no partial weight.
type GlyphSelector struct {
	StartPct, EndPct, OffsetPct float64
}

// TextAnimator mutates per-glyph position/scale/rotation/opacity/fill for
// glyphs within its Selector, staggered by DelayPerGlyph. Tracking is
// advanced by Update but not applied to glyph layout; there is no stroke
// animation.
type TextAnimator struct {
	Selector      GlyphSelector
	DelayPerGlyph float64
	Position      *Animated[[2]float64]
	Scale         *Animated[[2]float64]
	Rotation      *Animated[float64]
	Tracking      *Animated[float64]
	Opacity       *Animated[float64]
	Fill          *Animated[Color]
}

// RenderContext is the draw-time environment an Element paints into: the
// destination surface, the shared shader/render-target caches, and frame
// timing uniforms auto-injected into effect shaders (spec §4.3 Effect).
type RenderContext struct {
	Dst      *ebiten.Image
	World    [6]float64 // this node's world affine transform, for positioning Dst draws
	Assets   *AssetManager
	Pool     *rtPool
	Shaders  *shaderCache
	TimeSec  float64
	ScreenW  int
	ScreenH  int
}

// WorldGeoM builds an ebiten.GeoM from World, for Elements that draw an
// image/shader output positioned at this node's world transform.
func (rc *RenderContext) WorldGeoM() ebiten.GeoM {
	var g ebiten.GeoM
	g.SetElement(0, 0, rc.World[0])
	g.SetElement(0, 1, rc.World[2])
	g.SetElement(1, 0, rc.World[1])
	g.SetElement(1, 1, rc.World[3])
	g.SetElement(0, 2, rc.World[4])
	g.SetElement(1, 2, rc.World[5])
	return g
}

// Element is the contract every polymorphic node body implements (spec
// §4.3). Implementations embed NoopElement and override only the methods
// relevant to their kind.
type Element interface {
	Kind() string
	LayoutStyle() Style
	SetLayoutStyle(Style)
	NeedsMeasure() bool
	Measure(availW, availH float64) (w, h float64)
	Update(localTime float64) bool
	PostLayout(rect Rect)
	// Render paints this node's own content (not its children — call
	// drawChildren for that, at whatever point in the element's own drawing
	// it belongs). rect.W/H are the element's box size; rect.X/Y are not
	// meaningful inside Render (that offset is already folded into
	// ctx.World) — content is anchored at local (0,0).
	Render(ctx *RenderContext, rect Rect, parentOpacity float64, drawChildren func())
	AnimateProperty(name string, target float64, duration float64, easing EasingFunc) bool
	AnimatePropertySpring(name string, target float64, cfg SpringConfig) bool
	SetOpacityOverride(v float64)
	GetAudio(localTime float64, samplesNeeded, sampleRate int) []float32
	SetRichText(spans []TextSpan)
	ModifyTextSpans(visitor func([]TextSpan) []TextSpan)
	AddTextAnimator(anim TextAnimator)
}

// NoopElement supplies default no-op behaviour for every Element method.
// Concrete element kinds embed it and override only what they need — the
// same "most hooks are optional" posture the teacher uses for Node's
// OnUpdate callback, generalised across a whole interface.
type NoopElement struct {
	style   Style
	opacity float64
}

func (e *NoopElement) LayoutStyle() Style          { return e.style }
func (e *NoopElement) SetLayoutStyle(s Style)      { e.style = s }
func (e *NoopElement) NeedsMeasure() bool          { return false }
func (e *NoopElement) Measure(_, _ float64) (float64, float64) { return 0, 0 }
func (e *NoopElement) Update(_ float64) bool       { return false }
func (e *NoopElement) PostLayout(_ Rect)           {}
func (e *NoopElement) AnimateProperty(_ string, _ float64, _ float64, _ EasingFunc) bool {
	return false
}
func (e *NoopElement) AnimatePropertySpring(_ string, _ float64, _ SpringConfig) bool {
	return false
}
func (e *NoopElement) SetOpacityOverride(v float64)                     { e.opacity = v }
func (e *NoopElement) GetAudio(_ float64, _, _ int) []float32           { return nil }
func (e *NoopElement) SetRichText(_ []TextSpan)                        {}
func (e *NoopElement) ModifyTextSpans(_ func([]TextSpan) []TextSpan)   {}
func (e *NoopElement) AddTextAnimator(_ TextAnimator)                  {}
func (e *NoopElement) Kind() string                                    { return "noop" }
func (e *NoopElement) Render(_ *RenderContext, _ Rect, _ float64, drawChildren func()) {
	drawChildren()
}
