package director

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
)

// OverflowMode controls whether a Box clips children that paint past its
// own box (spec §4.3 Box overflow).
type OverflowMode int

const (
	OverflowVisible OverflowMode = iota
	OverflowClip
)

// BoxElement is a solid-filled rectangle, the compositor's
// plainest Element kind — a div-equivalent used for backgrounds, color
// blocks, and pure layout containers. Background color/opacity, corner
// rounding, a border stroke, a drop-shadow, a blur, and overflow clipping
// of its children are all spec §4.3 Box contract.
type BoxElement struct {
	NoopElement
	Fill         *Animated[Color]
	CornerRadius float64

	BorderWidth float64
	BorderColor Color

	ShadowColor   Color
	ShadowBlur    float64
	ShadowOffsetX float64
	ShadowOffsetY float64

	BlurRadius int
	Overflow   OverflowMode

	cache *shaderCache
	pool  *rtPool
}

func NewBoxElement() *BoxElement {
	b := &BoxElement{Fill: NewAnimated(Color{0, 0, 0, 1}, LerpColor)}
	b.style = DefaultStyle()
	b.opacity = -1
	return b
}

// SetShaderContext wires the shader cache and render-target pool a Box
// needs to build its blur/drop-shadow filter chain (spec §4.3); boxes built
// via the scripting bridge get this from the owning Director's context, and
// a bare NewBoxElement() with no context simply never produces those
// filters (corner radius/border still render without them).
func (b *BoxElement) SetShaderContext(cache *shaderCache, pool *rtPool) {
	b.cache = cache
	b.pool = pool
}

func (b *BoxElement) ClipsOverflow() bool { return b.Overflow == OverflowClip }

// Filters builds the blur/drop-shadow post-processing chain configured on
// this box, reusing the Effect element's shader primitives (spec §4.3).
func (b *BoxElement) Filters() []Filter {
	if b.cache == nil || b.pool == nil {
		return nil
	}
	var filters []Filter
	if b.BlurRadius > 0 {
		filters = append(filters, NewBlurFilter(b.BlurRadius, b.pool))
	}
	if b.ShadowBlur > 0 || b.ShadowOffsetX != 0 || b.ShadowOffsetY != 0 {
		filters = append(filters, NewDropShadowFilter(b.ShadowOffsetX, b.ShadowOffsetY, b.ShadowColor, b.cache))
	}
	return filters
}

func (b *BoxElement) Kind() string { return "box" }

func (b *BoxElement) Update(localTime float64) bool {
	b.Fill.Update(localTime)
	return true
}

func (b *BoxElement) AnimateProperty(name string, target float64, duration float64, easing EasingFunc) bool {
	switch name {
	case "fill.a":
		c := b.Fill.CurrentValue
		c.A = target
		b.Fill.AddKeyframe(c, duration, easing)
		return true
	}
	return false
}

func (b *BoxElement) OpacityOverride() (float64, bool) {
	if b.opacity < 0 {
		return 0, false
	}
	return b.opacity, true
}

// Render paints the box's fill over rect. A plain solid fill (no rounding,
// no border) scales a shared 1x1 white source image by GeoM, avoiding a
// per-box shader pass for the common case; corner rounding and/or a border
// stroke are painted with a rounded-rect Kage shader instead (spec §4.3).
// Blur and drop-shadow are separate Filter passes the renderer applies to
// this whole output (see Filters); overflow clipping of drawChildren is the
// renderer's offscreen-surface path, gated by ClipsOverflow.
func (b *BoxElement) Render(ctx *RenderContext, rect Rect, parentOpacity float64, drawChildren func()) {
	if rect.W > 0 && rect.H > 0 && ctx.Dst != nil {
		fill := b.Fill.CurrentValue
		if b.CornerRadius > 0 || b.BorderWidth > 0 {
			b.renderRounded(ctx, rect, parentOpacity, fill)
		} else {
			img := whitePixel()
			op := &ebiten.DrawImageOptions{}
			op.GeoM.Scale(rect.W, rect.H)
			op.GeoM.Concat(ctx.WorldGeoM())
			op.ColorScale.Scale(float32(fill.R), float32(fill.G), float32(fill.B), float32(fill.A))
			op.ColorScale.ScaleAlpha(float32(parentOpacity))
			ctx.Dst.DrawImage(img, op)
		}
	}
	drawChildren()
}

// renderRounded paints a rounded-rect fill with an optional border stroke
// on top via roundedRectShaderSrc, sized to rect and positioned at this
// node's world transform.
func (b *BoxElement) renderRounded(ctx *RenderContext, rect Rect, parentOpacity float64, fill Color) {
	cache := ctx.Shaders
	if cache == nil {
		cache = b.cache
	}
	if cache == nil {
		return
	}
	shader := cache.compile(roundedRectShaderSrc)
	if shader == nil {
		return
	}
	w, h := int(rect.W), int(rect.H)
	if w <= 0 || h <= 0 {
		return
	}

	radius := b.CornerRadius
	maxRadius := rect.W
	if rect.H < maxRadius {
		maxRadius = rect.H
	}
	maxRadius /= 2
	if radius > maxRadius {
		radius = maxRadius
	}

	var op ebiten.DrawRectShaderOptions
	op.GeoM.Concat(ctx.WorldGeoM())
	op.ColorScale.ScaleAlpha(float32(parentOpacity))
	op.Uniforms = map[string]any{
		"Size":        []float32{float32(rect.W), float32(rect.H)},
		"Radius":      float32(radius),
		"FillColor":   []float32{float32(fill.R), float32(fill.G), float32(fill.B), float32(fill.A)},
		"BorderWidth": float32(b.BorderWidth),
		"BorderColor": []float32{float32(b.BorderColor.R), float32(b.BorderColor.G), float32(b.BorderColor.B), float32(b.BorderColor.A)},
	}
	ctx.Dst.DrawRectShader(w, h, shader, &op)
}

var sharedWhitePixel *ebiten.Image

// whitePixel lazily allocates the shared 1x1 opaque source image used for
// solid BoxElement fills.
func whitePixel() *ebiten.Image {
	if sharedWhitePixel == nil {
		sharedWhitePixel = ebiten.NewImage(1, 1)
		sharedWhitePixel.Fill(color.White)
	}
	return sharedWhitePixel
}
