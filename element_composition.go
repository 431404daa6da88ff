package director

import "github.com/hajimehoshi/ebiten/v2"

// CompositionElement embeds an independently-timed sub-Director: its own
// Scene and Timeline run on a local clock offset from the parent's
// globalTime, but share the parent's AssetManager/shader cache/render
// target pool via DirectorContext rather than constructing new ones
// (SUPPLEMENTED FEATURES item 5). Nested compositions participate in the
// parent's offscreen-composite path like any filtered/masked node, so
// their recursion depth is bounded by the same RecursionLimitExceeded
// guard as masks (spec §5).
type CompositionElement struct {
	NoopElement
	Sub        *Director
	TimeOffset float64
	TimeScale  float64
}

// NewCompositionElement wraps scene/timeline content in sub, sharing ctx
// with the embedding Director rather than owning a private one.
func NewCompositionElement(ctx *DirectorContext, width, height int) *CompositionElement {
	c := &CompositionElement{
		Sub:       NewDirector(ctx, width, height),
		TimeScale: 1,
	}
	c.style = DefaultStyle()
	return c
}

func (c *CompositionElement) Kind() string { return "composition" }

func (c *CompositionElement) Update(localTime float64) bool {
	subTime := c.TimeOffset + localTime*c.TimeScale
	c.Sub.globalTime = subTime
	c.Sub.markActive(subTime)
	c.Sub.updateActive(subTime)
	return true
}

func (c *CompositionElement) PostLayout(rect Rect) {
	RunLayout(c.Sub.Scene, c.Sub.Root, rect.W, rect.H, c.Sub.globalTime)
}

// Render draws the sub-composition into an offscreen surface sized to
// rect and composites it at this node's position, so the sub-scene's own
// background/clipping never bleeds past its box.
func (c *CompositionElement) Render(ctx *RenderContext, rect Rect, parentOpacity float64, drawChildren func()) {
	if ctx.Dst == nil || rect.W <= 0 || rect.H <= 0 {
		drawChildren()
		return
	}
	w, h := int(rect.W), int(rect.H)
	surface := ctx.Pool.Acquire(w, h)
	defer ctx.Pool.Release(surface)

	subCtx := &RenderContext{
		Assets:  ctx.Assets,
		Pool:    ctx.Pool,
		Shaders: ctx.Shaders,
		ScreenW: w,
		ScreenH: h,
	}
	c.Sub.renderer.RenderRoot(subCtx, surface, c.Sub.Root, identityTransform, c.Sub.globalTime)

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Concat(ctx.WorldGeoM())
	op.ColorScale.ScaleAlpha(float32(parentOpacity))
	ctx.Dst.DrawImage(surface, op)

	drawChildren()
}
