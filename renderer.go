package director

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

// maxRenderDepth bounds recursive subtree rendering (masks, nested
// compositions) so a malformed graph fails loudly instead of overflowing
// the stack (spec §7: RecursionLimitExceeded).
const maxRenderDepth = 100

// Renderer walks a Scene from a root node and paints it into a destination
// image, applying the transform stack, masks, blend modes, and effect
// chains in the order the original engine's per-node special path does:
// bounds -> offscreen render -> mask composite -> filter chain -> draw
// (grounded on the teacher's renderSpecialNode/traverse pair, generalised
// from command-buffer emission to direct immediate drawing since the new
// arena model has no texture-atlas batching to defer).
type Renderer struct {
	scene   *Scene
	pool    *rtPool
	shaders *shaderCache
}

func NewRenderer(scene *Scene, pool *rtPool, shaders *shaderCache) *Renderer {
	return &Renderer{scene: scene, pool: pool, shaders: shaders}
}

// RenderRoot paints root (and its active descendants) into dst under the
// given world transform, at globalTime. Only nodes stamped active by the
// Director's most recent mark-active pass are drawn (invariant I3).
func (r *Renderer) RenderRoot(ctx *RenderContext, dst *ebiten.Image, root NodeId, world [6]float64, globalTime float64) {
	r.renderNode(ctx, dst, root, world, 1.0, globalTime, 0)
}

func (r *Renderer) renderNode(ctx *RenderContext, dst *ebiten.Image, id NodeId, parentWorld [6]float64, parentOpacity float64, globalTime float64, depth int) {
	if depth > maxRenderDepth {
		panic(RecursionLimitExceeded{NodeId: id, Depth: depth})
	}
	n := r.scene.Get(id)
	if n == nil || !n.isActiveAt(globalTime) {
		return
	}

	local := computeLocalTransform(n.Transform, n.LayoutRect)
	world := multiplyAffine(parentWorld, local)

	opacity := parentOpacity * n.Transform.Opacity.CurrentValue
	if n.Element != nil {
		if ov, ok := elementOpacityOverride(n.Element); ok {
			opacity = parentOpacity * ov
		}
	}

	needsOffscreen := n.MaskNode != invalidNode || len(nodeFilters(n.Element)) > 0 || n.BlendMode != BlendNormal || nodeClipsOverflow(n.Element)

	if !needsOffscreen {
		r.drawLeaf(ctx, dst, n, world, opacity, globalTime)
		if n.Element == nil {
			r.renderChildren(ctx, dst, n, world, opacity, globalTime, depth)
		}
		return
	}

	r.renderSpecial(ctx, dst, n, world, opacity, globalTime, depth)
}

func (r *Renderer) renderChildren(ctx *RenderContext, dst *ebiten.Image, n *SceneNode, world [6]float64, opacity float64, globalTime float64, depth int) {
	for _, childID := range r.scene.sortedChildren(n) {
		r.renderNode(ctx, dst, childID, world, opacity, globalTime, depth+1)
	}
}

// drawLeaf delegates painting of a single node's own content (not its
// children) to the node's Element, wiring drawChildren as a closure so an
// Element like Composition can interleave its own drawing with its
// subtree's (spec §5).
func (r *Renderer) drawLeaf(ctx *RenderContext, dst *ebiten.Image, n *SceneNode, world [6]float64, opacity float64, globalTime float64) {
	if n.Element == nil {
		return
	}
	ctx.TimeSec = globalTime
	ctx.Dst = dst
	ctx.World = world
	ctx.Pool = r.pool
	ctx.Shaders = r.shaders
	drawChildren := func() {
		r.renderChildren(ctx, dst, n, world, opacity, globalTime, 0)
	}
	n.Element.Render(ctx, n.LayoutRect, opacity, drawChildren)
}

// renderSpecial renders a node (and its subtree) to an offscreen surface so
// a mask, an effect chain, or a non-Normal blend mode can be applied before
// compositing onto dst. Mirrors the teacher's bounds -> render -> mask ->
// filter -> emit pipeline, generalised to the arena scene model.
func (r *Renderer) renderSpecial(ctx *RenderContext, dst *ebiten.Image, n *SceneNode, world [6]float64, opacity float64, globalTime float64, depth int) {
	var bounds Rect
	if nodeClipsOverflow(n.Element) {
		// An overflow-clipping node sizes its offscreen surface to its own
		// layout rect rather than the union of its children's, so any child
		// content drawn past that edge simply falls outside the surface
		// instead of being composited (spec §4.3 Box overflow: clip).
		bounds = n.LayoutRect
	} else {
		bounds = r.subtreeBounds(n, world, globalTime)
	}
	filters := nodeFilters(n.Element)
	padding := filterChainPadding(filters)
	bounds.X -= float64(padding)
	bounds.Y -= float64(padding)
	bounds.W += float64(padding * 2)
	bounds.H += float64(padding * 2)

	w := int(math.Ceil(bounds.W))
	h := int(math.Ceil(bounds.H))
	if w <= 0 || h <= 0 {
		return
	}

	// adjustedWorld places offscreen-surface-local (0,0) at bounds.X,bounds.Y
	// in world space: screen(tx + a*bX + c*bY, ty + b*bX + d*bY).
	a, b, c, d := world[0], world[1], world[2], world[3]
	adjusted := world
	adjusted[4] += a*bounds.X + c*bounds.Y
	adjusted[5] += b*bounds.X + d*bounds.Y

	surface := r.pool.Acquire(w, h)
	localWorld := [6]float64{1, 0, 0, 1, -bounds.X, -bounds.Y}
	localWorld = multiplyAffine(localWorld, world)
	r.drawLeaf(ctx, surface, n, localWorld, 1.0, globalTime)
	if n.Element == nil {
		r.renderChildren(ctx, surface, n, localWorld, 1.0, globalTime, depth+1)
	}
	result := surface

	if n.MaskNode != invalidNode {
		maskSurface := r.pool.Acquire(w, h)
		r.renderNode(ctx, maskSurface, n.MaskNode, localWorld, 1.0, globalTime, depth+1)
		var op ebiten.DrawImageOptions
		op.Blend = maskDstInBlend()
		result.DrawImage(maskSurface, &op)
		r.pool.Release(maskSurface)
	}

	if len(filters) > 0 {
		for _, f := range filters {
			if cf, ok := f.(*CustomShaderFilter); ok {
				cf.timeSec = globalTime
			}
		}
		filtered := applyFilters(filters, result, r.pool)
		if filtered != result {
			r.pool.Release(result)
			result = filtered
		}
	}

	var op ebiten.DrawImageOptions
	op.GeoM.SetElement(0, 0, adjusted[0])
	op.GeoM.SetElement(0, 1, adjusted[2])
	op.GeoM.SetElement(1, 0, adjusted[1])
	op.GeoM.SetElement(1, 1, adjusted[3])
	op.GeoM.SetElement(0, 2, adjusted[4])
	op.GeoM.SetElement(1, 2, adjusted[5])
	op.ColorScale.ScaleAlpha(float32(opacity))
	op.Blend = n.BlendMode.EbitenBlend()
	dst.DrawImage(result, &op)

	if result != surface {
		r.pool.Release(result)
	} else {
		r.pool.Release(surface)
	}
}

// maskDstInBlend composites so only the parts of the destination covered by
// non-transparent mask pixels survive (spec §4.4 matte/mask semantics).
func maskDstInBlend() ebiten.Blend {
	return ebiten.Blend{
		BlendFactorSourceRGB:        ebiten.BlendFactorZero,
		BlendFactorSourceAlpha:      ebiten.BlendFactorZero,
		BlendFactorDestinationRGB:   ebiten.BlendFactorSourceAlpha,
		BlendFactorDestinationAlpha: ebiten.BlendFactorSourceAlpha,
		BlendOperationRGB:           ebiten.BlendOperationAdd,
		BlendOperationAlpha:         ebiten.BlendOperationAdd,
	}
}

// subtreeBounds returns the node's local-space layout rect expanded to
// cover any child whose own layout rect (recursively transformed into this
// node's space) extends past it. Used to size the offscreen surface for
// masked/filtered/blended nodes.
func (r *Renderer) subtreeBounds(n *SceneNode, world [6]float64, globalTime float64) Rect {
	bounds := n.LayoutRect
	r.subtreeBoundsWalk(n, bounds.X, bounds.Y, globalTime, &bounds)
	return bounds
}

func (r *Renderer) subtreeBoundsWalk(n *SceneNode, originX, originY float64, globalTime float64, acc *Rect) {
	for _, childID := range n.Children {
		c := r.scene.Get(childID)
		if c == nil || !c.isActiveAt(globalTime) {
			continue
		}
		rect := Rect{
			X: originX + c.LayoutRect.X,
			Y: originY + c.LayoutRect.Y,
			W: c.LayoutRect.W,
			H: c.LayoutRect.H,
		}
		*acc = rectUnion(*acc, rect)
		r.subtreeBoundsWalk(c, rect.X, rect.Y, globalTime, acc)
	}
}

func rectUnion(a, b Rect) Rect {
	if b.W <= 0 || b.H <= 0 {
		return a
	}
	if a.W <= 0 || a.H <= 0 {
		return b
	}
	x0 := minF(a.X, b.X)
	y0 := minF(a.Y, b.Y)
	x1 := maxF(a.X+a.W, b.X+b.W)
	y1 := maxF(a.Y+a.H, b.Y+b.H)
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// elementOpacityOverride reports an audio-reactive (or scripted) opacity
// override for elements that expose one, so the renderer can bypass the
// ordinary keyframed opacity channel for this node (spec §4.6).
func elementOpacityOverride(el Element) (float64, bool) {
	type opacityOverrider interface {
		OpacityOverride() (float64, bool)
	}
	if oo, ok := el.(opacityOverrider); ok {
		return oo.OpacityOverride()
	}
	return 0, false
}

// nodeFilters reports an element's effect filter chain, if it has one
// (the Effect element kind, and Box when blur/drop-shadow is configured).
func nodeFilters(el Element) []Filter {
	type filterProvider interface {
		Filters() []Filter
	}
	if fp, ok := el.(filterProvider); ok {
		return fp.Filters()
	}
	return nil
}

// nodeClipsOverflow reports whether an element wants its children clipped
// to its own layout rect (spec §4.3 Box overflow: clip) rather than the
// default of letting overflowing content paint past its bounds.
func nodeClipsOverflow(el Element) bool {
	type overflowClipper interface {
		ClipsOverflow() bool
	}
	if oc, ok := el.(overflowClipper); ok {
		return oc.ClipsOverflow()
	}
	return false
}
