package director

// EffectElement wraps its children with a filter chain (blur, color
// matrix, drop shadow, directional blur, grain, or a user Kage shader) that
// the Renderer applies to the offscreen composite of this node's subtree
// (spec §4.3 Effect). EffectElement itself draws nothing — it only reports
// its Filters() so the renderer routes this node through the
// offscreen-composite path.
type EffectElement struct {
	NoopElement
	Specs []EffectSpec

	chain   []Filter
	built   bool
	cache   *shaderCache
	pool    *rtPool
}

func NewEffectElement(cache *shaderCache, pool *rtPool) *EffectElement {
	e := &EffectElement{cache: cache, pool: pool}
	e.style = DefaultStyle()
	return e
}

func (e *EffectElement) Kind() string { return "effect" }

// SetSpecs replaces the filter chain specification; the compiled Filter
// chain is rebuilt lazily on the next Filters() call.
func (e *EffectElement) SetSpecs(specs []EffectSpec) {
	e.Specs = specs
	e.built = false
}

func (e *EffectElement) Filters() []Filter {
	if !e.built {
		e.chain = buildEffectFilterChain(e.Specs, e.cache, e.pool)
		e.built = true
	}
	return e.chain
}

func (e *EffectElement) Render(ctx *RenderContext, rect Rect, parentOpacity float64, drawChildren func()) {
	drawChildren()
}
