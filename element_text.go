package director

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
)

// textGlyph is one laid-out character: its rune, its span's formatting,
// and its local (x,y) baseline-relative position (spec §4.3 Text,
// SUPPLEMENTED FEATURES: rich formatting composes per-span, not markup).
type textGlyph struct {
	r       rune
	span    *TextSpan
	x, y    float64
	advance float64
}

// TextElement lays out a flat ordered list of TextSpans into wrapped
// lines, with optional per-glyph TextAnimators applied on top of the base
// layout (Lottie-style text-animator selector model generalised to plain
// rich text, spec §4.3/§9).
type TextElement struct {
	NoopElement
	Spans      []TextSpan
	Animators  []TextAnimator
	WrapWidth  float64
	LineHeight float64
	FontFamily string

	// Fit enables binary-search font-size shrinking to the post-layout box
	// (spec §4.3 Text "fit" mode): FitMinSize/FitMaxSize bound the search,
	// applied to Spans[0].SizePx and scaled proportionally across the rest.
	Fit        bool
	FitMinSize float64
	FitMaxSize float64
	baseSizes  []float64

	face         *text.GoTextFace
	loadedFamily string
	glyphs       []textGlyph
	dirty        bool
	measuredW    float64
	measuredH    float64
}

func NewTextElement(content string) *TextElement {
	e := &TextElement{dirty: true}
	e.style = DefaultStyle()
	if content != "" {
		e.Spans = []TextSpan{{Text: content, SizePx: 16, Color: Color{1, 1, 1, 1}}}
	}
	return e
}

func (e *TextElement) Kind() string { return "text" }

func (e *TextElement) SetRichText(spans []TextSpan) {
	e.Spans = spans
	e.dirty = true
}

func (e *TextElement) ModifyTextSpans(visitor func([]TextSpan) []TextSpan) {
	e.Spans = visitor(e.Spans)
	e.dirty = true
}

func (e *TextElement) AddTextAnimator(anim TextAnimator) {
	e.Animators = append(e.Animators, anim)
}

func (e *TextElement) NeedsMeasure() bool { return true }

// PostLayout binary-searches Spans[0].SizePx (and every other span scaled
// proportionally from its own base size) down to the largest size whose
// layout fits within rect, in 5 bisections (spec §4.3 Text "fit" mode; the
// testable property "Text fit-shrink converges within 5 bisections" in
// spec §8).
func (e *TextElement) PostLayout(rect Rect) {
	if !e.Fit || len(e.Spans) == 0 || rect.W <= 0 || rect.H <= 0 {
		return
	}
	if e.baseSizes == nil {
		e.baseSizes = make([]float64, len(e.Spans))
		for i := range e.Spans {
			e.baseSizes[i] = e.Spans[i].SizePx
		}
	}
	lo, hi := e.FitMinSize, e.FitMaxSize
	if lo <= 0 {
		lo = 1
	}
	if hi <= lo {
		hi = lo + 1
	}
	best := lo
	for i := 0; i < 5; i++ {
		mid := (lo + hi) / 2
		e.applySizeScale(mid, rect.W)
		if e.measuredW <= rect.W && e.measuredH <= rect.H {
			best = mid
			lo = mid
		} else {
			hi = mid
		}
	}
	e.applySizeScale(best, rect.W)
}

// applySizeScale scales every span's SizePx proportionally from its
// recorded base size so a single font-size parameter drives the whole
// span list, then re-runs layout against availW.
func (e *TextElement) applySizeScale(size, availW float64) {
	base := e.baseSizes[0]
	if base <= 0 {
		base = 1
	}
	scale := size / base
	for i := range e.Spans {
		e.Spans[i].SizePx = e.baseSizes[i] * scale
	}
	e.dirty = true
	e.layout(availW)
}

func (e *TextElement) Measure(availW, availH float64) (float64, float64) {
	e.layout(availW)
	return e.measuredW, e.measuredH
}

func (e *TextElement) Update(localTime float64) bool {
	for i := range e.Animators {
		a := &e.Animators[i]
		if a.Position != nil {
			a.Position.Update(localTime)
		}
		if a.Scale != nil {
			a.Scale.Update(localTime)
		}
		if a.Rotation != nil {
			a.Rotation.Update(localTime)
		}
		if a.Tracking != nil {
			a.Tracking.Update(localTime)
		}
		if a.Opacity != nil {
			a.Opacity.Update(localTime)
		}
		if a.Fill != nil {
			a.Fill.Update(localTime)
		}
	}
	return true
}

// layout computes glyph positions across all spans, starting a new line
// before any glyph that would cross e.WrapWidth (availW when WrapWidth is
// 0). The break is per glyph, not at word boundaries. Advances always come
// from glyphAdvanceEstimate and each span's SizePx; shaped face metrics are
// not used for layout.
func (e *TextElement) layout(availW float64) {
	if !e.dirty {
		return
	}
	e.dirty = false
	e.glyphs = e.glyphs[:0]

	wrapW := e.WrapWidth
	if wrapW <= 0 {
		wrapW = availW
	}

	cursorX, cursorY := 0.0, 0.0
	lineHeight := e.LineHeight
	maxW := 0.0

	for si := range e.Spans {
		span := &e.Spans[si]
		sz := span.SizePx
		if sz <= 0 {
			sz = 16
		}
		if lineHeight <= 0 {
			lineHeight = sz * 1.2
		}
		for _, r := range span.Text {
			if r == '\n' {
				if cursorX > maxW {
					maxW = cursorX
				}
				cursorX = 0
				cursorY += lineHeight
				continue
			}
			adv := glyphAdvanceEstimate(r, sz)
			if wrapW > 0 && cursorX+adv > wrapW && cursorX > 0 {
				if cursorX > maxW {
					maxW = cursorX
				}
				cursorX = 0
				cursorY += lineHeight
			}
			e.glyphs = append(e.glyphs, textGlyph{r: r, span: span, x: cursorX, y: cursorY, advance: adv})
			cursorX += adv
		}
	}
	if cursorX > maxW {
		maxW = cursorX
	}
	e.measuredW = maxW
	e.measuredH = cursorY + lineHeight
}

// glyphAdvanceEstimate approximates a monospace-ish advance width from
// point size: 0.56×size, or 0.28×size for a space. layout uses it for
// every glyph, whether or not a face has been resolved.
func glyphAdvanceEstimate(r rune, sizePx float64) float64 {
	if r == ' ' {
		return sizePx * 0.28
	}
	return sizePx * 0.56
}

func (e *TextElement) Render(ctx *RenderContext, rect Rect, parentOpacity float64, drawChildren func()) {
	e.layout(rect.W)
	if ctx.Dst != nil {
		e.resolveFace(ctx)
		for gi := range e.glyphs {
			g := &e.glyphs[gi]
			x, y, scale, rot, alpha, fill := e.applyAnimators(gi, g)
			if alpha <= 0 {
				continue
			}
			e.drawGlyph(ctx, g, x, y, scale, rot, alpha*parentOpacity, fill)
		}
	}
	drawChildren()
}

// resolveFace loads (and caches) the GoTextFace backing this element's
// glyph shaping, re-resolving only when FontFamily changes. Falls back to
// the asset manager's default font, and leaves e.face nil (drawGlyph then
// falls back to a placeholder glyph) when no AssetManager is wired, e.g.
// a bare RenderContext in a unit test.
func (e *TextElement) resolveFace(ctx *RenderContext) {
	if ctx.Assets == nil {
		return
	}
	if e.face != nil && e.loadedFamily == e.FontFamily {
		return
	}
	var src *text.GoTextFaceSource
	var err error
	if e.FontFamily != "" {
		src, err = ctx.Assets.Font(e.FontFamily)
	}
	if src == nil {
		src, err = ctx.Assets.FallbackFont()
	}
	if err != nil || src == nil {
		return
	}
	e.face = &text.GoTextFace{Source: src}
	e.loadedFamily = e.FontFamily
}

// applyAnimators computes the per-glyph final position/scale/rotation/
// opacity/fill after layering every TextAnimator whose GlyphSelector
// covers this glyph's index, staggered by DelayPerGlyph.
func (e *TextElement) applyAnimators(index int, g *textGlyph) (x, y, scale, rot, alpha float64, fill Color) {
	x, y = g.x, g.y
	scale = 1
	alpha = 1
	fill = g.span.Color
	n := len(e.glyphs)
	if n == 0 {
		return
	}
	pct := float64(index) / float64(maxInt(n-1, 1))

	for ai := range e.Animators {
		a := &e.Animators[ai]
		sel := a.Selector
		lo := sel.StartPct + sel.OffsetPct
		hi := sel.EndPct + sel.OffsetPct
		if pct < lo || pct > hi {
			continue
		}
		localTime := float64(index) * a.DelayPerGlyph
		if a.Position != nil {
			p := a.Position.Eval(localTime)
			x += p[0]
			y += p[1]
		}
		if a.Scale != nil {
			s := a.Scale.Eval(localTime)
			scale *= (s[0] + s[1]) / 2
		}
		if a.Rotation != nil {
			rot += a.Rotation.Eval(localTime)
		}
		if a.Opacity != nil {
			alpha *= a.Opacity.Eval(localTime)
		}
		if a.Fill != nil {
			fill = a.Fill.Eval(localTime)
		}
	}
	return
}

func (e *TextElement) drawGlyph(ctx *RenderContext, g *textGlyph, x, y, scale, rotDeg, alpha float64, fill Color) {
	if g.r == ' ' || g.r == '\n' {
		return
	}
	if e.face == nil {
		e.drawGlyphPlaceholder(ctx, g, x, y, scale, rotDeg, alpha, fill)
		return
	}
	size := g.span.SizePx
	if size <= 0 {
		size = 16
	}
	e.face.Size = size

	var geo ebiten.GeoM
	geo.Scale(scale, scale)
	if rotDeg != 0 {
		geo.Rotate(rotDeg * 3.141592653589793 / 180)
	}
	geo.Translate(x, y)
	geo.Concat(ctx.WorldGeoM())

	op := &text.DrawOptions{}
	op.GeoM = geo
	op.ColorScale.Scale(float32(fill.R), float32(fill.G), float32(fill.B), float32(fill.A))
	op.ColorScale.ScaleAlpha(float32(alpha))
	text.Draw(ctx.Dst, string(g.r), e.face, op)
}

// drawGlyphPlaceholder is the pre-font-load fallback: a solid square proxy
// so layout and per-glyph animation stay exercised before a face resolves.
func (e *TextElement) drawGlyphPlaceholder(ctx *RenderContext, g *textGlyph, x, y, scale, rotDeg, alpha float64, fill Color) {
	img := glyphPlaceholder(g.span.SizePx)
	side := g.span.SizePx
	if side <= 0 {
		side = 16
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(side*scale, side*scale)
	if rotDeg != 0 {
		op.GeoM.Rotate(rotDeg * 3.141592653589793 / 180)
	}
	op.GeoM.Translate(x, y)
	op.GeoM.Concat(ctx.WorldGeoM())
	op.ColorScale.Scale(float32(fill.R), float32(fill.G), float32(fill.B), float32(fill.A))
	op.ColorScale.ScaleAlpha(float32(alpha))
	ctx.Dst.DrawImage(img, op)
}

// glyphPlaceholder returns the shared 1x1 white image that
// drawGlyphPlaceholder scales to a SizePx square. Real text drawing goes
// through ebiten/v2/text/v2 once Render resolves a face (resolveFace);
// this path keeps per-glyph animation visible before a font asset loads.
func glyphPlaceholder(sizePx float64) *ebiten.Image {
	return whitePixel()
}
