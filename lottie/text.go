package lottie

import (
	"fmt"

	json "github.com/goccy/go-json"
)

// TextData is a text layer's "t" block: a single animated document
// property plus optional per-character animators (spec §4.7 "Text").
type TextData struct {
	Document  AnimatableTextDoc `json:"d"`
	Animators []TextAnimator    `json:"a"`
}

// TextDocument is one keyframe value of an animated text document.
type TextDocument struct {
	Text       string  `json:"t"`
	FontFamily string  `json:"f"`
	SizePx     float64 `json:"s"`
	FillColor  [4]float64 `json:"fc"`
	StrokeColor [4]float64 `json:"sc"`
	StrokeWidth float64 `json:"sw"`
	LineHeight  float64 `json:"lh"`
	Justify     int     `json:"j"` // 0 left, 1 right, 2 center
	BoxSize     [2]float64 `json:"sz"` // box text wrap dimensions, zero for point text
	Tracking    float64 `json:"tr"`
}

// AnimatableTextDoc holds the (rarely keyframed, but technically animatable)
// text document property.
type AnimatableTextDoc struct {
	animated bool
	static   TextDocument
	frames   []textDocKeyframe
}

type textDocKeyframe struct {
	Time  float64
	Start TextDocument
}

func (a *AnimatableTextDoc) UnmarshalJSON(data []byte) error {
	var raw rawAnimatable
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("lottie: decoding text document: %w", err)
	}
	if raw.Animated == 0 {
		return json.Unmarshal(raw.K, &a.static)
	}
	var frames []struct {
		Time  float64        `json:"t"`
		Start []TextDocument `json:"s"`
	}
	if err := json.Unmarshal(raw.K, &frames); err != nil {
		return fmt.Errorf("lottie: decoding keyframed text document: %w", err)
	}
	a.animated = true
	for _, f := range frames {
		var doc TextDocument
		if len(f.Start) > 0 {
			doc = f.Start[0]
		}
		a.frames = append(a.frames, textDocKeyframe{Time: f.Time, Start: doc})
	}
	return nil
}

// Eval returns the text document active at (not interpolated across) frame
// time t: Lottie text documents are practically always hold keyframes in
// authoring tools, so this picks the latest keyframe at or before t.
func (a *AnimatableTextDoc) Eval(t float64) TextDocument {
	if !a.animated || len(a.frames) == 0 {
		return a.static
	}
	doc := a.frames[0].Start
	for _, f := range a.frames {
		if f.Time <= t {
			doc = f.Start
		} else {
			break
		}
	}
	return doc
}

// TextAnimator selects a glyph range via (start%, end%, offset%) and mixes
// position/scale/rotation/opacity/fill into the selected glyphs (spec §4.7
// "Optional animators"). Selection weight is 0 or 1 per glyph (see
// selectorWeight); Tracking is parsed but not applied, and there is no
// stroke colour animator.
type TextAnimator struct {
	Selector TextSelector   `json:"s"`
	Props    TextAnimatorProps `json:"a"`
}

type TextSelector struct {
	Start  AnimatableScalar `json:"s"` // percent
	End    AnimatableScalar `json:"e"` // percent
	Offset AnimatableScalar `json:"o"` // percent
}

type TextAnimatorProps struct {
	Position *AnimatableVec2   `json:"p"`
	Scale    *AnimatableVec2   `json:"s"`
	Rotation *AnimatableScalar `json:"r"`
	Tracking *AnimatableScalar `json:"t"`
	Opacity  *AnimatableScalar `json:"o"`
	FillColor *AnimatableColor `json:"fc"`
}

// GlyphState is one laid-out glyph's final per-frame transform/paint after
// animator mixing.
type GlyphState struct {
	Rune      rune
	X, Y      float64
	ScaleX, ScaleY float64
	Rotation  float64
	Opacity   float64
	FillR, FillG, FillB, FillA float64
}

// LayoutGlyphs does simple point-text/left-aligned box-text layout (box
// text breaks onto a new line before any non-space glyph that would cross
// the box width, not at word boundaries, using an estimated advance, since no real font metrics
// are available at this layer, matching the same approximation director's
// own TextElement uses) and applies every animator's selector-weighted
// contribution per glyph.
func LayoutGlyphs(doc TextDocument, animators []TextAnimator, t float64) []GlyphState {
	runes := []rune(doc.Text)
	n := len(runes)
	if n == 0 {
		return nil
	}
	advance := doc.SizePx * 0.6
	lineHeight := doc.LineHeight
	if lineHeight <= 0 {
		lineHeight = doc.SizePx * 1.2
	}
	wrapWidth := doc.BoxSize[0]

	glyphs := make([]GlyphState, 0, n)
	x, y := 0.0, doc.SizePx
	for i, r := range runes {
		if wrapWidth > 0 && x+advance > wrapWidth && r != ' ' {
			x = 0
			y += lineHeight
		}
		g := GlyphState{
			Rune: r, X: x, Y: y,
			ScaleX: 1, ScaleY: 1,
			Opacity: 1,
			FillR: doc.FillColor[0], FillG: doc.FillColor[1], FillB: doc.FillColor[2], FillA: doc.FillColor[3],
		}
		applyAnimators(&g, animators, i, n, t)
		glyphs = append(glyphs, g)
		x += advance
		if r == '\n' {
			x = 0
			y += lineHeight
		}
	}
	return glyphs
}

func applyAnimators(g *GlyphState, animators []TextAnimator, index, total int, t float64) {
	if total <= 1 {
		total = 2
	}
	pct := float64(index) / float64(total-1) * 100
	for _, a := range animators {
		start := a.Selector.Start.Eval(t)
		end := a.Selector.End.Eval(t)
		offset := a.Selector.Offset.Eval(t)
		w := selectorWeight(pct, start, end, offset)
		if w <= 0 {
			continue
		}
		if a.Props.Position != nil {
			dx, dy := a.Props.Position.Eval(t)
			g.X += dx * w
			g.Y += dy * w
		}
		if a.Props.Scale != nil {
			sx, sy := a.Props.Scale.Eval(t)
			g.ScaleX *= 1 + (sx/100-1)*w
			g.ScaleY *= 1 + (sy/100-1)*w
		}
		if a.Props.Rotation != nil {
			g.Rotation += a.Props.Rotation.Eval(t) * w
		}
		if a.Props.Opacity != nil {
			op := a.Props.Opacity.Eval(t) / 100
			g.Opacity *= 1 - w + op*w
		}
		if a.Props.FillColor != nil {
			r, gg, b, al := a.Props.FillColor.Eval(t)
			g.FillR += (r - g.FillR) * w
			g.FillG += (gg - g.FillG) * w
			g.FillB += (b - g.FillB) * w
			g.FillA += (al - g.FillA) * w
		}
	}
}

// selectorWeight computes the (start%,end%,offset%) membership weight for a
// glyph at pct (both in [0,100]): 1 when pct lies within
// [start+offset, end+offset] (in either order), 0 otherwise. A glyph at a
// range edge is either fully in or fully out; there is no partial weight.
func selectorWeight(pct, start, end, offset float64) float64 {
	s := start + offset
	e := end + offset
	if e < s {
		s, e = e, s
	}
	if pct < s || pct > e {
		return 0
	}
	return 1
}
