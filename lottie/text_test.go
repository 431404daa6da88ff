package lottie

import "testing"

func TestSelectorWeightInsideRangeIsOne(t *testing.T) {
	if w := selectorWeight(50, 0, 100, 0); w != 1 {
		t.Errorf("selectorWeight(50, 0-100) = %v, want 1", w)
	}
}

func TestSelectorWeightOutsideRangeIsZero(t *testing.T) {
	if w := selectorWeight(50, 60, 100, 0); w != 0 {
		t.Errorf("selectorWeight(50, 60-100) = %v, want 0", w)
	}
}

func TestSelectorWeightAppliesOffset(t *testing.T) {
	if w := selectorWeight(50, 0, 10, 40); w != 1 {
		t.Errorf("selectorWeight with offset shifting range to cover pct = %v, want 1", w)
	}
}

func TestSelectorWeightHandlesInvertedRange(t *testing.T) {
	if w := selectorWeight(50, 100, 0, 0); w != 1 {
		t.Errorf("selectorWeight with end<start should swap and still match = %v, want 1", w)
	}
}

func TestLayoutGlyphsEmptyTextReturnsNil(t *testing.T) {
	if g := LayoutGlyphs(TextDocument{}, nil, 0); g != nil {
		t.Errorf("LayoutGlyphs(empty text) = %v, want nil", g)
	}
}

func TestLayoutGlyphsAdvancesXPerGlyph(t *testing.T) {
	doc := TextDocument{Text: "ab", SizePx: 10}
	glyphs := LayoutGlyphs(doc, nil, 0)
	if len(glyphs) != 2 {
		t.Fatalf("len(glyphs) = %d, want 2", len(glyphs))
	}
	if glyphs[0].X != 0 {
		t.Errorf("glyphs[0].X = %v, want 0", glyphs[0].X)
	}
	want := doc.SizePx * 0.6
	if glyphs[1].X != want {
		t.Errorf("glyphs[1].X = %v, want %v", glyphs[1].X, want)
	}
}

func TestLayoutGlyphsWrapsAtBoxWidth(t *testing.T) {
	doc := TextDocument{Text: "abc", SizePx: 10, BoxSize: [2]float64{5, 0}}
	glyphs := LayoutGlyphs(doc, nil, 0)
	if glyphs[1].Y == glyphs[0].Y {
		t.Error("expected wrapping to advance to a new line before the box width is exceeded")
	}
	if glyphs[1].X != 0 {
		t.Errorf("glyphs[1].X after wrap = %v, want 0", glyphs[1].X)
	}
}

func TestLayoutGlyphsAnimatorPositionOffsetAppliesWithinSelector(t *testing.T) {
	pos := AnimatableVec2{static: [2]float64{100, 0}}
	doc := TextDocument{Text: "ab", SizePx: 10}
	animators := []TextAnimator{{
		Selector: TextSelector{
			Start: AnimatableScalar{static: 0},
			End:   AnimatableScalar{static: 100},
		},
		Props: TextAnimatorProps{Position: &pos},
	}}
	glyphs := LayoutGlyphs(doc, animators, 0)
	if glyphs[0].X != 100 {
		t.Errorf("glyphs[0].X with full-weight position animator = %v, want 100", glyphs[0].X)
	}
}

func TestAnimatableTextDocEvalPicksLatestKeyframeAtOrBeforeT(t *testing.T) {
	a := &AnimatableTextDoc{
		animated: true,
		frames: []textDocKeyframe{
			{Time: 0, Start: TextDocument{Text: "first"}},
			{Time: 10, Start: TextDocument{Text: "second"}},
		},
	}
	if doc := a.Eval(5); doc.Text != "first" {
		t.Errorf("Eval(5) = %q, want %q (hold semantics)", doc.Text, "first")
	}
	if doc := a.Eval(15); doc.Text != "second" {
		t.Errorf("Eval(15) = %q, want %q", doc.Text, "second")
	}
}
