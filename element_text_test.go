package director

import "testing"

func TestNewTextElementSeedsSingleSpan(t *testing.T) {
	e := NewTextElement("hi")
	if len(e.Spans) != 1 || e.Spans[0].Text != "hi" {
		t.Fatalf("Spans = %+v, want one span with text %q", e.Spans, "hi")
	}
}

func TestTextElementLayoutAdvancesCursorPerGlyph(t *testing.T) {
	e := NewTextElement("")
	e.Spans = []TextSpan{{Text: "ab", SizePx: 10}}
	e.dirty = true
	e.Measure(1000, 1000)

	if len(e.glyphs) != 2 {
		t.Fatalf("len(glyphs) = %d, want 2", len(e.glyphs))
	}
	if e.glyphs[0].x != 0 {
		t.Errorf("glyphs[0].x = %v, want 0", e.glyphs[0].x)
	}
	wantAdvance := glyphAdvanceEstimate('a', 10)
	if e.glyphs[1].x != wantAdvance {
		t.Errorf("glyphs[1].x = %v, want %v", e.glyphs[1].x, wantAdvance)
	}
}

func TestTextElementLayoutWrapsAtWrapWidth(t *testing.T) {
	e := NewTextElement("")
	e.Spans = []TextSpan{{Text: "aaaa", SizePx: 10}}
	adv := glyphAdvanceEstimate('a', 10)
	e.WrapWidth = adv*2 + 0.5 // fits exactly two glyphs per line
	e.dirty = true
	e.Measure(1000, 1000)

	if e.glyphs[2].y == e.glyphs[0].y {
		t.Error("expected a line break after the second glyph")
	}
	if e.glyphs[2].x != 0 {
		t.Errorf("glyphs[2].x = %v, want 0 after wrapping", e.glyphs[2].x)
	}
}

func TestTextElementLayoutNewlineForcesLineBreak(t *testing.T) {
	e := NewTextElement("")
	e.Spans = []TextSpan{{Text: "a\nb", SizePx: 10}}
	e.dirty = true
	e.Measure(1000, 1000)

	if len(e.glyphs) != 2 {
		t.Fatalf("len(glyphs) = %d, want 2 (newline should not emit a glyph)", len(e.glyphs))
	}
	if e.glyphs[1].y == e.glyphs[0].y {
		t.Error("expected the second glyph on a new line after \\n")
	}
	if e.glyphs[1].x != 0 {
		t.Errorf("glyphs[1].x = %v, want 0 on the new line", e.glyphs[1].x)
	}
}

func TestTextElementLayoutIsMemoizedUntilDirty(t *testing.T) {
	e := NewTextElement("a")
	e.Measure(1000, 1000)
	e.glyphs = append(e.glyphs, textGlyph{r: 'z'})
	e.Measure(1000, 1000) // dirty is now false, should be a no-op
	if len(e.glyphs) != 2 {
		t.Error("layout should be memoized (a no-op) once dirty is cleared")
	}

	e.SetRichText([]TextSpan{{Text: "bb", SizePx: 10}})
	e.Measure(1000, 1000)
	if len(e.glyphs) != 2 || e.glyphs[0].r != 'b' {
		t.Error("SetRichText should mark the layout dirty and force a relayout")
	}
}

func TestGlyphAdvanceEstimateSpaceIsNarrowerThanLetter(t *testing.T) {
	if glyphAdvanceEstimate(' ', 10) >= glyphAdvanceEstimate('a', 10) {
		t.Error("a space should advance less than a regular glyph")
	}
}

func TestTextElementApplyAnimatorsOutsideSelectorLeavesGlyphUnchanged(t *testing.T) {
	e := NewTextElement("")
	e.Spans = []TextSpan{{Text: "abc", SizePx: 10, Color: Color{1, 1, 1, 1}}}
	e.dirty = true
	e.Measure(1000, 1000)

	e.Animators = []TextAnimator{{
		Selector: GlyphSelector{StartPct: 0.9, EndPct: 1.0},
		Opacity:  NewAnimated(1.0, LerpFloat64),
	}}
	e.Animators[0].Opacity.AddKeyframe(0, 1, EaseLinear)
	_, _, _, _, alpha, _ := e.applyAnimators(0, &e.glyphs[0])
	if alpha != 1 {
		t.Errorf("alpha = %v, want 1 (glyph 0 is outside the selector range)", alpha)
	}
}

func TestTextElementApplyAnimatorsInsideSelectorAppliesOpacity(t *testing.T) {
	e := NewTextElement("")
	e.Spans = []TextSpan{{Text: "abc", SizePx: 10, Color: Color{1, 1, 1, 1}}}
	e.dirty = true
	e.Measure(1000, 1000)

	op := NewAnimated(0.25, LerpFloat64)
	e.Animators = []TextAnimator{{
		Selector: GlyphSelector{StartPct: 0, EndPct: 1},
		Opacity:  op,
	}}
	_, _, _, _, alpha, _ := e.applyAnimators(0, &e.glyphs[0])
	if alpha != 0.25 {
		t.Errorf("alpha = %v, want 0.25", alpha)
	}
}

func lerpVec2(from, to [2]float64, t float64) [2]float64 {
	return [2]float64{
		LerpFloat64(from[0], to[0], t),
		LerpFloat64(from[1], to[1], t),
	}
}

func TestTextElementPostLayoutIsNoopWithoutFit(t *testing.T) {
	e := NewTextElement("")
	e.Spans = []TextSpan{{Text: "hello", SizePx: 40}}
	e.dirty = true
	e.Measure(1000, 1000)
	e.PostLayout(Rect{W: 10, H: 10})
	if e.Spans[0].SizePx != 40 {
		t.Errorf("SizePx = %v, want unchanged 40 when Fit is false", e.Spans[0].SizePx)
	}
}

func TestTextElementPostLayoutShrinksToFit(t *testing.T) {
	e := NewTextElement("")
	e.Spans = []TextSpan{{Text: "hello", SizePx: 100}}
	e.Fit = true
	e.FitMinSize = 1
	e.FitMaxSize = 100
	e.dirty = true
	e.Measure(1000, 1000)

	rect := Rect{W: 50, H: 50}
	e.PostLayout(rect)

	if e.Spans[0].SizePx >= 100 {
		t.Errorf("SizePx = %v, expected shrinking below the original 100", e.Spans[0].SizePx)
	}
	if e.measuredW > rect.W || e.measuredH > rect.H {
		t.Errorf("measured (%v,%v) exceeds rect %v after fit", e.measuredW, e.measuredH, rect)
	}
}

func TestTextElementPostLayoutScalesAllSpansProportionally(t *testing.T) {
	e := NewTextElement("")
	e.Spans = []TextSpan{
		{Text: "ab", SizePx: 20},
		{Text: "cd", SizePx: 10},
	}
	e.Fit = true
	e.FitMinSize = 1
	e.FitMaxSize = 20
	e.dirty = true
	e.Measure(1000, 1000)

	e.PostLayout(Rect{W: 5, H: 1000})

	// the second span's base size is half the first's; that ratio must
	// survive the shared scale factor the bisection applies.
	gotRatio := e.Spans[1].SizePx / e.Spans[0].SizePx
	if gotRatio < 0.49 || gotRatio > 0.51 {
		t.Errorf("SizePx ratio = %v, want ~0.5 preserved across fit-shrink", gotRatio)
	}
}

func TestTextElementDrawGlyphFallsBackToPlaceholderWithoutAssets(t *testing.T) {
	e := NewTextElement("a")
	called := false
	e.Render(&RenderContext{}, Rect{W: 100, H: 100}, 1, func() { called = true })
	if !called {
		t.Error("Render should call drawChildren even without an AssetManager")
	}
	if e.face != nil {
		t.Error("resolveFace should leave face nil when ctx.Assets is nil")
	}
}

func TestTextElementUpdateAdvancesAnimatorClocks(t *testing.T) {
	e := NewTextElement("a")
	pos := NewAnimated([2]float64{0, 0}, lerpVec2)
	pos.AddKeyframe([2]float64{10, 0}, 1, EaseLinear)
	e.Animators = []TextAnimator{{Position: pos}}
	e.Update(1)
	v := pos.CurrentValue
	if v[0] != 10 {
		t.Errorf("Position.CurrentValue = %v, want x=10 after Update(1)", v)
	}
}
