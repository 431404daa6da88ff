package director

import "testing"

func TestAnimatedEvalBeforeFirstKeyframe(t *testing.T) {
	a := NewAnimated(0.0, LerpFloat64)
	a.AddKeyframe(10, 1, EaseLinear)
	if v := a.Eval(-1); v != 0 {
		t.Errorf("Eval(-1) = %v, want 0", v)
	}
}

func TestAnimatedEvalAfterLastKeyframe(t *testing.T) {
	a := NewAnimated(0.0, LerpFloat64)
	a.AddKeyframe(10, 1, EaseLinear)
	if v := a.Eval(5); v != 10 {
		t.Errorf("Eval(5) = %v, want 10", v)
	}
}

func TestAnimatedEvalMidSegmentLinear(t *testing.T) {
	a := NewAnimated(0.0, LerpFloat64)
	a.AddKeyframe(10, 1, EaseLinear)
	if v := a.Eval(0.5); v != 5 {
		t.Errorf("Eval(0.5) = %v, want 5", v)
	}
}

func TestAnimatedUpdateSetsCurrentValue(t *testing.T) {
	a := NewAnimated(0.0, LerpFloat64)
	a.AddKeyframe(10, 1, EaseLinear)
	a.Update(0.5)
	if a.CurrentValue != 5 {
		t.Errorf("CurrentValue = %v, want 5", a.CurrentValue)
	}
}

func TestAnimatedHoldKeyframeFreezesSegment(t *testing.T) {
	a := NewAnimated(0.0, LerpFloat64)
	a.AddKeyframe(10, 1, EaseLinear)
	a.AddHoldKeyframe(20, 1)
	if v := a.Eval(1.5); v != 10 {
		t.Errorf("Eval(1.5) = %v, want 10 (held from prior keyframe)", v)
	}
	if v := a.Eval(2); v != 20 {
		t.Errorf("Eval(2) = %v, want 20", v)
	}
}

func TestAnimatedDuration(t *testing.T) {
	a := NewAnimated(0.0, LerpFloat64)
	a.AddKeyframe(10, 1, EaseLinear)
	a.AddKeyframe(0, 2, EaseLinear)
	if d := a.Duration(); d != 3 {
		t.Errorf("Duration() = %v, want 3", d)
	}
}

func TestAnimatedAddSegmentJumpsWithoutInterpolating(t *testing.T) {
	a := NewAnimated(0.0, LerpFloat64)
	a.AddKeyframe(10, 1, EaseLinear)
	a.AddSegment(100, 200, 1, EaseLinear)
	// the jump to 100 is instantaneous at t=1, so just after it the value
	// should already be on its way from 100, not still near 10.
	if v := a.Eval(1); v != 100 {
		t.Errorf("Eval(1) = %v, want 100 (start of new segment)", v)
	}
	if v := a.Eval(2); v != 200 {
		t.Errorf("Eval(2) = %v, want 200", v)
	}
}

func TestLerpVectorMismatchedLengthsUsesSharedPrefix(t *testing.T) {
	out := LerpVector([]float64{0, 0, 0}, []float64{10, 20}, 0.5)
	if len(out) != 2 {
		t.Fatalf("len(out) = %d, want 2", len(out))
	}
	if out[0] != 5 || out[1] != 10 {
		t.Errorf("out = %v, want [5 10]", out)
	}
}

func TestAddSpringSettlesNearTarget(t *testing.T) {
	a := NewAnimated(0.0, LerpFloat64)
	AddSpring(a, 100, DefaultSpringConfig())
	if a.Duration() <= 0 {
		t.Fatal("expected a baked, non-zero duration")
	}
	final := a.Eval(a.Duration())
	if absF(final-100) > 0.01 {
		t.Errorf("final value = %v, want close to 100", final)
	}
}

func TestAddSpringWithStartInsertsJumpWhenDiverging(t *testing.T) {
	a := NewAnimated(0.0, LerpFloat64)
	a.AddKeyframe(5, 1, EaseLinear)
	AddSpringWithStart(a, 50, 100, DefaultSpringConfig())
	// right after the jump, value should be at the spring's start (50), not
	// the animation's old end (5).
	if v := a.Eval(1.001); absF(v-50) > 5 {
		t.Errorf("Eval just after jump = %v, want close to 50", v)
	}
}
