package director

import "testing"

func TestRenderContextWorldGeoMMapsOrigin(t *testing.T) {
	rc := &RenderContext{World: [6]float64{1, 0, 0, 1, 10, 20}}
	g := rc.WorldGeoM()
	x, y := g.Apply(0, 0)
	if x != 10 || y != 20 {
		t.Errorf("WorldGeoM applied to origin = (%v,%v), want (10,20)", x, y)
	}
}

func TestRenderContextWorldGeoMAppliesScale(t *testing.T) {
	rc := &RenderContext{World: [6]float64{2, 0, 0, 3, 0, 0}}
	g := rc.WorldGeoM()
	x, y := g.Apply(1, 1)
	if x != 2 || y != 3 {
		t.Errorf("WorldGeoM applied to (1,1) = (%v,%v), want (2,3)", x, y)
	}
}

func TestNoopElementSatisfiesElementDefaults(t *testing.T) {
	var e Element = &NoopElement{}
	if e.Kind() == "" {
		t.Error("expected a non-empty default Kind")
	}
	if e.NeedsMeasure() {
		t.Error("NoopElement should not require measurement")
	}
	w, h := e.Measure(100, 100)
	if w != 0 || h != 0 {
		t.Errorf("Measure = (%v,%v), want (0,0)", w, h)
	}
	if e.Update(1) {
		t.Error("Update should report false")
	}
	called := false
	e.Render(&RenderContext{}, Rect{}, 1, func() { called = true })
	if !called {
		t.Error("Render should call drawChildren")
	}
	if e.AnimateProperty("x", 1, 1, EaseLinear) {
		t.Error("AnimateProperty should report false")
	}
	if e.GetAudio(0, 10, 44100) != nil {
		t.Error("GetAudio should return nil")
	}
}
