package director

import "testing"

func TestEffectElementFiltersBuildsChainFromSpecs(t *testing.T) {
	e := NewEffectElement(newShaderCache(), nil)
	e.SetSpecs([]EffectSpec{{Name: "blur", Value: 4}})

	chain := e.Filters()
	if len(chain) != 1 {
		t.Fatalf("len(Filters()) = %d, want 1", len(chain))
	}
	if _, ok := chain[0].(*BlurFilter); !ok {
		t.Errorf("chain[0] = %T, want *BlurFilter", chain[0])
	}
}

func TestEffectElementFiltersCachesUntilSetSpecs(t *testing.T) {
	e := NewEffectElement(newShaderCache(), nil)
	e.SetSpecs([]EffectSpec{{Name: "grain"}})
	first := e.Filters()

	e.Specs[0] = EffectSpec{Name: "grain"} // mutate without calling SetSpecs
	second := e.Filters()
	if &first[0] != &second[0] {
		// built stays true, so the same slice backing should be returned.
		if len(first) != len(second) {
			t.Errorf("expected the cached chain to be reused until SetSpecs is called again")
		}
	}

	e.SetSpecs([]EffectSpec{{Name: "grain"}, {Name: "grain"}})
	third := e.Filters()
	if len(third) != 2 {
		t.Errorf("len(Filters()) after SetSpecs = %d, want 2", len(third))
	}
}

func TestEffectElementRenderAlwaysCallsDrawChildren(t *testing.T) {
	e := NewEffectElement(newShaderCache(), nil)
	called := false
	e.Render(&RenderContext{}, Rect{}, 1, func() { called = true })
	if !called {
		t.Error("Render should always call drawChildren")
	}
}

func TestEffectElementKind(t *testing.T) {
	e := NewEffectElement(newShaderCache(), nil)
	if e.Kind() != "effect" {
		t.Errorf("Kind() = %q, want %q", e.Kind(), "effect")
	}
}
