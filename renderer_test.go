package director

import "testing"

func TestRectUnionExpandsToCoverBoth(t *testing.T) {
	a := Rect{X: 0, Y: 0, W: 10, H: 10}
	b := Rect{X: 5, Y: -5, W: 10, H: 10}
	u := rectUnion(a, b)
	if u.X != 0 || u.Y != -5 || u.W != 15 || u.H != 15 {
		t.Errorf("rectUnion = %+v, want {X:0 Y:-5 W:15 H:15}", u)
	}
}

func TestRectUnionWithDegenerateRectReturnsOther(t *testing.T) {
	a := Rect{X: 1, Y: 2, W: 3, H: 4}
	zero := Rect{}
	if got := rectUnion(a, zero); got != a {
		t.Errorf("rectUnion(a, zero) = %+v, want %+v", got, a)
	}
	if got := rectUnion(zero, a); got != a {
		t.Errorf("rectUnion(zero, a) = %+v, want %+v", got, a)
	}
}

func TestElementOpacityOverrideFalseWhenUnsupported(t *testing.T) {
	if _, ok := elementOpacityOverride(&NoopElement{}); ok {
		t.Error("NoopElement should report no opacity override")
	}
}

func TestElementOpacityOverrideTrueForBoxElement(t *testing.T) {
	b := NewBoxElement()
	b.SetOpacityOverride(0.4)
	v, ok := elementOpacityOverride(b)
	if !ok || v != 0.4 {
		t.Errorf("elementOpacityOverride(box) = (%v,%v), want (0.4,true)", v, ok)
	}
}

func TestNodeFiltersEmptyForPlainElement(t *testing.T) {
	if got := nodeFilters(&NoopElement{}); got != nil {
		t.Errorf("nodeFilters(NoopElement) = %v, want nil", got)
	}
}

func TestNodeFiltersReturnsEffectElementChain(t *testing.T) {
	e := NewEffectElement(newShaderCache(), nil)
	e.SetSpecs([]EffectSpec{{Name: "blur", Value: 2}})
	if got := nodeFilters(e); len(got) != 1 {
		t.Errorf("len(nodeFilters(effect)) = %d, want 1", len(got))
	}
}

func TestNodeClipsOverflowFalseForPlainElement(t *testing.T) {
	if nodeClipsOverflow(&NoopElement{}) {
		t.Error("NoopElement should not clip overflow")
	}
}

func TestNodeClipsOverflowTrueForClippingBox(t *testing.T) {
	b := NewBoxElement()
	b.Overflow = OverflowClip
	if !nodeClipsOverflow(b) {
		t.Error("a box with Overflow = OverflowClip should report ClipsOverflow")
	}
}

func TestRendererSubtreeBoundsExpandsToChildLayout(t *testing.T) {
	s := NewScene()
	root := s.AddNode(&NoopElement{})
	child := s.AddNode(&NoopElement{})
	s.AddChild(root, child)

	rn := s.Get(root)
	rn.LayoutRect = Rect{X: 0, Y: 0, W: 10, H: 10}
	cn := s.Get(child)
	cn.LayoutRect = Rect{X: 5, Y: 5, W: 20, H: 20}
	cn.LastVisitTime = 1

	r := NewRenderer(s, nil, nil)
	bounds := r.subtreeBounds(rn, identityTransform, 1)
	if bounds.W != 25 || bounds.H != 25 {
		t.Errorf("subtreeBounds = %+v, want W=25 H=25", bounds)
	}
}

func TestRendererSubtreeBoundsIgnoresInactiveChildren(t *testing.T) {
	s := NewScene()
	root := s.AddNode(&NoopElement{})
	child := s.AddNode(&NoopElement{})
	s.AddChild(root, child)

	rn := s.Get(root)
	rn.LayoutRect = Rect{X: 0, Y: 0, W: 10, H: 10}
	cn := s.Get(child)
	cn.LayoutRect = Rect{X: 100, Y: 100, W: 20, H: 20}
	cn.LastVisitTime = 999 // not active at globalTime 1

	r := NewRenderer(s, nil, nil)
	bounds := r.subtreeBounds(rn, identityTransform, 1)
	if bounds.W != 10 || bounds.H != 10 {
		t.Errorf("subtreeBounds = %+v, want unchanged W=10 H=10 since the child is inactive", bounds)
	}
}

func TestRendererRenderRootSkipsInactiveRoot(t *testing.T) {
	s := NewScene()
	root := s.AddNode(&NoopElement{})
	rn := s.Get(root)
	rn.LastVisitTime = -1000 // far from globalTime 0, inactive

	r := NewRenderer(s, nil, nil)
	ctx := &RenderContext{}
	// Should return without panicking even with a nil dst, since the root
	// is not active.
	r.RenderRoot(ctx, nil, root, identityTransform, 0)
}

// renderRecorder counts Render invocations, to verify the renderer's
// traversal reaches every active descendant.
type renderRecorder struct {
	NoopElement
	rendered int
}

func (e *renderRecorder) Render(_ *RenderContext, _ Rect, _ float64, drawChildren func()) {
	e.rendered++
	drawChildren()
}

func TestRendererRenderRootTraversesActiveChildren(t *testing.T) {
	s := NewScene()
	rootEl := &renderRecorder{}
	childEl := &renderRecorder{}
	root := s.AddNode(rootEl)
	child := s.AddNode(childEl)
	s.AddChild(root, child)

	rn := s.Get(root)
	rn.LastVisitTime = 0
	cn := s.Get(child)
	cn.LastVisitTime = 0

	r := NewRenderer(s, nil, nil)
	ctx := &RenderContext{}
	r.RenderRoot(ctx, nil, root, identityTransform, 0)

	if rootEl.rendered != 1 {
		t.Errorf("root Render calls = %d, want 1", rootEl.rendered)
	}
	if childEl.rendered != 1 {
		t.Errorf("child Render calls = %d, want 1", childEl.rendered)
	}
}
