package lottie

import "testing"

func TestShapeRectData(t *testing.T) {
	s := &Shape{
		RawP: []byte(`{"a":0,"k":[10,20]}`),
		RawS: []byte(`{"a":0,"k":[30,40]}`),
		RawR: []byte(`{"a":0,"k":[5]}`),
	}
	pos, size, round, err := s.RectData()
	if err != nil {
		t.Fatalf("RectData: %v", err)
	}
	x, y := pos.Eval(0)
	if x != 10 || y != 20 {
		t.Errorf("pos = (%v,%v), want (10,20)", x, y)
	}
	w, h := size.Eval(0)
	if w != 30 || h != 40 {
		t.Errorf("size = (%v,%v), want (30,40)", w, h)
	}
	if round.Eval(0) != 5 {
		t.Errorf("roundness = %v, want 5", round.Eval(0))
	}
}

func TestShapeEllipseData(t *testing.T) {
	s := &Shape{
		RawP: []byte(`{"a":0,"k":[0,0]}`),
		RawS: []byte(`{"a":0,"k":[100,100]}`),
	}
	pos, size, err := s.EllipseData()
	if err != nil {
		t.Fatalf("EllipseData: %v", err)
	}
	w, h := size.Eval(0)
	if w != 100 || h != 100 {
		t.Errorf("size = (%v,%v), want (100,100)", w, h)
	}
	if x, y := pos.Eval(0); x != 0 || y != 0 {
		t.Errorf("pos = (%v,%v), want (0,0)", x, y)
	}
}

func TestShapePaintData(t *testing.T) {
	s := &Shape{
		RawC: []byte(`{"a":0,"k":[1,0,0,1]}`),
		RawO: []byte(`{"a":0,"k":[100]}`),
		RawW: []byte(`{"a":0,"k":[5]}`),
	}
	col, opacity, width, err := s.PaintData()
	if err != nil {
		t.Fatalf("PaintData: %v", err)
	}
	r, g, b, a := col.Eval(0)
	if r != 1 || g != 0 || b != 0 || a != 1 {
		t.Errorf("color = (%v,%v,%v,%v), want (1,0,0,1)", r, g, b, a)
	}
	if opacity.Eval(0) != 100 {
		t.Errorf("opacity = %v, want 100", opacity.Eval(0))
	}
	if width.Eval(0) != 5 {
		t.Errorf("width = %v, want 5", width.Eval(0))
	}
}

func TestColorFromComponentsDefaultsAlphaToOne(t *testing.T) {
	c := colorFromComponents([]float64{0.5, 0.25, 0.1})
	if c[3] != 1 {
		t.Errorf("alpha default = %v, want 1", c[3])
	}
}

func TestBezierShapeFlattenOpenPathEndpointsMatchVertices(t *testing.T) {
	b := &BezierShape{Vertices: [][2]float64{{0, 0}, {10, 0}}}
	pts := b.Flatten(1)
	want := [][2]float64{{0, 0}, {10, 0}}
	if len(pts) != len(want) {
		t.Fatalf("len(pts) = %d, want %d", len(pts), len(want))
	}
	for i := range want {
		if pts[i] != want[i] {
			t.Errorf("pts[%d] = %v, want %v", i, pts[i], want[i])
		}
	}
}

func TestBezierShapeFlattenClosedPathWrapsToFirstVertex(t *testing.T) {
	b := &BezierShape{Closed: true, Vertices: [][2]float64{{0, 0}, {10, 0}}}
	pts := b.Flatten(1)
	if len(pts) != 3 {
		t.Fatalf("len(pts) = %d, want 3 (start, seg0 end, seg1 end wraps to start)", len(pts))
	}
	if pts[2] != (([2]float64{0, 0})) {
		t.Errorf("closed path should wrap back to first vertex, got %v", pts[2])
	}
}

func TestBezierShapeFlattenEmptyReturnsNil(t *testing.T) {
	b := &BezierShape{}
	if pts := b.Flatten(4); pts != nil {
		t.Errorf("Flatten of empty shape = %v, want nil", pts)
	}
}

func TestSearchKeyframeFindsLatestAtOrBeforeT(t *testing.T) {
	frames := []keyframe{{Time: 0}, {Time: 5}, {Time: 10}}
	if idx := searchKeyframe(frames, 7); idx != 1 {
		t.Errorf("searchKeyframe(7) = %d, want 1", idx)
	}
	if idx := searchKeyframe(frames, -1); idx != 0 {
		t.Errorf("searchKeyframe(-1) = %d, want 0", idx)
	}
}

func TestLerpBezierInterpolatesVertices(t *testing.T) {
	a := BezierShape{Vertices: [][2]float64{{0, 0}}}
	b := BezierShape{Vertices: [][2]float64{{10, 10}}}
	out := lerpBezier(a, b, 0.5)
	if out.Vertices[0] != ([2]float64{5, 5}) {
		t.Errorf("lerpBezier midpoint = %v, want (5,5)", out.Vertices[0])
	}
}

func TestAnimatableBezierEvalShapeMorphFallsBackOnVertexCountMismatch(t *testing.T) {
	a := &AnimatableBezier{
		animated: true,
		frames: []bezierKeyframe{
			{Time: 0, Start: BezierShape{Vertices: [][2]float64{{0, 0}}}},
			{Time: 10, Start: BezierShape{Vertices: [][2]float64{{1, 1}, {2, 2}}}},
		},
	}
	early := a.Eval(2)
	if len(early.Vertices) != 1 {
		t.Errorf("Eval before midpoint with mismatched vertex counts should use earlier shape, got %d verts", len(early.Vertices))
	}
	late := a.Eval(8)
	if len(late.Vertices) != 2 {
		t.Errorf("Eval after midpoint with mismatched vertex counts should use later shape, got %d verts", len(late.Vertices))
	}
}
