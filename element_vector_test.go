package director

import "testing"

func TestParseSVGPathDataSplitsOnCommandLetters(t *testing.T) {
	cmds, err := parseSVGPathData("M0,0 L10,0 L10,10 Z")
	if err != nil {
		t.Fatalf("parseSVGPathData: %v", err)
	}
	if len(cmds) != 4 {
		t.Fatalf("len(cmds) = %d, want 4", len(cmds))
	}
	if cmds[0].op != 'M' || len(cmds[0].args) != 2 {
		t.Errorf("cmds[0] = %+v, want op=M args=[0,0]", cmds[0])
	}
	if cmds[3].op != 'Z' {
		t.Errorf("cmds[3].op = %c, want Z", cmds[3].op)
	}
}

func TestParseSVGPathDataInvalidNumberErrors(t *testing.T) {
	if _, err := parseSVGPathData("M0,x"); err == nil {
		t.Error("expected an error for a non-numeric coordinate")
	}
}

func TestLowerNormalizesCommandLetters(t *testing.T) {
	if lower('M') != 'm' {
		t.Errorf("lower('M') = %c, want 'm'", lower('M'))
	}
	if lower('z') != 'z' {
		t.Errorf("lower('z') = %c, want 'z'", lower('z'))
	}
}

func TestFlattenPathAbsoluteMoveAndLine(t *testing.T) {
	cmds, err := parseSVGPathData("M0,0 L10,0 L10,10")
	if err != nil {
		t.Fatalf("parseSVGPathData: %v", err)
	}
	pts := flattenPath(cmds)
	want := [][2]float64{{0, 0}, {10, 0}, {10, 10}}
	if len(pts) != len(want) {
		t.Fatalf("len(pts) = %d, want %d", len(pts), len(want))
	}
	for i := range want {
		if pts[i] != want[i] {
			t.Errorf("pts[%d] = %v, want %v", i, pts[i], want[i])
		}
	}
}

func TestFlattenPathRelativeLineAccumulatesOffset(t *testing.T) {
	cmds, err := parseSVGPathData("M0,0 l10,0 l0,10")
	if err != nil {
		t.Fatalf("parseSVGPathData: %v", err)
	}
	pts := flattenPath(cmds)
	want := [][2]float64{{0, 0}, {10, 0}, {10, 10}}
	for i := range want {
		if pts[i] != want[i] {
			t.Errorf("pts[%d] = %v, want %v", i, pts[i], want[i])
		}
	}
}

func TestFlattenPathHorizontalAndVerticalShorthand(t *testing.T) {
	cmds, err := parseSVGPathData("M0,0 H5 V5")
	if err != nil {
		t.Fatalf("parseSVGPathData: %v", err)
	}
	pts := flattenPath(cmds)
	want := [][2]float64{{0, 0}, {5, 0}, {5, 5}}
	for i := range want {
		if pts[i] != want[i] {
			t.Errorf("pts[%d] = %v, want %v", i, pts[i], want[i])
		}
	}
}

func TestFlattenPathZClosesBackToSubpathStart(t *testing.T) {
	cmds, err := parseSVGPathData("M1,1 L9,1 Z")
	if err != nil {
		t.Fatalf("parseSVGPathData: %v", err)
	}
	pts := flattenPath(cmds)
	last := pts[len(pts)-1]
	if last != ([2]float64{1, 1}) {
		t.Errorf("Z should close back to the subpath start (1,1), got %v", last)
	}
}

func TestSubdivideCubicEndpointsMatchControlPoints(t *testing.T) {
	var pts [][2]float64
	emit := func(x, y float64) { pts = append(pts, [2]float64{x, y}) }
	subdivideCubic(0, 0, 3, 10, 7, 10, 10, 0, emit)
	if len(pts) != bezierSteps {
		t.Fatalf("len(pts) = %d, want %d", len(pts), bezierSteps)
	}
	last := pts[len(pts)-1]
	if last != ([2]float64{10, 0}) {
		t.Errorf("last emitted point = %v, want the curve's endpoint (10,0)", last)
	}
}

func TestSubdivideQuadraticEndpointMatchesControlPoint(t *testing.T) {
	var pts [][2]float64
	emit := func(x, y float64) { pts = append(pts, [2]float64{x, y}) }
	subdivideQuadratic(0, 0, 5, 10, 10, 0, emit)
	last := pts[len(pts)-1]
	if last != ([2]float64{10, 0}) {
		t.Errorf("last emitted point = %v, want the curve's endpoint (10,0)", last)
	}
}

func TestBuildPathAnimationComputesArcLength(t *testing.T) {
	progress := NewAnimated(0.0, LerpFloat64)
	pa, err := BuildPathAnimation("M0,0 L10,0 L10,10", progress)
	if err != nil {
		t.Fatalf("BuildPathAnimation: %v", err)
	}
	if pa.Length != 20 {
		t.Errorf("Length = %v, want 20 (10 right + 10 down)", pa.Length)
	}
	if len(pa.Points) != 3 {
		t.Errorf("len(Points) = %d, want 3", len(pa.Points))
	}
}

func TestBuildPathAnimationEmptyPathErrors(t *testing.T) {
	progress := NewAnimated(0.0, LerpFloat64)
	if _, err := BuildPathAnimation("", progress); err == nil {
		t.Error("expected an error for a path with no points")
	}
}
