package lottie

import (
	"math"
	"testing"
)

func approxEq(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func applyAffine2D(m Affine2D, x, y float64) (float64, float64) {
	return m[0]*x + m[2]*y + m[4], m[1]*x + m[3]*y + m[5]
}

func TestMultiplyAffine2DIdentity(t *testing.T) {
	m := multiplyAffine2D(identity2D, identity2D)
	if m != identity2D {
		t.Errorf("identity * identity = %v, want identity", m)
	}
}

func TestTranslate2DAppliesOffset(t *testing.T) {
	m := translate2D(5, 7)
	x, y := applyAffine2D(m, 0, 0)
	if x != 5 || y != 7 {
		t.Errorf("translate2D applied to origin = (%v,%v), want (5,7)", x, y)
	}
}

func TestScale2DScalesPoint(t *testing.T) {
	m := scale2D(2, 3)
	x, y := applyAffine2D(m, 4, 4)
	if x != 8 || y != 12 {
		t.Errorf("scale2D(2,3) applied to (4,4) = (%v,%v), want (8,12)", x, y)
	}
}

func TestRotate2D90Degrees(t *testing.T) {
	m := rotate2D(90)
	x, y := applyAffine2D(m, 1, 0)
	if !approxEq(x, 0) || !approxEq(y, 1) {
		t.Errorf("rotate2D(90) applied to (1,0) = (%v,%v), want ~(0,1)", x, y)
	}
}

func TestSkew2DZeroAngleIsIdentity(t *testing.T) {
	if m := skew2D(0, 45); m != identity2D {
		t.Errorf("skew2D(0, anyAxis) = %v, want identity", m)
	}
}

func TestLayerTransformEvalOpacityScaledToUnitRange(t *testing.T) {
	lt := &LayerTransform{}
	lt.Opacity.static = 50
	_, opacity := lt.Eval(0)
	if opacity != 0.5 {
		t.Errorf("Eval opacity = %v, want 0.5", opacity)
	}
}

func TestLayerTransformEvalPlacesAnchorAtPosition(t *testing.T) {
	lt := &LayerTransform{}
	lt.Anchor.static = [2]float64{10, 10}
	lt.Position.static = [2]float64{100, 200}
	lt.Scale.static = [2]float64{100, 100}
	m, _ := lt.Eval(0)
	// the anchor point itself must map exactly onto the layer's position,
	// regardless of rotation/scale, since rotation/scale pivot around it.
	x, y := applyAffine2D(m, 10, 10)
	if !approxEq(x, 100) || !approxEq(y, 200) {
		t.Errorf("anchor mapped to (%v,%v), want (100,200)", x, y)
	}
}

func TestLayerTransformEvalAppliesScaleAroundAnchor(t *testing.T) {
	lt := &LayerTransform{}
	lt.Anchor.static = [2]float64{0, 0}
	lt.Position.static = [2]float64{0, 0}
	lt.Scale.static = [2]float64{200, 200}
	m, _ := lt.Eval(0)
	x, y := applyAffine2D(m, 10, 0)
	if !approxEq(x, 20) || !approxEq(y, 0) {
		t.Errorf("scaled point = (%v,%v), want (20,0)", x, y)
	}
}
