package lottie

import "math"

// LayerTransform is a Lottie layer's "ks" transform block: anchor point,
// position, scale, Z rotation and skew (spec §4.7's separable X/Y/Z
// rotation and camera LookAt composition for 3D layers are not implemented
// here — this covers the common 2D layer transform every shape/text/image
// layer uses; a 3D camera layer falls back to its 2D projection).
type LayerTransform struct {
	Anchor   AnimatableVec2   `json:"a"`
	Position AnimatableVec2   `json:"p"`
	Scale    AnimatableVec2   `json:"s"`
	Rotation AnimatableScalar `json:"r"`
	Opacity  AnimatableScalar `json:"o"`
	SkewAngle AnimatableScalar `json:"sk"`
	SkewAxis  AnimatableScalar `json:"sa"`
}

// Affine2D is a 2D affine matrix in the same [a,b,c,d,tx,ty] layout the
// director package's transform stack uses, so the interpreter output slots
// directly into an ebiten.GeoM without another conversion step.
type Affine2D [6]float64

var identity2D = Affine2D{1, 0, 0, 1, 0, 0}

func multiplyAffine2D(p, c Affine2D) Affine2D {
	return Affine2D{
		p[0]*c[0] + p[2]*c[1],
		p[1]*c[0] + p[3]*c[1],
		p[0]*c[2] + p[2]*c[3],
		p[1]*c[2] + p[3]*c[3],
		p[0]*c[4] + p[2]*c[5] + p[4],
		p[1]*c[4] + p[3]*c[5] + p[5],
	}
}

// Eval composes the layer transform at frame time t into an affine matrix
// and the layer's opacity in [0,1] (spec §4.7 "Transforms").
func (lt *LayerTransform) Eval(t float64) (Affine2D, float64) {
	ax, ay := lt.Anchor.Eval(t)
	px, py := lt.Position.Eval(t)
	sx, sy := lt.Scale.Eval(t)
	rot := lt.Rotation.Eval(t)
	skew := lt.SkewAngle.Eval(t)
	skewAxis := lt.SkewAxis.Eval(t)
	opacity := lt.Opacity.Eval(t) / 100.0

	m := translate2D(-ax, -ay)
	m = multiplyAffine2D(skew2D(skew, skewAxis), m)
	m = multiplyAffine2D(scale2D(sx/100.0, sy/100.0), m)
	m = multiplyAffine2D(rotate2D(rot), m)
	m = multiplyAffine2D(translate2D(px, py), m)
	return m, opacity
}

func translate2D(tx, ty float64) Affine2D { return Affine2D{1, 0, 0, 1, tx, ty} }
func scale2D(sx, sy float64) Affine2D     { return Affine2D{sx, 0, 0, sy, 0, 0} }

func rotate2D(degrees float64) Affine2D {
	rad := degrees * math.Pi / 180
	sin, cos := math.Sincos(rad)
	return Affine2D{cos, sin, -sin, cos, 0, 0}
}

// skew2D rotates into the skew axis, shears along x, then rotates back —
// the standard way to apply an axis-angled skew with a plain shear matrix.
func skew2D(angleDeg, axisDeg float64) Affine2D {
	if angleDeg == 0 {
		return identity2D
	}
	tanA := math.Tan(angleDeg * math.Pi / 180)
	shear := Affine2D{1, 0, tanA, 1, 0, 0}
	toAxis := rotate2D(-axisDeg)
	fromAxis := rotate2D(axisDeg)
	return multiplyAffine2D(fromAxis, multiplyAffine2D(shear, toAxis))
}
