package director

import "math"

// identityTransform is the identity affine matrix.
var identityTransform = [6]float64{1, 0, 0, 1, 0, 0}

// Transform holds a node's animatable scalar channels plus its static
// pivot, expressed as fractions of the node's own layout box.
type Transform struct {
	ScaleX     *Animated[float64]
	ScaleY     *Animated[float64]
	Rotation   *Animated[float64] // degrees
	SkewX      *Animated[float64] // degrees
	SkewY      *Animated[float64] // degrees
	TranslateX *Animated[float64]
	TranslateY *Animated[float64]
	Opacity    *Animated[float64]
	PivotX     float64 // in [0,1], relative to layout box width
	PivotY     float64 // in [0,1], relative to layout box height
}

// NewTransform returns a Transform at rest (no scale/rotation/skew/
// translation, pivot at the top-left corner).
func NewTransform() *Transform {
	return &Transform{
		ScaleX:     NewAnimated(1.0, LerpFloat64),
		ScaleY:     NewAnimated(1.0, LerpFloat64),
		Rotation:   NewAnimated(0.0, LerpFloat64),
		SkewX:      NewAnimated(0.0, LerpFloat64),
		SkewY:      NewAnimated(0.0, LerpFloat64),
		TranslateX: NewAnimated(0.0, LerpFloat64),
		TranslateY: NewAnimated(0.0, LerpFloat64),
		Opacity:    NewAnimated(1.0, LerpFloat64),
	}
}

// updateChannels advances every animated channel to local_time. Called once
// per active node per frame, before the element's own update.
func (tr *Transform) updateChannels(localTime float64) {
	tr.ScaleX.Update(localTime)
	tr.ScaleY.Update(localTime)
	tr.Rotation.Update(localTime)
	tr.SkewX.Update(localTime)
	tr.SkewY.Update(localTime)
	tr.TranslateX.Update(localTime)
	tr.TranslateY.Update(localTime)
	tr.Opacity.Update(localTime)
}

// computeLocalTransform builds the node's local affine matrix following
// the renderer's transform stack order exactly:
//
//	T(layout.xy) · T(translate) · T(+pivot) · R(rotation) · S(scale) · Skew(tan skewX, tan skewY) · T(-pivot)
//
// rect is the node's own layout rect (already in parent-local space); the
// pivot point is (rect.W*PivotX, rect.H*PivotY).
func computeLocalTransform(tr *Transform, rect Rect) [6]float64 {
	px := rect.W * tr.PivotX
	py := rect.H * tr.PivotY

	m := translateMatrix(-px, -py)
	m = multiplyAffine(skewMatrix(tr.SkewX.CurrentValue, tr.SkewY.CurrentValue), m)
	m = multiplyAffine(scaleMatrix(tr.ScaleX.CurrentValue, tr.ScaleY.CurrentValue), m)
	m = multiplyAffine(rotateMatrix(tr.Rotation.CurrentValue), m)
	m = multiplyAffine(translateMatrix(px, py), m)
	m = multiplyAffine(translateMatrix(tr.TranslateX.CurrentValue, tr.TranslateY.CurrentValue), m)
	m = multiplyAffine(translateMatrix(rect.X, rect.Y), m)
	return m
}

func translateMatrix(tx, ty float64) [6]float64 {
	return [6]float64{1, 0, 0, 1, tx, ty}
}

func scaleMatrix(sx, sy float64) [6]float64 {
	return [6]float64{sx, 0, 0, sy, 0, 0}
}

func rotateMatrix(degrees float64) [6]float64 {
	rad := degrees * math.Pi / 180
	sin, cos := math.Sincos(rad)
	return [6]float64{cos, sin, -sin, cos, 0, 0}
}

func skewMatrix(skewXDeg, skewYDeg float64) [6]float64 {
	var tanX, tanY float64
	if skewXDeg != 0 {
		tanX = math.Tan(skewXDeg * math.Pi / 180)
	}
	if skewYDeg != 0 {
		tanY = math.Tan(skewYDeg * math.Pi / 180)
	}
	return [6]float64{1, tanY, tanX, 1, 0, 0}
}

// multiplyAffine multiplies two 2D affine matrices: result = parent * child
// (child is applied to the point first).
//
//	Matrix layout: [a, b, c, d, tx, ty]
//	| a  c  tx |
//	| b  d  ty |
//	| 0  0   1 |
func multiplyAffine(p, c [6]float64) [6]float64 {
	return [6]float64{
		p[0]*c[0] + p[2]*c[1],
		p[1]*c[0] + p[3]*c[1],
		p[0]*c[2] + p[2]*c[3],
		p[1]*c[2] + p[3]*c[3],
		p[0]*c[4] + p[2]*c[5] + p[4],
		p[1]*c[4] + p[3]*c[5] + p[5],
	}
}

// invertAffine computes the inverse of a 2D affine matrix, or the identity
// if the matrix is singular.
func invertAffine(m [6]float64) [6]float64 {
	det := m[0]*m[3] - m[2]*m[1]
	if det > -1e-12 && det < 1e-12 {
		return identityTransform
	}
	invDet := 1.0 / det
	a := m[3] * invDet
	b := -m[1] * invDet
	c := -m[2] * invDet
	d := m[0] * invDet
	return [6]float64{
		a, b, c, d,
		-(a*m[4] + c*m[5]),
		-(b*m[4] + d*m[5]),
	}
}

// transformPoint applies an affine matrix to a point.
func transformPoint(m [6]float64, x, y float64) (float64, float64) {
	return m[0]*x + m[2]*y + m[4], m[1]*x + m[3]*y + m[5]
}

// channelByName resolves a scripting-facing property name to its animated
// channel on tr, or nil if name names an element-specific property instead.
func channelByName(tr *Transform, name string) *Animated[float64] {
	switch name {
	case "scale_x":
		return tr.ScaleX
	case "scale_y":
		return tr.ScaleY
	case "rotation":
		return tr.Rotation
	case "skew_x":
		return tr.SkewX
	case "skew_y":
		return tr.SkewY
	case "x":
		return tr.TranslateX
	case "y":
		return tr.TranslateY
	case "opacity":
		return tr.Opacity
	default:
		return nil
	}
}

// animateTransformProperty keyframes name to target over duration seconds,
// returning false if name isn't one of Transform's channels (the caller
// then tries the node's Element instead).
func animateTransformProperty(tr *Transform, name string, target, duration float64, easing EasingFunc) bool {
	ch := channelByName(tr, name)
	if ch == nil {
		return false
	}
	ch.AddKeyframe(target, duration, easing)
	return true
}

// animateTransformPropertySpring is AnimateProperty's spring-physics
// counterpart, baking the keyframe sequence eagerly via AddSpring (Open
// Question Decision 1: baking is synchronous, not incremental).
func animateTransformPropertySpring(tr *Transform, name string, target float64, cfg SpringConfig) bool {
	ch := channelByName(tr, name)
	if ch == nil {
		return false
	}
	AddSpring(ch, target, cfg)
	return true
}
