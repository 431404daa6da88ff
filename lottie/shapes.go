package lottie

import (
	"fmt"

	json "github.com/goccy/go-json"
)

// Shape is one entry of a shape layer's content stack (spec §4.7 "Shapes").
// Lottie reuses JSON key names ("p","s","c","o","ks") across different
// shape types with incompatible value shapes, so those fields are kept as
// raw JSON and decoded lazily by the accessor matching Type (RectData,
// EllipseData, PathData, PaintData, GroupTransform), instead of colliding on
// a single struct field.
type Shape struct {
	Type   string          `json:"ty"`
	Name   string          `json:"nm"`
	Hidden bool            `json:"hd"`
	Items  []Shape         `json:"it"` // group contents, outermost-first
	RawP   json.RawMessage `json:"p"`
	RawS   json.RawMessage `json:"s"`
	RawKS  json.RawMessage `json:"ks"`
	RawC   json.RawMessage `json:"c"`
	RawO   json.RawMessage `json:"o"`
	RawR   json.RawMessage `json:"r"`
	RawW   json.RawMessage `json:"w"`
}

const (
	ShapeGroup     = "gr"
	ShapeRect      = "rc"
	ShapeEllipse   = "el"
	ShapePath      = "sh"
	ShapeFill      = "fl"
	ShapeStroke    = "st"
	ShapeTransform = "tr"
)

// RectData returns a rectangle shape's animated position/size/corner
// roundness.
func (s *Shape) RectData() (pos, size AnimatableVec2, roundness AnimatableScalar, err error) {
	if err = json.Unmarshal(s.RawP, &pos); err != nil {
		return
	}
	if err = json.Unmarshal(s.RawS, &size); err != nil {
		return
	}
	if len(s.RawR) > 0 {
		err = json.Unmarshal(s.RawR, &roundness)
	}
	return
}

// EllipseData returns an ellipse shape's animated center position and
// diameter (width, height).
func (s *Shape) EllipseData() (pos, size AnimatableVec2, err error) {
	if err = json.Unmarshal(s.RawP, &pos); err != nil {
		return
	}
	err = json.Unmarshal(s.RawS, &size)
	return
}

// PathData returns a free-form path shape's animated bezier vertex list.
func (s *Shape) PathData() (*AnimatableBezier, error) {
	var b AnimatableBezier
	if err := json.Unmarshal(s.RawKS, &b); err != nil {
		return nil, fmt.Errorf("lottie: decoding path shape: %w", err)
	}
	return &b, nil
}

// PaintData returns a fill or stroke shape's animated colour, opacity (in
// percent, 0-100, as stored in the JSON), and stroke width (zero for a fill).
func (s *Shape) PaintData() (color AnimatableColor, opacity AnimatableScalar, width AnimatableScalar, err error) {
	if err = json.Unmarshal(s.RawC, &color); err != nil {
		return
	}
	if err = json.Unmarshal(s.RawO, &opacity); err != nil {
		return
	}
	if len(s.RawW) > 0 {
		err = json.Unmarshal(s.RawW, &width)
	}
	return
}

// GroupTransform returns a "tr" shape's per-group transform, which also
// carries the group's own opacity like a layer transform does.
func (s *Shape) GroupTransform() (*LayerTransform, error) {
	var lt LayerTransform
	if err := json.Unmarshal(s.RawKS, &lt); err != nil {
		return nil, fmt.Errorf("lottie: decoding group transform: %w", err)
	}
	return &lt, nil
}

// AnimatableColor is an RGBA (or RGB, alpha defaulted to 1) Lottie color
// property, components in [0,1].
type AnimatableColor struct {
	animated bool
	static   [4]float64
	frames   []keyframe
}

func (a *AnimatableColor) UnmarshalJSON(data []byte) error {
	var raw rawAnimatable
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("lottie: decoding color property: %w", err)
	}
	if raw.Animated == 0 {
		var arr []float64
		if err := json.Unmarshal(raw.K, &arr); err != nil {
			return fmt.Errorf("lottie: decoding static color: %w", err)
		}
		a.static = colorFromComponents(arr)
		return nil
	}
	var frames []keyframe
	if err := json.Unmarshal(raw.K, &frames); err != nil {
		return fmt.Errorf("lottie: decoding keyframed color: %w", err)
	}
	a.animated = true
	a.frames = frames
	return nil
}

func colorFromComponents(arr []float64) [4]float64 {
	var c [4]float64
	c[3] = 1
	for i := 0; i < len(arr) && i < 4; i++ {
		c[i] = arr[i]
	}
	return c
}

func (a *AnimatableColor) Eval(t float64) (r, g, b, alpha float64) {
	if !a.animated || len(a.frames) == 0 {
		return a.static[0], a.static[1], a.static[2], a.static[3]
	}
	idx := searchKeyframe(a.frames, t)
	if idx >= len(a.frames)-1 {
		c := colorFromComponents(a.frames[maxI(idx, 0)].Start)
		return c[0], c[1], c[2], c[3]
	}
	cur, next := a.frames[idx], a.frames[idx+1]
	c0 := colorFromComponents(cur.Start)
	if cur.Hold != 0 {
		return c0[0], c0[1], c0[2], c0[3]
	}
	c1 := colorFromComponents(next.Start)
	span := next.Time - cur.Time
	u := 0.0
	if span > 0 {
		u = (t - cur.Time) / span
	}
	u = bezierEase(cur.OutEasing, next.InEasing, u)
	return c0[0] + (c1[0]-c0[0])*u,
		c0[1] + (c1[1]-c0[1])*u,
		c0[2] + (c1[2]-c0[2])*u,
		c0[3] + (c1[3]-c0[3])*u
}

func searchKeyframe(frames []keyframe, t float64) int {
	idx := -1
	for i, f := range frames {
		if f.Time <= t {
			idx = i
		} else {
			break
		}
	}
	if idx < 0 {
		return 0
	}
	return idx
}

func maxI(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// BezierShape is a flattened vertex+tangent path, Lottie's native bezier
// shape representation: Vertices[i]'s outgoing control point is
// Vertices[i]+OutTangents[i], and the next vertex's incoming control point
// is Vertices[i+1]+InTangents[i+1].
type BezierShape struct {
	Closed      bool
	Vertices    [][2]float64 `json:"v"`
	InTangents  [][2]float64 `json:"i"`
	OutTangents [][2]float64 `json:"o"`
}

func (b *BezierShape) UnmarshalJSON(data []byte) error {
	var raw struct {
		Closed bool        `json:"c"`
		V      [][2]float64 `json:"v"`
		I      [][2]float64 `json:"i"`
		O      [][2]float64 `json:"o"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	b.Closed = raw.Closed
	b.Vertices = raw.V
	b.InTangents = raw.I
	b.OutTangents = raw.O
	return nil
}

// Flatten walks the bezier vertex/tangent list into a polyline approximation
// by subdividing each cubic segment, for rasterisation via rasterx.
func (b *BezierShape) Flatten(steps int) [][2]float64 {
	if len(b.Vertices) == 0 {
		return nil
	}
	if steps < 1 {
		steps = 1
	}
	var out [][2]float64
	n := len(b.Vertices)
	segs := n - 1
	if b.Closed {
		segs = n
	}
	out = append(out, b.Vertices[0])
	for i := 0; i < segs; i++ {
		a := b.Vertices[i%n]
		c := b.Vertices[(i+1)%n]
		outT := addPt(a, safeTangent(b.OutTangents, i%n))
		inT := addPt(c, safeTangent(b.InTangents, (i+1)%n))
		for s := 1; s <= steps; s++ {
			t := float64(s) / float64(steps)
			out = append(out, cubicAt(a, outT, inT, c, t))
		}
	}
	return out
}

func safeTangent(tangents [][2]float64, i int) [2]float64 {
	if i < 0 || i >= len(tangents) {
		return [2]float64{0, 0}
	}
	return tangents[i]
}

func addPt(a, b [2]float64) [2]float64 { return [2]float64{a[0] + b[0], a[1] + b[1]} }

func cubicAt(p0, p1, p2, p3 [2]float64, t float64) [2]float64 {
	mt := 1 - t
	x := mt*mt*mt*p0[0] + 3*mt*mt*t*p1[0] + 3*mt*t*t*p2[0] + t*t*t*p3[0]
	y := mt*mt*mt*p0[1] + 3*mt*mt*t*p1[1] + 3*mt*t*t*p2[1] + t*t*t*p3[1]
	return [2]float64{x, y}
}

// AnimatableBezier is PathData's wire format: either a single static
// BezierShape or a keyframed list of them.
type AnimatableBezier struct {
	animated bool
	static   BezierShape
	frames   []bezierKeyframe
}

type bezierKeyframe struct {
	Time  float64
	Start BezierShape
	Hold  bool
}

func (a *AnimatableBezier) UnmarshalJSON(data []byte) error {
	var raw rawAnimatable
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("lottie: decoding bezier property: %w", err)
	}
	if raw.Animated == 0 {
		return json.Unmarshal(raw.K, &a.static)
	}
	var frames []struct {
		Time  float64       `json:"t"`
		Start []BezierShape `json:"s"`
		Hold  int           `json:"h"`
	}
	if err := json.Unmarshal(raw.K, &frames); err != nil {
		return fmt.Errorf("lottie: decoding keyframed bezier: %w", err)
	}
	a.animated = true
	for _, f := range frames {
		var start BezierShape
		if len(f.Start) > 0 {
			start = f.Start[0]
		}
		a.frames = append(a.frames, bezierKeyframe{Time: f.Time, Start: start, Hold: f.Hold != 0})
	}
	return nil
}

// Eval returns the (unflattened) bezier shape active at frame time t. When
// the two keyframes of a segment have different vertex counts there is no
// per-vertex interpolation: the earlier keyframe's shape is returned before
// the segment's eased midpoint and the later keyframe's shape from then on.
func (a *AnimatableBezier) Eval(t float64) BezierShape {
	if !a.animated || len(a.frames) == 0 {
		return a.static
	}
	idx := 0
	for i, f := range a.frames {
		if f.Time <= t {
			idx = i
		} else {
			break
		}
	}
	if idx >= len(a.frames)-1 || a.frames[idx].Hold {
		return a.frames[idx].Start
	}
	cur, next := a.frames[idx], a.frames[idx+1]
	span := next.Time - cur.Time
	u := 0.0
	if span > 0 {
		u = (t - cur.Time) / span
	}
	if len(cur.Start.Vertices) != len(next.Start.Vertices) {
		if u < 0.5 {
			return cur.Start
		}
		return next.Start
	}
	return lerpBezier(cur.Start, next.Start, u)
}

func lerpBezier(a, b BezierShape, u float64) BezierShape {
	out := BezierShape{Closed: a.Closed}
	for i := range a.Vertices {
		out.Vertices = append(out.Vertices, lerpPt(a.Vertices[i], b.Vertices[i], u))
		out.InTangents = append(out.InTangents, lerpPt(safeTangent(a.InTangents, i), safeTangent(b.InTangents, i), u))
		out.OutTangents = append(out.OutTangents, lerpPt(safeTangent(a.OutTangents, i), safeTangent(b.OutTangents, i), u))
	}
	return out
}

func lerpPt(a, b [2]float64, u float64) [2]float64 {
	return [2]float64{a[0] + (b[0]-a[0])*u, a[1] + (b[1]-a[1])*u}
}
