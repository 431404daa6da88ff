package lottie

import (
	"fmt"
	"sort"

	json "github.com/goccy/go-json"
)

// keyframe is one entry of an animated property's "k" array: a start value
// holding until the next keyframe's time, with optional bezier easing
// in/out handles (spec §4.7 "cubic-bezier temporal easing").
type keyframe struct {
	Time      float64   `json:"t"`
	Start     []float64 `json:"s"`
	Hold      int       `json:"h"`
	InEasing  *bezierHandle `json:"i"`
	OutEasing *bezierHandle `json:"o"`
}

type bezierHandle struct {
	X []float64 `json:"x"`
	Y []float64 `json:"y"`
}

// rawAnimatable is the wire shape shared by every Lottie "a"/"k" property,
// decoded once and then specialised into AnimatableScalar/AnimatableVec2.
type rawAnimatable struct {
	Animated int             `json:"a"`
	K        json.RawMessage `json:"k"`
}

// AnimatableScalar is a single-float Lottie property (opacity, rotation,
// stroke width, ...), either static or keyframed.
type AnimatableScalar struct {
	animated bool
	static   float64
	frames   []keyframe
}

func (a *AnimatableScalar) UnmarshalJSON(data []byte) error {
	var raw rawAnimatable
	if err := json.Unmarshal(data, &raw); err != nil {
		// Some scalar properties are emitted as bare numbers with no
		// "a"/"k" wrapper at all; fall back to a direct float decode.
		var f float64
		if err2 := json.Unmarshal(data, &f); err2 == nil {
			a.static = f
			return nil
		}
		return fmt.Errorf("lottie: decoding scalar property: %w", err)
	}
	if raw.Animated == 0 {
		var v float64
		if err := json.Unmarshal(raw.K, &v); err != nil {
			var arr []float64
			if err2 := json.Unmarshal(raw.K, &arr); err2 == nil && len(arr) > 0 {
				a.static = arr[0]
				return nil
			}
			return fmt.Errorf("lottie: decoding static scalar: %w", err)
		}
		a.static = v
		return nil
	}
	var frames []keyframe
	if err := json.Unmarshal(raw.K, &frames); err != nil {
		return fmt.Errorf("lottie: decoding keyframed scalar: %w", err)
	}
	a.animated = true
	a.frames = frames
	return nil
}

// Eval returns the property's value at frame t, binary-searching the
// keyframe list by time and short-circuiting hold keyframes (spec §4.7
// "Hold keyframes short-circuit").
func (a *AnimatableScalar) Eval(t float64) float64 {
	if !a.animated || len(a.frames) == 0 {
		return a.static
	}
	frames := a.frames
	idx := sort.Search(len(frames), func(i int) bool { return frames[i].Time > t }) - 1
	if idx < 0 {
		return frameStart(frames[0])
	}
	if idx >= len(frames)-1 {
		return frameStart(frames[len(frames)-1])
	}
	cur, next := frames[idx], frames[idx+1]
	if cur.Hold != 0 {
		return frameStart(cur)
	}
	span := next.Time - cur.Time
	if span <= 0 {
		return frameStart(cur)
	}
	u := (t - cur.Time) / span
	u = bezierEase(cur.OutEasing, next.InEasing, u)
	return frameStart(cur) + (frameStart(next)-frameStart(cur))*u
}

func frameStart(k keyframe) float64 {
	if len(k.Start) == 0 {
		return 0
	}
	return k.Start[0]
}

// AnimatableVec2 is a 2-component Lottie property (position, anchor, scale,
// size) with the same static/animated shape as AnimatableScalar.
type AnimatableVec2 struct {
	animated bool
	static   [2]float64
	frames   []keyframe
}

func (a *AnimatableVec2) UnmarshalJSON(data []byte) error {
	var raw rawAnimatable
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("lottie: decoding vec2 property: %w", err)
	}
	if raw.Animated == 0 {
		var arr []float64
		if err := json.Unmarshal(raw.K, &arr); err != nil {
			return fmt.Errorf("lottie: decoding static vec2: %w", err)
		}
		if len(arr) >= 2 {
			a.static = [2]float64{arr[0], arr[1]}
		}
		return nil
	}
	var frames []keyframe
	if err := json.Unmarshal(raw.K, &frames); err != nil {
		return fmt.Errorf("lottie: decoding keyframed vec2: %w", err)
	}
	a.animated = true
	a.frames = frames
	return nil
}

func (a *AnimatableVec2) Eval(t float64) (float64, float64) {
	if !a.animated || len(a.frames) == 0 {
		return a.static[0], a.static[1]
	}
	frames := a.frames
	idx := sort.Search(len(frames), func(i int) bool { return frames[i].Time > t }) - 1
	if idx < 0 {
		return vecStart(frames[0])
	}
	if idx >= len(frames)-1 {
		return vecStart(frames[len(frames)-1])
	}
	cur, next := frames[idx], frames[idx+1]
	if cur.Hold != 0 {
		return vecStart(cur)
	}
	span := next.Time - cur.Time
	if span <= 0 {
		return vecStart(cur)
	}
	u := (t - cur.Time) / span
	u = bezierEase(cur.OutEasing, next.InEasing, u)
	x0, y0 := vecStart(cur)
	x1, y1 := vecStart(next)
	return x0 + (x1-x0)*u, y0 + (y1-y0)*u
}

func vecStart(k keyframe) (float64, float64) {
	if len(k.Start) < 2 {
		if len(k.Start) == 1 {
			return k.Start[0], k.Start[0]
		}
		return 0, 0
	}
	return k.Start[0], k.Start[1]
}

// bezierEase applies the out/in bezier easing handles (Lottie's spatial
// temporal-easing control points, x/y both in [0,1]) to linear parameter u,
// falling back to linear interpolation when either handle is absent.
func bezierEase(out, in *bezierHandle, u float64) float64 {
	if out == nil || in == nil || len(out.X) == 0 || len(in.X) == 0 {
		return u
	}
	x1, y1 := out.X[0], out.Y[0]
	x2, y2 := in.X[0], in.Y[0]
	return solveCubicBezierY(x1, y1, x2, y2, u)
}

// solveCubicBezierY solves for the bezier's y at parameter x = u using the
// standard control points (0,0),(x1,y1),(x2,y2),(1,1), via fixed-iteration
// Newton-Raphson refinement on t (the same approach CSS easing functions
// use for cubic-bezier()).
func solveCubicBezierY(x1, y1, x2, y2, u float64) float64 {
	t := u
	for i := 0; i < 8; i++ {
		x := bezierComponent(t, x1, x2)
		dx := bezierDerivative(t, x1, x2)
		if dx == 0 {
			break
		}
		t -= (x - u) / dx
		if t < 0 {
			t = 0
		} else if t > 1 {
			t = 1
		}
	}
	return bezierComponent(t, y1, y2)
}

func bezierComponent(t, p1, p2 float64) float64 {
	mt := 1 - t
	return 3*mt*mt*t*p1 + 3*mt*t*t*p2 + t*t*t
}

func bezierDerivative(t, p1, p2 float64) float64 {
	mt := 1 - t
	return 3*mt*mt*p1 + 6*mt*t*(p2-p1) + 3*t*t*(1-p2)
}
