package director

import "sort"

// BlendFunc linearly interpolates between two values of T at parameter t in
// [0,1]. Animated[T] is generic over any T with such an operator — Go has
// no operator overloading, so the blend is supplied as a function value
// rather than expressed through arithmetic, the same role gween's
// CanTween-style tweening fills for the teacher's float32-only TweenGroup,
// generalised here to any blendable T.
type BlendFunc[T any] func(from, to T, t float64) T

// LerpFloat64 is the BlendFunc for plain scalar channels (transform fields,
// opacity, numeric style properties).
func LerpFloat64(from, to float64, t float64) float64 {
	return from + (to-from)*t
}

// LerpColor is the BlendFunc for Color keyframes.
func LerpColor(from, to Color, t float64) Color {
	return from.Lerp(to, t)
}

// LerpVector is the BlendFunc for []float64 (shader uniform vectors).
// Mismatched lengths blend only over the shared prefix.
func LerpVector(from, to []float64, t float64) []float64 {
	n := len(from)
	if len(to) < n {
		n = len(to)
	}
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		out[i] = from[i] + (to[i]-from[i])*t
	}
	return out
}

// keyframe is an (absolute time, value, easing) anchor. Hold applies to the
// segment ending at this keyframe: the value stays at the previous
// keyframe's value until this keyframe's time, then jumps to this value.
type keyframe[T any] struct {
	value  T
	time   float64
	easing EasingFunc
	hold   bool
}

// Animated is a generic keyframed value. It implements "advance to absolute
// time t" by locating the enclosing keyframe segment and evaluating the
// piecewise-eased interpolation across it.
type Animated[T any] struct {
	blend        BlendFunc[T]
	keyframes    []keyframe[T]
	CurrentValue T
}

// NewAnimated creates an animated value with an initial state and no motion.
func NewAnimated[T any](initial T, blend BlendFunc[T]) *Animated[T] {
	return &Animated[T]{
		blend:        blend,
		keyframes:    []keyframe[T]{{value: initial, time: 0, easing: EaseLinear}},
		CurrentValue: initial,
	}
}

// AddKeyframe appends a new keyframe reached `duration` seconds after the
// current end of the sequence.
func (a *Animated[T]) AddKeyframe(target T, duration float64, easing EasingFunc) {
	if easing == nil {
		easing = EaseLinear
	}
	end := a.Duration()
	a.keyframes = append(a.keyframes, keyframe[T]{value: target, time: end + duration, easing: easing})
}

// AddHoldKeyframe appends a keyframe `duration` seconds after the current
// end whose segment is not interpolated: the previous value holds until
// this keyframe's time, then the value jumps to target.
func (a *Animated[T]) AddHoldKeyframe(target T, duration float64) {
	end := a.Duration()
	a.keyframes = append(a.keyframes, keyframe[T]{value: target, time: end + duration, hold: true})
}

// AddSegment inserts an instant jump to `start` at the current end of the
// sequence (or re-initialises the animation if it is empty), then animates
// to `target` over `duration`. Useful for stringing together unrelated
// movements that shouldn't interpolate through the gap between them.
func (a *Animated[T]) AddSegment(start, target T, duration float64, easing EasingFunc) {
	if a.Duration() == 0 {
		*a = *NewAnimated(start, a.blend)
	} else {
		a.AddKeyframe(start, 0, EaseLinear)
	}
	a.AddKeyframe(target, duration, easing)
}

// Duration is the total span of the keyframe sequence in seconds.
func (a *Animated[T]) Duration() float64 {
	if len(a.keyframes) == 0 {
		return 0
	}
	return a.keyframes[len(a.keyframes)-1].time
}

// Update recomputes CurrentValue for absolute time t. Calling Update
// repeatedly with the same t yields an identical CurrentValue.
func (a *Animated[T]) Update(t float64) {
	a.CurrentValue = a.Eval(t)
}

// Eval evaluates the sequence at t without mutating CurrentValue.
func (a *Animated[T]) Eval(t float64) T {
	n := len(a.keyframes)
	if n == 0 {
		var zero T
		return zero
	}
	if t <= a.keyframes[0].time {
		return a.keyframes[0].value
	}
	if t >= a.keyframes[n-1].time {
		return a.keyframes[n-1].value
	}

	// First keyframe with time > t; the enclosing segment is (idx-1, idx).
	idx := sort.Search(n, func(i int) bool { return a.keyframes[i].time > t })
	prev := a.keyframes[idx-1]
	next := a.keyframes[idx]

	if next.hold {
		return prev.value
	}

	span := next.time - prev.time
	var u float64
	if span <= 0 {
		u = 1
	} else {
		u = clamp01((t - prev.time) / span)
	}
	eased := next.easing
	if eased == nil {
		eased = EaseLinear
	}
	return a.blend(prev.value, next.value, eased(u))
}

// SpringConfig configures a semi-implicit Euler spring simulation.
type SpringConfig struct {
	Stiffness float64
	Damping   float64
	Mass      float64
	Velocity  float64
}

// DefaultSpringConfig is the "wobbly" default used when the scripting
// bridge omits spring parameters.
func DefaultSpringConfig() SpringConfig {
	return SpringConfig{Stiffness: 100, Damping: 10, Mass: 1, Velocity: 0}
}

const (
	springBakeDt          = 1.0 / 60.0
	springMaxDuration      = 10.0
	springPositionEpsilon  = 0.1
	springVelocityEpsilon  = 0.1
)

// solveSpring simulates the spring from start to end and returns the dense
// (value, time) trajectory at a 60Hz bake resolution, settling when both
// position and velocity fall under their epsilons, force-snapping the final
// sample exactly to end. Bounded by a 10s safety cap against configs that
// never converge (e.g. zero damping).
func solveSpring(start, end float64, cfg SpringConfig) []struct {
	Value float64
	Time  float64
} {
	var frames []struct {
		Value float64
		Time  float64
	}
	t := 0.0
	current := start
	velocity := cfg.Velocity
	mass := cfg.Mass
	if mass == 0 {
		mass = 1
	}

	for {
		force := -cfg.Stiffness * (current - end)
		damp := -cfg.Damping * velocity
		accel := (force + damp) / mass

		velocity += accel * springBakeDt
		current += velocity * springBakeDt
		t += springBakeDt

		frames = append(frames, struct {
			Value float64
			Time  float64
		}{current, t})

		if t > springMaxDuration {
			break
		}

		settled := absF(current-end) < springPositionEpsilon && absF(velocity) < springVelocityEpsilon
		if settled {
			frames = append(frames, struct {
				Value float64
				Time  float64
			}{end, t + springBakeDt})
			break
		}
	}
	return frames
}

// AddSpring bakes a spring animation from the last keyframe's value (the
// initial value if no keyframes have been added yet) to target,
// appending the resulting dense linear keyframes. Baking is synchronous: by
// the time AddSpring returns, Duration() reflects the full baked sequence.
func AddSpring(a *Animated[float64], target float64, cfg SpringConfig) {
	start := a.keyframes[len(a.keyframes)-1].value
	AddSpringWithStart(a, start, target, cfg)
}

// AddSpringWithStart bakes a spring animation starting from an explicit
// value rather than the sequence's current end, inserting an instant jump
// first if the two differ.
func AddSpringWithStart(a *Animated[float64], start, target float64, cfg SpringConfig) {
	last := a.keyframes[len(a.keyframes)-1]
	if absF(last.value-start) > 0.0001 {
		a.AddKeyframe(start, 0, EaseLinear)
	}

	frames := solveSpring(start, target, cfg)
	prevTime := 0.0
	for _, f := range frames {
		dt := f.Time - prevTime
		a.AddKeyframe(f.Value, dt, EaseLinear)
		prevTime = f.Time
	}
}

func absF(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
