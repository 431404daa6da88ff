package director

import "github.com/hajimehoshi/ebiten/v2"

// TransitionKind names one of the built-in cross-fade/wipe styles (spec
// §4.5 Transition). Slide and wipe each cover both directions through the
// Direction uniform their shared shader reads, rather than needing a
// separate shader per direction.
type TransitionKind int

const (
	TransitionFade TransitionKind = iota
	TransitionSlideLeft
	TransitionSlideRight
	TransitionWipeLeft
	TransitionWipeRight
	TransitionCircleOpen
)

// Transition cross-fades two already-rendered frames (an outgoing and an
// incoming composition) over Duration seconds, driven by a single Progress
// value the Director advances (spec §4.5). Render holds no Director
// reference and only composites two images: the Director renders the
// FromScene and ToScene roots of its own Scenes into offscreen surfaces
// and passes them in.
type Transition struct {
	Kind     TransitionKind
	Duration float64
	Progress float64
	Easing   EasingFunc

	// StartTime is the global time at which the transition window opens;
	// it spans [StartTime, StartTime+Duration) on the Director's timeline
	// (spec §4.5).
	StartTime float64

	// FromScene/ToScene index into Director.Scenes: the outgoing and
	// incoming scene roots this transition composites between.
	FromScene, ToScene int

	cache *shaderCache
	op    ebiten.DrawRectShaderOptions
}

func NewTransition(kind TransitionKind, duration float64, cache *shaderCache) *Transition {
	return &Transition{Kind: kind, Duration: duration, Easing: EaseLinear, cache: cache}
}

// activeAt reports whether globalTime falls inside this transition's
// window, and if so, sets Progress to the eased fraction through it.
func (t *Transition) activeAt(globalTime float64) bool {
	if globalTime < t.StartTime {
		return false
	}
	end := t.StartTime + t.Duration
	if t.Duration > 0 && globalTime >= end {
		return false
	}
	t.Progress = 1
	if t.Duration > 0 {
		t.Progress = clamp01((globalTime - t.StartTime) / t.Duration)
	}
	return true
}

// Advance steps Progress forward by dt/Duration, clamped to [0,1], and
// reports whether the transition has completed.
func (t *Transition) Advance(dt float64) bool {
	if t.Duration <= 0 {
		t.Progress = 1
		return true
	}
	t.Progress += dt / t.Duration
	if t.Progress >= 1 {
		t.Progress = 1
		return true
	}
	return false
}

// Render composites from -> to into dst at the transition's current
// Progress. Both images must be the same size as dst.
func (t *Transition) Render(dst, from, to *ebiten.Image) {
	src, uniforms, direction := t.shaderSource()
	shader := t.cache.compile(src)
	if shader == nil {
		dst.DrawImage(to, nil)
		return
	}
	bounds := dst.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	easing := t.Easing
	if easing == nil {
		easing = EaseLinear
	}

	u := make(map[string]any, len(uniforms)+2)
	for k, v := range uniforms {
		u[k] = v
	}
	u["Progress"] = float32(easing(t.Progress))
	if direction != 0 {
		u["Direction"] = float32(direction)
	}
	switch t.Kind {
	case TransitionSlideLeft, TransitionSlideRight, TransitionWipeLeft, TransitionWipeRight, TransitionCircleOpen:
		u["Resolution"] = []float32{float32(w), float32(h)}
	}

	t.op.Images[0] = from
	t.op.Images[1] = to
	t.op.Uniforms = u
	dst.DrawRectShader(w, h, shader, &t.op)
}

// shaderSource picks the Kage source and the Direction sign (0 when the
// shader has no Direction uniform) for t.Kind.
func (t *Transition) shaderSource() (string, map[string]any, float64) {
	switch t.Kind {
	case TransitionSlideLeft:
		return slideTransitionShaderSrc, nil, 1
	case TransitionSlideRight:
		return slideTransitionShaderSrc, nil, -1
	case TransitionWipeLeft:
		return wipeTransitionShaderSrc, nil, 1
	case TransitionWipeRight:
		return wipeTransitionShaderSrc, nil, -1
	case TransitionCircleOpen:
		return circleOpenTransitionShaderSrc, nil, 0
	default:
		return fadeTransitionShaderSrc, nil, 0
	}
}
