package director

import (
	"math"

	"github.com/tanema/gween/ease"
)

// EasingFunc reparameterises a local position u in [0,1] within a keyframe
// segment to an eased u' in [0,1]. gween/ease's functions have the signature
// (time, begin, change, duration float32) float32 used for direct value
// tweening; EasingFunc adapts them (or hand-written curves) to the pure
// 0..1 -> 0..1 shape Animated[T] needs, so the same curve works for any
// blendable T, not just float32 scalars.
type EasingFunc func(u float64) float64

func fromGween(f ease.TweenFunc) EasingFunc {
	return func(u float64) float64 {
		return float64(f(float32(u), 0, 1, 1))
	}
}

// Named easing curves. gween/ease supplies linear/quad/cubic-style in-out
// families directly; the spec's explicit bounce/elastic/back families are
// hand-rolled here using the standard published formulas for those curves,
// since the upstream library's naming doesn't map onto the spec's exact
// vocabulary everywhere the spec requires.
var (
	EaseLinear    EasingFunc = func(u float64) float64 { return u }
	EaseIn        EasingFunc = fromGween(ease.InQuad)
	EaseOut       EasingFunc = fromGween(ease.OutQuad)
	EaseInOut     EasingFunc = fromGween(ease.InOutQuad)
	EaseBounceIn  EasingFunc = func(u float64) float64 { return 1 - bounceOut(1-u) }
	EaseBounceOut EasingFunc = bounceOut
	EaseBounceInOut EasingFunc = func(u float64) float64 {
		if u < 0.5 {
			return (1 - bounceOut(1-2*u)) / 2
		}
		return (1+bounceOut(2*u-1))/2
	}
	EaseElasticIn  EasingFunc = elasticIn
	EaseElasticOut EasingFunc = elasticOut
	EaseElasticInOut EasingFunc = func(u float64) float64 {
		if u < 0.5 {
			return elasticIn(u*2) / 2
		}
		return 1 - elasticIn((1-u)*2)/2
	}
	EaseBackIn  EasingFunc = backIn
	EaseBackOut EasingFunc = backOut
	EaseBackInOut EasingFunc = func(u float64) float64 {
		if u < 0.5 {
			return backIn(u*2) / 2
		}
		return 1 - backIn((1-u)*2)/2
	}
)

func bounceOut(u float64) float64 {
	const n1, d1 = 7.5625, 2.75
	if u < 1/d1 {
		return n1 * u * u
	} else if u < 2/d1 {
		u -= 1.5 / d1
		return n1*u*u + 0.75
	} else if u < 2.5/d1 {
		u -= 2.25 / d1
		return n1*u*u + 0.9375
	}
	u -= 2.625 / d1
	return n1*u*u + 0.984375
}

func elasticOut(u float64) float64 {
	if u == 0 || u == 1 {
		return u
	}
	const c4 = (2 * math.Pi) / 3
	return math.Pow(2, -10*u)*math.Sin((u*10-0.75)*c4) + 1
}

func elasticIn(u float64) float64 {
	if u == 0 || u == 1 {
		return u
	}
	const c4 = (2 * math.Pi) / 3
	return -math.Pow(2, 10*u-10) * math.Sin((u*10-10.75)*c4)
}

func backIn(u float64) float64 {
	const c1 = 1.70158
	const c3 = c1 + 1
	return c3*u*u*u - c1*u*u
}

func backOut(u float64) float64 {
	const c1 = 1.70158
	const c3 = c1 + 1
	u = u - 1
	return 1 + c3*u*u*u + c1*u*u
}

// ParseEasing resolves a scripting-bridge easing name. Unknown names fall
// back to linear silently (ConfigurationError policy: never fatal).
func ParseEasing(name string) EasingFunc {
	switch name {
	case "", "linear":
		return EaseLinear
	case "ease_in":
		return EaseIn
	case "ease_out":
		return EaseOut
	case "ease_in_out":
		return EaseInOut
	case "bounce_in":
		return EaseBounceIn
	case "bounce_out":
		return EaseBounceOut
	case "bounce_in_out":
		return EaseBounceInOut
	case "elastic_in":
		return EaseElasticIn
	case "elastic_out":
		return EaseElasticOut
	case "elastic_in_out":
		return EaseElasticInOut
	case "back_in":
		return EaseBackIn
	case "back_out":
		return EaseBackOut
	case "back_in_out":
		return EaseBackInOut
	default:
		warnf("unknown easing %q, using linear", name)
		return EaseLinear
	}
}
