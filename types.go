package director

import (
	"strconv"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
)

// NodeId is a stable index into the scene arena. It is never pointer-like:
// a destroyed node's slot is recycled via a free list and callers must not
// assume an old NodeId stays meaningful after Destroy.
type NodeId int

// invalidNode marks the absence of a node reference (no parent, no mask, ...).
const invalidNode NodeId = -1

// Color is RGBA in normalised float [0,1]; linearly interpolatable.
type Color struct {
	R, G, B, A float64
}

// Lerp blends two colors component-wise.
func (c Color) Lerp(to Color, t float64) Color {
	return Color{
		R: c.R + (to.R-c.R)*t,
		G: c.G + (to.G-c.G)*t,
		B: c.B + (to.B-c.B)*t,
		A: c.A + (to.A-c.A)*t,
	}
}

// Add implements CanTween-style addition for keyframe blending.
func (c Color) Add(o Color) Color {
	return Color{c.R + o.R, c.G + o.G, c.B + o.B, c.A + o.A}
}

// Scale implements CanTween-style scalar scaling for keyframe blending.
func (c Color) Scale(s float64) Color {
	return Color{c.R * s, c.G * s, c.B * s, c.A * s}
}

// ParseColor parses a scripting-bridge color string: "#RRGGBB" or
// "#RRGGBBAA" hex (case-insensitive), defaulting to opaque black and a
// warning for anything else (spec §6.2 property-bag parsing follows the
// same "draw the scene you can draw" posture as ParseBlendMode).
func ParseColor(s string) Color {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 && len(s) != 8 {
		warnf("invalid color %q, using opaque black", s)
		return Color{A: 1}
	}
	r, errR := strconv.ParseUint(s[0:2], 16, 8)
	g, errG := strconv.ParseUint(s[2:4], 16, 8)
	b, errB := strconv.ParseUint(s[4:6], 16, 8)
	a := uint64(255)
	var errA error
	if len(s) == 8 {
		a, errA = strconv.ParseUint(s[6:8], 16, 8)
	}
	if errR != nil || errG != nil || errB != nil || errA != nil {
		warnf("invalid color %q, using opaque black", s)
		return Color{A: 1}
	}
	return Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255, A: float64(a) / 255}
}

// GradientStop is a single color anchored at a normalised position.
type GradientStop struct {
	Color    Color
	Position float64 // in [0,1]; -1 means "not specified, space evenly"
}

// GradientConfig describes a linear gradient fill.
type GradientConfig struct {
	Stops  []GradientStop
	StartX float64 // relative to the node's box, in [0,1]
	StartY float64
	EndX   float64
	EndY   float64
}

// BlendMode mirrors the small set of canvas compositing modes the renderer
// supports. Zero value is Normal (source-over).
type BlendMode int

const (
	BlendNormal BlendMode = iota
	BlendMultiply
	BlendScreen
	BlendAdd
	BlendDarken
	BlendLighten
)

// ParseBlendMode maps a scripting-bridge string to a BlendMode, falling back
// to BlendNormal for anything unrecognised (a ConfigurationError per the
// error taxonomy: a logged warning and a default, never fatal).
func ParseBlendMode(name string) BlendMode {
	switch name {
	case "multiply":
		return BlendMultiply
	case "screen":
		return BlendScreen
	case "add", "additive", "linear_dodge":
		return BlendAdd
	case "darken":
		return BlendDarken
	case "lighten":
		return BlendLighten
	default:
		if name != "" && name != "normal" {
			warnf("unknown blend mode %q, using normal", name)
		}
		return BlendNormal
	}
}

// EbitenBlend maps a BlendMode to the corresponding ebiten.Blend factors.
func (b BlendMode) EbitenBlend() ebiten.Blend {
	switch b {
	case BlendMultiply:
		return ebiten.Blend{
			BlendFactorSourceRGB:        ebiten.BlendFactorDestinationColor,
			BlendFactorSourceAlpha:      ebiten.BlendFactorDestinationAlpha,
			BlendFactorDestinationRGB:   ebiten.BlendFactorOneMinusSourceAlpha,
			BlendFactorDestinationAlpha: ebiten.BlendFactorOneMinusSourceAlpha,
			BlendOperationRGB:           ebiten.BlendOperationAdd,
			BlendOperationAlpha:         ebiten.BlendOperationAdd,
		}
	case BlendScreen:
		return ebiten.Blend{
			BlendFactorSourceRGB:        ebiten.BlendFactorOne,
			BlendFactorSourceAlpha:      ebiten.BlendFactorOne,
			BlendFactorDestinationRGB:   ebiten.BlendFactorOneMinusSourceColor,
			BlendFactorDestinationAlpha: ebiten.BlendFactorOneMinusSourceAlpha,
			BlendOperationRGB:           ebiten.BlendOperationAdd,
			BlendOperationAlpha:         ebiten.BlendOperationAdd,
		}
	case BlendAdd:
		return ebiten.BlendLighter
	case BlendDarken:
		return ebiten.Blend{
			BlendFactorSourceRGB:        ebiten.BlendFactorOne,
			BlendFactorSourceAlpha:      ebiten.BlendFactorOne,
			BlendFactorDestinationRGB:   ebiten.BlendFactorOne,
			BlendFactorDestinationAlpha: ebiten.BlendFactorOneMinusSourceAlpha,
			BlendOperationRGB:           ebiten.BlendOperationMin,
			BlendOperationAlpha:         ebiten.BlendOperationAdd,
		}
	case BlendLighten:
		return ebiten.Blend{
			BlendFactorSourceRGB:        ebiten.BlendFactorOne,
			BlendFactorSourceAlpha:      ebiten.BlendFactorOne,
			BlendFactorDestinationRGB:   ebiten.BlendFactorOne,
			BlendFactorDestinationAlpha: ebiten.BlendFactorOneMinusSourceAlpha,
			BlendOperationRGB:           ebiten.BlendOperationMax,
			BlendOperationAlpha:         ebiten.BlendOperationAdd,
		}
	default:
		return ebiten.BlendSourceOver
	}
}

// ObjectFit controls how Image/Video content is sized within its box.
type ObjectFit int

const (
	ObjectFitCover ObjectFit = iota
	ObjectFitContain
	ObjectFitFill
)

// Rect is an axis-aligned box in parent-local space, as produced by the
// layout engine's writeback pass.
type Rect struct {
	X, Y, W, H float64
}

// fitRect computes the destination rect for placing a srcW x srcH image
// into dst under the given fit mode, matching the original engine's
// calculate_object_fit_rect exactly: Cover/Contain scale-and-center,
// Fill stretches to the full box.
func fitRect(dst Rect, srcW, srcH float64, fit ObjectFit) Rect {
	if srcW <= 0 || srcH <= 0 || dst.W <= 0 || dst.H <= 0 {
		return dst
	}
	switch fit {
	case ObjectFitFill:
		return dst
	case ObjectFitContain:
		scale := minF(dst.W/srcW, dst.H/srcH)
		w, h := srcW*scale, srcH*scale
		return Rect{X: dst.X + (dst.W-w)/2, Y: dst.Y + (dst.H-h)/2, W: w, H: h}
	default: // ObjectFitCover
		scale := maxF(dst.W/srcW, dst.H/srcH)
		w, h := srcW*scale, srcH*scale
		return Rect{X: dst.X + (dst.W-w)/2, Y: dst.Y + (dst.H-h)/2, W: w, H: h}
	}
}

func minF(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxF(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func clampF(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
