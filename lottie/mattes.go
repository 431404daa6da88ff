package lottie

import "image"

// ApplyMatte multiplies target's alpha channel by a factor derived from
// matteSource per kind (spec §4.7 "Mattes"): alpha matte kinds read the
// source's own alpha, luma kinds read Rec.709 luminance of its RGB,
// inverted variants subtract from 1. Both images must be the same size;
// mismatched sizes are a no-op (the caller is expected to have rendered
// both layers at the same resolution).
func ApplyMatte(target *image.RGBA, matteSource *image.RGBA, kind MatteType) {
	if kind == MatteNone || target == nil || matteSource == nil {
		return
	}
	tb, mb := target.Bounds(), matteSource.Bounds()
	if tb.Dx() != mb.Dx() || tb.Dy() != mb.Dy() {
		return
	}
	for y := 0; y < tb.Dy(); y++ {
		for x := 0; x < tb.Dx(); x++ {
			factor := matteFactor(matteSource, mb.Min.X+x, mb.Min.Y+y, kind)
			i := target.PixOffset(tb.Min.X+x, tb.Min.Y+y)
			a := target.Pix[i+3]
			target.Pix[i+3] = uint8(float64(a) * factor)
		}
	}
}

func matteFactor(src *image.RGBA, x, y int, kind MatteType) float64 {
	i := src.PixOffset(x, y)
	r, g, b, a := src.Pix[i], src.Pix[i+1], src.Pix[i+2], src.Pix[i+3]
	var v float64
	switch kind {
	case MatteAlpha, MatteAlphaInverted:
		v = float64(a) / 255
	case MatteLuma, MatteLumaInverted:
		v = (0.2126*float64(r) + 0.7152*float64(g) + 0.0722*float64(b)) / 255
	default:
		return 1
	}
	if kind == MatteAlphaInverted || kind == MatteLumaInverted {
		v = 1 - v
	}
	return v
}
