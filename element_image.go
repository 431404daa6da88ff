package director

import "github.com/hajimehoshi/ebiten/v2"

// ImageElement draws a single static raster asset, sized into its layout
// box under an ObjectFit (spec §4.3). The decoded image is resolved once
// through AssetManager and cached by path.
type ImageElement struct {
	NoopElement
	Path   string
	Fit    ObjectFit
	img    *ebiten.Image
	loaded bool
}

func NewImageElement(path string) *ImageElement {
	e := &ImageElement{Path: path}
	e.style = DefaultStyle()
	return e
}

func (e *ImageElement) Kind() string { return "image" }

func (e *ImageElement) Measure(availW, availH float64) (float64, float64) {
	if e.img == nil {
		return 0, 0
	}
	b := e.img.Bounds()
	return float64(b.Dx()), float64(b.Dy())
}

func (e *ImageElement) NeedsMeasure() bool { return true }

func (e *ImageElement) Render(ctx *RenderContext, rect Rect, parentOpacity float64, drawChildren func()) {
	if !e.loaded && ctx.Assets != nil {
		if img, err := ctx.Assets.Image(e.Path); err == nil {
			e.img = img
		} else {
			warnf("image element: %v", err)
		}
		e.loaded = true
	}
	if e.img != nil && ctx.Dst != nil {
		b := e.img.Bounds()
		localBox := Rect{X: 0, Y: 0, W: rect.W, H: rect.H}
		dst := fitRect(localBox, float64(b.Dx()), float64(b.Dy()), e.Fit)
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Scale(dst.W/float64(b.Dx()), dst.H/float64(b.Dy()))
		op.GeoM.Translate(dst.X, dst.Y)
		op.GeoM.Concat(ctx.WorldGeoM())
		op.ColorScale.ScaleAlpha(float32(parentOpacity))
		ctx.Dst.DrawImage(e.img, op)
	}
	drawChildren()
}
