package director

import (
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/phanxgames/director/video"
)

// VideoElement draws a decoded video frame into its layout box through the
// video.Decoder interface. It opens a threaded video.PreviewDecoder unless a
// decoder (for example a deterministic video.ExportDecoder) was attached
// with BindDecoder. Neither the Director nor Export binds a decoder, so an
// export pass also uses the PreviewDecoder unless the caller binds one.
type VideoElement struct {
	NoopElement
	Path string
	Fit  ObjectFit

	decoder video.Decoder
	opened  bool
	openErr error

	cachedFrame *ebiten.Image
	cachedPTS   float64

	AudioTrack *AudioTrack
}

// NewVideoElement creates a video element that opens a PreviewDecoder for
// path the first time it is rendered (unless BindDecoder attached one
// first), so a composition can be built before any decoder is spawned.
func NewVideoElement(path string) *VideoElement {
	e := &VideoElement{Path: path}
	e.style = DefaultStyle()
	return e
}

func (e *VideoElement) Kind() string { return "video" }

func (e *VideoElement) NeedsMeasure() bool { return false }

// BindDecoder attaches an already-opened decoder in place of the
// PreviewDecoder that Render would otherwise open. Nothing in this package
// calls it; the caller chooses the strategy.
func (e *VideoElement) BindDecoder(d video.Decoder) {
	e.decoder = d
	e.opened = true
	e.openErr = nil
}

func (e *VideoElement) Render(ctx *RenderContext, rect Rect, parentOpacity float64, drawChildren func()) {
	if !e.opened {
		d, err := video.NewPreviewDecoder(e.Path)
		if err != nil {
			e.openErr = err
			warnf("video element: %v", err)
		} else {
			e.decoder = d
		}
		e.opened = true
	}
	if e.decoder != nil && ctx.Dst != nil {
		if frame, err := e.decoder.FrameAt(ctx.TimeSec); err == nil && frame != nil {
			e.updateCache(frame)
		}
		if e.cachedFrame != nil {
			b := e.cachedFrame.Bounds()
			localBox := Rect{X: 0, Y: 0, W: rect.W, H: rect.H}
			dst := fitRect(localBox, float64(b.Dx()), float64(b.Dy()), e.Fit)
			op := &ebiten.DrawImageOptions{}
			op.GeoM.Scale(dst.W/float64(b.Dx()), dst.H/float64(b.Dy()))
			op.GeoM.Translate(dst.X, dst.Y)
			op.GeoM.Concat(ctx.WorldGeoM())
			op.ColorScale.ScaleAlpha(float32(parentOpacity))
			ctx.Dst.DrawImage(e.cachedFrame, op)
		}
	}
	drawChildren()
}

// updateCache re-uploads frame.Image to the GPU only when a new frame PTS
// was actually decoded, since PreviewDecoder may return the same cached
// *video.Frame across several consecutive Render calls.
func (e *VideoElement) updateCache(frame *video.Frame) {
	if e.cachedFrame != nil && frame.PTS == e.cachedPTS {
		return
	}
	e.cachedFrame = ebiten.NewImageFromImage(frame.Image)
	e.cachedPTS = frame.PTS
}

// GetAudio mixes this clip's bound audio track, if any, into the export
// audio bus (spec §6 audio bindings apply to any node, video included).
func (e *VideoElement) GetAudio(localTime float64, samplesNeeded, sampleRate int) []float32 {
	if e.AudioTrack == nil {
		return nil
	}
	start := int(localTime * float64(e.AudioTrack.SampleRate))
	return extractWindow(e.AudioTrack, start, samplesNeeded)
}
