// Package video provides the two decode strategies a Video element needs:
// a threaded, best-effort preview path for interactive scrubbing, and a
// deterministic, frame-exact path for export. Both wrap go-astiav's
// FFmpeg bindings; go-astikit supplies the worker/close-chain primitives
// the preview path schedules decode on.
package video

import (
	"fmt"
	"image"

	"github.com/asticode/go-astiav"
	"github.com/asticode/go-astikit"
)

// Frame is one decoded video frame, timestamped in seconds from the start
// of the stream.
type Frame struct {
	Image image.Image
	PTS   float64
}

// Decoder is the common contract both playback strategies satisfy.
type Decoder interface {
	// FrameAt returns the frame whose presentation window covers t.
	FrameAt(t float64) (*Frame, error)
	Duration() float64
	Close() error
}

// openDecodeContext opens path's first video stream and its decoder,
// shared setup for both the preview and export strategies.
type openDecodeContext struct {
	formatCtx  *astiav.FormatContext
	codecCtx   *astiav.CodecContext
	streamIdx  int
	closer     *astikit.Closer
	timeBase   astiav.Rational
	durationS  float64
}

func openDecode(path string) (*openDecodeContext, error) {
	closer := astikit.NewCloser()

	formatCtx := astiav.AllocFormatContext()
	if formatCtx == nil {
		return nil, fmt.Errorf("video: failed to allocate format context")
	}
	closer.Add(formatCtx.Free)

	if err := formatCtx.OpenInput(path, nil, nil); err != nil {
		closer.Close()
		return nil, fmt.Errorf("video: opening %q: %w", path, err)
	}
	closer.Add(formatCtx.CloseInput)

	if err := formatCtx.FindStreamInfo(nil); err != nil {
		closer.Close()
		return nil, fmt.Errorf("video: probing %q: %w", path, err)
	}

	var stream *astiav.Stream
	for _, s := range formatCtx.Streams() {
		if s.CodecParameters().MediaType() == astiav.MediaTypeVideo {
			stream = s
			break
		}
	}
	if stream == nil {
		closer.Close()
		return nil, fmt.Errorf("video: %q has no video stream", path)
	}

	codec := astiav.FindDecoder(stream.CodecParameters().CodecID())
	if codec == nil {
		closer.Close()
		return nil, fmt.Errorf("video: no decoder for codec in %q", path)
	}

	codecCtx := astiav.AllocCodecContext(codec)
	if codecCtx == nil {
		closer.Close()
		return nil, fmt.Errorf("video: failed to allocate codec context")
	}
	closer.Add(codecCtx.Free)

	if err := stream.CodecParameters().ToCodecContext(codecCtx); err != nil {
		closer.Close()
		return nil, fmt.Errorf("video: copying codec parameters: %w", err)
	}
	if err := codecCtx.Open(codec, nil); err != nil {
		closer.Close()
		return nil, fmt.Errorf("video: opening codec: %w", err)
	}

	duration := float64(formatCtx.Duration()) / float64(astiav.TimeBase)

	return &openDecodeContext{
		formatCtx: formatCtx,
		codecCtx:  codecCtx,
		streamIdx: stream.Index(),
		closer:    closer,
		timeBase:  stream.TimeBase(),
		durationS: duration,
	}, nil
}

func (ctx *openDecodeContext) Close() error {
	ctx.closer.Close()
	return nil
}

// decodeFrameNear seeks to the nearest keyframe at or before target and
// decodes forward until it produces the first frame at or after target
// (or the stream ends, returning the last decoded frame), shared by both
// strategies: ExportDecoder calls it synchronously, PreviewDecoder on its
// background worker.
func decodeFrameNear(ctx *openDecodeContext, target float64) (*Frame, error) {
	tsTimeBase := astiav.RescaleQ(
		astiav.Duration(target*float64(astiav.TimeBase)),
		astiav.NewRational(1, int(astiav.TimeBase)),
		ctx.timeBase,
	)
	if err := ctx.formatCtx.SeekFrame(ctx.streamIdx, tsTimeBase, astiav.NewSeekFlags(astiav.SeekFlagBackward)); err != nil {
		return nil, fmt.Errorf("video: seeking to %.3fs: %w", target, err)
	}
	ctx.codecCtx.FlushBuffers()

	pkt := astiav.AllocPacket()
	defer pkt.Free()
	frame := astiav.AllocFrame()
	defer frame.Free()

	var last *Frame
	for {
		if err := ctx.formatCtx.ReadFrame(pkt); err != nil {
			break
		}
		if pkt.StreamIndex() != ctx.streamIdx {
			pkt.Unref()
			continue
		}
		if err := ctx.codecCtx.SendPacket(pkt); err != nil {
			pkt.Unref()
			continue
		}
		pkt.Unref()

		for {
			if err := ctx.codecCtx.ReceiveFrame(frame); err != nil {
				break
			}
			pts := float64(frame.Pts()) * ctx.timeBase.Float64()
			img, convErr := frameToImage(frame)
			if convErr == nil {
				last = &Frame{Image: img, PTS: pts}
			}
			if pts >= target {
				return last, nil
			}
		}
	}
	return last, nil
}

// frameToImage converts a decoded astiav.Frame (planar YUV) to an
// image.YCbCr, left for the renderer to convert to an *ebiten.Image.
func frameToImage(frame *astiav.Frame) (image.Image, error) {
	w, h := frame.Width(), frame.Height()
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("video: invalid frame dimensions %dx%d", w, h)
	}
	img := image.NewYCbCr(image.Rect(0, 0, w, h), image.YCbCrSubsampleRatio420)
	linesize := frame.Linesize()
	data := frame.Data()
	copyPlane(img.Y, data[0], h, linesize[0], w)
	copyPlane(img.Cb, data[1], (h+1)/2, linesize[1], (w+1)/2)
	copyPlane(img.Cr, data[2], (h+1)/2, linesize[2], (w+1)/2)
	return img, nil
}

func copyPlane(dst []byte, src []byte, rows, stride, rowBytes int) {
	for y := 0; y < rows; y++ {
		srcOff := y * stride
		dstOff := y * rowBytes
		if srcOff+rowBytes > len(src) || dstOff+rowBytes > len(dst) {
			break
		}
		copy(dst[dstOff:dstOff+rowBytes], src[srcOff:srcOff+rowBytes])
	}
}
