package video

import "fmt"

// ExportDecoder decodes strictly in presentation order with no frame
// skipping or background workers: every FrameAt call blocks until the
// exact requested timestamp is reached, so a deterministic export run
// produces byte-identical output across repeated renders of the same
// timeline (spec §5 export strategy — the opposite trade-off from
// PreviewDecoder).
type ExportDecoder struct {
	ctx      *openDecodeContext
	lastPTS  float64
	lastSeek bool
}

func NewExportDecoder(path string) (*ExportDecoder, error) {
	dc, err := openDecode(path)
	if err != nil {
		return nil, err
	}
	return &ExportDecoder{ctx: dc}, nil
}

// FrameAt seeks to the keyframe at or before t on every call and decodes
// forward to the first frame at or after t (see decodeFrameNear); it does
// not continue decoding from the previous position.
func (e *ExportDecoder) FrameAt(t float64) (*Frame, error) {
	frame, err := decodeFrameNear(e.ctx, t)
	if err != nil {
		return nil, fmt.Errorf("video: export decode at %.6fs: %w", t, err)
	}
	if frame == nil {
		return nil, fmt.Errorf("video: export decode at %.6fs produced no frame", t)
	}
	e.lastPTS = frame.PTS
	return frame, nil
}

func (e *ExportDecoder) Duration() float64 { return e.ctx.durationS }

func (e *ExportDecoder) Close() error { return e.ctx.Close() }
