package video

import (
	"sync"

	"github.com/asticode/go-astikit"
)

// PreviewDecoder runs decode on a background worker so interactive
// scrubbing never blocks the render loop: FrameAt returns the most
// recently decoded frame immediately and kicks off a seek-and-decode for
// the requested time if it isn't already in flight, trading frame-exact
// accuracy for responsiveness (spec §5 preview playback strategy).
type PreviewDecoder struct {
	ctx    *openDecodeContext
	worker *astikit.Worker

	mu       sync.Mutex
	current  *Frame
	pending  bool
	lastReq  float64
}

func NewPreviewDecoder(path string) (*PreviewDecoder, error) {
	dc, err := openDecode(path)
	if err != nil {
		return nil, err
	}
	return &PreviewDecoder{
		ctx:    dc,
		worker: astikit.NewWorker(astikit.WorkerOptions{}),
	}, nil
}

func (p *PreviewDecoder) FrameAt(t float64) (*Frame, error) {
	p.mu.Lock()
	needsDecode := !p.pending && (p.current == nil || absF(p.current.PTS-t) > 0.05)
	if needsDecode {
		p.pending = true
		p.lastReq = t
	}
	cur := p.current
	p.mu.Unlock()

	if needsDecode {
		task := p.worker.NewTask()
		go func() {
			defer task.Done()
			p.decodeAsync(t)
		}()
	}
	return cur, nil
}

func (p *PreviewDecoder) decodeAsync(t float64) {
	if p.worker.Context().Err() != nil {
		return
	}
	frame, err := decodeFrameNear(p.ctx, t)
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pending = false
	if err == nil && frame != nil {
		p.current = frame
	}
}

func (p *PreviewDecoder) Duration() float64 { return p.ctx.durationS }

func (p *PreviewDecoder) Close() error {
	p.worker.Stop()
	return p.ctx.Close()
}

func absF(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
