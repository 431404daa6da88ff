package director

import (
	"image"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

// rtPool manages reusable offscreen ebiten.Images keyed by power-of-two
// dimensions. After warmup, Acquire/Release are zero-alloc. This backs
// composition-cache surfaces, mask-compositing layers, transition from/to
// surfaces, and motion-blur scratch surfaces (spec §4.3, §4.5).
type rtPool struct {
	buckets map[uint64][]*ebiten.Image
}

func newRTPool() *rtPool {
	return &rtPool{}
}

func poolKey(w, h int) uint64 {
	return uint64(w)<<32 | uint64(h)
}

// Acquire returns a cleared offscreen image with at least (w, h) pixels.
// Dimensions are rounded up to the next power of two so a small family of
// buckets covers the whole pool regardless of exact requested sizes.
func (p *rtPool) Acquire(w, h int) *ebiten.Image {
	pw := nextPowerOfTwo(w)
	ph := nextPowerOfTwo(h)
	key := poolKey(pw, ph)

	if p.buckets != nil {
		if stack := p.buckets[key]; len(stack) > 0 {
			img := stack[len(stack)-1]
			p.buckets[key] = stack[:len(stack)-1]
			img.Clear()
			return img
		}
	}

	return ebiten.NewImageWithOptions(
		image.Rect(0, 0, pw, ph),
		&ebiten.NewImageOptions{Unmanaged: true},
	)
}

// Release returns an image to the pool for reuse. The image is cleared on
// next Acquire, not here, to avoid redundant GPU work if it is immediately
// re-acquired.
func (p *rtPool) Release(img *ebiten.Image) {
	if img == nil {
		return
	}
	b := img.Bounds()
	key := poolKey(b.Dx(), b.Dy())

	if p.buckets == nil {
		p.buckets = make(map[uint64][]*ebiten.Image)
	}
	p.buckets[key] = append(p.buckets[key], img)
}

func nextPowerOfTwo(n int) int {
	if n <= 1 {
		return 1
	}
	return 1 << int(math.Ceil(math.Log2(float64(n))))
}
