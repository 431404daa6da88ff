package director

import (
	"bytes"
	"fmt"
	"image"
	"math"
	"strconv"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

// VectorElement rasterizes a static SVG document into its layout box. The
// rasterized bitmap is cached per pixel size, so repeated frames at a
// stable layout reuse the same *ebiten.Image and only re-rasterize when
// the box is resized (spec §4.3 Vector).
type VectorElement struct {
	NoopElement
	Path string

	icon      *oksvg.SvgIcon
	loadErr   error
	loaded    bool

	rasterW, rasterH int
	rasterized       *ebiten.Image
}

func NewVectorElement(path string) *VectorElement {
	e := &VectorElement{Path: path}
	e.style = DefaultStyle()
	return e
}

func (e *VectorElement) Kind() string { return "vector" }

func (e *VectorElement) NeedsMeasure() bool { return true }

func (e *VectorElement) Measure(_, _ float64) (float64, float64) {
	if e.icon == nil {
		return 0, 0
	}
	return e.icon.ViewBox.W, e.icon.ViewBox.H
}

func (e *VectorElement) Render(ctx *RenderContext, rect Rect, parentOpacity float64, drawChildren func()) {
	e.ensureLoaded(ctx)
	if e.icon != nil && ctx.Dst != nil && rect.W > 0 && rect.H > 0 {
		img := e.rasterAt(int(rect.W), int(rect.H))
		if img != nil {
			op := &ebiten.DrawImageOptions{}
			op.GeoM.Concat(ctx.WorldGeoM())
			op.ColorScale.ScaleAlpha(float32(parentOpacity))
			ctx.Dst.DrawImage(img, op)
		}
	}
	drawChildren()
}

func (e *VectorElement) ensureLoaded(ctx *RenderContext) {
	if e.loaded || ctx.Assets == nil {
		return
	}
	e.loaded = true
	raw, err := ctx.Assets.Bytes(e.Path)
	if err != nil {
		e.loadErr = err
		warnf("vector element: %v", err)
		return
	}
	icon, err := oksvg.ReadIconStream(bytes.NewReader(raw))
	if err != nil {
		e.loadErr = err
		warnf("vector element: parsing %q: %v", e.Path, err)
		return
	}
	e.icon = icon
}

// rasterAt rasterizes the icon at w x h pixels, reusing the cached bitmap
// when the requested size hasn't changed since the last frame.
func (e *VectorElement) rasterAt(w, h int) *ebiten.Image {
	if w <= 0 || h <= 0 {
		return nil
	}
	if e.rasterized != nil && e.rasterW == w && e.rasterH == h {
		return e.rasterized
	}
	e.icon.SetTarget(0, 0, float64(w), float64(h))
	rgba := image.NewRGBA(image.Rect(0, 0, w, h))
	scanner := rasterx.NewScannerGV(w, h, rgba, rgba.Bounds())
	raster := rasterx.NewDasher(w, h, scanner)
	e.icon.Draw(raster, 1.0)

	e.rasterized = ebiten.NewImageFromImage(rgba)
	e.rasterW, e.rasterH = w, h
	return e.rasterized
}

// BuildPathAnimation flattens an SVG path "d" attribute into the arc-length
// polyline a PathAnimation samples from (node.go), so a node can be made to
// follow an arbitrary vector path rather than just a straight-line
// keyframed translate (spec §9.4). It supports the M/L/H/V/C/Q/Z subset
// commonly emitted by vector tooling; arcs (A) are not supported.
func BuildPathAnimation(d string, progress *Animated[float64]) (*PathAnimation, error) {
	cmds, err := parseSVGPathData(d)
	if err != nil {
		return nil, fmt.Errorf("director: parsing path data: %w", err)
	}
	points := flattenPath(cmds)
	if len(points) == 0 {
		return nil, fmt.Errorf("director: path data produced no points")
	}
	length := 0.0
	pts := make([]pathPoint, len(points))
	pts[0] = pathPoint{X: points[0][0], Y: points[0][1], Dist: 0}
	for i := 1; i < len(points); i++ {
		dx := points[i][0] - points[i-1][0]
		dy := points[i][1] - points[i-1][1]
		length += math.Sqrt(dx*dx + dy*dy)
		pts[i] = pathPoint{X: points[i][0], Y: points[i][1], Dist: length}
	}
	return &PathAnimation{Points: pts, Length: length, Progress: progress}, nil
}

type svgPathCmd struct {
	op   byte
	args []float64
}

func parseSVGPathData(d string) ([]svgPathCmd, error) {
	var cmds []svgPathCmd
	var cur strings.Builder
	var curOp byte
	flush := func() error {
		if curOp == 0 {
			return nil
		}
		fields := strings.FieldsFunc(cur.String(), func(r rune) bool {
			return r == ',' || r == ' ' || r == '\t' || r == '\n'
		})
		args := make([]float64, 0, len(fields))
		for _, f := range fields {
			if f == "" {
				continue
			}
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return fmt.Errorf("invalid number %q", f)
			}
			args = append(args, v)
		}
		cmds = append(cmds, svgPathCmd{op: curOp, args: args})
		cur.Reset()
		return nil
	}
	for _, r := range d {
		switch {
		case strings.ContainsRune("MmLlHhVvCcQqZz", r):
			if err := flush(); err != nil {
				return nil, err
			}
			curOp = byte(r)
		default:
			cur.WriteRune(r)
		}
	}
	if err := flush(); err != nil {
		return nil, err
	}
	return cmds, nil
}

// flattenPath walks parsed path commands, subdividing curves into line
// segments, and returns the resulting polyline as [x,y] pairs.
func flattenPath(cmds []svgPathCmd) [][2]float64 {
	var out [][2]float64
	var cx, cy float64
	var startX, startY float64
	emit := func(x, y float64) {
		out = append(out, [2]float64{x, y})
		cx, cy = x, y
	}
	for _, c := range cmds {
		rel := c.op >= 'a'
		switch lower(c.op) {
		case 'm':
			for i := 0; i+1 < len(c.args); i += 2 {
				x, y := c.args[i], c.args[i+1]
				if rel && len(out) > 0 {
					x += cx
					y += cy
				}
				emit(x, y)
				startX, startY = x, y
			}
		case 'l':
			for i := 0; i+1 < len(c.args); i += 2 {
				x, y := c.args[i], c.args[i+1]
				if rel {
					x += cx
					y += cy
				}
				emit(x, y)
			}
		case 'h':
			for _, v := range c.args {
				x := v
				if rel {
					x += cx
				}
				emit(x, cy)
			}
		case 'v':
			for _, v := range c.args {
				y := v
				if rel {
					y += cy
				}
				emit(cx, y)
			}
		case 'c':
			for i := 0; i+5 < len(c.args); i += 6 {
				x1, y1 := c.args[i], c.args[i+1]
				x2, y2 := c.args[i+2], c.args[i+3]
				x, y := c.args[i+4], c.args[i+5]
				if rel {
					x1, y1 = x1+cx, y1+cy
					x2, y2 = x2+cx, y2+cy
					x, y = x+cx, y+cy
				}
				subdivideCubic(cx, cy, x1, y1, x2, y2, x, y, emit)
			}
		case 'q':
			for i := 0; i+3 < len(c.args); i += 4 {
				x1, y1 := c.args[i], c.args[i+1]
				x, y := c.args[i+2], c.args[i+3]
				if rel {
					x1, y1 = x1+cx, y1+cy
					x, y = x+cx, y+cy
				}
				subdivideQuadratic(cx, cy, x1, y1, x, y, emit)
			}
		case 'z':
			emit(startX, startY)
		}
	}
	return out
}

func lower(b byte) byte {
	if b >= 'A' && b <= 'Z' {
		return b + ('a' - 'A')
	}
	return b
}

const bezierSteps = 16

func subdivideCubic(x0, y0, x1, y1, x2, y2, x3, y3 float64, emit func(x, y float64)) {
	for i := 1; i <= bezierSteps; i++ {
		t := float64(i) / float64(bezierSteps)
		mt := 1 - t
		x := mt*mt*mt*x0 + 3*mt*mt*t*x1 + 3*mt*t*t*x2 + t*t*t*x3
		y := mt*mt*mt*y0 + 3*mt*mt*t*y1 + 3*mt*t*t*y2 + t*t*t*y3
		emit(x, y)
	}
}

func subdivideQuadratic(x0, y0, x1, y1, x2, y2 float64, emit func(x, y float64)) {
	for i := 1; i <= bezierSteps; i++ {
		t := float64(i) / float64(bezierSteps)
		mt := 1 - t
		x := mt*mt*x0 + 2*mt*t*x1 + t*t*x2
		y := mt*mt*y0 + 2*mt*t*y1 + t*t*y2
		emit(x, y)
	}
}
