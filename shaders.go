package director

import (
	"math"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
)

// Filter is a single stage in an Effect element's filter chain (spec §4.3).
type Filter interface {
	Apply(src, dst *ebiten.Image)
	// Padding reports the extra pixels needed around the source (blur
	// radius, shadow offset); padding is cumulative across a chain.
	Padding() int
}

// shaderCache compiles Kage shaders once and keys them by source text, so
// a user-authored runtime shader re-applied every frame (or shared by two
// effect nodes with identical source) compiles exactly once. Guarded by a
// mutex held across the lookup and any compile (spec §5: the asset pool
// is shared with nested compositions).
type shaderCache struct {
	mu    sync.Mutex
	byKey map[string]*ebiten.Shader
}

func newShaderCache() *shaderCache {
	return &shaderCache{byKey: make(map[string]*ebiten.Shader)}
}

// compile returns the cached shader for src, compiling and caching it on
// first use. A compile failure is a ShaderCompileError: logged and nil is
// returned so the caller can drop this filter for the frame and retry next
// frame (spec §7).
func (c *shaderCache) compile(src string) *ebiten.Shader {
	c.mu.Lock()
	defer c.mu.Unlock()
	if s, ok := c.byKey[src]; ok {
		return s
	}
	s, err := ebiten.NewShader([]byte(src))
	if err != nil {
		warnf("shader compile failed, dropping effect for this frame: %v", err)
		return nil
	}
	c.byKey[src] = s
	return s
}

// --- Kage shader sources ---
// Ebitengine uses premultiplied alpha; shaders un-premultiply before
// processing color math and re-premultiply on the way out.

const colorMatrixShaderSrc = `//kage:unit pixels
package main

var Matrix [20]float

func Fragment(dst vec4, src vec2, color vec4) vec4 {
	c := imageSrc0At(src)
	if c.a > 0 {
		c.rgb /= c.a
	}
	r := Matrix[0]*c.r + Matrix[1]*c.g + Matrix[2]*c.b + Matrix[3]*c.a + Matrix[4]
	g := Matrix[5]*c.r + Matrix[6]*c.g + Matrix[7]*c.b + Matrix[8]*c.a + Matrix[9]
	b := Matrix[10]*c.r + Matrix[11]*c.g + Matrix[12]*c.b + Matrix[13]*c.a + Matrix[14]
	a := Matrix[15]*c.r + Matrix[16]*c.g + Matrix[17]*c.b + Matrix[18]*c.a + Matrix[19]
	r = clamp(r, 0, 1)
	g = clamp(g, 0, 1)
	b = clamp(b, 0, 1)
	a = clamp(a, 0, 1)
	return vec4(r*a, g*a, b*a, a)
}
`

const dropShadowShaderSrc = `//kage:unit pixels
package main

var Offset vec2
var ShadowColor vec4
var Resolution vec2

func Fragment(dst vec4, src vec2, color vec4) vec4 {
	c := imageSrc0At(src)
	shadow := imageSrc0At(src - Offset)
	base := vec4(ShadowColor.rgb*shadow.a, shadow.a) * ShadowColor.a
	out := base * (1 - c.a) + c
	return out
}
`

const directionalBlurShaderSrc = `//kage:unit pixels
package main

var Direction vec2
var Samples float

func Fragment(dst vec4, src vec2, color vec4) vec4 {
	sum := vec4(0)
	n := int(Samples)
	for i := 0; i < n; i++ {
		t := (float(i)/(Samples-1) - 0.5)
		sum += imageSrc0At(src + Direction*t)
	}
	return sum / Samples
}
`

const grainShaderSrc = `//kage:unit pixels
package main

var Amount float
var Seed float

func rand(co vec2) float {
	return fract(sin(dot(co, vec2(12.9898, 78.233))+Seed) * 43758.5453)
}

func Fragment(dst vec4, src vec2, color vec4) vec4 {
	c := imageSrc0At(src)
	n := (rand(src) - 0.5) * Amount
	if c.a > 0 {
		c.rgb /= c.a
	}
	c.rgb = clamp(c.rgb+vec3(n, n, n), 0, 1)
	return vec4(c.rgb*c.a, c.a)
}
`

// --- Box shader (spec §4.3 Box: corner radius + border) ---

const roundedRectShaderSrc = `//kage:unit pixels
package main

var Size vec2
var Radius float
var FillColor vec4
var BorderWidth float
var BorderColor vec4

// sdRoundRect is the standard signed-distance field for a box with rounded
// corners, centered at the origin (Inigo Quilez's formulation).
func sdRoundRect(p, halfSize vec2, r float) float {
	q := abs(p) - halfSize + vec2(r, r)
	return min(max(q.x, q.y), 0.0) + length(max(q, vec2(0, 0))) - r
}

func Fragment(dst vec4, src vec2, color vec4) vec4 {
	p := dst.xy - Size*0.5
	d := sdRoundRect(p, Size*0.5, Radius)
	outer := 1.0 - smoothstep(-1.0, 1.0, d)
	inner := outer
	if BorderWidth > 0 {
		inner = 1.0 - smoothstep(-1.0, 1.0, d+BorderWidth)
	}
	border := outer - inner
	rgb := FillColor.rgb*inner + BorderColor.rgb*border
	a := FillColor.a*inner + BorderColor.a*border
	return vec4(rgb*a, a) * color.a
}
`

// --- Transition shaders (spec §3 Transition, §4.5) ---

const fadeTransitionShaderSrc = `//kage:unit pixels
package main

var Progress float

func Fragment(dst vec4, src vec2, color vec4) vec4 {
	a := imageSrc0At(src)
	b := imageSrc1At(src)
	return a*(1-Progress) + b*Progress
}
`

const slideTransitionShaderSrc = `//kage:unit pixels
package main

var Progress float
var Resolution vec2
var Direction float // +1 = left, -1 = right

func Fragment(dst vec4, src vec2, color vec4) vec4 {
	offset := Direction * Progress * Resolution.x
	a := imageSrc0At(src + vec2(offset, 0))
	b := imageSrc1At(src + vec2(offset-Direction*Resolution.x, 0))
	if Direction > 0 {
		if src.x+offset < Resolution.x {
			return a
		}
		return b
	}
	if src.x+offset >= 0 {
		return a
	}
	return b
}
`

const wipeTransitionShaderSrc = `//kage:unit pixels
package main

var Progress float
var Resolution vec2
var Direction float // +1 = left-to-right wipe, -1 = right-to-left

func Fragment(dst vec4, src vec2, color vec4) vec4 {
	u := src.x / Resolution.x
	edge := Progress
	if Direction < 0 {
		u = 1 - u
	}
	if u < edge {
		return imageSrc1At(src)
	}
	return imageSrc0At(src)
}
`

const circleOpenTransitionShaderSrc = `//kage:unit pixels
package main

var Progress float
var Resolution vec2

func Fragment(dst vec4, src vec2, color vec4) vec4 {
	center := Resolution * 0.5
	maxRadius := length(Resolution) * 0.5
	d := length(src - center)
	if d < Progress*maxRadius {
		return imageSrc1At(src)
	}
	return imageSrc0At(src)
}
`

// --- ColorMatrixFilter ---

// ColorMatrixFilter applies a 4x5 color matrix (row-major: R,G,B,A row then
// a constant offset per row). Backs the grayscale/sepia/invert/contrast/
// brightness effect names from the scripting bridge.
type ColorMatrixFilter struct {
	Matrix   [20]float64
	cache    *shaderCache
	uniforms map[string]any
	matF32   [20]float32
	shaderOp ebiten.DrawRectShaderOptions
}

func NewColorMatrixFilter(cache *shaderCache) *ColorMatrixFilter {
	f := &ColorMatrixFilter{cache: cache, uniforms: make(map[string]any, 1)}
	f.Matrix = identityColorMatrix()
	return f
}

func identityColorMatrix() [20]float64 {
	return [20]float64{
		1, 0, 0, 0, 0,
		0, 1, 0, 0, 0,
		0, 0, 1, 0, 0,
		0, 0, 0, 1, 0,
	}
}

func (f *ColorMatrixFilter) SetGrayscale() {
	f.Matrix = [20]float64{
		0.299, 0.587, 0.114, 0, 0,
		0.299, 0.587, 0.114, 0, 0,
		0.299, 0.587, 0.114, 0, 0,
		0, 0, 0, 1, 0,
	}
}

func (f *ColorMatrixFilter) SetSepia() {
	f.Matrix = [20]float64{
		0.393, 0.769, 0.189, 0, 0,
		0.349, 0.686, 0.168, 0, 0,
		0.272, 0.534, 0.131, 0, 0,
		0, 0, 0, 1, 0,
	}
}

func (f *ColorMatrixFilter) SetInvert() {
	f.Matrix = [20]float64{
		-1, 0, 0, 0, 1,
		0, -1, 0, 0, 1,
		0, 0, -1, 0, 1,
		0, 0, 0, 1, 0,
	}
}

func (f *ColorMatrixFilter) SetContrast(c float64) {
	t := (1 - c) / 2
	f.Matrix = [20]float64{
		c, 0, 0, 0, t,
		0, c, 0, 0, t,
		0, 0, c, 0, t,
		0, 0, 0, 1, 0,
	}
}

func (f *ColorMatrixFilter) SetBrightness(b float64) {
	f.Matrix = identityColorMatrix()
	f.Matrix[4] = b
	f.Matrix[9] = b
	f.Matrix[14] = b
}

func (f *ColorMatrixFilter) Apply(src, dst *ebiten.Image) {
	shader := f.cache.compile(colorMatrixShaderSrc)
	if shader == nil {
		dst.DrawImage(src, nil)
		return
	}
	for i, v := range f.Matrix {
		f.matF32[i] = float32(v)
	}
	f.uniforms["Matrix"] = f.matF32[:]
	bounds := src.Bounds()
	f.shaderOp.Images[0] = src
	f.shaderOp.Uniforms = f.uniforms
	dst.DrawRectShader(bounds.Dx(), bounds.Dy(), shader, &f.shaderOp)
}

func (f *ColorMatrixFilter) Padding() int { return 0 }

// --- BlurFilter (Kawase iterative downscale/upscale blur) ---

type BlurFilter struct {
	Radius int
	pool   *rtPool
	temps  []*ebiten.Image
	imgOp  ebiten.DrawImageOptions
}

func NewBlurFilter(radius int, pool *rtPool) *BlurFilter {
	if radius < 0 {
		radius = 0
	}
	return &BlurFilter{Radius: radius, pool: pool}
}

func (f *BlurFilter) Apply(src, dst *ebiten.Image) {
	if f.Radius <= 0 {
		f.imgOp.GeoM.Reset()
		f.imgOp.ColorScale.Reset()
		dst.DrawImage(src, &f.imgOp)
		return
	}
	passes := int(math.Ceil(math.Log2(float64(f.Radius))))
	if passes < 1 {
		passes = 1
	}
	srcBounds := src.Bounds()
	w, h := srcBounds.Dx(), srcBounds.Dy()

	for len(f.temps) < passes {
		f.temps = append(f.temps, nil)
	}
	f.temps = f.temps[:passes]

	op := &f.imgOp
	current := src
	for i := 0; i < passes; i++ {
		w = maxInt(w/2, 1)
		h = maxInt(h/2, 1)
		if f.temps[i] == nil || f.temps[i].Bounds().Dx() != w || f.temps[i].Bounds().Dy() != h {
			f.temps[i] = ebiten.NewImage(w, h)
		} else {
			f.temps[i].Clear()
		}
		op.GeoM.Reset()
		op.ColorScale.Reset()
		sw, sh := float64(current.Bounds().Dx()), float64(current.Bounds().Dy())
		op.GeoM.Scale(float64(w)/sw, float64(h)/sh)
		op.Filter = ebiten.FilterLinear
		f.temps[i].DrawImage(current, op)
		current = f.temps[i]
	}
	for i := passes - 2; i >= 0; i-- {
		f.temps[i].Clear()
		op.GeoM.Reset()
		op.ColorScale.Reset()
		sw, sh := float64(current.Bounds().Dx()), float64(current.Bounds().Dy())
		tw, th := float64(f.temps[i].Bounds().Dx()), float64(f.temps[i].Bounds().Dy())
		op.GeoM.Scale(tw/sw, th/sh)
		op.Filter = ebiten.FilterLinear
		f.temps[i].DrawImage(current, op)
		current = f.temps[i]
	}
	op.GeoM.Reset()
	op.ColorScale.Reset()
	sw, sh := float64(current.Bounds().Dx()), float64(current.Bounds().Dy())
	tw, th := float64(dst.Bounds().Dx()), float64(dst.Bounds().Dy())
	op.GeoM.Scale(tw/sw, th/sh)
	op.Filter = ebiten.FilterLinear
	dst.DrawImage(current, op)
}

func (f *BlurFilter) Padding() int { return f.Radius }

// --- DropShadowFilter ---

type DropShadowFilter struct {
	OffsetX, OffsetY float64
	Color            Color
	cache            *shaderCache
	uniforms         map[string]any
	offF32           [2]float32
	colorF32         [4]float32
	shaderOp         ebiten.DrawRectShaderOptions
}

func NewDropShadowFilter(dx, dy float64, c Color, cache *shaderCache) *DropShadowFilter {
	return &DropShadowFilter{OffsetX: dx, OffsetY: dy, Color: c, cache: cache, uniforms: make(map[string]any, 2)}
}

func (f *DropShadowFilter) Apply(src, dst *ebiten.Image) {
	shader := f.cache.compile(dropShadowShaderSrc)
	if shader == nil {
		dst.DrawImage(src, nil)
		return
	}
	f.offF32 = [2]float32{float32(f.OffsetX), float32(f.OffsetY)}
	f.colorF32 = [4]float32{float32(f.Color.R), float32(f.Color.G), float32(f.Color.B), float32(f.Color.A)}
	f.uniforms["Offset"] = f.offF32[:]
	f.uniforms["ShadowColor"] = f.colorF32[:]
	bounds := src.Bounds()
	f.uniforms["Resolution"] = []float32{float32(bounds.Dx()), float32(bounds.Dy())}
	f.shaderOp.Images[0] = src
	f.shaderOp.Uniforms = f.uniforms
	dst.DrawRectShader(bounds.Dx(), bounds.Dy(), shader, &f.shaderOp)
}

func (f *DropShadowFilter) Padding() int {
	return int(math.Ceil(math.Max(math.Abs(f.OffsetX), math.Abs(f.OffsetY))))
}

// --- DirectionalBlurFilter ---

type DirectionalBlurFilter struct {
	DirX, DirY float64
	Samples    int
	cache      *shaderCache
	uniforms   map[string]any
	dirF32     [2]float32
	shaderOp   ebiten.DrawRectShaderOptions
}

func NewDirectionalBlurFilter(dx, dy float64, samples int, cache *shaderCache) *DirectionalBlurFilter {
	if samples < 2 {
		samples = 2
	}
	return &DirectionalBlurFilter{DirX: dx, DirY: dy, Samples: samples, cache: cache, uniforms: make(map[string]any, 2)}
}

func (f *DirectionalBlurFilter) Apply(src, dst *ebiten.Image) {
	shader := f.cache.compile(directionalBlurShaderSrc)
	if shader == nil {
		dst.DrawImage(src, nil)
		return
	}
	f.dirF32 = [2]float32{float32(f.DirX), float32(f.DirY)}
	f.uniforms["Direction"] = f.dirF32[:]
	f.uniforms["Samples"] = float32(f.Samples)
	bounds := src.Bounds()
	f.shaderOp.Images[0] = src
	f.shaderOp.Uniforms = f.uniforms
	dst.DrawRectShader(bounds.Dx(), bounds.Dy(), shader, &f.shaderOp)
}

func (f *DirectionalBlurFilter) Padding() int {
	return int(math.Ceil(math.Max(math.Abs(f.DirX), math.Abs(f.DirY))))
}

// --- GrainFilter ---

type GrainFilter struct {
	Amount   float64
	Seed     float64
	cache    *shaderCache
	uniforms map[string]any
	shaderOp ebiten.DrawRectShaderOptions
}

func NewGrainFilter(amount float64, cache *shaderCache) *GrainFilter {
	return &GrainFilter{Amount: amount, cache: cache, uniforms: make(map[string]any, 2)}
}

func (f *GrainFilter) Apply(src, dst *ebiten.Image) {
	shader := f.cache.compile(grainShaderSrc)
	if shader == nil {
		dst.DrawImage(src, nil)
		return
	}
	f.uniforms["Amount"] = float32(f.Amount)
	f.uniforms["Seed"] = float32(f.Seed)
	bounds := src.Bounds()
	f.shaderOp.Images[0] = src
	f.shaderOp.Uniforms = f.uniforms
	dst.DrawRectShader(bounds.Dx(), bounds.Dy(), shader, &f.shaderOp)
}

func (f *GrainFilter) Padding() int { return 0 }

// --- CustomShaderFilter ---

// CustomShaderFilter wraps a user-provided Kage source, auto-injecting
// u_resolution and u_time uniforms (spec §4.3).
type CustomShaderFilter struct {
	Source   string
	Uniforms map[string]any
	cache    *shaderCache
	timeSec  float64
	shaderOp ebiten.DrawRectShaderOptions
}

func NewCustomShaderFilter(source string, cache *shaderCache) *CustomShaderFilter {
	return &CustomShaderFilter{Source: source, Uniforms: make(map[string]any), cache: cache}
}

func (f *CustomShaderFilter) Apply(src, dst *ebiten.Image) {
	shader := f.cache.compile(f.Source)
	if shader == nil {
		dst.DrawImage(src, nil)
		return
	}
	bounds := src.Bounds()
	uniforms := make(map[string]any, len(f.Uniforms)+2)
	for k, v := range f.Uniforms {
		uniforms[k] = v
	}
	uniforms["u_resolution"] = []float32{float32(bounds.Dx()), float32(bounds.Dy())}
	uniforms["u_time"] = float32(f.timeSec)
	f.shaderOp.Images[0] = src
	f.shaderOp.Uniforms = uniforms
	dst.DrawRectShader(bounds.Dx(), bounds.Dy(), shader, &f.shaderOp)
}

func (f *CustomShaderFilter) Padding() int { return 0 }

// filterChainPadding sums every filter's Padding(); the offscreen surface
// for an Effect node is sized to accommodate the whole chain.
func filterChainPadding(filters []Filter) int {
	pad := 0
	for _, f := range filters {
		pad += f.Padding()
	}
	return pad
}

// applyFilters runs a filter chain on src, ping-ponging between src and one
// pooled scratch image (so src is cleared and reused when the chain has
// more than one filter). A single filter whose shader failed to compile draws its
// input through unchanged (Apply degrades to a plain copy) rather than
// aborting the rest of the chain — grounded on the original engine's
// per-filter `continue` on compile failure.
func applyFilters(filters []Filter, src *ebiten.Image, pool *rtPool) *ebiten.Image {
	if len(filters) == 0 {
		return src
	}
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	current := src
	var scratch *ebiten.Image
	for _, f := range filters {
		if scratch == nil {
			scratch = pool.Acquire(w, h)
		} else {
			scratch.Clear()
		}
		f.Apply(current, scratch)
		current, scratch = scratch, current
	}
	return current
}

// buildEffectFilterChain constructs the ordered Filter chain for an Effect
// node's `effects` list (scripting bridge names: grayscale, sepia, invert,
// contrast, brightness, blur, shader, directional_blur, grain). Unknown
// names are a ConfigurationError: skipped with a warning, never fatal.
func buildEffectFilterChain(specs []EffectSpec, cache *shaderCache, pool *rtPool) []Filter {
	var chain []Filter
	for _, spec := range specs {
		switch spec.Name {
		case "grayscale":
			f := NewColorMatrixFilter(cache)
			f.SetGrayscale()
			chain = append(chain, f)
		case "sepia":
			f := NewColorMatrixFilter(cache)
			f.SetSepia()
			chain = append(chain, f)
		case "invert":
			f := NewColorMatrixFilter(cache)
			f.SetInvert()
			chain = append(chain, f)
		case "contrast":
			f := NewColorMatrixFilter(cache)
			f.SetContrast(spec.Value)
			chain = append(chain, f)
		case "brightness":
			f := NewColorMatrixFilter(cache)
			f.SetBrightness(spec.Value)
			chain = append(chain, f)
		case "blur":
			chain = append(chain, NewBlurFilter(int(spec.Value), pool))
		case "drop_shadow":
			chain = append(chain, NewDropShadowFilter(spec.OffsetX, spec.OffsetY, spec.Color, cache))
		case "directional_blur":
			chain = append(chain, NewDirectionalBlurFilter(spec.OffsetX, spec.OffsetY, maxInt(int(spec.Value), 2), cache))
		case "grain":
			chain = append(chain, NewGrainFilter(spec.Value, cache))
		case "shader":
			cf := NewCustomShaderFilter(spec.ShaderSource, cache)
			for k, v := range spec.Uniforms {
				cf.Uniforms[k] = v
			}
			chain = append(chain, cf)
		default:
			warnf("unknown effect %q, skipping", spec.Name)
		}
	}
	return chain
}

// EffectSpec is the scripting-bridge parameter bag for one entry in an
// Effect node's filter chain (spec §6.2 apply_effect).
type EffectSpec struct {
	Name         string
	Value        float64
	OffsetX, OffsetY float64
	Color        Color
	ShaderSource string
	Uniforms     map[string]any
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
