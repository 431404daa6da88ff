package director

import "fmt"

// This file is the narrow Go-side surface a scripting-language bridge would
// call into (itself out of scope per §1's Non-goals — no VM, no bytecode,
// no bindings generator lives here). MovieHandle/SceneHandle/NodeHandle/
// TrackHandle wrap a Director/Scene/NodeId/GlobalAudioTrack pair behind
// small value types a host embedder (or a future bridge) can hand out to
// script callers without exposing arena internals directly. Element
// construction here accepts a property bag (map[string]any) rather than a
// typed struct per element kind, mirroring the way the scripting contract
// itself is string/number/bool-keyed (spec §6.2): an unrecognised key or a
// value of the wrong type is ignored, and a malformed color, dimension,
// blend-mode or object_fit string falls back to a default with a warning;
// neither is a fatal error.

// MovieHandle is the root handle a script obtains to drive one Director.
type MovieHandle struct {
	d *Director
}

func NewMovieHandle(d *Director) MovieHandle {
	return MovieHandle{d: d}
}

// Scene returns a handle to the legacy single-root scene (the whole tree
// hanging off Director.Root) rather than one of the timed scenes AddScene
// creates.
func (m MovieHandle) Scene() SceneHandle {
	return SceneHandle{scene: m.d.Scene, ctx: m.d.ctx, index: -1}
}

func (m MovieHandle) Seek(t float64) { m.d.Seek(t) }

func (m MovieHandle) Update(dt float64) { m.d.Update(dt) }

// Root returns a handle to the Director's legacy root node.
func (m MovieHandle) Root() NodeHandle {
	return NodeHandle{scene: m.d.Scene, id: m.d.Root}
}

// AddScene allocates a new top-level timed scene, rooted at a fresh Box
// container sized to fill the screen, occupying [startTime,
// startTime+duration) on the global timeline (spec §6.2 add_scene). Scripts
// build the scene's content by creating nodes through the returned handle
// and parenting them under Root().
func (m MovieHandle) AddScene(startTime, duration float64) SceneHandle {
	root := NewBoxElement()
	root.SetShaderContext(m.d.ctx.Shaders, m.d.ctx.Pool)
	idx, _ := m.d.AddScene(root, startTime, duration)
	return SceneHandle{scene: m.d.Scene, ctx: m.d.ctx, index: idx}
}

// AddTransition registers a cross-fade/wipe/etc. between two scenes
// previously returned by AddScene, active over [startTime,
// startTime+duration) (spec §6.2 add_transition). from/to must be
// SceneHandles this MovieHandle produced via AddScene, not the legacy
// Scene() handle.
func (m MovieHandle) AddTransition(kind TransitionKind, duration float64, from, to SceneHandle, startTime float64) {
	tr := NewTransition(kind, duration, m.d.ctx.Shaders)
	m.d.AddTransition(tr, from.index, to.index, startTime)
}

// AddAudio registers an independently timed global audio track (a music bed
// or narration clip not attached to any visual node) and returns a handle
// for adjusting its playback parameters afterward (spec §6.2/§4.9
// add_global_audio). Decoding PCM from a file path is a caller concern;
// samples must already be decoded.
func (m MovieHandle) AddAudio(path string, samples []float32, sampleRate, channels int) TrackHandle {
	track := &GlobalAudioTrack{
		Path: path, Samples: samples, SampleRate: sampleRate, Channels: channels,
		CurrentVolume: 1,
	}
	m.d.AddGlobalAudio(track)
	return TrackHandle{track: track}
}

// ConfigureMotionBlur records the shutter-sample settings an embedder reads
// back (via MotionBlur()) into ExportOptions.MotionBlur before starting an
// Export pass (spec §6.2 configure_motion_blur). The Director itself never
// samples sub-frames; Export alone does.
func (m MovieHandle) ConfigureMotionBlur(samples int, shutterAngle float64) {
	m.d.MotionBlur = MotionBlurConfig{Enabled: samples > 1, Samples: samples, ShutterAngle: shutterAngle}
}

// MotionBlur returns the settings last recorded via ConfigureMotionBlur.
func (m MovieHandle) MotionBlur() MotionBlurConfig { return m.d.MotionBlur }

// TrackHandle is the script-facing handle to one GlobalAudioTrack returned
// by MovieHandle.AddAudio, for adjusting playback parameters after
// construction (spec §6.2).
type TrackHandle struct {
	track *GlobalAudioTrack
}

func (t TrackHandle) SetVolume(v float64) { t.track.CurrentVolume = v }

func (t TrackHandle) SetStartTime(s float64) { t.track.StartTime = s }

// SetLoop sets the track's Loop and HardClip flags. A looping track wraps
// through its samples; a track with a set Duration stops at that boundary
// whether or not it loops or HardClip is set.
func (t TrackHandle) SetLoop(loop, hardClip bool) {
	t.track.Loop = loop
	t.track.HardClip = hardClip
}

func (t TrackHandle) SetDuration(d float64) { t.track.Duration = d }

// SceneHandle wraps a *Scene plus the shared DirectorContext for
// script-facing node creation/lookup. index is this handle's position in
// Director.Scenes, or -1 for the legacy single-root scene.
type SceneHandle struct {
	scene *Scene
	ctx   *DirectorContext
	index int
}

// CreateNode allocates a new node wrapping el and returns a handle to it.
func (s SceneHandle) CreateNode(el Element) NodeHandle {
	id := s.scene.AddNode(el)
	return NodeHandle{scene: s.scene, id: id}
}

// Node looks up an existing node by its raw id, for scripts that received
// a NodeId value from a prior call (e.g. a query result) rather than a
// live NodeHandle.
func (s SceneHandle) Node(id NodeId) (NodeHandle, error) {
	if s.scene.Get(id) == nil {
		return NodeHandle{}, fmt.Errorf("director: node %d does not exist", id)
	}
	return NodeHandle{scene: s.scene, id: id}, nil
}

// AddBox creates a Box element from a property bag (spec §6.2 add_box):
// bg_color, corner_radius, border_width, border_color, shadow_color,
// shadow_blur, shadow_x, shadow_y, blur_radius, overflow ("visible"|"clip"),
// plus the common layout keys applyCommonStyle understands.
func (s SceneHandle) AddBox(props map[string]any) NodeHandle {
	b := NewBoxElement()
	b.SetShaderContext(s.ctx.Shaders, s.ctx.Pool)
	if v, ok := propString(props, "bg_color"); ok {
		b.Fill = NewAnimated(ParseColor(v), LerpColor)
	}
	if v, ok := propFloat(props, "corner_radius"); ok {
		b.CornerRadius = v
	}
	if v, ok := propFloat(props, "border_width"); ok {
		b.BorderWidth = v
	}
	if v, ok := propString(props, "border_color"); ok {
		b.BorderColor = ParseColor(v)
	}
	if v, ok := propString(props, "shadow_color"); ok {
		b.ShadowColor = ParseColor(v)
	}
	if v, ok := propFloat(props, "shadow_blur"); ok {
		b.ShadowBlur = v
	}
	if v, ok := propFloat(props, "shadow_x"); ok {
		b.ShadowOffsetX = v
	}
	if v, ok := propFloat(props, "shadow_y"); ok {
		b.ShadowOffsetY = v
	}
	if v, ok := propFloat(props, "blur_radius"); ok {
		b.BlurRadius = int(v)
	}
	if v, ok := propString(props, "overflow"); ok && v == "clip" {
		b.Overflow = OverflowClip
	}
	n := s.CreateNode(b)
	applyCommonStyle(n, props)
	return n
}

// AddText creates a Text element from a property bag (spec §6.2 add_text):
// content, font_family, font_size, color, fit (bool), fit_min_size,
// fit_max_size, wrap_width, line_height.
func (s SceneHandle) AddText(props map[string]any) NodeHandle {
	content, _ := propString(props, "content")
	e := NewTextElement(content)
	if v, ok := propString(props, "font_family"); ok {
		e.FontFamily = v
	}
	if len(e.Spans) > 0 {
		if v, ok := propFloat(props, "font_size"); ok {
			e.Spans[0].SizePx = v
		}
		if v, ok := propString(props, "color"); ok {
			e.Spans[0].Color = ParseColor(v)
		}
		if v, ok := propString(props, "font_family"); ok {
			e.Spans[0].FontFamily = v
		}
	}
	if v, ok := propBool(props, "fit"); ok {
		e.Fit = v
	}
	if v, ok := propFloat(props, "fit_min_size"); ok {
		e.FitMinSize = v
	}
	if v, ok := propFloat(props, "fit_max_size"); ok {
		e.FitMaxSize = v
	}
	if v, ok := propFloat(props, "wrap_width"); ok {
		e.WrapWidth = v
	}
	if v, ok := propFloat(props, "line_height"); ok {
		e.LineHeight = v
	}
	n := s.CreateNode(e)
	applyCommonStyle(n, props)
	return n
}

// AddImage creates an Image element from a property bag (spec §6.2
// add_image): path, object_fit ("cover"|"contain"|"fill").
func (s SceneHandle) AddImage(props map[string]any) NodeHandle {
	path, _ := propString(props, "path")
	e := NewImageElement(path)
	e.Fit = parseObjectFit(props)
	n := s.CreateNode(e)
	applyCommonStyle(n, props)
	return n
}

// AddVideo creates a Video element from a property bag (spec §6.2
// add_video): path, object_fit.
func (s SceneHandle) AddVideo(props map[string]any) NodeHandle {
	path, _ := propString(props, "path")
	e := NewVideoElement(path)
	e.Fit = parseObjectFit(props)
	n := s.CreateNode(e)
	applyCommonStyle(n, props)
	return n
}

// AddLottie creates a Lottie element from a property bag (spec §6.2
// add_lottie): path.
func (s SceneHandle) AddLottie(props map[string]any) NodeHandle {
	path, _ := propString(props, "path")
	e := NewLottieElement(path)
	n := s.CreateNode(e)
	applyCommonStyle(n, props)
	return n
}

// AddSvg creates a Vector element from a property bag (spec §6.2 add_svg):
// path.
func (s SceneHandle) AddSvg(props map[string]any) NodeHandle {
	path, _ := propString(props, "path")
	e := NewVectorElement(path)
	n := s.CreateNode(e)
	applyCommonStyle(n, props)
	return n
}

// AddComposition creates a nested Composition sub-Director sharing this
// scene's DirectorContext (spec §6.2 add_composition / SUPPLEMENTED
// FEATURES item 5): width, height set the sub-Director's own screen size.
func (s SceneHandle) AddComposition(props map[string]any) NodeHandle {
	w, _ := propFloat(props, "width")
	h, _ := propFloat(props, "height")
	if w <= 0 {
		w = 100
	}
	if h <= 0 {
		h = 100
	}
	e := NewCompositionElement(s.ctx, int(w), int(h))
	if v, ok := propFloat(props, "time_offset"); ok {
		e.TimeOffset = v
	}
	if v, ok := propFloat(props, "time_scale"); ok {
		e.TimeScale = v
	}
	n := s.CreateNode(e)
	applyCommonStyle(n, props)
	return n
}

// parseObjectFit reads the "object_fit" key, defaulting to Cover.
func parseObjectFit(props map[string]any) ObjectFit {
	v, ok := propString(props, "object_fit")
	if !ok {
		return ObjectFitCover
	}
	switch v {
	case "contain":
		return ObjectFitContain
	case "fill":
		return ObjectFitFill
	default:
		if v != "cover" {
			warnf("unknown object_fit %q, using cover", v)
		}
		return ObjectFitCover
	}
}

// applyCommonStyle applies the layout/placement keys every element kind
// shares: width, height, x, y (position: absolute inset), z_index, opacity,
// blend_mode, pivot_x, pivot_y (spec §6.2's common node properties).
func applyCommonStyle(n NodeHandle, props map[string]any) {
	sn := n.node()
	if sn == nil || sn.Element == nil {
		return
	}
	style := sn.Element.LayoutStyle()
	dirty := false
	if v, ok := propString(props, "width"); ok {
		style.Width = ParseDimension(v)
		dirty = true
	}
	if v, ok := propString(props, "height"); ok {
		style.Height = ParseDimension(v)
		dirty = true
	}
	if v, ok := propString(props, "x"); ok {
		style.Position = PositionAbsolute
		style.Inset.Left = ParseDimension(v)
		dirty = true
	}
	if v, ok := propString(props, "y"); ok {
		style.Position = PositionAbsolute
		style.Inset.Top = ParseDimension(v)
		dirty = true
	}
	if dirty {
		sn.Element.SetLayoutStyle(style)
	}
	if v, ok := propFloat(props, "z_index"); ok {
		n.SetZIndex(int(v))
	}
	if v, ok := propFloat(props, "opacity"); ok {
		sn.Element.SetOpacityOverride(v)
	}
	if v, ok := propString(props, "blend_mode"); ok {
		n.SetBlendMode(ParseBlendMode(v))
	}
	px, pxOK := propFloat(props, "pivot_x")
	py, pyOK := propFloat(props, "pivot_y")
	if pxOK || pyOK {
		n.SetPivot(px, py)
	}
}

func propString(props map[string]any, key string) (string, bool) {
	v, ok := props[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

func propFloat(props map[string]any, key string) (float64, bool) {
	v, ok := props[key]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	default:
		return 0, false
	}
}

func propBool(props map[string]any, key string) (bool, bool) {
	v, ok := props[key]
	if !ok {
		return false, false
	}
	b, ok := v.(bool)
	return b, ok
}

// NodeHandle is the per-node script surface: property animation, hierarchy
// edits, and element-specific calls (rich text, audio bindings) funnel
// through here rather than through direct SceneNode field access.
type NodeHandle struct {
	scene *Scene
	id    NodeId
}

func (n NodeHandle) ID() NodeId { return n.id }

func (n NodeHandle) node() *SceneNode { return n.scene.Get(n.id) }

// AddChild appends child as a child of n.
func (n NodeHandle) AddChild(child NodeHandle) error {
	return n.scene.AddChild(n.id, child.id)
}

func (n NodeHandle) RemoveChild(child NodeHandle) {
	n.scene.RemoveChild(n.id, child.id)
}

// Destroy removes this node and every descendant from the scene.
func (n NodeHandle) Destroy() {
	n.scene.DestroyNode(n.id)
}

// SetMask designates mask as n's clip mask (invalidNode clears it).
func (n NodeHandle) SetMask(mask NodeHandle) {
	if sn := n.node(); sn != nil {
		sn.MaskNode = mask.id
	}
}

func (n NodeHandle) SetBlendMode(mode BlendMode) {
	if sn := n.node(); sn != nil {
		sn.BlendMode = mode
	}
}

func (n NodeHandle) SetZIndex(z int) {
	if sn := n.node(); sn != nil {
		sn.ZIndex = z
	}
}

// SetPivot sets the node's transform pivot, as fractions of its own layout
// box (spec §6.2 set_pivot; spec §3's pivot-relative rotation/scale origin).
func (n NodeHandle) SetPivot(x, y float64) {
	if sn := n.node(); sn != nil && sn.Transform != nil {
		sn.Transform.PivotX = x
		sn.Transform.PivotY = y
	}
}

// SetStyle applies a batch of layout/placement property-bag keys to an
// already-created node (spec §6.2 set_style), the same keys AddBox/AddText/
// etc. accept inline at construction time.
func (n NodeHandle) SetStyle(props map[string]any) {
	applyCommonStyle(n, props)
}

// ApplyEffect wraps this node in a post-processing filter chain entry by
// reparenting it under a new EffectElement-bearing node (spec §9 "Effect
// wrapping in the graph"): the new wrapper takes the original node's place
// among its former parent's children (preserving z-index/sibling position),
// the original node becomes the wrapper's sole child sized to fill it via
// width/height 100% and a cleared margin, and the wrapper accumulates specs
// across repeated ApplyEffect calls on the same node rather than replacing
// them, so effects compose.
func (n NodeHandle) ApplyEffect(spec EffectSpec) (NodeHandle, error) {
	sn := n.node()
	if sn == nil {
		return NodeHandle{}, fmt.Errorf("director: node %d does not exist", n.id)
	}
	if wrapper, ok := sn.Element.(*EffectElement); ok {
		wrapper.SetSpecs(append(wrapper.Specs, spec))
		return n, nil
	}
	if sn.Parent != invalidNode {
		if p := n.scene.Get(sn.Parent); p != nil && len(p.Children) == 1 {
			if wrapper, ok := p.Element.(*EffectElement); ok {
				wrapper.SetSpecs(append(wrapper.Specs, spec))
				return NodeHandle{scene: n.scene, id: sn.Parent}, nil
			}
		}
	}

	scene := n.scene
	eff := NewEffectElement(effectContextCache(sn), effectContextPool(sn))
	eff.SetSpecs([]EffectSpec{spec})
	wrapperID := scene.AddNode(eff)
	wrapper := scene.Get(wrapperID)
	wrapper.ZIndex = sn.ZIndex
	wrapper.BlendMode = sn.BlendMode

	parent := sn.Parent
	pos := -1
	if parent != invalidNode {
		if p := scene.Get(parent); p != nil {
			for i, id := range p.Children {
				if id == n.id {
					pos = i
					break
				}
			}
		}
		if err := scene.AddChild(parent, wrapperID); err != nil {
			scene.DestroyNode(wrapperID)
			return NodeHandle{}, err
		}
	}

	originalStyle := sn.Element.LayoutStyle()
	originalStyle.Width = Percent(100)
	originalStyle.Height = Percent(100)
	originalStyle.Margin = EdgeInsets{}
	sn.Element.SetLayoutStyle(originalStyle)

	if err := scene.AddChild(wrapperID, n.id); err != nil {
		return NodeHandle{}, err
	}
	if parent != invalidNode && pos >= 0 {
		if p := scene.Get(parent); p != nil && pos < len(p.Children)-1 {
			copy(p.Children[pos+1:], p.Children[pos:len(p.Children)-1])
			p.Children[pos] = wrapperID
		}
	}
	return NodeHandle{scene: scene, id: wrapperID}, nil
}

// effectContextCache/effectContextPool take the shader cache/render target
// pool from the wrapped node's own element when it is a BoxElement (nil for
// any other element kind), so a new EffectElement created by ApplyEffect
// can share that context without NodeHandle itself needing to carry a
// DirectorContext reference.
func effectContextCache(sn *SceneNode) *shaderCache {
	if b, ok := sn.Element.(*BoxElement); ok {
		return b.cache
	}
	return nil
}

func effectContextPool(sn *SceneNode) *rtPool {
	if b, ok := sn.Element.(*BoxElement); ok {
		return b.pool
	}
	return nil
}

// AnimateProperty keyframes a named transform/element property to target
// over duration seconds, appended after the property's existing keyframes
// (spec §4.1/§4.3).
func (n NodeHandle) AnimateProperty(name string, target, duration float64, easing EasingFunc) bool {
	sn := n.node()
	if sn == nil {
		return false
	}
	if ok := animateTransformProperty(sn.Transform, name, target, duration, easing); ok {
		return true
	}
	if sn.Element != nil {
		return sn.Element.AnimateProperty(name, target, duration, easing)
	}
	return false
}

// AnimatePropertySpring animates a named property under spring physics
// rather than a fixed-duration keyframe (spec §4.1 "Spring").
func (n NodeHandle) AnimatePropertySpring(name string, target float64, cfg SpringConfig) bool {
	sn := n.node()
	if sn == nil {
		return false
	}
	if ok := animateTransformPropertySpring(sn.Transform, name, target, cfg); ok {
		return true
	}
	if sn.Element != nil {
		return sn.Element.AnimatePropertySpring(name, target, cfg)
	}
	return false
}

// BindAudio attaches an audio-reactive binding that overrides a transform
// property every frame based on a band's energy (spec §4.6).
func (n NodeHandle) BindAudio(binding AudioBinding) {
	if sn := n.node(); sn != nil {
		sn.AudioBindings = append(sn.AudioBindings, binding)
	}
}

// SetPathAnimation attaches path-following motion built from SVG path data
// (spec §3, §9.4; see BuildPathAnimation in element_vector.go).
func (n NodeHandle) SetPathAnimation(pathData string, progress *Animated[float64]) error {
	sn := n.node()
	if sn == nil {
		return fmt.Errorf("director: node %d does not exist", n.id)
	}
	anim, err := BuildPathAnimation(pathData, progress)
	if err != nil {
		return err
	}
	sn.PathAnim = anim
	return nil
}

func (n NodeHandle) SetRichText(spans []TextSpan) {
	if sn := n.node(); sn != nil && sn.Element != nil {
		sn.Element.SetRichText(spans)
	}
}

func (n NodeHandle) AddTextAnimator(a TextAnimator) {
	if sn := n.node(); sn != nil && sn.Element != nil {
		sn.Element.AddTextAnimator(a)
	}
}
