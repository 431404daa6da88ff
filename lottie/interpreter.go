package lottie

import "math"

// RenderNode is one lowered node of the generic render tree §4.7 describes:
// a transform, alpha, blend mode, matte, and content that is one of
// group/shape/text/image — the same shape director's own scene graph
// renders with, so a director.LottieElement can walk this tree and draw
// each node through the same primitives an ordinary scene node uses.
type RenderNode struct {
	Transform Affine2D
	Opacity   float64
	BlendMode int
	Matte     MatteType
	Shape     *ShapeContent
	Text      *TextContent
	Image     *ImageContent
	Children  []*RenderNode
}

// ShapeContent is a filled/stroked path list, already flattened to
// polylines in the node's own local space.
type ShapeContent struct {
	Paths       [][][2]float64
	HasFill     bool
	FillColor   [4]float64
	HasStroke   bool
	StrokeColor [4]float64
	StrokeWidth float64
}

// TextContent is a laid-out glyph run for a text layer.
type TextContent struct {
	Glyphs []GlyphState
}

// ImageContent references a precomposition/image asset by id; the caller
// resolves RefID to actual pixel data through its own AssetManager.
type ImageContent struct {
	RefID string
}

// Animation is a parsed, ready-to-evaluate Lottie document.
type Animation struct {
	doc        *Document
	assetsByID map[string]*Asset
}

// Load parses raw Lottie JSON into an Animation.
func Load(raw []byte) (*Animation, error) {
	doc, err := Parse(raw)
	if err != nil {
		return nil, err
	}
	a := &Animation{doc: doc, assetsByID: make(map[string]*Asset, len(doc.Assets))}
	for i := range doc.Assets {
		a.assetsByID[doc.Assets[i].ID] = &doc.Assets[i]
	}
	return a, nil
}

func (a *Animation) FrameRate() float64 { return a.doc.FrameRate }
func (a *Animation) InPoint() float64   { return a.doc.InPoint }
func (a *Animation) OutPoint() float64  { return a.doc.OutPoint }
func (a *Animation) Width() int         { return a.doc.Width }
func (a *Animation) Height() int        { return a.doc.Height }

// Frame lowers the document to a RenderNode tree at frame index
// frameTime (in the document's own frame-number units, matching Lottie's
// "t" keyframe time unit), applying layer in/out trimming, parenting, and
// track mattes (spec §4.7 lowering steps).
func (a *Animation) Frame(frameTime float64) *RenderNode {
	root := &RenderNode{Transform: identity2D, Opacity: 1}
	byIndex := make(map[int]*Layer, len(a.doc.Layers))
	for i := range a.doc.Layers {
		byIndex[a.doc.Layers[i].Index] = &a.doc.Layers[i]
	}
	for i := len(a.doc.Layers) - 1; i >= 0; i-- {
		layer := &a.doc.Layers[i]
		if layer.Hidden || frameTime < layer.InPoint || frameTime >= layer.OutPoint {
			continue
		}
		node := a.lowerLayer(layer, frameTime)
		node.Transform = multiplyAffine2D(parentChainTransform(layer, byIndex, frameTime), node.Transform)
		if layer.MatteType != MatteNone {
			node.Matte = layer.MatteType
		}
		root.Children = append(root.Children, node)
	}
	return root
}

// parentChainTransform composes every ancestor's own transform (via
// Lottie's "parent" index reference) into the affine a child layer's local
// transform should be pre-multiplied by.
func parentChainTransform(layer *Layer, byIndex map[int]*Layer, t float64) Affine2D {
	m := identity2D
	cur := layer
	seen := map[int]bool{cur.Index: true}
	for cur.ParentIndex != nil {
		parent, ok := byIndex[*cur.ParentIndex]
		if !ok || seen[parent.Index] {
			break
		}
		seen[parent.Index] = true
		xf, _ := parent.Transform.Eval(t)
		m = multiplyAffine2D(xf, m)
		cur = parent
	}
	return m
}

func (a *Animation) lowerLayer(layer *Layer, t float64) *RenderNode {
	xf, opacity := layer.Transform.Eval(t)
	node := &RenderNode{Transform: xf, Opacity: opacity, BlendMode: layer.BlendMode}

	switch layer.Type {
	case LayerShape:
		for i := range layer.Shapes {
			if child := a.lowerShapeGroup(&layer.Shapes[i], t); child != nil {
				node.Children = append(node.Children, child)
			}
		}
	case LayerText:
		if layer.Text != nil {
			doc := layer.Text.Document.Eval(t)
			node.Text = &TextContent{Glyphs: LayoutGlyphs(doc, layer.Text.Animators, t)}
		}
	case LayerImage, LayerPrecomp:
		node.Image = &ImageContent{RefID: layer.RefID}
		if asset, ok := a.assetsByID[layer.RefID]; ok && len(asset.Layers) > 0 {
			for i := range asset.Layers {
				child := a.lowerLayer(&asset.Layers[i], t)
				node.Children = append(node.Children, child)
			}
		}
	}
	return node
}

// lowerShapeGroup runs the shape stack machine over one top-level group
// item (spec §4.7 "Shapes"): it walks the group's contents accumulating
// geometry from rect/ellipse/path items and emitting a ShapeContent node
// whenever a fill or stroke is encountered, painting everything
// accumulated so far. Geometry modifiers (round-corners, zigzag,
// pucker-bloat, twist, offset-path, wiggle), merge-paths boolean
// combination, gradients, and repeaters are not implemented — a documented
// scope reduction from the full shape-modifier stack.
func (a *Animation) lowerShapeGroup(s *Shape, t float64) *RenderNode {
	if s.Type != ShapeGroup {
		return nil
	}
	node := &RenderNode{Transform: identity2D, Opacity: 1}
	var accum [][][2]float64

	for _, item := range s.Items {
		switch item.Type {
		case ShapeTransform:
			if gt, err := item.GroupTransform(); err == nil {
				xf, op := gt.Eval(t)
				node.Transform = xf
				node.Opacity = op
			}
		case ShapeRect:
			if pos, size, _, err := item.RectData(); err == nil {
				accum = append(accum, rectPolygon(pos, size, t))
			}
		case ShapeEllipse:
			if pos, size, err := item.EllipseData(); err == nil {
				accum = append(accum, ellipsePolygon(pos, size, t))
			}
		case ShapePath:
			if bez, err := item.PathData(); err == nil {
				shape := bez.Eval(t)
				accum = append(accum, shape.Flatten(12))
			}
		case ShapeFill:
			if color, opacity, _, err := item.PaintData(); err == nil {
				r, g, b, al := color.Eval(t)
				node.Children = append(node.Children, &RenderNode{
					Transform: identity2D, Opacity: opacity.Eval(t) / 100,
					Shape: &ShapeContent{Paths: accum, HasFill: true, FillColor: [4]float64{r, g, b, al}},
				})
			}
		case ShapeStroke:
			if color, opacity, width, err := item.PaintData(); err == nil {
				r, g, b, al := color.Eval(t)
				node.Children = append(node.Children, &RenderNode{
					Transform: identity2D, Opacity: opacity.Eval(t) / 100,
					Shape: &ShapeContent{Paths: accum, HasStroke: true, StrokeColor: [4]float64{r, g, b, al}, StrokeWidth: width.Eval(t)},
				})
			}
		case ShapeGroup:
			if child := a.lowerShapeGroup(&item, t); child != nil {
				node.Children = append(node.Children, child)
			}
		}
	}
	return node
}

func rectPolygon(pos, size AnimatableVec2, t float64) [][2]float64 {
	px, py := pos.Eval(t)
	sx, sy := size.Eval(t)
	hw, hh := sx/2, sy/2
	return [][2]float64{
		{px - hw, py - hh}, {px + hw, py - hh}, {px + hw, py + hh}, {px - hw, py + hh}, {px - hw, py - hh},
	}
}

const ellipseSteps = 32

func ellipsePolygon(pos, size AnimatableVec2, t float64) [][2]float64 {
	px, py := pos.Eval(t)
	sx, sy := size.Eval(t)
	rx, ry := sx/2, sy/2
	pts := make([][2]float64, 0, ellipseSteps+1)
	for i := 0; i <= ellipseSteps; i++ {
		theta := 2 * math.Pi * float64(i) / float64(ellipseSteps)
		sin, cos := math.Sincos(theta)
		pts = append(pts, [2]float64{px + rx*cos, py + ry*sin})
	}
	return pts
}
