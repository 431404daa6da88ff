// Package lottie parses the Lottie JSON vector-animation format and lowers
// it, frame by frame, to a generic render tree of the same primitives the
// director package's own scene graph draws with (spec §4.7): nodes with a
// transform, alpha, blend mode, mask/matte and content that is one of
// group/shape/text/image. Layer effects are parsed but not carried into the
// render tree. It has no dependency on the director package —
// Animation.Frame returns plain geometry/paint data that an Element wrapper
// in the parent module renders with ebiten, keeping the JSON interpreter
// testable in isolation, matching how the original source splits Lottie
// parsing/evaluation from Skia rendering into separate crates.
package lottie

import (
	"fmt"

	json "github.com/goccy/go-json"
)

// Document is the root of a parsed Lottie file ("bodymovin" JSON).
type Document struct {
	Version      string  `json:"v"`
	FrameRate    float64 `json:"fr"`
	InPoint      float64 `json:"ip"`
	OutPoint     float64 `json:"op"`
	Width        int     `json:"w"`
	Height       int     `json:"h"`
	Name         string  `json:"nm"`
	Layers       []Layer `json:"layers"`
	Assets       []Asset `json:"assets"`
}

// Parse decodes raw Lottie JSON bytes into a Document, using goccy/go-json
// for decode speed over a JSON document that can run into several hundred
// KB of nested keyframe arrays for a complex animation.
func Parse(raw []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("lottie: parsing document: %w", err)
	}
	return &doc, nil
}

// Asset is a precomposition or embedded/referenced image asset.
type Asset struct {
	ID     string  `json:"id"`
	Width  int     `json:"w"`
	Height int     `json:"h"`
	Path   string  `json:"p"`
	Dir    string  `json:"u"`
	Embed  int     `json:"e"`
	Layers []Layer `json:"layers"` // populated for precomposition assets
}

// LayerType mirrors Lottie's numeric "ty" layer-type field.
type LayerType int

const (
	LayerPrecomp LayerType = 0
	LayerSolid   LayerType = 1
	LayerImage   LayerType = 2
	LayerNull    LayerType = 3
	LayerShape   LayerType = 4
	LayerText    LayerType = 5
)

// MatteType mirrors Lottie's numeric "tt" track-matte-type field.
type MatteType int

const (
	MatteNone          MatteType = 0
	MatteAlpha         MatteType = 1
	MatteAlphaInverted MatteType = 2
	MatteLuma          MatteType = 3
	MatteLumaInverted  MatteType = 4
)

// Layer is one entry in a Document's (or precomposition asset's) layer
// stack, in the order Lottie emits them: the first entry of the JSON array
// is the topmost layer, so the array runs front-to-back.
type Layer struct {
	Index        int         `json:"ind"`
	ParentIndex  *int        `json:"parent"`
	Type         LayerType   `json:"ty"`
	Name         string      `json:"nm"`
	InPoint      float64     `json:"ip"`
	OutPoint     float64     `json:"op"`
	StartTime    float64     `json:"st"`
	TimeStretch  float64     `json:"sr"`
	BlendMode    int         `json:"bm"`
	MatteType    MatteType   `json:"tt"`
	IsMatteLayer bool        `json:"td"` // this layer itself is used as a matte source by the one below it
	Transform    LayerTransform `json:"ks"`
	Shapes       []Shape     `json:"shapes"`
	RefID        string      `json:"refId"` // asset id for precomp/image layers
	Width        int         `json:"w"`
	Height       int         `json:"h"`
	Text         *TextData   `json:"t"`
	Effects      []Effect    `json:"ef"`
	Hidden       bool        `json:"hd"`
}

// Effect is a single Lottie layer-effect entry; only the name/type and
// scalar/color values needed to map onto director's own Effect element are
// kept, not the full effect-parameter schema.
type Effect struct {
	Name  string         `json:"nm"`
	Type  int            `json:"ty"`
	Props []EffectValue  `json:"ef"`
}

type EffectValue struct {
	Name  string      `json:"nm"`
	Value AnimatableScalar `json:"v"`
}
