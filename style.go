package director

import (
	"strconv"
	"strings"
)

// DimensionKind tags how a Dimension value should be resolved.
type DimensionKind int

const (
	DimAuto DimensionKind = iota
	DimPoints
	DimPercent
)

// Dimension is a CSS-box-model length: a bare number (points), a percentage
// of the containing block, or "auto". The scripting bridge accepts the
// strings "auto", "<n>%", and bare numbers for any Dimension-valued
// property (spec §6.2); ParseDimension performs that parse.
type Dimension struct {
	Kind  DimensionKind
	Value float64 // points, or percent/100 for DimPercent
}

func Points(v float64) Dimension  { return Dimension{DimPoints, v} }
func Percent(v float64) Dimension { return Dimension{DimPercent, v / 100} }
func Auto() Dimension             { return Dimension{Kind: DimAuto} }

// resolve turns the Dimension into points given the containing axis size.
// Auto resolves to 0 here; callers needing "auto means fill remaining
// space" handle that at the flex-solve level, not here.
func (d Dimension) resolve(containing float64) float64 {
	switch d.Kind {
	case DimPercent:
		return d.Value * containing
	case DimPoints:
		return d.Value
	default:
		return 0
	}
}

func (d Dimension) isAuto() bool { return d.Kind == DimAuto }

// ParseDimension parses the scripting bridge's three Dimension spellings:
// "auto", "<n>%", and a bare number (points). An unparseable string
// defaults to Auto() with a warning rather than failing the call (spec
// §6.2).
func ParseDimension(s string) Dimension {
	s = strings.TrimSpace(s)
	if s == "" || s == "auto" {
		return Auto()
	}
	if pct, ok := strings.CutSuffix(s, "%"); ok {
		v, err := strconv.ParseFloat(pct, 64)
		if err != nil {
			warnf("invalid dimension %q, using auto", s)
			return Auto()
		}
		return Percent(v)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		warnf("invalid dimension %q, using auto", s)
		return Auto()
	}
	return Points(v)
}

// EdgeInsets is a four-sided box-model measurement (padding, margin, inset).
type EdgeInsets struct {
	Top, Right, Bottom, Left Dimension
}

// Display selects which layout algorithm governs a node's children.
type Display int

const (
	DisplayFlex Display = iota
	DisplayGrid
	DisplayNone
)

type FlexDirection int

const (
	FlexRow FlexDirection = iota
	FlexColumn
	FlexRowReverse
	FlexColumnReverse
)

func (d FlexDirection) isRow() bool {
	return d == FlexRow || d == FlexRowReverse
}

func (d FlexDirection) isReverse() bool {
	return d == FlexRowReverse || d == FlexColumnReverse
}

type Align int

const (
	AlignStart Align = iota
	AlignEnd
	AlignCenter
	AlignStretch
)

type Justify int

const (
	JustifyStart Justify = iota
	JustifyEnd
	JustifyCenter
	JustifySpaceBetween
	JustifySpaceAround
)

type PositionType int

const (
	PositionRelative PositionType = iota
	PositionAbsolute
)

// GridPlacement is a 1-based, end-exclusive track span ("grid-row: 2 / 4").
// A zero Start places the item in the first track; there is no
// auto-placement in flow order.
type GridPlacement struct {
	Start, End int
}

// Style carries every CSS-box-model input the layout engine consumes from
// an element (spec §4.4/§6.2). Elements own a Style and the layout engine
// only reads it through LayoutStyle/SetLayoutStyle.
type Style struct {
	Width, Height         Dimension
	FlexGrow, FlexShrink  float64
	FlexBasis             Dimension
	FlexDirection         FlexDirection
	AlignItems            Align
	AlignSelf             Align // AlignStretch sentinel value also means "inherit AlignItems"
	JustifyContent        Justify
	Padding, Margin       EdgeInsets
	Gap                   Dimension
	Display               Display
	GridTemplateRows      []Dimension
	GridTemplateColumns   []Dimension
	GridRow, GridColumn   GridPlacement
	Position              PositionType
	Inset                 EdgeInsets
	ZIndex                int
}

// DefaultStyle mirrors the CSS flexbox initial values this engine assumes:
// a flex row, no grow, shrink 1, auto-sized to content, relative position.
func DefaultStyle() Style {
	return Style{
		Width:          Auto(),
		Height:         Auto(),
		FlexShrink:     1,
		FlexBasis:      Auto(),
		FlexDirection:  FlexRow,
		AlignItems:     AlignStretch,
		JustifyContent: JustifyStart,
		Display:        DisplayFlex,
		Position:       PositionRelative,
	}
}
