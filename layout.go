package director

// layoutNode is the minimal shape the layout solver needs from a scene
// node: its own style and its ordered children's styles, decoupled from
// Scene/SceneNode so the solver can be unit-tested without an arena.
type layoutNode struct {
	id       NodeId
	style    Style
	children []*layoutNode
	measured bool
	measureW float64
	measureH float64
	rect     Rect
}

// RunLayout computes every active node's LayoutRect under root, writing
// results back via the Scene (spec §2 Layout engine). availW/availH are
// the root's containing box (normally the screen size).
func RunLayout(scene *Scene, root NodeId, availW, availH float64, globalTime float64) {
	ln := buildLayoutTree(scene, root, globalTime)
	if ln == nil {
		return
	}
	rect := Rect{X: 0, Y: 0, W: availW, H: availH}
	layoutSubtree(ln, rect)
	writeback(scene, ln)
}

func buildLayoutTree(scene *Scene, id NodeId, globalTime float64) *layoutNode {
	n := scene.Get(id)
	if n == nil || !n.isActiveAt(globalTime) {
		return nil
	}
	ln := &layoutNode{id: id, style: defaultedStyle(n)}
	if n.Element != nil && n.Element.NeedsMeasure() {
		ln.measured = true
	}
	for _, childID := range scene.sortedChildren(n) {
		if c := buildLayoutTree(scene, childID, globalTime); c != nil {
			ln.children = append(ln.children, c)
		}
	}
	return ln
}

func defaultedStyle(n *SceneNode) Style {
	if n.Element != nil {
		return n.Element.LayoutStyle()
	}
	return DefaultStyle()
}

func writeback(scene *Scene, ln *layoutNode) {
	if n := scene.Get(ln.id); n != nil {
		n.LayoutRect = ln.rect
		if n.Element != nil {
			n.Element.PostLayout(ln.rect)
		}
	}
	for _, c := range ln.children {
		writeback(scene, c)
	}
}

// layoutSubtree assigns containing to ln.rect and lays out ln's children
// according to its Display mode; DisplayNone collapses the node to a zero
// rect.
func layoutSubtree(ln *layoutNode, containing Rect) {
	ln.rect = containing
	switch ln.style.Display {
	case DisplayNone:
		ln.rect = Rect{}
		return
	case DisplayGrid:
		layoutGrid(ln, containing)
	default:
		layoutFlex(ln, containing)
	}
}

// --- Flex ---

type flexItem struct {
	node       *layoutNode
	basis      float64
	grow       float64
	shrink     float64
	mainSize   float64
	crossSize  float64
	mainPos    float64
	crossPos   float64
}

func layoutFlex(ln *layoutNode, containing Rect) {
	pad := resolveInsets(ln.style.Padding, containing.W, containing.H)
	inner := insetRect(containing, pad)

	dir := ln.style.FlexDirection
	isRow := dir.isRow()
	mainSize := inner.W
	crossSize := inner.H
	if !isRow {
		mainSize, crossSize = inner.H, inner.W
	}

	var items []*flexItem
	var absolute []*layoutNode
	gap := ln.style.Gap.resolve(mainSize)

	for _, c := range ln.children {
		if c.style.Position == PositionAbsolute {
			absolute = append(absolute, c)
			continue
		}
		basis := flexBasis(c.style, isRow, mainSize, crossSize)
		items = append(items, &flexItem{node: c, basis: basis, grow: c.style.FlexGrow, shrink: c.style.FlexShrink})
	}

	total := 0.0
	for i, it := range items {
		it.mainSize = it.basis
		total += it.basis
		if i > 0 {
			total += gap
		}
	}

	remaining := mainSize - total
	if remaining > 0 {
		growSum := 0.0
		for _, it := range items {
			growSum += it.grow
		}
		if growSum > 0 {
			for _, it := range items {
				it.mainSize += remaining * (it.grow / growSum)
			}
		}
	} else if remaining < 0 {
		shrinkSum := 0.0
		for _, it := range items {
			shrinkSum += it.shrink * it.basis
		}
		if shrinkSum > 0 {
			for _, it := range items {
				it.mainSize += remaining * (it.shrink * it.basis / shrinkSum)
			}
		}
	}

	for _, it := range items {
		if it.mainSize < 0 {
			it.mainSize = 0
		}
		crossDim := resolveCrossSize(it.node.style, isRow, crossSize)
		it.crossSize = crossDim
	}

	usedMain := 0.0
	for i, it := range items {
		usedMain += it.mainSize
		if i > 0 {
			usedMain += gap
		}
	}
	extra := mainSize - usedMain
	offset, between := justifyOffsets(ln.style.JustifyContent, extra, len(items), gap)

	cursor := offset
	for _, it := range items {
		it.mainPos = cursor
		cursor += it.mainSize + between

		align := resolveAlign(ln.style.AlignItems, it.node.style.AlignSelf)
		switch align {
		case AlignCenter:
			it.crossPos = (crossSize - it.crossSize) / 2
		case AlignEnd:
			it.crossPos = crossSize - it.crossSize
		default:
			it.crossPos = 0
		}
	}

	for _, it := range items {
		var rect Rect
		if isRow {
			rect = Rect{
				X: inner.X + it.mainPos,
				Y: inner.Y + it.crossPos,
				W: it.mainSize,
				H: it.crossSize,
			}
		} else {
			rect = Rect{
				X: inner.X + it.crossPos,
				Y: inner.Y + it.mainPos,
				W: it.crossSize,
				H: it.mainSize,
			}
		}
		layoutSubtree(it.node, rect)
	}

	for _, c := range absolute {
		layoutAbsolute(c, containing)
	}
}

func flexBasis(s Style, isRow bool, mainSize, crossSize float64) float64 {
	if !s.FlexBasis.isAuto() {
		return s.FlexBasis.resolve(mainSize)
	}
	if isRow {
		if !s.Width.isAuto() {
			return s.Width.resolve(mainSize)
		}
	} else {
		if !s.Height.isAuto() {
			return s.Height.resolve(mainSize)
		}
	}
	return 0
}

func resolveCrossSize(s Style, isRow bool, crossSize float64) float64 {
	if isRow {
		if !s.Height.isAuto() {
			return s.Height.resolve(crossSize)
		}
	} else {
		if !s.Width.isAuto() {
			return s.Width.resolve(crossSize)
		}
	}
	return crossSize
}

func resolveAlign(containerAlign, selfAlign Align) Align {
	if selfAlign != AlignStretch {
		return selfAlign
	}
	return containerAlign
}

func justifyOffsets(j Justify, extra float64, n int, gap float64) (offset, between float64) {
	if n == 0 {
		return 0, gap
	}
	switch j {
	case JustifyEnd:
		return extra, gap
	case JustifyCenter:
		return extra / 2, gap
	case JustifySpaceBetween:
		if n > 1 {
			return 0, gap + extra/float64(n-1)
		}
		return 0, gap
	case JustifySpaceAround:
		return extra / float64(n) / 2, gap + extra/float64(n)
	default:
		return 0, gap
	}
}

func layoutAbsolute(ln *layoutNode, containing Rect) {
	inset := ln.style.Inset
	w := ln.style.Width.resolve(containing.W)
	h := ln.style.Height.resolve(containing.H)
	x := containing.X
	y := containing.Y
	if !inset.Left.isAuto() {
		x = containing.X + inset.Left.resolve(containing.W)
	} else if !inset.Right.isAuto() {
		x = containing.X + containing.W - inset.Right.resolve(containing.W) - w
	}
	if !inset.Top.isAuto() {
		y = containing.Y + inset.Top.resolve(containing.H)
	} else if !inset.Bottom.isAuto() {
		y = containing.Y + containing.H - inset.Bottom.resolve(containing.H) - h
	}
	layoutSubtree(ln, Rect{X: x, Y: y, W: w, H: h})
}

// --- Grid ---

// layoutGrid implements a minimal explicit-placement grid: fixed track
// counts from GridTemplateRows/GridTemplateColumns, items placed at their
// GridRow/GridColumn spans, leftover space split evenly among auto tracks
// and left unused when there are none (no implicit auto-placement/auto-flow per spec §2 Non-goals for
// the layout engine's grid mode beyond explicit placement).
func layoutGrid(ln *layoutNode, containing Rect) {
	pad := resolveInsets(ln.style.Padding, containing.W, containing.H)
	inner := insetRect(containing, pad)

	cols := resolveTracks(ln.style.GridTemplateColumns, inner.W)
	rows := resolveTracks(ln.style.GridTemplateRows, inner.H)
	if len(cols) == 0 {
		cols = []float64{inner.W}
	}
	if len(rows) == 0 {
		rows = []float64{inner.H}
	}

	colOffsets := trackOffsets(cols)
	rowOffsets := trackOffsets(rows)

	for _, c := range ln.children {
		if c.style.Position == PositionAbsolute {
			layoutAbsolute(c, containing)
			continue
		}
		colStart := clampTrack(gridIndex(c.style.GridColumn.Start), len(cols))
		colEnd := clampTrack(gridIndex(c.style.GridColumn.End), len(cols))
		if colEnd <= colStart {
			colEnd = colStart + 1
		}
		rowStart := clampTrack(gridIndex(c.style.GridRow.Start), len(rows))
		rowEnd := clampTrack(gridIndex(c.style.GridRow.End), len(rows))
		if rowEnd <= rowStart {
			rowEnd = rowStart + 1
		}
		if colEnd > len(cols) {
			colEnd = len(cols)
		}
		if rowEnd > len(rows) {
			rowEnd = len(rows)
		}

		x := inner.X + colOffsets[colStart]
		y := inner.Y + rowOffsets[rowStart]
		w := colOffsets[colEnd] - colOffsets[colStart]
		h := rowOffsets[rowEnd] - rowOffsets[rowStart]
		layoutSubtree(c, Rect{X: x, Y: y, W: w, H: h})
	}
}

func resolveTracks(dims []Dimension, containing float64) []float64 {
	if len(dims) == 0 {
		return nil
	}
	out := make([]float64, len(dims))
	fixedTotal := 0.0
	autoCount := 0
	for i, d := range dims {
		if d.isAuto() {
			autoCount++
			continue
		}
		out[i] = d.resolve(containing)
		fixedTotal += out[i]
	}
	if autoCount > 0 {
		share := maxF(containing-fixedTotal, 0) / float64(autoCount)
		for i, d := range dims {
			if d.isAuto() {
				out[i] = share
			}
		}
	}
	return out
}

func trackOffsets(tracks []float64) []float64 {
	offsets := make([]float64, len(tracks)+1)
	acc := 0.0
	for i, t := range tracks {
		offsets[i] = acc
		acc += t
	}
	offsets[len(tracks)] = acc
	return offsets
}

// gridIndex converts a 1-based GridPlacement coordinate (0 = unspecified,
// auto-place at the start) to a 0-based track index.
func gridIndex(v int) int {
	if v <= 0 {
		return 0
	}
	return v - 1
}

func clampTrack(v, max int) int {
	if v < 0 {
		return 0
	}
	if v > max {
		return max
	}
	return v
}

// --- Style resolution helpers ---

func resolveInsets(e EdgeInsets, w, h float64) EdgeInsets {
	return EdgeInsets{
		Top:    Points(e.Top.resolve(h)),
		Right:  Points(e.Right.resolve(w)),
		Bottom: Points(e.Bottom.resolve(h)),
		Left:   Points(e.Left.resolve(w)),
	}
}

func insetRect(r Rect, pad EdgeInsets) Rect {
	return Rect{
		X: r.X + pad.Left.Value,
		Y: r.Y + pad.Top.Value,
		W: maxF(r.W-pad.Left.Value-pad.Right.Value, 0),
		H: maxF(r.H-pad.Top.Value-pad.Bottom.Value, 0),
	}
}
