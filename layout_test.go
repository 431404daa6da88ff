package director

import "testing"

func childStyle(w, h float64) Style {
	s := DefaultStyle()
	s.Width = Points(w)
	s.Height = Points(h)
	return s
}

func TestLayoutFlexRowSpaceBetween(t *testing.T) {
	parent := &layoutNode{style: DefaultStyle()}
	parent.style.JustifyContent = JustifySpaceBetween
	c1 := &layoutNode{style: childStyle(50, 50)}
	c2 := &layoutNode{style: childStyle(50, 50)}
	parent.children = []*layoutNode{c1, c2}

	layoutSubtree(parent, Rect{X: 0, Y: 0, W: 300, H: 100})

	if c1.rect.X != 0 || c1.rect.W != 50 {
		t.Errorf("c1.rect = %+v, want X=0 W=50", c1.rect)
	}
	if c2.rect.X != 250 || c2.rect.W != 50 {
		t.Errorf("c2.rect = %+v, want X=250 W=50 (pushed to far edge)", c2.rect)
	}
}

func TestLayoutFlexGrowDistributesRemainingSpace(t *testing.T) {
	parent := &layoutNode{style: DefaultStyle()}
	c1 := &layoutNode{style: childStyle(50, 50)}
	c1.style.FlexGrow = 1
	c2 := &layoutNode{style: childStyle(50, 50)}
	c2.style.FlexGrow = 3
	parent.children = []*layoutNode{c1, c2}

	layoutSubtree(parent, Rect{X: 0, Y: 0, W: 250, H: 100})

	// 150 remaining, split 1:3 -> +37.5 and +112.5
	if c1.rect.W != 87.5 {
		t.Errorf("c1.rect.W = %v, want 87.5", c1.rect.W)
	}
	if c2.rect.W != 162.5 {
		t.Errorf("c2.rect.W = %v, want 162.5", c2.rect.W)
	}
}

func TestLayoutFlexAlignCenterCentersCrossAxis(t *testing.T) {
	parent := &layoutNode{style: DefaultStyle()}
	parent.style.AlignItems = AlignCenter
	c1 := &layoutNode{style: childStyle(50, 20)}
	c1.style.AlignSelf = AlignStretch // sentinel: inherit the container's AlignItems
	parent.children = []*layoutNode{c1}

	layoutSubtree(parent, Rect{X: 0, Y: 0, W: 100, H: 100})

	if c1.rect.Y != 40 {
		t.Errorf("c1.rect.Y = %v, want 40 (centered in 100 tall box)", c1.rect.Y)
	}
}

func TestLayoutFlexColumnStacksVertically(t *testing.T) {
	parent := &layoutNode{style: DefaultStyle()}
	parent.style.FlexDirection = FlexColumn
	c1 := &layoutNode{style: childStyle(50, 30)}
	c2 := &layoutNode{style: childStyle(50, 30)}
	parent.children = []*layoutNode{c1, c2}

	layoutSubtree(parent, Rect{X: 0, Y: 0, W: 100, H: 100})

	if c1.rect.Y != 0 || c2.rect.Y != 30 {
		t.Errorf("c1.Y=%v c2.Y=%v, want 0 and 30", c1.rect.Y, c2.rect.Y)
	}
}

func TestLayoutDisplayNoneCollapsesRect(t *testing.T) {
	parent := &layoutNode{style: DefaultStyle()}
	parent.style.Display = DisplayNone
	layoutSubtree(parent, Rect{X: 0, Y: 0, W: 100, H: 100})
	if parent.rect != (Rect{}) {
		t.Errorf("DisplayNone rect = %+v, want zero value", parent.rect)
	}
}

func TestLayoutGridPlacesItemsByExplicitTrack(t *testing.T) {
	parent := &layoutNode{style: DefaultStyle()}
	parent.style.Display = DisplayGrid
	parent.style.GridTemplateColumns = []Dimension{Points(100), Points(100)}
	parent.style.GridTemplateRows = []Dimension{Points(50), Points(50)}

	c1 := &layoutNode{style: DefaultStyle()}
	c1.style.GridColumn = GridPlacement{Start: 1, End: 2}
	c1.style.GridRow = GridPlacement{Start: 1, End: 2}
	c2 := &layoutNode{style: DefaultStyle()}
	c2.style.GridColumn = GridPlacement{Start: 2, End: 3}
	c2.style.GridRow = GridPlacement{Start: 2, End: 3}
	parent.children = []*layoutNode{c1, c2}

	layoutSubtree(parent, Rect{X: 0, Y: 0, W: 200, H: 100})

	if c1.rect.X != 0 || c1.rect.Y != 0 || c1.rect.W != 100 || c1.rect.H != 50 {
		t.Errorf("c1.rect = %+v, want {0 0 100 50}", c1.rect)
	}
	if c2.rect.X != 100 || c2.rect.Y != 50 || c2.rect.W != 100 || c2.rect.H != 50 {
		t.Errorf("c2.rect = %+v, want {100 50 100 50}", c2.rect)
	}
}

func TestLayoutAbsoluteIgnoresFlexFlow(t *testing.T) {
	parent := &layoutNode{style: DefaultStyle()}
	abs := &layoutNode{style: childStyle(20, 20)}
	abs.style.Position = PositionAbsolute
	abs.style.Inset = EdgeInsets{Right: Points(10), Bottom: Points(10)}
	flow := &layoutNode{style: childStyle(50, 50)}
	parent.children = []*layoutNode{abs, flow}

	layoutSubtree(parent, Rect{X: 0, Y: 0, W: 200, H: 100})

	if abs.rect.X != 170 || abs.rect.Y != 70 {
		t.Errorf("abs.rect = %+v, want X=170 Y=70 (anchored to right/bottom insets)", abs.rect)
	}
	if flow.rect.X != 0 {
		t.Errorf("flow.rect.X = %v, want 0 (unaffected by the absolute sibling)", flow.rect.X)
	}
}
