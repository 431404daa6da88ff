package director

import "testing"

func TestDimensionResolvePercentIsFractionOfContaining(t *testing.T) {
	d := Percent(50)
	if got := d.resolve(200); got != 100 {
		t.Errorf("resolve(200) = %v, want 100", got)
	}
}

func TestDimensionResolvePointsIgnoresContaining(t *testing.T) {
	d := Points(42)
	if got := d.resolve(1000); got != 42 {
		t.Errorf("resolve(1000) = %v, want 42", got)
	}
}

func TestDimensionResolveAutoIsZero(t *testing.T) {
	d := Auto()
	if got := d.resolve(500); got != 0 {
		t.Errorf("resolve(500) = %v, want 0", got)
	}
	if !d.isAuto() {
		t.Error("Auto() should report isAuto() true")
	}
}

func TestFlexDirectionRowAndReverseClassification(t *testing.T) {
	cases := []struct {
		dir       FlexDirection
		isRow     bool
		isReverse bool
	}{
		{FlexRow, true, false},
		{FlexColumn, false, false},
		{FlexRowReverse, true, true},
		{FlexColumnReverse, false, true},
	}
	for _, c := range cases {
		if got := c.dir.isRow(); got != c.isRow {
			t.Errorf("%v.isRow() = %v, want %v", c.dir, got, c.isRow)
		}
		if got := c.dir.isReverse(); got != c.isReverse {
			t.Errorf("%v.isReverse() = %v, want %v", c.dir, got, c.isReverse)
		}
	}
}

func TestDefaultStyleMatchesFlexboxInitialValues(t *testing.T) {
	s := DefaultStyle()
	if !s.Width.isAuto() || !s.Height.isAuto() {
		t.Error("DefaultStyle width/height should be auto")
	}
	if s.FlexShrink != 1 {
		t.Errorf("FlexShrink = %v, want 1", s.FlexShrink)
	}
	if s.FlexDirection != FlexRow {
		t.Errorf("FlexDirection = %v, want FlexRow", s.FlexDirection)
	}
	if s.AlignItems != AlignStretch {
		t.Errorf("AlignItems = %v, want AlignStretch", s.AlignItems)
	}
	if s.Display != DisplayFlex {
		t.Errorf("Display = %v, want DisplayFlex", s.Display)
	}
	if s.Position != PositionRelative {
		t.Errorf("Position = %v, want PositionRelative", s.Position)
	}
	// AlignSelf's zero value is AlignStart, not the AlignStretch sentinel
	// that means "inherit AlignItems" elsewhere in the layout solver.
	if s.AlignSelf != AlignStart {
		t.Errorf("AlignSelf = %v, want AlignStart (zero value)", s.AlignSelf)
	}
}
