package director

import "testing"

func TestArenaInsertAndGet(t *testing.T) {
	a := newArena[int]()
	v := 42
	idx := a.insert(&v)
	got := a.get(idx)
	if got == nil || *got != 42 {
		t.Fatalf("get(%d) = %v, want pointer to 42", idx, got)
	}
}

func TestArenaGetOutOfRangeReturnsNil(t *testing.T) {
	a := newArena[int]()
	if a.get(0) != nil {
		t.Error("get on empty arena should return nil")
	}
	if a.get(-1) != nil {
		t.Error("get(-1) should return nil")
	}
}

func TestArenaRemoveFreesSlotForReuse(t *testing.T) {
	a := newArena[int]()
	v1, v2, v3 := 1, 2, 3
	idx1 := a.insert(&v1)
	a.insert(&v2)
	a.remove(idx1)

	if a.get(idx1) != nil {
		t.Error("get after remove should return nil")
	}

	idx3 := a.insert(&v3)
	if idx3 != idx1 {
		t.Errorf("insert after remove = %d, want recycled slot %d", idx3, idx1)
	}
	if got := a.get(idx3); got == nil || *got != 3 {
		t.Errorf("get(%d) = %v, want pointer to 3", idx3, got)
	}
}

func TestArenaRemoveOutOfRangeIsNoop(t *testing.T) {
	a := newArena[int]()
	a.remove(5) // should not panic
	a.remove(-1)
}

func TestArenaEachVisitsOnlyOccupiedSlots(t *testing.T) {
	a := newArena[int]()
	v1, v2 := 10, 20
	i1 := a.insert(&v1)
	i2 := a.insert(&v2)
	a.remove(i1)

	seen := map[int]int{}
	a.each(func(idx int, v *int) {
		seen[idx] = *v
	})
	if len(seen) != 1 {
		t.Fatalf("each visited %d slots, want 1", len(seen))
	}
	if seen[i2] != 20 {
		t.Errorf("each missed occupied slot %d", i2)
	}
}

func TestArenaLen(t *testing.T) {
	a := newArena[int]()
	v := 1
	a.insert(&v)
	a.insert(&v)
	if a.len() != 2 {
		t.Errorf("len() = %d, want 2", a.len())
	}
}
