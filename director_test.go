package director

import "testing"

func TestTimelineItemBeforeStartIsInactive(t *testing.T) {
	ti := TimelineItem{StartTime: 5, EndTime: 10}
	if _, active := ti.localTimeAt(4); active {
		t.Error("expected inactive before StartTime")
	}
}

func TestTimelineItemOpenEndedNeverClips(t *testing.T) {
	ti := TimelineItem{StartTime: 0, EndTime: 0}
	lt, active := ti.localTimeAt(1000)
	if !active {
		t.Fatal("expected active, EndTime<=StartTime means open-ended")
	}
	if lt != 1000 {
		t.Errorf("localTimeAt = %v, want 1000", lt)
	}
}

func TestTimelineItemNonLoopingClipsAtEnd(t *testing.T) {
	ti := TimelineItem{StartTime: 0, EndTime: 2}
	if _, active := ti.localTimeAt(2); active {
		t.Error("expected inactive at/after EndTime when not looping")
	}
	lt, active := ti.localTimeAt(1)
	if !active || lt != 1 {
		t.Errorf("localTimeAt(1) = (%v,%v), want (1,true)", lt, active)
	}
}

func TestTimelineItemLoopingWrapsThroughPeriod(t *testing.T) {
	ti := TimelineItem{StartTime: 0, EndTime: 0, Loop: true, LoopPeriod: 2}
	lt, active := ti.localTimeAt(5)
	if !active {
		t.Fatal("expected active")
	}
	if lt != 1 {
		t.Errorf("localTimeAt(5) with period 2 = %v, want 1", lt)
	}
}

func TestTimelineItemHardClipStopsInsteadOfLooping(t *testing.T) {
	ti := TimelineItem{StartTime: 0, EndTime: 3, Loop: true, LoopPeriod: 2, HardClip: true}
	// within the clip region, still loops normally
	if lt, active := ti.localTimeAt(2.5); !active || lt != 0.5 {
		t.Errorf("localTimeAt(2.5) = (%v,%v), want (0.5,true)", lt, active)
	}
	// past the hard clip boundary, stops rather than wrapping through it
	if _, active := ti.localTimeAt(3); active {
		t.Error("expected inactive past hard clip boundary")
	}
	if _, active := ti.localTimeAt(10); active {
		t.Error("expected inactive well past hard clip boundary")
	}
}

func TestTimelineItemSoftLoopIgnoresEndTime(t *testing.T) {
	ti := TimelineItem{StartTime: 0, EndTime: 3, Loop: true, LoopPeriod: 2}
	lt, active := ti.localTimeAt(10)
	if !active {
		t.Fatal("expected a soft (non-hard-clip) loop to keep wrapping past EndTime")
	}
	if lt != 0 {
		t.Errorf("localTimeAt(10) with period 2 = %v, want 0", lt)
	}
}

func TestModWrapsNegativeAndPositive(t *testing.T) {
	if v := mod(5, 2); v != 1 {
		t.Errorf("mod(5,2) = %v, want 1", v)
	}
	if v := mod(-1, 2); v != 1 {
		t.Errorf("mod(-1,2) = %v, want 1", v)
	}
	if v := mod(0, 2); v != 0 {
		t.Errorf("mod(0,2) = %v, want 0", v)
	}
}

func TestAddSceneReturnsSequentialIndices(t *testing.T) {
	d := newTestDirector()
	idxA, rootA := d.AddScene(NewBoxElement(), 0, 2)
	idxB, rootB := d.AddScene(NewBoxElement(), 2, 2)
	if idxA != 0 || idxB != 1 {
		t.Errorf("indices = (%v,%v), want (0,1)", idxA, idxB)
	}
	if len(d.Scenes) != 2 || d.Scenes[0] != rootA || d.Scenes[1] != rootB {
		t.Errorf("Scenes = %v, want [%v %v]", d.Scenes, rootA, rootB)
	}
}

func TestAddTransitionSetsFromToAndStartTime(t *testing.T) {
	d := newTestDirector()
	d.AddScene(NewBoxElement(), 0, 2)
	d.AddScene(NewBoxElement(), 2, 2)
	tr := NewTransition(TransitionFade, 1, d.ctx.Shaders)
	d.AddTransition(tr, 0, 1, 2)

	if tr.FromScene != 0 || tr.ToScene != 1 || tr.StartTime != 2 {
		t.Errorf("transition = %+v, want FromScene=0 ToScene=1 StartTime=2", tr)
	}
	if len(d.Transitions) != 1 || d.Transitions[0] != tr {
		t.Error("AddTransition should append tr to d.Transitions")
	}
}

func TestMarkActiveStampsEveryScene(t *testing.T) {
	d := newTestDirector()
	_, rootA := d.AddScene(NewBoxElement(), 0, 10)
	_, rootB := d.AddScene(NewBoxElement(), 0, 10)

	d.markActive(5)

	if !d.Scene.Get(rootA).isActiveAt(5) {
		t.Error("scene A should be active")
	}
	if !d.Scene.Get(rootB).isActiveAt(5) {
		t.Error("scene B should be active")
	}
}

func TestForceActiveTransitionScenesOverridesExpiredWindow(t *testing.T) {
	d := newTestDirector()
	_, rootA := d.AddScene(NewBoxElement(), 0, 2) // window ends at t=2
	_, rootB := d.AddScene(NewBoxElement(), 2, 2)
	tr := NewTransition(TransitionFade, 1, d.ctx.Shaders)
	d.AddTransition(tr, 0, 1, 2) // transition window [2,3)

	const t = 2.5
	d.markActive(t)
	if d.Scene.Get(rootA).isActiveAt(t) {
		t.Fatal("scene A's own window should have already lapsed at t=2.5 before forcing")
	}

	d.forceActiveTransitionScenes(t)
	if !d.Scene.Get(rootA).isActiveAt(t) {
		t.Error("forceActiveTransitionScenes should keep the outgoing scene active through the transition window")
	}
	if !d.Scene.Get(rootB).isActiveAt(t) {
		t.Error("forceActiveTransitionScenes should keep the incoming scene active through the transition window")
	}
}

func TestForceActiveTransitionScenesNoopOutsideWindow(t *testing.T) {
	d := newTestDirector()
	_, rootA := d.AddScene(NewBoxElement(), 0, 2)
	_, rootB := d.AddScene(NewBoxElement(), 2, 2)
	tr := NewTransition(TransitionFade, 1, d.ctx.Shaders)
	d.AddTransition(tr, 0, 1, 2)

	const t = 10.0
	d.markActive(t)
	d.forceActiveTransitionScenes(t)
	if d.Scene.Get(rootA).isActiveAt(t) {
		t.Error("scene A should stay inactive once well past the transition window")
	}
	if d.Scene.Get(rootB).isActiveAt(t) {
		t.Error("scene B should stay inactive once well past the transition window")
	}
}

func TestSeekWithScenesLaysOutOnlyActiveScenes(t *testing.T) {
	d := newTestDirector()
	_, rootA := d.AddScene(NewBoxElement(), 0, 2)
	_, rootB := d.AddScene(NewBoxElement(), 2, 2)

	d.Seek(2.5)

	// scene A's window [0,2) has lapsed, so it is not stamped and not laid out
	if d.Scene.Get(rootA).LayoutRect.W != 0 {
		t.Errorf("scene A LayoutRect.W = %v, want 0 for an inactive scene", d.Scene.Get(rootA).LayoutRect.W)
	}
	if d.Scene.Get(rootB).LayoutRect.W != float64(d.ScreenW) {
		t.Errorf("scene B LayoutRect.W = %v, want %v", d.Scene.Get(rootB).LayoutRect.W, d.ScreenW)
	}
}
