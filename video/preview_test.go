package video

import "testing"

func TestAbsFReturnsMagnitude(t *testing.T) {
	if absF(-3.5) != 3.5 {
		t.Errorf("absF(-3.5) = %v, want 3.5", absF(-3.5))
	}
	if absF(2.0) != 2.0 {
		t.Errorf("absF(2.0) = %v, want 2.0", absF(2.0))
	}
	if absF(0) != 0 {
		t.Errorf("absF(0) = %v, want 0", absF(0))
	}
}
