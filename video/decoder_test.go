package video

import (
	"bytes"
	"testing"
)

func TestCopyPlaneCopiesRowsRespectingStride(t *testing.T) {
	// src has a stride of 4 bytes/row but only the first 3 bytes/row matter.
	src := []byte{
		1, 2, 3, 0xff,
		4, 5, 6, 0xff,
	}
	dst := make([]byte, 6)
	copyPlane(dst, src, 2, 4, 3)

	want := []byte{1, 2, 3, 4, 5, 6}
	if !bytes.Equal(dst, want) {
		t.Errorf("dst = %v, want %v", dst, want)
	}
}

func TestCopyPlaneStopsShortOnTruncatedSource(t *testing.T) {
	src := []byte{1, 2, 3} // only one full row's worth of data
	dst := make([]byte, 6)
	copyPlane(dst, src, 2, 3, 3)

	want := []byte{1, 2, 3, 0, 0, 0}
	if !bytes.Equal(dst, want) {
		t.Errorf("dst = %v, want %v (second row skipped, truncated source)", dst, want)
	}
}

func TestCopyPlaneZeroRowsIsNoop(t *testing.T) {
	dst := make([]byte, 4)
	copyPlane(dst, []byte{1, 2, 3, 4}, 0, 4, 4)
	want := []byte{0, 0, 0, 0}
	if !bytes.Equal(dst, want) {
		t.Errorf("dst = %v, want all zero", dst)
	}
}
