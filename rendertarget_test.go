package director

import "testing"

func TestNextPowerOfTwoRoundsUp(t *testing.T) {
	cases := []struct{ in, want int }{
		{0, 1},
		{1, 1},
		{2, 2},
		{3, 4},
		{100, 128},
		{128, 128},
		{129, 256},
	}
	for _, c := range cases {
		if got := nextPowerOfTwo(c.in); got != c.want {
			t.Errorf("nextPowerOfTwo(%d) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestPoolKeyDistinguishesDimensions(t *testing.T) {
	if poolKey(128, 256) == poolKey(256, 128) {
		t.Error("poolKey should not be symmetric in width/height")
	}
	if poolKey(64, 64) != poolKey(64, 64) {
		t.Error("poolKey should be deterministic for the same inputs")
	}
}

func TestRTPoolReleaseNilIsNoop(t *testing.T) {
	p := newRTPool()
	p.Release(nil) // must not panic
	if len(p.buckets) != 0 {
		t.Error("releasing nil should not add a bucket entry")
	}
}
