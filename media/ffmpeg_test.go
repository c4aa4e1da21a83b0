package media

import "testing"

func TestLoopCount(t *testing.T) {
	cases := []struct {
		name    string
		srcDur  float64
		target  float64
		want    int
		covered float64 // (want+1)*srcDur must reach target
	}{
		{"source longer than target", 30, 25, 0, 30},
		{"source equals target", 25, 25, 0, 25},
		{"ten second bed under 25s timeline", 10, 25, 3, 40},
		{"just under one repeat", 24, 25, 2, 72},
		{"zero-length source", 0, 25, 0, 0},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := LoopCount(c.srcDur, c.target)
			if got != c.want {
				t.Fatalf("LoopCount(%.0f, %.0f) = %d; want %d", c.srcDur, c.target, got, c.want)
			}
			if c.srcDur > 0 {
				total := float64(got+1) * c.srcDur
				if total < c.target {
					t.Fatalf("%d loops of %.0fs cover only %.0fs; need %.0fs", got, c.srcDur, total, c.target)
				}
			}
		})
	}
}
