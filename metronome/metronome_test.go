package metronome

import (
	"testing"

	qt "github.com/frankban/quicktest"
)

// 4/4 at sixteenth notes: 16 positions, 4 per beat.
const (
	div44   = 16
	beats44 = 4
	notes44 = 16
)

func clicks(cfg Config, rotation int) []int {
	var out []int
	for pos := 0; pos < notes44; pos++ {
		if fire, _ := Click(pos, div44, beats44, notes44, cfg, rotation); fire {
			out = append(out, pos)
		}
	}
	return out
}

func TestClickFrequency(t *testing.T) {
	c := qt.New(t)

	c.Assert(clicks(Config{Frequency: 0}, 0), qt.IsNil)
	c.Assert(clicks(Config{Frequency: 4}, 0), qt.DeepEquals, []int{0, 4, 8, 12})
	c.Assert(clicks(Config{Frequency: 8}, 0), qt.DeepEquals, []int{0, 2, 4, 6, 8, 10, 12, 14})
	c.Assert(clicks(Config{Frequency: 16}, 0), qt.DeepEquals,
		[]int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15})
}

func TestAccentOnlyOnDownbeat(t *testing.T) {
	c := qt.New(t)
	for pos := 0; pos < notes44; pos++ {
		fire, accent := Click(pos, div44, beats44, notes44, Config{Frequency: 4}, 0)
		if pos == 0 {
			c.Assert(fire, qt.IsTrue)
			c.Assert(accent, qt.IsTrue)
		} else {
			c.Assert(accent, qt.IsFalse, qt.Commentf("pos=%d", pos))
		}
	}
}

var offsetTests = []struct {
	name   string
	offset OffsetClick
	want   []int
}{
	{"none", OffsetNone, []int{0, 4, 8, 12}},
	{"e", OffsetE, []int{1, 5, 9, 13}},
	{"and", OffsetAnd, []int{2, 6, 10, 14}},
	{"a", OffsetA, []int{3, 7, 11, 15}},
}

func TestStraightOffsets(t *testing.T) {
	c := qt.New(t)
	for _, test := range offsetTests {
		c.Run(test.name, func(c *qt.C) {
			got := clicks(Config{Frequency: 4, Offset: test.offset}, 0)
			c.Assert(got, qt.DeepEquals, test.want)

			// The accent follows the offset: it sits on the shifted
			// downbeat, not on position 0.
			_, accent := Click(test.want[0], div44, beats44, notes44,
				Config{Frequency: 4, Offset: test.offset}, 0)
			c.Assert(accent, qt.IsTrue)
		})
	}
}

func TestTripletOffsets(t *testing.T) {
	c := qt.New(t)
	// 4/4 at triplet twelfths: 12 positions, 3 per beat.
	run := func(off OffsetClick) []int {
		var out []int
		for pos := 0; pos < 12; pos++ {
			if fire, _ := Click(pos, 12, 4, 12, Config{Frequency: 4, Offset: off}, 0); fire {
				out = append(out, pos)
			}
		}
		return out
	}
	c.Assert(run(OffsetNone), qt.DeepEquals, []int{0, 3, 6, 9})
	c.Assert(run(OffsetTi), qt.DeepEquals, []int{1, 4, 7, 10})
	c.Assert(run(OffsetTa), qt.DeepEquals, []int{2, 5, 8, 11})
	// Straight names mean nothing in a triplet feel.
	c.Assert(run(OffsetE), qt.DeepEquals, []int{0, 3, 6, 9})
}

func TestRotationOptions(t *testing.T) {
	c := qt.New(t)
	c.Assert(RotationOptions(16), qt.DeepEquals,
		[]OffsetClick{OffsetNone, OffsetE, OffsetAnd, OffsetA})
	c.Assert(RotationOptions(12), qt.DeepEquals,
		[]OffsetClick{OffsetNone, OffsetTi, OffsetTa})
	c.Assert(RotationOptions(48), qt.DeepEquals,
		[]OffsetClick{OffsetNone, OffsetTi, OffsetTa})
}

func TestRotateCyclesThroughOffsets(t *testing.T) {
	c := qt.New(t)
	cfg := Config{Frequency: 4, Offset: OffsetRotate}

	// Each loop's rotation index reproduces the corresponding fixed
	// offset, and the cycle closes after four loops.
	c.Assert(clicks(cfg, 0), qt.DeepEquals, clicks(Config{Frequency: 4}, 0))
	c.Assert(clicks(cfg, 1), qt.DeepEquals, clicks(Config{Frequency: 4, Offset: OffsetE}, 0))
	c.Assert(clicks(cfg, 2), qt.DeepEquals, clicks(Config{Frequency: 4, Offset: OffsetAnd}, 0))
	c.Assert(clicks(cfg, 3), qt.DeepEquals, clicks(Config{Frequency: 4, Offset: OffsetA}, 0))
	c.Assert(clicks(cfg, 4), qt.DeepEquals, clicks(cfg, 0))
}

func TestEighthDivisionOffsets(t *testing.T) {
	c := qt.New(t)
	// At eighth notes there is no "e" position; the offset resolves
	// to the downbeat.
	var on []int
	for pos := 0; pos < 8; pos++ {
		if fire, _ := Click(pos, 8, 4, 8, Config{Frequency: 4, Offset: OffsetE}, 0); fire {
			on = append(on, pos)
		}
	}
	c.Assert(on, qt.DeepEquals, []int{0, 2, 4, 6})
}
