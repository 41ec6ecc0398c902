package groove

import (
	"testing"

	qt "github.com/frankban/quicktest"
)

var signatures = func() []TimeSignature {
	var out []TimeSignature
	for _, nv := range []int{4, 8, 16} {
		for beats := 2; beats <= 15; beats++ {
			out = append(out, TimeSignature{Beats: beats, NoteValue: nv})
		}
	}
	return out
}()

func TestNotesPerMeasureIntegral(t *testing.T) {
	c := qt.New(t)
	for _, ts := range signatures {
		for _, d := range Divisions {
			if !IsCompatible(d, ts.Beats, ts.NoteValue) {
				continue
			}
			n := NotesPerMeasure(d, ts.Beats, ts.NoteValue)
			c.Assert(n > 0, qt.IsTrue, qt.Commentf("div=%d ts=%d/%d", d, ts.Beats, ts.NoteValue))
			// The step count must divide back evenly.
			c.Assert(n*ts.NoteValue, qt.Equals, int(d)*ts.Beats)
		}
	}
}

func TestDefaultDivisionCompatible(t *testing.T) {
	c := qt.New(t)
	for _, ts := range signatures {
		d := DefaultDivision(ts.Beats, ts.NoteValue)
		c.Assert(IsCompatible(d, ts.Beats, ts.NoteValue), qt.IsTrue,
			qt.Commentf("ts=%d/%d got div=%d", ts.Beats, ts.NoteValue, d))
	}
}

func TestDefaultDivisionPrefersSixteenths(t *testing.T) {
	c := qt.New(t)
	c.Assert(DefaultDivision(4, 4), qt.Equals, Division(16))
	c.Assert(DefaultDivision(7, 8), qt.Equals, Division(16))
	c.Assert(DefaultDivision(6, 8), qt.Equals, Division(16))
}

func TestTripletCompatibility(t *testing.T) {
	c := qt.New(t)
	// Triplet feels only exist over quarter-note signatures.
	c.Assert(IsCompatible(12, 4, 4), qt.IsTrue)
	c.Assert(IsCompatible(12, 6, 8), qt.IsFalse)
	c.Assert(IsCompatible(24, 3, 4), qt.IsTrue)
	c.Assert(IsCompatible(48, 4, 8), qt.IsFalse)
}

func TestSwingNeutralOnBeat(t *testing.T) {
	c := qt.New(t)
	for pos := 0; pos < 32; pos += 2 {
		for _, swing := range []int{0, 25, 50, 100} {
			c.Assert(SwingOffset(pos, swing), qt.Equals, 0.0)
		}
	}
}

func TestSwingBound(t *testing.T) {
	c := qt.New(t)
	c.Assert(SwingOffset(1, 100), qt.Equals, SwingRatio)
	c.Assert(SwingOffset(1, 150), qt.Equals, SwingRatio) // clamped
	c.Assert(SwingOffset(1, 0), qt.Equals, 0.0)

	// Monotonically non-decreasing in swing.
	prev := 0.0
	for swing := 0; swing <= 100; swing += 5 {
		off := SwingOffset(3, swing)
		c.Assert(off >= prev, qt.IsTrue, qt.Commentf("swing=%d", swing))
		prev = off
	}
}

func TestSupportsSwing(t *testing.T) {
	c := qt.New(t)
	for _, d := range Divisions {
		want := !IsTriplet(d) && d != 4
		c.Assert(SupportsSwing(d), qt.Equals, want, qt.Commentf("div=%d", d))
	}
}

var resizeTests = []struct {
	name   string
	in     []bool
	newLen int
	want   []bool
}{{
	name:   "double",
	in:     []bool{true, false, true, false},
	newLen: 8,
	want:   []bool{true, false, false, false, true, false, false, false},
}, {
	name:   "halve",
	in:     []bool{true, false, false, false, true, false, false, false},
	newLen: 4,
	want:   []bool{true, false, true, false},
}, {
	name:   "halve collisions merge",
	in:     []bool{true, true, false, false},
	newLen: 2,
	want:   []bool{true, true},
}, {
	name:   "empty stays empty",
	in:     []bool{false, false, false, false},
	newLen: 16,
	want:   make([]bool, 16),
}, {
	name:   "straight to triplet",
	in:     []bool{true, false, false, false, true, false, false, false},
	newLen: 6,
	want:   []bool{true, false, false, true, false, false},
}}

func TestResizeSteps(t *testing.T) {
	c := qt.New(t)
	for _, test := range resizeTests {
		c.Run(test.name, func(c *qt.C) {
			c.Assert(ResizeSteps(test.in, test.newLen), qt.DeepEquals, test.want)
		})
	}
}

func TestResizeNeverInvents(t *testing.T) {
	c := qt.New(t)
	count := func(steps []bool) int {
		n := 0
		for _, on := range steps {
			if on {
				n++
			}
		}
		return n
	}
	rows := [][]bool{
		{true, true, true, true},
		{true, false, true, false, true, false, true, false},
		{false, true},
		make([]bool, 32),
	}
	for _, in := range rows {
		for _, newLen := range []int{1, 2, 3, 6, 8, 12, 16, 48} {
			out := ResizeSteps(in, newLen)
			c.Assert(len(out), qt.Equals, newLen)
			c.Assert(count(out) <= count(in), qt.IsTrue,
				qt.Commentf("in=%v newLen=%d out=%v", in, newLen, out))
		}
	}
}

func TestCountLabels(t *testing.T) {
	c := qt.New(t)
	c.Assert(CountLabels(16, TimeSignature{Beats: 2, NoteValue: 4}), qt.DeepEquals,
		[]string{"1", "e", "&", "a", "2", "e", "&", "a"})
	c.Assert(CountLabels(8, TimeSignature{Beats: 2, NoteValue: 4}), qt.DeepEquals,
		[]string{"1", "&", "2", "&"})
	c.Assert(CountLabels(12, TimeSignature{Beats: 2, NoteValue: 4}), qt.DeepEquals,
		[]string{"1", "ti", "ta", "2", "ti", "ta"})
	c.Assert(CountLabels(4, TimeSignature{Beats: 3, NoteValue: 4}), qt.DeepEquals,
		[]string{"1", "2", "3"})
	c.Assert(CountLabels(32, TimeSignature{Beats: 1, NoteValue: 4}), qt.DeepEquals,
		[]string{"1", "-", "e", "-", "&", "-", "a", "-"})
}
