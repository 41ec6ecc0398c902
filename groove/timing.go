package groove

import (
	"fmt"
	"math"
)

// Division is the number of subdivisions per quarter note.
type Division int

// Supported divisions, ascending. 12, 24 and 48 are triplet feels.
var Divisions = []Division{4, 8, 12, 16, 24, 32, 48}

// SwingRatio is the fraction of one note duration an off-beat note is
// delayed at 100% swing. The value is a product decision inherited
// from the original groove feel, not derived from anything.
const SwingRatio = 0.33

// IsTriplet reports whether d subdivides the beat in threes.
func IsTriplet(d Division) bool {
	return d == 12 || d == 24 || d == 48
}

// SupportsSwing reports whether swing applies at this division.
// Triplets already shuffle, and quarter notes have no off-beats.
func SupportsSwing(d Division) bool {
	return !IsTriplet(d) && d != 4
}

// NotesPerMeasure returns the step count for one measure:
// (division / noteValue) * beats.
func NotesPerMeasure(d Division, beats, noteValue int) int {
	return int(d) * beats / noteValue
}

// IsCompatible reports whether the division produces a whole number
// of steps per measure. Triplet divisions only line up over quarter
// note signatures.
func IsCompatible(d Division, beats, noteValue int) bool {
	if noteValue == 0 || (int(d)*beats)%noteValue != 0 {
		return false
	}
	if IsTriplet(d) && noteValue != 4 {
		return false
	}
	return true
}

// DefaultDivision picks a division for a time signature: sixteenths
// when they fit, else the first compatible division in ascending
// order.
func DefaultDivision(beats, noteValue int) Division {
	if IsCompatible(16, beats, noteValue) {
		return 16
	}
	for _, d := range Divisions {
		if IsCompatible(d, beats, noteValue) {
			return d
		}
	}
	return 16
}

// SwingOffset returns the delay for a position as a fraction of one
// note duration. On-beat (even) positions are never moved; off-beat
// positions shift by up to SwingRatio.
func SwingOffset(pos, swingPercent int) float64 {
	if pos%2 == 0 {
		return 0
	}
	if swingPercent > 100 {
		swingPercent = 100
	}
	if swingPercent < 0 {
		swingPercent = 0
	}
	return float64(swingPercent) / 100 * SwingRatio
}

// ResizeSteps rescales a step row to a new length, mapping each
// active step proportionally and rounding to the nearest slot. Steps
// that land out of range are dropped; no new steps are invented.
func ResizeSteps(old []bool, newLen int) []bool {
	out := make([]bool, newLen)
	if len(old) == 0 || newLen == 0 {
		return out
	}
	ratio := float64(newLen) / float64(len(old))
	for i, on := range old {
		if !on {
			continue
		}
		j := int(math.Round(float64(i) * ratio))
		if j >= 0 && j < newLen {
			out[j] = true
		}
	}
	return out
}

// CountLabels returns the spoken count for one measure ("1 e & a 2
// ..." for straight feels, "1 ti ta 2 ..." for triplets). Positions
// between the named subdivisions get a dash.
func CountLabels(d Division, ts TimeSignature) []string {
	n := NotesPerMeasure(d, ts.Beats, ts.NoteValue)
	perBeat := n / ts.Beats
	labels := make([]string, n)
	for pos := 0; pos < n; pos++ {
		beat := pos / perBeat
		inBeat := pos % perBeat
		if inBeat == 0 {
			labels[pos] = fmt.Sprintf("%d", beat+1)
			continue
		}
		labels[pos] = subdivisionLabel(d, inBeat, perBeat)
	}
	return labels
}

func subdivisionLabel(d Division, inBeat, perBeat int) string {
	if IsTriplet(d) {
		// Thirds of the beat.
		switch {
		case inBeat*3 == perBeat:
			return "ti"
		case inBeat*3 == perBeat*2:
			return "ta"
		}
		return "-"
	}
	// Quarters of the beat.
	switch {
	case inBeat*4 == perBeat:
		return "e"
	case inBeat*2 == perBeat:
		return "&"
	case inBeat*4 == perBeat*3:
		return "a"
	}
	return "-"
}
