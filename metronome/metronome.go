// Package metronome decides where click sounds land inside a measure.
// It is pure: all rotation state lives with the caller.
package metronome

// OffsetClick names the subdivision the click is shifted onto.
type OffsetClick string

const (
	OffsetNone   OffsetClick = ""
	OffsetE      OffsetClick = "e"
	OffsetAnd    OffsetClick = "&"
	OffsetA      OffsetClick = "a"
	OffsetTi     OffsetClick = "ti"
	OffsetTa     OffsetClick = "ta"
	OffsetRotate OffsetClick = "rotate"
)

// Config is the persisted metronome setup. Frequency is clicks
// expressed in notes per quarter-note bar: 0 off, 4 one per beat, 8
// two, 16 four. The rotation counter is runtime state owned by the
// scheduler, not part of this config.
type Config struct {
	Frequency int         `json:"frequency"`
	Solo      bool        `json:"solo"`
	CountIn   bool        `json:"countIn"`
	Offset    OffsetClick `json:"offset,omitempty"`
	Volume    int         `json:"volume"`
}

func isTriplet(division int) bool {
	return division == 12 || division == 24 || division == 48
}

// RotationOptions lists the offsets OffsetRotate cycles through, one
// per loop: downbeat, e, &, a for straight feels; downbeat, ti, ta
// for triplets.
func RotationOptions(division int) []OffsetClick {
	if isTriplet(division) {
		return []OffsetClick{OffsetNone, OffsetTi, OffsetTa}
	}
	return []OffsetClick{OffsetNone, OffsetE, OffsetAnd, OffsetA}
}

// offsetPositions converts an offset name to a step count within one
// beat. Offsets that don't exist at this division resolve to the
// downbeat.
func offsetPositions(off OffsetClick, division, positionsPerBeat int) int {
	if isTriplet(division) {
		switch off {
		case OffsetTi:
			return positionsPerBeat / 3
		case OffsetTa:
			return positionsPerBeat * 2 / 3
		}
		return 0
	}
	switch off {
	case OffsetE:
		return positionsPerBeat / 4
	case OffsetAnd:
		return positionsPerBeat / 2
	case OffsetA:
		return positionsPerBeat * 3 / 4
	}
	return 0
}

// Click reports whether a click fires at a position in a measure, and
// whether it is the accented downbeat click. rotation indexes
// RotationOptions when cfg.Offset is OffsetRotate.
func Click(pos, division, beats, notesPerMeasure int, cfg Config, rotation int) (fire, accent bool) {
	if cfg.Frequency == 0 || beats == 0 || notesPerMeasure == 0 {
		return false, false
	}
	positionsPerBeat := notesPerMeasure / beats
	clicksPerBeat := cfg.Frequency / 4
	if clicksPerBeat == 0 || positionsPerBeat < clicksPerBeat {
		return false, false
	}
	positionsPerClick := positionsPerBeat / clicksPerBeat
	if positionsPerClick == 0 {
		return false, false
	}

	off := cfg.Offset
	if off == OffsetRotate {
		opts := RotationOptions(division)
		off = opts[((rotation%len(opts))+len(opts))%len(opts)]
	}
	shift := offsetPositions(off, division, positionsPerBeat)

	adjusted := ((pos-shift)%notesPerMeasure + notesPerMeasure) % notesPerMeasure
	if adjusted%positionsPerClick != 0 {
		return false, false
	}
	return true, adjusted == 0
}
