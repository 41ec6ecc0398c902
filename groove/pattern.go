package groove

import (
	"go-groove/debug"
	"go-groove/metronome"
)

// Voice identifies a drum sound slot in a pattern.
type Voice string

// Standard voices. The sink maps these to actual sounds; unknown
// voices are silently dropped at trigger time.
const (
	VoiceKick     Voice = "kick"
	VoiceSnare    Voice = "snare"
	VoiceHiHat    Voice = "hihat"
	VoiceOpenHat  Voice = "openhat"
	VoiceRide     Voice = "ride"
	VoiceCrash    Voice = "crash"
	VoiceTomHigh  Voice = "tom-high"
	VoiceTomMid   Voice = "tom-mid"
	VoiceFloorTom Voice = "floor-tom"
	VoiceCowbell  Voice = "cowbell"
)

// Metronome click voices. These are not part of the editable grid;
// the scheduler triggers them directly.
const (
	VoiceClick       Voice = "click"
	VoiceClickAccent Voice = "click-accent"
)

// Voices is the display order for the standard set.
var Voices = []Voice{
	VoiceKick, VoiceSnare, VoiceHiHat, VoiceOpenHat, VoiceRide,
	VoiceCrash, VoiceTomHigh, VoiceTomMid, VoiceFloorTom, VoiceCowbell,
}

// TimeSignature is beats per measure over a note value (4, 8 or 16).
type TimeSignature struct {
	Beats     int `json:"beats"`
	NoteValue int `json:"noteValue"`
}

// Tempo limits in BPM.
const (
	MinTempo = 30
	MaxTempo = 300
)

// Measure is one bar of the pattern. TimeSig overrides the pattern
// time signature when non-nil. Every voice's step slice must be
// NotesPerMeasure long for the measure's effective signature.
type Measure struct {
	TimeSig *TimeSignature   `json:"timeSig,omitempty"`
	Notes   map[Voice][]bool `json:"notes"`
}

// Effective returns the measure's time signature, falling back to def.
func (m *Measure) Effective(def TimeSignature) TimeSignature {
	if m.TimeSig != nil {
		return *m.TimeSig
	}
	return def
}

// Pattern is an immutable snapshot of the groove being played. The
// editing layer builds a fresh Pattern for every change; the scheduler
// never mutates one.
type Pattern struct {
	TimeSig   TimeSignature    `json:"timeSig"`
	Division  Division         `json:"division"`
	Tempo     int              `json:"tempo"`
	Swing     int              `json:"swing"` // 0-100 percent
	Measures  []Measure        `json:"measures"`
	Metronome metronome.Config `json:"metronome"`
}

// NewPattern creates a single empty measure at the given signature,
// 120 BPM, default division.
func NewPattern(ts TimeSignature) *Pattern {
	div := DefaultDivision(ts.Beats, ts.NoteValue)
	p := &Pattern{
		TimeSig:  ts,
		Division: div,
		Tempo:    120,
		Swing:    0,
		Measures: []Measure{{Notes: map[Voice][]bool{}}},
		Metronome: metronome.Config{
			Frequency: 4,
			Volume:    75,
		},
	}
	n := NotesPerMeasure(div, ts.Beats, ts.NoteValue)
	for _, v := range Voices {
		p.Measures[0].Notes[v] = make([]bool, n)
	}
	return p
}

// Clone deep-copies the pattern. The editing layer edits a clone and
// hands it back, keeping every snapshot the scheduler holds intact.
func (p *Pattern) Clone() *Pattern {
	c := *p
	c.Measures = make([]Measure, len(p.Measures))
	for i, m := range p.Measures {
		cm := Measure{Notes: make(map[Voice][]bool, len(m.Notes))}
		if m.TimeSig != nil {
			ts := *m.TimeSig
			cm.TimeSig = &ts
		}
		for v, steps := range m.Notes {
			cm.Notes[v] = append([]bool(nil), steps...)
		}
		c.Measures[i] = cm
	}
	return &c
}

// ChangeDivision switches the pattern to a new division, rescaling
// every note row. Incompatible divisions are ignored. Swing is
// dropped when the new division can't carry it.
func (p *Pattern) ChangeDivision(d Division) {
	if d == p.Division || !IsCompatible(d, p.TimeSig.Beats, p.TimeSig.NoteValue) {
		return
	}
	for i := range p.Measures {
		ts := p.TimeSigAt(i)
		if !IsCompatible(d, ts.Beats, ts.NoteValue) {
			return
		}
	}
	old := p.Division
	p.Division = d
	p.resizeAll(old)
	if !SupportsSwing(d) {
		p.Swing = 0
	}
}

// NotesPerMeasureAt returns the step count of measure i, honoring its
// time-signature override.
func (p *Pattern) NotesPerMeasureAt(i int) int {
	ts := p.Measures[i].Effective(p.TimeSig)
	return NotesPerMeasure(p.Division, ts.Beats, ts.NoteValue)
}

// TimeSigAt returns the effective time signature of measure i.
func (p *Pattern) TimeSigAt(i int) TimeSignature {
	return p.Measures[i].Effective(p.TimeSig)
}

// TotalPositions is the sum of every measure's step count, i.e. the
// length of one full loop.
func (p *Pattern) TotalPositions() int {
	total := 0
	for i := range p.Measures {
		total += p.NotesPerMeasureAt(i)
	}
	return total
}

// ToMeasure maps an absolute position to (measure index, position
// within that measure). The absolute position is taken modulo the
// loop length first.
func (p *Pattern) ToMeasure(abs int) (measure, pos int) {
	total := p.TotalPositions()
	if total == 0 {
		return 0, 0
	}
	abs = ((abs % total) + total) % total
	for i := range p.Measures {
		n := p.NotesPerMeasureAt(i)
		if abs < n {
			return i, abs
		}
		abs -= n
	}
	return 0, 0 // unreachable
}

// ToAbsolute is the inverse of ToMeasure.
func (p *Pattern) ToAbsolute(measure, pos int) int {
	abs := 0
	for i := 0; i < measure && i < len(p.Measures); i++ {
		abs += p.NotesPerMeasureAt(i)
	}
	return abs + pos
}

// ActiveVoices returns the voices set at a position in a measure.
func (p *Pattern) ActiveVoices(measure, pos int) []Voice {
	var out []Voice
	for _, v := range Voices {
		steps := p.Measures[measure].Notes[v]
		if pos < len(steps) && steps[pos] {
			out = append(out, v)
		}
	}
	return out
}

// Normalize corrects a pattern in place so the scheduler can trust
// it. Patterns can arrive from old saves or remote encodings, so
// every problem is corrected and logged rather than rejected:
// incompatible divisions fall back to the default for the signature
// (note grids are rescaled), tempo is clamped, swing is zeroed when
// the division can't carry it.
func (p *Pattern) Normalize() {
	if len(p.Measures) == 0 {
		p.Measures = []Measure{{Notes: map[Voice][]bool{}}}
	}
	if !IsCompatible(p.Division, p.TimeSig.Beats, p.TimeSig.NoteValue) {
		old := p.Division
		p.Division = DefaultDivision(p.TimeSig.Beats, p.TimeSig.NoteValue)
		debug.Log("groove", "division %d incompatible with %d/%d, using %d",
			old, p.TimeSig.Beats, p.TimeSig.NoteValue, p.Division)
		p.resizeAll(old)
	}
	if p.Tempo < MinTempo {
		debug.Log("groove", "tempo %d below minimum, clamping", p.Tempo)
		p.Tempo = MinTempo
	}
	if p.Tempo > MaxTempo {
		debug.Log("groove", "tempo %d above maximum, clamping", p.Tempo)
		p.Tempo = MaxTempo
	}
	if p.Swing != 0 && !SupportsSwing(p.Division) {
		p.Swing = 0
	}
	if p.Swing < 0 {
		p.Swing = 0
	}
	if p.Swing > 100 {
		p.Swing = 100
	}
	// Overrides that can't carry the division lose the override.
	for i := range p.Measures {
		if ots := p.Measures[i].TimeSig; ots != nil && !IsCompatible(p.Division, ots.Beats, ots.NoteValue) {
			debug.Log("groove", "measure %d override %d/%d incompatible with division %d, dropped",
				i, ots.Beats, ots.NoteValue, p.Division)
			p.Measures[i].TimeSig = nil
		}
	}
	// Pad or rescale any voice rows that don't match their measure.
	for i := range p.Measures {
		want := p.NotesPerMeasureAt(i)
		for v, steps := range p.Measures[i].Notes {
			if len(steps) != want {
				p.Measures[i].Notes[v] = ResizeSteps(steps, want)
			}
		}
	}
}

// resizeAll rescales every measure's note rows after a division
// change from old to p.Division.
func (p *Pattern) resizeAll(old Division) {
	for i := range p.Measures {
		ts := p.TimeSigAt(i)
		oldLen := NotesPerMeasure(old, ts.Beats, ts.NoteValue)
		newLen := NotesPerMeasure(p.Division, ts.Beats, ts.NoteValue)
		for v, steps := range p.Measures[i].Notes {
			if len(steps) == oldLen && oldLen != newLen {
				p.Measures[i].Notes[v] = ResizeSteps(steps, newLen)
			}
		}
	}
}
