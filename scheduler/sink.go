package scheduler

import (
	"time"

	"go-groove/groove"
)

// VoiceSink produces the actual sound. Play is fire-and-forget: the
// sink owns exact trigger timing (offset is relative to its own
// clock), per-voice rate limiting, and silently drops voices it does
// not know. Now is the clock the scheduler plans against, so that a
// sink backed by an audio subsystem can supply its own time base.
type VoiceSink interface {
	Play(voice groove.Voice, offset time.Duration, velocity uint8)
	Resume() error
	Now() time.Time
}

// EventSink receives playback notifications. Implementations must not
// block: callbacks run on scheduler goroutines. PositionChange gets
// -1 when playback stops.
type EventSink interface {
	PositionChange(pos int)
	PlaybackStateChange(playing bool)
	GrooveChange(p *groove.Pattern)
}

// NopEvents is an EventSink that discards everything.
type NopEvents struct{}

func (NopEvents) PositionChange(int)           {}
func (NopEvents) PlaybackStateChange(bool)     {}
func (NopEvents) GrooveChange(*groove.Pattern) {}

// SyncMode picks when the visual position event fires relative to the
// audible trigger, to compensate for perceived latency on different
// hardware.
type SyncMode int

const (
	// SyncStart fires the visual event exactly at the trigger time.
	SyncStart SyncMode = iota
	// SyncMiddle fires it half a note duration early.
	SyncMiddle
	// SyncEnd fires it a full note duration early.
	SyncEnd
)

func (m SyncMode) String() string {
	switch m {
	case SyncMiddle:
		return "middle"
	case SyncEnd:
		return "end"
	}
	return "start"
}
