// Package midisink plays scheduler triggers as MIDI notes through
// gomidi. It implements scheduler.VoiceSink.
package midisink

import (
	"sync"
	"time"

	"go-groove/debug"
	"go-groove/groove"

	gomidi "gitlab.com/gomidi/midi/v2"
)

// minRetrigger is the per-voice floor between triggers. Anything
// faster is dropped so a runaway caller can't flood the port.
const minRetrigger = 10 * time.Millisecond

// noteLength is how long after NoteOn the matching NoteOff goes out.
const noteLength = 100 * time.Millisecond

// Sink sends triggers to a MIDI output port. The port is opened
// lazily on Resume so construction never blocks on the MIDI driver.
type Sink struct {
	portName string
	channel  uint8 // 0-based MIDI channel
	kit      Kit

	mu       sync.Mutex
	send     func(gomidi.Message) error
	lastPlay map[groove.Voice]time.Time
}

// New creates a sink for the named output port (MIDI channel 10 by
// convention for drums).
func New(portName string, kit Kit) *Sink {
	return &Sink{
		portName: portName,
		channel:  9,
		kit:      kit,
		lastPlay: make(map[groove.Voice]time.Time),
	}
}

// Resume opens the output port if it isn't open yet.
func (s *Sink) Resume() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.send != nil {
		return nil
	}
	for _, port := range gomidi.GetOutPorts() {
		if port.String() == s.portName {
			send, err := gomidi.SendTo(port)
			if err != nil {
				return err
			}
			s.send = send
			debug.Log("midisink", "opened port %q", s.portName)
			return nil
		}
	}
	// No matching port is not fatal: triggers just no-op, the same
	// way unknown voices do.
	debug.Log("midisink", "port %q not found, output disabled", s.portName)
	return nil
}

// Now returns the clock triggers are planned against.
func (s *Sink) Now() time.Time {
	return time.Now()
}

// Play schedules a note hit offset from now. Unknown voices and
// triggers inside the retrigger floor are dropped silently.
func (s *Sink) Play(voice groove.Voice, offset time.Duration, velocity uint8) {
	note, ok := s.kit.Notes[voice]
	if !ok {
		return
	}
	if offset < 0 {
		offset = 0
	}

	s.mu.Lock()
	if s.send == nil {
		s.mu.Unlock()
		return
	}
	at := time.Now().Add(offset)
	if last, ok := s.lastPlay[voice]; ok && at.Sub(last) < minRetrigger {
		s.mu.Unlock()
		debug.LogEvery(32, "midisink", "retrigger dropped: %s", voice)
		return
	}
	s.lastPlay[voice] = at
	send := s.send
	s.mu.Unlock()

	time.AfterFunc(offset, func() {
		send(gomidi.NoteOn(s.channel, note, velocity))
		time.AfterFunc(noteLength, func() {
			send(gomidi.NoteOff(s.channel, note))
		})
	})
}
