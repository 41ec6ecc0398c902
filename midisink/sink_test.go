package midisink

import (
	"sync"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
	gomidi "gitlab.com/gomidi/midi/v2"

	"go-groove/groove"
)

func TestKitsCoverAllVoices(t *testing.T) {
	c := qt.New(t)
	voices := append([]groove.Voice{}, groove.Voices...)
	voices = append(voices, groove.VoiceClick, groove.VoiceClickAccent)
	for name, kit := range Kits {
		for _, v := range voices {
			_, ok := kit.Notes[v]
			c.Assert(ok, qt.IsTrue, qt.Commentf("kit %q missing %s", name, v))
		}
	}
}

func TestGetKitFallsBack(t *testing.T) {
	c := qt.New(t)
	c.Assert(GetKit("no-such-kit").Name, qt.Equals, Kits[DefaultKit].Name)
	c.Assert(GetKit("rd8").Name, qt.Equals, "Behringer RD-8")
}

// capture installs a fake sender and returns the collected messages.
func capture(s *Sink) func() []gomidi.Message {
	var mu sync.Mutex
	var msgs []gomidi.Message
	s.send = func(m gomidi.Message) error {
		mu.Lock()
		msgs = append(msgs, m)
		mu.Unlock()
		return nil
	}
	return func() []gomidi.Message {
		mu.Lock()
		defer mu.Unlock()
		return append([]gomidi.Message(nil), msgs...)
	}
}

func countNoteOns(msgs []gomidi.Message) int {
	n := 0
	for _, m := range msgs {
		var ch, key, vel uint8
		if m.GetNoteOn(&ch, &key, &vel) {
			n++
		}
	}
	return n
}

func TestPlaySendsNoteOnThenOff(t *testing.T) {
	c := qt.New(t)
	s := New("test", GetKit(DefaultKit))
	got := capture(s)

	s.Play(groove.VoiceKick, 0, 100)

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if len(got()) >= 2 {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}

	msgs := got()
	c.Assert(len(msgs), qt.Equals, 2)
	var ch, key, vel uint8
	c.Assert(msgs[0].GetNoteOn(&ch, &key, &vel), qt.IsTrue)
	c.Assert(ch, qt.Equals, uint8(9))
	c.Assert(key, qt.Equals, uint8(36))
	c.Assert(vel, qt.Equals, uint8(100))
	c.Assert(msgs[1].GetNoteOff(&ch, &key, &vel), qt.IsTrue)
}

func TestRetriggerFloor(t *testing.T) {
	c := qt.New(t)
	s := New("test", GetKit(DefaultKit))
	got := capture(s)

	// Two triggers inside the floor: the second is dropped. A third
	// well outside goes through.
	s.Play(groove.VoiceSnare, 0, 100)
	s.Play(groove.VoiceSnare, minRetrigger/2, 100)
	s.Play(groove.VoiceSnare, 50*time.Millisecond, 100)

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if countNoteOns(got()) >= 2 {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}
	time.Sleep(20 * time.Millisecond)
	c.Assert(countNoteOns(got()), qt.Equals, 2)
}

func TestUnknownVoiceDropped(t *testing.T) {
	c := qt.New(t)
	s := New("test", GetKit(DefaultKit))
	got := capture(s)

	s.Play(groove.Voice("theremin"), 0, 100)
	time.Sleep(20 * time.Millisecond)
	c.Assert(len(got()), qt.Equals, 0)
}

func TestPlayWithoutPortIsNoop(t *testing.T) {
	c := qt.New(t)
	s := New("test", GetKit(DefaultKit))
	// No Resume, no send: must not panic.
	s.Play(groove.VoiceKick, 0, 100)
	c.Assert(s.send, qt.IsNil)
}

func TestRetriggerTracksDistinctVoices(t *testing.T) {
	c := qt.New(t)
	s := New("test", GetKit(DefaultKit))
	got := capture(s)

	s.Play(groove.VoiceKick, 0, 100)
	s.Play(groove.VoiceSnare, 0, 100)

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if countNoteOns(got()) >= 2 {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}
	c.Assert(countNoteOns(got()), qt.Equals, 2)
}
