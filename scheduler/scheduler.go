// Package scheduler turns a pattern into precisely timed voice
// triggers. It runs a look-ahead loop: a short re-arm timer wakes it
// every tickInterval and it commits every position falling inside the
// next lookAhead window to the sink, so trigger timing survives timer
// jitter as long as the window exceeds the worst-case re-arm latency.
package scheduler

import (
	"errors"
	"sync"
	"time"

	"go-groove/debug"
	"go-groove/groove"
	"go-groove/metronome"
)

const (
	// lookAhead is how far into the future positions are committed.
	lookAhead = 150 * time.Millisecond
	// tickInterval re-arms the scheduling loop. Must stay well under
	// lookAhead or triggers would come due before being committed.
	tickInterval = 50 * time.Millisecond

	// standardVelocity is used for grid notes and previews.
	standardVelocity = 100
)

// Scheduler owns all playback state. Public methods and the internal
// loop serialize on one mutex; nothing else touches the fields.
type Scheduler struct {
	mu     sync.Mutex
	sink   VoiceSink
	events EventSink

	lookAhead    time.Duration
	tickInterval time.Duration
	syncMode     SyncMode

	playing   bool
	pattern   *groove.Pattern
	pending   *groove.Pattern
	position  int       // next unscheduled absolute position, negative during count-in
	countIn   int       // count-in length in positions (0 when disabled)
	startTime time.Time // wall time of position 0 of the current loop
	loop      bool
	done      bool // final pass committed, waiting for the end timer
	loopCount int
	rotation  int // index into metronome.RotationOptions

	stopChan chan struct{}
	endTimer *time.Timer // pending stop when looping is disabled

	// Outstanding visual timers. Each self-removes when it fires;
	// Stop cancels and clears the lot.
	visuals   map[int]*time.Timer
	visualSeq int

	manual bool // tests drive fill() directly instead of the run loop
}

// New creates a stopped scheduler. events may be nil.
func New(sink VoiceSink, events EventSink) *Scheduler {
	if events == nil {
		events = NopEvents{}
	}
	return &Scheduler{
		sink:         sink,
		events:       events,
		lookAhead:    lookAhead,
		tickInterval: tickInterval,
		visuals:      make(map[int]*time.Timer),
	}
}

// Play starts playback of the pattern from position 0. A no-op if
// already playing. Blocks until the sink is ready.
func (s *Scheduler) Play(p *groove.Pattern, loop bool) error {
	if err := s.sink.Resume(); err != nil {
		return err
	}
	p.Normalize()
	if p.TotalPositions() == 0 {
		return errors.New("pattern has no positions")
	}

	s.mu.Lock()
	if s.playing {
		s.mu.Unlock()
		return nil
	}
	s.playing = true
	s.pattern = p
	s.pending = nil
	s.loop = loop
	s.done = false
	s.loopCount = 0
	s.rotation = 0
	s.position = 0
	s.countIn = 0
	now := s.sink.Now()
	s.startTime = now
	if p.Metronome.CountIn {
		// One measure of clicks before the groove starts. Position 0
		// keeps its nominal time; the count-in lives at negative
		// positions.
		s.countIn = p.NotesPerMeasureAt(0)
		s.position = -s.countIn
		s.startTime = now.Add(s.noteDuration() * time.Duration(s.countIn))
	}
	s.stopChan = make(chan struct{})
	stop := s.stopChan
	manual := s.manual
	countIn := s.countIn
	s.mu.Unlock()

	debug.Log("sched", "play: tempo=%d div=%d positions=%d countIn=%d loop=%v",
		p.Tempo, p.Division, p.TotalPositions(), countIn, loop)
	s.events.PlaybackStateChange(true)

	if !manual {
		go s.run(stop)
	}
	return nil
}

// Stop halts playback and cancels every outstanding trigger and
// visual timer. Idempotent; no event fires after Stop returns.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.playing {
		s.mu.Unlock()
		return
	}
	s.playing = false
	close(s.stopChan)
	if s.endTimer != nil {
		s.endTimer.Stop()
		s.endTimer = nil
	}
	for id, t := range s.visuals {
		t.Stop()
		delete(s.visuals, id)
	}
	s.pending = nil
	s.mu.Unlock()

	debug.Log("sched", "stop")
	s.events.PlaybackStateChange(false)
	s.events.PositionChange(-1)
}

// UpdatePattern swaps in an edited pattern. Applied immediately when
// stopped; while playing it is staged and takes effect at the next
// loop boundary so already-scheduled notes are never rewritten.
func (s *Scheduler) UpdatePattern(p *groove.Pattern) {
	p.Normalize()

	s.mu.Lock()
	if s.playing {
		s.pending = p
		s.mu.Unlock()
		debug.Log("sched", "pattern staged for loop boundary")
		return
	}
	s.pattern = p
	s.mu.Unlock()
	s.events.GrooveChange(p)
}

// SetTempo changes the tempo, clamped to [30,300]. While playing the
// clock reference is rebased so the current musical phase is
// preserved: only the rate of future positions changes.
func (s *Scheduler) SetTempo(bpm int) {
	if bpm < groove.MinTempo {
		bpm = groove.MinTempo
	}
	if bpm > groove.MaxTempo {
		bpm = groove.MaxTempo
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pattern == nil || s.pattern.Tempo == bpm {
		return
	}
	if !s.playing {
		s.pattern.Tempo = bpm
		return
	}
	now := s.sink.Now()
	oldDur := s.noteDuration()
	elapsed := float64(now.Sub(s.startTime)) / float64(oldDur)
	s.pattern.Tempo = bpm
	newDur := s.noteDuration()
	s.startTime = now.Add(-time.Duration(elapsed * float64(newDur)))
	debug.Log("sched", "tempo %d, phase %.3f preserved", bpm, elapsed)
}

// SetSyncMode picks the visual/audio alignment for future positions.
func (s *Scheduler) SetSyncMode(m SyncMode) {
	s.mu.Lock()
	s.syncMode = m
	s.mu.Unlock()
}

// SetLoop controls whether playback wraps at the pattern end.
func (s *Scheduler) SetLoop(loop bool) {
	s.mu.Lock()
	s.loop = loop
	s.mu.Unlock()
}

// SetMetronomeConfig replaces the metronome setup. Changing the
// offset mode resets the rotation counter.
func (s *Scheduler) SetMetronomeConfig(cfg metronome.Config) {
	s.mu.Lock()
	if s.pattern != nil {
		if s.pattern.Metronome.Offset != cfg.Offset {
			s.rotation = 0
		}
		s.pattern.Metronome = cfg
	}
	s.mu.Unlock()
}

// PreviewVoice fires a single immediate trigger, bypassing the loop.
func (s *Scheduler) PreviewVoice(v groove.Voice) {
	s.sink.Play(v, 0, standardVelocity)
}

// Playing reports whether a loop is active.
func (s *Scheduler) Playing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.playing
}

// Pattern returns the currently effective pattern.
func (s *Scheduler) Pattern() *groove.Pattern {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pattern
}

// run is the re-arm loop: fill immediately, then every tickInterval
// until stopped.
func (s *Scheduler) run(stop chan struct{}) {
	timer := time.NewTimer(0)
	defer timer.Stop()
	for {
		select {
		case <-stop:
			return
		case <-timer.C:
			s.fill()
			timer.Reset(s.tickInterval)
		}
	}
}

// noteDuration is the wall time of one subdivision at the current
// tempo: (60/tempo) seconds per beat over (division/4) notes per
// beat. Caller holds the lock.
func (s *Scheduler) noteDuration() time.Duration {
	beat := time.Duration(float64(time.Minute) / float64(s.pattern.Tempo))
	return time.Duration(float64(beat) / (float64(s.pattern.Division) / 4))
}

// fill commits every position whose nominal time falls inside the
// look-ahead window. The window check is the hard exit: the loop
// terminates every tick no matter what the clock did.
func (s *Scheduler) fill() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.playing || s.done {
		return
	}

	now := s.sink.Now()
	horizon := now.Add(s.lookAhead)

	for {
		dur := s.noteDuration()
		nominal := s.startTime.Add(dur * time.Duration(s.position))
		if nominal.After(horizon) {
			return
		}
		s.schedulePosition(now, nominal, dur)

		last := s.position >= 0 && s.position+1 >= s.pattern.TotalPositions()
		s.position++
		if last && !s.wrapLoop(nominal.Add(dur)) {
			return
		}
	}
}

// schedulePosition commits one position: voice triggers, metronome
// click and the visual timer. Caller holds the lock.
func (s *Scheduler) schedulePosition(now, nominal time.Time, dur time.Duration) {
	p := s.pattern
	cfg := p.Metronome

	if s.position < 0 {
		// Count-in: clicks only, measured against measure 0.
		s.scheduleCountIn(now, nominal)
		return
	}

	mi, pos := p.ToMeasure(s.position)
	swing := groove.SwingOffset(pos, p.Swing)
	trigger := nominal.Add(time.Duration(swing * float64(dur)))

	if !cfg.Solo {
		for _, v := range p.ActiveVoices(mi, pos) {
			s.sink.Play(v, trigger.Sub(now), standardVelocity)
		}
	}

	ts := p.TimeSigAt(mi)
	n := p.NotesPerMeasureAt(mi)
	if fire, accent := metronome.Click(pos, int(p.Division), ts.Beats, n, cfg, s.rotation); fire {
		s.sink.Play(clickVoice(accent), trigger.Sub(now), clickVelocity(cfg.Volume))
	}

	s.scheduleVisual(s.position, trigger, dur, now)
	debug.LogEvery(64, "sched", "pos=%d measure=%d trigger=%v", s.position, mi, trigger.Sub(now))
}

// scheduleCountIn fires the count-in click for a negative position.
// A silent metronome still counts in at one click per beat.
func (s *Scheduler) scheduleCountIn(now, nominal time.Time) {
	p := s.pattern
	cfg := p.Metronome
	if cfg.Frequency == 0 {
		cfg.Frequency = 4
	}
	pos := s.position + s.countIn
	ts := p.TimeSigAt(0)
	n := p.NotesPerMeasureAt(0)
	if fire, accent := metronome.Click(pos, int(p.Division), ts.Beats, n, cfg, s.rotation); fire {
		s.sink.Play(clickVoice(accent), nominal.Sub(now), clickVelocity(cfg.Volume))
	}
}

// wrapLoop handles the boundary after the final position has been
// committed. endTime is the nominal time of position 0 of the next
// loop. Returns false when filling must stop. Caller holds the lock.
func (s *Scheduler) wrapLoop(endTime time.Time) bool {
	if !s.loop {
		// One full pass: stop exactly when the last note duration has
		// elapsed. Committed triggers still fire; the sink owns them.
		s.done = true
		s.endTimer = time.AfterFunc(endTime.Sub(s.sink.Now()), s.Stop)
		return false
	}

	s.loopCount++
	if s.pattern.Metronome.Offset == metronome.OffsetRotate {
		opts := metronome.RotationOptions(int(s.pattern.Division))
		s.rotation = (s.rotation + 1) % len(opts)
	}

	s.position = 0
	s.countIn = 0
	s.startTime = endTime // seamless: next loop starts exactly on time

	if s.pending != nil {
		next := s.pending
		s.pending = nil
		if groove.IsTriplet(next.Division) != groove.IsTriplet(s.pattern.Division) {
			// Rotation options change size across the triplet divide;
			// start the cycle over rather than index out of phase.
			s.rotation = 0
		}
		s.pattern = next
		debug.Log("sched", "pattern swapped at loop %d", s.loopCount)
		go s.events.GrooveChange(next)
	}
	return true
}

// scheduleVisual arms the decoupled position-change timer. It removes
// itself from the pending set when it fires; Stop cancels it. Caller
// holds the lock.
func (s *Scheduler) scheduleVisual(position int, trigger time.Time, dur time.Duration, now time.Time) {
	at := trigger
	switch s.syncMode {
	case SyncMiddle:
		at = at.Add(-dur / 2)
	case SyncEnd:
		at = at.Add(-dur)
	}

	s.visualSeq++
	id := s.visualSeq
	delay := at.Sub(now)
	if delay < 0 {
		delay = 0
	}
	s.visuals[id] = time.AfterFunc(delay, func() {
		s.mu.Lock()
		_, live := s.visuals[id]
		delete(s.visuals, id)
		s.mu.Unlock()
		if live {
			s.events.PositionChange(position)
		}
	})
}

func clickVoice(accent bool) groove.Voice {
	if accent {
		return groove.VoiceClickAccent
	}
	return groove.VoiceClick
}

// clickVelocity maps metronome volume (0-100) onto MIDI velocity.
func clickVelocity(volume int) uint8 {
	if volume < 0 {
		volume = 0
	}
	if volume > 100 {
		volume = 100
	}
	return uint8(volume * 127 / 100)
}
