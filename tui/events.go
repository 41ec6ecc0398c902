package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"go-groove/groove"
)

// EventKind tags scheduler notifications crossing into the TUI.
type EventKind int

const (
	EventPosition EventKind = iota
	EventPlayback
	EventGroove
)

// Event is one scheduler notification.
type Event struct {
	Kind     EventKind
	Position int
	Playing  bool
	Pattern  *groove.Pattern
}

// Bridge adapts scheduler.EventSink to a bounded channel the TUI
// drains. Sends never block: when the UI falls behind, stale position
// events are dropped rather than stalling the scheduling loop.
type Bridge struct {
	ch chan Event
}

func NewBridge() *Bridge {
	return &Bridge{ch: make(chan Event, 64)}
}

func (b *Bridge) PositionChange(pos int) {
	select {
	case b.ch <- Event{Kind: EventPosition, Position: pos}:
	default:
	}
}

func (b *Bridge) PlaybackStateChange(playing bool) {
	select {
	case b.ch <- Event{Kind: EventPlayback, Playing: playing}:
	default:
	}
}

func (b *Bridge) GrooveChange(p *groove.Pattern) {
	select {
	case b.ch <- Event{Kind: EventGroove, Pattern: p}:
	default:
	}
}

// EventMsg wraps an Event for bubbletea.
type EventMsg Event

// ListenForEvents returns a command that delivers the next scheduler
// event to the program.
func ListenForEvents(b *Bridge) tea.Cmd {
	return func() tea.Msg {
		return EventMsg(<-b.ch)
	}
}
