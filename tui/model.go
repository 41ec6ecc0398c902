package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"go-groove/groove"
	"go-groove/metronome"
	"go-groove/scheduler"
	"go-groove/theme"
)

// Model is the grid editor. It owns the editing copy of the pattern;
// every change is cloned and handed to the scheduler, which applies
// it now or at the next loop boundary.
type Model struct {
	Scheduler *scheduler.Scheduler
	Bridge    *Bridge
	Theme     *theme.Theme

	pattern  *groove.Pattern
	syncMode scheduler.SyncMode

	// Cursor over (voice row, absolute position).
	voiceRow int
	cursor   int

	playhead int // absolute position, -1 when stopped
	playing  bool
	quitting bool
}

func NewModel(s *scheduler.Scheduler, b *Bridge, th *theme.Theme, p *groove.Pattern) Model {
	p.Normalize()
	return Model{
		Scheduler: s,
		Bridge:    b,
		Theme:     th,
		pattern:   p,
		playhead:  -1,
	}
}

func (m Model) Init() tea.Cmd {
	return ListenForEvents(m.Bridge)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg.String())

	case EventMsg:
		switch msg.Kind {
		case EventPosition:
			m.playhead = msg.Position
		case EventPlayback:
			m.playing = msg.Playing
			if !msg.Playing {
				m.playhead = -1
			}
		case EventGroove:
			// A staged edit took effect; nothing to do, the editor
			// copy is already ahead of it.
		}
		return m, ListenForEvents(m.Bridge)
	}

	return m, nil
}

func (m Model) handleKey(key string) (tea.Model, tea.Cmd) {
	total := m.pattern.TotalPositions()

	switch key {
	case "q", "ctrl+c":
		m.quitting = true
		m.Scheduler.Stop()
		return m, tea.Quit

	case " ":
		if m.Scheduler.Playing() {
			m.Scheduler.Stop()
		} else {
			m.Scheduler.Play(m.pattern.Clone(), true)
		}

	case "h", "left":
		if m.cursor > 0 {
			m.cursor--
		}
	case "l", "right":
		if m.cursor < total-1 {
			m.cursor++
		}
	case "j", "down":
		if m.voiceRow < len(groove.Voices)-1 {
			m.voiceRow++
		}
	case "k", "up":
		if m.voiceRow > 0 {
			m.voiceRow--
		}

	case "x", "enter":
		m.toggleStep()

	case "v":
		m.Scheduler.PreviewVoice(groove.Voices[m.voiceRow])

	case "+", "=":
		m.pattern.Tempo += 5
		m.pushTempo()
	case "-", "_":
		m.pattern.Tempo -= 5
		m.pushTempo()

	case "]":
		m.setSwing(m.pattern.Swing + 10)
	case "[":
		m.setSwing(m.pattern.Swing - 10)

	case "d":
		m.cycleDivision()

	case "m":
		m.cycleMetronome()
	case "o":
		m.cycleOffset()
	case "s":
		cfg := m.pattern.Metronome
		cfg.Solo = !cfg.Solo
		m.pushMetronome(cfg)
	case "c":
		cfg := m.pattern.Metronome
		cfg.CountIn = !cfg.CountIn
		m.pushMetronome(cfg)

	case "y":
		m.syncMode = (m.syncMode + 1) % 3
		m.Scheduler.SetSyncMode(m.syncMode)
	}

	return m, nil
}

func (m *Model) toggleStep() {
	mi, pos := m.pattern.ToMeasure(m.cursor)
	v := groove.Voices[m.voiceRow]
	steps := m.pattern.Measures[mi].Notes[v]
	if pos >= len(steps) {
		return
	}
	steps[pos] = !steps[pos]
	m.Scheduler.UpdatePattern(m.pattern.Clone())
}

func (m *Model) pushTempo() {
	if m.pattern.Tempo < groove.MinTempo {
		m.pattern.Tempo = groove.MinTempo
	}
	if m.pattern.Tempo > groove.MaxTempo {
		m.pattern.Tempo = groove.MaxTempo
	}
	m.Scheduler.SetTempo(m.pattern.Tempo)
}

func (m *Model) setSwing(swing int) {
	if !groove.SupportsSwing(m.pattern.Division) {
		return
	}
	if swing < 0 {
		swing = 0
	}
	if swing > 100 {
		swing = 100
	}
	if swing == m.pattern.Swing {
		return
	}
	m.pattern.Swing = swing
	m.Scheduler.UpdatePattern(m.pattern.Clone())
}

func (m *Model) cycleDivision() {
	cur := -1
	for i, d := range groove.Divisions {
		if d == m.pattern.Division {
			cur = i
			break
		}
	}
	// Walk forward to the next division the signature can carry.
	for step := 1; step <= len(groove.Divisions); step++ {
		d := groove.Divisions[(cur+step)%len(groove.Divisions)]
		ts := m.pattern.TimeSig
		if groove.IsCompatible(d, ts.Beats, ts.NoteValue) {
			m.pattern.ChangeDivision(d)
			break
		}
	}
	if m.cursor >= m.pattern.TotalPositions() {
		m.cursor = m.pattern.TotalPositions() - 1
	}
	m.Scheduler.UpdatePattern(m.pattern.Clone())
}

func (m *Model) cycleMetronome() {
	cfg := m.pattern.Metronome
	switch cfg.Frequency {
	case 0:
		cfg.Frequency = 4
	case 4:
		cfg.Frequency = 8
	case 8:
		cfg.Frequency = 16
	default:
		cfg.Frequency = 0
	}
	m.pushMetronome(cfg)
}

func (m *Model) cycleOffset() {
	cfg := m.pattern.Metronome
	opts := metronome.RotationOptions(int(m.pattern.Division))
	order := append(append([]metronome.OffsetClick{}, opts...), metronome.OffsetRotate)
	cur := 0
	for i, o := range order {
		if o == cfg.Offset {
			cur = i
			break
		}
	}
	cfg.Offset = order[(cur+1)%len(order)]
	m.pushMetronome(cfg)
}

func (m *Model) pushMetronome(cfg metronome.Config) {
	m.pattern.Metronome = cfg
	m.Scheduler.SetMetronomeConfig(cfg)
	m.Scheduler.UpdatePattern(m.pattern.Clone())
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	th := m.Theme
	p := m.pattern

	playState := "STOP"
	if m.playing {
		playState = "PLAY"
	}
	met := "off"
	if p.Metronome.Frequency > 0 {
		met = fmt.Sprintf("%d", p.Metronome.Frequency)
		if p.Metronome.Offset != metronome.OffsetNone {
			met += "@" + string(p.Metronome.Offset)
		}
		if p.Metronome.Solo {
			met += " solo"
		}
	}
	header := th.Header.Render(fmt.Sprintf(
		"go-groove  %s  %3dbpm  %d/%d  div:%d  swing:%d%%  met:%s  sync:%s",
		playState, p.Tempo, p.TimeSig.Beats, p.TimeSig.NoteValue,
		p.Division, p.Swing, met, m.syncMode))

	var out strings.Builder
	out.WriteString("\n")
	out.WriteString(header)
	out.WriteString("\n\n")
	out.WriteString(m.renderCountRow())
	out.WriteString("\n")
	for row := range groove.Voices {
		out.WriteString(m.renderVoiceRow(row))
		out.WriteString("\n")
	}
	out.WriteString("\n")
	out.WriteString(th.Help.Render(
		"space:play  hjkl:nav  x:toggle  v:preview  +/-:tempo  [/]:swing  d:division  m:met  o:offset  s:solo  c:count-in  y:sync  q:quit"))
	return out.String()
}

// renderCountRow draws the spoken count ("1 e & a ...") above the
// grid, one cell per position across all measures.
func (m Model) renderCountRow() string {
	th := m.Theme
	var out strings.Builder
	out.WriteString(strings.Repeat(" ", 11))
	for mi := range m.pattern.Measures {
		labels := groove.CountLabels(m.pattern.Division, m.pattern.TimeSigAt(mi))
		for _, l := range labels {
			out.WriteString(th.Count.Render(fmt.Sprintf("%-2s", l)))
		}
		out.WriteString(" ")
	}
	return out.String()
}

func (m Model) renderVoiceRow(row int) string {
	th := m.Theme
	v := groove.Voices[row]
	var out strings.Builder
	out.WriteString(th.Label.Render(fmt.Sprintf("%-10s ", v)))

	abs := 0
	for mi := range m.pattern.Measures {
		steps := m.pattern.Measures[mi].Notes[v]
		n := m.pattern.NotesPerMeasureAt(mi)
		for pos := 0; pos < n; pos++ {
			active := pos < len(steps) && steps[pos]
			isCursor := row == m.voiceRow && abs == m.cursor
			isPlayhead := abs == m.playhead

			var r rune
			var style = th.Muted
			switch {
			case isPlayhead && isCursor:
				r, style = th.Symbols.CursorPlayhead, th.Playhead
			case isPlayhead:
				r, style = th.Symbols.StepPlayhead, th.Playhead
			case isCursor && active:
				r, style = th.Symbols.CursorActive, th.Cursor
			case isCursor:
				r, style = th.Symbols.CursorEmpty, th.Cursor
			case active:
				r, style = th.Symbols.StepActive, th.Active
			default:
				r = th.Symbols.StepEmpty
			}
			out.WriteString(style.Render(string(r) + " "))
			abs++
		}
		out.WriteString(" ")
	}
	return out.String()
}
