package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv"

	"go-groove/config"
	"go-groove/debug"
	"go-groove/groove"
	"go-groove/midisink"
	"go-groove/scheduler"
	"go-groove/theme"
	"go-groove/tui"
)

func main() {
	debugFlag := flag.Bool("debug", false, "log to ~/.config/go-groove/debug.log")
	portFlag := flag.String("port", "", "MIDI output port (overrides config)")
	flag.Parse()

	if *debugFlag {
		if err := debug.Enable(); err != nil {
			fmt.Printf("debug log: %v\n", err)
		}
		defer debug.Disable()
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("config: %v\n", err)
		os.Exit(1)
	}
	port := cfg.MIDI.PortName
	if *portFlag != "" {
		port = *portFlag
	}

	sink := midisink.New(port, midisink.GetKit(cfg.MIDI.Kit))
	bridge := tui.NewBridge()
	sched := scheduler.New(sink, bridge)
	sched.SetSyncMode(parseSyncMode(cfg.UI.SyncMode))

	pattern := demoPattern()
	if cfg.UI.LastTempo > 0 {
		pattern.Tempo = cfg.UI.LastTempo
	}
	pattern.Metronome = cfg.Metronome
	sched.UpdatePattern(pattern.Clone())

	m := tui.NewModel(sched, bridge, theme.New(), pattern)
	p := tea.NewProgram(m, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	cfg.UI.LastTempo = sched.Pattern().Tempo
	cfg.Save()
}

func parseSyncMode(s string) scheduler.SyncMode {
	switch s {
	case "middle":
		return scheduler.SyncMiddle
	case "end":
		return scheduler.SyncEnd
	}
	return scheduler.SyncStart
}

// demoPattern is a basic rock beat: kick on 1 and 3, snare on 2 and
// 4, eighth-note hats.
func demoPattern() *groove.Pattern {
	p := groove.NewPattern(groove.TimeSignature{Beats: 4, NoteValue: 4})
	m := p.Measures[0]
	for _, pos := range []int{0, 8} {
		m.Notes[groove.VoiceKick][pos] = true
	}
	for _, pos := range []int{4, 12} {
		m.Notes[groove.VoiceSnare][pos] = true
	}
	for pos := 0; pos < 16; pos += 2 {
		m.Notes[groove.VoiceHiHat][pos] = true
	}
	return p
}
