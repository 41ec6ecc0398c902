// clicktest is a headless smoke test for the MIDI output path: list
// ports, or run the scheduler against a real port for a few bars.
package main

import (
	"fmt"
	"os"
	"time"

	"gitlab.com/gomidi/midi/v2"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv"

	"go-groove/groove"
	"go-groove/midisink"
	"go-groove/scheduler"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		return
	}

	switch os.Args[1] {
	case "list":
		listPorts()
	case "click":
		if len(os.Args) < 3 {
			fmt.Println("usage: clicktest click <port-name>")
			return
		}
		playClicks(os.Args[2])
	default:
		usage()
	}
}

func usage() {
	fmt.Println("MIDI smoke tests")
	fmt.Println("")
	fmt.Println("Commands:")
	fmt.Println("  list              - List all MIDI output ports")
	fmt.Println("  click <port>      - Play 4 bars of metronome on a port")
}

func listPorts() {
	fmt.Println("=== MIDI Output Ports ===")
	for i, p := range midi.GetOutPorts() {
		fmt.Printf("  %d: %s\n", i, p.String())
	}
}

func playClicks(port string) {
	sink := midisink.New(port, midisink.GetKit(midisink.DefaultKit))
	sched := scheduler.New(sink, nil)

	p := groove.NewPattern(groove.TimeSignature{Beats: 4, NoteValue: 4})
	p.Metronome.Frequency = 4
	p.Metronome.Volume = 100

	fmt.Printf("Playing 4 bars of clicks at 120 BPM on %q...\n", port)
	if err := sched.Play(p, true); err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	time.Sleep(8 * time.Second)
	sched.Stop()
	fmt.Println("Done!")
}
