package midisink

import "go-groove/groove"

// Kit maps voice names to MIDI notes.
type Kit struct {
	Name  string
	Notes map[groove.Voice]uint8
}

// DefaultKit is the kit used when the config names none.
const DefaultKit = "gm"

// Kits contains the available voice mappings. The click voices ride
// along in every kit so the metronome works everywhere.
var Kits = map[string]Kit{
	"gm": {
		Name: "General MIDI",
		Notes: map[groove.Voice]uint8{
			groove.VoiceKick:        36,
			groove.VoiceSnare:       38,
			groove.VoiceHiHat:       42,
			groove.VoiceOpenHat:     46,
			groove.VoiceRide:        51,
			groove.VoiceCrash:       49,
			groove.VoiceTomHigh:     48,
			groove.VoiceTomMid:      45,
			groove.VoiceFloorTom:    41,
			groove.VoiceCowbell:     56,
			groove.VoiceClick:       37, // sidestick
			groove.VoiceClickAccent: 76, // high woodblock
		},
	},
	"rd8": {
		Name: "Behringer RD-8",
		Notes: map[groove.Voice]uint8{
			groove.VoiceKick:        36,
			groove.VoiceSnare:       40, // RD-8 uses 40, not 38
			groove.VoiceHiHat:       42,
			groove.VoiceOpenHat:     46,
			groove.VoiceRide:        51,
			groove.VoiceCrash:       49,
			groove.VoiceTomHigh:     50,
			groove.VoiceTomMid:      48,
			groove.VoiceFloorTom:    45,
			groove.VoiceCowbell:     56,
			groove.VoiceClick:       37,
			groove.VoiceClickAccent: 75,
		},
	},
}

// GetKit returns the named kit, falling back to the default.
func GetKit(name string) Kit {
	if k, ok := Kits[name]; ok {
		return k
	}
	return Kits[DefaultKit]
}
