package metronome

import (
	"fmt"

	"github.com/cwbudde/algo-synth/synth"
)

// Click is a complete sound recipe for one metronome hit.
type Click struct {
	Name      string
	Waveform  synth.Waveform
	Frequency float32
	Envelope  synth.AdsrEnvelope
}

// Synthetic click presets.
func WoodBlock() Click {
	return Click{
		Name:      "woodblock",
		Waveform:  synth.Noise,
		Frequency: 800,
		Envelope:  synth.AdsrEnvelope{AttackSecs: 0.001, DecaySecs: 0.05, SustainLevel: 0, ReleaseSecs: 0.02},
	}
}

func DigitalBeep() Click {
	return Click{
		Name:      "beep",
		Waveform:  synth.Sine,
		Frequency: 1000,
		Envelope:  synth.AdsrEnvelope{AttackSecs: 0.001, DecaySecs: 0.08, SustainLevel: 0, ReleaseSecs: 0.05},
	}
}

func Cowbell() Click {
	return Click{
		Name:      "cowbell",
		Waveform:  synth.Square,
		Frequency: 800,
		Envelope:  synth.AdsrEnvelope{AttackSecs: 0.001, DecaySecs: 0.15, SustainLevel: 0, ReleaseSecs: 0.1},
	}
}

func ElectroClick() Click {
	return Click{
		Name:      "electro",
		Waveform:  synth.Pulse(0.25),
		Frequency: 1200,
		Envelope:  synth.AdsrEnvelope{AttackSecs: 0.001, DecaySecs: 0.04, SustainLevel: 0, ReleaseSecs: 0.03},
	}
}

func RimShot() Click {
	return Click{
		Name:      "rimshot",
		Waveform:  synth.Pulse(0.1),
		Frequency: 400,
		Envelope:  synth.AdsrEnvelope{AttackSecs: 0.001, DecaySecs: 0.03, SustainLevel: 0, ReleaseSecs: 0.02},
	}
}

func Stick() Click {
	return Click{
		Name:      "stick",
		Waveform:  synth.Triangle,
		Frequency: 2000,
		Envelope:  synth.AdsrEnvelope{AttackSecs: 0.001, DecaySecs: 0.02, SustainLevel: 0, ReleaseSecs: 0.01},
	}
}

// SampleClick wraps a drum sample as a click. The envelope opens instantly
// and never sustains so the natural decay of the recording carries through;
// decaySecs should cover the audible length of the sample.
func SampleClick(name string, data *synth.SampleData, decaySecs float32) Click {
	return Click{
		Name:      name,
		Waveform:  synth.DrumSampleWave(data),
		Frequency: data.BaseFrequency(),
		Envelope:  synth.AdsrEnvelope{AttackSecs: 0.001, DecaySecs: decaySecs, SustainLevel: 0, ReleaseSecs: 0.001},
	}
}

// ClickByName resolves a synthetic preset by its name.
func ClickByName(name string) (Click, error) {
	for _, c := range []Click{WoodBlock(), DigitalBeep(), Cowbell(), ElectroClick(), RimShot(), Stick()} {
		if c.Name == name {
			return c, nil
		}
	}
	return Click{}, fmt.Errorf("unknown click %q", name)
}
