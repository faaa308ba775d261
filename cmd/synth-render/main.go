package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/cwbudde/algo-synth/analysis"
	"github.com/cwbudde/algo-synth/internal/wavio"
	"github.com/cwbudde/algo-synth/metronome"
	"github.com/cwbudde/algo-synth/sample"
	"github.com/cwbudde/algo-synth/synth"
)

func main() {
	waveName := flag.String("waveform", "sine", "Waveform: sine|square|sawtooth|triangle|pulse|noise")
	duty := flag.Float64("duty", 0.5, "Pulse duty cycle in [0,1] (pulse waveform only)")
	freq := flag.Float64("freq", 440.0, "Frequency in Hz")
	chord := flag.String("chord", "", "Comma-separated frequencies for a chord (overrides -freq)")
	click := flag.String("click", "", "Render a named metronome click instead (woodblock|beep|cowbell|electro|rimshot|stick)")
	samplePath := flag.String("sample", "", "WAV sample to play pitched instead of an oscillator")
	baseFreq := flag.Float64("base-freq", 0, "Base frequency of -sample (0 = 440)")
	duration := flag.Float64("duration", 1.0, "Render duration in seconds")
	attack := flag.Float64("attack", 0.01, "Envelope attack in seconds")
	decay := flag.Float64("decay", 0.1, "Envelope decay in seconds")
	sustain := flag.Float64("sustain", 0.7, "Envelope sustain level in [0,1]")
	release := flag.Float64("release", 0.2, "Envelope release in seconds")
	holdFor := flag.Float64("hold", 0.0, "Release notes after this many seconds (0 = duration minus release)")
	sampleRate := flag.Int("sample-rate", 44100, "Render sample rate in Hz")
	masterVolume := flag.Float64("master-volume", 0.8, "Master volume in [0,1]")
	output := flag.String("output", "output.wav", "Output WAV file path")
	report := flag.Bool("report", false, "Print the dominant frequency of the rendered audio")
	flag.Parse()

	envelope := synth.AdsrEnvelope{
		AttackSecs:   float32(*attack),
		DecaySecs:    float32(*decay),
		SustainLevel: float32(*sustain),
		ReleaseSecs:  float32(*release),
	}

	engine := synth.NewEngine(float32(*sampleRate))
	engine.SetMasterVolume(float32(*masterVolume))

	var ids []synth.VoiceID
	switch {
	case *click != "":
		c, err := metronome.ClickByName(*click)
		if err != nil {
			fatalf("%v", err)
		}
		ids = append(ids, engine.TriggerNote(c.Waveform, c.Frequency, c.Envelope))
	case *samplePath != "":
		data, err := sample.LoadWAV(*samplePath, float32(*baseFreq))
		if err != nil {
			fatalf("loading sample: %v", err)
		}
		ids = append(ids, engine.TriggerNote(synth.SampleWave(data), float32(*freq), envelope))
	case *chord != "":
		notes, err := parseChord(*chord, *waveName, float32(*duty))
		if err != nil {
			fatalf("%v", err)
		}
		ids = engine.TriggerChord(notes, envelope)
	default:
		w, err := parseWaveform(*waveName, float32(*duty))
		if err != nil {
			fatalf("%v", err)
		}
		ids = append(ids, engine.TriggerNote(w, float32(*freq), envelope))
	}

	totalFrames := int(*duration * float64(*sampleRate))
	if totalFrames < 1 {
		totalFrames = 1
	}
	releaseAt := totalFrames - int(*release*float64(*sampleRate))
	if *holdFor > 0 {
		releaseAt = int(*holdFor * float64(*sampleRate))
	}
	if releaseAt < 0 {
		releaseAt = 0
	}

	const blockSize = 512
	out := make([]float32, 0, totalFrames)
	block := make([]float32, blockSize)
	released := false
	for rendered := 0; rendered < totalFrames; {
		n := min(blockSize, totalFrames-rendered)
		if !released && rendered >= releaseAt {
			for _, id := range ids {
				engine.ReleaseNote(id)
			}
			released = true
		}
		engine.ProcessBuffer(block[:n])
		out = append(out, block[:n]...)
		rendered += n
	}

	if err := wavio.WriteMonoWAV(*output, out, *sampleRate); err != nil {
		fatalf("writing %s: %v", *output, err)
	}
	fmt.Printf("Wrote %d frames (%.2fs) to %s\n", totalFrames, *duration, *output)

	if *report {
		mono := make([]float64, len(out))
		for i, s := range out {
			mono[i] = float64(s)
		}
		f, err := analysis.DominantFrequency(mono, *sampleRate)
		if err != nil {
			fatalf("analysis: %v", err)
		}
		fmt.Printf("Dominant frequency: %.2f Hz\n", f)
	}
}

func parseWaveform(name string, duty float32) (synth.Waveform, error) {
	switch name {
	case "sine":
		return synth.Sine, nil
	case "square":
		return synth.Square, nil
	case "sawtooth":
		return synth.Sawtooth, nil
	case "triangle":
		return synth.Triangle, nil
	case "pulse":
		return synth.Pulse(duty), nil
	case "noise":
		return synth.Noise, nil
	}
	return synth.Waveform{}, fmt.Errorf("unknown waveform %q", name)
}

func parseChord(spec string, waveName string, duty float32) ([]synth.ChordNote, error) {
	w, err := parseWaveform(waveName, duty)
	if err != nil {
		return nil, err
	}
	parts := strings.Split(spec, ",")
	notes := make([]synth.ChordNote, 0, len(parts))
	for _, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 32)
		if err != nil {
			return nil, fmt.Errorf("invalid chord frequency %q: %w", p, err)
		}
		notes = append(notes, synth.ChordNote{Waveform: w, Frequency: float32(f)})
	}
	return notes, nil
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
