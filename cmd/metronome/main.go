package main

import (
	"encoding/binary"
	"flag"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/ebitengine/oto/v3"

	"github.com/cwbudde/algo-synth/metronome"
	"github.com/cwbudde/algo-synth/preset"
	"github.com/cwbudde/algo-synth/sample"
	"github.com/cwbudde/algo-synth/synth"
	"github.com/cwbudde/algo-synth/timing"
)

// engineStream adapts the engine's stereo buffer fill to oto's pull-based
// float32 little-endian byte stream.
type engineStream struct {
	engine *synth.Engine
	buf    []float32
}

func (s *engineStream) Read(p []byte) (int, error) {
	frames := len(p) / 8 // 2 channels x 4 bytes
	samples := frames * 2
	if cap(s.buf) < samples {
		s.buf = make([]float32, samples)
	}
	buf := s.buf[:samples]
	if err := s.engine.ProcessStereoBuffer(buf); err != nil {
		return 0, err
	}
	for i, v := range buf {
		binary.LittleEndian.PutUint32(p[i*4:], math.Float32bits(v))
	}
	return samples * 4, nil
}

func main() {
	tempo := flag.Float64("tempo", 120.0, "Tempo in beats per minute")
	beats := flag.Int("beats", 4, "Beats per measure")
	unit := flag.Int("unit", 4, "Beat unit (1, 2, 4, 8 or 16)")
	clickName := flag.String("click", "woodblock", "Weak beat click")
	accentName := flag.String("accent-click", "cowbell", "Downbeat click")
	accent := flag.Bool("accent", true, "Accent the first beat of each measure")
	kickPath := flag.String("accent-sample", "", "WAV drum sample for the downbeat (overrides -accent-click)")
	duration := flag.Float64("duration", 0.0, "Stop after this many seconds (0 = run until interrupted)")
	presetPath := flag.String("preset", "", "Preset JSON file with defaults")
	flag.Parse()

	cfg := preset.Default()
	if *presetPath != "" {
		loaded, err := preset.LoadJSON(*presetPath)
		if err != nil {
			fatalf("loading preset: %v", err)
		}
		cfg = loaded
	}

	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "tempo":
			cfg.Metronome.TempoBPM = *tempo
		case "beats":
			cfg.Metronome.BeatsPerMeasure = *beats
		case "unit":
			cfg.Metronome.BeatUnit = *unit
		case "click":
			cfg.Metronome.Click = *clickName
		case "accent-click":
			cfg.Metronome.AccentClick = *accentName
		case "accent":
			cfg.Metronome.AccentFirstBeat = *accent
		}
	})

	sig, err := timing.NewTimeSignature(cfg.Metronome.BeatsPerMeasure, cfg.Metronome.BeatUnit)
	if err != nil {
		fatalf("%v", err)
	}

	engine := synth.NewEngine(float32(cfg.Audio.SampleRate))
	engine.SetMasterVolume(cfg.Audio.MasterVolume)

	m := metronome.New(engine, sig)
	m.SetAccentFirstBeat(cfg.Metronome.AccentFirstBeat)
	m.SetVolumes(cfg.Metronome.Volume, cfg.Metronome.Volume)

	click, err := metronome.ClickByName(cfg.Metronome.Click)
	if err != nil {
		fatalf("%v", err)
	}
	m.SetClick(click)

	if *kickPath != "" {
		data, err := sample.LoadWAV(*kickPath, 0)
		if err != nil {
			fatalf("loading accent sample: %v", err)
		}
		m.SetAccentClick(metronome.SampleClick("accent", data, 1.0))
	} else {
		accentClick, err := metronome.ClickByName(cfg.Metronome.AccentClick)
		if err != nil {
			fatalf("%v", err)
		}
		m.SetAccentClick(accentClick)
	}

	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   cfg.Audio.SampleRate,
		ChannelCount: 2,
		Format:       oto.FormatFloat32LE,
	})
	if err != nil {
		fatalf("audio device: %v", err)
	}
	<-ready

	player := ctx.NewPlayer(&engineStream{engine: engine})
	player.Play()
	defer player.Close()

	// Observer prints the running beat display.
	m.Tracker().Attach(timing.ObserverFunc(func(ev timing.BeatEvent) {
		marker := " "
		if ev.Strong {
			marker = ">"
		}
		fmt.Printf("%s beat %d/%d  measure %d  %.0f BPM\n",
			marker, ev.Beat, ev.TimeSignature.BeatsPerMeasure, ev.Measure+1, ev.TempoBPM)
	}))

	start := time.Now()
	m.SetTempo(start, cfg.Metronome.TempoBPM)
	m.Start(start)
	fmt.Printf("Metronome: %.0f BPM, %s (ctrl-c to stop)\n", cfg.Metronome.TempoBPM, sig.Display())

	for {
		now := time.Now()
		if *duration > 0 && now.Sub(start).Seconds() >= *duration {
			break
		}
		m.Tick(now)
		time.Sleep(2 * time.Millisecond)
	}

	m.Stop()
	engine.ReleaseAllNotes()
	time.Sleep(200 * time.Millisecond)
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
