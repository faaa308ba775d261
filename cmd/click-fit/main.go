package main

import (
	"flag"
	"fmt"
	"math"
	"math/rand"
	"os"
	"sync"

	"github.com/cwbudde/mayfly"

	"github.com/cwbudde/algo-synth/analysis"
	"github.com/cwbudde/algo-synth/internal/wavio"
	"github.com/cwbudde/algo-synth/synth"
)

// Fits the parameters of a synthetic click (frequency, decay, release, duty)
// to a reference drum recording, using the distance metrics as the objective.
// Useful for approximating a sampled click with a zero-asset synthetic one.

type knobDef struct {
	name string
	lo   float64
	hi   float64
	log  bool
}

var knobs = []knobDef{
	{name: "frequency", lo: 50, hi: 8000, log: true},
	{name: "decay", lo: 0.01, hi: 2.0, log: true},
	{name: "release", lo: 0.005, hi: 0.5, log: true},
	{name: "duty", lo: 0.05, hi: 0.95, log: false},
}

func denormalize(pos []float64) []float64 {
	vals := make([]float64, len(knobs))
	for i, d := range knobs {
		x := math.Min(math.Max(pos[i], 0), 1)
		if d.log {
			vals[i] = d.lo * math.Exp(x*math.Log(d.hi/d.lo))
		} else {
			vals[i] = d.lo + x*(d.hi-d.lo)
		}
	}
	return vals
}

func renderCandidate(waveName string, vals []float64, durationSecs float64, sampleRate int) ([]float64, error) {
	frequency, decay, release, duty := vals[0], vals[1], vals[2], vals[3]

	var w synth.Waveform
	switch waveName {
	case "sine":
		w = synth.Sine
	case "square":
		w = synth.Square
	case "sawtooth":
		w = synth.Sawtooth
	case "triangle":
		w = synth.Triangle
	case "pulse":
		w = synth.Pulse(float32(duty))
	case "noise":
		w = synth.Noise
	default:
		return nil, fmt.Errorf("unknown waveform %q", waveName)
	}

	samples := synth.GenerateWave(w, float32(frequency), float32(durationSecs), sampleRate)
	env := synth.AdsrEnvelope{
		AttackSecs:   0.001,
		DecaySecs:    float32(decay),
		SustainLevel: 0,
		ReleaseSecs:  float32(release),
	}
	synth.ApplyEnvelope(samples, &env, sampleRate)

	out := make([]float64, len(samples))
	for i, s := range samples {
		out[i] = float64(s)
	}
	return out, nil
}

func main() {
	refPath := flag.String("reference", "", "Reference WAV file to match (required)")
	waveName := flag.String("waveform", "noise", "Candidate waveform: sine|square|sawtooth|triangle|pulse|noise")
	sampleRate := flag.Int("sample-rate", 44100, "Comparison sample rate in Hz")
	variant := flag.String("mayfly-variant", "desma", "Mayfly variant: ma|desma|olce|eobbma|gsasma|mpma|aoblmoa")
	pop := flag.Int("mayfly-pop", 10, "Male and female population size")
	iters := flag.Int("iterations", 40, "Mayfly iterations")
	seed := flag.Int64("seed", 1, "Random seed")
	outPath := flag.String("output", "", "Optional WAV path for the best candidate")
	flag.Parse()

	if *refPath == "" {
		fmt.Fprintln(os.Stderr, "Error: -reference is required")
		os.Exit(1)
	}

	reference, refRate, err := wavio.ReadWAVMono(*refPath)
	if err != nil {
		fatalf("reading reference: %v", err)
	}
	reference, err = wavio.ResampleIfNeeded(reference, refRate, *sampleRate)
	if err != nil {
		fatalf("resampling reference: %v", err)
	}
	durationSecs := float64(len(reference)) / float64(*sampleRate)
	if maxFrames := 4 * (*sampleRate); len(reference) > maxFrames {
		reference = reference[:maxFrames]
		durationSecs = 4
	}

	fmt.Printf("Fitting %s click to %s (%.2fs at %d Hz)...\n", *waveName, *refPath, durationSecs, *sampleRate)

	var mu sync.Mutex
	best := make([]float64, len(knobs))
	bestScore := math.Inf(1)
	var bestMetrics analysis.Metrics
	evals := 0

	cfg, err := newMayflyConfig(*variant, *pop, len(knobs), *iters)
	if err != nil {
		fatalf("%v", err)
	}
	cfg.Rand = rand.New(rand.NewSource(*seed))
	cfg.ObjectiveFunc = func(pos []float64) float64 {
		vals := denormalize(pos)
		candidate, err := renderCandidate(*waveName, vals, durationSecs, *sampleRate)
		if err != nil {
			return math.Inf(1)
		}
		m := analysis.Compare(reference, candidate, *sampleRate)

		mu.Lock()
		evals++
		if m.Score < bestScore {
			bestScore = m.Score
			bestMetrics = m
			copy(best, vals)
			fmt.Printf("eval %4d  score %.4f  freq %.1fHz decay %.3fs release %.3fs\n",
				evals, m.Score, vals[0], vals[1], vals[2])
		}
		mu.Unlock()
		return m.Score
	}

	if _, err := runMayfly(cfg); err != nil {
		fatalf("%v", err)
	}

	fmt.Printf("\nBest candidate (score %.4f, similarity %.3f):\n", bestScore, bestMetrics.Similarity)
	for i, d := range knobs {
		fmt.Printf("  %-10s %.4f\n", d.name, best[i])
	}

	if *outPath != "" {
		candidate, err := renderCandidate(*waveName, best, durationSecs, *sampleRate)
		if err != nil {
			fatalf("%v", err)
		}
		out := make([]float32, len(candidate))
		for i, v := range candidate {
			out[i] = float32(v)
		}
		if err := wavio.WriteMonoWAV(*outPath, out, *sampleRate); err != nil {
			fatalf("writing %s: %v", *outPath, err)
		}
		fmt.Printf("Wrote best candidate to %s\n", *outPath)
	}
}

func newMayflyConfig(variant string, pop int, dims int, iters int) (*mayfly.Config, error) {
	var cfg *mayfly.Config
	switch variant {
	case "ma":
		cfg = mayfly.NewDefaultConfig()
	case "desma":
		cfg = mayfly.NewDESMAConfig()
	case "olce":
		cfg = mayfly.NewOLCEConfig()
	case "eobbma":
		cfg = mayfly.NewEOBBMAConfig()
	case "gsasma":
		cfg = mayfly.NewGSASMAConfig()
	case "mpma":
		cfg = mayfly.NewMPMAConfig()
	case "aoblmoa":
		cfg = mayfly.NewAOBLMOAConfig()
	default:
		return nil, fmt.Errorf("unsupported variant %q", variant)
	}
	cfg.ProblemSize = dims
	cfg.LowerBound = 0.0
	cfg.UpperBound = 1.0
	cfg.MaxIterations = iters
	cfg.NPop = pop
	cfg.NPopF = pop
	cfg.NC = 2 * pop
	cfg.NM = max(1, int(math.Round(0.05*float64(pop))))
	return cfg, nil
}

func runMayfly(cfg *mayfly.Config) (_ *mayfly.Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("mayfly panic: %v", r)
		}
	}()
	return mayfly.Optimize(cfg)
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
