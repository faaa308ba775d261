package synth

// WaveKind discriminates the waveform variants.
type WaveKind int

const (
	KindSine WaveKind = iota
	KindSquare
	KindSawtooth
	KindTriangle
	KindPulse
	KindNoise
	KindSample
	KindDrumSample
)

// Waveform selects the oscillator (or sample source) for a voice. It is a
// small value type so voice assignment never allocates.
type Waveform struct {
	Kind WaveKind

	// Duty is the high fraction of a pulse cycle. Only meaningful for KindPulse.
	Duty float32

	// Sample backs KindSample and KindDrumSample. Shared and immutable.
	Sample *SampleData
}

// Phase-driven waveforms.
var (
	Sine     = Waveform{Kind: KindSine}
	Square   = Waveform{Kind: KindSquare}
	Sawtooth = Waveform{Kind: KindSawtooth}
	Triangle = Waveform{Kind: KindTriangle}
	Noise    = Waveform{Kind: KindNoise}
)

// Pulse returns a square wave with an adjustable duty cycle in [0,1].
func Pulse(duty float32) Waveform {
	return Waveform{Kind: KindPulse, Duty: clampf(duty, 0, 1)}
}

// SampleWave plays d pitch-shifted around its base frequency.
func SampleWave(d *SampleData) Waveform {
	return Waveform{Kind: KindSample, Sample: d}
}

// DrumSampleWave plays d at natural speed regardless of the trigger frequency.
func DrumSampleWave(d *SampleData) Waveform {
	return Waveform{Kind: KindDrumSample, Sample: d}
}
