package synth

import (
	"errors"
	"fmt"
)

// DefaultBaseFrequency is assumed for samples whose metadata does not declare
// a base pitch (A4).
const DefaultBaseFrequency = 440.0

// ErrEmptySample is returned when constructing sample data with no frames.
var ErrEmptySample = errors.New("sample data has no frames")

// SampleMetadata carries descriptive information about a loaded sample.
type SampleMetadata struct {
	Filename      string
	DurationSecs  float32
	Channels      int
	BitsPerSample int
}

// SampleData is an immutable mono audio buffer shared between voices. It is
// never mutated after construction; ownership is shared by whatever holds a
// pointer to it (voices, library caches).
type SampleData struct {
	samples       []float32
	sampleRate    int
	baseFrequency float32
	metadata      SampleMetadata
}

// NewSampleData validates and wraps a mono buffer. baseFrequency <= 0 selects
// DefaultBaseFrequency. The caller must not retain and mutate samples.
func NewSampleData(samples []float32, sampleRate int, baseFrequency float32, meta SampleMetadata) (*SampleData, error) {
	if len(samples) == 0 {
		return nil, ErrEmptySample
	}
	if sampleRate <= 0 || sampleRate > 192000 {
		return nil, fmt.Errorf("sample rate %d outside [1, 192000]", sampleRate)
	}
	if baseFrequency <= 0 {
		baseFrequency = DefaultBaseFrequency
	}
	if baseFrequency > 20000 {
		return nil, fmt.Errorf("base frequency %g above 20 kHz", baseFrequency)
	}
	meta.DurationSecs = float32(len(samples)) / float32(sampleRate)
	return &SampleData{
		samples:       samples,
		sampleRate:    sampleRate,
		baseFrequency: baseFrequency,
		metadata:      meta,
	}, nil
}

// Len returns the number of frames.
func (d *SampleData) Len() int { return len(d.samples) }

// SampleRate returns the source sample rate in Hz.
func (d *SampleData) SampleRate() int { return d.sampleRate }

// BaseFrequency returns the nominal pitch the buffer was recorded at.
func (d *SampleData) BaseFrequency() float32 { return d.baseFrequency }

// Metadata returns the descriptive metadata.
func (d *SampleData) Metadata() SampleMetadata { return d.metadata }

// At returns frame i, or 0 outside the buffer.
func (d *SampleData) At(i int) float32 {
	if i < 0 || i >= len(d.samples) {
		return 0
	}
	return d.samples[i]
}

// SampleAtTime resamples the buffer for playback at targetFrequency. The
// pitch ratio is target over base; source position advances by ratio relative
// to natural speed. Past the end the sample is silent (no looping).
func (d *SampleData) SampleAtTime(timeSecs float32, targetFrequency float32) float32 {
	ratio := targetFrequency / d.baseFrequency
	return d.interpolated(timeSecs * ratio)
}

// NaturalSampleAtTime plays the buffer at natural speed, ignoring pitch.
func (d *SampleData) NaturalSampleAtTime(timeSecs float32) float32 {
	return d.interpolated(timeSecs)
}

func (d *SampleData) interpolated(srcSecs float32) float32 {
	if srcSecs < 0 || len(d.samples) == 0 {
		return 0
	}
	pos := srcSecs * float32(d.sampleRate)
	i := int(pos)
	if i >= len(d.samples) {
		return 0
	}
	frac := pos - float32(i)
	if i+1 >= len(d.samples) {
		return d.samples[i]
	}
	lo := d.samples[i]
	hi := d.samples[i+1]
	return lo + frac*(hi-lo)
}
