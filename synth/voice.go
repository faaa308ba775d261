package synth

import (
	"math"
	"sync/atomic"
)

// VoiceID identifies one trigger. Ids are monotonic and never reused, so a
// stale id held after its seat was stolen simply stops matching.
type VoiceID uint32

// Voice is one seat in the fixed polyphony pool.
//
// The id and active flag are atomics so parameter setters can locate a voice
// without taking the engine mutex; everything else is only touched while the
// engine mutex is held or from the audio thread.
type Voice struct {
	waveform   Waveform
	phase      float32
	sampleTime float32
	envelope   AdsrEnvelope
	env        EnvelopeState
	volume     float32
	seq        uint64
	noise      noiseState

	frequency AtomicF32
	amplitude AtomicF32
	id        atomic.Uint32
	active    atomic.Bool
}

// Active reports whether the voice currently produces audio.
func (v *Voice) Active() bool {
	return v.active.Load()
}

// ID returns the id of the trigger occupying this seat.
func (v *Voice) ID() VoiceID {
	return VoiceID(v.id.Load())
}

func (v *Voice) trigger(waveform Waveform, frequency float32, envelope AdsrEnvelope, volume float32, id VoiceID, seq uint64) {
	v.waveform = waveform
	v.envelope = envelope
	v.env = NewEnvelopeState()
	v.phase = 0
	v.sampleTime = 0
	v.volume = clampf(volume, 0, 1)
	v.seq = seq
	v.noise.seed(uint32(id)*2654435761 + 12345)
	v.frequency.Store(frequency)
	v.amplitude.Store(1)
	v.id.Store(uint32(id))
	v.active.Store(true)
}

func (v *Voice) reset() {
	v.active.Store(false)
	v.env = NewEnvelopeState()
	v.phase = 0
	v.sampleTime = 0
	v.volume = 1
	v.amplitude.Store(1)
}

func (v *Voice) release() {
	v.env.Release()
}

// processSample renders one mono frame and advances phase, envelope, and
// sample time by one sample period. Allocation-free.
func (v *Voice) processSample(sampleRate float32) float32 {
	if !v.active.Load() {
		return 0
	}

	dt := 1 / sampleRate
	envLevel := v.env.Update(&v.envelope, dt)
	if v.env.Finished() {
		v.active.Store(false)
		return 0
	}

	frequency := v.frequency.Load()

	var raw float32
	switch v.waveform.Kind {
	case KindNoise:
		raw = v.noise.next()
	case KindSample:
		if v.waveform.Sample != nil {
			raw = v.waveform.Sample.SampleAtTime(v.sampleTime, frequency)
		}
	case KindDrumSample:
		if v.waveform.Sample != nil {
			raw = v.waveform.Sample.NaturalSampleAtTime(v.sampleTime)
		}
	default:
		raw = rawSample(v.waveform.Kind, v.waveform.Duty, v.phase)
	}

	v.phase += twoPi * frequency / sampleRate
	if v.phase >= twoPi || v.phase < 0 {
		v.phase = float32(math.Mod(float64(v.phase), twoPi))
		if v.phase < 0 {
			v.phase += twoPi
		}
	}
	v.sampleTime += dt

	return raw * v.amplitude.Load() * envLevel * v.volume
}
