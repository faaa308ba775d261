package synth

import (
	"errors"
	"sync"
)

// MaxVoices is the fixed polyphony of the engine.
const MaxVoices = 32

// ErrStereoBufferOdd is returned by ProcessStereoBuffer for buffers whose
// length is not a multiple of two. The buffer is left untouched.
var ErrStereoBufferOdd = errors.New("stereo buffer length must be even")

// ChordNote pairs a waveform with a frequency for chord triggering.
type ChordNote struct {
	Waveform  Waveform
	Frequency float32
}

// Engine is the real-time polyphonic synthesis engine.
//
// The voice pool is protected by a single mutex held for the duration of one
// buffer fill on the audio thread and briefly by trigger/release on the
// control thread. Scalar parameters (master volume, per-voice frequency and
// amplitude) bypass the mutex through atomic cells.
type Engine struct {
	mu          sync.Mutex
	voices      [MaxVoices]Voice
	master      AtomicF32
	sampleRate  float32
	nextVoiceID uint32
	nextSeq     uint64
}

// NewEngine creates an engine rendering at sampleRate Hz.
func NewEngine(sampleRate float32) *Engine {
	e := &Engine{sampleRate: sampleRate}
	e.master.Store(1)
	return e
}

// SetSampleRate renegotiates the render rate (device change).
func (e *Engine) SetSampleRate(sampleRate float32) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if sampleRate > 0 {
		e.sampleRate = sampleRate
	}
}

// SampleRate returns the current render rate.
func (e *Engine) SampleRate() float32 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sampleRate
}

// SetMasterVolume stores the master gain, clamped to [0,1].
func (e *Engine) SetMasterVolume(volume float32) {
	e.master.Store(clampf(volume, 0, 1))
}

// MasterVolume returns the current master gain.
func (e *Engine) MasterVolume() float32 {
	return e.master.Load()
}

// TriggerNote starts a note on a free seat, stealing the oldest voice when
// the pool is full. It always returns a fresh id.
func (e *Engine) TriggerNote(waveform Waveform, frequency float32, envelope AdsrEnvelope) VoiceID {
	return e.TriggerNoteWithVolume(waveform, frequency, envelope, 1)
}

// TriggerNoteWithVolume is TriggerNote with a per-trigger volume scale.
func (e *Engine) TriggerNoteWithVolume(waveform Waveform, frequency float32, envelope AdsrEnvelope, volume float32) VoiceID {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.triggerLocked(waveform, frequency, envelope, volume)
}

// TriggerChord triggers all notes under one critical section and returns
// their ids in order.
func (e *Engine) TriggerChord(notes []ChordNote, envelope AdsrEnvelope) []VoiceID {
	ids := make([]VoiceID, 0, len(notes))
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, n := range notes {
		ids = append(ids, e.triggerLocked(n.Waveform, n.Frequency, envelope, 1))
	}
	return ids
}

func (e *Engine) triggerLocked(waveform Waveform, frequency float32, envelope AdsrEnvelope, volume float32) VoiceID {
	seat := -1
	for i := range e.voices {
		if !e.voices[i].active.Load() {
			seat = i
			break
		}
	}
	if seat < 0 {
		// Pool full: steal the seat with the oldest activation. Scanning in
		// pool order with a strict compare breaks ties toward lower indices.
		oldest := e.voices[0].seq
		seat = 0
		for i := 1; i < MaxVoices; i++ {
			if e.voices[i].seq < oldest {
				oldest = e.voices[i].seq
				seat = i
			}
		}
	}

	e.nextVoiceID++
	e.nextSeq++
	id := VoiceID(e.nextVoiceID)
	e.voices[seat].trigger(waveform, frequency, envelope, volume, id, e.nextSeq)
	return id
}

// ReleaseNote moves the identified voice into its release phase. A stale id
// is a silent no-op; releasing twice leaves the envelope in release.
func (e *Engine) ReleaseNote(id VoiceID) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i := range e.voices {
		v := &e.voices[i]
		if v.id.Load() == uint32(id) && v.active.Load() {
			v.release()
			return
		}
	}
}

// ReleaseAllNotes releases every active voice.
func (e *Engine) ReleaseAllNotes() {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i := range e.voices {
		if e.voices[i].active.Load() {
			e.voices[i].release()
		}
	}
}

// StopAllNotes frees every voice immediately without running release.
func (e *Engine) StopAllNotes() {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i := range e.voices {
		e.voices[i].reset()
	}
}

// SetVoiceFrequency retunes the identified voice. Lock-free; a stale id is a
// silent no-op.
func (e *Engine) SetVoiceFrequency(id VoiceID, frequency float32) {
	for i := range e.voices {
		v := &e.voices[i]
		if v.id.Load() == uint32(id) && v.active.Load() {
			v.frequency.Store(frequency)
			return
		}
	}
}

// SetVoiceAmplitude rescales the identified voice, clamped to [0,1].
// Lock-free; a stale id is a silent no-op.
func (e *Engine) SetVoiceAmplitude(id VoiceID, amplitude float32) {
	for i := range e.voices {
		v := &e.voices[i]
		if v.id.Load() == uint32(id) && v.active.Load() {
			v.amplitude.Store(clampf(amplitude, 0, 1))
			return
		}
	}
}

// ActiveVoiceCount returns the number of sounding voices. Advisory: the
// reader may lag concurrent triggers and releases.
func (e *Engine) ActiveVoiceCount() int {
	count := 0
	for i := range e.voices {
		if e.voices[i].active.Load() {
			count++
		}
	}
	return count
}

// ProcessBuffer fills out with the next len(out) mono frames. No heap
// allocation occurs on this path; every frame is clamped to [-1,1].
func (e *Engine) ProcessBuffer(out []float32) {
	e.mu.Lock()
	defer e.mu.Unlock()

	master := e.master.Load()
	for i := range out {
		out[i] = clampf(e.mixFrame()*master, -1, 1)
	}
}

// ProcessStereoBuffer fills out with interleaved L,R frames, duplicating the
// mono mix to both channels. Fails without touching the buffer when the
// length is odd.
func (e *Engine) ProcessStereoBuffer(out []float32) error {
	if len(out)%2 != 0 {
		return ErrStereoBufferOdd
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	master := e.master.Load()
	for i := 0; i < len(out); i += 2 {
		frame := clampf(e.mixFrame()*master, -1, 1)
		out[i] = frame
		out[i+1] = frame
	}
	return nil
}

func (e *Engine) mixFrame() float32 {
	var sum float32
	for i := range e.voices {
		if e.voices[i].active.Load() {
			sum += e.voices[i].processSample(e.sampleRate)
		}
	}
	return sum
}
