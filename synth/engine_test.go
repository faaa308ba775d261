package synth

import (
	"math"
	"testing"
)

func TestTriggerReturnsUniqueMonotonicIDs(t *testing.T) {
	e := NewEngine(44100)
	env := AdsrEnvelope{AttackSecs: 0.1, DecaySecs: 0.1, SustainLevel: 0.7, ReleaseSecs: 0.3}

	seen := make(map[VoiceID]bool)
	var last VoiceID
	for i := 0; i < 100; i++ {
		id := e.TriggerNote(Sine, 440, env)
		if seen[id] {
			t.Fatalf("id %d returned twice", id)
		}
		seen[id] = true
		if id <= last {
			t.Fatalf("ids not monotonic: %d after %d", id, last)
		}
		last = id
	}
}

func TestSingleSineNoteScenario(t *testing.T) {
	e := NewEngine(44100)
	e.TriggerNote(Sine, 440, AdsrEnvelope{AttackSecs: 0.01, DecaySecs: 0, SustainLevel: 1, ReleaseSecs: 0})

	out := make([]float32, 441)
	e.ProcessBuffer(out)

	if out[0] != 0 {
		t.Fatalf("expected silence at phase 0, got %f", out[0])
	}

	want := math.Sin(2 * math.Pi * 440 * 440 / 44100)
	if math.Abs(float64(out[440])-want) > 5e-3 {
		t.Fatalf("sample 440: got=%f want=%f", out[440], want)
	}
}

func TestOutputBoundedAndFinite(t *testing.T) {
	e := NewEngine(44100)
	env := AdsrEnvelope{AttackSecs: 0, DecaySecs: 0, SustainLevel: 1, ReleaseSecs: 0.1}
	waves := []Waveform{Sine, Square, Sawtooth, Triangle, Pulse(0.2), Noise}
	for i, w := range waves {
		e.TriggerNote(w, 110*float32(i+1), env)
	}

	out := make([]float32, 4096)
	e.ProcessBuffer(out)
	for i, s := range out {
		if !isFinite(s) {
			t.Fatalf("non-finite sample at %d: %f", i, s)
		}
		if s < -1 || s > 1 {
			t.Fatalf("sample %d out of range: %f", i, s)
		}
	}
}

func TestVoiceStealingOldest(t *testing.T) {
	e := NewEngine(44100)
	env := AdsrEnvelope{AttackSecs: 1, DecaySecs: 0, SustainLevel: 1, ReleaseSecs: 1}

	first := e.TriggerNote(Sine, 440, env)
	var rest []VoiceID
	for i := 0; i < 32; i++ {
		rest = append(rest, e.TriggerNote(Sine, 440, env))
	}

	for _, id := range rest {
		if id == first {
			t.Fatalf("stolen id %d was returned again", first)
		}
	}
	if got := e.ActiveVoiceCount(); got != MaxVoices {
		t.Fatalf("active voices: got=%d want=%d", got, MaxVoices)
	}

	// The first trigger was stolen by the 33rd; its id must be stale.
	e.SetVoiceFrequency(first, 880)
	e.ReleaseNote(first)
	if got := e.ActiveVoiceCount(); got != MaxVoices {
		t.Fatalf("stale id affected the pool: got=%d want=%d", got, MaxVoices)
	}
}

func TestPoolNeverExceedsMaxVoices(t *testing.T) {
	e := NewEngine(44100)
	env := AdsrEnvelope{AttackSecs: 1, DecaySecs: 0, SustainLevel: 1, ReleaseSecs: 1}
	for i := 0; i < 200; i++ {
		e.TriggerNote(Sine, NoteToFreq(40+i%40), env)
		if got := e.ActiveVoiceCount(); got > MaxVoices {
			t.Fatalf("active voices %d exceeds pool size", got)
		}
	}
}

func TestStopAllNotesProducesExactZeros(t *testing.T) {
	e := NewEngine(44100)
	env := AdsrEnvelope{AttackSecs: 0.01, DecaySecs: 0.1, SustainLevel: 0.5, ReleaseSecs: 0.2}
	for i := 0; i < 5; i++ {
		e.TriggerNote(Square, 220*float32(i+1), env)
	}

	warm := make([]float32, 128)
	e.ProcessBuffer(warm)

	e.StopAllNotes()
	out := make([]float32, 512)
	for i := range out {
		out[i] = 42
	}
	e.ProcessBuffer(out)
	for i, s := range out {
		if s != 0 {
			t.Fatalf("non-zero sample at %d after panic stop: %f", i, s)
		}
	}

	// Idempotent.
	e.StopAllNotes()
	e.ProcessBuffer(out)
	for i, s := range out {
		if s != 0 {
			t.Fatalf("non-zero sample at %d after second stop: %f", i, s)
		}
	}
	if got := e.ActiveVoiceCount(); got != 0 {
		t.Fatalf("active voices after stop: got=%d want=0", got)
	}
}

func TestStereoFanOut(t *testing.T) {
	e := NewEngine(44100)
	e.TriggerNote(Sawtooth, 440, AdsrEnvelope{AttackSecs: 0.005, DecaySecs: 0.1, SustainLevel: 0.6, ReleaseSecs: 0.1})

	out := make([]float32, 1024)
	if err := e.ProcessStereoBuffer(out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 0; i < len(out); i += 2 {
		if out[i] != out[i+1] {
			t.Fatalf("channel mismatch at frame %d: L=%f R=%f", i/2, out[i], out[i+1])
		}
	}
}

func TestStereoBufferOddLengthRejected(t *testing.T) {
	e := NewEngine(44100)
	e.TriggerNote(Sine, 440, AdsrEnvelope{SustainLevel: 1})

	out := make([]float32, 7)
	for i := range out {
		out[i] = 42
	}
	if err := e.ProcessStereoBuffer(out); err != ErrStereoBufferOdd {
		t.Fatalf("got err=%v want=%v", err, ErrStereoBufferOdd)
	}
	for i, s := range out {
		if s != 42 {
			t.Fatalf("buffer touched at %d: %f", i, s)
		}
	}
}

func TestMasterVolumeClampRoundTrip(t *testing.T) {
	e := NewEngine(44100)
	cases := []struct {
		set  float32
		want float32
	}{
		{0.5, 0.5},
		{1.5, 1.0},
		{-0.25, 0.0},
		{1.0, 1.0},
	}
	for _, c := range cases {
		e.SetMasterVolume(c.set)
		if got := e.MasterVolume(); got != c.want {
			t.Fatalf("set %f: got=%f want=%f", c.set, got, c.want)
		}
	}
}

func TestReleaseTwiceIsNoOp(t *testing.T) {
	e := NewEngine(44100)
	id := e.TriggerNote(Sine, 440, AdsrEnvelope{AttackSecs: 0.001, DecaySecs: 0, SustainLevel: 1, ReleaseSecs: 0.5})

	buf := make([]float32, 441)
	e.ProcessBuffer(buf)

	e.ReleaseNote(id)
	e.ProcessBuffer(buf)
	if got := e.ActiveVoiceCount(); got != 1 {
		t.Fatalf("voice finished too early: active=%d", got)
	}
	e.ReleaseNote(id)
	e.ProcessBuffer(buf)
	if got := e.ActiveVoiceCount(); got != 1 {
		t.Fatalf("second release changed voice state: active=%d", got)
	}
}

func TestTriggerReleaseReachesFinished(t *testing.T) {
	e := NewEngine(44100)
	id := e.TriggerNote(Sine, 440, AdsrEnvelope{AttackSecs: 0.01, DecaySecs: 0, SustainLevel: 1, ReleaseSecs: 0.01})
	e.ReleaseNote(id)

	// attack + release plus one sample of slack.
	frames := int(0.02*44100) + 2
	buf := make([]float32, frames)
	e.ProcessBuffer(buf)
	if got := e.ActiveVoiceCount(); got != 0 {
		t.Fatalf("voice still active after attack+release: %d", got)
	}
}

func TestReleaseAllNotes(t *testing.T) {
	e := NewEngine(44100)
	env := AdsrEnvelope{AttackSecs: 0.001, DecaySecs: 0, SustainLevel: 1, ReleaseSecs: 0.005}
	for i := 0; i < 8; i++ {
		e.TriggerNote(Triangle, 330, env)
	}
	e.ReleaseAllNotes()

	buf := make([]float32, 1024)
	e.ProcessBuffer(buf)
	if got := e.ActiveVoiceCount(); got != 0 {
		t.Fatalf("voices still active after release-all: %d", got)
	}
}

func TestTriggerChord(t *testing.T) {
	e := NewEngine(44100)
	env := AdsrEnvelope{AttackSecs: 0.01, DecaySecs: 0, SustainLevel: 1, ReleaseSecs: 0.1}
	ids := e.TriggerChord([]ChordNote{
		{Waveform: Sine, Frequency: 261.63},
		{Waveform: Sine, Frequency: 329.63},
		{Waveform: Sine, Frequency: 392.00},
	}, env)

	if len(ids) != 3 {
		t.Fatalf("chord ids: got=%d want=3", len(ids))
	}
	if ids[0] == ids[1] || ids[1] == ids[2] {
		t.Fatalf("duplicate chord ids: %v", ids)
	}
	if got := e.ActiveVoiceCount(); got != 3 {
		t.Fatalf("active voices: got=%d want=3", got)
	}
}

func TestSetVoiceAmplitudeClamps(t *testing.T) {
	e := NewEngine(44100)
	id := e.TriggerNote(Square, 440, AdsrEnvelope{AttackSecs: 0, DecaySecs: 0, SustainLevel: 1, ReleaseSecs: 0.1})
	e.SetVoiceAmplitude(id, 2.5)

	out := make([]float32, 64)
	e.ProcessBuffer(out)
	for i, s := range out {
		if s < -1 || s > 1 {
			t.Fatalf("sample %d out of range after amplitude clamp: %f", i, s)
		}
	}
}

func TestNoiseVoicesAreDeterministicPerTrigger(t *testing.T) {
	env := AdsrEnvelope{AttackSecs: 0, DecaySecs: 0, SustainLevel: 1, ReleaseSecs: 0.1}

	render := func() []float32 {
		e := NewEngine(44100)
		e.TriggerNote(Noise, 440, env)
		out := make([]float32, 256)
		e.ProcessBuffer(out)
		return out
	}

	a := render()
	b := render()
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("noise not deterministic at %d: %f vs %f", i, a[i], b[i])
		}
	}
}
