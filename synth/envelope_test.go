package synth

import "testing"

func stepEnvelope(s *EnvelopeState, env *AdsrEnvelope, n int, dt float32) []float32 {
	levels := make([]float32, n)
	for i := 0; i < n; i++ {
		levels[i] = s.Update(env, dt)
	}
	return levels
}

func TestEnvelopePhaseProgression(t *testing.T) {
	env := AdsrEnvelope{AttackSecs: 0.1, DecaySecs: 0.1, SustainLevel: 0.5, ReleaseSecs: 0.1}
	s := NewEnvelopeState()
	const dt = 0.001

	// Run well into sustain, then release and run to completion, recording
	// the phase each level was produced in.
	const steps = 250
	levels := make([]float32, 0, steps*2)
	phases := make([]EnvelopePhase, 0, steps*2)
	record := func(n int) {
		for i := 0; i < n; i++ {
			levels = append(levels, s.Update(&env, dt))
			phases = append(phases, s.Phase)
		}
	}
	record(steps)
	s.Release()
	record(steps)

	sawSustain := false
	for i := 1; i < len(levels); i++ {
		if phases[i] != phases[i-1] {
			continue
		}
		switch phases[i] {
		case PhaseAttack:
			if levels[i] < levels[i-1] {
				t.Fatalf("attack not monotone at %d: %f < %f", i, levels[i], levels[i-1])
			}
		case PhaseDecay, PhaseRelease:
			if levels[i] > levels[i-1] {
				t.Fatalf("phase %d not monotone at %d: %f > %f", phases[i], i, levels[i], levels[i-1])
			}
		case PhaseSustain:
			sawSustain = true
			if levels[i] != 0.5 {
				t.Fatalf("sustain level at %d: got=%f want=0.5", i, levels[i])
			}
		}
	}
	if !sawSustain {
		t.Fatalf("envelope never reached sustain")
	}
	if !s.Finished() {
		t.Fatalf("envelope not finished after release time, phase=%d", s.Phase)
	}
	if s.Update(&env, dt) != 0 {
		t.Fatalf("finished envelope must stay at 0")
	}
}

func TestEnvelopeZeroAttackDecayJumpsToSustain(t *testing.T) {
	env := AdsrEnvelope{AttackSecs: 0, DecaySecs: 0, SustainLevel: 0.7, ReleaseSecs: 0.1}
	s := NewEnvelopeState()
	if got := s.Update(&env, 1.0/44100); got != 0.7 {
		t.Fatalf("first sample level: got=%f want=0.7", got)
	}
	if s.Phase != PhaseSustain {
		t.Fatalf("phase after first sample: got=%d want=%d", s.Phase, PhaseSustain)
	}
}

func TestEnvelopeReleaseFromMidAttack(t *testing.T) {
	env := AdsrEnvelope{AttackSecs: 0.1, DecaySecs: 0.1, SustainLevel: 0.8, ReleaseSecs: 0.1}
	s := NewEnvelopeState()
	const dt = 0.001

	stepEnvelope(&s, &env, 30, dt)
	atRelease := s.CurrentLevel
	if atRelease >= 0.5 {
		t.Fatalf("expected mid-attack level below 0.5, got %f", atRelease)
	}

	s.Release()
	if s.ReleaseLevel != atRelease {
		t.Fatalf("release level: got=%f want=%f", s.ReleaseLevel, atRelease)
	}

	// The ramp must start from the captured level, not from sustain.
	first := s.Update(&env, dt)
	if first > atRelease {
		t.Fatalf("release ramp jumped up: %f > %f", first, atRelease)
	}
}

func TestEnvelopeZeroReleaseTakesOneSample(t *testing.T) {
	env := AdsrEnvelope{AttackSecs: 0, DecaySecs: 0, SustainLevel: 1, ReleaseSecs: 0}
	s := NewEnvelopeState()
	s.Update(&env, 0.001)
	s.Release()
	if got := s.Update(&env, 0.001); got != 0 {
		t.Fatalf("zero release level: got=%f want=0", got)
	}
	if !s.Finished() {
		t.Fatalf("zero release must finish in one sample")
	}
}

func TestEnvelopeDoubleReleaseKeepsPhase(t *testing.T) {
	env := AdsrEnvelope{AttackSecs: 0.01, DecaySecs: 0, SustainLevel: 1, ReleaseSecs: 0.2}
	s := NewEnvelopeState()
	stepEnvelope(&s, &env, 20, 0.001)
	s.Release()
	level := s.ReleaseLevel
	stepEnvelope(&s, &env, 10, 0.001)

	s.Release()
	if s.Phase != PhaseRelease {
		t.Fatalf("phase after double release: got=%d want=%d", s.Phase, PhaseRelease)
	}
	if s.ReleaseLevel != level {
		t.Fatalf("double release recaptured level: got=%f want=%f", s.ReleaseLevel, level)
	}
}

func TestEnvelopeLevelsAlwaysInRange(t *testing.T) {
	envs := []AdsrEnvelope{
		{AttackSecs: 0, DecaySecs: 0, SustainLevel: 0, ReleaseSecs: 0},
		{AttackSecs: 0.001, DecaySecs: 0.5, SustainLevel: 1, ReleaseSecs: 0.001},
		{AttackSecs: 0.5, DecaySecs: 0, SustainLevel: 0.3, ReleaseSecs: 0.5},
	}
	for _, env := range envs {
		s := NewEnvelopeState()
		for i := 0; i < 2000; i++ {
			if i == 1000 {
				s.Release()
			}
			l := s.Update(&env, 0.001)
			if l < 0 || l > 1 {
				t.Fatalf("level out of range for %+v at %d: %f", env, i, l)
			}
		}
	}
}
