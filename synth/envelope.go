package synth

// AdsrEnvelope describes a four-phase linear amplitude contour.
type AdsrEnvelope struct {
	AttackSecs   float32 `json:"attack_secs"`
	DecaySecs    float32 `json:"decay_secs"`
	SustainLevel float32 `json:"sustain_level"`
	ReleaseSecs  float32 `json:"release_secs"`
}

// EnvelopePhase is the current stage of a running envelope.
type EnvelopePhase int

const (
	PhaseAttack EnvelopePhase = iota
	PhaseDecay
	PhaseSustain
	PhaseRelease
	PhaseFinished
)

// EnvelopeState is the per-voice running envelope.
//
// ReleaseLevel is captured when release begins and is the starting point of
// the release ramp, so a note released mid-attack fades from the level it
// actually reached instead of stepping to the sustain level.
type EnvelopeState struct {
	Phase        EnvelopePhase
	PhaseTime    float32
	CurrentLevel float32
	ReleaseLevel float32
}

// NewEnvelopeState returns a state at the start of the attack phase.
func NewEnvelopeState() EnvelopeState {
	return EnvelopeState{Phase: PhaseAttack}
}

// Release moves the envelope into the release phase, capturing the level the
// ramp starts from. A second call is a no-op.
func (s *EnvelopeState) Release() {
	if s.Phase == PhaseRelease || s.Phase == PhaseFinished {
		return
	}
	s.Phase = PhaseRelease
	s.PhaseTime = 0
	s.ReleaseLevel = s.CurrentLevel
}

// Finished reports whether the envelope has run to completion.
func (s *EnvelopeState) Finished() bool {
	return s.Phase == PhaseFinished
}

// Update advances the envelope by dt seconds and returns the current level in
// [0,1]. Zero-duration phases are traversed within the same sample so an
// attack=0, decay=0 envelope sits at the sustain level from sample zero.
func (s *EnvelopeState) Update(env *AdsrEnvelope, dt float32) float32 {
	if s.Phase == PhaseFinished {
		s.CurrentLevel = 0
		return 0
	}

	s.PhaseTime += dt

	for {
		switch s.Phase {
		case PhaseAttack:
			if env.AttackSecs <= 0 {
				s.CurrentLevel = 1
				s.Phase = PhaseDecay
				continue
			}
			if s.PhaseTime >= env.AttackSecs {
				s.CurrentLevel = 1
				s.Phase = PhaseDecay
				s.PhaseTime = 0
			} else {
				s.CurrentLevel = s.PhaseTime / env.AttackSecs
			}
		case PhaseDecay:
			if env.DecaySecs <= 0 {
				s.CurrentLevel = env.SustainLevel
				s.Phase = PhaseSustain
				continue
			}
			if s.PhaseTime >= env.DecaySecs {
				s.CurrentLevel = env.SustainLevel
				s.Phase = PhaseSustain
				s.PhaseTime = 0
			} else {
				progress := s.PhaseTime / env.DecaySecs
				s.CurrentLevel = 1 - progress*(1-env.SustainLevel)
			}
		case PhaseSustain:
			s.CurrentLevel = env.SustainLevel
		case PhaseRelease:
			if env.ReleaseSecs <= 0 || s.PhaseTime >= env.ReleaseSecs {
				s.CurrentLevel = 0
				s.Phase = PhaseFinished
			} else {
				progress := s.PhaseTime / env.ReleaseSecs
				s.CurrentLevel = s.ReleaseLevel * (1 - progress)
			}
		case PhaseFinished:
			s.CurrentLevel = 0
		}
		break
	}

	return clampf(s.CurrentLevel, 0, 1)
}
