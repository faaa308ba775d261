package timing

import "time"

type schedulerState int

const (
	stateStopped schedulerState = iota
	stateRunning
	statePaused
)

// Scheduler emits beat events by cumulative discrete scheduling: every beat
// instant is the anchor plus the integer beat index times the period. Because
// no running clock is accumulated, the emitted grid has zero cumulative drift
// no matter how irregularly CheckTriggers is polled.
//
// The scheduler has no goroutine and no timer; callers pass in the current
// time. Drive it from a single goroutine.
type Scheduler struct {
	state    schedulerState
	anchor   time.Time
	nextBeat uint64
	tempoBPM float64
	sig      TimeSignature
}

// DefaultTempoBPM is used until SetTempo is called.
const DefaultTempoBPM = 120.0

// NewScheduler creates a stopped scheduler.
func NewScheduler(sig TimeSignature) *Scheduler {
	return &Scheduler{tempoBPM: DefaultTempoBPM, sig: sig}
}

// Start anchors beat 0 at now. The next CheckTriggers call emits it
// immediately.
func (s *Scheduler) Start(now time.Time) {
	s.state = stateRunning
	s.anchor = now
	s.nextBeat = 0
}

// Stop resets to the uninitialized state.
func (s *Scheduler) Stop() {
	s.state = stateStopped
	s.nextBeat = 0
}

// Pause freezes emission without touching the beat position.
func (s *Scheduler) Pause() {
	if s.state == stateRunning {
		s.state = statePaused
	}
}

// Resume re-anchors so the next beat emerges one beat period after now.
func (s *Scheduler) Resume(now time.Time) {
	if s.state != statePaused {
		return
	}
	offset := s.periodNanos() * (float64(s.nextBeat) - 1)
	s.anchor = now.Add(-time.Duration(offset))
	s.state = stateRunning
}

// Running reports whether beats are currently being emitted.
func (s *Scheduler) Running() bool {
	return s.state == stateRunning
}

// Tempo returns the current tempo in beats per minute.
func (s *Scheduler) Tempo() float64 {
	return s.tempoBPM
}

// SetTempo changes the tempo. While running, the anchor is rebased so the
// fractional position within the current beat is continuous across the
// change; the beat index is untouched. Non-positive tempos are ignored.
func (s *Scheduler) SetTempo(now time.Time, tempoBPM float64) {
	if tempoBPM <= 0 {
		return
	}
	if s.state == stateRunning {
		elapsedBeats := float64(now.Sub(s.anchor)) / s.periodNanos()
		newPeriod := 60e9 / tempoBPM
		s.anchor = now.Add(-time.Duration(elapsedBeats * newPeriod))
	}
	s.tempoBPM = tempoBPM
}

// TimeSignature returns the active signature.
func (s *Scheduler) TimeSignature() TimeSignature {
	return s.sig
}

// SetTimeSignature changes measure indexing. Anchor and beat index are
// preserved.
func (s *Scheduler) SetTimeSignature(sig TimeSignature) {
	if sig.BeatsPerMeasure < 1 {
		return
	}
	s.sig = sig
}

// CheckTriggers returns every beat whose scheduled instant is at or before
// now. Typically zero or one event; more only when the caller polled late.
func (s *Scheduler) CheckTriggers(now time.Time) []BeatEvent {
	if s.state != stateRunning {
		return nil
	}

	var events []BeatEvent
	period := s.periodNanos()
	for {
		scheduled := s.anchor.Add(time.Duration(float64(s.nextBeat) * period))
		if scheduled.After(now) {
			break
		}
		beats := uint64(s.sig.BeatsPerMeasure)
		events = append(events, BeatEvent{
			Beat:          int(s.nextBeat%beats) + 1,
			Measure:       s.nextBeat / beats,
			Strong:        s.nextBeat%beats == 0,
			ScheduledAt:   scheduled,
			TempoBPM:      s.tempoBPM,
			TimeSignature: s.sig,
		})
		s.nextBeat++
	}
	return events
}

func (s *Scheduler) periodNanos() float64 {
	return 60e9 / s.tempoBPM
}
