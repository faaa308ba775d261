package timing

import (
	"fmt"
	"time"
)

// TimeSignature describes how beats group into measures.
type TimeSignature struct {
	BeatsPerMeasure int `json:"beats_per_measure"`
	BeatUnit        int `json:"beat_unit"`
}

// NewTimeSignature validates and builds a time signature. Beats per measure
// must be in [1,16]; the beat unit must be a power of two up to 16.
func NewTimeSignature(beatsPerMeasure, beatUnit int) (TimeSignature, error) {
	if beatsPerMeasure < 1 || beatsPerMeasure > 16 {
		return TimeSignature{}, fmt.Errorf("beats per measure %d outside [1,16]", beatsPerMeasure)
	}
	switch beatUnit {
	case 1, 2, 4, 8, 16:
	default:
		return TimeSignature{}, fmt.Errorf("beat unit %d not in {1,2,4,8,16}", beatUnit)
	}
	return TimeSignature{BeatsPerMeasure: beatsPerMeasure, BeatUnit: beatUnit}, nil
}

// CommonTime is 4/4.
var CommonTime = TimeSignature{BeatsPerMeasure: 4, BeatUnit: 4}

// CommonSignatures lists frequently used signatures with display names.
func CommonSignatures() []struct {
	Name      string
	Signature TimeSignature
} {
	return []struct {
		Name      string
		Signature TimeSignature
	}{
		{"4/4", TimeSignature{4, 4}},
		{"3/4", TimeSignature{3, 4}},
		{"2/4", TimeSignature{2, 4}},
		{"6/8", TimeSignature{6, 8}},
		{"9/8", TimeSignature{9, 8}},
		{"12/8", TimeSignature{12, 8}},
		{"5/4", TimeSignature{5, 4}},
		{"7/8", TimeSignature{7, 8}},
	}
}

// Display renders the signature as "beats/unit".
func (s TimeSignature) Display() string {
	return fmt.Sprintf("%d/%d", s.BeatsPerMeasure, s.BeatUnit)
}

// BeatDuration returns the length of one beat at the given tempo.
func (s TimeSignature) BeatDuration(tempoBPM float64) time.Duration {
	return time.Duration(60e9 / tempoBPM)
}

// MeasureDuration returns the length of one measure at the given tempo.
func (s TimeSignature) MeasureDuration(tempoBPM float64) time.Duration {
	return time.Duration(float64(s.BeatsPerMeasure) * 60e9 / tempoBPM)
}

// BeatEvent is one scheduled musical beat.
type BeatEvent struct {
	// Beat is 1-indexed within the measure.
	Beat int

	// Measure is 0-indexed from the anchor.
	Measure uint64

	// Strong marks the downbeat (beat 1).
	Strong bool

	// ScheduledAt is the instant the beat was scheduled for, computed from
	// the beat index and period, not from the poll time.
	ScheduledAt time.Time

	// TempoBPM is the tempo at emission.
	TempoBPM float64

	// TimeSignature is the signature at emission.
	TimeSignature TimeSignature
}

// Downbeat reports whether this is the first beat of a measure.
func (e BeatEvent) Downbeat() bool {
	return e.Beat == 1
}

// NextBeatInterval returns the expected gap to the following beat.
func (e BeatEvent) NextBeatInterval() time.Duration {
	return e.TimeSignature.BeatDuration(e.TempoBPM)
}
