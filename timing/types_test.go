package timing

import (
	"testing"
	"time"
)

func TestNewTimeSignatureValidation(t *testing.T) {
	valid := [][2]int{{4, 4}, {3, 4}, {6, 8}, {1, 1}, {16, 16}, {7, 8}}
	for _, v := range valid {
		if _, err := NewTimeSignature(v[0], v[1]); err != nil {
			t.Fatalf("%d/%d rejected: %v", v[0], v[1], err)
		}
	}

	invalid := [][2]int{{0, 4}, {17, 4}, {4, 3}, {4, 0}, {4, 32}, {-1, 4}}
	for _, v := range invalid {
		if _, err := NewTimeSignature(v[0], v[1]); err == nil {
			t.Fatalf("%d/%d accepted", v[0], v[1])
		}
	}
}

func TestTimeSignatureDisplay(t *testing.T) {
	sig, _ := NewTimeSignature(6, 8)
	if got := sig.Display(); got != "6/8" {
		t.Fatalf("display: got=%q want=%q", got, "6/8")
	}
}

func TestTimeSignatureDurations(t *testing.T) {
	sig, _ := NewTimeSignature(4, 4)
	if got := sig.BeatDuration(120); got != 500*time.Millisecond {
		t.Fatalf("beat duration: got=%v want=500ms", got)
	}
	if got := sig.MeasureDuration(120); got != 2*time.Second {
		t.Fatalf("measure duration: got=%v want=2s", got)
	}
}

func TestCommonSignaturesAreValid(t *testing.T) {
	for _, entry := range CommonSignatures() {
		if _, err := NewTimeSignature(entry.Signature.BeatsPerMeasure, entry.Signature.BeatUnit); err != nil {
			t.Fatalf("common signature %s invalid: %v", entry.Name, err)
		}
		if entry.Signature.Display() != entry.Name {
			t.Fatalf("display mismatch: got=%q want=%q", entry.Signature.Display(), entry.Name)
		}
	}
}

func TestBeatEventHelpers(t *testing.T) {
	ev := BeatEvent{
		Beat:          1,
		Strong:        true,
		TempoBPM:      120,
		TimeSignature: CommonTime,
	}
	if !ev.Downbeat() {
		t.Fatalf("beat 1 must be a downbeat")
	}
	if got := ev.NextBeatInterval(); got != 500*time.Millisecond {
		t.Fatalf("next beat interval: got=%v want=500ms", got)
	}

	ev.Beat = 3
	if ev.Downbeat() {
		t.Fatalf("beat 3 must not be a downbeat")
	}
}
