package synth

import (
	"math"

	"github.com/cwbudde/algo-approx"
)

// NoteToFreq converts a MIDI note number to frequency in Hz.
func NoteToFreq(note int) float32 {
	const a4Freq = 440.0
	const a4Note = 69
	exponent := float32(note-a4Note) / 12.0
	return a4Freq * pow2Approx(exponent)
}

func pow2Approx(x float32) float32 {
	const ln2 = 0.69314718055994530942
	return approx.FastExp(x * ln2)
}

func clampf(x, lo, hi float32) float32 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

func math32Mod(x, y float32) float32 {
	return float32(math.Mod(float64(x), float64(y)))
}

func isFinite(x float32) bool {
	return !math.IsNaN(float64(x)) && !math.IsInf(float64(x), 0)
}

func toBits(x float32) uint32 {
	return math.Float32bits(x)
}

func fromBits(b uint32) float32 {
	return math.Float32frombits(b)
}
