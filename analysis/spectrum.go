package analysis

import (
	"fmt"
	"math"

	algofft "github.com/cwbudde/algo-fft"
)

// DominantFrequency estimates the strongest spectral component of x in Hz
// using a Hann-windowed real FFT with parabolic peak interpolation.
func DominantFrequency(x []float64, sampleRate int) (float64, error) {
	if sampleRate <= 0 {
		return 0, fmt.Errorf("sample rate %d must be positive", sampleRate)
	}
	if len(x) < 16 {
		return 0, fmt.Errorf("need at least 16 samples, got %d", len(x))
	}

	fftSize := 1
	for fftSize*2 <= len(x) && fftSize < 1<<16 {
		fftSize *= 2
	}

	plan, err := algofft.NewPlanReal64(fftSize)
	if err != nil {
		return 0, fmt.Errorf("fft plan: %w", err)
	}

	buf := make([]float64, fftSize)
	for i := 0; i < fftSize; i++ {
		hann := 0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/float64(fftSize-1))
		buf[i] = x[i] * hann
	}

	spec := make([]complex128, fftSize/2+1)
	plan.Forward(spec, buf)

	mag := make([]float64, len(spec))
	peak := 1
	for i := 1; i < len(spec); i++ {
		mag[i] = math.Hypot(real(spec[i]), imag(spec[i]))
		if mag[i] > mag[peak] {
			peak = i
		}
	}

	binHz := float64(sampleRate) / float64(fftSize)
	freq := float64(peak) * binHz

	// Parabolic interpolation around the peak bin refines sub-bin accuracy.
	if peak > 1 && peak < len(mag)-1 {
		a, b, c := mag[peak-1], mag[peak], mag[peak+1]
		denom := a - 2*b + c
		if denom != 0 {
			freq += 0.5 * (a - c) / denom * binHz
		}
	}
	return freq, nil
}
