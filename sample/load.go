package sample

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/cwbudde/algo-synth/synth"
	"github.com/cwbudde/wav"
)

// LoadWAV reads a 16-bit PCM WAV file into immutable sample data. Stereo
// files reduce to the left channel; the source sample rate is preserved (any
// rate difference is resolved by the pitch math at render time).
// baseFrequency <= 0 selects the 440 Hz default.
//
// All failures surface here, at load time: a Waveform that references an
// invalid buffer can never be constructed.
func LoadWAV(path string, baseFrequency float32) (*synth.SampleData, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("invalid wav file: %s", path)
	}
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	if buf == nil || buf.Format == nil || buf.Format.NumChannels < 1 {
		return nil, fmt.Errorf("invalid wav buffer: %s", path)
	}
	if dec.BitDepth != 16 {
		return nil, fmt.Errorf("unsupported bit depth %d in %s (16-bit PCM only)", dec.BitDepth, path)
	}

	ch := buf.Format.NumChannels
	if ch > 2 {
		return nil, fmt.Errorf("unsupported channel count %d in %s", ch, path)
	}
	frames := len(buf.Data) / ch
	if frames == 0 {
		return nil, fmt.Errorf("empty wav file: %s", path)
	}

	// Left channel only for stereo sources. The decoder already delivers
	// float32 PCM normalized to [-1,1].
	samples := make([]float32, frames)
	for i := 0; i < frames; i++ {
		samples[i] = float32(buf.Data[i*ch])
	}

	meta := synth.SampleMetadata{
		Filename:      filepath.Base(path),
		Channels:      ch,
		BitsPerSample: int(dec.BitDepth),
	}
	return synth.NewSampleData(samples, buf.Format.SampleRate, baseFrequency, meta)
}
