package sample

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/cwbudde/algo-synth/internal/wavio"
)

func writeMonoFixture(t *testing.T, dir string, name string, samples []float32, rate int) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := wavio.WriteMonoWAV(path, samples, rate); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	return path
}

func TestLoadWAVRoundTrip(t *testing.T) {
	src := make([]float32, 1024)
	for i := range src {
		src[i] = 0.5 * float32(math.Sin(2*math.Pi*float64(i)/64))
	}
	path := writeMonoFixture(t, t.TempDir(), "tone.wav", src, 22050)

	data, err := LoadWAV(path, 0)
	if err != nil {
		t.Fatalf("LoadWAV: %v", err)
	}
	if data.SampleRate() != 22050 {
		t.Fatalf("sample rate: got=%d want=22050", data.SampleRate())
	}
	if data.Len() != len(src) {
		t.Fatalf("frames: got=%d want=%d", data.Len(), len(src))
	}
	if data.BaseFrequency() != 440 {
		t.Fatalf("default base frequency: got=%f want=440", data.BaseFrequency())
	}
	if meta := data.Metadata(); meta.Filename != "tone.wav" || meta.BitsPerSample != 16 {
		t.Fatalf("metadata: %+v", meta)
	}

	// 16-bit quantization bounds the round-trip error.
	for i := 0; i < data.Len(); i++ {
		if diff := math.Abs(float64(data.At(i) - src[i])); diff > 1.0/32768+1e-6 {
			t.Fatalf("frame %d: got=%f want=%f", i, data.At(i), src[i])
		}
	}
}

func TestLoadWAVStereoReducesToLeft(t *testing.T) {
	const frames = 256
	interleaved := make([]float32, frames*2)
	for i := 0; i < frames; i++ {
		interleaved[i*2] = 0.25   // left
		interleaved[i*2+1] = -0.5 // right
	}
	dir := t.TempDir()
	path := filepath.Join(dir, "stereo.wav")
	if err := wavio.WriteStereoInterleavedWAV(path, interleaved, 44100); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	data, err := LoadWAV(path, 220)
	if err != nil {
		t.Fatalf("LoadWAV: %v", err)
	}
	if data.Len() != frames {
		t.Fatalf("frames: got=%d want=%d", data.Len(), frames)
	}
	if data.BaseFrequency() != 220 {
		t.Fatalf("base frequency: got=%f want=220", data.BaseFrequency())
	}
	for i := 0; i < data.Len(); i++ {
		if diff := math.Abs(float64(data.At(i) - 0.25)); diff > 1.0/32768+1e-6 {
			t.Fatalf("frame %d not from left channel: %f", i, data.At(i))
		}
	}
}

func TestLoadWAVMissingFile(t *testing.T) {
	if _, err := LoadWAV(filepath.Join(t.TempDir(), "missing.wav"), 440); err == nil {
		t.Fatalf("missing file accepted")
	}
}

func TestLoadWAVRejectsGarbage(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "garbage.wav")
	if err := wavio.WriteMonoWAV(path, []float32{0}, 44100); err != nil {
		t.Fatalf("fixture: %v", err)
	}
	// Overwrite with non-WAV bytes.
	if err := os.WriteFile(path, []byte("this is not a wav file"), 0o644); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	if _, err := LoadWAV(path, 440); err == nil {
		t.Fatalf("garbage accepted")
	}
}

func TestLibraryCachesAndResolves(t *testing.T) {
	dir := t.TempDir()
	src := []float32{0.1, 0.2, 0.3, 0.4}
	writeMonoFixture(t, dir, "kick.wav", src, 44100)

	lib := NewLibrary()
	lib.AddSearchPath(dir)

	first, err := lib.Load("kick.wav", 0)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	second, err := lib.Load("kick.wav", 0)
	if err != nil {
		t.Fatalf("second Load: %v", err)
	}
	if first != second {
		t.Fatalf("cache miss on second load")
	}
	if got := lib.CachedCount(); got != 1 {
		t.Fatalf("cached count: got=%d want=1", got)
	}
	if lib.CachedBytes() != first.Len()*4 {
		t.Fatalf("cached bytes: got=%d want=%d", lib.CachedBytes(), first.Len()*4)
	}

	if _, err := lib.Load("missing.wav", 0); err == nil {
		t.Fatalf("missing sample accepted")
	}

	lib.Clear()
	if lib.CachedCount() != 0 || lib.CachedBytes() != 0 {
		t.Fatalf("clear left entries: count=%d bytes=%d", lib.CachedCount(), lib.CachedBytes())
	}
}

func TestLibraryAbsolutePath(t *testing.T) {
	dir := t.TempDir()
	path := writeMonoFixture(t, dir, "snare.wav", []float32{0.5, -0.5}, 44100)

	lib := NewLibrary()
	data, err := lib.Load(path, 0)
	if err != nil {
		t.Fatalf("Load absolute: %v", err)
	}
	if data.Len() != 2 {
		t.Fatalf("frames: got=%d want=2", data.Len())
	}
}
