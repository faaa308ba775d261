package preset

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cwbudde/algo-synth/timing"
)

// Config is the defaults record consumed by hosts: initial volumes, tempo,
// time signature, and audio device preferences. The synthesis core owns no
// persisted state; this is purely a convenience layer over it.
type Config struct {
	Audio     AudioConfig     `json:"audio"`
	Metronome MetronomeConfig `json:"metronome"`
}

// AudioConfig holds audio device defaults.
type AudioConfig struct {
	MasterVolume float32 `json:"master_volume"`
	SampleRate   int     `json:"sample_rate"`
	BufferFrames int     `json:"buffer_frames"`
}

// MetronomeConfig holds metronome defaults.
type MetronomeConfig struct {
	TempoBPM        float64 `json:"tempo_bpm"`
	BeatsPerMeasure int     `json:"beats_per_measure"`
	BeatUnit        int     `json:"beat_unit"`
	Click           string  `json:"click"`
	AccentClick     string  `json:"accent_click"`
	AccentFirstBeat bool    `json:"accent_first_beat"`
	Volume          float32 `json:"volume"`
}

// Default returns the stock configuration.
func Default() *Config {
	return &Config{
		Audio: AudioConfig{
			MasterVolume: 0.8,
			SampleRate:   44100,
			BufferFrames: 512,
		},
		Metronome: MetronomeConfig{
			TempoBPM:        120,
			BeatsPerMeasure: 4,
			BeatUnit:        4,
			Click:           "woodblock",
			AccentClick:     "cowbell",
			AccentFirstBeat: true,
			Volume:          0.8,
		},
	}
}

// TimeSignature builds the validated signature from the metronome defaults.
func (c *Config) TimeSignature() (timing.TimeSignature, error) {
	return timing.NewTimeSignature(c.Metronome.BeatsPerMeasure, c.Metronome.BeatUnit)
}

// FileAudio is the audio section of the JSON schema.
type FileAudio struct {
	MasterVolume *float32 `json:"master_volume"`
	SampleRate   *int     `json:"sample_rate"`
	BufferFrames *int     `json:"buffer_frames"`
}

// FileMetronome is the metronome section of the JSON schema.
type FileMetronome struct {
	TempoBPM        *float64 `json:"tempo_bpm"`
	BeatsPerMeasure *int     `json:"beats_per_measure"`
	BeatUnit        *int     `json:"beat_unit"`
	Click           *string  `json:"click"`
	AccentClick     *string  `json:"accent_click"`
	AccentFirstBeat *bool    `json:"accent_first_beat"`
	Volume          *float32 `json:"volume"`
}

// File is the JSON schema. Absent fields keep their defaults.
type File struct {
	Audio     *FileAudio     `json:"audio"`
	Metronome *FileMetronome `json:"metronome"`
}

// LoadJSON loads a config file and applies it on top of the defaults.
func LoadJSON(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var f File
	if err := json.Unmarshal(b, &f); err != nil {
		return nil, err
	}

	c := Default()
	if err := ApplyFile(c, &f); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// SaveJSON writes the config as indented JSON.
func SaveJSON(path string, c *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(b, '\n'), 0o644)
}

// ApplyFile applies a parsed file onto an existing config, validating every
// overridden field.
func ApplyFile(dst *Config, f *File) error {
	if dst == nil {
		return fmt.Errorf("nil destination config")
	}
	if f == nil {
		return nil
	}

	if a := f.Audio; a != nil {
		if a.MasterVolume != nil {
			if *a.MasterVolume < 0 || *a.MasterVolume > 1 {
				return fmt.Errorf("audio.master_volume must be in [0,1]")
			}
			dst.Audio.MasterVolume = *a.MasterVolume
		}
		if a.SampleRate != nil {
			if *a.SampleRate < 8000 || *a.SampleRate > 192000 {
				return fmt.Errorf("audio.sample_rate must be in [8000,192000]")
			}
			dst.Audio.SampleRate = *a.SampleRate
		}
		if a.BufferFrames != nil {
			if *a.BufferFrames < 16 || *a.BufferFrames > 1<<16 {
				return fmt.Errorf("audio.buffer_frames must be in [16,65536]")
			}
			dst.Audio.BufferFrames = *a.BufferFrames
		}
	}

	if m := f.Metronome; m != nil {
		if m.TempoBPM != nil {
			if *m.TempoBPM < 20 || *m.TempoBPM > 400 {
				return fmt.Errorf("metronome.tempo_bpm must be in [20,400]")
			}
			dst.Metronome.TempoBPM = *m.TempoBPM
		}
		if m.BeatsPerMeasure != nil {
			dst.Metronome.BeatsPerMeasure = *m.BeatsPerMeasure
		}
		if m.BeatUnit != nil {
			dst.Metronome.BeatUnit = *m.BeatUnit
		}
		if _, err := timing.NewTimeSignature(dst.Metronome.BeatsPerMeasure, dst.Metronome.BeatUnit); err != nil {
			return fmt.Errorf("metronome time signature: %w", err)
		}
		if m.Click != nil {
			dst.Metronome.Click = *m.Click
		}
		if m.AccentClick != nil {
			dst.Metronome.AccentClick = *m.AccentClick
		}
		if m.AccentFirstBeat != nil {
			dst.Metronome.AccentFirstBeat = *m.AccentFirstBeat
		}
		if m.Volume != nil {
			if *m.Volume < 0 || *m.Volume > 1 {
				return fmt.Errorf("metronome.volume must be in [0,1]")
			}
			dst.Metronome.Volume = *m.Volume
		}
	}

	return nil
}
