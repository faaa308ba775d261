package synth

// Offline rendering: generate buffers outside the real-time path, for
// composition, export tools, and tests.

// SoundEvent is a scheduled sound with an optional linear frequency sweep.
type SoundEvent struct {
	Waveform       Waveform
	StartFrequency float32
	EndFrequency   float32
	DurationSecs   float32
	Envelope       AdsrEnvelope
}

func validRenderInputs(frequency float32, durationSecs float32, sampleRate int) bool {
	if frequency <= 0 || frequency > 20000 {
		return false
	}
	if durationSecs < 0 {
		return false
	}
	if sampleRate <= 0 || sampleRate > 192000 {
		return false
	}
	return true
}

// GenerateWave renders durationSecs of a waveform at a constant frequency.
// Returns nil for out-of-range inputs.
func GenerateWave(waveform Waveform, frequency float32, durationSecs float32, sampleRate int) []float32 {
	if !validRenderInputs(frequency, durationSecs, sampleRate) {
		return nil
	}
	total := int(durationSecs * float32(sampleRate))
	out := make([]float32, total)
	var noise noiseState
	noise.seed(1)
	for i := 0; i < total; i++ {
		t := float32(i) / float32(sampleRate)
		phase := math32Mod(twoPi*frequency*t, twoPi)
		out[i] = offlineSample(waveform, &noise, phase, t, frequency)
	}
	return out
}

func offlineSample(w Waveform, noise *noiseState, phase float32, timeSecs float32, frequency float32) float32 {
	switch w.Kind {
	case KindNoise:
		return noise.next()
	case KindSample:
		if w.Sample != nil {
			return w.Sample.SampleAtTime(timeSecs, frequency)
		}
		return 0
	case KindDrumSample:
		if w.Sample != nil {
			return w.Sample.NaturalSampleAtTime(timeSecs)
		}
		return 0
	default:
		return rawSample(w.Kind, w.Duty, phase)
	}
}

// ApplyEnvelope shapes samples in place with a whole-buffer ADSR: attack and
// decay from the front, release from the back, sustain in between.
func ApplyEnvelope(samples []float32, envelope *AdsrEnvelope, sampleRate int) {
	total := len(samples)
	if total == 0 || sampleRate <= 0 {
		return
	}

	attack := int(envelope.AttackSecs * float32(sampleRate))
	decay := int(envelope.DecaySecs * float32(sampleRate))
	release := int(envelope.ReleaseSecs * float32(sampleRate))

	attackEnd := min(attack, total)
	decayEnd := min(attack+decay, total)
	sustainEnd := max(total-release, 0)

	for i := range samples {
		var level float32
		switch {
		case i < attackEnd:
			if attack > 0 {
				level = float32(i) / float32(attack)
			} else {
				level = 1
			}
		case i < decayEnd:
			if decay > 0 {
				progress := float32(i-attack) / float32(decay)
				level = 1 - progress*(1-envelope.SustainLevel)
			} else {
				level = envelope.SustainLevel
			}
		case i < sustainEnd:
			level = envelope.SustainLevel
		default:
			if release > 0 {
				progress := float32(i-sustainEnd) / float32(release)
				level = envelope.SustainLevel * (1 - progress)
			}
		}
		samples[i] *= level
	}
}

// RenderEvent renders one event with its envelope applied. The frequency
// sweeps linearly from start to end over the duration.
func RenderEvent(event *SoundEvent, sampleRate int) []float32 {
	if !validRenderInputs(event.StartFrequency, event.DurationSecs, sampleRate) {
		return nil
	}
	if !validRenderInputs(event.EndFrequency, event.DurationSecs, sampleRate) {
		return nil
	}

	total := int(event.DurationSecs * float32(sampleRate))
	out := make([]float32, total)
	var noise noiseState
	noise.seed(1)

	// Integrate phase so the sweep stays continuous.
	var phase float32
	for i := 0; i < total; i++ {
		t := float32(i) / float32(sampleRate)
		progress := t / event.DurationSecs
		frequency := event.StartFrequency + (event.EndFrequency-event.StartFrequency)*progress
		out[i] = offlineSample(event.Waveform, &noise, phase, t, frequency)
		phase += twoPi * frequency / float32(sampleRate)
		if phase >= twoPi {
			phase = math32Mod(phase, twoPi)
		}
	}

	ApplyEnvelope(out, &event.Envelope, sampleRate)
	return out
}

// TimelineEvent places a SoundEvent at an absolute start time.
type TimelineEvent struct {
	StartSecs float32
	Event     SoundEvent
}

// RenderTimeline mixes scheduled events into one clamped master buffer.
func RenderTimeline(events []TimelineEvent, totalDurationSecs float32, sampleRate int) []float32 {
	if totalDurationSecs < 0 || sampleRate <= 0 || sampleRate > 192000 {
		return nil
	}
	total := int(totalDurationSecs * float32(sampleRate))
	master := make([]float32, total)

	for i := range events {
		start := int(events[i].StartSecs * float32(sampleRate))
		if start >= total {
			continue
		}
		rendered := RenderEvent(&events[i].Event, sampleRate)
		for j, s := range rendered {
			idx := start + j
			if idx >= total {
				break
			}
			master[idx] += s
		}
	}

	for i := range master {
		master[i] = clampf(master[i], -1, 1)
	}
	return master
}
