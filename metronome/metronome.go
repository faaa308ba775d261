package metronome

import (
	"time"

	"github.com/cwbudde/algo-synth/synth"
	"github.com/cwbudde/algo-synth/timing"
)

// Metronome turns scheduler beats into engine triggers. Strong beats use the
// accent click at full volume; weak beats use the regular click slightly
// quieter. Every emitted beat is also published to the tracker for visual
// consumers.
type Metronome struct {
	engine  *synth.Engine
	sched   *timing.Scheduler
	tracker *timing.Tracker

	click           Click
	accentClick     Click
	accentFirstBeat bool
	clickVolume     float32
	accentVolume    float32
}

// New creates a metronome over an engine with the default wood block /
// cowbell click pair.
func New(engine *synth.Engine, sig timing.TimeSignature) *Metronome {
	return &Metronome{
		engine:          engine,
		sched:           timing.NewScheduler(sig),
		tracker:         timing.NewTracker(),
		click:           WoodBlock(),
		accentClick:     Cowbell(),
		accentFirstBeat: true,
		clickVolume:     0.8,
		accentVolume:    1.0,
	}
}

// Tracker exposes the beat tracker for observer registration.
func (m *Metronome) Tracker() *timing.Tracker {
	return m.tracker
}

// SetClick selects the sound for weak beats.
func (m *Metronome) SetClick(c Click) {
	m.click = c
}

// SetAccentClick selects the sound for downbeats.
func (m *Metronome) SetAccentClick(c Click) {
	m.accentClick = c
}

// SetAccentFirstBeat toggles downbeat accenting.
func (m *Metronome) SetAccentFirstBeat(accent bool) {
	m.accentFirstBeat = accent
}

// SetVolumes adjusts the weak and strong click volumes, clamped by the engine.
func (m *Metronome) SetVolumes(click, accent float32) {
	m.clickVolume = click
	m.accentVolume = accent
}

// Start begins emission with beat 1 due immediately.
func (m *Metronome) Start(now time.Time) { m.sched.Start(now) }

// Stop resets the transport.
func (m *Metronome) Stop() { m.sched.Stop() }

// Pause freezes the transport in place.
func (m *Metronome) Pause() { m.sched.Pause() }

// Resume continues one beat period after now.
func (m *Metronome) Resume(now time.Time) { m.sched.Resume(now) }

// Running reports whether the transport is live.
func (m *Metronome) Running() bool { return m.sched.Running() }

// SetTempo changes tempo without disturbing the beat position.
func (m *Metronome) SetTempo(now time.Time, bpm float64) { m.sched.SetTempo(now, bpm) }

// Tempo returns the current tempo in BPM.
func (m *Metronome) Tempo() float64 { return m.sched.Tempo() }

// SetTimeSignature changes the measure grouping.
func (m *Metronome) SetTimeSignature(sig timing.TimeSignature) { m.sched.SetTimeSignature(sig) }

// TimeSignature returns the active signature.
func (m *Metronome) TimeSignature() timing.TimeSignature { return m.sched.TimeSignature() }

// Tick polls the scheduler, fires a click for each due beat, publishes the
// events, and returns them.
func (m *Metronome) Tick(now time.Time) []timing.BeatEvent {
	events := m.sched.CheckTriggers(now)
	for _, ev := range events {
		click := m.click
		volume := m.clickVolume
		if m.accentFirstBeat && ev.Strong {
			click = m.accentClick
			volume = m.accentVolume
		}
		m.engine.TriggerNoteWithVolume(click.Waveform, click.Frequency, click.Envelope, volume)
		m.tracker.Publish(ev)
	}
	return events
}
