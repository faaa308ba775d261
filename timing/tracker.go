package timing

import (
	"sync"
	"time"
)

// BeatObserver receives beat events synchronously as they are published.
type BeatObserver interface {
	OnBeat(event BeatEvent)
}

// ObserverFunc adapts a function to the BeatObserver interface.
type ObserverFunc func(event BeatEvent)

// OnBeat calls f.
func (f ObserverFunc) OnBeat(event BeatEvent) { f(event) }

// Tracker fans beat events out to registered observers and caches the latest
// beat for visual polling. Observers are held by registration id: an owner
// that no longer cares detaches, and a detach during publication takes effect
// on the next publish. The tracker keeps operating regardless of how many
// observers remain.
type Tracker struct {
	mu        sync.Mutex
	nextID    int
	observers map[int]BeatObserver

	lastBeat   int
	lastStrong bool
	lastAt     time.Time
	haveBeat   bool
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{observers: make(map[int]BeatObserver)}
}

// Attach registers an observer and returns its registration id.
func (t *Tracker) Attach(observer BeatObserver) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.nextID++
	t.observers[t.nextID] = observer
	return t.nextID
}

// Detach removes a registration. Unknown ids are ignored.
func (t *Tracker) Detach(id int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.observers, id)
}

// Publish records the event and invokes every observer synchronously.
func (t *Tracker) Publish(event BeatEvent) {
	t.mu.Lock()
	t.lastBeat = event.Beat
	t.lastStrong = event.Strong
	t.lastAt = event.ScheduledAt
	t.haveBeat = true
	observers := make([]BeatObserver, 0, len(t.observers))
	for _, o := range t.observers {
		observers = append(observers, o)
	}
	t.mu.Unlock()

	for _, o := range observers {
		o.OnBeat(event)
	}
}

// CurrentBeat returns the most recent beat number and its strong flag.
// Before any beat it reports beat 1, weak.
func (t *Tracker) CurrentBeat() (int, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.haveBeat {
		return 1, false
	}
	return t.lastBeat, t.lastStrong
}

// LastBeatTime returns the scheduled instant of the most recent beat, and
// whether any beat has been published yet.
func (t *Tracker) LastBeatTime() (time.Time, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.lastAt, t.haveBeat
}
