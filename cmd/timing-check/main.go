package main

import (
	"flag"
	"fmt"
	"math"
	"math/rand"
	"os"
	"time"

	"github.com/cwbudde/algo-synth/timing"
)

// Measures the scheduler against the ideal beat grid. In simulated mode the
// clock is synthetic and irregular on purpose: the emitted instants must
// still land exactly on anchor + i*period. In live mode the real clock is
// polled and the observation latency is reported (the jitter lives in the
// host, not in the schedule).

func main() {
	tempo := flag.Float64("tempo", 120.0, "Tempo in beats per minute")
	beats := flag.Int("beats", 4, "Beats per measure")
	duration := flag.Float64("duration", 10.0, "Measurement length in seconds")
	simulate := flag.Bool("simulate", true, "Use a synthetic irregular clock instead of real time")
	seed := flag.Int64("seed", 1, "Random seed for simulated poll jitter")
	flag.Parse()

	sig, err := timing.NewTimeSignature(*beats, 4)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	sched := timing.NewScheduler(sig)
	if *simulate {
		runSimulated(sched, *tempo, *duration, *seed)
	} else {
		runLive(sched, *tempo, *duration)
	}
}

func runSimulated(sched *timing.Scheduler, tempo float64, duration float64, seed int64) {
	rng := rand.New(rand.NewSource(seed))
	anchor := time.Unix(0, 0)

	sched.SetTempo(anchor, tempo)
	sched.Start(anchor)

	period := 60.0 / tempo
	var maxDev, sumDev float64
	var count int

	now := anchor
	end := anchor.Add(time.Duration(duration * float64(time.Second)))
	for now.Before(end) {
		// Irregular polling between 0.1 ms and 80 ms.
		step := time.Duration((0.1 + rng.Float64()*79.9) * float64(time.Millisecond))
		now = now.Add(step)
		for _, ev := range sched.CheckTriggers(now) {
			idealNanos := float64(count) * period * 1e9
			dev := math.Abs(float64(ev.ScheduledAt.Sub(anchor)) - idealNanos)
			if dev > maxDev {
				maxDev = dev
			}
			sumDev += dev
			count++
		}
	}

	fmt.Printf("Simulated %.1fs at %.0f BPM: %d beats\n", duration, tempo, count)
	fmt.Printf("Schedule deviation from ideal grid: max %.3fus mean %.3fus\n",
		maxDev/1e3, sumDev/float64(max(count, 1))/1e3)
	if maxDev >= 1e3 {
		fmt.Println("FAIL: scheduled instants drifted off the grid")
		os.Exit(1)
	}
	fmt.Println("OK: zero cumulative drift")
}

func runLive(sched *timing.Scheduler, tempo float64, duration float64) {
	start := time.Now()
	sched.SetTempo(start, tempo)
	sched.Start(start)

	var maxLate, sumLate float64
	var count int

	for time.Since(start).Seconds() < duration {
		now := time.Now()
		for _, ev := range sched.CheckTriggers(now) {
			late := float64(now.Sub(ev.ScheduledAt)) / 1e6
			if late > maxLate {
				maxLate = late
			}
			sumLate += late
			count++
		}
		time.Sleep(500 * time.Microsecond)
	}

	fmt.Printf("Live %.1fs at %.0f BPM: %d beats\n", duration, tempo, count)
	fmt.Printf("Observation latency: max %.3fms mean %.3fms\n",
		maxLate, sumLate/float64(max(count, 1)))
}
