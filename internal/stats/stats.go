// Package stats provides a running statistics accumulator.
//
// Only the count, sum and sum of squares are kept, so memory use is constant
// regardless of how many samples are added.
package stats

import (
	"math"
	"sync"
)

// Tracker accumulates samples and reports their mean and standard deviation.
// Safe for concurrent use.
type Tracker struct {
	mu    sync.Mutex
	count int
	sum   float64
	sumSq float64
	min   float64
	max   float64
}

// Summary is a point-in-time view of a Tracker.
type Summary struct {
	Count  int
	Mean   float64
	StdDev float64
	Min    float64
	Max    float64
}

// Add records one sample.
func (t *Tracker) Add(x float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.count == 0 || x < t.min {
		t.min = x
	}
	if t.count == 0 || x > t.max {
		t.max = x
	}
	t.count++
	t.sum += x
	t.sumSq += x * x
}

// Count returns the number of samples added since the last Clear.
func (t *Tracker) Count() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.count
}

// Average returns the arithmetic mean, or NaN if no samples were added.
func (t *Tracker) Average() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.average()
}

func (t *Tracker) average() float64 {
	if t.count == 0 {
		return math.NaN()
	}
	return t.sum / float64(t.count)
}

// StdDev returns the population standard deviation, or NaN if no samples
// were added.
func (t *Tracker) StdDev() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stdDev()
}

func (t *Tracker) stdDev() float64 {
	if t.count == 0 {
		return math.NaN()
	}
	mean := t.sum / float64(t.count)
	v := t.sumSq/float64(t.count) - mean*mean
	// Rounding can push a zero variance slightly negative.
	if v < 0 {
		v = 0
	}
	return math.Sqrt(v)
}

// Summary returns all statistics under one lock.
func (t *Tracker) Summary() Summary {
	t.mu.Lock()
	defer t.mu.Unlock()
	return Summary{
		Count:  t.count,
		Mean:   t.average(),
		StdDev: t.stdDev(),
		Min:    t.min,
		Max:    t.max,
	}
}

// Clear discards all samples.
func (t *Tracker) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.count = 0
	t.sum = 0
	t.sumSq = 0
	t.min = 0
	t.max = 0
}
