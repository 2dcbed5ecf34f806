package stats

import (
	"math"
	"sync"
	"testing"
)

const tolerance = 1e-9

func approx(a, b float64) bool {
	return math.Abs(a-b) < tolerance
}

func TestEmptyTracker(t *testing.T) {
	var tr Tracker
	if tr.Count() != 0 {
		t.Errorf("Count: got %d, want 0", tr.Count())
	}
	if !math.IsNaN(tr.Average()) {
		t.Errorf("Average of empty tracker: got %v, want NaN", tr.Average())
	}
	if !math.IsNaN(tr.StdDev()) {
		t.Errorf("StdDev of empty tracker: got %v, want NaN", tr.StdDev())
	}
}

func TestAverageAndStdDev(t *testing.T) {
	tests := []struct {
		name    string
		samples []float64
		mean    float64
		stdDev  float64
	}{
		{"mixed signs", []float64{32, -20, 3.2}, 5.066666666666666, 21.269905709449887},
		{"grades", []float64{100, 50, 89, 93.5}, 83.125, 19.520421998512226},
		{"constant", []float64{7, 7, 7, 7}, 7, 0},
		{"single", []float64{42}, 42, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var tr Tracker
			for _, x := range tt.samples {
				tr.Add(x)
			}
			if tr.Count() != len(tt.samples) {
				t.Errorf("Count: got %d, want %d", tr.Count(), len(tt.samples))
			}
			if math.Abs(tr.Average()-tt.mean) > 1e-6 {
				t.Errorf("Average: got %v, want %v", tr.Average(), tt.mean)
			}
			if math.Abs(tr.StdDev()-tt.stdDev) > 1e-6 {
				t.Errorf("StdDev: got %v, want %v", tr.StdDev(), tt.stdDev)
			}
		})
	}
}

func TestClear(t *testing.T) {
	var tr Tracker
	tr.Add(32)
	tr.Add(-20)
	tr.Clear()

	if tr.Count() != 0 {
		t.Errorf("Count after Clear: got %d, want 0", tr.Count())
	}

	tr.Add(100)
	tr.Add(50)
	if !approx(tr.Average(), 75) {
		t.Errorf("Average after Clear: got %v, want 75", tr.Average())
	}
	s := tr.Summary()
	if s.Min != 50 || s.Max != 100 {
		t.Errorf("Min/Max after Clear: got %v/%v, want 50/100", s.Min, s.Max)
	}
}

func TestSummary(t *testing.T) {
	var tr Tracker
	for _, x := range []float64{100, 99, 101, 100} {
		tr.Add(x)
	}
	s := tr.Summary()
	if s.Count != 4 {
		t.Errorf("Count: got %d, want 4", s.Count)
	}
	if !approx(s.Mean, 100) {
		t.Errorf("Mean: got %v, want 100", s.Mean)
	}
	if !approx(s.StdDev, math.Sqrt(0.5)) {
		t.Errorf("StdDev: got %v, want %v", s.StdDev, math.Sqrt(0.5))
	}
	if s.Min != 99 || s.Max != 101 {
		t.Errorf("Min/Max: got %v/%v, want 99/101", s.Min, s.Max)
	}
}

func TestConcurrentAdd(t *testing.T) {
	var tr Tracker
	var wg sync.WaitGroup
	for g := 0; g < 4; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 1000; i++ {
				tr.Add(1)
				_ = tr.Summary()
			}
		}()
	}
	wg.Wait()

	if tr.Count() != 4000 {
		t.Errorf("Count: got %d, want 4000", tr.Count())
	}
}
