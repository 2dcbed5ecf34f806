// Package status provides a thread-safe status tracker for the debounce daemon.
// It is read by the HTTP handlers and the MQTT lifecycle events.
package status

import (
	"sync"
	"time"

	"github.com/sweeney/debounce-button/internal/logic"
	"github.com/sweeney/debounce-button/internal/stats"
)

// RecentWindow is how many recent samples and emissions are kept.
const RecentWindow = 20

// NetworkInfo contains network state as reported by pi-helper.
type NetworkInfo struct {
	Type       string
	IP         string
	Status     string
	Gateway    string
	WifiStatus string
	SSID       string
}

// Config contains daemon configuration for display.
type Config struct {
	TickMs           int64
	ShortPressTicks  int
	ReleaseHoldTicks int
	HeartbeatMs      int64
	PinButton        int
	PinWave          int // -1 = disabled
	Broker           string
	HTTPAddr         string
}

// Snapshot is a point-in-time view of daemon state.
// It is a value type; safe to use after the lock is released.
type Snapshot struct {
	State           logic.State
	HoldCount       int
	Ticks           uint64
	Transitions     int
	Emissions       logic.EmissionCounts
	ReadErrors      int
	Jitter          stats.Summary // tick interval, milliseconds
	RecentSamples   []bool
	RecentEmissions []string
	StartTime       time.Time
	Now             time.Time
	MQTTConnected   bool
	Network         *NetworkInfo
	Config          Config
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Tracker holds mutable daemon state behind an RWMutex.
type Tracker struct {
	mu   sync.RWMutex
	snap Snapshot
}

// NewTracker creates a Tracker with the given start time and config.
func NewTracker(startTime time.Time, cfg Config) *Tracker {
	return &Tracker{
		snap: Snapshot{
			State:     logic.StateIdle,
			StartTime: startTime,
			Config:    cfg,
		},
	}
}

// Update sets machine state and counters.
// Called from runLoop on every tick.
func (t *Tracker) Update(state logic.State, holdCount int, ticks uint64, transitions int, emissions logic.EmissionCounts) {
	t.mu.Lock()
	t.snap.State = state
	t.snap.HoldCount = holdCount
	t.snap.Ticks = ticks
	t.snap.Transitions = transitions
	t.snap.Emissions = emissions
	t.mu.Unlock()
}

// RecordSample appends one tick's reading and, if emitted, its character to
// the recent windows.
func (t *Tracker) RecordSample(pressed bool, char rune, emitted bool) {
	t.mu.Lock()
	t.snap.RecentSamples = appendWindow(t.snap.RecentSamples, pressed)
	if emitted {
		t.snap.RecentEmissions = appendWindow(t.snap.RecentEmissions, string(char))
	}
	t.mu.Unlock()
}

func appendWindow[T any](s []T, v T) []T {
	s = append(s, v)
	if len(s) > RecentWindow {
		s = s[len(s)-RecentWindow:]
	}
	return s
}

// IncReadErrors counts one failed GPIO read.
func (t *Tracker) IncReadErrors() {
	t.mu.Lock()
	t.snap.ReadErrors++
	t.mu.Unlock()
}

// SetJitter sets the tick interval statistics.
func (t *Tracker) SetJitter(s stats.Summary) {
	t.mu.Lock()
	t.snap.Jitter = s
	t.mu.Unlock()
}

// SetMQTTConnected sets the MQTT connection status.
func (t *Tracker) SetMQTTConnected(connected bool) {
	t.mu.Lock()
	t.snap.MQTTConnected = connected
	t.mu.Unlock()
}

// SetNetwork sets the network info.
func (t *Tracker) SetNetwork(info *NetworkInfo) {
	t.mu.Lock()
	t.snap.Network = info
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the daemon state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	s.RecentSamples = append([]bool(nil), t.snap.RecentSamples...)
	s.RecentEmissions = append([]string(nil), t.snap.RecentEmissions...)
	t.mu.RUnlock()
	s.Now = time.Now()
	return s
}
