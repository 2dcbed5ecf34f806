// Package logic contains the pure button debounce state machine.
// This package has NO external dependencies (no GPIO, MQTT, OS, or time.Sleep).
// The machine is stepped once per tick; the caller owns the tick period.
package logic

import "time"

// State is one of the four debounce states.
type State int

const (
	StateIdle State = iota
	StateShortPress
	StateLongHold
	StateReleaseHold
)

// String returns the wire name of the state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "IDLE"
	case StateShortPress:
		return "SHORT_PRESS"
	case StateLongHold:
		return "LONG_HOLD"
	case StateReleaseHold:
		return "RELEASE_HOLD"
	}
	return "UNKNOWN"
}

// States lists every state in declaration order.
var States = []State{StateIdle, StateShortPress, StateLongHold, StateReleaseHold}

// TickPeriod is the scheduling period the thresholds below are scaled to.
// Changing it requires rescaling ShortPressTicks and ReleaseHoldTicks.
const TickPeriod = 100 * time.Millisecond

// Dwell limits, expressed in ticks of TickPeriod.
const (
	ShortPressTicks  = int(5 * time.Second / TickPeriod) // 50
	ReleaseHoldTicks = int(1 * time.Second / TickPeriod) // 10
)

// Characters written to the output sink while in each emitting state.
const (
	CharShortPress  = '?'
	CharLongHold    = '@'
	CharReleaseHold = '!'
)

// Transition records a state change taken during one tick.
type Transition struct {
	From State
	To   State
}

// Result is the outcome of a single tick.
type Result struct {
	Char       rune // valid only when Emitted
	Emitted    bool
	Transition *Transition // nil if the state did not change
}

// EmissionCounts tracks how many times each character was emitted.
type EmissionCounts struct {
	ShortPress  int // '?'
	LongHold    int // '@'
	ReleaseHold int // '!'
}

// Add counts one emitted character. Unknown characters are ignored.
func (c *EmissionCounts) Add(r rune) {
	switch r {
	case CharShortPress:
		c.ShortPress++
	case CharLongHold:
		c.LongHold++
	case CharReleaseHold:
		c.ReleaseHold++
	}
}

// Total returns the number of characters counted.
func (c EmissionCounts) Total() int {
	return c.ShortPress + c.LongHold + c.ReleaseHold
}

// Event is a transition stamped with when it happened, for publishing.
type Event struct {
	Timestamp time.Time
	From      State
	To        State
	Tick      uint64 // tick number the transition was taken on, from 1
}
