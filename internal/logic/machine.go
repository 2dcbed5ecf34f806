package logic

// Machine is the button debounce state machine.
//
// Each call to Step evaluates exactly one state: the one the machine was in
// before the tick. The emitted character belongs to that pre-tick state, and
// any transition takes effect from the next tick on.
type Machine struct {
	state State
	count int
}

// NewMachine creates a machine in StateIdle with a zero hold counter.
func NewMachine() *Machine {
	return &Machine{state: StateIdle}
}

// Step consumes one logical reading (true = pressed) and returns the
// character to emit for this tick, if any.
func (m *Machine) Step(pressed bool) (rune, bool) {
	r := m.StepDetailed(pressed)
	return r.Char, r.Emitted
}

// StepDetailed is Step, also reporting the transition taken on this tick.
func (m *Machine) StepDetailed(pressed bool) Result {
	var res Result
	from := m.state

	switch m.state {
	case StateIdle:
		m.count = 0
		if pressed {
			m.enter(StateShortPress)
		}

	case StateShortPress:
		res.Char, res.Emitted = CharShortPress, true
		m.count++
		if !pressed {
			m.enter(StateIdle)
		} else if m.count >= ShortPressTicks {
			m.enter(StateLongHold)
		}

	case StateLongHold:
		res.Char, res.Emitted = CharLongHold, true
		if pressed {
			m.enter(StateReleaseHold)
		}

	case StateReleaseHold:
		res.Char, res.Emitted = CharReleaseHold, true
		m.count++
		if !pressed {
			m.enter(StateLongHold)
		} else if m.count >= ReleaseHoldTicks {
			m.enter(StateIdle)
		}
	}

	if m.state != from {
		res.Transition = &Transition{From: from, To: m.state}
	}
	return res
}

// enter switches state, zeroing the hold counter for states whose dwell
// time is measured from entry.
func (m *Machine) enter(s State) {
	m.state = s
	if s == StateIdle || s == StateReleaseHold {
		m.count = 0
	}
}

// State returns the current state.
func (m *Machine) State() State {
	return m.state
}

// Count returns the hold counter.
func (m *Machine) Count() int {
	return m.count
}
