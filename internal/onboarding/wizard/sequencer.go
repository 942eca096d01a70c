// Package wizard holds the core state machine of the account-opening flow:
// the step sequencer and the form data accumulator.
package wizard

// Sequencer is a pure position tracker over a flow's fixed step list. It
// performs no per-step validation; step screens call Advance only after their
// own checks succeed. Position totalSteps+1 is the terminal marker that
// renders the success screen.
type Sequencer struct {
	current int
	total   int
}

// NewSequencer clamps the given position into [1, total+1] so corrupt or
// stale persisted positions can never escape the valid range.
func NewSequencer(current, total int) Sequencer {
	if current < 1 {
		current = 1
	}
	if current > total+1 {
		current = total + 1
	}
	return Sequencer{current: current, total: total}
}

// Current returns the 1-indexed position.
func (s Sequencer) Current() int { return s.current }

// TotalSteps returns the fixed step count of the active flow.
func (s Sequencer) TotalSteps() int { return s.total }

// Completed reports whether the position is the terminal marker.
func (s Sequencer) Completed() bool { return s.current == s.total+1 }

// Advance moves forward one step, saturating at the terminal marker.
func (s Sequencer) Advance() Sequencer {
	if s.current < s.total+1 {
		s.current++
	}
	return s
}

// Retreat moves back one step, never below the first.
func (s Sequencer) Retreat() Sequencer {
	if s.current > 1 {
		s.current--
	}
	return s
}

// JumpTo moves to a previously visited step. Forward jumps past the current
// position are silently ignored: skipping unvalidated steps is a guarded
// no-op, not an error.
func (s Sequencer) JumpTo(position int) Sequencer {
	if position >= 1 && position <= s.current {
		s.current = position
	}
	return s
}
