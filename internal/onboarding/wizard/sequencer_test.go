package wizard

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewSequencerClampsRange(t *testing.T) {
	tests := []struct {
		name    string
		current int
		total   int
		want    int
	}{
		{"below range", -3, 13, 1},
		{"zero", 0, 13, 1},
		{"first", 1, 13, 1},
		{"within", 7, 13, 7},
		{"last", 13, 13, 13},
		{"terminal", 14, 13, 14},
		{"beyond terminal", 99, 13, 14},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NewSequencer(tt.current, tt.total).Current())
		})
	}
}

func TestAdvanceSaturatesAtTerminal(t *testing.T) {
	s := NewSequencer(3, 3)
	s = s.Advance()
	assert.Equal(t, 4, s.Current())
	assert.True(t, s.Completed())

	s = s.Advance()
	assert.Equal(t, 4, s.Current())
}

func TestRetreatFloorsAtFirst(t *testing.T) {
	s := NewSequencer(2, 13)
	s = s.Retreat()
	assert.Equal(t, 1, s.Current())

	s = s.Retreat()
	assert.Equal(t, 1, s.Current())
}

func TestJumpToOnlyBackward(t *testing.T) {
	s := NewSequencer(5, 13)

	assert.Equal(t, 2, s.JumpTo(2).Current())
	assert.Equal(t, 5, s.JumpTo(5).Current(), "jump to current is allowed")
	assert.Equal(t, 5, s.JumpTo(6).Current(), "forward jump ignored")
	assert.Equal(t, 5, s.JumpTo(0).Current(), "below range ignored")
	assert.Equal(t, 5, s.JumpTo(-1).Current())
}

func TestCompleted(t *testing.T) {
	assert.False(t, NewSequencer(13, 13).Completed())
	assert.True(t, NewSequencer(14, 13).Completed())
}
