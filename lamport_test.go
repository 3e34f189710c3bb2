package ttd

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEventClockFirstEntryIsZero(t *testing.T) {
	var c EventClock
	assert.Equal(t, uint64(0), c.GetAndAdvance())
	assert.Equal(t, uint64(1), c.GetAndAdvance())
	assert.Equal(t, uint64(2), c.GetAndAdvance())
	assert.Equal(t, uint64(3), c.Time())
}

func TestEventClockSet(t *testing.T) {
	var c EventClock
	c.GetAndAdvance()
	c.GetAndAdvance()
	c.Set(10)
	assert.Equal(t, uint64(10), c.Time())
	assert.Equal(t, uint64(10), c.GetAndAdvance())
}

func TestFunctionClockAdvanceAndReset(t *testing.T) {
	var c FunctionClock
	assert.Equal(t, uint64(1), c.Advance())
	assert.Equal(t, uint64(2), c.Advance())
	c.Reset()
	assert.Equal(t, uint64(0), c.Time())
}
