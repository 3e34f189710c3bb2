package ttd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModeStackComputedIsBitwiseOr(t *testing.T) {
	ms := NewModeStack(ModeRecordEnabled, nil)
	assert.Equal(t, ModeRecordEnabled, ms.Computed())

	ms.Push(ModeExcludedExecution)
	assert.Equal(t, ModeRecordEnabled|ModeExcludedExecution, ms.Computed())

	ms.Pop(ModeExcludedExecution)
	assert.Equal(t, ModeRecordEnabled, ms.Computed())
}

func TestModeStackShouldRecordRespectsExcludedExecution(t *testing.T) {
	ms := NewModeStack(ModeRecordEnabled, nil)
	assert.True(t, ms.ShouldRecord())

	ms.Push(ModeExcludedExecution)
	assert.False(t, ms.ShouldRecord())
	ms.Pop(ModeExcludedExecution)
	assert.True(t, ms.ShouldRecord())
}

func TestModeStackShouldReplay(t *testing.T) {
	ms := NewModeStack(ModeDebuggingEnabled, nil)
	assert.True(t, ms.ShouldReplay())

	ms.SetBase(ModeRecordEnabled)
	assert.False(t, ms.ShouldReplay())
}

func TestModeStackUnbalancedPopPanics(t *testing.T) {
	ms := NewModeStack(ModePending, nil)
	assert.Panics(t, func() { ms.Pop(ModeExcludedExecution) })
}

func TestModeStackWrongOverlayPopPanics(t *testing.T) {
	ms := NewModeStack(ModePending, nil)
	ms.Push(ModeExcludedExecution)
	assert.Panics(t, func() { ms.Pop(ModeRecordEnabled) })
}

func TestNewModeStackRejectsNonBaseMode(t *testing.T) {
	assert.Panics(t, func() { NewModeStack(ModeExcludedExecution, nil) })
}

func TestModeStackOnApplyFiresOnEveryTransition(t *testing.T) {
	var seen []Mode
	ms := NewModeStack(ModePending, func(m Mode) { seen = append(seen, m) })
	ms.Push(ModeExcludedExecution)
	ms.Pop(ModeExcludedExecution)

	require.Len(t, seen, 3)
	assert.Equal(t, ModePending, seen[0])
	assert.Equal(t, ModePending|ModeExcludedExecution, seen[1])
	assert.Equal(t, ModePending, seen[2])
}
