package safety

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonitorEnterLoopOverCap(t *testing.T) {
	cfg := Default()
	cfg.MaxLoopIterations = 10
	m := NewMonitor(cfg, nil)

	err := m.EnterLoop(11)
	require.Error(t, err)

	var v *Violation
	require.True(t, errors.As(err, &v))
	assert.Equal(t, KindLoop, v.Kind)
	assert.Equal(t, float64(10), v.Limit)
}

func TestMonitorEnterLoopWithinCap(t *testing.T) {
	cfg := Default()
	cfg.MaxLoopIterations = 10
	m := NewMonitor(cfg, nil)

	require.NoError(t, m.EnterLoop(3))
	for i := 0; i < 3; i++ {
		_, err := m.LoopStep()
		require.NoError(t, err)
	}
	m.ExitLoop()
}

func TestMonitorRecursionCap(t *testing.T) {
	cfg := Default()
	cfg.MaxRecursionDepth = 2
	m := NewMonitor(cfg, nil)

	_, err := m.EnterCall()
	require.NoError(t, err)
	_, err = m.EnterCall()
	require.NoError(t, err)
	_, err = m.EnterCall()
	require.Error(t, err)

	var v *Violation
	require.True(t, errors.As(err, &v))
	assert.Equal(t, KindRecursion, v.Kind)
}

func TestMonitorTimeout(t *testing.T) {
	cfg := Default()
	cfg.ExecutionTimeoutMS = 10
	m := NewMonitor(cfg, nil)

	time.Sleep(20 * time.Millisecond)
	_, err := m.Tick()
	require.Error(t, err)

	var v *Violation
	require.True(t, errors.As(err, &v))
	assert.Equal(t, KindTimeout, v.Kind)
}

func TestMonitorQuotaMonotonicity(t *testing.T) {
	m := NewMonitor(Default(), nil)
	var last int64
	for i := 0; i < 5; i++ {
		_, err := m.Tick()
		require.NoError(t, err)
		assert.Greater(t, m.InstructionCount(), last)
		last = m.InstructionCount()
	}
}

func TestMonitorResetRearmsCounters(t *testing.T) {
	cfg := Default()
	cfg.MaxRecursionDepth = 1
	m := NewMonitor(cfg, nil)

	_, err := m.EnterCall()
	require.NoError(t, err)
	_, err = m.EnterCall()
	require.Error(t, err)

	m.Reset()
	assert.Equal(t, 0, m.RecursionDepth())
	_, err = m.EnterCall()
	require.NoError(t, err)
}

func TestMonitorOutputCap(t *testing.T) {
	cfg := Default()
	cfg.MemoryLimitMB = 0
	m := NewMonitor(cfg, nil)

	_, err := m.NoteOutput(1)
	require.Error(t, err)
	var v *Violation
	require.True(t, errors.As(err, &v))
	assert.Equal(t, KindOutput, v.Kind)
}
