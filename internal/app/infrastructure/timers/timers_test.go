package timers

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimingWheel_Repeats(t *testing.T) {
	tw := NewTimingWheel(5*time.Millisecond, 4)
	defer tw.Stop()

	var calls atomic.Int32
	tw.AddTimer("sweep", 10*time.Millisecond, func() { calls.Add(1) })

	require.Eventually(t, func() bool { return calls.Load() >= 3 }, time.Second, 5*time.Millisecond,
		"повторяющаяся задача должна запускаться несколько раз")
}

func TestTimingWheel_LongInterval(t *testing.T) {
	tw := NewTimingWheel(2*time.Millisecond, 2)
	defer tw.Stop()

	var calls atomic.Int32
	// интервал длиннее полного оборота колеса
	tw.AddTimer("long", 20*time.Millisecond, func() { calls.Add(1) })

	time.Sleep(8 * time.Millisecond)
	assert.Zero(t, calls.Load(), "задача не должна сработать раньше интервала")

	require.Eventually(t, func() bool { return calls.Load() >= 1 }, time.Second, 2*time.Millisecond)
}

func TestTimingWheel_RemoveAndStop(t *testing.T) {
	tw := NewTimingWheel(2*time.Millisecond, 8)

	var calls atomic.Int32
	tw.AddTimer("x", 4*time.Millisecond, func() { calls.Add(1) })
	tw.RemoveTimer("x")

	time.Sleep(30 * time.Millisecond)
	assert.Zero(t, calls.Load(), "удалённый таймер не должен срабатывать")

	tw.AddTimer("y", 4*time.Millisecond, func() { calls.Add(1) })
	tw.Stop()
	tw.Stop()

	time.Sleep(30 * time.Millisecond)
	assert.LessOrEqual(t, calls.Load(), int32(1), "после Stop задачи не планируются")
}

func TestTimingWheel_FullTurnFiresOncePerTurn(t *testing.T) {
	// тикер не успеет сработать, тики вызываются вручную
	tw := NewTimingWheel(time.Hour, 4)
	defer tw.Stop()

	var calls atomic.Int32
	for i := range 20 {
		tw.AddTimer(fmt.Sprintf("turn-%d", i), 4*time.Hour, func() { calls.Add(1) })
	}

	for range 3 * 4 {
		tw.tick()
	}

	require.Eventually(t, func() bool { return calls.Load() == 60 }, time.Second, time.Millisecond,
		"таймер на полный оборот срабатывает один раз за оборот")
	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, int32(60), calls.Load())
}
