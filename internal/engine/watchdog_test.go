package engine

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWatchdogFires(t *testing.T) {
	fired := make(chan struct{})
	wd := newWatchdog(20*time.Millisecond, func() { close(fired) })

	wd.Arm()
	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatal("watchdog did not fire")
	}
	require.False(t, wd.Disarm())
}

func TestWatchdogDisarmedInTime(t *testing.T) {
	var fired atomic.Bool
	wd := newWatchdog(100*time.Millisecond, func() { fired.Store(true) })

	for i := 0; i < 5; i++ {
		wd.Arm()
		time.Sleep(10 * time.Millisecond)
		require.True(t, wd.Disarm())
	}
	time.Sleep(150 * time.Millisecond)
	require.False(t, fired.Load())
}

func TestWatchdogNotArmedAtCreation(t *testing.T) {
	var fired atomic.Bool
	newWatchdog(10*time.Millisecond, func() { fired.Store(true) })

	time.Sleep(50 * time.Millisecond)
	require.False(t, fired.Load())
}

func TestWatchdogTinyTimeoutWaitsForArm(t *testing.T) {
	var fired atomic.Bool
	wd := newWatchdog(time.Nanosecond, func() { fired.Store(true) })

	time.Sleep(20 * time.Millisecond)
	require.False(t, fired.Load())
	require.Nil(t, wd.timer)
	require.True(t, wd.Disarm())

	wd.Arm()
	require.Eventually(t, fired.Load, 2*time.Second, 5*time.Millisecond)
	require.False(t, wd.Disarm())
}

func TestWatchdogDisabled(t *testing.T) {
	wd := newWatchdog(0, func() { t.Error("disabled watchdog fired") })
	wd.Arm()
	require.True(t, wd.Disarm())
}
