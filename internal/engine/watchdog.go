package engine

import (
	"time"
)

// watchdog runs fire if an armed operation is not disarmed within timeout.
// It is armed around every blocking network call. A zero timeout disables it.
type watchdog struct {
	timer   *time.Timer
	timeout time.Duration
	fire    func()
}

func newWatchdog(timeout time.Duration, fire func()) *watchdog {
	return &watchdog{timeout: timeout, fire: fire}
}

// Arm starts the countdown. The timer is created on first use so nothing can
// fire before the watchdog was armed once.
func (wd *watchdog) Arm() {
	if wd.timeout <= 0 {
		return
	}
	if wd.timer == nil {
		wd.timer = time.AfterFunc(wd.timeout, wd.fire)
		return
	}
	wd.timer.Reset(wd.timeout)
}

// Disarm stops the countdown. It returns false if the watchdog already fired,
// in which case the guarded operation must be treated as timed out even if
// it returned successfully.
func (wd *watchdog) Disarm() bool {
	if wd.timer == nil {
		return true
	}
	return wd.timer.Stop()
}
