package domain

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

var eventClock = struct {
	sync.RWMutex
	c clockwork.Clock
}{c: clockwork.NewRealClock()}

// SetClock replaces the clock that stamps navigation events and returns a
// func restoring the previous one. A nil clock selects real time.
func SetClock(c clockwork.Clock) (restore func()) {
	if c == nil {
		c = clockwork.NewRealClock()
	}
	eventClock.Lock()
	prev := eventClock.c
	eventClock.c = c
	eventClock.Unlock()
	return func() { SetClock(prev) }
}

func now() time.Time {
	eventClock.RLock()
	defer eventClock.RUnlock()
	return eventClock.c.Now()
}
