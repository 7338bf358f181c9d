package game

import (
	"time"
)

// Clock schedules delayed callbacks. Production lobbies use the wall clock;
// tests substitute a manual one.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Stopper
}

type Stopper interface {
	Stop() bool
}

type wallClock struct{}

func (wallClock) AfterFunc(d time.Duration, f func()) Stopper {
	return time.AfterFunc(d, f)
}

// timer is a scheduled lobby callback. done is only touched under the lobby
// lock, so a cancelled timer can never run its callback even if the
// underlying clock already fired it.
type timer struct {
	name    string
	stopper Stopper
	done    bool
}

func (t *timer) cancel() {
	if t == nil || t.done {
		return
	}
	t.done = true
	t.stopper.Stop()
}

// schedule must be called with l.mu held.
func (l *Lobby) schedule(d time.Duration, name string, fn func() error) *timer {
	t := &timer{name: name}
	t.stopper = l.clock.AfterFunc(d, func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		if t.done {
			l.log.Debug().Str("timer", name).Msg("stale timer ignored")
			return
		}
		t.done = true
		l.log.Debug().Str("timer", name).Str("phase", string(l.phase.kind)).Msg("timer fired")
		if err := fn(); err != nil {
			l.log.Error().Err(err).Str("timer", name).Msg("scheduled transition failed")
		}
	})
	return t
}
