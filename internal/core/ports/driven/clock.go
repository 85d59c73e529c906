package driven

import "time"

// Clock creates timers. The reveal scheduler uses it so tests can step time.
type Clock interface {
	// AfterFunc calls f in its own goroutine after d.
	AfterFunc(d time.Duration, f func()) Timer
}

// Timer is a cancellable pending call.
type Timer interface {
	// Stop prevents the call if it has not started. Returns false if it
	// already fired or was stopped.
	Stop() bool
}
