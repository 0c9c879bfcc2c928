package clock

import "time"

// Clock returns the current time. Services take one so tests can pin "now".
type Clock func() time.Time

// Real is the wall clock.
func Real() Clock {
	return time.Now
}

// Fixed always returns t.
func Fixed(t time.Time) Clock {
	return func() time.Time { return t }
}
