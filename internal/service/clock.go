package service

import "time"

// Clock is the time source for note and user timestamps.
type Clock func() time.Time

// SystemClock returns the current instant in UTC.
func SystemClock() time.Time {
	return time.Now().UTC()
}
