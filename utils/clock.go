package utils

import "time"

// Clock supplies the current instant. Services take one so tests can pin "now".
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock in UTC.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }

// FixedClock always returns the same instant.
type FixedClock struct {
	At time.Time
}

func (f FixedClock) Now() time.Time { return f.At }
