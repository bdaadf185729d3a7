package domain

import "time"

// Clock supplies "now" for deadline checks. Stored timestamps carry
// whole-second precision, so implementations must truncate accordingly.
type Clock interface {
	Now() time.Time
}

// SysClock reads the wall clock in UTC, truncated to whole seconds.
type SysClock struct{}

func (SysClock) Now() time.Time { return time.Now().UTC().Truncate(time.Second) }
