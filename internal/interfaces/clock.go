package interfaces

import "time"

// Clock abstracts time.Now so workflow timestamps are testable.
type Clock interface {
	Now() time.Time
}

type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }
