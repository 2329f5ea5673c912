package ports

import "time"

// Clock abstracts time for the cache store and coordinator so freshness
// boundaries can be tested with a fake clock.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }
