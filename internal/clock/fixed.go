package clock

import (
	"context"
	"time"
)

// Fixed returns the same instant on every call. Intended for tests.
type Fixed struct {
	T time.Time
}

func (f Fixed) Now(ctx context.Context) time.Time {
	return f.T
}
