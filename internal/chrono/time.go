package chrono

import (
	"sync"
	"time"
)

// TimeAPI is the interface that anything depending on the system clock should use.
type TimeAPI interface {
	Now() time.Time
}

// StandardTime is the standard implementation of TimeAPI using the standard library.
type StandardTime struct{}

// NewStandardTime is the constructor of StandardTime.
func NewStandardTime() StandardTime {
	return StandardTime{}
}

func (s StandardTime) Now() time.Time {
	return time.Now()
}

// FakeTime is a TimeAPI that advances by Step every time it is read.
type FakeTime struct {
	mu      sync.Mutex
	current time.Time
	Step    time.Duration
}

func NewFakeTime(start time.Time, step time.Duration) *FakeTime {
	return &FakeTime{current: start, Step: step}
}

func (f *FakeTime) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	now := f.current
	f.current = f.current.Add(f.Step)
	return now
}
