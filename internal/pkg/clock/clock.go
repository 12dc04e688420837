// Package clock supplies pricing instants. Every instant is UTC at microsecond
// precision, the resolution Spanner stores timestamps at, so a window written
// with an instant reads back equal to it.
package clock

import (
	"sync"
	"time"
)

// Precision is the resolution of every instant a Clock returns.
const Precision = time.Microsecond

// Clock is an interface for time operations to enable testability.
type Clock interface {
	Now() time.Time
}

// Normalize converts t to UTC at Precision and drops its monotonic reading.
func Normalize(t time.Time) time.Time {
	return t.UTC().Truncate(Precision)
}

// RealClock reads the system time.
type RealClock struct{}

// NewRealClock creates a new RealClock.
func NewRealClock() Clock {
	return &RealClock{}
}

// Now returns the current system time, normalized.
func (c *RealClock) Now() time.Time {
	return Normalize(time.Now())
}

// Fixed is a clock pinned to one instant.
type Fixed time.Time

// At returns a clock that always reports t.
func At(t time.Time) Clock {
	return Fixed(Normalize(t))
}

// Now returns the pinned instant.
func (f Fixed) Now() time.Time {
	return time.Time(f)
}

// MockClock is a settable clock for tests.
// It is safe for use by concurrent batch workers.
type MockClock struct {
	mu      sync.RWMutex
	current time.Time
}

// NewMockClock creates a MockClock starting at start.
func NewMockClock(start time.Time) *MockClock {
	return &MockClock{current: Normalize(start)}
}

func (m *MockClock) Now() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

func (m *MockClock) Set(t time.Time) {
	m.mu.Lock()
	m.current = Normalize(t)
	m.mu.Unlock()
}

// Advance moves the clock by d; a negative d moves it back.
func (m *MockClock) Advance(d time.Duration) {
	m.mu.Lock()
	m.current = Normalize(m.current.Add(d))
	m.mu.Unlock()
}
