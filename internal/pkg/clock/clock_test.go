package clock

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	berlin := time.FixedZone("CEST", 2*60*60)
	in := time.Date(2025, 7, 1, 14, 0, 0, 123456789, berlin)

	got := Normalize(in)
	assert.Equal(t, time.UTC, got.Location())
	assert.Equal(t, time.Date(2025, 7, 1, 12, 0, 0, 123456000, time.UTC), got)
	assert.True(t, got.Equal(Normalize(got)))
}

func TestRealClock(t *testing.T) {
	now := NewRealClock().Now()
	assert.Equal(t, time.UTC, now.Location())
	assert.Zero(t, now.Nanosecond()%int(Precision))
}

func TestAt(t *testing.T) {
	pinned := time.Date(2025, 7, 1, 12, 0, 0, 999, time.UTC)
	clk := At(pinned)

	assert.Equal(t, time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC), clk.Now())
	assert.Equal(t, clk.Now(), clk.Now())
}

func TestMockClock(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	clk := NewMockClock(start)

	t.Run("returns start time", func(t *testing.T) {
		assert.Equal(t, start, clk.Now())
	})

	t.Run("advance moves forward", func(t *testing.T) {
		clk.Advance(time.Hour)
		assert.Equal(t, start.Add(time.Hour), clk.Now())
	})

	t.Run("advance drops sub-microsecond steps", func(t *testing.T) {
		clk.Set(start)
		clk.Advance(time.Nanosecond)
		assert.Equal(t, start, clk.Now())
	})

	t.Run("set replaces time", func(t *testing.T) {
		clk.Set(start.In(time.FixedZone("EST", -5*60*60)))
		assert.Equal(t, start, clk.Now())
	})

	t.Run("concurrent readers and writers", func(t *testing.T) {
		clk.Set(start)
		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			wg.Add(2)
			go func() {
				defer wg.Done()
				clk.Advance(time.Second)
			}()
			go func() {
				defer wg.Done()
				_ = clk.Now()
			}()
		}
		wg.Wait()
		assert.Equal(t, start.Add(8*time.Second), clk.Now())
	})
}
