package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRealClockNowIsCloseToWallClock(t *testing.T) {
	before := time.Now()
	got := RealClock{}.Now()
	after := time.Now()

	assert.False(t, got.Before(before))
	assert.False(t, got.After(after))
}

type fakeClock struct{ t time.Time }

func (f fakeClock) Now() time.Time { return f.t }

func TestClockInterfaceIsSatisfiableByAFake(t *testing.T) {
	want := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	var c Clock = fakeClock{t: want}
	assert.Equal(t, want, c.Now())
}
