package utils

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockClock(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := NewMockClock(start)
	clock.Advance(3 * time.Second)

	assert.Equal(t, start.Add(3*time.Second), clock.Now())
	assert.Equal(t, 3*time.Second, clock.Since(start))
}

func TestRealClock(t *testing.T) {
	past := time.Now().Add(-time.Second)
	assert.GreaterOrEqual(t, RealClock{}.Since(past), time.Second)
}

func TestTimer_Phases(t *testing.T) {
	clock := NewMockClock(time.Now())
	timer := NewTimer("report", WithClock(clock))

	load := timer.Start("load")
	clock.Advance(100 * time.Millisecond)
	load.Stop()

	render := timer.Start("render")
	clock.Advance(250 * time.Millisecond)
	assert.Equal(t, 250*time.Millisecond, render.Stop())

	clock.Advance(time.Second)
	assert.Equal(t, 250*time.Millisecond, render.Stop(), "second stop is ignored")

	phases := timer.Phases()
	require.Len(t, phases, 2)
	assert.Equal(t, "load", phases[0].Name)
	assert.Equal(t, 100*time.Millisecond, phases[0].Duration)
	assert.Equal(t, "render", phases[1].Name)
	assert.Equal(t, 1350*time.Millisecond, timer.Total())
}

func TestTimer_Time(t *testing.T) {
	clock := NewMockClock(time.Now())
	timer := NewTimer("report", WithClock(clock))

	boom := errors.New("boom")
	err := timer.Time("write", func() error {
		clock.Advance(time.Second)
		return boom
	})

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, time.Second, timer.Duration("write"))
	assert.Equal(t, time.Duration(0), timer.Duration("absent"))
}

func TestTimer_Restart(t *testing.T) {
	clock := NewMockClock(time.Now())
	timer := NewTimer("report", WithClock(clock))

	timer.Start("load").Stop()
	pt := timer.Start("load")
	clock.Advance(time.Second)
	pt.Stop()

	assert.Len(t, timer.Phases(), 1)
	assert.Equal(t, time.Second, timer.Duration("load"))
}

func TestTimer_Disabled(t *testing.T) {
	timer := NewTimer("report", WithEnabled(false))
	assert.Equal(t, time.Duration(0), timer.Start("load").Stop())
	assert.Empty(t, timer.Phases())
	assert.Equal(t, "", timer.Summary())

	var nilTimer *Timer
	assert.Equal(t, time.Duration(0), nilTimer.Start("load").Stop())
	assert.NoError(t, nilTimer.Time("load", func() error { return nil }))
}

func TestTimer_SummaryAndLog(t *testing.T) {
	clock := NewMockClock(time.Now())
	timer := NewTimer("report", WithClock(clock))
	pt := timer.Start("load")
	clock.Advance(2 * time.Second)
	pt.Stop()

	summary := timer.Summary()
	assert.True(t, strings.HasPrefix(summary, "=== report timing ===\n"))
	assert.Contains(t, summary, "1. load: 2s\n")
	assert.Contains(t, summary, "Total: 2s\n")

	buf := &bytes.Buffer{}
	timer.Log(NewDefaultLogger(LevelInfo, buf))
	assert.Contains(t, buf.String(), "1. load: 2s")
}
