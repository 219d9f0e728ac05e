package utils

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// Phase is one timed stage of a run.
type Phase struct {
	Name     string
	Duration time.Duration
	start    time.Time
	done     bool
}

// PhaseTimer stops a single phase. It is meant for defer.
type PhaseTimer struct {
	timer *Timer
	name  string
}

// Stop records the phase duration. Only the first call has effect.
func (pt *PhaseTimer) Stop() time.Duration {
	return pt.timer.stop(pt.name)
}

// Timer records the duration of named phases in the order they start.
// A disabled timer records nothing.
type Timer struct {
	mu      sync.Mutex
	name    string
	start   time.Time
	phases  []*Phase
	index   map[string]*Phase
	enabled bool
	clock   Clock
}

// TimerOption configures a Timer.
type TimerOption func(*Timer)

// WithEnabled turns recording on or off.
func WithEnabled(enabled bool) TimerOption {
	return func(t *Timer) { t.enabled = enabled }
}

// WithClock sets the clock used for measurements.
func WithClock(clock Clock) TimerOption {
	return func(t *Timer) { t.clock = clock }
}

// NewTimer creates an enabled Timer.
func NewTimer(name string, opts ...TimerOption) *Timer {
	t := &Timer{
		name:    name,
		index:   make(map[string]*Phase),
		enabled: true,
		clock:   RealClock{},
	}
	for _, opt := range opts {
		opt(t)
	}
	t.start = t.clock.Now()
	return t
}

// Start begins timing the named phase. Restarting a phase resets it.
func (t *Timer) Start(name string) *PhaseTimer {
	pt := &PhaseTimer{timer: t, name: name}
	if t == nil || !t.enabled {
		return pt
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if p, ok := t.index[name]; ok {
		p.start, p.done, p.Duration = t.clock.Now(), false, 0
		return pt
	}
	p := &Phase{Name: name, start: t.clock.Now()}
	t.phases = append(t.phases, p)
	t.index[name] = p
	return pt
}

func (t *Timer) stop(name string) time.Duration {
	if t == nil || !t.enabled {
		return 0
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	p, ok := t.index[name]
	if !ok {
		return 0
	}
	if !p.done {
		p.Duration = t.clock.Since(p.start)
		p.done = true
	}
	return p.Duration
}

// Time runs fn as the named phase.
func (t *Timer) Time(name string, fn func() error) error {
	pt := t.Start(name)
	defer pt.Stop()
	return fn()
}

// Duration returns the recorded duration of a phase.
func (t *Timer) Duration(name string) time.Duration {
	if t == nil {
		return 0
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if p, ok := t.index[name]; ok {
		return p.Duration
	}
	return 0
}

// Phases returns copies of the recorded phases in start order.
func (t *Timer) Phases() []Phase {
	if t == nil {
		return nil
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Phase, 0, len(t.phases))
	for _, p := range t.phases {
		out = append(out, Phase{Name: p.Name, Duration: p.Duration})
	}
	return out
}

// Total returns the time elapsed since the timer was created.
func (t *Timer) Total() time.Duration {
	return t.clock.Since(t.start)
}

// Summary formats the recorded phases, one per line.
func (t *Timer) Summary() string {
	if t == nil || !t.enabled {
		return ""
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "=== %s timing ===\n", t.name)
	for i, p := range t.Phases() {
		fmt.Fprintf(&sb, "%d. %s: %v\n", i+1, p.Name, p.Duration)
	}
	fmt.Fprintf(&sb, "Total: %v\n", t.Total())
	return sb.String()
}

// Log writes the summary to logger at info level.
func (t *Timer) Log(logger Logger) {
	if t == nil || !t.enabled || logger == nil {
		return
	}
	logger.Info("=== %s timing ===", t.name)
	for i, p := range t.Phases() {
		logger.Info("%d. %s: %v", i+1, p.Name, p.Duration)
	}
	logger.Info("Total: %v", t.Total())
}
