// Package resttimer is the countdown started between sets.
//
// A Timer goes Stopped -> Running <-> Paused -> Stopped. It decrements once per
// tick (one second with the default ticker), fires its completion signal exactly
// once per run and stops itself on zero. Nothing here is persisted.
package resttimer

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

type State int

const (
	Stopped State = iota
	Running
	Paused
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case Paused:
		return "paused"
	default:
		return "stopped"
	}
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *State) UnmarshalText(text []byte) error {
	switch string(text) {
	case "stopped":
		*s = Stopped
	case "running":
		*s = Running
	case "paused":
		*s = Paused
	default:
		return fmt.Errorf("unknown rest timer state: %s", text)
	}
	return nil
}

var ErrInvalidDuration = errors.New("rest duration must be positive")

// Ticker is the part of time.Ticker the timer needs, so tests can drive ticks by hand.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

type TickerFactory func(d time.Duration) Ticker

type realTicker struct {
	t *time.Ticker
}

func (r realTicker) C() <-chan time.Time { return r.t.C }
func (r realTicker) Stop()               { r.t.Stop() }

func NewRealTicker(d time.Duration) Ticker {
	return realTicker{t: time.NewTicker(d)}
}

type Timer struct {
	mu         sync.Mutex
	state      State
	selected   int
	remaining  int
	gen        uint64
	stop       chan struct{}
	ticker     Ticker
	done       chan struct{}
	newTicker  TickerFactory
	onComplete func()
	wg         sync.WaitGroup
}

type Option func(*Timer)

func WithTickerFactory(f TickerFactory) Option {
	return func(t *Timer) {
		t.newTicker = f
	}
}

// WithOnComplete registers a callback run (outside the timer lock) when a run reaches zero.
func WithOnComplete(f func()) Option {
	return func(t *Timer) {
		t.onComplete = f
	}
}

func New(opts ...Option) *Timer {
	t := &Timer{
		newTicker: NewRealTicker,
		done:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Start begins a new run of seconds. A run already in progress is replaced
// without firing its completion signal.
func (t *Timer) Start(seconds int) error {
	if seconds <= 0 {
		return ErrInvalidDuration
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.stopLoopLocked()
	t.selected = seconds
	t.remaining = seconds
	t.done = make(chan struct{})
	t.startLoopLocked()
	return nil
}

func (t *Timer) Pause() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state != Running {
		return false
	}
	t.stopLoopLocked()
	t.state = Paused
	return true
}

func (t *Timer) Resume() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state != Paused {
		return false
	}
	t.startLoopLocked()
	return true
}

// Reset stops the timer and restores the originally selected duration.
func (t *Timer) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.stopLoopLocked()
	t.state = Stopped
	t.remaining = t.selected
}

// Close stops any run and waits for the tick goroutine to exit.
func (t *Timer) Close() {
	t.mu.Lock()
	t.stopLoopLocked()
	t.state = Stopped
	t.mu.Unlock()

	t.wg.Wait()
}

func (t *Timer) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

func (t *Timer) Remaining() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.remaining
}

func (t *Timer) Selected() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.selected
}

// Done is closed when the current run reaches zero.
func (t *Timer) Done() <-chan struct{} {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.done
}

func (t *Timer) startLoopLocked() {
	t.gen++
	t.state = Running
	t.stop = make(chan struct{})
	t.ticker = t.newTicker(time.Second)

	t.wg.Add(1)
	go t.run(t.ticker, t.stop, t.gen)
}

func (t *Timer) stopLoopLocked() {
	t.gen++
	if t.stop != nil {
		close(t.stop)
		t.stop = nil
	}
	if t.ticker != nil {
		t.ticker.Stop()
		t.ticker = nil
	}
}

func (t *Timer) run(ticker Ticker, stop <-chan struct{}, gen uint64) {
	defer t.wg.Done()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C():
			if finished := t.tick(gen); finished {
				return
			}
		}
	}
}

// tick reports whether the loop for gen should exit.
func (t *Timer) tick(gen uint64) bool {
	t.mu.Lock()
	if gen != t.gen || t.state != Running {
		t.mu.Unlock()
		return true
	}

	t.remaining--
	if t.remaining > 0 {
		t.mu.Unlock()
		return false
	}

	t.remaining = 0
	t.state = Stopped
	t.stopLoopLocked()
	close(t.done)
	onComplete := t.onComplete
	t.mu.Unlock()

	if onComplete != nil {
		onComplete()
	}
	return true
}
