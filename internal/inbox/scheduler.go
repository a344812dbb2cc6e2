package inbox

import (
	"sync"
	"time"

	"github.com/roeyazroel/linear-inbox/internal/logger"
)

// Ticker delivers ticks until stopped.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

type realTicker struct {
	t *time.Ticker
}

func (r realTicker) C() <-chan time.Time { return r.t.C }
func (r realTicker) Stop()               { r.t.Stop() }

// NewTicker wraps time.NewTicker.
func NewTicker(d time.Duration) Ticker {
	return realTicker{t: time.NewTicker(d)}
}

// SchedulerOption configures a Scheduler.
type SchedulerOption func(*Scheduler)

// WithTicker replaces the ticker factory, for tests.
func WithTicker(newTicker func(time.Duration) Ticker) SchedulerOption {
	return func(s *Scheduler) {
		s.newTicker = newTicker
	}
}

// Scheduler invokes a callback on a fixed interval. At most one timer is
// active; changing the interval replaces it.
type Scheduler struct {
	tick      func()
	newTicker func(time.Duration) Ticker

	mu       sync.Mutex
	interval time.Duration
	loop     *tickLoop
	running  sync.WaitGroup
}

// tickLoop is one running timer goroutine.
type tickLoop struct {
	ticker Ticker
	stop   chan struct{}
}

// cancel stops the ticker and signals the goroutine without waiting for it.
func (l *tickLoop) cancel() {
	if l == nil {
		return
	}
	l.ticker.Stop()
	close(l.stop)
}

// NewScheduler creates a stopped scheduler that calls tick on every interval.
func NewScheduler(tick func(), opts ...SchedulerOption) *Scheduler {
	s := &Scheduler{
		tick:      tick,
		newTicker: NewTicker,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Interval returns the active interval, or 0 when disabled.
func (s *Scheduler) Interval() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.interval
}

// SetInterval cancels the current timer and, when d > 0, starts a new one.
// It does not wait for a tick that is already running, so it is safe to call
// from the UI goroutine.
func (s *Scheduler) SetInterval(d time.Duration) {
	s.mu.Lock()
	s.loop.cancel()
	s.loop = nil
	s.interval = 0
	if d > 0 {
		s.interval = d
		s.loop = &tickLoop{
			ticker: s.newTicker(d),
			stop:   make(chan struct{}),
		}
		s.running.Add(1)
		go s.run(s.loop)
	}
	s.mu.Unlock()

	if d > 0 {
		logger.Debug("inbox.scheduler: auto-refresh every %s", d)
	} else {
		logger.Debug("inbox.scheduler: auto-refresh disabled")
	}
}

// Stop cancels the timer and waits for every in-progress tick to return,
// including ticks of timers replaced by SetInterval.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	s.loop.cancel()
	s.loop = nil
	s.interval = 0
	s.mu.Unlock()

	s.running.Wait()
}

func (s *Scheduler) run(l *tickLoop) {
	defer s.running.Done()
	for {
		select {
		case <-l.stop:
			return
		case <-l.ticker.C():
			select {
			case <-l.stop:
				return
			default:
			}
			s.tick()
		}
	}
}
