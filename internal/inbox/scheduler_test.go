package inbox

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTicker struct {
	d       time.Duration
	c       chan time.Time
	stopped atomic.Bool
}

func (f *fakeTicker) C() <-chan time.Time { return f.c }
func (f *fakeTicker) Stop()               { f.stopped.Store(true) }

type tickerFactory struct {
	mu      sync.Mutex
	tickers []*fakeTicker
}

func (tf *tickerFactory) new(d time.Duration) Ticker {
	tf.mu.Lock()
	defer tf.mu.Unlock()
	t := &fakeTicker{d: d, c: make(chan time.Time)}
	tf.tickers = append(tf.tickers, t)
	return t
}

func (tf *tickerFactory) all() []*fakeTicker {
	tf.mu.Lock()
	defer tf.mu.Unlock()
	return append([]*fakeTicker{}, tf.tickers...)
}

func TestScheduler_TicksInvokeCallback(t *testing.T) {
	var calls int32
	tf := &tickerFactory{}
	s := NewScheduler(func() { atomic.AddInt32(&calls, 1) }, WithTicker(tf.new))
	defer s.Stop()

	s.SetInterval(5 * time.Minute)
	require.Len(t, tf.all(), 1)
	ticker := tf.all()[0]
	assert.Equal(t, 5*time.Minute, ticker.d)
	assert.Equal(t, 5*time.Minute, s.Interval())

	ticker.c <- time.Now()
	ticker.c <- time.Now()
	assert.Eventually(t, func() bool { return atomic.LoadInt32(&calls) == 2 }, time.Second, 5*time.Millisecond)
}

func TestScheduler_ChangingIntervalReplacesTimer(t *testing.T) {
	var calls int32
	tf := &tickerFactory{}
	s := NewScheduler(func() { atomic.AddInt32(&calls, 1) }, WithTicker(tf.new))
	defer s.Stop()

	s.SetInterval(time.Minute)
	s.SetInterval(15 * time.Minute)

	tickers := tf.all()
	require.Len(t, tickers, 2)
	assert.True(t, tickers[0].stopped.Load(), "previous ticker must be stopped")
	assert.False(t, tickers[1].stopped.Load())
	assert.Equal(t, 15*time.Minute, s.Interval())

	tickers[1].c <- time.Now()
	assert.Eventually(t, func() bool { return atomic.LoadInt32(&calls) == 1 }, time.Second, 5*time.Millisecond)
}

func TestScheduler_ZeroDisables(t *testing.T) {
	tf := &tickerFactory{}
	s := NewScheduler(func() {}, WithTicker(tf.new))

	s.SetInterval(time.Minute)
	s.SetInterval(0)

	tickers := tf.all()
	require.Len(t, tickers, 1)
	assert.True(t, tickers[0].stopped.Load())
	assert.Equal(t, time.Duration(0), s.Interval())

	s.SetInterval(0)
	assert.Len(t, tf.all(), 1, "disabled scheduler creates no ticker")
}

func TestScheduler_StopIsIdempotent(t *testing.T) {
	tf := &tickerFactory{}
	s := NewScheduler(func() {}, WithTicker(tf.new))

	s.Stop()
	s.SetInterval(time.Minute)
	s.Stop()
	s.Stop()

	assert.True(t, tf.all()[0].stopped.Load())
}

func TestScheduler_RealTicker(t *testing.T) {
	var calls int32
	s := NewScheduler(func() { atomic.AddInt32(&calls, 1) })
	defer s.Stop()

	s.SetInterval(10 * time.Millisecond)
	assert.Eventually(t, func() bool { return atomic.LoadInt32(&calls) >= 2 }, time.Second, 5*time.Millisecond)
}

func TestScheduler_SetIntervalDoesNotWaitForRunningTick(t *testing.T) {
	tf := &tickerFactory{}
	started := make(chan struct{})
	release := make(chan struct{})
	var finished atomic.Bool
	s := NewScheduler(func() {
		close(started)
		<-release
		finished.Store(true)
	}, WithTicker(tf.new))

	s.SetInterval(time.Minute)
	tf.all()[0].c <- time.Now()
	<-started

	changed := make(chan struct{})
	go func() {
		s.SetInterval(15 * time.Minute)
		close(changed)
	}()
	select {
	case <-changed:
	case <-time.After(time.Second):
		t.Fatal("SetInterval blocked on a running tick")
	}
	assert.True(t, tf.all()[0].stopped.Load())
	assert.Equal(t, 15*time.Minute, s.Interval())

	stopped := make(chan struct{})
	go func() {
		s.Stop()
		close(stopped)
	}()
	select {
	case <-stopped:
		t.Fatal("Stop returned before the running tick finished")
	case <-time.After(20 * time.Millisecond):
	}

	close(release)
	<-stopped
	assert.True(t, finished.Load())
}
