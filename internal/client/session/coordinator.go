package session

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/ledgerclient/internal/client/apierr"
	"github.com/dmitrijs2005/ledgerclient/internal/client/metrics"
	"github.com/dmitrijs2005/ledgerclient/internal/logging"
)

// RenewFunc performs the renewal call. Credentials travel with the transport,
// so it takes no arguments besides the context.
type RenewFunc func(ctx context.Context) error

// waiter is one caller queued on a renewal.
type waiter struct {
	result   chan error
	released chan struct{}
	once     sync.Once
}

func newWaiter() *waiter {
	return &waiter{
		result:   make(chan error, 1),
		released: make(chan struct{}),
	}
}

func (w *waiter) release() {
	w.once.Do(func() { close(w.released) })
}

// Coordinator runs at most one renewal at a time and hands its outcome to
// every caller that asked for a fresh session while it was running.
type Coordinator struct {
	renew    RenewFunc
	cache    *ValidationCache
	logger   logging.Logger
	recorder metrics.Recorder

	mu       sync.Mutex
	inFlight bool
	queue    []*waiter
}

// NewCoordinator builds a Coordinator. logger and recorder may be nil.
func NewCoordinator(renew RenewFunc, cache *ValidationCache, logger logging.Logger, recorder metrics.Recorder) *Coordinator {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	if recorder == nil {
		recorder = metrics.Nop{}
	}
	return &Coordinator{
		renew:    renew,
		cache:    cache,
		logger:   logger,
		recorder: recorder,
	}
}

// Await joins the running renewal, or starts one, and blocks until it
// settles or ctx is done. A failed renewal yields an authentication error.
//
// Callers are resumed one at a time in arrival order: the next caller is not
// resumed until the previous one calls the returned next func. next is safe
// to call more than once and must be called on every path.
func (c *Coordinator) Await(ctx context.Context) (next func(), err error) {
	w := newWaiter()

	c.mu.Lock()
	c.queue = append(c.queue, w)
	start := !c.inFlight
	c.inFlight = true
	c.mu.Unlock()

	if start {
		// The renewal serves every queued caller, so it must outlive the
		// caller that happened to start it.
		go c.run(context.WithoutCancel(ctx))
	} else {
		c.recorder.RenewalJoined()
		c.logger.Debug(ctx, "waiting for session renewal in flight")
	}

	select {
	case err := <-w.result:
		return w.release, err
	case <-ctx.Done():
		w.release()
		return w.release, ctx.Err()
	}
}

// EnsureFreshSession is Await for callers that have nothing to dispatch
// after the renewal settles.
func (c *Coordinator) EnsureFreshSession(ctx context.Context) error {
	next, err := c.Await(ctx)
	next()
	return err
}

// InFlight reports whether a renewal call is outstanding.
func (c *Coordinator) InFlight() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inFlight
}

func (c *Coordinator) run(ctx context.Context) {
	started := time.Now()
	c.recorder.RenewalStarted()
	c.logger.Debug(ctx, "renewing session")

	err := c.renew(ctx)
	took := time.Since(started)
	c.recorder.RenewalFinished(err == nil, took)

	if err != nil {
		c.cache.Invalidate()
		c.logger.Warn(ctx, "session renewal failed", "error", err, "took", took)
		err = apierr.SessionExpired(err)
	} else {
		c.cache.Write(true)
	}

	c.mu.Lock()
	queue := c.queue
	c.queue = nil
	c.inFlight = false
	c.mu.Unlock()

	if err == nil {
		c.logger.Info(ctx, "session renewed", "waiters", len(queue), "took", took)
	}

	for _, w := range queue {
		w.result <- err
		<-w.released
	}
}
