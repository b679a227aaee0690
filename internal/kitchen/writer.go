package kitchen

import (
	"context"
	"sync"
	"time"

	"github.com/hammamikhairi/nutriveda/internal/logger"
	"github.com/hammamikhairi/nutriveda/internal/metrics"
)

// job is one remote write. userID is fixed when the job is queued, so a
// write queued before a session change still targets the old user.
type job struct {
	op     string
	userID string
	run    func(ctx context.Context, userID string) error
}

// writer runs remote writes one at a time in queue order. The queue is
// unbounded so enqueue never blocks.
type writer struct {
	ctx     context.Context
	log     *logger.Logger
	metrics metrics.Recorder

	mu     sync.Mutex
	cond   *sync.Cond
	queue  []job
	busy   bool
	closed bool
	done   chan struct{}
}

func newWriter(ctx context.Context, log *logger.Logger, rec metrics.Recorder) *writer {
	w := &writer{
		ctx:     ctx,
		log:     log,
		metrics: rec,
		done:    make(chan struct{}),
	}
	w.cond = sync.NewCond(&w.mu)
	go w.loop()
	return w
}

// enqueue adds j to the queue. It reports false once the writer is closed.
func (w *writer) enqueue(j job) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return false
	}
	w.queue = append(w.queue, j)
	w.metrics.Pending(w.pendingLocked())
	w.cond.Broadcast()
	return true
}

func (w *writer) pendingLocked() int {
	n := len(w.queue)
	if w.busy {
		n++
	}
	return n
}

func (w *writer) loop() {
	defer close(w.done)
	for {
		w.mu.Lock()
		for len(w.queue) == 0 && !w.closed {
			w.cond.Wait()
		}
		if len(w.queue) == 0 {
			w.mu.Unlock()
			return
		}
		j := w.queue[0]
		w.queue[0] = job{}
		w.queue = w.queue[1:]
		w.busy = true
		w.mu.Unlock()

		w.execute(j)

		w.mu.Lock()
		w.busy = false
		w.metrics.Pending(w.pendingLocked())
		w.cond.Broadcast()
		w.mu.Unlock()
	}
}

func (w *writer) execute(j job) {
	start := time.Now()
	err := j.run(w.ctx, j.userID)
	w.metrics.RemoteWrite(j.op, err, time.Since(start))
	if err != nil {
		// Local state stays ahead of the store; nothing is retried.
		w.log.Warn("remote %s for %s failed: %v", j.op, j.userID, err)
		return
	}
	w.log.Debug("remote %s for %s ok", j.op, j.userID)
}

// wait blocks until the queue is empty and no job is running.
func (w *writer) wait() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for len(w.queue) > 0 || w.busy {
		w.cond.Wait()
	}
}

// close stops accepting jobs, runs what is queued and stops the loop.
func (w *writer) close() {
	w.mu.Lock()
	w.closed = true
	w.cond.Broadcast()
	w.mu.Unlock()
	<-w.done
}
