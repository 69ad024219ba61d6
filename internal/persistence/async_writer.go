package persistence

import (
	"context"
	"errors"
	"sync"
	"time"

	"drift/internal/persistence/interfaces"
	"drift/internal/providers"
	"drift/internal/structures"

	"go.uber.org/atomic"
)

const (
	defaultQueueSize    = 256
	defaultWriteTimeout = 2 * time.Second
)

var ErrWriterClosed = errors.New("writer closed")

type writeOp struct {
	key    string
	value  string
	delete bool
	seq    uint64
}

type flushWaiter struct {
	seq  uint64
	done chan struct{}
}

// AsyncWriter applies writes on a single goroutine. Pending writes are
// coalesced per key, last write wins, so Enqueue never waits on storage.
// Keys are applied in the order they first became pending.
type AsyncWriter struct {
	mu      sync.Mutex
	pending map[string]writeOp
	order   []string
	waiters []flushWaiter
	seq     uint64
	synced  uint64
	closed  bool

	maxPending int
	wake       chan struct{}
	stopped    chan struct{}

	store   interfaces.KeyValueStoreInterface
	logger  providers.Logger
	timeout time.Duration
	failed  atomic.Int64
	applied atomic.Int64
	dropped atomic.Int64
}

func NewAsyncWriter(conf *structures.Config, store interfaces.KeyValueStoreInterface, logger providers.Logger) interfaces.WriterInterface {
	return newAsyncWriter(store, logger, conf.Storage.QueueSize, conf.Storage.Timeout)
}

func newAsyncWriter(store interfaces.KeyValueStoreInterface, logger providers.Logger, queueSize int, timeout time.Duration) *AsyncWriter {
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}
	if timeout <= 0 {
		timeout = defaultWriteTimeout
	}
	w := &AsyncWriter{
		pending:    make(map[string]writeOp),
		maxPending: queueSize,
		wake:       make(chan struct{}, 1),
		stopped:    make(chan struct{}),
		store:      store,
		logger:     logger,
		timeout:    timeout,
	}
	go w.run()
	return w
}

func (w *AsyncWriter) run() {
	defer close(w.stopped)
	for {
		<-w.wake
		for {
			batch, last, closed := w.take()
			for _, op := range batch {
				w.apply(op)
			}
			w.release(last)
			if len(batch) == 0 {
				if closed {
					return
				}
				break
			}
		}
	}
}

// take swaps out everything pending and reports the highest sequence in it.
func (w *AsyncWriter) take() ([]writeOp, uint64, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	batch := make([]writeOp, 0, len(w.order))
	for _, key := range w.order {
		batch = append(batch, w.pending[key])
	}
	w.pending = make(map[string]writeOp)
	w.order = w.order[:0]
	return batch, w.seq, w.closed
}

func (w *AsyncWriter) release(seq uint64) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if seq > w.synced {
		w.synced = seq
	}
	kept := w.waiters[:0]
	for _, fw := range w.waiters {
		if fw.seq <= w.synced {
			close(fw.done)
			continue
		}
		kept = append(kept, fw)
	}
	w.waiters = kept
}

func (w *AsyncWriter) apply(op writeOp) {
	ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
	defer cancel()

	var err error
	if op.delete {
		err = w.store.Delete(ctx, op.key)
	} else {
		err = w.store.Set(ctx, op.key, op.value)
	}
	if err != nil {
		w.failed.Inc()
		w.logger.Errorf(providers.TypeStorage, "Write of %s failed: %s", op.key, err)
		return
	}
	w.applied.Inc()
}

func (w *AsyncWriter) signal() {
	select {
	case w.wake <- struct{}{}:
	default:
	}
}

func (w *AsyncWriter) push(op writeOp) {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		w.logger.Warnf(providers.TypeStorage, "Dropped write of %s after close", op.key)
		return
	}
	if _, ok := w.pending[op.key]; !ok {
		if len(w.order) >= w.maxPending {
			w.mu.Unlock()
			w.dropped.Inc()
			w.logger.Warnf(providers.TypeStorage, "Write queue full, dropped write of %s", op.key)
			return
		}
		w.order = append(w.order, op.key)
	}
	w.seq++
	op.seq = w.seq
	w.pending[op.key] = op
	w.mu.Unlock()

	w.signal()
}

func (w *AsyncWriter) Enqueue(key, value string) {
	w.push(writeOp{key: key, value: value})
}

func (w *AsyncWriter) EnqueueDelete(key string) {
	w.push(writeOp{key: key, delete: true})
}

func (w *AsyncWriter) Flush(ctx context.Context) error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return ErrWriterClosed
	}
	if w.synced >= w.seq {
		w.mu.Unlock()
		return nil
	}
	done := make(chan struct{})
	w.waiters = append(w.waiters, flushWaiter{seq: w.seq, done: done})
	w.mu.Unlock()

	w.signal()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close applies whatever is pending and stops the goroutine. It is safe to
// call twice.
func (w *AsyncWriter) Close() error {
	w.mu.Lock()
	w.closed = true
	w.mu.Unlock()

	w.signal()
	<-w.stopped
	return nil
}

func (w *AsyncWriter) Failed() int64 {
	return w.failed.Load()
}

func (w *AsyncWriter) Applied() int64 {
	return w.applied.Load()
}

// Dropped counts writes refused because too many distinct keys were pending.
func (w *AsyncWriter) Dropped() int64 {
	return w.dropped.Load()
}
