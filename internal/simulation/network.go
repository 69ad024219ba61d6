// Package simulation stands in for other users. Every interaction is a
// deferred callback keyed to a message id; a real backend would replace it
// without changing the contract.
package simulation

import (
	"math/rand/v2"
	"sync"
	"time"

	"drift/internal/mock"
	"drift/internal/models"
	"drift/internal/providers"
	"drift/internal/structures"

	"go.uber.org/atomic"
)

const (
	DefaultReplyDelay       = 8 * time.Second
	DefaultFeedbackMinDelay = 4 * time.Second
	DefaultFeedbackMaxDelay = 7 * time.Second
)

type NetworkInterface interface {
	// DeliverReplyAsync delivers exactly one reply to sentID after a fixed delay.
	DeliverReplyAsync(sentID string, deliver func(models.Reply))
	// DeliverFeedbackAsync delivers one uniform roll in [0,1) for replyID after a random delay.
	DeliverFeedbackAsync(replyID string, deliver func(roll float64))
	Pending() int
	Close()
}

type StrangerNetwork struct {
	mu       sync.Mutex
	rnd      *rand.Rand
	timers   map[*time.Timer]struct{}
	closed   atomic.Bool
	pending  atomic.Int64
	replyIn  time.Duration
	minDelay time.Duration
	maxDelay time.Duration
	now      func() time.Time
	logger   providers.Logger
}

func NewStrangerNetwork(conf *structures.Config, logger providers.Logger) NetworkInterface {
	return newStrangerNetwork(conf, logger, rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())), time.Now)
}

func newStrangerNetwork(conf *structures.Config, logger providers.Logger, rnd *rand.Rand, now func() time.Time) *StrangerNetwork {
	p := conf.Progression
	n := &StrangerNetwork{
		rnd:      rnd,
		timers:   make(map[*time.Timer]struct{}),
		replyIn:  p.ReplyDelay,
		minDelay: p.FeedbackMinDelay,
		maxDelay: p.FeedbackMaxDelay,
		now:      now,
		logger:   logger,
	}
	if n.replyIn <= 0 {
		n.replyIn = DefaultReplyDelay
	}
	if n.minDelay <= 0 && n.maxDelay <= 0 {
		n.minDelay, n.maxDelay = DefaultFeedbackMinDelay, DefaultFeedbackMaxDelay
	}
	if n.maxDelay < n.minDelay {
		n.maxDelay = n.minDelay
	}
	return n
}

func (n *StrangerNetwork) DeliverReplyAsync(sentID string, deliver func(models.Reply)) {
	n.after(n.replyIn, func() {
		n.mu.Lock()
		reply := mock.RandomReply(n.rnd, n.now())
		n.mu.Unlock()

		n.logger.Debugf(providers.TypeGame, "Stranger replied to bottle %s", sentID)
		deliver(reply)
	})
}

func (n *StrangerNetwork) DeliverFeedbackAsync(replyID string, deliver func(roll float64)) {
	n.mu.Lock()
	delay := n.minDelay
	if spread := n.maxDelay - n.minDelay; spread > 0 {
		delay += time.Duration(n.rnd.Int64N(int64(spread) + 1))
	}
	n.mu.Unlock()

	n.after(delay, func() {
		n.mu.Lock()
		roll := n.rnd.Float64()
		n.mu.Unlock()

		n.logger.Debugf(providers.TypeGame, "Stranger rated reply %s (roll %.3f)", replyID, roll)
		deliver(roll)
	})
}

func (n *StrangerNetwork) after(d time.Duration, fn func()) {
	if n.closed.Load() {
		return
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	n.pending.Inc()
	var timer *time.Timer
	timer = time.AfterFunc(d, func() {
		n.mu.Lock()
		delete(n.timers, timer)
		n.mu.Unlock()
		defer n.pending.Dec()

		if n.closed.Load() {
			return
		}
		fn()
	})
	n.timers[timer] = struct{}{}
}

// Pending reports deliveries that were scheduled but have not finished.
func (n *StrangerNetwork) Pending() int {
	return int(n.pending.Load())
}

// Close stops every timer that has not fired yet. Only used on shutdown.
func (n *StrangerNetwork) Close() {
	if !n.closed.CompareAndSwap(false, true) {
		return
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	for timer := range n.timers {
		if timer.Stop() {
			n.pending.Dec()
		}
		delete(n.timers, timer)
	}
}
