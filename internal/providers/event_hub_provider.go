package providers

import (
	"sync"

	"drift/internal/models"
)

const defaultSubscriberBuffer = 32

type EventHubInterface interface {
	Publish(n models.Notification)
	// Subscribe returns a channel of notifications and a function that
	// releases it. The channel is closed by the release function.
	Subscribe() (<-chan models.Notification, func())
	Subscribers() int
}

// EventHub fans notifications out to subscribers without ever blocking the
// publisher: a subscriber whose buffer is full misses the notification.
type EventHub struct {
	mu     sync.RWMutex
	subs   map[chan models.Notification]struct{}
	buffer int
	logger Logger
}

func NewEventHub(logger Logger) EventHubInterface {
	return &EventHub{
		subs:   make(map[chan models.Notification]struct{}),
		buffer: defaultSubscriberBuffer,
		logger: logger,
	}
}

func (h *EventHub) Publish(n models.Notification) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for ch := range h.subs {
		select {
		case ch <- n:
		default:
			h.logger.Warnf(TypeGame, "Subscriber lagging, dropped %q", n.Message)
		}
	}
}

func (h *EventHub) Subscribe() (<-chan models.Notification, func()) {
	ch := make(chan models.Notification, h.buffer)

	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, ch)
			h.mu.Unlock()
			close(ch)
		})
	}
}

func (h *EventHub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// BindNotificationMetrics feeds XP and level-up notifications into metrics
// until the returned stop function is called.
func BindNotificationMetrics(hub EventHubInterface, metrics MetricsProviderInterface) func() {
	events, release := hub.Subscribe()
	done := make(chan struct{})
	go func() {
		defer close(done)
		for n := range events {
			switch n.Kind {
			case models.NotificationLevelUp:
				metrics.IncLevelUps()
			case models.NotificationXP:
				metrics.AddXPAwarded(n.Reason, n.Amount)
			case models.NotificationInfo:
				if n.Amount != 0 {
					metrics.AddXPAwarded(n.Reason, n.Amount)
				}
			}
			metrics.SetProgress(n.XP, n.Level)
		}
	}()
	return func() {
		release()
		<-done
	}
}
