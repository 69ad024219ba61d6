package controllers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"drift/internal/models"
	"drift/internal/providers"
	"drift/internal/services"
	"drift/internal/structures"

	"github.com/coder/websocket"
	json "github.com/goccy/go-json"
)

const (
	defaultTickInterval = time.Second
	writeTimeout        = 5 * time.Second
)

type EventType string

const (
	EventState        EventType = "state"
	EventTick         EventType = "tick"
	EventNotification EventType = "notification"
)

type Event struct {
	Type         EventType            `json:"type"`
	State        *models.Snapshot     `json:"state,omitempty"`
	Notification *models.Notification `json:"notification,omitempty"`
}

// EventsController streams notifications and a countdown tick to the shell
// over a websocket. Each connection owns its ticker.
type EventsController struct {
	logger  providers.Logger
	service services.ProgressionServiceInterface
	hub     providers.EventHubInterface
	tick    time.Duration
	origins []string
}

func NewEventsController(conf *structures.Config, logger providers.Logger, service services.ProgressionServiceInterface, hub providers.EventHubInterface) *EventsController {
	tick := conf.Progression.TickInterval
	if tick <= 0 {
		tick = defaultTickInterval
	}
	return &EventsController{
		logger:  logger,
		service: service,
		hub:     hub,
		tick:    tick,
		origins: conf.WebServer.AllowedOrigins,
	}
}

func (ec *EventsController) Events(w http.ResponseWriter, r *http.Request) {
	ws, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: ec.origins,
	})
	if err != nil {
		ec.logger.Warnf(providers.TypeGet, "Failed to accept websocket: %s", err)
		return
	}
	defer ws.CloseNow()

	events, release := ec.hub.Subscribe()
	defer release()

	ctx := ws.CloseRead(r.Context())
	ticker := time.NewTicker(ec.tick)
	defer ticker.Stop()

	ec.logger.Debugf(providers.TypeGet, "Event stream opened from %s", r.RemoteAddr)
	if err := ec.write(ctx, ws, ec.stateEvent(EventState)); err != nil {
		return
	}

	for {
		select {
		case <-ctx.Done():
			ec.logger.Debugf(providers.TypeGet, "Event stream closed from %s", r.RemoteAddr)
			return
		case n, ok := <-events:
			if !ok {
				_ = ws.Close(websocket.StatusGoingAway, "shutting down")
				return
			}
			if err := ec.write(ctx, ws, Event{Type: EventNotification, Notification: &n}); err != nil {
				return
			}
		case <-ticker.C:
			if err := ec.write(ctx, ws, ec.stateEvent(EventTick)); err != nil {
				return
			}
		}
	}
}

func (ec *EventsController) stateEvent(t EventType) Event {
	snap := ec.service.Snapshot()
	return Event{Type: t, State: &snap}
}

func (ec *EventsController) write(ctx context.Context, ws *websocket.Conn, ev Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		ec.logger.Errorf(providers.TypeGet, "Failed to encode %s event: %s", ev.Type, err)
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	if err := ws.Write(ctx, websocket.MessageText, data); err != nil {
		if !errors.Is(err, context.Canceled) {
			ec.logger.Debugf(providers.TypeGet, "Event write failed: %s", err)
		}
		return err
	}
	return nil
}
