package controllers

import (
	"fmt"
	"net/http"
	"time"

	"drift/internal/providers"
	"drift/internal/simulation"
	"drift/internal/structures"
)

type HealthController struct {
	conf      *structures.Config
	network   simulation.NetworkInterface
	hub       providers.EventHubInterface
	startTime time.Time
}

type healthResponse struct {
	Status           string  `json:"status"`
	Uptime           string  `json:"uptime"`
	UptimeSeconds    float64 `json:"uptime_seconds"`
	Storage          string  `json:"storage"`
	PendingDelivery  int     `json:"pending_deliveries"`
	EventSubscribers int     `json:"event_subscribers"`
}

func (hc *HealthController) Health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	uptime := time.Since(hc.startTime)
	writeJSON(w, http.StatusOK, healthResponse{
		Status:           "ok",
		Uptime:           formatDuration(uptime),
		UptimeSeconds:    uptime.Seconds(),
		Storage:          hc.conf.Storage.Driver,
		PendingDelivery:  hc.network.Pending(),
		EventSubscribers: hc.hub.Subscribers(),
	})
}

func formatDuration(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60
	return fmt.Sprintf("%dh%dm%ds", hours, minutes, seconds)
}

func NewHealthController(conf *structures.Config, network simulation.NetworkInterface, hub providers.EventHubInterface) *HealthController {
	return &HealthController{
		conf:      conf,
		network:   network,
		hub:       hub,
		startTime: time.Now(),
	}
}
