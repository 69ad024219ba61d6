package controllers

import (
	"net/http"

	"drift/internal/models"
	"drift/internal/providers"
	"drift/internal/services"

	"github.com/go-chi/chi/v5"
	json "github.com/goccy/go-json"
)

const maxRequestBodySize = 64 << 10 // 64 KB

type ApiController struct {
	logger  providers.Logger
	service services.ProgressionServiceInterface
	metrics providers.MetricsProviderInterface
}

type intentResponse struct {
	Accepted bool            `json:"accepted"`
	Message  *models.Message `json:"message,omitempty"`
	State    models.Snapshot `json:"state"`
}

type contentRequest struct {
	Content string `json:"content"`
}

type rateRequest struct {
	Kind string `json:"kind"`
}

type voteRequest struct {
	SentID  string `json:"sentId"`
	ReplyID string `json:"replyId"`
	Action  string `json:"action"`
}

func NewApiController(logger providers.Logger, service services.ProgressionServiceInterface, metrics providers.MetricsProviderInterface) *ApiController {
	return &ApiController{
		logger:  logger,
		service: service,
		metrics: metrics,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	gson, err := json.Marshal(v)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(gson)
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return false
	}
	return true
}

func (ac *ApiController) respond(w http.ResponseWriter, action string, accepted bool) {
	ac.respondWith(w, action, accepted, nil)
}

func (ac *ApiController) respondWith(w http.ResponseWriter, action string, accepted bool, msg *models.Message) {
	ac.metrics.IncActions(action, accepted)
	if !accepted {
		ac.logger.Debugf(providers.TypePost, "Intent %s rejected", action)
	}
	writeJSON(w, http.StatusOK, intentResponse{
		Accepted: accepted,
		Message:  msg,
		State:    ac.service.Snapshot(),
	})
}

func (ac *ApiController) GetState(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, ac.service.Snapshot())
}

func (ac *ApiController) Cast(w http.ResponseWriter, r *http.Request) {
	var req contentRequest
	if !decodeBody(w, r, &req) {
		return
	}
	ac.respond(w, "cast", ac.service.Cast(req.Content))
}

func (ac *ApiController) Draw(w http.ResponseWriter, _ *http.Request) {
	msg := ac.service.Draw()
	ac.respondWith(w, "draw", true, msg)
}

func (ac *ApiController) CloseReading(w http.ResponseWriter, _ *http.Request) {
	ac.service.CloseReading()
	ac.respond(w, "close", true)
}

func (ac *ApiController) Rate(w http.ResponseWriter, r *http.Request) {
	var req rateRequest
	if !decodeBody(w, r, &req) {
		return
	}
	ac.respond(w, "rate", ac.service.Rate(services.RateKind(req.Kind)))
}

func (ac *ApiController) Reply(w http.ResponseWriter, r *http.Request) {
	var req contentRequest
	if !decodeBody(w, r, &req) {
		return
	}
	ac.respond(w, "reply", ac.service.Reply(req.Content))
}

func (ac *ApiController) Vote(w http.ResponseWriter, r *http.Request) {
	var req voteRequest
	if !decodeBody(w, r, &req) {
		return
	}
	ac.respond(w, "vote", ac.service.Vote(req.SentID, req.ReplyID, models.Vote(req.Action)))
}

func (ac *ApiController) GetHistory(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, ac.service.History())
}

func (ac *ApiController) OpenSent(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	sent, ok := ac.service.OpenSent(id)
	ac.metrics.IncActions("open", ok)
	if !ok {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, sent)
}

func (ac *ApiController) Reset(w http.ResponseWriter, r *http.Request) {
	if err := ac.service.Reset(r.Context()); err != nil {
		ac.logger.Errorf(providers.TypePost, "Reset did not reach storage: %s", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	ac.respond(w, "reset", true)
}
