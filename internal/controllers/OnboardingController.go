package controllers

import (
	"errors"
	"net/http"

	"drift/internal/providers"
	"drift/internal/services"
)

type OnboardingController struct {
	logger  providers.Logger
	service services.OnboardingServiceInterface
}

type topicsRequest struct {
	Topics []string `json:"topics"`
}

type tideRequest struct {
	Hour   *int `json:"hour"`
	Minute *int `json:"minute"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func NewOnboardingController(logger providers.Logger, service services.OnboardingServiceInterface) *OnboardingController {
	return &OnboardingController{logger: logger, service: service}
}

func (oc *OnboardingController) Current(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, oc.service.Current())
}

func (oc *OnboardingController) Advance(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, oc.service.Advance())
}

func (oc *OnboardingController) ShuffleIdentity(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, oc.service.ShuffleIdentity())
}

func (oc *OnboardingController) SelectTopics(w http.ResponseWriter, r *http.Request) {
	var req topicsRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := oc.service.SelectTopics(req.Topics); err != nil {
		oc.reject(w, err)
		return
	}
	writeJSON(w, http.StatusOK, oc.service.Current())
}

func (oc *OnboardingController) SetTide(w http.ResponseWriter, r *http.Request) {
	var req tideRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Hour == nil || req.Minute == nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "hour and minute are required"})
		return
	}
	if err := oc.service.SetTide(*req.Hour, *req.Minute); err != nil {
		oc.reject(w, err)
		return
	}
	writeJSON(w, http.StatusOK, oc.service.Current())
}

func (oc *OnboardingController) reject(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, services.ErrTooFewTopics),
		errors.Is(err, services.ErrUnknownTopic),
		errors.Is(err, services.ErrInvalidTide):
		status = http.StatusUnprocessableEntity
	default:
		oc.logger.Errorf(providers.TypePost, "Onboarding update failed: %s", err)
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}
