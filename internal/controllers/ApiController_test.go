package controllers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"drift/internal/models"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApi_GetState(t *testing.T) {
	env := newTestEnv(t)
	ac := NewApiController(env.logger, env.service, env.metrics)

	rr := httptest.NewRecorder()
	ac.GetState(rr, httptest.NewRequest(http.MethodGet, "/state", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	snap := decode[models.Snapshot](t, rr)
	assert.Equal(t, "Drifter", snap.Title)
	assert.True(t, snap.CanSend)
}

func TestApi_Cast(t *testing.T) {
	env := newTestEnv(t)
	ac := NewApiController(env.logger, env.service, env.metrics)

	rr := postJSON(t, ac.Cast, "/cast", map[string]string{"content": "is anyone out there?"})
	require.Equal(t, http.StatusOK, rr.Code)
	resp := decode[intentResponse](t, rr)
	assert.True(t, resp.Accepted)
	assert.Equal(t, 20, resp.State.XP)
	assert.False(t, resp.State.CanSend)

	rr = postJSON(t, ac.Cast, "/cast", map[string]string{"content": "again"})
	resp = decode[intentResponse](t, rr)
	assert.False(t, resp.Accepted)

	assert.Equal(t, 1, env.metrics.ActionCount("cast:accepted"))
	assert.Equal(t, 1, env.metrics.ActionCount("cast:rejected"))
}

func TestApi_BadJSON(t *testing.T) {
	env := newTestEnv(t)
	ac := NewApiController(env.logger, env.service, env.metrics)

	for _, h := range []http.HandlerFunc{ac.Cast, ac.Rate, ac.Reply, ac.Vote} {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{nope"))
		rr := httptest.NewRecorder()
		h(rr, req)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	}
}

func TestApi_DrawRateReply(t *testing.T) {
	env := newTestEnv(t)
	ac := NewApiController(env.logger, env.service, env.metrics)

	rr := postJSON(t, ac.Draw, "/draw", nil)
	resp := decode[intentResponse](t, rr)
	require.True(t, resp.Accepted)
	require.NotNil(t, resp.Message)
	assert.True(t, resp.Message.IsRead)
	assert.True(t, resp.State.IsReading)

	resp = decode[intentResponse](t, postJSON(t, ac.Rate, "/rate", map[string]string{"kind": "flower"}))
	assert.True(t, resp.Accepted)
	resp = decode[intentResponse](t, postJSON(t, ac.Rate, "/rate", map[string]string{"kind": "up"}))
	assert.False(t, resp.Accepted)

	resp = decode[intentResponse](t, postJSON(t, ac.Reply, "/reply", map[string]string{"content": "breathe"}))
	assert.True(t, resp.Accepted)
	assert.Equal(t, 40, resp.State.XP)
	assert.False(t, resp.State.IsReading)

	resp = decode[intentResponse](t, postJSON(t, ac.CloseReading, "/close", nil))
	assert.True(t, resp.Accepted)
}

func TestApi_DrawDuringCooldownReopensSameBottle(t *testing.T) {
	env := newTestEnv(t)
	ac := NewApiController(env.logger, env.service, env.metrics)

	first := decode[intentResponse](t, postJSON(t, ac.Draw, "/draw", nil))
	second := decode[intentResponse](t, postJSON(t, ac.Draw, "/draw", nil))

	require.NotNil(t, first.Message)
	require.NotNil(t, second.Message)
	assert.True(t, second.Accepted)
	assert.Equal(t, first.Message.ID, second.Message.ID)
	assert.False(t, second.State.CanReceive)
	assert.Equal(t, 2, env.metrics.ActionCount("draw:accepted"))
	assert.Zero(t, env.metrics.ActionCount("draw:rejected"))
}

func TestApi_VoteAndHistory(t *testing.T) {
	env := newTestEnv(t)
	ac := NewApiController(env.logger, env.service, env.metrics)

	postJSON(t, ac.Cast, "/cast", map[string]string{"content": "help"})
	require.True(t, env.network.FireReply(models.Reply{ID: "r-1", Content: "hi"}))

	rr := httptest.NewRecorder()
	ac.GetHistory(rr, httptest.NewRequest(http.MethodGet, "/history", nil))
	history := decode[[]models.SentMessage](t, rr)
	require.Len(t, history, 1)
	assert.True(t, history[0].HasUnreadReplies)

	resp := decode[intentResponse](t, postJSON(t, ac.Vote, "/vote", voteRequest{SentID: history[0].ID, ReplyID: "r-1", Action: "super"}))
	assert.True(t, resp.Accepted)
	assert.Equal(t, 35, resp.State.XP)

	resp = decode[intentResponse](t, postJSON(t, ac.Vote, "/vote", voteRequest{SentID: history[0].ID, ReplyID: "r-1", Action: "meh"}))
	assert.False(t, resp.Accepted)

	router := chi.NewRouter()
	router.Post("/history/{id}/open", ac.OpenSent)

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/history/"+history[0].ID+"/open", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	opened := decode[models.SentMessage](t, rr)
	assert.False(t, opened.HasUnreadReplies)
	assert.Equal(t, models.VoteSuper, opened.Replies[0].Vote)

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/history/unknown/open", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestApi_Reset(t *testing.T) {
	env := newTestEnv(t)
	ac := NewApiController(env.logger, env.service, env.metrics)
	postJSON(t, ac.Cast, "/cast", map[string]string{"content": "bye"})

	resp := decode[intentResponse](t, postJSON(t, ac.Reset, "/reset", nil))
	assert.True(t, resp.Accepted)
	assert.Zero(t, resp.State.XP)
	assert.True(t, resp.State.CanSend)
	assert.Empty(t, resp.State.SentHistory)
}
