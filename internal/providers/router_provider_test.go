package providers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dummyHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
}

func TestRouterProvider_RecordsRoutes(t *testing.T) {
	rp := NewRouterProvider()
	rp.Get("/state", dummyHandler())
	rp.Post("/cast", dummyHandler())

	routes := rp.GetRoutes()
	require.Len(t, routes, 2)
	assert.Equal(t, http.MethodGet, routes[0].Method)
	assert.Equal(t, "/state", routes[0].Url)
	assert.Equal(t, http.MethodPost, routes[1].Method)
	assert.Equal(t, "/cast", routes[1].Url)
}

func TestRouterProvider_HandlerEnforcesMethod(t *testing.T) {
	rp := NewRouterProvider()
	rp.Get("/state", dummyHandler())
	rp.Post("/cast", dummyHandler())
	h := rp.Handler()

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/state", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "ok", rr.Body.String())

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/state", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/cast", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}

func TestRouterProvider_PathParams(t *testing.T) {
	rp := NewRouterProvider()
	var got string
	rp.Post("/history/{id}/open", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = chi.URLParam(r, "id")
	}))

	rr := httptest.NewRecorder()
	rp.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/history/abc-123/open", nil))
	assert.Equal(t, "abc-123", got)
}

func TestRouterProvider_RecoversPanics(t *testing.T) {
	rp := NewRouterProvider()
	rp.Get("/boom", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rr := httptest.NewRecorder()
	rp.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}
