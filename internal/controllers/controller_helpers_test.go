package controllers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"drift/internal/providers"
	"drift/internal/services"
	"drift/internal/structures"
	"drift/internal/testutil"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	conf    *structures.Config
	store   *testutil.MockStore
	network *testutil.FakeNetwork
	hub     providers.EventHubInterface
	metrics *testutil.MockMetrics
	logger  *testutil.MockLogger
	service services.ProgressionServiceInterface
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		conf: &structures.Config{
			Storage:     structures.StorageConfig{Driver: "memory"},
			Progression: structures.ProgressionConfig{TickInterval: 20 * time.Millisecond},
		},
		store:   testutil.NewMockStore(),
		network: &testutil.FakeNetwork{},
		metrics: testutil.NewMockMetrics(),
		logger:  &testutil.MockLogger{},
	}
	env.hub = providers.NewEventHub(env.logger)
	env.service = services.NewProgressionService(env.conf, env.logger, env.store, testutil.NewSyncWriter(env.store), env.network, env.hub)
	return env
}

func postJSON(t *testing.T, h http.HandlerFunc, url string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(http.MethodPost, url, &buf)
	rr := httptest.NewRecorder()
	h(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v))
	return v
}
