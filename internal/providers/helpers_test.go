package providers

import (
	"sync"
	"time"
)

// Local doubles; testutil imports this package.

type testLogger struct {
	mu    sync.Mutex
	warns int
}

func (m *testLogger) Errorf(_ TypeEnum, _ string, _ ...interface{}) {}
func (m *testLogger) Warnf(_ TypeEnum, _ string, _ ...interface{}) {
	m.mu.Lock()
	m.warns++
	m.mu.Unlock()
}
func (m *testLogger) Debugf(_ TypeEnum, _ string, _ ...interface{}) {}
func (m *testLogger) Infof(_ TypeEnum, _ string, _ ...interface{})  {}
func (m *testLogger) Fatalf(_ TypeEnum, _ string, _ ...interface{}) {}
func (m *testLogger) Close()                                        {}

func (m *testLogger) warnCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.warns
}

type testMetrics struct {
	mu              sync.Mutex
	requestEndpoint string
	requestStatus   int
	requestCalls    int
	durationCalls   int
	hits            int
	misses          int
	xp              map[string]int
	levelUps        int
	lastXP          int
	lastLevel       int
}

func newTestMetrics() *testMetrics {
	return &testMetrics{xp: make(map[string]int)}
}

func (m *testMetrics) IncRequestsTotal(endpoint string, status int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requestEndpoint = endpoint
	m.requestStatus = status
	m.requestCalls++
}
func (m *testMetrics) ObserveRequestDuration(_ string, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.durationCalls++
}
func (m *testMetrics) IncCacheHits() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hits++
}
func (m *testMetrics) IncCacheMisses() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.misses++
}
func (m *testMetrics) ObserveStorageDuration(_ string, _ time.Duration) {}
func (m *testMetrics) IncStorageErrors(_ string)                        {}
func (m *testMetrics) IncActions(_ string, _ bool)                      {}
func (m *testMetrics) AddXPAwarded(reason string, amount int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.xp[reason] += amount
}
func (m *testMetrics) IncLevelUps() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.levelUps++
}
func (m *testMetrics) SetProgress(xp, level int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastXP = xp
	m.lastLevel = level
}
