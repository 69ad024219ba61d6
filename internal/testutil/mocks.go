package testutil

import (
	"context"
	"sync"
	"time"

	"drift/internal/models"
	"drift/internal/providers"
)

// MockLogger implements providers.Logger and records calls.
type MockLogger struct {
	mu   sync.Mutex
	Logs []LogEntry
}

type LogEntry struct {
	Level  string
	Type   providers.TypeEnum
	Format string
	Args   []interface{}
}

func (m *MockLogger) record(level string, t providers.TypeEnum, format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Logs = append(m.Logs, LogEntry{Level: level, Type: t, Format: format, Args: args})
}

func (m *MockLogger) Errorf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("error", t, format, args...)
}
func (m *MockLogger) Warnf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("warn", t, format, args...)
}
func (m *MockLogger) Debugf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("debug", t, format, args...)
}
func (m *MockLogger) Infof(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("info", t, format, args...)
}
func (m *MockLogger) Fatalf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("fatal", t, format, args...)
}
func (m *MockLogger) Close() {}

// Count returns how many entries were logged at level.
func (m *MockLogger) Count(level string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, e := range m.Logs {
		if e.Level == level {
			n++
		}
	}
	return n
}

// MockStore implements interfaces.KeyValueStoreInterface over a map.
// GetErr, SetErr and DeleteErr are returned when set.
type MockStore struct {
	mu        sync.Mutex
	Data      map[string]string
	GetErr    error
	SetErr    error
	DeleteErr error
	Gets      int
	Sets      int
	Deletes   int
	Closed    bool
}

func NewMockStore() *MockStore {
	return &MockStore{Data: make(map[string]string)}
}

func (m *MockStore) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Gets++
	if m.GetErr != nil {
		return "", false, m.GetErr
	}
	v, ok := m.Data[key]
	return v, ok, nil
}

func (m *MockStore) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sets++
	if m.SetErr != nil {
		return m.SetErr
	}
	m.Data[key] = value
	return nil
}

func (m *MockStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Deletes++
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	delete(m.Data, key)
	return nil
}

func (m *MockStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Closed = true
	return nil
}

func (m *MockStore) Value(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.Data[key]
	return v, ok
}

// SyncWriter implements interfaces.WriterInterface by applying every write
// to Store immediately.
type SyncWriter struct {
	Store    *MockStore
	mu       sync.Mutex
	Flushes  int
	Closed   bool
	FlushErr error
}

func NewSyncWriter(store *MockStore) *SyncWriter {
	return &SyncWriter{Store: store}
}

func (w *SyncWriter) Enqueue(key, value string) {
	_ = w.Store.Set(context.Background(), key, value)
}

func (w *SyncWriter) EnqueueDelete(key string) {
	_ = w.Store.Delete(context.Background(), key)
}

func (w *SyncWriter) Flush(_ context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.Flushes++
	return w.FlushErr
}

func (w *SyncWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.Closed = true
	return nil
}

// MockHub implements providers.EventHubInterface and keeps every published
// notification.
type MockHub struct {
	mu        sync.Mutex
	Published []models.Notification
}

func (h *MockHub) Publish(n models.Notification) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Published = append(h.Published, n)
}

func (h *MockHub) Subscribe() (<-chan models.Notification, func()) {
	ch := make(chan models.Notification)
	var once sync.Once
	return ch, func() { once.Do(func() { close(ch) }) }
}

func (h *MockHub) Subscribers() int { return 0 }

func (h *MockHub) Notifications() []models.Notification {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]models.Notification(nil), h.Published...)
}

func (h *MockHub) OfKind(kind models.NotificationKind) []models.Notification {
	var out []models.Notification
	for _, n := range h.Notifications() {
		if n.Kind == kind {
			out = append(out, n)
		}
	}
	return out
}

func (h *MockHub) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Published = nil
}

// FakeNetwork captures scheduled deliveries so tests decide when they fire.
type FakeNetwork struct {
	mu        sync.Mutex
	replies   []pendingReply
	feedbacks []func(float64)
	Closed    bool
}

type pendingReply struct {
	sentID  string
	deliver func(models.Reply)
}

func (n *FakeNetwork) DeliverReplyAsync(sentID string, deliver func(models.Reply)) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.replies = append(n.replies, pendingReply{sentID: sentID, deliver: deliver})
}

func (n *FakeNetwork) DeliverFeedbackAsync(_ string, deliver func(roll float64)) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.feedbacks = append(n.feedbacks, deliver)
}

func (n *FakeNetwork) Pending() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.replies) + len(n.feedbacks)
}

func (n *FakeNetwork) Close() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Closed = true
}

// PendingReplyIDs lists the bottles still waiting for a reply, oldest first.
func (n *FakeNetwork) PendingReplyIDs() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	ids := make([]string, 0, len(n.replies))
	for _, r := range n.replies {
		ids = append(ids, r.sentID)
	}
	return ids
}

// FireReply delivers reply to the oldest pending bottle. It reports false
// when nothing is pending.
func (n *FakeNetwork) FireReply(reply models.Reply) bool {
	n.mu.Lock()
	if len(n.replies) == 0 {
		n.mu.Unlock()
		return false
	}
	next := n.replies[0]
	n.replies = n.replies[1:]
	n.mu.Unlock()

	next.deliver(reply)
	return true
}

// FireFeedback delivers roll to the oldest pending feedback.
func (n *FakeNetwork) FireFeedback(roll float64) bool {
	n.mu.Lock()
	if len(n.feedbacks) == 0 {
		n.mu.Unlock()
		return false
	}
	next := n.feedbacks[0]
	n.feedbacks = n.feedbacks[1:]
	n.mu.Unlock()

	next(roll)
	return true
}

// FakeClock is a settable time source.
type FakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func NewFakeClock(now time.Time) *FakeClock {
	return &FakeClock{now: now}
}

func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// MockMetrics implements providers.MetricsProviderInterface and records the
// calls tests care about.
type MockMetrics struct {
	mu          sync.Mutex
	Requests    map[string]int
	CacheHits   int
	CacheMisses int
	StorageOps  map[string]int
	StorageErrs map[string]int
	Actions     map[string]int
	XPAwarded   map[string]int
	LevelUps    int
	XP          int
	Level       int
}

func NewMockMetrics() *MockMetrics {
	return &MockMetrics{
		Requests:    make(map[string]int),
		StorageOps:  make(map[string]int),
		StorageErrs: make(map[string]int),
		Actions:     make(map[string]int),
		XPAwarded:   make(map[string]int),
	}
}

func (m *MockMetrics) IncRequestsTotal(endpoint string, _ int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Requests[endpoint]++
}
func (m *MockMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (m *MockMetrics) IncCacheHits() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheHits++
}
func (m *MockMetrics) IncCacheMisses() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheMisses++
}
func (m *MockMetrics) ObserveStorageDuration(op string, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.StorageOps[op]++
}
func (m *MockMetrics) IncStorageErrors(op string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.StorageErrs[op]++
}
func (m *MockMetrics) IncActions(action string, accepted bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if accepted {
		m.Actions[action+":accepted"]++
	} else {
		m.Actions[action+":rejected"]++
	}
}
func (m *MockMetrics) AddXPAwarded(reason string, amount int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.XPAwarded[reason] += amount
}
func (m *MockMetrics) IncLevelUps() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LevelUps++
}
func (m *MockMetrics) SetProgress(xp, level int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.XP = xp
	m.Level = level
}

// ActionCount reads a key such as "cast:accepted".
func (m *MockMetrics) ActionCount(key string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Actions[key]
}

// MockCache implements providers.CacheProviderInterface over a map.
type MockCache struct {
	mu   sync.Mutex
	Data map[string][]byte
}

func NewMockCache() *MockCache {
	return &MockCache{Data: make(map[string][]byte)}
}

func (c *MockCache) Get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.Data[key]
	return v, ok
}

func (c *MockCache) Set(key string, value []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Data[key] = append([]byte(nil), value...)
}

func (c *MockCache) Del(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.Data, key)
}

func (c *MockCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Data = make(map[string][]byte)
}

// MockCompressor implements interfaces.CompressorInterface as identity.
type MockCompressor struct {
	CompressErr   error
	DecompressErr error
}

func (c *MockCompressor) Compress(val []byte) ([]byte, error) {
	if c.CompressErr != nil {
		return nil, c.CompressErr
	}
	return append([]byte(nil), val...), nil
}

func (c *MockCompressor) Decompress(val []byte) ([]byte, error) {
	if c.DecompressErr != nil {
		return nil, c.DecompressErr
	}
	return append([]byte(nil), val...), nil
}

func (c *MockCompressor) Close() {}
