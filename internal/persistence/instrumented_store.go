package persistence

import (
	"context"
	"time"

	"drift/internal/persistence/interfaces"
	"drift/internal/providers"
)

type InstrumentedStore struct {
	inner   interfaces.KeyValueStoreInterface
	metrics providers.MetricsProviderInterface
}

func NewInstrumentedStore(inner interfaces.KeyValueStoreInterface, metrics providers.MetricsProviderInterface) *InstrumentedStore {
	return &InstrumentedStore{inner: inner, metrics: metrics}
}

func (s *InstrumentedStore) observe(op string, start time.Time, err error) {
	s.metrics.ObserveStorageDuration(op, time.Since(start))
	if err != nil {
		s.metrics.IncStorageErrors(op)
	}
}

func (s *InstrumentedStore) Get(ctx context.Context, key string) (string, bool, error) {
	start := time.Now()
	val, found, err := s.inner.Get(ctx, key)
	s.observe("get", start, err)
	return val, found, err
}

func (s *InstrumentedStore) Set(ctx context.Context, key, value string) error {
	start := time.Now()
	err := s.inner.Set(ctx, key, value)
	s.observe("set", start, err)
	return err
}

func (s *InstrumentedStore) Delete(ctx context.Context, key string) error {
	start := time.Now()
	err := s.inner.Delete(ctx, key)
	s.observe("delete", start, err)
	return err
}

func (s *InstrumentedStore) Close() error {
	return s.inner.Close()
}

var _ interfaces.KeyValueStoreInterface = (*InstrumentedStore)(nil)
