package persistence

import (
	"fmt"

	"drift/internal/persistence/interfaces"
	"drift/internal/providers"
	"drift/internal/structures"
)

// NewStoreProvider opens the configured backend and layers metrics and the
// read-through cache over it.
func NewStoreProvider(conf *structures.Config, logger providers.Logger, metrics providers.MetricsProviderInterface, cache providers.CacheProviderInterface, compressor interfaces.CompressorInterface) (interfaces.KeyValueStoreInterface, error) {
	var (
		backend interfaces.KeyValueStoreInterface
		err     error
	)

	st := conf.Storage
	switch st.Driver {
	case "memory", "":
		backend = NewMemoryStore()
	case "file":
		backend, err = NewFileStore(st.FilePath, compressor, logger)
	case "sqlite":
		backend, err = NewSQLiteStore(st.SqlitePath)
	case "redis":
		backend, err = DialRedisStore(st.RedisAddr, st.RedisPassword, st.RedisDB, st.Prefix)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", st.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s storage: %w", st.Driver, err)
	}

	logger.Infof(providers.TypeStorage, "Storage driver %s ready", st.Driver)
	return NewCachedStore(NewInstrumentedStore(backend, metrics), cache), nil
}
