package interfaces

import "context"

// KeyValueStoreInterface is a string-keyed store of opaque string values
// that survives process restarts.
type KeyValueStoreInterface interface {
	// Get returns found=false with a nil error for a missing key.
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// WriterInterface applies writes in the background. Enqueue never reports
// failures; they are logged and the next write of the key replaces them.
type WriterInterface interface {
	Enqueue(key, value string)
	EnqueueDelete(key string)
	// Flush returns once every write enqueued before the call has been applied.
	Flush(ctx context.Context) error
	Close() error
}
