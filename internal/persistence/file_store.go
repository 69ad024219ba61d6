package persistence

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"drift/internal/persistence/interfaces"
	"drift/internal/providers"

	json "github.com/goccy/go-json"
)

// FileStore keeps the whole key space in memory and rewrites a single
// zstd-compressed JSON document on every mutation.
type FileStore struct {
	mu         sync.RWMutex
	path       string
	data       map[string]string
	compressor interfaces.CompressorInterface
	logger     providers.Logger
}

func NewFileStore(path string, compressor interfaces.CompressorInterface, logger providers.Logger) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create storage directory: %w", err)
	}

	fs := &FileStore{
		path:       path,
		data:       make(map[string]string),
		compressor: compressor,
		logger:     logger,
	}
	if err := fs.load(); err != nil {
		return nil, err
	}
	return fs, nil
}

func (fs *FileStore) load() error {
	raw, err := os.ReadFile(fs.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read %s: %w", fs.path, err)
	}

	payload, err := fs.compressor.Decompress(raw)
	if err != nil {
		// Plain JSON files written by hand or by older builds are accepted as-is.
		fs.logger.Warnf(providers.TypeStorage, "Store file %s is not compressed, reading as plain JSON", fs.path)
		payload = raw
	}

	var data map[string]string
	if err := json.Unmarshal(payload, &data); err != nil {
		corrupt := fs.path + ".corrupt"
		fs.logger.Errorf(providers.TypeStorage, "Store file %s is unreadable (%s), moved to %s", fs.path, err, corrupt)
		if err := os.Rename(fs.path, corrupt); err != nil {
			return fmt.Errorf("move corrupt store aside: %w", err)
		}
		return nil
	}
	if data != nil {
		fs.data = data
	}
	return nil
}

func (fs *FileStore) Get(_ context.Context, key string) (string, bool, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	val, ok := fs.data[key]
	return val, ok, nil
}

func (fs *FileStore) Set(_ context.Context, key, value string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	prev, had := fs.data[key]
	fs.data[key] = value
	if err := fs.save(); err != nil {
		if had {
			fs.data[key] = prev
		} else {
			delete(fs.data, key)
		}
		return err
	}
	return nil
}

func (fs *FileStore) Delete(_ context.Context, key string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	prev, had := fs.data[key]
	if !had {
		return nil
	}
	delete(fs.data, key)
	if err := fs.save(); err != nil {
		fs.data[key] = prev
		return err
	}
	return nil
}

// save must be called under fs.mu.
func (fs *FileStore) save() error {
	jsonData, err := json.Marshal(fs.data)
	if err != nil {
		return err
	}
	data, err := fs.compressor.Compress(jsonData)
	if err != nil {
		return err
	}

	tmpFile := fs.path + ".tmp"
	file, err := os.Create(tmpFile)
	if err != nil {
		return err
	}

	_, err = file.Write(data)
	if err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Sync(); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Close(); err != nil {
		os.Remove(tmpFile)
		return err
	}

	return os.Rename(tmpFile, fs.path)
}

func (fs *FileStore) Close() error {
	fs.compressor.Close()
	return nil
}

var _ interfaces.KeyValueStoreInterface = (*FileStore)(nil)
