package backend

import (
	"context"
	"fmt"
	"time"

	"moneytrack/internal/log"
	"moneytrack/internal/storage"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *log.Logger
	now    func() time.Time
}

// NewFactory creates a factory. now seeds first-run defaults; nil means
// time.Now.
func NewFactory(logger *log.Logger, now func() time.Time) Factory {
	if logger == nil {
		logger = log.Discard()
	}
	return &DefaultFactory{
		logger: logger.WithComponent(log.ComponentBackend),
		now:    now,
	}
}

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	switch config.Type {
	case MemoryBackend:
		f.logger.InfoContext(ctx, "Initialized memory backend")
		return f.result(storage.NewMemoryStore(), nil), nil

	case FileBackend:
		fs, err := storage.NewFileStore(config.SnapshotDir, config.StorageKey)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize file store: %w", err)
		}
		f.logger.InfoContext(ctx, "Initialized file backend", "path", fs.Path())
		return f.result(fs, nil), nil

	case SQLiteBackend:
		s, err := storage.NewSQLiteStore(config.SQLiteDBPath, config.StorageKey)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SQLite store: %w", err)
		}
		f.logger.InfoContext(ctx, "Initialized SQLite backend", "db_path", config.SQLiteDBPath)
		return f.result(s, s.Close), nil

	case RedisBackend:
		r := storage.NewRedisStore(storage.RedisOptions{
			Addr:     config.RedisAddr,
			Password: config.RedisPassword,
			DB:       config.RedisDB,
		}, config.StorageKey)
		// Unreachable is logged, not fatal; Load falls back to defaults.
		if err := r.Ping(ctx); err != nil {
			f.logger.WarnContext(ctx, "Redis not reachable at startup",
				"addr", config.RedisAddr, log.FieldError, err.Error())
		}
		f.logger.InfoContext(ctx, "Initialized Redis backend", "addr", config.RedisAddr)
		return f.result(r, r.Close), nil
	}
	return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
}

func (f *DefaultFactory) result(blob storage.Blob, cleanup CleanupFunc) *BackendResult {
	return &BackendResult{
		Provider: storage.NewSnapshots(blob, f.now, f.logger),
		Cleanup:  cleanup,
	}
}
