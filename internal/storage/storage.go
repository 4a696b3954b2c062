// Package storage persists the tracker snapshot as one versioned JSON
// record under one key. Backends only move bytes; Snapshots owns the codec
// and the fallback to a seeded default.
package storage

import (
	"context"
	"errors"
	"time"

	"moneytrack/internal/catalog"
	"moneytrack/internal/core"
	"moneytrack/internal/log"
)

// DefaultKey names the single persisted record.
const DefaultKey = "student-money-tracker-v1"

// ErrNoSnapshot is returned by a Blob that holds nothing yet.
var ErrNoSnapshot = errors.New("no snapshot stored")

// Provider loads and saves the whole snapshot.
type Provider interface {
	// Load never fails: missing or unreadable data yields the default state.
	Load(ctx context.Context) core.AppState
	Save(ctx context.Context, s core.AppState) error
}

// Blob is the raw record a backend keeps.
type Blob interface {
	Read(ctx context.Context) ([]byte, error)
	Write(ctx context.Context, version int, payload []byte) error
}

// Pinger is implemented by blobs that can report their health.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Snapshots adapts a Blob into a Provider.
type Snapshots struct {
	blob   Blob
	now    func() time.Time
	logger *log.Logger
}

// NewSnapshots wraps blob. now feeds the seeded default; nil means time.Now.
func NewSnapshots(blob Blob, now func() time.Time, logger *log.Logger) *Snapshots {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = log.Discard()
	}
	return &Snapshots{blob: blob, now: now, logger: logger.WithComponent(log.ComponentStorage)}
}

func (s *Snapshots) Load(ctx context.Context) core.AppState {
	defaults := catalog.Seed(s.now())

	data, err := s.blob.Read(ctx)
	if errors.Is(err, ErrNoSnapshot) {
		s.logger.InfoContext(ctx, "No stored snapshot, starting from defaults")
		return defaults
	}
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to read snapshot, starting from defaults",
			log.FieldOperation, log.OpLoad,
			log.FieldError, err.Error(),
			log.FieldErrorType, log.ErrorTypeStorage)
		return defaults
	}

	state, version, err := Decode(data, defaults)
	if err != nil {
		s.logger.ErrorContext(ctx, "Stored snapshot unusable, starting from defaults",
			log.FieldOperation, log.OpLoad,
			log.FieldError, err.Error(),
			log.FieldErrorType, log.ErrorTypeStorage)
		return defaults
	}
	if version != CurrentVersion {
		s.logger.InfoContext(ctx, "Migrated stored snapshot",
			log.FieldOperation, log.OpMigrate,
			log.FieldVersion, version)
	}
	return state
}

func (s *Snapshots) Save(ctx context.Context, state core.AppState) error {
	data, err := Encode(state)
	if err != nil {
		return err
	}
	return s.blob.Write(ctx, CurrentVersion, data)
}

// Ping reports the backend health when it can tell.
func (s *Snapshots) Ping(ctx context.Context) error {
	if p, ok := s.blob.(Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}
