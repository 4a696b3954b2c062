package state

import (
	"context"
	"sync"

	"moneytrack/internal/core"
	"moneytrack/internal/log"
)

// Saver persists a snapshot. Store treats failures as non-fatal.
type Saver interface {
	Save(ctx context.Context, s core.AppState) error
}

// Store is the mutable cell around Apply. Commands are serialized; every
// accepted command bumps the revision and triggers a save.
type Store struct {
	mu       sync.Mutex
	current  core.AppState
	revision uint64
	saver    Saver
	logger   *log.Logger
}

func NewStore(initial core.AppState, saver Saver, logger *log.Logger) *Store {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &Store{
		current: initial.Clone(),
		saver:   saver,
		logger:  logger.WithComponent(log.ComponentState),
	}
}

// Snapshot returns a private copy of the current state.
func (s *Store) Snapshot() core.AppState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current.Clone()
}

// Revision increases by one for every accepted command.
func (s *Store) Revision() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.revision
}

// Versioned returns a private copy of the state together with the revision
// it belongs to.
func (s *Store) Versioned() (core.AppState, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current.Clone(), s.revision
}

// Dispatch applies cmd. A rejected command leaves the state and revision
// untouched and returns the validation error. Save failures are logged only.
// The save ignores ctx cancellation so an accepted command is always written.
func (s *Store) Dispatch(ctx context.Context, cmd Command) (core.AppState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := Apply(s.current, cmd)
	if err != nil {
		s.logger.DebugContext(ctx, "Command rejected",
			log.FieldCommand, cmd.Name(),
			log.FieldError, err.Error())
		return s.current.Clone(), err
	}
	s.current = next
	s.revision++

	if s.saver != nil {
		if err := s.saver.Save(context.WithoutCancel(ctx), s.current); err != nil {
			s.logger.ErrorContext(ctx, "Failed to persist snapshot",
				log.FieldCommand, cmd.Name(),
				log.FieldRevision, s.revision,
				log.FieldError, err.Error(),
				log.FieldErrorType, log.ErrorTypeStorage)
		}
	}
	s.logger.DebugContext(ctx, "Command applied",
		log.FieldCommand, cmd.Name(),
		log.FieldRevision, s.revision)
	return s.current.Clone(), nil
}
