package usermode

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
)

// Backend defines the durable mirror of the preference table.
type Backend interface {
	// Load returns the whole table. It returns an error wrapping
	// ErrTableNotExist if nothing has been saved yet.
	Load(ctx context.Context) (map[string]string, error)
	// Save overwrites the durable copy with table.
	Save(ctx context.Context, table map[string]string) error
}

// Store holds the mode of each user and persists every change to its Backend.
type Store struct {
	mu          sync.Mutex
	backend     Backend
	table       map[string]string
	defaultMode Mode
	logger      *slog.Logger
}

// Option configures a Store.
type Option func(*storeOptions)

type storeOptions struct {
	defaultMode string
	logger      *slog.Logger
}

// WithDefaultMode sets the mode reported for users with no stored value.
func WithDefaultMode(m string) Option {
	return func(o *storeOptions) {
		o.defaultMode = m
	}
}

// WithLogger sets the logger used to report degraded loads.
func WithLogger(logger *slog.Logger) Option {
	return func(o *storeOptions) {
		o.logger = logger
	}
}

// NewStore loads the table from backend and returns a Store.
//
// A backend with no table yet is initialised with an empty one, and a failure
// of that write is returned. Any other load failure is logged and the store
// starts empty; the backend is left untouched until the next write.
func NewStore(ctx context.Context, backend Backend, opts ...Option) (*Store, error) {
	o := storeOptions{
		defaultMode: string(DefaultMode),
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(&o)
	}

	def, err := ParseMode(o.defaultMode)
	if err != nil {
		return nil, err
	}

	s := &Store{
		backend:     backend,
		table:       make(map[string]string),
		defaultMode: def,
		logger:      o.logger,
	}

	table, err := backend.Load(ctx)
	switch {
	case errors.Is(err, ErrTableNotExist):
		if err := backend.Save(ctx, s.table); err != nil {
			return nil, fmt.Errorf("creating mode table: %w", err)
		}
	case err != nil:
		s.logger.Warn("mode table unreadable, starting empty", "error", err)
	case table != nil:
		s.table = table
	}

	return s, nil
}

// GetMode returns the stored mode for userID, or the default mode if none is
// stored. Values loaded from the backend are returned as they were found.
func (s *Store) GetMode(userID string) Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getLocked(userID)
}

func (s *Store) getLocked(userID string) Mode {
	if v, ok := s.table[userID]; ok {
		return Mode(v)
	}
	return s.defaultMode
}

// SetMode normalizes mode, stores it for userID and rewrites the backend.
// It returns an *InvalidModeError if mode is not a known mode, in which case
// nothing is changed.
func (s *Store) SetMode(ctx context.Context, userID string, mode string) (Mode, error) {
	m, err := ParseMode(mode)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.setLocked(ctx, userID, m); err != nil {
		return "", err
	}
	return m, nil
}

// Toggle flips the mode for userID and returns the new mode.
func (s *Store) Toggle(ctx context.Context, userID string) (Mode, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.getLocked(userID).Opposite()
	if err := s.setLocked(ctx, userID, next); err != nil {
		return "", err
	}
	return next, nil
}

// setLocked writes m and persists the table, restoring the previous entry if
// the backend write fails.
func (s *Store) setLocked(ctx context.Context, userID string, m Mode) error {
	prev, had := s.table[userID]
	s.table[userID] = string(m)

	if err := s.backend.Save(ctx, s.table); err != nil {
		if had {
			s.table[userID] = prev
		} else {
			delete(s.table, userID)
		}
		return fmt.Errorf("saving mode for %q: %w", userID, err)
	}

	s.logger.Debug("mode updated", "userId", userID, "mode", m)
	return nil
}

// Modes returns a copy of the preference table.
func (s *Store) Modes() map[string]Mode {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]Mode, len(s.table))
	for k, v := range s.table {
		out[k] = Mode(v)
	}
	return out
}
