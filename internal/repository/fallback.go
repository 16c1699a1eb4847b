package repository

import (
	"context"
	"errors"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/lehmann314159/kabyedict/internal/models"
)

// FallbackStore tries a primary store and degrades to a secondary one when
// the primary reports ErrBackendUnavailable. Other errors are returned as is.
//
// Once a Load has been served by the fallback the store stays degraded until
// the primary answers a Load again. Saves made while degraded never reach the
// primary, since the collection they carry was not read from it.
type FallbackStore struct {
	primary  EntryStore
	fallback EntryStore
	logger   logrus.FieldLogger

	mu       sync.Mutex
	degraded bool
}

// NewFallbackStore wraps primary, serving from fallback while primary is unreachable
func NewFallbackStore(primary, fallback EntryStore, logger logrus.FieldLogger) *FallbackStore {
	return &FallbackStore{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

// Degraded reports whether the last Load was served by the fallback
func (s *FallbackStore) Degraded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.degraded
}

func (s *FallbackStore) setDegraded(v bool) {
	s.mu.Lock()
	s.degraded = v
	s.mu.Unlock()
}

// Load reads from the primary store and mirrors the result into the fallback
func (s *FallbackStore) Load(ctx context.Context) (*models.Collection, error) {
	coll, err := s.primary.Load(ctx)
	if err == nil {
		s.setDegraded(false)
		if err := s.fallback.Save(ctx, coll); err != nil {
			s.logger.WithError(err).Warn("failed to refresh fallback snapshot")
		}
		return coll, nil
	}
	if !errors.Is(err, ErrBackendUnavailable) {
		return nil, err
	}

	s.setDegraded(true)
	s.logger.WithError(err).Warn("primary store unavailable, loading from memory")
	return s.fallback.Load(ctx)
}

// Save writes to the primary store; when it is unreachable, or the store is
// degraded, the write lands in the fallback only and is reported as successful
func (s *FallbackStore) Save(ctx context.Context, coll *models.Collection) error {
	if s.Degraded() {
		s.logger.Warn("primary store degraded, saving to memory only")
		return s.fallback.Save(ctx, coll)
	}

	err := s.primary.Save(ctx, coll)
	if err == nil {
		return s.fallback.Save(ctx, coll)
	}
	if !errors.Is(err, ErrBackendUnavailable) {
		return err
	}

	s.logger.WithError(err).Warn("primary store unavailable, saving to memory only")
	return s.fallback.Save(ctx, coll)
}
