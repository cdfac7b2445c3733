package properties

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"
	"suremdm-property-sync/internal/common/logging"
)

// LoaderFunc produces the full dataset. Implementations are called at most
// once per Store lifetime.
type LoaderFunc func() ([]Row, error)

// Store owns the process-wide dataset cache. The first Rows call triggers a
// single load; concurrent callers during that load all receive the same
// resolved dataset via singleflight. A failed load resolves the store to an
// empty, ready dataset — it is logged, never surfaced, and never retried.
type Store struct {
	loader LoaderFunc
	logger logging.Logger
	group  singleflight.Group

	mu    sync.RWMutex
	rows  []Row
	ready bool
}

// NewStore creates a Store backed by the CSV file at path.
func NewStore(path string, logger logging.Logger) *Store {
	return NewStoreWithLoader(func() ([]Row, error) {
		return LoadFile(path)
	}, logger)
}

// NewStoreWithLoader creates a Store with a custom loader, used by tests to
// inject fake datasets and by callers that source rows elsewhere.
func NewStoreWithLoader(loader LoaderFunc, logger logging.Logger) *Store {
	if logger == nil {
		logger = logging.GetGlobalLogger()
	}
	return &Store{
		loader: loader,
		logger: logger,
	}
}

// Rows returns the cached dataset, loading it on first use. Safe for
// concurrent use; the backing loader runs at most once.
func (s *Store) Rows(ctx context.Context) []Row {
	s.mu.RLock()
	if s.ready {
		rows := s.rows
		s.mu.RUnlock()
		return rows
	}
	s.mu.RUnlock()

	result, _, _ := s.group.Do("dataset", func() (interface{}, error) {
		// A caller that lost the singleflight race may arrive here after
		// the winner already published the dataset.
		s.mu.RLock()
		if s.ready {
			rows := s.rows
			s.mu.RUnlock()
			return rows, nil
		}
		s.mu.RUnlock()

		rows, err := s.loader()
		if err != nil {
			s.logger.Warn("Failed to load property dataset, continuing with empty dataset",
				logging.Field{Key: "error", Value: err.Error()})
			rows = []Row{}
		} else {
			s.logger.Info("Property dataset loaded",
				logging.Field{Key: "rows", Value: len(rows)})
		}

		s.mu.Lock()
		s.rows = rows
		s.ready = true
		s.mu.Unlock()

		return rows, nil
	})

	return result.([]Row)
}

// Ready reports whether the dataset has been resolved, successfully or not.
func (s *Store) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ready
}

// Len returns the number of cached rows, zero before the first load.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rows)
}
