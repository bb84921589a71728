// Package memory is an in-process storage.Store, used when no database is
// configured and as a test double.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/akashipov/feeservice/internal/fee"
	"github.com/akashipov/feeservice/internal/storage"
)

var _ storage.Store = (*Store)(nil)

type Store struct {
	mu    sync.RWMutex
	specs []fee.Specification
	ids   map[string]struct{}
}

func New(specs ...fee.Specification) *Store {
	s := &Store{ids: make(map[string]struct{})}
	for _, spec := range specs {
		s.specs = append(s.specs, spec)
		s.ids[spec.FeeID] = struct{}{}
	}
	return s
}

func (s *Store) CountDocuments(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.specs)), nil
}

func (s *Store) Find(ctx context.Context, filter fee.Filter) ([]fee.Specification, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	var found []fee.Specification
	for _, spec := range s.specs {
		if filter.Matches(spec) {
			found = append(found, spec)
		}
	}
	return found, nil
}

func (s *Store) Save(ctx context.Context, specs ...fee.Specification) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.appendLocked(specs)
}

func (s *Store) Replace(ctx context.Context, specs ...fee.Specification) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	old, oldIDs := s.specs, s.ids
	s.specs, s.ids = nil, make(map[string]struct{})
	if err := s.appendLocked(specs); err != nil {
		s.specs, s.ids = old, oldIDs
		return err
	}
	return nil
}

// appendLocked is all-or-nothing: a duplicate id leaves the store untouched.
func (s *Store) appendLocked(specs []fee.Specification) error {
	seen := make(map[string]struct{}, len(specs))
	for _, spec := range specs {
		if _, ok := s.ids[spec.FeeID]; ok {
			return fmt.Errorf("%w: %q already exists", storage.ErrDuplicateFeeID, spec.FeeID)
		}
		if _, ok := seen[spec.FeeID]; ok {
			return fmt.Errorf("%w: %q is repeated", storage.ErrDuplicateFeeID, spec.FeeID)
		}
		seen[spec.FeeID] = struct{}{}
	}
	for _, spec := range specs {
		s.specs = append(s.specs, spec)
		s.ids[spec.FeeID] = struct{}{}
	}
	return nil
}

func (s *Store) Close() error {
	return nil
}
