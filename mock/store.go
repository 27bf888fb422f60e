package mock

import (
	"context"

	"github.com/fwojciec/minerva"
)

// Interface compliance check.
var _ minerva.Store = (*Store)(nil)

// Store is a test double for minerva.Store. All function fields are
// nil-safe: Load returns an empty collection and Save/Clear succeed, so
// tests that only exercise in-memory behavior need no setup.
type Store struct {
	LoadFn  func(ctx context.Context) ([]minerva.ChatSession, error)
	SaveFn  func(ctx context.Context, sessions []minerva.ChatSession) error
	ClearFn func(ctx context.Context) error
}

// Load delegates to LoadFn. Returns an empty collection when LoadFn is nil.
func (s *Store) Load(ctx context.Context) ([]minerva.ChatSession, error) {
	if s.LoadFn == nil {
		return nil, nil
	}
	return s.LoadFn(ctx)
}

// Save delegates to SaveFn. Returns nil when SaveFn is not set.
func (s *Store) Save(ctx context.Context, sessions []minerva.ChatSession) error {
	if s.SaveFn == nil {
		return nil
	}
	return s.SaveFn(ctx, sessions)
}

// Clear delegates to ClearFn. Returns nil when ClearFn is not set.
func (s *Store) Clear(ctx context.Context) error {
	if s.ClearFn == nil {
		return nil
	}
	return s.ClearFn(ctx)
}
