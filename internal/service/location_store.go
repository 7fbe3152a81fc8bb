package service

import (
	"sync"

	"github.com/venuenav/backend/internal/domain"
)

// LocationStore holds the single most recent known device location. It keeps
// an explicit unset state so callers can tell "no location yet" from a
// location at the zero coordinate. Updates overwrite atomically regardless of
// which source (host push or live feed) is calling.
type LocationStore struct {
	mu  sync.Mutex
	loc domain.Location
	set bool
}

// NewLocationStore creates an empty location store
func NewLocationStore() *LocationStore {
	return &LocationStore{}
}

// Update replaces the stored location. The new value is taken as-is; no
// range validation is performed, malformed input surfaces from the routing
// call downstream.
func (s *LocationStore) Update(loc domain.Location) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loc = loc
	s.set = true
}

// Current returns the latest location, or false when none has been set yet
func (s *LocationStore) Current() (domain.Location, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loc, s.set
}
