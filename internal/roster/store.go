// Package roster owns the in-memory staff records for the running session.
package roster

import (
	"sync"

	"github.com/spec-kit/staff-tracker/internal/domain"
	apperrors "github.com/spec-kit/staff-tracker/pkg/util/errorutil"
)

// Store is the single owner of every StaffMember. All reads hand out copies;
// all writes go through Replace, Update or Scan under one lock.
type Store struct {
	mu         sync.RWMutex
	members    []*domain.StaffMember
	index      map[int]*domain.StaffMember
	generation int
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{index: make(map[int]*domain.StaffMember)}
}

// Replace swaps the whole roster and returns the new generation number.
func (s *Store) Replace(members []domain.StaffMember) int {
	list := make([]*domain.StaffMember, 0, len(members))
	index := make(map[int]*domain.StaffMember, len(members))
	for i := range members {
		m := members[i].Clone()
		list = append(list, &m)
		index[m.ID] = &m
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.members = list
	s.index = index
	s.generation++
	return s.generation
}

// Snapshot returns a deep copy of the roster in display order.
func (s *Store) Snapshot() []domain.StaffMember {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.StaffMember, 0, len(s.members))
	for _, m := range s.members {
		out = append(out, m.Clone())
	}
	return out
}

// Get returns a copy of the member with the given id.
func (s *Store) Get(id int) (domain.StaffMember, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.index[id]
	if !ok {
		return domain.StaffMember{}, false
	}
	return m.Clone(), true
}

// Update applies fn to the member in place and returns the resulting copy.
// When fn fails the member is left exactly as it was.
func (s *Store) Update(id int, fn func(*domain.StaffMember) error) (domain.StaffMember, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.index[id]
	if !ok {
		return domain.StaffMember{}, apperrors.NewNotFound("staff member", map[string]any{"id": id})
	}
	working := m.Clone()
	if err := fn(&working); err != nil {
		return domain.StaffMember{}, err
	}
	*m = working
	return m.Clone(), nil
}

// Scan visits every member under the write lock and collects copies of
// those for which fn returned true. fn may mutate the member.
func (s *Store) Scan(fn func(*domain.StaffMember) bool) []domain.StaffMember {
	s.mu.Lock()
	defer s.mu.Unlock()
	var hits []domain.StaffMember
	for _, m := range s.members {
		if fn(m) {
			hits = append(hits, m.Clone())
		}
	}
	return hits
}

// Len returns the number of records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.members)
}

// Generation increments on every Replace; zero means never loaded.
func (s *Store) Generation() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.generation
}
