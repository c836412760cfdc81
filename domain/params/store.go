// Package params implements the per-user parameter store: a mapping from
// parameter id to the last saved value, with last-write-wins semantics.
package params

import (
	"errors"
	"sort"
	"sync"
	"time"
)

// ErrNotFound is the sentinel returned when a parameter id has no stored
// value.
var ErrNotFound = errors.New("parameter not found")

// StoredParameter is one saved parameter value
type StoredParameter struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Value     interface{} `json:"value"`
	Unit      string      `json:"unit,omitempty"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

// Snapshot is the serialized form of a store: the full list of stored
// parameters. It is the unit of persistence; partial writes do not exist.
type Snapshot []StoredParameter

// Store holds one owner's parameters. All operations are synchronous and
// total; writing an existing id overwrites value, unit and timestamp.
type Store struct {
	mu    sync.RWMutex
	byID  map[string]StoredParameter
	clock func() time.Time
}

// Option configures a store
type Option func(*Store)

// WithClock overrides the write-timestamp clock; used by tests
func WithClock(clock func() time.Time) Option {
	return func(s *Store) { s.clock = clock }
}

// NewStore creates an empty store
func NewStore(opts ...Option) *Store {
	s := &Store{
		byID:  make(map[string]StoredParameter),
		clock: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewStoreFromSnapshot restores a store from a persisted snapshot
func NewStoreFromSnapshot(snap Snapshot, opts ...Option) *Store {
	s := NewStore(opts...)
	for _, p := range snap {
		if p.ID == "" {
			continue
		}
		s.byID[p.ID] = p
	}
	return s
}

// AddParameter upserts a parameter by id, stamping the current time
func (s *Store) AddParameter(id, name string, value interface{}, unit string) StoredParameter {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := StoredParameter{
		ID:        id,
		Name:      name,
		Value:     value,
		Unit:      unit,
		UpdatedAt: s.clock(),
	}
	s.byID[id] = p
	return p
}

// RemoveParameter deletes a parameter by id; removing an absent id is a
// no-op.
func (s *Store) RemoveParameter(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.byID, id)
}

// ClearParameters empties the store
func (s *Store) ClearParameters() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byID = make(map[string]StoredParameter)
}

// GetParameterValue returns the stored value for id, or ErrNotFound
func (s *Store) GetParameterValue(id string) (interface{}, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return p.Value, nil
}

// Get returns the full stored parameter for id
func (s *Store) Get(id string) (StoredParameter, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.byID[id]
	return p, ok
}

// List returns all stored parameters sorted by id
func (s *Store) List() []StoredParameter {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]StoredParameter, 0, len(s.byID))
	for _, p := range s.byID {
		list = append(list, p)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list
}

// Len returns the number of stored parameters
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}

// Snapshot captures the store's current contents for persistence
func (s *Store) Snapshot() Snapshot {
	return Snapshot(s.List())
}
