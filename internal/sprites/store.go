package sprites

import (
	"errors"
	"sync"

	"github.com/google/uuid"
)

// ErrNoStore is the panic value raised when a store is used before one was established.
var ErrNoStore = errors.New("sprites: store used outside its scope")

// Store is the ordered, append-only collection of placed sprites shared by
// every editor and map canvas of a process. Insertion order is draw order.
type Store struct {
	mu      sync.RWMutex
	sprites []Sprite
	subs    map[string]chan struct{}
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		subs: make(map[string]chan struct{}),
	}
}

// MustUse panics with ErrNoStore if s is nil.
func MustUse(s *Store) *Store {
	if s == nil {
		panic(ErrNoStore)
	}
	return s
}

// Add appends a sprite and notifies subscribers. A missing ID is filled in.
// The stored copy is returned.
func (s *Store) Add(sp Sprite) Sprite {
	MustUse(s)

	if sp.ID == "" {
		sp.ID = uuid.NewString()
	}

	s.mu.Lock()
	s.sprites = append(s.sprites, sp)
	for _, ch := range s.subs {
		// A pending signal already covers this add.
		select {
		case ch <- struct{}{}:
		default:
		}
	}
	s.mu.Unlock()

	return sp
}

// List returns a snapshot of all sprites in insertion order.
func (s *Store) List() []Sprite {
	MustUse(s)

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Sprite, len(s.sprites))
	copy(out, s.sprites)
	return out
}

// Len returns the number of stored sprites.
func (s *Store) Len() int {
	MustUse(s)

	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sprites)
}

// Subscribe registers for change notifications. The returned channel receives
// a signal after one or more adds; signals are coalesced.
func (s *Store) Subscribe() (string, <-chan struct{}) {
	MustUse(s)

	id := uuid.NewString()
	ch := make(chan struct{}, 1)

	s.mu.Lock()
	s.subs[id] = ch
	s.mu.Unlock()

	return id, ch
}

// Unsubscribe removes a subscription and closes its channel.
func (s *Store) Unsubscribe(id string) {
	MustUse(s)

	s.mu.Lock()
	defer s.mu.Unlock()

	if ch, ok := s.subs[id]; ok {
		close(ch)
		delete(s.subs, id)
	}
}
