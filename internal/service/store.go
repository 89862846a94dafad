package service

import (
	"sync"

	"weatherapp/internal/models"
)

// ResultStore holds the current weather result. The controller is the only
// writer; any number of readers may poll Current or Subscribe to transitions.
type ResultStore struct {
	mu      sync.RWMutex
	current models.Result
	subs    map[int]chan models.Result
	nextID  int
}

func NewResultStore() *ResultStore {
	return &ResultStore{
		current: models.Idle(),
		subs:    make(map[int]chan models.Result),
	}
}

// Current returns the latest published result.
func (s *ResultStore) Current() models.Result {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Publish replaces the current result unless r belongs to an older submission
// than the one already shown. It reports whether r was applied.
func (s *ResultStore) Publish(r models.Result) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if r.Seq < s.current.Seq {
		return false
	}
	s.current = r
	for _, ch := range s.subs {
		offerLatest(ch, r)
	}
	return true
}

// Subscribe returns a channel that receives every applied result and a func
// that cancels the subscription and closes the channel. A slow subscriber
// only ever sees the newest pending result.
func (s *ResultStore) Subscribe() (<-chan models.Result, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	ch := make(chan models.Result, 1)
	s.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			delete(s.subs, id)
			close(ch)
		})
	}
}

// Subscribers returns the number of active subscriptions.
func (s *ResultStore) Subscribers() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.subs)
}

// offerLatest delivers r without blocking, replacing a pending undelivered value.
// Callers must hold the store lock.
func offerLatest(ch chan models.Result, r models.Result) {
	select {
	case ch <- r:
		return
	default:
	}
	select {
	case <-ch:
	default:
	}
	ch <- r
}
