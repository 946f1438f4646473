// Package cart implements the client-side cart ledger: product id -> {name, price, count}.
//
// A Store is constructed explicitly by the composition root and shared by reference.
// Every public mutation that commits a change notifies subscribers exactly once,
// synchronously, after the lock is released.
package cart

import (
	"sync"

	"hwStore/entities"
)

// Listener receives a copy of the committed state. Listeners must not mutate the store.
type Listener func(state entities.CartState)

type subscription struct {
	id uint64
	fn Listener
}

type Store struct {
	mu        sync.Mutex
	state     entities.CartState
	listeners []subscription
	nextID    uint64
	// notifications are delivered in commit order
	notifyMu sync.Mutex
}

func NewStore() *Store {
	return &Store{
		state: entities.CartState{},
	}
}

func (s *Store) GetState() entities.CartState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// SetState replaces the whole mapping. Entries with count < 1 are dropped.
func (s *Store) SetState(state entities.CartState) {
	next := make(entities.CartState, len(state))
	for id, item := range state {
		if item.Count < 1 {
			continue
		}
		next[id] = item
	}
	s.commit(func(entities.CartState) (entities.CartState, bool) {
		return next, true
	})
}

// AddItem increments the entry's count or inserts it with count 1.
func (s *Store) AddItem(id int, name string, price float64) {
	s.commit(func(cur entities.CartState) (entities.CartState, bool) {
		item, ok := cur[id]
		if ok {
			item.Count++
		} else {
			item = entities.CartItem{Name: name, Price: price, Count: 1}
		}
		cur[id] = item
		return cur, true
	})
}

// RemoveItem decrements the entry's count and deletes it when the count reaches zero.
func (s *Store) RemoveItem(id int) {
	s.commit(func(cur entities.CartState) (entities.CartState, bool) {
		item, ok := cur[id]
		if !ok {
			return cur, false
		}
		if item.Count > 1 {
			item.Count--
			cur[id] = item
		} else {
			delete(cur, id)
		}
		return cur, true
	})
}

// DeleteItem drops the entry whatever its count.
func (s *Store) DeleteItem(id int) {
	s.commit(func(cur entities.CartState) (entities.CartState, bool) {
		if _, ok := cur[id]; !ok {
			return cur, false
		}
		delete(cur, id)
		return cur, true
	})
}

func (s *Store) Clear() {
	s.commit(func(entities.CartState) (entities.CartState, bool) {
		return entities.CartState{}, true
	})
}

// Has reports whether the product is in the cart.
func (s *Store) Has(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.state[id]
	return ok
}

// Subscribe registers a listener called after every committed mutation.
// The returned func removes it and is safe to call more than once.
func (s *Store) Subscribe(l Listener) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners = append(s.listeners, subscription{id: id, fn: l})
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			for i, sub := range s.listeners {
				if sub.id == id {
					s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
					return
				}
			}
		})
	}
}

func (s *Store) commit(mutate func(cur entities.CartState) (entities.CartState, bool)) {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	s.mu.Lock()
	next, changed := mutate(s.state)
	if !changed {
		s.mu.Unlock()
		return
	}
	s.state = next
	snapshot := next.Clone()
	listeners := make([]subscription, len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.Unlock()

	for _, sub := range listeners {
		sub.fn(snapshot.Clone())
	}
}
