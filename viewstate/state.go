// Package viewstate holds the presentation adapters: observable state
// containers mirroring the latest repository read, re-invoking repository
// calls on user action.
package viewstate

import "sync"

// State is an observable value container. Set replaces the value and fans it
// out to subscribers; a subscriber that lags sees coalesced updates, always
// ending on the latest value.
type State[T any] struct {
	mu    sync.Mutex
	value T
	subs  map[int]chan T
	next  int
}

func NewState[T any](initial T) *State[T] {
	return &State[T]{value: initial, subs: make(map[int]chan T)}
}

func (s *State[T]) Get() T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value
}

func (s *State[T]) Set(v T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.value = v
	for _, ch := range s.subs {
		select {
		case ch <- v:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- v
		}
	}
}

// Subscribe registers a listener that immediately receives the current value
// and then every update until cancel is called.
func (s *State[T]) Subscribe() (<-chan T, func()) {
	s.mu.Lock()
	ch := make(chan T, 1)
	id := s.next
	s.next++
	s.subs[id] = ch
	ch <- s.value
	s.mu.Unlock()

	cancel := func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
	return ch, cancel
}
