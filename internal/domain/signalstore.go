package domain

import (
	"context"
	"sync"

	"ltemon/internal/bus"
	"ltemon/internal/connectors"
)

// SignalStore keeps the most recent measurement in memory for the API and
// alert consumers.
type SignalStore struct {
	mu      sync.RWMutex
	latest  Measurement
	set     bool
	changes chan struct{}
}

func NewSignalStore() *SignalStore {
	return &SignalStore{
		changes: make(chan struct{}, 1),
	}
}

func (s *SignalStore) Start(ctx context.Context, b bus.MessageBus) {
	sub := b.Subscribe(connectors.TopicSignalUpdate)
	go func() {
		defer b.Unsubscribe(sub, connectors.TopicSignalUpdate)
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-sub:
				if !ok {
					return
				}
				m, ok := msg.(Measurement)
				if !ok {
					continue
				}
				s.Put(m)
			}
		}
	}()
}

func (s *SignalStore) Put(m Measurement) {
	s.mu.Lock()
	s.latest = m
	s.set = true
	s.mu.Unlock()
	s.notify()
}

// Latest returns the most recent measurement and whether one was received yet.
func (s *SignalStore) Latest() (Measurement, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.latest, s.set
}

// Changes signals after every stored update. The channel carries at most one
// pending tick; consumers re-read Latest after each receive.
func (s *SignalStore) Changes() <-chan struct{} {
	return s.changes
}

func (s *SignalStore) notify() {
	select {
	case s.changes <- struct{}{}:
	default:
	}
}
