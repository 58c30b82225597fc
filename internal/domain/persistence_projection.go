package domain

import (
	"context"

	"ltemon/internal/bus"
	"ltemon/internal/connectors"
)

// WriteQueue serializes persistence writes from async domain events.
type WriteQueue interface {
	Enqueue(name string, fn func(context.Context) error)
}

// StartPersistenceProjection copies every signal update from the bus into
// the measurement history.
func StartPersistenceProjection(ctx context.Context, b bus.MessageBus, queue WriteQueue, repo MeasurementRepository) {
	sub := b.Subscribe(connectors.TopicSignalUpdate)

	go func() {
		defer b.Unsubscribe(sub, connectors.TopicSignalUpdate)
		for {
			select {
			case <-ctx.Done():
				return
			case raw, ok := <-sub:
				if !ok {
					return
				}
				m, ok := raw.(Measurement)
				if !ok {
					continue
				}
				queue.Enqueue("insert_measurement", func(writeCtx context.Context) error {
					return repo.Insert(writeCtx, m)
				})
			}
		}
	}()
}
