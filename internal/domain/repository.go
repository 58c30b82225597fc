package domain

import (
	"context"
	"time"
)

// MeasurementRepository persists received signal snapshots.
type MeasurementRepository interface {
	Insert(ctx context.Context, m Measurement) error
	ListRecent(ctx context.Context, limit int) ([]Measurement, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
