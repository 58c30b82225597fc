package persistence

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"ltemon/internal/domain"
)

func openTestDB(t *testing.T) *MeasurementRepo {
	t.Helper()
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "app.db")

	db, err := Open(ctx, dbPath)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	return NewMeasurementRepo(db)
}

func TestMeasurementRepoInsertAndListRoundTripsFields(t *testing.T) {
	ctx := context.Background()
	repo := openTestDB(t)
	now := time.Now().UTC().Truncate(time.Millisecond)

	m := domain.Measurement{
		ID:         "m-1",
		Source:     "ip",
		Signal:     domain.NewCellSignal(10, -98, domain.FieldUnavailable, 4, 7, domain.FieldUnavailable),
		ReceivedAt: now,
	}
	if err := repo.Insert(ctx, m); err != nil {
		t.Fatalf("insert measurement: %v", err)
	}

	got, err := repo.ListRecent(ctx, 10)
	if err != nil {
		t.Fatalf("list measurements: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected one measurement, got %d", len(got))
	}
	if !got[0].Signal.Equal(m.Signal) {
		t.Fatalf("signal mismatch after round trip: got %s want %s", got[0].Signal, m.Signal)
	}
	if !got[0].ReceivedAt.Equal(now) {
		t.Fatalf("received_at mismatch: got %v want %v", got[0].ReceivedAt, now)
	}
	if got[0].Source != "ip" {
		t.Fatalf("source mismatch: got %q", got[0].Source)
	}
}

func TestMeasurementRepoStoresUnavailableAsNull(t *testing.T) {
	ctx := context.Background()
	repo := openTestDB(t)

	m := domain.Measurement{
		ID:         "m-2",
		Source:     "serial",
		Signal:     domain.UnknownCellSignal(),
		ReceivedAt: time.Now(),
	}
	if err := repo.Insert(ctx, m); err != nil {
		t.Fatalf("insert empty measurement: %v", err)
	}

	var nullCount int
	if err := repo.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM measurements
		WHERE rsrp IS NULL AND rsrq IS NULL AND rssnr IS NULL
			AND cqi IS NULL AND timing_advance IS NULL AND signal_strength IS NULL
	`).Scan(&nullCount); err != nil {
		t.Fatalf("count null rows: %v", err)
	}
	if nullCount != 1 {
		t.Fatalf("expected unavailable fields to be stored as NULL")
	}

	got, err := repo.ListRecent(ctx, 1)
	if err != nil {
		t.Fatalf("list measurements: %v", err)
	}
	if !got[0].Signal.Equal(domain.UnknownCellSignal()) {
		t.Fatalf("expected sentinel reconstruction on read, got %s", got[0].Signal)
	}
}

func TestMeasurementRepoListRecentOrdersNewestFirst(t *testing.T) {
	ctx := context.Background()
	repo := openTestDB(t)
	base := time.Now().UTC()

	for i, id := range []string{"old", "mid", "new"} {
		m := domain.Measurement{
			ID:         id,
			Source:     "ip",
			Signal:     domain.NewCellSignal(int32(i), -98, -12, 4, 7, 50),
			ReceivedAt: base.Add(time.Duration(i) * time.Minute),
		}
		if err := repo.Insert(ctx, m); err != nil {
			t.Fatalf("insert %q: %v", id, err)
		}
	}

	got, err := repo.ListRecent(ctx, 2)
	if err != nil {
		t.Fatalf("list measurements: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected limit to apply, got %d rows", len(got))
	}
	if got[0].ID != "new" || got[1].ID != "mid" {
		t.Fatalf("unexpected order: %q then %q", got[0].ID, got[1].ID)
	}
}

func TestMeasurementRepoDeleteOlderThan(t *testing.T) {
	ctx := context.Background()
	repo := openTestDB(t)
	base := time.Now().UTC()

	for i := 0; i < 4; i++ {
		m := domain.Measurement{
			ID:         string(rune('a' + i)),
			Source:     "ip",
			Signal:     domain.UnknownCellSignal(),
			ReceivedAt: base.Add(time.Duration(i) * time.Hour),
		}
		if err := repo.Insert(ctx, m); err != nil {
			t.Fatalf("insert %d: %v", i, err)
		}
	}

	deleted, err := repo.DeleteOlderThan(ctx, base.Add(90*time.Minute))
	if err != nil {
		t.Fatalf("delete older than: %v", err)
	}
	if deleted != 2 {
		t.Fatalf("expected 2 deleted rows, got %d", deleted)
	}

	rest, err := repo.ListRecent(ctx, 10)
	if err != nil {
		t.Fatalf("list measurements: %v", err)
	}
	if len(rest) != 2 {
		t.Fatalf("expected 2 remaining rows, got %d", len(rest))
	}
}
