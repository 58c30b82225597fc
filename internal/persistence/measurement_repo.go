package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"ltemon/internal/domain"
)

type MeasurementRepo struct {
	db *sql.DB
}

func NewMeasurementRepo(db *sql.DB) *MeasurementRepo {
	return &MeasurementRepo{db: db}
}

func (r *MeasurementRepo) Insert(ctx context.Context, m domain.Measurement) error {
	s := m.Signal
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO measurements(id, source, signal_strength, rsrp, rsrq, rssnr, cqi, timing_advance, received_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		m.ID,
		m.Source,
		nullableField(s.SignalStrength()),
		nullableField(s.RSRP()),
		nullableField(s.RSRQ()),
		nullableField(s.RSSNR()),
		nullableField(s.CQI()),
		nullableField(s.TimingAdvance()),
		toUnixMillis(m.ReceivedAt),
	)
	if err != nil {
		return fmt.Errorf("insert measurement: %w", err)
	}

	return nil
}

func (r *MeasurementRepo) ListRecent(ctx context.Context, limit int) ([]domain.Measurement, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, source, signal_strength, rsrp, rsrq, rssnr, cqi, timing_advance, received_at
		FROM measurements
		ORDER BY received_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list measurements: %w", err)
	}
	defer rows.Close()

	var out []domain.Measurement
	for rows.Next() {
		var (
			m          domain.Measurement
			ss         sql.NullInt64
			rsrp       sql.NullInt64
			rsrq       sql.NullInt64
			rssnr      sql.NullInt64
			cqi        sql.NullInt64
			ta         sql.NullInt64
			receivedMs int64
		)
		if err := rows.Scan(&m.ID, &m.Source, &ss, &rsrp, &rsrq, &rssnr, &cqi, &ta, &receivedMs); err != nil {
			return nil, fmt.Errorf("scan measurement: %w", err)
		}
		m.Signal = domain.NewCellSignal(
			fieldFromNullable(ss),
			fieldFromNullable(rsrp),
			fieldFromNullable(rsrq),
			fieldFromNullable(rssnr),
			fieldFromNullable(cqi),
			fieldFromNullable(ta),
		)
		m.ReceivedAt = fromUnixMillis(receivedMs)
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate measurements: %w", err)
	}

	return out, nil
}

// DeleteOlderThan trims history older than the cutoff and reports how many
// rows were removed.
func (r *MeasurementRepo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM measurements WHERE received_at < ?
	`, toUnixMillis(cutoff))
	if err != nil {
		return 0, fmt.Errorf("delete old measurements: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("count deleted measurements: %w", err)
	}

	return n, nil
}
