package persistence

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite" // register sqlite driver
)

const schemaVersion = 1

func Open(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()

		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := db.ExecContext(ctx, `PRAGMA journal_mode = WAL;`); err != nil {
		_ = db.Close()

		return nil, fmt.Errorf("set wal mode: %w", err)
	}
	if err := migrate(ctx, db); err != nil {
		_ = db.Close()

		return nil, err
	}

	return db, nil
}

func migrate(ctx context.Context, db *sql.DB) error {
	var version int
	if err := db.QueryRowContext(ctx, `PRAGMA user_version;`).Scan(&version); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version >= schemaVersion {
		return nil
	}

	stmts := []string{
		`CREATE TABLE IF NOT EXISTS measurements (
			id TEXT PRIMARY KEY,
			source TEXT NOT NULL,
			signal_strength INTEGER NULL,
			rsrp INTEGER NULL,
			rsrq INTEGER NULL,
			rssnr INTEGER NULL,
			cqi INTEGER NULL,
			timing_advance INTEGER NULL,
			received_at INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS measurements_received_at_idx ON measurements(received_at DESC);`,
		fmt.Sprintf(`PRAGMA user_version = %d;`, schemaVersion),
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate schema to v%d: %w", schemaVersion, err)
		}
	}

	return nil
}
