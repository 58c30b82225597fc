package persistence

import (
	"database/sql"
	"time"

	"ltemon/internal/domain"
)

// Unavailable fields are stored as NULL; the sentinel is a wire concern and
// never reaches the table.
func nullableField(v int32) any {
	if v == domain.FieldUnavailable {
		return nil
	}

	return int64(v)
}

func fieldFromNullable(v sql.NullInt64) int32 {
	if !v.Valid {
		return domain.FieldUnavailable
	}

	return int32(v.Int64)
}

func toUnixMillis(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}

	return t.UnixMilli()
}

func fromUnixMillis(v int64) time.Time {
	if v <= 0 {
		return time.Time{}
	}

	return time.UnixMilli(v)
}
