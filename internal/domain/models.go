package domain

import "time"

// Measurement wraps one received signal snapshot with ingest metadata.
type Measurement struct {
	ID         string
	Source     string
	Signal     CellSignal
	ReceivedAt time.Time
}
