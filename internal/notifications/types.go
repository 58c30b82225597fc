package notifications

// Payload is one user-facing alert: a signal-quality crossing or a
// modem-link transition.
type Payload struct {
	Title   string
	Content string
}

// Sender delivers alerts through a desktop notification backend.
type Sender interface {
	Send(payload Payload)
}
