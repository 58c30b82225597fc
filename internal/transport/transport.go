package transport

import "context"

// Transport carries framed signal records between the monitor and the
// modem-side peer.
type Transport interface {
	Name() string
	Connect(ctx context.Context) error
	Close() error
	ReadFrame(ctx context.Context) ([]byte, error)
	WriteFrame(ctx context.Context, payload []byte) error
}
