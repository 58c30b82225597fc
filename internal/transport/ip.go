package transport

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"
)

// DefaultIPPort is the TCP port the modem-side feeder listens on.
const DefaultIPPort = 8317

// IPTransport sends and receives framed records over a TCP socket.
type IPTransport struct {
	host string
	port int

	mu      sync.Mutex
	conn    net.Conn
	writeMu sync.Mutex
}

func NewIPTransport(host string, port int) *IPTransport {
	if port == 0 {
		port = DefaultIPPort
	}

	return &IPTransport{host: host, port: port}
}

func (t *IPTransport) Name() string {
	return "ip"
}

func (t *IPTransport) Connected() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.conn != nil
}

func (t *IPTransport) Connect(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	logger := transportLogger("ip", "target", t.target())

	if t.conn != nil {
		logger.Debug("connect skipped: already connected")

		return nil
	}
	if t.host == "" {
		return errors.New("ip host is empty")
	}

	dialer := net.Dialer{Timeout: 6 * time.Second}
	logger.Info("connecting")
	conn, err := dialer.DialContext(ctx, "tcp", t.target())
	if err != nil {
		logger.Warn("connect failed", "error", err)

		return fmt.Errorf("dial tcp: %w", err)
	}
	t.conn = conn
	logger.Info("connected", "remote", conn.RemoteAddr().String())

	return nil
}

func (t *IPTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.conn == nil {
		return nil
	}
	err := t.conn.Close()
	t.conn = nil
	if err != nil {
		transportLogger("ip", "target", t.target()).Warn("close failed", "error", err)

		return err
	}
	transportLogger("ip", "target", t.target()).Info("closed")

	return nil
}

func (t *IPTransport) ReadFrame(ctx context.Context) ([]byte, error) {
	logger := transportLogger("ip")
	conn, err := t.currentConn()
	if err != nil {
		return nil, err
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetReadDeadline(deadline)
	} else {
		_ = conn.SetReadDeadline(time.Time{})
	}

	payload, err := readFrame(ioReadFullFunc(conn))
	if err != nil {
		logger.Debug("read frame failed", "error", err)

		return nil, err
	}
	logger.Debug("read frame", "len", len(payload))

	return payload, nil
}

func (t *IPTransport) WriteFrame(ctx context.Context, payload []byte) error {
	logger := transportLogger("ip")
	conn, err := t.currentConn()
	if err != nil {
		return err
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetWriteDeadline(deadline)
	} else {
		_ = conn.SetWriteDeadline(time.Time{})
	}

	frame, err := EncodeFrame(payload)
	if err != nil {
		return err
	}

	t.writeMu.Lock()
	defer t.writeMu.Unlock()
	if _, err := conn.Write(frame); err != nil {
		logger.Warn("write frame failed", "payload_len", len(payload), "error", err)

		return fmt.Errorf("write frame: %w", err)
	}
	logger.Debug("write frame", "payload_len", len(payload), "frame_len", len(frame))

	return nil
}

func (t *IPTransport) target() string {
	if t.host == "" {
		return ""
	}

	return net.JoinHostPort(t.host, fmt.Sprintf("%d", t.port))
}

func (t *IPTransport) currentConn() (net.Conn, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.conn == nil {
		return nil, errors.New("transport is not connected")
	}

	return t.conn, nil
}
