package radio

import (
	"context"
	"encoding/hex"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"ltemon/internal/bus"
	"ltemon/internal/connectors"
	"ltemon/internal/domain"
	"ltemon/internal/transport"
)

const (
	readTimeout    = 30 * time.Second
	initialBackoff = time.Second
	maxBackoff     = 15 * time.Second
)

// Service drives one transport: it keeps the connection alive with backoff,
// reads framed records, decodes them, and fans measurements out on the bus.
type Service struct {
	logger    *slog.Logger
	transport transport.Transport
	bus       bus.MessageBus
	now       func() time.Time
}

func NewService(logger *slog.Logger, b bus.MessageBus, tr transport.Transport) *Service {
	return &Service{
		logger:    logger,
		transport: tr,
		bus:       b,
		now:       time.Now,
	}
}

func (s *Service) Start(ctx context.Context) {
	go s.runConnector(ctx)
}

func (s *Service) runConnector(ctx context.Context) {
	backoff := initialBackoff
	for {
		if err := ctx.Err(); err != nil {
			return
		}

		s.publishConnStatus(connectors.ConnectionStateConnecting, nil)
		if err := s.transport.Connect(ctx); err != nil {
			s.publishConnStatus(connectors.ConnectionStateReconnecting, err)
			s.logger.Error("transport connect failed", "error", err)
			if !sleepWithContext(ctx, backoff) {
				return
			}
			if backoff < maxBackoff {
				backoff *= 2
			}
			continue
		}

		backoff = initialBackoff
		s.publishConnStatus(connectors.ConnectionStateConnected, nil)

		err := s.runReader(ctx)
		_ = s.transport.Close()
		s.publishConnStatus(connectors.ConnectionStateReconnecting, err)

		if !sleepWithContext(ctx, backoff) {
			return
		}
		if backoff < maxBackoff {
			backoff *= 2
		}
	}
}

func (s *Service) runReader(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		readCtx, cancel := context.WithTimeout(ctx, readTimeout)
		payload, err := s.transport.ReadFrame(readCtx)
		cancel()
		if err != nil {
			return err
		}

		s.bus.Publish(connectors.TopicRawFrameIn, connectors.RawFrame{
			Hex: strings.ToUpper(hex.EncodeToString(payload)),
			Len: len(payload),
		})

		signal, err := DecodeRecord(payload)
		if err != nil {
			// A malformed record kills only itself; the stream carries on.
			s.logger.Warn("decode record failed", "len", len(payload), "error", err)
			continue
		}

		m := domain.Measurement{
			ID:         uuid.NewString(),
			Source:     s.transport.Name(),
			Signal:     signal,
			ReceivedAt: s.now(),
		}
		s.logger.Debug("measurement received",
			"id", m.ID,
			"level", signal.Level().String(),
			"asu", signal.AsuLevel(),
		)
		s.bus.Publish(connectors.TopicSignalUpdate, m)
	}
}

func (s *Service) publishConnStatus(state connectors.ConnectionState, err error) {
	status := connectors.ConnStatus{
		State:         state,
		TransportName: s.transport.Name(),
		Timestamp:     s.now(),
	}
	if err != nil {
		status.Err = err.Error()
	}
	s.bus.Publish(connectors.TopicConnStatus, status)
}

func sleepWithContext(ctx context.Context, d time.Duration) bool {
	select {
	case <-ctx.Done():
		return false
	case <-time.After(d):
		return true
	}
}
