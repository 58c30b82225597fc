package app

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"ltemon/internal/bus"
	"ltemon/internal/config"
	"ltemon/internal/connectors"
	"ltemon/internal/domain"
	"ltemon/internal/notifications"
)

// AlertService listens to bus events and raises notifications when signal
// quality drops below the configured minimum or the link state changes.
// Level alerts are edge triggered: one notification on the downward
// crossing, one on recovery, nothing in between.
type AlertService struct {
	bus           bus.MessageBus
	currentConfig func() config.AppConfig
	sender        notifications.Sender
	logger        *slog.Logger

	mu               sync.Mutex
	belowMin         bool
	levelSeen        bool
	lastConnState    connectors.ConnectionState
	lastConnStateSet bool
}

func NewAlertService(
	messageBus bus.MessageBus,
	currentConfig func() config.AppConfig,
	sender notifications.Sender,
	logger *slog.Logger,
) *AlertService {
	if logger == nil {
		logger = slog.Default().With("component", "app.alerts")
	}

	return &AlertService{
		bus:           messageBus,
		currentConfig: currentConfig,
		sender:        sender,
		logger:        logger,
	}
}

func (s *AlertService) Start(ctx context.Context) {
	if s == nil || s.bus == nil || s.sender == nil {
		return
	}

	signalSub := s.bus.Subscribe(connectors.TopicSignalUpdate)
	connSub := s.bus.Subscribe(connectors.TopicConnStatus)

	go func() {
		defer s.bus.Unsubscribe(signalSub, connectors.TopicSignalUpdate)
		defer s.bus.Unsubscribe(connSub, connectors.TopicConnStatus)

		for {
			select {
			case <-ctx.Done():
				return
			case raw, ok := <-signalSub:
				if !ok {
					return
				}
				m, ok := raw.(domain.Measurement)
				if !ok {
					continue
				}
				s.handleMeasurement(m)
			case raw, ok := <-connSub:
				if !ok {
					return
				}
				status, ok := raw.(connectors.ConnStatus)
				if !ok {
					continue
				}
				s.handleConnStatus(status)
			}
		}
	}()
}

func (s *AlertService) handleMeasurement(m domain.Measurement) {
	prefs := s.alertPrefs()
	if !prefs.Enabled {
		return
	}

	level := m.Signal.Level()
	below := int(level) < prefs.MinLevel

	s.mu.Lock()
	crossed := !s.levelSeen && below || s.levelSeen && below != s.belowMin
	s.belowMin = below
	s.levelSeen = true
	s.mu.Unlock()

	if !crossed {
		return
	}

	if below {
		s.send(notifications.Payload{
			Title: "Signal degraded",
			Content: fmt.Sprintf("Level %s (%d/4), ASU %d",
				level.String(), int(level), m.Signal.AsuLevel()),
		})
		return
	}
	s.send(notifications.Payload{
		Title:   "Signal recovered",
		Content: fmt.Sprintf("Level %s (%d/4)", level.String(), int(level)),
	})
}

func (s *AlertService) handleConnStatus(status connectors.ConnStatus) {
	if status.State == "" {
		return
	}

	s.mu.Lock()
	if s.lastConnStateSet && s.lastConnState == status.State {
		s.mu.Unlock()

		return
	}
	s.lastConnState = status.State
	s.lastConnStateSet = true
	s.mu.Unlock()

	if status.State != connectors.ConnectionStateConnected &&
		status.State != connectors.ConnectionStateDisconnected {
		return
	}
	if !s.alertPrefs().Enabled {
		return
	}

	details := strings.TrimSpace(status.TransportName)
	if errText := strings.TrimSpace(status.Err); errText != "" {
		details = fmt.Sprintf("%s (error: %s)", details, errText)
	}
	s.send(notifications.Payload{
		Title:   fmt.Sprintf("Modem link %s", status.State),
		Content: details,
	})
}

func (s *AlertService) alertPrefs() config.AlertsConfig {
	cfg := config.Default()
	if s.currentConfig != nil {
		cfg = s.currentConfig()
		cfg.FillMissingDefaults()
	}

	return cfg.Alerts
}

func (s *AlertService) send(payload notifications.Payload) {
	s.logger.Debug("sending alert", "title", payload.Title)
	s.sender.Send(payload)
}
