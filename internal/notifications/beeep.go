package notifications

import (
	"log/slog"
	"strings"

	"github.com/gen2brain/beeep"
)

// BeeepSender delivers notifications through the OS notification daemon.
// The monitor runs headless, so this is the only backend.
type BeeepSender struct {
	logger *slog.Logger
}

func NewBeeepSender(logger *slog.Logger) *BeeepSender {
	if logger == nil {
		logger = slog.Default().With("component", "notifications")
	}

	return &BeeepSender{logger: logger}
}

func (s *BeeepSender) Send(payload Payload) {
	title := strings.TrimSpace(payload.Title)
	content := strings.TrimSpace(payload.Content)
	if title == "" && content == "" {
		return
	}

	if err := beeep.Notify(title, content, ""); err != nil {
		s.logger.Warn("send notification failed", "title", title, "error", err)
	}
}
