package transport

import "log/slog"

// transportLogger tags the shared logger for one modem link (ip, serial),
// so link chatter can be filtered from the rest of the daemon's output.
func transportLogger(name string, attrs ...any) *slog.Logger {
	logger := slog.With("component", "transport", "link", name)
	if len(attrs) == 0 {
		return logger
	}

	return logger.With(attrs...)
}
