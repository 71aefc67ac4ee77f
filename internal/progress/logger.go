package progress

import "log/slog"

// VerboseLogger emits one structured log line per progress event, with
// no rate limiting. It is selected in place of Spinner when the client
// is configured for verbose output.
type VerboseLogger struct {
	logger *slog.Logger
}

// NewVerboseLogger wraps logger (or slog.Default() if nil) as an
// Observer.
func NewVerboseLogger(logger *slog.Logger) *VerboseLogger {
	if logger == nil {
		logger = slog.Default()
	}
	return &VerboseLogger{logger: logger}
}

// OnProgress implements Observer.
func (l *VerboseLogger) OnProgress(e Event) {
	l.logger.Info("COMPUTE",
		"worker_id", e.WorkerID,
		"total", e.Total,
		"hash_rate", e.HashRate,
		"elapsed", e.Elapsed,
	)
}
