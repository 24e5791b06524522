package events

import "log/slog"

// LogSink forwards events to a slog logger, mapping severities onto levels.
type LogSink struct {
	logger *slog.Logger
}

// NewLogSink wraps logger as a Sink. A nil logger yields a sink that drops
// everything.
func NewLogSink(logger *slog.Logger) *LogSink {
	return &LogSink{logger: logger}
}

func (s *LogSink) Publish(evt Event) {
	if s == nil || s.logger == nil {
		return
	}
	switch evt.Severity {
	case Warning:
		s.logger.Warn(evt.Message)
	case Error:
		s.logger.Error(evt.Message)
	default:
		s.logger.Info(evt.Message)
	}
}
