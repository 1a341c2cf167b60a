package telemetry

import (
	"context"
	"log/slog"
	"strconv"
)

// SlogAPI writes reports to a slog.Logger, the default logger when Logger is nil.
// Broken components log at error level, warnings at warn, counts at info.
type SlogAPI struct {
	Logger *slog.Logger
}

func (s SlogAPI) log(level slog.Level, msg, id string, params []any) {
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if !logger.Enabled(context.Background(), level) {
		return
	}

	attrs := make([]slog.Attr, 0, len(params)+1)
	if id != "" {
		attrs = append(attrs, slog.String("id", id))
	}
	for i, p := range params {
		attrs = append(attrs, slog.Any("params."+strconv.Itoa(i), p))
	}
	logger.LogAttrs(context.Background(), level, msg, attrs...)
}

func (s SlogAPI) ReportBroken(id string, params ...any) {
	s.log(slog.LevelError, "broken component", id, params)
}

func (s SlogAPI) ReportWarning(id string, params ...any) {
	s.log(slog.LevelWarn, "warning", id, params)
}

func (s SlogAPI) ReportDebug(msg string, params ...any) {
	s.log(slog.LevelDebug, msg, "", params)
}

func (s SlogAPI) ReportCount(id string, count int64) {
	s.log(slog.LevelInfo, "count", id, []any{count})
}
