package activity

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
)

// LogHandler turns consumed events into structured log lines.
type LogHandler struct {
	logger zerolog.Logger
}

func NewLogHandler(logger zerolog.Logger) *LogHandler {
	return &LogHandler{logger: logger}
}

// HandleEvent matches kafka.MessageHandler.
func (h *LogHandler) HandleEvent(ctx context.Context, key, value []byte) error {
	e, err := Decode(value)
	if err != nil {
		return fmt.Errorf("decode activity event: %w", err)
	}

	ev := h.logger.Info().
		Str("id", e.ID).
		Str("type", string(e.Type)).
		Time("at", e.At)
	if e.Username != "" {
		ev = ev.Str("username", e.Username)
	}
	if e.Subject != "" {
		ev = ev.Str("subject", e.Subject)
	}
	for k, v := range e.Data {
		ev = ev.Str(k, v)
	}
	ev.Msg("activity")
	return nil
}
