package event

import (
	"context"
	"log/slog"
)

// RunAuditLog writes every event on bus to logger until ctx is cancelled or
// the bus is closed.
func RunAuditLog(ctx context.Context, bus Bus, logger *slog.Logger) {
	events, unsubscribe := bus.Subscribe()
	defer unsubscribe()

	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-events:
			if !ok {
				return
			}
			logger.LogAttrs(ctx, slog.LevelInfo, "audit",
				slog.String("event_id", e.ID),
				slog.String("type", string(e.Type)),
				slog.Time("at", e.Timestamp),
				slog.Any("payload", e.Payload),
			)
		}
	}
}
