package logging

import (
	"context"
	"log/slog"

	"github.com/lixenwraith/war-arena/event"
)

// EventLogger writes each game event as a structured record
// Launch and explode are logged at trace, damage at debug, death at info
type EventLogger struct {
	logger *slog.Logger
}

// NewEventLogger wraps logger; nil uses slog.Default
func NewEventLogger(logger *slog.Logger) *EventLogger {
	if logger == nil {
		logger = slog.Default()
	}
	return &EventLogger{logger: logger}
}

func (h *EventLogger) EventTypes() []event.EventType {
	return []event.EventType{event.EventLaunch, event.EventExplode, event.EventDamage, event.EventDeath}
}

func (h *EventLogger) HandleEvent(ctx context.Context, ev event.GameEvent) {
	cycle := slog.Uint64("cycle", ev.Cycle)
	kind := slog.String("event", ev.Type.String())

	switch p := ev.Payload.(type) {
	case event.LaunchPayload:
		h.logger.LogAttrs(ctx, LevelTrace, "launch", kind, cycle,
			slog.String("player", string(p.Player)),
			slog.Int("slot", p.Slot),
			slog.Float64("x", p.Origin.X),
			slog.Float64("y", p.Origin.Y),
			slog.Int("heading", p.Heading),
			slog.Int("range", p.Range),
		)
	case event.ExplodePayload:
		h.logger.LogAttrs(ctx, LevelTrace, "explode", kind, cycle,
			slog.String("player", string(p.Player)),
			slog.Int("slot", p.Slot),
			slog.Float64("x", p.Position.X),
			slog.Float64("y", p.Position.Y),
		)
	case event.DamagePayload:
		attrs := []slog.Attr{kind, cycle,
			slog.String("victim", string(p.Victim)),
			slog.Int("amount", p.Amount),
			slog.String("kind", p.Kind.String()),
		}
		if p.Source != "" {
			attrs = append(attrs, slog.String("source", string(p.Source)))
		}
		h.logger.LogAttrs(ctx, slog.LevelDebug, "damage", attrs...)
	case event.DeathPayload:
		h.logger.LogAttrs(ctx, slog.LevelInfo, "death", kind, cycle,
			slog.String("victim", string(p.Victim)),
		)
	default:
		h.logger.LogAttrs(ctx, slog.LevelWarn, "unexpected event payload", kind, cycle)
	}
}
