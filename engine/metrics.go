package engine

import (
	"context"
	"sync/atomic"

	"github.com/lixenwraith/war-arena/event"
	"github.com/lixenwraith/war-arena/status"
)

// MetricsHandler counts combat events into the status registry
type MetricsHandler struct {
	launches   *atomic.Int64
	explosions *atomic.Int64
	damage     *atomic.Int64
	deaths     *atomic.Int64
}

// NewMetricsHandler caches counter pointers from reg
func NewMetricsHandler(reg *status.Registry) *MetricsHandler {
	return &MetricsHandler{
		launches:   reg.Ints.Get(status.ProjectileLaunches),
		explosions: reg.Ints.Get(status.ProjectileExplosions),
		damage:     reg.Ints.Get(status.DamageTotal),
		deaths:     reg.Ints.Get(status.CombatDeaths),
	}
}

func (h *MetricsHandler) EventTypes() []event.EventType {
	return []event.EventType{event.EventLaunch, event.EventExplode, event.EventDamage, event.EventDeath}
}

func (h *MetricsHandler) HandleEvent(_ context.Context, ev event.GameEvent) {
	switch ev.Type {
	case event.EventLaunch:
		h.launches.Add(1)
	case event.EventExplode:
		h.explosions.Add(1)
	case event.EventDamage:
		if p, ok := ev.Payload.(event.DamagePayload); ok {
			h.damage.Add(int64(p.Amount))
		}
	case event.EventDeath:
		h.deaths.Add(1)
	}
}
