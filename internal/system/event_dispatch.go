package system

import (
	"time"

	"github.com/restotycoon/server/internal/core/event"
	coresys "github.com/restotycoon/server/internal/core/system"
)

// EventDispatchSystem rotates the bus and delivers the previous frame's
// events. Runs while paused too, so actions taken during a pause are
// still journaled. Phase 1 (Dispatch).
type EventDispatchSystem struct {
	bus *event.Bus
}

func NewEventDispatchSystem(bus *event.Bus) *EventDispatchSystem {
	return &EventDispatchSystem{bus: bus}
}

func (s *EventDispatchSystem) Phase() coresys.Phase { return coresys.PhaseDispatch }

func (s *EventDispatchSystem) Update(_ time.Duration) {
	s.bus.SwapBuffers()
	s.bus.DispatchAll()
}
