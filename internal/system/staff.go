package system

import (
	"time"

	"github.com/restotycoon/server/internal/core/ecs"
	coresys "github.com/restotycoon/server/internal/core/system"
	"github.com/restotycoon/server/internal/world"
)

// StaffSystem is the waiter walking the floor: every waiting customer gets
// the nearest free table, through the same seat operation the player uses.
// Phase 6 (Staff), after customer updates.
type StaffSystem struct {
	ws        *world.State
	lifecycle *Lifecycle
}

func NewStaffSystem(ws *world.State, lifecycle *Lifecycle) *StaffSystem {
	return &StaffSystem{ws: ws, lifecycle: lifecycle}
}

func (s *StaffSystem) Phase() coresys.Phase { return coresys.PhaseStaff }

func (s *StaffSystem) Update(_ time.Duration) {
	if !s.ws.Game.Running || s.ws.Game.Staff.Waiter == 0 {
		return
	}
	s.ws.Customers.Each(func(id ecs.EntityID, c *world.Customer) {
		if c.State == world.Waiting && s.ws.Tables.FreeCount() > 0 {
			s.lifecycle.SeatNearest(id)
		}
	})
}
