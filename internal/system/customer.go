package system

import (
	"time"

	"github.com/restotycoon/server/internal/core/ecs"
	coresys "github.com/restotycoon/server/internal/core/system"
	"github.com/restotycoon/server/internal/world"
)

// CustomerSystem runs the time-driven part of the lifecycle: walking in and
// losing patience. Phase 5 (Update), before staff automation.
type CustomerSystem struct {
	ws        *world.State
	lifecycle *Lifecycle
}

func NewCustomerSystem(ws *world.State, lifecycle *Lifecycle) *CustomerSystem {
	return &CustomerSystem{ws: ws, lifecycle: lifecycle}
}

func (s *CustomerSystem) Phase() coresys.Phase { return coresys.PhaseUpdate }

func (s *CustomerSystem) Update(dt time.Duration) {
	if !s.ws.Game.Running {
		return
	}
	sec := dt.Seconds()
	waitLine := s.ws.Tuning.Customer.WaitLineY
	s.ws.Customers.Each(func(_ ecs.EntityID, c *world.Customer) {
		switch c.State {
		case world.Entering:
			c.Y += c.Speed * sec
			if c.Y >= waitLine {
				c.Advance(world.Waiting)
			}
		case world.Waiting:
			c.Patience -= sec
			if c.Patience <= 0 {
				s.lifecycle.Walkout(c)
			}
		}
	})
}
