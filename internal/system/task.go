package system

import (
	"time"

	coresys "github.com/restotycoon/server/internal/core/system"
	"github.com/restotycoon/server/internal/world"
	"go.uber.org/zap"
)

// TaskSystem advances the task clock and fires every task that has come due.
// A task whose customer is gone or in another state is dropped. Runs whether
// or not the day is open, but the scheduler skips it while paused.
// Phase 2 (Timers).
type TaskSystem struct {
	ws        *world.State
	lifecycle *Lifecycle
	log       *zap.Logger
}

func NewTaskSystem(ws *world.State, lifecycle *Lifecycle, log *zap.Logger) *TaskSystem {
	return &TaskSystem{ws: ws, lifecycle: lifecycle, log: log}
}

func (s *TaskSystem) Phase() coresys.Phase { return coresys.PhaseTimers }

func (s *TaskSystem) Update(dt time.Duration) {
	s.ws.Clock += dt.Seconds()
	for {
		t, ok := s.ws.Tasks.PopDue(s.ws.Clock)
		if !ok {
			return
		}
		s.fire(t)
	}
}

func (s *TaskSystem) fire(t world.Task) {
	c, ok := s.ws.Customer(t.Customer)
	if !ok || !t.Expect.Has(c.State) {
		s.log.Debug("stale task skipped",
			zap.String("kind", t.Kind.String()),
			zap.Uint64("customer", uint64(t.Customer)),
		)
		return
	}
	switch t.Kind {
	case world.TaskTakeOrder:
		s.lifecycle.TakeOrder(t.Customer)
	case world.TaskFinishCooking:
		s.lifecycle.FinishCooking(t.Customer)
	case world.TaskRemoveServed:
		s.lifecycle.RemoveServed(t.Customer)
	}
}
