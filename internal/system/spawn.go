package system

import (
	"time"

	"github.com/restotycoon/server/internal/core/event"
	coresys "github.com/restotycoon/server/internal/core/system"
	"github.com/restotycoon/server/internal/world"
)

// SpawnSystem lets a new customer in whenever the spawn timer reaches the
// current interval. Runs only while the day is open. Phase 4 (Spawn).
type SpawnSystem struct {
	ws       *world.State
	formulas Formulas
}

func NewSpawnSystem(ws *world.State, formulas Formulas) *SpawnSystem {
	return &SpawnSystem{ws: ws, formulas: formulas}
}

func (s *SpawnSystem) Phase() coresys.Phase { return coresys.PhaseSpawn }

func (s *SpawnSystem) Update(dt time.Duration) {
	if !s.ws.Game.Running {
		return
	}
	s.ws.SpawnTimer += dt.Seconds()
	interval := s.formulas.SpawnInterval(s.ws.Game.Day, s.ws.Game.Reputation)
	if s.ws.SpawnTimer >= interval {
		s.ws.SpawnTimer = 0
		SpawnCustomer(s.ws)
	}
}

// SpawnCustomer adds one customer above the door with a random lane, pace
// and patience.
func SpawnCustomer(ws *world.State) *world.Customer {
	ct := ws.Tuning.Customer
	c := ws.AddCustomer(world.Customer{
		X:        ct.MinX + ws.Rand.Float64()*ct.SpanX,
		Y:        ct.StartY,
		Speed:    ct.MinSpeed + ws.Rand.Float64()*ct.SpanSpeed,
		State:    world.Entering,
		Patience: ct.MinPatience + ws.Rand.Float64()*ct.SpanPatience,
	})
	event.Emit(ws.Bus, event.CustomerSpawned{ID: c.ID})
	return c
}
