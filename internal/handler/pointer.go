package handler

import (
	"github.com/restotycoon/server/internal/core/ecs"
	"github.com/restotycoon/server/internal/net/packet"
	"github.com/restotycoon/server/internal/world"
	"go.uber.org/zap"
)

// HandlePointer processes a click in simulation coordinates.
func HandlePointer(client string, r *packet.Reader, deps *Deps) {
	var p struct {
		X float64 `json:"x"`
		Y float64 `json:"y"`
	}
	if err := r.Decode(&p); err != nil {
		deps.Log.Debug("bad pointer payload", zap.String("client", client), zap.Error(err))
		return
	}
	DispatchPointer(deps, p.X, p.Y)
}

// DispatchPointer scans customers in arrival order and acts on the first
// one the click hits: a waiting customer is seated at the nearest free
// table, or, with no chef on staff, a seated or ordering customer is cooked
// for by the player. Returns whether anything happened.
func DispatchPointer(deps *Deps, x, y float64) bool {
	ws := deps.World
	in := ws.Tuning.Input
	roomFree := ws.Tables.FreeCount() > 0
	noChef := ws.Game.Staff.Chef == 0

	id, c, ok := ws.Customers.Find(func(_ ecs.EntityID, c *world.Customer) bool {
		switch c.State {
		case world.Waiting:
			return roomFree && c.Within(x, y, in.SeatRadius)
		case world.Seated, world.Ordering:
			return noChef && c.Within(x, y, in.CookRadius)
		}
		return false
	})
	if !ok {
		return false
	}

	if c.State == world.Waiting {
		deps.Lifecycle.SeatNearest(id)
	} else {
		deps.Lifecycle.StartManualCook(id)
	}
	markDirty(deps)
	return true
}
