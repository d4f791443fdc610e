package system

import (
	"github.com/restotycoon/server/internal/core/ecs"
	"github.com/restotycoon/server/internal/core/event"
	"github.com/restotycoon/server/internal/world"
	"go.uber.org/zap"
)

// Lifecycle performs customer transitions together with their economic side
// effects. Player clicks, staff automation and fired tasks all go through it,
// so every path seats, serves and evicts the same way.
//
// Every operation re-resolves the customer and checks its state first; a
// target that moved on or was removed makes the call a silent no-op.
type Lifecycle struct {
	ws       *world.State
	formulas Formulas
	log      *zap.Logger
}

func NewLifecycle(ws *world.State, formulas Formulas, log *zap.Logger) *Lifecycle {
	return &Lifecycle{ws: ws, formulas: formulas, log: log}
}

// Seat puts a waiting customer at the given table. Returns false when the
// customer is not waiting or the table is taken.
func (l *Lifecycle) Seat(id ecs.EntityID, table int) bool {
	c, ok := l.ws.Customer(id)
	if !ok || c.State != world.Waiting {
		return false
	}
	if !l.ws.Tables.Assign(table, id) {
		return false
	}
	c.Table = table
	c.Advance(world.Seated)
	event.Emit(l.ws.Bus, event.CustomerSeated{ID: id, Table: table})
	l.log.Debug("customer seated", zap.Uint64("customer", uint64(id)), zap.Int("table", table))

	if l.ws.Game.Staff.Waiter > 0 {
		l.ws.Schedule(world.TaskTakeOrder, id, l.ws.Tuning.Timing.OrderDelay)
	}
	return true
}

// SeatNearest seats a waiting customer at the closest free table.
func (l *Lifecycle) SeatNearest(id ecs.EntityID) bool {
	c, ok := l.ws.Customer(id)
	if !ok || c.State != world.Waiting {
		return false
	}
	table, ok := l.ws.Tables.NearestFree(c.X, c.Y)
	if !ok {
		return false
	}
	return l.Seat(id, table)
}

// TakeOrder moves a seated customer to ordering, or sends them home when the
// pantry is empty. With a chef on staff the dish is queued right away.
func (l *Lifecycle) TakeOrder(id ecs.EntityID) {
	c, ok := l.ws.Customer(id)
	if !ok || c.State != world.Seated {
		return
	}
	g := &l.ws.Game
	if g.Ingredients <= 0 {
		l.ws.Tables.Free(c.Table)
		c.Table = world.NoTable
		c.Advance(world.Gone)
		g.Reputation -= l.ws.Tuning.Economy.NoStockPenalty
		l.evict(c, event.LeaveNoIngredients)
		l.ws.ShowNotice("No ingredients! Customers leave.")
		return
	}

	c.Advance(world.Ordering)
	c.OrderTime = 0
	if g.Staff.Chef > 0 {
		l.ws.Schedule(world.TaskFinishCooking, id, l.formulas.CookDelay(g.KitchenLevel))
	}
}

// StartManualCook is the player cooking without a chef. The dish is ready
// after a fixed delay; repeated clicks queue duplicates that the state guard
// discards.
func (l *Lifecycle) StartManualCook(id ecs.EntityID) bool {
	c, ok := l.ws.Customer(id)
	if !ok || (c.State != world.Ordering && c.State != world.Seated) {
		return false
	}
	l.ws.Schedule(world.TaskFinishCooking, id, l.ws.Tuning.Timing.ManualCook)
	l.ws.ShowNotice("You start cooking (player).")
	return true
}

// FinishCooking marks the dish cooked and serves it in the same step.
func (l *Lifecycle) FinishCooking(id ecs.EntityID) {
	c, ok := l.ws.Customer(id)
	if !ok || (c.State != world.Ordering && c.State != world.Seated) {
		return
	}
	c.Advance(world.Cooked)
	l.Serve(c)
}

// Serve applies the sale: money, one ingredient, served count, reputation
// and the table all change together. Only cooked customers can be served.
func (l *Lifecycle) Serve(c *world.Customer) {
	if c.State != world.Cooked {
		return
	}
	g := &l.ws.Game
	g.Money += float64(g.Price)
	if g.Ingredients > 0 {
		g.Ingredients--
	}
	g.Served++
	g.Reputation += l.ws.Tuning.Economy.ServeReputation
	g.Today.Revenue += float64(g.Price)

	l.ws.Tables.Free(c.Table)
	c.Table = world.NoTable
	c.Advance(world.Served)

	event.Emit(l.ws.Bus, event.CustomerServed{ID: c.ID, Revenue: g.Price})
	l.ws.Schedule(world.TaskRemoveServed, c.ID, l.ws.Tuning.Timing.ServedLinger)
}

// RemoveServed drops a served customer once the linger delay is over.
func (l *Lifecycle) RemoveServed(id ecs.EntityID) {
	c, ok := l.ws.Customer(id)
	if !ok || c.State != world.Served {
		return
	}
	l.ws.Entities.MarkForDestruction(id)
}

// Walkout is the impatience path: a waiting customer whose patience ran out.
func (l *Lifecycle) Walkout(c *world.Customer) {
	if !c.Advance(world.Gone) {
		return
	}
	l.ws.Game.Reputation -= l.ws.Tuning.Economy.ImpatientPenalty
	l.evict(c, event.LeaveImpatient)
}

// evict books a departure. The entity stays visible until the next cleanup
// pass so one frame can still show it leaving.
func (l *Lifecycle) evict(c *world.Customer, reason event.LeaveReason) {
	l.ws.Game.Today.Walkouts++
	event.Emit(l.ws.Bus, event.CustomerLeft{ID: c.ID, Reason: reason})
	l.ws.Entities.MarkForDestruction(c.ID)
}
