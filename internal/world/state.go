package world

import (
	"time"

	"github.com/restotycoon/server/internal/core/ecs"
	"github.com/restotycoon/server/internal/core/event"
	"github.com/restotycoon/server/internal/data"
)

// Staff counts hired employees by role.
type Staff struct {
	Waiter int `json:"waiter"`
	Chef   int `json:"chef"`
}

// Count returns the head count for a role key from the hiring table.
func (s Staff) Count(role string) int {
	switch role {
	case data.RoleWaiter:
		return s.Waiter
	case data.RoleChef:
		return s.Chef
	}
	return 0
}

// DayStats accumulates the running business day for the end-of-day report.
type DayStats struct {
	Revenue  float64 `json:"revenue"`
	Wages    float64 `json:"wages"`
	Walkouts int     `json:"walkouts"`
}

// GameState is the persisted economy of the restaurant. Reputation is kept
// unclamped here; only the presentation clamps it to [0,100].
type GameState struct {
	Money        float64  `json:"money"`
	Day          int      `json:"day"`
	Reputation   float64  `json:"reputation"`
	Served       int      `json:"served"`
	Ingredients  int      `json:"ingredients"`
	Price        int      `json:"price"`
	Staff        Staff    `json:"staff"`
	KitchenLevel int      `json:"kitchenLevel"`
	Running      bool     `json:"running"`
	Pause        bool     `json:"pause"`
	Today        DayStats `json:"today"`
}

// DefaultGameState is the state of a brand-new restaurant.
func DefaultGameState() GameState {
	return GameState{
		Money:        10000,
		Day:          1,
		Reputation:   50,
		Ingredients:  10,
		Price:        600,
		KitchenLevel: 1,
	}
}

// DisplayReputation is the HUD value: clamped to [0,100] and floored.
func (g GameState) DisplayReputation() int {
	r := g.Reputation
	if r < 0 {
		r = 0
	}
	if r > 100 {
		r = 100
	}
	return int(r)
}

// Rand is the random source of the simulation. *math/rand.Rand satisfies it.
type Rand interface {
	Float64() float64
}

// State is the simulation context handed to every system and handler.
// All fields are owned by the simulation goroutine.
type State struct {
	Game   GameState
	Tuning *data.Tuning

	Entities  *ecs.World
	Customers *ecs.OrderedStore[Customer]
	Tables    *TablePool
	Tasks     *TaskQueue
	Bus       *event.Bus
	Rand      Rand

	SpawnTimer float64       // seconds accumulated toward the next spawn
	Clock      float64       // task clock in seconds; frozen while paused
	FrameTime  time.Duration // latest scheduler timestamp, advances while paused
	Notice     Notice
	Dirty      bool // set by discrete actions; cleared once persisted
}

func NewState(game GameState, tuning *data.Tuning, rnd Rand) *State {
	ents := ecs.NewWorld()
	customers := ecs.NewOrderedStore[Customer]()
	ents.Registry().Register(customers)
	return &State{
		Game:      game,
		Tuning:    tuning,
		Entities:  ents,
		Customers: customers,
		Tables:    NewTablePool(tuning.Tables),
		Tasks:     NewTaskQueue(),
		Bus:       event.NewBus(),
		Rand:      rnd,
	}
}

// Customer resolves a live customer. Stale or removed ids resolve to false.
func (s *State) Customer(id ecs.EntityID) (*Customer, bool) {
	if !s.Entities.Alive(id) {
		return nil, false
	}
	return s.Customers.Get(id)
}

// AddCustomer registers a new customer entity and returns it.
func (s *State) AddCustomer(c Customer) *Customer {
	c.ID = s.Entities.CreateEntity()
	c.Table = NoTable
	s.Customers.Set(c.ID, &c)
	return &c
}

// ClearCustomers removes every customer at once and frees all tables.
// Pending tasks for those customers go stale and are skipped when they fire.
func (s *State) ClearCustomers() {
	for _, id := range s.Customers.IDs() {
		s.Entities.DestroyNow(id)
	}
	s.Tables.FreeAll()
}

// Schedule registers a task for a customer, guarded by the states it expects.
func (s *State) Schedule(kind TaskKind, id ecs.EntityID, delay float64) {
	s.Tasks.Push(Task{
		Due:      s.Clock + delay,
		Kind:     kind,
		Customer: id,
		Expect:   kind.Expects(),
	})
}

// ShowNotice sets the transient player-facing message.
func (s *State) ShowNotice(text string) {
	d := time.Duration(s.Tuning.Timing.NoticeDuration * float64(time.Second))
	s.Notice = Notice{Text: text, Until: s.FrameTime + d}
}

// ActiveNotice returns the notice text while it has not expired.
func (s *State) ActiveNotice() string {
	if s.Notice.Text == "" || s.FrameTime >= s.Notice.Until {
		return ""
	}
	return s.Notice.Text
}

// Notice is a transient message for the player.
type Notice struct {
	Text  string
	Until time.Duration
}
