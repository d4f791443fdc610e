package net

import (
	"math"

	"github.com/restotycoon/server/internal/core/ecs"
	"github.com/restotycoon/server/internal/net/packet"
	"github.com/restotycoon/server/internal/world"
	"go.uber.org/zap"
)

// Snapshot is what a client draws: HUD values, the dining room and the
// current notice.
type Snapshot struct {
	Money        int64          `json:"money"`
	Day          int            `json:"day"`
	Reputation   int            `json:"reputation"`
	Served       int            `json:"served"`
	Ingredients  int            `json:"ingredients"`
	Price        int            `json:"price"`
	Staff        world.Staff    `json:"staff"`
	KitchenLevel int            `json:"kitchenLevel"`
	Running      bool           `json:"running"`
	Paused       bool           `json:"paused"`
	Customers    []CustomerView `json:"customers"`
	Tables       []TableView    `json:"tables"`
	Notice       string         `json:"notice,omitempty"`
}

type CustomerView struct {
	ID       uint64  `json:"id"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	State    string  `json:"state"`
	Patience float64 `json:"patience"`
}

type TableView struct {
	ID       int     `json:"id"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Occupied bool    `json:"occupied"`
}

// BuildSnapshot reads the world without mutating it.
func BuildSnapshot(ws *world.State) Snapshot {
	g := ws.Game
	snap := Snapshot{
		Money:        int64(math.Floor(g.Money)),
		Day:          g.Day,
		Reputation:   g.DisplayReputation(),
		Served:       g.Served,
		Ingredients:  g.Ingredients,
		Price:        g.Price,
		Staff:        g.Staff,
		KitchenLevel: g.KitchenLevel,
		Running:      g.Running,
		Paused:       g.Pause,
		Customers:    make([]CustomerView, 0, ws.Customers.Len()),
		Notice:       ws.ActiveNotice(),
	}
	ws.Customers.Each(func(id ecs.EntityID, c *world.Customer) {
		if !ws.Entities.Alive(id) {
			return
		}
		snap.Customers = append(snap.Customers, CustomerView{
			ID:       uint64(id),
			X:        c.X,
			Y:        c.Y,
			State:    c.State.String(),
			Patience: math.Max(0, c.Patience),
		})
	})
	for _, t := range ws.Tables.Tables() {
		snap.Tables = append(snap.Tables, TableView{ID: t.ID, X: t.X, Y: t.Y, Occupied: !t.Free()})
	}
	return snap
}

// Presenter broadcasts snapshots to every connected session. Frames are
// throttled to one in every N; a dirty world is always sent.
type Presenter struct {
	store *SessionStore
	every int
	frame int
	log   *zap.Logger
}

func NewPresenter(store *SessionStore, every int, log *zap.Logger) *Presenter {
	if every < 1 {
		every = 1
	}
	return &Presenter{store: store, every: every, log: log}
}

func (p *Presenter) Present(ws *world.State) {
	p.frame++
	if !ws.Dirty && p.frame%p.every != 0 {
		return
	}
	if p.store.Count() == 0 {
		return
	}
	data, err := packet.Encode(packet.TypeSnapshot, BuildSnapshot(ws))
	if err != nil {
		p.log.Error("snapshot encode failed", zap.Error(err))
		return
	}
	p.store.ForEach(func(s *Session) {
		s.Send(data)
		s.FlushOutput()
	})
}
