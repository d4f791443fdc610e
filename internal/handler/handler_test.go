package handler

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/restotycoon/server/internal/data"
	"github.com/restotycoon/server/internal/net/packet"
	"github.com/restotycoon/server/internal/system"
	"github.com/restotycoon/server/internal/world"
	"go.uber.org/zap/zaptest"
)

type fixedRand float64

func (r fixedRand) Float64() float64 { return float64(r) }

type fixture struct {
	ws   *world.State
	deps *Deps
	reg  *packet.Registry
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	log := zaptest.NewLogger(t)
	ws := world.NewState(world.DefaultGameState(), data.DefaultTuning(), fixedRand(0.5))
	deps := &Deps{
		Log:       log,
		World:     ws,
		Lifecycle: system.NewLifecycle(ws, ws.Tuning, log),
		Economy:   system.NewEconomySystem(ws, ws.Tuning, log),
	}
	reg := packet.NewRegistry(log)
	RegisterAll(reg, deps)
	return &fixture{ws: ws, deps: deps, reg: reg}
}

func (f *fixture) send(t *testing.T, typ string, payload any) {
	t.Helper()
	var raw []byte
	if payload != nil {
		var err error
		if raw, err = json.Marshal(payload); err != nil {
			t.Fatal(err)
		}
	}
	if err := f.reg.Dispatch(packet.Envelope{Type: typ, Payload: raw, Client: "test"}); err != nil {
		t.Fatalf("Dispatch %s: %v", typ, err)
	}
}

func TestBuyIngredientsRejectedWithoutMoney(t *testing.T) {
	f := newFixture(t)
	f.ws.Game.Money = 450

	f.send(t, packet.TypeBuyIngredients, nil)

	if f.ws.Game.Money != 450 || f.ws.Game.Ingredients != 10 {
		t.Fatalf("state changed: money=%v stock=%d", f.ws.Game.Money, f.ws.Game.Ingredients)
	}
	if f.ws.ActiveNotice() != "Not enough money" {
		t.Fatalf("notice = %q", f.ws.ActiveNotice())
	}
	if !f.ws.Dirty {
		t.Fatalf("rejected action should still refresh the display")
	}
}

func TestShopActions(t *testing.T) {
	f := newFixture(t)

	f.send(t, packet.TypeBuyIngredients, nil)
	if f.ws.Game.Ingredients != 15 || f.ws.Game.Money != 9500 || f.ws.ActiveNotice() != "Ingredients bought." {
		t.Fatalf("buy: %+v notice=%q", f.ws.Game, f.ws.ActiveNotice())
	}

	f.send(t, packet.TypeHire, map[string]string{"role": "waiter"})
	if f.ws.Game.Staff.Waiter != 1 || f.ws.Game.Money != 7500 || f.ws.ActiveNotice() != "waiter hired!" {
		t.Fatalf("hire: %+v notice=%q", f.ws.Game, f.ws.ActiveNotice())
	}

	f.send(t, packet.TypeHire, map[string]string{"role": "juggler"})
	if f.ws.Game.Money != 7500 || f.ws.ActiveNotice() != "Nobody applied for that job." {
		t.Fatalf("unknown role: money=%v notice=%q", f.ws.Game.Money, f.ws.ActiveNotice())
	}

	f.send(t, packet.TypeUpgradeKitchen, nil)
	if f.ws.Game.KitchenLevel != 2 || f.ws.Game.Money != 3500 || f.ws.ActiveNotice() != "Kitchen upgraded!" {
		t.Fatalf("upgrade: %+v notice=%q", f.ws.Game, f.ws.ActiveNotice())
	}

	f.send(t, packet.TypeUpgradeKitchen, nil)
	if f.ws.Game.KitchenLevel != 2 || f.ws.Game.Money != 3500 {
		t.Fatalf("second upgrade should be rejected: %+v", f.ws.Game)
	}
}

func TestSetPrice(t *testing.T) {
	cases := []struct {
		price  any
		want   int
		notice string
	}{
		{750, 750, "Price set to ¥750"},
		{1200, 1200, "Price set to ¥1,200"},
		{50, 100, "Price set to ¥100"},
		{"abc", 600, "Price set to ¥600"},
		{"", 600, "Price set to ¥600"},
		{0, 600, "Price set to ¥600"},
		{-40, 100, "Price set to ¥100"},
		{1e19, math.MaxInt32, "Price set to ¥2,147,483,647"},
		{"1e19", math.MaxInt32, "Price set to ¥2,147,483,647"},
		{-1e19, 100, "Price set to ¥100"},
	}
	for _, c := range cases {
		f := newFixture(t)
		f.send(t, packet.TypeSetPrice, map[string]any{"price": c.price})
		if f.ws.Game.Price != c.want || f.ws.ActiveNotice() != c.notice {
			t.Fatalf("price %v: got %d %q, want %d %q", c.price, f.ws.Game.Price, f.ws.ActiveNotice(), c.want, c.notice)
		}
	}
}

func TestDayActions(t *testing.T) {
	f := newFixture(t)

	f.send(t, packet.TypeEndDay, nil)
	if f.ws.ActiveNotice() != "Start a day first." || f.ws.Game.Day != 1 {
		t.Fatalf("end before start: day=%d notice=%q", f.ws.Game.Day, f.ws.ActiveNotice())
	}

	f.send(t, packet.TypeStartDay, nil)
	if !f.ws.Game.Running || f.ws.ActiveNotice() != "Day started." {
		t.Fatalf("start: running=%v notice=%q", f.ws.Game.Running, f.ws.ActiveNotice())
	}
	f.send(t, packet.TypeStartDay, nil)
	if f.ws.ActiveNotice() != "The day is already running." {
		t.Fatalf("double start notice = %q", f.ws.ActiveNotice())
	}

	f.send(t, packet.TypeEndDay, nil)
	if f.ws.Game.Running || f.ws.Game.Day != 2 || f.ws.Game.Money != 9700 {
		t.Fatalf("end: %+v", f.ws.Game)
	}
}

func TestPauseResume(t *testing.T) {
	f := newFixture(t)
	f.send(t, packet.TypePause, nil)
	if !f.ws.Game.Pause || !f.ws.Dirty {
		t.Fatalf("pause not applied")
	}
	f.send(t, packet.TypeResume, nil)
	if f.ws.Game.Pause {
		t.Fatalf("resume not applied")
	}
}

func addCustomer(ws *world.State, x, y float64, st world.CustomerState) *world.Customer {
	return ws.AddCustomer(world.Customer{X: x, Y: y, State: st, Patience: 10})
}

func TestPointerSeatsWithinRadius(t *testing.T) {
	f := newFixture(t)
	c := addCustomer(f.ws, 300, 60, world.Waiting)

	if DispatchPointer(f.deps, 316, 60) {
		t.Fatalf("click exactly on the radius must miss")
	}
	f.send(t, packet.TypePointer, map[string]float64{"x": 310, "y": 65})
	if c.State != world.Seated || c.Table != 1 {
		t.Fatalf("state=%v table=%d, want seated at 1", c.State, c.Table)
	}
}

func TestPointerFirstMatchWins(t *testing.T) {
	f := newFixture(t)
	a := addCustomer(f.ws, 300, 60, world.Waiting)
	b := addCustomer(f.ws, 302, 60, world.Waiting)

	if !DispatchPointer(f.deps, 301, 60) {
		t.Fatalf("click missed")
	}
	if a.State != world.Seated || b.State != world.Waiting {
		t.Fatalf("a=%v b=%v, only the first should be seated", a.State, b.State)
	}
}

func TestPointerManualCook(t *testing.T) {
	f := newFixture(t)
	c := addCustomer(f.ws, 120, 200, world.Seated)

	f.ws.Game.Staff.Chef = 1
	if DispatchPointer(f.deps, 120, 200) {
		t.Fatalf("cook click accepted while a chef is staffed")
	}

	f.ws.Game.Staff.Chef = 0
	if !DispatchPointer(f.deps, 135, 200) {
		t.Fatalf("cook click within 20px missed")
	}
	if f.ws.Tasks.Len() != 1 || f.ws.ActiveNotice() != "You start cooking (player)." {
		t.Fatalf("tasks=%d notice=%q", f.ws.Tasks.Len(), f.ws.ActiveNotice())
	}
	task, ok := f.ws.Tasks.PopDue(1.2)
	if !ok || task.Kind != world.TaskFinishCooking || task.Customer != c.ID {
		t.Fatalf("task = %+v ok=%v", task, ok)
	}
}

func TestPointerSkipsWaitingWhenRoomIsFull(t *testing.T) {
	f := newFixture(t)
	for i := 0; i < data.TableCount; i++ {
		c := addCustomer(f.ws, 0, 0, world.Waiting)
		f.deps.Lifecycle.Seat(c.ID, i)
	}
	waiting := addCustomer(f.ws, 500, 500, world.Waiting)

	if DispatchPointer(f.deps, 500, 500) {
		t.Fatalf("seated with no free table")
	}
	if waiting.State != world.Waiting {
		t.Fatalf("waiting customer changed: %v", waiting.State)
	}
}
