package data

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestCookDelay(t *testing.T) {
	tu := DefaultTuning()
	cases := []struct {
		level int
		want  float64
	}{
		{1, 3.5},
		{3, 2.5},
		{6, 1.0},
		{20, 1.0},
	}
	for _, c := range cases {
		if got := tu.CookDelay(c.level); got != c.want {
			t.Fatalf("CookDelay(%d) = %v, want %v", c.level, got, c.want)
		}
	}
}

func TestSpawnIntervalFloors(t *testing.T) {
	tu := DefaultTuning()
	if got := tu.SpawnInterval(1, 50); got != 2.2 {
		t.Fatalf("day 1 interval = %v, want 2.2", got)
	}
	if got := tu.SpawnInterval(100, 100); got != 0.6 {
		t.Fatalf("late interval = %v, want floor 0.6", got)
	}
}

func TestDayEventSplit(t *testing.T) {
	tu := DefaultTuning()
	if ev := tu.DayEvent(0.5, 0.1); ev.Triggered {
		t.Fatalf("roll 0.5 triggered %+v", ev)
	}
	if ev := tu.DayEvent(0.05, 0.2); !ev.Triggered || ev.Reputation != -3 {
		t.Fatalf("bad review roll gave %+v", ev)
	}
	if ev := tu.DayEvent(0.05, 0.7); !ev.Triggered || ev.Reputation != 4 {
		t.Fatalf("good review roll gave %+v", ev)
	}
}

func TestLoadTuningKeepsDefaultsForMissingKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tuning.yaml")
	raw := []byte("economy:\n  rent: 450\nshop:\n  staff:\n    waiter:\n      hire_cost: 1500\n      wage: 5\n    chef:\n      hire_cost: 2500\n      wage: 8\n")
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		t.Fatal(err)
	}
	tu, err := LoadTuning(path)
	if err != nil {
		t.Fatalf("LoadTuning: %v", err)
	}
	if tu.Economy.Rent != 450 {
		t.Fatalf("rent = %v, want 450", tu.Economy.Rent)
	}
	if tu.Economy.EventChance != 0.12 {
		t.Fatalf("event chance lost its default: %v", tu.Economy.EventChance)
	}
	if c, _ := tu.HireCost(RoleWaiter); c != 1500 {
		t.Fatalf("waiter cost = %v, want 1500", c)
	}
	if len(tu.Tables) != TableCount {
		t.Fatalf("tables = %d, want %d", len(tu.Tables), TableCount)
	}
}

func TestParseTuningRejectsWrongTableCount(t *testing.T) {
	raw := []byte("tables:\n  - {x: 1, y: 2}\n")
	if _, err := ParseTuning(raw); err == nil {
		t.Fatalf("expected error for a single table")
	}
}

func TestShippedTuningMatchesDefaults(t *testing.T) {
	tun, err := LoadTuning(filepath.Join("..", "..", "data", "yaml", "tuning.yaml"))
	if err != nil {
		t.Fatalf("LoadTuning: %v", err)
	}
	if !reflect.DeepEqual(tun, DefaultTuning()) {
		t.Fatalf("shipped tuning drifted from defaults:\n got %+v\nwant %+v", tun, DefaultTuning())
	}
}
