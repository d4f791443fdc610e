package persist

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/restotycoon/server/internal/config"
	"github.com/restotycoon/server/internal/world"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func sampleState() world.GameState {
	g := world.DefaultGameState()
	g.Money = 12345.5
	g.Day = 4
	g.Reputation = 61.5
	g.Ingredients = 3
	g.Staff = world.Staff{Waiter: 1, Chef: 2}
	g.KitchenLevel = 3
	g.Running = true
	return g
}

func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	dst := world.DefaultGameState()
	found, err := s.LoadState(ctx, "empty", &dst)
	if err != nil || found {
		t.Fatalf("empty slot: found=%v err=%v", found, err)
	}
	if dst != world.DefaultGameState() {
		t.Fatalf("empty load touched dst")
	}

	want := sampleState()
	if err := s.SaveState(ctx, "main", world.DefaultGameState()); err != nil {
		t.Fatalf("SaveState: %v", err)
	}
	if err := s.SaveState(ctx, "main", want); err != nil {
		t.Fatalf("SaveState overwrite: %v", err)
	}
	got := world.DefaultGameState()
	found, err = s.LoadState(ctx, "main", &got)
	if err != nil || !found {
		t.Fatalf("LoadState: found=%v err=%v", found, err)
	}
	if got != want {
		t.Fatalf("round trip:\n got %+v\nwant %+v", got, want)
	}

	for day := 1; day <= 2; day++ {
		if err := s.RecordDay(ctx, "main", DayReport{Day: day, Served: 10 * day, Rent: 300}); err != nil {
			t.Fatalf("RecordDay: %v", err)
		}
	}
}

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()
	exerciseStore(t, s)
	if days := s.Days("main"); len(days) != 2 || days[1].Served != 20 {
		t.Fatalf("ledger = %+v", days)
	}
}

func TestFileStore(t *testing.T) {
	dir := t.TempDir()
	s, err := OpenFileStore(dir)
	if err != nil {
		t.Fatalf("OpenFileStore: %v", err)
	}
	exerciseStore(t, s)

	days, err := s.Days("main")
	if err != nil || len(days) != 2 || days[0].Day != 1 || days[1].Served != 20 {
		t.Fatalf("ledger = %+v err=%v", days, err)
	}
	if _, err := os.Stat(filepath.Join(dir, "main.json.zst")); err != nil {
		t.Fatalf("save file missing: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "main.json.zst.tmp")); !os.IsNotExist(err) {
		t.Fatalf("temp file left behind: %v", err)
	}
}

func TestFileStoreRejectsPathSlots(t *testing.T) {
	s, err := OpenFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("OpenFileStore: %v", err)
	}
	for _, slot := range []string{"", "../escape", "a/b", ".."} {
		if err := s.SaveState(context.Background(), slot, world.DefaultGameState()); err == nil {
			t.Fatalf("slot %q accepted", slot)
		}
	}
}

func TestSQLiteStore(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "db", "resto.db")
	s, err := OpenSQLite(ctx, path)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	exerciseStore(t, s)

	days, err := s.Days(ctx, "main")
	if err != nil || len(days) != 2 || days[1].Day != 2 || days[1].Rent != 300 {
		t.Fatalf("ledger = %+v err=%v", days, err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	// reopening runs migrations again and keeps the data
	s, err = OpenSQLite(ctx, path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()
	got := world.DefaultGameState()
	if found, err := s.LoadState(ctx, "main", &got); err != nil || !found || got != sampleState() {
		t.Fatalf("after reopen: found=%v err=%v state=%+v", found, err, got)
	}
}

func TestLoadMergesOntoDefaults(t *testing.T) {
	s := NewMemoryStore()
	s.saves["old"] = []byte(`{"money": 777, "day": 9}`)

	got := world.DefaultGameState()
	found, err := s.LoadState(context.Background(), "old", &got)
	if err != nil || !found {
		t.Fatalf("LoadState: found=%v err=%v", found, err)
	}
	want := world.DefaultGameState()
	want.Money, want.Day = 777, 9
	if got != want {
		t.Fatalf("merge:\n got %+v\nwant %+v", got, want)
	}
}

func TestOpenStoreUnknownDriver(t *testing.T) {
	cfg := config.DatabaseConfig{Driver: "mongo"}
	if _, err := OpenStore(context.Background(), cfg, zap.NewNop()); err == nil {
		t.Fatalf("expected error")
	}
}

// failingStore fails every write.
type failingStore struct {
	*MemoryStore
	writes int
}

func (f *failingStore) SaveState(context.Context, string, world.GameState) error {
	f.writes++
	return errors.New("disk full")
}

func TestSaverKeepsNewestState(t *testing.T) {
	store := NewMemoryStore()
	sv := NewSaver(store, "main", 0, zap.NewNop())

	first := world.DefaultGameState()
	second := sampleState()
	sv.Save(first)
	sv.Save(second)
	sv.RecordDay(DayReport{Day: 1})
	if err := sv.Flush(context.Background()); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	got := world.DefaultGameState()
	if _, err := store.LoadState(context.Background(), "main", &got); err != nil || got != second {
		t.Fatalf("stored %+v err=%v", got, err)
	}
	if len(store.Days("main")) != 1 {
		t.Fatalf("ledger not flushed")
	}
	if err := sv.Close(context.Background()); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func TestSaverDegradesToMemory(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	store := &failingStore{MemoryStore: NewMemoryStore()}
	sv := NewSaver(store, "main", 0, zap.New(core))

	sv.Save(sampleState())
	if err := sv.Flush(context.Background()); err == nil {
		t.Fatalf("expected first flush to fail")
	}
	if !sv.Degraded() {
		t.Fatalf("saver not degraded after failure")
	}
	if logs.FilterMessage("persistence failed, continuing in memory only").Len() != 1 {
		t.Fatalf("degrade warning not logged")
	}

	sv.Save(sampleState())
	if err := sv.Flush(context.Background()); err != nil {
		t.Fatalf("degraded flush returned %v", err)
	}
	if store.writes != 1 {
		t.Fatalf("store written %d times after degrading", store.writes)
	}
}
