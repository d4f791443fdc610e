package scripting

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/restotycoon/server/internal/data"
	"go.uber.org/zap/zaptest"
)

func writeScript(t *testing.T, dir, sub, name, src string) {
	t.Helper()
	p := filepath.Join(dir, sub)
	if err := os.MkdirAll(p, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(p, name), []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestShippedScriptsMatchGoFormulas(t *testing.T) {
	tu := data.DefaultTuning()
	e, err := NewEngine(filepath.Join("..", "..", "scripts"), tu, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	defer e.Close()

	for level := 1; level <= 8; level++ {
		if got, want := e.CookDelay(level), tu.CookDelay(level); got != want {
			t.Fatalf("CookDelay(%d) lua=%v go=%v", level, got, want)
		}
	}
	if got := e.CookDelay(3); got != 2.5 {
		t.Fatalf("CookDelay(3) = %v, want 2.5", got)
	}
	for _, c := range []struct {
		day int
		rep float64
	}{{1, 50}, {5, 70}, {40, 100}} {
		got, want := e.SpawnInterval(c.day, c.rep), tu.SpawnInterval(c.day, c.rep)
		if diff := got - want; diff > 1e-9 || diff < -1e-9 {
			t.Fatalf("SpawnInterval(%d,%v) lua=%v go=%v", c.day, c.rep, got, want)
		}
	}
	for _, r := range [][2]float64{{0.5, 0.1}, {0.01, 0.2}, {0.01, 0.9}} {
		if got, want := e.DayEvent(r[0], r[1]), tu.DayEvent(r[0], r[1]); got != want {
			t.Fatalf("DayEvent(%v) lua=%+v go=%+v", r, got, want)
		}
	}
}

func TestMissingScriptsFallBack(t *testing.T) {
	tu := data.DefaultTuning()
	e, err := NewEngine(t.TempDir(), tu, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	defer e.Close()

	if got := e.CookDelay(2); got != 3.0 {
		t.Fatalf("fallback CookDelay(2) = %v, want 3.0", got)
	}
	if ev := e.DayEvent(0.01, 0.9); !ev.Triggered || ev.Reputation != 4 {
		t.Fatalf("fallback DayEvent = %+v", ev)
	}
}

func TestBrokenScriptFallsBack(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "core", "bad.lua", `
function calc_cook_delay(ctx) error("boom") end
function calc_spawn_interval(ctx) return "soon" end
`)
	tu := data.DefaultTuning()
	e, err := NewEngine(dir, tu, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	defer e.Close()

	if got := e.CookDelay(1); got != 3.5 {
		t.Fatalf("CookDelay = %v, want fallback 3.5", got)
	}
	if got := e.SpawnInterval(1, 50); got != 2.2 {
		t.Fatalf("SpawnInterval = %v, want fallback 2.2", got)
	}
}

func TestScriptOverridesFormula(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "core", "fast.lua", `function calc_cook_delay(ctx) return 0.25 * ctx.level end`)
	e, err := NewEngine(dir, data.DefaultTuning(), zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	defer e.Close()
	if got := e.CookDelay(4); got != 1.0 {
		t.Fatalf("CookDelay(4) = %v, want 1.0", got)
	}
}

func TestSyntaxErrorFailsLoad(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "events", "broken.lua", `function (`)
	if _, err := NewEngine(dir, data.DefaultTuning(), zaptest.NewLogger(t)); err == nil {
		t.Fatalf("expected load error")
	}
}

func TestShippedScriptsFollowTuningFile(t *testing.T) {
	tu, err := data.ParseTuning([]byte(`
timing:
  cook_base: 6.0
  cook_step: 1.0
  cook_floor: 2.0
spawn:
  base_interval: 3.0
  min_interval: 1.5
  day_factor: 0.1
  reputation_factor: 0.02
  reputation_pivot: 40
economy:
  event_chance: 0.5
  bad_review: -7
  good_review: 9
  bad_review_message: "Health inspector!"
  good_review_message: "Critics rave."
`))
	if err != nil {
		t.Fatalf("ParseTuning: %v", err)
	}
	e, err := NewEngine(filepath.Join("..", "..", "scripts"), tu, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	defer e.Close()

	for _, c := range []struct {
		level int
		want  float64
	}{{1, 6.0}, {3, 4.0}, {10, 2.0}} {
		if got := e.CookDelay(c.level); got != c.want {
			t.Fatalf("CookDelay(%d) = %v, want %v", c.level, got, c.want)
		}
	}

	// 3.0 - 1*0.1 - (40-40)*0.02
	if got := e.SpawnInterval(2, 40); got < 2.9-1e-9 || got > 2.9+1e-9 {
		t.Fatalf("SpawnInterval(2,40) = %v, want 2.9", got)
	}
	if got := e.SpawnInterval(50, 100); got != 1.5 {
		t.Fatalf("SpawnInterval floor = %v, want 1.5", got)
	}

	if ev := e.DayEvent(0.3, 0.2); !ev.Triggered || ev.Reputation != -7 || ev.Message != "Health inspector!" {
		t.Fatalf("bad event = %+v", ev)
	}
	if ev := e.DayEvent(0.3, 0.8); !ev.Triggered || ev.Reputation != 9 || ev.Message != "Critics rave." {
		t.Fatalf("good event = %+v", ev)
	}
	if ev := e.DayEvent(0.6, 0.8); ev.Triggered {
		t.Fatalf("roll above chance triggered %+v", ev)
	}
}
