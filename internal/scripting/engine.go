package scripting

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/restotycoon/server/internal/data"
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// Engine wraps a single gopher-lua VM for balance formulas.
// Single-goroutine access only (simulation loop). Scripts receive the
// tuning values with every call, and every call falls back to the Go
// formula from the same tuning when the script cannot answer.
type Engine struct {
	vm     *lua.LState
	log    *zap.Logger
	tuning *data.Tuning
}

// NewEngine creates a Lua engine and loads all scripts from the given directory.
func NewEngine(scriptsDir string, tuning *data.Tuning, log *zap.Logger) (*Engine, error) {
	vm := lua.NewState(lua.Options{
		SkipOpenLibs: false,
	})

	// Set API version global
	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	e := &Engine{vm: vm, log: log, tuning: tuning}

	for _, sub := range []string{"core", "events"} {
		p := filepath.Join(scriptsDir, sub)
		if err := e.loadDir(p); err != nil {
			vm.Close()
			return nil, fmt.Errorf("load %s scripts: %w", sub, err)
		}
	}

	return e, nil
}

// loadDir loads all .lua files in a directory.
func (e *Engine) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // skip missing dirs
		}
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := e.vm.DoFile(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		e.log.Debug("loaded lua script", zap.String("file", path))
	}
	return nil
}

// CookDelay calls Lua calc_cook_delay({level, base, step, floor}).
func (e *Engine) CookDelay(kitchenLevel int) float64 {
	tm := e.tuning.Timing
	ctx := e.ctx(map[string]lua.LValue{
		"level": lua.LNumber(kitchenLevel),
		"base":  lua.LNumber(tm.CookBase),
		"step":  lua.LNumber(tm.CookStep),
		"floor": lua.LNumber(tm.CookFloor),
	})
	v, ok := e.callNumber("calc_cook_delay", ctx)
	if !ok || v <= 0 {
		return e.tuning.CookDelay(kitchenLevel)
	}
	return v
}

// SpawnInterval calls Lua calc_spawn_interval with the day, reputation and
// the spawn tuning.
func (e *Engine) SpawnInterval(day int, reputation float64) float64 {
	sp := e.tuning.Spawn
	ctx := e.ctx(map[string]lua.LValue{
		"day":               lua.LNumber(day),
		"reputation":        lua.LNumber(reputation),
		"base":              lua.LNumber(sp.BaseInterval),
		"floor":             lua.LNumber(sp.MinInterval),
		"day_factor":        lua.LNumber(sp.DayFactor),
		"reputation_factor": lua.LNumber(sp.ReputationFactor),
		"pivot":             lua.LNumber(sp.ReputationPivot),
	})
	v, ok := e.callNumber("calc_spawn_interval", ctx)
	if !ok || v <= 0 {
		return e.tuning.SpawnInterval(day, reputation)
	}
	return v
}

// DayEvent calls Lua calc_day_event with the rolls and the event tuning.
// Randomness stays in Go; the script only maps the rolls to an outcome.
func (e *Engine) DayEvent(roll, pick float64) data.DayEvent {
	fn := e.vm.GetGlobal("calc_day_event")
	if fn == lua.LNil {
		return e.tuning.DayEvent(roll, pick)
	}

	eco := e.tuning.Economy
	ctx := e.ctx(map[string]lua.LValue{
		"roll":         lua.LNumber(roll),
		"pick":         lua.LNumber(pick),
		"chance":       lua.LNumber(eco.EventChance),
		"bad":          lua.LNumber(eco.BadReview),
		"good":         lua.LNumber(eco.GoodReview),
		"bad_message":  lua.LString(eco.BadReviewMessage),
		"good_message": lua.LString(eco.GoodReviewMessage),
	})

	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, ctx); err != nil {
		e.log.Error("lua calc_day_event error", zap.Error(err))
		return e.tuning.DayEvent(roll, pick)
	}

	result := e.vm.Get(-1)
	e.vm.Pop(1)

	rt, ok := result.(*lua.LTable)
	if !ok {
		e.log.Error("lua calc_day_event returned non-table")
		return e.tuning.DayEvent(roll, pick)
	}
	if rt.RawGetString("triggered") != lua.LTrue {
		return data.DayEvent{}
	}
	return data.DayEvent{
		Triggered:  true,
		Reputation: lNum(rt, "reputation"),
		Message:    lStr(rt, "message"),
	}
}

// --- Lua helpers ---

// lNum reads a number field from a Lua table.
func lNum(t *lua.LTable, key string) float64 {
	return float64(lua.LVAsNumber(t.RawGetString(key)))
}

// lStr reads a string field from a Lua table.
func lStr(t *lua.LTable, key string) string {
	return lua.LVAsString(t.RawGetString(key))
}

// ctx builds the argument table handed to a formula.
func (e *Engine) ctx(fields map[string]lua.LValue) *lua.LTable {
	t := e.vm.NewTable()
	for k, v := range fields {
		t.RawSetString(k, v)
	}
	return t
}

// callNumber calls a Lua function and returns its numeric result.
// ok is false when the function is missing, fails, or returns a non-number.
func (e *Engine) callNumber(name string, args ...lua.LValue) (float64, bool) {
	fn := e.vm.GetGlobal(name)
	if fn == lua.LNil {
		return 0, false
	}

	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, args...); err != nil {
		e.log.Error("lua call error", zap.String("func", name), zap.Error(err))
		return 0, false
	}

	result := e.vm.Get(-1)
	e.vm.Pop(1)
	n, ok := result.(lua.LNumber)
	if !ok {
		e.log.Warn("lua function returned non-number", zap.String("func", name))
		return 0, false
	}
	return float64(n), true
}

// Close shuts down the Lua VM.
func (e *Engine) Close() {
	e.vm.Close()
}
