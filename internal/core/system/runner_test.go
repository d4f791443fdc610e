package system

import (
	"testing"
	"time"
)

type recSystem struct {
	name  string
	phase Phase
	log   *[]string
}

func (s recSystem) Phase() Phase { return s.phase }
func (s recSystem) Update(time.Duration) {
	*s.log = append(*s.log, s.name)
}

func TestRunnerOrdersByPhaseThenRegistration(t *testing.T) {
	var log []string
	r := NewRunner()
	r.Register(recSystem{"staff", PhaseStaff, &log})
	r.Register(recSystem{"update-a", PhaseUpdate, &log})
	r.Register(recSystem{"input", PhaseInput, &log})
	r.Register(recSystem{"update-b", PhaseUpdate, &log})

	r.Tick(time.Second)
	want := []string{"input", "update-a", "update-b", "staff"}
	if len(log) != len(want) {
		t.Fatalf("ran %v, want %v", log, want)
	}
	for i := range want {
		if log[i] != want[i] {
			t.Fatalf("ran %v, want %v", log, want)
		}
	}
}

func TestRunnerTickRange(t *testing.T) {
	var log []string
	r := NewRunner()
	r.Register(recSystem{"input", PhaseInput, &log})
	r.Register(recSystem{"dispatch", PhaseDispatch, &log})
	r.Register(recSystem{"timers", PhaseTimers, &log})
	r.Register(recSystem{"economy", PhaseEconomy, &log})

	r.TickRange(PhaseInput, PhaseDispatch, 0)
	if len(log) != 2 || log[0] != "input" || log[1] != "dispatch" {
		t.Fatalf("ran %v, want [input dispatch]", log)
	}
	log = log[:0]
	r.TickRange(PhaseTimers, PhaseEconomy, 0)
	if len(log) != 2 || log[0] != "timers" || log[1] != "economy" {
		t.Fatalf("ran %v, want [timers economy]", log)
	}
}
