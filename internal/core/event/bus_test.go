package event

import "testing"

func TestBusDeliversOnNextSwap(t *testing.T) {
	b := NewBus()
	var got []CustomerLeft
	Subscribe(b, func(e CustomerLeft) { got = append(got, e) })

	Emit(b, CustomerLeft{ID: 7, Reason: LeaveImpatient})
	if n := b.DispatchAll(); n != 0 {
		t.Fatalf("dispatched %d events before swap", n)
	}

	b.SwapBuffers()
	if n := b.DispatchAll(); n != 1 {
		t.Fatalf("dispatched %d events, want 1", n)
	}
	if len(got) != 1 || got[0].ID != 7 || got[0].Reason != LeaveImpatient {
		t.Fatalf("handler saw %+v", got)
	}

	b.SwapBuffers()
	if n := b.DispatchAll(); n != 0 {
		t.Fatalf("old events redelivered: %d", n)
	}
}

func TestBusKeepsTypesApart(t *testing.T) {
	b := NewBus()
	served, days := 0, 0
	Subscribe(b, func(CustomerServed) { served++ })
	Subscribe(b, func(DayEnded) { days++ })

	Emit(b, CustomerServed{ID: 1, Revenue: 600})
	Emit(b, CustomerServed{ID: 2, Revenue: 600})
	Emit(b, DayEnded{Day: 1})
	b.SwapBuffers()
	b.DispatchAll()

	if served != 2 || days != 1 {
		t.Fatalf("served=%d days=%d, want 2 and 1", served, days)
	}
}
