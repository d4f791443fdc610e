package world

import (
	"fmt"

	"github.com/restotycoon/server/internal/core/ecs"
)

// CustomerState is a lifecycle stage. Values only move forward.
type CustomerState uint8

const (
	Entering CustomerState = iota
	Waiting
	Seated
	Ordering
	Cooked
	Served
	Gone
)

func (s CustomerState) String() string {
	switch s {
	case Entering:
		return "entering"
	case Waiting:
		return "waiting"
	case Seated:
		return "seated"
	case Ordering:
		return "ordering"
	case Cooked:
		return "cooked"
	case Served:
		return "served"
	case Gone:
		return "gone"
	default:
		return fmt.Sprintf("state(%d)", uint8(s))
	}
}

// transitions is the lifecycle graph. Seated→Cooked is the player's cook
// click, which stands in for both order-taking and cooking.
var transitions = map[CustomerState]StateSet{
	Entering: StatesOf(Waiting),
	Waiting:  StatesOf(Seated, Gone),
	Seated:   StatesOf(Ordering, Cooked, Gone),
	Ordering: StatesOf(Cooked),
	Cooked:   StatesOf(Served),
}

// CanTransition reports whether from→to is an edge of the lifecycle graph.
func CanTransition(from, to CustomerState) bool {
	return transitions[from].Has(to)
}

// NoTable marks a customer without a table.
const NoTable = -1

type Customer struct {
	ID        ecs.EntityID
	X, Y      float64
	Speed     float64
	State     CustomerState
	Patience  float64
	Table     int
	OrderTime float64
}

// Advance moves the customer to the next state if the graph allows it.
func (c *Customer) Advance(to CustomerState) bool {
	if !CanTransition(c.State, to) {
		return false
	}
	c.State = to
	return true
}

// Within reports whether (x, y) lies strictly inside radius r of the customer.
func (c *Customer) Within(x, y, r float64) bool {
	dx, dy := x-c.X, y-c.Y
	return dx*dx+dy*dy < r*r
}

// StateSet is a small bitset of lifecycle states.
type StateSet uint8

func StatesOf(states ...CustomerState) StateSet {
	var s StateSet
	for _, st := range states {
		s |= 1 << st
	}
	return s
}

func (s StateSet) Has(st CustomerState) bool {
	return s&(1<<st) != 0
}
