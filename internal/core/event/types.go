package event

import "github.com/restotycoon/server/internal/core/ecs"

// LeaveReason says why a customer walked out.
type LeaveReason string

const (
	LeaveImpatient     LeaveReason = "impatient"
	LeaveNoIngredients LeaveReason = "no_ingredients"
)

type CustomerSpawned struct {
	ID ecs.EntityID
}

type CustomerSeated struct {
	ID    ecs.EntityID
	Table int
}

type CustomerLeft struct {
	ID     ecs.EntityID
	Reason LeaveReason
}

type CustomerServed struct {
	ID      ecs.EntityID
	Revenue int
}

// DayEnded carries the settlement of one business day.
type DayEnded struct {
	Day             int
	Served          int
	Walkouts        int
	Revenue         float64
	Wages           float64
	Rent            float64
	ReputationDelta float64
	RandomEvent     string // "" when no event fired
	MoneyAfter      float64
}
