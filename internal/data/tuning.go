package data

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

// TableCount is the fixed size of the dining room.
const TableCount = 4

// Tuning holds every balance constant of the restaurant, loaded from
// data/yaml/tuning.yaml on top of DefaultTuning.
type Tuning struct {
	Spawn    SpawnTuning    `yaml:"spawn"`
	Customer CustomerTuning `yaml:"customer"`
	Timing   TimingTuning   `yaml:"timing"`
	Economy  EconomyTuning  `yaml:"economy"`
	Shop     ShopTuning     `yaml:"shop"`
	Input    InputTuning    `yaml:"input"`
	Tables   []TableSpot    `yaml:"tables"`
}

type SpawnTuning struct {
	BaseInterval     float64 `yaml:"base_interval"` // seconds between customers on day 1 at pivot reputation
	MinInterval      float64 `yaml:"min_interval"`
	DayFactor        float64 `yaml:"day_factor"`
	ReputationFactor float64 `yaml:"reputation_factor"`
	ReputationPivot  float64 `yaml:"reputation_pivot"`
}

type CustomerTuning struct {
	MinX         float64 `yaml:"min_x"`
	SpanX        float64 `yaml:"span_x"`
	StartY       float64 `yaml:"start_y"`
	WaitLineY    float64 `yaml:"wait_line_y"` // entering customers start waiting past this line
	MinSpeed     float64 `yaml:"min_speed"`   // px/s
	SpanSpeed    float64 `yaml:"span_speed"`
	MinPatience  float64 `yaml:"min_patience"` // seconds
	SpanPatience float64 `yaml:"span_patience"`
}

type TimingTuning struct {
	OrderDelay     float64 `yaml:"order_delay"`   // waiter takes the order this long after seating
	ManualCook     float64 `yaml:"manual_cook"`   // player cooking time
	CookBase       float64 `yaml:"cook_base"`     // chef cooking time at kitchen level 1
	CookStep       float64 `yaml:"cook_step"`     // saved per kitchen level
	CookFloor      float64 `yaml:"cook_floor"`    // chef never cooks faster than this
	ServedLinger   float64 `yaml:"served_linger"` // served customers stay visible this long
	NoticeDuration float64 `yaml:"notice_duration"`
}

type EconomyTuning struct {
	Rent              float64 `yaml:"rent"`
	WageDamping       float64 `yaml:"wage_damping"`
	ServeReputation   float64 `yaml:"serve_reputation"`
	ImpatientPenalty  float64 `yaml:"impatient_penalty"`
	NoStockPenalty    float64 `yaml:"no_stock_penalty"`
	ServedRepFactor   float64 `yaml:"served_reputation_factor"`
	EventChance       float64 `yaml:"event_chance"`
	BadReview         float64 `yaml:"bad_review"`
	GoodReview        float64 `yaml:"good_review"`
	BadReviewMessage  string  `yaml:"bad_review_message"`
	GoodReviewMessage string  `yaml:"good_review_message"`
}

type ShopTuning struct {
	MinPrice       int                 `yaml:"min_price"`
	DefaultPrice   int                 `yaml:"default_price"`
	IngredientCost float64             `yaml:"ingredient_cost"`
	IngredientPack int                 `yaml:"ingredient_pack"`
	KitchenUpgrade float64             `yaml:"kitchen_upgrade"`
	Staff          map[string]RoleSpec `yaml:"staff"`
}

// RoleSpec is one row of the hiring table.
type RoleSpec struct {
	HireCost float64 `yaml:"hire_cost"`
	Wage     float64 `yaml:"wage"` // per second, before damping
}

type InputTuning struct {
	SeatRadius float64 `yaml:"seat_radius"`
	CookRadius float64 `yaml:"cook_radius"`
}

type TableSpot struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// DayEvent is the outcome of the end-of-day random roll.
type DayEvent struct {
	Triggered  bool
	Reputation float64
	Message    string
}

// Staff role keys used by the hiring table and GameState.
const (
	RoleWaiter = "waiter"
	RoleChef   = "chef"
)

func DefaultTuning() *Tuning {
	return &Tuning{
		Spawn: SpawnTuning{
			BaseInterval:     2.2,
			MinInterval:      0.6,
			DayFactor:        0.05,
			ReputationFactor: 0.01,
			ReputationPivot:  50,
		},
		Customer: CustomerTuning{
			MinX:         50,
			SpanX:        620,
			StartY:       -20,
			WaitLineY:    60,
			MinSpeed:     40,
			SpanSpeed:    40,
			MinPatience:  8,
			SpanPatience: 8,
		},
		Timing: TimingTuning{
			OrderDelay:     1.0,
			ManualCook:     1.2,
			CookBase:       3.5,
			CookStep:       0.5,
			CookFloor:      1.0,
			ServedLinger:   0.8,
			NoticeDuration: 3.0,
		},
		Economy: EconomyTuning{
			Rent:              300,
			WageDamping:       0.5,
			ServeReputation:   0.5,
			ImpatientPenalty:  2,
			NoStockPenalty:    5,
			ServedRepFactor:   0.02,
			EventChance:       0.12,
			BadReview:         -3,
			GoodReview:        4,
			BadReviewMessage:  "Bad review! Reputation down.",
			GoodReviewMessage: "Local blogger loved you! Reputation up.",
		},
		Shop: ShopTuning{
			MinPrice:       100,
			DefaultPrice:   600,
			IngredientCost: 500,
			IngredientPack: 5,
			KitchenUpgrade: 4000,
			Staff: map[string]RoleSpec{
				RoleWaiter: {HireCost: 2000, Wage: 5},
				RoleChef:   {HireCost: 3000, Wage: 8},
			},
		},
		Input: InputTuning{
			SeatRadius: 16,
			CookRadius: 20,
		},
		Tables: []TableSpot{
			{X: 120, Y: 220},
			{X: 300, Y: 220},
			{X: 480, Y: 220},
			{X: 600, Y: 220},
		},
	}
}

// LoadTuning reads a tuning file and decodes it on top of DefaultTuning,
// so keys missing from the file keep their defaults.
func LoadTuning(path string) (*Tuning, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read tuning: %w", err)
	}
	t, err := ParseTuning(raw)
	if err != nil {
		return nil, fmt.Errorf("tuning %s: %w", path, err)
	}
	return t, nil
}

// ParseTuning decodes raw YAML on top of DefaultTuning and validates it.
func ParseTuning(raw []byte) (*Tuning, error) {
	t := DefaultTuning()
	if err := yaml.Unmarshal(raw, t); err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *Tuning) Validate() error {
	if len(t.Tables) != TableCount {
		return fmt.Errorf("want %d tables, got %d", TableCount, len(t.Tables))
	}
	for _, role := range []string{RoleWaiter, RoleChef} {
		rs, ok := t.Shop.Staff[role]
		if !ok {
			return fmt.Errorf("staff role %q missing", role)
		}
		if rs.HireCost <= 0 {
			return fmt.Errorf("staff role %q: hire cost must be positive", role)
		}
	}
	if len(t.Shop.Staff) != 2 {
		return fmt.Errorf("only %q and %q can be hired", RoleWaiter, RoleChef)
	}
	if t.Shop.IngredientCost <= 0 || t.Shop.IngredientPack <= 0 {
		return fmt.Errorf("ingredient cost and pack must be positive")
	}
	if t.Shop.KitchenUpgrade <= 0 {
		return fmt.Errorf("kitchen upgrade cost must be positive")
	}
	if t.Shop.MinPrice <= 0 {
		return fmt.Errorf("min price must be positive")
	}
	if t.Economy.EventChance < 0 || t.Economy.EventChance > 1 {
		return fmt.Errorf("event chance %v outside [0,1]", t.Economy.EventChance)
	}
	return nil
}

// HireCost returns the cost of one hire for role.
func (t *Tuning) HireCost(role string) (float64, bool) {
	rs, ok := t.Shop.Staff[role]
	return rs.HireCost, ok
}

// WageRate is the undamped wage bill per second for the given staff.
func (t *Tuning) WageRate(waiters, chefs int) float64 {
	return float64(waiters)*t.Shop.Staff[RoleWaiter].Wage + float64(chefs)*t.Shop.Staff[RoleChef].Wage
}

// CookDelay is how long a chef needs at the given kitchen level.
func (t *Tuning) CookDelay(kitchenLevel int) float64 {
	d := t.Timing.CookBase - t.Timing.CookStep*float64(kitchenLevel-1)
	return math.Max(t.Timing.CookFloor, d)
}

// SpawnInterval shrinks with each day and with reputation above the pivot.
func (t *Tuning) SpawnInterval(day int, reputation float64) float64 {
	s := t.Spawn
	iv := s.BaseInterval - float64(day-1)*s.DayFactor - (reputation-s.ReputationPivot)*s.ReputationFactor
	return math.Max(s.MinInterval, iv)
}

// DayEvent resolves the end-of-day roll. roll decides whether an event
// fires, pick decides which one; both are uniform in [0,1).
func (t *Tuning) DayEvent(roll, pick float64) DayEvent {
	e := t.Economy
	if roll >= e.EventChance {
		return DayEvent{}
	}
	if pick < 0.5 {
		return DayEvent{Triggered: true, Reputation: e.BadReview, Message: e.BadReviewMessage}
	}
	return DayEvent{Triggered: true, Reputation: e.GoodReview, Message: e.GoodReviewMessage}
}
