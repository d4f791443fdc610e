package system

import (
	"fmt"
	"time"

	"github.com/restotycoon/server/internal/core/event"
	coresys "github.com/restotycoon/server/internal/core/system"
	"github.com/restotycoon/server/internal/data"
	"github.com/restotycoon/server/internal/world"
	"go.uber.org/zap"
)

// EconomySystem drains wages continuously while the day is open and owns the
// discrete money operations: day settlement, hiring and purchases.
// Phase 7 (Economy).
type EconomySystem struct {
	ws       *world.State
	formulas Formulas
	log      *zap.Logger
}

func NewEconomySystem(ws *world.State, formulas Formulas, log *zap.Logger) *EconomySystem {
	return &EconomySystem{ws: ws, formulas: formulas, log: log}
}

func (s *EconomySystem) Phase() coresys.Phase { return coresys.PhaseEconomy }

func (s *EconomySystem) Update(dt time.Duration) {
	g := &s.ws.Game
	if !g.Running {
		return
	}
	cost := s.ws.Tuning.WageRate(g.Staff.Waiter, g.Staff.Chef) * dt.Seconds() * s.ws.Tuning.Economy.WageDamping
	g.Money -= cost
	g.Today.Wages += cost
}

// StartDay opens the restaurant with an empty room.
func (s *EconomySystem) StartDay() error {
	g := &s.ws.Game
	if g.Running {
		return ErrDayRunning
	}
	s.ws.ClearCustomers()
	s.ws.SpawnTimer = 0
	g.Running = true
	g.Today = world.DayStats{}
	s.ws.ShowNotice("Day started.")
	s.log.Info("day started", zap.Int("day", g.Day))
	return nil
}

// EndDay settles the day: rent, reputation for the guests served, the day
// counter and a possible random event. Customers still inside stay until the
// next StartDay clears the room.
func (s *EconomySystem) EndDay() (event.DayEnded, error) {
	g := &s.ws.Game
	if !g.Running {
		return event.DayEnded{}, ErrDayNotRunning
	}
	eco := s.ws.Tuning.Economy

	g.Running = false
	g.Money -= eco.Rent
	gain := float64(g.Served) * eco.ServedRepFactor
	g.Reputation += gain
	g.Day++
	s.ws.ShowNotice(fmt.Sprintf("Day %d ended. Rent %s paid.", g.Day-1, FormatYen(eco.Rent)))

	report := event.DayEnded{
		Day:             g.Day - 1,
		Served:          g.Served,
		Walkouts:        g.Today.Walkouts,
		Revenue:         g.Today.Revenue,
		Wages:           g.Today.Wages,
		Rent:            eco.Rent,
		ReputationDelta: gain,
	}

	roll, pick := s.ws.Rand.Float64(), s.ws.Rand.Float64()
	if ev := s.formulas.DayEvent(roll, pick); ev.Triggered {
		g.Reputation += ev.Reputation
		report.ReputationDelta += ev.Reputation
		report.RandomEvent = ev.Message
		s.ws.ShowNotice(ev.Message)
	}

	g.Served = 0
	report.MoneyAfter = g.Money
	event.Emit(s.ws.Bus, report)

	s.log.Info("day ended",
		zap.Int("day", report.Day),
		zap.Int("served", report.Served),
		zap.Int("walkouts", report.Walkouts),
		zap.Float64("revenue", report.Revenue),
		zap.Float64("money", g.Money),
		zap.String("event", report.RandomEvent),
	)
	return report, nil
}

// Hire adds one employee of the given role.
func (s *EconomySystem) Hire(role string) error {
	cost, ok := s.ws.Tuning.HireCost(role)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownRole, role)
	}
	if err := s.spend(cost); err != nil {
		return err
	}
	g := &s.ws.Game
	switch role {
	case data.RoleWaiter:
		g.Staff.Waiter++
	case data.RoleChef:
		g.Staff.Chef++
	}
	s.log.Info("staff hired", zap.String("role", role), zap.Float64("cost", cost))
	return nil
}

// BuyIngredients buys one pack of ingredients.
func (s *EconomySystem) BuyIngredients() error {
	shop := s.ws.Tuning.Shop
	if err := s.spend(shop.IngredientCost); err != nil {
		return err
	}
	s.ws.Game.Ingredients += shop.IngredientPack
	return nil
}

// UpgradeKitchen raises the kitchen level by one, shortening chef cook time.
func (s *EconomySystem) UpgradeKitchen() error {
	if err := s.spend(s.ws.Tuning.Shop.KitchenUpgrade); err != nil {
		return err
	}
	s.ws.Game.KitchenLevel++
	s.log.Info("kitchen upgraded", zap.Int("level", s.ws.Game.KitchenLevel))
	return nil
}

// SetPrice applies a menu price. Zero falls back to the default price, and
// the result is never below the price floor.
func (s *EconomySystem) SetPrice(price int) int {
	shop := s.ws.Tuning.Shop
	if price == 0 {
		price = shop.DefaultPrice
	}
	if price < shop.MinPrice {
		price = shop.MinPrice
	}
	s.ws.Game.Price = price
	return price
}

// spend deducts cost, or rejects without touching money.
func (s *EconomySystem) spend(cost float64) error {
	if s.ws.Game.Money < cost {
		return ErrInsufficientFunds
	}
	s.ws.Game.Money -= cost
	return nil
}
