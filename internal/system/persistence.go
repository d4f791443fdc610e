package system

import (
	"github.com/restotycoon/server/internal/core/event"
	"github.com/restotycoon/server/internal/persist"
	"go.uber.org/zap"
)

// DayRecorder receives settled days. *persist.Saver implements it.
type DayRecorder interface {
	RecordDay(report persist.DayReport)
}

// SubscribeDayLedger forwards every DayEnded event to the recorder, so the
// store's day ledger sees each settlement exactly once.
func SubscribeDayLedger(bus *event.Bus, rec DayRecorder, log *zap.Logger) {
	event.Subscribe(bus, func(e event.DayEnded) {
		rec.RecordDay(persist.DayReport{
			Day:             e.Day,
			Served:          e.Served,
			Walkouts:        e.Walkouts,
			Revenue:         e.Revenue,
			Wages:           e.Wages,
			Rent:            e.Rent,
			ReputationDelta: e.ReputationDelta,
			RandomEvent:     e.RandomEvent,
			MoneyAfter:      e.MoneyAfter,
		})
		log.Debug("day queued for ledger", zap.Int("day", e.Day))
	})
}

// SubscribeJournal logs customer traffic at debug level.
func SubscribeJournal(bus *event.Bus, log *zap.Logger) {
	event.Subscribe(bus, func(e event.CustomerSpawned) {
		log.Debug("customer arrived", zap.Uint64("customer", uint64(e.ID)))
	})
	event.Subscribe(bus, func(e event.CustomerServed) {
		log.Debug("customer served", zap.Uint64("customer", uint64(e.ID)), zap.Int("revenue", e.Revenue))
	})
	event.Subscribe(bus, func(e event.CustomerLeft) {
		log.Debug("customer walked out", zap.Uint64("customer", uint64(e.ID)), zap.String("reason", string(e.Reason)))
	})
}
