package handler

import (
	"errors"

	"github.com/restotycoon/server/internal/net/packet"
	"github.com/restotycoon/server/internal/system"
	"go.uber.org/zap"
)

// Every action marks the world dirty: the scheduler then saves and redraws,
// even while paused.

// HandleStartDay opens the restaurant.
func HandleStartDay(client string, _ *packet.Reader, deps *Deps) {
	defer markDirty(deps)
	if err := deps.Economy.StartDay(); err != nil {
		reject(client, err, deps)
	}
}

// HandleEndDay closes the day and settles it.
func HandleEndDay(client string, _ *packet.Reader, deps *Deps) {
	defer markDirty(deps)
	if _, err := deps.Economy.EndDay(); err != nil {
		reject(client, err, deps)
	}
}

func HandlePause(_ string, _ *packet.Reader, deps *Deps) {
	deps.World.Game.Pause = true
	markDirty(deps)
}

func HandleResume(_ string, _ *packet.Reader, deps *Deps) {
	deps.World.Game.Pause = false
	markDirty(deps)
}

func markDirty(deps *Deps) {
	deps.World.Dirty = true
}

// reject turns a business rejection into a notice for the player.
func reject(client string, err error, deps *Deps) {
	deps.World.ShowNotice(noticeFor(err))
	deps.Log.Debug("action rejected", zap.String("client", client), zap.Error(err))
}

func noticeFor(err error) string {
	switch {
	case errors.Is(err, system.ErrInsufficientFunds):
		return "Not enough money"
	case errors.Is(err, system.ErrUnknownRole):
		return "Nobody applied for that job."
	case errors.Is(err, system.ErrDayRunning):
		return "The day is already running."
	case errors.Is(err, system.ErrDayNotRunning):
		return "Start a day first."
	}
	return "Something went wrong."
}
