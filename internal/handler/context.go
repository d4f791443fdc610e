package handler

import (
	"github.com/restotycoon/server/internal/net/packet"
	"github.com/restotycoon/server/internal/system"
	"github.com/restotycoon/server/internal/world"
	"go.uber.org/zap"
)

// Deps holds shared dependencies injected into all message handlers.
type Deps struct {
	Log       *zap.Logger
	World     *world.State
	Lifecycle *system.Lifecycle
	Economy   *system.EconomySystem
}

// RegisterAll registers all message handlers into the registry.
func RegisterAll(reg *packet.Registry, deps *Deps) {
	// Floor
	reg.Register(packet.TypePointer, func(client string, r *packet.Reader) {
		HandlePointer(client, r, deps)
	})

	// Day cycle
	reg.Register(packet.TypeStartDay, func(client string, r *packet.Reader) {
		HandleStartDay(client, r, deps)
	})
	reg.Register(packet.TypeEndDay, func(client string, r *packet.Reader) {
		HandleEndDay(client, r, deps)
	})
	reg.Register(packet.TypePause, func(client string, r *packet.Reader) {
		HandlePause(client, r, deps)
	})
	reg.Register(packet.TypeResume, func(client string, r *packet.Reader) {
		HandleResume(client, r, deps)
	})

	// Shop
	reg.Register(packet.TypeSetPrice, func(client string, r *packet.Reader) {
		HandleSetPrice(client, r, deps)
	})
	reg.Register(packet.TypeHire, func(client string, r *packet.Reader) {
		HandleHire(client, r, deps)
	})
	reg.Register(packet.TypeBuyIngredients, func(client string, r *packet.Reader) {
		HandleBuyIngredients(client, r, deps)
	})
	reg.Register(packet.TypeUpgradeKitchen, func(client string, r *packet.Reader) {
		HandleUpgradeKitchen(client, r, deps)
	})
}
