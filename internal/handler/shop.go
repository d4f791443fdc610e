package handler

import (
	"fmt"
	"math"

	"github.com/restotycoon/server/internal/net/packet"
	"github.com/restotycoon/server/internal/system"
	"go.uber.org/zap"
)

// HandleSetPrice sets the menu price. Anything that is not a number counts
// as zero and falls back to the default price. Huge values are capped at
// MaxInt32 before conversion, keeping their sign.
func HandleSetPrice(_ string, r *packet.Reader, deps *Deps) {
	defer markDirty(deps)
	v, ok := r.Number("price")
	if !ok {
		v = 0
	}
	v = math.Max(-math.MaxInt32, math.Min(v, math.MaxInt32))
	price := deps.Economy.SetPrice(int(v))
	deps.World.ShowNotice("Price set to " + system.FormatYen(float64(price)))
}

// HandleHire hires one employee of the requested role.
func HandleHire(client string, r *packet.Reader, deps *Deps) {
	defer markDirty(deps)
	var req struct {
		Role string `json:"role"`
	}
	if err := r.Decode(&req); err != nil {
		deps.Log.Debug("bad hire payload", zap.String("client", client), zap.Error(err))
		return
	}
	if err := deps.Economy.Hire(req.Role); err != nil {
		reject(client, err, deps)
		return
	}
	deps.World.ShowNotice(fmt.Sprintf("%s hired!", req.Role))
}

func HandleBuyIngredients(client string, _ *packet.Reader, deps *Deps) {
	defer markDirty(deps)
	if err := deps.Economy.BuyIngredients(); err != nil {
		reject(client, err, deps)
		return
	}
	deps.World.ShowNotice("Ingredients bought.")
}

func HandleUpgradeKitchen(client string, _ *packet.Reader, deps *Deps) {
	defer markDirty(deps)
	if err := deps.Economy.UpgradeKitchen(); err != nil {
		reject(client, err, deps)
		return
	}
	deps.World.ShowNotice("Kitchen upgraded!")
}
