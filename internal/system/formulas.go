package system

import (
	"math"

	"github.com/restotycoon/server/internal/data"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Formulas supplies the balance curves. *data.Tuning implements them in Go;
// *scripting.Engine lets Lua override them.
type Formulas interface {
	CookDelay(kitchenLevel int) float64
	SpawnInterval(day int, reputation float64) float64
	DayEvent(roll, pick float64) data.DayEvent
}

var printer = message.NewPrinter(language.English)

// FormatYen renders an amount the way the HUD shows money: floored, with
// thousands separators.
func FormatYen(v float64) string {
	return printer.Sprintf("¥%d", int64(math.Floor(v)))
}
