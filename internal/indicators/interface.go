// Package indicators holds the technical indicators the warmup subsystem
// feeds. Only the indicators' data requirements matter to the backfill;
// signal logic lives with the strategy.
package indicators

import (
	"github.com/ducminhle1904/forex-warmup-bot/pkg/types"
)

// TechnicalIndicator is the minimal indicator contract the warmup
// calculator cares about: a value and the number of bars needed before
// that value is valid.
type TechnicalIndicator interface {
	Calculate(data []types.Bar) (float64, error)
	GetName() string
	GetRequiredPeriods() int
}
