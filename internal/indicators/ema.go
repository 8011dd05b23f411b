package indicators

import (
	"errors"

	"github.com/ducminhle1904/forex-warmup-bot/pkg/types"
)

// EMA represents the Exponential Moving Average technical indicator
type EMA struct {
	period    int
	lastValue float64
}

// NewEMA creates a new EMA indicator
func NewEMA(period int) *EMA {
	return &EMA{period: period}
}

// Calculate calculates the EMA over the closing prices, seeding with an
// SMA of the first period bars
func (e *EMA) Calculate(data []types.Bar) (float64, error) {
	if len(data) < e.period {
		return 0, errors.New("insufficient data for EMA calculation")
	}

	// Seed with the SMA of the first period closes
	seed := 0.0
	for i := 0; i < e.period; i++ {
		seed += data[i].Close.InexactFloat64()
	}
	ema := seed / float64(e.period)

	multiplier := 2.0 / float64(e.period+1)
	for i := e.period; i < len(data); i++ {
		ema = (data[i].Close.InexactFloat64()-ema)*multiplier + ema
	}

	e.lastValue = ema
	return ema, nil
}

// GetName returns the indicator name
func (e *EMA) GetName() string {
	return "EMA"
}

// GetRequiredPeriods returns the minimum number of bars needed
func (e *EMA) GetRequiredPeriods() int {
	return e.period
}
