// Package warmup computes how much historical data a strategy needs before
// its slowest indicator produces valid values.
package warmup

import (
	"math"

	"github.com/ducminhle1904/forex-warmup-bot/internal/logger"
	"github.com/ducminhle1904/forex-warmup-bot/pkg/types"
)

const (
	// barCountBuffer pads the slow indicator period so the first valid
	// value lands before live trading starts.
	barCountBuffer = 1.2

	// Duration buffers compensate for market closures. Requests spanning
	// three days or more necessarily cross at least one weekend, so they
	// get the larger multiplier. These are heuristics that deliberately
	// over-request rather than consult a trading calendar.
	shortCoverageBuffer = 1.2
	longCoverageBuffer  = 1.4

	// weekendThresholdHours is the span above which the long buffer applies.
	weekendThresholdHours = 72.0

	// fallbackBarMinutes sizes unknown bar specs as 15-minute bars.
	fallbackBarMinutes = 15
)

// Requirement is the computed warmup need for one strategy/bar-spec pair.
// It is derived on every backfill invocation and never persisted.
type Requirement struct {
	RequiredBarCount      int
	RequiredDurationHours float64
}

// Calculator derives warmup requirements from indicator periods.
type Calculator struct {
	log *logger.Logger
}

// NewCalculator creates a warmup calculator. The logger may be nil.
func NewCalculator(log *logger.Logger) *Calculator {
	return &Calculator{log: log}
}

// RequiredBars returns the number of bars needed for the given slow
// indicator period, padded by 20% and never less than the period itself.
// slowPeriod must be positive; validation is the caller's job.
func (c *Calculator) RequiredBars(slowPeriod int) int {
	buffered := int(math.Ceil(float64(slowPeriod) * barCountBuffer))
	if buffered < slowPeriod {
		return slowPeriod
	}
	return buffered
}

// RequiredDurationHours converts the bar requirement into wall-clock hours,
// padded for market closures.
func (c *Calculator) RequiredDurationHours(slowPeriod int, spec types.BarSpec) float64 {
	n := c.RequiredBars(slowPeriod)

	minutesPerBar := spec.Minutes()
	if minutesPerBar <= 0 {
		if c.log != nil {
			c.log.Warning("Unknown bar spec %s - sizing warmup as %d-minute bars", spec, fallbackBarMinutes)
		}
		minutesPerBar = fallbackBarMinutes
	}

	theoreticalHours := float64(n) * float64(minutesPerBar) / 60.0

	multiplier := shortCoverageBuffer
	if theoreticalHours >= weekendThresholdHours {
		multiplier = longCoverageBuffer
	}

	return theoreticalHours * multiplier
}

// Requirement computes both the bar count and the duration in one call.
func (c *Calculator) Requirement(slowPeriod int, spec types.BarSpec) Requirement {
	return Requirement{
		RequiredBarCount:      c.RequiredBars(slowPeriod),
		RequiredDurationHours: c.RequiredDurationHours(slowPeriod, spec),
	}
}
