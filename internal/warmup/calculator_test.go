package warmup

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ducminhle1904/forex-warmup-bot/pkg/types"
)

// TestRequiredBars_BufferNeverBelowPeriod tests that the 20% buffer never
// returns fewer bars than the slow period itself
func TestRequiredBars_BufferNeverBelowPeriod(t *testing.T) {
	calc := NewCalculator(nil)

	for _, period := range []int{1, 2, 5, 10, 50, 270, 1000} {
		got := calc.RequiredBars(period)
		assert.GreaterOrEqual(t, got, period, "period %d", period)
	}
}

// TestRequiredBars_TwentyPercentBuffer tests the exact buffer arithmetic
func TestRequiredBars_TwentyPercentBuffer(t *testing.T) {
	calc := NewCalculator(nil)

	assert.Equal(t, 324, calc.RequiredBars(270))
	assert.Equal(t, 120, calc.RequiredBars(100))
	assert.Equal(t, 12, calc.RequiredBars(10))
	// Ceil, not round: 1.2*7 = 8.4 -> 9
	assert.Equal(t, 9, calc.RequiredBars(7))
}

// TestRequiredDurationHours_SlowSMAScenario tests the 270-period
// 15-minute reference scenario: 324 bars, 81 theoretical hours, long
// coverage buffer -> 113.4 hours
func TestRequiredDurationHours_SlowSMAScenario(t *testing.T) {
	calc := NewCalculator(nil)
	spec := types.NewBarSpec(15, types.UnitMinute)

	hours := calc.RequiredDurationHours(270, spec)
	assert.InDelta(t, 113.4, hours, 1e-9)
}

// TestRequiredDurationHours_ShortSpanUsesSmallBuffer tests that spans under
// three days get the 1.2x buffer
func TestRequiredDurationHours_ShortSpanUsesSmallBuffer(t *testing.T) {
	calc := NewCalculator(nil)
	spec := types.NewBarSpec(5, types.UnitMinute)

	// 20 -> 24 bars * 5m = 2h theoretical, well under 72h
	hours := calc.RequiredDurationHours(20, spec)
	assert.InDelta(t, 2.0*1.2, hours, 1e-9)
}

// TestRequiredDurationHours_HourAndDayUnits tests minutes-per-bar derivation
// for coarser units
func TestRequiredDurationHours_HourAndDayUnits(t *testing.T) {
	calc := NewCalculator(nil)

	// 10 -> 12 bars * 60m = 12h theoretical -> 1.2x
	hourly := calc.RequiredDurationHours(10, types.NewBarSpec(1, types.UnitHour))
	assert.InDelta(t, 12.0*1.2, hourly, 1e-9)

	// 10 -> 12 bars * 1440m = 288h theoretical -> 1.4x
	daily := calc.RequiredDurationHours(10, types.NewBarSpec(1, types.UnitDay))
	assert.InDelta(t, 288.0*1.4, daily, 1e-9)
}

// TestRequiredDurationHours_UnknownSpecFallsBackTo15Minutes tests the
// non-fatal fallback sizing for unparseable specs
func TestRequiredDurationHours_UnknownSpecFallsBackTo15Minutes(t *testing.T) {
	calc := NewCalculator(nil)
	unknown := types.BarSpec{Step: 3, Unit: "TICK", PriceType: types.PriceMid, Source: types.SourceExternal}

	got := calc.RequiredDurationHours(270, unknown)
	want := calc.RequiredDurationHours(270, types.NewBarSpec(15, types.UnitMinute))
	assert.InDelta(t, want, got, 1e-9)
}

// TestRequirement_CombinesCountAndDuration tests the combined helper
func TestRequirement_CombinesCountAndDuration(t *testing.T) {
	calc := NewCalculator(nil)
	spec := types.NewBarSpec(15, types.UnitMinute)

	req := calc.Requirement(270, spec)
	assert.Equal(t, 324, req.RequiredBarCount)
	assert.InDelta(t, 113.4, req.RequiredDurationHours, 1e-9)
}
