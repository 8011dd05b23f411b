package strategy

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ducminhle1904/forex-warmup-bot/pkg/types"
)

func feedBars(s *SMACross, n int, price func(i int) float64) {
	spec := types.NewBarSpec(15, types.UnitMinute)
	start := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		p := price(i)
		s.OnBar(types.NewBar(spec, p, p, p, p, 1, start.Add(time.Duration(i)*15*time.Minute)))
	}
}

// TestSMACross_WarmupCompletesAtSlowPeriod tests the warmup flag flips
// exactly when the slow window fills
func TestSMACross_WarmupCompletesAtSlowPeriod(t *testing.T) {
	s := NewSMACross(5, 20)
	assert.False(t, s.WarmupComplete())
	assert.Equal(t, 20, s.SlowestPeriod())

	feedBars(s, 19, func(i int) float64 { return 1.10 })
	assert.False(t, s.WarmupComplete())

	feedBars(s, 1, func(i int) float64 { return 1.10 })
	assert.True(t, s.WarmupComplete())
}

// TestSMACross_WindowStaysBounded tests the rolling window trim
func TestSMACross_WindowStaysBounded(t *testing.T) {
	s := NewSMACross(5, 20)
	feedBars(s, 100, func(i int) float64 { return 1.10 })
	assert.Equal(t, 20, s.BarsSeen())
}

// TestSMACross_SignalBeforeWarmupIsHold tests that an unwarmed strategy
// never signals
func TestSMACross_SignalBeforeWarmupIsHold(t *testing.T) {
	s := NewSMACross(5, 20)
	feedBars(s, 10, func(i int) float64 { return 1.10 })
	assert.Equal(t, SignalHold, s.CurrentSignal())
}

// TestSMACross_RisingMarketSignalsLong tests the cross direction on a
// steady uptrend
func TestSMACross_RisingMarketSignalsLong(t *testing.T) {
	s := NewSMACross(5, 20)
	feedBars(s, 40, func(i int) float64 { return 1.10 + float64(i)*0.001 })
	assert.Equal(t, SignalLong, s.CurrentSignal())
}

// TestSMACross_FallingMarketSignalsShort tests the cross direction on a
// steady downtrend
func TestSMACross_FallingMarketSignalsShort(t *testing.T) {
	s := NewSMACross(5, 20)
	feedBars(s, 40, func(i int) float64 { return 1.20 - float64(i)*0.001 })
	assert.Equal(t, SignalShort, s.CurrentSignal())
}
