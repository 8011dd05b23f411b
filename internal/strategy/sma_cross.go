package strategy

import (
	"github.com/ducminhle1904/forex-warmup-bot/internal/indicators"
	"github.com/ducminhle1904/forex-warmup-bot/pkg/types"
)

// Signal is the stance the strategy takes after each bar.
type Signal int

const (
	SignalHold Signal = iota
	SignalLong
	SignalShort
)

// SMACross is a fast/slow moving-average cross strategy. It keeps a
// rolling bar window sized to its slowest indicator, so warmup is
// complete exactly when the window is full.
type SMACross struct {
	fast *indicators.SMA
	slow *indicators.SMA
	bars []types.Bar
}

// NewSMACross creates an SMA cross strategy. slowPeriod must exceed
// fastPeriod; the slow period drives the warmup requirement.
func NewSMACross(fastPeriod, slowPeriod int) *SMACross {
	return &SMACross{
		fast: indicators.NewSMA(fastPeriod),
		slow: indicators.NewSMA(slowPeriod),
		bars: make([]types.Bar, 0, slowPeriod),
	}
}

// OnBar ingests one bar, trimming the window to the slow period.
func (s *SMACross) OnBar(bar types.Bar) {
	s.bars = append(s.bars, bar)
	if max := s.slow.GetRequiredPeriods(); len(s.bars) > max {
		s.bars = s.bars[len(s.bars)-max:]
	}
}

// WarmupComplete reports whether the slow SMA has enough bars.
func (s *SMACross) WarmupComplete() bool {
	return len(s.bars) >= s.slow.GetRequiredPeriods()
}

// SlowestPeriod returns the slow SMA period.
func (s *SMACross) SlowestPeriod() int {
	return s.slow.GetRequiredPeriods()
}

// GetName returns the name of the strategy
func (s *SMACross) GetName() string {
	return "SMACross"
}

// BarsSeen returns how many bars are currently in the window.
func (s *SMACross) BarsSeen() int {
	return len(s.bars)
}

// CurrentSignal evaluates the cross on the current window. It returns
// SignalHold until warmup is complete.
func (s *SMACross) CurrentSignal() Signal {
	fast, err := s.fast.Calculate(s.bars)
	if err != nil {
		return SignalHold
	}
	slow, err := s.slow.Calculate(s.bars)
	if err != nil {
		return SignalHold
	}

	switch {
	case fast > slow:
		return SignalLong
	case fast < slow:
		return SignalShort
	default:
		return SignalHold
	}
}
