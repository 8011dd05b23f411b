package indicators

import (
	"errors"

	"github.com/ducminhle1904/forex-warmup-bot/pkg/types"
)

// SMA represents the Simple Moving Average technical indicator
type SMA struct {
	period    int
	lastValue float64
}

// NewSMA creates a new SMA indicator
func NewSMA(period int) *SMA {
	return &SMA{period: period}
}

// Calculate calculates the SMA over the closing prices of the most recent
// period bars
func (s *SMA) Calculate(data []types.Bar) (float64, error) {
	if len(data) < s.period {
		return 0, errors.New("insufficient data for SMA calculation")
	}

	sum := 0.0
	for i := len(data) - s.period; i < len(data); i++ {
		sum += data[i].Close.InexactFloat64()
	}

	s.lastValue = sum / float64(s.period)
	return s.lastValue, nil
}

// GetName returns the indicator name
func (s *SMA) GetName() string {
	return "SMA"
}

// GetRequiredPeriods returns the minimum number of bars needed
func (s *SMA) GetRequiredPeriods() int {
	return s.period
}
