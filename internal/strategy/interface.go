// Package strategy defines the bar-ingestion contract the backfill feeds
// into, plus a moving-average cross strategy used by the warmup binary.
package strategy

import (
	"github.com/ducminhle1904/forex-warmup-bot/pkg/types"
)

// Strategy is the downstream consumer of warmup bars. OnBar is
// synchronous and returns nothing; the orchestrator replays historical
// bars through it in ascending timestamp order, then checks
// WarmupComplete before live trading is allowed to start.
type Strategy interface {
	// OnBar ingests one bar.
	OnBar(bar types.Bar)

	// WarmupComplete reports whether the slowest indicator has enough
	// data to produce valid values.
	WarmupComplete() bool

	// SlowestPeriod returns the largest indicator period, which sizes
	// the warmup requirement.
	SlowestPeriod() int

	// GetName returns the name of the strategy
	GetName() string
}
