// Package exchange defines the upstream market-data contract consumed by
// the backfill pipeline, plus the error taxonomy shared by all providers.
package exchange

import (
	"context"
	"time"

	"github.com/ducminhle1904/forex-warmup-bot/pkg/types"
)

// Contract is a resolved upstream instrument reference. Resolution happens
// once per backfill and the result is cached by the client.
type Contract struct {
	ConID        string
	Symbol       string
	Venue        string
	SecurityType string
	Currency     string
}

// HistoricalBarsRequest describes one bounded historical-data request. The
// Duration string must follow the upstream protocol: "<N> D" for spans of
// 24 hours or more, otherwise "<N> S" with a 30-second floor (the provider
// accepts no hours unit). Use FormatDuration to build it.
type HistoricalBarsRequest struct {
	Contract *Contract
	Spec     types.BarSpec
	UseRTH   bool
	EndTime  time.Time
	Duration string
	Timeout  time.Duration
}

// HistoricalDataClient is the upstream market-data API consumed by the
// fetcher. Returned bars carry no ordering or completeness guarantee; the
// merge filter must be applied before use.
type HistoricalDataClient interface {
	// GetName returns the provider name for logs and diagnostics.
	GetName() string

	// ResolveContract looks up the upstream contract for an instrument.
	// Failure here is fatal for the whole backfill.
	ResolveContract(ctx context.Context, id types.InstrumentID) (*Contract, error)

	// GetHistoricalBars issues one bounded historical-data request.
	GetHistoricalBars(ctx context.Context, req HistoricalBarsRequest) ([]types.Bar, error)
}
