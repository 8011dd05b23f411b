package backfill

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ducminhle1904/forex-warmup-bot/internal/exchange"
	"github.com/ducminhle1904/forex-warmup-bot/internal/strategy"
	"github.com/ducminhle1904/forex-warmup-bot/pkg/types"
)

// generatingClient produces a fixed number of 1-minute bars per chunk,
// walking back from each request's end time.
type generatingClient struct {
	barsPerChunk int
	resolveErr   error
	requests     int
}

func (g *generatingClient) GetName() string { return "generator" }

func (g *generatingClient) ResolveContract(ctx context.Context, id types.InstrumentID) (*exchange.Contract, error) {
	if g.resolveErr != nil {
		return nil, g.resolveErr
	}
	return &exchange.Contract{ConID: "12087792", Symbol: id.Symbol, Venue: id.Venue}, nil
}

func (g *generatingClient) GetHistoricalBars(ctx context.Context, req exchange.HistoricalBarsRequest) ([]types.Bar, error) {
	g.requests++
	bars := make([]types.Bar, 0, g.barsPerChunk)
	for i := g.barsPerChunk - 1; i >= 0; i-- {
		p := 1.08 + float64(i%50)*0.0001
		eventTime := req.EndTime.Add(-time.Duration(i) * time.Minute)
		bars = append(bars, types.NewBar(req.Spec, p, p+0.0002, p-0.0002, p, 7, eventTime))
	}
	return bars, nil
}

// sufficientBars is an ExistingBarSource that always reports a full cache.
type sufficientBars struct{ count int }

func (s sufficientBars) ExistingBarCount(ctx context.Context, id types.InstrumentID, spec types.BarSpec) (int, error) {
	return s.count, nil
}

func testConfig() Config {
	return Config{
		Instrument:  types.InstrumentID{Symbol: "EUR/USD", Venue: "IDEALPRO"},
		TargetSpec:  types.NewBarSpec(15, types.UnitMinute),
		SlowPeriod:  20,
		PacingDelay: 0,
	}
}

// TestRun_HappyPathFeedsStrategyInOrder tests the full pipeline: fetch,
// merge, aggregate and ordered replay into the strategy
func TestRun_HappyPathFeedsStrategyInOrder(t *testing.T) {
	// Requirement: 24 bars of 15m -> 7.2h coverage -> 12.24h base fetch,
	// one 7-day chunk. 800 raw 1-minute bars cover the window.
	client := &generatingClient{barsPerChunk: 800}
	strat := strategy.NewSMACross(5, 20)

	o := NewOrchestrator(testConfig(), client, strat, nil, nil)
	result, err := o.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, StateDone, result.State)
	assert.Equal(t, 1, result.ChunksPlanned)
	assert.Equal(t, 24, result.Requirement.RequiredBarCount)
	assert.Equal(t, result.AggregatedBars, result.FedBars)
	assert.GreaterOrEqual(t, result.FedBars, 24)
	assert.True(t, result.WarmupComplete)
	assert.True(t, strat.WarmupComplete())
}

// TestRun_OutOfRangeRawBarsAreFiltered tests that bars outside the
// requested window never reach the strategy
func TestRun_OutOfRangeRawBarsAreFiltered(t *testing.T) {
	// 800 one-minute bars walk back ~13.3h, past the ~12.24h window, so
	// the oldest bars land outside the chunk range.
	client := &generatingClient{barsPerChunk: 800}
	strat := strategy.NewSMACross(5, 20)

	o := NewOrchestrator(testConfig(), client, strat, nil, nil)
	result, err := o.Run(context.Background())

	require.NoError(t, err)
	assert.Greater(t, result.MergeStats.OutOfRange, 0)
	assert.Equal(t, result.RawBars, result.MergeStats.Kept+result.MergeStats.OutOfRange+result.MergeStats.Duplicates)
}

// TestRun_ZeroBarsIsFatal tests the total-unavailability failure mode
func TestRun_ZeroBarsIsFatal(t *testing.T) {
	client := &generatingClient{barsPerChunk: 0}
	strat := strategy.NewSMACross(5, 20)

	o := NewOrchestrator(testConfig(), client, strat, nil, nil)
	result, err := o.Run(context.Background())

	require.Error(t, err)
	assert.Equal(t, StateFailed, result.State)
	assert.Equal(t, 0, result.FedBars)
	assert.False(t, strat.WarmupComplete())
}

// TestRun_ResolveFailureIsFatal tests that instrument resolution failure
// aborts the backfill
func TestRun_ResolveFailureIsFatal(t *testing.T) {
	client := &generatingClient{resolveErr: exchange.ErrContractNotFound}
	strat := strategy.NewSMACross(5, 20)

	o := NewOrchestrator(testConfig(), client, strat, nil, nil)
	result, err := o.Run(context.Background())

	require.Error(t, err)
	assert.Equal(t, StateFailed, result.State)
	assert.Equal(t, 0, client.requests)
}

// TestRun_SufficientExistingBarsSkipsFetch tests the CHECK_EXISTING short
// circuit
func TestRun_SufficientExistingBarsSkipsFetch(t *testing.T) {
	client := &generatingClient{barsPerChunk: 800}
	strat := strategy.NewSMACross(5, 20)

	o := NewOrchestrator(testConfig(), client, strat, sufficientBars{count: 500}, nil)
	result, err := o.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, StateDone, result.State)
	assert.Equal(t, 0, result.FedBars)
	assert.Equal(t, 0, client.requests)
	assert.True(t, result.WarmupComplete)
}

// TestRun_ShortDataSucceedsWithWarning tests that fewer bars than
// required is non-fatal and reports the remaining wait
func TestRun_ShortDataSucceedsWithWarning(t *testing.T) {
	// 100 one-minute bars aggregate to only a handful of 15-minute bars,
	// far short of the 24 required.
	client := &generatingClient{barsPerChunk: 100}
	strat := strategy.NewSMACross(5, 20)

	o := NewOrchestrator(testConfig(), client, strat, nil, nil)
	result, err := o.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, StateDone, result.State)
	assert.False(t, result.WarmupComplete)
	assert.Greater(t, result.RemainingBars, 0)
	assert.Equal(t, time.Duration(result.RemainingBars)*15*time.Minute, result.EstimatedWait)
}
