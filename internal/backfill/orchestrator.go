package backfill

import (
	"context"
	"fmt"
	"time"

	"github.com/ducminhle1904/forex-warmup-bot/internal/aggregate"
	"github.com/ducminhle1904/forex-warmup-bot/internal/exchange"
	"github.com/ducminhle1904/forex-warmup-bot/internal/logger"
	"github.com/ducminhle1904/forex-warmup-bot/internal/monitoring"
	"github.com/ducminhle1904/forex-warmup-bot/internal/strategy"
	"github.com/ducminhle1904/forex-warmup-bot/internal/warmup"
	"github.com/ducminhle1904/forex-warmup-bot/pkg/types"
)

// State is a stage of the backfill state machine.
type State string

const (
	StateComputeRequirement State = "COMPUTE_REQUIREMENT"
	StateCheckExisting      State = "CHECK_EXISTING"
	StateFetchBase          State = "FETCH_BASE"
	StateAggregate          State = "AGGREGATE"
	StateValidate           State = "VALIDATE"
	StateFeed               State = "FEED"
	StateDone               State = "DONE"
	StateFailed             State = "FAILED"
)

// DefaultBaseOversample oversizes the base-granularity fetch to absorb
// weekend and holiday gaps in the raw data.
const DefaultBaseOversample = 1.7

// ExistingBarSource answers whether enough warmup bars already exist
// before anything is fetched. Implementations without a cache can use
// NoExistingBars.
type ExistingBarSource interface {
	ExistingBarCount(ctx context.Context, id types.InstrumentID, spec types.BarSpec) (int, error)
}

// NoExistingBars is the stub source for deployments without a bar cache:
// every backfill is treated as starting from nothing.
type NoExistingBars struct{}

// ExistingBarCount always reports zero bars.
func (NoExistingBars) ExistingBarCount(ctx context.Context, id types.InstrumentID, spec types.BarSpec) (int, error) {
	return 0, nil
}

// Config carries every knob of one backfill run. No process-wide state is
// consulted.
type Config struct {
	Instrument     types.InstrumentID
	TargetSpec     types.BarSpec
	SlowPeriod     int
	PacingDelay    time.Duration
	ChunkTimeout   time.Duration
	BaseOversample float64
}

// Result summarizes a completed (or failed) backfill run.
type Result struct {
	State          State
	Requirement    warmup.Requirement
	ChunksPlanned  int
	ChunkOutcomes  []ChunkOutcome
	RawBars        int
	MergeStats     MergeStats
	AggregatedBars int
	FedBars        int
	WarmupComplete bool
	RemainingBars  int
	EstimatedWait  time.Duration
}

// Orchestrator sequences the backfill pipeline: compute the warmup
// requirement, fetch 1-minute base data in chunks, merge, aggregate to
// the target granularity and replay into the strategy. Everything runs
// sequentially on the caller's goroutine; the caller must not start a
// second backfill for the same instrument/bar-spec pair while one is in
// flight.
type Orchestrator struct {
	cfg        Config
	calculator *warmup.Calculator
	planner    *ChunkPlanner
	fetcher    *Fetcher
	merger     *MergeFilter
	aggregator *aggregate.Aggregator
	existing   ExistingBarSource
	strat      strategy.Strategy
	log        *logger.Logger
}

// NewOrchestrator wires a backfill pipeline for one instrument/strategy
// pair. existing may be nil, in which case no cache is consulted.
func NewOrchestrator(cfg Config, client exchange.HistoricalDataClient, strat strategy.Strategy, existing ExistingBarSource, log *logger.Logger) *Orchestrator {
	if cfg.BaseOversample <= 0 {
		cfg.BaseOversample = DefaultBaseOversample
	}
	if existing == nil {
		existing = NoExistingBars{}
	}
	return &Orchestrator{
		cfg:        cfg,
		calculator: warmup.NewCalculator(log),
		planner:    NewChunkPlanner(log),
		fetcher:    NewFetcher(client, log, cfg.PacingDelay, cfg.ChunkTimeout),
		merger:     NewMergeFilter(log),
		aggregator: aggregate.NewAggregator(),
		existing:   existing,
		strat:      strat,
		log:        log,
	}
}

// Run executes the backfill. A nil error means the strategy received its
// warmup bars (possibly fewer than required, reported in the result); a
// non-nil error means the backfill failed and the caller must not proceed
// to live trading.
func (o *Orchestrator) Run(ctx context.Context) (*Result, error) {
	result := &Result{State: StateComputeRequirement}

	// COMPUTE_REQUIREMENT
	result.Requirement = o.calculator.Requirement(o.cfg.SlowPeriod, o.cfg.TargetSpec)
	monitoring.UpdateRequiredBars(o.cfg.Instrument.Symbol, result.Requirement.RequiredBarCount)
	o.stage("Warmup requires %d bars of %s (%.1f hours of coverage)",
		result.Requirement.RequiredBarCount, o.cfg.TargetSpec, result.Requirement.RequiredDurationHours)

	// CHECK_EXISTING
	result.State = StateCheckExisting
	if count, err := o.existing.ExistingBarCount(ctx, o.cfg.Instrument, o.cfg.TargetSpec); err != nil {
		o.warn("Existing-bar check failed, assuming insufficient: %v", err)
	} else if count >= result.Requirement.RequiredBarCount {
		o.stage("%d bars already available - skipping fetch", count)
		result.State = StateDone
		result.WarmupComplete = true
		return result, nil
	}

	// FETCH_BASE: always fetch the finest granularity and aggregate
	// locally. Coarser upstream responses truncate inconsistently when
	// dense, so this path is strictly more reliable.
	result.State = StateFetchBase
	baseSpec := types.BarSpec{
		Step:      1,
		Unit:      types.UnitMinute,
		PriceType: o.cfg.TargetSpec.PriceType,
		Source:    types.SourceExternal,
	}
	baseHours := result.Requirement.RequiredDurationHours * o.cfg.BaseOversample
	chunks := o.planner.Plan(baseHours, o.planner.MaxChunkDays(baseSpec))
	result.ChunksPlanned = len(chunks)
	o.stage("Fetching %.1f hours of 1-minute data in %d chunks", baseHours, len(chunks))

	raw, err := o.fetcher.Fetch(ctx, chunks, baseSpec, o.cfg.Instrument)
	result.ChunkOutcomes = o.fetcher.Outcomes()
	if err != nil {
		result.State = StateFailed
		monitoring.RecordBackfillFailure(string(StateFetchBase))
		return result, fmt.Errorf("base fetch failed: %w", err)
	}
	result.RawBars = len(raw)

	merged, stats := o.merger.Merge(raw, Ranges(chunks))
	result.MergeStats = stats

	if len(merged) == 0 {
		result.State = StateFailed
		monitoring.RecordBackfillFailure(string(StateFetchBase))
		return result, fmt.Errorf("no historical data available for %s", o.cfg.Instrument)
	}

	// AGGREGATE
	result.State = StateAggregate
	factor := o.cfg.TargetSpec.Minutes()
	if factor <= 0 {
		factor = 1
	}
	aggregated := o.aggregator.Aggregate(merged, factor)
	result.AggregatedBars = len(aggregated)
	o.stage("Aggregated %d 1-minute bars into %d %s bars", len(merged), len(aggregated), o.cfg.TargetSpec)

	// VALIDATE: a short count is a warning, not a failure - the strategy
	// keeps warming up from live bars.
	result.State = StateValidate
	if len(aggregated) < result.Requirement.RequiredBarCount {
		o.warn("Only %d of %d required bars available - strategy will not be immediately ready",
			len(aggregated), result.Requirement.RequiredBarCount)
	}

	// FEED
	result.State = StateFeed
	for _, bar := range aggregated {
		if ctx.Err() != nil {
			result.State = StateFailed
			monitoring.RecordBackfillFailure(string(StateFeed))
			return result, fmt.Errorf("feed interrupted: %w", ctx.Err())
		}
		o.strat.OnBar(bar)
		result.FedBars++
	}

	result.WarmupComplete = o.strat.WarmupComplete()
	if !result.WarmupComplete {
		result.RemainingBars = result.Requirement.RequiredBarCount - result.FedBars
		if result.RemainingBars < 0 {
			result.RemainingBars = 0
		}
		result.EstimatedWait = time.Duration(result.RemainingBars) * o.cfg.TargetSpec.Duration()
		o.warn("Strategy still warming up after replay: %d bars remaining (~%s of live data)",
			result.RemainingBars, result.EstimatedWait)
	}

	result.State = StateDone
	o.stage("Backfill complete: fed %d bars, warmup complete: %v", result.FedBars, result.WarmupComplete)
	return result, nil
}

func (o *Orchestrator) stage(format string, args ...interface{}) {
	if o.log != nil {
		o.log.Stage(format, args...)
	}
}

func (o *Orchestrator) warn(format string, args ...interface{}) {
	if o.log != nil {
		o.log.Warning(format, args...)
	}
}
