package backfill

import (
	"context"
	"fmt"
	"time"

	"github.com/ducminhle1904/forex-warmup-bot/internal/exchange"
	"github.com/ducminhle1904/forex-warmup-bot/internal/logger"
	"github.com/ducminhle1904/forex-warmup-bot/internal/monitoring"
	"github.com/ducminhle1904/forex-warmup-bot/pkg/types"
)

const (
	// DefaultPacingDelay is the wait between consecutive chunk requests.
	// Upstream pacing violations lead to silent throttling, so chunks are
	// never requested concurrently.
	DefaultPacingDelay = 2 * time.Second

	// DefaultChunkTimeout bounds each individual chunk request.
	DefaultChunkTimeout = 120 * time.Second
)

// ChunkOutcome records how one chunk request went, for reporting.
type ChunkOutcome struct {
	Sequence      int
	DurationHours float64
	EndTime       time.Time
	Bars          int
	Elapsed       time.Duration
	Err           error
}

// Fetcher issues one upstream request per chunk, sequentially and with
// pacing. Individual chunk failures are absorbed; a failed contract
// resolution aborts the whole fetch.
type Fetcher struct {
	client       exchange.HistoricalDataClient
	log          *logger.Logger
	pacingDelay  time.Duration
	chunkTimeout time.Duration
	outcomes     []ChunkOutcome
}

// NewFetcher creates a fetcher over the given provider client. A negative
// pacing delay or zero timeout falls back to the defaults; a zero pacing
// delay disables pacing (useful in tests).
func NewFetcher(client exchange.HistoricalDataClient, log *logger.Logger, pacingDelay, chunkTimeout time.Duration) *Fetcher {
	if pacingDelay < 0 {
		pacingDelay = DefaultPacingDelay
	}
	if chunkTimeout <= 0 {
		chunkTimeout = DefaultChunkTimeout
	}
	return &Fetcher{
		client:       client,
		log:          log,
		pacingDelay:  pacingDelay,
		chunkTimeout: chunkTimeout,
	}
}

// Fetch resolves the instrument once, then requests every chunk in order
// (oldest first), accumulating whatever bars come back. A chunk that
// errors or times out contributes zero bars and the fetch continues; the
// returned error is non-nil only for fatal conditions (contract
// resolution failure or context cancellation).
func (f *Fetcher) Fetch(ctx context.Context, chunks []Chunk, spec types.BarSpec, id types.InstrumentID) ([]types.Bar, error) {
	f.outcomes = f.outcomes[:0]

	contract, err := f.client.ResolveContract(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve contract for %s: %w", id, err)
	}

	if f.log != nil {
		f.log.Info("Resolved %s to contract %s on %s - fetching %d chunks",
			id, contract.ConID, f.client.GetName(), len(chunks))
	}

	useRTH := !id.RoundTheClock()

	var bars []types.Bar
	for i, chunk := range chunks {
		req := exchange.HistoricalBarsRequest{
			Contract: contract,
			Spec:     spec,
			UseRTH:   useRTH,
			EndTime:  chunk.EndTime,
			Duration: exchange.FormatDuration(chunk.DurationHours),
			Timeout:  f.chunkTimeout,
		}

		started := time.Now()
		chunkBars, err := f.client.GetHistoricalBars(ctx, req)
		f.outcomes = append(f.outcomes, ChunkOutcome{
			Sequence:      i,
			DurationHours: chunk.DurationHours,
			EndTime:       chunk.EndTime,
			Bars:          len(chunkBars),
			Elapsed:       time.Since(started),
			Err:           err,
		})
		if f.log != nil {
			f.log.LogChunkResult(i, chunk.DurationHours, chunk.EndTime, len(chunkBars), err)
		}
		monitoring.RecordChunk(id.Symbol, err == nil, len(chunkBars))
		if err == nil {
			bars = append(bars, chunkBars...)
		}

		// Pace between requests, but not after the last one.
		if i < len(chunks)-1 && f.pacingDelay > 0 {
			select {
			case <-ctx.Done():
				return bars, ctx.Err()
			case <-time.After(f.pacingDelay):
			}
		}

		if ctx.Err() != nil {
			return bars, ctx.Err()
		}
	}

	return bars, nil
}

// Outcomes returns the per-chunk results of the most recent Fetch call.
func (f *Fetcher) Outcomes() []ChunkOutcome {
	return f.outcomes
}
