// Package backfill implements the historical bar backfill pipeline: chunk
// planning, sequential fetching, merge/dedup filtering and the
// orchestrator that feeds warmup bars into a strategy.
package backfill

import (
	"math"
	"time"

	"github.com/ducminhle1904/forex-warmup-bot/internal/logger"
	"github.com/ducminhle1904/forex-warmup-bot/pkg/types"
)

// recentHourHoldback keeps the most recent, possibly incomplete hour out
// of every request window.
const recentHourHoldback = time.Hour

// fallbackChunkDays is the most conservative chunk size, used for
// granularities missing from the lookup table.
const fallbackChunkDays = 2.0

// Chunk describes one bounded request window. Chunks are produced as an
// ordered sequence, oldest first, and never mutated after creation.
type Chunk struct {
	DurationHours float64
	EndTime       time.Time
}

// Start returns the opening instant of the chunk window.
func (c Chunk) Start() time.Time {
	return c.EndTime.Add(-time.Duration(c.DurationHours * float64(time.Hour)))
}

// ChunkRange is the inclusive time window of a chunk, used by the merge
// filter to validate returned bars.
type ChunkRange struct {
	StartTime      time.Time
	EndTime        time.Time
	SequenceNumber int
}

// Contains reports whether t falls within the range, inclusive on both
// ends.
func (r ChunkRange) Contains(t time.Time) bool {
	return !t.Before(r.StartTime) && !t.After(r.EndTime)
}

// ChunkPlanner splits a total request span into provider-sized windows.
type ChunkPlanner struct {
	log *logger.Logger
	now func() time.Time
}

// NewChunkPlanner creates a chunk planner. The logger may be nil.
func NewChunkPlanner(log *logger.Logger) *ChunkPlanner {
	return &ChunkPlanner{log: log, now: time.Now}
}

// MaxChunkDays returns the largest request window the upstream reliably
// serves for a granularity, in days. Daily bars have no limit (+Inf).
//
// These are tighter than the provider's documented pagination caps: very
// dense responses are observed to silently truncate, so 15-minute requests
// stay at 2 days against a documented 60-day cap.
func (p *ChunkPlanner) MaxChunkDays(spec types.BarSpec) float64 {
	switch spec.Unit {
	case types.UnitMinute:
		switch spec.Step {
		case 1:
			return 7
		case 2, 5:
			return 30
		case 15:
			return 2
		case 30:
			return 120
		}
	case types.UnitHour:
		return 365
	case types.UnitDay:
		return math.Inf(1)
	}

	if p.log != nil {
		p.log.Warning("No chunk size entry for bar spec %s - using conservative %.0f days", spec, fallbackChunkDays)
	}
	return fallbackChunkDays
}

// Plan splits totalHours into contiguous, non-overlapping chunks of at
// most chunkSizeDays each, returned oldest first. The newest chunk ends
// one hour before now; chunk i's start equals chunk i+1's end, and the
// windows union to exactly [now-1h-totalHours, now-1h].
func (p *ChunkPlanner) Plan(totalHours, chunkSizeDays float64) []Chunk {
	currentEnd := p.now().UTC().Add(-recentHourHoldback)

	if math.IsInf(chunkSizeDays, 1) {
		return []Chunk{{DurationHours: totalHours, EndTime: currentEnd}}
	}

	chunkHours := chunkSizeDays * 24
	remaining := totalHours

	var newestFirst []Chunk
	for remaining > 0 {
		d := math.Min(remaining, chunkHours)
		newestFirst = append(newestFirst, Chunk{DurationHours: d, EndTime: currentEnd})
		currentEnd = currentEnd.Add(-time.Duration(d * float64(time.Hour)))
		remaining -= d
	}

	// Reverse so the oldest chunk comes first.
	chunks := make([]Chunk, len(newestFirst))
	for i, c := range newestFirst {
		chunks[len(newestFirst)-1-i] = c
	}
	return chunks
}

// Ranges derives the inclusive time windows of an ordered chunk sequence.
func Ranges(chunks []Chunk) []ChunkRange {
	ranges := make([]ChunkRange, len(chunks))
	for i, c := range chunks {
		ranges[i] = ChunkRange{
			StartTime:      c.Start(),
			EndTime:        c.EndTime,
			SequenceNumber: i,
		}
	}
	return ranges
}
