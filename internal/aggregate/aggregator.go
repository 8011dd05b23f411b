// Package aggregate rolls fine-grained bars up into coarser,
// calendar-aligned bars with valid OHLCV semantics.
package aggregate

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ducminhle1904/forex-warmup-bot/pkg/types"
)

// Aggregator converts bars of a base granularity into bars of factor×
// that granularity using calendar-aligned buckets (:00-:14, :15-:29 for a
// 15-minute factor), never sliding windows anchored to the first bar.
type Aggregator struct{}

// NewAggregator creates an aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{}
}

// Aggregate groups fine bars into factor-sized calendar buckets and emits
// one bar per non-empty bucket, sorted ascending by bucket start. Empty
// buckets produce no output; gaps are preserved, not interpolated. A
// factor of 1 returns the input unchanged.
func (a *Aggregator) Aggregate(fine []types.Bar, factor int) []types.Bar {
	if factor <= 1 || len(fine) == 0 {
		return fine
	}

	// Defensive sort; input is expected already ordered.
	bars := make([]types.Bar, len(fine))
	copy(bars, fine)
	sort.Slice(bars, func(i, j int) bool {
		return bars[i].EventTime.Before(bars[j].EventTime)
	})

	buckets := make(map[int64][]types.Bar)
	order := make([]int64, 0)
	for _, bar := range bars {
		key := bucketStart(bar.EventTime, factor).UnixNano()
		if _, exists := buckets[key]; !exists {
			order = append(order, key)
		}
		buckets[key] = append(buckets[key], bar)
	}

	sort.Slice(order, func(i, j int) bool { return order[i] < order[j] })

	out := make([]types.Bar, 0, len(order))
	for _, key := range order {
		out = append(out, combine(buckets[key], factor))
	}
	return out
}

// bucketStart floors a timestamp's minute-of-hour to the nearest factor
// multiple, giving calendar-aligned bucket boundaries.
func bucketStart(t time.Time, factor int) time.Time {
	t = t.UTC()
	minute := (t.Minute() / factor) * factor
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), minute, 0, 0, time.UTC)
}

// combine folds one bucket's bars (already ordered by time) into a single
// aggregated bar.
func combine(group []types.Bar, factor int) types.Bar {
	first := group[0]
	last := group[len(group)-1]

	high := first.High
	low := first.Low
	volume := decimal.Zero
	for _, b := range group {
		high = decimal.Max(high, b.High)
		low = decimal.Min(low, b.Low)
		volume = volume.Add(b.Volume)
	}

	// Clamp against inconsistent upstream data so the OHLC invariant
	// holds on every output bar.
	maxOC := decimal.Max(first.Open, last.Close)
	if high.LessThan(maxOC) {
		high = maxOC
	}
	minOC := decimal.Min(first.Open, last.Close)
	if low.GreaterThan(minOC) {
		low = minOC
	}

	spec := first.Spec
	spec.Step *= factor
	spec.Source = types.SourceInternal

	return types.Bar{
		Open:      first.Open,
		High:      high,
		Low:       low,
		Close:     last.Close,
		Volume:    volume,
		EventTime: last.EventTime,
		InitTime:  last.InitTime,
		Spec:      spec,
	}
}
