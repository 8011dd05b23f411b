// Package adapters binds concrete provider clients to the generic
// HistoricalDataClient interface and selects one by venue.
package adapters

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ducminhle1904/forex-warmup-bot/internal/exchange"
	"github.com/ducminhle1904/forex-warmup-bot/internal/exchange/bybit"
	"github.com/ducminhle1904/forex-warmup-bot/pkg/types"
)

// maxKlinesPerRequest is Bybit's hard page limit.
const maxKlinesPerRequest = 1000

// BybitAdapter implements the HistoricalDataClient interface for Bybit.
// Bybit addresses instruments by bare symbol, so the contract reference is
// the symbol itself; resolution just confirms the symbol exists.
type BybitAdapter struct {
	client   *bybit.Client
	category string
}

// NewBybitAdapter creates a Bybit-backed historical data client.
func NewBybitAdapter(config bybit.Config, category string) *BybitAdapter {
	if category == "" {
		category = "spot"
	}
	return &BybitAdapter{
		client:   bybit.NewClient(config),
		category: category,
	}
}

// GetName returns the provider name
func (b *BybitAdapter) GetName() string {
	return "Bybit"
}

// ResolveContract confirms the symbol exists on Bybit and returns it as
// the contract reference.
func (b *BybitAdapter) ResolveContract(ctx context.Context, id types.InstrumentID) (*exchange.Contract, error) {
	info, err := b.client.GetInstrumentInfo(ctx, b.category, id.Symbol)
	if err != nil {
		if bybit.IsSymbolNotFoundError(err) {
			return nil, exchange.ErrContractNotFound
		}
		return nil, exchange.WrapError("instrument lookup", err)
	}

	return &exchange.Contract{
		ConID:        info.Symbol,
		Symbol:       id.Symbol,
		Venue:        id.Venue,
		SecurityType: "CRYPTO",
		Currency:     info.QuoteCoin,
	}, nil
}

// GetHistoricalBars fetches the requested window, paging backwards through
// Bybit's 1000-kline response limit until the window is covered.
func (b *BybitAdapter) GetHistoricalBars(ctx context.Context, req exchange.HistoricalBarsRequest) ([]types.Bar, error) {
	if req.Contract == nil {
		return nil, fmt.Errorf("historical bars request requires a resolved contract")
	}

	interval, err := intervalFromSpec(req.Spec)
	if err != nil {
		return nil, err
	}

	span, err := parseDurationString(req.Duration)
	if err != nil {
		return nil, err
	}

	if req.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}

	windowStart := req.EndTime.Add(-span)
	pageEnd := req.EndTime

	var bars []types.Bar
	for pageEnd.After(windowStart) {
		start := windowStart
		klines, err := b.client.GetKlines(ctx, bybit.KlineParams{
			Category: b.category,
			Symbol:   req.Contract.ConID,
			Interval: interval,
			Start:    &start,
			End:      &pageEnd,
			Limit:    maxKlinesPerRequest,
		})
		if err != nil {
			return nil, exchange.WrapError("kline request", err)
		}
		if len(klines) == 0 {
			break
		}

		earliest := pageEnd
		for _, k := range klines {
			bars = append(bars, types.NewBar(req.Spec,
				k.OpenPrice, k.HighPrice, k.LowPrice, k.ClosePrice, k.Volume,
				k.StartTime.Add(req.Spec.Duration())))
			if k.StartTime.Before(earliest) {
				earliest = k.StartTime
			}
		}

		if !earliest.Before(pageEnd) {
			break
		}
		pageEnd = earliest.Add(-time.Millisecond)
	}

	return bars, nil
}

// intervalFromSpec maps a bar spec to Bybit's interval vocabulary.
func intervalFromSpec(spec types.BarSpec) (bybit.KlineInterval, error) {
	switch spec.Unit {
	case types.UnitMinute:
		switch spec.Step {
		case 1, 3, 5, 15, 30:
			return bybit.KlineInterval(strconv.Itoa(spec.Step)), nil
		}
	case types.UnitHour:
		if spec.Step == 1 {
			return bybit.Interval1h, nil
		}
	case types.UnitDay:
		if spec.Step == 1 {
			return bybit.Interval1d, nil
		}
	}
	return "", fmt.Errorf("bar spec %s has no Bybit interval", spec)
}

// parseDurationString reads the upstream duration-string protocol back
// into a time span ("5 D" or "3600 S").
func parseDurationString(s string) (time.Duration, error) {
	fields := strings.Fields(strings.TrimSpace(s))
	if len(fields) != 2 {
		return 0, fmt.Errorf("invalid duration string %q", s)
	}
	n, err := strconv.Atoi(fields[0])
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid duration string %q", s)
	}
	switch fields[1] {
	case "D":
		return time.Duration(n) * 24 * time.Hour, nil
	case "S":
		return time.Duration(n) * time.Second, nil
	default:
		return 0, fmt.Errorf("invalid duration unit in %q", s)
	}
}
