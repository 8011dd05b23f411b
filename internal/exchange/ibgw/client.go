// Package ibgw is a REST client for an Interactive Brokers gateway bridge,
// the upstream used for forex instruments. The bridge speaks the TWS
// historical-data vocabulary: duration strings, bar size settings and the
// useRTH flag.
package ibgw

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/ducminhle1904/forex-warmup-bot/internal/exchange"
	"github.com/ducminhle1904/forex-warmup-bot/pkg/types"
)

const defaultBaseURL = "http://localhost:5000/v1/api"

// endTimeFormat is the timestamp layout the gateway expects for
// endDateTime query parameters.
const endTimeFormat = "20060102-15:04:05"

// Client talks to the IB gateway bridge over HTTP. Contract lookups are
// cached for the lifetime of the client.
type Client struct {
	baseURL string
	client  *http.Client

	mu        sync.RWMutex
	contracts map[string]*exchange.Contract
}

// Config holds the configuration for the gateway client
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// NewClient creates a new gateway client
func NewClient(config Config) *Client {
	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	timeout := config.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		baseURL:   baseURL,
		client:    &http.Client{Timeout: timeout},
		contracts: make(map[string]*exchange.Contract),
	}
}

// GetName returns the provider name
func (c *Client) GetName() string {
	return "IBGateway"
}

// ResolveContract looks up the gateway contract for an instrument and
// caches the result. Instruments that resolve to nothing return
// ErrContractNotFound.
func (c *Client) ResolveContract(ctx context.Context, id types.InstrumentID) (*exchange.Contract, error) {
	key := id.String()

	c.mu.RLock()
	if contract, exists := c.contracts[key]; exists {
		c.mu.RUnlock()
		return contract, nil
	}
	c.mu.RUnlock()

	contract, err := c.fetchContract(ctx, id)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.contracts[key] = contract
	c.mu.Unlock()

	return contract, nil
}

func (c *Client) fetchContract(ctx context.Context, id types.InstrumentID) (*exchange.Contract, error) {
	u := fmt.Sprintf("%s/secdef/search?symbol=%s&exchange=%s",
		c.baseURL, url.QueryEscape(id.Symbol), url.QueryEscape(id.Venue))

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build contract request: %w", err)
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, exchange.WrapError("contract search", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, exchange.WrapError(fmt.Sprintf("contract search returned status %d", resp.StatusCode), exchange.ErrConnectionFailed)
	}

	var results []struct {
		ConID       int64  `json:"conid"`
		Symbol      string `json:"symbol"`
		SecType     string `json:"secType"`
		Currency    string `json:"currency"`
		Description string `json:"description"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, fmt.Errorf("failed to decode contract response: %w", err)
	}

	if len(results) == 0 {
		return nil, exchange.ErrContractNotFound
	}

	// The gateway returns candidates best-match first.
	best := results[0]
	return &exchange.Contract{
		ConID:        strconv.FormatInt(best.ConID, 10),
		Symbol:       id.Symbol,
		Venue:        id.Venue,
		SecurityType: best.SecType,
		Currency:     best.Currency,
	}, nil
}

// GetHistoricalBars issues one bounded historical-data request against the
// gateway's history endpoint.
func (c *Client) GetHistoricalBars(ctx context.Context, req exchange.HistoricalBarsRequest) ([]types.Bar, error) {
	if req.Contract == nil {
		return nil, fmt.Errorf("historical bars request requires a resolved contract")
	}

	if req.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}

	q := url.Values{}
	q.Set("conid", req.Contract.ConID)
	q.Set("endDateTime", req.EndTime.UTC().Format(endTimeFormat))
	q.Set("duration", req.Duration)
	q.Set("barSize", barSizeSetting(req.Spec))
	q.Set("whatToShow", whatToShow(req.Spec.PriceType))
	q.Set("useRTH", strconv.FormatBool(req.UseRTH))

	u := fmt.Sprintf("%s/hmds/history?%s", c.baseURL, q.Encode())

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build history request: %w", err)
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, exchange.WrapError("history request", exchange.ErrRequestTimeout)
		}
		return nil, exchange.WrapError("history request", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, exchange.WrapError("history request", exchange.ErrRateLimitExceeded)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("history request returned status %d", resp.StatusCode)
	}

	var payload struct {
		Bars []struct {
			Time   int64   `json:"t"` // bar close, epoch millis
			Open   float64 `json:"o"`
			High   float64 `json:"h"`
			Low    float64 `json:"l"`
			Close  float64 `json:"c"`
			Volume float64 `json:"v"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode history response: %w", err)
	}

	bars := make([]types.Bar, 0, len(payload.Bars))
	for _, row := range payload.Bars {
		bars = append(bars, types.NewBar(req.Spec,
			row.Open, row.High, row.Low, row.Close, row.Volume,
			time.UnixMilli(row.Time)))
	}
	return bars, nil
}

// barSizeSetting maps a bar spec to the gateway's bar size vocabulary
// ("1 min", "15 mins", "1 hour", "1 day").
func barSizeSetting(spec types.BarSpec) string {
	switch spec.Unit {
	case types.UnitMinute:
		if spec.Step == 1 {
			return "1 min"
		}
		return fmt.Sprintf("%d mins", spec.Step)
	case types.UnitHour:
		if spec.Step == 1 {
			return "1 hour"
		}
		return fmt.Sprintf("%d hours", spec.Step)
	case types.UnitDay:
		return "1 day"
	default:
		return "15 mins"
	}
}

// whatToShow maps a price type to the gateway's whatToShow parameter.
func whatToShow(pt types.PriceType) string {
	switch pt {
	case types.PriceBid:
		return "BID"
	case types.PriceAsk:
		return "ASK"
	case types.PriceLast:
		return "TRADES"
	default:
		return "MIDPOINT"
	}
}
