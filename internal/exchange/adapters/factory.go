package adapters

import (
	"fmt"
	"strings"
	"time"

	"github.com/ducminhle1904/forex-warmup-bot/internal/exchange"
	"github.com/ducminhle1904/forex-warmup-bot/internal/exchange/bybit"
	"github.com/ducminhle1904/forex-warmup-bot/internal/exchange/ibgw"
)

// ClientConfig selects and configures a historical data provider.
type ClientConfig struct {
	Venue string

	// IB gateway bridge (forex venues)
	GatewayURL     string
	GatewayTimeout time.Duration

	// Bybit (crypto venues)
	BybitAPIKey    string
	BybitAPISecret string
	BybitCategory  string
	BybitTestnet   bool
}

// NewHistoricalDataClient builds the provider client for a venue. Forex
// venues route to the IB gateway bridge; crypto venues route to Bybit.
func NewHistoricalDataClient(cfg ClientConfig) (exchange.HistoricalDataClient, error) {
	switch strings.ToUpper(cfg.Venue) {
	case "IDEALPRO", "IBGW", "":
		return ibgw.NewClient(ibgw.Config{
			BaseURL: cfg.GatewayURL,
			Timeout: cfg.GatewayTimeout,
		}), nil
	case "BYBIT":
		return NewBybitAdapter(bybit.Config{
			APIKey:    cfg.BybitAPIKey,
			APISecret: cfg.BybitAPISecret,
			Testnet:   cfg.BybitTestnet,
		}, cfg.BybitCategory), nil
	default:
		return nil, fmt.Errorf("unsupported venue: %s", cfg.Venue)
	}
}
