package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/ducminhle1904/forex-warmup-bot/internal/backfill"
	"github.com/ducminhle1904/forex-warmup-bot/internal/config"
	"github.com/ducminhle1904/forex-warmup-bot/internal/exchange/adapters"
	"github.com/ducminhle1904/forex-warmup-bot/internal/logger"
	"github.com/ducminhle1904/forex-warmup-bot/internal/monitoring"
	"github.com/ducminhle1904/forex-warmup-bot/internal/strategy"
	"github.com/ducminhle1904/forex-warmup-bot/pkg/reporting"
	"github.com/ducminhle1904/forex-warmup-bot/pkg/types"
)

func main() {
	var (
		symbol     = flag.String("symbol", "", "Instrument symbol (e.g. EUR/USD) - overrides env")
		venue      = flag.String("venue", "", "Venue (IDEALPRO, BYBIT) - overrides env")
		interval   = flag.String("interval", "", "Target bar interval (e.g. 15-MINUTE) - overrides env")
		slowPeriod = flag.Int("slow-period", 0, "Slowest indicator period - overrides env")
		envFile    = flag.String("env", ".env", "Environment file path (default: .env)")
		xlsx       = flag.Bool("xlsx", false, "Write an xlsx backfill report")
		output     = flag.String("output", "", "Report output directory (default: results/<symbol>_<interval>)")
		serve      = flag.Bool("serve", false, "Keep metrics and health endpoints running after the backfill")
	)
	flag.Parse()

	// Load environment variables from .env file
	if err := loadEnvFile(*envFile); err != nil {
		log.Printf("Warning: Could not load .env file (%v), checking environment variables...", err)
	}

	cfg := config.Load()
	if *symbol != "" {
		cfg.Instrument.Symbol = *symbol
	}
	if *venue != "" {
		cfg.Instrument.Venue = *venue
	}
	if *interval != "" {
		cfg.Warmup.TargetInterval = *interval
	}
	if *slowPeriod > 0 {
		cfg.Warmup.SlowPeriod = *slowPeriod
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	fmt.Println("🚀 Warmup Backfill Starting...")

	client, err := adapters.NewHistoricalDataClient(adapters.ClientConfig{
		Venue:          cfg.Instrument.Venue,
		GatewayURL:     cfg.Provider.GatewayURL,
		GatewayTimeout: cfg.Warmup.ChunkTimeout,
		BybitAPIKey:    cfg.Provider.BybitAPIKey,
		BybitAPISecret: cfg.Provider.BybitAPISecret,
		BybitCategory:  cfg.Provider.BybitCategory,
		BybitTestnet:   cfg.Provider.BybitTestnet,
	})
	if err != nil {
		log.Fatalf("Failed to create data provider: %v", err)
	}

	runLog, err := logger.NewLogger(cfg.Instrument.Symbol, cfg.Warmup.TargetInterval)
	if err != nil {
		log.Printf("Warning: file logging unavailable (%v), continuing on console", err)
		runLog = logger.NewConsoleLogger(os.Stdout, cfg.Instrument.Symbol, cfg.Warmup.TargetInterval)
	}
	defer runLog.Close()

	console := reporting.NewDefaultConsoleReporter()
	console.PrintRunConfig(cfg.Instrument.Symbol, cfg.Instrument.Venue,
		cfg.Warmup.TargetInterval, client.GetName(), cfg.Warmup.SlowPeriod)

	health := monitoring.NewHealthChecker()
	startMonitoring(cfg, health)

	strat := strategy.NewSMACross(cfg.Warmup.FastPeriod, cfg.Warmup.SlowPeriod)
	orchestrator := backfill.NewOrchestrator(backfill.Config{
		Instrument:     types.InstrumentID{Symbol: cfg.Instrument.Symbol, Venue: cfg.Instrument.Venue},
		TargetSpec:     cfg.TargetSpec(),
		SlowPeriod:     cfg.Warmup.SlowPeriod,
		PacingDelay:    cfg.Warmup.PacingDelay,
		ChunkTimeout:   cfg.Warmup.ChunkTimeout,
		BaseOversample: cfg.Warmup.BaseOversample,
	}, client, strat, nil, runLog)

	ctx, cancel := signalContext()
	defer cancel()

	result, runErr := orchestrator.Run(ctx)
	health.RecordBackfill(string(result.State))
	if runErr != nil {
		health.AddError(runErr.Error())
	}

	console.PrintChunkTable(result.ChunkOutcomes)
	console.PrintBackfillSummary(result, cfg.Warmup.TargetInterval)

	if *xlsx {
		dir := *output
		if dir == "" {
			dir = reporting.DefaultOutputDir(cfg.Instrument.Symbol, cfg.Warmup.TargetInterval)
		}
		path := filepath.Join(dir, fmt.Sprintf("backfill_%s.xlsx", time.Now().UTC().Format("20060102_150405")))
		excel := reporting.NewDefaultExcelReporter()
		if err := excel.WriteBackfillXLSX(result, cfg.Instrument.Symbol, cfg.Warmup.TargetInterval, path); err != nil {
			log.Printf("Warning: could not write xlsx report: %v", err)
		} else {
			fmt.Printf("📄 Report written to %s\n", path)
		}
	}

	if runErr != nil {
		log.Fatalf("Backfill failed: %v", runErr)
	}

	if *serve {
		fmt.Println("📡 Monitoring endpoints up. Press Ctrl+C to stop...")
		<-ctx.Done()
	}

	fmt.Println("✅ Backfill finished")
}

// loadEnvFile loads environment variables from a file
func loadEnvFile(envFile string) error {
	if _, err := os.Stat(envFile); err == nil {
		return godotenv.Load(envFile)
	}
	return fmt.Errorf("env file %s not found", envFile)
}

// startMonitoring serves the Prometheus and health endpoints in the
// background for the lifetime of the process.
func startMonitoring(cfg *config.Config, health *monitoring.HealthChecker) {
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", monitoring.NewMetricsHandler())
		addr := fmt.Sprintf(":%d", cfg.Monitoring.PrometheusPort)
		if err := http.ListenAndServe(addr, mux); err != nil {
			log.Printf("Warning: metrics endpoint unavailable: %v", err)
		}
	}()
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/health", health)
		addr := fmt.Sprintf(":%d", cfg.Monitoring.HealthPort)
		if err := http.ListenAndServe(addr, mux); err != nil {
			log.Printf("Warning: health endpoint unavailable: %v", err)
		}
	}()
}

// signalContext returns a context cancelled on SIGINT/SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}
