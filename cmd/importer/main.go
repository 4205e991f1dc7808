package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"trade-journal-go/internal/client"
	"trade-journal-go/internal/config"
	"trade-journal-go/internal/journal"
	"trade-journal-go/internal/logger"

	"go.uber.org/zap"
)

func main() {
	file := flag.String("file", "", "path to the trade history CSV")
	accountID := flag.Uint("account", 0, "id of the account to import into")
	flag.Parse()

	if *file == "" || *accountID == 0 {
		fmt.Fprintln(os.Stderr, "usage: importer -file trades.csv -account <id>")
		os.Exit(1)
	}

	// Load configuration
	cfg, err := config.LoadConfig("./configs")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.NewLogger(cfg.Logger.Level, cfg.Logger.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Setup context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		sigchan := make(chan os.Signal, 1)
		signal.Notify(sigchan, syscall.SIGINT, syscall.SIGTERM)
		<-sigchan
		log.Info("Shutdown signal received, stopping import...")
		cancel()
	}()

	f, err := os.Open(*file)
	if err != nil {
		log.Fatal("Failed to open import file", zap.Error(err))
	}
	defer f.Close()

	trades, err := parseTrades(f, *accountID)
	if err != nil {
		log.Fatal("Failed to parse import file", zap.Error(err))
	}
	log.Info("Parsed trade history", zap.Int("count", len(trades)))

	api := client.NewClient(&cfg.Importer, log)
	if err := api.Health(ctx); err != nil {
		log.Fatal("Journal server is not reachable", zap.Error(err))
	}

	imported := 0
	for _, input := range trades {
		// Local preview of the P&L the server will derive; the stored value
		// comes back in the response and must match.
		expected := journal.NetPnl(input.Symbol, input.Direction,
			input.EntryPrice, input.ExitPrice, input.Quantity, input.Commission, input.Fees)

		trade, err := api.LogTrade(ctx, &input)
		if err != nil {
			log.Error("Failed to import trade",
				zap.String("symbol", input.Symbol),
				zap.Error(err))
			continue
		}

		if trade.Pnl != expected {
			log.Warn("Server-derived P&L differs from local preview",
				zap.Uint("trade_id", trade.ID),
				zap.Float64("expected", expected),
				zap.Float64("stored", trade.Pnl))
		}
		imported++
	}

	log.Info("Import complete", zap.Int("imported", imported), zap.Int("total", len(trades)))
}
