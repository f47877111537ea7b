package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/sigco3111/core-quant/internal/backtest"
	"github.com/sigco3111/core-quant/internal/collector"
	"github.com/sigco3111/core-quant/internal/collector/yahoo"
	"github.com/sigco3111/core-quant/internal/logger"
	"github.com/sigco3111/core-quant/internal/strategy"
	"github.com/spf13/cobra"
)

var (
	backtestSymbol string
	backtestFrom   string
	backtestTo     string
	backtestOut    string
)

var backtestCmd = &cobra.Command{
	Use:   "backtest [strategy-file]",
	Short: "Run a strategy file against historical data",
	Long:  "Evaluate a strategy definition (JSON file) against historical bars and print performance statistics",
	Args:  cobra.ExactArgs(1),
	RunE:  runBacktest,
}

func init() {
	backtestCmd.Flags().StringVar(&backtestSymbol, "symbol", "", "Symbol to backtest (required)")
	backtestCmd.Flags().StringVar(&backtestFrom, "from", "", "Start date YYYY-MM-DD (required)")
	backtestCmd.Flags().StringVar(&backtestTo, "to", "", "End date YYYY-MM-DD (required)")
	backtestCmd.Flags().StringVar(&backtestOut, "out", "", "Write the full JSON report to this file")

	backtestCmd.MarkFlagRequired("symbol")
	backtestCmd.MarkFlagRequired("from")
	backtestCmd.MarkFlagRequired("to")

	rootCmd.AddCommand(backtestCmd)
}

func runBacktest(cmd *cobra.Command, args []string) error {
	log := logger.Must(debug)
	defer log.Sync()

	fromDate, err := time.Parse("2006-01-02", backtestFrom)
	if err != nil {
		return fmt.Errorf("invalid from date format (expected YYYY-MM-DD): %w", err)
	}
	toDate, err := time.Parse("2006-01-02", backtestTo)
	if err != nil {
		return fmt.Errorf("invalid to date format (expected YYYY-MM-DD): %w", err)
	}
	if toDate.Before(fromDate) {
		return fmt.Errorf("end date must be after start date")
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading strategy file: %w", err)
	}

	var strat strategy.Strategy
	if err := json.Unmarshal(data, &strat); err != nil {
		return fmt.Errorf("parsing strategy file: %w", err)
	}
	if strat.Owner == "" {
		strat.Owner = "local"
	}
	if err := strat.Validate(); err != nil {
		return fmt.Errorf("strategy validation failed: %w", err)
	}

	cfg, err := loadConfig(log)
	if err != nil {
		return err
	}

	provider := yahoo.New(collector.Config{
		BaseURL: cfg.Collector.BaseURL,
		APIKey:  cfg.Collector.APIKey,
		Timeout: cfg.Collector.Timeout,
	})

	ctx := context.Background()
	bars, err := provider.FetchHistory(ctx, backtestSymbol, fromDate, toDate)
	if err != nil {
		return fmt.Errorf("fetching history: %w", err)
	}

	result, err := backtest.New(log).Run(ctx, strat, backtestSymbol, bars)
	if err != nil {
		return fmt.Errorf("running backtest: %w", err)
	}

	fmt.Println("=== Backtest Report ===")
	fmt.Printf("Strategy: %s\n", strat.Name)
	fmt.Printf("Symbol:   %s\n", backtestSymbol)
	fmt.Printf("Period:   %s to %s (%d bars)\n",
		result.Start.Format("2006-01-02"), result.End.Format("2006-01-02"), len(bars))
	fmt.Println()
	fmt.Printf("Signals:       %d\n", len(result.Events))
	fmt.Printf("Trades:        %d (%d wins / %d losses)\n",
		result.Stats.TotalTrades, result.Stats.WinningTrades, result.Stats.LosingTrades)
	fmt.Printf("Win rate:      %.1f%%\n", result.Stats.WinRate)
	fmt.Printf("Total return:  %.2f%%\n", result.Stats.TotalReturn)
	fmt.Printf("Max drawdown:  %.2f%%\n", result.Stats.MaxDrawdown)
	fmt.Printf("Sharpe ratio:  %.2f\n", result.Stats.SharpeRatio)

	if backtestOut != "" {
		report, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		if err := os.WriteFile(backtestOut, report, 0644); err != nil {
			return fmt.Errorf("writing report: %w", err)
		}
		fmt.Printf("\nFull report written to %s\n", backtestOut)
	}

	return nil
}
