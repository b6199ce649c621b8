// Command finreport generates a financial analysis report for a company
// using LLM-driven collection, analysis, writing, and editing stages
// with quality-gated retries.
//
// Required environment:
//
//	ANTHROPIC_API_KEY  key for the Anthropic API
//	TAVILY_API_KEY     key for the Tavily search API
//
// Usage:
//
//	finreport -company "Acme Corp" [-focus "revenue growth"] [-config config.yaml] [-output report.md]
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/randalmurphal/finreport/pkg/finreport"
	"github.com/randalmurphal/finreport/pkg/finreport/config"
	"github.com/randalmurphal/finreport/pkg/finreport/history"
	"github.com/randalmurphal/finreport/pkg/finreport/llm"
	"github.com/randalmurphal/finreport/pkg/finreport/observability"
	"github.com/randalmurphal/finreport/pkg/finreport/search"
)

func main() {
	var (
		company     = flag.String("company", "", "company name to analyze (required)")
		focus       = flag.String("focus", "", "optional analysis focus, e.g. \"revenue growth\"")
		configPath  = flag.String("config", "", "optional config file (.yaml, .yml, or .json)")
		output      = flag.String("output", "", "write the report to this file instead of stdout")
		historyPath = flag.String("history", "", "optional SQLite file to record completed runs")
		verbose     = flag.Bool("verbose", false, "enable debug logging")
		useMetrics  = flag.Bool("metrics", false, "record OpenTelemetry metrics via the global provider")
	)
	flag.Parse()

	if *company == "" {
		fmt.Fprintln(os.Stderr, "error: -company is required")
		flag.Usage()
		os.Exit(2)
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if err := run(logger, *company, *focus, *configPath, *output, *historyPath, *useMetrics); err != nil {
		logger.Error("report generation failed", "error", err.Error())
		os.Exit(1)
	}
}

func run(logger *slog.Logger, company, focus, configPath, output, historyPath string, useMetrics bool) error {
	anthropicKey := os.Getenv("ANTHROPIC_API_KEY")
	if anthropicKey == "" {
		return fmt.Errorf("ANTHROPIC_API_KEY is not set")
	}
	tavilyKey := os.Getenv("TAVILY_API_KEY")
	if tavilyKey == "" {
		return fmt.Errorf("TAVILY_API_KEY is not set")
	}

	cfg := config.Default()
	if configPath != "" {
		var err error
		if cfg, err = config.FromFile(configPath); err != nil {
			return fmt.Errorf("load config: %w", err)
		}
	}

	var clientOpts []llm.ClaudeOption
	if cfg.Model != "" {
		clientOpts = append(clientOpts, llm.WithModel(cfg.Model))
	}
	if cfg.MaxTokens > 0 {
		clientOpts = append(clientOpts, llm.WithMaxTokens(cfg.MaxTokens))
	}
	client := llm.NewClaude(anthropicKey, clientOpts...)

	searcher := search.NewTavily(tavilyKey,
		search.WithSearchDepth(cfg.SearchDepth),
		search.WithMaxResults(cfg.MaxSearchResults),
	)

	opts := []finreport.Option{finreport.WithLogger(logger)}
	if useMetrics {
		opts = append(opts, finreport.WithMetricsRecorder(observability.NewMetricsRecorder()))
	}
	if historyPath != "" {
		store, err := history.NewSQLiteStore(historyPath)
		if err != nil {
			return fmt.Errorf("open history store: %w", err)
		}
		defer store.Close()
		opts = append(opts, finreport.WithHistory(store))
	}

	pipeline, err := finreport.New(cfg, client, searcher, opts...)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, err := pipeline.Run(ctx, company, focus)
	if err != nil {
		return err
	}

	if result.Stage == finreport.StageAbandon {
		logger.Warn("insufficient data, wrote disclaimer report",
			"collection_attempts", result.CollectionAttempts)
	}

	if output != "" {
		if err := os.WriteFile(output, []byte(result.FinalReport), 0o644); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		logger.Info("report written", "path", output, "run_id", result.RunID)
		return nil
	}

	fmt.Println(result.FinalReport)
	return nil
}
