package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/rxtech-lab/event-trading/internal/backtest"
	"github.com/rxtech-lab/event-trading/internal/data"
	"github.com/rxtech-lab/event-trading/internal/execution"
	"github.com/rxtech-lab/event-trading/internal/execution/commission"
	"github.com/rxtech-lab/event-trading/internal/logger"
	"github.com/rxtech-lab/event-trading/internal/portfolio"
	"github.com/rxtech-lab/event-trading/internal/queue"
	"github.com/rxtech-lab/event-trading/internal/strategy"
	"github.com/rxtech-lab/event-trading/pkg/errors"
	"github.com/urfave/cli/v3"
)

const (
	strategyMovingAverage = "mac"
	strategyPairs         = "ols_mr"

	sourceCSV     = "csv"
	sourceBinance = "binance"
)

// backtestAction wires the data handler, strategy, portfolio and execution
// handler to one shared queue and runs the event loop to completion.
func backtestAction(ctx context.Context, cmd *cli.Command) error {
	appLogger, err := logger.NewLogger()
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer appLogger.Sync()

	config := backtest.DefaultConfig()
	if configPath := cmd.String("config"); configPath != "" {
		config, err = backtest.LoadConfig(configPath)
		if err != nil {
			return err
		}
	}

	symbols := cmd.StringSlice("symbols")
	events := queue.NewEventQueue()

	bars, err := buildDataHandler(ctx, cmd, config, appLogger, events, symbols)
	if err != nil {
		return err
	}

	strat, err := buildStrategy(cmd, bars, events, appLogger, symbols)
	if err != nil {
		return err
	}

	port, err := portfolio.NewPortfolio(bars, events, appLogger, config.InitialCapital, config.OrderSize)
	if err != nil {
		return err
	}

	exec := execution.NewSimulatedExecutionHandler(bars, events, appLogger, commission.GetModel(config.Commission))

	runner, err := backtest.NewBacktest(config, bars, strat, port, exec, events, appLogger)
	if err != nil {
		return err
	}

	if err := runner.Run(ctx); err != nil {
		return err
	}

	stats, err := runner.Finalize()
	if err != nil {
		return err
	}

	fmt.Printf("Total return: %.2f%%\n", stats.TotalReturn)
	fmt.Printf("Sharpe ratio: %.2f\n", stats.SharpeRatio)
	fmt.Printf("Max drawdown: %.2f%% over %d periods\n", stats.MaxDrawdown*100, stats.DrawdownDuration)
	fmt.Printf("Events: %d signals, %d orders, %d fills\n", stats.Events.Signals, stats.Events.Orders, stats.Events.Fills)
	fmt.Printf("Equity curve: %s\n", stats.EquityCurvePath)

	return nil
}

func buildDataHandler(ctx context.Context, cmd *cli.Command, config backtest.Config, appLogger *logger.Logger, events *queue.EventQueue, symbols []string) (data.DataHandler, error) {
	switch source := cmd.String("source"); source {
	case sourceCSV:
		return data.NewHistoricCSVDataHandler(events, appLogger, cmd.String("data"), symbols)
	case sourceBinance:
		if config.StartTime.IsNone() || config.EndTime.IsNone() {
			return nil, errors.New(errors.ErrCodeInvalidConfiguration, "binance source requires start_time and end_time in the config")
		}

		feed := data.NewBinanceFeed(appLogger, symbols, cmd.String("interval"))
		steps := make(chan data.BarStep)

		go func() {
			if err := feed.Stream(ctx, config.StartTime.Unwrap(), config.EndTime.Unwrap(), steps); err != nil {
				appLogger.Error("binance stream failed: " + err.Error())
			}
		}()

		return data.NewLiveDataHandler(events, appLogger, symbols, steps)
	default:
		return nil, errors.Newf(errors.ErrCodeInvalidConfiguration, "unknown data source %q", source)
	}
}

func buildStrategy(cmd *cli.Command, bars data.DataHandler, events *queue.EventQueue, appLogger *logger.Logger, symbols []string) (strategy.Strategy, error) {
	switch name := cmd.String("strategy"); name {
	case strategyMovingAverage:
		return strategy.NewMovingAverageCrossStrategy(bars, events, appLogger,
			int(cmd.Int("short-window")), int(cmd.Int("long-window")))
	case strategyPairs:
		if len(symbols) != 2 {
			return nil, errors.Newf(errors.ErrCodeStrategyConfigError, "pairs strategy requires exactly 2 symbols, got %d", len(symbols))
		}

		return strategy.NewOLSMeanReversionStrategy(bars, events, appLogger,
			symbols[0], symbols[1],
			int(cmd.Int("ols-window")), cmd.Float("zscore-low"), cmd.Float("zscore-high"))
	default:
		return nil, errors.Newf(errors.ErrCodeUnsupportedStrategy, "unknown strategy %q", name)
	}
}

func main() {
	cmd := &cli.Command{
		Name:  "backtest",
		Usage: "Run an event-driven backtest over historical bars",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to the YAML run configuration",
			},
			&cli.StringSliceFlag{
				Name:     "symbols",
				Aliases:  []string{"s"},
				Usage:    "Ticker symbols to trade",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "source",
				Usage: fmt.Sprintf("Bar source (%s, %s)", sourceCSV, sourceBinance),
				Value: sourceCSV,
			},
			&cli.StringFlag{
				Name:    "data",
				Aliases: []string{"d"},
				Usage:   "Directory holding one <symbol>.csv bar file per symbol",
				Value:   "data",
			},
			&cli.StringFlag{
				Name:  "interval",
				Usage: "Kline interval for the binance source (e.g. 1m, 1d)",
				Value: "1d",
			},
			&cli.StringFlag{
				Name:    "strategy",
				Aliases: []string{"t"},
				Usage:   fmt.Sprintf("Strategy to run (%s, %s)", strategyMovingAverage, strategyPairs),
				Value:   strategyMovingAverage,
			},
			&cli.IntFlag{
				Name:  "short-window",
				Usage: "Short moving average window in bars",
				Value: 100,
			},
			&cli.IntFlag{
				Name:  "long-window",
				Usage: "Long moving average window in bars",
				Value: 400,
			},
			&cli.IntFlag{
				Name:  "ols-window",
				Usage: "Rolling OLS lookback in bars for the pairs strategy",
				Value: 100,
			},
			&cli.FloatFlag{
				Name:  "zscore-low",
				Usage: "Residual z-score magnitude below which pairs positions exit",
				Value: 0.5,
			},
			&cli.FloatFlag{
				Name:  "zscore-high",
				Usage: "Residual z-score magnitude above which pairs positions enter",
				Value: 3.0,
			},
		},
		Action: backtestAction,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
