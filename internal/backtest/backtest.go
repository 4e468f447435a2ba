// Package backtest drives the event loop: it advances the data handler one
// timestep at a time and dispatches the resulting cascade of events between
// the strategy, portfolio and execution roles until the feed is exhausted.
package backtest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rxtech-lab/event-trading/internal/data"
	"github.com/rxtech-lab/event-trading/internal/execution"
	"github.com/rxtech-lab/event-trading/internal/logger"
	"github.com/rxtech-lab/event-trading/internal/portfolio"
	"github.com/rxtech-lab/event-trading/internal/queue"
	"github.com/rxtech-lab/event-trading/internal/strategy"
	"github.com/rxtech-lab/event-trading/internal/types"
	"github.com/rxtech-lab/event-trading/pkg/errors"
	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"
)

// State is the orchestrator's lifecycle phase.
type State string

const (
	// StateRunning means timesteps are still being consumed.
	StateRunning State = "RUNNING"
	// StateExhausted means the feed has ended but results are not written.
	StateExhausted State = "EXHAUSTED"
	// StateDone means results have been finalized.
	StateDone State = "DONE"
)

// stepCounter is implemented by data handlers that know their total number
// of timesteps up front.
type stepCounter interface {
	TotalSteps() int
}

// Backtest owns the shared event queue and runs the two nested loops: the
// outer loop requests one synchronized timestep per iteration, the inner
// loop drains the queue to a fixed point before the next step begins.
type Backtest struct {
	config    Config
	bars      data.DataHandler
	strategy  strategy.Strategy
	portfolio *portfolio.Portfolio
	execution execution.Handler
	events    *queue.EventQueue
	log       *logger.Logger

	id     string
	state  State
	counts types.EventCounts
}

// NewBacktest wires the roles to the shared queue under the given config.
func NewBacktest(config Config, bars data.DataHandler, strat strategy.Strategy, port *portfolio.Portfolio, exec execution.Handler, events *queue.EventQueue, log *logger.Logger) (*Backtest, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &Backtest{
		config:    config,
		bars:      bars,
		strategy:  strat,
		portfolio: port,
		execution: exec,
		events:    events,
		log:       log,
		id:        uuid.New().String(),
		state:     StateRunning,
	}, nil
}

// ID returns the unique identifier of this run.
func (b *Backtest) ID() string {
	return b.id
}

// State returns the current lifecycle phase.
func (b *Backtest) State() State {
	return b.state
}

// EventCounts returns the number of signals, orders and fills dispatched so
// far.
func (b *Backtest) EventCounts() types.EventCounts {
	return b.counts
}

// Run consumes timesteps until the data handler is exhausted or the context
// is canceled. Each timestep's event cascade is fully drained before the
// next step is requested; steps before the configured start time only warm
// up the data histories.
func (b *Backtest) Run(ctx context.Context) error {
	if b.state != StateRunning {
		return errors.Newf(errors.ErrCodeBacktestAlreadyRun, "backtest %s already ran", b.id)
	}

	b.log.Info("backtest started",
		zap.String("id", b.id),
		zap.String("strategy", b.strategy.Name()),
		zap.Strings("symbols", b.bars.Symbols()),
	)

	var bar *progressbar.ProgressBar
	if counter, ok := b.bars.(stepCounter); ok {
		bar = progressbar.Default(int64(counter.TotalSteps()))
		bar.Describe(fmt.Sprintf("Running %s", b.strategy.Name()))
	}

	heartbeat := time.Duration(b.config.HeartbeatSeconds * float64(time.Second))

	for {
		if err := ctx.Err(); err != nil {
			return errors.Wrap(errors.ErrCodeBacktestCanceled, "backtest canceled", err)
		}

		if err := b.bars.UpdateBars(); err != nil {
			return err
		}

		if b.bars.Exhausted() {
			b.state = StateExhausted

			break
		}

		if bar != nil {
			_ = bar.Add(1)
		}

		stepTime, err := b.currentStepTime()
		if err != nil {
			return err
		}

		if b.config.EndTime.IsSome() && stepTime.After(b.config.EndTime.Unwrap()) {
			b.state = StateExhausted

			break
		}

		// Steps before the window accumulate bar history for indicator
		// warm-up but trigger no trading.
		inWindow := !(b.config.StartTime.IsSome() && stepTime.Before(b.config.StartTime.Unwrap()))

		if err := b.drain(inWindow); err != nil {
			return err
		}

		if heartbeat > 0 {
			time.Sleep(heartbeat)
		}
	}

	b.log.Info("backtest exhausted",
		zap.String("id", b.id),
		zap.Int("signals", b.counts.Signals),
		zap.Int("orders", b.counts.Orders),
		zap.Int("fills", b.counts.Fills),
	)

	return nil
}

// drain pops events until the queue reaches a fixed point, dispatching each
// by its tag. Handlers push follow-up events onto the same queue, so one
// market step can cascade through signals, orders and fills within a single
// drain.
func (b *Backtest) drain(inWindow bool) error {
	for {
		event, ok := b.events.Pop()
		if !ok {
			return nil
		}

		switch event.EventType() {
		case types.EventTypeMarket:
			if !inWindow {
				continue
			}

			if err := b.strategy.CalculateSignals(event); err != nil {
				return err
			}

			if err := b.portfolio.UpdateTimeIndex(event.(types.MarketEvent)); err != nil {
				return err
			}
		case types.EventTypeSignal:
			b.counts.Signals++

			if err := b.portfolio.UpdateSignal(event.(types.SignalEvent)); err != nil {
				return err
			}
		case types.EventTypeOrder:
			b.counts.Orders++

			if err := b.execution.ExecuteOrder(event.(types.OrderEvent)); err != nil {
				return err
			}
		case types.EventTypeFill:
			b.counts.Fills++

			if err := b.portfolio.UpdateFill(event.(types.FillEvent)); err != nil {
				return err
			}
		}
	}
}

// currentStepTime is the timestamp of the current synchronized step.
func (b *Backtest) currentStepTime() (time.Time, error) {
	var lastErr error

	for _, symbol := range b.bars.Symbols() {
		ts, err := b.bars.LatestBarTime(symbol)
		if err == nil {
			return ts, nil
		}

		lastErr = err
	}

	return time.Time{}, lastErr
}

// Finalize writes the equity curve CSV and the summary YAML into the
// configured output directory and moves the run to DONE. It must be called
// after Run has exhausted the feed.
func (b *Backtest) Finalize() (types.SummaryStats, error) {
	if b.state != StateExhausted {
		return types.SummaryStats{}, errors.Newf(errors.ErrCodeBacktestFinalizeFailed, "cannot finalize in state %s", b.state)
	}

	if err := os.MkdirAll(b.config.OutputDir, 0o755); err != nil {
		return types.SummaryStats{}, errors.Wrap(errors.ErrCodeBacktestFinalizeFailed, "failed to create output directory", err)
	}

	curvePath := filepath.Join(b.config.OutputDir, fmt.Sprintf("equity_%s.csv", b.id))
	if err := b.portfolio.WriteEquityCurve(curvePath); err != nil {
		return types.SummaryStats{}, err
	}

	stats, err := b.portfolio.SummaryStats(b.config.PeriodsPerYear)
	if err != nil {
		return types.SummaryStats{}, err
	}

	stats.ID = b.id
	stats.Timestamp = time.Now()
	stats.Strategy = b.strategy.Name()
	stats.Events = b.counts
	stats.EquityCurvePath = curvePath

	summaryPath := filepath.Join(b.config.OutputDir, fmt.Sprintf("summary_%s.yaml", b.id))
	if err := types.WriteSummaryStats(summaryPath, stats); err != nil {
		return types.SummaryStats{}, err
	}

	b.state = StateDone

	b.log.Info("backtest finalized",
		zap.String("id", b.id),
		zap.Float64("total_return", stats.TotalReturn),
		zap.Float64("sharpe_ratio", stats.SharpeRatio),
		zap.Float64("max_drawdown", stats.MaxDrawdown),
	)

	return stats, nil
}
