package strategy

import (
	"fmt"

	"github.com/rxtech-lab/event-trading/internal/data"
	"github.com/rxtech-lab/event-trading/internal/logger"
	"github.com/rxtech-lab/event-trading/internal/queue"
	"github.com/rxtech-lab/event-trading/internal/types"
	"github.com/rxtech-lab/event-trading/pkg/errors"
	"go.uber.org/zap"
)

// MovingAverageCrossStrategy emits a LONG signal when the short simple
// moving average of adjusted close crosses above the long one while flat,
// and an EXIT signal when it crosses back below while in position. It holds
// a per-symbol in-position flag so repeated readings on the same side of the
// cross emit nothing.
type MovingAverageCrossStrategy struct {
	bars        data.DataHandler
	events      *queue.EventQueue
	log         *logger.Logger
	shortWindow int
	longWindow  int
	// bought tracks whether each symbol is currently in the market.
	bought map[string]bool
}

// NewMovingAverageCrossStrategy creates the strategy for every symbol the
// data handler tracks.
func NewMovingAverageCrossStrategy(bars data.DataHandler, events *queue.EventQueue, log *logger.Logger, shortWindow, longWindow int) (*MovingAverageCrossStrategy, error) {
	if shortWindow <= 0 || longWindow <= 0 || shortWindow >= longWindow {
		return nil, errors.Newf(errors.ErrCodeStrategyConfigError,
			"short window %d must be positive and smaller than long window %d", shortWindow, longWindow)
	}

	bought := make(map[string]bool, len(bars.Symbols()))
	for _, symbol := range bars.Symbols() {
		bought[symbol] = false
	}

	return &MovingAverageCrossStrategy{
		bars:        bars,
		events:      events,
		log:         log,
		shortWindow: shortWindow,
		longWindow:  longWindow,
		bought:      bought,
	}, nil
}

// Name implements Strategy.
func (s *MovingAverageCrossStrategy) Name() string {
	return fmt.Sprintf("mac_%d_%d", s.shortWindow, s.longWindow)
}

// CalculateSignals implements Strategy. No signal is emitted for a symbol
// while fewer than longWindow bars are available.
func (s *MovingAverageCrossStrategy) CalculateSignals(event types.Event) error {
	if event.EventType() != types.EventTypeMarket {
		return nil
	}

	for _, symbol := range s.bars.Symbols() {
		values, err := s.bars.LatestBarsValues(symbol, types.BarFieldAdjClose, s.longWindow)
		if err != nil {
			return err
		}

		if len(values) < s.longWindow {
			continue
		}

		barTime, err := s.bars.LatestBarTime(symbol)
		if err != nil {
			return err
		}

		shortSMA := mean(values[len(values)-s.shortWindow:])
		longSMA := mean(values)

		switch {
		case shortSMA > longSMA && !s.bought[symbol]:
			s.log.Info("long entry",
				zap.String("symbol", symbol),
				zap.Time("bar_time", barTime),
			)
			s.events.Push(types.SignalEvent{
				StrategyID: s.Name(),
				Symbol:     symbol,
				Time:       barTime,
				Direction:  types.SignalDirectionLong,
				Strength:   1.0,
			})
			s.bought[symbol] = true
		case shortSMA < longSMA && s.bought[symbol]:
			s.log.Info("exit",
				zap.String("symbol", symbol),
				zap.Time("bar_time", barTime),
			)
			s.events.Push(types.SignalEvent{
				StrategyID: s.Name(),
				Symbol:     symbol,
				Time:       barTime,
				Direction:  types.SignalDirectionExit,
				Strength:   1.0,
			})
			s.bought[symbol] = false
		}
	}

	return nil
}
