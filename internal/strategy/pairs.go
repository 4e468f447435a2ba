package strategy

import (
	"fmt"
	"math"

	"github.com/rxtech-lab/event-trading/internal/data"
	"github.com/rxtech-lab/event-trading/internal/logger"
	"github.com/rxtech-lab/event-trading/internal/queue"
	"github.com/rxtech-lab/event-trading/internal/types"
	"github.com/rxtech-lab/event-trading/pkg/errors"
	"go.uber.org/zap"
)

// OLSMeanReversionStrategy trades a fixed symbol pair (y, x). On each
// timestep it fits a rolling OLS regression of y on x to obtain the hedge
// ratio, computes the z-score of the latest spread residual, and trades the
// four mean-reversion transitions:
//
//   - z <= -high while flat on the long side: enter LONG y / SHORT x
//   - |z| <= low while long: exit both legs to flat
//   - z >= +high while flat on the short side: enter SHORT y / LONG x
//   - |z| <= low while short: exit both legs to flat
//
// Every transition emits exactly two linked signals, the y leg with strength
// 1.0 and the x leg scaled by the absolute hedge ratio on entries.
type OLSMeanReversionStrategy struct {
	bars       data.DataHandler
	events     *queue.EventQueue
	log        *logger.Logger
	symbolY    string
	symbolX    string
	olsWindow  int
	zscoreLow  float64
	zscoreHigh float64

	longMarket  bool
	shortMarket bool
}

// NewOLSMeanReversionStrategy creates a pairs strategy for the (y, x) pair.
// Both symbols must be tracked by the data handler.
func NewOLSMeanReversionStrategy(bars data.DataHandler, events *queue.EventQueue, log *logger.Logger, symbolY, symbolX string, olsWindow int, zscoreLow, zscoreHigh float64) (*OLSMeanReversionStrategy, error) {
	if olsWindow <= 1 {
		return nil, errors.Newf(errors.ErrCodeStrategyConfigError, "ols window %d must be greater than 1", olsWindow)
	}

	if zscoreLow <= 0 || zscoreHigh <= zscoreLow {
		return nil, errors.Newf(errors.ErrCodeStrategyConfigError,
			"zscore thresholds must satisfy 0 < low (%f) < high (%f)", zscoreLow, zscoreHigh)
	}

	tracked := make(map[string]bool)
	for _, symbol := range bars.Symbols() {
		tracked[symbol] = true
	}

	if !tracked[symbolY] || !tracked[symbolX] {
		return nil, errors.Newf(errors.ErrCodeSymbolNotFound, "pair (%s, %s) is not fully tracked", symbolY, symbolX)
	}

	return &OLSMeanReversionStrategy{
		bars:       bars,
		events:     events,
		log:        log,
		symbolY:    symbolY,
		symbolX:    symbolX,
		olsWindow:  olsWindow,
		zscoreLow:  zscoreLow,
		zscoreHigh: zscoreHigh,
	}, nil
}

// Name implements Strategy.
func (s *OLSMeanReversionStrategy) Name() string {
	return fmt.Sprintf("ols_mr_%s_%s_%d", s.symbolY, s.symbolX, s.olsWindow)
}

// CalculateSignals implements Strategy. Signals are withheld until both legs
// have a full OLS window of observations.
func (s *OLSMeanReversionStrategy) CalculateSignals(event types.Event) error {
	if event.EventType() != types.EventTypeMarket {
		return nil
	}

	y, err := s.bars.LatestBarsValues(s.symbolY, types.BarFieldClose, s.olsWindow)
	if err != nil {
		return err
	}

	x, err := s.bars.LatestBarsValues(s.symbolX, types.BarFieldClose, s.olsWindow)
	if err != nil {
		return err
	}

	if len(y) < s.olsWindow || len(x) < s.olsWindow {
		return nil
	}

	barTime, err := s.bars.LatestBarTime(s.symbolY)
	if err != nil {
		return err
	}

	hedgeRatio := olsHedgeRatio(y, x)
	zscore := residualZScore(y, x, hedgeRatio)

	ySignal, xSignal := s.transition(zscore, math.Abs(hedgeRatio))
	if ySignal == nil || xSignal == nil {
		return nil
	}

	ySignal.StrategyID = s.Name()
	ySignal.Symbol = s.symbolY
	ySignal.Time = barTime
	xSignal.StrategyID = s.Name()
	xSignal.Symbol = s.symbolX
	xSignal.Time = barTime

	s.log.Info("pair transition",
		zap.Float64("zscore", zscore),
		zap.Float64("hedge_ratio", hedgeRatio),
		zap.String("y_direction", string(ySignal.Direction)),
		zap.String("x_direction", string(xSignal.Direction)),
	)

	s.events.Push(*ySignal)
	s.events.Push(*xSignal)

	return nil
}

// transition applies the four mutually exclusive threshold rules and flips
// the side flags. It returns nil signals when no rule fires.
func (s *OLSMeanReversionStrategy) transition(zscore, absHedgeRatio float64) (*types.SignalEvent, *types.SignalEvent) {
	switch {
	case zscore <= -s.zscoreHigh && !s.longMarket:
		s.longMarket = true

		return &types.SignalEvent{Direction: types.SignalDirectionLong, Strength: 1.0},
			&types.SignalEvent{Direction: types.SignalDirectionShort, Strength: absHedgeRatio}
	case math.Abs(zscore) <= s.zscoreLow && s.longMarket:
		s.longMarket = false

		return &types.SignalEvent{Direction: types.SignalDirectionExit, Strength: 1.0},
			&types.SignalEvent{Direction: types.SignalDirectionExit, Strength: 1.0}
	case zscore >= s.zscoreHigh && !s.shortMarket:
		s.shortMarket = true

		return &types.SignalEvent{Direction: types.SignalDirectionShort, Strength: 1.0},
			&types.SignalEvent{Direction: types.SignalDirectionLong, Strength: absHedgeRatio}
	case math.Abs(zscore) <= s.zscoreLow && s.shortMarket:
		s.shortMarket = false

		return &types.SignalEvent{Direction: types.SignalDirectionExit, Strength: 1.0},
			&types.SignalEvent{Direction: types.SignalDirectionExit, Strength: 1.0}
	}

	return nil, nil
}
