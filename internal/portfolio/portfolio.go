// Package portfolio tracks positions, cash and the equity curve. It turns
// signals into orders and applies fills; nothing else mutates holdings.
package portfolio

import (
	"math"
	"time"

	"github.com/rxtech-lab/event-trading/internal/data"
	"github.com/rxtech-lab/event-trading/internal/logger"
	"github.com/rxtech-lab/event-trading/internal/queue"
	"github.com/rxtech-lab/event-trading/internal/types"
	"github.com/rxtech-lab/event-trading/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// snapshot is one immutable equity record, appended once per MarketEvent.
type snapshot struct {
	Time       time.Time
	Cash       float64
	Commission float64
	// MarketValues holds the per-symbol position market value at this step.
	MarketValues map[string]float64
	Total        float64
}

// Portfolio consumes Signal and Fill events, emits Order events and
// maintains positions, cash and the equity history. At every recorded
// timestep: total = cash + sum over symbols of quantity times last price.
type Portfolio struct {
	bars   data.DataHandler
	events *queue.EventQueue
	log    *logger.Logger

	initialCapital float64
	// orderSize is the base quantity for a full-strength signal; the
	// signal's strength scales it.
	orderSize float64

	// positions maps symbol to signed quantity. A symbol is never
	// simultaneously long and short.
	positions  map[string]float64
	cash       float64
	commission float64
	snapshots  []snapshot
}

// NewPortfolio creates a portfolio for every symbol the data handler tracks.
func NewPortfolio(bars data.DataHandler, events *queue.EventQueue, log *logger.Logger, initialCapital, orderSize float64) (*Portfolio, error) {
	if initialCapital <= 0 {
		return nil, errors.Newf(errors.ErrCodeInvalidParameter, "initial capital must be positive, got %f", initialCapital)
	}

	if orderSize <= 0 {
		return nil, errors.Newf(errors.ErrCodeInvalidParameter, "order size must be positive, got %f", orderSize)
	}

	positions := make(map[string]float64, len(bars.Symbols()))
	for _, symbol := range bars.Symbols() {
		positions[symbol] = 0
	}

	return &Portfolio{
		bars:           bars,
		events:         events,
		log:            log,
		initialCapital: initialCapital,
		orderSize:      orderSize,
		positions:      positions,
		cash:           initialCapital,
		commission:     0,
	}, nil
}

// Cash returns the current cash balance.
func (p *Portfolio) Cash() float64 {
	return p.cash
}

// Position returns the signed quantity held for the symbol.
func (p *Portfolio) Position(symbol string) float64 {
	return p.positions[symbol]
}

// UpdateTimeIndex marks every open position to the latest known price and
// records one equity snapshot timestamped at the current step. Calling it
// again at the same timestamp with no intervening fills replaces the row
// with identical values, so exactly one row exists per timestep.
func (p *Portfolio) UpdateTimeIndex(event types.MarketEvent) error {
	stepTime, err := p.currentStepTime()
	if err != nil {
		return err
	}

	marketValues := make(map[string]float64, len(p.positions))
	total := p.cash

	for _, symbol := range p.bars.Symbols() {
		quantity := p.positions[symbol]

		price, err := p.bars.LatestBarValue(symbol, types.BarFieldAdjClose)
		if err != nil {
			if errors.HasCode(err, errors.ErrCodeNoBars) {
				// No observation yet for this symbol at this step; it
				// cannot hold a position either.
				marketValues[symbol] = 0

				continue
			}

			return err
		}

		value := quantity * price
		marketValues[symbol] = value
		total += value
	}

	record := snapshot{
		Time:         stepTime,
		Cash:         p.cash,
		Commission:   p.commission,
		MarketValues: marketValues,
		Total:        total,
	}

	if n := len(p.snapshots); n > 0 && p.snapshots[n-1].Time.Equal(stepTime) {
		p.snapshots[n-1] = record

		return nil
	}

	p.snapshots = append(p.snapshots, record)

	return nil
}

// currentStepTime is the shared timestamp of the current synchronized step:
// the latest bar time of the first tracked symbol that has one.
func (p *Portfolio) currentStepTime() (time.Time, error) {
	var lastErr error

	for _, symbol := range p.bars.Symbols() {
		ts, err := p.bars.LatestBarTime(symbol)
		if err == nil {
			return ts, nil
		}

		lastErr = err
	}

	return time.Time{}, lastErr
}

// UpdateSignal translates a directional signal into zero or one OrderEvent.
// Duplicate entries are suppressed and reversals require an explicit EXIT
// first, so the target exposure passes through zero.
func (p *Portfolio) UpdateSignal(signal types.SignalEvent) error {
	if err := signal.Validate(); err != nil {
		return err
	}

	current := p.positions[signal.Symbol]
	quantity := math.Floor(p.orderSize * signal.Strength)

	var order *types.OrderEvent

	switch signal.Direction {
	case types.SignalDirectionExit:
		switch {
		case current > 0:
			order = &types.OrderEvent{Symbol: signal.Symbol, OrderType: types.OrderTypeMarket, Quantity: current, Side: types.OrderSideSell}
		case current < 0:
			order = &types.OrderEvent{Symbol: signal.Symbol, OrderType: types.OrderTypeMarket, Quantity: -current, Side: types.OrderSideBuy}
		}
	case types.SignalDirectionLong:
		switch {
		case current > 0:
			p.log.Debug("duplicate long entry suppressed", zap.String("symbol", signal.Symbol))
		case current < 0:
			p.log.Warn("long signal while short ignored, exit required first", zap.String("symbol", signal.Symbol))
		case quantity > 0:
			order = &types.OrderEvent{Symbol: signal.Symbol, OrderType: types.OrderTypeMarket, Quantity: quantity, Side: types.OrderSideBuy}
		}
	case types.SignalDirectionShort:
		switch {
		case current < 0:
			p.log.Debug("duplicate short entry suppressed", zap.String("symbol", signal.Symbol))
		case current > 0:
			p.log.Warn("short signal while long ignored, exit required first", zap.String("symbol", signal.Symbol))
		case quantity > 0:
			order = &types.OrderEvent{Symbol: signal.Symbol, OrderType: types.OrderTypeMarket, Quantity: quantity, Side: types.OrderSideSell}
		}
	}

	if order == nil {
		return nil
	}

	if err := order.Validate(); err != nil {
		return err
	}

	p.events.Push(*order)

	return nil
}

// UpdateFill applies a realized trade: cash decreases by quantity times
// fill cost plus commission for a buy and increases by the symmetric amount
// for a sell, and the signed position moves accordingly. Fill application is
// the only operation that mutates cash or positions.
func (p *Portfolio) UpdateFill(fill types.FillEvent) error {
	if err := fill.Validate(); err != nil {
		return err
	}

	if _, ok := p.positions[fill.Symbol]; !ok {
		return errors.Newf(errors.ErrCodeSymbolNotFound, "fill for untracked symbol %s", fill.Symbol)
	}

	cost := decimal.NewFromFloat(fill.Quantity).Mul(decimal.NewFromFloat(fill.FillCost))
	commission := decimal.NewFromFloat(fill.Commission)
	cash := decimal.NewFromFloat(p.cash)

	switch fill.Side {
	case types.OrderSideBuy:
		cash = cash.Sub(cost).Sub(commission)
		p.positions[fill.Symbol] += fill.Quantity
	case types.OrderSideSell:
		cash = cash.Add(cost).Sub(commission)
		p.positions[fill.Symbol] -= fill.Quantity
	}

	p.cash = cash.InexactFloat64()
	p.commission += fill.Commission

	p.log.Debug("fill applied",
		zap.String("symbol", fill.Symbol),
		zap.String("side", string(fill.Side)),
		zap.Float64("quantity", fill.Quantity),
		zap.Float64("fill_cost", fill.FillCost),
		zap.Float64("cash", p.cash),
	)

	return nil
}
