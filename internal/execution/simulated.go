package execution

import (
	"github.com/rxtech-lab/event-trading/internal/data"
	"github.com/rxtech-lab/event-trading/internal/execution/commission"
	"github.com/rxtech-lab/event-trading/internal/logger"
	"github.com/rxtech-lab/event-trading/internal/queue"
	"github.com/rxtech-lab/event-trading/internal/types"
	"go.uber.org/zap"
)

// SimulatedExchange is the exchange label stamped on simulated fills.
const SimulatedExchange = "SIMULATED"

// SimulatedExecutionHandler fills every order in full at the latest close,
// with no latency or slippage. Commission follows the configured model.
type SimulatedExecutionHandler struct {
	bars   data.DataHandler
	events *queue.EventQueue
	log    *logger.Logger
	fees   commission.Model
}

// NewSimulatedExecutionHandler creates a simulated executor pricing fills
// from the data handler's latest bars.
func NewSimulatedExecutionHandler(bars data.DataHandler, events *queue.EventQueue, log *logger.Logger, fees commission.Model) *SimulatedExecutionHandler {
	return &SimulatedExecutionHandler{
		bars:   bars,
		events: events,
		log:    log,
		fees:   fees,
	}
}

// ExecuteOrder implements Handler. The fill is priced at the symbol's latest
// close and timestamped with the symbol's latest bar time.
func (h *SimulatedExecutionHandler) ExecuteOrder(order types.OrderEvent) error {
	if err := order.Validate(); err != nil {
		return err
	}

	price, err := h.bars.LatestBarValue(order.Symbol, types.BarFieldClose)
	if err != nil {
		return err
	}

	fillTime, err := h.bars.LatestBarTime(order.Symbol)
	if err != nil {
		return err
	}

	fill := types.FillEvent{
		Time:       fillTime,
		Symbol:     order.Symbol,
		Exchange:   SimulatedExchange,
		Quantity:   order.Quantity,
		Side:       order.Side,
		FillCost:   price,
		Commission: h.fees.Calculate(order.Quantity),
	}

	if err := fill.Validate(); err != nil {
		return err
	}

	h.events.Push(fill)

	h.log.Debug("order filled",
		zap.String("symbol", order.Symbol),
		zap.String("side", string(order.Side)),
		zap.Float64("quantity", order.Quantity),
		zap.Float64("fill_cost", price),
	)

	return nil
}
