package execution

import (
	"sync"
	"time"

	"github.com/rxtech-lab/event-trading/internal/execution/commission"
	"github.com/rxtech-lab/event-trading/internal/logger"
	"github.com/rxtech-lab/event-trading/internal/queue"
	"github.com/rxtech-lab/event-trading/internal/types"
	"github.com/rxtech-lab/event-trading/pkg/errors"
	"go.uber.org/zap"
)

// OrderStatusFilled is the terminal status a broker session reports once an
// order has fully executed.
const OrderStatusFilled = "Filled"

// BrokerContract identifies the instrument an order trades, in the broker's
// own terms.
type BrokerContract struct {
	Symbol       string
	SecurityType string
	Exchange     string
	Currency     string
}

// BrokerOrder is the broker-side order specification.
type BrokerOrder struct {
	OrderType types.OrderType
	Quantity  float64
	Side      types.OrderSide
}

// BrokerSession is an open connection to a live broker. Submit is
// fire-and-forget: acceptance, execution and errors come back through the
// handler's callback methods, possibly on the session's own goroutines.
type BrokerSession interface {
	Submit(orderID int, contract BrokerContract, order BrokerOrder) error
}

// pendingFill tracks one submitted order until the session reports it
// filled.
type pendingFill struct {
	symbol   string
	exchange string
	side     types.OrderSide
	quantity float64
	filled   bool
}

// BrokerExecutionHandler routes orders to a live broker session and converts
// the session's asynchronous status messages back into FillEvents. Order ids
// are assigned monotonically per handler; the session may invoke the
// callbacks concurrently.
type BrokerExecutionHandler struct {
	session BrokerSession
	events  *queue.EventQueue
	log     *logger.Logger
	fees    commission.Model

	securityType string
	exchange     string
	currency     string

	mu          sync.Mutex
	nextOrderID int
	pending     map[int]*pendingFill
}

// NewBrokerExecutionHandler creates a handler submitting US stock orders
// through the given session.
func NewBrokerExecutionHandler(session BrokerSession, events *queue.EventQueue, log *logger.Logger, fees commission.Model) *BrokerExecutionHandler {
	return &BrokerExecutionHandler{
		session:      session,
		events:       events,
		log:          log,
		fees:         fees,
		securityType: "STK",
		exchange:     "SMART",
		currency:     "USD",
		nextOrderID:  1,
		pending:      make(map[int]*pendingFill),
	}
}

// ExecuteOrder implements Handler. It assigns the next order id and submits
// the order; the fill arrives later through HandleOrderStatus.
func (h *BrokerExecutionHandler) ExecuteOrder(order types.OrderEvent) error {
	if err := order.Validate(); err != nil {
		return err
	}

	contract := BrokerContract{
		Symbol:       order.Symbol,
		SecurityType: h.securityType,
		Exchange:     h.exchange,
		Currency:     h.currency,
	}

	h.mu.Lock()
	orderID := h.nextOrderID
	h.nextOrderID++
	h.mu.Unlock()

	if err := h.session.Submit(orderID, contract, BrokerOrder{
		OrderType: order.OrderType,
		Quantity:  order.Quantity,
		Side:      order.Side,
	}); err != nil {
		return errors.Wrapf(errors.ErrCodeBrokerSession, err, "failed to submit order %d for %s", orderID, order.Symbol)
	}

	h.log.Info("order submitted",
		zap.Int("order_id", orderID),
		zap.String("symbol", order.Symbol),
		zap.String("side", string(order.Side)),
		zap.Float64("quantity", order.Quantity),
	)

	return nil
}

// HandleOpenOrder registers a submitted order once the broker acknowledges
// it. Re-acknowledgements of a known order id are ignored so a later fill is
// not double counted.
func (h *BrokerExecutionHandler) HandleOpenOrder(orderID int, contract BrokerContract, order BrokerOrder) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.pending[orderID]; ok {
		return
	}

	h.pending[orderID] = &pendingFill{
		symbol:   contract.Symbol,
		exchange: contract.Exchange,
		side:     order.Side,
		quantity: order.Quantity,
		filled:   false,
	}
}

// HandleOrderStatus converts the first Filled status for an order into a
// FillEvent. Later duplicates for the same order id are ignored; statuses
// other than Filled only update the log.
func (h *BrokerExecutionHandler) HandleOrderStatus(orderID int, status string, fillPrice float64, fillTime time.Time) error {
	if status != OrderStatusFilled {
		h.log.Debug("order status", zap.Int("order_id", orderID), zap.String("status", status))

		return nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	record, ok := h.pending[orderID]
	if !ok {
		return errors.Newf(errors.ErrCodeUnknownOrderID, "status for unknown order id %d", orderID)
	}

	if record.filled {
		return nil
	}

	record.filled = true

	fill := types.FillEvent{
		Time:       fillTime,
		Symbol:     record.symbol,
		Exchange:   record.exchange,
		Quantity:   record.quantity,
		Side:       record.side,
		FillCost:   fillPrice,
		Commission: h.fees.Calculate(record.quantity),
	}

	if err := fill.Validate(); err != nil {
		return err
	}

	h.events.Push(fill)

	h.log.Info("order filled",
		zap.Int("order_id", orderID),
		zap.String("symbol", record.symbol),
		zap.Float64("fill_cost", fillPrice),
	)

	return nil
}

// HandleError records a broker-reported error for an order.
func (h *BrokerExecutionHandler) HandleError(orderID int, err error) {
	h.log.Error("broker error", zap.Int("order_id", orderID), zap.Error(err))
}
