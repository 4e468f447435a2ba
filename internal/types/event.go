package types

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rxtech-lab/event-trading/pkg/errors"
)

// EventType tags the closed set of events flowing through the pipeline.
type EventType string

const (
	EventTypeMarket EventType = "MARKET"
	EventTypeSignal EventType = "SIGNAL"
	EventTypeOrder  EventType = "ORDER"
	EventTypeFill   EventType = "FILL"
)

// Event is the closed tagged variant dispatched by the orchestrator. Events
// are immutable once created.
type Event interface {
	// EventType returns the tag used for dispatch.
	EventType() EventType
}

// SignalDirection is a strategy's directional opinion.
type SignalDirection string

const (
	SignalDirectionLong  SignalDirection = "LONG"
	SignalDirectionShort SignalDirection = "SHORT"
	SignalDirectionExit  SignalDirection = "EXIT"
)

// OrderSide is the side of an order.
type OrderSide string

const (
	OrderSideBuy  OrderSide = "BUY"
	OrderSideSell OrderSide = "SELL"
)

// OrderType is the execution style of an order.
type OrderType string

const (
	OrderTypeMarket OrderType = "MARKET"
	OrderTypeLimit  OrderType = "LIMIT"
)

// MarketEvent signals that a new synchronized timestep is available. It
// carries no payload; roles read the latest bars from the data handler.
type MarketEvent struct{}

// EventType implements Event.
func (e MarketEvent) EventType() EventType { return EventTypeMarket }

// SignalEvent is a strategy's directional opinion for one symbol with a
// relative sizing weight.
type SignalEvent struct {
	// StrategyID identifies the strategy that emitted the signal.
	StrategyID string `yaml:"strategy_id" json:"strategy_id" validate:"required"`
	// Symbol is the ticker the signal applies to.
	Symbol string `yaml:"symbol" json:"symbol" validate:"required"`
	// Time is the market data time at which the signal was generated.
	Time time.Time `yaml:"time" json:"time" validate:"required"`
	// Direction is LONG, SHORT or EXIT.
	Direction SignalDirection `yaml:"direction" json:"direction" validate:"required,oneof=LONG SHORT EXIT"`
	// Strength is the relative sizing weight, 1.0 meaning full size.
	Strength float64 `yaml:"strength" json:"strength" validate:"gt=0"`
}

// EventType implements Event.
func (e SignalEvent) EventType() EventType { return EventTypeSignal }

// Validate validates the SignalEvent struct.
func (e *SignalEvent) Validate() error {
	validate := validator.New()
	if err := validate.Struct(e); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidSignal, "invalid signal event", err)
	}

	return nil
}

// OrderEvent instructs the execution handler to transact a quantity of a
// symbol.
type OrderEvent struct {
	Symbol    string    `yaml:"symbol" json:"symbol" validate:"required"`
	OrderType OrderType `yaml:"order_type" json:"order_type" validate:"required,oneof=MARKET LIMIT"`
	Quantity  float64   `yaml:"quantity" json:"quantity" validate:"required,gt=0"`
	Side      OrderSide `yaml:"side" json:"side" validate:"required,oneof=BUY SELL"`
}

// EventType implements Event.
func (e OrderEvent) EventType() EventType { return EventTypeOrder }

// Validate validates the OrderEvent struct.
func (e *OrderEvent) Validate() error {
	validate := validator.New()
	if err := validate.Struct(e); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidOrder, "invalid order event", err)
	}

	return nil
}

// FillEvent is the realized outcome of an order: the quantity executed, the
// per-unit cost and the commission charged. Only fill application mutates
// portfolio cash and positions.
type FillEvent struct {
	Time     time.Time `yaml:"time" json:"time" validate:"required"`
	Symbol   string    `yaml:"symbol" json:"symbol" validate:"required"`
	Exchange string    `yaml:"exchange" json:"exchange" validate:"required"`
	Quantity float64   `yaml:"quantity" json:"quantity" validate:"required,gt=0"`
	Side     OrderSide `yaml:"side" json:"side" validate:"required,oneof=BUY SELL"`
	// FillCost is the per-unit execution price.
	FillCost   float64 `yaml:"fill_cost" json:"fill_cost" validate:"gte=0"`
	Commission float64 `yaml:"commission" json:"commission" validate:"gte=0"`
}

// EventType implements Event.
func (e FillEvent) EventType() EventType { return EventTypeFill }

// Validate validates the FillEvent struct.
func (e *FillEvent) Validate() error {
	validate := validator.New()
	if err := validate.Struct(e); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidFill, "invalid fill event", err)
	}

	return nil
}
