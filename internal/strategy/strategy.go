// Package strategy contains the signal-generating half of the trading
// pipeline. A strategy consumes MarketEvents, reads bars from the data
// handler and pushes SignalEvents onto the event queue; it never touches
// positions or cash directly.
package strategy

import (
	"github.com/rxtech-lab/event-trading/internal/types"
)

// Strategy is the single-operation interface every strategy implements.
// CalculateSignals is invoked on every dispatched event but acts only on
// MarketEvents; it is a pure function of internal state (windows, flags)
// plus data handler reads, and emits zero or more SignalEvents onto the
// queue.
type Strategy interface {
	// Name identifies the strategy in signals and run statistics.
	Name() string
	// CalculateSignals processes one event from the orchestrator.
	CalculateSignals(event types.Event) error
}
