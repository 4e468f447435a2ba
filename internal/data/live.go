package data

import (
	"github.com/rxtech-lab/event-trading/internal/logger"
	"github.com/rxtech-lab/event-trading/internal/queue"
	"github.com/rxtech-lab/event-trading/internal/types"
	"github.com/rxtech-lab/event-trading/pkg/errors"
)

// BarStep is one synchronized timestep delivered by a feed: at most one bar
// per tracked symbol.
type BarStep map[string]types.Bar

// LiveDataHandler consumes synchronized bar steps from a feed channel and
// exposes them through the same capability set as the historic handler, so
// strategy code runs against a live feed unmodified. Closing the feed
// channel signals exhaustion.
type LiveDataHandler struct {
	*barSeries

	events    *queue.EventQueue
	log       *logger.Logger
	steps     <-chan BarStep
	exhausted bool
}

// NewLiveDataHandler creates a handler reading synchronized steps from the
// given channel.
func NewLiveDataHandler(events *queue.EventQueue, log *logger.Logger, symbols []string, steps <-chan BarStep) (*LiveDataHandler, error) {
	if len(symbols) == 0 {
		return nil, errors.New(errors.ErrCodeNoSymbols, "no symbols to track")
	}

	return &LiveDataHandler{
		barSeries: newBarSeries(symbols),
		events:    events,
		log:       log,
		steps:     steps,
		exhausted: false,
	}, nil
}

// UpdateBars implements DataHandler. It blocks until the feed delivers the
// next synchronized step, appends the step's bars to the observed histories
// and emits one MarketEvent. A closed feed channel sets the exhausted flag
// and emits nothing.
func (h *LiveDataHandler) UpdateBars() error {
	step, ok := <-h.steps
	if !ok {
		h.exhausted = true

		return nil
	}

	for _, symbol := range h.symbols {
		if bar, ok := step[symbol]; ok {
			h.append(symbol, bar)
		}
	}

	h.events.Push(types.MarketEvent{})

	return nil
}

// Exhausted implements DataHandler.
func (h *LiveDataHandler) Exhausted() bool {
	return h.exhausted
}
