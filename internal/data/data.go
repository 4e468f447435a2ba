// Package data supplies synchronized bars to the rest of the trading
// pipeline. A historic handler replays CSV files and a live handler consumes
// a feed, but both expose the same capability set so strategy code runs
// unmodified against either.
package data

import (
	"time"

	"github.com/rxtech-lab/event-trading/internal/types"
)

// DataHandler is the capability set every bar source must provide. Each call
// to UpdateBars advances every tracked symbol by exactly one synchronized
// timestep and emits exactly one MarketEvent, unless the underlying series
// is exhausted, in which case no event is emitted and Exhausted reports true
// permanently.
type DataHandler interface {
	// Symbols returns the tracked symbols.
	Symbols() []string
	// LatestBar returns the most recent bar observed for the symbol.
	LatestBar(symbol string) (types.Bar, error)
	// LatestBars returns the most recent min(n, available) bars in
	// chronological order. Insufficient history is not an error.
	LatestBars(symbol string, n int) ([]types.Bar, error)
	// LatestBarTime returns the timestamp of the most recent bar.
	LatestBarTime(symbol string) (time.Time, error)
	// LatestBarValue returns the named field of the most recent bar.
	LatestBarValue(symbol string, field types.BarField) (float64, error)
	// LatestBarsValues returns the named field of the most recent
	// min(n, available) bars in chronological order. Insufficient history
	// yields a shorter (possibly empty) slice, never an error.
	LatestBarsValues(symbol string, field types.BarField, n int) ([]float64, error)
	// UpdateBars advances one synchronized timestep.
	UpdateBars() error
	// Exhausted reports whether the source has no further bars. Exhaustion
	// is a normal termination signal, not an error.
	Exhausted() bool
}
