package data

import (
	"sort"
	"time"

	"github.com/rxtech-lab/event-trading/internal/types"
	"github.com/rxtech-lab/event-trading/pkg/errors"
)

// barSeries holds the observed bar history per symbol and answers the lookup
// half of the DataHandler capability set. Both the historic and the live
// handlers embed it; only the advancement logic differs between them.
type barSeries struct {
	symbols  []string
	observed map[string][]types.Bar
}

func newBarSeries(symbols []string) *barSeries {
	observed := make(map[string][]types.Bar, len(symbols))
	for _, symbol := range symbols {
		observed[symbol] = nil
	}

	return &barSeries{
		symbols:  symbols,
		observed: observed,
	}
}

// append records one more observed bar for the symbol. Observed history is
// append-only; bars are never revised.
func (s *barSeries) append(symbol string, bar types.Bar) {
	s.observed[symbol] = append(s.observed[symbol], bar)
}

func (s *barSeries) history(symbol string) ([]types.Bar, error) {
	bars, ok := s.observed[symbol]
	if !ok {
		return nil, errors.Newf(errors.ErrCodeSymbolNotFound, "symbol %s is not tracked", symbol)
	}

	return bars, nil
}

// Symbols implements DataHandler.
func (s *barSeries) Symbols() []string {
	return s.symbols
}

// LatestBar implements DataHandler.
func (s *barSeries) LatestBar(symbol string) (types.Bar, error) {
	bars, err := s.history(symbol)
	if err != nil {
		return types.Bar{}, err
	}

	if len(bars) == 0 {
		return types.Bar{}, errors.Newf(errors.ErrCodeNoBars, "no bars observed yet for symbol %s", symbol)
	}

	return bars[len(bars)-1], nil
}

// LatestBars implements DataHandler.
func (s *barSeries) LatestBars(symbol string, n int) ([]types.Bar, error) {
	bars, err := s.history(symbol)
	if err != nil {
		return nil, err
	}

	if n > len(bars) {
		n = len(bars)
	}

	if n <= 0 {
		return []types.Bar{}, nil
	}

	return bars[len(bars)-n:], nil
}

// LatestBarTime implements DataHandler.
func (s *barSeries) LatestBarTime(symbol string) (time.Time, error) {
	bar, err := s.LatestBar(symbol)
	if err != nil {
		return time.Time{}, err
	}

	return bar.Time, nil
}

// LatestBarValue implements DataHandler.
func (s *barSeries) LatestBarValue(symbol string, field types.BarField) (float64, error) {
	extract, err := field.Extractor()
	if err != nil {
		return 0, err
	}

	bar, err := s.LatestBar(symbol)
	if err != nil {
		return 0, err
	}

	return extract(bar), nil
}

// LatestBarsValues implements DataHandler.
func (s *barSeries) LatestBarsValues(symbol string, field types.BarField, n int) ([]float64, error) {
	extract, err := field.Extractor()
	if err != nil {
		return nil, err
	}

	bars, err := s.LatestBars(symbol, n)
	if err != nil {
		return nil, err
	}

	values := make([]float64, len(bars))
	for i, bar := range bars {
		values[i] = extract(bar)
	}

	return values, nil
}

// unionIndex computes the sorted union of every symbol's native timestamps.
func unionIndex(series map[string][]types.Bar) []time.Time {
	seen := make(map[time.Time]struct{})

	for _, bars := range series {
		for _, bar := range bars {
			seen[bar.Time] = struct{}{}
		}
	}

	index := make([]time.Time, 0, len(seen))
	for ts := range seen {
		index = append(index, ts)
	}

	sort.Slice(index, func(i, j int) bool {
		return index[i].Before(index[j])
	})

	return index
}

// reindexForwardFill maps a symbol's native series onto the union index,
// carrying the last known values forward for timestamps absent from the
// native source. Entries before the symbol's first real observation are nil.
func reindexForwardFill(bars []types.Bar, index []time.Time) []*types.Bar {
	reindexed := make([]*types.Bar, len(index))

	var last *types.Bar

	cursor := 0

	for i, ts := range index {
		for cursor < len(bars) && !bars[cursor].Time.After(ts) {
			last = &bars[cursor]
			cursor++
		}

		if last == nil {
			continue
		}

		filled := *last
		filled.Time = ts
		reindexed[i] = &filled
	}

	return reindexed
}
