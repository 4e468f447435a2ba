package data

import (
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/rxtech-lab/event-trading/internal/logger"
	"github.com/rxtech-lab/event-trading/internal/queue"
	"github.com/rxtech-lab/event-trading/internal/types"
	"github.com/rxtech-lab/event-trading/pkg/errors"
	"go.uber.org/zap"
)

// barRecord is the on-disk per-symbol bar file row. A header row is present;
// records are re-sorted ascending by date on load regardless of on-disk
// order.
type barRecord struct {
	Date     string  `csv:"date"`
	Open     float64 `csv:"open"`
	High     float64 `csv:"high"`
	Low      float64 `csv:"low"`
	Close    float64 `csv:"close"`
	Volume   float64 `csv:"volume"`
	AdjClose float64 `csv:"adj_close"`
}

// barDateLayouts are the accepted date formats for bar files, tried in order.
var barDateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// HistoricCSVDataHandler replays one CSV file per symbol as a synchronized
// bar stream. All symbols share one timestamp axis: the handler computes the
// union of every symbol's native timestamps and forward-fills each series
// onto that union, so every symbol reports at most one bar per shared
// timestep.
type HistoricCSVDataHandler struct {
	*barSeries

	events    *queue.EventQueue
	log       *logger.Logger
	streams   map[string][]*types.Bar
	index     []time.Time
	cursor    int
	exhausted bool
}

// NewHistoricCSVDataHandler loads `<symbol>.csv` from csvDir for every
// symbol. A missing or unreadable bar file is a configuration error and
// aborts startup.
func NewHistoricCSVDataHandler(events *queue.EventQueue, log *logger.Logger, csvDir string, symbols []string) (*HistoricCSVDataHandler, error) {
	if len(symbols) == 0 {
		return nil, errors.New(errors.ErrCodeNoSymbols, "no symbols to track")
	}

	native := make(map[string][]types.Bar, len(symbols))

	for _, symbol := range symbols {
		bars, err := loadBarFile(filepath.Join(csvDir, symbol+".csv"))
		if err != nil {
			return nil, errors.Wrapf(errors.ErrCodeMissingBarFile, err, "failed to load bar file for symbol %s", symbol)
		}

		native[symbol] = bars
	}

	index := unionIndex(native)

	streams := make(map[string][]*types.Bar, len(symbols))
	for _, symbol := range symbols {
		streams[symbol] = reindexForwardFill(native[symbol], index)
	}

	log.Info("historic bar files loaded",
		zap.Strings("symbols", symbols),
		zap.Int("timesteps", len(index)),
	)

	return &HistoricCSVDataHandler{
		barSeries: newBarSeries(symbols),
		events:    events,
		log:       log,
		streams:   streams,
		index:     index,
		cursor:    0,
		exhausted: false,
	}, nil
}

func loadBarFile(path string) ([]types.Bar, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var records []barRecord
	if err := gocsv.UnmarshalFile(file, &records); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidBarFile, "failed to parse bar file", err)
	}

	bars := make([]types.Bar, 0, len(records))

	for _, record := range records {
		ts, err := parseBarDate(record.Date)
		if err != nil {
			return nil, err
		}

		bars = append(bars, types.Bar{
			Time:     ts,
			Open:     record.Open,
			High:     record.High,
			Low:      record.Low,
			Close:    record.Close,
			Volume:   record.Volume,
			AdjClose: record.AdjClose,
		})
	}

	sort.Slice(bars, func(i, j int) bool {
		return bars[i].Time.Before(bars[j].Time)
	})

	return bars, nil
}

func parseBarDate(value string) (time.Time, error) {
	for _, layout := range barDateLayouts {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts, nil
		}
	}

	return time.Time{}, errors.Newf(errors.ErrCodeInvalidBarFile, "unparseable bar date %q", value)
}

// UpdateBars implements DataHandler. It advances every tracked symbol by one
// synchronized step, appending one bar per symbol that has an observation at
// this step, and emits exactly one MarketEvent. Once the union index is
// consumed, no event is emitted and the exhausted flag is permanently set.
func (h *HistoricCSVDataHandler) UpdateBars() error {
	if h.cursor >= len(h.index) {
		h.exhausted = true

		return nil
	}

	for _, symbol := range h.symbols {
		if bar := h.streams[symbol][h.cursor]; bar != nil {
			h.append(symbol, *bar)
		}
	}

	h.cursor++
	h.events.Push(types.MarketEvent{})

	return nil
}

// Exhausted implements DataHandler.
func (h *HistoricCSVDataHandler) Exhausted() bool {
	return h.exhausted
}

// TotalSteps returns the number of synchronized timesteps in the union
// index. The orchestrator uses it to size the progress bar.
func (h *HistoricCSVDataHandler) TotalSteps() int {
	return len(h.index)
}
