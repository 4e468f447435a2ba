package data

import (
	"context"
	"strconv"
	"time"

	binance "github.com/adshao/go-binance/v2"
	"github.com/rxtech-lab/event-trading/internal/logger"
	"github.com/rxtech-lab/event-trading/internal/types"
	"github.com/rxtech-lab/event-trading/pkg/errors"
	"go.uber.org/zap"
)

// binanceMaxKlines is the Binance API page size limit per klines request.
const binanceMaxKlines = 500

// BinanceFeed fetches klines from the Binance REST API and delivers them as
// synchronized bar steps for a LiveDataHandler. Each symbol's klines are
// fetched with pagination, then aligned onto the union of open times with
// forward-fill, matching the historic handler's synchronization contract.
type BinanceFeed struct {
	client   *binance.Client
	log      *logger.Logger
	symbols  []string
	interval string
}

// NewBinanceFeed creates a feed for the given symbols and kline interval
// (e.g. "1m", "1d"). Public kline endpoints need no API credentials.
func NewBinanceFeed(log *logger.Logger, symbols []string, interval string) *BinanceFeed {
	return &BinanceFeed{
		client:   binance.NewClient("", ""),
		log:      log,
		symbols:  symbols,
		interval: interval,
	}
}

// Stream fetches klines for every symbol in [start, end], synchronizes them
// and sends one BarStep per shared timestep. The channel is closed when the
// range is delivered or the context is cancelled, which the consuming
// handler reports as exhaustion.
func (f *BinanceFeed) Stream(ctx context.Context, start, end time.Time, steps chan<- BarStep) error {
	defer close(steps)

	native := make(map[string][]types.Bar, len(f.symbols))

	for _, symbol := range f.symbols {
		bars, err := f.fetchKlines(ctx, symbol, start, end)
		if err != nil {
			return errors.Wrapf(errors.ErrCodeBrokerSession, err, "failed to fetch klines for %s", symbol)
		}

		f.log.Info("klines fetched",
			zap.String("symbol", symbol),
			zap.Int("bars", len(bars)),
		)

		native[symbol] = bars
	}

	index := unionIndex(native)

	streams := make(map[string][]*types.Bar, len(f.symbols))
	for _, symbol := range f.symbols {
		streams[symbol] = reindexForwardFill(native[symbol], index)
	}

	for i := range index {
		step := make(BarStep, len(f.symbols))

		for _, symbol := range f.symbols {
			if bar := streams[symbol][i]; bar != nil {
				step[symbol] = *bar
			}
		}

		select {
		case steps <- step:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	return nil
}

// fetchKlines pages through the klines endpoint, using the close time of the
// last kline plus one millisecond as the next start to avoid duplicates.
func (f *BinanceFeed) fetchKlines(ctx context.Context, symbol string, start, end time.Time) ([]types.Bar, error) {
	startMillis := start.UnixMilli()
	endMillis := end.UnixMilli()

	var bars []types.Bar

	currentStart := startMillis

	for {
		klines, err := f.client.NewKlinesService().
			Symbol(symbol).
			Interval(f.interval).
			StartTime(currentStart).
			EndTime(endMillis).
			Do(ctx)
		if err != nil {
			return nil, err
		}

		bars = append(bars, convertKlines(klines)...)

		if len(klines) < binanceMaxKlines {
			break
		}

		lastKline := klines[len(klines)-1]
		currentStart = lastKline.CloseTime + 1

		if currentStart >= endMillis {
			break
		}
	}

	return bars, nil
}

// convertKlines converts Binance kline rows to bars. Close is also used as
// the adjusted close: crypto pairs have no corporate actions to adjust for.
func convertKlines(klines []*binance.Kline) []types.Bar {
	bars := make([]types.Bar, 0, len(klines))

	for _, k := range klines {
		open, _ := strconv.ParseFloat(k.Open, 64)
		high, _ := strconv.ParseFloat(k.High, 64)
		low, _ := strconv.ParseFloat(k.Low, 64)
		closePrice, _ := strconv.ParseFloat(k.Close, 64)
		volume, _ := strconv.ParseFloat(k.Volume, 64)

		bars = append(bars, types.Bar{
			Time:     time.UnixMilli(k.OpenTime).UTC(),
			Open:     open,
			High:     high,
			Low:      low,
			Close:    closePrice,
			Volume:   volume,
			AdjClose: closePrice,
		})
	}

	return bars
}
