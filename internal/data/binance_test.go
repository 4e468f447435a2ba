package data

import (
	"testing"
	"time"

	binance "github.com/adshao/go-binance/v2"
	"github.com/stretchr/testify/suite"
)

type BinanceFeedTestSuite struct {
	suite.Suite
}

func TestBinanceFeedSuite(t *testing.T) {
	suite.Run(t, new(BinanceFeedTestSuite))
}

func (suite *BinanceFeedTestSuite) TestConvertKlines() {
	openTime := time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC)

	klines := []*binance.Kline{
		{
			OpenTime: openTime.UnixMilli(),
			Open:     "42000.5",
			High:     "42100.0",
			Low:      "41900.25",
			Close:    "42050.75",
			Volume:   "12.5",
		},
	}

	bars := convertKlines(klines)
	suite.Require().Len(bars, 1)
	suite.Equal(openTime, bars[0].Time)
	suite.Equal(42000.5, bars[0].Open)
	suite.Equal(42100.0, bars[0].High)
	suite.Equal(41900.25, bars[0].Low)
	suite.Equal(42050.75, bars[0].Close)
	suite.Equal(12.5, bars[0].Volume)
	// Adjusted close mirrors close for crypto pairs.
	suite.Equal(42050.75, bars[0].AdjClose)
}

func (suite *BinanceFeedTestSuite) TestConvertKlinesEmpty() {
	suite.Empty(convertKlines(nil))
}
