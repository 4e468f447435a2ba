package portfolio

import (
	"os"
	"path/filepath"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/rxtech-lab/event-trading/internal/types"
	"github.com/rxtech-lab/event-trading/pkg/errors"
)

func (suite *PortfolioTestSuite) TestEquityCurveBeforeAnySnapshot() {
	_, err := suite.portfolio.EquityCurve()
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeBacktestFinalizeFailed))
}

// runScenario records four equity snapshots: flat, +1%, a dip and a
// recovery past the previous peak.
func (suite *PortfolioTestSuite) runScenario() {
	suite.pushStep(0, 100, 200)
	suite.Require().NoError(suite.portfolio.UpdateTimeIndex(types.MarketEvent{}))

	suite.Require().NoError(suite.portfolio.UpdateFill(types.FillEvent{
		Time: time.Now(), Symbol: "AAPL", Exchange: "SIM", Quantity: 100,
		Side: types.OrderSideBuy, FillCost: 100,
	}))

	for i, price := range []float64{110, 99, 120} {
		suite.pushStep(i+1, price, 200)
		suite.Require().NoError(suite.portfolio.UpdateTimeIndex(types.MarketEvent{}))
	}
}

func (suite *PortfolioTestSuite) TestEquityCurveMath() {
	suite.runScenario()

	points, err := suite.portfolio.EquityCurve()
	suite.Require().NoError(err)
	suite.Require().Len(points, 4)

	// First row carries no return and an unchanged curve.
	suite.Equal(0.0, points[0].Returns)
	suite.InDelta(1.0, points[0].EquityCurve, 1e-9)
	suite.Equal(0.0, points[0].Drawdown)

	// Bought 100 @ 100 against 100000, marked at 110: total 101000.
	suite.InDelta(101000, points[1].Total, 1e-9)
	suite.InDelta(0.01, points[1].Returns, 1e-9)
	suite.InDelta(1.01, points[1].EquityCurve, 1e-9)
	suite.Equal(0.0, points[1].Drawdown)

	// Dip to 99: total 99900, drawdown measured from the 1.01 peak.
	suite.InDelta(99900, points[2].Total, 1e-9)
	suite.InDelta(0.999, points[2].EquityCurve, 1e-9)
	suite.InDelta((1.01-0.999)/1.01, points[2].Drawdown, 1e-9)

	// Recovery past the peak: total 102000, drawdown closes.
	suite.InDelta(1.02, points[3].EquityCurve, 1e-9)
	suite.Equal(0.0, points[3].Drawdown)
}

func (suite *PortfolioTestSuite) TestSummaryStats() {
	suite.runScenario()

	stats, err := suite.portfolio.SummaryStats(252)
	suite.Require().NoError(err)

	suite.ElementsMatch([]string{"AAPL", "GOOG"}, stats.Symbols)
	suite.InDelta(2.0, stats.TotalReturn, 1e-9)
	suite.InDelta((1.01-0.999)/1.01, stats.MaxDrawdown, 1e-9)
	suite.Equal(1, stats.DrawdownDuration)
	suite.NotZero(stats.SharpeRatio)
}

func (suite *PortfolioTestSuite) TestSharpeRatio() {
	// mean 0.02, population std sqrt(2e-4/3)
	got := sharpeRatio([]float64{0.01, 0.02, 0.03}, 252)
	suite.InDelta(38.8845, got, 1e-3)

	suite.Equal(0.0, sharpeRatio(nil, 252))
	suite.Equal(0.0, sharpeRatio([]float64{0.01, 0.01}, 252))
}

func (suite *PortfolioTestSuite) TestWriteEquityCurve() {
	suite.runScenario()

	path := filepath.Join(suite.T().TempDir(), "equity.csv")
	suite.Require().NoError(suite.portfolio.WriteEquityCurve(path))

	file, err := os.Open(path)
	suite.Require().NoError(err)
	defer file.Close()

	var points []types.EquityPoint
	suite.Require().NoError(gocsv.UnmarshalFile(file, &points))
	suite.Require().Len(points, 4)
	suite.InDelta(102000, points[3].Total, 1e-9)
}
