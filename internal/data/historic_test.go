package data

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rxtech-lab/event-trading/internal/logger"
	"github.com/rxtech-lab/event-trading/internal/queue"
	"github.com/rxtech-lab/event-trading/internal/types"
	"github.com/rxtech-lab/event-trading/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type HistoricDataHandlerTestSuite struct {
	suite.Suite
	dir    string
	events *queue.EventQueue
	log    *logger.Logger
}

func TestHistoricDataHandlerSuite(t *testing.T) {
	suite.Run(t, new(HistoricDataHandlerTestSuite))
}

func (suite *HistoricDataHandlerTestSuite) SetupTest() {
	suite.dir = suite.T().TempDir()
	suite.events = queue.NewEventQueue()
	suite.log = logger.NewNopLogger()
}

func (suite *HistoricDataHandlerTestSuite) writeBarFile(symbol, content string) {
	path := filepath.Join(suite.dir, symbol+".csv")
	err := os.WriteFile(path, []byte(content), 0644)
	suite.Require().NoError(err)
}

// AAPL has bars on days 1-5; GOOG is missing day 3 so its day-2 bar must be
// carried forward onto the shared axis.
func (suite *HistoricDataHandlerTestSuite) writeFixtures() {
	suite.writeBarFile("AAPL", `date,open,high,low,close,volume,adj_close
2024-01-01,10,11,9,10.5,1000,10.4
2024-01-02,10.5,12,10,11.5,1100,11.4
2024-01-03,11.5,12,11,11.8,1200,11.7
2024-01-04,11.8,13,11,12.5,1300,12.4
2024-01-05,12.5,13,12,12.9,1400,12.8
`)
	suite.writeBarFile("GOOG", `date,open,high,low,close,volume,adj_close
2024-01-01,100,101,99,100.5,5000,100.2
2024-01-02,100.5,102,100,101.5,5100,101.2
2024-01-04,101.5,103,101,102.5,5300,102.2
2024-01-05,102.5,104,102,103.5,5400,103.2
`)
}

func (suite *HistoricDataHandlerTestSuite) newHandler() *HistoricCSVDataHandler {
	suite.writeFixtures()

	handler, err := NewHistoricCSVDataHandler(suite.events, suite.log, suite.dir, []string{"AAPL", "GOOG"})
	suite.Require().NoError(err)

	return handler
}

func (suite *HistoricDataHandlerTestSuite) advance(handler *HistoricCSVDataHandler, steps int) {
	for i := 0; i < steps; i++ {
		suite.Require().NoError(handler.UpdateBars())
	}
}

func (suite *HistoricDataHandlerTestSuite) TestMissingBarFileIsConfigurationError() {
	suite.writeBarFile("AAPL", "date,open,high,low,close,volume,adj_close\n2024-01-01,1,1,1,1,1,1\n")

	_, err := NewHistoricCSVDataHandler(suite.events, suite.log, suite.dir, []string{"AAPL", "MSFT"})
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeMissingBarFile))
}

func (suite *HistoricDataHandlerTestSuite) TestNoSymbols() {
	_, err := NewHistoricCSVDataHandler(suite.events, suite.log, suite.dir, nil)
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeNoSymbols))
}

func (suite *HistoricDataHandlerTestSuite) TestRecordsSortedOnLoad() {
	// Bars deliberately out of order on disk.
	suite.writeBarFile("AAPL", `date,open,high,low,close,volume,adj_close
2024-01-03,3,3,3,3,3,3
2024-01-01,1,1,1,1,1,1
2024-01-02,2,2,2,2,2,2
`)

	handler, err := NewHistoricCSVDataHandler(suite.events, suite.log, suite.dir, []string{"AAPL"})
	suite.Require().NoError(err)

	suite.advance(handler, 3)

	values, err := handler.LatestBarsValues("AAPL", types.BarFieldClose, 3)
	suite.NoError(err)
	suite.Equal([]float64{1, 2, 3}, values)
}

func (suite *HistoricDataHandlerTestSuite) TestUpdateBarsEmitsOneMarketEventPerStep() {
	handler := suite.newHandler()

	suite.Require().NoError(handler.UpdateBars())
	suite.Equal(1, suite.events.Len())

	event, ok := suite.events.Pop()
	suite.True(ok)
	suite.Equal(types.EventTypeMarket, event.EventType())
}

func (suite *HistoricDataHandlerTestSuite) TestForwardFillInvariant() {
	handler := suite.newHandler()

	// Day 3 is absent from GOOG's native series; its day-2 close must be
	// carried forward, stamped with the shared timestamp.
	suite.advance(handler, 3)

	bar, err := handler.LatestBar("GOOG")
	suite.NoError(err)
	suite.Equal(time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC), bar.Time)
	suite.Equal(101.5, bar.Close)

	aapl, err := handler.LatestBar("AAPL")
	suite.NoError(err)
	suite.Equal(11.8, aapl.Close)
	suite.Equal(bar.Time, aapl.Time)
}

func (suite *HistoricDataHandlerTestSuite) TestLatestBarsValuesMinNAvailable() {
	handler := suite.newHandler()
	suite.advance(handler, 2)

	// More requested than available: returns available, no error.
	values, err := handler.LatestBarsValues("AAPL", types.BarFieldAdjClose, 10)
	suite.NoError(err)
	suite.Equal([]float64{10.4, 11.4}, values)

	// Fewer requested than available: returns last N, chronological.
	suite.advance(handler, 2)

	values, err = handler.LatestBarsValues("AAPL", types.BarFieldAdjClose, 2)
	suite.NoError(err)
	suite.Equal([]float64{11.7, 12.4}, values)
}

func (suite *HistoricDataHandlerTestSuite) TestLatestBarsValuesEmptyBeforeFirstStep() {
	handler := suite.newHandler()

	values, err := handler.LatestBarsValues("AAPL", types.BarFieldClose, 5)
	suite.NoError(err)
	suite.Empty(values)
}

func (suite *HistoricDataHandlerTestSuite) TestUntrackedSymbolLookup() {
	handler := suite.newHandler()
	suite.advance(handler, 1)

	_, err := handler.LatestBar("MSFT")
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeSymbolNotFound))

	_, err = handler.LatestBarsValues("MSFT", types.BarFieldClose, 1)
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeSymbolNotFound))
}

func (suite *HistoricDataHandlerTestSuite) TestInvalidFieldLookup() {
	handler := suite.newHandler()
	suite.advance(handler, 1)

	_, err := handler.LatestBarValue("AAPL", types.BarField("open_interest"))
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidField))
}

func (suite *HistoricDataHandlerTestSuite) TestExhaustion() {
	handler := suite.newHandler()

	suite.Equal(5, handler.TotalSteps())
	suite.advance(handler, 5)
	suite.False(handler.Exhausted())
	suite.Equal(5, suite.events.Len())

	// The sixth call finds the union index consumed: no event, flag set.
	suite.Require().NoError(handler.UpdateBars())
	suite.True(handler.Exhausted())
	suite.Equal(5, suite.events.Len())

	// The flag is permanent.
	suite.Require().NoError(handler.UpdateBars())
	suite.True(handler.Exhausted())
}

func (suite *HistoricDataHandlerTestSuite) TestLatestBarTime() {
	handler := suite.newHandler()
	suite.advance(handler, 2)

	ts, err := handler.LatestBarTime("GOOG")
	suite.NoError(err)
	suite.Equal(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), ts)
}
