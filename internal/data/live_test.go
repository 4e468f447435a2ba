package data

import (
	"testing"
	"time"

	"github.com/rxtech-lab/event-trading/internal/logger"
	"github.com/rxtech-lab/event-trading/internal/queue"
	"github.com/rxtech-lab/event-trading/internal/types"
	"github.com/stretchr/testify/suite"
)

type LiveDataHandlerTestSuite struct {
	suite.Suite
	events *queue.EventQueue
	steps  chan BarStep
}

func TestLiveDataHandlerSuite(t *testing.T) {
	suite.Run(t, new(LiveDataHandlerTestSuite))
}

func (suite *LiveDataHandlerTestSuite) SetupTest() {
	suite.events = queue.NewEventQueue()
	suite.steps = make(chan BarStep, 8)
}

func (suite *LiveDataHandlerTestSuite) newHandler() *LiveDataHandler {
	handler, err := NewLiveDataHandler(suite.events, logger.NewNopLogger(), []string{"BTCUSDT"}, suite.steps)
	suite.Require().NoError(err)

	return handler
}

func (suite *LiveDataHandlerTestSuite) TestUpdateBarsConsumesStep() {
	handler := suite.newHandler()

	ts := time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC)
	suite.steps <- BarStep{"BTCUSDT": {Time: ts, Close: 42000, AdjClose: 42000}}

	suite.Require().NoError(handler.UpdateBars())
	suite.Equal(1, suite.events.Len())

	bar, err := handler.LatestBar("BTCUSDT")
	suite.NoError(err)
	suite.Equal(42000.0, bar.Close)
	suite.Equal(ts, bar.Time)
}

func (suite *LiveDataHandlerTestSuite) TestClosedFeedSignalsExhaustion() {
	handler := suite.newHandler()
	close(suite.steps)

	suite.Require().NoError(handler.UpdateBars())
	suite.True(handler.Exhausted())
	suite.Equal(0, suite.events.Len())
}

func (suite *LiveDataHandlerTestSuite) TestSameCapabilitySetAsHistoric() {
	handler := suite.newHandler()

	for i := 0; i < 3; i++ {
		suite.steps <- BarStep{"BTCUSDT": {
			Time:     time.Date(2024, 1, 2, 10, i, 0, 0, time.UTC),
			Close:    float64(100 + i),
			AdjClose: float64(100 + i),
		}}
		suite.Require().NoError(handler.UpdateBars())
	}

	values, err := handler.LatestBarsValues("BTCUSDT", types.BarFieldClose, 10)
	suite.NoError(err)
	suite.Equal([]float64{100, 101, 102}, values)
}
