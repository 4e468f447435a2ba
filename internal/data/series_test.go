package data

import (
	"testing"
	"time"

	"github.com/rxtech-lab/event-trading/internal/types"
	"github.com/stretchr/testify/suite"
)

type SeriesTestSuite struct {
	suite.Suite
}

func TestSeriesSuite(t *testing.T) {
	suite.Run(t, new(SeriesTestSuite))
}

func day(d int) time.Time {
	return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC)
}

func (suite *SeriesTestSuite) TestUnionIndexSorted() {
	series := map[string][]types.Bar{
		"A": {{Time: day(3)}, {Time: day(1)}},
		"B": {{Time: day(2)}, {Time: day(3)}},
	}

	index := unionIndex(series)
	suite.Equal([]time.Time{day(1), day(2), day(3)}, index)
}

func (suite *SeriesTestSuite) TestReindexForwardFill() {
	index := []time.Time{day(1), day(2), day(3), day(4)}
	bars := []types.Bar{
		{Time: day(2), Close: 20},
		{Time: day(4), Close: 40},
	}

	reindexed := reindexForwardFill(bars, index)
	suite.Require().Len(reindexed, 4)

	// Absent before the first real observation.
	suite.Nil(reindexed[0])

	suite.Require().NotNil(reindexed[1])
	suite.Equal(20.0, reindexed[1].Close)

	// Day 3 carries day 2's values forward, restamped onto the shared axis.
	suite.Require().NotNil(reindexed[2])
	suite.Equal(20.0, reindexed[2].Close)
	suite.Equal(day(3), reindexed[2].Time)

	suite.Require().NotNil(reindexed[3])
	suite.Equal(40.0, reindexed[3].Close)
}
