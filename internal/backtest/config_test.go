package backtest

import (
	"os"
	"path/filepath"
	"time"

	"github.com/rxtech-lab/event-trading/internal/execution/commission"
	"github.com/rxtech-lab/event-trading/pkg/errors"
)

func (suite *BacktestTestSuite) writeConfigFile(content string) string {
	path := filepath.Join(suite.T().TempDir(), "config.yaml")
	suite.Require().NoError(os.WriteFile(path, []byte(content), 0o644))

	return path
}

func (suite *BacktestTestSuite) TestDefaultConfigIsValid() {
	config := DefaultConfig()
	suite.NoError(config.Validate())
	suite.Equal(commission.SchemeZero, config.Commission)
	suite.True(config.StartTime.IsNone())
	suite.True(config.EndTime.IsNone())
}

func (suite *BacktestTestSuite) TestLoadConfig() {
	path := suite.writeConfigFile(`
initial_capital: 50000
order_size: 25
commission: interactive_brokers
heartbeat_seconds: 0.5
periods_per_year: 252
output_dir: out
start_time: 2024-01-02T00:00:00Z
`)

	config, err := LoadConfig(path)
	suite.Require().NoError(err)
	suite.Equal(50000.0, config.InitialCapital)
	suite.Equal(25.0, config.OrderSize)
	suite.Equal(commission.SchemeInteractiveBrokers, config.Commission)
	suite.Equal(0.5, config.HeartbeatSeconds)
	suite.Equal("out", config.OutputDir)
	suite.True(config.StartTime.IsSome())
	suite.Equal(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), config.StartTime.Unwrap())
	suite.True(config.EndTime.IsNone())
}

func (suite *BacktestTestSuite) TestLoadConfigRejectsInvalidValues() {
	path := suite.writeConfigFile(`
initial_capital: -1
order_size: 25
`)

	_, err := LoadConfig(path)
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidConfiguration))
}

func (suite *BacktestTestSuite) TestLoadConfigMissingFile() {
	_, err := LoadConfig(filepath.Join(suite.T().TempDir(), "missing.yaml"))
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidConfiguration))
}

func (suite *BacktestTestSuite) TestGenerateSchemaJSON() {
	config := DefaultConfig()

	schema, err := config.GenerateSchemaJSON()
	suite.Require().NoError(err)
	suite.Contains(schema, "initial_capital")
	suite.Contains(schema, "periods_per_year")
	suite.Contains(schema, "interactive_brokers")
}
