package types

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// EventCounts reports how many events of each kind the orchestrator
// dispatched over a full run.
type EventCounts struct {
	// Signals is the count of SignalEvents processed.
	Signals int `yaml:"signals"`
	// Orders is the count of OrderEvents processed.
	Orders int `yaml:"orders"`
	// Fills is the count of FillEvents processed.
	Fills int `yaml:"fills"`
}

// SummaryStats holds the post-run performance statistics computed from the
// finalized equity curve.
type SummaryStats struct {
	// ID is the unique identifier for this run.
	ID string `yaml:"id" json:"id"`
	// Timestamp is when this run was executed.
	Timestamp time.Time `yaml:"timestamp" json:"timestamp"`
	// Strategy is the name of the strategy that produced the run.
	Strategy string `yaml:"strategy"`
	// Symbols are the tracked symbols.
	Symbols []string `yaml:"symbols"`
	// TotalReturn is the cumulative return over the run, as a percentage.
	TotalReturn float64 `yaml:"total_return"`
	// SharpeRatio is the annualized Sharpe ratio of period returns.
	SharpeRatio float64 `yaml:"sharpe_ratio"`
	// MaxDrawdown is the largest peak-to-trough decline, as a fraction of
	// the peak.
	MaxDrawdown float64 `yaml:"max_drawdown"`
	// DrawdownDuration is the longest run of consecutive periods spent
	// below a previous peak.
	DrawdownDuration int `yaml:"drawdown_duration"`
	// Events counts the signals, orders and fills dispatched.
	Events EventCounts `yaml:"events"`
	// EquityCurvePath is the path of the exported equity curve CSV.
	EquityCurvePath string `yaml:"equity_curve_path"`
}

// WriteSummaryStats writes the run statistics to a YAML file.
func WriteSummaryStats(path string, stats SummaryStats) error {
	data, err := yaml.Marshal(stats)
	if err != nil {
		return fmt.Errorf("failed to marshal summary stats to YAML: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write summary stats to file: %w", err)
	}

	return nil
}
