package types

import "time"

// EquityPoint is one finalized row of the equity curve, ready for export.
// EquityCurve is the cumulative return multiple normalized to 1.0 at the
// run's start; Drawdown is the decline from the running peak normalized by
// the peak.
type EquityPoint struct {
	Time        time.Time `csv:"datetime" yaml:"datetime" json:"datetime"`
	Cash        float64   `csv:"cash" yaml:"cash" json:"cash"`
	Commission  float64   `csv:"commission" yaml:"commission" json:"commission"`
	Total       float64   `csv:"total" yaml:"total" json:"total"`
	Returns     float64   `csv:"returns" yaml:"returns" json:"returns"`
	EquityCurve float64   `csv:"equity_curve" yaml:"equity_curve" json:"equity_curve"`
	Drawdown    float64   `csv:"drawdown" yaml:"drawdown" json:"drawdown"`
}
