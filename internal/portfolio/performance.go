package portfolio

import (
	"math"

	"github.com/rxtech-lab/event-trading/internal/types"
	"github.com/rxtech-lab/event-trading/pkg/errors"
)

// EquityCurve finalizes the recorded snapshots into exportable rows: period
// returns (percentage change between consecutive totals), the cumulative
// return multiple normalized to 1.0 at the run's start, and the drawdown
// from the running peak normalized by the peak.
func (p *Portfolio) EquityCurve() ([]types.EquityPoint, error) {
	if len(p.snapshots) == 0 {
		return nil, errors.New(errors.ErrCodeBacktestFinalizeFailed, "no equity snapshots recorded")
	}

	points := make([]types.EquityPoint, len(p.snapshots))

	curve := 1.0
	peak := 1.0

	for i, snap := range p.snapshots {
		returns := 0.0
		if i > 0 && p.snapshots[i-1].Total != 0 {
			returns = snap.Total/p.snapshots[i-1].Total - 1
		}

		curve *= 1 + returns
		if curve > peak {
			peak = curve
		}

		drawdown := 0.0
		if peak != 0 {
			drawdown = (peak - curve) / peak
		}

		points[i] = types.EquityPoint{
			Time:        snap.Time,
			Cash:        snap.Cash,
			Commission:  snap.Commission,
			Total:       snap.Total,
			Returns:     returns,
			EquityCurve: curve,
			Drawdown:    drawdown,
		}
	}

	return points, nil
}

// SummaryStats computes the post-run statistics from the finalized curve:
// annualized Sharpe ratio of period returns, maximum drawdown with its
// duration, and total return.
func (p *Portfolio) SummaryStats(periodsPerYear float64) (types.SummaryStats, error) {
	points, err := p.EquityCurve()
	if err != nil {
		return types.SummaryStats{}, err
	}

	returns := make([]float64, 0, len(points)-1)
	for _, point := range points[1:] {
		returns = append(returns, point.Returns)
	}

	var maxDrawdown float64

	var drawdownDuration, currentDuration int

	for _, point := range points {
		if point.Drawdown > maxDrawdown {
			maxDrawdown = point.Drawdown
		}

		if point.Drawdown > 0 {
			currentDuration++
			if currentDuration > drawdownDuration {
				drawdownDuration = currentDuration
			}
		} else {
			currentDuration = 0
		}
	}

	return types.SummaryStats{
		Symbols:          p.bars.Symbols(),
		TotalReturn:      (points[len(points)-1].EquityCurve - 1) * 100,
		SharpeRatio:      sharpeRatio(returns, periodsPerYear),
		MaxDrawdown:      maxDrawdown,
		DrawdownDuration: drawdownDuration,
	}, nil
}

// sharpeRatio annualizes the mean over the population standard deviation of
// period returns, assuming a zero benchmark.
func sharpeRatio(returns []float64, periodsPerYear float64) float64 {
	if len(returns) == 0 {
		return 0
	}

	var sum float64
	for _, r := range returns {
		sum += r
	}

	mu := sum / float64(len(returns))

	var variance float64
	for _, r := range returns {
		variance += (r - mu) * (r - mu)
	}

	variance /= float64(len(returns))

	sigma := math.Sqrt(variance)
	if sigma == 0 {
		return 0
	}

	return math.Sqrt(periodsPerYear) * mu / sigma
}
