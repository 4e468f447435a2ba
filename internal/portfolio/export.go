package portfolio

import (
	"os"

	"github.com/gocarina/gocsv"
	"github.com/rxtech-lab/event-trading/pkg/errors"
)

// WriteEquityCurve exports the finalized equity curve as a CSV file with one
// timestamp-indexed row per timestep.
func (p *Portfolio) WriteEquityCurve(path string) error {
	points, err := p.EquityCurve()
	if err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeBacktestFinalizeFailed, "failed to create equity curve file", err)
	}
	defer file.Close()

	if err := gocsv.MarshalFile(&points, file); err != nil {
		return errors.Wrap(errors.ErrCodeBacktestFinalizeFailed, "failed to write equity curve", err)
	}

	return nil
}
