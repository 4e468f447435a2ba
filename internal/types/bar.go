package types

import (
	"time"

	"github.com/rxtech-lab/event-trading/pkg/errors"
)

// Bar is one OHLCV(+adjusted close) observation for a symbol at a timestamp.
// Bars are immutable once created; a bar appended to a symbol's observed
// history is never revised.
type Bar struct {
	Time     time.Time `csv:"datetime" yaml:"datetime" json:"datetime"`
	Open     float64   `csv:"open" yaml:"open" json:"open"`
	High     float64   `csv:"high" yaml:"high" json:"high"`
	Low      float64   `csv:"low" yaml:"low" json:"low"`
	Close    float64   `csv:"close" yaml:"close" json:"close"`
	Volume   float64   `csv:"volume" yaml:"volume" json:"volume"`
	AdjClose float64   `csv:"adj_close" yaml:"adj_close" json:"adj_close"`
}

// BarField names a single numeric field of a Bar.
type BarField string

const (
	BarFieldOpen     BarField = "open"
	BarFieldHigh     BarField = "high"
	BarFieldLow      BarField = "low"
	BarFieldClose    BarField = "close"
	BarFieldVolume   BarField = "volume"
	BarFieldAdjClose BarField = "adj_close"
)

// barExtractors maps every recognized field to its extraction function. The
// set is closed: unrecognized names fail at resolution time, not at the
// point of use.
var barExtractors = map[BarField]func(Bar) float64{
	BarFieldOpen:     func(b Bar) float64 { return b.Open },
	BarFieldHigh:     func(b Bar) float64 { return b.High },
	BarFieldLow:      func(b Bar) float64 { return b.Low },
	BarFieldClose:    func(b Bar) float64 { return b.Close },
	BarFieldVolume:   func(b Bar) float64 { return b.Volume },
	BarFieldAdjClose: func(b Bar) float64 { return b.AdjClose },
}

// Extractor resolves the field to its extraction function.
func (f BarField) Extractor() (func(Bar) float64, error) {
	extractor, ok := barExtractors[f]
	if !ok {
		return nil, errors.Newf(errors.ErrCodeInvalidField, "unrecognized bar field %q", string(f))
	}

	return extractor, nil
}

// ParseBarField validates a field name supplied by configuration.
func ParseBarField(name string) (BarField, error) {
	field := BarField(name)
	if _, ok := barExtractors[field]; !ok {
		return "", errors.Newf(errors.ErrCodeInvalidField, "unrecognized bar field %q", name)
	}

	return field, nil
}
