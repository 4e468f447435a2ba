// Package commission prices the transaction cost charged on a fill.
package commission

// Model calculates the commission fee in USD for a given fill quantity.
type Model interface {
	Calculate(quantity float64) float64
}

// Scheme selects a commission model by name.
type Scheme string

const (
	SchemeInteractiveBrokers Scheme = "interactive_brokers"
	SchemeZero               Scheme = "zero"
)

var AllSchemes = []any{
	SchemeInteractiveBrokers,
	SchemeZero,
}

// GetModel returns the model for the scheme, defaulting to zero commission.
func GetModel(scheme Scheme) Model {
	switch scheme {
	case SchemeInteractiveBrokers:
		return NewInteractiveBrokers()
	case SchemeZero:
		return NewZero()
	default:
		return NewZero()
	}
}
