package commission

// Zero implements Model with no transaction cost.
type Zero struct{}

// NewZero creates a zero commission model.
func NewZero() Model {
	return &Zero{}
}

// Calculate returns 0 for any quantity.
func (c *Zero) Calculate(quantity float64) float64 {
	return 0.0
}
