package commission

// InteractiveBrokers approximates the IB fixed US equity schedule:
// 0.013 USD per share up to 500 shares, 0.008 per share beyond, with a
// 1.30 USD minimum per order.
type InteractiveBrokers struct{}

// NewInteractiveBrokers creates an IB fixed-schedule commission model.
func NewInteractiveBrokers() Model {
	return &InteractiveBrokers{}
}

func (c *InteractiveBrokers) Calculate(quantity float64) float64 {
	rate := 0.013
	if quantity > 500 {
		rate = 0.008
	}

	fee := rate * quantity
	if fee < 1.3 {
		return 1.3
	}

	return fee
}
