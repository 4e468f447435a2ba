// Package refdata stores the symbol universe a backtest can draw from.
package refdata

import "time"

// Symbol is one tradable instrument in the universe.
type Symbol struct {
	Ticker     string    `yaml:"ticker" json:"ticker" csv:"ticker" validate:"required"`
	Instrument string    `yaml:"instrument" json:"instrument" csv:"instrument"`
	Name       string    `yaml:"name" json:"name" csv:"name"`
	Sector     string    `yaml:"sector" json:"sector" csv:"sector"`
	Exchange   string    `yaml:"exchange" json:"exchange" csv:"exchange" validate:"required"`
	Currency   string    `yaml:"currency" json:"currency" csv:"currency" validate:"required"`
	CreatedAt  time.Time `yaml:"created_at" json:"created_at" csv:"-"`
	UpdatedAt  time.Time `yaml:"updated_at" json:"updated_at" csv:"-"`
}
