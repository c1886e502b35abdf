// Package core holds the domain types and pure computations of the
// life-admin service: the finance snapshot document, currency projection,
// and the dashboard statistics math.
package core

import "github.com/shopspring/decimal"

// DefaultUSDToINR is the fallback exchange rate used when no override is
// configured at process start.
const DefaultUSDToINR = 83.0

// Amount is a stored USD value paired with its INR projection. Stored state
// always remains in USD; the pair exists only in outgoing responses.
type Amount struct {
	USD float64 `json:"usd"`
	INR float64 `json:"inr"`
}

// Projector converts stored USD amounts to {usd, inr} pairs using a rate
// fixed at construction time.
type Projector struct {
	rate decimal.Decimal
}

// NewProjector builds a projector for the given USD→INR rate. A zero or
// negative rate falls back to the default constant.
func NewProjector(rate float64) Projector {
	if rate <= 0 {
		rate = DefaultUSDToINR
	}
	return Projector{rate: decimal.NewFromFloat(rate)}
}

// Project maps a USD amount to its {usd, inr} pair. Total over all finite
// inputs: zero and negative amounts project like any other value.
// inr = round(usd * rate * 100) / 100, half-up on the second decimal.
func (p Projector) Project(usd float64) Amount {
	inr, _ := decimal.NewFromFloat(usd).Mul(p.rate).Round(2).Float64()
	return Amount{USD: usd, INR: inr}
}

// Rate returns the configured rate as a float for logging.
func (p Projector) Rate() float64 {
	f, _ := p.rate.Float64()
	return f
}
