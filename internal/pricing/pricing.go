// Package pricing turns a service's base price and discount into the price quoted
// to customers for a billing period.
package pricing

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// Period is the billing cadence a quote is computed for.
type Period string

const (
	Monthly Period = "monthly"
	Yearly  Period = "yearly"
)

// ParsePeriod maps user input to a Period. Anything unrecognised is Monthly.
func ParsePeriod(s string) Period {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yearly", "year", "annual", "annually":
		return Yearly
	default:
		return Monthly
	}
}

// Policy selects how the yearly price is derived.
type Policy string

const (
	// PolicyFixedYearly bills twelve undiscounted months less a fixed yearly rate.
	PolicyFixedYearly Policy = "fixed_yearly"
	// PolicyFlatMultiplier applies the item discount to the monthly price and again to
	// the twelve-month total.
	PolicyFlatMultiplier Policy = "flat_multiplier"
)

var ErrInvalidConfig = errors.New("invalid pricing config")

// ParsePolicy accepts the configuration spelling of a policy.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(strings.ToLower(strings.TrimSpace(s))) {
	case "", PolicyFixedYearly:
		return PolicyFixedYearly, nil
	case PolicyFlatMultiplier:
		return PolicyFlatMultiplier, nil
	default:
		return "", fmt.Errorf("%w: unknown policy %q", ErrInvalidConfig, s)
	}
}

// Config holds the knobs of an Engine.
type Config struct {
	Policy             Policy
	YearlyDiscountRate float64 // fraction in [0,1], used by PolicyFixedYearly
	Currency           string
	Unit               string // default billing unit label, e.g. "month" or "hour"
}

// DefaultConfig is the storefront's standard pricing: 5% off when paying yearly.
func DefaultConfig() Config {
	return Config{
		Policy:             PolicyFixedYearly,
		YearlyDiscountRate: 0.05,
		Currency:           "BDT",
		Unit:               "month",
	}
}

// Validate reports configuration that would break the quote contract.
func (c Config) Validate() error {
	if _, err := ParsePolicy(string(c.Policy)); err != nil {
		return err
	}
	r := c.YearlyDiscountRate
	if math.IsNaN(r) || r < 0 || r > 1 {
		return fmt.Errorf("%w: yearly discount rate %v outside [0,1]", ErrInvalidConfig, r)
	}
	if strings.TrimSpace(c.Currency) == "" {
		return fmt.Errorf("%w: currency is required", ErrInvalidConfig)
	}
	return nil
}

// Sanitize coerces a numeric input to a usable amount: NaN, infinities and negative
// values become 0.
func Sanitize(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

// ClampDiscount sanitizes a percentage and caps it at 100.
func ClampDiscount(pct float64) float64 {
	pct = Sanitize(pct)
	if pct > 100 {
		return 100
	}
	return pct
}
