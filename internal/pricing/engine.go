package pricing

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

var (
	one     = decimal.NewFromInt(1)
	twelve  = decimal.NewFromInt(12)
	hundred = decimal.NewFromInt(100)
)

// Quote is the display-ready price of one service for one billing period.
type Quote struct {
	Period    Period
	Display   decimal.Decimal
	Reference *decimal.Decimal // pre-discount price for strike-through, nil when there is none
	Currency  string
	Unit      string

	DiscountPercent     float64
	YearlySavingPercent float64
}

// HasReference reports whether a strike-through price should be shown.
func (q Quote) HasReference() bool {
	return q.Reference != nil
}

type quoteJSON struct {
	Period              Period       `json:"period"`
	DisplayPrice        json.Number  `json:"display_price"`
	ReferencePrice      *json.Number `json:"reference_price,omitempty"`
	Currency            string       `json:"currency"`
	Unit                string       `json:"unit"`
	DiscountPercent     float64      `json:"discount_percent"`
	YearlySavingPercent float64      `json:"yearly_saving_percent,omitempty"`
}

// MarshalJSON renders amounts as numbers: monthly figures with two decimals, whole
// yearly figures without.
func (q Quote) MarshalJSON() ([]byte, error) {
	out := quoteJSON{
		Period:              q.Period,
		DisplayPrice:        json.Number(formatAmount(q.Display, q.Period)),
		Currency:            q.Currency,
		Unit:                q.Unit,
		DiscountPercent:     q.DiscountPercent,
		YearlySavingPercent: q.YearlySavingPercent,
	}
	if q.Reference != nil {
		ref := json.Number(formatAmount(*q.Reference, q.Period))
		out.ReferencePrice = &ref
	}
	return json.Marshal(out)
}

func formatAmount(d decimal.Decimal, p Period) string {
	if p == Yearly && d.IsInteger() {
		return d.StringFixed(0)
	}
	return d.StringFixed(2)
}

// Engine computes quotes under one configured policy. It holds no mutable state and is
// safe for concurrent use.
type Engine struct {
	cfg        Config
	yearlyRate decimal.Decimal
}

// NewEngine validates cfg and builds an Engine.
func NewEngine(cfg Config) (*Engine, error) {
	policy, err := ParsePolicy(string(cfg.Policy))
	if err != nil {
		return nil, err
	}
	cfg.Policy = policy
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Engine{
		cfg:        cfg,
		yearlyRate: decimal.NewFromFloat(cfg.YearlyDiscountRate),
	}, nil
}

// Config returns the engine's configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// Quote prices a base monthly amount with a percentage discount for period.
// Invalid numbers are coerced, so Quote never fails.
func (e *Engine) Quote(price, discount float64, period Period) Quote {
	if period != Yearly {
		period = Monthly
	}
	pct := ClampDiscount(discount)
	base := decimal.NewFromFloat(Sanitize(price))
	keep := one.Sub(decimal.NewFromFloat(pct).Div(hundred))

	q := Quote{
		Period:          period,
		Currency:        e.cfg.Currency,
		Unit:            e.cfg.Unit,
		DiscountPercent: pct,
	}

	var display, reference decimal.Decimal
	hasReference := false

	switch {
	case period == Monthly:
		display = base.Mul(keep).Round(2)
		if pct > 0 {
			reference, hasReference = base, true
		}
	case e.cfg.Policy == PolicyFlatMultiplier:
		annual := base.Mul(keep).Mul(twelve)
		display = annual.Mul(keep).Round(0)
		reference, hasReference = annual.Round(2), true
		q.YearlySavingPercent = pct
	default:
		annual := base.Mul(twelve)
		display = annual.Mul(one.Sub(e.yearlyRate)).Round(0)
		reference, hasReference = annual.Round(2), true
		q.YearlySavingPercent = e.yearlyRate.Mul(hundred).InexactFloat64()
	}

	if hasReference {
		// rounding must never push the quoted price above the strike-through price
		display = decimal.Min(display, reference)
		q.Reference = &reference
	}
	q.Display = display
	return q
}
