package models

import "github.com/shopspring/decimal"

// PriceInfo is the effective/marked price pair for one (slug, size, pincode)
// combination, in the platform's currency.
type PriceInfo struct {
	Effective      decimal.Decimal `json:"effective"`
	Marked         decimal.Decimal `json:"marked"`
	CurrencyCode   string          `json:"currency_code"`
	CurrencySymbol string          `json:"currency_symbol"`
}

// DiscountPercent returns the marked-vs-effective discount as a percentage,
// zero when the marked price is zero or not higher than the effective price.
func (p PriceInfo) DiscountPercent() decimal.Decimal {
	if p.Marked.IsZero() || p.Marked.LessThanOrEqual(p.Effective) {
		return decimal.Zero
	}
	diff := p.Marked.Sub(p.Effective)
	return diff.Mul(decimal.NewFromInt(100)).Div(p.Marked).Round(0)
}

type Seller struct {
	UID   int    `json:"uid"`
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type Store struct {
	UID   int    `json:"uid"`
	Name  string `json:"name"`
	City  string `json:"city"`
	Count int    `json:"count"`
}

type ReturnConfig struct {
	Returnable bool   `json:"returnable"`
	Time       int    `json:"time"`
	Unit       string `json:"unit"`
}

// SizeBasedPrice is the per-size price snapshot resolved for a
// (slug, size, pincode) triple. Last fetch wins; it is never cached across
// input changes.
type SizeBasedPrice struct {
	Price        PriceInfo     `json:"price"`
	ReturnConfig *ReturnConfig `json:"return_config,omitempty"`
	Seller       *Seller       `json:"seller,omitempty"`
	Store        *Store        `json:"store,omitempty"`
}
