package models

import (
	"math"
	"time"
)

// Supported price currencies. The provider shape does not carry one, so the
// label is a deployment choice.
const (
	CurrencyUSD = "USD"
	CurrencyEUR = "EUR"
)

// isoMillis matches the instant format emitted by JavaScript's toISOString,
// which is what widget clients of this API already parse.
const isoMillis = "2006-01-02T15:04:05.000Z"

// CardPrices summarizes a card's price points. Low, Mid and High are nil when
// the provider supplied no usable price.
type CardPrices struct {
	Currency string    `json:"currency"`
	Low      *float64  `json:"low"`
	Mid      *float64  `json:"mid"`
	High     *float64  `json:"high"`
	History  []float64 `json:"history"`
}

// PriceSource is one upstream variant (printing/condition) of a card.
// Price is passed through exactly as the provider sent it.
type PriceSource struct {
	ID          string  `json:"id"`
	Condition   string  `json:"condition"`
	Printing    string  `json:"printing"`
	Price       any     `json:"price"`
	LastUpdated *string `json:"lastUpdated"`
}

// NewCardPrices builds a price summary where every tier equals price.
// The provider does not distinguish low/mid/high, so all three share the
// first variant's price.
func NewCardPrices(currency string, price *float64) CardPrices {
	return CardPrices{
		Currency: currency,
		Low:      price,
		Mid:      price,
		High:     price,
		History:  []float64{},
	}
}

// FormatUnixSeconds renders a Unix timestamp (seconds, fractional allowed)
// as a UTC ISO-8601 instant with millisecond precision.
func FormatUnixSeconds(sec float64) string {
	whole, frac := math.Modf(sec)
	t := time.Unix(int64(whole), int64(math.Round(frac*1e3))*int64(time.Millisecond))
	return t.UTC().Format(isoMillis)
}

// FormatInstant renders t the same way FormatUnixSeconds does.
func FormatInstant(t time.Time) string {
	return t.UTC().Format(isoMillis)
}
