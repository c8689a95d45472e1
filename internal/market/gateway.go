// Package market talks to the external market-data feed.
package market

import (
	"context"
	"errors"
)

// Series is a price history for one symbol. Prices may contain nil
// entries where the feed had no trade for an interval.
type Series struct {
	Timestamps   []int64    `json:"timestamps"`
	Prices       []*float64 `json:"prices"`
	CurrentPrice float64    `json:"current_price"`
}

// ErrNoPrice is returned when the feed answered but carried no usable
// positive price for the symbol.
var ErrNoPrice = errors.New("no price available for symbol")

// Gateway is the market-data contract the settlement core consumes.
// Implementations must return an error, never a silent zero, when
// price data is missing or non-positive.
type Gateway interface {
	CurrentPrice(ctx context.Context, symbol string) (float64, error)
	Series(ctx context.Context, symbol, rng, interval string) (Series, error)
}
