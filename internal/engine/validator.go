package engine

import (
	"fmt"

	"github.com/papertrade/paper-trading-simulator/internal/activity"
)

// rapidTradeWindowMillis is the trailing window scanned for the
// rapid-trading guard; rapidTradeLimit is how many settled trades fit
// in it before the next one is rejected.
const (
	rapidTradeWindowMillis = 1000
	rapidTradeLimit        = 5
)

// ValidateTrade checks a proposed trade against the abuse rules.
// It returns a typed client error on failure and records a
// suspicious-activity event on the invalid paths. Recording is
// fire-and-forget and never changes the outcome.
func (e *Engine) ValidateTrade(userID, symbol string, quantity int, price float64) error {
	if _, ok := e.store.UserByID(userID); !ok {
		return ErrUserNotFound
	}

	if quantity <= 0 {
		e.sink.Record(userID, activity.KindInvalidQuantity,
			fmt.Sprintf("symbol=%s quantity=%d", symbol, quantity))
		return ErrInvalidQuantity
	}

	if price <= 0 {
		e.sink.Record(userID, activity.KindInvalidPrice,
			fmt.Sprintf("symbol=%s price=%f", symbol, price))
		return ErrInvalidPrice
	}

	since := nowMillis() - rapidTradeWindowMillis
	if recent := e.store.CountTransactionsSince(userID, since); recent >= rapidTradeLimit {
		e.sink.Record(userID, activity.KindRapidTrading,
			fmt.Sprintf("%d trades in trailing window", recent))
		return ErrRapidTrading
	}

	return nil
}
