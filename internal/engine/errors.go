package engine

import "errors"

// Client-facing failures. The error text is the stable reason string
// returned to callers; handlers must not add detail to it.
var (
	ErrUserNotFound       = errors.New("User not found")
	ErrInvalidQuantity    = errors.New("Invalid quantity")
	ErrInvalidPrice       = errors.New("Invalid price")
	ErrRapidTrading       = errors.New("Trading too quickly")
	ErrInsufficientFunds  = errors.New("Insufficient funds")
	ErrInsufficientShares = errors.New("Insufficient shares")
	ErrSymbolAndQuantity  = errors.New("Symbol and quantity required")
	ErrInvalidUsername    = errors.New("Username must be 3-20 characters")
	ErrTutorialDone       = errors.New("Tutorial already completed")
)

// IsClientError reports whether err is one of the typed client-facing
// failures, as opposed to a gateway or internal error.
func IsClientError(err error) bool {
	for _, e := range []error{
		ErrUserNotFound, ErrInvalidQuantity, ErrInvalidPrice,
		ErrRapidTrading, ErrInsufficientFunds, ErrInsufficientShares,
		ErrSymbolAndQuantity, ErrInvalidUsername, ErrTutorialDone,
	} {
		if errors.Is(err, e) {
			return true
		}
	}
	return false
}
