package binance

import (
	"errors"
	"fmt"
)

// ErrRateLimited is wrapped by the ExchangeError returned once HTTP 429 retries are exhausted.
var ErrRateLimited = errors.New("binance: rate limited")

// ExchangeError is a non-2xx response or transport failure from Binance.
// StatusCode is 0 for transport and decoding failures.
type ExchangeError struct {
	StatusCode int
	Code       int    // Binance error code from the response body, when present
	Message    string // Upstream "msg", when present
	Err        error
}

func (e *ExchangeError) Error() string {
	switch {
	case e.StatusCode != 0 && e.Message != "":
		return fmt.Sprintf("binance: http %d: %s", e.StatusCode, e.Message)
	case e.StatusCode != 0:
		return fmt.Sprintf("binance: http %d", e.StatusCode)
	case e.Err != nil:
		return fmt.Sprintf("binance: %s: %v", e.Message, e.Err)
	default:
		return "binance: " + e.Message
	}
}

func (e *ExchangeError) Unwrap() error {
	return e.Err
}
