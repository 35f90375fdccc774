package errors

import "math"

// ValidateSSPCount checks that n intermediaries fall inside [min, max].
// A max of zero means no upper bound. n below 1 is always rejected.
func ValidateSSPCount(n, min, max int) error {
	if n < 1 {
		return New(ErrCodeInvalidParameter, "ssp count must be at least 1, got %d", n)
	}
	if n < min {
		return New(ErrCodeInvalidParameter, "ssp count must be at least %d, got %d", min, n)
	}
	if max > 0 && n > max {
		return New(ErrCodeInvalidParameter, "ssp count must be at most %d, got %d", max, n)
	}
	return nil
}

// ValidateBid checks that bid is a finite positive amount no lower than min.
func ValidateBid(bid, min float64) error {
	if math.IsNaN(bid) || math.IsInf(bid, 0) {
		return New(ErrCodeInvalidParameter, "bid must be a finite number")
	}
	if bid <= 0 {
		return New(ErrCodeInvalidParameter, "bid must be positive, got %g", bid)
	}
	if bid < min {
		return New(ErrCodeInvalidParameter, "bid must be at least %g, got %g", min, bid)
	}
	return nil
}
