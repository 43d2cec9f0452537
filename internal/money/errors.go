package money

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidNumber is matched by every DomainError, so callers can test with errors.Is.
var ErrInvalidNumber = errors.New("invalid number")

// DomainError reports a non-finite value reaching a numeric primitive.
type DomainError struct {
	Op    string
	Value float64
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("%s: %v: %v", e.Op, ErrInvalidNumber, e.Value)
}

func (e *DomainError) Unwrap() error {
	return ErrInvalidNumber
}

// CheckFinite returns a DomainError for NaN or infinite values.
func CheckFinite(op string, values ...float64) error {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return &DomainError{Op: op, Value: v}
		}
	}
	return nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
