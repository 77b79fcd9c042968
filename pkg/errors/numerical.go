package errors

import (
	"fmt"
	"math"

	"github.com/cockroachdb/errors"
)

// NumericalInstabilityError reports a NaN or Inf produced while training.
type NumericalInstabilityError struct {
	Operation string
	Value     float64
	Round     int
}

func (e *NumericalInstabilityError) Error() string {
	return fmt.Sprintf("scitree: numerical instability detected in %s at round %d: %.6g",
		e.Operation, e.Round, e.Value)
}

// CheckScalar checks a single scalar value for numerical instability.
func CheckScalar(operation string, value float64, round int) error {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return errors.WithStack(&NumericalInstabilityError{Operation: operation, Value: value, Round: round})
	}
	return nil
}

// CheckNumericalStability checks every value of a slice, reporting the first NaN or Inf.
func CheckNumericalStability(operation string, values []float64, round int) error {
	for _, v := range values {
		if err := CheckScalar(operation, v, round); err != nil {
			return err
		}
	}
	return nil
}

// SafeDivide returns 0 when the denominator is zero or close to zero.
func SafeDivide(numerator, denominator float64) float64 {
	if math.Abs(denominator) < 1e-12 {
		return 0
	}
	return numerator / denominator
}

// ClipValue clips a value to the range [min, max].
func ClipValue(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}
