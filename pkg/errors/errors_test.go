package errors

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestNewInputError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		cause   error
		wantMsg string
	}{
		{
			name:    "non-binary feature",
			err:     NewInputError("TrainTree", ErrNonBinaryFeature, "value %v at row %d, column %d", 0.5, 1, 2),
			cause:   ErrNonBinaryFeature,
			wantMsg: "scitree: TrainTree: invalid input: non-binary feature value: value 0.5 at row 1, column 2",
		},
		{
			name:    "row mismatch",
			err:     NewDimensionError("Fit", 4, 3, 0),
			cause:   ErrRowMismatch,
			wantMsg: "scitree: Fit: invalid input: row count mismatch: expected 4 rows, got 3",
		},
		{
			name:    "column mismatch",
			err:     NewDimensionError("Predict", 2, 5, 1),
			cause:   ErrColumnMismatch,
			wantMsg: "scitree: Predict: invalid input: column count mismatch: expected 2 columns, got 5",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Error() != tt.wantMsg {
				t.Errorf("Error() = %v, want %v", tt.err.Error(), tt.wantMsg)
			}

			// スタックトレースの存在確認
			formatted := fmt.Sprintf("%+v", tt.err)
			if !strings.Contains(formatted, "errors_test.go") {
				t.Error("Expected stack trace to contain test file name")
			}

			if !Is(tt.err, tt.cause) {
				t.Errorf("Expected Is(err, %v) to be true", tt.cause)
			}
			if !IsInputError(tt.err) {
				t.Error("Error should be castable to *InputError")
			}
			if IsConfigError(tt.err) {
				t.Error("InputError must not match ConfigError")
			}
		})
	}
}

func TestNewConfigError(t *testing.T) {
	err := NewConfigError("max_depth", "must be non-negative", -1)

	want := "scitree: invalid parameter 'max_depth': must be non-negative (got: -1)"
	if err.Error() != want {
		t.Errorf("Error() = %v, want %v", err.Error(), want)
	}

	var cfgErr *ConfigError
	if !As(err, &cfgErr) {
		t.Fatal("Error should be castable to *ConfigError")
	}
	if cfgErr.ParamName != "max_depth" {
		t.Errorf("ParamName = %q, want max_depth", cfgErr.ParamName)
	}
}

func TestNewDegenerateRoundError(t *testing.T) {
	err := NewDegenerateRoundError("reweight_boost", 3, "weighted error outside (0, 0.5)", 0.5)

	if !IsDegenerateRound(err) {
		t.Fatal("Error should be castable to *DegenerateRoundError")
	}

	wrapped := Wrap(err, "TrainEnsemble")
	var degErr *DegenerateRoundError
	if !As(wrapped, &degErr) {
		t.Fatal("Wrapped error should still expose *DegenerateRoundError")
	}
	if degErr.Round != 3 || degErr.ErrorRate != 0.5 {
		t.Errorf("unexpected fields: %+v", degErr)
	}
}

func TestNewNotFittedError(t *testing.T) {
	err := NewNotFittedError("DecisionTreeClassifier", "Predict")

	want := "scitree: DecisionTreeClassifier: this model is not fitted yet. Call Fit() before using Predict()"
	if err.Error() != want {
		t.Errorf("Error() = %v, want %v", err.Error(), want)
	}

	var notFittedErr *NotFittedError
	if !As(err, &notFittedErr) {
		t.Error("Error should be castable to *NotFittedError")
	}
}

func TestMarshalZerologObject(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	degErr := &DegenerateRoundError{Mode: "residual_boost", Round: 7, Reason: "zero residual", ErrorRate: 0}
	logger.Warn().Object("warning", degErr).Msg("degenerate")

	out := buf.String()
	for _, want := range []string{`"mode":"residual_boost"`, `"round":7`, `"type":"DegenerateRoundError"`} {
		if !strings.Contains(out, want) {
			t.Errorf("log output %s does not contain %s", out, want)
		}
	}
}

func TestWarn(t *testing.T) {
	var got []error
	prev := warningHandler
	SetWarningHandler(func(w error) { got = append(got, w) })
	defer SetWarningHandler(prev)

	SetZerologWarnFunc(nil)
	Warn(New("first"))
	Warn(New("second"))

	if len(got) != 2 {
		t.Fatalf("expected 2 warnings, got %d", len(got))
	}
}

func TestWrapf(t *testing.T) {
	wrapped := Wrapf(ErrEmptyData, "in %s: expected %d rows", "TrainTree", 4)

	if !Is(wrapped, ErrEmptyData) {
		t.Error("Expected Is(wrapped, ErrEmptyData) to be true")
	}

	expectedMsg := "in TrainTree: expected 4 rows"
	if !strings.Contains(wrapped.Error(), expectedMsg) {
		t.Errorf("Expected wrapped error to contain %q", expectedMsg)
	}
}

func TestNumericalGuards(t *testing.T) {
	if err := CheckScalar("alpha", 0.5, 1); err != nil {
		t.Errorf("unexpected error for finite value: %v", err)
	}
	if err := CheckNumericalStability("weights", []float64{0.1, 0.2}, 1); err != nil {
		t.Errorf("unexpected error for finite slice: %v", err)
	}

	var zero float64
	if err := CheckScalar("alpha", 1/zero, 2); err == nil {
		t.Error("expected error for +Inf")
	}
	if got := SafeDivide(1, 0); got != 0 {
		t.Errorf("SafeDivide(1, 0) = %v, want 0", got)
	}
	if got := ClipValue(0.7, 0, 0.5); got != 0.5 {
		t.Errorf("ClipValue = %v, want 0.5", got)
	}
}
