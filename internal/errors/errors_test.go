package errors

import (
	"fmt"
	"testing"
)

func TestTypedErrorsUnwrapToSentinels(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		target error
	}{
		{"computation", NewComputationError("price", "spot", -1.0, "must be positive"), ErrComputation},
		{"axis", NewAxisConstructionError("price", "high < low"), ErrAxisConstruction},
		{"quote", NewQuoteLookupError("yahoo", "ZZZZ", ErrSymbolNotFound), ErrSymbolNotFound},
		{"wrapped", Wrapf(NewComputationError("price", "", nil, "bad"), "cell %d", 3), ErrComputation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !Is(tt.err, tt.target) {
				t.Errorf("expected %v to match %v", tt.err, tt.target)
			}
		})
	}
}

func TestIsRecoverable(t *testing.T) {
	if !IsRecoverable(fmt.Errorf("strike: %w", ErrInputValidation)) {
		t.Error("input validation errors should be recoverable")
	}
	if !IsRecoverable(NewQuoteLookupError("yahoo", "ZZZZ", ErrSymbolNotFound)) {
		t.Error("unknown symbols should be recoverable")
	}
	if IsRecoverable(NewQuoteLookupError("yahoo", "AAPL", ErrConnectionFailed)) {
		t.Error("connection failures should be fatal")
	}
	if IsRecoverable(NewComputationError("price", "years", 0.0, "must be positive")) {
		t.Error("computation errors should be fatal")
	}
}

func TestComputationErrorMessage(t *testing.T) {
	err := NewComputationError("price", "type", "X", "unknown option type")
	want := "computation error [price] type=X: unknown option type"
	if err.Error() != want {
		t.Errorf("got %q, want %q", err.Error(), want)
	}
	var ce *ComputationError
	if !As(Wrap(err, "grid"), &ce) || ce.Field != "type" {
		t.Error("expected As to find the ComputationError")
	}
}

func TestWrapNil(t *testing.T) {
	if Wrap(nil, "ctx") != nil || Wrapf(nil, "ctx %d", 1) != nil {
		t.Error("wrapping nil should return nil")
	}
}
