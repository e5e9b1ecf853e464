package domain

import (
	"errors"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		expected string
	}{
		{
			name: "message only",
			err: &Error{
				Code:    EINVALID,
				Message: "address is required",
			},
			expected: "address is required",
		},
		{
			name: "with operation",
			err: &Error{
				Code:    EINVALID,
				Op:      "validation.validate",
				Message: "address is required",
			},
			expected: "validation.validate: address is required",
		},
		{
			name: "with wrapped error",
			err: &Error{
				Code:    EINTERNAL,
				Op:      "validation.validate",
				Message: "provider call failed",
				Err:     errors.New("connection refused"),
			},
			expected: "validation.validate: provider call failed: connection refused",
		},
		{
			name: "wrapped error without op",
			err: &Error{
				Code:    EINTERNAL,
				Message: "provider call failed",
				Err:     errors.New("connection refused"),
			},
			expected: "provider call failed: connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestErrorCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "nil error",
			err:      nil,
			expected: "",
		},
		{
			name:     "domain error",
			err:      Invalid("validation.validate", "address is required"),
			expected: EINVALID,
		},
		{
			name:     "unavailable error",
			err:      Unavailable("validation.validate", "no credentials"),
			expected: EUNAVAILABLE,
		},
		{
			name:     "non-domain error",
			err:      errors.New("plain error"),
			expected: EINTERNAL,
		},
		{
			name:     "wrapped domain error",
			err:      WrapError(Invalid("", "bad input"), EINTERNAL, "op", "wrapped"),
			expected: EINTERNAL,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ErrorCode(tt.err); got != tt.expected {
				t.Errorf("ErrorCode() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestErrorMessage(t *testing.T) {
	t.Run("internal errors hide details", func(t *testing.T) {
		err := Internal(errors.New("pool exhausted"), "validation.validate", "provider call failed")
		got := ErrorMessage(err)
		if got != "An internal error occurred. Please try again later." {
			t.Errorf("ErrorMessage() = %q, want generic message", got)
		}
	})

	t.Run("user-facing errors keep message", func(t *testing.T) {
		err := Invalid("validation.validate", "address is required")
		if got := ErrorMessage(err); got != "address is required" {
			t.Errorf("ErrorMessage() = %q, want %q", got, "address is required")
		}
	})

	t.Run("unknown errors hide details", func(t *testing.T) {
		got := ErrorMessage(errors.New("secret detail"))
		if got != "An internal error occurred. Please try again later." {
			t.Errorf("ErrorMessage() = %q, want generic message", got)
		}
	})
}

func TestUnwrap(t *testing.T) {
	inner := errors.New("inner")
	err := WrapError(inner, EINTERNAL, "op", "outer")

	if !errors.Is(err, inner) {
		t.Error("errors.Is should find the wrapped error")
	}
}

func TestIsCode(t *testing.T) {
	err := Unavailable("", "not configured")
	if !IsCode(err, EUNAVAILABLE) {
		t.Error("IsCode should match EUNAVAILABLE")
	}
	if IsCode(err, EINVALID) {
		t.Error("IsCode should not match EINVALID")
	}
}
