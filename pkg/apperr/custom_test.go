package apperr

import (
	"errors"
	"strings"
	"testing"
)

func TestValidationError(t *testing.T) {
	t.Run("Error message format", func(t *testing.T) {
		err := NewValidationError("email", "invalid format")
		got := err.Error()
		if !strings.Contains(got, "validation error") {
			t.Errorf("error message should contain 'validation error': %s", got)
		}
		if !strings.Contains(got, "field=email") {
			t.Errorf("error message should contain 'field=email': %s", got)
		}
		if !strings.Contains(got, "message=invalid format") {
			t.Errorf("error message should contain 'message=invalid format': %s", got)
		}
	})

	t.Run("Wraps ErrInvalidRequest", func(t *testing.T) {
		err := NewValidationError("page", "must be >= 1")
		if !errors.Is(err, ErrInvalidRequest) {
			t.Error("errors.Is(err, ErrInvalidRequest) should be true")
		}
	})
}

func TestValkeyError(t *testing.T) {
	t.Run("Error message with cause", func(t *testing.T) {
		cause := errors.New("connection refused")
		err := NewValkeyError("MGET", "authToken", cause)
		got := err.Error()
		for _, want := range []string{"valkey error", "operation=MGET", "key=authToken", "cause=connection refused"} {
			if !strings.Contains(got, want) {
				t.Errorf("error message should contain %q: %s", want, got)
			}
		}
	})

	t.Run("Nil cause defaults to ErrValkeyCommand", func(t *testing.T) {
		err := NewValkeyError("DEL", "userEmail", nil)
		if !errors.Is(err, ErrValkeyCommand) {
			t.Error("errors.Is(err, ErrValkeyCommand) should be true")
		}
	})

	t.Run("errors.As", func(t *testing.T) {
		var wrapped error = NewValkeyError("MULTI", "authToken", ErrValkeyConnection)
		var ve *ValkeyError
		if !errors.As(wrapped, &ve) {
			t.Fatal("errors.As should match *ValkeyError")
		}
		if ve.Operation != "MULTI" {
			t.Errorf("Operation = %q, want %q", ve.Operation, "MULTI")
		}
	})
}
