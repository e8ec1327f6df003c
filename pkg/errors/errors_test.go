package errors

import (
	"errors"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidKey, "malformed key: %s", "goal")

	if err.Code != ErrCodeInvalidKey {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidKey)
	}

	if err.Message != "malformed key: goal" {
		t.Errorf("Message = %v, want %v", err.Message, "malformed key: goal")
	}

	expected := "INVALID_KEY: malformed key: goal"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("unexpected EOF")
	err := Wrap(ErrCodeInvalidFormat, cause, "decode records")

	if err.Code != ErrCodeInvalidFormat {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidFormat)
	}

	if err.Cause != cause {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}

	if unwrapped := errors.Unwrap(err); unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}

	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     Code
		expected bool
	}{
		{
			name:     "matching code",
			err:      New(ErrCodeInvalidStage, "test"),
			code:     ErrCodeInvalidStage,
			expected: true,
		},
		{
			name:     "non-matching code",
			err:      New(ErrCodeInvalidStage, "test"),
			code:     ErrCodeInvalidKey,
			expected: false,
		},
		{
			name:     "wrapped error",
			err:      Wrap(ErrCodeInvalidFormat, New(ErrCodeInvalidInput, "inner"), "outer"),
			code:     ErrCodeInvalidFormat,
			expected: true,
		},
		{
			name:     "non-Error type",
			err:      errors.New("plain error"),
			code:     ErrCodeInvalidInput,
			expected: false,
		},
		{
			name:     "nil error",
			err:      nil,
			code:     ErrCodeInvalidInput,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.expected {
				t.Errorf("Is() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestGetCodeAndUserMessage(t *testing.T) {
	err := New(ErrCodeNodeNotFound, "no node %q", "goal:1")
	if got := GetCode(err); got != ErrCodeNodeNotFound {
		t.Errorf("GetCode() = %v, want %v", got, ErrCodeNodeNotFound)
	}
	if got := UserMessage(err); got != `no node "goal:1"` {
		t.Errorf("UserMessage() = %q", got)
	}

	plain := errors.New("boom")
	if got := GetCode(plain); got != "" {
		t.Errorf("GetCode(plain) = %v, want empty", got)
	}
	if got := UserMessage(plain); got != "boom" {
		t.Errorf("UserMessage(plain) = %q, want boom", got)
	}
}

func TestCountByCode(t *testing.T) {
	counts := CountByCode([]error{
		New(ErrCodeInvalidKey, "a"),
		New(ErrCodeInvalidKey, "b"),
		New(ErrCodeInvalidStage, "c"),
		errors.New("plain"),
	})
	if counts[ErrCodeInvalidKey] != 2 || counts[ErrCodeInvalidStage] != 1 || counts[""] != 1 {
		t.Errorf("CountByCode() = %v", counts)
	}
}
