package errors

import (
	"strings"
	"testing"
)

func TestValidateNodeID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "hub", false},
		{"valid uuid", "0b9c1a52-3f0e-4bde-9a4a-2f8f6f2d9e11", false},
		{"valid unicode", "café-reply", false},
		{"valid with dot", "reply.1", false},

		{"empty", "", true},
		{"too long", strings.Repeat("a", MaxIDLength+1), true},
		{"slash", "a/b", true},
		{"backslash", "a\\b", true},
		{"null byte", "a\x00b", true},
		{"newline", "a\nb", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateNodeID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateNodeID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidInput) {
				t.Errorf("ValidateNodeID(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidInput)
			}
		})
	}
}

func TestValidateText(t *testing.T) {
	if err := ValidateText("", 10); err != nil {
		t.Errorf("empty text should pass: %v", err)
	}
	if err := ValidateText("short", 10); err != nil {
		t.Errorf("short text should pass: %v", err)
	}
	if err := ValidateText("far too long", 5); err == nil {
		t.Error("long text should fail")
	}
	if err := ValidateText("unbounded", 0); err != nil {
		t.Errorf("maxLen 0 means unbounded: %v", err)
	}
}
