package errors

import (
	"math"
	"strings"
	"testing"
)

func TestValidateID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "p1", false},
		{"valid with dash", "line-a", false},
		{"valid with underscore", "fn_2", false},
		{"valid uuid", "3f1c2a8e-5d2b-4a8e-9f2c-1b2c3d4e5f60", false},
		{"valid axis", "axis:x", false},

		{"empty", "", true},
		{"too long", strings.Repeat("a", 200), true},
		{"leading dash", "-p1", true},
		{"space", "p 1", true},
		{"slash", "a/b", true},
		{"null byte", "p\x001", true},
		{"newline", "p\n1", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidElement) {
				t.Errorf("ValidateID(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidElement)
			}
		})
	}
}

func TestValidateExpression(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"polynomial", "x^2 - 3*x + 1", false},
		{"trig", "sin(x) * cos(x)", false},
		{"with tab", "x +\t1", false},

		{"empty", "", true},
		{"blank", "   ", true},
		{"too long", strings.Repeat("x+", 600), true},
		{"null byte", "x\x00", true},
		{"bell", "x\a", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateExpression(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateExpression(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateFinite(t *testing.T) {
	if err := ValidateFinite("x", 1, -2.5, 0); err != nil {
		t.Errorf("ValidateFinite finite values: %v", err)
	}
	if err := ValidateFinite("x", 1, math.NaN()); err == nil {
		t.Error("ValidateFinite should reject NaN")
	}
	if err := ValidateFinite("y", math.Inf(-1)); !Is(err, ErrCodeInvalidInput) {
		t.Errorf("ValidateFinite(-Inf) code = %v, want %v", GetCode(err), ErrCodeInvalidInput)
	}
}
