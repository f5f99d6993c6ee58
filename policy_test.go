package recode

import (
	"errors"
	"testing"
)

func TestIsValidPolicy(t *testing.T) {
	tests := []struct {
		policy ErrorPolicy
		want   bool
	}{
		{Strict, true},
		{Replace, true},
		{Ignore, true},
		{"", true},
		{"surrogateescape", false},
		{"STRICT", false},
	}
	for _, tt := range tests {
		if got := IsValidPolicy(tt.policy); got != tt.want {
			t.Errorf("IsValidPolicy(%q) = %v, want %v", tt.policy, got, tt.want)
		}
	}
}

func TestParsePolicy(t *testing.T) {
	p, err := ParsePolicy("")
	if err != nil {
		t.Fatalf("ParsePolicy(\"\") error: %v", err)
	}
	if p != Strict {
		t.Errorf("ParsePolicy(\"\") = %q, want strict", p)
	}

	p, err = ParsePolicy("ignore")
	if err != nil || p != Ignore {
		t.Errorf("ParsePolicy(ignore) = %q, %v", p, err)
	}

	_, err = ParsePolicy("lenient")
	if !errors.Is(err, ErrInvalidPolicy) {
		t.Errorf("ParsePolicy(lenient) error = %v, want ErrInvalidPolicy", err)
	}
}

func TestInvalidPolicyRejected(t *testing.T) {
	if _, err := Encode(UTF8, "x", "bogus"); !errors.Is(err, ErrInvalidPolicy) {
		t.Errorf("Encode() error = %v, want ErrInvalidPolicy", err)
	}
	if _, err := Decode(UTF8, []byte("x"), "bogus"); !errors.Is(err, ErrInvalidPolicy) {
		t.Errorf("Decode() error = %v, want ErrInvalidPolicy", err)
	}
	if _, err := UTF8.IncrementalDecoder("bogus"); !errors.Is(err, ErrInvalidPolicy) {
		t.Errorf("IncrementalDecoder() error = %v, want ErrInvalidPolicy", err)
	}
}
