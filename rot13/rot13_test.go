package rot13

import (
	"errors"
	"testing"

	"github.com/zoobzio/recode"
)

func TestRotate(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Hello world!", "Uryyb jbeyq!"},
		{"abcxyzABCXYZ", "nopklmNOPKLM"},
		{"¿qué?", "¿dhé?"},
		{"a\xffb", "n\xffo"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Rotate(tt.in); got != tt.want {
			t.Errorf("Rotate(%q) = %q, want %q", tt.in, got, tt.want)
		}
		if back := Rotate(Rotate(tt.in)); back != tt.in {
			t.Errorf("Rotate is not an involution for %q", tt.in)
		}
	}
}

func TestEncodeDecode(t *testing.T) {
	c := New()
	data, err := recode.Encode(c, "print('Hello')", recode.Strict)
	if err != nil {
		t.Fatalf("Encode() error: %v", err)
	}
	if string(data) != "cevag('Uryyb')" {
		t.Errorf("Encode() = %q", data)
	}
	text, err := recode.Decode(c, data, recode.Strict)
	if err != nil || text != "print('Hello')" {
		t.Errorf("Decode() = %q, %v", text, err)
	}
}

func TestAlias(t *testing.T) {
	reg := recode.NewRegistry(recode.Match(New()))
	if _, err := reg.Lookup("ROT-13"); err != nil {
		t.Errorf("Lookup(ROT-13) error: %v", err)
	}
}

func TestIncrementalStreams(t *testing.T) {
	dec, err := New().IncrementalDecoder(recode.Strict)
	if err != nil {
		t.Fatalf("IncrementalDecoder() error: %v", err)
	}
	out, err := dec.Decode([]byte("Uryy"), false)
	if err != nil || out != "Hell" {
		t.Fatalf("Decode(non-final) = %q, %v; want %q", out, err, "Hell")
	}
	out, err = dec.Decode([]byte("b \xc3"), false)
	if err != nil || out != "o " {
		t.Fatalf("Decode(non-final) = %q, %v; want %q", out, err, "o ")
	}
	out, err = dec.Decode([]byte("\xa9"), true)
	if err != nil || out != "é" {
		t.Errorf("Decode(final) = %q, %v; want %q", out, err, "é")
	}
}

func TestIncrementalError(t *testing.T) {
	dec, _ := New().IncrementalDecoder(recode.Strict)
	if _, err := dec.Decode([]byte("ab\xff"), true); !errors.Is(err, recode.ErrDecode) {
		t.Errorf("Decode() error = %v, want ErrDecode", err)
	}
	dec.Reset()
	if out, err := dec.Decode([]byte("n"), true); err != nil || out != "a" {
		t.Errorf("Decode() after Reset = %q, %v", out, err)
	}
}
