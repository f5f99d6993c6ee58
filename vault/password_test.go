package vault

import (
	"bytes"
	"errors"
	"os"
	"testing"
)

func TestStatic(t *testing.T) {
	pw, err := Static("s3cret")()
	if err != nil || pw != "s3cret" {
		t.Errorf("Static() = %q, %v", pw, err)
	}
	if _, err := Static("")(); !errors.Is(err, ErrNoPassword) {
		t.Errorf("Static(\"\") error = %v, want ErrNoPassword", err)
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv("RECODE_TEST_PW", "from-env")
	pw, err := FromEnv("RECODE_TEST_PW")()
	if err != nil || pw != "from-env" {
		t.Errorf("FromEnv() = %q, %v", pw, err)
	}

	t.Setenv("RECODE_TEST_PW", "")
	if _, err := FromEnv("RECODE_TEST_PW")(); !errors.Is(err, ErrNoPassword) {
		t.Errorf("FromEnv(unset) error = %v, want ErrNoPassword", err)
	}
}

func TestFirst(t *testing.T) {
	boom := errors.New("boom")

	pw, err := First(Static(""), nil, Static("second"), Static("third"))()
	if err != nil || pw != "second" {
		t.Errorf("First() = %q, %v; want second", pw, err)
	}

	if _, err := First(Static(""))(); !errors.Is(err, ErrNoPassword) {
		t.Errorf("First(empty) error = %v, want ErrNoPassword", err)
	}
	if _, err := First()(); !errors.Is(err, ErrNoPassword) {
		t.Errorf("First() error = %v, want ErrNoPassword", err)
	}

	failing := func() (string, error) { return "", boom }
	if _, err := First(failing, Static("never"))(); !errors.Is(err, boom) {
		t.Errorf("First(failing) error = %v, want boom", err)
	}
}

func TestPromptFrom_NotTerminal(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "stdin")
	if err != nil {
		t.Fatalf("CreateTemp() error: %v", err)
	}
	defer f.Close()

	var out bytes.Buffer
	_, err = PromptFrom(int(f.Fd()), &out, "vault password")() // #nosec G115 -- test descriptor
	if !errors.Is(err, ErrNoPassword) {
		t.Errorf("PromptFrom() error = %v, want ErrNoPassword", err)
	}
	if out.Len() != 0 {
		t.Errorf("nothing should be printed without a terminal, got %q", out.String())
	}
}
