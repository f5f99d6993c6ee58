package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/zoobzio/recode"
)

func runCLI(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := run(context.Background(), args, strings.NewReader(stdin), &stdout, &stderr)
	return stdout.String(), stderr.String(), err
}

// isolate runs the test in an empty directory with no manifest.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("RECODE_STARTUP", "")
	return dir
}

func TestEncodeDecode(t *testing.T) {
	isolate(t)

	out, _, err := runCLI(t, "Hello world!", "encode", "-e", "reverse")
	if err != nil {
		t.Fatalf("encode error: %v", err)
	}
	if out != "!dlrow olleH" {
		t.Errorf("encode output = %q, want %q", out, "!dlrow olleH")
	}

	out, _, err = runCLI(t, out, "decode", "--encoding", "reverse")
	if err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if out != "Hello world!" {
		t.Errorf("decode output = %q, want %q", out, "Hello world!")
	}
}

func TestDecodePolicy(t *testing.T) {
	isolate(t)

	_, _, err := runCLI(t, "caf\xe9", "decode", "-e", "utf-8")
	if !errors.Is(err, recode.ErrDecode) {
		t.Fatalf("strict decode error = %v, want ErrDecode", err)
	}

	out, _, err := runCLI(t, "caf\xe9", "--errors", "replace", "decode", "-e", "utf-8")
	if err != nil {
		t.Fatalf("replace decode error: %v", err)
	}
	if out != "caf\uFFFD" {
		t.Errorf("replace decode output = %q", out)
	}
}

func TestUnknownEncoding(t *testing.T) {
	isolate(t)

	_, _, err := runCLI(t, "x", "encode", "-e", "klingon")
	if !errors.Is(err, recode.ErrUnknownEncoding) {
		t.Errorf("error = %v, want ErrUnknownEncoding", err)
	}
}

func TestComposeCat(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "prog.py")

	program := "print('Hello world!')\n"
	if _, _, err := runCLI(t, program, "compose", "-e", "rot13", "-o", path); err != nil {
		t.Fatalf("compose error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error: %v", err)
	}
	if string(data) != "# coding: rot13\ncevag('Uryyb jbeyq!')\n" {
		t.Errorf("composed file = %q", data)
	}

	out, _, err := runCLI(t, "", "cat", "--chunk-size", "3", path)
	if err != nil {
		t.Fatalf("cat error: %v", err)
	}
	if out != "# coding: rot13\n"+program {
		t.Errorf("cat output = %q", out)
	}
}

func TestInspectJSON(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "plain.txt")
	if err := os.WriteFile(path, []byte("no declaration here\n"), 0o600); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}

	out, _, err := runCLI(t, "", "inspect", "-f", "json", path)
	if err != nil {
		t.Fatalf("inspect error: %v", err)
	}
	var report inspectReport
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	if len(report.Sources) != 1 {
		t.Fatalf("got %d sources, want 1", len(report.Sources))
	}
	got := report.Sources[0]
	if got.Encoding != "utf-8" || got.Declared != "" || got.Size != 20 || len(got.Fingerprint) != 64 {
		t.Errorf("unexpected report: %+v", got)
	}
}

func TestCodecsWithManifest(t *testing.T) {
	dir := isolate(t)
	manifest := "codecs:\n  - kind: squash\n    algorithm: lz4\n    name: packed\n"
	path := filepath.Join(dir, "startup.yaml")
	if err := os.WriteFile(path, []byte(manifest), 0o600); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}

	out, _, err := runCLI(t, "", "--startup", path, "codecs")
	if err != nil {
		t.Fatalf("codecs error: %v", err)
	}
	for _, want := range []string{"utf-8", "latin-1", "packed", "manifest", "reverse", "rot13"} {
		if !strings.Contains(out, want) {
			t.Errorf("codecs output missing %q:\n%s", want, out)
		}
	}
}

func TestUsageErrors(t *testing.T) {
	isolate(t)

	tests := [][]string{
		{},
		{"bogus"},
		{"encode"},
		{"--log-level", "loud", "codecs"},
		{"--errors", "lenient", "codecs"},
		{"cat"},
	}
	for _, args := range tests {
		_, _, err := runCLI(t, "", args...)
		var ue *usageError
		if !errors.As(err, &ue) {
			t.Errorf("run(%q) error = %v, want usage error", args, err)
		}
	}
}

func TestHelp(t *testing.T) {
	isolate(t)

	_, stderr, err := runCLI(t, "", "--help")
	if err != nil {
		t.Fatalf("--help error: %v", err)
	}
	if !strings.Contains(stderr, "inspect") {
		t.Errorf("help should list commands, got:\n%s", stderr)
	}
}
