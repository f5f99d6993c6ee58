package integration

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/zoobzio/recode"
	"github.com/zoobzio/recode/bootstrap"
	"github.com/zoobzio/recode/reverse"
	"github.com/zoobzio/recode/rot13"
	"github.com/zoobzio/recode/source"
	"github.com/zoobzio/recode/squash"
	recodetest "github.com/zoobzio/recode/testing"
	"github.com/zoobzio/recode/vault"
)

const program = "print('Hello world!')\nprint(\"¿qué tal?\")\n"

func codecs(t *testing.T) []*recode.Codec {
	t.Helper()
	zstd, err := squash.New(squash.Zstd)
	if err != nil {
		t.Fatalf("squash.New(zstd) error: %v", err)
	}
	lz4, err := squash.New(squash.LZ4)
	if err != nil {
		t.Fatalf("squash.New(lz4) error: %v", err)
	}
	return []*recode.Codec{
		reverse.New(),
		rot13.New(),
		recodetest.TestVault(t, vault.CipherAge),
		recodetest.TestVault(t, vault.CipherAES),
		zstd,
		lz4,
	}
}

func TestComposeLoad(t *testing.T) {
	for _, c := range codecs(t) {
		t.Run(c.Name, func(t *testing.T) {
			// Both vault ciphers share a name, so each subtest gets its own registry.
			reg := recodetest.Registry(t, c)

			data, err := source.Compose(reg, c.Name, program, recode.Strict)
			if err != nil {
				t.Fatalf("Compose() error: %v", err)
			}
			if !bytes.HasPrefix(data, []byte("# coding: "+c.Name+"\n")) {
				t.Fatalf("Compose() should start with the declaration, got %q", data[:min(len(data), 40)])
			}

			for _, size := range []int{1, 7, 4096} {
				loader := source.NewLoader(reg, source.WithChunkSize(size))
				src, err := loader.Read(context.Background(), "prog.py", bytes.NewReader(data))
				if err != nil {
					t.Fatalf("Read() with chunk size %d error: %v", size, err)
				}
				if src.Body() != program {
					t.Errorf("chunk size %d: Body() = %q, want %q", size, src.Body(), program)
				}
				if src.Encoding != c.Name {
					t.Errorf("Encoding = %q, want %q", src.Encoding, c.Name)
				}
			}
		})
	}
}

func TestStreamingMatchesStateless(t *testing.T) {
	for _, c := range codecs(t) {
		t.Run(c.Name, func(t *testing.T) {
			data, err := recode.Encode(c, program, recode.Strict)
			if err != nil {
				t.Fatalf("Encode() error: %v", err)
			}
			want, err := recode.Decode(c, data, recode.Strict)
			if err != nil {
				t.Fatalf("Decode() error: %v", err)
			}
			for _, size := range []int{1, 2, 5, 64} {
				dec, err := c.IncrementalDecoder(recode.Strict)
				if err != nil {
					t.Fatalf("IncrementalDecoder() error: %v", err)
				}
				got, err := recodetest.FeedAll(dec, recodetest.Chunk(data, size))
				if err != nil {
					t.Fatalf("chunk size %d: FeedAll() error: %v", size, err)
				}
				if got != want {
					t.Errorf("chunk size %d: got %q, want %q", size, got, want)
				}
			}
		})
	}
}

func TestManifestStartup(t *testing.T) {
	dir := t.TempDir()
	manifest := strings.Join([]string{
		"codecs:",
		"  - kind: reverse",
		"    aliases: [esrever]",
		"  - kind: rot13",
		"  - kind: squash",
		"    algorithm: lz4",
		"    name: packed",
		"  - kind: vault",
		"    cipher: aes",
		"    password_env: RECODE_TEST_VAULT_PASSWORD",
		"    work_factor: 10",
		"",
	}, "\n")
	if err := os.WriteFile(filepath.Join(dir, bootstrap.ManifestFile), []byte(manifest), 0o600); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}
	t.Setenv(bootstrap.ManifestEnv, "")
	t.Setenv("RECODE_TEST_VAULT_PASSWORD", recodetest.TestPassword())

	m, err := bootstrap.Discover(dir)
	if err != nil {
		t.Fatalf("Discover() error: %v", err)
	}

	reg := recode.NewRegistry(recode.Charsets)
	b := bootstrap.New()
	if err := b.Add("manifest", m.Hook()); err != nil {
		t.Fatalf("Add() error: %v", err)
	}
	if err := b.Run(context.Background(), reg); err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	for _, name := range []string{"esrever", "rot-13", "packed", "vault"} {
		data, err := source.Compose(reg, name, program, recode.Strict)
		if err != nil {
			t.Fatalf("Compose(%s) error: %v", name, err)
		}
		path := filepath.Join(dir, name+".py")
		if err := os.WriteFile(path, data, 0o600); err != nil {
			t.Fatalf("WriteFile() error: %v", err)
		}
		src, err := source.NewLoader(reg).Load(context.Background(), path)
		if err != nil {
			t.Fatalf("Load(%s) error: %v", name, err)
		}
		if src.Body() != program {
			t.Errorf("%s: Body() = %q, want %q", name, src.Body(), program)
		}
		if src.Fingerprint != source.Fingerprint(data) {
			t.Errorf("%s: Fingerprint mismatch", name)
		}
	}
}

func TestSkippedHookFailsLoad(t *testing.T) {
	reg := recode.NewRegistry(recode.Charsets)
	data := []byte("# coding: reverse\n)'!dlrow olleH'(tnirp\n")

	_, err := source.NewLoader(reg).Read(context.Background(), "prog.py", bytes.NewReader(data))
	if err == nil {
		t.Fatal("Read() should fail when the codec was never registered")
	}
	var lookupErr *recode.LookupError
	if !errors.As(err, &lookupErr) {
		t.Errorf("error should wrap *recode.LookupError, got %T", err)
	}
}
