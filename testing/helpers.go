// Package testing provides test utilities for recode.
package testing

import (
	"github.com/zoobzio/recode"
	"github.com/zoobzio/recode/vault"
)

// TB is the subset of testing.TB the helpers need.
type TB interface {
	Helper()
	Fatalf(format string, args ...any)
}

// TestWorkFactor is an age scrypt work factor cheap enough for tests.
const TestWorkFactor = 10

// TestPassword returns a fixed vault password for testing.
func TestPassword() string {
	return "correct horse battery staple"
}

// TestArgon2Params returns Argon2id parameters cheap enough for tests.
func TestArgon2Params() vault.Argon2Params {
	return vault.Argon2Params{
		Time:    1,
		Memory:  64,
		Threads: 1,
		SaltLen: 16,
	}
}

// TestVault returns a vault codec using TestPassword and cheap key
// derivation.
func TestVault(tb TB, cipher vault.Cipher) *recode.Codec {
	tb.Helper()
	c, err := vault.New(
		vault.WithCipher(cipher),
		vault.WithPassword(TestPassword()),
		vault.WithWorkFactor(TestWorkFactor),
		vault.WithArgon2Params(TestArgon2Params()),
	)
	if err != nil {
		tb.Fatalf("vault.New() error: %v", err)
	}
	return c
}

// Registry returns a registry with the built-in charsets followed by the
// given codecs.
func Registry(tb TB, codecs ...*recode.Codec) *recode.Registry {
	tb.Helper()
	reg := recode.NewRegistry(recode.Charsets)
	for _, c := range codecs {
		if err := reg.Register(recode.Match(c)); err != nil {
			tb.Fatalf("Register(%s) error: %v", c.Name, err)
		}
	}
	return reg
}

// Chunk splits data into pieces of at most size bytes. Empty data yields no
// chunks.
func Chunk(data []byte, size int) [][]byte {
	if size < 1 {
		size = 1
	}
	var chunks [][]byte
	for len(data) > size {
		chunks = append(chunks, data[:size])
		data = data[size:]
	}
	if len(data) > 0 {
		chunks = append(chunks, data)
	}
	return chunks
}

// FeedAll passes chunks to dec, flagging the last one final. With no chunks
// it makes a single empty final call.
func FeedAll(dec recode.IncrementalDecoder, chunks [][]byte) (string, error) {
	if len(chunks) == 0 {
		return dec.Decode(nil, true)
	}
	var out []byte
	for i, chunk := range chunks {
		text, err := dec.Decode(chunk, i == len(chunks)-1)
		if err != nil {
			return "", err
		}
		out = append(out, text...)
	}
	return string(out), nil
}

// EncodeAll passes parts to enc, flagging the last one final.
func EncodeAll(enc recode.IncrementalEncoder, parts []string) ([]byte, error) {
	if len(parts) == 0 {
		return enc.Encode("", true)
	}
	var out []byte
	for i, part := range parts {
		data, err := enc.Encode(part, i == len(parts)-1)
		if err != nil {
			return nil, err
		}
		out = append(out, data...)
	}
	return out, nil
}
