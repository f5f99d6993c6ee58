package vault

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/argon2"
)

// Argon2Params configures Argon2id key derivation for the AES cipher.
type Argon2Params struct {
	Time    uint32 // Number of iterations
	Memory  uint32 // Memory usage in KiB
	Threads uint8  // Parallelism factor
	SaltLen uint32 // Salt length
}

// DefaultArgon2Params returns recommended Argon2id parameters.
// Based on OWASP recommendations for password hashing.
func DefaultArgon2Params() Argon2Params {
	return Argon2Params{
		Time:    1,
		Memory:  64 * 1024, // 64 MiB
		Threads: 4,
		SaltLen: 16,
	}
}

// keyLen is the derived key length: AES-256.
const keyLen = 32

// Ceilings on key derivation parameters. Headers are read from the payload
// before anything is authenticated, so they bound the work a decode can be
// made to do.
const (
	maxMemory  = 4 * 64 * 1024 // KiB
	maxTime    = 16
	maxThreads = 64
	minSaltLen = 16
	maxSaltLen = 64
)

// check reports parameters outside the accepted ranges.
func (p Argon2Params) check() error {
	switch {
	case p.Time == 0 || p.Time > maxTime:
		return fmt.Errorf("time %d out of range 1-%d", p.Time, maxTime)
	case p.Memory == 0 || p.Memory > maxMemory:
		return fmt.Errorf("memory %d KiB out of range 1-%d", p.Memory, maxMemory)
	case p.Threads == 0 || p.Threads > maxThreads:
		return fmt.Errorf("threads %d out of range 1-%d", p.Threads, maxThreads)
	case p.SaltLen < minSaltLen || p.SaltLen > maxSaltLen:
		return fmt.Errorf("salt length %d out of range %d-%d", p.SaltLen, minSaltLen, maxSaltLen)
	}
	return nil
}

// kdfHeader is the derivation recipe stored alongside the ciphertext.
type kdfHeader struct {
	params Argon2Params
	salt   []byte
}

// newKDFHeader draws a fresh salt.
func newKDFHeader(params Argon2Params) (kdfHeader, error) {
	salt := make([]byte, params.SaltLen)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return kdfHeader{}, fmt.Errorf("failed to generate salt: %w", err)
	}
	return kdfHeader{params: params, salt: salt}, nil
}

// derive runs Argon2id over the password.
func (h kdfHeader) derive(password string) []byte {
	return argon2.IDKey([]byte(password), h.salt, h.params.Time, h.params.Memory, h.params.Threads, keyLen)
}

// String encodes the header as: $argon2id$v=19$m=65536,t=1,p=4$<salt>
func (h kdfHeader) String() string {
	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s",
		argon2.Version,
		h.params.Memory,
		h.params.Time,
		h.params.Threads,
		base64.RawStdEncoding.EncodeToString(h.salt),
	)
}

// parseKDFHeader is the inverse of kdfHeader.String.
func parseKDFHeader(line string) (kdfHeader, error) {
	parts := strings.Split(line, "$")
	if len(parts) != 5 || parts[0] != "" || parts[1] != "argon2id" {
		return kdfHeader{}, fmt.Errorf("%w: bad key derivation header", ErrMalformed)
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return kdfHeader{}, fmt.Errorf("%w: unsupported argon2 version %q", ErrMalformed, parts[2])
	}

	var h kdfHeader
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &h.params.Memory, &h.params.Time, &h.params.Threads); err != nil {
		return kdfHeader{}, fmt.Errorf("%w: bad argon2 parameters: %w", ErrMalformed, err)
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return kdfHeader{}, fmt.Errorf("%w: bad salt: %w", ErrMalformed, err)
	}
	h.salt = salt
	h.params.SaltLen = uint32(len(salt)) // #nosec G115 -- salt length bounded by the header line
	if err := h.params.check(); err != nil {
		return kdfHeader{}, fmt.Errorf("%w: argon2 %w", ErrMalformed, err)
	}
	return h, nil
}
