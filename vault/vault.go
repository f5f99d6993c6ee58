// Package vault provides a password-gated codec.
//
// Encoding encrypts the UTF-8 form of the text and armors it so the result
// stays printable; decoding asks for the password, decrypts, and decodes the
// UTF-8 plaintext under the caller's error policy.
//
// Two ciphers are available:
//
//   - CipherAge - age scrypt passphrase encryption with age armor (default)
//   - CipherAES - Argon2id key derivation and AES-256-GCM
//
// The cipher only selects how new payloads are sealed. Decoding recognizes
// either armor.
//
// # Passwords
//
// The password is resolved on first use from the configured PasswordFunc and
// kept for later calls. A wrong password is forgotten, so interactive sources
// are asked again.
//
//	c, err := vault.New(vault.WithPasswordFunc(vault.First(
//	    vault.FromEnv("RECODE_VAULT_PASSWORD"),
//	    vault.Prompt("vault password"),
//	)))
package vault

import (
	"bytes"
	"errors"
	"fmt"
	"sync"

	"github.com/zoobzio/recode"
)

// Name is the default codec name.
const Name = "vault"

// Cipher selects how payloads are sealed.
type Cipher string

const (
	// CipherAge uses an age scrypt recipient.
	CipherAge Cipher = "age"

	// CipherAES uses Argon2id and AES-256-GCM.
	CipherAES Cipher = "aes"
)

// validCiphers contains all valid ciphers.
var validCiphers = map[Cipher]bool{
	CipherAge: true,
	CipherAES: true,
}

// IsValidCipher returns true if the cipher is known.
func IsValidCipher(c Cipher) bool {
	return validCiphers[c]
}

// ageArmorHeader opens every age armored payload.
const ageArmorHeader = "-----BEGIN AGE ENCRYPTED FILE-----"

type sealer interface {
	seal(password string, plaintext []byte) ([]byte, error)
	open(password string, data []byte) ([]byte, error)
}

type options struct {
	name       string
	aliases    []string
	cipher     Cipher
	password   PasswordFunc
	workFactor int
	argon2     Argon2Params
}

// Option configures the vault codec.
type Option func(*options)

// WithName sets the codec name.
func WithName(name string) Option {
	return func(o *options) { o.name = name }
}

// WithAliases sets additional names for the codec.
func WithAliases(aliases ...string) Option {
	return func(o *options) { o.aliases = append(o.aliases, aliases...) }
}

// WithCipher selects the cipher for new payloads.
func WithCipher(c Cipher) Option {
	return func(o *options) { o.cipher = c }
}

// WithPassword sets a fixed password.
func WithPassword(password string) Option {
	return func(o *options) { o.password = Static(password) }
}

// WithPasswordFunc sets the password source.
func WithPasswordFunc(fn PasswordFunc) Option {
	return func(o *options) { o.password = fn }
}

// WithWorkFactor sets the age scrypt work factor, log2(N).
func WithWorkFactor(logN int) Option {
	return func(o *options) { o.workFactor = logN }
}

// WithArgon2Params sets the key derivation parameters of the AES cipher.
func WithArgon2Params(p Argon2Params) Option {
	return func(o *options) { o.argon2 = p }
}

// vault holds the password state shared by the codec's functions.
type vault struct {
	name   string
	source PasswordFunc
	seal   sealer
	age    ageCipher
	aes    aesCipher

	mu       sync.Mutex
	password string
}

// New returns the vault codec. It fails with ErrUnknownCipher for an
// unsupported cipher and ErrInvalidParams for Argon2 parameters a decoder
// would refuse.
func New(opts ...Option) (*recode.Codec, error) {
	o := options{
		name:   Name,
		cipher: CipherAge,
		argon2: DefaultArgon2Params(),
	}
	for _, fn := range opts {
		fn(&o)
	}
	if !IsValidCipher(o.cipher) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCipher, string(o.cipher))
	}
	if err := o.argon2.check(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidParams, err)
	}

	v := &vault{
		name:   o.name,
		source: o.password,
		age:    ageCipher{workFactor: o.workFactor},
		aes:    aesCipher{params: o.argon2},
	}
	if o.cipher == CipherAES {
		v.seal = v.aes
	} else {
		v.seal = v.age
	}

	c := &recode.Codec{
		Name:    o.name,
		Aliases: o.aliases,
		Encode:  v.encode,
		Decode:  v.decode,
	}
	c.NewIncrementalDecoder = func(policy recode.ErrorPolicy) recode.IncrementalDecoder {
		return recode.NewBufferedDecoder(c.Name, c.Decode, policy)
	}
	return c, nil
}

func (v *vault) encode(text string, policy recode.ErrorPolicy) ([]byte, int, error) {
	plaintext, _, err := recode.UTF8.Encode(text, policy)
	if err != nil {
		return nil, 0, err
	}
	password, err := v.secret()
	if err != nil {
		return nil, 0, recode.WrapEncodeError(v.name, "no password", err)
	}
	out, err := v.seal.seal(password, plaintext)
	if err != nil {
		return nil, 0, recode.WrapEncodeError(v.name, "seal", err)
	}
	return out, len(text), nil
}

func (v *vault) decode(data []byte, policy recode.ErrorPolicy) (string, int, error) {
	var s sealer = v.aes
	if bytes.HasPrefix(bytes.TrimSpace(data), []byte(ageArmorHeader)) {
		s = v.age
	}

	password, err := v.secret()
	if err != nil {
		return "", 0, recode.WrapDecodeError(v.name, "no password", err)
	}
	plaintext, err := s.open(password, data)
	if err != nil {
		if errors.Is(err, ErrWrongPassword) {
			v.forget()
		}
		return "", 0, recode.WrapDecodeError(v.name, "open", err)
	}

	text, _, err := recode.UTF8.Decode(plaintext, policy)
	if err != nil {
		return "", 0, err
	}
	return text, len(data), nil
}

// secret returns the cached password, resolving it on first use.
func (v *vault) secret() (string, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.password != "" {
		return v.password, nil
	}
	if v.source == nil {
		return "", ErrNoPassword
	}
	password, err := v.source()
	if err != nil {
		return "", err
	}
	if password == "" {
		return "", ErrNoPassword
	}
	v.password = password
	return password, nil
}

func (v *vault) forget() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.password = ""
}

func isNoPassword(err error) bool {
	return errors.Is(err, ErrNoPassword)
}
