package vault

import "errors"

// Vault errors. They are reachable with errors.Is through the
// *recode.CodecError returned by the codec.
var (
	// ErrNoPassword indicates no password source produced a password.
	ErrNoPassword = errors.New("no vault password")

	// ErrWrongPassword indicates the password did not open the vault.
	ErrWrongPassword = errors.New("wrong vault password")

	// ErrMalformed indicates the input is not a vault payload or is damaged.
	ErrMalformed = errors.New("malformed vault payload")

	// ErrUnknownCipher indicates an unsupported cipher name.
	ErrUnknownCipher = errors.New("unknown vault cipher")

	// ErrInvalidParams indicates key derivation parameters out of range.
	ErrInvalidParams = errors.New("invalid key derivation parameters")

	// ErrCiphertextShort indicates a payload shorter than its nonce.
	ErrCiphertextShort = errors.New("ciphertext too short")
)
