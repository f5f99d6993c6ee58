package vault

import (
	"bufio"
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
	"strings"
)

// Armor markers for the AES cipher.
const (
	aesHeader  = "-----BEGIN RECODE VAULT-----"
	aesFooter  = "-----END RECODE VAULT-----"
	armorWidth = 64
)

// aesEncryptor implements AES-GCM encryption.
type aesEncryptor struct {
	gcm cipher.AEAD
}

// newAESEncryptor returns an AES-GCM encryptor for a derived key.
func newAESEncryptor(key []byte) (*aesEncryptor, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	return &aesEncryptor{gcm: gcm}, nil
}

func (e *aesEncryptor) Encrypt(plaintext, additional []byte) ([]byte, error) {
	nonce := make([]byte, e.gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}

	// Prepend nonce to ciphertext
	return e.gcm.Seal(nonce, nonce, plaintext, additional), nil
}

func (e *aesEncryptor) Decrypt(ciphertext, additional []byte) ([]byte, error) {
	nonceSize := e.gcm.NonceSize()
	if len(ciphertext) < nonceSize {
		return nil, ErrCiphertextShort
	}

	nonce, ciphertext := ciphertext[:nonceSize], ciphertext[nonceSize:]
	plaintext, err := e.gcm.Open(nil, nonce, ciphertext, additional)
	if err != nil {
		// GCM cannot tell a wrong key from a damaged payload.
		return nil, fmt.Errorf("%w: %w", ErrWrongPassword, err)
	}

	return plaintext, nil
}

// aesCipher derives an AES-256 key from the password with Argon2id.
// The derivation header is authenticated as additional data.
type aesCipher struct {
	params Argon2Params
}

func (c aesCipher) seal(password string, plaintext []byte) ([]byte, error) {
	hdr, err := newKDFHeader(c.params)
	if err != nil {
		return nil, err
	}
	enc, err := newAESEncryptor(hdr.derive(password))
	if err != nil {
		return nil, err
	}

	line := hdr.String()
	ciphertext, err := enc.Encrypt(plaintext, []byte(line))
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.WriteString(aesHeader + "\n")
	buf.WriteString(line + "\n")
	body := base64.StdEncoding.EncodeToString(ciphertext)
	for len(body) > armorWidth {
		buf.WriteString(body[:armorWidth] + "\n")
		body = body[armorWidth:]
	}
	if body != "" {
		buf.WriteString(body + "\n")
	}
	buf.WriteString(aesFooter + "\n")
	return buf.Bytes(), nil
}

func (c aesCipher) open(password string, data []byte) ([]byte, error) {
	sc := bufio.NewScanner(bytes.NewReader(data))
	var lines []string
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	if len(lines) < 3 || lines[0] != aesHeader || lines[len(lines)-1] != aesFooter {
		return nil, fmt.Errorf("%w: missing armor", ErrMalformed)
	}

	hdr, err := parseKDFHeader(lines[1])
	if err != nil {
		return nil, err
	}
	ciphertext, err := base64.StdEncoding.DecodeString(strings.Join(lines[2:len(lines)-1], ""))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}

	enc, err := newAESEncryptor(hdr.derive(password))
	if err != nil {
		return nil, err
	}
	return enc.Decrypt(ciphertext, []byte(lines[1]))
}
