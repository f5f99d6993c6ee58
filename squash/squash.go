// Package squash provides compressed text codecs.
//
// Encoding compresses the UTF-8 form of the text and writes it as base64
// wrapped at 76 columns, so the payload stays printable. Decoding ignores
// whitespace, decompresses, and decodes the UTF-8 result under the caller's
// error policy.
//
//	c, err := squash.New(squash.Zstd)
//	recode.Default().Register(recode.Match(c))
package squash

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/zoobzio/recode"
)

// Algorithm identifies the compression algorithm.
type Algorithm string

const (
	// Zstd compresses with zstd at the default level. Better ratios for
	// prose and structured text.
	Zstd Algorithm = "zstd"

	// LZ4 compresses with the LZ4 frame format. Faster, lower ratio.
	LZ4 Algorithm = "lz4"
)

// ErrUnknownAlgorithm indicates an unsupported algorithm name.
var ErrUnknownAlgorithm = errors.New("unknown compression algorithm")

// lineWidth is the wrap column of the base64 armor.
const lineWidth = 76

// ParseAlgorithm parses an algorithm from its name.
func ParseAlgorithm(name string) (Algorithm, error) {
	switch Algorithm(recode.Normalize(name)) {
	case Zstd:
		return Zstd, nil
	case LZ4:
		return LZ4, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownAlgorithm, name)
	}
}

type options struct {
	name    string
	aliases []string
}

// Option configures a squash codec.
type Option func(*options)

// WithName sets the codec name. The default is the algorithm name.
func WithName(name string) Option {
	return func(o *options) { o.name = name }
}

// WithAliases sets additional names for the codec.
func WithAliases(aliases ...string) Option {
	return func(o *options) { o.aliases = append(o.aliases, aliases...) }
}

type squash struct {
	name       string
	compress   func([]byte) ([]byte, error)
	decompress func([]byte) ([]byte, error)
}

// New returns a codec compressing with algo.
func New(algo Algorithm, opts ...Option) (*recode.Codec, error) {
	o := options{name: string(algo)}
	for _, fn := range opts {
		fn(&o)
	}

	s := &squash{name: o.name}
	switch algo {
	case Zstd:
		s.compress, s.decompress = compressZstd, decompressZstd
	case LZ4:
		s.compress, s.decompress = compressLZ4, decompressLZ4
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, string(algo))
	}

	c := &recode.Codec{
		Name:    o.name,
		Aliases: o.aliases,
		Encode:  s.encode,
		Decode:  s.decode,
	}
	c.NewIncrementalDecoder = func(policy recode.ErrorPolicy) recode.IncrementalDecoder {
		return recode.NewBufferedDecoder(c.Name, c.Decode, policy)
	}
	return c, nil
}

func (s *squash) encode(text string, policy recode.ErrorPolicy) ([]byte, int, error) {
	raw, _, err := recode.UTF8.Encode(text, policy)
	if err != nil {
		return nil, 0, err
	}
	compressed, err := s.compress(raw)
	if err != nil {
		return nil, 0, recode.WrapEncodeError(s.name, "compress", err)
	}
	return wrap(compressed), len(text), nil
}

func (s *squash) decode(data []byte, policy recode.ErrorPolicy) (string, int, error) {
	compressed, err := unwrap(data)
	if err != nil {
		return "", 0, recode.WrapDecodeError(s.name, "bad base64", err)
	}
	raw, err := s.decompress(compressed)
	if err != nil {
		return "", 0, recode.WrapDecodeError(s.name, "decompress", err)
	}
	text, _, err := recode.UTF8.Decode(raw, policy)
	if err != nil {
		return "", 0, err
	}
	return text, len(data), nil
}

// wrap encodes data as base64 lines of lineWidth columns, each ending in a
// newline.
func wrap(data []byte) []byte {
	body := base64.StdEncoding.EncodeToString(data)
	var buf bytes.Buffer
	buf.Grow(len(body) + len(body)/lineWidth + 1)
	for len(body) > lineWidth {
		buf.WriteString(body[:lineWidth])
		buf.WriteByte('\n')
		body = body[lineWidth:]
	}
	if body != "" {
		buf.WriteString(body)
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}

func unwrap(data []byte) ([]byte, error) {
	body := bytes.Join(bytes.Fields(data), nil)
	out := make([]byte, base64.StdEncoding.DecodedLen(len(body)))
	n, err := base64.StdEncoding.Decode(out, body)
	if err != nil {
		return nil, err
	}
	return out[:n], nil
}
