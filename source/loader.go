// Package source loads text files whose encoding is named by a coding
// declaration, decoding them through a codec registry.
//
// A declaration is a comment on the first line, or on the second when the
// first is blank or a comment, matching the PEP 263 form:
//
//	# -*- coding: reverse -*-
//
// The lines up to and including the declaration form the preamble. The
// preamble must be ASCII and passes through unchanged; only the body after
// it is decoded, in chunks, with the codec's incremental decoder. A file
// without a declaration is decoded whole with the default encoding. A file
// starting with a UTF-8 byte order mark is UTF-8 regardless, and a
// declaration naming anything else is an error. Comment lines that may hold
// the declaration are read whole, up to MaxPreamble bytes.
package source

import (
	"bufio"
	"bytes"
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/zeebo/blake3"
	"github.com/zoobzio/recode"
)

// Defaults for Loader.
const (
	DefaultChunkSize = 4096
	DefaultEncoding  = "utf_8"
)

// Head reading. The loader peeks headWindow bytes and doubles up to
// MaxPreamble until the lines that may hold a declaration are complete.
const (
	headWindow = 1024

	// MaxPreamble bounds the first two lines when a declaration may be
	// among them.
	MaxPreamble = 64 << 10
)

// Source is a decoded source file.
type Source struct {
	Name        string // File name or path
	Encoding    string // Name of the codec that decoded the body
	Declared    string // Encoding name as declared, empty if none
	Preamble    string // Verbatim lines through the declaration
	Text        string // Preamble followed by the decoded body
	Size        int    // Raw size in bytes
	Chunks      int    // Incremental decoder calls
	Fingerprint string // BLAKE3-256 of the raw bytes, hex
}

// Body returns the decoded text after the preamble.
func (s *Source) Body() string {
	return s.Text[len(s.Preamble):]
}

// Option configures a Loader.
type Option func(*Loader)

// WithChunkSize sets the size of the chunks fed to the decoder.
// Values below one are ignored.
func WithChunkSize(n int) Option {
	return func(l *Loader) {
		if n > 0 {
			l.chunkSize = n
		}
	}
}

// WithDefaultEncoding sets the encoding of files without a declaration.
func WithDefaultEncoding(name string) Option {
	return func(l *Loader) { l.defaultEncoding = name }
}

// WithPolicy sets the error policy of the body decoder.
func WithPolicy(p recode.ErrorPolicy) Option {
	return func(l *Loader) { l.policy = p }
}

// Loader reads source files through a registry.
type Loader struct {
	reg             *recode.Registry
	chunkSize       int
	defaultEncoding string
	policy          recode.ErrorPolicy
}

// NewLoader creates a loader resolving encodings in reg. A nil reg uses
// recode.Default().
func NewLoader(reg *recode.Registry, opts ...Option) *Loader {
	if reg == nil {
		reg = recode.Default()
	}
	l := &Loader{
		reg:             reg,
		chunkSize:       DefaultChunkSize,
		defaultEncoding: DefaultEncoding,
		policy:          recode.Strict,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load opens and reads the file at path.
func (l *Loader) Load(ctx context.Context, path string) (*Source, error) {
	f, err := os.Open(path) // #nosec G304 -- loading caller-named files is the purpose
	if err != nil {
		return nil, &LoadError{Name: path, Err: err}
	}
	defer f.Close()
	return l.Read(ctx, path, f)
}

// Read decodes a source file from r. name labels the result and errors.
func (l *Loader) Read(ctx context.Context, name string, r io.Reader) (*Source, error) {
	start := time.Now()
	src, err := l.read(ctx, name, r)
	var encoding string
	if src != nil {
		encoding = src.Encoding
	}
	if err != nil {
		var le *LoadError
		if errors.As(err, &le) {
			encoding = le.Encoding
		}
		emitLoaded(ctx, name, encoding, 0, 0, time.Since(start), err)
		return nil, err
	}
	emitLoaded(ctx, name, encoding, src.Size, src.Chunks, time.Since(start), nil)
	return src, nil
}

func (l *Loader) read(ctx context.Context, name string, r io.Reader) (*Source, error) {
	fail := func(encoding string, err error) error {
		return &LoadError{Name: name, Encoding: encoding, Err: err}
	}
	if err := l.policy.Validate(); err != nil {
		return nil, fail("", err)
	}

	hasher := blake3.New()
	counter := &countingWriter{}
	br := bufio.NewReaderSize(io.TeeReader(r, io.MultiWriter(hasher, counter)), max(l.chunkSize, MaxPreamble))

	head, err := peekHead(br)
	if err != nil {
		return nil, fail("", err)
	}

	src := &Source{Name: name}
	hasBOM := bytes.HasPrefix(head, utf8BOM)
	if hasBOM {
		head = head[len(utf8BOM):]
	}
	decl, declared := FindDeclaration(head)
	if declared {
		src.Declared = decl.Name
	}

	encoding := l.defaultEncoding
	switch {
	case hasBOM:
		encoding = recode.UTF8.Name
	case declared:
		encoding = decl.Name
	}
	codec, err := l.reg.Lookup(encoding)
	if err != nil {
		return nil, fail(encoding, err)
	}
	src.Encoding = codec.Name

	if hasBOM {
		if declared {
			dc, err := l.reg.Lookup(decl.Name)
			if err != nil {
				return nil, fail(decl.Name, err)
			}
			if recode.Normalize(dc.Name) != recode.Normalize(recode.UTF8.Name) {
				return nil, fail(decl.Name, fmt.Errorf("%w: byte order mark says utf-8, declaration says %s", ErrEncodingConflict, decl.Name))
			}
		}
		if _, err := br.Discard(len(utf8BOM)); err != nil {
			return nil, fail(src.Encoding, err)
		}
	} else if declared {
		preamble := head[:decl.End]
		if !isASCII(preamble) {
			return nil, fail(src.Encoding, ErrNonASCIIPreamble)
		}
		src.Preamble = string(preamble)
		if _, err := br.Discard(decl.End); err != nil {
			return nil, fail(src.Encoding, err)
		}
	}

	dec, err := codec.IncrementalDecoder(l.policy)
	if err != nil {
		return nil, fail(src.Encoding, err)
	}

	var text strings.Builder
	text.WriteString(src.Preamble)
	buf := make([]byte, l.chunkSize)
	for {
		if err := ctx.Err(); err != nil {
			dec.Reset()
			return nil, fail(src.Encoding, err)
		}
		n, rerr := io.ReadFull(br, buf)
		final := errors.Is(rerr, io.EOF) || errors.Is(rerr, io.ErrUnexpectedEOF)
		if rerr != nil && !final {
			dec.Reset()
			return nil, fail(src.Encoding, rerr)
		}
		out, err := dec.Decode(buf[:n], final)
		src.Chunks++
		if err != nil {
			return nil, fail(src.Encoding, err)
		}
		text.WriteString(out)
		if final {
			break
		}
	}

	src.Text = text.String()
	src.Size = counter.n
	src.Fingerprint = hex.EncodeToString(hasher.Sum(nil))
	return src, nil
}

// peekHead returns the start of br, long enough to hold every line that
// may carry a declaration, without consuming it.
func peekHead(br *bufio.Reader) ([]byte, error) {
	for n := headWindow; ; n = min(2*n, MaxPreamble) {
		head, err := br.Peek(n)
		if errors.Is(err, io.EOF) {
			return head, nil
		}
		if err != nil {
			return nil, err
		}
		if headComplete(bytes.TrimPrefix(head, utf8BOM)) {
			return head, nil
		}
		if n == MaxPreamble {
			return nil, ErrPreambleTooLong
		}
	}
}

// headComplete reports whether head settles the declaration search: every
// line that could hold a declaration ends within it.
func headComplete(head []byte) bool {
	first, rest, ok := bytes.Cut(head, []byte{'\n'})
	if !ok {
		return !blankOrComment(first)
	}
	first = bytes.TrimSuffix(first, []byte{'\r'})
	if !blankOrComment(first) || declarationPattern.Match(first) {
		return true
	}
	return bytes.IndexByte(rest, '\n') >= 0 || !blankOrComment(rest)
}

// Fingerprint returns the BLAKE3-256 hex digest the loader records for data.
func Fingerprint(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}

type countingWriter struct {
	n int
}

func (w *countingWriter) Write(p []byte) (int, error) {
	w.n += len(p)
	return len(p), nil
}
