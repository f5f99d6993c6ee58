// Package recode provides named text codecs that transform source bytes
// before they reach a parser.
//
// A Codec is a descriptor holding a pure encode/decode pair and, optionally,
// factories for incremental (streaming) variants. Codecs are found by name
// through a Registry: an ordered list of search functions where the first
// function that recognizes a normalized name wins.
//
// # Names
//
// Names are normalized before lookup: case-folded, with spaces and hyphens
// mapped to underscores.
//
//	recode.Normalize("UTF-8")   // "utf_8"
//	recode.Normalize("My Name") // "my_name"
//
// # Basic Usage
//
//	reg := recode.NewRegistry(recode.Charsets)
//	_ = reg.Register(recode.Match(reverse.New()))
//
//	data, _ := reg.Encode("reverse", "Hello world!", recode.Strict)
//	// data == []byte("!dlrow olleH")
//
//	text, _ := reg.Decode("reverse", data, recode.Strict)
//	// text == "Hello world!"
//
// # Error Policies
//
// Malformed input is governed by an ErrorPolicy:
//
//   - Strict: fail with a *CodecError (default)
//   - Replace: substitute U+FFFD when decoding, '?' when encoding
//   - Ignore: drop the offending sequence
//
// # Streaming
//
// Source loaders feed files through an IncrementalDecoder, one chunk at a
// time, with a final call flagged. Transforms that need the whole input before
// any output is defined (reversal, decryption, decompression) use
// BufferedDecoder, which accumulates every chunk and decodes on the final call.
//
// # Base Charsets
//
// The Charsets search function resolves the built-in charsets:
//
//   - utf_8, ascii
//   - latin_1, iso_8859_15, cp1252, cp437, koi8_r, mac_roman
//   - utf_16, utf_16_le, utf_16_be
//
// # Codec Providers
//
// The following codecs are available as subpackages:
//
//   - reverse - code point reversal over a base charset
//   - rot13 - letter rotation over UTF-8
//   - vault - password-gated encryption (age or AES-GCM)
//   - squash - zstd or lz4 compression with base64 armor
package recode
