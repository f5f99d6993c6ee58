package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"

	"github.com/zoobzio/recode"
	"github.com/zoobzio/recode/source"
)

func commands() []*command {
	var (
		encoding        string
		output          string
		chunkSize       int
		defaultEncoding string
		formatName      string
	)
	codecFlags := func(fs *pflag.FlagSet) {
		fs.StringVarP(&encoding, "encoding", "e", "", "codec name (required)")
		fs.StringVarP(&output, "output", "o", "", "write to this file instead of stdout")
	}
	loaderFlags := func(fs *pflag.FlagSet) {
		fs.IntVar(&chunkSize, "chunk-size", source.DefaultChunkSize, "bytes fed to the decoder per call")
		fs.StringVar(&defaultEncoding, "default-encoding", source.DefaultEncoding, "encoding of files without a declaration")
	}
	formatFlag := func(fs *pflag.FlagSet) {
		fs.StringVarP(&formatName, "format", "f", "text", "output format: text, json, yaml, xml, msgpack")
	}

	return []*command{
		{
			name:    "encode",
			summary: "Encode text with a codec",
			usage:   "recode encode -e NAME [FILE]",
			flags:   codecFlags,
			run: func(e *env, args []string) error {
				c, in, err := e.codecInput(encoding, args)
				if err != nil {
					return err
				}
				out, err := recode.Encode(c, string(in), e.policy)
				if err != nil {
					return err
				}
				return e.writeOutput(output, out)
			},
		},
		{
			name:    "decode",
			summary: "Decode bytes with a codec",
			usage:   "recode decode -e NAME [FILE]",
			flags:   codecFlags,
			run: func(e *env, args []string) error {
				c, in, err := e.codecInput(encoding, args)
				if err != nil {
					return err
				}
				text, err := recode.Decode(c, in, e.policy)
				if err != nil {
					return err
				}
				return e.writeOutput(output, []byte(text))
			},
		},
		{
			name:    "compose",
			summary: "Write text as a source file with a coding declaration",
			usage:   "recode compose -e NAME [FILE]",
			flags:   codecFlags,
			run: func(e *env, args []string) error {
				if encoding == "" {
					return usagef("--encoding is required")
				}
				in, err := e.readInput(args)
				if err != nil {
					return err
				}
				out, err := source.Compose(e.reg, encoding, string(in), e.policy)
				if err != nil {
					return err
				}
				return e.writeOutput(output, out)
			},
		},
		{
			name:    "cat",
			summary: "Load source files and print the decoded text",
			usage:   "recode cat [flags] FILE...",
			flags:   loaderFlags,
			run: func(e *env, args []string) error {
				if len(args) == 0 {
					return usagef("at least one file is required")
				}
				loader := e.loader(chunkSize, defaultEncoding)
				for _, path := range args {
					src, err := loader.Load(e.ctx, path)
					if err != nil {
						return err
					}
					e.logger.Debug("loaded", "path", path, "encoding", src.Encoding, "chunks", src.Chunks)
					if _, err := io.WriteString(e.stdout, src.Text); err != nil {
						return err
					}
				}
				return nil
			},
		},
		{
			name:    "inspect",
			summary: "Report encoding, size and fingerprint of source files",
			usage:   "recode inspect [flags] FILE...",
			flags: func(fs *pflag.FlagSet) {
				loaderFlags(fs)
				formatFlag(fs)
			},
			run: func(e *env, args []string) error {
				if len(args) == 0 {
					return usagef("at least one file is required")
				}
				loader := e.loader(chunkSize, defaultEncoding)
				var report inspectReport
				for _, path := range args {
					src, err := loader.Load(e.ctx, path)
					if err != nil {
						return err
					}
					report.Sources = append(report.Sources, newSourceReport(src))
				}
				return writeReport(e.stdout, formatName, report)
			},
		},
		{
			name:    "codecs",
			summary: "List the codecs the registry can resolve",
			usage:   "recode codecs [flags]",
			flags:   formatFlag,
			run: func(e *env, _ []string) error {
				return writeReport(e.stdout, formatName, e.codecs())
			},
		},
	}
}

// codecInput resolves the named codec and reads the command input.
func (e *env) codecInput(name string, args []string) (*recode.Codec, []byte, error) {
	if name == "" {
		return nil, nil, usagef("--encoding is required")
	}
	c, err := e.reg.Lookup(name)
	if err != nil {
		return nil, nil, err
	}
	in, err := e.readInput(args)
	if err != nil {
		return nil, nil, err
	}
	return c, in, nil
}

// readInput reads the single file argument, or stdin for none or "-".
func (e *env) readInput(args []string) ([]byte, error) {
	switch {
	case len(args) > 1:
		return nil, usagef("at most one input file, got %d", len(args))
	case len(args) == 0 || args[0] == "-":
		return io.ReadAll(e.stdin)
	default:
		return os.ReadFile(args[0]) // #nosec G304 -- operator-named input
	}
}

func (e *env) writeOutput(path string, data []byte) error {
	if path == "" || path == "-" {
		_, err := e.stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil { // #nosec G306 -- output is not secret by default
		return fmt.Errorf("writing %s: %w", path, err)
	}
	e.logger.Info("wrote", "path", path, "size", len(data))
	return nil
}

func (e *env) loader(chunkSize int, defaultEncoding string) *source.Loader {
	return source.NewLoader(e.reg,
		source.WithChunkSize(chunkSize),
		source.WithDefaultEncoding(defaultEncoding),
		source.WithPolicy(e.policy),
	)
}

// codecs lists the built-in charsets, the manifest entries, then the
// built-in codecs the manifest did not shadow.
func (e *env) codecs() codecsReport {
	var report codecsReport
	seen := make(map[*recode.Codec]bool)
	add := func(name, origin string) {
		c, err := e.reg.Lookup(name)
		if err != nil {
			e.logger.Warn("codec not resolvable", "name", name, "error", err)
			return
		}
		if seen[c] {
			return
		}
		seen[c] = true
		report.Codecs = append(report.Codecs, codecReport{Name: c.Name, Aliases: c.Aliases, Origin: origin})
	}
	for _, name := range recode.CharsetNames() {
		add(name, "charset")
	}
	if e.manifest != nil {
		for _, spec := range e.manifest.Codecs {
			add(spec.CodecName(), "manifest")
		}
	}
	add("reverse", "builtin")
	add("rot13", "builtin")
	return report
}
