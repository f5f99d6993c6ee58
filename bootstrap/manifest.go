package bootstrap

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/zoobzio/recode"
	"github.com/zoobzio/recode/reverse"
	"github.com/zoobzio/recode/rot13"
	"github.com/zoobzio/recode/squash"
	"github.com/zoobzio/recode/vault"
)

// Manifest discovery.
const (
	// ManifestFile is the manifest name Discover looks for.
	ManifestFile = "recode.yaml"

	// ManifestEnv names an environment variable holding a manifest path.
	ManifestEnv = "RECODE_STARTUP"
)

// Codec kinds a manifest can declare.
const (
	KindReverse = "reverse"
	KindRot13   = "rot13"
	KindVault   = "vault"
	KindSquash  = "squash"
)

var (
	// ErrUnknownKind indicates a manifest entry with an unsupported kind.
	ErrUnknownKind = errors.New("unknown codec kind")

	// ErrNoManifest indicates Discover found no manifest.
	ErrNoManifest = errors.New("no startup manifest")
)

// Manifest declares codecs to register at startup:
//
//	codecs:
//	  - kind: reverse
//	    aliases: [esrever]
//	  - kind: vault
//	    cipher: age
//	    password_env: RECODE_VAULT_PASSWORD
//	  - kind: squash
//	    algorithm: zstd
type Manifest struct {
	Codecs []CodecSpec `yaml:"codecs"`

	// Path is the file the manifest was read from, if any.
	Path string `yaml:"-"`
}

// CodecSpec is one manifest entry. Fields not used by a kind are ignored.
type CodecSpec struct {
	Kind    string   `yaml:"kind"`
	Name    string   `yaml:"name,omitempty"`
	Aliases []string `yaml:"aliases,omitempty"`

	// reverse
	Base string `yaml:"base,omitempty"`

	// vault
	Cipher      string `yaml:"cipher,omitempty"`
	PasswordEnv string `yaml:"password_env,omitempty"`
	WorkFactor  int    `yaml:"work_factor,omitempty"`

	// squash
	Algorithm string `yaml:"algorithm,omitempty"`
}

// ParseManifest decodes a manifest. Unknown fields are rejected.
func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&m); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing manifest: %w", err)
	}
	for i, spec := range m.Codecs {
		if !knownKind(spec.Kind) {
			return nil, fmt.Errorf("manifest entry %d: %w: %q", i, ErrUnknownKind, spec.Kind)
		}
	}
	return &m, nil
}

// LoadManifest reads and decodes the manifest at path.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- manifest path comes from the operator
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	m, err := ParseManifest(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	m.Path = path
	return m, nil
}

// Discover loads the manifest named by $RECODE_STARTUP, or else
// dir/recode.yaml. It fails with ErrNoManifest when neither exists.
func Discover(dir string) (*Manifest, error) {
	if path := os.Getenv(ManifestEnv); path != "" {
		return LoadManifest(path)
	}
	path := filepath.Join(dir, ManifestFile)
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNoManifest
		}
		return nil, err
	}
	return LoadManifest(path)
}

type hookOptions struct {
	prompt vault.PasswordFunc
}

// HookOption configures Manifest.Hook.
type HookOption func(*hookOptions)

// WithPrompt sets the password source vault entries fall back to when their
// environment variable is unset.
func WithPrompt(fn vault.PasswordFunc) HookOption {
	return func(o *hookOptions) { o.prompt = fn }
}

// Hook returns a Hook that builds every declared codec and registers it, in
// manifest order.
func (m *Manifest) Hook(opts ...HookOption) Hook {
	var o hookOptions
	for _, fn := range opts {
		fn(&o)
	}
	return func(_ context.Context, reg *recode.Registry) error {
		for i, spec := range m.Codecs {
			c, err := spec.build(reg, o)
			if err != nil {
				return fmt.Errorf("manifest entry %d (%s): %w", i, spec.Kind, err)
			}
			if err := reg.Register(recode.Match(c)); err != nil {
				return err
			}
		}
		return nil
	}
}

// CodecName returns the name the entry registers under.
func (s CodecSpec) CodecName() string {
	if s.Name != "" {
		return s.Name
	}
	switch kind := recode.Normalize(s.Kind); kind {
	case KindSquash:
		if s.Algorithm != "" {
			return s.Algorithm
		}
		return string(squash.Zstd)
	default:
		return kind
	}
}

func knownKind(kind string) bool {
	switch recode.Normalize(kind) {
	case KindReverse, KindRot13, KindVault, KindSquash:
		return true
	}
	return false
}

// build constructs the codec an entry describes. Base charsets are resolved
// in reg, so earlier entries and hooks are visible.
func (s CodecSpec) build(reg *recode.Registry, o hookOptions) (*recode.Codec, error) {
	switch recode.Normalize(s.Kind) {
	case KindReverse:
		opts := []reverse.Option{reverse.WithAliases(s.Aliases...)}
		if s.Name != "" {
			opts = append(opts, reverse.WithName(s.Name))
		}
		if s.Base != "" {
			base, err := reg.Lookup(s.Base)
			if err != nil {
				return nil, err
			}
			opts = append(opts, reverse.WithBase(base))
		}
		return reverse.New(opts...), nil

	case KindRot13:
		c := rot13.New()
		if s.Name != "" {
			c.Aliases = append(c.Aliases, c.Name)
			c.Name = s.Name
		}
		c.Aliases = append(c.Aliases, s.Aliases...)
		return c, nil

	case KindVault:
		var sources []vault.PasswordFunc
		if s.PasswordEnv != "" {
			sources = append(sources, vault.FromEnv(s.PasswordEnv))
		}
		if o.prompt != nil {
			sources = append(sources, o.prompt)
		}
		opts := []vault.Option{
			vault.WithAliases(s.Aliases...),
			vault.WithPasswordFunc(vault.First(sources...)),
			vault.WithWorkFactor(s.WorkFactor),
		}
		if s.Name != "" {
			opts = append(opts, vault.WithName(s.Name))
		}
		if s.Cipher != "" {
			opts = append(opts, vault.WithCipher(vault.Cipher(recode.Normalize(s.Cipher))))
		}
		return vault.New(opts...)

	case KindSquash:
		algo := squash.Zstd
		if s.Algorithm != "" {
			var err error
			if algo, err = squash.ParseAlgorithm(s.Algorithm); err != nil {
				return nil, err
			}
		}
		opts := []squash.Option{squash.WithAliases(s.Aliases...)}
		if s.Name != "" {
			opts = append(opts, squash.WithName(s.Name))
		}
		return squash.New(algo, opts...)

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, s.Kind)
	}
}
