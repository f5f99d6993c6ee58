// recode encodes and decodes text through the recode codec registry and
// loads source files that carry a coding declaration.
//
// Codecs come from the built-in charsets, the reverse and rot13 codecs, and
// a startup manifest (recode.yaml in the working directory, $RECODE_STARTUP,
// or --startup).
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/zoobzio/recode"
	"github.com/zoobzio/recode/bootstrap"
	"github.com/zoobzio/recode/reverse"
	"github.com/zoobzio/recode/rot13"
	"github.com/zoobzio/recode/vault"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		if coder, ok := err.(interface{ ExitCode() int }); ok {
			os.Exit(coder.ExitCode())
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	e := &env{
		ctx:    ctx,
		stdin:  stdin,
		stdout: stdout,
		stderr: stderr,
		prompt: vault.Prompt("vault password"),
	}
	return dispatch(e, commands(), args)
}

// env is the state shared by every command.
type env struct {
	ctx    context.Context
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	prompt vault.PasswordFunc

	startup    string
	logLevel   string
	policyName string

	logger   *slog.Logger
	policy   recode.ErrorPolicy
	reg      *recode.Registry
	manifest *bootstrap.Manifest
}

func (e *env) addGlobalFlags(fs *pflag.FlagSet) {
	fs.StringVar(&e.startup, "startup", "", "startup manifest (default: $RECODE_STARTUP or ./recode.yaml)")
	fs.StringVar(&e.logLevel, "log-level", "warn", "log level: debug, info, warn, error")
	fs.StringVar(&e.policyName, "errors", string(recode.Strict), "error policy: strict, replace, ignore")
}

// setup builds the logger and the registry, running the startup hooks.
func (e *env) setup() error {
	var level slog.Level
	if err := level.UnmarshalText([]byte(e.logLevel)); err != nil {
		return usagef("invalid --log-level %q", e.logLevel)
	}
	e.logger = slog.New(slog.NewTextHandler(e.stderr, &slog.HandlerOptions{Level: level}))

	policy, err := recode.ParsePolicy(e.policyName)
	if err != nil {
		return usagef("invalid --errors: %v", err)
	}
	e.policy = policy

	switch {
	case e.startup != "":
		e.manifest, err = bootstrap.LoadManifest(e.startup)
	default:
		e.manifest, err = bootstrap.Discover(".")
		if errors.Is(err, bootstrap.ErrNoManifest) {
			e.manifest, err = nil, nil
		}
	}
	if err != nil {
		return err
	}

	b := bootstrap.New()
	if e.manifest != nil {
		e.logger.Debug("startup manifest", "path", e.manifest.Path, "codecs", len(e.manifest.Codecs))
		if err := b.Add("manifest", e.manifest.Hook(bootstrap.WithPrompt(e.prompt))); err != nil {
			return err
		}
	}
	if err := b.Add("builtin", registerBuiltins); err != nil {
		return err
	}

	e.reg = recode.NewRegistry(recode.Charsets)
	if err := b.Run(e.ctx, e.reg); err != nil {
		return fmt.Errorf("startup: %w", err)
	}
	return nil
}

// registerBuiltins registers the codecs available without a manifest.
// Manifest entries run first and win on shared names.
func registerBuiltins(_ context.Context, reg *recode.Registry) error {
	for _, c := range []*recode.Codec{reverse.New(), rot13.New()} {
		if err := reg.Register(recode.Match(c)); err != nil {
			return err
		}
	}
	return nil
}
