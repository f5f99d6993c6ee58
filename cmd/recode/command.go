package main

import (
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/pflag"
)

// command is one subcommand of the CLI.
type command struct {
	name    string
	summary string
	usage   string

	// flags registers the command's flags on fs.
	flags func(fs *pflag.FlagSet)

	run func(env *env, args []string) error
}

// usageError reports bad command-line input. It exits with status 2.
type usageError struct {
	msg string
}

func (e *usageError) Error() string { return e.msg }

func (e *usageError) ExitCode() int { return 2 }

func usagef(format string, args ...any) error {
	return &usageError{msg: fmt.Sprintf(format, args...)}
}

// dispatch parses global flags, then runs the named subcommand.
func dispatch(e *env, commands []*command, args []string) error {
	global := pflag.NewFlagSet("recode", pflag.ContinueOnError)
	global.SetOutput(io.Discard)
	global.SetInterspersed(false)
	e.addGlobalFlags(global)
	help := global.BoolP("help", "h", false, "show help")

	if err := global.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			printHelp(e.stderr, global, commands)
			return nil
		}
		return usagef("%v\n\nRun 'recode --help' for usage.", err)
	}
	rest := global.Args()
	if *help || len(rest) == 0 {
		printHelp(e.stderr, global, commands)
		if len(rest) == 0 && !*help {
			return usagef("command required")
		}
		return nil
	}

	name := rest[0]
	for _, c := range commands {
		if c.name != name {
			continue
		}
		fs := pflag.NewFlagSet("recode "+c.name, pflag.ContinueOnError)
		fs.SetOutput(io.Discard)
		if c.flags != nil {
			c.flags(fs)
		}
		if err := fs.Parse(rest[1:]); err != nil {
			if errors.Is(err, pflag.ErrHelp) {
				fmt.Fprintf(e.stderr, "Usage:\n  %s\n\nFlags:\n", c.usage)
				fs.SetOutput(e.stderr)
				fs.PrintDefaults()
				return nil
			}
			return usagef("%v\n\nRun 'recode %s --help' for usage.", err, c.name)
		}
		if err := e.setup(); err != nil {
			return err
		}
		return c.run(e, fs.Args())
	}
	return usagef("unknown command %q\n\nRun 'recode --help' for usage.", name)
}

func printHelp(w io.Writer, global *pflag.FlagSet, commands []*command) {
	fmt.Fprint(w, `recode - encode, decode and load text through pluggable codecs.

Usage:
  recode [global flags] <command> [flags] [args]

Commands:
`)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, c := range commands {
		fmt.Fprintf(tw, "  %s\t%s\n", c.name, c.summary)
	}
	tw.Flush()

	fmt.Fprint(w, "\nGlobal flags:\n")
	global.SetOutput(w)
	global.PrintDefaults()
}
