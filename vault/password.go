package vault

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// PasswordFunc produces the vault password on demand.
type PasswordFunc func() (string, error)

// Static returns a PasswordFunc yielding password.
func Static(password string) PasswordFunc {
	return func() (string, error) {
		if password == "" {
			return "", ErrNoPassword
		}
		return password, nil
	}
}

// FromEnv returns a PasswordFunc reading the named environment variable.
func FromEnv(key string) PasswordFunc {
	return func() (string, error) {
		password := os.Getenv(key)
		if password == "" {
			return "", fmt.Errorf("%w: $%s is not set", ErrNoPassword, key)
		}
		return password, nil
	}
}

// Prompt returns a PasswordFunc that asks on the controlling terminal.
// The prompt goes to stderr and the password is read from stdin without
// echo. It fails with ErrNoPassword when stdin is not a terminal.
func Prompt(label string) PasswordFunc {
	return PromptFrom(int(os.Stdin.Fd()), os.Stderr, label) // #nosec G115 -- file descriptors fit in int
}

// PromptFrom is Prompt with an explicit terminal descriptor and output.
func PromptFrom(fd int, out io.Writer, label string) PasswordFunc {
	return func() (string, error) {
		if !term.IsTerminal(fd) {
			return "", fmt.Errorf("%w: not a terminal", ErrNoPassword)
		}
		fmt.Fprintf(out, "%s: ", label)
		password, err := term.ReadPassword(fd)
		fmt.Fprintln(out)
		if err != nil {
			return "", fmt.Errorf("reading password: %w", err)
		}
		if len(password) == 0 {
			return "", ErrNoPassword
		}
		return string(password), nil
	}
}

// First returns a PasswordFunc trying each source in order until one yields
// a password. Errors other than ErrNoPassword stop the search.
func First(sources ...PasswordFunc) PasswordFunc {
	return func() (string, error) {
		for _, src := range sources {
			if src == nil {
				continue
			}
			password, err := src()
			if err == nil {
				return password, nil
			}
			if !isNoPassword(err) {
				return "", err
			}
		}
		return "", ErrNoPassword
	}
}
