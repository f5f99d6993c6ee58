// Package bootstrap runs startup hooks that register codecs before any
// source file is loaded.
//
// Hooks run once, in the order they were added, against a registry:
//
//	bootstrap.Add("reverse", func(ctx context.Context, reg *recode.Registry) error {
//	    return reg.Register(recode.Match(reverse.New()))
//	})
//	if err := bootstrap.Run(ctx, recode.Default()); err != nil {
//	    return err
//	}
//
// A startup manifest can declare the same registrations in YAML; see
// Manifest.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/zoobzio/recode"
)

// Bootstrap errors.
var (
	// ErrAlreadyRan indicates a hook added after Run.
	ErrAlreadyRan = errors.New("bootstrap already ran")

	// ErrNilHook indicates a nil hook.
	ErrNilHook = errors.New("nil hook")
)

// Hook registers codecs with a registry.
type Hook func(ctx context.Context, reg *recode.Registry) error

// HookError reports the hook that stopped a run.
type HookError struct {
	Name string
	Err  error
}

func (e *HookError) Error() string {
	return fmt.Sprintf("startup hook %q: %v", e.Name, e.Err)
}

func (e *HookError) Unwrap() error {
	return e.Err
}

type namedHook struct {
	name string
	hook Hook
}

// Bootstrap is an ordered set of hooks run at most once.
type Bootstrap struct {
	mu    sync.Mutex
	hooks []namedHook
	ran   bool

	once sync.Once
	err  error
}

// New creates an empty Bootstrap.
func New() *Bootstrap {
	return &Bootstrap{}
}

// Add appends a hook. It fails with ErrAlreadyRan once Run has been called.
func (b *Bootstrap) Add(name string, hook Hook) error {
	if hook == nil {
		return ErrNilHook
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.ran {
		return fmt.Errorf("%w: cannot add %q", ErrAlreadyRan, name)
	}
	b.hooks = append(b.hooks, namedHook{name: name, hook: hook})
	return nil
}

// Run calls every hook in order against reg and stops at the first failure,
// returned as a *HookError. Later calls return the first result without
// running anything. Hooks must not call Run.
func (b *Bootstrap) Run(ctx context.Context, reg *recode.Registry) error {
	b.once.Do(func() {
		b.mu.Lock()
		b.ran = true
		hooks := b.hooks
		b.mu.Unlock()

		b.err = run(ctx, reg, hooks)
	})
	return b.err
}

func run(ctx context.Context, reg *recode.Registry, hooks []namedHook) error {
	for _, h := range hooks {
		if err := ctx.Err(); err != nil {
			return &HookError{Name: h.name, Err: err}
		}
		start := time.Now()
		err := h.hook(ctx, reg)
		emitHook(ctx, h.name, time.Since(start), err)
		if err != nil {
			return &HookError{Name: h.name, Err: err}
		}
	}
	return nil
}

// Ran reports whether Run has been called.
func (b *Bootstrap) Ran() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.ran
}

// Len returns the number of hooks added.
func (b *Bootstrap) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.hooks)
}

var std = New()

// Default returns the process Bootstrap.
func Default() *Bootstrap {
	return std
}

// Add appends a hook to the process Bootstrap.
func Add(name string, hook Hook) error {
	return std.Add(name, hook)
}

// Run runs the process Bootstrap against reg.
func Run(ctx context.Context, reg *recode.Registry) error {
	return std.Run(ctx, reg)
}
