package bootstrap

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/zoobzio/recode"
	"github.com/zoobzio/recode/reverse"
)

func TestRun_Order(t *testing.T) {
	b := New()
	var calls []string
	for _, name := range []string{"first", "second", "third"} {
		if err := b.Add(name, func(context.Context, *recode.Registry) error {
			calls = append(calls, name)
			return nil
		}); err != nil {
			t.Fatalf("Add() error: %v", err)
		}
	}
	if b.Len() != 3 {
		t.Errorf("Len() = %d, want 3", b.Len())
	}
	if b.Ran() {
		t.Error("Ran() should be false before Run")
	}

	if err := b.Run(context.Background(), recode.NewRegistry()); err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if strings.Join(calls, ",") != "first,second,third" {
		t.Errorf("calls = %v", calls)
	}
	if !b.Ran() {
		t.Error("Ran() should be true after Run")
	}
}

func TestRun_Once(t *testing.T) {
	b := New()
	count := 0
	_ = b.Add("count", func(context.Context, *recode.Registry) error {
		count++
		return nil
	})
	reg := recode.NewRegistry()
	for i := 0; i < 3; i++ {
		if err := b.Run(context.Background(), reg); err != nil {
			t.Fatalf("Run() error: %v", err)
		}
	}
	if count != 1 {
		t.Errorf("hook ran %d times, want 1", count)
	}
}

func TestRun_RegistersCodecs(t *testing.T) {
	b := New()
	_ = b.Add("reverse", func(_ context.Context, reg *recode.Registry) error {
		return reg.Register(recode.Match(reverse.New()))
	})
	reg := recode.NewRegistry(recode.Charsets)
	if _, err := reg.Lookup("reverse"); err == nil {
		t.Fatal("reverse should not resolve before Run")
	}
	if err := b.Run(context.Background(), reg); err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if _, err := reg.Lookup("reverse"); err != nil {
		t.Errorf("Lookup() after Run error: %v", err)
	}
}

func TestRun_StopsAtFailure(t *testing.T) {
	b := New()
	boom := errors.New("boom")
	var after bool
	_ = b.Add("ok", func(context.Context, *recode.Registry) error { return nil })
	_ = b.Add("bad", func(context.Context, *recode.Registry) error { return boom })
	_ = b.Add("after", func(context.Context, *recode.Registry) error {
		after = true
		return nil
	})

	err := b.Run(context.Background(), recode.NewRegistry())
	var he *HookError
	if !errors.As(err, &he) {
		t.Fatalf("Run() error = %v, want *HookError", err)
	}
	if he.Name != "bad" || !errors.Is(err, boom) {
		t.Errorf("HookError = %+v", he)
	}
	if after {
		t.Error("hooks after a failure should not run")
	}
	if err.Error() != `startup hook "bad": boom` {
		t.Errorf("Error() = %q", err.Error())
	}

	if again := b.Run(context.Background(), recode.NewRegistry()); !errors.Is(again, boom) {
		t.Errorf("second Run() = %v, want the first result", again)
	}
}

func TestRun_Canceled(t *testing.T) {
	b := New()
	called := false
	_ = b.Add("hook", func(context.Context, *recode.Registry) error {
		called = true
		return nil
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := b.Run(ctx, recode.NewRegistry()); !errors.Is(err, context.Canceled) {
		t.Errorf("Run() error = %v, want context.Canceled", err)
	}
	if called {
		t.Error("hook should not run after cancellation")
	}
}

func TestAdd_Errors(t *testing.T) {
	b := New()
	if err := b.Add("nil", nil); !errors.Is(err, ErrNilHook) {
		t.Errorf("Add(nil) error = %v, want ErrNilHook", err)
	}
	if err := b.Run(context.Background(), recode.NewRegistry()); err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	err := b.Add("late", func(context.Context, *recode.Registry) error { return nil })
	if !errors.Is(err, ErrAlreadyRan) {
		t.Errorf("Add() after Run error = %v, want ErrAlreadyRan", err)
	}
	if b.Len() != 0 {
		t.Errorf("Len() = %d, want 0", b.Len())
	}
}

func TestDefault(t *testing.T) {
	if Default() != std {
		t.Error("Default() should return the process Bootstrap")
	}
}
