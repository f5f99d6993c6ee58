package bootstrap

import (
	"context"
	"time"

	"github.com/zoobzio/capitan"
	"github.com/zoobzio/recode"
)

// SignalHook fires after each startup hook.
var SignalHook = capitan.NewSignal("recode.bootstrap.hook", "Startup hook finished")

// KeyHook carries the hook name.
var KeyHook = capitan.NewStringKey("hook")

func emitHook(ctx context.Context, name string, duration time.Duration, err error) {
	fields := []capitan.Field{
		KeyHook.Field(name),
		recode.KeyDuration.Field(duration),
	}
	if err != nil {
		fields = append(fields, recode.KeyError.Field(err))
		capitan.Error(ctx, SignalHook, fields...)
	} else {
		capitan.Emit(ctx, SignalHook, fields...)
	}
}
