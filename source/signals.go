package source

import (
	"context"
	"time"

	"github.com/zoobzio/capitan"
	"github.com/zoobzio/recode"
)

// SignalLoaded fires when the loader finishes a file.
var SignalLoaded = capitan.NewSignal("recode.source.loaded", "Source file decoded by the loader")

// Keys for typed event data.
var (
	KeyName   = capitan.NewStringKey("name")
	KeyChunks = capitan.NewIntKey("chunks")
)

func emitLoaded(ctx context.Context, name, encoding string, size, chunks int, duration time.Duration, err error) {
	fields := []capitan.Field{
		KeyName.Field(name),
		recode.KeyEncoding.Field(encoding),
		recode.KeySize.Field(size),
		KeyChunks.Field(chunks),
		recode.KeyDuration.Field(duration),
	}
	if err != nil {
		fields = append(fields, recode.KeyError.Field(err))
		capitan.Error(ctx, SignalLoaded, fields...)
	} else {
		capitan.Emit(ctx, SignalLoaded, fields...)
	}
}
