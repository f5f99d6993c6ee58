package recode

import (
	"context"
	"time"

	"github.com/zoobzio/capitan"
)

// Signals for codec events.
var (
	SignalSearchRegistered = capitan.NewSignal("recode.search.registered", "Search function appended to a registry")
	SignalLookupHit        = capitan.NewSignal("recode.lookup.hit", "Codec resolved by name")
	SignalLookupMiss       = capitan.NewSignal("recode.lookup.miss", "No search function recognized a name")
	SignalEncodeComplete   = capitan.NewSignal("recode.encode.complete", "Name-based encode finished")
	SignalDecodeComplete   = capitan.NewSignal("recode.decode.complete", "Name-based decode finished")
	SignalStreamFlushed    = capitan.NewSignal("recode.stream.flushed", "Buffered stream decoded on its final chunk")
)

// Keys for typed event data.
var (
	KeyEncoding   = capitan.NewStringKey("encoding")
	KeyNormalized = capitan.NewStringKey("normalized")
	KeySearchers  = capitan.NewIntKey("searchers")
	KeySize       = capitan.NewIntKey("size")
	KeyDuration   = capitan.NewDurationKey("duration")
	KeyError      = capitan.NewErrorKey("error")
)

// emitSearchRegistered emits an event when a search function is added.
func emitSearchRegistered(ctx context.Context, count int) {
	capitan.Emit(ctx, SignalSearchRegistered,
		KeySearchers.Field(count),
	)
}

// emitLookup emits a hit or a miss for a name.
func emitLookup(ctx context.Context, name, normalized string, err error) {
	if err != nil {
		capitan.Error(ctx, SignalLookupMiss,
			KeyEncoding.Field(name),
			KeyNormalized.Field(normalized),
			KeyError.Field(err),
		)
		return
	}
	capitan.Emit(ctx, SignalLookupHit,
		KeyEncoding.Field(name),
		KeyNormalized.Field(normalized),
	)
}

// emitEncodeComplete emits an event when a name-based encode finishes.
func emitEncodeComplete(ctx context.Context, name string, size int, duration time.Duration, err error) {
	fields := []capitan.Field{
		KeyEncoding.Field(name),
		KeySize.Field(size),
		KeyDuration.Field(duration),
	}
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(ctx, SignalEncodeComplete, fields...)
	} else {
		capitan.Emit(ctx, SignalEncodeComplete, fields...)
	}
}

// emitDecodeComplete emits an event when a name-based decode finishes.
func emitDecodeComplete(ctx context.Context, name string, size int, duration time.Duration, err error) {
	fields := []capitan.Field{
		KeyEncoding.Field(name),
		KeySize.Field(size),
		KeyDuration.Field(duration),
	}
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(ctx, SignalDecodeComplete, fields...)
	} else {
		capitan.Emit(ctx, SignalDecodeComplete, fields...)
	}
}

// emitStreamFlushed emits an event when a buffered decoder finalizes.
func emitStreamFlushed(ctx context.Context, name string, size int, err error) {
	fields := []capitan.Field{
		KeyEncoding.Field(name),
		KeySize.Field(size),
	}
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(ctx, SignalStreamFlushed, fields...)
	} else {
		capitan.Emit(ctx, SignalStreamFlushed, fields...)
	}
}
