package format

import (
	"github.com/vmihailenco/msgpack/v5"
)

type msgpackFormat struct{}

// MessagePack returns the MessagePack format.
func MessagePack() Format {
	return &msgpackFormat{}
}

func (f *msgpackFormat) ContentType() string {
	return "application/msgpack"
}

func (f *msgpackFormat) Marshal(v any) ([]byte, error) {
	return msgpack.Marshal(v)
}
