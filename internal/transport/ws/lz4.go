package ws

import (
	"bytes"
	"io"
	"sync"

	"github.com/pierrec/lz4/v4"
)

// Seats that announce the lz4 capability get TURN frames as binary websocket
// messages holding one lz4 frame of the JSON message. Everything else stays text.

var bufferPool = sync.Pool{New: func() any { return new(bytes.Buffer) }}

func EncodeLZ4(src []byte) ([]byte, error) {
	buf := bufferPool.Get().(*bytes.Buffer)
	buf.Reset()
	defer bufferPool.Put(buf)

	zw := lz4.NewWriter(buf)
	if _, err := zw.Write(src); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	out := make([]byte, buf.Len())
	copy(out, buf.Bytes())
	return out, nil
}

func DecodeLZ4(src []byte) ([]byte, error) {
	return io.ReadAll(lz4.NewReader(bytes.NewReader(src)))
}
