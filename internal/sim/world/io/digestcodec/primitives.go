package digestcodec

import (
	"encoding/binary"
	"io"
)

func BoolByte(v bool) byte {
	if v {
		return 1
	}
	return 0
}

// Encoder writes fixed-width little-endian fields to a hash. Strings and
// slices are length-prefixed so adjacent fields cannot run together.
type Encoder struct {
	w   io.Writer
	tmp [8]byte
}

func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: w}
}

func (e *Encoder) U64(v uint64) {
	binary.LittleEndian.PutUint64(e.tmp[:], v)
	e.w.Write(e.tmp[:])
}

func (e *Encoder) I64(v int64) { e.U64(uint64(v)) }

func (e *Encoder) Int(v int) { e.U64(uint64(int64(v))) }

func (e *Encoder) Bool(v bool) {
	e.w.Write([]byte{BoolByte(v)})
}

func (e *Encoder) String(s string) {
	e.U64(uint64(len(s)))
	io.WriteString(e.w, s)
}

func (e *Encoder) Ints(vs []int) {
	e.U64(uint64(len(vs)))
	for _, v := range vs {
		e.Int(v)
	}
}
