package digestcodec

import (
	"bytes"
	"testing"
)

func TestEncoderLengthPrefixes(t *testing.T) {
	var a, b bytes.Buffer
	ea, eb := NewEncoder(&a), NewEncoder(&b)
	ea.String("ab")
	ea.String("c")
	eb.String("a")
	eb.String("bc")
	if bytes.Equal(a.Bytes(), b.Bytes()) {
		t.Fatalf("length prefix missing: adjacent strings collide")
	}
}

func TestWriteSortedIntMapOrderIndependent(t *testing.T) {
	var a, b bytes.Buffer
	WriteSortedIntMap(NewEncoder(&a), map[int]int{3: 1, 1: 2, 2: 0}, func(k int) uint64 { return uint64(k) })
	WriteSortedIntMap(NewEncoder(&b), map[int]int{1: 2, 3: 1}, func(k int) uint64 { return uint64(k) })
	if !bytes.Equal(a.Bytes(), b.Bytes()) {
		t.Fatalf("zero entry or key order changed the encoding")
	}
}
