package digestcodec

import (
	"cmp"
	"slices"
)

// WriteSortedIntMap emits a deterministic key-sorted map encoding, skipping zero
// values so an absent key and a zero entry digest the same.
func WriteSortedIntMap[K cmp.Ordered](e *Encoder, m map[K]int, key func(K) uint64) {
	keys := make([]K, 0, len(m))
	for k, v := range m {
		if v != 0 {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)
	e.U64(uint64(len(keys)))
	for _, k := range keys {
		e.U64(key(k))
		e.I64(int64(m[k]))
	}
}
