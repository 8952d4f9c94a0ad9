package snapshotcodec

import (
	"cmp"
	"slices"
)

// PositiveMap drops non-positive entries and returns nil when nothing is left, so
// an untouched map and an empty one export identically.
func PositiveMap[K comparable](src map[K]int) map[K]int {
	if len(src) == 0 {
		return nil
	}
	dst := map[K]int{}
	for k, v := range src {
		if v > 0 {
			dst[k] = v
		}
	}
	if len(dst) == 0 {
		return nil
	}
	return dst
}

// SortedKeys returns the map's keys in ascending order.
func SortedKeys[K cmp.Ordered, V any](m map[K]V) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// CopyGrid deep-copies a row-major grid.
func CopyGrid[T any](g [][]T) [][]T {
	if g == nil {
		return nil
	}
	out := make([][]T, len(g))
	for i, row := range g {
		out[i] = append([]T(nil), row...)
	}
	return out
}
