// Package slice assigns persistence ids to slices and partitions the
// slice space into contiguous ranges.
//
// The slice of a persistence id is derived from a bit-stable hash of its
// UTF-8 bytes, so journal writers and readers agree on the assignment
// across processes and platforms. Any external journal implementation
// must use the same function.
package slice

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// Count is the total number of slices.
const Count = 1024

// Number returns the slice of a persistence id, in [0, Count).
func Number(persistenceID string) int32 {
	return int32(xxhash.Sum64String(persistenceID) % Count)
}

// Range is a contiguous, inclusive range of slices.
type Range struct {
	Min int32
	Max int32
}

// Contains reports whether s falls inside the range.
func (r Range) Contains(s int32) bool {
	return s >= r.Min && s <= r.Max
}

// String renders the range as "min-max".
func (r Range) String() string {
	return fmt.Sprintf("%d-%d", r.Min, r.Max)
}

// FullRange covers every slice.
func FullRange() Range {
	return Range{Min: 0, Max: Count - 1}
}

// Ranges partitions [0, Count) into n contiguous, disjoint, covering
// ranges. Ranges are as equal as possible; when Count is not divisible
// by n the last range is larger by the remainder.
func Ranges(n int) ([]Range, error) {
	if n <= 0 || n > Count {
		return nil, fmt.Errorf("number of ranges must be in [1, %d], got %d", Count, n)
	}
	size := Count / n
	ranges := make([]Range, n)
	for i := 0; i < n; i++ {
		ranges[i] = Range{Min: int32(i * size), Max: int32((i+1)*size - 1)}
	}
	ranges[n-1].Max = Count - 1
	return ranges, nil
}

// RangeValid reports whether min and max form a valid slice range.
func RangeValid(min, max int32) bool {
	return min >= 0 && min <= max && max < Count
}
