package slice

import (
	"math/rand"
	"testing"
	"testing/quick"
	"time"
)

func TestNumberDeterministic(t *testing.T) {
	ids := []string{"cart-45", "550e8400-e29b-41d4-a716-446655440000", "a", ""}
	for _, id := range ids {
		first := Number(id)
		second := Number(id)
		if first != second {
			t.Fatalf("slice should be deterministic for %q: %d != %d", id, first, second)
		}
		if first < 0 || first >= Count {
			t.Fatalf("slice out of range for %q: %d", id, first)
		}
	}
}

func TestNumberRangeProperty(t *testing.T) {
	cfg := &quick.Config{Rand: rand.New(rand.NewSource(time.Now().UnixNano()))}
	if err := quick.Check(func(s string) bool {
		n := Number(s)
		return n >= 0 && n < Count
	}, cfg); err != nil {
		t.Fatalf("slice range property failed: %v", err)
	}
}

func TestRangesPartition(t *testing.T) {
	for _, n := range []int{1, 2, 4, 7, 128, 1024} {
		ranges, err := Ranges(n)
		if err != nil {
			t.Fatalf("ranges(%d): %v", n, err)
		}
		if len(ranges) != n {
			t.Fatalf("ranges(%d) len = %d, want %d", n, len(ranges), n)
		}
		if ranges[0].Min != 0 {
			t.Fatalf("ranges(%d)[0].Min = %d, want 0", n, ranges[0].Min)
		}
		if ranges[n-1].Max != Count-1 {
			t.Fatalf("ranges(%d) last Max = %d, want %d", n, ranges[n-1].Max, Count-1)
		}
		for i := 1; i < n; i++ {
			if ranges[i].Min != ranges[i-1].Max+1 {
				t.Fatalf("ranges(%d) gap between %v and %v", n, ranges[i-1], ranges[i])
			}
		}
	}
}

func TestRangesFour(t *testing.T) {
	ranges, err := Ranges(4)
	if err != nil {
		t.Fatalf("ranges(4): %v", err)
	}
	want := []Range{{0, 255}, {256, 511}, {512, 767}, {768, 1023}}
	for i, r := range ranges {
		if r != want[i] {
			t.Fatalf("ranges(4)[%d] = %v, want %v", i, r, want[i])
		}
	}
}

func TestRangesInvalid(t *testing.T) {
	for _, n := range []int{0, -1, 1025} {
		if _, err := Ranges(n); err == nil {
			t.Fatalf("ranges(%d) should fail", n)
		}
	}
}

func TestRangeContains(t *testing.T) {
	r := Range{Min: 256, Max: 511}
	if !r.Contains(256) || !r.Contains(511) || !r.Contains(300) {
		t.Fatal("range should contain its bounds and interior")
	}
	if r.Contains(255) || r.Contains(512) {
		t.Fatal("range should not contain values outside its bounds")
	}
	if r.String() != "256-511" {
		t.Fatalf("range string = %q, want %q", r.String(), "256-511")
	}
}
