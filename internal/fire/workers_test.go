package fire

import (
	"strings"
	"testing"
)

func TestPartition(t *testing.T) {
	cases := []struct {
		n, parts int
		want     [][2]int
	}{
		{10, 3, [][2]int{{0, 4}, {4, 8}, {8, 10}}},
		{2, 8, [][2]int{{0, 1}, {1, 2}}},
		{5, 0, [][2]int{{0, 5}}},
		{0, 4, nil},
	}
	for _, tc := range cases {
		got := partition(tc.n, tc.parts)
		if len(got) != len(tc.want) {
			t.Fatalf("partition(%d, %d) = %v, want %v", tc.n, tc.parts, got, tc.want)
		}
		for i := range got {
			if got[i] != tc.want[i] {
				t.Fatalf("partition(%d, %d) = %v, want %v", tc.n, tc.parts, got, tc.want)
			}
		}
	}
}

func TestFanOutCoversEveryItem(t *testing.T) {
	items := make([]int, 1000)
	for i := range items {
		items[i] = i
	}
	sums, err := fanOut(7, len(items), func(lo, hi int) int {
		s := 0
		for _, v := range items[lo:hi] {
			s += v
		}
		return s
	})
	if err != nil {
		t.Fatal(err)
	}
	total := 0
	for _, s := range sums {
		total += s
	}
	if total != 999*1000/2 {
		t.Fatalf("fan-out sum = %d", total)
	}
}

func TestFanOutRecoversPanics(t *testing.T) {
	out, err := fanOut(4, 8, func(lo, hi int) int {
		if lo == 0 {
			panic("boom")
		}
		return hi - lo
	})
	if err == nil || !strings.Contains(err.Error(), "boom") {
		t.Fatalf("err = %v, want recovered panic", err)
	}
	if out[0] != 0 {
		t.Fatalf("panicking partition produced %d", out[0])
	}
	for i := 1; i < len(out); i++ {
		if out[i] != 2 {
			t.Fatalf("partition %d = %d, want 2", i, out[i])
		}
	}
}
