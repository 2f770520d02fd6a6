package fire

import (
	"fmt"

	"golang.org/x/sync/errgroup"
)

// partition splits n items into at most parts contiguous [lo, hi) ranges of
// nearly equal size.
func partition(n, parts int) [][2]int {
	if n <= 0 {
		return nil
	}
	if parts < 1 {
		parts = 1
	}
	if parts > n {
		parts = n
	}
	chunk := (n + parts - 1) / parts
	out := make([][2]int, 0, parts)
	for lo := 0; lo < n; lo += chunk {
		hi := lo + chunk
		if hi > n {
			hi = n
		}
		out = append(out, [2]int{lo, hi})
	}
	return out
}

// fanOut runs fn once per partition of n items on at most workers goroutines
// and waits for all of them. A panicking partition leaves its slot zero and is
// reported through the returned error; the other partitions still complete.
func fanOut[T any](workers, n int, fn func(lo, hi int) T) ([]T, error) {
	ranges := partition(n, workers)
	out := make([]T, len(ranges))
	var g errgroup.Group
	if workers > 0 {
		g.SetLimit(workers)
	}
	for i, r := range ranges {
		g.Go(func() (err error) {
			defer func() {
				if p := recover(); p != nil {
					err = fmt.Errorf("fire: partition [%d,%d) panicked: %v", r[0], r[1], p)
				}
			}()
			out[i] = fn(r[0], r[1])
			return nil
		})
	}
	return out, g.Wait()
}
