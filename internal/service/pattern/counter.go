package pattern

import "sort"

// counter counts occurrences while remembering first-seen order, so ties
// resolve to whichever value appeared first in the (newest-first) input.
type counter[T comparable] struct {
	order  []T
	counts map[T]int
}

func newCounter[T comparable]() *counter[T] {
	return &counter[T]{counts: make(map[T]int)}
}

func (c *counter[T]) add(v T) {
	if _, seen := c.counts[v]; !seen {
		c.order = append(c.order, v)
	}
	c.counts[v]++
}

func (c *counter[T]) count(v T) int { return c.counts[v] }

// top returns up to n values by descending count, ties by first-seen order.
func (c *counter[T]) top(n int) []T {
	out := make([]T, len(c.order))
	copy(out, c.order)
	sort.SliceStable(out, func(i, j int) bool { return c.counts[out[i]] > c.counts[out[j]] })
	if n >= 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// max returns the most frequent value and its count; ok is false when empty.
func (c *counter[T]) max() (v T, n int, ok bool) {
	for _, item := range c.order {
		if c.counts[item] > n {
			v, n, ok = item, c.counts[item], true
		}
	}
	return v, n, ok
}

// atLeast returns the values seen at least threshold times, in first-seen order.
func (c *counter[T]) atLeast(threshold int) []T {
	var out []T
	for _, item := range c.order {
		if c.counts[item] >= threshold {
			out = append(out, item)
		}
	}
	return out
}
