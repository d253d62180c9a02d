package search

import (
	"github.com/cespare/xxhash"
)

// partition splits the frontier into at most n non-empty slices. Every
// directory lands in exactly one slice.
func partition(frontier []string, n int, strategy PartitionStrategy) [][]string {
	if n > len(frontier) {
		n = len(frontier)
	}
	if n <= 0 {
		return nil
	}

	var parts [][]string
	switch strategy {
	case PartitionContiguous:
		parts = partitionContiguous(frontier, n)
	case PartitionHash:
		parts = partitionHash(frontier, n)
	default:
		parts = partitionInterleave(frontier, n)
	}

	out := parts[:0]
	for _, p := range parts {
		if len(p) > 0 {
			out = append(out, p)
		}
	}
	return out
}

// partitionInterleave gives directory i to slice i mod n, so each worker
// gets a mix of early (shallow) and late (deep) discoveries.
func partitionInterleave(frontier []string, n int) [][]string {
	per := len(frontier)/n + 1
	parts := make([][]string, n)
	for i := range parts {
		parts[i] = make([]string, 0, per)
	}
	for i, dir := range frontier {
		parts[i%n] = append(parts[i%n], dir)
	}
	return parts
}

// partitionContiguous cuts the frontier into n runs whose lengths differ by
// at most one.
func partitionContiguous(frontier []string, n int) [][]string {
	parts := make([][]string, 0, n)
	size := len(frontier) / n
	rem := len(frontier) % n
	start := 0
	for i := 0; i < n; i++ {
		end := start + size
		if i < rem {
			end++
		}
		parts = append(parts, frontier[start:end:end])
		start = end
	}
	return parts
}

// partitionHash assigns each directory by the hash of its path, which keeps
// an assignment independent of discovery order.
func partitionHash(frontier []string, n int) [][]string {
	parts := make([][]string, n)
	for _, dir := range frontier {
		i := xxhash.Sum64([]byte(dir)) % uint64(n)
		parts[i] = append(parts[i], dir)
	}
	return parts
}
