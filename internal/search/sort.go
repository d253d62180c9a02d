package search

import (
	"slices"
	"strings"
	"sync"
)

// minParallelSort is the size below which sorting stays on one goroutine
const minParallelSort = 4096

// sortResults orders results by their undecorated path line. Equal keys keep
// no particular order.
func sortResults(results []result, order SortOrder, pos LabelPosition, workers int) {
	if order == SortNone || len(results) < 2 {
		return
	}
	cmp := func(a, b result) int {
		return strings.Compare(StripLabel(a.head, pos), StripLabel(b.head, pos))
	}
	if order == SortDescending {
		asc := cmp
		cmp = func(a, b result) int { return asc(b, a) }
	}
	parallelSort(results, cmp, workers)
}

// parallelSort sorts runs of the slice concurrently and merges them pairwise
func parallelSort(items []result, cmp func(a, b result) int, workers int) {
	n := len(items)
	if workers < 2 || n < minParallelSort {
		slices.SortFunc(items, cmp)
		return
	}

	width := (n + workers - 1) / workers
	var wg sync.WaitGroup
	for lo := 0; lo < n; lo += width {
		run := items[lo:min(lo+width, n)]
		wg.Add(1)
		go func() {
			defer wg.Done()
			slices.SortFunc(run, cmp)
		}()
	}
	wg.Wait()

	src, dst := items, make([]result, n)
	for ; width < n; width *= 2 {
		var wg sync.WaitGroup
		for lo := 0; lo < n; lo += 2 * width {
			mid, hi := min(lo+width, n), min(lo+2*width, n)
			left, right, out := src[lo:mid], src[mid:hi], dst[lo:hi]
			wg.Add(1)
			go func() {
				defer wg.Done()
				merge(out, left, right, cmp)
			}()
		}
		wg.Wait()
		src, dst = dst, src
	}
	if &src[0] != &items[0] {
		copy(items, src)
	}
}

func merge(out, left, right []result, cmp func(a, b result) int) {
	i, j, k := 0, 0, 0
	for i < len(left) && j < len(right) {
		if cmp(right[j], left[i]) < 0 {
			out[k] = right[j]
			j++
		} else {
			out[k] = left[i]
			i++
		}
		k++
	}
	k += copy(out[k:], left[i:])
	copy(out[k:], right[j:])
}
