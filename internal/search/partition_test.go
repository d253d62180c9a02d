package search

import (
	"fmt"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
)

func frontierOf(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("/root/d%03d", i)
	}
	return out
}

func TestPartitionAssignsEachDirOnce(t *testing.T) {
	strategies := map[string]PartitionStrategy{
		"interleave": PartitionInterleave,
		"contiguous": PartitionContiguous,
		"hash":       PartitionHash,
	}
	for name, strategy := range strategies {
		for _, size := range []int{1, 3, 8, 9, 100} {
			for _, workers := range []int{2, 4, 16} {
				t.Run(fmt.Sprintf("%s/%d/%d", name, size, workers), func(t *testing.T) {
					frontier := frontierOf(size)
					parts := partition(frontier, workers, strategy)

					assert.LessOrEqual(t, len(parts), workers)
					var got []string
					for _, p := range parts {
						assert.NotEmpty(t, p)
						got = append(got, p...)
					}
					sort.Strings(got)
					assert.Equal(t, frontier, got)
				})
			}
		}
	}
}

func TestPartitionInterleave(t *testing.T) {
	parts := partition([]string{"a", "b", "c", "d", "e"}, 2, PartitionInterleave)

	assert.Equal(t, [][]string{{"a", "c", "e"}, {"b", "d"}}, parts)
}

func TestPartitionContiguous(t *testing.T) {
	parts := partition([]string{"a", "b", "c", "d", "e"}, 2, PartitionContiguous)

	assert.Equal(t, [][]string{{"a", "b", "c"}, {"d", "e"}}, parts)
}

func TestPartitionEmpty(t *testing.T) {
	assert.Empty(t, partition(nil, 4, PartitionInterleave))
}
