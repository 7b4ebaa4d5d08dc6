// Package partition splits work lists across a fixed number of workers.
package partition

// Workers clamps requested to [1, units]. It returns 0 when there are no
// units of work.
func Workers(requested, units int) int {
	if units <= 0 {
		return 0
	}
	if requested < 1 {
		requested = 1
	}
	return min(requested, units)
}

// Stride assigns items to workers round-robin: worker i receives the items
// at positions i, i+workers, i+2*workers, ...
//
// Every item lands in exactly one partition. The returned slices hold
// positions into items, preserving order within each partition.
func Stride[T any](items []T, workers int) [][]int {
	if workers < 1 {
		return nil
	}

	parts := make([][]int, workers)
	for w := range parts {
		parts[w] = make([]int, 0, (len(items)-w+workers-1)/workers)
	}
	for i := range items {
		w := i % workers
		parts[w] = append(parts[w], i)
	}
	return parts
}
