package tokencount

// Estimator returns a per-item token estimate for item at index i.
type Estimator func(i int) int

// Split performs a greedy token-budget split: starting
// at start, it accumulates consecutive items, stopping before adding an
// item that would bring the running total to or past threshold. At least
// one item is always taken, even if it alone meets or exceeds threshold —
// the caller is responsible for shrinking oversized single items. Split
// guarantees forward progress: batchLen is always >= 1 when start < n.
func Split(n int, start int, threshold int, estimate Estimator) (batchLen, nextStart, batchTokens int) {
	if start >= n {
		return 0, start, 0
	}

	i := start
	total := estimate(i)
	i++
	for i < n {
		next := estimate(i)
		if total+next >= threshold {
			break
		}
		total += next
		i++
	}
	return i - start, i, total
}

// SplitAll repeatedly applies Split over the full range [0, n), returning
// every batch as a [start, end) pair. Used by overview/evaluator where the whole
// sequence is partitioned up front rather than pulled batch-by-batch.
func SplitAll(n int, threshold int, estimate Estimator) [][2]int {
	var batches [][2]int
	start := 0
	for start < n {
		length, next, _ := Split(n, start, threshold, estimate)
		batches = append(batches, [2]int{start, start + length})
		start = next
	}
	return batches
}
