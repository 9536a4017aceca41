package tokencount

import "testing"

func TestHeuristicCountCJKOnly(t *testing.T) {
	// 6 CJK chars -> ceil(6/1.5) = 4
	got := heuristicCount("订单列表分页")
	if got != 4 {
		t.Fatalf("expected 4, got %d", got)
	}
}

func TestHeuristicCountASCIIOnly(t *testing.T) {
	// 8 ascii chars -> ceil(8/4) = 2
	got := heuristicCount("deadbeef")
	if got != 2 {
		t.Fatalf("expected 2, got %d", got)
	}
}

func TestHeuristicCountMixed(t *testing.T) {
	got := heuristicCount("订单abcd") // 2 cjk + 4 ascii -> ceil(2/1.5)=2, ceil(4/4)=1 -> 3
	if got != 3 {
		t.Fatalf("expected 3, got %d", got)
	}
}

func TestCountUsesEncoderWhenAvailable(t *testing.T) {
	n := Count("hello world")
	if n <= 0 {
		t.Fatalf("expected a positive token count, got %d", n)
	}
}

func TestSplitScenario(t *testing.T) {
	estimates := []int{800, 900, 900, 1100}
	est := func(i int) int { return estimates[i] }

	batches := SplitAll(len(estimates), 2000, est)
	want := [][2]int{{0, 2}, {2, 3}, {3, 4}}
	if len(batches) != len(want) {
		t.Fatalf("expected %d batches, got %d: %v", len(want), len(batches), batches)
	}
	for i, b := range batches {
		if b != want[i] {
			t.Fatalf("batch %d: got %v, want %v", i, b, want[i])
		}
	}
}

func TestSplitOversizedSingleItem(t *testing.T) {
	estimates := []int{5000}
	est := func(i int) int { return estimates[i] }
	length, next, tokens := Split(1, 0, 2000, est)
	if length != 1 || next != 1 || tokens != 5000 {
		t.Fatalf("expected a single oversized batch, got len=%d next=%d tokens=%d", length, next, tokens)
	}
}

func TestSplitAllCoversEverySlot(t *testing.T) {
	estimates := []int{1, 1, 1, 1, 1}
	est := func(i int) int { return estimates[i] }
	batches := SplitAll(len(estimates), 3, est)

	seen := 0
	for _, b := range batches {
		seen += b[1] - b[0]
	}
	if seen != len(estimates) {
		t.Fatalf("expected every item covered exactly once, got %d of %d", seen, len(estimates))
	}
}
