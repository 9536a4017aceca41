// Package tokencount implements token counting for budgeting (never
// for billing). The primary path loads a tiktoken cl100k_base encoding
// once, process-wide, guarded by sync.Once exactly as the embedding model handle is
// a lazily-initialized singleton; any failure to load or encode falls back
// to a CJK/non-CJK heuristic.
package tokencount

import (
	"sync"

	"github.com/pkoukk/tiktoken-go"

	"issuelens/internal/logging"
)

var (
	encOnce sync.Once
	enc     *tiktoken.Tiktoken
	encErr  error
)

func encoder() (*tiktoken.Tiktoken, error) {
	encOnce.Do(func() {
		enc, encErr = tiktoken.GetEncoding("cl100k_base")
		if encErr != nil {
			logging.Tokens("tiktoken cl100k_base unavailable, falling back to heuristic counting: %v", encErr)
		} else {
			logging.TokensDebug("tiktoken cl100k_base loaded")
		}
	})
	return enc, encErr
}

// Count returns the token count for text. It prefers the tiktoken
// cl100k_base encoder; on any failure to load the encoder or tokenize, it
// falls back to the CJK/non-CJK heuristic (never underestimates by more
// than ~30% on realistic project text).
func Count(text string) int {
	if e, err := encoder(); err == nil {
		return safeEncodeCount(e, text)
	}
	return heuristicCount(text)
}

// safeEncodeCount guards against a panic inside the tiktoken encoder (BPE
// merges on adversarial input have been known to panic upstream) by
// recovering and falling back to the heuristic for that one call.
func safeEncodeCount(e *tiktoken.Tiktoken, text string) (n int) {
	defer func() {
		if r := recover(); r != nil {
			logging.Tokens("tiktoken panicked encoding text, falling back to heuristic: %v", r)
			n = heuristicCount(text)
		}
	}()
	return len(e.Encode(text, nil, nil))
}

// heuristicCount implements the fallback rule:
// ceil(CJK_char_count/1.5) + ceil(non_CJK_char_count/4).
func heuristicCount(text string) int {
	var cjk, other int
	for _, r := range text {
		if isCJK(r) {
			cjk++
		} else {
			other++
		}
	}
	return ceilDiv(cjk, 2, 3) + ceilDiv(other, 1, 4) // ceil(cjk/1.5) == ceil(cjk*2/3)
}

// ceilDiv returns ceil(n * num / den) using only integer arithmetic.
func ceilDiv(n, num, den int) int {
	if n == 0 {
		return 0
	}
	total := n * num
	return (total + den - 1) / den
}

// isCJK reports whether r falls in one of the common CJK ideograph ranges.
func isCJK(r rune) bool {
	switch {
	case r >= 0x4E00 && r <= 0x9FFF: // CJK Unified Ideographs
		return true
	case r >= 0x3400 && r <= 0x4DBF: // CJK Extension A
		return true
	case r >= 0xF900 && r <= 0xFAFF: // CJK Compatibility Ideographs
		return true
	case r >= 0x3000 && r <= 0x303F: // CJK punctuation
		return true
	case r >= 0xFF00 && r <= 0xFFEF: // Fullwidth forms
		return true
	case r >= 0x20000 && r <= 0x2A6DF: // CJK Extension B
		return true
	default:
		return false
	}
}
