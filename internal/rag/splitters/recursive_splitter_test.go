package splitters

import (
	"fmt"
	"strings"
	"testing"
)

func newTestSplitter(t *testing.T, chunkSize, chunkOverlap int) *RecursiveCharacterSplitter {
	t.Helper()
	s, err := NewRecursiveCharacterSplitter(chunkSize, chunkOverlap)
	if err != nil {
		t.Fatalf("NewRecursiveCharacterSplitter() error = %v", err)
	}
	return s
}

func loremText(length int) string {
	text := strings.Repeat("lorem ipsum dolor sit amet consectetur adipiscing elit ", length/55+1)
	return text[:length]
}

func TestNewRecursiveCharacterSplitterValidation(t *testing.T) {
	if _, err := NewRecursiveCharacterSplitter(0, 0); err == nil {
		t.Error("expected error for zero chunk size")
	}
	if _, err := NewRecursiveCharacterSplitter(100, 100); err == nil {
		t.Error("expected error for overlap equal to chunk size")
	}
	if _, err := NewRecursiveCharacterSplitter(100, -1); err == nil {
		t.Error("expected error for negative overlap")
	}
}

func TestSplitEmptyInput(t *testing.T) {
	s := newTestSplitter(t, 1000, 20)

	if chunks := s.Split(""); len(chunks) != 0 {
		t.Errorf("expected no chunks for empty input, got %d", len(chunks))
	}
	if chunks := s.Split("   \n\n  "); len(chunks) != 0 {
		t.Errorf("expected no chunks for whitespace input, got %d", len(chunks))
	}
}

func TestSplitChunkBounds(t *testing.T) {
	s := newTestSplitter(t, 1000, 20)
	chunks := s.Split(loremText(2500))

	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks for 2500 characters, got %d", len(chunks))
	}
	for i, chunk := range chunks {
		if chunk == "" {
			t.Errorf("chunk %d is empty", i)
		}
		if len(chunk) > 1000 {
			t.Errorf("chunk %d exceeds max size: %d", i, len(chunk))
		}
	}
}

func TestSplitDeterministic(t *testing.T) {
	s := newTestSplitter(t, 1000, 20)
	text := loremText(2500)

	first := s.Split(text)
	second := s.Split(text)
	if len(first) != len(second) {
		t.Fatalf("chunk counts differ between runs: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("chunk %d differs between runs", i)
		}
	}
}

func TestSplitPreservesParagraphs(t *testing.T) {
	s := newTestSplitter(t, 50, 10)
	text := "first paragraph stays whole\n\nsecond paragraph stays whole too"

	chunks := s.Split(text)
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d: %q", len(chunks), chunks)
	}
	if chunks[0] != "first paragraph stays whole" {
		t.Errorf("unexpected first chunk: %q", chunks[0])
	}
	if chunks[1] != "second paragraph stays whole too" {
		t.Errorf("unexpected second chunk: %q", chunks[1])
	}
}

func TestSplitHardSplitWithOverlap(t *testing.T) {
	s := newTestSplitter(t, 1000, 20)
	// No separators at all forces the character-level fallback.
	text := strings.Repeat("0123456789", 250)

	chunks := s.Split(text)
	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(chunks))
	}
	if chunks[0] != text[0:1000] {
		t.Errorf("unexpected first chunk bounds")
	}
	if chunks[1] != text[980:1980] {
		t.Errorf("unexpected second chunk bounds")
	}
	if chunks[2] != text[1960:2500] {
		t.Errorf("unexpected third chunk bounds")
	}
	// Consecutive chunks share exactly the overlap amount.
	if got := chunks[0][980:]; got != chunks[1][:20] {
		t.Errorf("first/second overlap mismatch: %q vs %q", got, chunks[1][:20])
	}
}

func TestSplitOverlapBounded(t *testing.T) {
	s := newTestSplitter(t, 100, 20)
	// Distinct words so a measured overlap can only come from the merge
	// window, never from the text repeating itself.
	words := make([]string, 120)
	for i := range words {
		words[i] = fmt.Sprintf("word%03d", i)
	}
	chunks := s.Split(strings.Join(words, " "))

	for i := 1; i < len(chunks); i++ {
		overlap := longestSuffixPrefix(chunks[i-1], chunks[i])
		if overlap > 20 {
			t.Errorf("chunks %d/%d overlap by %d characters, want <= 20", i-1, i, overlap)
		}
	}
}

// longestSuffixPrefix returns the length of the longest suffix of a that
// is also a prefix of b.
func longestSuffixPrefix(a, b string) int {
	max := len(a)
	if len(b) < max {
		max = len(b)
	}
	for l := max; l > 0; l-- {
		if strings.HasSuffix(a, b[:l]) {
			return l
		}
	}
	return 0
}
