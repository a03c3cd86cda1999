package splitters

import (
	"fmt"
	"strings"

	"vectorbridge/internal/rag/interfaces"
)

// defaultSeparators are tried in order: paragraphs first, then lines,
// then words, then individual characters as the hard-split fallback.
var defaultSeparators = []string{"\n\n", "\n", " ", ""}

// RecursiveCharacterSplitter implements the Splitter interface by splitting
// text on progressively finer separators until every chunk fits ChunkSize,
// then re-merging adjacent pieces with a ChunkOverlap-character overlap.
type RecursiveCharacterSplitter struct {
	ChunkSize    int
	ChunkOverlap int
	separators   []string
}

// NewRecursiveCharacterSplitter creates a new RecursiveCharacterSplitter.
// chunkSize must be positive and chunkOverlap must satisfy
// 0 <= chunkOverlap < chunkSize.
func NewRecursiveCharacterSplitter(chunkSize, chunkOverlap int) (*RecursiveCharacterSplitter, error) {
	if chunkSize <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", chunkSize)
	}
	if chunkOverlap < 0 || chunkOverlap >= chunkSize {
		return nil, fmt.Errorf("chunk overlap must be in [0, %d), got %d", chunkSize, chunkOverlap)
	}

	return &RecursiveCharacterSplitter{
		ChunkSize:    chunkSize,
		ChunkOverlap: chunkOverlap,
		separators:   defaultSeparators,
	}, nil
}

// Split splits text into chunks of at most ChunkSize characters. Empty input
// yields no chunks, and no returned chunk is empty. Splitting is
// deterministic.
func (s *RecursiveCharacterSplitter) Split(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	return s.splitText(text, s.separators)
}

// splitText picks the coarsest separator present in the text, splits on it,
// recurses into any piece still larger than ChunkSize, and merges the rest.
func (s *RecursiveCharacterSplitter) splitText(text string, separators []string) []string {
	separator := separators[len(separators)-1]
	remaining := separators
	for i, sep := range separators {
		if sep == "" || strings.Contains(text, sep) {
			separator = sep
			remaining = separators[i+1:]
			break
		}
	}

	var parts []string
	if separator == "" {
		for _, r := range text {
			parts = append(parts, string(r))
		}
	} else {
		for _, p := range strings.Split(text, separator) {
			if p != "" {
				parts = append(parts, p)
			}
		}
	}

	var chunks []string
	var good []string
	for _, part := range parts {
		if runeLen(part) <= s.ChunkSize {
			good = append(good, part)
			continue
		}

		// Oversized piece: flush what we have, then split it with the
		// finer separators.
		if len(good) > 0 {
			chunks = append(chunks, s.merge(good, separator)...)
			good = nil
		}
		chunks = append(chunks, s.splitText(part, remaining)...)
	}
	if len(good) > 0 {
		chunks = append(chunks, s.merge(good, separator)...)
	}

	return chunks
}

// merge joins consecutive small pieces into chunks of at most ChunkSize
// characters, carrying at most ChunkOverlap trailing characters of one chunk
// into the next.
func (s *RecursiveCharacterSplitter) merge(parts []string, separator string) []string {
	sepLen := runeLen(separator)

	var chunks []string
	var window []string
	total := 0

	join := func() {
		chunk := strings.TrimSpace(strings.Join(window, separator))
		if chunk != "" {
			chunks = append(chunks, chunk)
		}
	}

	for _, part := range parts {
		l := runeLen(part)
		extra := 0
		if len(window) > 0 {
			extra = sepLen
		}

		if total+l+extra > s.ChunkSize && len(window) > 0 {
			join()
			// Shrink the window down to the overlap budget before the
			// next chunk starts accumulating.
			for total > s.ChunkOverlap || (total+l+extra > s.ChunkSize && total > 0) {
				drop := runeLen(window[0])
				if len(window) > 1 {
					drop += sepLen
				}
				total -= drop
				window = window[1:]
			}
		}

		if len(window) > 0 {
			total += sepLen
		}
		window = append(window, part)
		total += l
	}
	if len(window) > 0 {
		join()
	}

	return chunks
}

func runeLen(s string) int {
	return len([]rune(s))
}

// compile-time check to ensure RecursiveCharacterSplitter implements the Splitter interface
var _ interfaces.Splitter = (*RecursiveCharacterSplitter)(nil)
