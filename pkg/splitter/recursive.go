package splitter

import "strings"

// DefaultSeparators order matters: paragraph break, line break, sentence
// break, word break, then raw characters. The first separator present in
// the text wins, which keeps semantic boundaries intact over raw size.
var DefaultSeparators = []string{"\n\n", "\n", ".", " ", ""}

const (
	DefaultChunkSize    = 1000
	DefaultChunkOverlap = 150
)

// RecursiveSplitter splits text into overlapping windows of roughly
// ChunkSize characters, preferring to cut on the separator ladder.
// Separators stay attached to the preceding piece, so concatenating the
// resulting chunks (minus the overlap) reproduces the source text.
type RecursiveSplitter struct {
	ChunkSize    int
	ChunkOverlap int
	Separators   []string
}

func NewRecursiveSplitter(chunkSize, chunkOverlap int) *RecursiveSplitter {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if chunkOverlap < 0 || chunkOverlap >= chunkSize {
		chunkOverlap = DefaultChunkOverlap
	}
	return &RecursiveSplitter{
		ChunkSize:    chunkSize,
		ChunkOverlap: chunkOverlap,
		Separators:   DefaultSeparators,
	}
}

func (s *RecursiveSplitter) Split(text string) []string {
	if text == "" {
		return nil
	}
	return s.splitText(text, s.Separators)
}

func (s *RecursiveSplitter) splitText(text string, separators []string) []string {
	// Pick the first separator that actually occurs in this text.
	separator := separators[len(separators)-1]
	var next []string
	for i, sep := range separators {
		if sep == "" || strings.Contains(text, sep) {
			separator = sep
			next = separators[i+1:]
			break
		}
	}

	splits := splitKeepSeparator(text, separator)

	var chunks []string
	var good []string
	for _, piece := range splits {
		if len(piece) < s.ChunkSize {
			good = append(good, piece)
			continue
		}
		// Oversized piece: flush what we have, then recurse with the
		// remaining separators.
		if len(good) > 0 {
			chunks = append(chunks, s.merge(good)...)
			good = nil
		}
		if len(next) == 0 {
			chunks = append(chunks, piece)
		} else {
			chunks = append(chunks, s.splitText(piece, next)...)
		}
	}
	if len(good) > 0 {
		chunks = append(chunks, s.merge(good)...)
	}
	return chunks
}

// merge packs small pieces into windows of up to ChunkSize characters,
// carrying ChunkOverlap characters over into the next window.
func (s *RecursiveSplitter) merge(splits []string) []string {
	var chunks []string
	var current []string
	total := 0

	for _, piece := range splits {
		if total+len(piece) > s.ChunkSize && len(current) > 0 {
			chunks = append(chunks, strings.Join(current, ""))
			// Keep at most ChunkOverlap characters as the head of the
			// next window.
			for len(current) > 0 && (total > s.ChunkOverlap || total+len(piece) > s.ChunkSize) {
				total -= len(current[0])
				current = current[1:]
			}
		}
		current = append(current, piece)
		total += len(piece)
	}
	if len(current) > 0 {
		chunks = append(chunks, strings.Join(current, ""))
	}
	return chunks
}

func splitKeepSeparator(text, separator string) []string {
	if separator == "" {
		out := make([]string, 0, len(text))
		for _, r := range text {
			out = append(out, string(r))
		}
		return out
	}
	parts := strings.SplitAfter(text, separator)
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
