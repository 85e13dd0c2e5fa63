package splitter

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// reassemble stitches chunks back together by dropping each chunk's
// longest prefix that matches the tail of the text built so far. Only
// meaningful on non-repetitive input.
func reassemble(chunks []string) string {
	var sb strings.Builder
	for _, chunk := range chunks {
		built := sb.String()
		overlap := 0
		max := len(chunk)
		if len(built) < max {
			max = len(built)
		}
		for n := max; n > 0; n-- {
			if strings.HasSuffix(built, chunk[:n]) {
				overlap = n
				break
			}
		}
		sb.WriteString(chunk[overlap:])
	}
	return sb.String()
}

func TestSplitShortText(t *testing.T) {
	s := NewRecursiveSplitter(DefaultChunkSize, DefaultChunkOverlap)

	chunks := s.Split("hello world")
	assert.Equal(t, []string{"hello world"}, chunks)
}

func TestSplitEmptyText(t *testing.T) {
	s := NewRecursiveSplitter(DefaultChunkSize, DefaultChunkOverlap)
	assert.Nil(t, s.Split(""))
}

func TestSplit2500CharsIntoThreeChunks(t *testing.T) {
	// 25 lines of 100 characters: 2500 characters total.
	line := strings.Repeat("a", 99) + "\n"
	text := strings.Repeat(line, 25)
	assert.Equal(t, 2500, len(text))

	s := NewRecursiveSplitter(DefaultChunkSize, DefaultChunkOverlap)
	chunks := s.Split(text)

	assert.Len(t, chunks, 3)
	for _, chunk := range chunks {
		assert.LessOrEqual(t, len(chunk), DefaultChunkSize)
	}
	assert.Equal(t, DefaultChunkSize, len(chunks[0]))
}

func TestSplitRespectsOverlap(t *testing.T) {
	line := strings.Repeat("b", 49) + "\n"
	text := strings.Repeat(line, 50) // 2500 chars in 50-char lines

	s := NewRecursiveSplitter(DefaultChunkSize, DefaultChunkOverlap)
	chunks := s.Split(text)
	assert.Greater(t, len(chunks), 1)

	// Each chunk starts with text carried over from its predecessor.
	for i := 1; i < len(chunks); i++ {
		head := chunks[i]
		if len(head) > s.ChunkOverlap {
			head = head[:s.ChunkOverlap]
		}
		assert.Contains(t, chunks[i-1], head)
	}
}

func TestSplitRoundTripNoByteLoss(t *testing.T) {
	// Unique sentences so overlap detection in reassemble is unambiguous;
	// mixed separators so the whole ladder gets exercised.
	var sb strings.Builder
	for i := 0; i < 60; i++ {
		fmt.Fprintf(&sb, "Sentence %04d carries its own distinct payload.", i)
		if i%5 == 0 {
			sb.WriteString("\n\n")
		} else {
			sb.WriteString("\n")
		}
	}
	text := sb.String()

	s := NewRecursiveSplitter(DefaultChunkSize, DefaultChunkOverlap)
	chunks := s.Split(text)
	assert.Greater(t, len(chunks), 1)

	assert.Equal(t, text, reassemble(chunks))
}

func TestSplitSeparatorFreeText(t *testing.T) {
	// No separators at all: the splitter falls through to per-character
	// splitting and still produces bounded windows with exact overlap.
	text := strings.Repeat("x", 2300)

	s := NewRecursiveSplitter(DefaultChunkSize, DefaultChunkOverlap)
	chunks := s.Split(text)

	assert.Equal(t, 3, len(chunks))
	total := 0
	for _, chunk := range chunks {
		assert.LessOrEqual(t, len(chunk), DefaultChunkSize)
		total += len(chunk)
	}
	assert.Equal(t, len(text)+2*DefaultChunkOverlap, total)
}
