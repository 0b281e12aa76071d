package chunker

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitEmpty(t *testing.T) {
	s := New(100, 10)
	assert.Nil(t, s.Split(""))
}

func TestSplitShortTextSingleChunk(t *testing.T) {
	s := New(100, 10)
	chunks := s.Split("hello world")
	require.Len(t, chunks, 1)
	assert.Equal(t, "hello world", chunks[0].Text)
	assert.Equal(t, 0, chunks[0].Index)
}

func TestSplitRespectsChunkSize(t *testing.T) {
	s := New(80, 10)
	text := strings.Repeat("one two three four five six seven eight nine ten. ", 20)
	chunks := s.Split(text)
	require.Greater(t, len(chunks), 1)
	for _, c := range chunks {
		assert.LessOrEqual(t, len(c.Text), 80, "chunk %d too long", c.Index)
	}
}

func TestSplitIndicesSequential(t *testing.T) {
	s := New(60, 5)
	text := strings.Repeat("alpha beta gamma delta epsilon zeta. ", 10)
	chunks := s.Split(text)
	for i, c := range chunks {
		assert.Equal(t, i, c.Index)
	}
}

func TestSplitReconstruction(t *testing.T) {
	s := New(80, 10)
	text := "First paragraph about billing.\n\nSecond paragraph about the renewal call. " +
		"The customer asked about pricing tiers and onboarding support. " +
		"The agent promised a follow up email with the contract draft."
	chunks := s.Split(text)
	require.Greater(t, len(chunks), 1)

	// Dropping each non-first chunk's overlap prefix reassembles the input.
	var b strings.Builder
	for i, c := range chunks {
		if i == 0 {
			b.WriteString(c.Text)
			continue
		}
		cut := s.Overlap
		if cut > len(c.Text) {
			cut = len(c.Text)
		}
		b.WriteString(c.Text[cut:])
	}
	assert.Equal(t, text, b.String())
}

func TestSplitOverlapCarried(t *testing.T) {
	s := New(60, 12)
	text := strings.Repeat("the quick brown fox jumps over the lazy dog ", 8)
	chunks := s.Split(text)
	require.Greater(t, len(chunks), 1)
	for i := 1; i < len(chunks); i++ {
		prev := chunks[i-1].Text
		tail := prev
		if len(tail) > s.Overlap {
			tail = tail[len(tail)-s.Overlap:]
		}
		assert.True(t, strings.HasPrefix(chunks[i].Text, tail),
			"chunk %d does not start with tail of chunk %d", i, i-1)
	}
}

func TestSplitNoSeparatorsHardCut(t *testing.T) {
	s := New(50, 10)
	text := strings.Repeat("x", 200)
	chunks := s.Split(text)
	require.Greater(t, len(chunks), 1)
	for _, c := range chunks {
		assert.LessOrEqual(t, len(c.Text), 50)
	}
}

func TestSplitPreferredSeparatorFirst(t *testing.T) {
	s := New(40, 0)
	text := "short para one.\n\nshort para two.\n\nshort para three."
	chunks := s.Split(text)
	require.Greater(t, len(chunks), 1)
	// Paragraph boundaries should survive as chunk boundaries.
	assert.True(t, strings.HasSuffix(chunks[0].Text, "\n\n"))
}

func TestOverlapTailRuneBoundary(t *testing.T) {
	assert.Equal(t, "def", overlapTail("abcdef", 3))
	// 3 bytes back lands inside the two-byte 'и'; the tail advances past it.
	assert.Equal(t, "в", overlapTail("прив", 3))
	assert.Equal(t, "прив", overlapTail("прив", 8))
}

func TestSplitOverlapValidUTF8(t *testing.T) {
	s := New(60, 7)
	text := strings.Repeat("разговор клиента о возврате денег ", 8)
	chunks := s.Split(text)
	require.Greater(t, len(chunks), 1)
	for _, c := range chunks {
		assert.True(t, utf8.ValidString(c.Text), "chunk %d is not valid UTF-8", c.Index)
	}
}

func TestSplitHardCutValidUTF8(t *testing.T) {
	s := New(50, 10)
	// No separators at all, so every cut is a hard one.
	text := strings.Repeat("число7", 40)
	chunks := s.Split(text)
	require.Greater(t, len(chunks), 1)
	for _, c := range chunks {
		assert.True(t, utf8.ValidString(c.Text), "chunk %d is not valid UTF-8", c.Index)
	}
}

func TestNewDefaults(t *testing.T) {
	s := New(0, -1)
	assert.Equal(t, DefaultChunkSize, s.ChunkSize)
	assert.Equal(t, DefaultOverlap, s.Overlap)
	assert.Equal(t, DefaultSeparators, s.Separators)
}
