// Package chunker splits long text into bounded, overlapping segments for
// embedding and indexing.
package chunker

import (
	"strings"
	"unicode/utf8"
)

// DefaultSeparators orders split points by preference: paragraph, then line,
// then sentence, then word.
var DefaultSeparators = []string{"\n\n", "\n", ".", " "}

const (
	DefaultChunkSize = 1000
	DefaultOverlap   = 50
)

type Chunk struct {
	Text  string `json:"text"`
	Index int    `json:"index"`
}

// Splitter performs greedy recursive splitting: it breaks text on the first
// separator whose pieces fit, recurses into over-long pieces with the next
// separator, then packs pieces into chunks of at most ChunkSize characters
// with Overlap characters carried over between consecutive chunks.
type Splitter struct {
	ChunkSize  int
	Overlap    int
	Separators []string
}

func New(chunkSize, overlap int, separators ...string) *Splitter {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if overlap < 0 || overlap >= chunkSize {
		overlap = DefaultOverlap
	}
	if len(separators) == 0 {
		separators = DefaultSeparators
	}
	return &Splitter{ChunkSize: chunkSize, Overlap: overlap, Separators: separators}
}

// Split returns the ordered chunks of text. Separators stay attached to the
// piece that precedes them, so concatenating the chunks (dropping the
// overlapped prefix of each non-first chunk) reconstructs the input exactly.
// Empty input yields no chunks.
func (s *Splitter) Split(text string) []Chunk {
	if text == "" {
		return nil
	}

	// Units must leave room for the overlap prefix so a packed chunk never
	// exceeds ChunkSize.
	limit := s.ChunkSize - s.Overlap
	if limit <= 0 {
		limit = s.ChunkSize
	}
	units := splitUnits(text, s.Separators, limit)

	var out []Chunk
	cur := ""
	for _, u := range units {
		switch {
		case cur == "":
			cur = u
		case len(cur)+len(u) > s.ChunkSize:
			out = append(out, Chunk{Text: cur, Index: len(out)})
			cur = overlapTail(cur, s.Overlap) + u
		default:
			cur += u
		}
	}
	if cur != "" {
		out = append(out, Chunk{Text: cur, Index: len(out)})
	}
	return out
}

// overlapTail returns at most n trailing bytes of s, advanced to a rune
// boundary so the carried prefix never starts mid-rune.
func overlapTail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	cut := len(s) - n
	for cut < len(s) && !utf8.RuneStart(s[cut]) {
		cut++
	}
	return s[cut:]
}

// splitUnits breaks text into pieces no longer than limit, trying separators
// in preference order and falling back to hard character cuts.
func splitUnits(text string, separators []string, limit int) []string {
	if len(text) <= limit {
		return []string{text}
	}
	if len(separators) == 0 {
		var out []string
		for len(text) > limit {
			// Back the cut up to a rune boundary; a rune wider than the
			// limit itself gets split rather than looping.
			cut := limit
			for cut > 0 && !utf8.RuneStart(text[cut]) {
				cut--
			}
			if cut == 0 {
				cut = limit
			}
			out = append(out, text[:cut])
			text = text[cut:]
		}
		if text != "" {
			out = append(out, text)
		}
		return out
	}

	parts := strings.SplitAfter(text, separators[0])
	if len(parts) == 1 {
		// separator absent; try the next one
		return splitUnits(text, separators[1:], limit)
	}

	var out []string
	for _, p := range parts {
		if p == "" {
			continue
		}
		if len(p) <= limit {
			out = append(out, p)
			continue
		}
		out = append(out, splitUnits(p, separators[1:], limit)...)
	}
	return out
}
