package chunker

import (
	"strings"
	"unicode/utf8"

	"github.com/Ollennjj/stoa-api/internal/config"
	"github.com/Ollennjj/stoa-api/internal/domain/commonModels"
)

// Separators ordered from "best" to "worst" for semantic meaning.
// Splits keep the separator attached to the preceding segment so that
// joining all chunks reproduces the normalized input byte for byte.
var separators = []string{"\n\n", "\n", ". ", " "}

type Chunker struct {
	maxChunkSize int
}

func New(maxChunkSize int) *Chunker {
	if maxChunkSize <= 0 {
		maxChunkSize = config.ChunkSize
	}
	return &Chunker{maxChunkSize: maxChunkSize}
}

// Chunks normalizes newlines to spaces and splits the text into ordered,
// non-empty segments of at most the configured size. Deterministic for a
// given input and size.
func (c *Chunker) Chunks(text string) []commonModels.Chunk {
	normalized := Normalize(text)
	if normalized == "" {
		return nil
	}

	pieces := split(normalized, c.maxChunkSize, 0)

	chunks := make([]commonModels.Chunk, 0, len(pieces))
	for i, piece := range pieces {
		chunks = append(chunks, commonModels.Chunk{Content: piece, Ordinal: i})
	}
	return chunks
}

// Normalize collapses newlines into single spaces before splitting.
func Normalize(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return strings.ReplaceAll(text, "\n", " ")
}

func split(text string, limit int, sepIdx int) []string {
	if len(text) <= limit {
		if text == "" {
			return nil
		}
		return []string{text}
	}

	if sepIdx >= len(separators) {
		return hardCut(text, limit)
	}

	parts := strings.SplitAfter(text, separators[sepIdx])
	if len(parts) == 1 {
		// Separator not present, try the next finer one
		return split(text, limit, sepIdx+1)
	}

	var out []string
	var current strings.Builder

	flush := func() {
		if current.Len() > 0 {
			out = append(out, current.String())
			current.Reset()
		}
	}

	for _, part := range parts {
		if part == "" {
			continue
		}
		if len(part) > limit {
			flush()
			out = append(out, split(part, limit, sepIdx+1)...)
			continue
		}
		if current.Len()+len(part) > limit {
			flush()
		}
		current.WriteString(part)
	}
	flush()

	return out
}

// hardCut slices on rune boundaries so a multi-byte character never
// straddles two chunks. The limit is in bytes; a chunk may come up
// short by up to three bytes to keep the last rune whole.
func hardCut(text string, limit int) []string {
	var out []string
	for len(text) > limit {
		cut := limit
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}
		if cut == 0 {
			// limit smaller than one rune, cut mid-rune to guarantee progress
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
