package chunker

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestChunks_BoundAndReconstruction(t *testing.T) {
	tests := []struct {
		name string
		text string
		size int
	}{
		{"short text", "hello world", 1000},
		{"sentences", strings.Repeat("This is a sentence. ", 120), 200},
		{"paragraphs", strings.Repeat("para one\n\npara two\n\n", 50), 150},
		{"single long word", strings.Repeat("x", 2500), 1000},
		{"mixed newlines", "line one\r\nline two\nline three. And more words here", 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(tt.size)
			chunks := c.Chunks(tt.text)

			var joined strings.Builder
			for i, ch := range chunks {
				if ch.Content == "" {
					t.Errorf("chunk %d is empty", i)
				}
				if len(ch.Content) > tt.size {
					t.Errorf("chunk %d has length %d, want <= %d", i, len(ch.Content), tt.size)
				}
				if ch.Ordinal != i {
					t.Errorf("chunk %d has ordinal %d", i, ch.Ordinal)
				}
				joined.WriteString(ch.Content)
			}

			if joined.String() != Normalize(tt.text) {
				t.Errorf("joined chunks do not reconstruct the normalized input")
			}
		})
	}
}

func TestChunks_1500CharsYieldsTwoChunks(t *testing.T) {
	text := strings.TrimSpace(strings.Repeat("word ", 300)) //1499 chars
	c := New(1000)

	chunks := c.Chunks(text)
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}
}

func TestChunks_Deterministic(t *testing.T) {
	text := strings.Repeat("Some prose with sentences. More of it follows here. ", 80)
	c := New(500)

	first := c.Chunks(text)
	second := c.Chunks(text)

	if len(first) != len(second) {
		t.Fatalf("chunk count differs between runs: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("chunk %d differs between runs", i)
		}
	}
}

func TestChunks_EmptyInput(t *testing.T) {
	if got := New(1000).Chunks(""); got != nil {
		t.Errorf("expected no chunks for empty input, got %d", len(got))
	}
}

func TestChunks_HardCutKeepsRunesWhole(t *testing.T) {
	// no separators anywhere, forces the hard cut; every rune is 2 bytes
	text := strings.Repeat("é", 500)
	c := New(25)

	chunks := c.Chunks(text)
	if len(chunks) == 0 {
		t.Fatal("expected chunks")
	}

	var joined strings.Builder
	for i, ch := range chunks {
		if !utf8.ValidString(ch.Content) {
			t.Errorf("chunk %d cuts a rune in half: %q", i, ch.Content)
		}
		if len(ch.Content) > 25 {
			t.Errorf("chunk %d has length %d, want <= 25", i, len(ch.Content))
		}
		joined.WriteString(ch.Content)
	}

	if joined.String() != text {
		t.Error("joined chunks do not reconstruct the input")
	}
}
