package chunk

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studyhall-ai/server/internal/ingest"
)

func docs(contents ...string) []ingest.Document {
	out := make([]ingest.Document, 0, len(contents))
	for i, c := range contents {
		out = append(out, ingest.Document{
			Content: c,
			Meta:    ingest.Metadata{Source: "doc", FileType: ingest.FileTypeText, Page: i + 1},
		})
	}
	return out
}

func TestSplitShortDocumentSingleChunk(t *testing.T) {
	s := NewSplitter(Config{Size: 100, Overlap: 10})
	chunks := s.Split(docs("short text"))

	require.Len(t, chunks, 1)
	assert.Equal(t, "short text", chunks[0].Content)
	assert.Equal(t, 0, chunks[0].Index)
	assert.Equal(t, 1, chunks[0].Total)
}

func TestSplitDeterministic(t *testing.T) {
	s := NewSplitter(Config{Size: 12, Overlap: 4})
	input := docs("alpha beta gamma delta epsilon zeta eta theta")

	first := s.Split(input)
	second := s.Split(input)
	require.Equal(t, first, second)
}

func TestSplitRespectsParagraphBoundary(t *testing.T) {
	s := NewSplitter(Config{Size: 12, Overlap: 0})
	chunks := s.Split(docs("alpha beta\n\ngamma delta"))

	require.Len(t, chunks, 2)
	assert.Equal(t, "alpha beta\n\n", chunks[0].Content)
	assert.Equal(t, "gamma delta", chunks[1].Content)
}

func TestSplitOverlapCarriedBetweenChunks(t *testing.T) {
	s := NewSplitter(Config{Size: 10, Overlap: 4})
	chunks := s.Split(docs("aa bb cc dd ee ff"))

	require.Equal(t, []string{"aa bb cc ", "cc dd ee ", "ee ff"}, contents(chunks))
	// each chunk starts with the tail of the previous one
	for i := 1; i < len(chunks); i++ {
		head := strings.Fields(chunks[i].Content)[0]
		assert.True(t, strings.HasSuffix(strings.TrimSpace(chunks[i-1].Content), head),
			"chunk %d does not continue from chunk %d", i, i-1)
	}
}

func TestSplitSizeBound(t *testing.T) {
	s := NewSplitter(Config{Size: 20, Overlap: 5})
	text := strings.Repeat("word another thing\n", 30)
	chunks := s.Split(docs(text))

	require.NotEmpty(t, chunks)
	for _, c := range chunks {
		assert.LessOrEqual(t, utf8.RuneCountInString(c.Content), 20, "chunk exceeds size: %q", c.Content)
	}
}

func TestSplitHardCutWithoutSeparators(t *testing.T) {
	s := NewSplitter(Config{Size: 10, Overlap: 4})
	chunks := s.Split(docs("abcdefghijklmnop"))

	require.Equal(t, []string{"abcdefghij", "ghijklmnop"}, contents(chunks))
}

func TestSplitStampsBatchIndexAndTotal(t *testing.T) {
	s := NewSplitter(Config{Size: 10, Overlap: 0})
	chunks := s.Split(docs("abcdefghijklmnop", "qrstuvwxyz123456"))

	require.Len(t, chunks, 4)
	for i, c := range chunks {
		assert.Equal(t, i, c.Index)
		assert.Equal(t, 4, c.Total)
	}
	// document order preserved
	assert.Equal(t, 1, chunks[0].Meta.Page)
	assert.Equal(t, 2, chunks[3].Meta.Page)
}

func TestSplitSkipsWhitespaceOnlyDocuments(t *testing.T) {
	s := NewSplitter(Config{Size: 10, Overlap: 0})
	chunks := s.Split(docs("   \n\n\t  ", "real content"))

	require.Len(t, chunks, 2)
	for _, c := range chunks {
		assert.NotEmpty(t, strings.TrimSpace(c.Content))
	}
}

func TestNewSplitterClampsOverlap(t *testing.T) {
	s := NewSplitter(Config{Size: 10, Overlap: 9})
	assert.Equal(t, 5, s.overlap)

	s = NewSplitter(Config{Size: 10, Overlap: -1})
	assert.Equal(t, 0, s.overlap)

	s = NewSplitter(Config{Size: 0, Overlap: 0})
	assert.Equal(t, 800, s.size)
}

func TestSplitMultiByteRunesNotCut(t *testing.T) {
	s := NewSplitter(Config{Size: 10, Overlap: 0})
	text := strings.Repeat("ここに日本語テキスト", 4) // no ASCII separators
	chunks := s.Split(docs(text))

	require.NotEmpty(t, chunks)
	for _, c := range chunks {
		assert.True(t, utf8.ValidString(c.Content))
		assert.LessOrEqual(t, utf8.RuneCountInString(c.Content), 10)
	}
}

func contents(chunks []Chunk) []string {
	out := make([]string, 0, len(chunks))
	for _, c := range chunks {
		out = append(out, c.Content)
	}
	return out
}
