package ingest

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errx "github.com/studyhall-ai/server/internal/core/error"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadTextFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "notes.txt", "The mitochondria is the powerhouse of the cell.")

	ig := NewIngestor()
	docs, reports, err := ig.Load([]string{path})
	require.NoError(t, err)
	require.Len(t, docs, 1)
	require.Len(t, reports, 1)

	assert.Equal(t, "The mitochondria is the powerhouse of the cell.", docs[0].Content)
	assert.Equal(t, "notes.txt", docs[0].Meta.Source)
	assert.Equal(t, FileTypeText, docs[0].Meta.FileType)
	assert.False(t, reports[0].Skipped)
	assert.Equal(t, 1, reports[0].Documents)
}

func TestLoadMarkdownKeepsRawContentAndRendersHTML(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "summary.md", "# Photosynthesis\n\nPlants convert light into energy.")

	ig := NewIngestor()
	docs, _, err := ig.Load([]string{path})
	require.NoError(t, err)
	require.Len(t, docs, 1)

	assert.Equal(t, "# Photosynthesis\n\nPlants convert light into energy.", docs[0].Content)
	assert.Equal(t, FileTypeMarkdown, docs[0].Meta.FileType)
	assert.Contains(t, docs[0].Meta.HTML, "<h1")
	assert.Contains(t, docs[0].Meta.HTML, "Photosynthesis")
}

func TestLoadUnsupportedExtensionSkipped(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "notes.txt", "usable content")
	bad := writeFile(t, dir, "data.csv", "a,b,c")

	ig := NewIngestor()
	docs, reports, err := ig.Load([]string{good, bad})
	require.NoError(t, err)
	require.Len(t, docs, 1)
	require.Len(t, reports, 2)

	assert.True(t, reports[1].Skipped)
	assert.Contains(t, reports[1].Reason, "unsupported file type")
	assert.Equal(t, ".csv", reports[1].Extension)
}

func TestLoadMissingFileSkipped(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "notes.txt", "usable content")

	ig := NewIngestor()
	docs, reports, err := ig.Load([]string{good, filepath.Join(dir, "nope.txt")})
	require.NoError(t, err)
	require.Len(t, docs, 1)
	require.Len(t, reports, 2)
	assert.True(t, reports[1].Skipped)
	assert.Equal(t, "file not found", reports[1].Reason)
}

func TestLoadInvalidUTF8Skipped(t *testing.T) {
	dir := t.TempDir()
	binary := filepath.Join(dir, "broken.txt")
	require.NoError(t, os.WriteFile(binary, []byte{0xff, 0xfe, 0xfd}, 0o644))
	good := writeFile(t, dir, "notes.txt", "usable content")

	ig := NewIngestor()
	docs, reports, err := ig.Load([]string{binary, good})
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.True(t, reports[0].Skipped)
	assert.Contains(t, reports[0].Reason, "not valid UTF-8")
}

func TestLoadEmptyBatchFails(t *testing.T) {
	dir := t.TempDir()
	bad := writeFile(t, dir, "data.csv", "a,b,c")

	ig := NewIngestor()
	docs, reports, err := ig.Load([]string{bad})
	require.Error(t, err)
	assert.Nil(t, docs)
	require.Len(t, reports, 1)

	assert.ErrorIs(t, err, ErrNoUsableContent)
	var appErr *errx.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, errx.EmptyContentMessage, appErr.Message)
}

type fakeOCR struct {
	text string
	err  error
}

func (f *fakeOCR) Text(path string) (string, error) { return f.text, f.err }

func TestLoadImageUsesOCR(t *testing.T) {
	dir := t.TempDir()
	img := writeFile(t, dir, "slide.png", "not really a png")

	ig := NewIngestorWithOCR(&fakeOCR{text: "Extracted slide text"})
	docs, reports, err := ig.Load([]string{img})
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "Extracted slide text", docs[0].Content)
	assert.Equal(t, FileTypeImage, docs[0].Meta.FileType)
	assert.Equal(t, 1, reports[0].Documents)
}

func TestLoadImageEmptyOCRProducesNoDocuments(t *testing.T) {
	dir := t.TempDir()
	img := writeFile(t, dir, "blank.png", "x")

	ig := NewIngestorWithOCR(&fakeOCR{text: "   "})
	docs, reports, err := ig.Load([]string{img})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoUsableContent))
	assert.Empty(t, docs)
	require.Len(t, reports, 1)
	assert.Equal(t, 0, reports[0].Documents)
}
