package ingest

import (
	"fmt"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/gomarkdown/markdown"

	logx "github.com/studyhall-ai/server/pkg/logger"
)

// loadText reads a plain text file as a single document. Invalid UTF-8 is a
// per-file error so the batch can continue.
func (ig *Ingestor) loadText(path string) ([]Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read text file: %w", err)
	}
	if !utf8.Valid(data) {
		return nil, fmt.Errorf("file %s is not valid UTF-8", filepath.Base(path))
	}

	source := filepath.Base(path)
	logx.Debug().Str("source", source).Int("chars", len(data)).Msg("Loaded TXT")
	return []Document{{
		Content: string(data),
		Meta: Metadata{
			Source:   source,
			FileType: FileTypeText,
		},
	}}, nil
}

// loadMarkdown keeps the raw markdown as the document content, which gives
// the chunker better paragraph boundaries, and stores the rendered HTML as a
// metadata side artifact for display layers.
func (ig *Ingestor) loadMarkdown(path string) ([]Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read markdown file: %w", err)
	}
	if !utf8.Valid(data) {
		return nil, fmt.Errorf("file %s is not valid UTF-8", filepath.Base(path))
	}

	html := markdown.ToHTML(data, nil, nil)

	source := filepath.Base(path)
	logx.Debug().Str("source", source).Int("chars", len(data)).Msg("Loaded Markdown")
	return []Document{{
		Content: string(data),
		Meta: Metadata{
			Source:   source,
			FileType: FileTypeMarkdown,
			HTML:     string(html),
		},
	}}, nil
}
