package ingest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fumiama/go-docx"

	logx "github.com/studyhall-ai/server/pkg/logger"
)

// loadDocx extracts the plain paragraph text of a Word document into a single
// document. Empty extraction yields zero documents rather than an error.
func (ig *Ingestor) loadDocx(path string) ([]Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open docx: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat docx: %w", err)
	}

	doc, err := docx.Parse(f, info.Size())
	if err != nil {
		return nil, fmt.Errorf("parse docx: %w", err)
	}

	var sb strings.Builder
	for _, item := range doc.Document.Body.Items {
		switch block := item.(type) {
		case *docx.Paragraph:
			sb.WriteString(block.String())
			sb.WriteString("\n")
		case *docx.Table:
			sb.WriteString(block.String())
			sb.WriteString("\n")
		}
	}

	source := filepath.Base(path)
	text := sb.String()
	if strings.TrimSpace(text) == "" {
		logx.Debug().Str("source", source).Msg("DOCX extraction produced no text")
		return nil, nil
	}

	logx.Debug().Str("source", source).Int("chars", len(text)).Msg("Loaded DOCX")
	return []Document{{
		Content: text,
		Meta: Metadata{
			Source:   source,
			FileType: FileTypeDocx,
		},
	}}, nil
}
