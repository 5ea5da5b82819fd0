package ingest

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"

	logx "github.com/studyhall-ai/server/pkg/logger"
)

// loadPDF extracts one document per page so retrieval results can cite the
// exact page. Pages with no extractable text are dropped, not errors.
func (ig *Ingestor) loadPDF(path string) ([]Document, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	source := filepath.Base(path)
	total := reader.NumPage()
	docs := make([]Document, 0, total)

	for n := 1; n <= total; n++ {
		page := reader.Page(n)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			logx.Warn().Err(err).Str("source", source).Int("page", n).Msg("Failed to extract PDF page text")
			continue
		}
		if strings.TrimSpace(text) == "" {
			continue
		}
		docs = append(docs, Document{
			Content: text,
			Meta: Metadata{
				Source:   source,
				FileType: FileTypePDF,
				Page:     n,
			},
		})
	}

	logx.Debug().Str("source", source).Int("pages", total).Int("documents", len(docs)).Msg("Loaded PDF")
	return docs, nil
}
