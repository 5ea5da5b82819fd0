package ingest

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/otiai10/gosseract/v2"

	logx "github.com/studyhall-ai/server/pkg/logger"
)

// tesseractOCR runs Tesseract through gosseract. A fresh client per call
// keeps the Ingestor safe for concurrent batches.
type tesseractOCR struct{}

func (t *tesseractOCR) Text(path string) (string, error) {
	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetImage(path); err != nil {
		return "", fmt.Errorf("set image: %w", err)
	}
	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("ocr: %w", err)
	}
	return text, nil
}

// loadImage extracts text from an image via OCR. Empty OCR output yields zero
// documents, matching the DOCX loader's empty-extraction behavior.
func (ig *Ingestor) loadImage(path string) ([]Document, error) {
	text, err := ig.ocr.Text(path)
	if err != nil {
		return nil, err
	}

	source := filepath.Base(path)
	if strings.TrimSpace(text) == "" {
		logx.Debug().Str("source", source).Msg("OCR produced no text")
		return nil, nil
	}

	logx.Debug().Str("source", source).Int("chars", len(text)).Msg("Loaded image via OCR")
	return []Document{{
		Content: text,
		Meta: Metadata{
			Source:   source,
			FileType: FileTypeImage,
		},
	}}, nil
}
