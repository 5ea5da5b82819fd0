package ingest

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	errx "github.com/studyhall-ai/server/internal/core/error"
	logx "github.com/studyhall-ai/server/pkg/logger"
)

// FileType identifies the source format a document was extracted from.
type FileType string

const (
	FileTypePDF      FileType = "pdf"
	FileTypeDocx     FileType = "docx"
	FileTypeText     FileType = "txt"
	FileTypeMarkdown FileType = "markdown"
	FileTypeImage    FileType = "image"
)

// Metadata carries source attribution for a document and everything derived
// from it downstream (chunks, retrieval results, citations).
type Metadata struct {
	Source   string   `json:"source"`
	FileType FileType `json:"file_type"`
	// Page is the 1-based page number for PDF sources, 0 otherwise.
	Page int `json:"page,omitempty"`
	// HTML holds the rendered form of markdown sources. The raw markdown
	// stays in the document content for better chunk boundaries.
	HTML string `json:"html,omitempty"`
}

// Document is one normalized unit of extracted text. Immutable once created.
type Document struct {
	Content string
	Meta    Metadata
}

// FileReport records the per-file outcome of an ingestion batch.
type FileReport struct {
	Name      string
	Extension string
	Documents int
	Skipped   bool
	Reason    string
}

// ErrNoUsableContent signals that an entire upload batch produced zero
// documents. The caller must not attempt to build an index from it.
var ErrNoUsableContent = errors.New("no documents were successfully loaded")

// OCR extracts text from an image file. Satisfied by the gosseract-backed
// client in image.go; tests substitute a fake.
type OCR interface {
	Text(path string) (string, error)
}

// Ingestor converts uploaded files into normalized documents. Loader failures
// degrade to a skipped file in the report; only an empty aggregate is fatal.
type Ingestor struct {
	ocr OCR
}

func NewIngestor() *Ingestor {
	return &Ingestor{ocr: &tesseractOCR{}}
}

// NewIngestorWithOCR allows injecting an OCR implementation.
func NewIngestorWithOCR(ocr OCR) *Ingestor {
	return &Ingestor{ocr: ocr}
}

// Load processes every path in the batch, dispatching purely by extension.
// It never fails on a single file; unsupported extensions and loader errors
// become report entries. It returns ErrNoUsableContent (wrapped) when the
// whole batch yields nothing.
func (ig *Ingestor) Load(paths []string) ([]Document, []FileReport, error) {
	var all []Document
	reports := make([]FileReport, 0, len(paths))

	for _, path := range paths {
		name := filepath.Base(path)
		ext := strings.ToLower(filepath.Ext(path))
		report := FileReport{Name: name, Extension: ext}

		if _, err := os.Stat(path); err != nil {
			report.Skipped = true
			report.Reason = "file not found"
			logx.Warn().Str("path", path).Msg("Skipping missing file")
			reports = append(reports, report)
			continue
		}

		var (
			docs []Document
			err  error
		)
		switch ext {
		case ".pdf":
			docs, err = ig.loadPDF(path)
		case ".docx", ".doc":
			docs, err = ig.loadDocx(path)
		case ".txt":
			docs, err = ig.loadText(path)
		case ".md":
			docs, err = ig.loadMarkdown(path)
		case ".png", ".jpg", ".jpeg":
			docs, err = ig.loadImage(path)
		default:
			report.Skipped = true
			report.Reason = fmt.Sprintf("unsupported file type %s", ext)
			logx.Warn().Str("path", path).Str("ext", ext).Msg("Unsupported file type")
			reports = append(reports, report)
			continue
		}

		if err != nil {
			report.Skipped = true
			report.Reason = err.Error()
			logx.Warn().Err(err).Str("path", path).Msg("Failed to load file; skipping")
			reports = append(reports, report)
			continue
		}

		report.Documents = len(docs)
		reports = append(reports, report)
		all = append(all, docs...)
	}

	if len(all) == 0 {
		logx.Warn().Int("files", len(paths)).Msg("Upload batch produced no documents")
		return nil, reports, errx.WrapEmptyContent(ErrNoUsableContent)
	}

	logx.Debug().Int("files", len(paths)).Int("documents", len(all)).Msg("Ingestion batch complete")
	return all, reports, nil
}
