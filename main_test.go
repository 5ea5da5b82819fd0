package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/studyhall-ai/server/internal/ingest"
)

func TestFormatFileReportLoaded(t *testing.T) {
	line := formatFileReport(ingest.FileReport{
		Name:      "notes.txt",
		Extension: ".txt",
		Documents: 3,
	})
	assert.Equal(t, "  loaded notes.txt (3 documents)", line)
}

func TestFormatFileReportSkipped(t *testing.T) {
	line := formatFileReport(ingest.FileReport{
		Name:      "data.csv",
		Extension: ".csv",
		Skipped:   true,
		Reason:    "unsupported file type .csv",
	})
	assert.Equal(t, "  skipped data.csv: unsupported file type .csv", line)
}
