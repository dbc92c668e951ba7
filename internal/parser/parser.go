// Package parser is the text-extraction collaborator for the pipeline:
// it opens a source document and serves plain text for arbitrary
// 1-based inclusive page ranges.
package parser

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Document gives random access to the page text of an opened source.
type Document interface {
	// PageCount returns the total number of pages.
	PageCount() int
	// PageText returns the plain text of pages [from, to], 1-based
	// inclusive. Pages within one range are joined with newlines.
	PageText(from, to int) (string, error)
	Close() error
}

// SupportedExtensions lists file extensions this service can handle.
var SupportedExtensions = map[string]bool{
	".pdf":      true,
	".txt":      true,
	".md":       true,
	".markdown": true,
}

// Open returns a Document for the file at path, chosen by extension.
func Open(path string) (Document, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".pdf":
		return openPDF(path)
	case ".txt":
		return openText(path)
	case ".md", ".markdown":
		return openMarkdown(path)
	default:
		return nil, fmt.Errorf("unsupported file extension: %s", ext)
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	return SupportedExtensions[strings.ToLower(filepath.Ext(filename))]
}

func checkRange(from, to, pages int) error {
	if from < 1 || to < from || to > pages {
		return fmt.Errorf("page range %d-%d out of bounds (document has %d pages)", from, to, pages)
	}
	return nil
}
