package parser

import (
	"fmt"
	"os"
	"strings"
)

// pagesDocument serves page text from an in-memory page list. It backs
// the plain-text and markdown formats, where pages are explicit
// separators rather than a PDF page tree.
type pagesDocument struct {
	pages []string
}

// openText reads a plain-text document whose pages are separated by
// form feed characters, the same separator pdftotext emits.
func openText(path string) (*pagesDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read text file: %w", err)
	}
	return &pagesDocument{pages: strings.Split(string(data), "\f")}, nil
}

func (d *pagesDocument) PageCount() int { return len(d.pages) }

func (d *pagesDocument) PageText(from, to int) (string, error) {
	if err := checkRange(from, to, len(d.pages)); err != nil {
		return "", err
	}
	return strings.Join(d.pages[from-1:to], "\n"), nil
}

func (d *pagesDocument) Close() error { return nil }
