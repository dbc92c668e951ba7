package parser

import (
	"fmt"
	"os"
	"strings"

	pdflib "github.com/ledongthuc/pdf"
	pdfcpu "github.com/pdfcpu/pdfcpu/pkg/api"
)

// pdfDocument serves page text from an on-disk PDF. Text extraction
// uses ledongthuc/pdf; the page count comes from pdfcpu, which reads
// the page tree more reliably on scanned/OCR-repaired files.
type pdfDocument struct {
	file   *os.File
	reader *pdflib.Reader
	pages  int
}

func openPDF(path string) (*pdfDocument, error) {
	f, reader, err := pdflib.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}

	pages, err := pdfPageCount(path)
	if err != nil || pages <= 0 {
		pages = reader.NumPage()
	}

	return &pdfDocument{file: f, reader: reader, pages: pages}, nil
}

func pdfPageCount(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	return pdfcpu.PageCount(f, nil)
}

func (d *pdfDocument) PageCount() int { return d.pages }

func (d *pdfDocument) PageText(from, to int) (string, error) {
	if err := checkRange(from, to, d.pages); err != nil {
		return "", err
	}

	var buf strings.Builder
	for i := from; i <= to; i++ {
		if i > d.reader.NumPage() {
			break
		}
		page := d.reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("extract page %d: %w", i, err)
		}
		if buf.Len() > 0 {
			buf.WriteString("\n")
		}
		buf.WriteString(text)
	}
	return buf.String(), nil
}

func (d *pdfDocument) Close() error {
	return d.file.Close()
}
