// Package chapter recovers chapter boundaries from degraded guideline
// page text. Detection runs once per pipeline run, ahead of chunked
// iteration, and registers each chapter number at the first page where
// one of the header patterns matches.
package chapter

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/clinicalaide/stgkb/internal/guideline"
)

// PageSource is the slice of the extraction collaborator the detector
// needs: total pages plus single-page text reads.
type PageSource interface {
	PageCount() int
	PageText(from, to int) (string, error)
}

const (
	// frontMatterStart skips the cover/TOC pages of the full source
	// document; the 2017 STG body starts around page 29.
	frontMatterStart = 29
	// shortDocPages marks a document as an excerpt without front
	// matter, scanned from page 1.
	shortDocPages = 50
	// scanCeiling bounds the scan; all chapter openings in the source
	// fall well before this page.
	scanCeiling = 200
	// tocMaxPage bounds where leader-dot pages are treated as table of
	// contents layout and skipped.
	tocMaxPage = 40
)

var (
	// Running header form: "<topic> — Chapter N: Title".
	reRunningHeader = regexp.MustCompile(`^\s*[^—\s][^—]*—\s*Chapter\s+(\d+):\s*(.+)$`)
	// Clean form: "Chapter N: Title" or "Chapter N. Title".
	reClean = regexp.MustCompile(`^\s*Chapter\s+(\d+)[:.]\s*(.+)$`)
	// OCR-mangled form: a stray digit run glued onto "Chapter", e.g.
	// "41Chapter" where a page number lost its whitespace.
	reDegraded = regexp.MustCompile(`^\s*(\d+)Chapter\b`)

	reLeaderDots  = regexp.MustCompile(`\.{5,}`)
	reStrayDigits = regexp.MustCompile(`\d+`)
	reSpaces      = regexp.MustCompile(`\s+`)
)

// Detect scans src for chapter headers and returns chapters in
// discovery order with closed page ranges: each chapter ends one page
// before the next begins, and the last chapter ends at the final page.
// Chapter numbers never repeat; later sightings of a registered number
// are ignored.
func Detect(src PageSource) ([]guideline.Chapter, error) {
	total := src.PageCount()

	start := 1
	if total > shortDocPages {
		start = frontMatterStart
	}
	end := min(total, scanCeiling)

	var chapters []guideline.Chapter
	seen := make(map[int]bool)

	for page := start; page <= end; page++ {
		text, err := src.PageText(page, page)
		if err != nil {
			return nil, fmt.Errorf("scan page %d: %w", page, err)
		}
		if page <= tocMaxPage && reLeaderDots.MatchString(text) {
			continue
		}

		number, title, ok := matchHeader(text)
		if !ok || seen[number] {
			continue
		}
		seen[number] = true

		if len(chapters) > 0 {
			chapters[len(chapters)-1].EndPage = page - 1
		}
		chapters = append(chapters, guideline.Chapter{
			Number:    number,
			Title:     title,
			StartPage: page,
		})
	}

	if len(chapters) > 0 {
		chapters[len(chapters)-1].EndPage = total
	}
	return chapters, nil
}

// Containing returns the chapter whose page range covers page, or nil.
func Containing(chapters []guideline.Chapter, page int) *guideline.Chapter {
	for i := range chapters {
		if page >= chapters[i].StartPage && page <= chapters[i].EndPage {
			return &chapters[i]
		}
	}
	return nil
}

// matchHeader tries the header patterns in priority order: running
// header, clean header, then the OCR-degraded form.
func matchHeader(text string) (int, string, bool) {
	lines := strings.Split(text, "\n")

	for _, line := range lines {
		if m := reRunningHeader.FindStringSubmatch(line); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil {
				return n, strings.TrimSpace(m[2]), true
			}
		}
	}
	for _, line := range lines {
		if m := reClean.FindStringSubmatch(line); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil {
				return n, strings.TrimSpace(m[2]), true
			}
		}
	}
	for i, line := range lines {
		m := reDegraded.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		// OCR concatenates unrelated digits onto the real number, so
		// only the first digit of the capture is trustworthy.
		number := int(m[1][0] - '0')
		title := degradedTitle(lines, i)
		if title == "" {
			title = fmt.Sprintf("Chapter %d", number)
		}
		return number, title, true
	}
	return 0, "", false
}

// degradedTitle rebuilds a chapter title from the two lines after a
// mangled header line, dropping stray digit runs.
func degradedTitle(lines []string, matched int) string {
	var parts []string
	for i := matched + 1; i <= matched+2 && i < len(lines); i++ {
		cleaned := reStrayDigits.ReplaceAllString(lines[i], "")
		cleaned = strings.TrimSpace(reSpaces.ReplaceAllString(cleaned, " "))
		if cleaned != "" {
			parts = append(parts, cleaned)
		}
	}
	return strings.Join(parts, " ")
}
