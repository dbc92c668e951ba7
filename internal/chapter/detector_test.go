package chapter

import (
	"errors"
	"testing"
)

// fakeSource serves one string per page, 1-based.
type fakeSource struct {
	pages []string
}

func (f *fakeSource) PageCount() int { return len(f.pages) }

func (f *fakeSource) PageText(from, to int) (string, error) {
	if from < 1 || to > len(f.pages) || from > to {
		return "", errors.New("out of range")
	}
	return f.pages[from-1], nil
}

func blankPages(n int) []string {
	pages := make([]string, n)
	for i := range pages {
		pages[i] = "body text"
	}
	return pages
}

func TestDetect_CleanHeadersCloseRanges(t *testing.T) {
	pages := blankPages(12)
	pages[1] = "Chapter 1: Disorders of the Gastrointestinal Tract"
	pages[5] = "Chapter 2. Infectious Diseases"
	pages[9] = "Chapter 3: Disorders of the Respiratory System"

	chapters, err := Detect(&fakeSource{pages: pages})
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if len(chapters) != 3 {
		t.Fatalf("expected 3 chapters, got %d", len(chapters))
	}

	want := []struct {
		number, start, end int
		title              string
	}{
		{1, 2, 5, "Disorders of the Gastrointestinal Tract"},
		{2, 6, 9, "Infectious Diseases"},
		{3, 10, 12, "Disorders of the Respiratory System"},
	}
	for i, w := range want {
		ch := chapters[i]
		if ch.Number != w.number || ch.StartPage != w.start || ch.EndPage != w.end || ch.Title != w.title {
			t.Errorf("chapter %d: got %+v, want %+v", i, ch, w)
		}
	}
}

func TestDetect_AdjacentRangesInvariant(t *testing.T) {
	pages := blankPages(20)
	pages[0] = "Chapter 1: One"
	pages[6] = "Chapter 2: Two"
	pages[13] = "Chapter 3: Three"

	chapters, err := Detect(&fakeSource{pages: pages})
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	for i := 0; i < len(chapters)-1; i++ {
		if chapters[i].EndPage != chapters[i+1].StartPage-1 {
			t.Errorf("chapter %d end %d, next starts %d", chapters[i].Number, chapters[i].EndPage, chapters[i+1].StartPage)
		}
	}
	if last := chapters[len(chapters)-1]; last.EndPage != 20 {
		t.Errorf("last chapter end %d, want 20", last.EndPage)
	}
}

func TestDetect_DuplicateNumbersIgnored(t *testing.T) {
	pages := blankPages(10)
	pages[1] = "Chapter 1: First Sighting"
	// Running headers repeat the chapter on later pages.
	pages[4] = "Chapter 1: First Sighting"
	pages[7] = "Chapter 2: Second"

	chapters, err := Detect(&fakeSource{pages: pages})
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if len(chapters) != 2 {
		t.Fatalf("expected 2 chapters, got %d", len(chapters))
	}
	if chapters[0].EndPage != 7 {
		t.Errorf("chapter 1 should extend to page 7, got %d", chapters[0].EndPage)
	}
	seen := make(map[int]bool)
	for _, ch := range chapters {
		if seen[ch.Number] {
			t.Errorf("chapter number %d repeated", ch.Number)
		}
		seen[ch.Number] = true
	}
}

func TestDetect_RunningHeaderPattern(t *testing.T) {
	pages := blankPages(8)
	pages[2] = "Gastrointestinal Disorders — Chapter 4: Diarrhoea and Dehydration"

	chapters, err := Detect(&fakeSource{pages: pages})
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if len(chapters) != 1 {
		t.Fatalf("expected 1 chapter, got %d", len(chapters))
	}
	if chapters[0].Number != 4 || chapters[0].Title != "Diarrhoea and Dehydration" {
		t.Errorf("got %+v", chapters[0])
	}
}

func TestDetect_DegradedPattern(t *testing.T) {
	pages := blankPages(9)
	pages[3] = "41Chapter\nDISORDERS OF 3 THE EYE\n2017"

	chapters, err := Detect(&fakeSource{pages: pages})
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if len(chapters) != 1 {
		t.Fatalf("expected 1 chapter, got %d", len(chapters))
	}
	// Only the first captured digit is trusted.
	if chapters[0].Number != 4 {
		t.Errorf("expected chapter number 4, got %d", chapters[0].Number)
	}
	if chapters[0].Title != "DISORDERS OF THE EYE" {
		t.Errorf("expected reconstructed title, got %q", chapters[0].Title)
	}
}

func TestDetect_DegradedPatternTitleFallback(t *testing.T) {
	pages := blankPages(6)
	pages[2] = "7Chapter\n123\n456"

	chapters, err := Detect(&fakeSource{pages: pages})
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if len(chapters) != 1 {
		t.Fatalf("expected 1 chapter, got %d", len(chapters))
	}
	if chapters[0].Title != "Chapter 7" {
		t.Errorf("expected fallback title, got %q", chapters[0].Title)
	}
}

func TestDetect_LeaderDotPagesSkipped(t *testing.T) {
	pages := blankPages(10)
	// A table-of-contents page near the front: header-looking lines
	// with dot leaders must not register chapters.
	pages[1] = "Chapter 1: Disorders of the Gastrointestinal Tract .......... 31\nChapter 2: Infectious Diseases .......... 95"

	chapters, err := Detect(&fakeSource{pages: pages})
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if len(chapters) != 0 {
		t.Fatalf("expected no chapters from TOC page, got %d", len(chapters))
	}
}

func TestDetect_NoChapters(t *testing.T) {
	chapters, err := Detect(&fakeSource{pages: blankPages(5)})
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if len(chapters) != 0 {
		t.Errorf("expected no chapters, got %d", len(chapters))
	}
}

func TestContaining(t *testing.T) {
	chapters, err := Detect(&fakeSource{pages: func() []string {
		pages := blankPages(10)
		pages[1] = "Chapter 1: One"
		pages[5] = "Chapter 2: Two"
		return pages
	}()})
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}

	tests := []struct {
		page int
		want int // chapter number, 0 for nil
	}{
		{1, 0},
		{2, 1},
		{5, 1},
		{6, 2},
		{10, 2},
	}
	for _, tt := range tests {
		got := Containing(chapters, tt.page)
		switch {
		case tt.want == 0 && got != nil:
			t.Errorf("page %d: expected no chapter, got %d", tt.page, got.Number)
		case tt.want != 0 && (got == nil || got.Number != tt.want):
			t.Errorf("page %d: expected chapter %d, got %+v", tt.page, tt.want, got)
		}
	}
}
