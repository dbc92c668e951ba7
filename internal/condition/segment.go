// Package condition splits chunk text into numbered condition sections
// and classifies each section's text into ordered, typed content
// blocks.
package condition

import (
	"regexp"
	"strings"

	"github.com/clinicalaide/stgkb/internal/guideline"
)

// A condition section opens with "<number>. <label>" where the label
// starts with a letter.
var reSectionStart = regexp.MustCompile(`^(\d+)\.\s+([A-Za-z].*)$`)

// minLabelLen rejects list items and cross references masquerading as
// condition headings.
const minLabelLen = 3

// Segment splits one chunk's raw text into conditions. page is the
// chunk's start page, recorded on every condition found in it.
// Conditions are independent per chunk; a section running across a
// chunk boundary is reported as separate fragments.
func Segment(text string, page int) []guideline.Condition {
	var conditions []guideline.Condition

	var name string
	var buf []string

	flush := func() {
		if name == "" {
			return
		}
		blocks := Classify(strings.Join(buf, "\n"))
		for i := range blocks {
			blocks[i].Metadata = map[string]string{"condition": name}
		}
		conditions = append(conditions, guideline.Condition{
			Name:   name,
			Page:   page,
			Blocks: blocks,
		})
		name = ""
		buf = buf[:0]
	}

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if m := reSectionStart.FindStringSubmatch(trimmed); m != nil && len(m[2]) > minLabelLen {
			flush()
			name = strings.TrimSpace(m[2])
			continue
		}
		if name != "" {
			buf = append(buf, line)
		}
	}
	flush()

	return conditions
}
