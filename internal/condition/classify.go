package condition

import (
	"strings"

	"github.com/clinicalaide/stgkb/internal/guideline"
)

// headerSet owns the whole-line header patterns for one block type.
// Declaration order is load-bearing: the first matching pattern across
// the sets, in this order, decides the type.
type headerSet struct {
	Type    guideline.BlockType
	Headers []string
}

var headerSets = []headerSet{
	{guideline.BlockDefinition, []string{
		"definition", "introduction", "overview", "description",
	}},
	{guideline.BlockSymptoms, []string{
		"clinical features", "symptoms", "signs and symptoms",
		"presentation", "signs", "manifestations",
	}},
	{guideline.BlockTreatment, []string{
		"treatment", "management", "therapy",
		"pharmacological treatment", "non-pharmacological treatment",
	}},
	{guideline.BlockDosage, []string{
		"dosage", "dose", "dosing", "drug doses",
	}},
	{guideline.BlockReferral, []string{
		"refer", "referral criteria", "when to refer", "referral",
	}},
	{guideline.BlockComplications, []string{
		"complications", "sequelae", "adverse outcomes",
	}},
	{guideline.BlockInvestigations, []string{
		"investigations", "diagnostic tests", "laboratory tests",
		"diagnosis",
	}},
	{guideline.BlockPrevention, []string{
		"prevention", "prophylaxis", "preventive measures",
	}},
	{guideline.BlockFollowUp, []string{
		"follow up", "follow-up", "monitoring", "review",
	}},
	{guideline.BlockPrognosis, []string{
		"prognosis", "outcome", "course",
	}},
}

// orderBase is the order index of the first block in every condition.
const orderBase = 1

// Classify maps one condition's accumulated text into an ordered
// sequence of typed blocks. Header lines select the type and are
// stripped from the stored content. Text with no recognized header
// becomes a single definition block, so every condition carries at
// least one block. The classifier fills only type, content and order;
// metadata belongs to the caller.
func Classify(text string) []guideline.ContentBlock {
	var blocks []guideline.ContentBlock
	var buf []string
	var current guideline.BlockType
	open := false
	sawHeader := false
	order := orderBase

	flush := func() {
		if !open {
			return
		}
		blocks = append(blocks, guideline.ContentBlock{
			Type:    current,
			Content: strings.TrimSpace(strings.Join(buf, "\n")),
			Order:   order,
		})
		order++
		buf = buf[:0]
	}

	for _, line := range strings.Split(text, "\n") {
		if t, ok := matchBlockHeader(line); ok {
			sawHeader = true
			flush()
			current = t
			open = true
			continue
		}
		if !open && strings.TrimSpace(line) != "" {
			// Preamble before the first recognized header reads as
			// definition text.
			current = guideline.BlockDefinition
			open = true
		}
		if open {
			buf = append(buf, line)
		}
	}
	flush()

	if !sawHeader {
		return []guideline.ContentBlock{{
			Type:    guideline.BlockDefinition,
			Content: text,
			Order:   orderBase,
		}}
	}
	return blocks
}

// matchBlockHeader reports whether line is a section header after
// trimming whitespace and an optional trailing colon, ignoring case.
func matchBlockHeader(line string) (guideline.BlockType, bool) {
	normalized := strings.ToLower(strings.TrimSpace(line))
	normalized = strings.TrimSuffix(normalized, ":")
	normalized = strings.TrimSpace(normalized)
	if normalized == "" {
		return "", false
	}
	for _, set := range headerSets {
		for _, header := range set.Headers {
			if normalized == header {
				return set.Type, true
			}
		}
	}
	return "", false
}
