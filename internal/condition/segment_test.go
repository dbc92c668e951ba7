package condition

import (
	"testing"

	"github.com/clinicalaide/stgkb/internal/guideline"
)

func TestSegment_NumberedSectionsWithBlocks(t *testing.T) {
	text := "1. Diarrhoea\nDefinition:\nLoose stools.\n\nTreatment:\nORS 75ml/kg."

	conditions := Segment(text, 31)
	if len(conditions) != 1 {
		t.Fatalf("expected 1 condition, got %d", len(conditions))
	}

	cond := conditions[0]
	if cond.Name != "Diarrhoea" {
		t.Errorf("expected name Diarrhoea, got %q", cond.Name)
	}
	if cond.Page != 31 {
		t.Errorf("expected page 31, got %d", cond.Page)
	}
	if len(cond.Blocks) != 2 {
		t.Fatalf("expected 2 blocks, got %d", len(cond.Blocks))
	}
	if cond.Blocks[0].Type != guideline.BlockDefinition || cond.Blocks[0].Content != "Loose stools." {
		t.Errorf("block 0: got (%s, %q)", cond.Blocks[0].Type, cond.Blocks[0].Content)
	}
	if cond.Blocks[1].Type != guideline.BlockTreatment || cond.Blocks[1].Content != "ORS 75ml/kg." {
		t.Errorf("block 1: got (%s, %q)", cond.Blocks[1].Type, cond.Blocks[1].Content)
	}
}

func TestSegment_MultipleConditions(t *testing.T) {
	text := "1. Acute Diarrhoea\nWatery stools.\n2. Cholera\nRice water stools.\ntrailing line"

	conditions := Segment(text, 1)
	if len(conditions) != 2 {
		t.Fatalf("expected 2 conditions, got %d", len(conditions))
	}
	if conditions[0].Name != "Acute Diarrhoea" {
		t.Errorf("condition 0: %q", conditions[0].Name)
	}
	if conditions[1].Name != "Cholera" {
		t.Errorf("condition 1: %q", conditions[1].Name)
	}
	// The last open condition is flushed at end of text.
	if len(conditions[1].Blocks) != 1 {
		t.Fatalf("expected 1 block for Cholera, got %d", len(conditions[1].Blocks))
	}
}

func TestSegment_ShortLabelsRejected(t *testing.T) {
	// Labels of 3 or fewer characters are list items, not conditions.
	text := "1. ORS\nnot a condition heading\n2. Malaria\nFever."

	conditions := Segment(text, 1)
	if len(conditions) != 1 {
		t.Fatalf("expected 1 condition, got %d", len(conditions))
	}
	if conditions[0].Name != "Malaria" {
		t.Errorf("expected Malaria, got %q", conditions[0].Name)
	}
}

func TestSegment_NumericLabelRejected(t *testing.T) {
	// The label must start with a letter.
	text := "1. 2017 Edition\nfront matter"

	if conditions := Segment(text, 1); len(conditions) != 0 {
		t.Fatalf("expected no conditions, got %d", len(conditions))
	}
}

func TestSegment_NoMatchesYieldsEmpty(t *testing.T) {
	if conditions := Segment("plain paragraph text\nwith no numbering", 1); len(conditions) != 0 {
		t.Fatalf("expected no conditions, got %d", len(conditions))
	}
}

func TestSegment_AttachesConditionMetadata(t *testing.T) {
	conditions := Segment("5. Pneumonia\nTreatment:\nAmoxicillin 500mg", 12)
	if len(conditions) != 1 {
		t.Fatalf("expected 1 condition, got %d", len(conditions))
	}
	for _, block := range conditions[0].Blocks {
		if block.Metadata["condition"] != "Pneumonia" {
			t.Errorf("block %d: metadata %v", block.Order, block.Metadata)
		}
	}
}
