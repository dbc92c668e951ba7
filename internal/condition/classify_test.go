package condition

import (
	"testing"

	"github.com/clinicalaide/stgkb/internal/guideline"
)

func TestClassify_HeadersOpenTypedBlocks(t *testing.T) {
	text := "Clinical Features:\nFever and chills.\n\nTreatment:\nArtemether-Lumefantrine."

	blocks := Classify(text)
	if len(blocks) != 2 {
		t.Fatalf("expected 2 blocks, got %d", len(blocks))
	}
	if blocks[0].Type != guideline.BlockSymptoms || blocks[0].Content != "Fever and chills." {
		t.Errorf("block 0: got (%s, %q)", blocks[0].Type, blocks[0].Content)
	}
	if blocks[1].Type != guideline.BlockTreatment || blocks[1].Content != "Artemether-Lumefantrine." {
		t.Errorf("block 1: got (%s, %q)", blocks[1].Type, blocks[1].Content)
	}
}

func TestClassify_NoHeaderFallsBackToDefinition(t *testing.T) {
	text := "An acute infection of the middle ear.\nCommon in children."

	blocks := Classify(text)
	if len(blocks) != 1 {
		t.Fatalf("expected exactly 1 block, got %d", len(blocks))
	}
	if blocks[0].Type != guideline.BlockDefinition {
		t.Errorf("expected definition fallback, got %s", blocks[0].Type)
	}
	if blocks[0].Content != text {
		t.Errorf("fallback must keep the full original text, got %q", blocks[0].Content)
	}
}

func TestClassify_OrderIndicesContiguous(t *testing.T) {
	text := "Definition:\nA.\nSymptoms:\nB.\nInvestigations:\nC.\nTreatment:\nD.\nPrognosis:\nE."

	blocks := Classify(text)
	if len(blocks) != 5 {
		t.Fatalf("expected 5 blocks, got %d", len(blocks))
	}
	for i, block := range blocks {
		if block.Order != i+1 {
			t.Errorf("block %d: order %d, want %d", i, block.Order, i+1)
		}
	}
}

func TestClassify_HeaderMatchingIsLenient(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   guideline.BlockType
	}{
		{"uppercase", "TREATMENT", guideline.BlockTreatment},
		{"trailing colon", "Prevention:", guideline.BlockPrevention},
		{"surrounding space", "  follow up  ", guideline.BlockFollowUp},
		{"multi word", "Signs and Symptoms:", guideline.BlockSymptoms},
		{"referral phrase", "When to Refer", guideline.BlockReferral},
		{"complications", "Sequelae", guideline.BlockComplications},
		{"investigations", "Laboratory Tests:", guideline.BlockInvestigations},
		{"dosage", "Drug Doses", guideline.BlockDosage},
		{"prognosis", "Outcome", guideline.BlockPrognosis},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			blocks := Classify(tt.header + "\ncontent")
			if len(blocks) != 1 {
				t.Fatalf("expected 1 block, got %d", len(blocks))
			}
			if blocks[0].Type != tt.want {
				t.Errorf("got %s, want %s", blocks[0].Type, tt.want)
			}
			if blocks[0].Content != "content" {
				t.Errorf("header line must be stripped, got %q", blocks[0].Content)
			}
		})
	}
}

func TestClassify_HeaderMidSentenceNotMatched(t *testing.T) {
	// Header patterns are whole-line: a sentence mentioning treatment
	// must not split the block.
	text := "Definition:\nThe treatment of choice depends on severity."

	blocks := Classify(text)
	if len(blocks) != 1 {
		t.Fatalf("expected 1 block, got %d", len(blocks))
	}
	if blocks[0].Type != guideline.BlockDefinition {
		t.Errorf("got %s", blocks[0].Type)
	}
}

func TestClassify_PreambleBeforeFirstHeader(t *testing.T) {
	text := "A brief note.\nTreatment:\nParacetamol."

	blocks := Classify(text)
	if len(blocks) != 2 {
		t.Fatalf("expected 2 blocks, got %d", len(blocks))
	}
	if blocks[0].Type != guideline.BlockDefinition || blocks[0].Content != "A brief note." {
		t.Errorf("block 0: got (%s, %q)", blocks[0].Type, blocks[0].Content)
	}
	if blocks[1].Type != guideline.BlockTreatment {
		t.Errorf("block 1: got %s", blocks[1].Type)
	}
}

func TestClassify_ClassifierLeavesMetadataEmpty(t *testing.T) {
	blocks := Classify("Treatment:\nRest.")
	for _, block := range blocks {
		if block.Metadata != nil {
			t.Errorf("classifier must not populate metadata, got %v", block.Metadata)
		}
	}
}

func TestClassify_EmptyTextStillYieldsOneBlock(t *testing.T) {
	blocks := Classify("")
	if len(blocks) != 1 {
		t.Fatalf("expected 1 block, got %d", len(blocks))
	}
	if blocks[0].Type != guideline.BlockDefinition || blocks[0].Order != 1 {
		t.Errorf("got %+v", blocks[0])
	}
}
