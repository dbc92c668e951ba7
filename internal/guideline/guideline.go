// Package guideline defines the entities recovered from a standard
// treatment guidelines document: chapters, conditions, content blocks
// and medications. It has no dependencies on other stgkb packages.
package guideline

// BlockType classifies a span of condition text into one of the ten
// semantic categories recognized by the classifier.
type BlockType string

const (
	BlockDefinition     BlockType = "definition"
	BlockSymptoms       BlockType = "symptoms"
	BlockTreatment      BlockType = "treatment"
	BlockDosage         BlockType = "dosage"
	BlockReferral       BlockType = "referral"
	BlockComplications  BlockType = "complications"
	BlockInvestigations BlockType = "investigations"
	BlockPrevention     BlockType = "prevention"
	BlockFollowUp       BlockType = "follow_up"
	BlockPrognosis      BlockType = "prognosis"
)

// Chapter is a top-level division of the guideline document. EndPage of
// chapter i equals StartPage of chapter i+1 minus one; the last
// chapter's EndPage is the document's final page.
type Chapter struct {
	Number    int    `json:"number"`
	Title     string `json:"title"`
	StartPage int    `json:"start_page"`
	EndPage   int    `json:"end_page"`
}

// ContentBlock is a classified, contiguous span of text within one
// condition. Order is monotonic per condition, starting at 1, with no
// gaps. The header line that selected the type is not part of Content.
type ContentBlock struct {
	Type     BlockType         `json:"type"`
	Content  string            `json:"content"`
	Order    int               `json:"order"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// Condition is a numbered medical condition section discovered within
// one chunk. Conditions are not merged across chunk boundaries.
type Condition struct {
	Name   string         `json:"name"`
	Page   int            `json:"page"`
	Blocks []ContentBlock `json:"blocks"`
}

// Medication is a drug reference with whatever dosing context the
// extractor could recover around the mention.
type Medication struct {
	Name              string   `json:"name"`
	Dosage            string   `json:"dosage,omitempty"`
	Frequency         string   `json:"frequency,omitempty"`
	Duration          string   `json:"duration,omitempty"`
	Route             string   `json:"route,omitempty"`
	Contraindications []string `json:"contraindications,omitempty"`
	SideEffects       []string `json:"side_effects,omitempty"`
}

// ProcessingResult is emitted once per page-range chunk and doubles as
// a progress signal: CurrentPage/TotalPages advance monotonically.
type ProcessingResult struct {
	CurrentPage int          `json:"current_page"`
	TotalPages  int          `json:"total_pages"`
	Text        string       `json:"-"`
	Conditions  []Condition  `json:"conditions"`
	Medications []Medication `json:"medications"`
	Chapter     *Chapter     `json:"chapter,omitempty"`
}

// Summary aggregates one complete pipeline run.
type Summary struct {
	TotalPages  int    `json:"total_pages"`
	Chapters    int    `json:"chapters"`
	Conditions  int    `json:"conditions"`
	Medications int    `json:"medications"`
	Message     string `json:"message"`
}
