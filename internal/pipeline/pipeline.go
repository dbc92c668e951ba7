// Package pipeline drives the guideline ingestion run: stage the
// source, detect chapter boundaries once, then walk fixed-size page
// chunks through the condition segmenter and medication extractor,
// yielding one result per chunk.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"

	"github.com/clinicalaide/stgkb/internal/chapter"
	"github.com/clinicalaide/stgkb/internal/condition"
	"github.com/clinicalaide/stgkb/internal/guideline"
	"github.com/clinicalaide/stgkb/internal/medication"
	"github.com/clinicalaide/stgkb/internal/parser"
	"github.com/clinicalaide/stgkb/internal/staging"
)

const (
	MinChunkSize     = 1
	MaxChunkSize     = 10
	DefaultChunkSize = 3

	// memoryHintPages is how many processed pages trigger a
	// best-effort reclamation hint. Performance only, never
	// correctness.
	memoryHintPages = 20
)

// Sink receives the recovered entities, in stream order. Implemented
// by the persistence collaborator.
type Sink interface {
	SaveChapters(ctx context.Context, chapters []guideline.Chapter) error
	SaveConditions(ctx context.Context, conditions []guideline.Condition) error
	SaveMedications(ctx context.Context, medications []guideline.Medication) error
}

// Config controls a Pipeline.
type Config struct {
	// ChunkSize is the number of pages per processing unit, in
	// [MinChunkSize, MaxChunkSize]. Zero means DefaultChunkSize.
	ChunkSize int
	// StagingDir holds the working copies; empty means the OS temp
	// directory.
	StagingDir string
}

// Pipeline processes guideline documents. One Pipeline may serve many
// runs; each run owns fully independent state (staged file, chapter
// registry, dedup sets).
type Pipeline struct {
	chunkSize  int
	stagingDir string
	log        *slog.Logger

	// open is swapped in tests to inject extraction faults.
	open func(path string) (parser.Document, error)
}

// New validates cfg and returns a Pipeline. Out-of-range chunk sizes
// are rejected immediately.
func New(cfg Config, log *slog.Logger) (*Pipeline, error) {
	if cfg.ChunkSize == 0 {
		cfg.ChunkSize = DefaultChunkSize
	}
	if cfg.ChunkSize < MinChunkSize || cfg.ChunkSize > MaxChunkSize {
		return nil, fmt.Errorf("chunk size %d out of range [%d, %d]", cfg.ChunkSize, MinChunkSize, MaxChunkSize)
	}
	if log == nil {
		log = slog.Default()
	}
	return &Pipeline{
		chunkSize:  cfg.ChunkSize,
		stagingDir: cfg.StagingDir,
		log:        log,
		open:       parser.Open,
	}, nil
}

// errStop aborts a run when the consumer stops pulling the stream.
var errStop = errors.New("pipeline: consumer stopped")

// Process returns the lazy result stream for source: one
// ProcessingResult per page chunk, in ascending page order. The
// sequence is finite and single-pass; consuming it twice requires a
// fresh call. The staged working copy is removed when the sequence
// ends, errors, or is abandoned early.
func (p *Pipeline) Process(ctx context.Context, source string) iter.Seq2[*guideline.ProcessingResult, error] {
	return func(yield func(*guideline.ProcessingResult, error) bool) {
		err := p.run(ctx, source, nil, func(r *guideline.ProcessingResult) error {
			if !yield(r, nil) {
				return errStop
			}
			return nil
		})
		if err != nil && !errors.Is(err, errStop) {
			yield(nil, err)
		}
	}
}

// Run drives a full ingestion: the chapter list and every chunk's
// conditions and medications go to sink, progress is invoked per
// chunk, and the returned Summary carries entity counts plus a
// completion message.
func (p *Pipeline) Run(ctx context.Context, source string, sink Sink, progress func(*guideline.ProcessingResult)) (*guideline.Summary, error) {
	sum := &guideline.Summary{}

	err := p.run(ctx, source,
		func(chapters []guideline.Chapter) error {
			sum.Chapters = len(chapters)
			if sink != nil && len(chapters) > 0 {
				if err := sink.SaveChapters(ctx, chapters); err != nil {
					return fmt.Errorf("save chapters: %w", err)
				}
			}
			return nil
		},
		func(r *guideline.ProcessingResult) error {
			sum.TotalPages = r.TotalPages
			sum.Conditions += len(r.Conditions)
			sum.Medications += len(r.Medications)
			if sink != nil {
				if len(r.Conditions) > 0 {
					if err := sink.SaveConditions(ctx, r.Conditions); err != nil {
						return fmt.Errorf("save conditions: %w", err)
					}
				}
				if len(r.Medications) > 0 {
					if err := sink.SaveMedications(ctx, r.Medications); err != nil {
						return fmt.Errorf("save medications: %w", err)
					}
				}
			}
			if progress != nil {
				progress(r)
			}
			return nil
		})
	if err != nil {
		return nil, err
	}

	sum.Message = fmt.Sprintf("Processing complete: %d chapters, %d conditions, %d medications across %d pages",
		sum.Chapters, sum.Conditions, sum.Medications, sum.TotalPages)
	return sum, nil
}

// run is the single sequential pass shared by Process and Run.
// Cleanup of the staged copy is guaranteed on every exit path and its
// failure never masks the run's own error.
func (p *Pipeline) run(ctx context.Context, source string, onChapters func([]guideline.Chapter) error, onResult func(*guideline.ProcessingResult) error) error {
	src, err := os.Open(source)
	if err != nil {
		return &SourceNotFoundError{Source: source, Err: err}
	}

	stager := staging.NewManager(p.stagingDir)
	defer func() {
		if err := stager.Cleanup(); err != nil {
			p.log.Error("staging cleanup failed", "source", source, "error", err)
		}
	}()

	staged, err := stager.Stage(src, filepath.Ext(source))
	src.Close()
	if err != nil {
		return &StagingError{Err: err}
	}

	doc, err := p.open(staged)
	if err != nil {
		return &SourceNotFoundError{Source: source, Err: err}
	}
	defer doc.Close()

	total := doc.PageCount()
	if total == 0 {
		return &ExtractionError{Err: errors.New("document has no pages")}
	}

	chapters, err := chapter.Detect(doc)
	if err != nil {
		return &ExtractionError{Err: err}
	}
	p.log.Info("chapter scan complete", "source", source, "chapters", len(chapters), "pages", total)
	if onChapters != nil {
		if err := onChapters(chapters); err != nil {
			return err
		}
	}

	sinceHint := 0
	for start := 1; start <= total; start += p.chunkSize {
		if err := ctx.Err(); err != nil {
			return err
		}

		end := min(start+p.chunkSize-1, total)
		text, err := doc.PageText(start, end)
		if err != nil {
			return &ExtractionError{Page: start, Err: err}
		}

		result := &guideline.ProcessingResult{
			CurrentPage: end,
			TotalPages:  total,
			Text:        text,
			Conditions:  condition.Segment(text, start),
			Medications: medication.Extract(text),
			Chapter:     chapter.Containing(chapters, start),
		}
		if err := onResult(result); err != nil {
			return err
		}

		sinceHint += end - start + 1
		if sinceHint >= memoryHintPages {
			runtime.GC()
			sinceHint = 0
		}
	}
	return nil
}
