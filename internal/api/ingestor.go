package api

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/clinicalaide/stgkb/internal/pipeline"
)

// queueSize bounds pending ingestions; guideline documents are large
// and uploads are infrequent.
const queueSize = 16

// Ingestor runs queued ingestion jobs one at a time. A single worker
// keeps the sqlite sink a single writer; each run still owns fully
// independent pipeline state.
type Ingestor struct {
	jobs  *JobStore
	queue chan *Job
	pipe  *pipeline.Pipeline
	sink  pipeline.Sink
	log   *slog.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewIngestor(pipe *pipeline.Pipeline, sink pipeline.Sink, jobTTL time.Duration, log *slog.Logger) *Ingestor {
	return &Ingestor{
		jobs:  NewJobStore(jobTTL),
		queue: make(chan *Job, queueSize),
		pipe:  pipe,
		sink:  sink,
		log:   log,
	}
}

// Start launches the worker and the job store cleanup loop.
func (i *Ingestor) Start(ctx context.Context) {
	workerCtx, cancel := context.WithCancel(ctx)
	i.cancel = cancel

	i.wg.Add(1)
	go func() {
		defer i.wg.Done()
		for {
			select {
			case <-workerCtx.Done():
				return
			case job, ok := <-i.queue:
				if !ok {
					return
				}
				i.process(workerCtx, job)
			}
		}
	}()

	i.wg.Add(1)
	go func() {
		defer i.wg.Done()
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-workerCtx.Done():
				return
			case <-ticker.C:
				i.jobs.Cleanup()
			}
		}
	}()
}

// Stop gracefully shuts down the ingestor.
func (i *Ingestor) Stop() {
	if i.cancel != nil {
		i.cancel()
	}
	close(i.queue)
	i.wg.Wait()
}

// Submit queues a new job for processing.
func (i *Ingestor) Submit(job *Job) error {
	i.jobs.Put(job)
	select {
	case i.queue <- job:
		return nil
	default:
		job.Finish(nil, fmt.Errorf("job queue is full (%d)", queueSize))
		return fmt.Errorf("job queue is full (%d)", queueSize)
	}
}

// GetJob returns a job by ID.
func (i *Ingestor) GetJob(id string) *Job {
	return i.jobs.Get(id)
}

func (i *Ingestor) process(ctx context.Context, job *Job) {
	log := i.log.With("job_id", job.ID, "filename", job.Filename)
	job.SetStatus(StatusProcessing)

	summary, err := i.pipe.Run(ctx, job.sourcePath, i.sink, job.UpdateProgress)
	if removeErr := os.Remove(job.sourcePath); removeErr != nil && !os.IsNotExist(removeErr) {
		log.Warn("remove uploaded file failed", "error", removeErr)
	}

	job.Finish(summary, err)
	if err != nil {
		log.Error("ingestion failed", "error", err)
		return
	}
	log.Info("ingestion complete",
		"pages", summary.TotalPages,
		"chapters", summary.Chapters,
		"conditions", summary.Conditions,
		"medications", summary.Medications,
	)
}
