package api

import (
	"sync"
	"time"

	"github.com/clinicalaide/stgkb/internal/guideline"
)

// JobStatus represents the state of an ingestion job.
type JobStatus string

const (
	StatusQueued     JobStatus = "queued"
	StatusProcessing JobStatus = "processing"
	StatusCompleted  JobStatus = "completed"
	StatusFailed     JobStatus = "failed"
)

// Progress mirrors the per-chunk progress signals of the result
// stream.
type Progress struct {
	CurrentPage int `json:"current_page"`
	TotalPages  int `json:"total_pages"`
	Chapters    int `json:"chapters"`
	Conditions  int `json:"conditions"`
	Medications int `json:"medications"`
}

// Job tracks one document ingestion.
type Job struct {
	mu sync.Mutex

	ID       string    `json:"job_id"`
	Filename string    `json:"filename"`
	Status   JobStatus `json:"status"`

	Progress Progress           `json:"progress"`
	Summary  *guideline.Summary `json:"summary,omitempty"`
	Error    string             `json:"error,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Internal: uploaded source path, removed after the run.
	sourcePath string
}

// SetStatus updates job status atomically.
func (j *Job) SetStatus(status JobStatus) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = status
	j.UpdatedAt = time.Now()
}

// UpdateProgress folds one chunk result into the job's counters.
func (j *Job) UpdateProgress(r *guideline.ProcessingResult) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.CurrentPage = r.CurrentPage
	j.Progress.TotalPages = r.TotalPages
	j.Progress.Conditions += len(r.Conditions)
	j.Progress.Medications += len(r.Medications)
	j.UpdatedAt = time.Now()
}

// Finish records the terminal state of the run.
func (j *Job) Finish(summary *guideline.Summary, err error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if err != nil {
		j.Status = StatusFailed
		j.Error = err.Error()
	} else {
		j.Status = StatusCompleted
		j.Summary = summary
		j.Progress.Chapters = summary.Chapters
	}
	j.UpdatedAt = time.Now()
}

// JobSnapshot is a read-only, JSON-safe copy of job state.
type JobSnapshot struct {
	ID       string             `json:"job_id"`
	Filename string             `json:"filename"`
	Status   JobStatus          `json:"status"`
	Progress Progress           `json:"progress"`
	Summary  *guideline.Summary `json:"summary,omitempty"`
	Error    string             `json:"error,omitempty"`
}

// Snapshot returns a JSON-safe copy of the job state.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	return JobSnapshot{
		ID:       j.ID,
		Filename: j.Filename,
		Status:   j.Status,
		Progress: j.Progress,
		Summary:  j.Summary,
		Error:    j.Error,
	}
}

// JobStore is a thread-safe in-memory job registry with TTL eviction.
type JobStore struct {
	mu   sync.Mutex
	jobs map[string]*Job
	ttl  time.Duration
}

func NewJobStore(ttl time.Duration) *JobStore {
	return &JobStore{
		jobs: make(map[string]*Job),
		ttl:  ttl,
	}
}

func (s *JobStore) Put(job *Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = job
}

func (s *JobStore) Get(id string) *Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jobs[id]
}

// Cleanup removes expired jobs.
func (s *JobStore) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for id, job := range s.jobs {
		if now.Sub(job.UpdatedAt) > s.ttl {
			delete(s.jobs, id)
		}
	}
}
