package job

import (
	"fmt"
	"sync"
	"time"
)

// Manager keeps track of the broadcasts of one run
type Manager struct {
	mu    sync.RWMutex
	jobs  map[string]*Status
	order []string
}

// NewManager creates a new job manager
func NewManager() *Manager {
	return &Manager{
		jobs: make(map[string]*Status),
	}
}

// CreateJob creates a new pending job
func (m *Manager) CreateJob(title string, airdate time.Time) *Status {
	m.mu.Lock()
	defer m.mu.Unlock()

	jobID := fmt.Sprintf("%d", len(m.order)+1)
	job := &Status{
		ID:        jobID,
		Title:     title,
		Airdate:   airdate,
		Status:    StatusPending,
		Message:   "Job created",
		StartTime: time.Now(),
	}

	m.jobs[jobID] = job
	m.order = append(m.order, jobID)
	return job
}

// GetJob retrieves a copy of a job by ID
func (m *Manager) GetJob(jobID string) (Status, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	job, exists := m.jobs[jobID]
	if !exists {
		return Status{}, fmt.Errorf("%w: %s", ErrNotFound, jobID)
	}
	return *job, nil
}

// Start moves a pending job to processing
func (m *Manager) Start(jobID string) error {
	return m.update(jobID, func(job *Status) error {
		if job.Status != StatusPending {
			return fmt.Errorf("%w: %s", ErrInvalidState, job.Status)
		}
		job.Status = StatusProcessing
		job.Message = "Processing"
		job.StartTime = time.Now()
		return nil
	})
}

// Complete marks a job as done and records where the output went
func (m *Manager) Complete(jobID, output string) error {
	return m.finish(jobID, StatusCompleted, "Saved", output, nil)
}

// Skip marks a job that did not need any work
func (m *Manager) Skip(jobID, reason, output string) error {
	return m.finish(jobID, StatusSkipped, reason, output, nil)
}

// Fail marks a job as failed
func (m *Manager) Fail(jobID string, err error) error {
	return m.finish(jobID, StatusFailed, "Failed", "", err)
}

// CancelPending marks every job that has not finished as cancelled
func (m *Manager) CancelPending(reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	for _, id := range m.order {
		job := m.jobs[id]
		if job.Done() {
			continue
		}
		job.Status = StatusCancelled
		job.Message = reason
		job.EndTime = &now
	}
}

// Jobs returns copies of all jobs in creation order
func (m *Manager) Jobs() []Status {
	m.mu.RLock()
	defer m.mu.RUnlock()

	jobs := make([]Status, 0, len(m.order))
	for _, id := range m.order {
		jobs = append(jobs, *m.jobs[id])
	}
	return jobs
}

// Summary counts the jobs by status
func (m *Manager) Summary() Summary {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s := Summary{Total: len(m.order)}
	for _, job := range m.jobs {
		switch job.Status {
		case StatusCompleted:
			s.Completed++
		case StatusSkipped:
			s.Skipped++
		case StatusFailed:
			s.Failed++
		case StatusCancelled:
			s.Cancelled++
		}
	}
	return s
}

func (m *Manager) finish(jobID, status, message, output string, err error) error {
	return m.update(jobID, func(job *Status) error {
		if job.Done() {
			return fmt.Errorf("%w: %s", ErrInvalidState, job.Status)
		}
		job.Status = status
		job.Message = message
		job.Output = output
		if err != nil {
			job.Error = err.Error()
		}
		endTime := time.Now()
		job.EndTime = &endTime
		return nil
	})
}

func (m *Manager) update(jobID string, fn func(*Status) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	job, exists := m.jobs[jobID]
	if !exists {
		return fmt.Errorf("%w: %s", ErrNotFound, jobID)
	}
	return fn(job)
}
