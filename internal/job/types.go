package job

import (
	"time"
)

// Constants for job status
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusSkipped    = "skipped"
	StatusFailed     = "failed"
	StatusCancelled  = "cancelled"
)

// Status represents the state of one broadcast within a run
type Status struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Airdate   time.Time  `json:"airdate"`
	Status    string     `json:"status"`
	Message   string     `json:"message"`
	Error     string     `json:"error,omitempty"`
	Output    string     `json:"output,omitempty"`
	StartTime time.Time  `json:"startTime"`
	EndTime   *time.Time `json:"endTime,omitempty"`
}

// Done reports whether the job reached a final status
func (s *Status) Done() bool {
	switch s.Status {
	case StatusCompleted, StatusSkipped, StatusFailed, StatusCancelled:
		return true
	}
	return false
}

// Summary counts the jobs of a run by status
type Summary struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
	Skipped   int `json:"skipped"`
	Failed    int `json:"failed"`
	Cancelled int `json:"cancelled"`
}

// OK reports whether no job failed or was cancelled
func (s Summary) OK() bool {
	return s.Failed == 0 && s.Cancelled == 0
}
