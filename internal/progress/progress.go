package progress

import (
	"reflect"
	"sync"
	"time"
)

// Stage represents the current stage of processing
type Stage string

const (
	StageSearching   Stage = "searching"
	StageDownloading Stage = "downloading"
	StageCutting     Stage = "cutting"
	StageTagging     Stage = "tagging"
	StageComplete    Stage = "complete"
	StageError       Stage = "error"
)

// Event represents a progress event
type Event struct {
	Stage     Stage             `json:"stage"`
	Progress  float64           `json:"progress"`
	Message   string            `json:"message"`
	Timestamp time.Time         `json:"timestamp"`
	Broadcast *BroadcastDetails `json:"broadcast,omitempty"`
	Transfer  *TransferDetails  `json:"transfer,omitempty"`
	Error     string            `json:"error,omitempty"`
}

// BroadcastDetails contains information about the broadcast being processed
type BroadcastDetails struct {
	Index     int    `json:"index"`
	Total     int    `json:"total"`
	Title     string `json:"title"`
	Processed int    `json:"processed"`
}

// TransferDetails reports how much of a download has arrived. Total is -1
// when the server did not announce a length.
type TransferDetails struct {
	Written int64 `json:"written"`
	Total   int64 `json:"total"`
}

// ProgressTracker manages progress tracking
type ProgressTracker struct {
	mu        sync.RWMutex
	stage     Stage
	progress  float64
	message   string
	broadcast *BroadcastDetails
	err       error
	listeners []func(Event)
}

// NewProgressTracker creates a new ProgressTracker instance
func NewProgressTracker() *ProgressTracker {
	return &ProgressTracker{
		stage:     StageSearching,
		listeners: make([]func(Event), 0),
	}
}

// AddListener adds a new progress event listener
func (pt *ProgressTracker) AddListener(listener func(Event)) {
	pt.mu.Lock()
	defer pt.mu.Unlock()
	pt.listeners = append(pt.listeners, listener)
}

// RemoveListener removes a progress event listener
func (pt *ProgressTracker) RemoveListener(listener func(Event)) {
	pt.mu.Lock()
	defer pt.mu.Unlock()

	listenerPtr := reflect.ValueOf(listener).Pointer()
	for i := range pt.listeners {
		if reflect.ValueOf(pt.listeners[i]).Pointer() == listenerPtr {
			pt.listeners = append(pt.listeners[:i], pt.listeners[i+1:]...)
			break
		}
	}
}

// UpdateProgress updates the progress and notifies all listeners
func (pt *ProgressTracker) UpdateProgress(stage Stage, progress float64, message string) {
	pt.mu.Lock()
	pt.stage = stage
	pt.progress = progress
	pt.message = message
	broadcast := pt.broadcast
	pt.mu.Unlock()

	pt.notifyListeners(Event{
		Stage:     stage,
		Progress:  progress,
		Message:   message,
		Timestamp: time.Now(),
		Broadcast: broadcast,
	})
}

// StartBroadcast records which broadcast of the run is being worked on
func (pt *ProgressTracker) StartBroadcast(index, total, processed int, title string) {
	pt.mu.Lock()
	pt.broadcast = &BroadcastDetails{
		Index:     index,
		Total:     total,
		Title:     title,
		Processed: processed,
	}
	event := pt.eventLocked()
	pt.mu.Unlock()

	pt.notifyListeners(event)
}

// UpdateTransfer reports download progress of the current broadcast
func (pt *ProgressTracker) UpdateTransfer(written, total int64) {
	pt.mu.Lock()
	pt.stage = StageDownloading
	if total > 0 {
		pt.progress = float64(written) / float64(total) * 100
	}
	event := pt.eventLocked()
	pt.mu.Unlock()

	event.Transfer = &TransferDetails{Written: written, Total: total}
	pt.notifyListeners(event)
}

// SetError sets an error state and notifies all listeners
func (pt *ProgressTracker) SetError(err error) {
	pt.mu.Lock()
	pt.stage = StageError
	pt.err = err
	event := pt.eventLocked()
	pt.mu.Unlock()

	event.Message = err.Error()
	pt.notifyListeners(event)
}

// notifyListeners sends an event to all registered listeners
func (pt *ProgressTracker) notifyListeners(event Event) {
	pt.mu.RLock()
	defer pt.mu.RUnlock()

	for _, listener := range pt.listeners {
		listener(event)
	}
}

func (pt *ProgressTracker) eventLocked() Event {
	event := Event{
		Stage:     pt.stage,
		Progress:  pt.progress,
		Message:   pt.message,
		Timestamp: time.Now(),
		Broadcast: pt.broadcast,
	}
	if pt.err != nil {
		event.Error = pt.err.Error()
	}
	return event
}
