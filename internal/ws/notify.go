package ws

import (
	"encoding/json"
	"time"

	"jobboard/internal/domain/job"
)

// JobEvent is the frame pushed to feed subscribers when a company mutates a
// job. Type is one of job_posted, job_updated, job_deleted.
type JobEvent struct {
	Type      string   `json:"type"`
	JobID     string   `json:"job_id"`
	Title     string   `json:"title"`
	IsActive  bool     `json:"is_active"`
	Timestamp string   `json:"timestamp"`
	Job       *job.Job `json:"job,omitempty"`
}

// Notifier broadcasts job lifecycle events through a hub. It satisfies the
// usecase layer's JobFeedNotifier.
type Notifier struct {
	hub *Hub
}

func NewNotifier(hub *Hub) *Notifier {
	return &Notifier{hub: hub}
}

func (n *Notifier) NotifyJob(event string, j job.Job) {
	if n == nil || n.hub == nil {
		return
	}

	evt := JobEvent{
		Type:      event,
		JobID:     j.ID.String(),
		Title:     j.Title,
		IsActive:  j.IsActive,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	if event != "job_deleted" {
		evt.Job = &j
	}

	b, err := json.Marshal(evt)
	if err != nil {
		return
	}
	n.hub.Broadcast(b)
}
