package progress

const (
	EventJobQueued      = "job.queued"
	EventJobDownloading = "job.downloading"
	EventJobDelivered   = "job.delivered"
	EventJobFailed      = "job.failed"
)

type Event struct {
	ID   string `json:"id,omitempty"`
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

// JobData is the payload carried by every job event.
type JobData struct {
	JobID     string `json:"job_id"`
	Platform  string `json:"platform"`
	URL       string `json:"url"`
	Selection string `json:"selection"`
	Height    int    `json:"height,omitempty"`
	Error     string `json:"error,omitempty"`
}
