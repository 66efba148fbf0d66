package standingsqueue

// QueueName is the dedicated River queue for standings jobs.
const QueueName = "standings"

// RecomputeArgs asks for one division's table to be rebuilt.
type RecomputeArgs struct {
	Division string `json:"division"`
}

// Kind returns the job type identifier for River
func (RecomputeArgs) Kind() string { return "standings_recompute" }

// JobInfo describes a pending recompute job.
type JobInfo struct {
	ID          int64  `json:"id"`
	Division    string `json:"division"`
	State       string `json:"state"`
	ScheduledAt string `json:"scheduled_at"`
	Attempt     int    `json:"attempt"`
	MaxAttempts int    `json:"max_attempts"`
}
