package syncrun

import "time"

type Status string

const (
	StatusSuccess Status = "success"
	StatusPartial Status = "partial"
	StatusFailed  Status = "failed"
)

// maxErrorLen bounds the stored error text; anything longer is truncated.
const maxErrorLen = 500

// Run is the persisted record of one ingestion invocation.
type Run struct {
	ID          int64
	StartedAt   time.Time
	Season      int
	GamesSynced int
	StatsSynced int
	ErrorCount  int
	Status      Status
	ErrorText   string
}

// TruncateError clamps err text to the stored column width.
func TruncateError(text string) string {
	if len(text) <= maxErrorLen {
		return text
	}
	return text[:maxErrorLen]
}
