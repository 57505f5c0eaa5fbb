package domain

import "time"

// Extraction is the history row written after a request completes. Only
// metadata is recorded; media bytes are never persisted.
type Extraction struct {
	ID          int
	PostID      string
	PostURL     string
	ChatID      int64
	MediaCount  int
	FailedCount int
	CreatedAt   time.Time
}
