package entity

import "time"

const (
	SessionStatusInProgress = "in_progress"
	SessionStatusCompleted  = "completed"
	SessionStatusFailed     = "failed"
)

type DocumentSession struct {
	SessionId    string
	TenantId     string
	UserId       string
	FilePath     string
	Status       string
	ChunkCount   int
	ErrorMessage string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
