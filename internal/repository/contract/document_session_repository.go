package contract

import (
	"context"

	"ai-docflow-be/internal/entity"
	"ai-docflow-be/internal/repository/specification"
)

const (
	UpsertInserted = "inserted"
	UpsertUpdated  = "updated"
)

// SessionPatch carries the fields of one upsert call. Nil pointers mean
// "leave unchanged" on update; FilePath is mandatory on insert.
type SessionPatch struct {
	SessionId    string
	TenantId     string
	UserId       string
	FilePath     *string
	Status       *string
	ChunkCount   *int
	ErrorMessage *string
}

type DocumentSessionRepository interface {
	// Upsert inserts a new session record or patches an existing one,
	// returning UpsertInserted or UpsertUpdated.
	Upsert(ctx context.Context, patch *SessionPatch) (string, error)

	// FindBySession returns all records for a session id, most recently
	// updated first.
	FindBySession(ctx context.Context, sessionId string) ([]*entity.DocumentSession, error)

	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.DocumentSession, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.DocumentSession, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
