package vectorindex

import (
	"context"
	"time"
)

// Chunk is the indexable payload for one document window.
type Chunk struct {
	TenantId  string
	SessionId string
	ChunkId   int
	Text      string
	CharCount int
	FileName  string
	FileType  string
	Source    string
	CreatedAt time.Time
}

// Match is one semantic search hit, most similar first.
type Match struct {
	Text      string
	FileName  string
	FileType  string
	SessionId string
	Score     float64
}

// UpsertResult reports how many chunks a bulk upsert landed.
type UpsertResult struct {
	Succeeded int
	Failed    int
}

// Gateway is the vector index boundary. Every call is scoped to a single
// tenant; the core never issues a cross-tenant operation.
type Gateway interface {
	// EnsureSchema creates or syncs the index storage. Idempotent, safe
	// to call every run.
	EnsureSchema(ctx context.Context, tenantId string) error

	// RegisterTenant makes sure the tenant exists in the index.
	// Returns true when the tenant was newly created.
	RegisterTenant(ctx context.Context, tenantId string) (bool, error)

	// UpsertBatch writes chunks in fixed-size batches. All chunks must
	// belong to tenantId.
	UpsertBatch(ctx context.Context, tenantId string, chunks []Chunk) (*UpsertResult, error)

	// Search returns the top matches for a natural language query.
	Search(ctx context.Context, tenantId, query string, limit int) ([]Match, error)
}
