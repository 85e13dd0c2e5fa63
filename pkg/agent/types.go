package agent

import (
	"context"
	"time"
)

// StatusSummary is the structured result of a status check.
type StatusSummary struct {
	JobStatusSummary string `json:"job_status_summary"`
}

// QueryAnswer is the final user-facing answer to a document query.
type QueryAnswer struct {
	FinalMessage string `json:"final_message"`
}

// DocumentAnalysis is the structured output of the analysis agent.
type DocumentAnalysis struct {
	Classification        string   `json:"classification"`
	KeyEntities           []string `json:"key_entities"`
	CriticalClauses       []string `json:"critical_clauses"`
	CrossDocRelationships string   `json:"cross_doc_relationships,omitempty"`
	Summary               string   `json:"summary"`
}

// JobRecord is a read-only view of one persisted ingestion session,
// supplied to the status agent by a JobStatusFetcher.
type JobRecord struct {
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

// JobStatusFetcher fetches all session records for a session id, most
// recent first.
type JobStatusFetcher interface {
	FetchJobStatus(ctx context.Context, sessionId string) ([]JobRecord, error)
}

// StatusChecker summarizes the processing status of a session.
type StatusChecker interface {
	CheckStatus(ctx context.Context, sessionId string) (*StatusSummary, error)
}

// QueryAnswerer produces a grounded answer for a tenant's query.
type QueryAnswerer interface {
	AnswerQuery(ctx context.Context, tenantId, userQuery string) (*QueryAnswer, error)
}

// DocumentAnalyzer analyzes merged document content as one unit.
type DocumentAnalyzer interface {
	Analyze(ctx context.Context, mergedContent string) (*DocumentAnalysis, error)
}
