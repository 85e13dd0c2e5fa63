package dto

import (
	"time"

	"ai-docflow-be/pkg/agent"
)

type TaskRequest struct {
	UserId    string `json:"user_id" validate:"required"`
	TenantId  string `json:"tenant_id" validate:"required"`
	TaskType  string `json:"task_type" validate:"required"`
	SessionId string `json:"session_id,omitempty"`
	UserQuery string `json:"user_query,omitempty"`

	TaskPayload map[string]interface{} `json:"task_payload,omitempty"`
	UserInfo    map[string]interface{} `json:"user_info,omitempty"`
}

// TaskResponse echoes the session id and carries exactly one populated
// output slot, matching the task type.
type TaskResponse struct {
	SessionId string `json:"session_id"`
	TaskType  string `json:"task_type"`

	ChunkCount       *int                    `json:"chunk_count,omitempty"`
	StatusSummary    *agent.StatusSummary    `json:"status_summary,omitempty"`
	QueryAnswer      *agent.QueryAnswer      `json:"query_answer,omitempty"`
	DocumentAnalysis *agent.DocumentAnalysis `json:"document_analysis,omitempty"`
}

// SessionLifecycleMessage is the payload published on every session
// status transition.
type SessionLifecycleMessage struct {
	SessionId    string    `json:"session_id"`
	TenantId     string    `json:"tenant_id"`
	UserId       string    `json:"user_id"`
	Status       string    `json:"status"`
	ChunkCount   int       `json:"chunk_count"`
	ErrorMessage string    `json:"error_message,omitempty"`
	OccurredAt   time.Time `json:"occurred_at"`
}
