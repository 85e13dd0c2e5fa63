package flow

import (
	"ai-docflow-be/pkg/agent"
)

// Task types supported by the router.
const (
	TaskInject  = "inject"
	TaskAnalyze = "analyze"
	TaskQuery   = "query"
	TaskStatus  = "status"
)

// State carries one run through the flow. It is owned by the active handler
// for the duration of the run and discarded once the response is built;
// only specific fields are mirrored into the session record.
type State struct {
	RunId     string
	UserId    string
	TenantId  string
	SessionId string
	TaskType  string
	UserQuery string

	// Opaque pass-through context, never interpreted by the core.
	TaskPayload map[string]interface{}
	UserInfo    map[string]interface{}

	// Output slots. Exactly one is populated on a successful run,
	// matching the task type.
	ChunkCount       *int
	QueryAnswer      *agent.QueryAnswer
	StatusSummary    *agent.StatusSummary
	DocumentAnalysis *agent.DocumentAnalysis
}
