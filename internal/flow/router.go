package flow

import (
	"strings"

	"github.com/google/uuid"
)

// Router validates and normalizes a raw state into a routable one.
// Pure validation: no I/O, the only effect is the returned state.
type Router struct{}

func NewRouter() *Router {
	return &Router{}
}

// Route trims and normalizes identity fields, defaults missing ids, and
// resolves the task type. The returned string is one of the Task* constants.
func (r *Router) Route(raw State) (string, State, error) {
	state := raw

	state.UserId = strings.TrimSpace(state.UserId)
	state.TenantId = strings.TrimSpace(state.TenantId)
	state.TaskType = strings.ToLower(strings.TrimSpace(state.TaskType))
	state.SessionId = strings.TrimSpace(state.SessionId)
	state.UserQuery = strings.TrimSpace(state.UserQuery)

	if state.RunId == "" {
		state.RunId = uuid.New().String()
	}
	if state.SessionId == "" {
		state.SessionId = uuid.New().String()
	}

	if state.UserId == "" || state.TenantId == "" {
		return "", state, NewValidationError("missing required fields: user_id and tenant_id")
	}
	if state.TaskType == "" {
		return "", state, NewValidationError("missing required field: task_type")
	}

	switch state.TaskType {
	case TaskQuery, TaskAnalyze:
		if state.UserQuery == "" {
			return "", state, NewValidationError("missing user_query for task type 'query' or 'analyze'")
		}
	case TaskInject, TaskStatus:
		// user_query is meaningless here, clear it so it never leaks downstream
		state.UserQuery = ""
	default:
		return "", state, NewValidationError("unrecognized task type: " + state.TaskType)
	}

	return state.TaskType, state, nil
}
