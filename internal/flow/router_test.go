package flow

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRouteValidInject(t *testing.T) {
	r := NewRouter()

	task, state, err := r.Route(State{
		UserId:   "u1",
		TenantId: "t1",
		TaskType: "inject",
	})

	assert.NoError(t, err)
	assert.Equal(t, TaskInject, task)
	assert.NotEmpty(t, state.RunId)
	assert.NotEmpty(t, state.SessionId)
}

func TestRouteNormalizesFields(t *testing.T) {
	r := NewRouter()

	task, state, err := r.Route(State{
		UserId:    "  u1  ",
		TenantId:  " t1 ",
		TaskType:  "  QUERY ",
		UserQuery: " what is in my contract? ",
	})

	assert.NoError(t, err)
	assert.Equal(t, TaskQuery, task)
	assert.Equal(t, "u1", state.UserId)
	assert.Equal(t, "t1", state.TenantId)
	assert.Equal(t, "what is in my contract?", state.UserQuery)
}

func TestRouteKeepsProvidedSessionId(t *testing.T) {
	r := NewRouter()

	_, state, err := r.Route(State{
		UserId:    "u1",
		TenantId:  "t1",
		TaskType:  "status",
		SessionId: "s1",
	})

	assert.NoError(t, err)
	assert.Equal(t, "s1", state.SessionId)
}

func TestRouteMissingIdentity(t *testing.T) {
	r := NewRouter()

	cases := []State{
		{TenantId: "t1", TaskType: "inject"},
		{UserId: "u1", TaskType: "inject"},
		{TaskType: "inject"},
	}
	for _, c := range cases {
		_, _, err := r.Route(c)
		assert.True(t, IsValidationError(err))
		assert.Contains(t, err.Error(), "user_id and tenant_id")
	}
}

func TestRouteMissingTaskType(t *testing.T) {
	r := NewRouter()

	_, _, err := r.Route(State{UserId: "u1", TenantId: "t1"})
	assert.True(t, IsValidationError(err))
	assert.Contains(t, err.Error(), "task_type")
}

func TestRouteQueryWithoutUserQuery(t *testing.T) {
	r := NewRouter()

	for _, taskType := range []string{"query", "analyze"} {
		_, _, err := r.Route(State{
			UserId:   "u1",
			TenantId: "t1",
			TaskType: taskType,
		})
		assert.True(t, IsValidationError(err))
		assert.Contains(t, err.Error(), "user_query")
	}
}

func TestRouteUnrecognizedTaskType(t *testing.T) {
	r := NewRouter()

	_, _, err := r.Route(State{
		UserId:   "u1",
		TenantId: "t1",
		TaskType: "bogus",
	})
	assert.True(t, IsValidationError(err))
	assert.Contains(t, err.Error(), "unrecognized task type: bogus")
}

func TestRouteClearsUserQueryForInjectAndStatus(t *testing.T) {
	r := NewRouter()

	for _, taskType := range []string{"inject", "status"} {
		_, state, err := r.Route(State{
			UserId:    "u1",
			TenantId:  "t1",
			TaskType:  taskType,
			UserQuery: "leftover",
		})
		assert.NoError(t, err)
		assert.Empty(t, state.UserQuery)
	}
}
