package agent

import (
	"context"
	"time"

	"ai-docflow-be/internal/pkg/logger"
)

// StatusAgent reports the processing status of a session based strictly
// on persisted session records.
type StatusAgent struct {
	fetcher JobStatusFetcher
	invoker Invoker
	log     logger.ILogger

	// now is swappable in tests.
	now func() time.Time
}

var _ StatusChecker = &StatusAgent{}

func NewStatusAgent(fetcher JobStatusFetcher, invoker Invoker, log logger.ILogger) *StatusAgent {
	return &StatusAgent{
		fetcher: fetcher,
		invoker: invoker,
		log:     log,
		now:     time.Now,
	}
}

func (a *StatusAgent) CheckStatus(ctx context.Context, sessionId string) (*StatusSummary, error) {
	records, err := a.fetcher.FetchJobStatus(ctx, sessionId)
	if err != nil {
		return nil, &InvocationError{Agent: "status", Err: err}
	}

	if len(records) == 0 {
		a.log.Info("agent", "no session records for status check", map[string]interface{}{
			"session_id": sessionId,
		})
		return &StatusSummary{JobStatusSummary: NoSessionFoundMessage}, nil
	}

	var summary StatusSummary
	if err := a.invoker.Invoke(ctx, "status", statusInstruction(sessionId, a.now(), records), &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}
