package service

import (
	"context"

	"ai-docflow-be/internal/repository/unitofwork"
	"ai-docflow-be/pkg/agent"
)

// sessionStatusFetcher adapts the session repository to the status
// agent's read interface.
type sessionStatusFetcher struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewSessionStatusFetcher(uowFactory unitofwork.RepositoryFactory) agent.JobStatusFetcher {
	return &sessionStatusFetcher{uowFactory: uowFactory}
}

func (f *sessionStatusFetcher) FetchJobStatus(ctx context.Context, sessionId string) ([]agent.JobRecord, error) {
	uow := f.uowFactory.NewUnitOfWork(ctx)
	sessions, err := uow.DocumentSessionRepository().FindBySession(ctx, sessionId)
	if err != nil {
		return nil, err
	}

	records := make([]agent.JobRecord, 0, len(sessions))
	for _, s := range sessions {
		records = append(records, agent.JobRecord{
			SessionId:    s.SessionId,
			TenantId:     s.TenantId,
			UserId:       s.UserId,
			FilePath:     s.FilePath,
			Status:       s.Status,
			ChunkCount:   s.ChunkCount,
			ErrorMessage: s.ErrorMessage,
			CreatedAt:    s.CreatedAt,
			UpdatedAt:    s.UpdatedAt,
		})
	}
	return records, nil
}
