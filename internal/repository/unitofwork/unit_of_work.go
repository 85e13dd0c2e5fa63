package unitofwork

import (
	"context"

	"ai-docflow-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	DocumentSessionRepository() contract.DocumentSessionRepository
}
