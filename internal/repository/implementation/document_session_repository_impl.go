package implementation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ai-docflow-be/internal/entity"
	"ai-docflow-be/internal/mapper"
	"ai-docflow-be/internal/model"
	"ai-docflow-be/internal/repository/contract"
	"ai-docflow-be/internal/repository/specification"

	"gorm.io/gorm"
)

type DocumentSessionRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.DocumentSessionMapper
}

func NewDocumentSessionRepository(db *gorm.DB) contract.DocumentSessionRepository {
	return &DocumentSessionRepositoryImpl{
		db:     db,
		mapper: mapper.NewDocumentSessionMapper(),
	}
}

func (r *DocumentSessionRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *DocumentSessionRepositoryImpl) Upsert(ctx context.Context, patch *contract.SessionPatch) (string, error) {
	var existing model.DocumentSession
	err := r.db.WithContext(ctx).
		Where("session_id = ?", patch.SessionId).
		First(&existing).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return r.insert(ctx, patch)
	}
	if err != nil {
		return "", err
	}
	return r.update(ctx, &existing, patch)
}

func (r *DocumentSessionRepositoryImpl) insert(ctx context.Context, patch *contract.SessionPatch) (string, error) {
	if patch.FilePath == nil {
		return "", fmt.Errorf("file_path is required when creating session %s", patch.SessionId)
	}

	m := &model.DocumentSession{
		SessionId:  patch.SessionId,
		TenantId:   patch.TenantId,
		UserId:     patch.UserId,
		FilePath:   *patch.FilePath,
		Status:     entity.SessionStatusInProgress,
		ChunkCount: 0,
	}
	if patch.Status != nil {
		m.Status = *patch.Status
	}
	if patch.ChunkCount != nil {
		m.ChunkCount = *patch.ChunkCount
	}
	if patch.ErrorMessage != nil {
		m.ErrorMessage = *patch.ErrorMessage
	}

	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return "", err
	}
	return contract.UpsertInserted, nil
}

func (r *DocumentSessionRepositoryImpl) update(ctx context.Context, existing *model.DocumentSession, patch *contract.SessionPatch) (string, error) {
	updates := map[string]interface{}{
		"updated_at": time.Now().UTC(),
	}
	if patch.FilePath != nil {
		updates["file_path"] = *patch.FilePath
	}
	if patch.Status != nil {
		updates["status"] = *patch.Status
	}
	if patch.ChunkCount != nil {
		updates["chunk_count"] = *patch.ChunkCount
	}
	if patch.ErrorMessage != nil {
		updates["error_message"] = *patch.ErrorMessage
	}

	err := r.db.WithContext(ctx).
		Model(&model.DocumentSession{}).
		Where("session_id = ?", existing.SessionId).
		Updates(updates).Error
	if err != nil {
		return "", err
	}
	return contract.UpsertUpdated, nil
}

func (r *DocumentSessionRepositoryImpl) FindBySession(ctx context.Context, sessionId string) ([]*entity.DocumentSession, error) {
	return r.FindAll(ctx,
		specification.BySessionId{SessionId: sessionId},
		specification.OrderBy{Field: "updated_at", Desc: true},
	)
}

func (r *DocumentSessionRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.DocumentSession, error) {
	var m model.DocumentSession
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *DocumentSessionRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.DocumentSession, error) {
	var models []*model.DocumentSession
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *DocumentSessionRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.DocumentSession{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
