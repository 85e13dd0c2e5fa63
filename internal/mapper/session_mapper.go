package mapper

import (
	"ai-docflow-be/internal/entity"
	"ai-docflow-be/internal/model"
)

type DocumentSessionMapper struct{}

func NewDocumentSessionMapper() *DocumentSessionMapper {
	return &DocumentSessionMapper{}
}

func (m *DocumentSessionMapper) ToEntity(s *model.DocumentSession) *entity.DocumentSession {
	if s == nil {
		return nil
	}
	return &entity.DocumentSession{
		SessionId:    s.SessionId,
		TenantId:     s.TenantId,
		UserId:       s.UserId,
		FilePath:     s.FilePath,
		Status:       s.Status,
		ChunkCount:   s.ChunkCount,
		ErrorMessage: s.ErrorMessage,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}
}

func (m *DocumentSessionMapper) ToModel(s *entity.DocumentSession) *model.DocumentSession {
	if s == nil {
		return nil
	}
	return &model.DocumentSession{
		SessionId:    s.SessionId,
		TenantId:     s.TenantId,
		UserId:       s.UserId,
		FilePath:     s.FilePath,
		Status:       s.Status,
		ChunkCount:   s.ChunkCount,
		ErrorMessage: s.ErrorMessage,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}
}

func (m *DocumentSessionMapper) ToEntities(sessions []*model.DocumentSession) []*entity.DocumentSession {
	entities := make([]*entity.DocumentSession, len(sessions))
	for i, s := range sessions {
		entities[i] = m.ToEntity(s)
	}
	return entities
}
