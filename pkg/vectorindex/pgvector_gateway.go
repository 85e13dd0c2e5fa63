package vectorindex

import (
	"context"
	"strings"
	"time"

	"ai-docflow-be/internal/pkg/logger"
	"ai-docflow-be/pkg/embedding"

	gocache "github.com/patrickmn/go-cache"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UpsertBatchSize is the fixed group size for bulk writes.
const UpsertBatchSize = 100

const defaultSearchLimit = 5

// documentChunkModel is the pgvector-backed row for one chunk.
// text-embedding-004 / nomic-embed-text both produce 768 dimensions.
type documentChunkModel struct {
	Id             int64           `gorm:"primaryKey;autoIncrement"`
	TenantId       string          `gorm:"type:text;not null;index;uniqueIndex:idx_chunk_identity,priority:1"`
	SessionId      string          `gorm:"type:text;not null;index;uniqueIndex:idx_chunk_identity,priority:2"`
	ChunkId        int             `gorm:"not null;uniqueIndex:idx_chunk_identity,priority:3"`
	Text           string          `gorm:"type:text;not null"`
	CharCount      int             `gorm:"not null"`
	FileName       string          `gorm:"type:text"`
	FileType       string          `gorm:"type:text"`
	Source         string          `gorm:"type:text"`
	EmbeddingValue pgvector.Vector `gorm:"type:vector(768)"`
	CreatedAt      time.Time       `gorm:"autoCreateTime"`
}

func (documentChunkModel) TableName() string {
	return "document_chunks"
}

// indexTenantModel is the tenant registry for the chunk index.
type indexTenantModel struct {
	TenantId  string    `gorm:"type:text;primaryKey"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (indexTenantModel) TableName() string {
	return "index_tenants"
}

// PgVectorGateway implements Gateway on Postgres + pgvector. The client
// is constructed once at startup and injected; there is no package-level
// connection cache.
type PgVectorGateway struct {
	db       *gorm.DB
	embedder embedding.EmbeddingProvider
	log      logger.ILogger

	// RegisterTenant is called on every inject run; memoize known
	// tenants so the hot path skips the registry lookup.
	tenantCache *gocache.Cache
}

var _ Gateway = &PgVectorGateway{}

func NewPgVectorGateway(db *gorm.DB, embedder embedding.EmbeddingProvider, log logger.ILogger) *PgVectorGateway {
	return &PgVectorGateway{
		db:          db,
		embedder:    embedder,
		log:         log,
		tenantCache: gocache.New(30*time.Minute, 10*time.Minute),
	}
}

func (g *PgVectorGateway) EnsureSchema(ctx context.Context, tenantId string) error {
	if err := g.db.WithContext(ctx).Exec("CREATE EXTENSION IF NOT EXISTS vector").Error; err != nil {
		return err
	}
	if err := g.db.WithContext(ctx).AutoMigrate(&indexTenantModel{}, &documentChunkModel{}); err != nil {
		return err
	}
	g.log.Debug("vectorindex", "schema sync complete", map[string]interface{}{
		"tenant_id": tenantId,
	})
	return nil
}

func (g *PgVectorGateway) RegisterTenant(ctx context.Context, tenantId string) (bool, error) {
	tenantId = normalizeTenant(tenantId)
	if _, known := g.tenantCache.Get(tenantId); known {
		return false, nil
	}

	result := g.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&indexTenantModel{TenantId: tenantId})
	if result.Error != nil {
		return false, result.Error
	}

	g.tenantCache.SetDefault(tenantId, true)
	created := result.RowsAffected > 0
	if created {
		g.log.Info("vectorindex", "tenant registered", map[string]interface{}{
			"tenant_id": tenantId,
		})
	}
	return created, nil
}

func (g *PgVectorGateway) UpsertBatch(ctx context.Context, tenantId string, chunks []Chunk) (*UpsertResult, error) {
	if len(chunks) == 0 {
		g.log.Warn("vectorindex", "no document chunks to upsert", nil)
		return &UpsertResult{}, nil
	}

	tenantId = normalizeTenant(tenantId)
	for _, c := range chunks {
		if normalizeTenant(c.TenantId) != tenantId {
			return nil, ErrTenantMismatch
		}
	}

	succeeded := 0
	for start := 0; start < len(chunks); start += UpsertBatchSize {
		end := start + UpsertBatchSize
		if end > len(chunks) {
			end = len(chunks)
		}

		models := make([]*documentChunkModel, 0, end-start)
		for _, c := range chunks[start:end] {
			resp, err := g.embedder.Generate(c.Text, embedding.TaskDocument)
			if err != nil {
				return &UpsertResult{Succeeded: succeeded, Failed: len(chunks) - succeeded},
					&UpsertError{Succeeded: succeeded, Failed: len(chunks) - succeeded, Err: err}
			}
			models = append(models, &documentChunkModel{
				TenantId:       tenantId,
				SessionId:      c.SessionId,
				ChunkId:        c.ChunkId,
				Text:           c.Text,
				CharCount:      c.CharCount,
				FileName:       c.FileName,
				FileType:       c.FileType,
				Source:         c.Source,
				EmbeddingValue: pgvector.NewVector(resp.Embedding.Values),
				CreatedAt:      c.CreatedAt,
			})
		}

		err := g.db.WithContext(ctx).
			Clauses(clause.OnConflict{
				Columns: []clause.Column{
					{Name: "tenant_id"}, {Name: "session_id"}, {Name: "chunk_id"},
				},
				UpdateAll: true,
			}).
			Create(&models).Error
		if err != nil {
			return &UpsertResult{Succeeded: succeeded, Failed: len(chunks) - succeeded},
				&UpsertError{Succeeded: succeeded, Failed: len(chunks) - succeeded, Err: err}
		}
		succeeded += len(models)
	}

	g.log.Info("vectorindex", "upsert complete", map[string]interface{}{
		"tenant_id": tenantId,
		"chunks":    succeeded,
	})
	return &UpsertResult{Succeeded: succeeded}, nil
}

func (g *PgVectorGateway) Search(ctx context.Context, tenantId, query string, limit int) ([]Match, error) {
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	tenantId = normalizeTenant(tenantId)

	resp, err := g.embedder.Generate(query, embedding.TaskQuery)
	if err != nil {
		return nil, err
	}
	queryVector := pgvector.NewVector(resp.Embedding.Values)

	// Cosine distance in pgvector is 1 - cosine_similarity
	type row struct {
		documentChunkModel
		Similarity float64
	}
	var rows []row

	err = g.db.WithContext(ctx).
		Table("document_chunks").
		Select("document_chunks.*, 1 - (embedding_value <=> ?) as similarity", queryVector).
		Where("tenant_id = ?", tenantId).
		Order("similarity DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	matches := make([]Match, 0, len(rows))
	for _, r := range rows {
		matches = append(matches, Match{
			Text:      r.Text,
			FileName:  r.FileName,
			FileType:  r.FileType,
			SessionId: r.SessionId,
			Score:     r.Similarity,
		})
	}
	return matches, nil
}

func normalizeTenant(tenantId string) string {
	return strings.ToLower(strings.TrimSpace(tenantId))
}
