package model

import (
	"time"
)

type DocumentSession struct {
	SessionId    string    `gorm:"type:varchar(64);primaryKey"`
	TenantId     string    `gorm:"type:varchar(128);not null;index"`
	UserId       string    `gorm:"type:varchar(128);not null;index"`
	FilePath     string    `gorm:"type:text;not null"`
	Status       string    `gorm:"type:varchar(32);not null;default:in_progress"`
	ChunkCount   int       `gorm:"not null;default:0"`
	ErrorMessage string    `gorm:"type:text"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

func (DocumentSession) TableName() string {
	return "document_sessions"
}
