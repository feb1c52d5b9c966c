package models

import "nmqueue/internal/shared/constants"

// ProcessLogModel rows are append-only. Updates and deletes are never
// issued against this table.
type ProcessLogModel struct {
	ID          uint   `gorm:"primaryKey"`
	ProcessID   uint   `gorm:"not null;index"`
	ChangedByID *uint  `gorm:"index"`
	Progress    string `gorm:"size:10;not null;index"`
	LoggedAt    int64  `gorm:"not null;index"`
	Message     string `gorm:"type:text"`
	IsPublic    bool   `gorm:"not null;default:false"`
	CreatedAt   int64  `gorm:"autoCreateTime:milli;not null"`
}

func (ProcessLogModel) TableName() string {
	return constants.TableProcessLogs
}
