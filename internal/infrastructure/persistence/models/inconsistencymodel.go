package models

import (
	"gorm.io/datatypes"

	"nmqueue/internal/shared/constants"
)

type InconsistencyModel struct {
	ID          uint   `gorm:"primaryKey"`
	Kind        string `gorm:"size:20;not null;uniqueIndex:idx_inconsistency_entity;index"`
	EntityKey   string `gorm:"size:64;not null;uniqueIndex:idx_inconsistency_entity"`
	PersonID    uint   `gorm:"index"`
	ProcessID   uint   `gorm:"index"`
	Fingerprint string `gorm:"size:40"`
	Info        datatypes.JSON
	CreatedAt   int64 `gorm:"autoCreateTime:milli;not null"`
	UpdatedAt   int64 `gorm:"autoUpdateTime:milli;not null"`
}

func (InconsistencyModel) TableName() string {
	return constants.TableInconsistencies
}
