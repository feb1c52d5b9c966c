package models

import "nmqueue/internal/shared/constants"

type AMModel struct {
	ID           uint   `gorm:"primaryKey"`
	PersonID     uint   `gorm:"uniqueIndex;not null"`
	Slots        int    `gorm:"not null;default:0"`
	IsAM         bool   `gorm:"not null;default:false;index"`
	IsFD         bool   `gorm:"not null;default:false"`
	IsDAM        bool   `gorm:"not null;default:false"`
	IsAMCtte     bool   `gorm:"not null;default:false"`
	PasswordHash string `gorm:"size:60"`
	CreatedAt    int64  `gorm:"autoCreateTime:milli;not null"`
	UpdatedAt    int64  `gorm:"autoUpdateTime:milli;not null"`

	// Note: No foreign key constraints or associations.
	// All relationships are managed by application business logic.
}

func (AMModel) TableName() string {
	return constants.TableAMs
}
