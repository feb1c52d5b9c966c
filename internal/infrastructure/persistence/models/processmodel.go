package models

import "nmqueue/internal/shared/constants"

type ProcessModel struct {
	ID          uint   `gorm:"primaryKey"`
	PersonID    uint   `gorm:"not null;index"`
	ApplyingAs  string `gorm:"size:10;not null"`
	ApplyingFor string `gorm:"size:10;not null"`
	Progress    string `gorm:"size:10;not null;index"`
	ManagerID   *uint  `gorm:"index"`
	IsActive    bool   `gorm:"not null;default:true;index"`
	ArchiveKey  string `gorm:"uniqueIndex;size:64;not null"`
	CreatedAt   int64  `gorm:"autoCreateTime:milli;not null"`
	UpdatedAt   int64  `gorm:"autoUpdateTime:milli;not null"`

	// Note: No foreign key constraints or associations.
	// All relationships are managed by application business logic.
}

func (ProcessModel) TableName() string {
	return constants.TableProcesses
}

// ProcessAdvocateModel is the join table linking processes to the people
// advocating for them.
type ProcessAdvocateModel struct {
	ID        uint  `gorm:"primaryKey"`
	ProcessID uint  `gorm:"not null;uniqueIndex:idx_process_advocate"`
	PersonID  uint  `gorm:"not null;uniqueIndex:idx_process_advocate"`
	CreatedAt int64 `gorm:"autoCreateTime:milli;not null"`
}

func (ProcessAdvocateModel) TableName() string {
	return constants.TableAdvocates
}
