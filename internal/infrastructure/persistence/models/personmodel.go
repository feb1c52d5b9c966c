package models

import "nmqueue/internal/shared/constants"

type PersonModel struct {
	ID            uint    `gorm:"primaryKey"`
	CN            string  `gorm:"size:250;not null"`
	MN            string  `gorm:"size:250"`
	SN            string  `gorm:"size:250"`
	Email         string  `gorm:"uniqueIndex;size:254;not null"`
	UID           *string `gorm:"uniqueIndex;size:32"`
	Fingerprint   *string `gorm:"uniqueIndex;size:40"`
	Status        string  `gorm:"size:10;not null;index"`
	StatusChanged int64   `gorm:"not null"`
	FDComment     string  `gorm:"type:text"`
	Expires       *int64  `gorm:"index"`
	PendingNonce  *string `gorm:"size:36"`
	CreatedAt     int64   `gorm:"autoCreateTime:milli;not null"`
	UpdatedAt     int64   `gorm:"autoUpdateTime:milli;not null"`

	// Note: No foreign key constraints or associations.
	// All relationships are managed by application business logic.
}

func (PersonModel) TableName() string {
	return constants.TablePersons
}
