package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ApplicationStatus string

const (
	ApplicationPending  ApplicationStatus = "pending"
	ApplicationAccepted ApplicationStatus = "accepted"
	ApplicationRejected ApplicationStatus = "rejected"
)

// Terminal reports whether s is a decision status
func (s ApplicationStatus) Terminal() bool {
	return s == ApplicationAccepted || s == ApplicationRejected
}

// Application is a creator's request to fulfil a brief, at most one per (brief, creator)
type Application struct {
	ID        uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	BriefID   uuid.UUID         `gorm:"type:uuid;not null;uniqueIndex:idx_application_brief_creator" json:"brief_id"`
	Brief     *Brief            `gorm:"foreignKey:BriefID" json:"brief,omitempty"`
	CreatorID uuid.UUID         `gorm:"type:uuid;not null;uniqueIndex:idx_application_brief_creator;index" json:"creator_id"`
	Creator   *CreatorProfile   `gorm:"foreignKey:CreatorID" json:"creator,omitempty"`
	Pitch     string            `gorm:"type:text" json:"pitch"`
	Status    ApplicationStatus `gorm:"size:20;not null;default:pending;index" json:"status"`
	DecidedAt *time.Time        `json:"decided_at,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

func (Application) TableName() string {
	return "applications"
}

func (a *Application) BeforeCreate(*gorm.DB) error {
	assignID(&a.ID)
	return nil
}
