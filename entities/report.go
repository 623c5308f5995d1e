package entities

import (
	"time"

	"github.com/google/uuid"
)

type Report struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	ReporterID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_report_unique" json:"reporter_id"`
	TargetType string    `gorm:"size:20;not null;uniqueIndex:idx_report_unique" json:"target_type"` // recipe, comment
	TargetID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_report_unique" json:"target_id"`
	// TargetTitle is denormalized so the report survives target deletion.
	TargetTitle     string     `json:"target_title"`
	Reason          string     `gorm:"size:30;not null" json:"reason"`
	Description     string     `gorm:"type:text" json:"description"`
	Status          string     `gorm:"size:20;not null;default:'pending';index" json:"status"`
	Action          string     `gorm:"size:20;not null;default:'none'" json:"action"`
	ReviewerID      *uuid.UUID `gorm:"type:uuid" json:"reviewer_id,omitempty"`
	ReviewedAt      *time.Time `json:"reviewed_at,omitempty"`
	ResolutionNotes string     `gorm:"type:text" json:"resolution_notes"`
	CreatedAt       time.Time  `gorm:"type:timestamp" json:"created_at"`

	Reporter *User `gorm:"foreignKey:ReporterID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"reporter,omitempty"`
	Reviewer *User `gorm:"foreignKey:ReviewerID" json:"reviewer,omitempty"`
}
