package entities

import (
	"time"

	"github.com/google/uuid"
)

type Notification struct {
	ID          uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	RecipientID uuid.UUID  `gorm:"type:uuid;not null;index" json:"recipient_id"`
	Type        string     `gorm:"size:30;not null" json:"type"`
	Title       string     `gorm:"not null" json:"title"`
	Message     string     `gorm:"type:text" json:"message"`
	TargetType  string     `gorm:"size:20" json:"target_type,omitempty"`
	TargetID    *uuid.UUID `gorm:"type:uuid" json:"target_id,omitempty"`
	ActionURL   string     `json:"action_url,omitempty"`
	IsRead      bool       `gorm:"default:false;index" json:"is_read"`
	CreatedAt   time.Time  `gorm:"type:timestamp" json:"created_at"`

	Recipient *User `gorm:"foreignKey:RecipientID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"recipient,omitempty"`
}
