package entities

import (
	"time"

	"github.com/google/uuid"
)

type Comment struct {
	ID        uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	RecipeID  uuid.UUID  `gorm:"type:uuid;not null;index" json:"recipe_id"`
	UserID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	ParentID  *uuid.UUID `gorm:"type:uuid;index" json:"parent_id,omitempty"` // nil for top-level comments
	Text      string     `gorm:"type:text;not null" json:"text"`
	IsHidden  bool       `gorm:"default:false" json:"is_hidden"`
	CreatedAt time.Time  `gorm:"type:timestamp" json:"created_at"`

	Recipe *Recipe  `gorm:"foreignKey:RecipeID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"recipe,omitempty"`
	User   *User    `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"user,omitempty"`
	Parent *Comment `gorm:"foreignKey:ParentID" json:"parent,omitempty"`
}
