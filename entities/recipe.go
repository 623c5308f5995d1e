package entities

import (
	"time"

	"github.com/google/uuid"
)

type Recipe struct {
	ID           uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	AuthorID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"author_id"`
	Title        string     `gorm:"not null" json:"title"`
	Description  string     `gorm:"type:text" json:"description"`
	Ingredients  string     `gorm:"type:text" json:"ingredients"`  // newline-joined lines
	Instructions string     `gorm:"type:text" json:"instructions"` // newline-joined lines
	TimeMinutes  int        `gorm:"not null" json:"time_minutes"`
	MealTypes    string     `gorm:"size:100" json:"meal_types"` // comma-joined subset of breakfast..dessert
	ImageURL     string     `json:"image_url,omitempty"`
	IsHidden     bool       `gorm:"default:false;index" json:"is_hidden"`
	TotalViews   int64      `gorm:"default:0" json:"total_views"`
	LastViewedAt *time.Time `json:"last_viewed_at,omitempty"`

	Author *User `gorm:"foreignKey:AuthorID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"author,omitempty"`
	Timestamp
}
