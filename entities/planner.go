package entities

import (
	"time"

	"github.com/google/uuid"
)

// PlannedDay is created lazily the first time a meal is planned on a date.
type PlannedDay struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_planned_day_user_date" json:"user_id"`
	Date      string    `gorm:"size:10;not null;uniqueIndex:idx_planned_day_user_date" json:"date"` // YYYY-MM-DD
	CreatedAt time.Time `gorm:"type:timestamp" json:"created_at"`

	User  *User         `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"user,omitempty"`
	Meals []PlannedMeal `gorm:"foreignKey:PlannedDayID" json:"meals,omitempty"`
}

type PlannedMeal struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	PlannedDayID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_planned_meal_unique" json:"planned_day_id"`
	Slot         string    `gorm:"size:20;not null;uniqueIndex:idx_planned_meal_unique" json:"slot"`
	RecipeID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_planned_meal_unique" json:"recipe_id"`
	CreatedAt    time.Time `gorm:"type:timestamp" json:"created_at"`

	PlannedDay *PlannedDay `gorm:"foreignKey:PlannedDayID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"planned_day,omitempty"`
	Recipe     *Recipe     `gorm:"foreignKey:RecipeID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"recipe,omitempty"`
}
