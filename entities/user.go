package entities

import (
	"github.com/google/uuid"
)

type User struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Handle    string    `gorm:"uniqueIndex;size:64;not null" json:"handle"`
	Email     string    `gorm:"uniqueIndex;not null" json:"email"`
	Password  string    `gorm:"not null" json:"-"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Bio       string    `gorm:"size:300" json:"bio"`
	IsPrivate bool      `gorm:"default:false" json:"is_private"`
	IsStaff   bool      `gorm:"default:false" json:"is_staff"`

	Timestamp
}
