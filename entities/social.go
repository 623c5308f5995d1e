package entities

import (
	"time"

	"github.com/google/uuid"
)

// Follow is a directed accepted edge: FollowerID follows FollowingID.
type Follow struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	FollowerID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_follow_pair" json:"follower_id"`
	FollowingID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_follow_pair" json:"following_id"`
	CreatedAt   time.Time `gorm:"type:timestamp" json:"created_at"`

	Follower  *User `gorm:"foreignKey:FollowerID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"follower,omitempty"`
	Following *User `gorm:"foreignKey:FollowingID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"following,omitempty"`
}

// FollowRequest exists only while the target account is private and no
// corresponding Follow edge exists yet.
type FollowRequest struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	FromUserID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_follow_request_pair" json:"from_user_id"`
	ToUserID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_follow_request_pair" json:"to_user_id"`
	CreatedAt  time.Time `gorm:"type:timestamp" json:"created_at"`

	FromUser *User `gorm:"foreignKey:FromUserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"from_user,omitempty"`
	ToUser   *User `gorm:"foreignKey:ToUserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"to_user,omitempty"`
}
