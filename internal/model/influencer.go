package model

import (
	"time"
)

// Influencer represents an influencer listing. Followers is
// server-authoritative: it is only mutated by the follow/unfollow flow
// and never drops below zero.
type Influencer struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	UserID         *uint     `json:"user_id" gorm:"index"` // owner; NULL rows are backfilled to the deleted-user sentinel
	Name           string    `json:"name" gorm:"type:varchar(255);not null"`
	Niche          string    `json:"niche" gorm:"type:varchar(100)"`
	Followers      int       `json:"followers" gorm:"not null;default:0"`
	Bio            string    `json:"bio" gorm:"type:text"`
	ImageURL       *string   `json:"image_url" gorm:"type:varchar(512)"`
	SocialLink     *string   `json:"social_link" gorm:"type:varchar(512)"`
	PricePost      *string   `json:"price_post" gorm:"type:varchar(100)"`
	PriceVideo     *string   `json:"price_video" gorm:"type:varchar(100)"`
	PricePromotion *string   `json:"price_promotion" gorm:"type:varchar(100)"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
