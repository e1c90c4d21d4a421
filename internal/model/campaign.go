package model

import (
	"time"
)

// Campaign represents a brand campaign listing
type Campaign struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	UserID       uint      `json:"user_id" gorm:"index;not null"`
	Title        string    `json:"title" gorm:"type:varchar(255);not null"`
	Description  string    `json:"description" gorm:"type:text"`
	Budget       float64   `json:"budget" gorm:"not null;default:0"`
	TargetNiche  string    `json:"target_niche" gorm:"type:varchar(100)"`
	CampaignLink *string   `json:"campaign_link" gorm:"type:varchar(512)"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
