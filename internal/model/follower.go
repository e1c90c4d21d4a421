package model

import "time"

// Follower represents a follow relationship between a user and an
// influencer. At most one row may exist per (user, influencer) pair;
// the composite unique index rejects duplicates under races.
type Follower struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	UserID       uint      `json:"user_id" gorm:"index;uniqueIndex:idx_user_influencer"`
	InfluencerID uint      `json:"influencer_id" gorm:"index;uniqueIndex:idx_user_influencer"`
	CreatedAt    time.Time `json:"created_at"`
}
