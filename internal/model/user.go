package model

import (
	"time"
)

// DeletedUserEmail identifies the sentinel account that adopts listings
// whose creator row is missing. Influencers with a NULL owner are
// reassigned to it before listing.
const (
	DeletedUserEmail = "deleted_user@system.local"
	DeletedUserName  = "Deleted User"
)

// User represents the user model stored in the database
type User struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	FullName  string    `json:"name" gorm:"type:varchar(100);not null"`
	Email     string    `json:"email" gorm:"type:varchar(100);uniqueIndex"`
	Password  string    `json:"-" gorm:"type:varchar(255)"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
