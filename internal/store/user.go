package store

import (
	"errors"
	"strings"

	"marketplace-service/internal/model"

	"gorm.io/gorm"
)

// CreateUser inserts a new user, rejecting duplicate emails
func CreateUser(db *gorm.DB, user *model.User) error {
	var count int64
	if err := db.Model(&model.User{}).Where("email = ?", user.Email).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrDuplicateEmail
	}
	if err := db.Create(user).Error; err != nil {
		// The unique index is the authority under concurrent registration
		if strings.Contains(strings.ToLower(err.Error()), "unique") ||
			strings.Contains(strings.ToLower(err.Error()), "duplicate") {
			return ErrDuplicateEmail
		}
		return err
	}
	return nil
}

// UserByEmail looks a user up by email
func UserByEmail(db *gorm.DB, email string) (*model.User, error) {
	var user model.User
	if err := db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// UserByID looks a user up by id
func UserByID(db *gorm.DB, id uint) (*model.User, error) {
	var user model.User
	if err := db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// EnsureInfluencerOwners reassigns influencers with a NULL owner to the
// deleted-user sentinel account, creating that account on first use.
func EnsureInfluencerOwners(db *gorm.DB) error {
	var sentinel model.User
	err := db.Where("email = ?", model.DeletedUserEmail).First(&sentinel).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		sentinel = model.User{
			FullName: model.DeletedUserName,
			Email:    model.DeletedUserEmail,
			Password: "",
		}
		if err := db.Create(&sentinel).Error; err != nil {
			return err
		}
	} else if err != nil {
		return err
	}

	return db.Model(&model.Influencer{}).
		Where("user_id IS NULL").
		Update("user_id", sentinel.ID).Error
}
