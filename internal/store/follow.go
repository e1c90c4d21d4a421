package store

import (
	"errors"
	"strings"

	"marketplace-service/internal/model"

	"gorm.io/gorm"
)

// FollowInfluencer inserts the follow relationship and increments the
// influencer's follower counter as one transaction, so a failed counter
// update can never leave a dangling relationship row.
func FollowInfluencer(db *gorm.DB, userID, influencerID uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var inf model.Influencer
		if err := tx.First(&inf, influencerID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		// Self-follow is rejected here even though the capability flags
		// already hide the affordance.
		if inf.UserID != nil && *inf.UserID == userID {
			return ErrSelfFollow
		}

		var count int64
		if err := tx.Model(&model.Follower{}).
			Where("user_id = ? AND influencer_id = ?", userID, influencerID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrAlreadyFollowing
		}

		if err := tx.Create(&model.Follower{UserID: userID, InfluencerID: influencerID}).Error; err != nil {
			// The composite unique index is the authority when a
			// concurrent follow slips past the existence check
			if strings.Contains(strings.ToLower(err.Error()), "unique") ||
				strings.Contains(strings.ToLower(err.Error()), "duplicate") {
				return ErrAlreadyFollowing
			}
			return err
		}

		return tx.Model(&model.Influencer{}).
			Where("id = ?", influencerID).
			UpdateColumn("followers", gorm.Expr("followers + 1")).Error
	})
}

// UnfollowInfluencer deletes the follow relationship and decrements the
// counter in the same transaction. The counter is floored at zero so a
// concurrent double-unfollow cannot drive it negative.
func UnfollowInfluencer(db *gorm.DB, userID, influencerID uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		result := tx.Where("user_id = ? AND influencer_id = ?", userID, influencerID).
			Delete(&model.Follower{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotFollowing
		}

		return tx.Model(&model.Influencer{}).
			Where("id = ? AND followers > 0", influencerID).
			UpdateColumn("followers", gorm.Expr("followers - 1")).Error
	})
}

// IsFollowing reports whether a follow relationship exists for the pair
func IsFollowing(db *gorm.DB, userID, influencerID uint) (bool, error) {
	var count int64
	err := db.Model(&model.Follower{}).
		Where("user_id = ? AND influencer_id = ?", userID, influencerID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// FollowedInfluencerIDs returns the ids of influencers followed by the user
func FollowedInfluencerIDs(db *gorm.DB, userID uint) ([]uint, error) {
	ids := make([]uint, 0)
	if userID == 0 {
		return ids, nil
	}
	err := db.Model(&model.Follower{}).
		Where("user_id = ?", userID).
		Pluck("influencer_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}
