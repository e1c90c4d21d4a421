package store

import (
	"errors"

	"marketplace-service/internal/model"

	"gorm.io/gorm"
)

// influencerFields are the mutable columns replaced on update. Omitted
// optional fields are stored as NULL rather than left unchanged.
var influencerFields = []string{
	"name", "niche", "followers", "bio", "image_url",
	"social_link", "price_post", "price_video", "price_promotion",
}

// ListInfluencers returns all influencers newest-first
func ListInfluencers(db *gorm.DB) ([]model.Influencer, error) {
	var influencers []model.Influencer
	err := db.Order("created_at DESC, id DESC").Find(&influencers).Error
	if err != nil {
		return nil, err
	}
	return influencers, nil
}

// InfluencerByID fetches a single influencer
func InfluencerByID(db *gorm.DB, id uint) (*model.Influencer, error) {
	var inf model.Influencer
	if err := db.First(&inf, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &inf, nil
}

// CreateInfluencer inserts a new influencer owned by its creator
func CreateInfluencer(db *gorm.DB, inf *model.Influencer) error {
	return db.Create(inf).Error
}

// UpdateInfluencer replaces all mutable fields of the influencer.
// Only the owner or the admin may update; full-record replace semantics.
func UpdateInfluencer(db *gorm.DB, id, actorID uint, admin bool, in *model.Influencer) error {
	var existing model.Influencer
	if err := db.First(&existing, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	if !admin && (existing.UserID == nil || *existing.UserID != actorID) {
		return ErrForbidden
	}

	// Select forces zero and nil values through, so omitted optional
	// fields end up NULL instead of keeping their old value.
	return db.Model(&existing).Select(influencerFields).Updates(map[string]interface{}{
		"name":            in.Name,
		"niche":           in.Niche,
		"followers":       in.Followers,
		"bio":             in.Bio,
		"image_url":       in.ImageURL,
		"social_link":     in.SocialLink,
		"price_post":      in.PricePost,
		"price_video":     in.PriceVideo,
		"price_promotion": in.PricePromotion,
	}).Error
}

// DeleteInfluencer removes the influencer and its follow relationships.
// Only the owner or the admin may delete; the delete is irreversible.
func DeleteInfluencer(db *gorm.DB, id, actorID uint, admin bool) error {
	var existing model.Influencer
	if err := db.First(&existing, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	if !admin && (existing.UserID == nil || *existing.UserID != actorID) {
		return ErrForbidden
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("influencer_id = ?", id).Delete(&model.Follower{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Influencer{}, id).Error
	})
}
