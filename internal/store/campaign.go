package store

import (
	"errors"

	"marketplace-service/internal/model"

	"gorm.io/gorm"
)

// ListCampaigns returns all campaigns newest-first
func ListCampaigns(db *gorm.DB) ([]model.Campaign, error) {
	var campaigns []model.Campaign
	err := db.Order("created_at DESC, id DESC").Find(&campaigns).Error
	if err != nil {
		return nil, err
	}
	return campaigns, nil
}

// CampaignByID fetches a single campaign
func CampaignByID(db *gorm.DB, id uint) (*model.Campaign, error) {
	var campaign model.Campaign
	if err := db.First(&campaign, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &campaign, nil
}

// CreateCampaign inserts a new campaign owned by its creator
func CreateCampaign(db *gorm.DB, campaign *model.Campaign) error {
	return db.Create(campaign).Error
}

// UpdateCampaign replaces all mutable fields of the campaign.
// Only the owner or the admin may update; full-record replace semantics.
func UpdateCampaign(db *gorm.DB, id, actorID uint, admin bool, in *model.Campaign) error {
	var existing model.Campaign
	if err := db.First(&existing, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	if !admin && existing.UserID != actorID {
		return ErrForbidden
	}

	return db.Model(&existing).
		Select("title", "description", "budget", "target_niche", "campaign_link").
		Updates(map[string]interface{}{
			"title":         in.Title,
			"description":   in.Description,
			"budget":        in.Budget,
			"target_niche":  in.TargetNiche,
			"campaign_link": in.CampaignLink,
		}).Error
}

// DeleteCampaign removes the campaign. Only the owner or the admin may delete.
func DeleteCampaign(db *gorm.DB, id, actorID uint, admin bool) error {
	var existing model.Campaign
	if err := db.First(&existing, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	if !admin && existing.UserID != actorID {
		return ErrForbidden
	}

	return db.Delete(&model.Campaign{}, id).Error
}
