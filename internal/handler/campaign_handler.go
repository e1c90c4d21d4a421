package handler

import (
	"errors"
	"net/http"
	"time"

	"marketplace-service/internal/authz"
	"marketplace-service/internal/model"
	"marketplace-service/internal/store"
	"marketplace-service/pkg/database"
	"marketplace-service/pkg/logger"
	"marketplace-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// CampaignRequest defines the structure for campaign creation/update requests
type CampaignRequest struct {
	UserID       uint    `json:"user_id"`
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	Budget       float64 `json:"budget"`
	TargetNiche  string  `json:"target_niche"`
	CampaignLink *string `json:"campaign_link"`
}

// CampaignView is a campaign record annotated with viewer-relative flags
type CampaignView struct {
	model.Campaign
	authz.Capabilities
}

// ListCampaigns returns all campaigns newest-first, annotated with the
// requesting viewer's capabilities
func ListCampaigns(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordListingOperation("campaign", "list")

	db := database.GetDB()
	viewer, admin := resolveViewer(db, viewerID(c))

	defer prometheus.TrackDBOperation("query")(time.Now())
	campaigns, err := store.ListCampaigns(db)
	if err != nil {
		log.Error("Failed to list campaigns", zap.Error(err))
		prometheus.RecordAPIError("db_error")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "DB error."})
	}

	views := make([]CampaignView, 0, len(campaigns))
	for _, campaign := range campaigns {
		caps := authz.Compute(viewer, campaign.UserID, admin, false)
		// Campaigns have no follow semantics
		caps.CanFollow = false
		caps.CanUnfollow = false
		views = append(views, CampaignView{Campaign: campaign, Capabilities: caps})
	}

	log.Info("Campaigns retrieved", zap.Int("count", len(views)))
	return c.JSON(http.StatusOK, views)
}

// CreateCampaign handles creating a new campaign listing
func CreateCampaign(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordListingOperation("campaign", "create")

	var req CampaignRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		prometheus.RecordAPIError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	if req.UserID == 0 {
		prometheus.RecordAPIError("missing_user_id")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "user_id required"})
	}
	if req.Title == "" {
		prometheus.RecordAPIError("missing_title")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title required"})
	}
	if req.Budget < 0 {
		prometheus.RecordAPIError("invalid_budget")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "budget must not be negative"})
	}

	campaign := model.Campaign{
		UserID:       req.UserID,
		Title:        req.Title,
		Description:  req.Description,
		Budget:       req.Budget,
		TargetNiche:  req.TargetNiche,
		CampaignLink: req.CampaignLink,
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if err := store.CreateCampaign(database.GetDB(), &campaign); err != nil {
		log.Error("Failed to create campaign", zap.String("title", req.Title), zap.Error(err))
		prometheus.RecordAPIError("db_error")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "DB error"})
	}

	log.Info("Campaign created",
		zap.Uint("campaign_id", campaign.ID),
		zap.Uint("owner_id", req.UserID),
		zap.String("title", campaign.Title))
	return c.JSON(http.StatusCreated, echo.Map{"message": "Campaign created", "id": campaign.ID})
}

// UpdateCampaign handles updating an existing campaign listing
func UpdateCampaign(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordListingOperation("campaign", "update")

	id, err := paramID(c)
	if err != nil {
		prometheus.RecordAPIError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid campaign id"})
	}

	var req CampaignRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		prometheus.RecordAPIError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	if req.UserID == 0 {
		prometheus.RecordAPIError("missing_user_id")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "user_id required"})
	}
	if req.Budget < 0 {
		prometheus.RecordAPIError("invalid_budget")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "budget must not be negative"})
	}

	actor, admin := resolveViewer(database.GetDB(), req.UserID)

	in := model.Campaign{
		Title:        req.Title,
		Description:  req.Description,
		Budget:       req.Budget,
		TargetNiche:  req.TargetNiche,
		CampaignLink: req.CampaignLink,
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	if err := store.UpdateCampaign(database.GetDB(), id, actor.ID, admin, &in); err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			prometheus.RecordAPIError("not_found")
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Campaign not found"})
		case errors.Is(err, store.ErrForbidden):
			log.Warn("Update forbidden",
				zap.Uint("campaign_id", id),
				zap.Uint("actor_id", req.UserID))
			prometheus.RecordAPIError("forbidden")
			return c.JSON(http.StatusForbidden, echo.Map{"error": "Not allowed"})
		default:
			log.Error("Failed to update campaign", zap.Uint("campaign_id", id), zap.Error(err))
			prometheus.RecordAPIError("db_error")
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "DB error"})
		}
	}

	log.Info("Campaign updated", zap.Uint("campaign_id", id), zap.Uint("actor_id", req.UserID))
	return c.JSON(http.StatusOK, echo.Map{"message": "Campaign updated"})
}

// DeleteCampaign handles deleting a campaign listing
func DeleteCampaign(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordListingOperation("campaign", "delete")

	id, err := paramID(c)
	if err != nil {
		prometheus.RecordAPIError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid campaign id"})
	}

	var req struct {
		UserID uint `json:"user_id"`
	}
	if err := c.Bind(&req); err != nil || req.UserID == 0 {
		req.UserID = viewerID(c)
	}
	if req.UserID == 0 {
		prometheus.RecordAPIError("missing_user_id")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "user_id required"})
	}

	actor, admin := resolveViewer(database.GetDB(), req.UserID)

	defer prometheus.TrackDBOperation("delete")(time.Now())
	if err := store.DeleteCampaign(database.GetDB(), id, actor.ID, admin); err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			prometheus.RecordAPIError("not_found")
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Campaign not found"})
		case errors.Is(err, store.ErrForbidden):
			prometheus.RecordAPIError("forbidden")
			return c.JSON(http.StatusForbidden, echo.Map{"error": "Not allowed"})
		default:
			log.Error("Failed to delete campaign", zap.Uint("campaign_id", id), zap.Error(err))
			prometheus.RecordAPIError("db_error")
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "DB error"})
		}
	}

	log.Info("Campaign deleted", zap.Uint("campaign_id", id), zap.Uint("actor_id", req.UserID))
	return c.JSON(http.StatusOK, echo.Map{"message": "Campaign deleted"})
}
