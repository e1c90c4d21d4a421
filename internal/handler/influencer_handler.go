package handler

import (
	"errors"
	"net/http"
	"strconv"
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

// InfluencerRequest defines the structure for influencer creation/update requests
type InfluencerRequest struct {
	UserID         uint    `json:"user_id"`
	Name           string  `json:"name"`
	Niche          string  `json:"niche"`
	Followers      int     `json:"followers"`
	Bio            string  `json:"bio"`
	ImageURL       *string `json:"image_url"`
	SocialLink     *string `json:"social_link"`
	PricePost      *string `json:"price_post"`
	PriceVideo     *string `json:"price_video"`
	PricePromotion *string `json:"price_promotion"`
}

// InfluencerView is an influencer record annotated with viewer-relative flags
type InfluencerView struct {
	model.Influencer
	IsFollowing bool `json:"is_following"`
	authz.Capabilities
}

func paramID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	return uint(id), err
}

func viewerID(c echo.Context) uint {
	id, err := strconv.ParseUint(c.QueryParam("user_id"), 10, 32)
	if err != nil {
		return 0
	}
	return uint(id)
}

// ListInfluencers returns all influencers newest-first, annotated with
// the requesting viewer's capabilities
func ListInfluencers(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordListingOperation("influencer", "list")

	db := database.GetDB()

	// Orphaned listings are adopted by the sentinel account before the
	// viewer-relative flags are computed against owners.
	if err := store.EnsureInfluencerOwners(db); err != nil {
		log.Error("Failed to backfill influencer owners", zap.Error(err))
		prometheus.RecordAPIError("db_error")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "DB error."})
	}

	viewer, admin := resolveViewer(db, viewerID(c))

	defer prometheus.TrackDBOperation("query")(time.Now())
	influencers, err := store.ListInfluencers(db)
	if err != nil {
		log.Error("Failed to list influencers", zap.Error(err))
		prometheus.RecordAPIError("db_error")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "DB error."})
	}

	followed := make(map[uint]bool)
	if viewer.Authenticated {
		ids, err := store.FollowedInfluencerIDs(db, viewer.ID)
		if err != nil {
			log.Error("Failed to load follow set", zap.Error(err))
			prometheus.RecordAPIError("db_error")
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "DB error."})
		}
		for _, id := range ids {
			followed[id] = true
		}
	}

	views := make([]InfluencerView, 0, len(influencers))
	for _, inf := range influencers {
		var ownerID uint
		if inf.UserID != nil {
			ownerID = *inf.UserID
		}
		following := followed[inf.ID]
		views = append(views, InfluencerView{
			Influencer:   inf,
			IsFollowing:  following,
			Capabilities: authz.Compute(viewer, ownerID, admin, following),
		})
	}

	log.Info("Influencers retrieved", zap.Int("count", len(views)))
	return c.JSON(http.StatusOK, views)
}

// ListFollows returns the ids of influencers followed by the given user
func ListFollows(c echo.Context) error {
	log := logger.FromContext(c)

	defer prometheus.TrackDBOperation("query")(time.Now())
	ids, err := store.FollowedInfluencerIDs(database.GetDB(), viewerID(c))
	if err != nil {
		log.Error("Failed to list follows", zap.Error(err))
		prometheus.RecordAPIError("db_error")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "DB error."})
	}

	return c.JSON(http.StatusOK, ids)
}

// CreateInfluencer handles creating a new influencer listing
func CreateInfluencer(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordListingOperation("influencer", "create")

	var req InfluencerRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		prometheus.RecordAPIError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	if req.UserID == 0 {
		prometheus.RecordAPIError("missing_user_id")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "user_id required."})
	}
	if req.Name == "" {
		prometheus.RecordAPIError("missing_name")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Name required."})
	}

	followers := req.Followers
	if followers < 0 {
		followers = 0
	}

	owner := req.UserID
	inf := model.Influencer{
		UserID:         &owner,
		Name:           req.Name,
		Niche:          req.Niche,
		Followers:      followers,
		Bio:            req.Bio,
		ImageURL:       req.ImageURL,
		SocialLink:     req.SocialLink,
		PricePost:      req.PricePost,
		PriceVideo:     req.PriceVideo,
		PricePromotion: req.PricePromotion,
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if err := store.CreateInfluencer(database.GetDB(), &inf); err != nil {
		log.Error("Failed to create influencer", zap.String("name", req.Name), zap.Error(err))
		prometheus.RecordAPIError("db_error")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "DB error."})
	}

	log.Info("Influencer created",
		zap.Uint("influencer_id", inf.ID),
		zap.Uint("owner_id", req.UserID),
		zap.String("name", inf.Name))
	return c.JSON(http.StatusCreated, echo.Map{"message": "Influencer added.", "id": inf.ID})
}

// UpdateInfluencer handles updating an existing influencer listing
func UpdateInfluencer(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordListingOperation("influencer", "update")

	id, err := paramID(c)
	if err != nil {
		prometheus.RecordAPIError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid influencer id"})
	}

	var req InfluencerRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		prometheus.RecordAPIError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	if req.UserID == 0 {
		prometheus.RecordAPIError("missing_user_id")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "user_id required."})
	}

	actor, admin := resolveViewer(database.GetDB(), req.UserID)

	followers := req.Followers
	if followers < 0 {
		followers = 0
	}

	in := model.Influencer{
		Name:           req.Name,
		Niche:          req.Niche,
		Followers:      followers,
		Bio:            req.Bio,
		ImageURL:       req.ImageURL,
		SocialLink:     req.SocialLink,
		PricePost:      req.PricePost,
		PriceVideo:     req.PriceVideo,
		PricePromotion: req.PricePromotion,
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	if err := store.UpdateInfluencer(database.GetDB(), id, actor.ID, admin, &in); err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			prometheus.RecordAPIError("not_found")
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Influencer not found."})
		case errors.Is(err, store.ErrForbidden):
			log.Warn("Update forbidden",
				zap.Uint("influencer_id", id),
				zap.Uint("actor_id", req.UserID))
			prometheus.RecordAPIError("forbidden")
			return c.JSON(http.StatusForbidden, echo.Map{"error": "You are not the creator."})
		default:
			log.Error("Failed to update influencer", zap.Uint("influencer_id", id), zap.Error(err))
			prometheus.RecordAPIError("db_error")
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "DB error."})
		}
	}

	log.Info("Influencer updated", zap.Uint("influencer_id", id), zap.Uint("actor_id", req.UserID))
	return c.JSON(http.StatusOK, echo.Map{"message": "Influencer updated."})
}

// DeleteInfluencer handles deleting an influencer listing
func DeleteInfluencer(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordListingOperation("influencer", "delete")

	id, err := paramID(c)
	if err != nil {
		prometheus.RecordAPIError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid influencer id"})
	}

	// user_id may arrive in the body or as a query parameter
	var req struct {
		UserID uint `json:"user_id"`
	}
	if err := c.Bind(&req); err != nil || req.UserID == 0 {
		req.UserID = viewerID(c)
	}
	if req.UserID == 0 {
		prometheus.RecordAPIError("missing_user_id")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "user_id required."})
	}

	actor, admin := resolveViewer(database.GetDB(), req.UserID)

	defer prometheus.TrackDBOperation("delete")(time.Now())
	if err := store.DeleteInfluencer(database.GetDB(), id, actor.ID, admin); err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			prometheus.RecordAPIError("not_found")
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Influencer not found."})
		case errors.Is(err, store.ErrForbidden):
			prometheus.RecordAPIError("forbidden")
			return c.JSON(http.StatusForbidden, echo.Map{"error": "You are not the creator."})
		default:
			log.Error("Failed to delete influencer", zap.Uint("influencer_id", id), zap.Error(err))
			prometheus.RecordAPIError("db_error")
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "DB error."})
		}
	}

	log.Info("Influencer deleted", zap.Uint("influencer_id", id), zap.Uint("actor_id", req.UserID))
	return c.JSON(http.StatusOK, echo.Map{"message": "Influencer deleted."})
}

// FollowInfluencer records a follow relationship and bumps the counter
func FollowInfluencer(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordFollowOperation("follow")

	id, err := paramID(c)
	if err != nil {
		prometheus.RecordAPIError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid influencer id"})
	}

	var req struct {
		UserID uint `json:"user_id"`
	}
	if err := c.Bind(&req); err != nil || req.UserID == 0 {
		prometheus.RecordAPIError("missing_user_id")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "user_id required."})
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if err := store.FollowInfluencer(database.GetDB(), req.UserID, id); err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			prometheus.RecordAPIError("not_found")
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Influencer not found."})
		case errors.Is(err, store.ErrSelfFollow):
			prometheus.RecordAPIError("self_follow")
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "Cannot follow your own profile."})
		case errors.Is(err, store.ErrAlreadyFollowing):
			prometheus.RecordAPIError("already_following")
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "Already following."})
		default:
			log.Error("Failed to follow influencer",
				zap.Uint("influencer_id", id),
				zap.Uint("user_id", req.UserID),
				zap.Error(err))
			prometheus.RecordAPIError("db_error")
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "DB error."})
		}
	}

	log.Info("Influencer followed", zap.Uint("influencer_id", id), zap.Uint("user_id", req.UserID))
	return c.JSON(http.StatusOK, echo.Map{"message": "Followed influencer."})
}

// UnfollowInfluencer removes a follow relationship and lowers the counter
func UnfollowInfluencer(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordFollowOperation("unfollow")

	id, err := paramID(c)
	if err != nil {
		prometheus.RecordAPIError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid influencer id"})
	}

	var req struct {
		UserID uint `json:"user_id"`
	}
	if err := c.Bind(&req); err != nil || req.UserID == 0 {
		prometheus.RecordAPIError("missing_user_id")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "user_id required."})
	}

	defer prometheus.TrackDBOperation("delete")(time.Now())
	if err := store.UnfollowInfluencer(database.GetDB(), req.UserID, id); err != nil {
		switch {
		case errors.Is(err, store.ErrNotFollowing):
			prometheus.RecordAPIError("not_following")
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "Not following."})
		default:
			log.Error("Failed to unfollow influencer",
				zap.Uint("influencer_id", id),
				zap.Uint("user_id", req.UserID),
				zap.Error(err))
			prometheus.RecordAPIError("db_error")
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "DB error."})
		}
	}

	log.Info("Influencer unfollowed", zap.Uint("influencer_id", id), zap.Uint("user_id", req.UserID))
	return c.JSON(http.StatusOK, echo.Map{"message": "Unfollowed influencer."})
}
