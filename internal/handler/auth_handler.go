package handler

import (
	"errors"
	"net/http"
	"time"

	"marketplace-service/internal/model"
	"marketplace-service/internal/store"
	"marketplace-service/pkg/database"
	"marketplace-service/pkg/jwtutil"
	"marketplace-service/pkg/logger"
	"marketplace-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Register creates a new user account
func Register(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RegisterCounter.Inc()

	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse registration request", zap.Error(err))
		prometheus.RecordAPIError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	if req.Name == "" || req.Email == "" || req.Password == "" {
		log.Error("Incomplete registration data", zap.String("email", req.Email))
		prometheus.RecordAPIError("incomplete_registration")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "All fields required."})
	}

	// Hash password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Error("Failed to hash password", zap.Error(err))
		prometheus.RecordAPIError("password_hash_failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "registration failed"})
	}

	user := model.User{
		FullName: req.Name,
		Email:    req.Email,
		Password: string(hashedPassword),
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if err := store.CreateUser(database.GetDB(), &user); err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			log.Warn("Email already registered", zap.String("email", req.Email))
			prometheus.RecordAPIError("email_already_exists")
			return c.JSON(http.StatusConflict, echo.Map{"error": "Email already registered."})
		}
		log.Error("Failed to create user", zap.Error(err))
		prometheus.RecordAPIError("user_creation_failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "registration failed"})
	}

	token, err := jwtutil.GenerateToken(user.Email, user.ID, user.FullName)
	if err != nil {
		log.Error("Failed to generate token", zap.Error(err))
		prometheus.RecordAPIError("token_generation_failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "token error"})
	}
	prometheus.IncreaseActiveTokens()

	log.Info("User registered", zap.String("email", user.Email), zap.Uint("user_id", user.ID))
	return c.JSON(http.StatusCreated, echo.Map{
		"user": map[string]interface{}{
			"id":    user.ID,
			"name":  user.FullName,
			"email": user.Email,
		},
		"token": token,
	})
}

// Login authenticates a user by email and password
func Login(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.LoginCounter.Inc()

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse login request", zap.Error(err))
		prometheus.RecordAPIError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	user, err := store.UserByEmail(database.GetDB(), req.Email)
	if err != nil {
		log.Error("User not found", zap.String("email", req.Email))
		prometheus.RecordAPIError("user_not_found")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Invalid credentials."})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		log.Error("Invalid password", zap.String("email", req.Email))
		prometheus.RecordAPIError("invalid_password")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Invalid credentials."})
	}

	token, err := jwtutil.GenerateToken(user.Email, user.ID, user.FullName)
	if err != nil {
		log.Error("Failed to generate token", zap.Error(err))
		prometheus.RecordAPIError("token_generation_failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "token error"})
	}
	prometheus.IncreaseActiveTokens()

	log.Info("User logged in", zap.String("email", user.Email), zap.Uint("user_id", user.ID))
	return c.JSON(http.StatusOK, echo.Map{
		"user": map[string]interface{}{
			"id":    user.ID,
			"name":  user.FullName,
			"email": user.Email,
		},
		"token": token,
	})
}

// GetProfile returns the authenticated user's profile
func GetProfile(c echo.Context) error {
	log := logger.FromContext(c)

	userID, ok := c.Get("user_id").(uint)
	if !ok {
		prometheus.RecordAPIError("missing_token")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	user, err := store.UserByID(database.GetDB(), userID)
	if err != nil {
		log.Error("Profile user not found", zap.Uint("user_id", userID))
		prometheus.RecordAPIError("user_not_found")
		return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"user": map[string]interface{}{
			"id":    user.ID,
			"name":  user.FullName,
			"email": user.Email,
		},
	})
}
