package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/openride/rideshare-backend/internal/database"
	"github.com/openride/rideshare-backend/internal/middleware"
	"github.com/openride/rideshare-backend/internal/models"
	"github.com/openride/rideshare-backend/pkg/jwt"
)

// AuthHandler handles registration, login, token refresh and profile
// operations
type AuthHandler struct {
	userRepo     *database.UserRepository
	feedbackRepo *database.FeedbackRepository
	jwtService   *jwt.Service
	logger       *logrus.Logger
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(
	userRepo *database.UserRepository,
	feedbackRepo *database.FeedbackRepository,
	jwtService *jwt.Service,
	logger *logrus.Logger,
) *AuthHandler {
	return &AuthHandler{
		userRepo:     userRepo,
		feedbackRepo: feedbackRepo,
		jwtService:   jwtService,
		logger:       logger,
	}
}

// Register creates a new user account and returns a token pair
func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		h.logger.WithError(err).Error("Failed to hash password")
		respondError(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	user := &models.User{
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		PasswordHash: string(hash),
		Role:         req.Role,
	}
	if err := h.userRepo.Create(user); err != nil {
		respondDomainError(c, err)
		return
	}

	h.respondWithTokens(c, http.StatusCreated, "Registration successful", user)
}

// Login verifies credentials and returns a token pair
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.userRepo.GetByEmail(req.Email)
	if err != nil {
		// Same message for unknown email and wrong password
		respondError(c, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		respondError(c, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	h.respondWithTokens(c, http.StatusOK, "Login successful", user)
}

// Refresh exchanges a valid refresh token for a new token pair
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	claims, err := h.jwtService.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Invalid refresh token")
		return
	}

	user, err := h.userRepo.GetByID(claims.UserID)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Invalid refresh token")
		return
	}

	h.respondWithTokens(c, http.StatusOK, "", user)
}

// Me returns the authenticated user's profile with their current driver
// rating
func (h *AuthHandler) Me(c *gin.Context) {
	userCtx, ok := middleware.GetUserContext(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	user, err := h.userRepo.GetByID(userCtx.UserID)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	if user.Role.CanDrive() {
		avg, _, err := h.feedbackRepo.DriverAverage(user.ID)
		if err != nil {
			h.logger.WithError(err).Warn("Failed to compute driver rating")
		} else {
			user.AverageRating = &avg
		}
	}

	respondSuccess(c, http.StatusOK, "", user)
}

// UpdateProfile updates the authenticated user's name and phone
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	userCtx, ok := middleware.GetUserContext(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req models.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.userRepo.UpdateProfile(userCtx.UserID, &req); err != nil {
		respondDomainError(c, err)
		return
	}

	user, err := h.userRepo.GetByID(userCtx.UserID)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, "Profile updated", user)
}

// UpdateLocation records a driver's position and availability
func (h *AuthHandler) UpdateLocation(c *gin.Context) {
	userCtx, ok := middleware.GetUserContext(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req models.UpdateLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.userRepo.UpdateLocation(userCtx.UserID, req.Lat, req.Lng, req.IsAvailable); err != nil {
		respondDomainError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, "Location updated", nil)
}

func (h *AuthHandler) respondWithTokens(c *gin.Context, status int, message string, user *models.User) {
	accessToken, err := h.jwtService.GenerateAccessToken(user.ID, user.Email, string(user.Role))
	if err != nil {
		h.logger.WithError(err).Error("Failed to generate access token")
		respondError(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	refreshToken, err := h.jwtService.GenerateRefreshToken(user.ID, user.Email)
	if err != nil {
		h.logger.WithError(err).Error("Failed to generate refresh token")
		respondError(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondSuccess(c, status, message, models.AuthResponse{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	})
}
