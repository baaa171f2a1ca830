package api

import (
	"cartera/config"
	"cartera/database"
	"cartera/middleware"
	"cartera/models"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthHandler serves registration, login and profile.
type AuthHandler struct {
	cfg *config.Config
}

// NewAuthHandler creates an auth handler.
func NewAuthHandler(cfg *config.Config) *AuthHandler {
	return &AuthHandler{cfg: cfg}
}

// RegisterRequest is the registration payload. BadgeID is the user's default
// reporting currency.
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50" example:"maria"`
	Password string `json:"password" binding:"required,min=6,max=100" example:"secret123"`
	Email    string `json:"email" binding:"omitempty,email" example:"maria@example.com"`
	BadgeID  uint   `json:"badge_id" binding:"required" example:"1"`
}

// LoginRequest is the login payload.
type LoginRequest struct {
	Username string `json:"username" binding:"required" example:"maria"`
	Password string `json:"password" binding:"required" example:"secret123"`
}

// Register creates a user and provisions the reserved transfer category for
// the new owner in the same transaction.
// @Summary Register a user
// @Description Creates a user account and provisions its reserved transfer category.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "registration data"
// @Success 200 {object} Response{data=models.User} "created"
// @Failure 400 {object} Response "invalid request"
// @Router /api/v1/auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "invalid request"))
		return
	}

	var existing models.User
	if err := database.DB.Where("username = ?", req.Username).First(&existing).Error; err == nil {
		BadRequest(c, "username already taken")
		return
	}

	var currency models.Currency
	if err := database.DB.First(&currency, req.BadgeID).Error; err != nil {
		BadRequest(c, "unknown currency")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "registration failed"))
		return
	}

	user := models.User{
		Username: req.Username,
		Password: string(hashed),
		Email:    req.Email,
		BadgeID:  req.BadgeID,
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		transferCat := models.Category{
			Name:    "Transfers",
			UserID:  user.ID,
			GroupID: h.cfg.Report.TransferGroupID,
		}
		return tx.Create(&transferCat).Error
	})
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "registration failed"))
		return
	}

	SuccessWithMessage(c, "registered", user)
}

// Login verifies credentials and issues a JWT.
// @Summary Log in
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "credentials"
// @Success 200 {object} Response "token issued"
// @Failure 401 {object} Response "invalid credentials"
// @Router /api/v1/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "invalid request"))
		return
	}

	var user models.User
	if err := database.DB.Where("username = ?", req.Username).First(&user).Error; err != nil {
		Unauthorized(c, "invalid username or password")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		Unauthorized(c, "invalid username or password")
		return
	}

	token, err := middleware.GenerateToken(user.ID, user.Username, h.cfg.JWT.ExpireTime)
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "token could not be issued"))
		return
	}

	Success(c, gin.H{
		"token":    token,
		"user_id":  user.ID,
		"username": user.Username,
		"badge_id": user.BadgeID,
	})
}

// GetProfile returns the authenticated user.
// @Summary Get profile
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=models.User}
// @Failure 401 {object} Response "unauthorized"
// @Router /api/v1/auth/profile [get]
func (h *AuthHandler) GetProfile(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var user models.User
	if err := database.DB.First(&user, userID).Error; err != nil {
		NotFound(c, "user not found")
		return
	}

	Success(c, user)
}
