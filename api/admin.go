package api

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"cartera/adminauth"
	"cartera/config"
	"cartera/database"
	"cartera/models"
	"cartera/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func getCookieOptions() (secure bool, sameSite http.SameSite) {
	cfg := config.GetConfig()
	if cfg != nil && cfg.Server.Mode == "release" {
		secure = true
	}
	// Lax keeps cross-site POSTs cookie-free while allowing same-site navigation.
	sameSite = http.SameSiteLaxMode
	return
}

func setAdminCookie(c *gin.Context, name, value string, maxAge int, httpOnly bool) {
	secure, sameSite := getCookieOptions()
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		Secure:   secure,
		HttpOnly: httpOnly,
		SameSite: sameSite,
	})
}

// setSignedAdminCookie signs sensitive cookies so the client cannot rewrite
// the session user id.
func setSignedAdminCookie(c *gin.Context, name, value string, maxAge int, httpOnly bool) {
	setAdminCookie(c, name, adminauth.SignCookieValue(value), maxAge, httpOnly)
}

// AdminHandler serves the cookie-session console: bulk movement management
// and report access for the logged-in owner.
type AdminHandler struct {
	cfg       *config.Config
	transfers *service.TransferService
	reports   *service.ReportService
}

// NewAdminHandler creates an admin handler.
func NewAdminHandler(cfg *config.Config) *AdminHandler {
	return &AdminHandler{
		cfg:       cfg,
		transfers: service.NewTransferService(),
		reports:   service.NewReportService(),
	}
}

// getCurrentUser resolves the logged-in console user from the verified cookie.
func getCurrentUser(c *gin.Context) (*models.User, error) {
	userID, err := adminauth.GetVerifiedAdminUserID(c)
	if err != nil {
		return nil, err
	}
	var user models.User
	if err := database.DB.First(&user, userID).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// AdminLoginRequest is the console login payload. Username also accepts the
// registered email.
type AdminLoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AdminLogin logs a user into the console and sets the session cookies.
// @Summary Console login
// @Tags admin
// @Accept json
// @Produce json
// @Param request body AdminLoginRequest true "credentials"
// @Success 200 {object} map[string]interface{} "logged in"
// @Failure 401 {object} map[string]interface{} "invalid credentials"
// @Router /admin/login [post]
func (h *AdminHandler) AdminLogin(c *gin.Context) {
	var req AdminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid request"})
		return
	}

	var user models.User
	if err := database.DB.Where("username = ? OR email = ?", req.Username, req.Username).First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "invalid username or password"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "invalid username or password"})
		return
	}

	setSignedAdminCookie(c, adminauth.AdminUserCookie, fmt.Sprintf("%d", user.ID), 86400, true)
	setAdminCookie(c, "admin_username", user.Username, 86400, false)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "logged in",
		"data": gin.H{
			"user_id":  user.ID,
			"username": user.Username,
			"badge_id": user.BadgeID,
		},
	})
}

// AdminLogout clears the console session cookies.
// @Summary Console logout
// @Tags admin
// @Produce json
// @Success 200 {object} map[string]interface{} "logged out"
// @Router /admin/logout [post]
func (h *AdminHandler) AdminLogout(c *gin.Context) {
	setAdminCookie(c, adminauth.AdminUserCookie, "", -1, true)
	setAdminCookie(c, "admin_username", "", -1, false)

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "logged out"})
}

// GetCurrentUserInfo returns the logged-in console user.
// @Summary Current console user
// @Tags admin
// @Produce json
// @Success 200 {object} map[string]interface{} "user info"
// @Failure 401 {object} map[string]interface{} "not logged in"
// @Router /admin/current-user [get]
func (h *AdminHandler) GetCurrentUserInfo(c *gin.Context) {
	user, err := getCurrentUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "please log in"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"id":       user.ID,
			"username": user.Username,
			"email":    user.Email,
			"badge_id": user.BadgeID,
		},
	})
}

// AdminMovementForm is the console movement payload, shared by create and
// update. Transfer is set to create a linked pair instead of a single entry.
type AdminMovementForm struct {
	AccountID    uint             `json:"account_id" binding:"required"`
	CategoryID   uint             `json:"category_id"`
	EventID      *uint            `json:"event_id"`
	Description  string           `json:"description" binding:"max=255"`
	Amount       *decimal.Decimal `json:"amount" binding:"required"`
	DatePurchase string           `json:"date_purchase" binding:"required"`

	Transfer     bool            `json:"transfer"`
	AccountEndID uint            `json:"account_end_id"`
	AmountEnd    decimal.Decimal `json:"amount_end"`
}

// ListMovements returns the owner's movements for the console table, with an
// optional date window and soft-deleted rows when requested.
// @Summary Console movement list
// @Tags admin
// @Produce json
// @Param init_date query string false "window start (2006-01-02)"
// @Param end_date query string false "window end (2006-01-02)"
// @Param with_trashed query bool false "include soft-deleted movements"
// @Success 200 {object} map[string]interface{} "movements"
// @Failure 401 {object} map[string]interface{} "not logged in"
// @Router /admin/movements [get]
func (h *AdminHandler) ListMovements(c *gin.Context) {
	user, err := getCurrentUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "please log in"})
		return
	}

	q := database.DB
	if c.Query("with_trashed") == "true" {
		q = q.Unscoped()
	}
	q = q.Preload("Account").Preload("Category").Preload("Event").Preload("Transfer").
		Where("user_id = ?", user.ID)
	if init := c.Query("init_date"); init != "" {
		q = q.Where("DATE(date_purchase) >= ?", init)
	}
	if end := c.Query("end_date"); end != "" {
		q = q.Where("DATE(date_purchase) <= ?", end)
	}

	var movements []models.Movement
	if err := q.Order("date_purchase DESC").Find(&movements).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": SafeErrorMessage(err, "movements could not be retrieved")})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": movements})
}

// CreateMovement records a movement (or a transfer pair) for the console user.
// @Summary Console movement create
// @Tags admin
// @Accept json
// @Produce json
// @Param request body AdminMovementForm true "movement data"
// @Success 200 {object} map[string]interface{} "created"
// @Failure 400 {object} map[string]interface{} "invalid request"
// @Router /admin/movements [post]
func (h *AdminHandler) CreateMovement(c *gin.Context) {
	user, err := getCurrentUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "please log in"})
		return
	}

	var form AdminMovementForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": SafeErrorMessage(err, "invalid request")})
		return
	}

	datePurchase, err := time.Parse(movementDateLayout, form.DatePurchase)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "date_purchase must be a timestamp like 2026-08-15 12:30:00"})
		return
	}

	if form.Transfer {
		out, in, err := h.transfers.Create(user.ID, service.TransferInput{
			AccountID:    form.AccountID,
			AccountEndID: form.AccountEndID,
			Description:  form.Description,
			Amount:       *form.Amount,
			AmountEnd:    form.AmountEnd,
			DatePurchase: datePurchase,
		})
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": SafeErrorMessage(err, "transfer was not saved")})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "transfer created", "data": gin.H{"out": out, "in": in}})
		return
	}

	if form.Amount.IsZero() {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "amount must not be zero"})
		return
	}
	if form.CategoryID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "category_id is required"})
		return
	}
	var category models.Category
	if err := database.DB.Where("id = ? AND user_id = ?", form.CategoryID, user.ID).First(&category).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "unknown category"})
		return
	}
	if category.GroupID == h.cfg.Report.TransferGroupID {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "the transfer category only accepts transfers"})
		return
	}
	var account models.Account
	if err := database.DB.Where("id = ? AND user_id = ?", form.AccountID, user.ID).First(&account).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "unknown account"})
		return
	}

	movement := models.Movement{
		AccountID:    form.AccountID,
		CategoryID:   form.CategoryID,
		EventID:      form.EventID,
		Description:  form.Description,
		Amount:       *form.Amount,
		Trm:          decimal.NewFromInt(1),
		DatePurchase: datePurchase,
		UserID:       user.ID,
	}
	if err := database.DB.Create(&movement).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": SafeErrorMessage(err, "movement was not saved")})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "movement created", "data": movement})
}

// UpdateMovement edits one of the console user's movements. Transfer legs are
// locked down the same way as the API surface.
// @Summary Console movement update
// @Tags admin
// @Accept json
// @Produce json
// @Param id path int true "movement id"
// @Param request body AdminMovementForm true "movement data"
// @Success 200 {object} map[string]interface{} "updated"
// @Failure 404 {object} map[string]interface{} "not found"
// @Router /admin/movements/{id} [put]
func (h *AdminHandler) UpdateMovement(c *gin.Context) {
	user, err := getCurrentUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "please log in"})
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid id"})
		return
	}

	var movement models.Movement
	if err := database.DB.Preload("Category").
		Where("id = ? AND user_id = ?", id, user.ID).
		First(&movement).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "movement not found"})
		return
	}

	var form AdminMovementForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": SafeErrorMessage(err, "invalid request")})
		return
	}

	isTransfer := movement.IsTransferLeg() ||
		(movement.Category != nil && movement.Category.GroupID == h.cfg.Report.TransferGroupID)
	if isTransfer {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "transfer legs cannot be edited; delete and recreate the transfer"})
		return
	}

	if form.Amount.IsZero() {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "amount must not be zero"})
		return
	}
	datePurchase, err := time.Parse(movementDateLayout, form.DatePurchase)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "date_purchase must be a timestamp like 2026-08-15 12:30:00"})
		return
	}
	var category models.Category
	if err := database.DB.Where("id = ? AND user_id = ?", form.CategoryID, user.ID).First(&category).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "unknown category"})
		return
	}
	if category.GroupID == h.cfg.Report.TransferGroupID {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "the transfer category only accepts transfers"})
		return
	}
	var account models.Account
	if err := database.DB.Where("id = ? AND user_id = ?", form.AccountID, user.ID).First(&account).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "unknown account"})
		return
	}

	updates := map[string]interface{}{
		"account_id":    form.AccountID,
		"category_id":   form.CategoryID,
		"event_id":      form.EventID,
		"description":   form.Description,
		"amount":        *form.Amount,
		"date_purchase": datePurchase,
	}
	if err := database.DB.Model(&movement).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": SafeErrorMessage(err, "movement was not saved")})
		return
	}

	database.DB.First(&movement, movement.ID)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "movement updated", "data": movement})
}

// DeleteMovement soft-deletes a movement and, for transfers, its sibling leg.
// @Summary Console movement delete
// @Tags admin
// @Produce json
// @Param id path int true "movement id"
// @Success 200 {object} map[string]interface{} "deleted"
// @Failure 404 {object} map[string]interface{} "not found"
// @Router /admin/movements/{id} [delete]
func (h *AdminHandler) DeleteMovement(c *gin.Context) {
	user, err := getCurrentUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "please log in"})
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid id"})
		return
	}

	var movement models.Movement
	if err := database.DB.Where("id = ? AND user_id = ?", id, user.ID).First(&movement).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "movement not found"})
		return
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&movement).Error; err != nil {
			return err
		}
		if movement.TransferID != nil {
			return tx.Where("id = ? AND user_id = ?", *movement.TransferID, user.ID).
				Delete(&models.Movement{}).Error
		}
		return tx.Where("transfer_id = ? AND user_id = ?", movement.ID, user.ID).
			Delete(&models.Movement{}).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": SafeErrorMessage(err, "movement was not deleted")})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "movement deleted"})
}

// GetReport returns the period report for the console user.
// @Summary Console period report
// @Tags admin
// @Produce json
// @Param init_date query string false "window start (2006-01-02), defaults to today"
// @Param end_date query string false "window end (2006-01-02), defaults to today"
// @Param badge_id query int false "currency id, defaults to the user's"
// @Success 200 {object} map[string]interface{} "report"
// @Failure 401 {object} map[string]interface{} "not logged in"
// @Router /admin/report [get]
func (h *AdminHandler) GetReport(c *gin.Context) {
	user, err := getCurrentUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "please log in"})
		return
	}

	now := time.Now()
	initDate, endDate := now, now
	if raw := c.Query("init_date"); raw != "" {
		initDate, err = time.Parse(reportDateLayout, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "init_date must be a date like 2026-08-01"})
			return
		}
	}
	if raw := c.Query("end_date"); raw != "" {
		endDate, err = time.Parse(reportDateLayout, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "end_date must be a date like 2026-08-31"})
			return
		}
	}
	if endDate.Before(initDate) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "end_date must not precede init_date"})
		return
	}

	badgeID := user.BadgeID
	if raw := c.Query("badge_id"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid badge_id"})
			return
		}
		badgeID = uint(parsed)
	}

	rep, err := h.reports.Generate(user.ID, badgeID, initDate, endDate)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": SafeErrorMessage(err, "report could not be generated")})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": rep})
}
