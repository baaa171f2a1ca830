package api

import (
	"strconv"
	"time"

	"cartera/config"
	"cartera/database"
	"cartera/middleware"
	"cartera/models"
	"cartera/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// MovementHandler serves movement CRUD, restore and the transfer endpoint.
type MovementHandler struct {
	cfg       *config.Config
	transfers *service.TransferService
}

// NewMovementHandler creates a movement handler.
func NewMovementHandler(cfg *config.Config) *MovementHandler {
	return &MovementHandler{cfg: cfg, transfers: service.NewTransferService()}
}

// CreateMovementRequest is the income/expense creation payload. Amount is
// signed: positive for income, negative for expense. DatePurchase is a
// timestamp in 2006-01-02 15:04:05 form.
type CreateMovementRequest struct {
	AccountID    uint             `json:"account_id" binding:"required" example:"1"`
	CategoryID   uint             `json:"category_id" binding:"required" example:"3"`
	EventID      *uint            `json:"event_id" example:"2"`
	Description  string           `json:"description" binding:"max=255" example:"Groceries at the market"`
	Amount       *decimal.Decimal `json:"amount" binding:"required" example:"-54.30"`
	DatePurchase string           `json:"date_purchase" binding:"required" example:"2026-08-15 12:30:00"`
}

// UpdateMovementRequest is the movement update payload.
type UpdateMovementRequest struct {
	AccountID    uint             `json:"account_id"`
	CategoryID   uint             `json:"category_id"`
	EventID      *uint            `json:"event_id"`
	Description  *string          `json:"description"`
	Amount       *decimal.Decimal `json:"amount"`
	DatePurchase string           `json:"date_purchase"`
}

// TransferRequest is the transfer creation payload. AmountEnd is the amount
// arriving at the destination when currencies differ; omitted means 1:1.
type TransferRequest struct {
	AccountID    uint             `json:"account_id" binding:"required" example:"1"`
	AccountEndID uint             `json:"account_end_id" binding:"required" example:"2"`
	Description  string           `json:"description" binding:"max=255" example:"Savings top-up"`
	Amount       *decimal.Decimal `json:"amount" binding:"required" example:"250.00"`
	AmountEnd    decimal.Decimal  `json:"amount_end" example:"1050000.00"`
	DatePurchase string           `json:"date_purchase" binding:"required" example:"2026-08-15 12:30:00"`
}

const movementDateLayout = "2006-01-02 15:04:05"

// List returns the caller's movements over an optional date window, newest
// purchase first.
// @Summary List movements
// @Tags movements
// @Produce json
// @Security BearerAuth
// @Param init_date query string false "window start (2006-01-02)"
// @Param end_date query string false "window end (2006-01-02)"
// @Success 200 {object} Response{data=[]models.Movement}
// @Failure 401 {object} Response "unauthorized"
// @Router /api/v1/movements [get]
func (h *MovementHandler) List(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	q := database.DB.
		Preload("Account").Preload("Category").Preload("Event").Preload("Transfer").
		Where("user_id = ?", userID)
	if init := c.Query("init_date"); init != "" {
		q = q.Where("DATE(date_purchase) >= ?", init)
	}
	if end := c.Query("end_date"); end != "" {
		q = q.Where("DATE(date_purchase) <= ?", end)
	}

	var movements []models.Movement
	if err := q.Order("date_purchase DESC").Find(&movements).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "movements could not be retrieved"))
		return
	}

	Success(c, movements)
}

// Create records an income or expense movement. The transfer category is
// rejected here: transfer pairs only come from the transfer endpoint.
// @Summary Create a movement
// @Tags movements
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateMovementRequest true "movement data"
// @Success 200 {object} Response{data=models.Movement} "created"
// @Failure 400 {object} Response "invalid request"
// @Router /api/v1/movements [post]
func (h *MovementHandler) Create(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var req CreateMovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "invalid request"))
		return
	}
	if req.Amount.IsZero() {
		BadRequest(c, "amount must not be zero")
		return
	}

	datePurchase, err := time.Parse(movementDateLayout, req.DatePurchase)
	if err != nil {
		BadRequest(c, "date_purchase must be a timestamp like 2026-08-15 12:30:00")
		return
	}

	category, ok := h.checkCategory(c, userID, req.CategoryID)
	if !ok {
		return
	}
	if !h.checkAccount(c, userID, req.AccountID) {
		return
	}
	if req.EventID != nil && !h.checkEvent(c, userID, *req.EventID) {
		return
	}

	movement := models.Movement{
		AccountID:    req.AccountID,
		CategoryID:   category.ID,
		EventID:      req.EventID,
		Description:  req.Description,
		Amount:       *req.Amount,
		Trm:          decimal.NewFromInt(1),
		DatePurchase: datePurchase,
		UserID:       userID,
	}

	if err := database.DB.Create(&movement).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "movement was not saved"))
		return
	}

	SuccessWithMessage(c, "movement created", movement)
}

// Transfer moves money between two of the caller's accounts by writing the
// linked out/in movement pair atomically.
// @Summary Create a transfer
// @Tags movements
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body TransferRequest true "transfer data"
// @Success 200 {object} Response "created"
// @Failure 400 {object} Response "invalid request"
// @Router /api/v1/movements/transfer [post]
func (h *MovementHandler) Transfer(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var req TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "invalid request"))
		return
	}

	datePurchase, err := time.Parse(movementDateLayout, req.DatePurchase)
	if err != nil {
		BadRequest(c, "date_purchase must be a timestamp like 2026-08-15 12:30:00")
		return
	}

	out, in, err := h.transfers.Create(userID, service.TransferInput{
		AccountID:    req.AccountID,
		AccountEndID: req.AccountEndID,
		Description:  req.Description,
		Amount:       *req.Amount,
		AmountEnd:    req.AmountEnd,
		DatePurchase: datePurchase,
	})
	if err != nil {
		RespondError(c, err, "transfer was not saved")
		return
	}

	SuccessWithMessage(c, "transfer created", gin.H{
		"out": out,
		"in":  in,
	})
}

// Get returns one of the caller's movements, soft-deleted included so restore
// screens can display it.
// @Summary Get a movement
// @Tags movements
// @Produce json
// @Security BearerAuth
// @Param id path int true "movement id"
// @Success 200 {object} Response{data=models.Movement}
// @Failure 404 {object} Response "not found"
// @Router /api/v1/movements/{id} [get]
func (h *MovementHandler) Get(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "invalid id")
		return
	}

	var movement models.Movement
	if err := database.DB.Unscoped().
		Preload("Account").Preload("Category").Preload("Event").Preload("Transfer").
		Where("id = ? AND user_id = ?", id, userID).
		First(&movement).Error; err != nil {
		NotFound(c, "movement not found")
		return
	}

	Success(c, movement)
}

// Update edits one of the caller's movements. Transfer legs only accept
// description changes; amounts and accounts of a pair stay consistent by
// deleting and re-creating the transfer instead.
// @Summary Update a movement
// @Tags movements
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "movement id"
// @Param request body UpdateMovementRequest true "movement data"
// @Success 200 {object} Response{data=models.Movement} "updated"
// @Failure 404 {object} Response "not found"
// @Router /api/v1/movements/{id} [put]
func (h *MovementHandler) Update(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "invalid id")
		return
	}

	var movement models.Movement
	if err := database.DB.Preload("Category").
		Where("id = ? AND user_id = ?", id, userID).
		First(&movement).Error; err != nil {
		NotFound(c, "movement not found")
		return
	}

	var req UpdateMovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "invalid request"))
		return
	}

	isTransfer := movement.IsTransferLeg() ||
		(movement.Category != nil && movement.Category.GroupID == h.cfg.Report.TransferGroupID)
	if isTransfer && (req.AccountID != 0 || req.CategoryID != 0 || req.Amount != nil || req.DatePurchase != "") {
		BadRequest(c, "transfer legs only accept description changes; delete and recreate the transfer instead")
		return
	}

	updates := make(map[string]interface{})
	if req.AccountID != 0 {
		if !h.checkAccount(c, userID, req.AccountID) {
			return
		}
		updates["account_id"] = req.AccountID
	}
	if req.CategoryID != 0 {
		if _, ok := h.checkCategory(c, userID, req.CategoryID); !ok {
			return
		}
		updates["category_id"] = req.CategoryID
	}
	if req.EventID != nil {
		if *req.EventID == 0 {
			updates["event_id"] = nil
		} else {
			if !h.checkEvent(c, userID, *req.EventID) {
				return
			}
			updates["event_id"] = *req.EventID
		}
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Amount != nil {
		if req.Amount.IsZero() {
			BadRequest(c, "amount must not be zero")
			return
		}
		updates["amount"] = *req.Amount
	}
	if req.DatePurchase != "" {
		datePurchase, err := time.Parse(movementDateLayout, req.DatePurchase)
		if err != nil {
			BadRequest(c, "date_purchase must be a timestamp like 2026-08-15 12:30:00")
			return
		}
		updates["date_purchase"] = datePurchase
	}

	if len(updates) == 0 {
		SuccessWithMessage(c, "nothing to update", movement)
		return
	}

	if err := database.DB.Model(&movement).Updates(updates).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "movement was not saved"))
		return
	}

	database.DB.First(&movement, movement.ID)
	SuccessWithMessage(c, "movement updated", movement)
}

// Delete soft-deletes a movement. Deleting either leg of a transfer deletes
// the whole pair so no account keeps a one-sided entry.
// @Summary Delete a movement
// @Tags movements
// @Produce json
// @Security BearerAuth
// @Param id path int true "movement id"
// @Success 200 {object} Response "deleted"
// @Failure 404 {object} Response "not found"
// @Router /api/v1/movements/{id} [delete]
func (h *MovementHandler) Delete(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "invalid id")
		return
	}

	var movement models.Movement
	if err := database.DB.Where("id = ? AND user_id = ?", id, userID).First(&movement).Error; err != nil {
		NotFound(c, "movement not found")
		return
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&movement).Error; err != nil {
			return err
		}
		// Take the sibling leg down with it.
		if movement.TransferID != nil {
			return tx.Where("id = ? AND user_id = ?", *movement.TransferID, userID).
				Delete(&models.Movement{}).Error
		}
		return tx.Where("transfer_id = ? AND user_id = ?", movement.ID, userID).
			Delete(&models.Movement{}).Error
	})
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "movement was not deleted"))
		return
	}

	SuccessWithMessage(c, "movement deleted", nil)
}

// Restore clears the soft-delete mark on a movement and, for transfers, on
// its sibling leg. Restoring an active movement is a no-op.
// @Summary Restore a movement
// @Tags movements
// @Produce json
// @Security BearerAuth
// @Param id path int true "movement id"
// @Success 200 {object} Response "restored"
// @Failure 404 {object} Response "not found"
// @Router /api/v1/movements/{id}/restore [put]
func (h *MovementHandler) Restore(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "invalid id")
		return
	}

	var movement models.Movement
	if err := database.DB.Unscoped().Where("id = ? AND user_id = ?", id, userID).First(&movement).Error; err != nil {
		NotFound(c, "movement not found")
		return
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Model(&movement).Update("deleted_at", nil).Error; err != nil {
			return err
		}
		if movement.TransferID != nil {
			return tx.Unscoped().Model(&models.Movement{}).
				Where("id = ? AND user_id = ?", *movement.TransferID, userID).
				Update("deleted_at", nil).Error
		}
		return tx.Unscoped().Model(&models.Movement{}).
			Where("transfer_id = ? AND user_id = ?", movement.ID, userID).
			Update("deleted_at", nil).Error
	})
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "movement was not restored"))
		return
	}

	SuccessWithMessage(c, "movement restored", nil)
}

// checkCategory loads a selectable category: owned by the caller and outside
// the transfer group. Writes the error response itself.
func (h *MovementHandler) checkCategory(c *gin.Context, userID, categoryID uint) (*models.Category, bool) {
	var category models.Category
	if err := database.DB.
		Where("id = ? AND user_id = ?", categoryID, userID).
		First(&category).Error; err != nil {
		BadRequest(c, "unknown category")
		return nil, false
	}
	if category.GroupID == h.cfg.Report.TransferGroupID {
		BadRequest(c, "the transfer category only accepts transfers")
		return nil, false
	}
	return &category, true
}

func (h *MovementHandler) checkAccount(c *gin.Context, userID, accountID uint) bool {
	var account models.Account
	if err := database.DB.Where("id = ? AND user_id = ?", accountID, userID).First(&account).Error; err != nil {
		BadRequest(c, "unknown account")
		return false
	}
	return true
}

func (h *MovementHandler) checkEvent(c *gin.Context, userID, eventID uint) bool {
	var event models.Event
	if err := database.DB.Where("id = ? AND user_id = ?", eventID, userID).First(&event).Error; err != nil {
		BadRequest(c, "unknown event")
		return false
	}
	return true
}
