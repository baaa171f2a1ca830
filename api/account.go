package api

import (
	"strconv"

	"cartera/config"
	"cartera/database"
	"cartera/middleware"
	"cartera/models"
	"cartera/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// AccountHandler serves account CRUD plus the balance projections.
type AccountHandler struct {
	balances *service.BalanceService
}

// NewAccountHandler creates an account handler.
func NewAccountHandler() *AccountHandler {
	return &AccountHandler{balances: service.NewBalanceService()}
}

// CreateAccountRequest is the account creation payload. There is deliberately
// no owner field: the owner always comes from the caller identity.
type CreateAccountRequest struct {
	Name        string           `json:"name" binding:"required,max=100" example:"Checking"`
	Description string           `json:"description" example:"Main checking account"`
	BadgeID     uint             `json:"badge_id" binding:"required" example:"1"`
	InitAmount  *decimal.Decimal `json:"init_amount" binding:"required" example:"100.00"`
	Limit       decimal.Decimal  `json:"limit" example:"0"`
	TypeID      uint             `json:"type_id" binding:"required" example:"1"`
}

// UpdateAccountRequest is the account update payload.
type UpdateAccountRequest struct {
	Name        string           `json:"name" binding:"omitempty,max=100"`
	Description *string          `json:"description"`
	BadgeID     uint             `json:"badge_id"`
	InitAmount  *decimal.Decimal `json:"init_amount"`
	Limit       *decimal.Decimal `json:"limit"`
	TypeID      uint             `json:"type_id"`
}

// List returns the caller's accounts with their currency and computed balance.
// Soft-deleted accounts appear only with with_trashed=true.
// @Summary List accounts
// @Tags accounts
// @Produce json
// @Security BearerAuth
// @Param with_trashed query bool false "include soft-deleted accounts"
// @Success 200 {object} Response{data=[]models.Account}
// @Failure 401 {object} Response "unauthorized"
// @Router /api/v1/accounts [get]
func (h *AccountHandler) List(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	q := database.DB
	if c.Query("with_trashed") == "true" {
		q = q.Unscoped()
	}

	var accounts []models.Account
	if err := q.Preload("Currency").Preload("Type").
		Where("user_id = ?", userID).
		Order("id ASC").
		Find(&accounts).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "accounts could not be retrieved"))
		return
	}

	// One grouped query instead of a sum per account.
	type accountSum struct {
		AccountID uint
		Amount    decimal.Decimal
	}
	var sums []accountSum
	if err := database.DB.Model(&models.Movement{}).
		Select("account_id, COALESCE(SUM(amount), 0) AS amount").
		Where("user_id = ?", userID).
		Group("account_id").
		Scan(&sums).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "balances could not be retrieved"))
		return
	}
	byAccount := make(map[uint]decimal.Decimal, len(sums))
	for _, s := range sums {
		byAccount[s.AccountID] = s.Amount
	}
	for i := range accounts {
		balance := accounts[i].InitAmount.Add(byAccount[accounts[i].ID])
		accounts[i].Balance = &balance
	}

	Success(c, accounts)
}

// Create stores a new account owned by the caller.
// @Summary Create an account
// @Tags accounts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateAccountRequest true "account data"
// @Success 200 {object} Response{data=models.Account} "created"
// @Failure 400 {object} Response "invalid request"
// @Router /api/v1/accounts [post]
func (h *AccountHandler) Create(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var req CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "invalid request"))
		return
	}

	var currency models.Currency
	if err := database.DB.First(&currency, req.BadgeID).Error; err != nil {
		BadRequest(c, "unknown currency")
		return
	}
	var accountType models.AccountType
	if err := database.DB.First(&accountType, req.TypeID).Error; err != nil {
		BadRequest(c, "unknown account type")
		return
	}

	account := models.Account{
		Name:        req.Name,
		Description: req.Description,
		BadgeID:     req.BadgeID,
		InitAmount:  *req.InitAmount,
		Limit:       req.Limit,
		TypeID:      req.TypeID,
		UserID:      userID,
	}

	if err := database.DB.Create(&account).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "account was not saved"))
		return
	}

	SuccessWithMessage(c, "account created", account)
}

// Get returns one account with its currency, balance and non-transfer
// income/expense totals. Soft-deleted accounts are retrievable here for
// restore screens.
// @Summary Get an account
// @Tags accounts
// @Produce json
// @Security BearerAuth
// @Param id path int true "account id"
// @Success 200 {object} Response{data=models.Account}
// @Failure 404 {object} Response "not found"
// @Router /api/v1/accounts/{id} [get]
func (h *AccountHandler) Get(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "invalid id")
		return
	}

	var account models.Account
	if err := database.DB.Unscoped().Preload("Currency").Preload("Type").
		Where("id = ? AND user_id = ?", id, userID).
		First(&account).Error; err != nil {
		NotFound(c, "account not found")
		return
	}

	sum, err := h.balances.Sum(userID, service.BalanceFilter{AccountID: account.ID})
	if err != nil {
		RespondError(c, err, "balance could not be retrieved")
		return
	}
	balance := account.InitAmount.Add(sum)
	account.Balance = &balance

	// Income/expense totals excluding transfer movements, for the account
	// detail screen.
	transferGroup := config.GetConfig().Report.TransferGroupID
	var totals struct {
		Income    decimal.Decimal
		Expensive decimal.Decimal
	}
	if err := database.DB.Model(&models.Movement{}).
		Select("COALESCE(SUM(IF(movements.amount > 0, movements.amount, 0)), 0) AS income, "+
			"COALESCE(SUM(IF(movements.amount < 0, movements.amount, 0)), 0) AS expensive").
		Joins("JOIN categories ON categories.id = movements.category_id").
		Where("movements.account_id = ? AND movements.user_id = ?", account.ID, userID).
		Where("categories.group_id <> ?", transferGroup).
		Scan(&totals).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "totals could not be retrieved"))
		return
	}
	account.Income = &totals.Income
	account.Expensive = &totals.Expensive

	Success(c, account)
}

// Update edits an account owned by the caller.
// @Summary Update an account
// @Tags accounts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "account id"
// @Param request body UpdateAccountRequest true "account data"
// @Success 200 {object} Response{data=models.Account} "updated"
// @Failure 404 {object} Response "not found"
// @Router /api/v1/accounts/{id} [put]
func (h *AccountHandler) Update(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "invalid id")
		return
	}

	var account models.Account
	if err := database.DB.Where("id = ? AND user_id = ?", id, userID).First(&account).Error; err != nil {
		NotFound(c, "account not found")
		return
	}

	var req UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "invalid request"))
		return
	}

	updates := make(map[string]interface{})
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.BadgeID != 0 {
		var currency models.Currency
		if err := database.DB.First(&currency, req.BadgeID).Error; err != nil {
			BadRequest(c, "unknown currency")
			return
		}
		updates["badge_id"] = req.BadgeID
	}
	if req.InitAmount != nil {
		updates["init_amount"] = *req.InitAmount
	}
	if req.Limit != nil {
		updates["limit"] = *req.Limit
	}
	if req.TypeID != 0 {
		var accountType models.AccountType
		if err := database.DB.First(&accountType, req.TypeID).Error; err != nil {
			BadRequest(c, "unknown account type")
			return
		}
		updates["type_id"] = req.TypeID
	}

	if len(updates) == 0 {
		SuccessWithMessage(c, "nothing to update", account)
		return
	}

	if err := database.DB.Model(&account).Updates(updates).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "account was not saved"))
		return
	}

	database.DB.First(&account, account.ID)
	SuccessWithMessage(c, "account updated", account)
}

// Delete soft-deletes an account. Its movements stay queryable; the account
// drops out of listings and aggregates.
// @Summary Delete an account
// @Tags accounts
// @Produce json
// @Security BearerAuth
// @Param id path int true "account id"
// @Success 200 {object} Response "deleted"
// @Failure 404 {object} Response "not found"
// @Router /api/v1/accounts/{id} [delete]
func (h *AccountHandler) Delete(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "invalid id")
		return
	}

	var account models.Account
	if err := database.DB.Where("id = ? AND user_id = ?", id, userID).First(&account).Error; err != nil {
		NotFound(c, "account not found")
		return
	}

	if err := database.DB.Delete(&account).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "account was not deleted"))
		return
	}

	SuccessWithMessage(c, "account deactivated", nil)
}

// Restore clears the soft-delete mark. Restoring an already-active account is
// a no-op, never an error.
// @Summary Restore an account
// @Tags accounts
// @Produce json
// @Security BearerAuth
// @Param id path int true "account id"
// @Success 200 {object} Response "restored"
// @Failure 404 {object} Response "not found"
// @Router /api/v1/accounts/{id}/restore [put]
func (h *AccountHandler) Restore(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "invalid id")
		return
	}

	var account models.Account
	if err := database.DB.Unscoped().Where("id = ? AND user_id = ?", id, userID).First(&account).Error; err != nil {
		NotFound(c, "account not found")
		return
	}

	if err := database.DB.Unscoped().Model(&account).Update("deleted_at", nil).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "account was not restored"))
		return
	}

	SuccessWithMessage(c, "account restored", nil)
}

// Movements lists the account's non-deleted movements, newest purchase first,
// with related data embedded for display.
// @Summary List account movements
// @Tags accounts
// @Produce json
// @Security BearerAuth
// @Param id path int true "account id"
// @Success 200 {object} Response{data=[]models.Movement}
// @Failure 404 {object} Response "not found"
// @Router /api/v1/accounts/{id}/movements [get]
func (h *AccountHandler) Movements(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "invalid id")
		return
	}

	var account models.Account
	if err := database.DB.Unscoped().Where("id = ? AND user_id = ?", id, userID).First(&account).Error; err != nil {
		NotFound(c, "account not found")
		return
	}

	var movements []models.Movement
	if err := database.DB.
		Preload("Account").Preload("Category").Preload("Event").Preload("Transfer").
		Where("account_id = ? AND user_id = ?", id, userID).
		Order("date_purchase DESC").
		Find(&movements).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "movements could not be retrieved"))
		return
	}

	Success(c, movements)
}

// Balances returns the current balance of every active account.
// @Summary Current balances by account
// @Tags accounts
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=[]models.AccountBalance}
// @Failure 401 {object} Response "unauthorized"
// @Router /api/v1/accounts/balances [get]
func (h *AccountHandler) Balances(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	rows, err := h.balances.AccountBalances(userID)
	if err != nil {
		RespondError(c, err, "balances could not be retrieved")
		return
	}

	Success(c, rows)
}

// BalancesMonthYear returns balances rolled up by account type and currency,
// with a total row appended per currency.
// @Summary Balances by account type
// @Tags accounts
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=[]models.TypeBalance}
// @Failure 401 {object} Response "unauthorized"
// @Router /api/v1/accounts/balances/month-year [get]
func (h *AccountHandler) BalancesMonthYear(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	rows, err := h.balances.TypeBalances(userID)
	if err != nil {
		RespondError(c, err, "balances could not be retrieved")
		return
	}

	Success(c, rows)
}
