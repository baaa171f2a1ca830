package service

import (
	"errors"
	"time"

	"cartera/apperr"
	"cartera/config"
	"cartera/database"
	"cartera/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// TransferService creates the linked movement pair that represents money
// leaving one account and arriving at another. Both legs are written inside a
// single transaction: either the pair exists or nothing does.
type TransferService struct{}

// NewTransferService creates a transfer service.
func NewTransferService() *TransferService {
	return &TransferService{}
}

// TransferInput describes a transfer request. AmountEnd is the amount arriving
// at the destination account; zero means the transfer is 1:1 (same currency or
// unspecified rate). The owner id always comes from the caller identity, never
// from input.
type TransferInput struct {
	AccountID    uint
	AccountEndID uint
	Description  string
	Amount       decimal.Decimal
	AmountEnd    decimal.Decimal
	DatePurchase time.Time
}

// Create validates the input, resolves the owner's reserved transfer category
// and writes the out leg and the in leg atomically.
//
// The out leg carries -|amount| and trm = amount / (amount_end or amount);
// the in leg carries |amount_end| (or |amount| when unset) and the reciprocal
// trm, with transfer_id pointing at the out leg.
func (s *TransferService) Create(userID uint, in TransferInput) (*models.Movement, *models.Movement, error) {
	if in.AccountID == in.AccountEndID {
		return nil, nil, apperr.Validation("destination account must differ from source account", map[string]string{
			"account_end_id": "must differ from account_id",
		})
	}
	if in.Amount.IsZero() {
		return nil, nil, apperr.Validation("amount must not be zero", map[string]string{
			"amount": "must not be zero",
		})
	}

	// Both accounts must exist and belong to the caller.
	var owned int64
	if err := database.DB.Model(&models.Account{}).
		Where("id IN ? AND user_id = ?", []uint{in.AccountID, in.AccountEndID}, userID).
		Count(&owned).Error; err != nil {
		return nil, nil, apperr.DataAccess("accounts could not be verified", err)
	}
	if owned != 2 {
		return nil, nil, apperr.NotFound("account not found")
	}

	// Every owner gets a transfer category provisioned at registration; a
	// missing one is a provisioning defect, not a user error.
	var transferCat models.Category
	err := database.DB.
		Where("user_id = ? AND group_id = ?", userID, config.GetConfig().Report.TransferGroupID).
		First(&transferCat).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, apperr.Configuration("transfer category is not provisioned for this user", err)
	}
	if err != nil {
		return nil, nil, apperr.DataAccess("transfer category could not be resolved", err)
	}

	denom := in.AmountEnd
	if denom.IsZero() {
		denom = in.Amount
	}

	outAmount := in.Amount.Abs().Neg()
	inAmount := in.AmountEnd.Abs()
	if !inAmount.IsPositive() {
		inAmount = in.Amount.Abs()
	}

	out := &models.Movement{
		AccountID:    in.AccountID,
		CategoryID:   transferCat.ID,
		Description:  in.Description,
		Amount:       outAmount,
		Trm:          in.Amount.Div(denom),
		DatePurchase: in.DatePurchase,
		UserID:       userID,
	}
	inn := &models.Movement{
		AccountID:    in.AccountEndID,
		CategoryID:   transferCat.ID,
		Description:  in.Description,
		Amount:       inAmount,
		Trm:          denom.Div(in.Amount),
		DatePurchase: in.DatePurchase,
		UserID:       userID,
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(out).Error; err != nil {
			return err
		}
		inn.TransferID = &out.ID
		return tx.Create(inn).Error
	})
	if err != nil {
		return nil, nil, apperr.DataAccess("transfer was not saved", err)
	}

	return out, inn, nil
}
