package service

import (
	"time"

	"cartera/apperr"
	"cartera/database"
	"cartera/models"

	"github.com/shopspring/decimal"
)

// BalanceService computes signed movement sums. Soft-deleted movements and
// accounts never contribute; sums collapse to zero instead of null when no
// rows match.
type BalanceService struct{}

// NewBalanceService creates a balance service.
func NewBalanceService() *BalanceService {
	return &BalanceService{}
}

// BalanceFilter narrows a balance query. Zero values mean "no filter"; AsOf
// sets an inclusive upper bound on the purchase date.
type BalanceFilter struct {
	AccountID uint
	EventID   uint
	BadgeID   uint
	AsOf      *time.Time
}

const dateLayout = "2006-01-02"

// Sum returns the signed sum of the owner's non-deleted movements matching the
// filter. Used for per-account display balances and event budget remainders.
func (s *BalanceService) Sum(userID uint, f BalanceFilter) (decimal.Decimal, error) {
	q := database.DB.Model(&models.Movement{}).
		Joins("JOIN accounts ON accounts.id = movements.account_id AND accounts.deleted_at IS NULL").
		Where("movements.user_id = ?", userID)
	if f.AccountID != 0 {
		q = q.Where("movements.account_id = ?", f.AccountID)
	}
	if f.EventID != 0 {
		q = q.Where("movements.event_id = ?", f.EventID)
	}
	if f.BadgeID != 0 {
		q = q.Where("accounts.badge_id = ?", f.BadgeID)
	}
	if f.AsOf != nil {
		q = q.Where("DATE(movements.date_purchase) <= ?", f.AsOf.Format(dateLayout))
	}

	var res struct {
		Amount decimal.Decimal
	}
	if err := q.Select("COALESCE(SUM(movements.amount), 0) AS amount").Scan(&res).Error; err != nil {
		return decimal.Zero, apperr.DataAccess("balance could not be retrieved", err)
	}
	return res.Amount, nil
}

// Balances returns the owner's movement sums grouped by currency code and
// badge, matching the filter. The result is empty (never nil) when nothing
// matches.
func (s *BalanceService) Balances(userID uint, f BalanceFilter) ([]models.CurrencyBalance, error) {
	q := database.DB.Model(&models.Movement{}).
		Select("currencies.code AS currency, accounts.badge_id AS badge_id, COALESCE(SUM(movements.amount), 0) AS amount").
		Joins("JOIN accounts ON accounts.id = movements.account_id AND accounts.deleted_at IS NULL").
		Joins("JOIN currencies ON currencies.id = accounts.badge_id").
		Where("movements.user_id = ?", userID)
	if f.AccountID != 0 {
		q = q.Where("movements.account_id = ?", f.AccountID)
	}
	if f.EventID != 0 {
		q = q.Where("movements.event_id = ?", f.EventID)
	}
	if f.BadgeID != 0 {
		q = q.Where("accounts.badge_id = ?", f.BadgeID)
	}
	if f.AsOf != nil {
		q = q.Where("DATE(movements.date_purchase) <= ?", f.AsOf.Format(dateLayout))
	}

	var rows []models.CurrencyBalance
	if err := q.Group("currencies.code, accounts.badge_id").Scan(&rows).Error; err != nil {
		return nil, apperr.DataAccess("balances could not be retrieved", err)
	}
	if rows == nil {
		rows = []models.CurrencyBalance{}
	}
	return rows, nil
}

// AccountBalances returns the current balance of every active account of the
// owner: init_amount plus the sum of its non-deleted movements.
func (s *BalanceService) AccountBalances(userID uint) ([]models.AccountBalance, error) {
	var rows []models.AccountBalance
	err := database.DB.Model(&models.Account{}).
		Select("accounts.id AS account_id, accounts.name AS name, currencies.code AS currency, type_accounts.name AS type, accounts.init_amount + COALESCE(SUM(movements.amount), 0) AS balance").
		Joins("JOIN currencies ON currencies.id = accounts.badge_id").
		Joins("JOIN type_accounts ON type_accounts.id = accounts.type_id").
		Joins("LEFT JOIN movements ON movements.account_id = accounts.id AND movements.deleted_at IS NULL").
		Where("accounts.user_id = ?", userID).
		Group("accounts.id, accounts.name, currencies.code, type_accounts.name, accounts.init_amount").
		Order("accounts.id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, apperr.DataAccess("balances could not be retrieved", err)
	}
	if rows == nil {
		rows = []models.AccountBalance{}
	}
	return rows, nil
}

// TypeBalances rolls AccountBalances up by account type within each currency
// and appends one total row per currency, tagged models.TypeBalanceTotal.
func (s *BalanceService) TypeBalances(userID uint) ([]models.TypeBalance, error) {
	accounts, err := s.AccountBalances(userID)
	if err != nil {
		return nil, err
	}

	type key struct {
		Type     string
		Currency string
	}
	byType := map[key]decimal.Decimal{}
	totals := map[string]decimal.Decimal{}
	var typeOrder []key
	var currencyOrder []string

	for _, a := range accounts {
		k := key{Type: a.Type, Currency: a.Currency}
		if _, ok := byType[k]; !ok {
			typeOrder = append(typeOrder, k)
		}
		byType[k] = byType[k].Add(a.Balance)
		if _, ok := totals[a.Currency]; !ok {
			currencyOrder = append(currencyOrder, a.Currency)
		}
		totals[a.Currency] = totals[a.Currency].Add(a.Balance)
	}

	rows := make([]models.TypeBalance, 0, len(typeOrder)+len(currencyOrder))
	for _, k := range typeOrder {
		rows = append(rows, models.TypeBalance{Type: k.Type, Currency: k.Currency, Balance: byType[k]})
	}
	for _, code := range currencyOrder {
		rows = append(rows, models.TypeBalance{Type: models.TypeBalanceTotal, Currency: code, Balance: totals[code]})
	}
	return rows, nil
}
