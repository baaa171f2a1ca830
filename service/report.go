package service

import (
	"time"

	"cartera/apperr"
	"cartera/config"
	"cartera/database"
	"cartera/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OpenClose is the period headline: income, expense (negative) and net change,
// all after the init-amount and opening-balance adjustments.
type OpenClose struct {
	Income      decimal.Decimal `json:"income"`
	Expensive   decimal.Decimal `json:"expensive"`
	Utility     decimal.Decimal `json:"utility"`
	OpenBalance decimal.Decimal `json:"open_balance"`
}

// CategoryAmount is one row of a per-category rollup.
type CategoryAmount struct {
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
}

// GroupAmount is one row of the group-level rollup.
type GroupAmount struct {
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
}

// BalancePoint is one point of the running balance series.
type BalancePoint struct {
	Date   string          `json:"date"`
	Amount decimal.Decimal `json:"amount"`
}

// Report is the full period report, currency-scoped. Field names are the wire
// contract the mobile client depends on.
type Report struct {
	OpenClose      OpenClose        `json:"open_close"`
	Incomes        []CategoryAmount `json:"incomes"`
	MainExpensive  []CategoryAmount `json:"main_expensive"`
	GroupExpensive []GroupAmount    `json:"group_expensive"`
	ListExpensives []CategoryAmount `json:"list_expensives"`
	Balances       []BalancePoint   `json:"balances"`
}

// ReportService produces period financial reports. It is a pipeline of
// independent aggregate queries combined at the end; any store failure aborts
// the whole report, partial results are never returned.
type ReportService struct{}

// NewReportService creates a report service.
func NewReportService() *ReportService {
	return &ReportService{}
}

// dailyNet is one day's transfer-free movement sum.
type dailyNet struct {
	Date   string
	Amount decimal.Decimal
}

// movementAggregate scopes movement aggregations to the owner and currency,
// excluding soft-deleted movements and accounts. Categories are joined without
// a deleted_at filter: a movement keeps counting after its category is
// removed, in every report query alike. Transfers are excluded by the callers
// that need it: they are internal reallocations, not net worth changes.
func movementAggregate(userID, badgeID uint) *gorm.DB {
	return database.DB.Model(&models.Movement{}).
		Joins("JOIN accounts ON accounts.id = movements.account_id AND accounts.deleted_at IS NULL").
		Joins("JOIN categories ON categories.id = movements.category_id").
		Where("movements.user_id = ?", userID).
		Where("accounts.badge_id = ?", badgeID)
}

// Generate computes the report for [initDate, endDate] (inclusive) in the
// given currency.
func (s *ReportService) Generate(userID, badgeID uint, initDate, endDate time.Time) (*Report, error) {
	cfg := config.GetConfig().Report
	init := initDate.Format(dateLayout)
	end := endDate.Format(dateLayout)

	rep := &Report{}

	// Window income / expense / utility, transfers excluded.
	err := movementAggregate(userID, badgeID).
		Where("categories.group_id <> ?", cfg.TransferGroupID).
		Where("DATE(movements.date_purchase) >= ? AND DATE(movements.date_purchase) <= ?", init, end).
		Select("COALESCE(SUM(IF(movements.amount > 0, movements.amount, 0)), 0) AS income, " +
			"COALESCE(SUM(IF(movements.amount < 0, movements.amount, 0)), 0) AS expensive, " +
			"COALESCE(SUM(movements.amount), 0) AS utility").
		Scan(&rep.OpenClose).Error
	if err != nil {
		return nil, apperr.DataAccess("report could not be generated", err)
	}

	// Net of everything strictly before the window, transfers excluded.
	var openBalance struct{ Amount decimal.Decimal }
	err = movementAggregate(userID, badgeID).
		Where("categories.group_id <> ?", cfg.TransferGroupID).
		Where("DATE(movements.date_purchase) < ?", init).
		Select("COALESCE(SUM(movements.amount), 0) AS amount").
		Scan(&openBalance).Error
	if err != nil {
		return nil, apperr.DataAccess("report could not be generated", err)
	}

	// Seed amounts of accounts opened before the window. Soft-deleted accounts
	// count too: their seed money still happened.
	var openInit struct{ Amount decimal.Decimal }
	err = database.DB.Model(&models.Account{}).Unscoped().
		Where("user_id = ? AND badge_id = ?", userID, badgeID).
		Where("DATE(created_at) < ?", init).
		Select("COALESCE(SUM(init_amount), 0) AS amount").
		Scan(&openInit).Error
	if err != nil {
		return nil, apperr.DataAccess("report could not be generated", err)
	}

	// Seed amounts of live accounts opened inside the window count as period
	// income.
	var windowInit struct{ Amount decimal.Decimal }
	err = database.DB.Model(&models.Account{}).
		Where("user_id = ? AND badge_id = ?", userID, badgeID).
		Where("DATE(created_at) >= ? AND DATE(created_at) <= ?", init, end).
		Select("COALESCE(SUM(init_amount), 0) AS amount").
		Scan(&windowInit).Error
	if err != nil {
		return nil, apperr.DataAccess("report could not be generated", err)
	}

	opening := openBalance.Amount.Add(openInit.Amount)
	rep.OpenClose.OpenBalance = opening
	rep.OpenClose.Income = rep.OpenClose.Income.Add(windowInit.Amount)
	rep.OpenClose.Utility = rep.OpenClose.Utility.Add(windowInit.Amount).Add(opening)

	// Income by category, largest first.
	err = movementAggregate(userID, badgeID).
		Where("categories.group_id <> ?", cfg.TransferGroupID).
		Where("movements.amount > 0").
		Where("DATE(movements.date_purchase) >= ? AND DATE(movements.date_purchase) <= ?", init, end).
		Select("categories.name AS category, COALESCE(SUM(movements.amount), 0) AS amount").
		Group("categories.name").
		Order("SUM(movements.amount) DESC").
		Scan(&rep.Incomes).Error
	if err != nil {
		return nil, apperr.DataAccess("report could not be generated", err)
	}

	// Expense by category, most negative first.
	err = movementAggregate(userID, badgeID).
		Where("categories.group_id <> ?", cfg.TransferGroupID).
		Where("movements.amount < 0").
		Where("DATE(movements.date_purchase) >= ? AND DATE(movements.date_purchase) <= ?", init, end).
		Select("categories.name AS category, COALESCE(SUM(movements.amount), 0) AS amount").
		Group("categories.name").
		Order("SUM(movements.amount) ASC").
		Scan(&rep.ListExpensives).Error
	if err != nil {
		return nil, apperr.DataAccess("report could not be generated", err)
	}

	// Top-level category rollup: a leaf with a parent reports under the
	// parent's name. Reserved system groups are cut off below the configured
	// id; amounts are absolute and rounded to whole units.
	err = database.DB.Table("categories AS a").
		Select("IF(a.category_id IS NULL, a.name, b.name) AS category, CAST(ROUND(ABS(SUM(movements.amount))) AS DECIMAL(15,2)) AS amount").
		Joins("LEFT JOIN categories AS b ON a.category_id = b.id").
		Joins("JOIN movements ON movements.category_id = a.id AND movements.deleted_at IS NULL").
		Joins("JOIN accounts ON accounts.id = movements.account_id AND accounts.deleted_at IS NULL").
		Where("a.user_id = ?", userID).
		Where("a.group_id > ?", cfg.ReservedGroupMaxID).
		Where("accounts.badge_id = ?", badgeID).
		Where("DATE(movements.date_purchase) >= ? AND DATE(movements.date_purchase) <= ?", init, end).
		Group("IF(a.category_id IS NULL, a.name, b.name)").
		Order("amount DESC").
		Scan(&rep.MainExpensive).Error
	if err != nil {
		return nil, apperr.DataAccess("report could not be generated", err)
	}

	// Group rollup, transfers excluded, rounded to whole units.
	err = database.DB.Table("categories AS a").
		Select("b.name AS name, CAST(ROUND(SUM(movements.amount)) AS DECIMAL(15,2)) AS amount").
		Joins("JOIN `groups` AS b ON b.id = a.group_id").
		Joins("JOIN movements ON movements.category_id = a.id AND movements.deleted_at IS NULL").
		Joins("JOIN accounts ON accounts.id = movements.account_id AND accounts.deleted_at IS NULL").
		Where("a.user_id = ?", userID).
		Where("a.group_id <> ?", cfg.TransferGroupID).
		Where("accounts.badge_id = ?", badgeID).
		Where("DATE(movements.date_purchase) >= ? AND DATE(movements.date_purchase) <= ?", init, end).
		Group("b.name").
		Order("amount DESC").
		Scan(&rep.GroupExpensive).Error
	if err != nil {
		return nil, apperr.DataAccess("report could not be generated", err)
	}

	// Per-day nets across the window, folded into a running series seeded
	// with the opening balance.
	var nets []dailyNet
	err = movementAggregate(userID, badgeID).
		Where("categories.group_id <> ?", cfg.TransferGroupID).
		Where("DATE(movements.date_purchase) >= ? AND DATE(movements.date_purchase) <= ?", init, end).
		Select("DATE_FORMAT(movements.date_purchase, '%Y-%m-%d') AS date, COALESCE(SUM(movements.amount), 0) AS amount").
		Group("DATE_FORMAT(movements.date_purchase, '%Y-%m-%d')").
		Order("date ASC").
		Scan(&nets).Error
	if err != nil {
		return nil, apperr.DataAccess("report could not be generated", err)
	}
	rep.Balances = runningBalances(opening, nets)

	if rep.Incomes == nil {
		rep.Incomes = []CategoryAmount{}
	}
	if rep.ListExpensives == nil {
		rep.ListExpensives = []CategoryAmount{}
	}
	if rep.MainExpensive == nil {
		rep.MainExpensive = []CategoryAmount{}
	}
	if rep.GroupExpensive == nil {
		rep.GroupExpensive = []GroupAmount{}
	}

	return rep, nil
}

// runningBalances folds per-day nets into cumulative balance points, starting
// from the opening balance.
func runningBalances(opening decimal.Decimal, nets []dailyNet) []BalancePoint {
	points := make([]BalancePoint, 0, len(nets))
	running := opening
	for _, n := range nets {
		running = running.Add(n.Amount)
		points = append(points, BalancePoint{Date: n.Date, Amount: running})
	}
	return points
}
