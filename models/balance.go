package models

import "github.com/shopspring/decimal"

// CurrencyBalance is a signed movement sum scoped to one currency.
type CurrencyBalance struct {
	Currency string          `json:"currency"`
	BadgeID  uint            `json:"badge_id"`
	Amount   decimal.Decimal `json:"amount"`
}

// AccountBalance is the current balance of one account:
// init_amount + sum of its non-deleted movements.
type AccountBalance struct {
	AccountID uint            `json:"account_id"`
	Name      string          `json:"name"`
	Currency  string          `json:"currency"`
	Type      string          `json:"type"`
	Balance   decimal.Decimal `json:"balance"`
}

// TypeBalance is a balance rolled up by account type within one currency. The
// month-year listing appends per-currency rows with Type set to
// TypeBalanceTotal.
type TypeBalance struct {
	Type     string          `json:"type"`
	Currency string          `json:"currency"`
	Balance  decimal.Decimal `json:"balance"`
}

// TypeBalanceTotal marks the appended per-currency total rows.
const TypeBalanceTotal = "total"
