package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Account is a money holder (bank, cash, credit...) in exactly one currency,
// owned by exactly one user. InitAmount is the seed balance the account was
// opened with; it participates in opening-balance and period-income
// computations, not in the movement sum.
//
// Soft-deleted accounts keep their historical movements queryable but drop out
// of active listings and of every balance/report aggregation.
type Account struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	Name        string          `json:"name" gorm:"size:100;not null"`
	Description string          `json:"description" gorm:"size:255"`
	BadgeID     uint            `json:"badge_id" gorm:"index;not null"`
	InitAmount  decimal.Decimal `json:"init_amount" gorm:"type:decimal(15,2);not null"`
	Limit       decimal.Decimal `json:"limit" gorm:"column:limit;type:decimal(15,2)"`
	TypeID      uint            `json:"type_id" gorm:"index;not null"`
	UserID      uint            `json:"user_id" gorm:"index;not null"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	DeletedAt   gorm.DeletedAt  `json:"deleted_at,omitempty" gorm:"index"`

	Currency *Currency    `json:"currency,omitempty" gorm:"foreignKey:BadgeID"`
	Type     *AccountType `json:"type,omitempty" gorm:"foreignKey:TypeID"`

	// Display projections filled by handlers, never persisted.
	Balance   *decimal.Decimal `json:"balance,omitempty" gorm:"-"`
	Income    *decimal.Decimal `json:"income,omitempty" gorm:"-"`
	Expensive *decimal.Decimal `json:"expensive,omitempty" gorm:"-"`
}

// TableName sets the table name.
func (Account) TableName() string {
	return "accounts"
}
