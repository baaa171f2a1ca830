package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Movement is a signed ledger entry: positive amounts are income/inbound,
// negative amounts are expense/outbound. DatePurchase is when the economic
// event happened, distinct from CreatedAt.
//
// A transfer is exactly two movements sharing category, description and
// date_purchase: the out leg (negative amount, TransferID nil) and the in leg
// (TransferID pointing at the out leg). Trm is the exchange-rate ratio between
// the legs; the in leg's Trm is the reciprocal of the out leg's.
type Movement struct {
	ID           uint            `json:"id" gorm:"primaryKey"`
	AccountID    uint            `json:"account_id" gorm:"index;not null"`
	CategoryID   uint            `json:"category_id" gorm:"index;not null"`
	EventID      *uint           `json:"event_id" gorm:"index"`
	Description  string          `json:"description" gorm:"size:255"`
	Amount       decimal.Decimal `json:"amount" gorm:"type:decimal(15,2);not null"`
	Trm          decimal.Decimal `json:"trm" gorm:"type:decimal(15,6);not null;default:1"`
	DatePurchase time.Time       `json:"date_purchase" gorm:"index;not null"`
	UserID       uint            `json:"user_id" gorm:"index;not null"`
	TransferID   *uint           `json:"transfer_id" gorm:"index"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
	DeletedAt    gorm.DeletedAt  `json:"deleted_at,omitempty" gorm:"index"`

	Account  *Account  `json:"account,omitempty" gorm:"foreignKey:AccountID"`
	Category *Category `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	Event    *Event    `json:"event,omitempty" gorm:"foreignKey:EventID"`
	Transfer *Movement `json:"transfer,omitempty" gorm:"foreignKey:TransferID"`
}

// TableName sets the table name.
func (Movement) TableName() string {
	return "movements"
}

// IsTransferLeg reports whether the movement is the in leg of a transfer pair.
func (m *Movement) IsTransferLeg() bool {
	return m.TransferID != nil
}
