package models

import "time"

// AccountType is seeded reference data (bank, cash, credit, savings).
type AccountType struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"size:50;not null;uniqueIndex"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName sets the table name.
func (AccountType) TableName() string {
	return "type_accounts"
}
