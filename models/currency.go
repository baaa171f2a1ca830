package models

import "time"

// Currency is seeded reference data; the application never writes it after
// startup.
type Currency struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Code      string    `json:"code" gorm:"size:10;not null;uniqueIndex"` // ISO code, e.g. "USD"
	Name      string    `json:"name" gorm:"size:50;not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName sets the table name.
func (Currency) TableName() string {
	return "currencies"
}
