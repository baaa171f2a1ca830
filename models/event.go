package models

import (
	"time"

	"gorm.io/gorm"
)

// Event is an optional tag grouping movements for scoped balances, e.g. a trip
// budget. An event is "active" while its end date has not passed.
type Event struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	Name      string         `json:"name" gorm:"size:100;not null"`
	UserID    uint           `json:"user_id" gorm:"index;not null"`
	EndEvent  time.Time      `json:"end_event" gorm:"type:date;not null"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	Movements []Movement `json:"movements,omitempty" gorm:"foreignKey:EventID"`

	// Per-currency movement sums, filled by handlers for display.
	Balance []CurrencyBalance `json:"balance,omitempty" gorm:"-"`
}

// TableName sets the table name.
func (Event) TableName() string {
	return "events"
}
