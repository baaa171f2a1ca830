package models

import "time"

// Group is the coarse classification layer above Category (e.g. "Transfers",
// "Needs", "Wants"). Seeded reference data; group ids at or below the
// configured reserved cutoff mark system groups that are excluded from
// analytics rollups.
type Group struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"size:50;not null;uniqueIndex"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName sets the table name.
func (Group) TableName() string {
	return "groups"
}
