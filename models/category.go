package models

import (
	"time"

	"gorm.io/gorm"
)

// Category classifies movements. The hierarchy is one level deep: a category
// may point at a parent category through ParentID (column category_id), and
// the main-expense rollup reports under the parent's name when one is set.
//
// Every owner has exactly one category in the reserved transfer group; it is
// provisioned at registration and is never user-selectable for ordinary
// income/expense movements.
type Category struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	Name      string         `json:"name" gorm:"size:100;not null"`
	UserID    uint           `json:"user_id" gorm:"index;not null"`
	GroupID   uint           `json:"group_id" gorm:"index;not null"`
	ParentID  *uint          `json:"category_id" gorm:"column:category_id;index"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	Group  *Group    `json:"group,omitempty" gorm:"foreignKey:GroupID"`
	Parent *Category `json:"parent,omitempty" gorm:"foreignKey:ParentID"`
}

// TableName sets the table name.
func (Category) TableName() string {
	return "categories"
}
