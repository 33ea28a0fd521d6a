package model

import (
	"time"
)

type BaseModel struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

// Tables lists every table in dependency order: a table only references
// tables that appear before it.
func Tables() []interface{} {
	return []interface{}{
		// Accounts
		&User{}, &Seller{}, &SellerProfile{}, &SellerFollower{},
		// Catalog
		&Category{}, &Product{}, &ProductCategory{},
		// Product children
		&Inventory{}, &Review{},
	}
}
