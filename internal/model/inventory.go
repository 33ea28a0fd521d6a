package model

// DefaultReorderLevel applies when an inventory is created without one.
const DefaultReorderLevel = 10

// Inventory is one-to-one with Product.
type Inventory struct {
	BaseModel
	ProductID    int64 `gorm:"not null;uniqueIndex"`
	Quantity     int   `gorm:"not null;check:check_positive_quantity,quantity >= 0"`
	ReorderLevel int   `gorm:"not null;check:check_positive_reorder_level,reorder_level >= 0"`
}

func (Inventory) TableName() string {
	return "inventory"
}

func (i *Inventory) NeedsReorder() bool {
	return i.Quantity <= i.ReorderLevel
}
