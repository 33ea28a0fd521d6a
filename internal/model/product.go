package model

import "time"

const (
	ProductStatusActive   = "active"
	ProductStatusInactive = "inactive"
	ProductStatusDraft    = "draft"
)

// ProductStatuses is the allowed set for products.status.
var ProductStatuses = []string{ProductStatusActive, ProductStatusInactive, ProductStatusDraft}

// ExpensiveThreshold is the price above which a product counts as expensive.
const ExpensiveThreshold = 100.0

type Product struct {
	BaseModel
	UpdatedAt   time.Time `gorm:"not null"`
	Name        string    `gorm:"size:100;not null;index;index:idx_product_price_name,priority:2;uniqueIndex:uq_product_name_seller,priority:1"`
	Description *string   `gorm:"type:text"`
	Price       float64   `gorm:"not null;index;index:idx_product_price_name,priority:1;check:check_positive_price,price >= 0"`
	Status      string    `gorm:"size:20;not null;default:'active';index:idx_product_seller_status,priority:2;check:check_valid_status,status IN ('active','inactive','draft')"`
	SellerID    int64     `gorm:"not null;index:idx_product_seller_status,priority:1;uniqueIndex:uq_product_name_seller,priority:2"`

	Seller     *Seller    `gorm:"foreignKey:SellerID"`
	Categories []Category `gorm:"many2many:product_category"`
	Inventory  *Inventory `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	Reviews    []Review   `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
}

func (Product) TableName() string {
	return "products"
}

// IsExpensive is the in-process form of the expensive predicate.
// The query form lives in repository.ProductFilter.
func (p *Product) IsExpensive() bool {
	return IsExpensivePrice(p.Price)
}

func IsExpensivePrice(price float64) bool {
	return price > ExpensiveThreshold
}

func IsValidProductStatus(s string) bool {
	for _, v := range ProductStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// ProductCategory is the product <-> category association row.
type ProductCategory struct {
	ProductID  int64     `gorm:"primaryKey;autoIncrement:false"`
	CategoryID int64     `gorm:"primaryKey;autoIncrement:false"`
	CreatedAt  time.Time `gorm:"not null"`

	Product  *Product  `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	Category *Category `gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE"`
}

func (ProductCategory) TableName() string {
	return "product_category"
}
