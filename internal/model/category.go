package model

// Category is a self-referential tree; deleting a parent detaches its children.
type Category struct {
	BaseModel
	Name        string  `gorm:"size:50;not null;uniqueIndex"`
	Description *string `gorm:"type:text"`
	ParentID    *int64  `gorm:"index"`

	Subcategories []Category `gorm:"foreignKey:ParentID;constraint:OnDelete:SET NULL"`
}

func (Category) TableName() string {
	return "categories"
}
