package model

const (
	MinRating = 1
	MaxRating = 5
)

type Review struct {
	BaseModel
	ProductID int64   `gorm:"not null;index:idx_review_product_rating,priority:1"`
	UserID    *int64  `gorm:"index"` // optional; cleared when the user is deleted
	Rating    int     `gorm:"not null;index:idx_review_product_rating,priority:2;check:check_rating_range,rating >= 1 AND rating <= 5"`
	Comment   *string `gorm:"type:text"`

	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:SET NULL"`
}

func (Review) TableName() string {
	return "reviews"
}
