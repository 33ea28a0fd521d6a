package model

import (
	"time"

	"gorm.io/datatypes"
)

// Seller owns products and a profile; both go away with it.
type Seller struct {
	BaseModel
	Name     string  `gorm:"size:100;not null;index;index:idx_seller_email_name,priority:2"`
	Email    string  `gorm:"size:255;not null;uniqueIndex;index:idx_seller_email_name,priority:1"`
	Password string  `gorm:"size:255;not null"` // bcrypt hash
	Phone    *string `gorm:"size:20"`
	Address  *string `gorm:"type:text"`

	Products []Product      `gorm:"foreignKey:SellerID;constraint:OnDelete:CASCADE"`
	Profile  *SellerProfile `gorm:"foreignKey:SellerID;constraint:OnDelete:CASCADE"`
}

func (Seller) TableName() string {
	return "sellers"
}

type SellerProfile struct {
	BaseModel
	UpdatedAt   time.Time      `gorm:"not null"`
	SellerID    int64          `gorm:"not null;uniqueIndex"`
	Bio         *string        `gorm:"type:text"`
	Website     *string        `gorm:"size:255"`
	SocialMedia datatypes.JSON // {"twitter": "...", ...}
}

func (SellerProfile) TableName() string {
	return "seller_profiles"
}

// SellerFollower is the self-referential follow edge: Follower follows Following.
type SellerFollower struct {
	FollowerID  int64     `gorm:"primaryKey;autoIncrement:false"`
	FollowingID int64     `gorm:"primaryKey;autoIncrement:false"`
	CreatedAt   time.Time `gorm:"not null"`

	Follower  *Seller `gorm:"foreignKey:FollowerID;constraint:OnDelete:CASCADE"`
	Following *Seller `gorm:"foreignKey:FollowingID;constraint:OnDelete:CASCADE"`
}

func (SellerFollower) TableName() string {
	return "seller_followers"
}
