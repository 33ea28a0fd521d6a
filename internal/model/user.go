package model

type User struct {
	BaseModel
	Username string `gorm:"size:50;not null;uniqueIndex"`
	Email    string `gorm:"size:255;not null;uniqueIndex"`
}

func (User) TableName() string {
	return "users"
}
