package db

import "gorm.io/gorm"

// Board 定义了帖子模型
type Board struct {
	gorm.Model
	UserID    uint   `gorm:"index;not null"`
	User      User
	Title     string `gorm:"size:200;not null"`
	Content   string `gorm:"type:text;not null"`
	ViewCount int    `gorm:"not null;default:0"`
}
