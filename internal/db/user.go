package db

import (
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// User 定义了用户模型。软删除由 gorm.Model 的 DeletedAt 承担，
// 所有查询默认只返回未删除的记录。
type User struct {
	gorm.Model
	Email        string `gorm:"size:255;uniqueIndex;not null"`
	PasswordHash string `gorm:"size:255;not null"`
	Username     string `gorm:"size:100;not null"`
	IsActive     bool   `gorm:"not null;default:true"`
	IsAdmin      bool   `gorm:"not null;default:false"`
}

// EnsureRootUser 存在性检查：若提供的邮箱与密码均非空且不存在对应账号，
// 则创建一个 bcrypt 哈希的初始用户。
func EnsureRootUser(email, username, password string) error {
	trimmedEmail := strings.TrimSpace(email)
	trimmedName := strings.TrimSpace(username)
	trimmedPassword := strings.TrimSpace(password)
	if trimmedEmail == "" || trimmedPassword == "" {
		return nil
	}
	if trimmedName == "" {
		trimmedName = "root"
	}

	if DB == nil {
		return errors.New("database not initialized")
	}

	var existing User
	if err := DB.Where("email = ?", trimmedEmail).First(&existing).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		hashed, err := bcrypt.GenerateFromPassword([]byte(trimmedPassword), bcrypt.DefaultCost)
		if err != nil {
			return err
		}

		return DB.Create(&User{
			Email:        trimmedEmail,
			Username:     trimmedName,
			PasswordHash: string(hashed),
			IsActive:     true,
			IsAdmin:      true,
		}).Error
	}

	return nil
}
