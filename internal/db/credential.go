package db

import (
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Credential 是唯一的后台登录凭据。
type Credential struct {
	ID       int64  `gorm:"column:id;primaryKey"`
	Username string `gorm:"column:Username;not null"`
	Password string `gorm:"column:Password;not null"`
}

func (Credential) TableName() string { return "Credentials" }

// HashPassword 生成 bcrypt 哈希。
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// EnsureCredential 在凭据表为空且提供了用户名与密码时写入一条 bcrypt 凭据。
func EnsureCredential(gdb *gorm.DB, username, password string) error {
	trimmedUser := strings.TrimSpace(username)
	trimmedPassword := strings.TrimSpace(password)
	if trimmedUser == "" || trimmedPassword == "" {
		return nil
	}

	if gdb == nil {
		return errors.New("database not initialized")
	}

	var count int64
	if err := gdb.Model(&Credential{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hashed, err := HashPassword(trimmedPassword)
	if err != nil {
		return err
	}
	return gdb.Create(&Credential{Username: trimmedUser, Password: hashed}).Error
}
