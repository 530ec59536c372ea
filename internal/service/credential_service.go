package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"
	"time"

	"github.com/goatwiki/internal/db"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmptyCredentials   = errors.New("username and password are required")
)

// CredentialService 管理唯一的后台凭据。
type CredentialService struct {
	db   *gorm.DB
	read reader
}

// NewCredentialService creates a CredentialService instance.
func NewCredentialService(gdb *gorm.DB, queryTimeout time.Duration) *CredentialService {
	return &CredentialService{db: gdb, read: reader{db: gdb, timeout: queryTimeout}}
}

// Verify 校验用户名与密码。bcrypt 哈希按哈希比较，旧的明文记录按常量时间比较。
func (s *CredentialService) Verify(ctx context.Context, username, password string) error {
	tx, cancel := s.read.session(ctx)
	defer cancel()

	var cred db.Credential
	if err := tx.Order("id").First(&cred).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvalidCredentials
		}
		return err
	}

	if subtle.ConstantTimeCompare([]byte(cred.Username), []byte(username)) != 1 {
		return ErrInvalidCredentials
	}
	if isBcryptHash(cred.Password) {
		if err := bcrypt.CompareHashAndPassword([]byte(cred.Password), []byte(password)); err != nil {
			return ErrInvalidCredentials
		}
		return nil
	}
	if subtle.ConstantTimeCompare([]byte(cred.Password), []byte(password)) != 1 {
		return ErrInvalidCredentials
	}
	return nil
}

// Replace 在一个事务中删除旧凭据并写入新凭据，任意时刻只有一条记录。
func (s *CredentialService) Replace(ctx context.Context, username, password string) error {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return ErrEmptyCredentials
	}
	hashed, err := db.HashPassword(password)
	if err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&db.Credential{}).Error; err != nil {
			return err
		}
		return tx.Create(&db.Credential{Username: username, Password: hashed}).Error
	})
}

func isBcryptHash(value string) bool {
	return strings.HasPrefix(value, "$2a$") || strings.HasPrefix(value, "$2b$") || strings.HasPrefix(value, "$2y$")
}
