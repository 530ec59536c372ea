package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goatwiki/internal/content"
	"github.com/goatwiki/internal/db"
	"github.com/microcosm-cc/bluemonday"
	"gorm.io/gorm"
)

var ErrOthersNotFound = errors.New("page not found")

// OthersService 管理关于、隐私政策与服务条款三个单页。
type OthersService struct {
	db        *gorm.DB
	read      reader
	sanitizer *bluemonday.Policy
}

// NewOthersService creates an OthersService instance.
func NewOthersService(gdb *gorm.DB, queryTimeout time.Duration) *OthersService {
	return &OthersService{db: gdb, read: reader{db: gdb, timeout: queryTimeout}}
}

// WithSanitizer 为上传内容启用 HTML 清洗。
func (s *OthersService) WithSanitizer(policy *bluemonday.Policy) *OthersService {
	s.sanitizer = policy
	return s
}

// Public returns the page with synthesized Para/Head keys.
func (s *OthersService) Public(ctx context.Context, title string) (*content.Document, error) {
	page, err := s.load(ctx, title)
	if err != nil {
		return nil, err
	}
	return page.PublicDocument(), nil
}

// Admin returns the page in the editor shape.
func (s *OthersService) Admin(ctx context.Context, title string) (*content.Document, error) {
	page, err := s.load(ctx, title)
	if err != nil {
		return nil, err
	}
	index := 0
	for i, t := range content.OthersTitles {
		if t == title {
			index = i
		}
	}
	return page.AdminDocument(index), nil
}

func (s *OthersService) load(ctx context.Context, title string) (*content.OthersPage, error) {
	if !content.ValidOthersTitle(title) {
		return nil, ErrOthersNotFound
	}
	tx, cancel := s.read.session(ctx)
	defer cancel()

	var records []db.Other
	if err := tx.Where("Title = ?", title).Order("OrderNum").Order("id").Find(&records).Error; err != nil {
		return nil, err
	}
	rows := make([]content.OthersRow, 0, len(records))
	for _, r := range records {
		rows = append(rows, content.OthersRow{Title: r.Title, SectionType: r.SectionType, Content: r.Content, Order: r.OrderNum, UpdatedAt: r.Updated})
	}
	page, ok := content.GroupOthers(rows)[title]
	if !ok {
		return nil, ErrOthersNotFound
	}
	return page, nil
}

// Replace 删除页面的全部段落并写入新内容，整体在一个事务中完成。
func (s *OthersService) Replace(ctx context.Context, upload content.OthersUpload) error {
	rows, err := upload.Rows()
	if err != nil {
		return err
	}
	records := make([]db.Other, 0, len(rows))
	for _, r := range rows {
		records = append(records, db.Other{
			Title:       r.Title,
			SectionType: r.SectionType,
			Content:     sanitizeText(s.sanitizer, r.Content),
			OrderNum:    r.Order,
			Updated:     r.UpdatedAt,
		})
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("Title = ?", upload.Title).Delete(&db.Other{}).Error; err != nil {
			return fmt.Errorf("clear page %s: %w", upload.Title, err)
		}
		if len(records) == 0 {
			return nil
		}
		return tx.Create(&records).Error
	})
}
