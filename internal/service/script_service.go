package service

import (
	"context"
	"fmt"
	"time"

	"github.com/goatwiki/internal/content"
	"github.com/goatwiki/internal/db"
	"gorm.io/gorm"
)

// ScriptService stores the script snippets injected by the front end.
type ScriptService struct {
	db   *gorm.DB
	read reader
}

// NewScriptService creates a ScriptService instance.
func NewScriptService(gdb *gorm.DB, queryTimeout time.Duration) *ScriptService {
	return &ScriptService{db: gdb, read: reader{db: gdb, timeout: queryTimeout}}
}

// List returns the scripts grouped by category.
func (s *ScriptService) List(ctx context.Context) ([]content.ScriptGroup, error) {
	tx, cancel := s.read.session(ctx)
	defer cancel()

	var records []db.Script
	if err := tx.Order("id").Find(&records).Error; err != nil {
		return nil, err
	}
	rows := make([]content.ScriptRow, 0, len(records))
	for _, r := range records {
		rows = append(rows, content.ScriptRow{ID: r.ID, Category: r.ScriptCategory, Type: r.ScriptType, Content: r.ScriptContent})
	}
	return content.GroupScripts(rows), nil
}

// Replace swaps every snippet of the uploaded category.
func (s *ScriptService) Replace(ctx context.Context, upload content.ScriptUpload) error {
	rows, err := upload.Rows()
	if err != nil {
		return err
	}
	records := make([]db.Script, 0, len(rows))
	for _, r := range rows {
		records = append(records, db.Script{ID: r.ID, ScriptCategory: r.Category, ScriptType: r.Type, ScriptContent: r.Content})
	}

	category := rows[0].Category
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("ScriptCategory = ?", category).Delete(&db.Script{}).Error; err != nil {
			return fmt.Errorf("clear scripts %s: %w", category, err)
		}
		return tx.Create(&records).Error
	})
}
