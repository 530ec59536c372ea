package service

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// reader 为只读查询附加语句超时。
type reader struct {
	db      *gorm.DB
	timeout time.Duration
}

func (r reader) session(ctx context.Context) (*gorm.DB, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	if r.timeout <= 0 {
		return r.db.WithContext(ctx), func() {}
	}
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	return r.db.WithContext(ctx), cancel
}
